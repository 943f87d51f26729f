package forecast

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/ecoscope/siagatani/pkg/errors"
)

func TestServiceLoadSuccess(t *testing.T) {
	client := &stubClient{forecasts: map[string]Forecast{
		"33.07.13.1008": {
			Location: Location{Code: "33.07.13.1008", Village: "Kejajar"},
			Days:     [][]Reading{{reading(t, "2025-08-01 07:00", 24, 80, "Cerah"), reading(t, "2025-08-01 13:00", 30, 60, "Cerah")}},
		},
	}}
	svc := newServiceUnderTest(client, nil)

	res, err := svc.Load(context.Background(), " 33.07.13.1008 ")
	require.NoError(t, err)
	require.Equal(t, "Kejajar", res.Location.Village)
	require.Len(t, res.Days, 1)
	require.Len(t, res.Chart, 1)
	require.Equal(t, "24-30°C", res.Days[0].Temp)
	require.Equal(t, []string{"33.07.13.1008"}, client.calls)
}

func TestServiceLoadCollapsesFailures(t *testing.T) {
	cases := map[string]struct {
		err   error
		cause error
	}{
		"network": {err: fmt.Errorf("%w: status=503", ErrNetwork), cause: ErrNetwork},
		"schema":  {err: fmt.Errorf("%w: missing data", ErrSchema), cause: ErrSchema},
		"empty":   {cause: ErrNoData},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			client := &stubClient{err: tc.err, forecasts: map[string]Forecast{"x": {}}}
			svc := newServiceUnderTest(client, nil)

			res, err := svc.Load(context.Background(), "x")
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, "forecast_unavailable"))
			require.Equal(t, "failed to load forecast", apperrors.MessageOf(err))
			require.ErrorIs(t, err, tc.cause)
			require.Empty(t, res.Days)
		})
	}
}

func TestServiceLoadDefaultsLocation(t *testing.T) {
	client := &stubClient{forecasts: map[string]Forecast{
		"33.02.01.2001": {Days: [][]Reading{{reading(t, "2025-08-01 07:00", 24, 80, "Cerah")}}},
	}}
	svc := newServiceUnderTest(client, nil)
	svc.cfg.DefaultLocation = "33.02.01.2001"

	_, err := svc.Load(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, []string{"33.02.01.2001"}, client.calls)

	svc.cfg.DefaultLocation = ""
	_, err = svc.Load(context.Background(), "  ")
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestServiceLoadUsesCache(t *testing.T) {
	client := &stubClient{forecasts: map[string]Forecast{
		"a": {Days: [][]Reading{{reading(t, "2025-08-01 07:00", 24, 80, "Cerah")}}},
	}}
	cache := newStubCache()
	svc := newServiceUnderTest(client, cache)
	svc.cfg.CacheTTL = time.Minute

	_, err := svc.Load(context.Background(), "a")
	require.NoError(t, err)
	_, err = svc.Load(context.Background(), "a")
	require.NoError(t, err)

	require.Len(t, client.calls, 1)
	require.Equal(t, time.Minute, cache.ttl["a"])
}

func TestServiceLoadSkipsCacheWhenDisabled(t *testing.T) {
	client := &stubClient{forecasts: map[string]Forecast{
		"a": {Days: [][]Reading{{reading(t, "2025-08-01 07:00", 24, 80, "Cerah")}}},
	}}
	cache := newStubCache()
	svc := newServiceUnderTest(client, cache)

	_, _ = svc.Load(context.Background(), "a")
	_, _ = svc.Load(context.Background(), "a")

	require.Len(t, client.calls, 2)
	require.Empty(t, cache.entries)
}

func TestServiceSelectTransitions(t *testing.T) {
	client := &stubClient{forecasts: map[string]Forecast{
		"good": {Days: [][]Reading{{reading(t, "2025-08-01 07:00", 24, 80, "Cerah")}}},
	}}
	svc := newServiceUnderTest(client, nil)
	var pending []func()
	svc.spawn = func(fn func()) { pending = append(pending, fn) }

	state, err := svc.Select("view-1", "good")
	require.NoError(t, err)
	require.Equal(t, StatusLoading, state.Status)
	require.Equal(t, uint64(1), state.Generation)

	pending[0]()
	view, err := svc.View("view-1")
	require.NoError(t, err)
	require.Equal(t, StatusReady, view.Status)
	require.NotNil(t, view.Result)
	require.Len(t, view.Result.Days, 1)

	_, err = svc.Select("view-1", "missing")
	require.NoError(t, err)
	pending[1]()
	view, err = svc.View("view-1")
	require.NoError(t, err)
	require.Equal(t, StatusFailed, view.Status)
	require.Nil(t, view.Result)
	require.Equal(t, "failed to load forecast", view.Message)
}

func TestServiceSelectDiscardsStaleResponse(t *testing.T) {
	client := &stubClient{forecasts: map[string]Forecast{
		"old": {Days: [][]Reading{{reading(t, "2025-08-01 07:00", 24, 80, "Cerah")}}},
		"new": {Days: [][]Reading{{reading(t, "2025-08-05 07:00", 20, 90, "Hujan Lebat")}}},
	}}
	svc := newServiceUnderTest(client, nil)
	var pending []func()
	svc.spawn = func(fn func()) { pending = append(pending, fn) }

	_, err := svc.Select("v", "old")
	require.NoError(t, err)
	second, err := svc.Select("v", "new")
	require.NoError(t, err)
	require.Equal(t, uint64(2), second.Generation)

	// newer request resolves first, older one afterwards
	pending[1]()
	pending[0]()

	view, err := svc.View("v")
	require.NoError(t, err)
	require.Equal(t, StatusReady, view.Status)
	require.Equal(t, "new", view.LocationCode)
	require.Equal(t, "2025-08-05", view.Result.Days[0].Date)
}

func TestServiceSelectCancelsSupersededRequest(t *testing.T) {
	started := make(chan struct{})
	client := &blockingClient{started: started}
	svc := newServiceUnderTest(client, nil)
	svc.cfg.SelectionTimeout = 2 * time.Second

	_, err := svc.Select("v", "slow")
	require.NoError(t, err)
	<-started

	_, err = svc.Select("v", "slow")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return client.canceled() >= 1 }, time.Second, 10*time.Millisecond)
}

func TestServiceViewUnknown(t *testing.T) {
	svc := newServiceUnderTest(&stubClient{}, nil)
	_, err := svc.View("nope")
	require.True(t, apperrors.IsCode(err, "not_found"))

	_, err = svc.Select(" ", "x")
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func newServiceUnderTest(client Client, cache Cache) *service {
	svc := NewService(Config{}, client, cache, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	svc.now = func() time.Time { return time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

type stubClient struct {
	mu        sync.Mutex
	forecasts map[string]Forecast
	err       error
	calls     []string
}

func (s *stubClient) Fetch(_ context.Context, code string) (Forecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, code)
	if s.err != nil {
		return Forecast{}, s.err
	}
	fc, ok := s.forecasts[code]
	if !ok {
		return Forecast{}, fmt.Errorf("%w: status=404", ErrNetwork)
	}
	return fc, nil
}

type blockingClient struct {
	mu      sync.Mutex
	started chan struct{}
	once    sync.Once
	cancels int
}

func (b *blockingClient) Fetch(ctx context.Context, _ string) (Forecast, error) {
	b.once.Do(func() { close(b.started) })
	<-ctx.Done()
	b.mu.Lock()
	b.cancels++
	b.mu.Unlock()
	return Forecast{}, ctx.Err()
}

func (b *blockingClient) canceled() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cancels
}

type stubCache struct {
	entries map[string]Forecast
	ttl     map[string]time.Duration
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]Forecast), ttl: make(map[string]time.Duration)}
}

func (s *stubCache) Get(_ context.Context, code string) (Forecast, bool, error) {
	fc, ok := s.entries[code]
	return fc, ok, nil
}

func (s *stubCache) Set(_ context.Context, code string, fc Forecast, ttl time.Duration) error {
	s.entries[code] = fc
	s.ttl[code] = ttl
	return nil
}
