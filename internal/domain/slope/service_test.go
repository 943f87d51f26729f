package slope

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ecoscope/siagatani/internal/domain/catalog"
	"github.com/ecoscope/siagatani/internal/domain/report"
	apperrors "github.com/ecoscope/siagatani/pkg/errors"
)

func TestClassifyRisk(t *testing.T) {
	cases := map[float64]string{
		35: RiskHigh,
		30: RiskHigh,
		29: RiskMedium,
		22: RiskMedium,
		20: RiskLow,
		18: RiskLow,
		0:  RiskLow,
	}
	for slope, want := range cases {
		require.Equal(t, want, ClassifyRisk(slope), "slope %v", slope)
	}
	require.Equal(t, "Tinggi", RiskLabel(RiskHigh))
	require.Equal(t, "", RiskLabel("unknown"))
}

func TestServiceSitesDeriveRisk(t *testing.T) {
	svc, _ := newServiceUnderTest(t)

	sites, err := svc.Sites(context.Background())
	require.NoError(t, err)
	require.Len(t, sites, 3)
	require.Equal(t, RiskHigh, sites[0].Risk)
	require.Equal(t, RiskMedium, sites[1].Risk)
	require.Equal(t, RiskLow, sites[2].Risk)

	_, err = svc.Site(context.Background(), "atlantis")
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestServiceSendAlertBasarnas(t *testing.T) {
	svc, queue := newServiceUnderTest(t)

	alert, err := svc.SendAlert(context.Background(), AlertRequest{SiteID: "kejajar", Channel: "BASARNAS", Actor: "u-1"})
	require.NoError(t, err)
	require.Equal(t, "alert-1", alert.ID)
	require.Equal(t, AlertQueued, alert.Status)
	require.Empty(t, alert.ShareURL)
	require.Contains(t, alert.Message, "ALERT POTENSI LONGSOR\nLokasi: Desa Kejajar")
	require.Contains(t, alert.Message, "Koordinat: -7.2346, 109.8973")
	require.Contains(t, alert.Message, "Tindakan: Hindari aktivitas berat, Monitoring ketat")

	require.Len(t, queue.jobs, 1)
	require.Equal(t, JobAlert, queue.jobs[0].name)

	svc.HandleJob(context.Background(), JobAlert, queue.jobs[0].payload)
	alerts := svc.Alerts(context.Background())
	require.Len(t, alerts, 1)
	require.Equal(t, AlertSent, alerts[0].Status)
	require.Equal(t, "u-1", alerts[0].SentBy)
}

func TestServiceSendAlertBasarnasRequiresHighRisk(t *testing.T) {
	svc, queue := newServiceUnderTest(t)

	_, err := svc.SendAlert(context.Background(), AlertRequest{SiteID: "sembungan", Channel: ChannelBasarnas})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	require.Empty(t, queue.jobs)
	require.Empty(t, svc.Alerts(context.Background()))
}

func TestServiceSendAlertCommunity(t *testing.T) {
	svc, _ := newServiceUnderTest(t)

	alert, err := svc.SendAlert(context.Background(), AlertRequest{SiteID: "garung", Channel: ChannelCommunity})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(alert.ShareURL, "https://wa.me/628123456789?text="))

	parsed, err := url.Parse(alert.ShareURL)
	require.NoError(t, err)
	text := parsed.Query().Get("text")
	require.Contains(t, text, "Status Risiko: RENDAH")
	require.Contains(t, text, "TETAP WASPADA!")
	require.Contains(t, text, "• Tetap jaga drainase")
}

func TestServiceSendAlertValidatesChannel(t *testing.T) {
	svc, _ := newServiceUnderTest(t)

	_, err := svc.SendAlert(context.Background(), AlertRequest{SiteID: "kejajar", Channel: "fax"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.SendAlert(context.Background(), AlertRequest{SiteID: "nowhere", Channel: ChannelCommunity})
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestServiceSendAlertQueueFailure(t *testing.T) {
	svc, queue := newServiceUnderTest(t)
	queue.err = errors.New("valkey down")

	_, err := svc.SendAlert(context.Background(), AlertRequest{SiteID: "kejajar", Channel: ChannelBasarnas})
	require.True(t, apperrors.IsCode(err, "queue_unavailable"))
	require.Equal(t, AlertFailed, svc.Alerts(context.Background())[0].Status)
}

func TestServiceReport(t *testing.T) {
	svc, _ := newServiceUnderTest(t)
	reports := svc.reports.(*stubReports)

	rep, err := svc.Report(context.Background(), "sembungan")
	require.NoError(t, err)
	require.Equal(t, report.KindSlopeAnalysis, rep.Kind)
	require.Equal(t, "Desa Sembungan", reports.slug)
	require.Contains(t, reports.content, "Kemiringan     : 22%")
	require.Contains(t, reports.content, "Status Risiko  : Sedang")
	require.Contains(t, reports.content, "RISIKO SEDANG - Monitoring diperlukan")
	require.Contains(t, reports.content, "1. Tanam tanaman penutup tanah\n2. Buat saluran drainase")
}

func TestInternationalNumber(t *testing.T) {
	require.Equal(t, "628123456789", internationalNumber("0812-3456-789"))
	require.Equal(t, "628111", internationalNumber("+62 8111"))
}

func newServiceUnderTest(t *testing.T) (*service, *stubQueue) {
	t.Helper()
	provider := &stubCatalog{rows: map[string]any{
		"slope_sites": []Site{
			{ID: "kejajar", Name: "Desa Kejajar", Latitude: -7.2346, Longitude: 109.8973, Slope: 30, Suggestions: []string{"Hindari aktivitas berat", "Monitoring ketat"}},
			{ID: "sembungan", Name: "Desa Sembungan", Latitude: -7.251, Longitude: 109.9189, Slope: 22, Suggestions: []string{"Tanam tanaman penutup tanah", "Buat saluran drainase"}},
			{ID: "garung", Name: "Desa Garung", Latitude: -7.3113, Longitude: 109.9168, Slope: 18, Suggestions: []string{"Kondisi aman untuk pertanian", "Tetap jaga drainase"}},
		},
		"emergency_contacts": []Contact{
			{Name: "BASARNAS Purwokerto", Type: "emergency", Phone: "0281-123456"},
			{Name: "Komunitas Siaga Bencana", Type: "community", WhatsApp: "08123456789"},
		},
	}}
	queue := &stubQueue{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(provider, &stubReports{}, queue, logger).(*service)
	svc.now = func() time.Time { return time.Date(2025, 8, 1, 1, 0, 0, 0, time.UTC) }
	var n int
	svc.newID = func() string {
		n++
		return "alert-" + strconv.Itoa(n)
	}
	return svc, queue
}

type stubCatalog struct {
	rows map[string]any
}

func (s *stubCatalog) Load(_ context.Context, key string, dst any) error {
	rows, ok := s.rows[key]
	if !ok {
		return catalog.ErrNotFound
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

type queuedJob struct {
	name    string
	payload map[string]any
}

type stubQueue struct {
	mu   sync.Mutex
	jobs []queuedJob
	err  error
}

func (q *stubQueue) Enqueue(_ context.Context, name string, payload any) error {
	if q.err != nil {
		return q.err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	typed, _ := payload.(map[string]any)
	q.jobs = append(q.jobs, queuedJob{name: name, payload: typed})
	return nil
}

type stubReports struct {
	slug    string
	content string
}

func (s *stubReports) Save(_ context.Context, kind, slug, content string) (report.Report, error) {
	s.slug, s.content = slug, content
	return report.Report{ID: "r-1", Kind: kind}, nil
}

func (s *stubReports) Get(context.Context, string) (report.Report, []byte, error) {
	return report.Report{}, nil, nil
}
