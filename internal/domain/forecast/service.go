package forecast

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/ecoscope/siagatani/pkg/errors"
)

// ErrNoData is returned when a fetched forecast folds into zero days.
var ErrNoData = errors.New("forecast contains no readings")

const defaultSelectionTimeout = 30 * time.Second

// Service exposes forecast loading and per-view selection.
type Service interface {
	Load(ctx context.Context, code string) (Result, error)
	Select(viewID, code string) (ViewState, error)
	View(viewID string) (ViewState, error)
}

// Client fetches the raw forecast for an administrative area code.
type Client interface {
	Fetch(ctx context.Context, code string) (Forecast, error)
}

// Cache stores decoded forecasts between requests.
type Cache interface {
	Get(ctx context.Context, code string) (Forecast, bool, error)
	Set(ctx context.Context, code string, fc Forecast, ttl time.Duration) error
}

type service struct {
	cfg    Config
	client Client
	cache  Cache
	views  *viewTracker
	logger *slog.Logger
	now    func() time.Time
	spawn  func(func())
}

// NewService wires the forecast domain. cache may be nil.
func NewService(cfg Config, client Client, cache Cache, logger *slog.Logger) Service {
	if cfg.SelectionTimeout <= 0 {
		cfg.SelectionTimeout = defaultSelectionTimeout
	}
	return &service{
		cfg:    cfg,
		client: client,
		cache:  cache,
		views:  newViewTracker(time.Now),
		logger: logger.With("component", "forecast.service"),
		now:    time.Now,
		spawn:  func(fn func()) { go fn() },
	}
}

func (s *service) Load(ctx context.Context, code string) (Result, error) {
	code, err := s.resolveCode(code)
	if err != nil {
		return Result{}, err
	}

	fc, err := s.fetch(ctx, code)
	if err != nil {
		s.logger.Warn("forecast fetch failed", "code", code, "error", err)
		return Result{}, apperrors.Wrap("forecast_unavailable", "failed to load forecast", err)
	}

	days, chart := Aggregate(fc)
	if len(days) == 0 {
		s.logger.Warn("forecast empty", "code", code, "skipped", fc.Skipped)
		return Result{}, apperrors.Wrap("forecast_unavailable", "failed to load forecast", ErrNoData)
	}
	s.logger.Info("forecast aggregated", "code", code, "days", len(days), "skipped", fc.Skipped)

	if s.cache != nil && s.cfg.CacheTTL > 0 {
		if err := s.cache.Set(ctx, code, fc, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("forecast cache write failed", "code", code, "error", err)
		}
	}

	return Result{
		Location:  fc.Location,
		Days:      days,
		Chart:     chart,
		Skipped:   fc.Skipped,
		FetchedAt: s.now().UTC(),
	}, nil
}

func (s *service) fetch(ctx context.Context, code string) (Forecast, error) {
	if s.cache != nil && s.cfg.CacheTTL > 0 {
		fc, ok, err := s.cache.Get(ctx, code)
		if err != nil {
			s.logger.Warn("forecast cache read failed", "code", code, "error", err)
		} else if ok {
			s.logger.Debug("forecast cache hit", "code", code)
			return fc, nil
		}
	}
	return s.client.Fetch(ctx, code)
}

func (s *service) Select(viewID, code string) (ViewState, error) {
	viewID = strings.TrimSpace(viewID)
	if viewID == "" {
		return ViewState{}, apperrors.Wrap("invalid_input", "view id cannot be empty", nil)
	}
	code, err := s.resolveCode(code)
	if err != nil {
		return ViewState{}, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SelectionTimeout)
	state := s.views.begin(viewID, code, cancel)
	generation := state.Generation

	s.spawn(func() {
		defer cancel()
		res, err := s.Load(ctx, code)
		if !s.views.resolve(viewID, generation, res, err) {
			s.logger.Debug("stale forecast discarded", "view", viewID, "code", code, "generation", generation)
		}
	})
	return state, nil
}

func (s *service) View(viewID string) (ViewState, error) {
	state, ok := s.views.get(strings.TrimSpace(viewID))
	if !ok {
		return ViewState{}, apperrors.Wrap("not_found", "view has no location selected", nil)
	}
	return state, nil
}

func (s *service) resolveCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		code = strings.TrimSpace(s.cfg.DefaultLocation)
	}
	if code == "" {
		return "", apperrors.Wrap("invalid_input", "location code cannot be empty", nil)
	}
	return code, nil
}
