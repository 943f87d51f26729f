package slope

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ecoscope/siagatani/internal/domain/catalog"
	"github.com/ecoscope/siagatani/internal/domain/report"
	apperrors "github.com/ecoscope/siagatani/pkg/errors"
	"github.com/ecoscope/siagatani/pkg/util"
)

const (
	maxAlertLog          = 200
	defaultCommunityLine = "628123456789"
)

// Service exposes landslide risk monitoring.
type Service interface {
	Sites(ctx context.Context) ([]Site, error)
	Site(ctx context.Context, id string) (Site, error)
	History(ctx context.Context) ([]HistoryEntry, error)
	Contacts(ctx context.Context) ([]Contact, error)
	SendAlert(ctx context.Context, req AlertRequest) (Alert, error)
	Alerts(ctx context.Context) []Alert
	Report(ctx context.Context, siteID string) (report.Report, error)
	HandleJob(ctx context.Context, name string, payload map[string]any)
}

type service struct {
	catalog catalog.Provider
	reports report.Service
	queue   JobQueue
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string

	mu     sync.RWMutex
	alerts []Alert
}

// NewService constructs the slope monitoring service.
func NewService(provider catalog.Provider, reports report.Service, queue JobQueue, logger *slog.Logger) Service {
	return &service{
		catalog: provider,
		reports: reports,
		queue:   queue,
		logger:  logger.With("component", "slope.service"),
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

// ClassifyRisk maps a slope percentage to a risk level.
func ClassifyRisk(slopePercent float64) string {
	switch {
	case slopePercent >= 30:
		return RiskHigh
	case slopePercent > 20:
		return RiskMedium
	default:
		return RiskLow
	}
}

// RiskLabel returns the Indonesian label for a risk level.
func RiskLabel(risk string) string {
	switch risk {
	case RiskHigh:
		return "Tinggi"
	case RiskMedium:
		return "Sedang"
	case RiskLow:
		return "Rendah"
	default:
		return ""
	}
}

func (s *service) Sites(ctx context.Context) ([]Site, error) {
	var sites []Site
	if err := s.load(ctx, catalog.KeySlopeSites, &sites); err != nil {
		return nil, err
	}
	for i := range sites {
		sites[i].Risk = ClassifyRisk(sites[i].Slope)
	}
	return sites, nil
}

func (s *service) Site(ctx context.Context, id string) (Site, error) {
	id = strings.TrimSpace(id)
	sites, err := s.Sites(ctx)
	if err != nil {
		return Site{}, err
	}
	for _, site := range sites {
		if site.ID == id {
			return site, nil
		}
	}
	return Site{}, apperrors.Wrap("not_found", fmt.Sprintf("site %q not found", id), nil)
}

func (s *service) History(ctx context.Context) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	if err := s.load(ctx, catalog.KeySlopeHistory, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *service) Contacts(ctx context.Context) ([]Contact, error) {
	var contacts []Contact
	if err := s.load(ctx, catalog.KeyEmergencyContacts, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (s *service) SendAlert(ctx context.Context, req AlertRequest) (Alert, error) {
	channel := strings.ToLower(strings.TrimSpace(req.Channel))
	if channel != ChannelBasarnas && channel != ChannelCommunity {
		return Alert{}, apperrors.Wrap("invalid_input", "channel must be basarnas or community", nil)
	}
	site, err := s.Site(ctx, req.SiteID)
	if err != nil {
		return Alert{}, err
	}

	now := s.now()
	alert := Alert{
		ID:        s.newID(),
		SiteID:    site.ID,
		SiteName:  site.Name,
		Channel:   channel,
		Risk:      site.Risk,
		Status:    AlertQueued,
		SentBy:    req.Actor,
		CreatedAt: now.UTC(),
	}
	switch channel {
	case ChannelBasarnas:
		if site.Risk != RiskHigh {
			return Alert{}, apperrors.Wrap("invalid_input", "only high risk sites can be reported to BASARNAS", nil)
		}
		alert.Message = basarnasMessage(site, now)
	case ChannelCommunity:
		alert.Message = communityMessage(site, now)
		alert.ShareURL = fmt.Sprintf("https://wa.me/%s?text=%s", s.communityLine(ctx), url.QueryEscape(alert.Message))
	}

	s.record(alert)
	payload := map[string]any{
		"id":      alert.ID,
		"siteId":  alert.SiteID,
		"channel": alert.Channel,
		"message": alert.Message,
	}
	if err := s.queue.Enqueue(ctx, JobAlert, payload); err != nil {
		s.setStatus(alert.ID, AlertFailed)
		s.logger.Error("alert enqueue failed", "alert", alert.ID, "site", site.ID, "error", err)
		return Alert{}, apperrors.Wrap("queue_unavailable", "failed to queue alert", err)
	}
	s.logger.Info("alert queued", "alert", alert.ID, "site", site.ID, "channel", channel, "risk", site.Risk)
	return alert, nil
}

// HandleJob delivers queued alerts. BASARNAS has no public intake API, so
// delivery means logging the dispatch and marking the alert as sent.
func (s *service) HandleJob(_ context.Context, name string, payload map[string]any) {
	if name != JobAlert {
		s.logger.Warn("unknown job ignored", "job", name)
		return
	}
	id, _ := payload["id"].(string)
	if !s.setStatus(id, AlertSent) {
		s.logger.Warn("alert job for unknown alert", "alert", id)
		return
	}
	s.logger.Info("alert dispatched", "alert", id, "site", payload["siteId"], "channel", payload["channel"])
}

func (s *service) Alerts(_ context.Context) []Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Alert, len(s.alerts))
	for i, a := range s.alerts {
		out[len(s.alerts)-1-i] = a
	}
	return out
}

func (s *service) record(alert Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, alert)
	if len(s.alerts) > maxAlertLog {
		s.alerts = s.alerts[len(s.alerts)-maxAlertLog:]
	}
}

func (s *service) setStatus(id, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID == id {
			s.alerts[i].Status = status
			return true
		}
	}
	return false
}

// communityLine resolves the WhatsApp number of the community contact in
// international format, falling back to the default line.
func (s *service) communityLine(ctx context.Context) string {
	contacts, err := s.Contacts(ctx)
	if err != nil {
		return defaultCommunityLine
	}
	for _, c := range contacts {
		if c.Type == ChannelCommunity && c.WhatsApp != "" {
			return internationalNumber(c.WhatsApp)
		}
	}
	return defaultCommunityLine
}

func (s *service) load(ctx context.Context, key string, dst any) error {
	if err := s.catalog.Load(ctx, key, dst); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return apperrors.Wrap("not_found", "slope data not available", err)
		}
		s.logger.Error("catalog load failed", "key", key, "error", err)
		return apperrors.Wrap("catalog_unavailable", "failed to load slope data", err)
	}
	return nil
}

func internationalNumber(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	n := digits.String()
	if strings.HasPrefix(n, "0") {
		n = "62" + n[1:]
	}
	return n
}

func coordinates(site Site) string {
	return fmt.Sprintf("%.4f, %.4f", site.Latitude, site.Longitude)
}

func basarnasMessage(site Site, at time.Time) string {
	return fmt.Sprintf("ALERT POTENSI LONGSOR\nLokasi: %s\nKoordinat: %s\nTingkat Kemiringan: %s%%\nStatus Risiko: TINGGI\nWaktu Deteksi: %s\nTindakan: %s\n\nDikirim melalui EcoScope Banyumas",
		site.Name, coordinates(site), util.FormatNumberID(site.Slope), util.FormatTimestampID(at), strings.Join(site.Suggestions, ", "))
}

func communityMessage(site Site, at time.Time) string {
	warning := "⚠️ TETAP WASPADA!"
	if site.Risk == RiskHigh {
		warning = "⛔ SEGERA HINDARI AREA INI!"
	}
	var tips strings.Builder
	for i, s := range site.Suggestions {
		if i > 0 {
			tips.WriteByte('\n')
		}
		tips.WriteString("• " + s)
	}
	return fmt.Sprintf("🚨 PERINGATAN POTENSI LONGSOR 🚨\n\n📍 Lokasi: %s\n📊 Tingkat Kemiringan: %s%%\n⚠️ Status Risiko: %s\n🕐 Waktu: %s\n\n%s\n\n📋 Saran:\n%s\n\n#BanyumasAlert #SiagaBencana\nVia EcoScope Banyumas",
		site.Name, util.FormatNumberID(site.Slope), strings.ToUpper(RiskLabel(site.Risk)), util.FormatTimestampID(at), warning, tips.String())
}
