package planting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ecoscope/siagatani/internal/domain/catalog"
	"github.com/ecoscope/siagatani/internal/domain/report"
	apperrors "github.com/ecoscope/siagatani/pkg/errors"
	"github.com/ecoscope/siagatani/pkg/util"
)

// Service serves the seasonal planting calendar.
type Service interface {
	Guide(ctx context.Context) ([]MonthPlan, error)
	History(ctx context.Context) ([]MonthlyRecord, error)
	GuideReport(ctx context.Context, location string) (report.Report, error)
}

type service struct {
	catalog catalog.Provider
	reports report.Service
	logger  *slog.Logger
}

// NewService constructs the planting service.
func NewService(provider catalog.Provider, reports report.Service, logger *slog.Logger) Service {
	return &service{
		catalog: provider,
		reports: reports,
		logger:  logger.With("component", "planting.service"),
	}
}

func (s *service) Guide(ctx context.Context) ([]MonthPlan, error) {
	var plans []MonthPlan
	if err := s.load(ctx, catalog.KeyPlantingCalendar, &plans); err != nil {
		return nil, err
	}
	for i := range plans {
		for j := range plans[i].Recommendations {
			rec := &plans[i].Recommendations[j]
			rec.Label = SuitabilityLabel(rec.Suitability)
		}
	}
	return plans, nil
}

func (s *service) History(ctx context.Context) ([]MonthlyRecord, error) {
	var records []MonthlyRecord
	if err := s.load(ctx, catalog.KeyWeatherHistory, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *service) GuideReport(ctx context.Context, location string) (report.Report, error) {
	plans, err := s.Guide(ctx)
	if err != nil {
		return report.Report{}, err
	}
	return s.reports.Save(ctx, report.KindPlantingGuide, strings.TrimSpace(location), renderGuide(plans))
}

func (s *service) load(ctx context.Context, key string, dst any) error {
	if err := s.catalog.Load(ctx, key, dst); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return apperrors.Wrap("not_found", "planting data not available", err)
		}
		s.logger.Error("catalog load failed", "key", key, "error", err)
		return apperrors.Wrap("catalog_unavailable", "failed to load planting data", err)
	}
	return nil
}

func renderGuide(plans []MonthPlan) string {
	var b strings.Builder
	b.WriteString("Panduan Tanam EcoScope Banyumas\n\n")
	for _, p := range plans {
		fmt.Fprintf(&b, "%s (%s)\n", p.Month, p.Season)
		fmt.Fprintf(&b, "Curah Hujan: %smm | Suhu: %s°C\n", util.FormatNumberID(p.Rainfall), util.FormatNumberID(p.Temp))
		b.WriteString("Rekomendasi Tanaman:\n")
		for _, rec := range p.Recommendations {
			fmt.Fprintf(&b, "- %s: %s (%s)\n", rec.Plant, SuitabilityLabel(rec.Suitability), rec.Reason)
		}
		b.WriteString("\n")
	}
	return b.String()
}
