package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/ecoscope/siagatani/internal/domain/catalog"
	"github.com/ecoscope/siagatani/internal/domain/report"
	apperrors "github.com/ecoscope/siagatani/pkg/errors"
	"github.com/ecoscope/siagatani/pkg/util"
)

// Service exposes commodity price outlooks and revenue simulations.
type Service interface {
	ListCommodities(ctx context.Context) ([]Commodity, error)
	Outlook(ctx context.Context, key string) (Outlook, error)
	Markets(ctx context.Context) ([]MarketQuote, error)
	SimulationHistory(ctx context.Context) ([]SimulationRecord, error)
	Simulate(ctx context.Context, in SimulationInput) (Simulation, error)
	PredictionReport(ctx context.Context, key string, sim *SimulationInput) (report.Report, error)
	SimulationReport(ctx context.Context, in SimulationInput) (report.Report, error)
}

type service struct {
	catalog catalog.Provider
	reports report.Service
	logger  *slog.Logger
	now     func() time.Time
}

// NewService constructs the pricing service.
func NewService(provider catalog.Provider, reports report.Service, logger *slog.Logger) Service {
	return &service{
		catalog: provider,
		reports: reports,
		logger:  logger.With("component", "pricing.service"),
		now:     time.Now,
	}
}

func (s *service) ListCommodities(ctx context.Context) ([]Commodity, error) {
	var items []Commodity
	if err := s.load(ctx, catalog.KeyCommodities, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *service) Outlook(ctx context.Context, key string) (Outlook, error) {
	commodity, err := s.commodity(ctx, key)
	if err != nil {
		return Outlook{}, err
	}
	var history []PricePoint
	if err := s.load(ctx, catalog.SubKey(catalog.KeyPriceHistory, commodity.Key), &history); err != nil {
		return Outlook{}, err
	}
	markets, err := s.Markets(ctx)
	if err != nil {
		return Outlook{}, err
	}

	upcoming := Upcoming(history)
	out := Outlook{
		Commodity:    commodity,
		History:      history,
		Upcoming:     upcoming,
		BestSellDate: BestSellDate(upcoming),
		Markets:      make([]MarketQuote, 0, len(markets)),
	}
	for _, m := range markets {
		if strings.EqualFold(m.Commodity, commodity.Name) {
			out.Markets = append(out.Markets, m)
		}
	}
	return out, nil
}

func (s *service) Markets(ctx context.Context) ([]MarketQuote, error) {
	var markets []MarketQuote
	if err := s.load(ctx, catalog.KeyMarkets, &markets); err != nil {
		return nil, err
	}
	return markets, nil
}

func (s *service) SimulationHistory(ctx context.Context) ([]SimulationRecord, error) {
	var records []SimulationRecord
	if err := s.load(ctx, catalog.KeySimulationHistory, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *service) Simulate(ctx context.Context, in SimulationInput) (Simulation, error) {
	if in.HarvestAmount <= 0 || math.IsNaN(in.HarvestAmount) || math.IsInf(in.HarvestAmount, 0) {
		return Simulation{}, apperrors.Wrap("invalid_input", "harvest amount must be greater than zero", nil)
	}
	outlook, err := s.Outlook(ctx, in.Commodity)
	if err != nil {
		return Simulation{}, err
	}

	c := outlook.Commodity
	estimated := c.CurrentPrice * estimateUplift
	sim := Simulation{
		Commodity:      c.Key,
		CommodityName:  c.Name,
		Unit:           c.Unit,
		HarvestAmount:  in.HarvestAmount,
		HarvestDate:    strings.TrimSpace(in.HarvestDate),
		CurrentPrice:   c.CurrentPrice,
		EstimatedPrice: estimated,
		TotalRevenue:   in.HarvestAmount * estimated,
		MarginPercent:  marginPercent(c.CurrentPrice, estimated),
		BestSellDate:   outlook.BestSellDate,
		Recommendation: RecommendSellNow,
	}
	if estimated > c.CurrentPrice {
		sim.Recommendation = RecommendHold
	}
	sim.ShareText = shareText(sim)

	s.logger.Info("simulation computed", "commodity", c.Key, "amount", in.HarvestAmount, "revenue", sim.TotalRevenue)
	return sim, nil
}

func (s *service) commodity(ctx context.Context, key string) (Commodity, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return Commodity{}, apperrors.Wrap("invalid_input", "commodity cannot be empty", nil)
	}
	items, err := s.ListCommodities(ctx)
	if err != nil {
		return Commodity{}, err
	}
	for _, item := range items {
		if item.Key == key {
			return item, nil
		}
	}
	return Commodity{}, apperrors.Wrap("not_found", fmt.Sprintf("commodity %q not found", key), nil)
}

func (s *service) load(ctx context.Context, key string, dst any) error {
	if err := s.catalog.Load(ctx, key, dst); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return apperrors.Wrap("not_found", "price data not available", err)
		}
		s.logger.Error("catalog load failed", "key", key, "error", err)
		return apperrors.Wrap("catalog_unavailable", "failed to load price data", err)
	}
	return nil
}

// Upcoming returns the points that have a prediction but no observed price yet.
func Upcoming(history []PricePoint) []PricePoint {
	out := make([]PricePoint, 0, len(history))
	for _, p := range history {
		if p.Price == nil && p.Prediction > 0 {
			out = append(out, p)
		}
	}
	return out
}

// BestSellDate is the date label of the highest prediction; the earliest wins ties.
func BestSellDate(upcoming []PricePoint) string {
	best := -1
	for i, p := range upcoming {
		if best < 0 || p.Prediction > upcoming[best].Prediction {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return upcoming[best].Date
}

func marginPercent(current, estimated float64) float64 {
	if current == 0 {
		return 0
	}
	return (estimated - current) / current * 100
}

func shareText(sim Simulation) string {
	return fmt.Sprintf("📊 Simulasi Pendapatan %s\n\n🌾 Jumlah: %s %s\n💰 Estimasi: %s\n📅 Jual Terbaik: %s\n\nVia EcoScope Banyumas 🌱",
		sim.CommodityName,
		util.FormatNumberID(sim.HarvestAmount), sim.Unit,
		util.FormatRupiah(sim.TotalRevenue),
		orDash(sim.BestSellDate),
	)
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}
