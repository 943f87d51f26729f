package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a provider holds no rows for a key.
var ErrNotFound = errors.New("catalog key not found")

// Keys served by the dashboard catalog.
const (
	KeyCommodities       = "commodities"
	KeyPriceHistory      = "price_history"
	KeyMarkets           = "markets"
	KeySimulationHistory = "simulation_history"
	KeySlopeSites        = "slope_sites"
	KeySlopeHistory      = "slope_history"
	KeyEmergencyContacts = "emergency_contacts"
	KeyPlantingCalendar  = "planting_calendar"
	KeyWeatherHistory    = "weather_history"
)

// Provider returns the rows stored under a key, decoded into dst.
// dst must be a pointer to a slice whose element type carries json and yaml tags.
type Provider interface {
	Load(ctx context.Context, key string, dst any) error
}

// SubKey joins a key family with a member, e.g. price_history.padi.
func SubKey(family, member string) string {
	return family + "." + member
}
