package forecast

import (
	"errors"
	"time"
)

var (
	// ErrNetwork marks transport failures and non-success upstream statuses.
	ErrNetwork = errors.New("forecast network error")
	// ErrSchema marks upstream bodies missing the location or forecast fields.
	ErrSchema = errors.New("forecast schema error")
)

// DefaultPlantAdvice is attached to every daily summary until advice is computed from data.
const DefaultPlantAdvice = "good"

// Location is the administrative area metadata returned with a forecast.
type Location struct {
	Code      string  `json:"code"`
	Province  string  `json:"province"`
	Regency   string  `json:"regency"`
	District  string  `json:"district"`
	Village   string  `json:"village"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Timezone  string  `json:"timezone"`
}

// Reading is a single 3-hourly observation for one area.
type Reading struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Weather     string    `json:"weather"`
}

// Forecast is the upstream payload after decoding: readings grouped the way
// the provider groups them. Skipped counts readings dropped for invalid numbers.
type Forecast struct {
	Location Location    `json:"location"`
	Days     [][]Reading `json:"days"`
	Skipped  int         `json:"skipped"`
}

// DailySummary folds every reading sharing a calendar date.
type DailySummary struct {
	Date        string  `json:"date"`
	DateLabel   string  `json:"dateLabel"`
	Day         string  `json:"day"`
	Weather     string  `json:"weather"`
	MinTemp     float64 `json:"minTemp"`
	MaxTemp     float64 `json:"maxTemp"`
	Temp        string  `json:"temp"`
	Rain        float64 `json:"rain"`
	PlantAdvice string  `json:"plantAdvice"`
}

// ChartPoint feeds the rainfall and temperature charts.
type ChartPoint struct {
	Day      string  `json:"day"`
	Rainfall float64 `json:"rainfall"`
	Temp     float64 `json:"temp"`
}

// Result is the derived view of one location's forecast.
type Result struct {
	Location  Location       `json:"location"`
	Days      []DailySummary `json:"days"`
	Chart     []ChartPoint   `json:"chart"`
	Skipped   int            `json:"skipped,omitempty"`
	FetchedAt time.Time      `json:"fetchedAt"`
}

// Status is the lifecycle of a location selection.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// ViewState is what a dashboard view currently shows.
type ViewState struct {
	ViewID       string    `json:"viewId"`
	LocationCode string    `json:"locationCode"`
	Generation   uint64    `json:"generation"`
	Status       Status    `json:"status"`
	Result       *Result   `json:"result,omitempty"`
	Message      string    `json:"message,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Config wires runtime knobs for the forecast domain.
type Config struct {
	DefaultLocation  string
	CacheTTL         time.Duration
	SelectionTimeout time.Duration
}
