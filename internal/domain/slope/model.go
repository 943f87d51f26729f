package slope

import (
	"context"
	"time"
)

// Risk levels derived from slope steepness.
const (
	RiskHigh   = "high"
	RiskMedium = "medium"
	RiskLow    = "low"
)

// Alert channels.
const (
	ChannelBasarnas  = "basarnas"
	ChannelCommunity = "community"
)

// Alert delivery states.
const (
	AlertQueued = "queued"
	AlertSent   = "sent"
	AlertFailed = "failed"
)

// JobAlert is the queue job name for alert delivery.
const JobAlert = "slope.alert"

// Site is a monitored hillside.
type Site struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	District    string   `json:"district" yaml:"district"`
	Latitude    float64  `json:"latitude" yaml:"latitude"`
	Longitude   float64  `json:"longitude" yaml:"longitude"`
	Slope       float64  `json:"slope" yaml:"slope"`
	Risk        string   `json:"risk" yaml:"risk"`
	Suggestions []string `json:"suggestions" yaml:"suggestions"`
	LastUpdate  string   `json:"lastUpdate" yaml:"lastUpdate"`
}

// HistoryEntry is a past risk observation.
type HistoryEntry struct {
	Date     string  `json:"date" yaml:"date"`
	Location string  `json:"location" yaml:"location"`
	Risk     string  `json:"risk" yaml:"risk"`
	Slope    float64 `json:"slope" yaml:"slope"`
	Action   string  `json:"action" yaml:"action"`
}

// Contact is an emergency or community contact.
type Contact struct {
	Name      string `json:"name" yaml:"name"`
	Type      string `json:"type" yaml:"type"`
	Phone     string `json:"phone,omitempty" yaml:"phone"`
	WhatsApp  string `json:"whatsapp,omitempty" yaml:"whatsapp"`
	Instagram string `json:"instagram,omitempty" yaml:"instagram"`
}

// Alert is a landslide warning sent for a site.
type Alert struct {
	ID        string    `json:"id"`
	SiteID    string    `json:"siteId"`
	SiteName  string    `json:"siteName"`
	Channel   string    `json:"channel"`
	Risk      string    `json:"risk"`
	Message   string    `json:"message"`
	ShareURL  string    `json:"shareUrl,omitempty"`
	Status    string    `json:"status"`
	SentBy    string    `json:"sentBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AlertRequest asks for a warning to be sent.
type AlertRequest struct {
	SiteID  string
	Channel string
	Actor   string
}

// JobQueue hands alerts to a background worker.
type JobQueue interface {
	Enqueue(ctx context.Context, name string, payload any) error
}
