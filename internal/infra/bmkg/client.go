package bmkg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ecoscope/siagatani/internal/domain/forecast"
	"github.com/ecoscope/siagatani/pkg/util"
)

const (
	defaultBaseURL   = "https://api.bmkg.go.id/publik/prakiraan-cuaca"
	localTimeLayout  = "2006-01-02 15:04:05"
	defaultPerMinute = 60
)

// Client fetches village level forecasts from the BMKG public API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds an API client. BMKG allows 60 requests per minute per IP;
// requestsPerMinute <= 0 falls back to that.
func NewClient(baseURL string, requestsPerMinute, burst int) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = defaultPerMinute
	}
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		baseURL: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), burst),
	}
}

// Fetch retrieves the forecast for an adm4 code. The code is forwarded as is.
func (c *Client) Fetch(ctx context.Context, code string) (forecast.Forecast, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return forecast.Forecast{}, fmt.Errorf("%w: rate limit wait canceled: %w", forecast.ErrNetwork, err)
	}

	endpoint := fmt.Sprintf("%s?adm4=%s", c.baseURL, url.QueryEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return forecast.Forecast{}, fmt.Errorf("build bmkg request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return forecast.Forecast{}, fmt.Errorf("%w: bmkg request failed: %w", forecast.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return forecast.Forecast{}, fmt.Errorf("%w: status=%d body=%s", forecast.ErrNetwork, resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return forecast.Forecast{}, fmt.Errorf("%w: read bmkg response: %w", forecast.ErrNetwork, err)
	}
	return decode(body)
}

type apiResponse struct {
	Lokasi *apiLocation `json:"lokasi"`
	Data   []apiData    `json:"data"`
}

type apiData struct {
	Lokasi *apiLocation   `json:"lokasi"`
	Cuaca  [][]apiReading `json:"cuaca"`
}

type apiLocation struct {
	Adm4      string  `json:"adm4"`
	Provinsi  string  `json:"provinsi"`
	Kotkab    string  `json:"kotkab"`
	Kecamatan string  `json:"kecamatan"`
	Desa      string  `json:"desa"`
	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
	Timezone  string  `json:"timezone"`
}

type apiReading struct {
	Datetime      string          `json:"datetime"`
	LocalDatetime string          `json:"local_datetime"`
	T             json.RawMessage `json:"t"`
	Hu            json.RawMessage `json:"hu"`
	WeatherDesc   string          `json:"weather_desc"`
}

func decode(body []byte) (forecast.Forecast, error) {
	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return forecast.Forecast{}, fmt.Errorf("%w: decode bmkg response: %v", forecast.ErrSchema, err)
	}
	if raw.Lokasi == nil {
		return forecast.Forecast{}, fmt.Errorf("%w: lokasi missing", forecast.ErrSchema)
	}
	if len(raw.Data) == 0 || raw.Data[0].Cuaca == nil {
		return forecast.Forecast{}, fmt.Errorf("%w: data.cuaca missing", forecast.ErrSchema)
	}

	loc := raw.Lokasi
	zone := resolveZone(loc.Timezone)
	out := forecast.Forecast{
		Location: forecast.Location{
			Code:      loc.Adm4,
			Province:  loc.Provinsi,
			Regency:   loc.Kotkab,
			District:  loc.Kecamatan,
			Village:   loc.Desa,
			Latitude:  loc.Lat,
			Longitude: loc.Lon,
			Timezone:  loc.Timezone,
		},
		Days: make([][]forecast.Reading, 0, len(raw.Data[0].Cuaca)),
	}

	for _, group := range raw.Data[0].Cuaca {
		readings := make([]forecast.Reading, 0, len(group))
		for _, r := range group {
			reading, ok := normalizeReading(r, zone)
			if !ok {
				out.Skipped++
				continue
			}
			readings = append(readings, reading)
		}
		out.Days = append(out.Days, readings)
	}
	return out, nil
}

// normalizeReading rejects readings whose timestamp or numeric fields do not parse.
func normalizeReading(r apiReading, zone *time.Location) (forecast.Reading, bool) {
	ts, ok := parseTimestamp(r, zone)
	if !ok {
		return forecast.Reading{}, false
	}
	temp, ok := parseNumber(r.T)
	if !ok {
		return forecast.Reading{}, false
	}
	humidity, ok := parseNumber(r.Hu)
	if !ok {
		return forecast.Reading{}, false
	}
	return forecast.Reading{
		Time:        ts,
		Temperature: temp,
		Humidity:    humidity,
		Weather:     strings.TrimSpace(r.WeatherDesc),
	}, true
}

func parseTimestamp(r apiReading, zone *time.Location) (time.Time, bool) {
	if v := strings.TrimSpace(r.LocalDatetime); v != "" {
		if ts, err := time.ParseInLocation(localTimeLayout, v, zone); err == nil {
			return ts, true
		}
	}
	if v := strings.TrimSpace(r.Datetime); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			return ts.In(zone), true
		}
	}
	return time.Time{}, false
}

// parseNumber accepts JSON numbers and numeric strings.
func parseNumber(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return v, err == nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

func resolveZone(name string) *time.Location {
	if name = strings.TrimSpace(name); name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return util.Jakarta()
}

var _ forecast.Client = (*Client)(nil)
