package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by the pluggable sections.
const (
	BackendMemory    = "memory"
	BackendPostgres  = "postgres"
	BackendValkey    = "valkey"
	BackendS3        = "s3"
	BackendImmediate = "immediate"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Forecast ForecastConfig `yaml:"forecast"`
	Auth     AuthConfig     `yaml:"auth"`
	Postgres PostgresConfig `yaml:"postgres"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Storage  StorageConfig  `yaml:"storage"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Queue    QueueConfig    `yaml:"queue"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// ForecastConfig controls the BMKG client and the forecast service.
type ForecastConfig struct {
	APIBaseURL        string        `yaml:"apiBaseUrl"`
	DefaultLocation   string        `yaml:"defaultLocation"`
	RequestsPerMinute int           `yaml:"requestsPerMinute"`
	Burst             int           `yaml:"burst"`
	CacheTTL          time.Duration `yaml:"cacheTtl"`
	SelectionTimeout  time.Duration `yaml:"selectionTimeout"`
}

// AuthConfig controls token signing and the bootstrap admin account.
type AuthConfig struct {
	Secret          string        `yaml:"secret"`
	TokenTTL        time.Duration `yaml:"tokenTtl"`
	RefreshTokenTTL time.Duration `yaml:"refreshTokenTtl"`
	Admin           AdminConfig   `yaml:"admin"`
}

// AdminConfig seeds an admin account on startup when Email is set.
type AdminConfig struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for the cache and job queue.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// StorageConfig selects where generated reports are kept.
type StorageConfig struct {
	Backend   string `yaml:"backend"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
}

// CatalogConfig selects the source of the dashboard reference tables.
type CatalogConfig struct {
	Source   string `yaml:"source"`
	SeedPath string `yaml:"seedPath"`
	// SeedOnStart copies the YAML seed into Postgres when the source is postgres.
	SeedOnStart bool `yaml:"seedOnStart"`
}

// QueueConfig selects the alert job queue backend.
type QueueConfig struct {
	Backend string `yaml:"backend"`
	Key     string `yaml:"key"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("BMKG_API_BASE_URL"); v != "" {
		cfg.Forecast.APIBaseURL = v
	}
	if v := os.Getenv("FORECAST_DEFAULT_LOCATION"); v != "" {
		cfg.Forecast.DefaultLocation = v
	}
	if v := os.Getenv("FORECAST_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Forecast.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("FORECAST_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Forecast.CacheTTL = parsed
		}
	}
	if v := os.Getenv("FORECAST_SELECTION_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Forecast.SelectionTimeout = parsed
		}
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = parsed
		}
	}
	if v := os.Getenv("AUTH_REFRESH_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.RefreshTokenTTL = parsed
		}
	}
	if v := os.Getenv("ADMIN_NAME"); v != "" {
		cfg.Auth.Admin.Name = v
	}
	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		cfg.Auth.Admin.Email = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Auth.Admin.Password = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
	}
	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("STORAGE_ENDPOINT"); v != "" {
		cfg.Storage.Endpoint = v
	}
	if v := os.Getenv("STORAGE_REGION"); v != "" {
		cfg.Storage.Region = v
	}
	if v := os.Getenv("STORAGE_BUCKET"); v != "" {
		cfg.Storage.Bucket = v
	}
	if v := os.Getenv("STORAGE_ACCESS_KEY"); v != "" {
		cfg.Storage.AccessKey = v
	}
	if v := os.Getenv("STORAGE_SECRET_KEY"); v != "" {
		cfg.Storage.SecretKey = v
	}
	if v := os.Getenv("CATALOG_SOURCE"); v != "" {
		cfg.Catalog.Source = strings.ToLower(v)
	}
	if v := os.Getenv("CATALOG_SEED_PATH"); v != "" {
		cfg.Catalog.SeedPath = v
	}
	if v := os.Getenv("CATALOG_SEED_ON_START"); v != "" {
		cfg.Catalog.SeedOnStart = parseBool(v)
	}
	if v := os.Getenv("QUEUE_BACKEND"); v != "" {
		cfg.Queue.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("QUEUE_KEY"); v != "" {
		cfg.Queue.Key = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8080",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   15 * time.Second,
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/auth/*",
					"/api/v1/slope/sites/*/alerts",
				},
			},
		},
		Forecast: ForecastConfig{
			APIBaseURL:        "https://api.bmkg.go.id/publik/prakiraan-cuaca",
			DefaultLocation:   "33.07.13.1008",
			RequestsPerMinute: 60,
			Burst:             5,
			SelectionTimeout:  15 * time.Second,
		},
		Auth: AuthConfig{
			Secret:          "dev-secret-change-me",
			TokenTTL:        15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
			Admin: AdminConfig{
				Name: "Admin EcoScope",
			},
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
		},
		Storage: StorageConfig{
			Backend: BackendMemory,
			Region:  "us-east-1",
			Bucket:  "siagatani-reports",
		},
		Catalog: CatalogConfig{
			Source: BackendMemory,
		},
		Queue: QueueConfig{
			Backend: BackendImmediate,
			Key:     "siagatani:jobs",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if strings.TrimSpace(c.Forecast.APIBaseURL) == "" {
		return errors.New("forecast.apiBaseUrl cannot be empty")
	}
	if c.Forecast.CacheTTL < 0 {
		return errors.New("forecast.cacheTtl cannot be negative")
	}
	if c.Forecast.SelectionTimeout < 0 {
		return errors.New("forecast.selectionTimeout cannot be negative")
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret cannot be empty")
	}
	if c.Auth.TokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return errors.New("auth token ttls must be positive")
	}
	if c.Auth.Admin.Email != "" && c.Auth.Admin.Password == "" {
		return errors.New("auth.admin.password cannot be empty when auth.admin.email is set")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when valkey is enabled")
	}
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendS3:
		if c.Storage.Endpoint == "" || c.Storage.Bucket == "" {
			return errors.New("storage.endpoint and storage.bucket are required for s3")
		}
	default:
		return fmt.Errorf("storage.backend %q is not supported", c.Storage.Backend)
	}
	switch c.Catalog.Source {
	case BackendMemory:
	case BackendPostgres:
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			return errors.New("postgres.dsn is required when catalog.source is postgres")
		}
	default:
		return fmt.Errorf("catalog.source %q is not supported", c.Catalog.Source)
	}
	switch c.Queue.Backend {
	case BackendImmediate:
	case BackendValkey:
		if !c.Valkey.Enabled {
			return errors.New("valkey must be enabled when queue.backend is valkey")
		}
	default:
		return fmt.Errorf("queue.backend %q is not supported", c.Queue.Backend)
	}
	return nil
}
