package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, "33.07.13.1008", cfg.Forecast.DefaultLocation)
	require.Zero(t, cfg.Forecast.CacheTTL)
	require.Equal(t, BackendMemory, cfg.Storage.Backend)
	require.Equal(t, BackendImmediate, cfg.Queue.Backend)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
forecast:
  cacheTtl: 10m
  defaultLocation: "33.02.08.2001"
auth:
  secret: from-file
`), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("AUTH_SECRET", "from-env")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("VALKEY_ENABLED", "true")
	t.Setenv("VALKEY_ADDR", "valkey:6379")
	t.Setenv("QUEUE_BACKEND", "VALKEY")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, 10*time.Minute, cfg.Forecast.CacheTTL)
	require.Equal(t, "33.02.08.2001", cfg.Forecast.DefaultLocation)
	require.Equal(t, "from-env", cfg.Auth.Secret)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, BackendValkey, cfg.Queue.Backend)
}

func TestLoadRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: ["), 0o600))
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty address":       func(c *Config) { c.HTTP.Address = "" },
		"negative cache ttl":  func(c *Config) { c.Forecast.CacheTTL = -time.Second },
		"empty secret":        func(c *Config) { c.Auth.Secret = " " },
		"admin without pass":  func(c *Config) { c.Auth.Admin.Email = "admin@ecoscope.id" },
		"s3 without endpoint": func(c *Config) { c.Storage.Backend = BackendS3 },
		"unknown storage":     func(c *Config) { c.Storage.Backend = "ftp" },
		"postgres no dsn":     func(c *Config) { c.Catalog.Source = BackendPostgres },
		"valkey queue off":    func(c *Config) { c.Queue.Backend = BackendValkey },
		"valkey without addr": func(c *Config) { c.Valkey.Enabled = true },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}

	require.NoError(t, defaultConfig().Validate())
}
