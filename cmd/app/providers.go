package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/ecoscope/siagatani/internal/domain/account"
	domaincatalog "github.com/ecoscope/siagatani/internal/domain/catalog"
	"github.com/ecoscope/siagatani/internal/domain/forecast"
	"github.com/ecoscope/siagatani/internal/domain/report"
	"github.com/ecoscope/siagatani/internal/domain/slope"
	"github.com/ecoscope/siagatani/internal/infra/bmkg"
	"github.com/ecoscope/siagatani/internal/infra/catalog"
	"github.com/ecoscope/siagatani/internal/infra/config"
	"github.com/ecoscope/siagatani/internal/infra/forecastcache"
	"github.com/ecoscope/siagatani/internal/infra/queue"
	"github.com/ecoscope/siagatani/internal/infra/storage"
	"github.com/ecoscope/siagatani/internal/infra/userrepo"
)

func provideForecastConfig(cfg *config.Config) forecast.Config {
	return forecast.Config{
		DefaultLocation:  cfg.Forecast.DefaultLocation,
		CacheTTL:         cfg.Forecast.CacheTTL,
		SelectionTimeout: cfg.Forecast.SelectionTimeout,
	}
}

func provideBMKGClient(cfg *config.Config) *bmkg.Client {
	return bmkg.NewClient(cfg.Forecast.APIBaseURL, cfg.Forecast.RequestsPerMinute, cfg.Forecast.Burst)
}

func provideAccountConfig(cfg *config.Config) account.Config {
	return account.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
		Admin: account.AdminSeed{
			Name:     cfg.Auth.Admin.Name,
			Email:    cfg.Auth.Admin.Email,
			Password: cfg.Auth.Admin.Password,
		},
	}
}

// providePostgresPool returns a nil pool when no DSN is configured.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func(), error) {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil, func() {}, nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("create postgres pool: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	logger.Info("postgres pool ready")
	return pool, pool.Close, nil
}

// provideValkeyClient returns a nil client when valkey is disabled.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) (valkey.Client, func(), error) {
	if !cfg.Valkey.Enabled {
		return nil, func() {}, nil
	}
	opt, err := buildValkeyOptions(cfg.Valkey.Addr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid valkey configuration: %w", err)
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, nil, fmt.Errorf("create valkey client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("ping valkey: %w", err)
	}
	logger.Info("valkey client ready", "addr", cfg.Valkey.Addr)
	return client, client.Close, nil
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideForecastCache(cfg *config.Config, client valkey.Client, logger *slog.Logger) forecast.Cache {
	if cfg.Forecast.CacheTTL <= 0 {
		return nil
	}
	if client != nil {
		logger.Info("forecast cache backed by valkey", "ttl", cfg.Forecast.CacheTTL)
		return forecastcache.NewValkeyStore(client, "forecast")
	}
	logger.Info("forecast cache in memory", "ttl", cfg.Forecast.CacheTTL)
	return forecastcache.NewMemoryStore()
}

func provideObjectStorage(cfg *config.Config, logger *slog.Logger) (report.ObjectStorage, error) {
	if cfg.Storage.Backend != config.BackendS3 {
		logger.Info("report storage in memory")
		return storage.NewMemoryStorage(), nil
	}
	s3, err := storage.NewS3Storage(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.Region, logger)
	if err != nil {
		return nil, fmt.Errorf("create s3 storage: %w", err)
	}
	logger.Info("report storage on s3", "endpoint", cfg.Storage.Endpoint, "bucket", cfg.Storage.Bucket)
	return s3, nil
}

func provideCatalog(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (domaincatalog.Provider, error) {
	seed, err := catalog.NewMemoryProvider(cfg.Catalog.SeedPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog seed: %w", err)
	}
	if cfg.Catalog.Source != config.BackendPostgres || pool == nil {
		logger.Info("catalog served from seed", "path", cfg.Catalog.SeedPath)
		return seed, nil
	}
	provider := catalog.NewPostgresProvider(pool)
	if cfg.Catalog.SeedOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Seed(ctx, seed); err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		logger.Info("catalog seeded into postgres", "tables", len(seed.Keys()))
	}
	return provider, nil
}

func provideUserRepository(pool *pgxpool.Pool) account.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func provideJobQueue(cfg *config.Config, client valkey.Client, logger *slog.Logger) (queue.HandlerQueue, func()) {
	if cfg.Queue.Backend == config.BackendValkey && client != nil {
		q := queue.NewValkeyQueue(client, cfg.Queue.Key, logger)
		return q, q.Close
	}
	return queue.NewImmediateQueue(nil), func() {}
}

// provideSlopeService builds the service and registers it as the queue consumer.
func provideSlopeService(provider domaincatalog.Provider, reports report.Service, jobs queue.HandlerQueue, logger *slog.Logger) slope.Service {
	svc := slope.NewService(provider, reports, jobs, logger)
	jobs.SetHandler(svc.HandleJob)
	return svc
}
