package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ecoscope/siagatani/internal/domain/account"
	"github.com/ecoscope/siagatani/internal/infra/config"
)

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	server   *http.Server
	accounts account.Service
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, accounts account.Service) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, accounts: accounts}
}

// Run seeds the admin account, starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	seedCtx, cancelSeed := context.WithTimeout(ctx, 10*time.Second)
	err := a.accounts.EnsureAdmin(seedCtx)
	cancelSeed()
	if err != nil {
		return fmt.Errorf("seed admin account: %w", err)
	}

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
