//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/ecoscope/siagatani/internal/bootstrap"
	"github.com/ecoscope/siagatani/internal/domain/account"
	"github.com/ecoscope/siagatani/internal/domain/forecast"
	"github.com/ecoscope/siagatani/internal/domain/planting"
	"github.com/ecoscope/siagatani/internal/domain/pricing"
	"github.com/ecoscope/siagatani/internal/domain/report"
	"github.com/ecoscope/siagatani/internal/infra/bmkg"
	"github.com/ecoscope/siagatani/internal/infra/config"
	httpiface "github.com/ecoscope/siagatani/internal/interface/http"
	"github.com/ecoscope/siagatani/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideForecastConfig,
		provideBMKGClient,
		provideAccountConfig,
		providePostgresPool,
		provideValkeyClient,
		provideForecastCache,
		provideObjectStorage,
		provideCatalog,
		provideUserRepository,
		provideJobQueue,
		provideSlopeService,
		report.NewService,
		forecast.NewService,
		pricing.NewService,
		planting.NewService,
		account.NewService,
		wire.Bind(new(forecast.Client), new(*bmkg.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
