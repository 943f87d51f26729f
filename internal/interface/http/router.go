package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecoscope/siagatani/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/forecasts", handler.Forecast)
		api.GET("/forecasts/:code", handler.Forecast)
		api.PUT("/views/:viewId/location", handler.SelectLocation)
		api.GET("/views/:viewId", handler.ViewState)

		api.GET("/planting/guide", handler.PlantingGuide)
		api.GET("/planting/history", handler.WeatherHistory)
		api.POST("/planting/guide/report", handler.PlantingGuideReport)

		auth := api.Group("/auth")
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.POST("/refresh", handler.Refresh)
		auth.POST("/password-strength", handler.PasswordStrength)
	}

	protected := api.Group("")
	protected.Use(authMiddleware(handler.accountSvc))
	{
		protected.GET("/account/profile", handler.Profile)
		protected.PUT("/account/profile", handler.UpdateProfile)
		protected.POST("/account/password", handler.ChangePassword)

		protected.GET("/commodities", handler.ListCommodities)
		protected.GET("/commodities/:key/outlook", handler.CommodityOutlook)
		protected.POST("/commodities/:key/report", handler.CommodityReport)
		protected.GET("/markets", handler.Markets)
		protected.GET("/simulations", handler.SimulationHistory)
		protected.POST("/simulations", handler.Simulate)
		protected.POST("/simulations/report", handler.SimulationReport)

		protected.GET("/slope/sites", handler.SlopeSites)
		protected.GET("/slope/sites/:id", handler.SlopeSite)
		protected.POST("/slope/sites/:id/alerts", handler.SendAlert)
		protected.POST("/slope/sites/:id/report", handler.SlopeReport)
		protected.GET("/slope/history", handler.SlopeHistory)
		protected.GET("/slope/contacts", handler.EmergencyContacts)
		protected.GET("/slope/alerts", handler.SlopeAlerts)

		protected.GET("/reports/:id", handler.DownloadReport)
	}

	admin := protected.Group("/admin")
	admin.Use(adminMiddleware())
	{
		admin.GET("/users", handler.ListUsers)
		admin.PUT("/users/:id/status", handler.SetUserStatus)
		admin.GET("/stats", handler.AdminStats)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
