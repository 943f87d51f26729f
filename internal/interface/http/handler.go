package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ecoscope/siagatani/internal/domain/account"
	"github.com/ecoscope/siagatani/internal/domain/forecast"
	"github.com/ecoscope/siagatani/internal/domain/planting"
	"github.com/ecoscope/siagatani/internal/domain/pricing"
	"github.com/ecoscope/siagatani/internal/domain/report"
	"github.com/ecoscope/siagatani/internal/domain/slope"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	forecastSvc forecast.Service
	pricingSvc  pricing.Service
	slopeSvc    slope.Service
	plantingSvc planting.Service
	reportSvc   report.Service
	accountSvc  account.Service
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(
	forecastSvc forecast.Service,
	pricingSvc pricing.Service,
	slopeSvc slope.Service,
	plantingSvc planting.Service,
	reportSvc report.Service,
	accountSvc account.Service,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		forecastSvc: forecastSvc,
		pricingSvc:  pricingSvc,
		slopeSvc:    slopeSvc,
		plantingSvc: plantingSvc,
		reportSvc:   reportSvc,
		accountSvc:  accountSvc,
		logger:      logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// reportResponse adds the download link to stored report metadata.
type reportResponse struct {
	report.Report
	DownloadURL string `json:"downloadUrl"`
}

func newReportResponse(rep report.Report) reportResponse {
	return reportResponse{Report: rep, DownloadURL: "/api/v1/reports/" + rep.ID}
}

func mustClaims(c *gin.Context) (account.Claims, bool) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
	}
	return claims, ok
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid "+name, err))
		return 0, false
	}
	return id, true
}
