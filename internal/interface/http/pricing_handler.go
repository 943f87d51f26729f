package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecoscope/siagatani/internal/domain/pricing"
)

// ListCommodities returns the tracked commodities with their current prices.
func (h *Handler) ListCommodities(c *gin.Context) {
	items, err := h.pricingSvc.ListCommodities(c.Request.Context())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"commodities": items})
}

// CommodityOutlook returns the price history and predictions for :key.
func (h *Handler) CommodityOutlook(c *gin.Context) {
	outlook, err := h.pricingSvc.Outlook(c.Request.Context(), c.Param("key"))
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, outlook)
}

// Markets lists the latest market quotes.
func (h *Handler) Markets(c *gin.Context) {
	quotes, err := h.pricingSvc.Markets(c.Request.Context())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"markets": quotes})
}

// SimulationHistory lists past revenue simulations.
func (h *Handler) SimulationHistory(c *gin.Context) {
	records, err := h.pricingSvc.SimulationHistory(c.Request.Context())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"simulations": records})
}

// Simulate estimates harvest revenue.
func (h *Handler) Simulate(c *gin.Context) {
	var req pricing.SimulationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	sim, err := h.pricingSvc.Simulate(c.Request.Context(), req)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sim)
}

// CommodityReport stores the price prediction report for :key. A simulation
// body is optional and adds the revenue section.
func (h *Handler) CommodityReport(c *gin.Context) {
	var req pricing.SimulationInput
	var sim *pricing.SimulationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		if !errors.Is(err, io.EOF) {
			invalidRequest(c, err)
			return
		}
	} else if req.HarvestAmount > 0 {
		sim = &req
	}
	rep, err := h.pricingSvc.PredictionReport(c.Request.Context(), c.Param("key"), sim)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newReportResponse(rep))
}

// SimulationReport stores the revenue simulation report.
func (h *Handler) SimulationReport(c *gin.Context) {
	var req pricing.SimulationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	rep, err := h.pricingSvc.SimulationReport(c.Request.Context(), req)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newReportResponse(rep))
}
