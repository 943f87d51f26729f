package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type guideReportRequest struct {
	Location string `json:"location"`
}

// PlantingGuide returns the six month planting calendar.
func (h *Handler) PlantingGuide(c *gin.Context) {
	months, err := h.plantingSvc.Guide(c.Request.Context())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": months})
}

// WeatherHistory returns monthly rainfall and temperature history.
func (h *Handler) WeatherHistory(c *gin.Context) {
	records, err := h.plantingSvc.History(c.Request.Context())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": records})
}

// PlantingGuideReport stores the downloadable planting guide.
func (h *Handler) PlantingGuideReport(c *gin.Context) {
	var req guideReportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		invalidRequest(c, err)
		return
	}
	rep, err := h.plantingSvc.GuideReport(c.Request.Context(), req.Location)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newReportResponse(rep))
}
