package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecoscope/siagatani/internal/domain/slope"
)

type alertRequest struct {
	Channel string `json:"channel"`
}

// SlopeSites lists monitored sites with their risk level.
func (h *Handler) SlopeSites(c *gin.Context) {
	sites, err := h.slopeSvc.Sites(c.Request.Context())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sites": sites})
}

// SlopeSite returns one site.
func (h *Handler) SlopeSite(c *gin.Context) {
	site, err := h.slopeSvc.Site(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, site)
}

// SlopeHistory lists past analyses.
func (h *Handler) SlopeHistory(c *gin.Context) {
	entries, err := h.slopeSvc.History(c.Request.Context())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// EmergencyContacts lists who alerts can be sent to.
func (h *Handler) EmergencyContacts(c *gin.Context) {
	contacts, err := h.slopeSvc.Contacts(c.Request.Context())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

// SendAlert raises a landslide warning for :id.
func (h *Handler) SendAlert(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	var req alertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	alert, err := h.slopeSvc.SendAlert(c.Request.Context(), slope.AlertRequest{
		SiteID:  c.Param("id"),
		Channel: req.Channel,
		Actor:   claims.Email,
	})
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, alert)
}

// SlopeAlerts lists alerts raised since startup, newest first.
func (h *Handler) SlopeAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"alerts": h.slopeSvc.Alerts(c.Request.Context())})
}

// SlopeReport stores the slope analysis report for :id.
func (h *Handler) SlopeReport(c *gin.Context) {
	rep, err := h.slopeSvc.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newReportResponse(rep))
}
