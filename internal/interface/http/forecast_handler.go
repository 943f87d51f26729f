package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ecoscope/siagatani/internal/domain/forecast"
	"github.com/ecoscope/siagatani/internal/domain/planting"
)

type dailyView struct {
	forecast.DailySummary
	PlantAdviceLabel string `json:"plantAdviceLabel"`
}

type forecastView struct {
	Location  forecast.Location     `json:"location"`
	Days      []dailyView           `json:"days"`
	Chart     []forecast.ChartPoint `json:"chart"`
	Skipped   int                   `json:"skipped,omitempty"`
	FetchedAt string                `json:"fetchedAt"`
}

type viewStateResponse struct {
	forecast.ViewState
	Result *forecastView `json:"result,omitempty"`
}

type selectLocationRequest struct {
	Code string `json:"code"`
}

// Forecast loads and aggregates the forecast for :code, or the default
// location when the code is omitted.
func (h *Handler) Forecast(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		code = c.Query("code")
	}
	res, err := h.forecastSvc.Load(c.Request.Context(), code)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toForecastView(res))
}

// SelectLocation starts loading a location for a dashboard view.
func (h *Handler) SelectLocation(c *gin.Context) {
	var req selectLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	state, err := h.forecastSvc.Select(c.Param("viewId"), req.Code)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, toViewStateResponse(state))
}

// ViewState reports the current state of a dashboard view.
func (h *Handler) ViewState(c *gin.Context) {
	state, err := h.forecastSvc.View(c.Param("viewId"))
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toViewStateResponse(state))
}

func toForecastView(res forecast.Result) forecastView {
	days := make([]dailyView, len(res.Days))
	for i, day := range res.Days {
		days[i] = dailyView{DailySummary: day, PlantAdviceLabel: planting.AdviceLabel(day.PlantAdvice)}
	}
	return forecastView{
		Location:  res.Location,
		Days:      days,
		Chart:     res.Chart,
		Skipped:   res.Skipped,
		FetchedAt: res.FetchedAt.Format(time.RFC3339),
	}
}

func toViewStateResponse(state forecast.ViewState) viewStateResponse {
	resp := viewStateResponse{ViewState: state}
	if state.Result != nil {
		view := toForecastView(*state.Result)
		resp.Result = &view
	}
	return resp
}
