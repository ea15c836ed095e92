package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stockcast-app/stockcast/internal/domain"
	"github.com/stockcast-app/stockcast/internal/service"
)

// ForecastHandler exposes forecast generation and what-if scenarios.
type ForecastHandler struct {
	forecasts *service.ForecastService
	scenarios *service.ScenarioService
}

func NewForecastHandler(forecasts *service.ForecastService, scenarios *service.ScenarioService) *ForecastHandler {
	return &ForecastHandler{forecasts: forecasts, scenarios: scenarios}
}

// Generate runs the forecast orchestrator for the session. The horizon
// defaults to 30 days.
func (h *ForecastHandler) Generate(c *gin.Context) {
	horizon := queryInt(c, "horizon_days", 30)

	response, err := h.forecasts.Generate(c.Request.Context(), sessionID(c), horizon)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "failed to generate forecast", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// ApplyScenario evaluates a what-if perturbation against the session's
// base forecast.
func (h *ForecastHandler) ApplyScenario(c *gin.Context) {
	var scenario domain.Scenario
	if err := c.ShouldBindJSON(&scenario); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scenario payload", "details": err.Error()})
		return
	}

	result, err := h.scenarios.Apply(c.Request.Context(), sessionID(c), scenario)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "failed to apply scenario", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
