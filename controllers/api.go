package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"riverbird-standalone/internal/env"
	"riverbird-standalone/internal/middleware"
	"riverbird-standalone/internal/models"
	"riverbird-standalone/services"
)

// APIController wires all admin API routes of the launcher.
type APIController struct {
	units *UnitController
	orch  *services.Orchestrator
}

/**
 * Create new API controller instance
 * @param {*services.Orchestrator} orch - Orchestrator backing the API
 * @returns {*APIController} New API controller instance
 */
func NewAPIController(orch *services.Orchestrator) *APIController {
	return &APIController{
		units: NewUnitController(orch),
		orch:  orch,
	}
}

/**
 * Register all admin API routes to the Gin router
 * @param {*gin.Engine} router - Gin engine instance
 * @description
 * - /healthz and /metrics at the root
 * - Unit and launcher-state routes under /riverbird/api/v1
 */
func (a *APIController) RegisterRoutes(router *gin.Engine) {
	router.Use(middleware.MetricsMiddleware())

	router.GET("/healthz", a.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/riverbird/api/v1")
	api.GET("/state", a.GetState)
	a.units.RegisterRoutes(api)
}

// Health reports launcher liveness and the current bootstrap phase.
func (a *APIController) Health(c *gin.Context) {
	start := a.orch.StartTime()
	resp := models.HealthResponse{
		Version:   env.Version,
		Status:    "UP",
		Phase:     a.orch.State(),
		StartTime: start.Format(time.RFC3339),
		Uptime:    time.Since(start).Truncate(time.Second).String(),
		Requests:  services.GetTotalRequestCount(),
		Errors:    services.GetTotalErrorCount(),
	}
	c.JSON(http.StatusOK, resp)
}

// GetState returns the full launcher snapshot (same shape as the exported
// state file).
func (a *APIController) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, a.orch.Snapshot())
}
