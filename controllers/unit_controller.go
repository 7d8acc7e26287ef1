package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"riverbird-standalone/internal/models"
	"riverbird-standalone/services"
)

type UnitController struct {
	orch *services.Orchestrator
}

func NewUnitController(orch *services.Orchestrator) *UnitController {
	return &UnitController{orch: orch}
}

/**
 * Register unit API routes to the Gin router group
 * @param {*gin.RouterGroup} r - Gin router group instance
 * @description
 * - Registers routes for:
 *   - Unit inspection (list/get)
 *   - Launcher shutdown
 */
func (u *UnitController) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/units", u.ListUnits)
	r.GET("/units/:role", u.GetUnit)
	r.POST("/shutdown", u.Shutdown)
}

// ListUnits lists all role units with their current state.
func (u *UnitController) ListUnits(c *gin.Context) {
	c.JSON(http.StatusOK, u.orch.Units())
}

// GetUnit returns one role unit by name.
func (u *UnitController) GetUnit(c *gin.Context) {
	role, err := models.ParseRoleKind(c.Param("role"))
	if err != nil {
		c.JSON(http.StatusNotFound, &models.ErrorResponse{
			Code:  "unit.unknownrole",
			Error: err.Error(),
		})
		return
	}
	detail, ok := u.orch.Unit(role)
	if !ok {
		c.JSON(http.StatusNotFound, &models.ErrorResponse{
			Code:  "unit.notexist",
			Error: fmt.Sprintf("unit [%s] isn't managed by this launcher", role),
		})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Shutdown asks the orchestrator to begin a graceful shutdown. The reply is
// sent before the units actually stop.
func (u *UnitController) Shutdown(c *gin.Context) {
	u.orch.RequestShutdown()
	c.JSON(http.StatusOK, gin.H{"status": "shutting-down"})
}
