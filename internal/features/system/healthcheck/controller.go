package system_healthcheck

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthcheckController struct {
	healthcheckService *HealthcheckService
}

func NewHealthcheckController(healthcheckService *HealthcheckService) *HealthcheckController {
	return &HealthcheckController{healthcheckService}
}

func (c *HealthcheckController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/system/health", c.CheckHealth)
}

// CheckHealth godoc
// @Summary Check system health
// @Description Reports whether the service can reach its database
// @Tags system
// @Produce json
// @Success 200 {object} HealthcheckResponse
// @Failure 503 {object} HealthcheckResponse
// @Router /api/v1/system/health [get]
func (c *HealthcheckController) CheckHealth(ctx *gin.Context) {
	if err := c.healthcheckService.IsHealthy(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, HealthcheckResponse{Status: "unavailable", Error: err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, HealthcheckResponse{Status: "ok"})
}
