package analytics

import (
	"net/http"

	"intranet/core/router"
	"intranet/core/types"
)

type AnalyticsController struct {
	Service *AnalyticsService
}

func NewAnalyticsController(service *AnalyticsService) *AnalyticsController {
	return &AnalyticsController{
		Service: service,
	}
}

func (c *AnalyticsController) Routes(router *router.RouterGroup) {
	router.GET("/analytics/summary", c.Summary)
}

// Summary godoc
// @Summary Portal metrics
// @Description Task completion, open work by priority, kudos this week and upcoming events
// @Tags App/Analytics
// @Security BearerAuth
// @Produce json
// @Success 200 {object} analytics.Summary
// @Failure 500 {object} types.ErrorResponse
// @Router /analytics/summary [get]
func (c *AnalyticsController) Summary(ctx *router.Context) error {
	summary, err := c.Service.Summary()
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to compute analytics: " + err.Error()})
	}
	return ctx.JSON(http.StatusOK, summary)
}
