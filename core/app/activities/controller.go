package activities

import (
	"net/http"
	"strconv"

	"intranet/core/router"
	"intranet/core/types"
)

type ActivityController struct {
	Service *ActivityService
}

func NewActivityController(service *ActivityService) *ActivityController {
	return &ActivityController{
		Service: service,
	}
}

func (c *ActivityController) Routes(router *router.RouterGroup) {
	router.GET("/activities/recent", c.Recent)
}

// Recent godoc
// @Summary Recent activity
// @Description Newest entries of the activity sidebar
// @Tags Core/Activities
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Maximum entries (1-100)" default(20)
// @Param entity_type query string false "Only this entity type, e.g. tasks"
// @Success 200 {array} activities.Activity
// @Failure 500 {object} types.ErrorResponse
// @Router /activities/recent [get]
func (c *ActivityController) Recent(ctx *router.Context) error {
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	items, err := c.Service.Recent(limit, ctx.Query("entity_type"))
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to fetch activities: " + err.Error()})
	}
	return ctx.JSON(http.StatusOK, items)
}
