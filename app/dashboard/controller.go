package dashboard

import (
	"errors"
	"net/http"
	"strconv"

	"intranet/core/router"
	"intranet/core/types"
)

const defaultContainerWidth = 1200

type DashboardController struct {
	Service *DashboardService
}

func NewDashboardController(service *DashboardService) *DashboardController {
	return &DashboardController{
		Service: service,
	}
}

func (c *DashboardController) Routes(router *router.RouterGroup) {
	router.GET("/dashboard", c.Get)
	router.GET("/dashboard/layout", c.Layout)
	router.POST("/dashboard/drop", c.Drop)
	router.PUT("/dashboard/widgets/:id/visibility", c.SetVisibility)
	router.POST("/dashboard/reset", c.Reset)
}

// Get godoc
// @Summary Dashboard widgets
// @Description Every widget with its grid cell rectangle and the mounted search sources
// @Tags App/Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dashboard.DashboardResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /dashboard [get]
func (c *DashboardController) Get(ctx *router.Context) error {
	items, err := c.Service.Layout()
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to load dashboard: " + err.Error()})
	}
	sources := []string{}
	if c.Service.Registry != nil {
		sources = c.Service.Registry.Names()
	}
	return ctx.JSON(http.StatusOK, DashboardResponse{Grid: c.Service.Grid, Widgets: items, Sources: sources})
}

// Layout godoc
// @Summary Projected dashboard layout
// @Description Absolute boxes of the visible widgets for a container width in pixels
// @Tags App/Dashboard
// @Security BearerAuth
// @Produce json
// @Param width query number false "Container width in pixels (default 1200)"
// @Success 200 {object} dashboard.LayoutResponse
// @Failure 400 {object} types.ErrorResponse
// @Router /dashboard/layout [get]
func (c *DashboardController) Layout(ctx *router.Context) error {
	width := float64(defaultContainerWidth)
	if raw := ctx.Query("width"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid width"})
		}
		width = parsed
	}

	layout, err := c.Service.Placements(width)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to load layout: " + err.Error()})
	}
	return ctx.JSON(http.StatusOK, layout)
}

// Drop godoc
// @Summary Drop a widget onto another
// @Description Swaps the grid rectangles of the two widgets. Missing, hidden or identical widgets leave the layout unchanged.
// @Tags App/Dashboard
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dashboard.DropRequest true "Drop event"
// @Success 200 {object} dashboard.DropResponse
// @Failure 400 {object} types.ErrorResponse
// @Router /dashboard/drop [post]
func (c *DashboardController) Drop(ctx *router.Context) error {
	var req DropRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}

	response, err := c.Service.Drop(&req)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to move widget: " + err.Error()})
	}
	return ctx.JSON(http.StatusOK, response)
}

// SetVisibility godoc
// @Summary Show or hide a widget
// @Description Hidden widgets stop contributing to the global search
// @Tags App/Dashboard
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Widget id"
// @Param request body dashboard.VisibilityRequest true "Visibility"
// @Success 200 {object} dashboard.Item
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /dashboard/widgets/{id}/visibility [put]
func (c *DashboardController) SetVisibility(ctx *router.Context) error {
	var req VisibilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}

	item, err := c.Service.SetVisibility(ctx.Param("id"), *req.Visible)
	if err != nil {
		if errors.Is(err, ErrWidgetNotFound) {
			return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Widget not found"})
		}
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to update widget: " + err.Error()})
	}
	return ctx.JSON(http.StatusOK, item)
}

// Reset godoc
// @Summary Restore the default layout
// @Tags App/Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dashboard.Item
// @Failure 500 {object} types.ErrorResponse
// @Router /dashboard/reset [post]
func (c *DashboardController) Reset(ctx *router.Context) error {
	items, err := c.Service.Reset()
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to reset layout: " + err.Error()})
	}
	return ctx.JSON(http.StatusOK, items)
}
