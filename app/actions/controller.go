package actions

import (
	"errors"
	"net/http"

	"intranet/core/router"
	"intranet/core/router/middleware"
	"intranet/core/types"
)

type ActionController struct {
	Service *ActionService
}

func NewActionController(service *ActionService) *ActionController {
	return &ActionController{
		Service: service,
	}
}

func (c *ActionController) Routes(router *router.RouterGroup) {
	router.GET("/actions", c.List)
	router.POST("/actions/:id", c.Invoke)
}

// List godoc
// @Summary Quick actions
// @Description The command palette catalog, ranked by fuzzy match when q is given
// @Tags App/Actions
// @Security BearerAuth
// @Produce json
// @Param q query string false "Filter"
// @Success 200 {array} actions.Ranked
// @Router /actions [get]
func (c *ActionController) List(ctx *router.Context) error {
	return ctx.JSON(http.StatusOK, c.Service.List(ctx.Query("q")))
}

// Invoke godoc
// @Summary Trigger a quick action
// @Tags App/Actions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Action id"
// @Success 200 {object} actions.Invocation
// @Failure 404 {object} types.ErrorResponse
// @Router /actions/{id} [post]
func (c *ActionController) Invoke(ctx *router.Context) error {
	inv, err := c.Service.Invoke(ctx.Param("id"), middleware.UserId(ctx), "palette")
	if err != nil {
		if errors.Is(err, ErrActionNotFound) {
			return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Action not found"})
		}
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
	}
	return ctx.JSON(http.StatusOK, inv)
}
