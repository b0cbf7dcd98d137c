package recognition

import (
	"errors"
	"net/http"
	"strconv"

	"intranet/app/models"
	"intranet/core/router"
	"intranet/core/router/middleware"
	"intranet/core/types"
)

type KudosController struct {
	Service *KudosService
}

func NewKudosController(service *KudosService) *KudosController {
	return &KudosController{
		Service: service,
	}
}

func (c *KudosController) Routes(router *router.RouterGroup) {
	router.GET("/recognition", c.List)
	router.POST("/recognition", c.Create)
}

// List godoc
// @Summary Recent kudos
// @Tags App/Recognition
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Maximum entries" default(20)
// @Param to_user_id query int false "Only kudos received by this user"
// @Success 200 {array} models.Kudos
// @Failure 500 {object} types.ErrorResponse
// @Router /recognition [get]
func (c *KudosController) List(ctx *router.Context) error {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	var toUserId uint
	if v, err := strconv.ParseUint(ctx.Query("to_user_id"), 10, 32); err == nil {
		toUserId = uint(v)
	}

	items, err := c.Service.List(limit, toUserId)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to fetch kudos: " + err.Error()})
	}
	return ctx.JSON(http.StatusOK, items)
}

// Create godoc
// @Summary Give kudos
// @Tags App/Recognition
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param kudos body models.CreateKudosRequest true "Kudos"
// @Success 201 {object} models.Kudos
// @Failure 400 {object} types.ErrorResponse
// @Router /recognition [post]
func (c *KudosController) Create(ctx *router.Context) error {
	var req models.CreateKudosRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}
	item, err := c.Service.Create(&req, middleware.UserId(ctx))
	if err != nil {
		if errors.Is(err, ErrSelfKudos) || errors.Is(err, ErrInvalidBadge) {
			return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		}
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to give kudos: " + err.Error()})
	}
	return ctx.JSON(http.StatusCreated, item)
}
