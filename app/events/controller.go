package events

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"intranet/app/models"
	"intranet/core/router"
	"intranet/core/router/middleware"
	"intranet/core/types"
)

type EventController struct {
	Service *EventService
}

func NewEventController(service *EventService) *EventController {
	return &EventController{
		Service: service,
	}
}

func (c *EventController) Routes(router *router.RouterGroup) {
	router.GET("/events", c.List)
	router.POST("/events", c.Create)
	router.POST("/events/sync", c.Sync)
	router.GET("/events/:id", c.Get)
	router.DELETE("/events/:id", c.Delete)
}

// List godoc
// @Summary List calendar events
// @Description Events overlapping the optional from/to window (RFC3339 or YYYY-MM-DD)
// @Tags App/Events
// @Security BearerAuth
// @Produce json
// @Param from query string false "Window start"
// @Param to query string false "Window end"
// @Success 200 {array} models.Event
// @Failure 400 {object} types.ErrorResponse
// @Router /events [get]
func (c *EventController) List(ctx *router.Context) error {
	from, err := parseBound(ctx.Query("from"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid from date"})
	}
	to, err := parseBound(ctx.Query("to"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid to date"})
	}
	if !to.IsZero() && len(ctx.Query("to")) == len(time.DateOnly) {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}

	items, err := c.Service.List(from, to)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to fetch events: " + err.Error()})
	}
	return ctx.JSON(http.StatusOK, items)
}

// Get godoc
// @Summary Get an event
// @Tags App/Events
// @Security BearerAuth
// @Produce json
// @Param id path int true "Event id"
// @Success 200 {object} models.Event
// @Failure 404 {object} types.ErrorResponse
// @Router /events/{id} [get]
func (c *EventController) Get(ctx *router.Context) error {
	id, err := parseId(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid id format"})
	}
	item, err := c.Service.GetById(id)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, item)
}

// Create godoc
// @Summary Create an event
// @Description Events without an end last one hour
// @Tags App/Events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param event body models.CreateEventRequest true "Event"
// @Success 201 {object} models.Event
// @Failure 400 {object} types.ErrorResponse
// @Router /events [post]
func (c *EventController) Create(ctx *router.Context) error {
	var req models.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}
	item, err := c.Service.Create(&req, middleware.UserId(ctx))
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, item)
}

// Delete godoc
// @Summary Delete an event
// @Tags App/Events
// @Security BearerAuth
// @Param id path int true "Event id"
// @Success 204
// @Failure 404 {object} types.ErrorResponse
// @Router /events/{id} [delete]
func (c *EventController) Delete(ctx *router.Context) error {
	id, err := parseId(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid id format"})
	}
	if err := c.Service.Delete(id); err != nil {
		return c.fail(ctx, err)
	}
	ctx.Status(http.StatusNoContent)
	return nil
}

// Sync godoc
// @Summary Import the company calendar
// @Tags App/Events
// @Security BearerAuth
// @Produce json
// @Success 200 {object} events.SyncResult
// @Failure 503 {object} types.ErrorResponse
// @Router /events/sync [post]
func (c *EventController) Sync(ctx *router.Context) error {
	result, err := c.Service.Sync(ctx.Request.Context())
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, result)
}

func (c *EventController) fail(ctx *router.Context, err error) error {
	switch {
	case errors.Is(err, ErrEventNotFound):
		return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Event not found"})
	case errors.Is(err, ErrInvalidRange):
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrSyncDisabled):
		return ctx.JSON(http.StatusServiceUnavailable, types.ErrorResponse{Error: err.Error()})
	default:
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
	}
}

func parseBound(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := types.ParseDateTime(value)
	return parsed.Time, err
}

func parseId(ctx *router.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	return uint(id), err
}
