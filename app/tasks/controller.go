package tasks

import (
	"errors"
	"net/http"
	"strconv"

	"intranet/app/models"
	"intranet/core/router"
	"intranet/core/types"
)

type TaskController struct {
	Service *TaskService
}

func NewTaskController(service *TaskService) *TaskController {
	return &TaskController{
		Service: service,
	}
}

func (c *TaskController) Routes(router *router.RouterGroup) {
	router.GET("/tasks", c.Board)
	router.POST("/tasks", c.Create)
	router.POST("/tasks/move", c.Move)
	router.GET("/tasks/:id", c.Get)
	router.PUT("/tasks/:id", c.Update)
	router.DELETE("/tasks/:id", c.Delete)
	router.POST("/tasks/:id/priority", c.CyclePriority)
}

// Board godoc
// @Summary Task board
// @Description Tasks grouped into todo, in-progress and done columns in board order
// @Tags App/Tasks
// @Security BearerAuth
// @Produce json
// @Success 200 {object} tasks.BoardResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /tasks [get]
func (c *TaskController) Board(ctx *router.Context) error {
	board, err := c.Service.Board()
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to load tasks: " + err.Error()})
	}
	return ctx.JSON(http.StatusOK, board)
}

// Get godoc
// @Summary Get a task
// @Tags App/Tasks
// @Security BearerAuth
// @Produce json
// @Param id path int true "Task id"
// @Success 200 {object} models.Task
// @Failure 404 {object} types.ErrorResponse
// @Router /tasks/{id} [get]
func (c *TaskController) Get(ctx *router.Context) error {
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
// @Summary Create a task
// @Description New tasks are appended to the end of the board
// @Tags App/Tasks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param task body models.CreateTaskRequest true "Task"
// @Success 201 {object} models.Task
// @Failure 400 {object} types.ErrorResponse
// @Router /tasks [post]
func (c *TaskController) Create(ctx *router.Context) error {
	var req models.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}
	item, err := c.Service.Create(&req)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to create task: " + err.Error()})
	}
	return ctx.JSON(http.StatusCreated, item)
}

// Update godoc
// @Summary Update a task
// @Tags App/Tasks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Task id"
// @Param task body models.UpdateTaskRequest true "Changes"
// @Success 200 {object} models.Task
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /tasks/{id} [put]
func (c *TaskController) Update(ctx *router.Context) error {
	id, err := parseId(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid id format"})
	}
	var req models.UpdateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}
	item, err := c.Service.Update(id, &req)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, item)
}

// Delete godoc
// @Summary Delete a task
// @Tags App/Tasks
// @Security BearerAuth
// @Param id path int true "Task id"
// @Success 204
// @Failure 404 {object} types.ErrorResponse
// @Router /tasks/{id} [delete]
func (c *TaskController) Delete(ctx *router.Context) error {
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

// Move godoc
// @Summary Drop a task on the board
// @Description Reorders a task within or across status columns. Drops without a destination or onto the original slot change nothing; out of range indexes append to the end.
// @Tags App/Tasks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param event body tasks.DropEvent true "Drop event"
// @Success 200 {object} tasks.MoveResponse
// @Failure 400 {object} types.ErrorResponse
// @Router /tasks/move [post]
func (c *TaskController) Move(ctx *router.Context) error {
	var ev DropEvent
	if err := ctx.ShouldBindJSON(&ev); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}
	response, err := c.Service.Move(ev)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, response)
}

// CyclePriority godoc
// @Summary Advance task priority
// @Description Cycles low, medium, high and back to low
// @Tags App/Tasks
// @Security BearerAuth
// @Produce json
// @Param id path int true "Task id"
// @Success 200 {object} models.Task
// @Failure 404 {object} types.ErrorResponse
// @Router /tasks/{id}/priority [post]
func (c *TaskController) CyclePriority(ctx *router.Context) error {
	id, err := parseId(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid id format"})
	}
	item, err := c.Service.CyclePriority(id)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, item)
}

func (c *TaskController) fail(ctx *router.Context, err error) error {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Task not found"})
	case errors.Is(err, ErrInvalidStatus):
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
	default:
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
	}
}

func parseId(ctx *router.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	return uint(id), err
}
