package notifications

import (
	"errors"
	"net/http"
	"strconv"

	"intranet/core/router"
	"intranet/core/router/middleware"
	"intranet/core/types"
)

type NotificationController struct {
	Service *NotificationService
}

func NewNotificationController(service *NotificationService) *NotificationController {
	return &NotificationController{
		Service: service,
	}
}

func (c *NotificationController) Routes(router *router.RouterGroup) {
	// specific routes before parameterized ones
	router.GET("/notifications", c.List)
	router.GET("/notifications/unread-count", c.UnreadCount)
	router.POST("/notifications/read-all", c.MarkAllRead)
	router.PUT("/notifications/:id/read", c.MarkRead)
}

// List godoc
// @Summary List notifications
// @Description The current user's alerts, newest first
// @Tags Core/Notifications
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param unread query bool false "Only unread"
// @Success 200 {object} types.PaginatedResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /notifications [get]
func (c *NotificationController) List(ctx *router.Context) error {
	var page, limit *int
	if v, err := strconv.Atoi(ctx.Query("page")); err == nil {
		page = &v
	}
	if v, err := strconv.Atoi(ctx.Query("limit")); err == nil {
		limit = &v
	}
	unread, _ := strconv.ParseBool(ctx.Query("unread"))

	resp, err := c.Service.List(middleware.UserId(ctx), page, limit, unread)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to fetch notifications: " + err.Error()})
	}
	return ctx.JSON(http.StatusOK, resp)
}

// UnreadCount godoc
// @Summary Unread notification count
// @Tags Core/Notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} notifications.UnreadCountResponse
// @Router /notifications/unread-count [get]
func (c *NotificationController) UnreadCount(ctx *router.Context) error {
	count, err := c.Service.UnreadCount(middleware.UserId(ctx))
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
	}
	return ctx.JSON(http.StatusOK, UnreadCountResponse{Count: count})
}

// MarkRead godoc
// @Summary Mark a notification read
// @Tags Core/Notifications
// @Security BearerAuth
// @Produce json
// @Param id path int true "Notification id"
// @Success 200 {object} notifications.Notification
// @Failure 404 {object} types.ErrorResponse
// @Router /notifications/{id}/read [put]
func (c *NotificationController) MarkRead(ctx *router.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid id format"})
	}
	item, err := c.Service.MarkRead(middleware.UserId(ctx), uint(id))
	if err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Notification not found"})
		}
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
	}
	return ctx.JSON(http.StatusOK, item)
}

// MarkAllRead godoc
// @Summary Mark every notification read
// @Tags Core/Notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} types.SuccessResponse
// @Router /notifications/read-all [post]
func (c *NotificationController) MarkAllRead(ctx *router.Context) error {
	n, err := c.Service.MarkAllRead(middleware.UserId(ctx))
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
	}
	return ctx.JSON(http.StatusOK, types.SuccessResponse{Message: strconv.FormatInt(n, 10) + " marked as read"})
}
