package users

import (
	"errors"
	"net/http"
	"strconv"

	"intranet/core/logger"
	"intranet/core/router"
	"intranet/core/router/middleware"
	"intranet/core/types"
)

type UserController struct {
	service *UserService
	logger  logger.Logger
}

func NewUserController(service *UserService, logger logger.Logger) *UserController {
	return &UserController{
		service: service,
		logger:  logger,
	}
}

func (c *UserController) Routes(router *router.RouterGroup) {
	// public, listed in the auth middleware's public paths
	router.POST("/auth/login", c.Login)
	router.POST("/auth/register", c.Register)

	router.GET("/profile", c.GetProfile)
	router.PUT("/profile", c.UpdateProfile)
	router.PUT("/profile/password", c.UpdatePassword)
	router.PUT("/profile/avatar", c.UpdateAvatar)
	router.DELETE("/profile/avatar", c.RemoveAvatar)

	router.GET("/directory", c.Directory)
	router.GET("/directory/:id", c.Get)
}

// Login godoc
// @Summary Sign in
// @Description Exchanges email and password for a bearer token
// @Tags Core/Auth
// @Accept json
// @Produce json
// @Param input body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 401 {object} types.ErrorResponse
// @Router /auth/login [post]
func (c *UserController) Login(ctx *router.Context) error {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}
	resp, err := c.service.Login(&req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return ctx.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "Invalid email or password"})
		}
		c.logger.Error("Failed to log in", logger.Err(err))
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to log in"})
	}
	return ctx.JSON(http.StatusOK, resp)
}

// Register godoc
// @Summary Create an account
// @Tags Core/Auth
// @Accept json
// @Produce json
// @Param input body RegisterRequest true "Account"
// @Success 201 {object} UserResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 409 {object} types.ErrorResponse
// @Router /auth/register [post]
func (c *UserController) Register(ctx *router.Context) error {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}
	item, err := c.service.Register(&req)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return ctx.JSON(http.StatusConflict, types.ErrorResponse{Error: err.Error()})
		}
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to create account: " + err.Error()})
	}
	return ctx.JSON(http.StatusCreated, item.ToResponse())
}

// GetProfile godoc
// @Summary Get profile from Authenticated User Token
// @Description Get profile by Bearer Token
// @Security BearerAuth
// @Tags Core/Profile
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /profile [get]
func (c *UserController) GetProfile(ctx *router.Context) error {
	id := middleware.UserId(ctx)
	c.logger.Debug("Getting user", logger.Uint("user_id", id))
	if id == 0 {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid user Id"})
	}

	item, err := c.service.GetById(id)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, item.ToResponse())
}

// UpdateProfile godoc
// @Summary Update profile from Authenticated User Token
// @Security BearerAuth
// @Tags Core/Profile
// @Accept json
// @Produce json
// @Param input body UpdateProfileRequest true "Update Request"
// @Success 200 {object} UserResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /profile [put]
func (c *UserController) UpdateProfile(ctx *router.Context) error {
	id := middleware.UserId(ctx)
	if id == 0 {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid user Id"})
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}

	item, err := c.service.UpdateProfile(id, &req)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, item.ToResponse())
}

// UpdatePassword godoc
// @Summary Change own password
// @Security BearerAuth
// @Tags Core/Profile
// @Accept json
// @Produce json
// @Param input body UpdatePasswordRequest true "Passwords"
// @Success 200 {object} types.SuccessResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 401 {object} types.ErrorResponse
// @Router /profile/password [put]
func (c *UserController) UpdatePassword(ctx *router.Context) error {
	id := middleware.UserId(ctx)
	if id == 0 {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid user Id"})
	}

	var req UpdatePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}
	if err := c.service.UpdatePassword(id, &req); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return ctx.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "Current password is incorrect"})
		}
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, types.SuccessResponse{Message: "Password updated"})
}

// UpdateAvatar godoc
// @Summary Upload avatar
// @Description Images are downscaled and stored as WebP
// @Security BearerAuth
// @Tags Core/Profile
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} UserResponse
// @Failure 400 {object} types.ErrorResponse
// @Router /profile/avatar [put]
func (c *UserController) UpdateAvatar(ctx *router.Context) error {
	id := middleware.UserId(ctx)
	if id == 0 {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid user Id"})
	}

	file, err := ctx.FormFile("avatar")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "No avatar file uploaded"})
	}
	item, err := c.service.UpdateAvatar(ctx.Request.Context(), id, file)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return c.fail(ctx, err)
		}
		c.logger.Error("Failed to update avatar", logger.Uint("user_id", id), logger.Err(err))
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
	}
	return ctx.JSON(http.StatusOK, item.ToResponse())
}

// RemoveAvatar godoc
// @Summary Remove avatar
// @Security BearerAuth
// @Tags Core/Profile
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /profile/avatar [delete]
func (c *UserController) RemoveAvatar(ctx *router.Context) error {
	id := middleware.UserId(ctx)
	if id == 0 {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid user Id"})
	}
	item, err := c.service.RemoveAvatar(ctx.Request.Context(), id)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, item.ToResponse())
}

// Directory godoc
// @Summary Employee directory
// @Security BearerAuth
// @Tags Core/Directory
// @Produce json
// @Param q query string false "Name, email or job title"
// @Param department query string false "Department"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} types.PaginatedResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /directory [get]
func (c *UserController) Directory(ctx *router.Context) error {
	var page, limit *int
	if v, err := strconv.Atoi(ctx.Query("page")); err == nil {
		page = &v
	}
	if v, err := strconv.Atoi(ctx.Query("limit")); err == nil {
		limit = &v
	}

	resp, err := c.service.Directory(page, limit, ctx.Query("q"), ctx.Query("department"))
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to fetch directory: " + err.Error()})
	}
	return ctx.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Directory entry
// @Security BearerAuth
// @Tags Core/Directory
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} UserResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /directory/{id} [get]
func (c *UserController) Get(ctx *router.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid id format"})
	}
	item, err := c.service.GetById(uint(id))
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, item.ToResponse())
}

func (c *UserController) fail(ctx *router.Context, err error) error {
	if errors.Is(err, ErrUserNotFound) {
		return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "User not found"})
	}
	c.logger.Error("User request failed", logger.Err(err))
	return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
}
