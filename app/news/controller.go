package news

import (
	"errors"
	"net/http"
	"strconv"

	"intranet/app/models"
	"intranet/core/router"
	"intranet/core/router/middleware"
	"intranet/core/types"
)

type PostController struct {
	Service *PostService
}

func NewPostController(service *PostService) *PostController {
	return &PostController{
		Service: service,
	}
}

func (c *PostController) Routes(router *router.RouterGroup) {
	router.GET("/news", c.List)
	router.POST("/news", c.Create)
	router.GET("/news/:id", c.Get)
	router.PUT("/news/:id", c.Update)
	router.DELETE("/news/:id", c.Delete)
	router.POST("/news/:id/cover", c.UploadCover)
}

// List godoc
// @Summary List news posts
// @Description Published posts, pinned first then newest
// @Tags App/News
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param category query string false "Category"
// @Success 200 {object} types.PaginatedResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /news [get]
func (c *PostController) List(ctx *router.Context) error {
	var page, limit *int
	if v, err := strconv.Atoi(ctx.Query("page")); err == nil {
		page = &v
	}
	if v, err := strconv.Atoi(ctx.Query("limit")); err == nil {
		limit = &v
	}

	paginatedResponse, err := c.Service.GetAll(page, limit, ctx.Query("category"))
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to fetch posts: " + err.Error()})
	}
	return ctx.JSON(http.StatusOK, paginatedResponse)
}

// Get godoc
// @Summary Get a post
// @Description Looks the post up by slug, falling back to a numeric id
// @Tags App/News
// @Security BearerAuth
// @Produce json
// @Param id path string true "Post slug or id"
// @Success 200 {object} models.Post
// @Failure 404 {object} types.ErrorResponse
// @Router /news/{id} [get]
func (c *PostController) Get(ctx *router.Context) error {
	item, err := c.Service.GetBySlug(ctx.Param("id"))
	if errors.Is(err, ErrPostNotFound) {
		if id, parseErr := parseId(ctx); parseErr == nil {
			item, err = c.Service.GetById(id)
		}
	}
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, item)
}

// Create godoc
// @Summary Create a post
// @Description Slug and excerpt are derived from the title and content when omitted
// @Tags App/News
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param post body models.CreatePostRequest true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} types.ErrorResponse
// @Router /news [post]
func (c *PostController) Create(ctx *router.Context) error {
	var req models.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}
	item, err := c.Service.Create(&req, middleware.UserId(ctx))
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to create post: " + err.Error()})
	}
	return ctx.JSON(http.StatusCreated, item)
}

// Update godoc
// @Summary Update a post
// @Tags App/News
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Post id"
// @Param post body models.UpdatePostRequest true "Changes"
// @Success 200 {object} models.Post
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /news/{id} [put]
func (c *PostController) Update(ctx *router.Context) error {
	id, err := parseId(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid id format"})
	}
	var req models.UpdatePostRequest
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
// @Summary Delete a post
// @Tags App/News
// @Security BearerAuth
// @Param id path int true "Post id"
// @Success 204
// @Failure 404 {object} types.ErrorResponse
// @Router /news/{id} [delete]
func (c *PostController) Delete(ctx *router.Context) error {
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

// UploadCover godoc
// @Summary Upload a cover image
// @Description Images are converted to WebP; a new cover replaces the previous one
// @Tags App/News
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Post id"
// @Param file formData file true "Cover image"
// @Success 200 {object} models.Post
// @Failure 400 {object} types.ErrorResponse
// @Router /news/{id}/cover [post]
func (c *PostController) UploadCover(ctx *router.Context) error {
	id, err := parseId(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid id format"})
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "No file uploaded"})
	}
	item, err := c.Service.UploadCover(ctx.Request.Context(), id, file)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return c.fail(ctx, err)
		}
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Failed to upload cover: " + err.Error()})
	}
	return ctx.JSON(http.StatusOK, item)
}

func (c *PostController) fail(ctx *router.Context, err error) error {
	if errors.Is(err, ErrPostNotFound) {
		return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Post not found"})
	}
	return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
}

func parseId(ctx *router.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	return uint(id), err
}
