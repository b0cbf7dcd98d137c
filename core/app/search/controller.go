package search

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"intranet/core/router"
	"intranet/core/types"
)

type SearchController struct {
	Service *SearchService
}

func NewSearchController(service *SearchService) *SearchController {
	return &SearchController{
		Service: service,
	}
}

func (c *SearchController) Routes(router *router.RouterGroup) {
	router.GET("/search", c.Search)
	router.GET("/search/suggestions", c.Suggestions)
	router.POST("/search/select", c.Select)
	router.GET("/search/sources", c.Sources)
}

// Search godoc
// @Summary Global search across dashboard widgets
// @Description Fuzzy search over the records of every visible widget, best match first
// @Tags Core/Search
// @Security BearerAuth
// @Produce json
// @Param q query string true "Search query" example("book room")
// @Param types query string false "Comma-separated record types" example("task,event")
// @Param widgets query string false "Comma-separated widget names" example("tasks,calendar")
// @Param from query string false "Earliest date (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Latest date (RFC3339 or YYYY-MM-DD)"
// @Param limit query int false "Maximum results" example(20)
// @Success 200 {object} search.SearchResponse
// @Failure 400 {object} types.ErrorResponse
// @Router /search [get]
func (c *SearchController) Search(ctx *router.Context) error {
	req := &SearchRequest{
		Query:   ctx.Query("q"),
		Types:   splitParam(ctx.Query("types")),
		Widgets: splitParam(ctx.Query("widgets")),
		From:    ctx.Query("from"),
		To:      ctx.Query("to"),
	}
	if limitStr := ctx.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid limit"})
		}
		req.Limit = limit
	}

	response, err := c.Service.GlobalSearch(req)
	if err != nil {
		if errors.Is(err, ErrInvalidDate) || errors.Is(err, ErrUnknownType) {
			return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		}
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Search failed: " + err.Error()})
	}
	return ctx.JSON(http.StatusOK, response)
}

// Suggestions godoc
// @Summary Word completions
// @Description Distinct words from titles, descriptions and categories starting with the prefix
// @Tags Core/Search
// @Security BearerAuth
// @Produce json
// @Param q query string true "Prefix" example("rev")
// @Param limit query int false "Maximum suggestions (default 5)"
// @Success 200 {object} search.SuggestionsResponse
// @Router /search/suggestions [get]
func (c *SearchController) Suggestions(ctx *router.Context) error {
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	return ctx.JSON(http.StatusOK, c.Service.Suggest(ctx.Query("q"), limit))
}

// Select godoc
// @Summary Select a search result
// @Description Runs the action attached to a record, if any
// @Tags Core/Search
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body search.SelectRequest true "Record to select"
// @Success 200 {object} search.SelectResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /search/select [post]
func (c *SearchController) Select(ctx *router.Context) error {
	var req SelectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid input: " + err.Error()})
	}

	response, err := c.Service.Select(&req)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return ctx.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Record not found"})
		}
		return ctx.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
	}
	return ctx.JSON(http.StatusOK, response)
}

// Sources godoc
// @Summary Registered search sources
// @Tags Core/Search
// @Security BearerAuth
// @Produce json
// @Success 200 {array} search.Source
// @Router /search/sources [get]
func (c *SearchController) Sources(ctx *router.Context) error {
	return ctx.JSON(http.StatusOK, c.Service.Sources())
}

func splitParam(value string) []string {
	if value == "" {
		return nil
	}
	var parts []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
