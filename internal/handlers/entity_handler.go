package handlers

import (
	"net/http"
	"strings"

	"benchtime/internal/services"

	"github.com/labstack/echo/v4"
)

// EntityHandler provides generic read and delete operations for any
// model. Writes stay entity specific because each entity validates its
// own request shape.
type EntityHandler[T any] struct {
	service services.BaseService[T]
	// allowedFilters maps query parameters to database columns. Query
	// parameters outside this map are ignored.
	allowedFilters  map[string]string
	defaultIncludes []string
}

// NewEntityHandler creates a new generic entity handler
func NewEntityHandler[T any](service services.BaseService[T], allowedFilters map[string]string, defaultIncludes ...string) *EntityHandler[T] {
	return &EntityHandler[T]{
		service:         service,
		allowedFilters:  allowedFilters,
		defaultIncludes: defaultIncludes,
	}
}

// parseIncludes parses the include query parameter and returns a slice of relationships to preload
func parseIncludes(ctx echo.Context, defaults []string) []string {
	include := ctx.QueryParam("include")
	if include == "" {
		return defaults
	}
	return append(strings.Split(include, ","), defaults...)
}

// Get handles retrieval of a single entity
func (h *EntityHandler[T]) Get(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing id parameter")
	}

	entity, err := h.service.Get(ctx.Request().Context(), id, parseIncludes(ctx, h.defaultIncludes)...)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "entity not found")
	}

	return ctx.JSON(http.StatusOK, entity)
}

// List handles retrieval of multiple entities with filtering
func (h *EntityHandler[T]) List(ctx echo.Context) error {
	filters := make(map[string]interface{})
	for param, column := range h.allowedFilters {
		if value := ctx.QueryParam(param); value != "" {
			filters[column] = value
		}
	}

	entities, err := h.service.List(ctx.Request().Context(), filters, parseIncludes(ctx, h.defaultIncludes)...)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.JSON(http.StatusOK, entities)
}

// Delete handles removal of an entity
func (h *EntityHandler[T]) Delete(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing id parameter")
	}

	if err := h.service.Delete(ctx.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "entity not found")
	}

	return ctx.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}
