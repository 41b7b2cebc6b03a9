package handlers

import (
	"net/http"
	"strings"

	"benchtime/internal/api/validator"
	"benchtime/internal/models"
	"benchtime/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	*EntityHandler[models.ResourceCategory]
	db *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	service := services.NewBaseService(db, models.ResourceCategory{})
	return &CategoryHandler{
		EntityHandler: NewEntityHandler(service, map[string]string{
			"organizationId": "organization_id",
		}),
		db: db,
	}
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req validator.ResourceCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	category := models.ResourceCategory{
		Name:           req.Name,
		Description:    req.Description,
		Icon:           req.Icon,
		Color:          req.Color,
		OrganizationID: req.OrganizationID,
	}

	if err := h.service.Create(c.Request().Context(), &category); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create category"})
	}

	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	var req validator.ResourceCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"icon":        req.Icon,
		"color":       req.Color,
	}
	if req.OrganizationID != "" {
		updates["organization_id"] = req.OrganizationID
	}

	category, err := h.service.Update(c.Request().Context(), c.Param("id"), updates)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Category not found"})
	}

	return c.JSON(http.StatusOK, category)
}

// Delete refuses to remove a category that still has resources
func (h *CategoryHandler) Delete(c echo.Context) error {
	var count int64
	h.db.Model(&models.Resource{}).Where("category_id = ?", c.Param("id")).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Category still has resources"})
	}

	return h.EntityHandler.Delete(c)
}
