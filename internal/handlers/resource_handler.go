package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"benchtime/internal/api/validator"
	"benchtime/internal/models"
	"benchtime/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ResourceHandler struct {
	*EntityHandler[models.Resource]
	db *gorm.DB
}

func NewResourceHandler(db *gorm.DB) *ResourceHandler {
	service := services.NewBaseService(db, models.Resource{})
	return &ResourceHandler{
		EntityHandler: NewEntityHandler(service, map[string]string{
			"status":         "status",
			"category_id":    "category_id",
			"organizationId": "organization_id",
		}, "Category"),
		db: db,
	}
}

// Create adds a resource. The category must exist, the status defaults
// to available.
func (h *ResourceHandler) Create(c echo.Context) error {
	var req validator.ResourceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	var count int64
	h.db.Model(&models.ResourceCategory{}).Where("id = ?", req.CategoryID).Count(&count)
	if count == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown category"})
	}

	resource := models.Resource{
		Name:           req.Name,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		Status:         models.ResourceStatusAvailable,
		Location:       req.Location,
		OrganizationID: req.OrganizationID,
	}

	if req.Status != "" {
		resource.Status = models.ResourceStatus(req.Status)
	}
	if req.Specifications != nil {
		specs, err := json.Marshal(req.Specifications)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid specifications"})
		}
		resource.Specifications = datatypes.JSON(specs)
	}

	if err := h.service.Create(c.Request().Context(), &resource, "Category"); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create resource"})
	}

	return c.JSON(http.StatusCreated, resource)
}

// Update modifies a resource
func (h *ResourceHandler) Update(c echo.Context) error {
	var req validator.ResourceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	var count int64
	h.db.Model(&models.ResourceCategory{}).Where("id = ?", req.CategoryID).Count(&count)
	if count == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown category"})
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"category_id": req.CategoryID,
		"location":    req.Location,
	}
	if req.Status != "" {
		updates["status"] = models.ResourceStatus(req.Status)
	}
	if req.OrganizationID != "" {
		updates["organization_id"] = req.OrganizationID
	}
	if req.Specifications != nil {
		specs, err := json.Marshal(req.Specifications)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid specifications"})
		}
		updates["specifications"] = datatypes.JSON(specs)
	}

	resource, err := h.service.Update(c.Request().Context(), c.Param("id"), updates, "Category")
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Resource not found"})
	}

	return c.JSON(http.StatusOK, resource)
}
