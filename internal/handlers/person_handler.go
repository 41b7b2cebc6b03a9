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

type PersonHandler struct {
	*EntityHandler[models.Person]
	db *gorm.DB
}

func NewPersonHandler(db *gorm.DB) *PersonHandler {
	service := services.NewBaseService(db, models.Person{})
	return &PersonHandler{
		EntityHandler: NewEntityHandler(service, map[string]string{
			"active":         "active",
			"organizationId": "organization_id",
		}),
		db: db,
	}
}

// Create adds a person. Emails are stored lowercased and must be unique.
func (h *PersonHandler) Create(c echo.Context) error {
	var req validator.PersonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	email := strings.ToLower(req.Email)

	var count int64
	h.db.Model(&models.Person{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Email already registered"})
	}

	person := models.Person{
		Name:           req.Name,
		Email:          email,
		Active:         true,
		OrganizationID: req.OrganizationID,
	}

	if req.Active != nil {
		person.Active = *req.Active
	}
	if req.RoleLabels != nil {
		labels, err := json.Marshal(req.RoleLabels)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid role labels"})
		}
		person.RoleLabels = datatypes.JSON(labels)
	}

	if err := h.service.Create(c.Request().Context(), &person); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create person"})
	}

	return c.JSON(http.StatusCreated, person)
}

// Update modifies a person record
func (h *PersonHandler) Update(c echo.Context) error {
	var req validator.PersonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	email := strings.ToLower(req.Email)

	var count int64
	h.db.Model(&models.Person{}).Where("email = ? AND id <> ?", email, c.Param("id")).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Email already registered"})
	}

	updates := map[string]interface{}{
		"name":  req.Name,
		"email": email,
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.OrganizationID != "" {
		updates["organization_id"] = req.OrganizationID
	}
	if req.RoleLabels != nil {
		labels, err := json.Marshal(req.RoleLabels)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid role labels"})
		}
		updates["role_labels"] = datatypes.JSON(labels)
	}

	person, err := h.service.Update(c.Request().Context(), c.Param("id"), updates)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Person not found"})
	}

	return c.JSON(http.StatusOK, person)
}
