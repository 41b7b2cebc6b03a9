package handlers

import (
	"net/http"
	"strings"

	"benchtime/internal/api/validator"
	"benchtime/internal/events"
	"benchtime/internal/models"
	"benchtime/internal/services"
	"benchtime/internal/tasks"
	"benchtime/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type OrganizationHandler struct {
	*EntityHandler[models.Organization]
	db  *gorm.DB
	log *logger.Logger
}

func NewOrganizationHandler(db *gorm.DB) *OrganizationHandler {
	service := services.NewBaseService(db, models.Organization{})
	return &OrganizationHandler{
		EntityHandler: NewEntityHandler(service, map[string]string{
			"slug": "slug",
		}),
		db:  db,
		log: logger.New("OrganizationHandler"),
	}
}

// Register is the public signup endpoint. It creates the organization
// together with its admin person, account and role grant in a single
// transaction, so a failure partway leaves nothing behind.
func (h *OrganizationHandler) Register(c echo.Context) error {
	var req validator.OrganizationRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	email := strings.ToLower(req.AdminEmail)

	var count int64
	h.db.Model(&models.Organization{}).Where("slug = ?", req.OrganizationSlug).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Organization slug already taken"})
	}

	h.db.Model(&models.User{}).Where("username = ?", req.AdminUsername).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Username already taken"})
	}

	h.db.Model(&models.Person{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Email already registered"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to hash password"})
	}

	var org models.Organization
	err = h.db.Transaction(func(tx *gorm.DB) error {
		org = models.Organization{
			Name: req.OrganizationName,
			Slug: req.OrganizationSlug,
		}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}

		person := models.Person{
			Name:           req.AdminName,
			Email:          email,
			Active:         true,
			OrganizationID: org.ID,
		}
		if err := tx.Create(&person).Error; err != nil {
			return err
		}

		user := models.User{
			Username:     req.AdminUsername,
			PasswordHash: string(hashedPassword),
			PersonID:     person.ID,
			Active:       true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		return models.AssignRole(tx, user.ID, "admin", user.ID)
	})
	if err != nil {
		h.log.Error("organization registration failed", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to register organization"})
	}

	events.Emit(tasks.EventUserRegistered, tasks.WelcomeEmailPayload{
		ToName:           req.AdminName,
		ToEmail:          email,
		OrganizationName: req.OrganizationName,
	})

	return c.JSON(http.StatusCreated, org)
}

func (h *OrganizationHandler) Create(c echo.Context) error {
	var req validator.OrganizationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	var count int64
	h.db.Model(&models.Organization{}).Where("slug = ?", req.Slug).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Organization slug already taken"})
	}

	org := models.Organization{
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
		Website:      req.Website,
	}

	if err := h.service.Create(c.Request().Context(), &org); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create organization"})
	}

	return c.JSON(http.StatusCreated, org)
}

func (h *OrganizationHandler) Update(c echo.Context) error {
	var req validator.OrganizationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	var count int64
	h.db.Model(&models.Organization{}).Where("slug = ? AND id <> ?", req.Slug, c.Param("id")).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Organization slug already taken"})
	}

	updates := map[string]interface{}{
		"name":          req.Name,
		"slug":          req.Slug,
		"description":   req.Description,
		"contact_email": req.ContactEmail,
		"website":       req.Website,
	}

	org, err := h.service.Update(c.Request().Context(), c.Param("id"), updates)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Organization not found"})
	}

	return c.JSON(http.StatusOK, org)
}
