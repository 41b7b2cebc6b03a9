package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"benchtime/internal/models"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ValidationErrors wraps the validator's ValidationErrors
type ValidationErrors []playgroundvalidator.FieldError

// CustomValidator wraps go-playground/validator
type CustomValidator struct {
	validator *playgroundvalidator.Validate
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// NewValidator creates a new validator instance
func NewValidator() echo.Validator {
	v := playgroundvalidator.New()

	// Register custom validation tags
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	err := v.RegisterValidation("resource_status", validateResourceStatus)
	if err != nil {
		return nil
	}
	err = v.RegisterValidation("slug", validateSlug)
	if err != nil {
		return nil
	}
	err = v.RegisterValidation("permission", validatePermission)
	if err != nil {
		return nil
	}
	err = v.RegisterValidation("resource_type", validateResourceType)
	if err != nil {
		return nil
	}

	return &CustomValidator{validator: v}
}

// Custom validation functions
func validateResourceStatus(fl playgroundvalidator.FieldLevel) bool {
	return models.IsValidResourceStatus(models.ResourceStatus(fl.Field().String()))
}

func validateSlug(fl playgroundvalidator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}

func validatePermission(fl playgroundvalidator.FieldLevel) bool {
	return models.IsValidPermission(fl.Field().String())
}

func validateResourceType(fl playgroundvalidator.FieldLevel) bool {
	rt := fl.Field().String()
	return rt == models.ResourceTypePerson || rt == models.ResourceTypeResource ||
		rt == models.ResourceTypeCategory || rt == models.ResourceTypeOrganization
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		var validationErrors playgroundvalidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return ValidationErrors(validationErrors)
		}
		return err
	}
	return nil
}

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var fields []string
	for _, err := range ve {
		fields = append(fields, err.Field())
	}
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}

// Request validation structs shared across handlers
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type RoleRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description"`
}

type PermissionRequest struct {
	ResourceType string `json:"resource_type" validate:"required,resource_type"`
	CanView      bool   `json:"can_view"`
	CanCreate    bool   `json:"can_create"`
	CanEdit      bool   `json:"can_edit"`
	CanDelete    bool   `json:"can_delete"`
}

type BulkPermissionRequest struct {
	Permissions []BulkPermissionItem `json:"permissions" validate:"required,min=1,dive"`
}

type BulkPermissionItem struct {
	RoleID       string `json:"role_id" validate:"required,uuid"`
	ResourceType string `json:"resource_type" validate:"required,resource_type"`
	CanView      bool   `json:"can_view"`
	CanCreate    bool   `json:"can_create"`
	CanEdit      bool   `json:"can_edit"`
	CanDelete    bool   `json:"can_delete"`
}

// UserRolesRequest replaces a user's grants wholesale; an empty list
// revokes every role.
type UserRolesRequest struct {
	RoleIDs []string `json:"role_ids" validate:"omitempty,dive,uuid"`
}

type UserUpdateRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Active   *bool   `json:"active"`
}

type OrganizationRegisterRequest struct {
	OrganizationName string `json:"organizationName" validate:"required"`
	OrganizationSlug string `json:"organizationSlug" validate:"required,slug"`
	AdminEmail       string `json:"adminEmail" validate:"required,email"`
	AdminName        string `json:"adminName" validate:"required"`
	AdminUsername    string `json:"adminUsername" validate:"required,min=3"`
	AdminPassword    string `json:"adminPassword" validate:"required,min=6"`
}

type OrganizationRequest struct {
	Name         string `json:"name" validate:"required"`
	Slug         string `json:"slug" validate:"required,slug"`
	Description  string `json:"description"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email"`
	Website      string `json:"website" validate:"omitempty,url"`
}

type PersonRequest struct {
	Name           string   `json:"name" validate:"required,min=2"`
	Email          string   `json:"email" validate:"required,email"`
	RoleLabels     []string `json:"roles" validate:"required,min=1"`
	Active         *bool    `json:"active"`
	OrganizationID string   `json:"organizationId" validate:"omitempty,uuid"`
}

type ResourceRequest struct {
	Name           string                 `json:"name" validate:"required,min=2"`
	Description    string                 `json:"description"`
	CategoryID     string                 `json:"category_id" validate:"required,uuid"`
	Status         string                 `json:"status" validate:"omitempty,resource_status"`
	Location       string                 `json:"location"`
	Specifications map[string]interface{} `json:"specifications"`
	OrganizationID string                 `json:"organizationId" validate:"omitempty,uuid"`
}

type ResourceCategoryRequest struct {
	Name           string `json:"name" validate:"required,min=2"`
	Description    string `json:"description"`
	Icon           string `json:"icon"`
	Color          string `json:"color"`
	OrganizationID string `json:"organizationId" validate:"omitempty,uuid"`
}
