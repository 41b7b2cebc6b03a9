package middleware

import (
	"net/http"

	"benchtime/internal/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// GetRequiredPermissionForMethod returns the permission flag a given
// HTTP method needs on a resource type
func GetRequiredPermissionForMethod(method string) string {
	switch method {
	case http.MethodGet:
		return models.PermissionView
	case http.MethodPost:
		return models.PermissionCreate
	case http.MethodPut, http.MethodPatch:
		return models.PermissionEdit
	case http.MethodDelete:
		return models.PermissionDelete
	default:
		return ""
	}
}

// HasPermission reports whether any of the user's roles grants the
// permission on the resource type. Grants only ever widen access, a
// false flag on one role never overrides a true flag on another.
func HasPermission(db *gorm.DB, userID, resourceType, permission string) (bool, error) {
	roles, err := models.GetUserRoles(userID, db)
	if err != nil {
		return false, err
	}

	for _, role := range roles {
		for _, perm := range role.Permissions {
			if perm.ResourceType == resourceType && perm.Has(permission) {
				return true, nil
			}
		}
	}

	return false, nil
}

// CheckPermission middleware gates a route on the permission matrix,
// deriving the required flag from the request method
func CheckPermission(db *gorm.DB, resourceType string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			permission := GetRequiredPermissionForMethod(c.Request().Method)
			if permission == "" {
				return echo.NewHTTPError(http.StatusForbidden, "Invalid request method")
			}

			allowed, err := HasPermission(db, GetUserID(c), resourceType, permission)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check permissions")
			}
			if !allowed {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}

			return next(c)
		}
	}
}

// CheckPermissionFlag middleware gates a route on one explicit
// permission flag, for routes whose method does not imply the flag
func CheckPermissionFlag(db *gorm.DB, resourceType, permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, err := HasPermission(db, GetUserID(c), resourceType, permission)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check permissions")
			}
			if !allowed {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}

			return next(c)
		}
	}
}

// RequireAdmin middleware restricts a route to users holding the admin role
func RequireAdmin(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			isAdmin, err := models.UserHasRole(GetUserID(c), "admin", db)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check permissions")
			}
			if !isAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
			}

			return next(c)
		}
	}
}
