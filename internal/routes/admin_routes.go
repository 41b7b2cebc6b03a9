package routes

import (
	"benchtime/internal/api/middleware"
	"benchtime/internal/handlers"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers role, permission and user management
// routes. Everything here requires the admin role.
func SetupAdminRoutes(api *echo.Group, db *gorm.DB) {
	adminHandler := handlers.NewAdminHandler(db)

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin(db))

	roles := admin.Group("/roles")
	roles.GET("", adminHandler.ListRoles)
	roles.POST("", adminHandler.CreateRole)
	roles.PUT("/:id", adminHandler.UpdateRole)
	roles.DELETE("/:id", adminHandler.DeleteRole)
	roles.GET("/:id/permissions", adminHandler.GetRolePermissions)
	roles.PUT("/:id/permissions", adminHandler.UpdateRolePermission)

	admin.GET("/permissions", adminHandler.ListPermissions)
	admin.PUT("/permissions/bulk", adminHandler.BulkUpdatePermissions)

	users := admin.Group("/users")
	users.GET("", adminHandler.ListUsers)
	users.PUT("/:id", adminHandler.UpdateUser)
	users.GET("/:id/roles", adminHandler.GetUserRoles)
	users.PUT("/:id/roles", adminHandler.SetUserRoles)
}
