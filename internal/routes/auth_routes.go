package routes

import (
	"benchtime/internal/api/middleware"
	"benchtime/internal/config"
	"benchtime/internal/handlers"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func SetupAuthRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	base := e.Group("/api/v1")

	// Public auth routes group
	auth := base.Group("/auth")

	// Public routes (no auth required)
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// Protected auth routes (require authentication)
	protectedAuth := auth.Group("")
	authMiddleware := middleware.NewAuthMiddleware(db, cfg.JWT.Secret)
	protectedAuth.Use(authMiddleware.Middleware())

	protectedAuth.POST("/logout", authHandler.Logout)
	protectedAuth.GET("/me", authHandler.GetMe)

	// Role list for assignment pickers, restricted to admins
	adminHandler := handlers.NewAdminHandler(db)
	protectedAuth.GET("/roles", adminHandler.ListRoles, middleware.RequireAdmin(db))
}
