package api

import (
	"net/http"

	"benchtime/internal/api/middleware"
	"benchtime/internal/routes"

	"github.com/labstack/echo/v4"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "BenchTime API")
	})
	// Health check
	s.echo.GET("/health", s.healthCheck)

	// Public routes: login, registration, password reset entry points
	routes.SetupAuthRoutes(s.echo, s.db, s.config)
	routes.SetupOrganizationRegister(s.echo, s.db)

	// API v1 group, everything below requires a live session
	api := s.echo.Group("/api/v1")
	auth := middleware.NewAuthMiddleware(s.db, s.config.JWT.Secret)
	api.Use(auth.Middleware())

	routes.SetupEntityRoutes(api, s.db)
	routes.SetupAdminRoutes(api, s.db)
	routes.SetupUploadRoutes(api, s.db, s.storage)
}
