package routes

import (
	"benchtime/internal/api/middleware"
	"benchtime/internal/handlers"
	"benchtime/internal/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SetupOrganizationRegister registers the public signup endpoint
func SetupOrganizationRegister(e *echo.Echo, db *gorm.DB) {
	orgHandler := handlers.NewOrganizationHandler(db)
	e.POST("/api/v1/organizations/register", orgHandler.Register)
}

// SetupEntityRoutes registers CRUD routes for all entities, each gated
// on the permission matrix for its resource type
func SetupEntityRoutes(api *echo.Group, db *gorm.DB) {
	personHandler := handlers.NewPersonHandler(db)
	people := api.Group("/people")
	people.Use(middleware.CheckPermission(db, models.ResourceTypePerson))
	people.GET("", personHandler.List)
	people.GET("/:id", personHandler.Get)
	people.POST("", personHandler.Create)
	people.PUT("/:id", personHandler.Update)
	people.DELETE("/:id", personHandler.Delete)

	resourceHandler := handlers.NewResourceHandler(db)
	resources := api.Group("/resources")
	resources.Use(middleware.CheckPermission(db, models.ResourceTypeResource))
	resources.GET("", resourceHandler.List)
	resources.GET("/:id", resourceHandler.Get)
	resources.POST("", resourceHandler.Create)
	resources.PUT("/:id", resourceHandler.Update)
	resources.DELETE("/:id", resourceHandler.Delete)

	categoryHandler := handlers.NewCategoryHandler(db)
	categories := api.Group("/resource-categories")
	categories.Use(middleware.CheckPermission(db, models.ResourceTypeCategory))
	categories.GET("", categoryHandler.List)
	categories.GET("/:id", categoryHandler.Get)
	categories.POST("", categoryHandler.Create)
	categories.PUT("/:id", categoryHandler.Update)
	categories.DELETE("/:id", categoryHandler.Delete)

	orgHandler := handlers.NewOrganizationHandler(db)
	orgs := api.Group("/organizations")
	orgs.Use(middleware.CheckPermission(db, models.ResourceTypeOrganization))
	orgs.GET("", orgHandler.List)
	orgs.GET("/:id", orgHandler.Get)
	orgs.POST("", orgHandler.Create)
	orgs.PUT("/:id", orgHandler.Update)
	orgs.DELETE("/:id", orgHandler.Delete)
}
