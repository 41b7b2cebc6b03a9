package routes

import (
	"benchtime/internal/api/middleware"
	"benchtime/internal/handlers"
	"benchtime/internal/models"
	"benchtime/internal/services"
	"benchtime/internal/utils/logger"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SetupUploadRoutes registers the resource image upload endpoint.
// Uploading counts as editing the resource.
func SetupUploadRoutes(api *echo.Group, db *gorm.DB, storage *services.S3Service) {
	log := logger.New("upload_routes")

	uploadHandler := handlers.NewUploadHandler(db, storage, types.ObjectCannedACLPublicRead)

	resources := api.Group("/resources")
	resources.Use(middleware.CheckPermissionFlag(db, models.ResourceTypeResource, models.PermissionEdit))
	resources.POST("/:id/image", uploadHandler.UploadResourceImage)

	log.Success("Upload routes initialized successfully")
}
