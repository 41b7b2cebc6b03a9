package handlers

import (
	"io"
	"net/http"
	"strings"

	"benchtime/internal/models"
	"benchtime/internal/services"
	"benchtime/internal/utils/logger"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type UploadHandler struct {
	db      *gorm.DB
	storage *services.S3Service
	log     *logger.Logger
	acl     types.ObjectCannedACL
}

func NewUploadHandler(db *gorm.DB, storage *services.S3Service, acl types.ObjectCannedACL) *UploadHandler {
	if acl == "" {
		acl = types.ObjectCannedACLPublicRead
	}
	return &UploadHandler{
		db:      db,
		storage: storage,
		log:     logger.New("upload_handler"),
		acl:     acl,
	}
}

// UploadResourceImage stores an image for a resource and records its URL
func (h *UploadHandler) UploadResourceImage(c echo.Context) error {
	contentType := c.Request().Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Content-Type must be multipart/form-data",
		})
	}

	if h.storage == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Storage not configured",
		})
	}

	resource := &models.Resource{}
	if err := h.db.Where("id = ?", c.Param("id")).First(resource).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Resource not found"})
	}

	// Get file from request
	file, err := c.FormFile("file")
	if err != nil {
		h.log.Error("Failed to get file from request", err)
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "No file provided",
		})
	}

	fileType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(fileType, "image/") {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "File must be an image",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Failed to read file",
		})
	}

	url, err := h.storage.UploadFile(c.Request().Context(), content, file.Filename, h.acl, fileType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Failed to upload file",
		})
	}

	if err := h.db.Model(resource).Update("image_url", url).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Failed to save image URL",
		})
	}

	h.log.Success("Image uploaded for resource %s: %s", resource.ID, url)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Image uploaded successfully",
		"image_url": url,
	})
}
