package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/motionxstudio/api/internal/service"
	"github.com/motionxstudio/api/pkg/response"
)

const maxFaceUploadSize = 10 * 1024 * 1024 // 10MB

type CastHandler struct {
	cast *service.CastService
}

func NewCastHandler(cast *service.CastService) *CastHandler {
	return &CastHandler{cast: cast}
}

// List handles GET /api/projects/:projectId/cast-clusters
func (h *CastHandler) List(c *fiber.Ctx) error {
	clusters, err := h.cast.ListClusters(c.Context(), c.Params("projectId"))
	if err != nil {
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, clusters)
}

// AttachFace handles POST /api/projects/:projectId/cast-clusters/:labelId/face
func (h *CastHandler) AttachFace(c *fiber.Ctx) error {
	labelID := c.Params("labelId")
	if labelID == "" {
		return response.ValidationError(c, "Label ID is required", nil)
	}

	file, err := c.FormFile("face")
	if err != nil {
		return response.ValidationError(c, "Face image is required", nil)
	}
	if file.Size > maxFaceUploadSize {
		return response.ValidationError(c, "Face image exceeds 10MB limit", nil)
	}

	contentType := file.Header.Get("Content-Type")
	validTypes := map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	}
	if !validTypes[contentType] {
		return response.ValidationError(c, "Invalid file type. Supported: JPEG, PNG, WebP", map[string]interface{}{
			"contentType": contentType,
		})
	}

	f, err := file.Open()
	if err != nil {
		return response.ServiceError(c, "Failed to open face image")
	}
	defer f.Close()

	cluster, err := h.cast.AttachFace(c.Context(), c.Params("projectId"), labelID, f, file.Size, file.Filename, contentType)
	if err != nil {
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, cluster)
}
