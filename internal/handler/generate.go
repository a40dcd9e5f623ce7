package handler

import (
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/motionxstudio/api/internal/model"
	"github.com/motionxstudio/api/internal/service"
	"github.com/motionxstudio/api/pkg/response"
)

const maxReferenceImageSize = 20 * 1024 * 1024 // 20MB

type GenerateHandler struct {
	manager   *service.Manager
	validator *validator.Validate
}

func NewGenerateHandler(manager *service.Manager, v *validator.Validate) *GenerateHandler {
	return &GenerateHandler{
		manager:   manager,
		validator: v,
	}
}

// RenderShot handles POST .../shots/:shotId/render. The body is multipart:
// option fields as form values plus an optional reference_image file.
func (h *GenerateHandler) RenderShot(c *fiber.Ctx) error {
	shotID := c.Params("shotId")
	if shotID == "" {
		return response.ValidationError(c, "Shot ID is required", nil)
	}

	opts := &model.RenderShotOptions{
		AspectRatio:      c.FormValue("aspect_ratio"),
		ImageProvider:    c.FormValue("image_provider"),
		ModelTier:        c.FormValue("model_tier"),
		ContinuityShotID: c.FormValue("continuity_shot_id"),
		CameraShotType:   c.FormValue("camera_shot_type"),
		CameraTransform:  c.FormValue("camera_transform"),
	}

	var refImage io.Reader
	refImageName := ""
	if file, err := c.FormFile("reference_image"); err == nil {
		if file.Size > maxReferenceImageSize {
			return response.ValidationError(c, "Reference image exceeds 20MB limit", nil)
		}
		f, err := file.Open()
		if err != nil {
			return response.ServiceError(c, "Failed to open reference image")
		}
		defer f.Close()
		refImage = f
		refImageName = file.Filename
	}

	if err := h.manager.RenderShot(c.Context(), scenePath(c), shotID, opts, refImage, refImageName); err != nil {
		return response.AIError(c, err.Error())
	}
	return response.Accepted(c, fiber.Map{"status": "queued"})
}

// Animate handles POST .../shots/:shotId/animate
func (h *GenerateHandler) Animate(c *fiber.Ctx) error {
	shotID := c.Params("shotId")
	if shotID == "" {
		return response.ValidationError(c, "Shot ID is required", nil)
	}

	var req model.AnimateShotRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	if err := h.manager.Videos.Animate(c.Context(), scenePath(c), shotID, &req); err != nil {
		return response.AIError(c, err.Error())
	}
	return response.Accepted(c, fiber.Map{"status": "queued"})
}

// TextToVideo handles POST .../shots/:shotId/text-to-video
func (h *GenerateHandler) TextToVideo(c *fiber.Ctx) error {
	shotID := c.Params("shotId")
	if shotID == "" {
		return response.ValidationError(c, "Shot ID is required", nil)
	}

	var req model.TextToVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	if err := h.manager.Videos.TextToVideo(c.Context(), scenePath(c), shotID, &req); err != nil {
		return response.AIError(c, err.Error())
	}
	return response.Accepted(c, fiber.Map{"status": "queued"})
}
