package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/motionxstudio/api/internal/model"
	"github.com/motionxstudio/api/internal/service"
	"github.com/motionxstudio/api/internal/store"
	"github.com/motionxstudio/api/pkg/response"
)

type ShotHandler struct {
	shots     *service.ShotService
	media     *service.MediaService
	validator *validator.Validate
}

func NewShotHandler(shots *service.ShotService, media *service.MediaService, v *validator.Validate) *ShotHandler {
	return &ShotHandler{
		shots:     shots,
		media:     media,
		validator: v,
	}
}

// List handles GET /api/projects/:projectId/episodes/:episodeId/scenes/:sceneId/shots
func (h *ShotHandler) List(c *fiber.Ctx) error {
	shots, err := h.shots.List(c.Context(), scenePath(c))
	if err != nil {
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, shots)
}

// Create handles POST /api/projects/:projectId/episodes/:episodeId/scenes/:sceneId/shots
func (h *ShotHandler) Create(c *fiber.Ctx) error {
	var req model.CreateShotRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	shot, err := h.shots.Create(c.Context(), scenePath(c), &req)
	if err != nil {
		return response.ServiceError(c, err.Error())
	}
	return response.Created(c, shot)
}

// UpdateField handles PATCH .../shots/:shotId
func (h *ShotHandler) UpdateField(c *fiber.Ctx) error {
	shotID := c.Params("shotId")
	if shotID == "" {
		return response.ValidationError(c, "Shot ID is required", nil)
	}

	var req model.UpdateShotFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	if err := h.shots.UpdateField(c.Context(), scenePath(c), shotID, req.Field, req.Value); err != nil {
		return response.ServiceError(c, err.Error())
	}
	return response.NoContent(c)
}

// Delete handles DELETE .../shots/:shotId
func (h *ShotHandler) Delete(c *fiber.Ctx) error {
	shotID := c.Params("shotId")
	if shotID == "" {
		return response.ValidationError(c, "Shot ID is required", nil)
	}

	if err := h.shots.Delete(c.Context(), scenePath(c), shotID); err != nil {
		return response.ServiceError(c, err.Error())
	}
	return response.NoContent(c)
}

// Get handles GET .../shots/:shotId
func (h *ShotHandler) Get(c *fiber.Ctx) error {
	shotID := c.Params("shotId")
	if shotID == "" {
		return response.ValidationError(c, "Shot ID is required", nil)
	}

	shot, err := h.shots.Get(c.Context(), scenePath(c), shotID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Shot not found")
		}
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, shot)
}

// Reorder handles POST .../shots/reorder
func (h *ShotHandler) Reorder(c *fiber.Ctx) error {
	var req model.ReorderShotsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	shots, err := h.shots.Reorder(c.Context(), scenePath(c), req.From, req.To)
	if err != nil {
		return response.ValidationError(c, err.Error(), nil)
	}
	return response.OK(c, shots)
}

// WipeImages handles POST .../shots/wipe-images
func (h *ShotHandler) WipeImages(c *fiber.Ctx) error {
	if err := h.media.WipeImages(c.Context(), scenePath(c)); err != nil {
		return response.ServiceError(c, err.Error())
	}
	return response.NoContent(c)
}

// WipeScene handles DELETE .../shots
func (h *ShotHandler) WipeScene(c *fiber.Ctx) error {
	if err := h.media.WipeScene(c.Context(), scenePath(c)); err != nil {
		return response.ServiceError(c, err.Error())
	}
	return response.NoContent(c)
}
