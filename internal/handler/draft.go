package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/motionxstudio/api/internal/service"
	"github.com/motionxstudio/api/pkg/response"
)

type DraftHandler struct {
	draft *service.DraftService
}

func NewDraftHandler(draft *service.DraftService) *DraftHandler {
	return &DraftHandler{draft: draft}
}

// AutoDirect handles POST .../scenes/:sceneId/auto-direct. The drafted list
// replaces the scene's shots wholesale.
func (h *DraftHandler) AutoDirect(c *fiber.Ctx) error {
	shots, err := h.draft.AutoDirect(c.Context(), scenePath(c))
	if err != nil {
		return response.AIError(c, err.Error())
	}
	return response.OK(c, shots)
}
