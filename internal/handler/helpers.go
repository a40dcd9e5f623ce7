package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/motionxstudio/api/internal/store"
)

// scenePath builds the scene path from the standard route params.
func scenePath(c *fiber.Ctx) store.ScenePath {
	return store.ScenePath{
		ProjectID: c.Params("projectId"),
		EpisodeID: c.Params("episodeId"),
		SceneID:   c.Params("sceneId"),
	}
}

// formatValidationErrors formats validator errors for response
func formatValidationErrors(err error) interface{} {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errors := make(map[string]string)
		for _, e := range validationErrors {
			errors[e.Field()] = e.Tag()
		}
		return errors
	}
	return nil
}
