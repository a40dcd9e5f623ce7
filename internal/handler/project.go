package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/motionxstudio/api/internal/model"
	"github.com/motionxstudio/api/internal/service"
	"github.com/motionxstudio/api/internal/store"
	"github.com/motionxstudio/api/pkg/response"
)

type ProjectHandler struct {
	projects  *service.ProjectService
	validator *validator.Validate
}

func NewProjectHandler(projects *service.ProjectService, v *validator.Validate) *ProjectHandler {
	return &ProjectHandler{
		projects:  projects,
		validator: v,
	}
}

// Create handles POST /api/projects
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var req model.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	project, err := h.projects.CreateProject(c.Context(), uuid.New().String(), &req)
	if err != nil {
		return response.ServiceError(c, err.Error())
	}
	return response.Created(c, project)
}

// List handles GET /api/projects
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	projects, err := h.projects.ListProjects(c.Context())
	if err != nil {
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, projects)
}

// Get handles GET /api/projects/:projectId
func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	project, err := h.projects.GetProject(c.Context(), c.Params("projectId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Project not found")
		}
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, project)
}

// Update handles PATCH /api/projects/:projectId
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	var req model.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	if err := h.projects.UpdateProject(c.Context(), c.Params("projectId"), &req); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Project not found")
		}
		return response.ServiceError(c, err.Error())
	}
	return response.NoContent(c)
}

// CreateEpisode handles POST /api/projects/:projectId/episodes
func (h *ProjectHandler) CreateEpisode(c *fiber.Ctx) error {
	var req model.CreateEpisodeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	episode, err := h.projects.CreateEpisode(c.Context(), c.Params("projectId"), uuid.New().String(), &req)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Project not found")
		}
		return response.ServiceError(c, err.Error())
	}
	return response.Created(c, episode)
}

// UpdateScript handles PUT /api/projects/:projectId/episodes/:episodeId/script
func (h *ProjectHandler) UpdateScript(c *fiber.Ctx) error {
	var req model.UpdateScriptRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	if err := h.projects.UpdateScript(c.Context(), c.Params("projectId"), c.Params("episodeId"), &req); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Episode not found")
		}
		return response.ServiceError(c, err.Error())
	}
	return response.NoContent(c)
}

// CreateScene handles POST /api/projects/:projectId/episodes/:episodeId/scenes
func (h *ProjectHandler) CreateScene(c *fiber.Ctx) error {
	var req model.CreateSceneRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	scene := store.ScenePath{
		ProjectID: c.Params("projectId"),
		EpisodeID: c.Params("episodeId"),
		SceneID:   uuid.New().String(),
	}
	doc, err := h.projects.CreateScene(c.Context(), scene, &req)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Episode not found")
		}
		return response.ServiceError(c, err.Error())
	}
	return response.Created(c, doc)
}

// UpdateScene handles PATCH .../scenes/:sceneId
func (h *ProjectHandler) UpdateScene(c *fiber.Ctx) error {
	var req model.UpdateSceneRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	if err := h.projects.UpdateScene(c.Context(), scenePath(c), &req); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Scene not found")
		}
		return response.ServiceError(c, err.Error())
	}
	return response.NoContent(c)
}

// GetScene handles GET .../scenes/:sceneId
func (h *ProjectHandler) GetScene(c *fiber.Ctx) error {
	scene, err := h.projects.GetScene(c.Context(), scenePath(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Scene not found")
		}
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, scene)
}
