package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/motionxstudio/api/internal/model"
	"github.com/motionxstudio/api/internal/service"
	"github.com/motionxstudio/api/pkg/response"
)

type BatchHandler struct {
	batch     *service.BatchService
	validator *validator.Validate
}

func NewBatchHandler(batch *service.BatchService, v *validator.Validate) *BatchHandler {
	return &BatchHandler{
		batch:     batch,
		validator: v,
	}
}

// Start handles POST .../scenes/:sceneId/generate-batch
func (h *BatchHandler) Start(c *fiber.Ctx) error {
	var req model.BatchStartRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.batch.Start(c.Context(), scenePath(c), &req)
	if err != nil {
		if strings.Contains(err.Error(), "already running") {
			return response.Conflict(c, err.Error())
		}
		if strings.Contains(err.Error(), "no shots") {
			return response.ValidationError(c, err.Error(), nil)
		}
		return response.ServiceError(c, err.Error())
	}
	return response.Accepted(c, result)
}

// Status handles GET /api/jobs/:jobId
func (h *BatchHandler) Status(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	job, err := h.batch.GetJob(c.Context(), jobID)
	if err != nil {
		if err.Error() == "job not found" {
			return response.NotFound(c, "Job not found")
		}
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, jobStatus(job))
}

// Cancel handles POST /api/jobs/:jobId/cancel
func (h *BatchHandler) Cancel(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	job, err := h.batch.Cancel(c.Context(), jobID)
	if err != nil {
		if err.Error() == "job not found" {
			return response.NotFound(c, "Job not found")
		}
		return response.ValidationError(c, err.Error(), nil)
	}
	return response.OK(c, jobStatus(job))
}

func jobStatus(job *model.Job) *model.JobStatusResponse {
	return &model.JobStatusResponse{
		JobID:       job.ID,
		Type:        job.Type,
		Status:      job.Status,
		Progress:    job.Progress,
		CurrentStep: job.CurrentStep,
		Error:       job.Error,
		Result:      job.Result,
		CreatedAt:   job.CreatedAt,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
	}
}
