package model

import (
	"encoding/json"
	"time"
)

// Job is an asynchronous generation job tracked in Redis.
type Job struct {
	ID          string          `json:"id"`
	Type        JobType         `json:"type"`
	Status      JobStatus       `json:"status"`
	Progress    int             `json:"progress"`
	CurrentStep string          `json:"currentStep,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       *string         `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	StartedAt   *time.Time      `json:"startedAt,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

// BatchRenderPayload is the payload of a scene-wide generation job.
type BatchRenderPayload struct {
	ProjectID     string `json:"project_id"`
	EpisodeID     string `json:"episode_id"`
	SceneID       string `json:"scene_id"`
	ImageProvider string `json:"image_provider,omitempty"`
	AspectRatio   string `json:"aspect_ratio,omitempty"`
	Style         string `json:"style,omitempty"`
	ModelTier     string `json:"model_tier,omitempty"`
}

// BatchRenderResult summarizes a finished batch generation session.
type BatchRenderResult struct {
	ShotCount int  `json:"shot_count"`
	Settled   int  `json:"settled"`
	TimedOut  bool `json:"timed_out,omitempty"`
}

// BatchStartRequest is the body for starting a scene-wide generation.
type BatchStartRequest struct {
	ImageProvider string `json:"image_provider" validate:"omitempty,max=64"`
	AspectRatio   string `json:"aspect_ratio" validate:"omitempty,max=16"`
	ModelTier     string `json:"model_tier" validate:"omitempty,max=32"`
}

// BatchStartResponse acknowledges a queued batch generation job.
type BatchStartResponse struct {
	JobID     string    `json:"jobId"`
	Status    JobStatus `json:"status"`
	ShotCount int       `json:"shotCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// JobStatusResponse reports the current state of a job.
type JobStatusResponse struct {
	JobID       string          `json:"jobId"`
	Type        JobType         `json:"type"`
	Status      JobStatus       `json:"status"`
	Progress    int             `json:"progress"`
	CurrentStep string          `json:"currentStep,omitempty"`
	Error       *string         `json:"error"`
	Result      json.RawMessage `json:"result,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	StartedAt   *time.Time      `json:"startedAt"`
	CompletedAt *time.Time      `json:"completedAt"`
}
