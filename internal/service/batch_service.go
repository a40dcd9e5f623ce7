package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/motionxstudio/api/internal/config"
	"github.com/motionxstudio/api/internal/model"
	"github.com/motionxstudio/api/internal/store"
)

// TaskTypeBatchRender is the asynq task type for scene-wide generation.
const TaskTypeBatchRender = "batch:render"

// jobTTL is how long finished job records stay readable.
const jobTTL = 24 * time.Hour

// BatchService runs scene-wide generation sessions as asynq jobs. Job state
// lives in Redis; one batch per scene may be active at a time.
type BatchService struct {
	ds          store.DocStore
	redisClient *redis.Client
	asynqClient *asynq.Client
	cfg         *config.BatchConfig
}

func NewBatchService(ds store.DocStore, redisClient *redis.Client, asynqClient *asynq.Client, cfg *config.BatchConfig) *BatchService {
	return &BatchService{
		ds:          ds,
		redisClient: redisClient,
		asynqClient: asynqClient,
		cfg:         cfg,
	}
}

// PollInterval returns the poll cadence of the batch loop.
func (s *BatchService) PollInterval() time.Duration {
	return time.Duration(s.cfg.PollInterval) * time.Second
}

// MaxWait returns the overall deadline of the batch loop.
func (s *BatchService) MaxWait() time.Duration {
	return time.Duration(s.cfg.MaxWait) * time.Second
}

// Start queues a scene-wide generation job. It refuses scenes with no shots
// and scenes that already have an active batch.
func (s *BatchService) Start(ctx context.Context, scene store.ScenePath, req *model.BatchStartRequest) (*model.BatchStartResponse, error) {
	shots, err := store.ListShots(ctx, s.ds, scene)
	if err != nil {
		return nil, err
	}
	if len(shots) == 0 {
		return nil, fmt.Errorf("scene has no shots to generate")
	}

	jobID := uuid.New().String()
	locked, err := s.acquireSceneLock(ctx, scene, jobID)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, fmt.Errorf("a batch is already running for this scene")
	}

	payload := buildBatchPayload(ctx, s.ds, scene, req)
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		s.releaseSceneLock(ctx, scene, jobID)
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	job := &model.Job{
		ID:        jobID,
		Type:      model.JobTypeBatchRender,
		Status:    model.JobStatusQueued,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.SaveJob(ctx, job); err != nil {
		s.releaseSceneLock(ctx, scene, jobID)
		return nil, err
	}

	task := asynq.NewTask(TaskTypeBatchRender, payloadBytes)
	if _, err := s.asynqClient.EnqueueContext(ctx, task,
		asynq.TaskID(job.ID),
		asynq.Queue("batch"),
		asynq.MaxRetry(0),
		asynq.Timeout(s.MaxWait()+time.Minute),
	); err != nil {
		s.releaseSceneLock(ctx, scene, jobID)
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	log.Printf("Queued batch render %s for %s (%d shots)", job.ID, scene, len(shots))
	return &model.BatchStartResponse{
		JobID:     job.ID,
		Status:    job.Status,
		ShotCount: len(shots),
		CreatedAt: job.CreatedAt,
	}, nil
}

// GetJob loads a job record.
func (s *BatchService) GetJob(ctx context.Context, jobID string) (*model.Job, error) {
	data, err := s.redisClient.Get(ctx, jobKey(jobID)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("job not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return &job, nil
}

// SaveJob persists a job record with the standard TTL.
func (s *BatchService) SaveJob(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := s.redisClient.Set(ctx, jobKey(job.ID), data, jobTTL).Err(); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}

// Cancel flags a queued or running job as canceled. The worker observes the
// flag on its next poll tick and stops.
func (s *BatchService) Cancel(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != model.JobStatusQueued && job.Status != model.JobStatusRunning {
		return nil, fmt.Errorf("job is already %s", job.Status)
	}

	now := time.Now().UTC()
	job.Status = model.JobStatusCanceled
	job.CompletedAt = &now
	if err := s.SaveJob(ctx, job); err != nil {
		return nil, err
	}

	var payload model.BatchRenderPayload
	if err := json.Unmarshal(job.Payload, &payload); err == nil {
		s.releaseSceneLock(ctx, store.ScenePath{
			ProjectID: payload.ProjectID,
			EpisodeID: payload.EpisodeID,
			SceneID:   payload.SceneID,
		}, job.ID)
	}
	return job, nil
}

// MarkRunning transitions a job to running.
func (s *BatchService) MarkRunning(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status == model.JobStatusCanceled {
		return job, nil
	}
	now := time.Now().UTC()
	job.Status = model.JobStatusRunning
	job.StartedAt = &now
	if err := s.SaveJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// UpdateProgress stores the job's progress percentage and step label. The
// job is re-read first so a progress tick cannot overwrite a cancellation
// that landed between the worker's polls.
func (s *BatchService) UpdateProgress(ctx context.Context, jobID string, progress int, step string) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return
	}
	if !applyProgress(job, progress, step) {
		return
	}
	if err := s.SaveJob(ctx, job); err != nil {
		log.Printf("Failed to update job %s progress: %v", jobID, err)
	}
}

// applyProgress records progress on a running job. Jobs in any other state
// are left untouched.
func applyProgress(job *model.Job, progress int, step string) bool {
	if job.Status != model.JobStatusRunning {
		return false
	}
	job.Progress = progress
	job.CurrentStep = step
	return true
}

// Complete finishes a job with a result and releases the scene lock.
func (s *BatchService) Complete(ctx context.Context, jobID string, scene store.ScenePath, result *model.BatchRenderResult) error {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	resultBytes, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	now := time.Now().UTC()
	job.Status = model.JobStatusSucceeded
	job.Progress = 100
	job.CurrentStep = ""
	job.Result = resultBytes
	job.CompletedAt = &now
	if err := s.SaveJob(ctx, job); err != nil {
		return err
	}
	s.releaseSceneLock(ctx, scene, jobID)
	return nil
}

// Fail finishes a job with an error and releases the scene lock.
func (s *BatchService) Fail(ctx context.Context, jobID string, scene store.ScenePath, cause error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return
	}
	now := time.Now().UTC()
	msg := cause.Error()
	job.Status = model.JobStatusFailed
	job.Error = &msg
	job.CompletedAt = &now
	if err := s.SaveJob(ctx, job); err != nil {
		log.Printf("Failed to mark job %s failed: %v", jobID, err)
	}
	s.releaseSceneLock(ctx, scene, jobID)
}

// ReleaseScene drops the scene's batch lock. Exposed for worker cleanup.
func (s *BatchService) ReleaseScene(ctx context.Context, scene store.ScenePath, jobID string) {
	s.releaseSceneLock(ctx, scene, jobID)
}

// The lock value is the owning job's id so that releasing is a no-op when
// another batch has since acquired the scene.
func (s *BatchService) acquireSceneLock(ctx context.Context, scene store.ScenePath, jobID string) (bool, error) {
	ok, err := s.redisClient.SetNX(ctx, sceneLockKey(scene), jobID, s.MaxWait()+time.Minute).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire scene lock: %w", err)
	}
	return ok, nil
}

func (s *BatchService) releaseSceneLock(ctx context.Context, scene store.ScenePath, jobID string) {
	owner, err := s.redisClient.Get(ctx, sceneLockKey(scene)).Result()
	if err == redis.Nil {
		return
	}
	if err != nil {
		log.Printf("Failed to read scene lock for %s: %v", scene, err)
		return
	}
	if owner != jobID {
		return
	}
	if err := s.redisClient.Del(ctx, sceneLockKey(scene)).Err(); err != nil {
		log.Printf("Failed to release scene lock for %s: %v", scene, err)
	}
}

// buildBatchPayload assembles the job payload, splicing in the project's
// style and default aspect ratio the same way a single-shot render does.
func buildBatchPayload(ctx context.Context, ds store.DocStore, scene store.ScenePath, req *model.BatchStartRequest) model.BatchRenderPayload {
	payload := model.BatchRenderPayload{
		ProjectID:     scene.ProjectID,
		EpisodeID:     scene.EpisodeID,
		SceneID:       scene.SceneID,
		ImageProvider: req.ImageProvider,
		AspectRatio:   req.AspectRatio,
		ModelTier:     req.ModelTier,
	}

	project, err := store.GetProject(ctx, ds, scene.ProjectID)
	if err != nil {
		log.Printf("Project %s not loadable for batch context: %v", scene.ProjectID, err)
		return payload
	}
	payload.Style = project.Style
	if payload.AspectRatio == "" {
		payload.AspectRatio = project.AspectRatio
	}
	return payload
}

func jobKey(jobID string) string {
	return "job:" + jobID
}

func sceneLockKey(scene store.ScenePath) string {
	return "batch:active:" + scene.String()
}
