package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/motionxstudio/api/internal/client"
	"github.com/motionxstudio/api/internal/model"
	"github.com/motionxstudio/api/internal/store"
	ws "github.com/motionxstudio/api/internal/websocket"
)

// BatchJobs is the slice of the batch service the worker depends on.
type BatchJobs interface {
	GetJob(ctx context.Context, jobID string) (*model.Job, error)
	MarkRunning(ctx context.Context, jobID string) (*model.Job, error)
	UpdateProgress(ctx context.Context, jobID string, progress int, step string)
	Complete(ctx context.Context, jobID string, scene store.ScenePath, result *model.BatchRenderResult) error
	Fail(ctx context.Context, jobID string, scene store.ScenePath, cause error)
	ReleaseScene(ctx context.Context, scene store.ScenePath, jobID string)
	PollInterval() time.Duration
	MaxWait() time.Duration
}

// BatchWorker runs scene-wide generation jobs. It fires one scene render
// request at the backend, then polls the document store until every shot
// settles, the job is canceled, or the deadline passes.
type BatchWorker struct {
	batch    BatchJobs
	ds       store.DocStore
	renderer client.ImageRenderer
	hub      *ws.Hub
}

// NewBatchWorker creates a new batch render worker.
func NewBatchWorker(batch BatchJobs, ds store.DocStore, renderer client.ImageRenderer, hub *ws.Hub) *BatchWorker {
	return &BatchWorker{
		batch:    batch,
		ds:       ds,
		renderer: renderer,
		hub:      hub,
	}
}

// ProcessTask handles one batch render task.
func (w *BatchWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	jobID, ok := asynq.GetTaskID(ctx)
	if !ok {
		return fmt.Errorf("task has no id")
	}

	var payload model.BatchRenderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal batch payload: %w", err)
	}
	scene := store.ScenePath{
		ProjectID: payload.ProjectID,
		EpisodeID: payload.EpisodeID,
		SceneID:   payload.SceneID,
	}

	log.Printf("Starting batch render %s for %s", jobID, scene)

	job, err := w.batch.MarkRunning(ctx, jobID)
	if err != nil {
		w.batch.ReleaseScene(ctx, scene, jobID)
		return err
	}
	if job.Status == model.JobStatusCanceled {
		log.Printf("Batch render %s canceled before start", jobID)
		return nil
	}

	shots, err := store.ListShots(ctx, w.ds, scene)
	if err != nil {
		w.fail(ctx, jobID, scene, err)
		return err
	}
	total := len(shots)

	w.hub.BroadcastProgress(jobID, 0, model.JobStatusRunning, "Dispatching scene render...")
	w.hub.BroadcastLog(scene.String(), "Scene generation started")

	ack, err := w.renderer.RenderScene(ctx, &client.RenderSceneRequest{
		ProjectID:     payload.ProjectID,
		EpisodeID:     payload.EpisodeID,
		SceneID:       payload.SceneID,
		ImageProvider: payload.ImageProvider,
		AspectRatio:   payload.AspectRatio,
		Style:         payload.Style,
		ModelTier:     payload.ModelTier,
	})
	if err != nil {
		w.fail(ctx, jobID, scene, err)
		return err
	}
	if ack.ShotCount > 0 {
		total = ack.ShotCount
	}

	result, err := w.poll(ctx, jobID, scene, total)
	if err != nil {
		w.fail(ctx, jobID, scene, err)
		return err
	}
	if result == nil {
		// Canceled mid-flight; Cancel already released the lock.
		log.Printf("Batch render %s canceled", jobID)
		return nil
	}

	if err := w.batch.Complete(ctx, jobID, scene, result); err != nil {
		w.fail(ctx, jobID, scene, err)
		return err
	}
	w.hub.BroadcastComplete(jobID, result)
	w.hub.BroadcastLog(scene.String(), "Scene generation finished")
	log.Printf("Batch render %s completed (%d/%d settled, timed_out=%v)", jobID, result.Settled, result.ShotCount, result.TimedOut)
	return nil
}

// poll watches the scene until every shot settles or the deadline passes.
// A nil result with nil error means the job was canceled.
func (w *BatchWorker) poll(ctx context.Context, jobID string, scene store.ScenePath, total int) (*model.BatchRenderResult, error) {
	ticker := time.NewTicker(w.batch.PollInterval())
	defer ticker.Stop()
	deadline := time.After(w.batch.MaxWait())

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-deadline:
			shots, err := store.ListShots(ctx, w.ds, scene)
			if err != nil {
				return nil, err
			}
			return &model.BatchRenderResult{
				ShotCount: total,
				Settled:   countSettled(shots),
				TimedOut:  true,
			}, nil

		case <-ticker.C:
			job, err := w.batch.GetJob(ctx, jobID)
			if err == nil && job.Status == model.JobStatusCanceled {
				return nil, nil
			}

			shots, err := store.ListShots(ctx, w.ds, scene)
			if err != nil {
				log.Printf("Batch poll failed for %s: %v", scene, err)
				continue
			}

			settled := countSettled(shots)
			progress := 0
			if total > 0 {
				progress = settled * 100 / total
			}
			step := fmt.Sprintf("Rendered %d of %d shots", settled, total)
			w.batch.UpdateProgress(ctx, jobID, progress, step)
			w.hub.BroadcastProgress(jobID, progress, model.JobStatusRunning, step)

			if model.AllSettled(shots) {
				return &model.BatchRenderResult{
					ShotCount: total,
					Settled:   settled,
				}, nil
			}
		}
	}
}

func (w *BatchWorker) fail(ctx context.Context, jobID string, scene store.ScenePath, cause error) {
	w.batch.Fail(ctx, jobID, scene, cause)
	w.hub.BroadcastError(jobID, "BATCH_FAILED", cause.Error())
}

func countSettled(shots []model.Shot) int {
	n := 0
	for i := range shots {
		if shots[i].Settled() {
			n++
		}
	}
	return n
}
