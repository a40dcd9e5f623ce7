package service

import (
	"context"
	"testing"

	"github.com/motionxstudio/api/internal/model"
)

func TestBuildBatchPayload_SplicesProjectContext(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	scene := testScene()

	fs.put("projects/p1", model.Project{
		ID:          "p1",
		AspectRatio: "16:9",
		Style:       "neo-noir",
	})

	payload := buildBatchPayload(ctx, fs, scene, &model.BatchStartRequest{ImageProvider: "flux"})

	if payload.ProjectID != "p1" || payload.EpisodeID != "e1" || payload.SceneID != "s1" {
		t.Errorf("scene path not carried: %+v", payload)
	}
	if payload.ImageProvider != "flux" {
		t.Errorf("image provider not forwarded: %q", payload.ImageProvider)
	}
	if payload.Style != "neo-noir" {
		t.Errorf("project style not applied: %q", payload.Style)
	}
	if payload.AspectRatio != "16:9" {
		t.Errorf("project default aspect ratio not applied: %q", payload.AspectRatio)
	}
}

func TestBuildBatchPayload_ExplicitAspectRatioWins(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	scene := testScene()
	fs.put("projects/p1", model.Project{ID: "p1", AspectRatio: "16:9", Style: "neo-noir"})

	payload := buildBatchPayload(ctx, fs, scene, &model.BatchStartRequest{AspectRatio: "9:16"})
	if payload.AspectRatio != "9:16" {
		t.Errorf("request aspect ratio should win, got %q", payload.AspectRatio)
	}
	if payload.Style != "neo-noir" {
		t.Errorf("project style should still apply: %q", payload.Style)
	}
}

func TestBuildBatchPayload_MissingProject(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	scene := testScene()

	payload := buildBatchPayload(ctx, fs, scene, &model.BatchStartRequest{AspectRatio: "1:1"})
	if payload.Style != "" {
		t.Errorf("no project means no style, got %q", payload.Style)
	}
	if payload.AspectRatio != "1:1" {
		t.Errorf("request aspect ratio should survive, got %q", payload.AspectRatio)
	}
}

func TestApplyProgress_RecordsOnRunningJob(t *testing.T) {
	job := &model.Job{Status: model.JobStatusRunning}
	if !applyProgress(job, 40, "Rendered 2 of 5 shots") {
		t.Fatal("progress on a running job should apply")
	}
	if job.Progress != 40 || job.CurrentStep != "Rendered 2 of 5 shots" {
		t.Errorf("progress not recorded: %d %q", job.Progress, job.CurrentStep)
	}
}

func TestApplyProgress_LeavesCanceledJobUntouched(t *testing.T) {
	job := &model.Job{Status: model.JobStatusCanceled, Progress: 20}
	if applyProgress(job, 60, "Rendered 3 of 5 shots") {
		t.Fatal("progress must not apply to a canceled job")
	}
	if job.Status != model.JobStatusCanceled {
		t.Errorf("status overwritten: %q", job.Status)
	}
	if job.Progress != 20 || job.CurrentStep != "" {
		t.Errorf("canceled job mutated: %d %q", job.Progress, job.CurrentStep)
	}
}

func TestApplyProgress_LeavesFinishedJobUntouched(t *testing.T) {
	job := &model.Job{Status: model.JobStatusSucceeded, Progress: 100}
	if applyProgress(job, 80, "Rendered 4 of 5 shots") {
		t.Fatal("progress must not apply to a finished job")
	}
	if job.Progress != 100 {
		t.Errorf("finished job mutated: %d", job.Progress)
	}
}
