package service

import (
	"context"
	"errors"
	"testing"

	"github.com/motionxstudio/api/internal/client"
	"github.com/motionxstudio/api/internal/model"
	"github.com/motionxstudio/api/internal/store"
)

type fakeRenderer struct {
	shotReq      *client.RenderShotRequest
	sceneReq     *client.RenderSceneRequest
	err          error
	onRenderShot func()
}

func (f *fakeRenderer) RenderShot(_ context.Context, req *client.RenderShotRequest) error {
	f.shotReq = req
	if f.onRenderShot != nil {
		f.onRenderShot()
	}
	return f.err
}

func (f *fakeRenderer) RenderScene(_ context.Context, req *client.RenderSceneRequest) (*client.RenderSceneResponse, error) {
	f.sceneReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &client.RenderSceneResponse{Status: "queued"}, nil
}

func TestRenderShot_DispatchesWithProjectContext(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	scene := testScene()

	fs.put("projects/p1", model.Project{
		ID:          "p1",
		Type:        model.ProjectTypeMovie,
		AspectRatio: "16:9",
		Style:       "neo-noir",
		Genre:       "thriller",
	})
	fs.put(scene.Shot("shot_01"), model.Shot{
		ID:           "shot_01",
		VisualAction: "She steps into the rain",
		Location:     "Alley",
	})

	renderer := &fakeRenderer{}
	svc := NewImageService(fs, renderer)

	err := svc.RenderShot(ctx, scene, "shot_01", &model.RenderShotOptions{}, nil, "")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	req := renderer.shotReq
	if req.Style != "neo-noir" || req.Genre != "thriller" {
		t.Errorf("project style/genre not applied: %q %q", req.Style, req.Genre)
	}
	if req.AspectRatio != "16:9" {
		t.Errorf("project default aspect ratio not applied: %q", req.AspectRatio)
	}
	if req.SceneAction != "She steps into the rain" {
		t.Errorf("shot action not forwarded: %q", req.SceneAction)
	}

	if !svc.IsLoading(scene.Shot("shot_01")) {
		t.Error("dispatched shot should be in the loading set")
	}
}

func TestRenderShot_ExplicitAspectRatioWins(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	scene := testScene()

	fs.put("projects/p1", model.Project{ID: "p1", AspectRatio: "16:9"})
	fs.put(scene.Shot("shot_01"), model.Shot{ID: "shot_01"})

	renderer := &fakeRenderer{}
	svc := NewImageService(fs, renderer)

	opts := &model.RenderShotOptions{AspectRatio: "9:16"}
	if err := svc.RenderShot(ctx, scene, "shot_01", opts, nil, ""); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if renderer.shotReq.AspectRatio != "9:16" {
		t.Errorf("request aspect ratio should win, got %q", renderer.shotReq.AspectRatio)
	}
}

func TestRenderShot_FailureClearsLoading(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	scene := testScene()
	fs.put(scene.Shot("shot_01"), model.Shot{ID: "shot_01", Status: model.ShotStatusRendered})

	svc := NewImageService(fs, &fakeRenderer{err: errors.New("render backend down")})
	if err := svc.RenderShot(ctx, scene, "shot_01", &model.RenderShotOptions{}, nil, ""); err == nil {
		t.Fatal("expected dispatch error")
	}
	if svc.IsLoading(scene.Shot("shot_01")) {
		t.Error("failed dispatch should not leave the shot loading")
	}

	shot, err := NewShotService(fs).Get(ctx, scene, "shot_01")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if shot.Status != model.ShotStatusRendered {
		t.Errorf("failed dispatch should restore the prior status, got %q", shot.Status)
	}
}

func TestRenderShot_MarksGeneratingBeforeDispatch(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	scene := testScene()
	fs.put(scene.Shot("shot_01"), model.Shot{ID: "shot_01", Status: model.ShotStatusDraft})

	renderer := &fakeRenderer{}
	var statusAtDispatch model.ShotStatus
	renderer.onRenderShot = func() {
		shot, err := store.GetShot(ctx, fs, scene, "shot_01")
		if err != nil {
			t.Fatalf("get during dispatch failed: %v", err)
		}
		statusAtDispatch = shot.Status
	}

	svc := NewImageService(fs, renderer)
	if err := svc.RenderShot(ctx, scene, "shot_01", &model.RenderShotOptions{}, nil, ""); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	// The status write must land before the backend sees the request, so a
	// backend that settles the shot immediately cannot be overwritten.
	if statusAtDispatch != model.ShotStatusGenerating {
		t.Errorf("shot should be generating at dispatch time, got %q", statusAtDispatch)
	}
	shot, err := NewShotService(fs).Get(ctx, scene, "shot_01")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if shot.Status != model.ShotStatusGenerating {
		t.Errorf("accepted dispatch should leave the shot generating, got %q", shot.Status)
	}
}

func TestClearLoading(t *testing.T) {
	svc := NewImageService(newFakeStore(), &fakeRenderer{})
	svc.markLoading("projects/p1/episodes/e1/scenes/s1/shots/shot_01", true)

	if got := len(svc.Loading()); got != 1 {
		t.Fatalf("expected 1 loading shot, got %d", got)
	}
	svc.ClearLoading("projects/p1/episodes/e1/scenes/s1/shots/shot_01")
	if got := len(svc.Loading()); got != 0 {
		t.Errorf("expected empty loading set, got %d", got)
	}
}
