package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/motionxstudio/api/internal/client"
	"github.com/motionxstudio/api/internal/model"
)

type fakeSuggester struct {
	drafts []model.ShotDraft
	err    error
	gotReq *client.SuggestShotsRequest
}

func (f *fakeSuggester) SuggestShots(_ context.Context, req *client.SuggestShotsRequest) ([]model.ShotDraft, error) {
	f.gotReq = req
	return f.drafts, f.err
}

func TestAutoDirect_ReplacesSceneShots(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	scene := testScene()

	fs.put(scene.Scene(), model.Scene{
		ID:         scene.SceneID,
		Summary:    "A chase through the market",
		Location:   "Market",
		LocationID: "loc_market",
		Characters: []string{"Mira", "Jun"},
	})
	// Stale shots from a previous draft, including one with media.
	seedShot(fs, scene, "shot_01", intPtr(0), time.Now().UTC())
	fs.put(scene.Shot("shot_09"), model.Shot{ID: "shot_09", ImageURL: "https://cdn/old.png"})

	suggester := &fakeSuggester{drafts: []model.ShotDraft{
		{ShotType: "wide", VisualAction: "Mira weaves between stalls", Characters: []string{"Mira"}},
		{ShotType: "close", VisualAction: "Jun spots her from above", Characters: []string{"Jun"}},
		{ShotType: "tracking", VisualAction: "Both sprint toward the gate"},
	}}

	svc := NewDraftService(fs, suggester, nil)
	shots, err := svc.AutoDirect(ctx, scene)
	if err != nil {
		t.Fatalf("auto-direct failed: %v", err)
	}

	if len(shots) != 3 {
		t.Fatalf("expected 3 shots, got %d", len(shots))
	}
	for i, shot := range shots {
		wantID := []string{"shot_01", "shot_02", "shot_03"}[i]
		if shot.ID != wantID {
			t.Errorf("position %d: expected id %s, got %s", i, wantID, shot.ID)
		}
		if shot.Order == nil || *shot.Order != i {
			t.Errorf("position %d: expected order %d, got %v", i, i, shot.Order)
		}
		if shot.Status != model.ShotStatusDraft {
			t.Errorf("position %d: expected draft status, got %s", i, shot.Status)
		}
		if shot.Location != "Market" {
			t.Errorf("position %d: scene location not inherited", i)
		}
	}

	// The old list, media included, is gone.
	stored, err := NewShotService(fs).List(ctx, scene)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("expected 3 stored shots, got %d", len(stored))
	}
	for _, shot := range stored {
		if shot.ImageURL != "" {
			t.Errorf("stale media survived the draft: %s", shot.ID)
		}
	}

	if suggester.gotReq.SceneAction != "A chase through the market" {
		t.Errorf("scene summary not forwarded: %q", suggester.gotReq.SceneAction)
	}
	if len(suggester.gotReq.Characters) != 2 {
		t.Errorf("scene characters not forwarded: %v", suggester.gotReq.Characters)
	}
}

func TestAutoDirect_KeepsShotsOnFailure(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	scene := testScene()

	fs.put(scene.Scene(), model.Scene{ID: scene.SceneID, Summary: "Something happens"})
	seedShot(fs, scene, "shot_01", intPtr(0), time.Now().UTC())

	suggester := &fakeSuggester{err: errors.New("upstream unavailable")}
	svc := NewDraftService(fs, suggester, nil)

	if _, err := svc.AutoDirect(ctx, scene); err == nil {
		t.Fatal("expected error from failed suggestion")
	}

	stored, _ := NewShotService(fs).List(ctx, scene)
	if len(stored) != 1 {
		t.Errorf("existing shots should survive a failed draft, got %d", len(stored))
	}
}

func TestAutoDirect_RequiresSceneAction(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	scene := testScene()

	fs.put(scene.Scene(), model.Scene{ID: scene.SceneID})

	svc := NewDraftService(fs, &fakeSuggester{}, nil)
	if _, err := svc.AutoDirect(ctx, scene); err == nil {
		t.Error("expected error for scene without action text")
	}
}
