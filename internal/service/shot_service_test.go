package service

import (
	"context"
	"testing"
	"time"

	"github.com/motionxstudio/api/internal/model"
	"github.com/motionxstudio/api/internal/store"
)

func intPtr(v int) *int { return &v }

func testScene() store.ScenePath {
	return store.ScenePath{ProjectID: "p1", EpisodeID: "e1", SceneID: "s1"}
}

func seedShot(fs *fakeStore, scene store.ScenePath, id string, order *int, created time.Time) {
	fs.put(scene.Shot(id), model.Shot{
		ID:        id,
		Order:     order,
		Status:    model.ShotStatusDraft,
		CreatedAt: created,
	})
}

func TestNextShotID(t *testing.T) {
	cases := []struct {
		name  string
		ids   []string
		want  string
	}{
		{"empty scene", nil, "shot_01"},
		{"continues max", []string{"shot_01", "shot_02"}, "shot_03"},
		{"ignores gaps", []string{"shot_01", "shot_05"}, "shot_06"},
		{"skips malformed ids", []string{"shot_02", "shot_xx", "custom"}, "shot_03"},
		{"all malformed", []string{"custom", "another"}, "shot_01"},
	}

	for _, tc := range cases {
		shots := make([]model.Shot, len(tc.ids))
		for i, id := range tc.ids {
			shots[i] = model.Shot{ID: id}
		}
		if got := nextShotID(shots); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestNextOrder(t *testing.T) {
	if got := nextOrder(nil); got != 0 {
		t.Errorf("empty scene: expected 0, got %d", got)
	}

	shots := []model.Shot{
		{Order: intPtr(0)},
		{Order: intPtr(1)},
		{Order: intPtr(3)},
	}
	if got := nextOrder(shots); got != 4 {
		t.Errorf("gapped orders: expected 4, got %d", got)
	}

	shots = append(shots, model.Shot{Order: nil})
	if got := nextOrder(shots); got != 4 {
		t.Errorf("nil order present: expected 4, got %d", got)
	}
}

func TestShotCreate_InheritsSceneContext(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	scene := testScene()

	fs.put(scene.Scene(), model.Scene{
		ID:         scene.SceneID,
		Summary:    "Two rivals face off at dawn",
		Location:   "Rooftop",
		LocationID: "loc_rooftop",
		Products:   []string{"watch"},
	})

	svc := NewShotService(fs)
	shot, err := svc.Create(ctx, scene, &model.CreateShotRequest{ShotType: "wide"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if shot.ID != "shot_01" {
		t.Errorf("expected shot_01, got %s", shot.ID)
	}
	if shot.Order == nil || *shot.Order != 0 {
		t.Errorf("expected order 0, got %v", shot.Order)
	}
	if shot.Location != "Rooftop" || shot.LocationID != "loc_rooftop" {
		t.Errorf("scene location not inherited: %q %q", shot.Location, shot.LocationID)
	}
	if shot.VisualAction != "Two rivals face off at dawn" {
		t.Errorf("scene summary not used as fallback action: %q", shot.VisualAction)
	}
	if len(shot.Products) != 1 || shot.Products[0] != "watch" {
		t.Errorf("scene products not inherited: %v", shot.Products)
	}
}

func TestShotCreate_AppendsAfterExisting(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	scene := testScene()
	now := time.Now().UTC()

	seedShot(fs, scene, "shot_01", intPtr(0), now)
	seedShot(fs, scene, "shot_02", intPtr(1), now)
	// A manually keyed shot with an unparseable id is tolerated.
	seedShot(fs, scene, "hero_closeup", intPtr(5), now)

	svc := NewShotService(fs)
	shot, err := svc.Create(ctx, scene, &model.CreateShotRequest{VisualAction: "insert"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if shot.ID != "shot_03" {
		t.Errorf("expected shot_03, got %s", shot.ID)
	}
	if shot.Order == nil || *shot.Order != 6 {
		t.Errorf("expected order 6 (max+1), got %v", shot.Order)
	}
}

func TestShotDelete_LeavesOrderGap(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	scene := testScene()
	now := time.Now().UTC()

	seedShot(fs, scene, "shot_01", intPtr(0), now)
	seedShot(fs, scene, "shot_02", intPtr(1), now)
	seedShot(fs, scene, "shot_03", intPtr(2), now)

	svc := NewShotService(fs)
	if err := svc.Delete(ctx, scene, "shot_02"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	shots, err := svc.List(ctx, scene)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(shots) != 2 {
		t.Fatalf("expected 2 shots, got %d", len(shots))
	}
	// Remaining orders stay 0 and 2; deletion alone never compacts.
	if *shots[0].Order != 0 || *shots[1].Order != 2 {
		t.Errorf("expected orders [0 2], got [%d %d]", *shots[0].Order, *shots[1].Order)
	}
	if len(fs.mergeCalls) != 0 {
		t.Errorf("expected no order rewrites on delete, got %d", len(fs.mergeCalls))
	}
}

func TestReorder_WritesOnlyChangedShots(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	scene := testScene()
	now := time.Now().UTC()

	for i, id := range []string{"shot_01", "shot_02", "shot_03", "shot_04", "shot_05"} {
		seedShot(fs, scene, id, intPtr(i), now.Add(time.Duration(i)*time.Second))
	}

	svc := NewShotService(fs)
	shots, err := svc.Reorder(ctx, scene, 2, 0)
	if err != nil {
		t.Fatalf("reorder failed: %v", err)
	}

	want := []string{"shot_03", "shot_01", "shot_02", "shot_04", "shot_05"}
	for i, id := range want {
		if shots[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, shots[i].ID)
		}
	}

	// Moving index 2 to 0 shifts three shots; the trailing two keep their
	// orders and must not be rewritten.
	if len(fs.mergeCalls) != 3 {
		t.Fatalf("expected 3 order writes, got %d", len(fs.mergeCalls))
	}
	for _, id := range []string{"shot_04", "shot_05"} {
		if calls := fs.mergesFor(scene.Shot(id)); len(calls) != 0 {
			t.Errorf("%s should not have been rewritten", id)
		}
	}
}

func TestReorder_RejectsOutOfRange(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	scene := testScene()
	seedShot(fs, scene, "shot_01", intPtr(0), time.Now().UTC())

	svc := NewShotService(fs)
	if _, err := svc.Reorder(ctx, scene, 0, 5); err == nil {
		t.Error("expected error for out-of-range target index")
	}
}

func TestUpdateField_MergesSingleField(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	scene := testScene()
	seedShot(fs, scene, "shot_01", intPtr(0), time.Now().UTC())

	svc := NewShotService(fs)
	if err := svc.UpdateField(ctx, scene, "shot_01", "visual_action", "new action"); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	calls := fs.mergesFor(scene.Shot("shot_01"))
	if len(calls) != 1 {
		t.Fatalf("expected 1 merge, got %d", len(calls))
	}
	if len(calls[0].fields) != 1 || calls[0].fields["visual_action"] != "new action" {
		t.Errorf("unexpected merge fields: %v", calls[0].fields)
	}

	shot, err := svc.Get(ctx, scene, "shot_01")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if shot.VisualAction != "new action" {
		t.Errorf("expected merged value, got %q", shot.VisualAction)
	}
}
