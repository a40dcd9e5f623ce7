package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/motionxstudio/api/internal/model"
	"github.com/motionxstudio/api/internal/store"
)

// ShotService implements shot CRUD and reordering for one scene at a time.
// Local results are never authoritative; the scene's live subscription is
// the source of truth and supersedes anything returned here.
type ShotService struct {
	ds store.DocStore
}

func NewShotService(ds store.DocStore) *ShotService {
	return &ShotService{ds: ds}
}

// List returns the scene's shots ordered by (order, created_at).
func (s *ShotService) List(ctx context.Context, scene store.ScenePath) ([]model.Shot, error) {
	shots, err := store.ListShots(ctx, s.ds, scene)
	if err != nil {
		return nil, err
	}
	model.SortShots(shots)
	return shots, nil
}

// Get returns one shot.
func (s *ShotService) Get(ctx context.Context, scene store.ScenePath, id string) (*model.Shot, error) {
	return store.GetShot(ctx, s.ds, scene, id)
}

// Create adds a shot after the scene's current last one. The id continues
// the highest existing shot_NN suffix, the order is max+1 (gaps are not
// filled), and location/products/fallback action are inherited from the
// parent scene.
func (s *ShotService) Create(ctx context.Context, scene store.ScenePath, req *model.CreateShotRequest) (*model.Shot, error) {
	shots, err := store.ListShots(ctx, s.ds, scene)
	if err != nil {
		return nil, err
	}

	order := nextOrder(shots)
	shot := model.Shot{
		ID:           nextShotID(shots),
		Order:        &order,
		ShotType:     req.ShotType,
		VisualAction: req.VisualAction,
		VideoPrompt:  req.VideoPrompt,
		Characters:   req.Characters,
		Status:       model.ShotStatusDraft,
		CreatedAt:    time.Now().UTC(),
	}

	parent, err := store.GetScene(ctx, s.ds, scene)
	if err != nil {
		log.Printf("Scene %s not loadable for inheritance: %v", scene, err)
	} else {
		shot.Location = parent.Location
		shot.LocationID = parent.LocationID
		shot.Products = parent.Products
		if shot.VisualAction == "" {
			shot.VisualAction = parent.Summary
		}
	}

	if err := s.ds.Set(ctx, scene.Shot(shot.ID), shot); err != nil {
		return nil, err
	}
	return &shot, nil
}

// UpdateField merges a single named field into a shot document. The field
// name and value are trusted as-is.
func (s *ShotService) UpdateField(ctx context.Context, scene store.ScenePath, id, field string, value interface{}) error {
	return s.ds.Merge(ctx, scene.Shot(id), map[string]interface{}{field: value})
}

// Delete removes a shot. Remaining order values are left untouched;
// deletion alone never compacts the sequence.
func (s *ShotService) Delete(ctx context.Context, scene store.ScenePath, id string) error {
	return s.ds.Delete(ctx, scene.Shot(id))
}

// Reorder moves the shot at index from to index to and rewrites order
// values as a dense 0..N-1 sequence, writing only the shots whose order
// actually changed. Writes are best-effort per shot; failures are logged
// and the next live snapshot is trusted to reflect whatever landed.
func (s *ShotService) Reorder(ctx context.Context, scene store.ScenePath, from, to int) ([]model.Shot, error) {
	shots, err := s.List(ctx, scene)
	if err != nil {
		return nil, err
	}
	if from < 0 || from >= len(shots) || to < 0 || to >= len(shots) {
		return nil, fmt.Errorf("reorder index out of range")
	}

	moved := moveShot(shots, from, to)
	for id, order := range orderChanges(moved) {
		if err := s.ds.Merge(ctx, scene.Shot(id), map[string]interface{}{"order": order}); err != nil {
			log.Printf("Reorder write failed for %s: %v", scene.Shot(id), err)
		}
	}

	for i := range moved {
		o := i
		moved[i].Order = &o
	}
	return moved, nil
}

// nextShotID scans existing ids for the highest shot_NN suffix and returns
// the next one. Ids that do not parse are skipped.
func nextShotID(shots []model.Shot) string {
	max := 0
	for i := range shots {
		suffix, ok := strings.CutPrefix(shots[i].ID, "shot_")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("shot_%02d", max+1)
}

// nextOrder returns max(existing order)+1, or 0 when no shot carries an
// order. Gaps in the sequence are deliberately not reused.
func nextOrder(shots []model.Shot) int {
	max := -1
	for i := range shots {
		if shots[i].Order != nil && *shots[i].Order > max {
			max = *shots[i].Order
		}
	}
	return max + 1
}

// moveShot returns a copy of shots with the element at from moved to to.
func moveShot(shots []model.Shot, from, to int) []model.Shot {
	out := make([]model.Shot, 0, len(shots))
	out = append(out, shots...)
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]model.Shot{item}, out[to:]...)...)
	return out
}

// orderChanges maps shot ids to their new dense order value, including only
// shots whose stored order differs from their new index.
func orderChanges(moved []model.Shot) map[string]int {
	changes := make(map[string]int)
	for i := range moved {
		if moved[i].Order == nil || *moved[i].Order != i {
			changes[moved[i].ID] = i
		}
	}
	return changes
}
