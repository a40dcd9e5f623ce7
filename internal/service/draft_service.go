package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/motionxstudio/api/internal/client"
	"github.com/motionxstudio/api/internal/model"
	"github.com/motionxstudio/api/internal/store"
	ws "github.com/motionxstudio/api/internal/websocket"
)

// DraftService turns a scene's action text into a full drafted shot list via
// the auto-direct backend. Drafting replaces the scene's shots wholesale;
// existing shots and their media fields are discarded.
type DraftService struct {
	ds       store.DocStore
	director client.ShotSuggester
	hub      *ws.Hub
}

func NewDraftService(ds store.DocStore, director client.ShotSuggester, hub *ws.Hub) *DraftService {
	return &DraftService{ds: ds, director: director, hub: hub}
}

// AutoDirect requests shot suggestions for the scene and writes them as
// shot_01..shot_NN with dense orders 0..N-1. The previous shot list is
// replaced in full.
func (s *DraftService) AutoDirect(ctx context.Context, scene store.ScenePath) ([]model.Shot, error) {
	parent, err := store.GetScene(ctx, s.ds, scene)
	if err != nil {
		return nil, fmt.Errorf("scene not found: %w", err)
	}
	if parent.Summary == "" {
		return nil, fmt.Errorf("scene has no action text to draft from")
	}

	s.broadcastLog(scene, "Drafting shot list...")

	drafts, err := s.director.SuggestShots(ctx, &client.SuggestShotsRequest{
		ProjectID:   scene.ProjectID,
		EpisodeID:   scene.EpisodeID,
		SceneID:     scene.SceneID,
		SceneAction: parent.Summary,
		Characters:  parent.Characters,
		Location:    parent.Location,
	})
	if err != nil {
		s.broadcastLog(scene, "Drafting failed")
		return nil, err
	}

	now := time.Now().UTC()
	shots := make([]model.Shot, 0, len(drafts))
	docs := make(map[string]interface{}, len(drafts))
	for i, draft := range drafts {
		order := i
		shot := model.Shot{
			ID:           fmt.Sprintf("shot_%02d", i+1),
			Order:        &order,
			ShotType:     draft.ShotType,
			VisualAction: draft.VisualAction,
			VideoPrompt:  draft.VideoPrompt,
			Characters:   draft.Characters,
			Location:     parent.Location,
			LocationID:   parent.LocationID,
			Products:     parent.Products,
			Status:       model.ShotStatusDraft,
			CreatedAt:    now,
		}
		shots = append(shots, shot)
		docs[shot.ID] = shot
	}

	if err := s.ds.DeleteAll(ctx, scene.Shots()); err != nil {
		return nil, err
	}
	if err := s.ds.SetAll(ctx, scene.Shots(), docs); err != nil {
		return nil, err
	}

	s.broadcastLog(scene, fmt.Sprintf("Drafted %d shots", len(shots)))
	log.Printf("Auto-direct replaced %s with %d shots", scene.Shots(), len(shots))
	return shots, nil
}

func (s *DraftService) broadcastLog(scene store.ScenePath, line string) {
	if s.hub != nil {
		s.hub.BroadcastLog(scene.String(), line)
	}
}
