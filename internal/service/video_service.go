package service

import (
	"context"
	"fmt"
	"log"

	"github.com/motionxstudio/api/internal/client"
	"github.com/motionxstudio/api/internal/model"
	"github.com/motionxstudio/api/internal/store"
)

// VideoService dispatches image-to-video and text-to-video jobs for shots.
// Results arrive through the document store, not through these calls.
type VideoService struct {
	ds       store.DocStore
	animator client.VideoAnimator
}

func NewVideoService(ds store.DocStore, animator client.VideoAnimator) *VideoService {
	return &VideoService{ds: ds, animator: animator}
}

// Animate submits an image-to-video job for a shot. The shot must already
// carry a rendered image. On acceptance the shot's video status flips to
// queued.
func (s *VideoService) Animate(ctx context.Context, scene store.ScenePath, shotID string, req *model.AnimateShotRequest) error {
	shot, err := store.GetShot(ctx, s.ds, scene, shotID)
	if err != nil {
		return fmt.Errorf("shot not found: %w", err)
	}
	if shot.ImageURL == "" {
		return fmt.Errorf("shot %s has no image to animate", shotID)
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = shot.VideoPrompt
	}

	err = s.animator.Animate(ctx, &client.AnimateRequest{
		ProjectID:   scene.ProjectID,
		EpisodeID:   scene.EpisodeID,
		SceneID:     scene.SceneID,
		ShotID:      shotID,
		ImageURL:    shot.ImageURL,
		Prompt:      prompt,
		Provider:    req.Provider,
		EndFrameURL: req.EndFrameURL,
		Options:     req.Options,
	})
	if err != nil {
		return err
	}

	s.markQueued(ctx, scene, shotID)
	return nil
}

// TextToVideo submits a text-to-video job for a shot. No source image is
// required.
func (s *VideoService) TextToVideo(ctx context.Context, scene store.ScenePath, shotID string, req *model.TextToVideoRequest) error {
	err := s.animator.TextToVideo(ctx, &client.TextToVideoRequest{
		ProjectID: scene.ProjectID,
		EpisodeID: scene.EpisodeID,
		SceneID:   scene.SceneID,
		ShotID:    shotID,
		Prompt:    req.Prompt,
		Provider:  req.Provider,
		Options:   req.Options,
	})
	if err != nil {
		return err
	}

	s.markQueued(ctx, scene, shotID)
	return nil
}

func (s *VideoService) markQueued(ctx context.Context, scene store.ScenePath, shotID string) {
	fields := map[string]interface{}{"video_status": model.VideoStatusQueued}
	if err := s.ds.Merge(ctx, scene.Shot(shotID), fields); err != nil {
		log.Printf("Failed to mark %s queued: %v", scene.Shot(shotID), err)
	}
}
