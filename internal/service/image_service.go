package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/motionxstudio/api/internal/client"
	"github.com/motionxstudio/api/internal/model"
	"github.com/motionxstudio/api/internal/store"
)

// ImageService dispatches single-shot image renders. It owns the in-flight
// loading set: a shot joins it when a render is dispatched and leaves when
// the live feed shows the shot settled.
type ImageService struct {
	ds       store.DocStore
	renderer client.ImageRenderer

	mu      sync.Mutex
	loading map[string]bool
}

func NewImageService(ds store.DocStore, renderer client.ImageRenderer) *ImageService {
	return &ImageService{
		ds:       ds,
		renderer: renderer,
		loading:  make(map[string]bool),
	}
}

// RenderShot dispatches an image render for one shot. The prompt context is
// assembled from the shot document and the project's style settings; opts
// override the project's default aspect ratio. The shot is flipped to
// generating before the dispatch so a fast backend write cannot be
// overwritten by a stale status.
func (s *ImageService) RenderShot(ctx context.Context, scene store.ScenePath, shotID string, opts *model.RenderShotOptions, refImage io.Reader, refImageName string) error {
	shot, err := store.GetShot(ctx, s.ds, scene, shotID)
	if err != nil {
		return fmt.Errorf("shot not found: %w", err)
	}

	req := &client.RenderShotRequest{
		ProjectID:          scene.ProjectID,
		EpisodeID:          scene.EpisodeID,
		SceneID:            scene.SceneID,
		ShotID:             shotID,
		SceneAction:        shot.VisualAction,
		Characters:         shot.Characters,
		Products:           shot.Products,
		Location:           shot.Location,
		LocationID:         shot.LocationID,
		ShotType:           shot.ShotType,
		AspectRatio:        opts.AspectRatio,
		ImageProvider:      opts.ImageProvider,
		ModelTier:          opts.ModelTier,
		ContinuityShotID:   opts.ContinuityShotID,
		CameraShotType:     opts.CameraShotType,
		CameraTransform:    opts.CameraTransform,
		ReferenceImage:     refImage,
		ReferenceImageName: refImageName,
	}

	if project, err := store.GetProject(ctx, s.ds, scene.ProjectID); err == nil {
		req.Style = project.Style
		req.Genre = project.Genre
		if req.AspectRatio == "" {
			req.AspectRatio = project.AspectRatio
		}
	} else {
		log.Printf("Project %s not loadable for render context: %v", scene.ProjectID, err)
	}

	path := scene.Shot(shotID)
	s.markLoading(path, true)

	prior := shot.Status
	if err := s.ds.Merge(ctx, path, map[string]interface{}{"status": model.ShotStatusGenerating}); err != nil {
		log.Printf("Failed to mark %s generating: %v", path, err)
	}

	if err := s.renderer.RenderShot(ctx, req); err != nil {
		s.markLoading(path, false)
		if mergeErr := s.ds.Merge(ctx, path, map[string]interface{}{"status": prior}); mergeErr != nil {
			log.Printf("Failed to restore %s status: %v", path, mergeErr)
		}
		return err
	}
	return nil
}

// Loading returns the shot paths with an in-flight render.
func (s *ImageService) Loading() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.loading))
	for p := range s.loading {
		paths = append(paths, p)
	}
	return paths
}

// IsLoading reports whether a shot has an in-flight render.
func (s *ImageService) IsLoading(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading[path]
}

// ClearLoading drops a shot from the loading set, typically when the live
// feed shows it settled.
func (s *ImageService) ClearLoading(path string) {
	s.markLoading(path, false)
}

func (s *ImageService) markLoading(path string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v {
		s.loading[path] = true
	} else {
		delete(s.loading, path)
	}
}
