package service

import (
	"context"
	"log"

	"github.com/motionxstudio/api/internal/model"
	"github.com/motionxstudio/api/internal/storage"
	"github.com/motionxstudio/api/internal/store"
)

// MediaService handles bulk media resets on a scene. Document mutations come
// first so subscribers see the cleared state immediately; blob removal is
// best-effort garbage collection afterwards.
type MediaService struct {
	ds    store.DocStore
	blobs storage.BlobStore
}

func NewMediaService(ds store.DocStore, blobs storage.BlobStore) *MediaService {
	return &MediaService{ds: ds, blobs: blobs}
}

// WipeImages clears every shot's generated media fields and resets statuses
// to draft, then deletes the orphaned blobs. A shot that fails to update is
// logged and skipped; the wipe continues.
func (s *MediaService) WipeImages(ctx context.Context, scene store.ScenePath) error {
	shots, err := store.ListShots(ctx, s.ds, scene)
	if err != nil {
		return err
	}

	var orphaned []string
	for i := range shots {
		shot := &shots[i]
		if shot.ImageURL == "" && shot.VideoURL == "" && shot.Status == model.ShotStatusDraft {
			continue
		}
		orphaned = append(orphaned, shot.ImageURL, shot.VideoURL)

		fields := map[string]interface{}{
			"image_url":    nil,
			"video_url":    nil,
			"status":       model.ShotStatusDraft,
			"video_status": nil,
		}
		if err := s.ds.Merge(ctx, scene.Shot(shot.ID), fields); err != nil {
			log.Printf("Wipe failed for %s: %v", scene.Shot(shot.ID), err)
		}
	}

	s.collectBlobs(ctx, orphaned)
	return nil
}

// WipeScene removes every shot document in the scene, then deletes their
// blobs.
func (s *MediaService) WipeScene(ctx context.Context, scene store.ScenePath) error {
	shots, err := store.ListShots(ctx, s.ds, scene)
	if err != nil {
		return err
	}

	var orphaned []string
	for i := range shots {
		orphaned = append(orphaned, shots[i].ImageURL, shots[i].VideoURL, shots[i].AudioURL)
	}

	if err := s.ds.DeleteAll(ctx, scene.Shots()); err != nil {
		return err
	}

	s.collectBlobs(ctx, orphaned)
	return nil
}

// collectBlobs deletes the objects behind the given URLs. URLs outside our
// bucket and delete failures are ignored; the documents are already clean.
func (s *MediaService) collectBlobs(ctx context.Context, urls []string) {
	if s.blobs == nil {
		return
	}
	for _, u := range urls {
		if u == "" {
			continue
		}
		key, ok := s.blobs.KeyFromURL(u)
		if !ok {
			continue
		}
		if err := s.blobs.Delete(ctx, key); err != nil {
			log.Printf("Blob delete failed for %s: %v", key, err)
		}
	}
}
