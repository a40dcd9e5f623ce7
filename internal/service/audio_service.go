package service

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/motionxstudio/api/internal/client"
	"github.com/motionxstudio/api/internal/model"
	"github.com/motionxstudio/api/internal/store"
)

// AudioService covers voiceover generation and lip-sync dispatch. Voiceover
// failures are deliberately silent: the caller receives a null audio URL and
// no error, matching how the editor treats missing narration.
type AudioService struct {
	ds     store.DocStore
	speech client.SpeechClient
}

func NewAudioService(ds store.DocStore, speech client.SpeechClient) *AudioService {
	return &AudioService{ds: ds, speech: speech}
}

// Voiceover generates speech for the given text. A failed generation is
// logged and reported as a null URL, never as an error.
func (s *AudioService) Voiceover(ctx context.Context, text, voiceID string) *model.VoiceoverResponse {
	url, err := s.speech.Voiceover(ctx, text, voiceID)
	if err != nil || url == "" {
		log.Printf("Voiceover generation failed: %v", err)
		return &model.VoiceoverResponse{AudioURL: nil}
	}
	return &model.VoiceoverResponse{AudioURL: &url}
}

// VoiceoverForShot generates speech and, on success, merges the audio URL
// onto the shot document. The silent-failure contract still holds.
func (s *AudioService) VoiceoverForShot(ctx context.Context, scene store.ScenePath, shotID, text, voiceID string) *model.VoiceoverResponse {
	resp := s.Voiceover(ctx, text, voiceID)
	if resp.AudioURL == nil {
		return resp
	}
	fields := map[string]interface{}{"audio_url": *resp.AudioURL}
	if err := s.ds.Merge(ctx, scene.Shot(shotID), fields); err != nil {
		log.Printf("Failed to attach audio to %s: %v", scene.Shot(shotID), err)
	}
	return resp
}

// LipSync submits a lip-sync job for a shot's video. The shot is optimistically
// flipped to processing before dispatch and rolled back to ready on failure.
func (s *AudioService) LipSync(ctx context.Context, scene store.ScenePath, shotID, audioURL string, audioFile io.Reader, audioFileName string) error {
	shot, err := store.GetShot(ctx, s.ds, scene, shotID)
	if err != nil {
		return fmt.Errorf("shot not found: %w", err)
	}
	if shot.VideoURL == "" {
		return fmt.Errorf("shot %s has no video to lip-sync", shotID)
	}
	if audioURL == "" && audioFile == nil {
		return fmt.Errorf("lip-sync needs an audio url or an uploaded file")
	}

	path := scene.Shot(shotID)
	processing := map[string]interface{}{"video_status": model.VideoStatusProcessing}
	if err := s.ds.Merge(ctx, path, processing); err != nil {
		return err
	}

	err = s.speech.LipSync(ctx, &client.LipSyncRequest{
		ProjectID:     scene.ProjectID,
		EpisodeID:     scene.EpisodeID,
		SceneID:       scene.SceneID,
		ShotID:        shotID,
		VideoURL:      shot.VideoURL,
		AudioURL:      audioURL,
		AudioFile:     audioFile,
		AudioFileName: audioFileName,
	})
	if err != nil {
		rollback := map[string]interface{}{"video_status": model.VideoStatusReady}
		if mergeErr := s.ds.Merge(ctx, path, rollback); mergeErr != nil {
			log.Printf("Lip-sync rollback failed for %s: %v", path, mergeErr)
		}
		return err
	}
	return nil
}
