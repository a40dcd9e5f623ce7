package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/motionxstudio/api/internal/config"
)

// SpeechClient defines the voiceover and lip-sync dispatch operations.
type SpeechClient interface {
	Voiceover(ctx context.Context, text, voiceID string) (string, error)
	LipSync(ctx context.Context, req *LipSyncRequest) error
}

// AudioClient implements SpeechClient against the remote TTS/lip-sync
// service.
type AudioClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// LipSyncRequest is the lip-sync payload. Audio is passed either as a URL
// or as an uploaded file; AudioURL wins when both are set.
type LipSyncRequest struct {
	ProjectID string
	EpisodeID string
	SceneID   string
	ShotID    string
	VideoURL  string
	AudioURL  string

	AudioFile     io.Reader
	AudioFileName string
}

type voiceoverResponse struct {
	AudioURL string `json:"audio_url"`
}

// NewAudioClient creates a new TTS / lip-sync client.
func NewAudioClient(cfg *config.AudioConfig) *AudioClient {
	return &AudioClient{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

// Voiceover generates speech for the given text and returns the audio URL.
func (c *AudioClient) Voiceover(ctx context.Context, text, voiceID string) (string, error) {
	fields := map[string]string{
		"text":     text,
		"voice_id": voiceID,
	}
	body, contentType, err := buildForm(fields, "", "", nil)
	if err != nil {
		return "", err
	}

	var result voiceoverResponse
	if err := c.postForm(ctx, "/v1/audio/voiceover", body, contentType, &result); err != nil {
		return "", err
	}
	return result.AudioURL, nil
}

// LipSync submits a lip-sync job for a shot's video.
func (c *AudioClient) LipSync(ctx context.Context, req *LipSyncRequest) error {
	fields := map[string]string{
		"project_id": req.ProjectID,
		"episode_id": req.EpisodeID,
		"scene_id":   req.SceneID,
		"shot_id":    req.ShotID,
		"video_url":  req.VideoURL,
		"audio_url":  req.AudioURL,
	}

	var file io.Reader
	fileName := ""
	if req.AudioURL == "" && req.AudioFile != nil {
		file = req.AudioFile
		fileName = req.AudioFileName
	}
	body, contentType, err := buildForm(fields, "audio_file", fileName, file)
	if err != nil {
		return err
	}
	return c.postForm(ctx, "/v1/audio/lipsync", body, contentType, nil)
}

// IsConfigured returns true if the client has valid configuration.
func (c *AudioClient) IsConfigured() bool {
	return c.apiKey != ""
}

func (c *AudioClient) postForm(ctx context.Context, endpoint string, body *bytes.Buffer, contentType string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Printf("[Audio API] → POST %s", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Audio API] ✗ POST %s — request failed: %v", req.URL.String(), err)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	log.Printf("[Audio API] ← %d POST %s", resp.StatusCode, req.URL.String())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("audio API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}
