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
	"github.com/motionxstudio/api/internal/model"
)

// VideoAnimator defines the video generation dispatch operations. Requests
// are fire-and-forget: success means the job was accepted.
type VideoAnimator interface {
	Animate(ctx context.Context, req *AnimateRequest) error
	TextToVideo(ctx context.Context, req *TextToVideoRequest) error
}

// VideoClient implements VideoAnimator against the remote video job system.
type VideoClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// AnimateRequest is the image-to-video payload.
type AnimateRequest struct {
	ProjectID   string `json:"project_id"`
	EpisodeID   string `json:"episode_id"`
	SceneID     string `json:"scene_id"`
	ShotID      string `json:"shot_id"`
	ImageURL    string `json:"image_url"`
	Prompt      string `json:"prompt,omitempty"`
	Provider    string `json:"provider,omitempty"`
	EndFrameURL string `json:"end_frame_url,omitempty"`

	Options model.AnimateOptions `json:"-"`
}

// TextToVideoRequest is the text-to-video payload.
type TextToVideoRequest struct {
	ProjectID string `json:"project_id"`
	EpisodeID string `json:"episode_id"`
	SceneID   string `json:"scene_id"`
	ShotID    string `json:"shot_id"`
	Prompt    string `json:"prompt"`
	Provider  string `json:"provider,omitempty"`

	Options model.AnimateOptions `json:"-"`
}

// NewVideoClient creates a new video generation client.
func NewVideoClient(cfg *config.VideoConfig) *VideoClient {
	return &VideoClient{
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

// Animate submits an image-to-video job.
func (c *VideoClient) Animate(ctx context.Context, req *AnimateRequest) error {
	payload, err := mergeOptions(req, &req.Options)
	if err != nil {
		return err
	}
	return c.post(ctx, "/v1/videos/animate", payload)
}

// TextToVideo submits a text-to-video job.
func (c *VideoClient) TextToVideo(ctx context.Context, req *TextToVideoRequest) error {
	payload, err := mergeOptions(req, &req.Options)
	if err != nil {
		return err
	}
	return c.post(ctx, "/v1/videos/text-to-video", payload)
}

// IsConfigured returns true if the client has valid configuration.
func (c *VideoClient) IsConfigured() bool {
	return c.apiKey != ""
}

// mergeOptions flattens the base request and its options into one JSON
// object. element_list and voice_list are mutually exclusive; elements take
// precedence when both are supplied.
func mergeOptions(base interface{}, opts *model.AnimateOptions) (map[string]interface{}, error) {
	payload := make(map[string]interface{})

	baseBytes, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	if err := json.Unmarshal(baseBytes, &payload); err != nil {
		return nil, fmt.Errorf("failed to flatten request: %w", err)
	}

	trimmed := *opts
	if len(trimmed.ElementList) > 0 {
		trimmed.VoiceList = nil
	}
	optBytes, err := json.Marshal(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal options: %w", err)
	}
	optFields := make(map[string]interface{})
	if err := json.Unmarshal(optBytes, &optFields); err != nil {
		return nil, fmt.Errorf("failed to flatten options: %w", err)
	}
	for k, v := range optFields {
		payload[k] = v
	}
	return payload, nil
}

func (c *VideoClient) post(ctx context.Context, endpoint string, payload interface{}) error {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Printf("[Video API] → POST %s", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Video API] ✗ POST %s — request failed: %v", req.URL.String(), err)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	log.Printf("[Video API] ← %d POST %s", resp.StatusCode, req.URL.String())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("video API error (status %d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}
