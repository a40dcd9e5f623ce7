package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/motionxstudio/api/internal/config"
	"github.com/motionxstudio/api/internal/model"
)

// ShotSuggester defines the auto-direct drafting operation.
type ShotSuggester interface {
	SuggestShots(ctx context.Context, req *SuggestShotsRequest) ([]model.ShotDraft, error)
}

// DirectorClient implements ShotSuggester against the remote suggestion
// service.
type DirectorClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// SuggestShotsRequest carries the scene context for shot drafting.
type SuggestShotsRequest struct {
	ProjectID   string   `json:"project_id"`
	EpisodeID   string   `json:"episode_id"`
	SceneID     string   `json:"scene_id"`
	SceneAction string   `json:"scene_action"`
	Characters  []string `json:"characters,omitempty"`
	Location    string   `json:"location,omitempty"`
}

type suggestShotsResponse struct {
	Shots []model.ShotDraft `json:"shots"`
}

// NewDirectorClient creates a new shot suggestion client.
func NewDirectorClient(cfg *config.DirectorConfig) *DirectorClient {
	return &DirectorClient{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

// SuggestShots posts the scene context and returns the drafted shot list in
// response order.
func (c *DirectorClient) SuggestShots(ctx context.Context, req *SuggestShotsRequest) ([]model.ShotDraft, error) {
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/scenes/suggest-shots", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("director API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var suggestResp suggestShotsResponse
	if err := json.Unmarshal(respBody, &suggestResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(suggestResp.Shots) == 0 {
		return nil, fmt.Errorf("no shots in response")
	}

	return suggestResp.Shots, nil
}

// IsConfigured returns true if the client has valid configuration.
func (c *DirectorClient) IsConfigured() bool {
	return c.apiKey != ""
}
