package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/motionxstudio/api/internal/config"
)

// ImageRenderer defines the image generation dispatch operations. Both are
// fire-and-forget: success means the backend accepted the job, results land
// in the document store later.
type ImageRenderer interface {
	RenderShot(ctx context.Context, req *RenderShotRequest) error
	RenderScene(ctx context.Context, req *RenderSceneRequest) (*RenderSceneResponse, error)
}

// RenderClient implements ImageRenderer against the remote render service.
type RenderClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// RenderShotRequest is the multipart payload of a single-shot render. All
// fields are sent as form strings; the reference image is attached as a file
// part when present.
type RenderShotRequest struct {
	ProjectID        string
	EpisodeID        string
	SceneID          string
	ShotID           string
	SceneAction      string
	Characters       []string
	Products         []string
	Location         string
	LocationID       string
	ShotType         string
	AspectRatio      string
	ImageProvider    string
	Style            string
	Genre            string
	CameraTransform  string
	CameraShotType   string
	ContinuityShotID string
	ModelTier        string

	ReferenceImage     io.Reader
	ReferenceImageName string
}

// RenderSceneRequest is the multipart payload of a scene-wide render. The
// backend fans it out to every shot lacking media.
type RenderSceneRequest struct {
	ProjectID     string
	EpisodeID     string
	SceneID       string
	ImageProvider string
	AspectRatio   string
	Style         string
	ModelTier     string
}

// RenderSceneResponse acknowledges a queued scene render.
type RenderSceneResponse struct {
	Status    string `json:"status"`
	ShotCount int    `json:"shot_count"`
}

// NewRenderClient creates a new image render client.
func NewRenderClient(cfg *config.RenderConfig) *RenderClient {
	return &RenderClient{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

// RenderShot submits a single shot render request.
func (c *RenderClient) RenderShot(ctx context.Context, req *RenderShotRequest) error {
	fields := map[string]string{
		"project_id":         req.ProjectID,
		"episode_id":         req.EpisodeID,
		"scene_id":           req.SceneID,
		"shot_id":            req.ShotID,
		"scene_action":       req.SceneAction,
		"characters":         strings.Join(req.Characters, ","),
		"products":           strings.Join(req.Products, ","),
		"location":           req.Location,
		"location_id":        req.LocationID,
		"shot_type":          req.ShotType,
		"aspect_ratio":       req.AspectRatio,
		"image_provider":     req.ImageProvider,
		"style":              req.Style,
		"genre":              req.Genre,
		"camera_transform":   req.CameraTransform,
		"camera_shot_type":   req.CameraShotType,
		"continuity_shot_id": req.ContinuityShotID,
		"model_tier":         req.ModelTier,
	}

	body, contentType, err := buildForm(fields, "reference_image", req.ReferenceImageName, req.ReferenceImage)
	if err != nil {
		return err
	}
	return c.postForm(ctx, "/v1/shots/render", body, contentType, nil)
}

// RenderScene submits a scene-wide render request.
func (c *RenderClient) RenderScene(ctx context.Context, req *RenderSceneRequest) (*RenderSceneResponse, error) {
	fields := map[string]string{
		"project_id":     req.ProjectID,
		"episode_id":     req.EpisodeID,
		"scene_id":       req.SceneID,
		"image_provider": req.ImageProvider,
		"aspect_ratio":   req.AspectRatio,
		"style":          req.Style,
		"model_tier":     req.ModelTier,
	}

	body, contentType, err := buildForm(fields, "", "", nil)
	if err != nil {
		return nil, err
	}
	var result RenderSceneResponse
	if err := c.postForm(ctx, "/v1/scenes/render", body, contentType, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// IsConfigured returns true if the client has valid configuration.
func (c *RenderClient) IsConfigured() bool {
	return c.apiKey != ""
}

// buildForm assembles a multipart body. Empty field values are skipped; a
// file part is attached when reader is non-nil.
func buildForm(fields map[string]string, fileField, fileName string, reader io.Reader) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	if reader != nil && fileField != "" {
		if fileName == "" {
			fileName = "reference"
		}
		part, err := writer.CreateFormFile(fileField, fileName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := io.Copy(part, reader); err != nil {
			return nil, "", fmt.Errorf("failed to copy file part: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

func (c *RenderClient) postForm(ctx context.Context, endpoint string, body *bytes.Buffer, contentType string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Printf("[Render API] → POST %s", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Render API] ✗ POST %s — request failed: %v", req.URL.String(), err)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	log.Printf("[Render API] ← %d POST %s", resp.StatusCode, req.URL.String())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("render API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}
