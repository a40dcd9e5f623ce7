package model

import (
	"math"
	"sort"
	"time"
)

// Shot is one generatable image/video unit within a scene. Stored as a JSON
// document at projects/{id}/episodes/{id}/scenes/{id}/shots/{id}.
type Shot struct {
	ID           string      `json:"id"`
	Order        *int        `json:"order,omitempty"`
	ShotType     string      `json:"shot_type,omitempty"`
	VisualAction string      `json:"visual_action,omitempty"`
	VideoPrompt  string      `json:"video_prompt,omitempty"`
	Characters   []string    `json:"characters,omitempty"`
	Products     []string    `json:"products,omitempty"`
	Location     string      `json:"location,omitempty"`
	LocationID   string      `json:"location_id,omitempty"`
	ImageURL     string      `json:"image_url,omitempty"`
	VideoURL     string      `json:"video_url,omitempty"`
	AudioURL     string      `json:"audio_url,omitempty"`
	Status       ShotStatus  `json:"status"`
	VideoStatus  VideoStatus `json:"video_status,omitempty"`
	ManualTags   []ManualTag `json:"manual_tags,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// ManualTag is a face-tag marker placed on a shot frame (adaptation projects).
type ManualTag struct {
	LabelID string  `json:"label_id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// OrderKey returns the sort key for the shot's order field. Shots without an
// order sort after every ordered shot.
func (s *Shot) OrderKey() int {
	if s.Order == nil {
		return math.MaxInt
	}
	return *s.Order
}

// Settled reports whether the shot has reached a terminal render state:
// an image is present, or the status is rendered or error.
func (s *Shot) Settled() bool {
	return s.ImageURL != "" || s.Status == ShotStatusRendered || s.Status == ShotStatusError
}

// SortShots orders shots in place by (order ascending, created_at ascending).
// The sort is stable and idempotent.
func SortShots(shots []Shot) {
	sort.SliceStable(shots, func(i, j int) bool {
		ki, kj := shots[i].OrderKey(), shots[j].OrderKey()
		if ki != kj {
			return ki < kj
		}
		return shots[i].CreatedAt.Before(shots[j].CreatedAt)
	})
}

// AllSettled reports whether every shot in the list has settled. An empty
// list counts as settled.
func AllSettled(shots []Shot) bool {
	for i := range shots {
		if !shots[i].Settled() {
			return false
		}
	}
	return true
}

// ShotDraft is one suggested shot returned by the auto-direct service.
type ShotDraft struct {
	ShotType     string   `json:"shot_type"`
	VisualAction string   `json:"visual_action"`
	VideoPrompt  string   `json:"video_prompt,omitempty"`
	Characters   []string `json:"characters,omitempty"`
}

// CreateShotRequest is the body for manually adding a shot.
type CreateShotRequest struct {
	ShotType     string   `json:"shot_type" validate:"omitempty,max=64"`
	VisualAction string   `json:"visual_action" validate:"omitempty,max=4000"`
	VideoPrompt  string   `json:"video_prompt" validate:"omitempty,max=4000"`
	Characters   []string `json:"characters" validate:"omitempty,max=20"`
}

// UpdateShotFieldRequest merges a single field into a shot document.
// The field name is trusted; no per-field validation is applied.
type UpdateShotFieldRequest struct {
	Field string      `json:"field" validate:"required"`
	Value interface{} `json:"value"`
}

// ReorderShotsRequest moves the shot at index From to index To.
type ReorderShotsRequest struct {
	From int `json:"from" validate:"min=0"`
	To   int `json:"to" validate:"min=0"`
}
