package model

import "time"

// Project is the top-level container document.
type Project struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Type        ProjectType `json:"type"`
	AspectRatio string      `json:"aspect_ratio,omitempty"`
	Style       string      `json:"style,omitempty"`
	Genre       string      `json:"genre,omitempty"`
	Moodboard   []string    `json:"moodboard,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Episode subdivides a project. Movie projects carry a single implicit
// episode created alongside the project.
type Episode struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Script        string    `json:"script,omitempty"`
	EpisodeNumber int       `json:"episode_number"`
	CreatedAt     time.Time `json:"created_at"`
}

// Scene subdivides an episode and provides the context shots inherit at
// creation time.
type Scene struct {
	ID          string    `json:"id"`
	SceneNumber int       `json:"scene_number"`
	Summary     string    `json:"summary,omitempty"`
	Location    string    `json:"location,omitempty"`
	LocationID  string    `json:"location_id,omitempty"`
	Characters  []string  `json:"characters,omitempty"`
	Products    []string  `json:"products,omitempty"`
	TimeOfDay   string    `json:"time_of_day,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CastCluster is a detected face cluster in an adaptation source video.
// Detection is owned by an external pipeline; this service only attaches
// replacement faces.
type CastCluster struct {
	LabelID         string        `json:"label_id"`
	OriginalFaceURL string        `json:"original_face_url"`
	NewFaceURL      string        `json:"new_face_url,omitempty"`
	Status          ClusterStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
}

// CreateProjectRequest is the body for the project creation wizard.
type CreateProjectRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Type        string   `json:"type" validate:"required,oneof=movie micro_drama ad adaptation"`
	AspectRatio string   `json:"aspect_ratio" validate:"omitempty,max=16"`
	Style       string   `json:"style" validate:"omitempty,max=500"`
	Genre       string   `json:"genre" validate:"omitempty,max=100"`
	Moodboard   []string `json:"moodboard" validate:"omitempty,max=20"`
}

// UpdateProjectRequest merges settings onto an existing project. Empty
// fields are left untouched.
type UpdateProjectRequest struct {
	Title       string   `json:"title" validate:"omitempty,max=200"`
	AspectRatio string   `json:"aspect_ratio" validate:"omitempty,max=16"`
	Style       string   `json:"style" validate:"omitempty,max=500"`
	Genre       string   `json:"genre" validate:"omitempty,max=100"`
	Moodboard   []string `json:"moodboard" validate:"omitempty,max=20"`
}

// CreateEpisodeRequest adds an episode to a project.
type CreateEpisodeRequest struct {
	Title         string `json:"title" validate:"required,max=200"`
	EpisodeNumber int    `json:"episode_number" validate:"min=0"`
	Script        string `json:"script" validate:"omitempty"`
}

// UpdateScriptRequest replaces an episode's script text.
type UpdateScriptRequest struct {
	Script string `json:"script" validate:"required"`
}

// UpdateSceneRequest merges context fields onto a scene. Empty fields are
// left untouched.
type UpdateSceneRequest struct {
	Summary    string   `json:"summary" validate:"omitempty,max=4000"`
	Location   string   `json:"location" validate:"omitempty,max=200"`
	LocationID string   `json:"location_id" validate:"omitempty,max=64"`
	Characters []string `json:"characters" validate:"omitempty,max=30"`
	Products   []string `json:"products" validate:"omitempty,max=30"`
	TimeOfDay  string   `json:"time_of_day" validate:"omitempty,max=32"`
}

// CreateSceneRequest adds a scene to an episode.
type CreateSceneRequest struct {
	SceneNumber int      `json:"scene_number" validate:"min=0"`
	Summary     string   `json:"summary" validate:"omitempty,max=4000"`
	Location    string   `json:"location" validate:"omitempty,max=200"`
	LocationID  string   `json:"location_id" validate:"omitempty,max=64"`
	Characters  []string `json:"characters" validate:"omitempty,max=30"`
	Products    []string `json:"products" validate:"omitempty,max=30"`
	TimeOfDay   string   `json:"time_of_day" validate:"omitempty,max=32"`
}
