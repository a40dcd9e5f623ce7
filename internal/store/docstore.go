package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/motionxstudio/api/internal/model"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// EventType classifies a collection change.
type EventType string

const (
	EventPut    EventType = "put"
	EventDelete EventType = "delete"
)

// Event signals that a document in a watched collection changed.
type Event struct {
	Type EventType `json:"type"`
	ID   string    `json:"id,omitempty"`
}

// Document pairs a document id with its raw JSON body.
type Document struct {
	ID   string
	Data json.RawMessage
}

// DocStore is a hierarchical JSON document store with per-collection change
// notifications. Documents live at slash-separated paths; a collection is a
// path prefix holding the documents directly beneath it.
type DocStore interface {
	// Get returns the document at path, or ErrNotFound.
	Get(ctx context.Context, path string) (json.RawMessage, error)

	// List returns every document in the collection, in unspecified order.
	List(ctx context.Context, collection string) ([]Document, error)

	// Set writes the document at path, replacing any existing body.
	Set(ctx context.Context, path string, doc interface{}) error

	// SetAll writes every document in one batch. ids index docs.
	SetAll(ctx context.Context, collection string, docs map[string]interface{}) error

	// Merge applies a field-level merge onto the document at path.
	// Missing documents are created from the given fields.
	Merge(ctx context.Context, path string, fields map[string]interface{}) error

	// Delete removes the document at path. Deleting a missing document is
	// not an error.
	Delete(ctx context.Context, path string) error

	// DeleteAll removes every document in the collection.
	DeleteAll(ctx context.Context, collection string) error

	// Watch emits an event for every subsequent change to the collection
	// until ctx is canceled. The channel is closed on teardown.
	Watch(ctx context.Context, collection string) (<-chan Event, error)
}

// ListShots loads and decodes every shot in a scene. Undecodable documents
// are skipped.
func ListShots(ctx context.Context, ds DocStore, scene ScenePath) ([]model.Shot, error) {
	docs, err := ds.List(ctx, scene.Shots())
	if err != nil {
		return nil, err
	}
	shots := make([]model.Shot, 0, len(docs))
	for _, doc := range docs {
		var s model.Shot
		if err := json.Unmarshal(doc.Data, &s); err != nil {
			continue
		}
		if s.ID == "" {
			s.ID = doc.ID
		}
		shots = append(shots, s)
	}
	return shots, nil
}

// GetShot loads one shot document.
func GetShot(ctx context.Context, ds DocStore, scene ScenePath, id string) (*model.Shot, error) {
	raw, err := ds.Get(ctx, scene.Shot(id))
	if err != nil {
		return nil, err
	}
	var s model.Shot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetScene loads a scene document.
func GetScene(ctx context.Context, ds DocStore, scene ScenePath) (*model.Scene, error) {
	raw, err := ds.Get(ctx, scene.Scene())
	if err != nil {
		return nil, err
	}
	var sc model.Scene
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// GetProject loads a project document.
func GetProject(ctx context.Context, ds DocStore, projectID string) (*model.Project, error) {
	raw, err := ds.Get(ctx, ProjectPath(projectID))
	if err != nil {
		return nil, err
	}
	var p model.Project
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
