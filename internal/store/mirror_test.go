package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/motionxstudio/api/internal/model"
)

// memStore is an in-memory DocStore for tests. Every mutation emits an event
// to collection watchers, mirroring the Redis implementation's behavior.
type memStore struct {
	mu       sync.Mutex
	docs     map[string]json.RawMessage
	watchers map[string][]chan Event
}

func newMemStore() *memStore {
	return &memStore{
		docs:     make(map[string]json.RawMessage),
		watchers: make(map[string][]chan Event),
	}
}

func (m *memStore) Get(_ context.Context, path string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[path]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (m *memStore) List(_ context.Context, collection string) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var docs []Document
	prefix := collection + "/"
	for path, data := range m.docs {
		if len(path) > len(prefix) && path[:len(prefix)] == prefix {
			id := path[len(prefix):]
			for i := range id {
				if id[i] == '/' {
					id = ""
					break
				}
			}
			if id != "" {
				docs = append(docs, Document{ID: id, Data: data})
			}
		}
	}
	return docs, nil
}

func (m *memStore) Set(_ context.Context, path string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.docs[path] = data
	m.mu.Unlock()
	collection, id := splitMemPath(path)
	m.emit(collection, Event{Type: EventPut, ID: id})
	return nil
}

func (m *memStore) SetAll(ctx context.Context, collection string, docs map[string]interface{}) error {
	m.mu.Lock()
	for id, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			m.mu.Unlock()
			return err
		}
		m.docs[collection+"/"+id] = data
	}
	m.mu.Unlock()
	m.emit(collection, Event{Type: EventPut})
	return nil
}

func (m *memStore) Merge(ctx context.Context, path string, fields map[string]interface{}) error {
	doc := make(map[string]interface{})
	raw, err := m.Get(ctx, path)
	if err == nil {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
	}
	for k, v := range fields {
		if v == nil {
			delete(doc, k)
			continue
		}
		doc[k] = v
	}
	return m.Set(ctx, path, doc)
}

func (m *memStore) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	delete(m.docs, path)
	m.mu.Unlock()
	collection, id := splitMemPath(path)
	m.emit(collection, Event{Type: EventDelete, ID: id})
	return nil
}

func (m *memStore) DeleteAll(ctx context.Context, collection string) error {
	docs, _ := m.List(ctx, collection)
	m.mu.Lock()
	for _, doc := range docs {
		delete(m.docs, collection+"/"+doc.ID)
	}
	m.mu.Unlock()
	m.emit(collection, Event{Type: EventDelete})
	return nil
}

func (m *memStore) Watch(ctx context.Context, collection string) (<-chan Event, error) {
	ch := make(chan Event, 64)
	m.mu.Lock()
	m.watchers[collection] = append(m.watchers[collection], ch)
	m.mu.Unlock()
	return ch, nil
}

func (m *memStore) emit(collection string, ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.watchers[collection] {
		select {
		case ch <- ev:
		default:
		}
	}
}

func splitMemPath(path string) (string, string) {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i], path[i+1:]
		}
	}
	return "", path
}

func testScene() ScenePath {
	return ScenePath{ProjectID: "p1", EpisodeID: "e1", SceneID: "s1"}
}

func waitForShots(t *testing.T, snapshots <-chan []model.Shot, want int) []model.Shot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case shots := <-snapshots:
			if len(shots) == want {
				return shots
			}
		case <-deadline:
			t.Fatalf("timed out waiting for snapshot with %d shots", want)
		}
	}
}

func TestSceneMirror_InitialSnapshotOrdered(t *testing.T) {
	ctx := context.Background()
	ms := newMemStore()
	scene := testScene()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	o0, o1 := 0, 1
	ms.Set(ctx, scene.Shot("shot_02"), model.Shot{ID: "shot_02", Order: &o1, CreatedAt: base})
	ms.Set(ctx, scene.Shot("shot_01"), model.Shot{ID: "shot_01", Order: &o0, CreatedAt: base})

	mirror, err := NewSceneMirror(ctx, ms, scene, nil)
	if err != nil {
		t.Fatalf("failed to create mirror: %v", err)
	}
	defer mirror.Close()

	shots := mirror.Snapshot()
	if len(shots) != 2 {
		t.Fatalf("expected 2 shots, got %d", len(shots))
	}
	if shots[0].ID != "shot_01" || shots[1].ID != "shot_02" {
		t.Errorf("expected [shot_01 shot_02], got [%s %s]", shots[0].ID, shots[1].ID)
	}
}

func TestSceneMirror_ReloadsOnChange(t *testing.T) {
	ctx := context.Background()
	ms := newMemStore()
	scene := testScene()

	snapshots := make(chan []model.Shot, 16)
	mirror, err := NewSceneMirror(ctx, ms, scene, func(shots []model.Shot) {
		snapshots <- shots
	})
	if err != nil {
		t.Fatalf("failed to create mirror: %v", err)
	}
	defer mirror.Close()

	waitForShots(t, snapshots, 0)

	o0 := 0
	ms.Set(ctx, scene.Shot("shot_01"), model.Shot{ID: "shot_01", Order: &o0, Status: model.ShotStatusDraft})
	shots := waitForShots(t, snapshots, 1)
	if shots[0].ID != "shot_01" {
		t.Errorf("expected shot_01, got %s", shots[0].ID)
	}

	ms.Delete(ctx, scene.Shot("shot_01"))
	waitForShots(t, snapshots, 0)
}

func TestSceneMirror_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	ms := newMemStore()
	scene := testScene()

	o0 := 0
	ms.Set(ctx, scene.Shot("shot_01"), model.Shot{ID: "shot_01", Order: &o0})

	mirror, err := NewSceneMirror(ctx, ms, scene, nil)
	if err != nil {
		t.Fatalf("failed to create mirror: %v", err)
	}
	defer mirror.Close()

	snap := mirror.Snapshot()
	snap[0].ID = "mutated"

	if mirror.Snapshot()[0].ID != "shot_01" {
		t.Error("snapshot mutation leaked into the mirror")
	}
}
