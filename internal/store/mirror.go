package store

import (
	"context"
	"log"
	"sync"

	"github.com/motionxstudio/api/internal/model"
)

// SceneMirror keeps a live, ordered copy of one scene's shots. Every change
// event triggers a full re-list and re-sort; scene shot counts are small
// enough that incremental diffing is not worth it. The mirror is the single
// writer of its slice; readers take copies via Snapshot.
type SceneMirror struct {
	ds    DocStore
	scene ScenePath

	mu    sync.RWMutex
	shots []model.Shot

	onChange func([]model.Shot)
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSceneMirror loads the scene's shots and starts watching for changes.
// onChange, if non-nil, receives the freshly sorted snapshot after every
// reload (including the initial one).
func NewSceneMirror(ctx context.Context, ds DocStore, scene ScenePath, onChange func([]model.Shot)) (*SceneMirror, error) {
	watchCtx, cancel := context.WithCancel(context.Background())
	events, err := ds.Watch(watchCtx, scene.Shots())
	if err != nil {
		cancel()
		return nil, err
	}

	m := &SceneMirror{
		ds:       ds,
		scene:    scene,
		onChange: onChange,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	if err := m.reload(ctx); err != nil {
		cancel()
		return nil, err
	}

	go m.watchLoop(watchCtx, events)
	return m, nil
}

// Snapshot returns a copy of the current ordered shot list.
func (m *SceneMirror) Snapshot() []model.Shot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Shot, len(m.shots))
	copy(out, m.shots)
	return out
}

// Scene returns the scene this mirror tracks.
func (m *SceneMirror) Scene() ScenePath {
	return m.scene
}

// Close stops the watch loop and waits for it to exit.
func (m *SceneMirror) Close() {
	m.cancel()
	<-m.done
}

func (m *SceneMirror) watchLoop(ctx context.Context, events <-chan Event) {
	defer close(m.done)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			if err := m.reload(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("Scene mirror reload failed for %s: %v", m.scene, err)
			}
		}
	}
}

func (m *SceneMirror) reload(ctx context.Context) error {
	shots, err := ListShots(ctx, m.ds, m.scene)
	if err != nil {
		return err
	}
	model.SortShots(shots)

	m.mu.Lock()
	m.shots = shots
	m.mu.Unlock()

	if m.onChange != nil {
		m.onChange(m.Snapshot())
	}
	return nil
}
