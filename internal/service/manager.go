package service

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/motionxstudio/api/internal/model"
	"github.com/motionxstudio/api/internal/store"
	ws "github.com/motionxstudio/api/internal/websocket"
)

// Manager is the composition root of the shot layer. It owns the live scene
// mirrors, fans their snapshots out over the websocket hub, and reconciles
// the image loading set against arriving media.
type Manager struct {
	ds  store.DocStore
	hub *ws.Hub

	Shots    *ShotService
	Media    *MediaService
	Draft    *DraftService
	Images   *ImageService
	Videos   *VideoService
	Audio    *AudioService
	Batch    *BatchService
	Projects *ProjectService
	Cast     *CastService

	mu      sync.Mutex
	mirrors map[string]*store.SceneMirror
	refs    map[string]int
}

// NewManager wires the services around one document store and hub.
func NewManager(
	ds store.DocStore,
	hub *ws.Hub,
	shots *ShotService,
	media *MediaService,
	draft *DraftService,
	images *ImageService,
	videos *VideoService,
	audio *AudioService,
	batch *BatchService,
	projects *ProjectService,
	cast *CastService,
) *Manager {
	return &Manager{
		ds:       ds,
		hub:      hub,
		Shots:    shots,
		Media:    media,
		Draft:    draft,
		Images:   images,
		Videos:   videos,
		Audio:    audio,
		Batch:    batch,
		Projects: projects,
		Cast:     cast,
		mirrors:  make(map[string]*store.SceneMirror),
		refs:     make(map[string]int),
	}
}

// OpenScene starts (or joins) the live feed for a scene. Each open call
// must be paired with a CloseScene; the mirror is torn down when the last
// subscriber leaves.
func (m *Manager) OpenScene(ctx context.Context, scene store.ScenePath) (*store.SceneMirror, error) {
	key := scene.String()

	m.mu.Lock()
	defer m.mu.Unlock()

	if mirror, ok := m.mirrors[key]; ok {
		m.refs[key]++
		return mirror, nil
	}

	mirror, err := store.NewSceneMirror(ctx, m.ds, scene, func(shots []model.Shot) {
		m.onSceneChange(scene, shots)
	})
	if err != nil {
		return nil, err
	}
	m.mirrors[key] = mirror
	m.refs[key] = 1
	log.Printf("Opened live feed for %s", key)
	return mirror, nil
}

// CloseScene releases one subscription to the scene feed.
func (m *Manager) CloseScene(scene store.ScenePath) {
	key := scene.String()

	m.mu.Lock()
	mirror, ok := m.mirrors[key]
	if ok {
		m.refs[key]--
		if m.refs[key] > 0 {
			mirror = nil
		} else {
			delete(m.mirrors, key)
			delete(m.refs, key)
		}
	}
	m.mu.Unlock()

	if mirror != nil {
		mirror.Close()
		log.Printf("Closed live feed for %s", key)
	}
}

// Mirror returns the live mirror for a scene if one is open.
func (m *Manager) Mirror(scene store.ScenePath) (*store.SceneMirror, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mirror, ok := m.mirrors[scene.String()]
	return mirror, ok
}

// onSceneChange runs on every mirror reload. It pushes the fresh snapshot to
// scene subscribers and clears loading flags for shots whose media arrived.
func (m *Manager) onSceneChange(scene store.ScenePath, shots []model.Shot) {
	for i := range shots {
		if shots[i].Settled() {
			m.Images.ClearLoading(scene.Shot(shots[i].ID))
		}
	}
	m.hub.BroadcastShots(scene.String(), shots)
}

// RenderShot dispatches an image render, filling the aspect ratio from the
// project settings when the request leaves it empty.
func (m *Manager) RenderShot(ctx context.Context, scene store.ScenePath, shotID string, opts *model.RenderShotOptions, refImage io.Reader, refImageName string) error {
	if opts == nil {
		opts = &model.RenderShotOptions{}
	}
	return m.Images.RenderShot(ctx, scene, shotID, opts, refImage, refImageName)
}

// Close tears down every open mirror.
func (m *Manager) Close() {
	m.mu.Lock()
	mirrors := make([]*store.SceneMirror, 0, len(m.mirrors))
	for _, mirror := range m.mirrors {
		mirrors = append(mirrors, mirror)
	}
	m.mirrors = make(map[string]*store.SceneMirror)
	m.refs = make(map[string]int)
	m.mu.Unlock()

	for _, mirror := range mirrors {
		mirror.Close()
	}
}
