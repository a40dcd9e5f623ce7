package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/motionxstudio/api/internal/model"
	"github.com/motionxstudio/api/internal/store"
)

// ProjectService manages the project/episode/scene container documents that
// shots hang off of.
type ProjectService struct {
	ds store.DocStore
}

func NewProjectService(ds store.DocStore) *ProjectService {
	return &ProjectService{ds: ds}
}

// CreateProject creates a project. Movie projects get a single implicit
// episode so the scene hierarchy is uniform across project types.
func (s *ProjectService) CreateProject(ctx context.Context, id string, req *model.CreateProjectRequest) (*model.Project, error) {
	now := time.Now().UTC()
	project := model.Project{
		ID:          id,
		Title:       req.Title,
		Type:        model.ProjectType(req.Type),
		AspectRatio: req.AspectRatio,
		Style:       req.Style,
		Genre:       req.Genre,
		Moodboard:   req.Moodboard,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.ds.Set(ctx, store.ProjectPath(id), project); err != nil {
		return nil, err
	}

	if project.Type == model.ProjectTypeMovie {
		episode := model.Episode{
			ID:            "ep_01",
			Title:         req.Title,
			EpisodeNumber: 1,
			CreatedAt:     now,
		}
		if err := s.ds.Set(ctx, store.EpisodePath(id, episode.ID), episode); err != nil {
			return nil, err
		}
	}
	return &project, nil
}

// GetProject loads a project.
func (s *ProjectService) GetProject(ctx context.Context, projectID string) (*model.Project, error) {
	return store.GetProject(ctx, s.ds, projectID)
}

// ListProjects returns every project document.
func (s *ProjectService) ListProjects(ctx context.Context) ([]model.Project, error) {
	docs, err := s.ds.List(ctx, "projects")
	if err != nil {
		return nil, err
	}
	projects := make([]model.Project, 0, len(docs))
	for _, doc := range docs {
		var p model.Project
		if err := json.Unmarshal(doc.Data, &p); err != nil {
			continue
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// UpdateProject merges non-empty settings onto a project.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID string, req *model.UpdateProjectRequest) error {
	if _, err := store.GetProject(ctx, s.ds, projectID); err != nil {
		return fmt.Errorf("project not found: %w", err)
	}

	fields := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if req.Title != "" {
		fields["title"] = req.Title
	}
	if req.AspectRatio != "" {
		fields["aspect_ratio"] = req.AspectRatio
	}
	if req.Style != "" {
		fields["style"] = req.Style
	}
	if req.Genre != "" {
		fields["genre"] = req.Genre
	}
	if req.Moodboard != nil {
		fields["moodboard"] = req.Moodboard
	}
	return s.ds.Merge(ctx, store.ProjectPath(projectID), fields)
}

// CreateEpisode adds an episode to a project.
func (s *ProjectService) CreateEpisode(ctx context.Context, projectID, episodeID string, req *model.CreateEpisodeRequest) (*model.Episode, error) {
	if _, err := store.GetProject(ctx, s.ds, projectID); err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}
	episode := model.Episode{
		ID:            episodeID,
		Title:         req.Title,
		Script:        req.Script,
		EpisodeNumber: req.EpisodeNumber,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.ds.Set(ctx, store.EpisodePath(projectID, episodeID), episode); err != nil {
		return nil, err
	}
	return &episode, nil
}

// UpdateScript replaces an episode's script text.
func (s *ProjectService) UpdateScript(ctx context.Context, projectID, episodeID string, req *model.UpdateScriptRequest) error {
	path := store.EpisodePath(projectID, episodeID)
	if _, err := s.ds.Get(ctx, path); err != nil {
		return fmt.Errorf("episode not found: %w", err)
	}
	return s.ds.Merge(ctx, path, map[string]interface{}{"script": req.Script})
}

// CreateScene adds a scene to an episode.
func (s *ProjectService) CreateScene(ctx context.Context, scene store.ScenePath, req *model.CreateSceneRequest) (*model.Scene, error) {
	if _, err := s.ds.Get(ctx, store.EpisodePath(scene.ProjectID, scene.EpisodeID)); err != nil {
		return nil, fmt.Errorf("episode not found: %w", err)
	}
	doc := model.Scene{
		ID:          scene.SceneID,
		SceneNumber: req.SceneNumber,
		Summary:     req.Summary,
		Location:    req.Location,
		LocationID:  req.LocationID,
		Characters:  req.Characters,
		Products:    req.Products,
		TimeOfDay:   req.TimeOfDay,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.ds.Set(ctx, scene.Scene(), doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateScene merges non-empty context fields onto a scene. Existing shots
// keep their inherited values; inheritance happens only at shot creation.
func (s *ProjectService) UpdateScene(ctx context.Context, scene store.ScenePath, req *model.UpdateSceneRequest) error {
	if _, err := store.GetScene(ctx, s.ds, scene); err != nil {
		return fmt.Errorf("scene not found: %w", err)
	}

	fields := make(map[string]interface{})
	if req.Summary != "" {
		fields["summary"] = req.Summary
	}
	if req.Location != "" {
		fields["location"] = req.Location
	}
	if req.LocationID != "" {
		fields["location_id"] = req.LocationID
	}
	if req.Characters != nil {
		fields["characters"] = req.Characters
	}
	if req.Products != nil {
		fields["products"] = req.Products
	}
	if req.TimeOfDay != "" {
		fields["time_of_day"] = req.TimeOfDay
	}
	if len(fields) == 0 {
		return nil
	}
	return s.ds.Merge(ctx, scene.Scene(), fields)
}

// GetScene loads a scene.
func (s *ProjectService) GetScene(ctx context.Context, scene store.ScenePath) (*model.Scene, error) {
	return store.GetScene(ctx, s.ds, scene)
}
