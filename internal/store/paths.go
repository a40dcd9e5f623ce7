package store

import "fmt"

// ScenePath identifies one (project, episode, scene) triple. The rendered
// path shape projects/{id}/episodes/{id}/scenes/{id} is shared with the
// generation backend and must not change.
type ScenePath struct {
	ProjectID string
	EpisodeID string
	SceneID   string
}

func (p ScenePath) String() string {
	return fmt.Sprintf("projects/%s/episodes/%s/scenes/%s", p.ProjectID, p.EpisodeID, p.SceneID)
}

// Shots returns the scene's shot collection path.
func (p ScenePath) Shots() string {
	return p.String() + "/shots"
}

// Shot returns the document path for one shot.
func (p ScenePath) Shot(id string) string {
	return p.Shots() + "/" + id
}

// Scene returns the scene's own document path.
func (p ScenePath) Scene() string {
	return p.String()
}

// ProjectPath returns the document path for a project.
func ProjectPath(projectID string) string {
	return "projects/" + projectID
}

// EpisodePath returns the document path for an episode.
func EpisodePath(projectID, episodeID string) string {
	return fmt.Sprintf("projects/%s/episodes/%s", projectID, episodeID)
}

// CastClustersPath returns a project's cast cluster collection path.
func CastClustersPath(projectID string) string {
	return ProjectPath(projectID) + "/cast_clusters"
}

// CastClusterPath returns the document path for one cast cluster.
func CastClusterPath(projectID, labelID string) string {
	return CastClustersPath(projectID) + "/" + labelID
}
