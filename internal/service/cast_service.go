package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/motionxstudio/api/internal/model"
	"github.com/motionxstudio/api/internal/storage"
	"github.com/motionxstudio/api/internal/store"
)

// CastService manages face clusters on adaptation projects. Detection is an
// external pipeline's job; this side only lists clusters and attaches
// replacement faces.
type CastService struct {
	ds    store.DocStore
	blobs storage.BlobStore
}

func NewCastService(ds store.DocStore, blobs storage.BlobStore) *CastService {
	return &CastService{ds: ds, blobs: blobs}
}

// ListClusters returns the project's detected face clusters.
func (s *CastService) ListClusters(ctx context.Context, projectID string) ([]model.CastCluster, error) {
	docs, err := s.ds.List(ctx, store.CastClustersPath(projectID))
	if err != nil {
		return nil, err
	}
	clusters := make([]model.CastCluster, 0, len(docs))
	for _, doc := range docs {
		var c model.CastCluster
		if err := json.Unmarshal(doc.Data, &c); err != nil {
			continue
		}
		if c.LabelID == "" {
			c.LabelID = doc.ID
		}
		clusters = append(clusters, c)
	}
	return clusters, nil
}

// AttachFace uploads a replacement face image for a cluster and flips it to
// replaced. The upload gets its own generous deadline; face images can be
// large.
func (s *CastService) AttachFace(ctx context.Context, projectID, labelID string, file io.Reader, size int64, fileName, contentType string) (*model.CastCluster, error) {
	clusterPath := store.CastClusterPath(projectID, labelID)
	raw, err := s.ds.Get(ctx, clusterPath)
	if err != nil {
		return nil, fmt.Errorf("cluster not found: %w", err)
	}
	var cluster model.CastCluster
	if err := json.Unmarshal(raw, &cluster); err != nil {
		return nil, fmt.Errorf("failed to decode cluster: %w", err)
	}

	ext := path.Ext(fileName)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("faces/%s/%s_%s%s", projectID, labelID, uuid.New().String()[:8], ext)

	uploadCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	url, err := s.blobs.Upload(uploadCtx, key, file, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload face: %w", err)
	}

	fields := map[string]interface{}{
		"new_face_url": url,
		"status":       model.ClusterStatusReplaced,
	}
	if err := s.ds.Merge(ctx, clusterPath, fields); err != nil {
		return nil, err
	}

	cluster.LabelID = labelID
	cluster.NewFaceURL = url
	cluster.Status = model.ClusterStatusReplaced
	return &cluster, nil
}
