package model

// Project types
type ProjectType string

const (
	ProjectTypeMovie      ProjectType = "movie"
	ProjectTypeMicroDrama ProjectType = "micro_drama"
	ProjectTypeAd         ProjectType = "ad"
	ProjectTypeAdaptation ProjectType = "adaptation"
)

var ValidProjectTypes = []ProjectType{
	ProjectTypeMovie, ProjectTypeMicroDrama, ProjectTypeAd, ProjectTypeAdaptation,
}

// Shot render lifecycle
type ShotStatus string

const (
	ShotStatusDraft      ShotStatus = "draft"
	ShotStatusGenerating ShotStatus = "generating"
	ShotStatusRendered   ShotStatus = "rendered"
	ShotStatusError      ShotStatus = "error"
)

// Animation lifecycle, tracked separately from the image render status
type VideoStatus string

const (
	VideoStatusQueued     VideoStatus = "queued"
	VideoStatusAnimating  VideoStatus = "animating"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusReady      VideoStatus = "ready"
	VideoStatusError      VideoStatus = "error"
)

// Cast cluster lifecycle
type ClusterStatus string

const (
	ClusterStatusDetected ClusterStatus = "detected"
	ClusterStatusReplaced ClusterStatus = "replaced"
)

// Job status
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCanceled  JobStatus = "canceled"
)

// Job types
type JobType string

const (
	JobTypeBatchRender JobType = "batch_render"
)

// Video generation modes
type VideoMode string

const (
	VideoModeStd VideoMode = "std"
	VideoModePro VideoMode = "pro"
)
