package model

// RenderShotOptions carries the per-request parameters of a single-shot
// image render. Fields mirror the multipart form sent to the render backend.
type RenderShotOptions struct {
	AspectRatio      string `json:"aspect_ratio,omitempty"`
	ImageProvider    string `json:"image_provider,omitempty"`
	ModelTier        string `json:"model_tier,omitempty"`
	ContinuityShotID string `json:"continuity_shot_id,omitempty"`
	CameraShotType   string `json:"camera_shot_type,omitempty"`
	// CameraTransform is an opaque JSON object forwarded verbatim.
	CameraTransform string `json:"camera_transform,omitempty"`
}

// AnimateOptions is the provider option schema shared by animate and
// text-to-video requests. element_list and voice_list are mutually
// exclusive; elements take precedence when both are supplied.
type AnimateOptions struct {
	Duration       string    `json:"duration,omitempty" validate:"omitempty,oneof=3 5 10 15"`
	Mode           VideoMode `json:"mode,omitempty" validate:"omitempty,oneof=std pro"`
	AspectRatio    string    `json:"aspect_ratio,omitempty" validate:"omitempty,max=16"`
	NegativePrompt string    `json:"negative_prompt,omitempty" validate:"omitempty,max=2000"`
	CFGScale       *float64  `json:"cfg_scale,omitempty" validate:"omitempty,gte=0,lte=1"`
	Sound          *bool     `json:"sound,omitempty"`
	Watermark      *bool     `json:"watermark,omitempty"`
	MultiShot      bool      `json:"multi_shot,omitempty"`
	ShotType       string    `json:"shot_type,omitempty" validate:"omitempty,max=64"`
	PromptSegments []string  `json:"prompt_segments,omitempty" validate:"omitempty,max=10"`
	ElementList    []string  `json:"element_list,omitempty" validate:"omitempty,max=10"`
	VoiceList      []string  `json:"voice_list,omitempty" validate:"omitempty,max=10"`
}

// AnimateShotRequest is the body for an image-to-video request on a shot.
type AnimateShotRequest struct {
	Prompt      string         `json:"prompt" validate:"omitempty,max=4000"`
	Provider    string         `json:"provider" validate:"omitempty,max=64"`
	EndFrameURL string         `json:"end_frame_url" validate:"omitempty,url"`
	Options     AnimateOptions `json:"options"`
}

// TextToVideoRequest is the body for a text-to-video request on a shot.
type TextToVideoRequest struct {
	Prompt   string         `json:"prompt" validate:"required,max=4000"`
	Provider string         `json:"provider" validate:"omitempty,max=64"`
	Options  AnimateOptions `json:"options"`
}

// VoiceoverResponse carries the generated audio URL. A null URL means the
// generation failed; voiceover failures are deliberately silent.
type VoiceoverResponse struct {
	AudioURL *string `json:"audio_url"`
}
