package handler

import (
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/motionxstudio/api/internal/service"
	"github.com/motionxstudio/api/pkg/response"
)

const maxAudioUploadSize = 50 * 1024 * 1024 // 50MB

type AudioHandler struct {
	audio     *service.AudioService
	validator *validator.Validate
}

type voiceoverRequest struct {
	Text    string `json:"text" validate:"required,max=4000"`
	VoiceID string `json:"voice_id" validate:"omitempty,max=64"`
}

func NewAudioHandler(audio *service.AudioService, v *validator.Validate) *AudioHandler {
	return &AudioHandler{
		audio:     audio,
		validator: v,
	}
}

// Voiceover handles POST .../shots/:shotId/voiceover. Generation failures
// come back as 200 with a null audio_url, never as an error.
func (h *AudioHandler) Voiceover(c *fiber.Ctx) error {
	shotID := c.Params("shotId")
	if shotID == "" {
		return response.ValidationError(c, "Shot ID is required", nil)
	}

	var req voiceoverRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result := h.audio.VoiceoverForShot(c.Context(), scenePath(c), shotID, req.Text, req.VoiceID)
	return response.OK(c, result)
}

// LipSync handles POST .../shots/:shotId/lipsync. The body is multipart:
// either an audio_url form value or an audio_file part.
func (h *AudioHandler) LipSync(c *fiber.Ctx) error {
	shotID := c.Params("shotId")
	if shotID == "" {
		return response.ValidationError(c, "Shot ID is required", nil)
	}

	audioURL := c.FormValue("audio_url")

	var audioFile io.Reader
	audioFileName := ""
	if file, err := c.FormFile("audio_file"); err == nil {
		if file.Size > maxAudioUploadSize {
			return response.ValidationError(c, "Audio file exceeds 50MB limit", nil)
		}
		f, err := file.Open()
		if err != nil {
			return response.ServiceError(c, "Failed to open audio file")
		}
		defer f.Close()
		audioFile = f
		audioFileName = file.Filename
	}

	if err := h.audio.LipSync(c.Context(), scenePath(c), shotID, audioURL, audioFile, audioFileName); err != nil {
		return response.AIError(c, err.Error())
	}
	return response.Accepted(c, fiber.Map{"status": "processing"})
}
