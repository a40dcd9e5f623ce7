package client

import (
	"testing"

	"github.com/motionxstudio/api/internal/model"
)

func TestMergeOptions_FlattensIntoOnePayload(t *testing.T) {
	req := &AnimateRequest{
		ProjectID: "p1",
		EpisodeID: "e1",
		SceneID:   "s1",
		ShotID:    "shot_01",
		ImageURL:  "https://cdn/img.png",
		Options: model.AnimateOptions{
			Duration: "5",
			Mode:     model.VideoModePro,
		},
	}

	payload, err := mergeOptions(req, &req.Options)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	if payload["image_url"] != "https://cdn/img.png" {
		t.Errorf("base field lost: %v", payload["image_url"])
	}
	if payload["duration"] != "5" {
		t.Errorf("option field lost: %v", payload["duration"])
	}
	if payload["mode"] != "pro" {
		t.Errorf("expected mode pro, got %v", payload["mode"])
	}
}

func TestMergeOptions_ElementsSuppressVoices(t *testing.T) {
	opts := model.AnimateOptions{
		ElementList: []string{"el_1"},
		VoiceList:   []string{"voice_1"},
	}
	req := &AnimateRequest{Options: opts}

	payload, err := mergeOptions(req, &req.Options)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	if _, ok := payload["voice_list"]; ok {
		t.Error("voice_list should be dropped when element_list is present")
	}
	if _, ok := payload["element_list"]; !ok {
		t.Error("element_list missing from payload")
	}

	// The caller's options must not be mutated.
	if len(req.Options.VoiceList) != 1 {
		t.Error("merge mutated the caller's voice list")
	}
}

func TestMergeOptions_OmitsEmptyFields(t *testing.T) {
	req := &TextToVideoRequest{ProjectID: "p1", Prompt: "text"}
	payload, err := mergeOptions(req, &req.Options)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if _, ok := payload["cfg_scale"]; ok {
		t.Error("unset cfg_scale should be omitted")
	}
	if _, ok := payload["provider"]; ok {
		t.Error("empty provider should be omitted")
	}
}
