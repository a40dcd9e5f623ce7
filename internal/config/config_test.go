package config

import "testing"

func TestLoadRateLimitEnvOverrides(t *testing.T) {
	t.Setenv("RATELIMIT_DRAFT_PER_MIN", "3")
	t.Setenv("RATELIMIT_RENDER_PER_HOUR", "12")
	t.Setenv("RATELIMIT_ANIMATE_PER_HOUR", "7")
	t.Setenv("RATELIMIT_VOICE_PER_HOUR", "9")
	t.Setenv("RATELIMIT_UPLOAD_PER_HOUR", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	rl := cfg.RateLimit
	if rl.DraftPerMin != 3 {
		t.Errorf("DraftPerMin = %d, want 3", rl.DraftPerMin)
	}
	if rl.RenderPerHour != 12 {
		t.Errorf("RenderPerHour = %d, want 12", rl.RenderPerHour)
	}
	if rl.AnimatePerHour != 7 {
		t.Errorf("AnimatePerHour = %d, want 7", rl.AnimatePerHour)
	}
	if rl.VoicePerHour != 9 {
		t.Errorf("VoicePerHour = %d, want 9", rl.VoicePerHour)
	}
	if rl.UploadPerHour != 4 {
		t.Errorf("UploadPerHour = %d, want 4", rl.UploadPerHour)
	}
}

func TestLoadRateLimitDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.RateLimit.DraftPerMin == 0 || cfg.RateLimit.RenderPerHour == 0 {
		t.Errorf("rate limit defaults missing: %+v", cfg.RateLimit)
	}
}
