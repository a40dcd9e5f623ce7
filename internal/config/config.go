package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	filePath := os.Getenv(envKey + "_FILE")
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	os.Setenv(envKey, strings.TrimSpace(string(data)))
}

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Director  DirectorConfig
	Render    RenderConfig
	Video     VideoConfig
	Audio     AudioConfig
	Minio     MinioConfig
	Batch     BatchConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration int // hours
}

type RateLimitConfig struct {
	DraftPerMin    int
	RenderPerHour  int
	AnimatePerHour int
	VoicePerHour   int
	UploadPerHour  int
}

// DirectorConfig points at the shot-suggestion (auto-direct) service.
type DirectorConfig struct {
	BaseURL string
	APIKey  string
}

// RenderConfig points at the image generation service.
type RenderConfig struct {
	BaseURL string
	APIKey  string
	Timeout int // seconds
}

// VideoConfig points at the animation / text-to-video service.
type VideoConfig struct {
	BaseURL string
	APIKey  string
}

// AudioConfig points at the TTS / lip-sync service.
type AudioConfig struct {
	BaseURL string
	APIKey  string
	Timeout int // seconds
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// BatchConfig controls the scene-wide generation poll loop.
type BatchConfig struct {
	PollInterval int // seconds
	MaxWait      int // seconds
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("DIRECTOR_API_KEY")
	readSecret("RENDER_API_KEY")
	readSecret("VIDEO_API_KEY")
	readSecret("AUDIO_API_KEY")
	readSecret("MINIO_ACCESS_KEY")
	readSecret("MINIO_SECRET_KEY")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("redis.db", "REDIS_DB")
	_ = viper.BindEnv("jwt.secret", "JWT_SECRET")
	_ = viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	_ = viper.BindEnv("ratelimit.draft_per_min", "RATELIMIT_DRAFT_PER_MIN")
	_ = viper.BindEnv("ratelimit.render_per_hour", "RATELIMIT_RENDER_PER_HOUR")
	_ = viper.BindEnv("ratelimit.animate_per_hour", "RATELIMIT_ANIMATE_PER_HOUR")
	_ = viper.BindEnv("ratelimit.voice_per_hour", "RATELIMIT_VOICE_PER_HOUR")
	_ = viper.BindEnv("ratelimit.upload_per_hour", "RATELIMIT_UPLOAD_PER_HOUR")
	_ = viper.BindEnv("director.base_url", "DIRECTOR_BASE_URL")
	_ = viper.BindEnv("director.api_key", "DIRECTOR_API_KEY")
	_ = viper.BindEnv("render.base_url", "RENDER_BASE_URL")
	_ = viper.BindEnv("render.api_key", "RENDER_API_KEY")
	_ = viper.BindEnv("render.timeout", "RENDER_TIMEOUT")
	_ = viper.BindEnv("video.base_url", "VIDEO_BASE_URL")
	_ = viper.BindEnv("video.api_key", "VIDEO_API_KEY")
	_ = viper.BindEnv("audio.base_url", "AUDIO_BASE_URL")
	_ = viper.BindEnv("audio.api_key", "AUDIO_API_KEY")
	_ = viper.BindEnv("audio.timeout", "AUDIO_TIMEOUT")
	_ = viper.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	_ = viper.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	_ = viper.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	_ = viper.BindEnv("minio.bucket", "MINIO_BUCKET")
	_ = viper.BindEnv("minio.use_ssl", "MINIO_USE_SSL")
	_ = viper.BindEnv("minio.public_url", "MINIO_PUBLIC_URL")
	_ = viper.BindEnv("batch.poll_interval", "BATCH_POLL_INTERVAL")
	_ = viper.BindEnv("batch.max_wait", "BATCH_MAX_WAIT")

	// Defaults
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.expiration", 24)
	viper.SetDefault("ratelimit.draft_per_min", 10)
	viper.SetDefault("ratelimit.render_per_hour", 60)
	viper.SetDefault("ratelimit.animate_per_hour", 30)
	viper.SetDefault("ratelimit.voice_per_hour", 60)
	viper.SetDefault("ratelimit.upload_per_hour", 50)
	viper.SetDefault("director.base_url", "http://localhost:8081")
	viper.SetDefault("render.base_url", "http://localhost:8082")
	viper.SetDefault("render.timeout", 120)
	viper.SetDefault("video.base_url", "http://localhost:8083")
	viper.SetDefault("audio.base_url", "http://localhost:8084")
	viper.SetDefault("audio.timeout", 120)
	viper.SetDefault("minio.endpoint", "localhost:9000")
	viper.SetDefault("minio.bucket", "motionx-media")
	viper.SetDefault("minio.use_ssl", false)
	viper.SetDefault("minio.public_url", "http://localhost:9000/motionx-media")
	viper.SetDefault("batch.poll_interval", 5)
	viper.SetDefault("batch.max_wait", 600)

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
			Env:  viper.GetString("server.env"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("jwt.secret"),
			Expiration: viper.GetInt("jwt.expiration"),
		},
		RateLimit: RateLimitConfig{
			DraftPerMin:    viper.GetInt("ratelimit.draft_per_min"),
			RenderPerHour:  viper.GetInt("ratelimit.render_per_hour"),
			AnimatePerHour: viper.GetInt("ratelimit.animate_per_hour"),
			VoicePerHour:   viper.GetInt("ratelimit.voice_per_hour"),
			UploadPerHour:  viper.GetInt("ratelimit.upload_per_hour"),
		},
		Director: DirectorConfig{
			BaseURL: viper.GetString("director.base_url"),
			APIKey:  viper.GetString("director.api_key"),
		},
		Render: RenderConfig{
			BaseURL: viper.GetString("render.base_url"),
			APIKey:  viper.GetString("render.api_key"),
			Timeout: viper.GetInt("render.timeout"),
		},
		Video: VideoConfig{
			BaseURL: viper.GetString("video.base_url"),
			APIKey:  viper.GetString("video.api_key"),
		},
		Audio: AudioConfig{
			BaseURL: viper.GetString("audio.base_url"),
			APIKey:  viper.GetString("audio.api_key"),
			Timeout: viper.GetInt("audio.timeout"),
		},
		Minio: MinioConfig{
			Endpoint:  viper.GetString("minio.endpoint"),
			AccessKey: viper.GetString("minio.access_key"),
			SecretKey: viper.GetString("minio.secret_key"),
			Bucket:    viper.GetString("minio.bucket"),
			UseSSL:    viper.GetBool("minio.use_ssl"),
			PublicURL: viper.GetString("minio.public_url"),
		},
		Batch: BatchConfig{
			PollInterval: viper.GetInt("batch.poll_interval"),
			MaxWait:      viper.GetInt("batch.max_wait"),
		},
	}

	return cfg, nil
}
