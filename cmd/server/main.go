package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/motionxstudio/api/internal/client"
	"github.com/motionxstudio/api/internal/config"
	"github.com/motionxstudio/api/internal/handler"
	"github.com/motionxstudio/api/internal/middleware"
	"github.com/motionxstudio/api/internal/service"
	"github.com/motionxstudio/api/internal/storage"
	"github.com/motionxstudio/api/internal/store"
	"github.com/motionxstudio/api/internal/worker"
	ws "github.com/motionxstudio/api/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available: %v", err)
	}

	// Initialize Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize document store and blob storage
	docStore := store.NewRedisStore(redisClient)

	blobStore, err := storage.NewMinioStore(&cfg.Minio)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Initialize validator
	validate := validator.New()

	// Initialize WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Initialize API clients
	directorClient := client.NewDirectorClient(&cfg.Director)
	renderClient := client.NewRenderClient(&cfg.Render)
	videoClient := client.NewVideoClient(&cfg.Video)
	audioClient := client.NewAudioClient(&cfg.Audio)

	// Initialize services
	shotService := service.NewShotService(docStore)
	mediaService := service.NewMediaService(docStore, blobStore)
	draftService := service.NewDraftService(docStore, directorClient, hub)
	imageService := service.NewImageService(docStore, renderClient)
	videoService := service.NewVideoService(docStore, videoClient)
	audioService := service.NewAudioService(docStore, audioClient)
	batchService := service.NewBatchService(docStore, redisClient, asynqClient, &cfg.Batch)
	projectService := service.NewProjectService(docStore)
	castService := service.NewCastService(docStore, blobStore)

	manager := service.NewManager(
		docStore, hub,
		shotService, mediaService, draftService, imageService,
		videoService, audioService, batchService, projectService, castService,
	)
	defer manager.Close()

	// Initialize handlers
	shotHandler := handler.NewShotHandler(shotService, mediaService, validate)
	draftHandler := handler.NewDraftHandler(draftService)
	generateHandler := handler.NewGenerateHandler(manager, validate)
	audioHandler := handler.NewAudioHandler(audioService, validate)
	batchHandler := handler.NewBatchHandler(batchService, validate)
	projectHandler := handler.NewProjectHandler(projectService, validate)
	castHandler := handler.NewCastHandler(castService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    50 * 1024 * 1024, // 50MB
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API routes
	api := app.Group("/api", authMiddleware.Authenticate())

	// Project routes
	api.Post("/projects", projectHandler.Create)
	api.Get("/projects", projectHandler.List)
	api.Get("/projects/:projectId", projectHandler.Get)
	api.Patch("/projects/:projectId", projectHandler.Update)
	api.Post("/projects/:projectId/episodes", projectHandler.CreateEpisode)
	api.Put("/projects/:projectId/episodes/:episodeId/script", projectHandler.UpdateScript)
	api.Post("/projects/:projectId/episodes/:episodeId/scenes", projectHandler.CreateScene)

	// Cast cluster routes
	api.Get("/projects/:projectId/cast-clusters", castHandler.List)
	api.Post("/projects/:projectId/cast-clusters/:labelId/face",
		rateLimiter.UploadLimit(cfg.RateLimit.UploadPerHour), castHandler.AttachFace)

	// Scene and shot routes
	scenes := api.Group("/projects/:projectId/episodes/:episodeId/scenes/:sceneId")
	scenes.Get("/", projectHandler.GetScene)
	scenes.Patch("/", projectHandler.UpdateScene)
	scenes.Get("/shots", shotHandler.List)
	scenes.Post("/shots", shotHandler.Create)
	scenes.Delete("/shots", shotHandler.WipeScene)
	scenes.Post("/shots/reorder", shotHandler.Reorder)
	scenes.Post("/shots/wipe-images", shotHandler.WipeImages)
	scenes.Get("/shots/:shotId", shotHandler.Get)
	scenes.Patch("/shots/:shotId", shotHandler.UpdateField)
	scenes.Delete("/shots/:shotId", shotHandler.Delete)

	// Drafting and generation routes
	scenes.Post("/auto-direct", rateLimiter.DraftLimit(cfg.RateLimit.DraftPerMin), draftHandler.AutoDirect)
	scenes.Post("/generate-batch", rateLimiter.RenderLimit(cfg.RateLimit.RenderPerHour), batchHandler.Start)
	scenes.Post("/shots/:shotId/render", rateLimiter.RenderLimit(cfg.RateLimit.RenderPerHour), generateHandler.RenderShot)
	scenes.Post("/shots/:shotId/animate", rateLimiter.AnimateLimit(cfg.RateLimit.AnimatePerHour), generateHandler.Animate)
	scenes.Post("/shots/:shotId/text-to-video", rateLimiter.AnimateLimit(cfg.RateLimit.AnimatePerHour), generateHandler.TextToVideo)
	scenes.Post("/shots/:shotId/voiceover", rateLimiter.VoiceLimit(cfg.RateLimit.VoicePerHour), audioHandler.Voiceover)
	scenes.Post("/shots/:shotId/lipsync", rateLimiter.VoiceLimit(cfg.RateLimit.VoicePerHour), audioHandler.LipSync)

	// Job routes
	api.Get("/jobs/:jobId", batchHandler.Status)
	api.Post("/jobs/:jobId/cancel", batchHandler.Cancel)

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/jobs/:jobId", websocket.New(func(c *websocket.Conn) {
		jobID := c.Params("jobId")
		hub.HandleConnection(c, jobID)
	}))

	app.Get("/ws/scenes/:projectId/:episodeId/:sceneId", websocket.New(func(c *websocket.Conn) {
		scene := store.ScenePath{
			ProjectID: c.Params("projectId"),
			EpisodeID: c.Params("episodeId"),
			SceneID:   c.Params("sceneId"),
		}

		mirror, err := manager.OpenScene(context.Background(), scene)
		if err != nil {
			log.Printf("Failed to open scene feed for %s: %v", scene, err)
			c.Close()
			return
		}
		defer manager.CloseScene(scene)

		// Push the current snapshot so the subscriber does not wait for the
		// first change event.
		hub.BroadcastShots(scene.String(), mirror.Snapshot())
		hub.HandleConnection(c, scene.String())
	}))

	// Start Asynq worker server
	go startWorkerServer(cfg, docStore, batchService, renderClient, hub)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func startWorkerServer(cfg *config.Config, docStore store.DocStore, batchService *service.BatchService, renderClient client.ImageRenderer, hub *ws.Hub) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"batch": 10,
			},
		},
	)

	batchWorker := worker.NewBatchWorker(batchService, docStore, renderClient, hub)

	mux := asynq.NewServeMux()
	mux.HandleFunc(service.TaskTypeBatchRender, batchWorker.ProcessTask)

	if err := srv.Run(mux); err != nil {
		log.Printf("Asynq worker error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "SERVICE_ERROR",
			"message": message,
		},
	})
}
