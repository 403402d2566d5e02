package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"interview-media-backend/internal/agents"
	"interview-media-backend/internal/config"
	"interview-media-backend/internal/database"
	"interview-media-backend/internal/ffmpeg"
	"interview-media-backend/internal/handlers"
	"interview-media-backend/internal/services"
	"interview-media-backend/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	for _, dir := range []string{"documents", "videos"} {
		if err := os.MkdirAll(filepath.Join(cfg.UploadRoot, dir), 0o755); err != nil {
			log.Fatalf("Failed to create upload directory %s: %v", dir, err)
		}
	}

	st, cleanup := openStore(cfg)
	defer cleanup()

	defaultAccount, err := uuid.Parse(cfg.DefaultAccountID)
	if err != nil {
		log.Fatalf("Invalid DEFAULT_ACCOUNT_ID: %v", err)
	}
	if err := st.EnsureAccount(defaultAccount); err != nil {
		log.Fatalf("Failed to ensure default account: %v", err)
	}

	registry := agents.Bind(context.Background(), cfg)
	transcoder := ffmpeg.NewCommand(cfg.FFmpegBin, cfg.FFprobeBin)

	videoSvc := services.NewVideoService(st, transcoder, cfg.UploadRoot, cfg.TranscodeTimeout)
	router := handlers.NewRouter(handlers.RouterDeps{
		Config:    cfg,
		Interview: services.NewInterviewService(st),
		Question:  services.NewQuestionService(st, registry, cfg.AllowStubAnalysis),
		Video:     videoSvc,
		Document:  services.NewDocumentService(st, registry, cfg.UploadRoot),
		Feedback:  services.NewFeedbackService(st, registry, videoSvc, cfg.AllowStubAnalysis),
	})

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// openStore connects to postgres when DATABASE_URL is configured and runs
// pending migrations; otherwise it falls back to the in-memory store so the
// API stays usable in local development.
func openStore(cfg *config.Config) (store.Store, func()) {
	if cfg.DatabaseURL == "" {
		log.Println("DATABASE_URL not set, using in-memory store")
		return store.NewMemory(), func() {}
	}

	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect for migrations: %v", err)
	}
	if err := migrator.Run(); err != nil {
		migrator.Close()
		log.Fatalf("Failed to run migrations: %v", err)
	}
	migrator.Close()

	client, err := store.NewClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return client, func() { client.Close() }
}
