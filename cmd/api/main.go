package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/meeting-minutes-team/meeting-minutes/internal/adapter/handler"
	"github.com/meeting-minutes-team/meeting-minutes/internal/adapter/repository"
	"github.com/meeting-minutes-team/meeting-minutes/internal/infrastructure/cache"
	"github.com/meeting-minutes-team/meeting-minutes/internal/infrastructure/database"
	"github.com/meeting-minutes-team/meeting-minutes/internal/usecase/pipeline"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/config"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/llm"
	pkgvalidator "github.com/meeting-minutes-team/meeting-minutes/pkg/validator"
	"github.com/meeting-minutes-team/meeting-minutes/pkg/zoom"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Apply migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize dedup store: Redis when configured, in-process otherwise
	var dedup cache.DedupStore
	if cfg.Redis.Host != "" {
		log.Println("📦 Connecting to Redis...")
		redisStore, err := cache.NewRedisStore(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		dedup = redisStore
	} else {
		log.Println("⚠️  Redis not configured, using in-memory dedup store")
		dedup = cache.NewMemoryStore()
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	meetingRepo := repository.NewMeetingRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	minutesRepo := repository.NewMinutesRepository(db)
	jobRepo := repository.NewProcessingJobRepository(db)
	promptRepo := repository.NewPromptRepository(db)

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize provider and model clients
	log.Println("🔐 Initializing provider clients...")
	tokenSource := zoom.NewTokenSource(&cfg.Zoom)
	zoomClient := zoom.NewClient(&cfg.Zoom, tokenSource)
	llmClient := llm.NewClient(&cfg.LLM)

	// Initialize pipeline service
	log.Println("🤖 Initializing pipeline service...")
	classifier := pipeline.NewClassifier(llmClient)
	generator := pipeline.NewGenerator(llmClient)
	pipelineService := pipeline.NewService(
		meetingRepo,
		transcriptRepo,
		minutesRepo,
		jobRepo,
		promptRepo,
		zoomClient,
		classifier,
		generator,
		dedup,
		cfg,
		logger,
	)

	// Start background workers
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if err := pipelineService.StartWorkerPool(workerCtx, cfg.Worker.Count); err != nil {
		log.Fatalf("Failed to start worker pool: %v", err)
	}

	// Initialize handlers
	log.Println("🪝 Initializing handlers...")
	v := pkgvalidator.New()
	webhookHandler := handler.NewZoomWebhook(pipelineService, &cfg.Zoom, logger)
	meetingHandler := handler.NewMeeting(pipelineService, meetingRepo, transcriptRepo, minutesRepo, v, logger)
	promptHandler := handler.NewPrompt(promptRepo, v, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, webhookHandler, meetingHandler, promptHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	// Drain workers after the listener closes so in-flight jobs finish
	if err := pipelineService.StopWorkerPool(); err != nil {
		log.Printf("❌ Worker pool shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
