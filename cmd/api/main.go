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

	pkgvalidator "github.com/essence-team/essence-backend/pkg/validator"

	"github.com/essence-team/essence-backend/internal/adapter/handler"
	"github.com/essence-team/essence-backend/internal/adapter/presenter"
	"github.com/essence-team/essence-backend/internal/adapter/repository"
	"github.com/essence-team/essence-backend/internal/domain/repositories"
	"github.com/essence-team/essence-backend/internal/infrastructure/cache"
	"github.com/essence-team/essence-backend/internal/infrastructure/database"
	httpmw "github.com/essence-team/essence-backend/internal/infrastructure/http/middleware"
	"github.com/essence-team/essence-backend/internal/infrastructure/storage"
	"github.com/essence-team/essence-backend/internal/usecase/activity"
	"github.com/essence-team/essence-backend/internal/usecase/summarize"
	pkgai "github.com/essence-team/essence-backend/pkg/ai"
	"github.com/essence-team/essence-backend/pkg/config"
	"github.com/essence-team/essence-backend/pkg/jwt"
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
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize dependencies
	log.Println("Initializing dependencies...")

	// Initialize the summary store backend
	var store repositories.SummaryStore
	switch cfg.Store.Backend {
	case "redis":
		log.Println("Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		store = repository.NewRedisSummaryStore(redisClient, logger)

	case "postgres":
		log.Println("Connecting to database...")
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.CloseDB(db)

		// AutoMigrate only when explicitly enabled in config.
		// Production deployments manage schema via sql-migrate.
		if cfg.Database.AutoMigrate {
			if cfg.Server.Environment == "production" {
				log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
			}
			log.Println("Running AutoMigrate (development only)...")
			if err := database.AutoMigrate(db); err != nil {
				log.Fatalf("Failed to run AutoMigrate: %v", err)
			}
		} else {
			log.Println("Applying sql-migrate migrations...")
			if err := database.Migrate(db); err != nil {
				log.Fatalf("Failed to apply migrations: %v", err)
			}
		}
		store = repository.NewPostgresSummaryStore(db, logger)

	case "memory":
		log.Println("Using in-memory summary store (data is not persisted)")
		store = cache.NewMemoryStore()

	default:
		log.Fatalf("Unknown store backend: %s", cfg.Store.Backend)
	}

	// Initialize blob storage
	log.Println("Connecting to blob storage...")
	blobs, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize blob storage: %v", err)
	}

	// Initialize generation components
	log.Println("Initializing generation pipeline...")
	groqClient := pkgai.NewGroqClient(&cfg.Groq)
	service := summarize.NewService(store, blobs, groqClient, cfg.Storage.AudioBucket, logger)

	// Activity recording is best-effort and off the request path
	recorder := activity.NewRecorder(blobs, cfg.Storage.ActivityBucket, logger)
	defer recorder.Close()

	// Optional bearer auth improves activity attribution
	var jwtManager *jwt.Manager
	if cfg.JWT.AccessSecret != "" {
		log.Println("Initializing JWT manager...")
		jwtManager = jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)
	}
	e.Use(httpmw.EchoOptionalAuth(jwtManager))

	// Setup router with handlers
	log.Println("Setting up routes...")
	summaryPresenter := presenter.NewSummaryPresenter(blobs, cfg.Storage.PresignExpiry, logger)
	summaryHandler := handler.NewSummaryHandler(service, store, summaryPresenter, recorder, cfg.Store.DefaultUser, logger)

	router := handler.NewRouter(cfg, summaryHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Starting server on %s", addr)
		log.Printf("Environment: %s", cfg.Server.Environment)
		log.Printf("Store backend: %s", cfg.Store.Backend)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}
