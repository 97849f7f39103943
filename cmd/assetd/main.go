package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"

	"asset-tracker-backend/config"
	"asset-tracker-backend/internal/api"
	"asset-tracker-backend/internal/auth"
	"asset-tracker-backend/internal/blob"
	"asset-tracker-backend/internal/db"
	"asset-tracker-backend/internal/notification"
	"asset-tracker-backend/internal/store"
	"asset-tracker-backend/internal/ws"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "asset-tracker ", log.LstdFlags)

	// A .env file may carry CONFIG_PATH and secrets for local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Printf("warning: could not load .env: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Auth.JWTSecret == "" {
		logger.Fatalf("auth.jwt_secret must be configured")
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	if err := db.Seed(gormDB, cfg.Auth.BootstrapAdminPassword); err != nil {
		logger.Fatalf("failed to seed database: %v", err)
	}
	logger.Println("database initialized successfully")

	appStore := store.NewGormStore(gormDB)

	blobStore, err := blob.New(cfg.Uploads)
	if err != nil {
		logger.Fatalf("failed to initialize blob store: %v", err)
	}

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := auth.NewService(appStore, tokens)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Push is optional; without VAPID keys the watch endpoints answer 503
	// and scans simply skip the notifier.
	var webpushOptions *webpush.Options
	var notifier *notification.WorkerPool
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		notifier = notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions)
		notifier.Start(ctx)
		logger.Printf("notification worker pool started with %d workers", cfg.WorkerPool.Size)
	} else {
		logger.Println("VAPID keys are not configured; watch notifications disabled")
	}

	handler := api.NewHandler(api.HandlerConfig{
		Store:     appStore,
		Auth:      authService,
		Tokens:    tokens,
		Blobs:     blobStore,
		Hub:       ws.NewHub(),
		Notifier:  notifier,
		Webpush:   webpushOptions,
		MaxUpload: cfg.Uploads.MaxSizeMiB << 20,
	})

	router := api.NewRouter(handler, cfg)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
