/*
Package main is the entry point for the CollabBoard server.

It is responsible for loading configuration, initializing the global logging system,
connecting to PostgreSQL and the optional snapshot archive, starting the board
Coordinator, setting up the HTTP server, and gracefully handling operating system
interrupt signals (SIGINT, SIGTERM) to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"collabboard/internal/app/board"
	"collabboard/internal/app/db"
	"collabboard/internal/app/storage"
	"collabboard/internal/configs"
	"collabboard/internal/handler"
	"collabboard/internal/pkg/logx"
)

func main() {
	// Load a local .env file when present; real deployments set env vars directly.
	_ = godotenv.Load()

	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Int("history_limit", cfg.HistoryLimit).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Bool("snapshot_archive", cfg.SnapshotArchiveEnabled()).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL and run migrations
	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to initialize database connection pool")
	}
	defer pool.Close()

	store := db.NewStore(pool)

	// Snapshot archive is optional; without it saved canvases live only in memory.
	var archive board.SnapshotArchive
	if cfg.SnapshotArchiveEnabled() {
		archive, err = storage.NewSnapshotArchive(storage.ServiceConfig{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			logx.Fatal(err, "Failed to initialize snapshot archive")
		}
	}

	// Initialize the board Coordinator
	registry := board.NewRegistry(cfg.HistoryLimit)
	coordinator := board.NewCoordinator(registry, store, archive)
	go coordinator.Run()

	// Setup HTTP server and routes
	deps := &handler.AppDeps{
		Coordinator: coordinator,
		Config:      cfg,
		DB:          store,
	}
	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("CollabBoard Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	coordinator.Shutdown()

	logx.Info("Server gracefully stopped.")
}
