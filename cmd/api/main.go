package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/karlgroves/openai-content-moderator/internal/adapter/http/router"
	"github.com/karlgroves/openai-content-moderator/internal/infrastructure/bootstrap"
	"github.com/karlgroves/openai-content-moderator/internal/infrastructure/cache"
	"github.com/karlgroves/openai-content-moderator/internal/infrastructure/config"
	"github.com/karlgroves/openai-content-moderator/internal/infrastructure/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Redis is only needed by the redis verdict cache
	var redisClient *redis.Client
	if bootstrap.NeedsRedis(cfg) {
		redisClient, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Error("Failed to connect to Redis", zap.Error(err))
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("Connected to Redis")
	}

	moderation, err := bootstrap.NewModeration(cfg, redisClient, log)
	if err != nil {
		return fmt.Errorf("failed to build moderation pipeline: %w", err)
	}
	log.Info("Moderation providers ready",
		zap.Strings("providers", moderation.ProviderIDs),
		zap.Duration("cache_ttl", cfg.Moderation.CacheTTL),
	)

	// Setup router
	r := router.Setup(router.Dependencies{
		Config:       cfg,
		ModerationUC: moderation.Usecase,
		ProviderIDs:  moderation.ProviderIDs,
		Redis:        redisClient,
		Logger:       log,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("address", addr), zap.String("env", cfg.Server.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close Redis connection
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("Server exited")
	return nil
}
