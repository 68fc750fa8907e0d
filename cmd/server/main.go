// Package main provides the API server entry point for the NFT dashboard service.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nft-dashboard/internal/api"
	"github.com/nft-dashboard/internal/config"
	"github.com/nft-dashboard/internal/indexer"
	"github.com/nft-dashboard/internal/logging"
	"github.com/nft-dashboard/internal/nft"
	"github.com/nft-dashboard/internal/retry"
	"github.com/nft-dashboard/internal/service"
	"github.com/nft-dashboard/internal/stats"
	"github.com/nft-dashboard/internal/storage"
	"github.com/nft-dashboard/internal/transfer"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logLevel := logging.ParseLogLevel(cfg.Logging.Level)
	logFormat := logging.ParseLogFormat(cfg.Logging.Format)
	logging.InitGlobalLogger(logLevel, logFormat)

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	// Initialize database connections
	logger.Info("Connecting to databases...")

	postgres, err := storage.NewPostgresDB(&cfg.Database.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	redis, err := storage.NewRedisCache(&cfg.Database.Redis)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redis.Close()

	logger.Info("Database connections established")

	// Initialize the indexer gateway
	gateway, err := indexer.NewClient(&indexer.Config{
		BaseURL:           cfg.Indexer.BaseURL,
		Token:             cfg.Indexer.Token,
		RequestsPerSecond: cfg.Indexer.RequestsPerSecond,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to create indexer client")
	}

	logger.WithField("indexer", cfg.Indexer.BaseURL).Info("Indexer gateway initialized")

	// Retry policy for asset parameter lookups
	retryCfg := &retry.Config{
		MaxAttempts:  cfg.Pipeline.RetryMaxAttempts,
		InitialDelay: cfg.Pipeline.RetryInitialDelay,
		MaxDelay:     cfg.Pipeline.RetryMaxDelay,
		Multiplier:   2.0,
		Retryable:    indexer.IsTransient,
	}

	// Initialize the enrichment pipeline and transfer joiner
	pipeline, err := nft.NewPipeline(&nft.PipelineConfig{
		Gateway:     gateway,
		Concurrency: cfg.Pipeline.Concurrency,
		Retry:       retryCfg,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to create enrichment pipeline")
	}

	joiner, err := transfer.NewJoiner(&transfer.JoinerConfig{
		Gateway:     gateway,
		Concurrency: cfg.Pipeline.Concurrency,
		Retry:       retryCfg,
		SearchLimit: cfg.Indexer.SearchLimit,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to create transfer joiner")
	}

	// Initialize repositories and cache
	profileRepo := storage.NewProfileRepository(postgres)
	cacheService := storage.NewCacheService(redis, cfg.Cache.TTL)

	// Initialize the dashboard service
	dashboard, err := service.NewDashboardService(&service.DashboardServiceConfig{
		Gateway:     gateway,
		Pipeline:    pipeline,
		Joiner:      joiner,
		Aggregator:  stats.NewAggregator(),
		Cache:       cacheService,
		SearchLimit: cfg.Indexer.SearchLimit,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to create dashboard service")
	}

	logger.Info("Services initialized")

	// Create server configuration
	serverConfig := &api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		RateLimitRPS:    cfg.RateLimit.RequestsPerSecond,
		RateLimitBurst:  cfg.RateLimit.Burst,
	}

	server := api.NewServer(serverConfig, dashboard, profileRepo)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
