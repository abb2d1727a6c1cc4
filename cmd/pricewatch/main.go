package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"pricewatch/internal/api"
	"pricewatch/internal/config"
	"pricewatch/internal/fetch"
	"pricewatch/internal/monitoring"
	"pricewatch/internal/registry"
	"pricewatch/internal/scraper"
	"pricewatch/internal/storage"
)

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}

	// Store registry: built-in table, or a JSON file when configured
	reg := registry.Default()
	if cfg.StoresFile != "" {
		reg, err = registry.LoadFile(cfg.StoresFile)
		if err != nil {
			logger.Fatal("could not load store configs", zap.Error(err))
		}
	}
	logger.Info("store registry loaded", zap.Strings("stores", reg.StoreIDs()))

	// Initialize Storage Layer
	fileStore, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		logger.Fatal("failed to prepare data directory", zap.Error(err))
	}
	redisStore := storage.NewRedisStore(cfg.RedisAddr)

	// Initialize Monitoring
	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	// Browser sessions: one per store crawl, distinct identity each
	sessions := func() (scraper.Session, error) {
		return fetch.NewSession(fetch.Options{
			Headless:        cfg.Headless,
			UserAgent:       fetch.PickUserAgent(),
			NavTimeout:      cfg.NavTimeout(),
			SelectorTimeout: cfg.SelectorTimeout(),
			Logger:          logger,
		})
	}

	// Initialize Core Pipeline
	sinks := []scraper.DocumentStore{fileStore, redisStore}
	svc := scraper.NewService(cfg, reg, sessions, sinks, redisStore, metrics, logger)
	svc.Start()

	// Initialize API Server
	server := api.NewServer(cfg, svc, redisStore, logger)

	// Graceful Shutdown
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svc.Stop()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
