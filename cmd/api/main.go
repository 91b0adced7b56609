package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gravadigital/encuentro-api/internal/config"
	"github.com/gravadigital/encuentro-api/internal/logger"
	"github.com/gravadigital/encuentro-api/internal/server"
	"github.com/gravadigital/encuentro-api/internal/storage/objectstore"
	"github.com/gravadigital/encuentro-api/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Initialize(cfg.Server.LogLevel)
	log := logger.Get()

	repos, err := postgres.NewContainer(cfg)
	if err != nil {
		log.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer repos.Close()

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	objects, err := objectstore.NewMinioStore(startupCtx, cfg)
	cancel()
	if err != nil {
		log.Error("Failed to connect to object store", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg, repos, objects)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		log.Info("Received shutdown signal", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			log.Error("Graceful shutdown failed", "error", err)
			os.Exit(1)
		}
	}

	log.Info("Server stopped")
}
