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

	"github.com/csg33k/leadform/internal/adapters/logging"
	"github.com/csg33k/leadform/internal/config"
	"github.com/csg33k/leadform/internal/handlers"
	"github.com/csg33k/leadform/internal/storage"
	"github.com/csg33k/leadform/internal/submission"
)

func main() {
	cfg, dotenv, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := logging.NewZapLogger(cfg.Debug)
	defer logger.Sync()
	if !dotenv {
		logger.Warn("no .env file loaded; using process environment")
	}
	cfg.LogStatus(logger)

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	svc := submission.New(store.Store, logger, submission.WithCollection(cfg.Collection))
	h := handlers.New(svc, cfg.Dialog(), logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("lead form running", "addr", srv.Addr, "driver", cfg.Driver, "collection", cfg.Collection)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	logger.Info("server exited")
}
