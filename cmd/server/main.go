// Package main is the entry point for the ONG Hub API server.
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

	"onghub/internal/bootstrap"
	"onghub/internal/config"
	v1 "onghub/internal/infrastructure/http/v1"
	"onghub/internal/infrastructure/http/v1/dto"
	"onghub/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.IsDevelopment(),
		File:        cfg.Log.File,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAgeDays:  cfg.Log.MaxAgeDays,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting onghub server", "version", version, "env", cfg.AppEnv)

	if err := dto.RegisterValidators(); err != nil {
		log.Fatalw("failed to register validators", "error", err)
	}

	app, err := bootstrap.New(ctx, cfg, "onghub-server")
	if err != nil {
		log.Fatalw("failed to initialize application", "error", err)
	}
	defer app.Close()
	log.Info("database connection established")

	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log,
		JWTValidator: app.JWT,
		DB:           app.Pool,
		CORSOrigins:  cfg.CORSOrigins,
		Version:      version,
		Services: v1.Services{
			Organizations: app.Organizations,
			Nomenclature:  app.Nomenclature,
			Applications:  app.Applications,
			Statistics:    app.Statistics,
			Users:         app.Users,
		},
	})

	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.AppPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
