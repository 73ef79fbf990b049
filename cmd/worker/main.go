// Package main is the entry point for the ONG Hub background worker.
// It relays the outbox to the broker, refetches ANAF data and opens the
// yearly reporting cycle.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"onghub/internal/bootstrap"
	"onghub/internal/config"
	"onghub/internal/infrastructure/messaging"
	"onghub/internal/infrastructure/storage/postgres"
	"onghub/pkg/logger"
)

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

	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), log))
	defer cancel()

	log.Info("starting onghub worker")

	app, err := bootstrap.New(ctx, cfg, "onghub-worker")
	if err != nil {
		log.Fatalw("failed to initialize application", "error", err)
	}
	defer app.Close()

	var handler postgres.OutboxHandler = messaging.LogHandler{}
	if cfg.Broker.URL != "" {
		publisher, err := messaging.Dial(cfg.Broker.URL, cfg.Broker.Exchange)
		if err != nil {
			log.Fatalw("failed to connect to broker", "error", err)
		}
		defer publisher.Close()
		handler = publisher
	} else {
		log.Warn("RABBITMQ_URL not set, outbox events are only logged")
	}

	worker := NewWorker(Jobs{
		Outbox:        postgres.NewOutboxRelay(app.Pool, cfg.Worker.OutboxBatchSize, handler),
		Financial:     app.Organizations.Financial(),
		Organizations: app.Organizations,
	}, cfg.Worker, log)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

