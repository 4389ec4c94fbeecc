package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"landing_backend/internal/leads"
	"landing_backend/internal/notifications"
	"landing_backend/internal/scheduler"
	"landing_backend/platform/config"
	"landing_backend/platform/db"
	"landing_backend/platform/events"
	"landing_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	if cfg.GetRedisURL() == "" {
		log.Error("REDIS_URL is required for the worker")
		panic("REDIS_URL is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	// The worker delivers directly; no task client, so failed deliveries
	// surface as task errors and asynq retries them.
	eventBus := events.NewInMemoryBus(log)
	leadsModule := leads.NewModule(pool, eventBus, log)

	notifier := notifications.NewNotifier(
		buildChannels(cfg, log),
		nil,
		leadsModule.Repository(),
		eventBus,
		cfg.GetFollowUpDelay(),
		log,
	)

	worker, err := scheduler.NewWorker(cfg, notifier, notifier, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	log.Info("worker started", "queue", cfg.GetAsynqQueueName(), "concurrency", cfg.GetAsynqConcurrency())
	if err := worker.Run(ctx); err != nil {
		log.Error("worker stopped with error", "error", err)
		panic("worker stopped with error: " + err.Error())
	}
}

func buildChannels(cfg config.NotifierConfig, log *logger.Logger) []notifications.Channel {
	var channels []notifications.Channel
	if cfg.GetNotifyWebhookURL() != "" {
		channels = append(channels, notifications.NewWebhookChannel(cfg.GetNotifyWebhookURL()))
	}
	if cfg.IsEmailAlertEnabled() {
		channels = append(channels, notifications.NewEmailChannel(cfg))
	}
	if len(channels) == 0 {
		log.Warn("no notification channels configured; deliveries will be dropped")
	}
	return channels
}
