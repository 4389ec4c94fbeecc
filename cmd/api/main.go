package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"landing_backend/internal/auth"
	"landing_backend/internal/chat"
	"landing_backend/internal/conversations"
	"landing_backend/internal/dashboard"
	"landing_backend/internal/events"
	apphttp "landing_backend/internal/http"
	"landing_backend/internal/http/router"
	"landing_backend/internal/leads"
	"landing_backend/internal/notifications"
	"landing_backend/internal/scheduler"
	"landing_backend/internal/scheduling"
	"landing_backend/internal/transcribe"
	"landing_backend/migrations"
	"landing_backend/platform/ai/openai"
	"landing_backend/platform/config"
	"landing_backend/platform/db"
	"landing_backend/platform/logger"
	"landing_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Task queue client; notifications degrade to inline delivery without it
	taskClient, closeTasks := initTaskClient(cfg, log)
	if closeTasks != nil {
		defer closeTasks()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	chatModel := openai.NewModel(openai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	})

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule := auth.NewModule(pool, cfg, log, val)
	if err := authModule.Bootstrap(ctx); err != nil {
		log.Error("failed to bootstrap admin account", "error", err)
		panic("failed to bootstrap admin account: " + err.Error())
	}

	conversationsModule := conversations.NewModule(pool, val)
	leadsModule := leads.NewModule(pool, eventBus, log)
	schedulingModule := scheduling.NewModule(pool, leadsModule.Repository(), eventBus, cfg, log)
	dashboardModule := dashboard.NewModule(pool, cfg)

	chatModule, err := chat.NewModule(chatModel, conversationsModule.Service(), leadsModule.Service(), schedulingModule.Links(), val, log)
	if err != nil {
		log.Error("failed to initialize chat module", "error", err)
		panic("failed to initialize chat module: " + err.Error())
	}

	// Notification fan-out subscribes to domain events (not HTTP-facing)
	var tasks notifications.TaskClient
	if taskClient != nil {
		tasks = taskClient
	}
	notifier := notifications.NewNotifier(
		buildChannels(cfg, log),
		tasks,
		leadsModule.Repository(),
		eventBus,
		cfg.GetFollowUpDelay(),
		log,
	)
	notifier.RegisterHandlers(eventBus)

	modules := []apphttp.Module{
		authModule,
		conversationsModule,
		chatModule,
		leadsModule,
		schedulingModule,
		dashboardModule,
	}

	if cfg.IsTranscribeEnabled() {
		transcribeModule, err := transcribe.NewModule(cfg, log)
		if err != nil {
			log.Error("failed to initialize transcribe module", "error", err)
			panic("failed to initialize transcribe module: " + err.Error())
		}
		defer transcribeModule.Close()
		if archive := transcribeModule.Archive(); archive != nil {
			if err := withRetry(ctx, log, "ensure recordings bucket", 5, 2*time.Second, func() error {
				return archive.EnsureBucket(ctx)
			}); err != nil {
				log.Error("failed to ensure recordings bucket", "error", err)
				panic("failed to ensure recordings bucket: " + err.Error())
			}
		}
		modules = append(modules, transcribeModule)
	} else {
		log.Warn("WHISPER_MODEL_PATH not configured; transcription disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules:  modules,
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initTaskClient builds the asynq client when Redis is configured.
func initTaskClient(cfg config.WorkerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; notifications deliver inline, follow-ups disabled")
		return nil, nil
	}

	taskClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task queue client", "error", err)
		return nil, nil
	}

	return taskClient, func() {
		_ = taskClient.Close()
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
		log.Warn("no notification channels configured; lead alerts disabled")
	}
	return channels
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return fmt.Errorf("%s: %w", name, lastErr)
}
