package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"landing_backend/platform/config"
	"landing_backend/platform/logger"
)

// NotificationDeliverer delivers a queued notification to all channels.
type NotificationDeliverer interface {
	Deliver(ctx context.Context, payload NotificationDeliveryPayload) error
}

// FollowUpHandler decides whether a follow-up is still warranted and
// sends it.
type FollowUpHandler interface {
	HandleFollowUp(ctx context.Context, leadID uuid.UUID) error
}

// Worker drains the task queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *logger.Logger
}

func NewWorker(cfg config.WorkerConfig, deliverer NotificationDeliverer, followUps FollowUpHandler, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.GetAsynqConcurrency(),
		Queues:      map[string]int{queue: 1},
		Logger:      asynqLogger{log},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskNotificationDeliver, func(ctx context.Context, task *asynq.Task) error {
		payload, err := ParseNotificationTask(task)
		if err != nil {
			return err
		}
		return deliverer.Deliver(ctx, payload)
	})
	mux.HandleFunc(TaskLeadFollowUp, func(ctx context.Context, task *asynq.Task) error {
		leadID, err := ParseFollowUpTask(task)
		if err != nil {
			return err
		}
		return followUps.HandleFollowUp(ctx, leadID)
	})

	return &Worker{server: server, mux: mux, log: log}, nil
}

// Run serves tasks until ctx is canceled, then shuts down cleanly.
func (w *Worker) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		w.log.Info("shutting down task worker")
		w.server.Shutdown()
	}()
	return w.server.Run(w.mux)
}

// asynqLogger adapts the application logger to asynq's interface.
type asynqLogger struct {
	log *logger.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug(sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info(sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn(sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error(sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.log.Error(sprint(args...)) }

func sprint(args ...interface{}) string {
	return fmt.Sprint(args...)
}
