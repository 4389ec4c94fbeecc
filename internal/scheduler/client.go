package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"landing_backend/platform/config"
)

// Client enqueues background tasks. A nil Client is valid and drops
// everything, so callers need no branching when Redis is not configured.
type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.WorkerConfig) (*Client, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		client: asynq.NewClient(opt),
		queue:  cfg.GetAsynqQueueName(),
	}, nil
}

func redisClientOpt(cfg config.WorkerConfig) (asynq.RedisClientOpt, error) {
	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("failed to parse redis url: %w", err)
	}

	clientOpt := asynq.RedisClientOpt{
		Addr:      opts.Addr,
		Username:  opts.Username,
		Password:  opts.Password,
		DB:        opts.DB,
		TLSConfig: opts.TLSConfig,
	}
	if clientOpt.TLSConfig != nil && cfg.GetRedisTLSInsecure() {
		tlsConfig := clientOpt.TLSConfig.Clone()
		tlsConfig.InsecureSkipVerify = true
		clientOpt.TLSConfig = tlsConfig
	}
	return clientOpt, nil
}

// EnqueueNotification queues a delivery task for the worker.
func (c *Client) EnqueueNotification(ctx context.Context, payload NotificationDeliveryPayload) error {
	if c == nil {
		return nil
	}
	task, err := NewNotificationTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

// ScheduleFollowUp queues a follow-up check to run after delay.
func (c *Client) ScheduleFollowUp(ctx context.Context, leadID uuid.UUID, delay time.Duration) error {
	if c == nil {
		return nil
	}
	task, err := NewFollowUpTask(leadID)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.ProcessIn(delay))
	return err
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
