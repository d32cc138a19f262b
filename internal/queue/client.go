package queue

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Client enqueues conversion tasks. The worker binary uses it for manual
// requeues; the client-facing API process is its main consumer.
type Client struct {
	client *asynq.Client
}

// NewClient connects an enqueue-only client to Redis.
func NewClient(redisAddr, redisPassword string) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
		}),
	}
}

// EnqueueProcess queues one conversion job for execution.
func (c *Client) EnqueueProcess(ctx context.Context, jobID uuid.UUID) error {
	task, err := NewProcessTask(jobID)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue job %s: %w", jobID, err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}
