package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
)

// Client enqueues one-off runs of the periodic jobs
type Client struct {
	client *asynq.Client
}

func NewClient(redis asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redis)}
}

func (c *Client) EnqueueLedgerAudit(ctx context.Context, repair bool) (string, error) {
	task, err := NewLedgerAuditTask(repair)
	if err != nil {
		return "", err
	}
	info, err := c.client.EnqueueContext(ctx, task, asynq.Queue(QueueMaintenance), asynq.MaxRetry(1))
	if err != nil {
		return "", fmt.Errorf("enqueue ledger audit: %w", err)
	}
	return info.ID, nil
}

func (c *Client) EnqueueOverdueScan(ctx context.Context) (string, error) {
	task, err := NewOverdueScanTask()
	if err != nil {
		return "", err
	}
	info, err := c.client.EnqueueContext(ctx, task, asynq.Queue(QueueReports))
	if err != nil {
		return "", fmt.Errorf("enqueue overdue scan: %w", err)
	}
	return info.ID, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
