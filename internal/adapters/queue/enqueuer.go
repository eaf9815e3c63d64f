// internal/adapters/queue/enqueuer.go
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ammerola/motofleet-be/internal/core/ports"
	"github.com/ammerola/motofleet-be/internal/workers"
)

// taskClient is the part of *asynq.Client the enqueuer uses
type taskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqEnqueuer implements ports.TaskEnqueuer on an asynq client
type AsynqEnqueuer struct {
	client taskClient
	logger *slog.Logger
}

var _ ports.TaskEnqueuer = (*AsynqEnqueuer)(nil)

// NewAsynqEnqueuer creates a new enqueuer over client
func NewAsynqEnqueuer(client *asynq.Client, logger *slog.Logger) *AsynqEnqueuer {
	return &AsynqEnqueuer{
		client: client,
		logger: logger.With(slog.String("component", "enqueuer")),
	}
}

// EnqueueLowStockAlert queues an alert. An alert still pending for the same part counts as queued.
func (e *AsynqEnqueuer) EnqueueLowStockAlert(ctx context.Context, alert ports.LowStockAlert) error {
	task, err := workers.NewLowStockAlertTask(alert)
	if err != nil {
		return err
	}
	return e.enqueue(ctx, task, slog.String("part_id", alert.PartID.String()))
}

// EnqueueMaintenanceCompleted queues the archive of a completed maintenance
func (e *AsynqEnqueuer) EnqueueMaintenanceCompleted(ctx context.Context, event ports.MaintenanceCompletedEvent) error {
	task, err := workers.NewMaintenanceCompletedTask(event)
	if err != nil {
		return err
	}
	return e.enqueue(ctx, task, slog.String("maintenance_id", event.MaintenanceID.String()))
}

func (e *AsynqEnqueuer) enqueue(ctx context.Context, task *asynq.Task, attr slog.Attr) error {
	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			e.logger.DebugContext(ctx, "task already queued",
				slog.String("type", task.Type()), attr)
			return nil
		}
		return fmt.Errorf("failed to enqueue %s task: %w", task.Type(), err)
	}

	e.logger.InfoContext(ctx, "task enqueued",
		slog.String("type", task.Type()),
		slog.String("task_id", info.ID),
		slog.String("queue", info.Queue),
		attr)
	return nil
}

// LogEnqueuer implements ports.TaskEnqueuer by logging only. It backs the memory
// storage driver, where no worker is running.
type LogEnqueuer struct {
	logger *slog.Logger
}

var _ ports.TaskEnqueuer = (*LogEnqueuer)(nil)

// NewLogEnqueuer creates a new log-only enqueuer
func NewLogEnqueuer(logger *slog.Logger) *LogEnqueuer {
	return &LogEnqueuer{logger: logger.With(slog.String("component", "enqueuer"))}
}

func (e *LogEnqueuer) EnqueueLowStockAlert(ctx context.Context, alert ports.LowStockAlert) error {
	e.logger.WarnContext(ctx, "part low on stock",
		slog.String("part_id", alert.PartID.String()),
		slog.String("reference_number", alert.ReferenceNumber),
		slog.Int("current_stock", alert.CurrentStock),
		slog.Int("min_stock_threshold", alert.MinStockThreshold))
	return nil
}

func (e *LogEnqueuer) EnqueueMaintenanceCompleted(ctx context.Context, event ports.MaintenanceCompletedEvent) error {
	e.logger.InfoContext(ctx, "maintenance completed",
		slog.String("maintenance_id", event.MaintenanceID.String()),
		slog.Int("consumed_parts", len(event.ConsumedParts)))
	return nil
}
