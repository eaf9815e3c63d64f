// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/motofleet-be/internal/core/ports"
)

const (
	TypeLowStockAlert        = "inventory:low_stock"
	TypeMaintenanceCompleted = "maintenance:completed"
	TypeDueMaintenanceScan   = "maintenance:due_scan"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// DueScanPayload lets an operator replay the scan for a given day. A zero Date means today.
type DueScanPayload struct {
	Date time.Time `json:"date,omitempty"`
}

// NewLowStockAlertTask builds the alert task. The task id is per part, so a part that
// drops repeatedly while an alert is still pending is only reported once.
func NewLowStockAlertTask(alert ports.LowStockAlert) (*asynq.Task, error) {
	payload, err := json.Marshal(alert)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal low stock alert: %w", err)
	}
	return asynq.NewTask(TypeLowStockAlert, payload,
		asynq.Queue(QueueCritical),
		asynq.MaxRetry(5),
		asynq.TaskID("low-stock:"+alert.PartID.String()),
	), nil
}

// NewMaintenanceCompletedTask builds the archive task, one per maintenance
func NewMaintenanceCompletedTask(event ports.MaintenanceCompletedEvent) (*asynq.Task, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal maintenance completed event: %w", err)
	}
	return asynq.NewTask(TypeMaintenanceCompleted, payload,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(10),
		asynq.TaskID("archive:"+event.MaintenanceID.String()),
	), nil
}

// NewDueScanTask builds the scan task registered with the scheduler
func NewDueScanTask(payload DueScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal due scan payload: %w", err)
	}
	return asynq.NewTask(TypeDueMaintenanceScan, data,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	), nil
}
