// internal/core/ports/tasks.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/motofleet-be/internal/core/domain"
)

// LowStockAlert is the payload of the low-stock notification task
type LowStockAlert struct {
	PartID            uuid.UUID `json:"part_id"`
	Name              string    `json:"name"`
	ReferenceNumber   string    `json:"reference_number"`
	CurrentStock      int       `json:"current_stock"`
	MinStockThreshold int       `json:"min_stock_threshold"`
}

// MaintenanceCompletedEvent is the payload of the completion archive task
type MaintenanceCompletedEvent struct {
	MaintenanceID uuid.UUID             `json:"maintenance_id"`
	MotorcycleID  uuid.UUID             `json:"motorcycle_id"`
	CompletedAt   time.Time             `json:"completed_at"`
	ConsumedParts []domain.ReplacedPart `json:"consumed_parts"`
}

// TaskEnqueuer hands follow-up work to the background workers
type TaskEnqueuer interface {
	EnqueueLowStockAlert(ctx context.Context, alert LowStockAlert) error
	EnqueueMaintenanceCompleted(ctx context.Context, event MaintenanceCompletedEvent) error
}
