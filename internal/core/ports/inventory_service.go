// internal/core/ports/inventory_service.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/motofleet-be/internal/core/domain"
)

// InventoryService defines the application service port for inventory parts.
// This interface is implemented by the application service.
type InventoryService interface {
	CreatePart(ctx context.Context, req CreatePartRequest) (*domain.InventoryPart, error)
	GetPart(ctx context.Context, id uuid.UUID) (*domain.InventoryPart, error)
	ListParts(ctx context.Context, params PartListParams) (*PartListResult, error)
	LowStockReport(ctx context.Context) (*LowStockReport, error)
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*domain.InventoryPart, error)
	DeletePart(ctx context.Context, id uuid.UUID) error
}

// CreatePartRequest holds the fields of a new catalog part
type CreatePartRequest struct {
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	ReferenceNumber   string          `json:"reference_number"`
	CurrentStock      int             `json:"current_stock"`
	MinStockThreshold int             `json:"min_stock_threshold"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	MotorcycleModels  []string        `json:"motorcycle_models"`
}

// PartListResult holds the result of listing inventory parts
type PartListResult struct {
	Items      []*domain.InventoryPart `json:"items"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"page_size"`
	TotalCount int64                   `json:"total_count"`
	TotalPages int                     `json:"total_pages"`
}

// LowStockItem is one line of the low-stock report
type LowStockItem struct {
	Part *domain.InventoryPart `json:"part"`
	// Shortfall is how many units bring the part back above its threshold
	Shortfall   int             `json:"shortfall"`
	ReorderCost decimal.Decimal `json:"reorder_cost"`
}

// LowStockReport lists every part at or below its threshold
type LowStockReport struct {
	Items            []LowStockItem  `json:"items"`
	TotalReorderCost decimal.Decimal `json:"total_reorder_cost"`
	// TotalStockValue is the value of the units the listed parts still have on hand
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	GeneratedAt     time.Time       `json:"generated_at"`
}
