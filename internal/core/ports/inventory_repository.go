// internal/core/ports/inventory_repository.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ammerola/motofleet-be/internal/core/domain"
)

// InventoryPartRepository defines the persistence port for inventory parts.
// Find methods return (nil, nil) when the part does not exist.
type InventoryPartRepository interface {
	Save(ctx context.Context, part *domain.InventoryPart) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.InventoryPart, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.InventoryPart, error)
	FindAll(ctx context.Context, params PartListParams) ([]*domain.InventoryPart, int64, error)
	FindLowStockParts(ctx context.Context) ([]*domain.InventoryPart, error)
	// AdjustStock atomically adds delta to the stock only if the result stays >= 0.
	// It returns an InsufficientStockError when it would not, and a NotFoundError
	// when the part does not exist.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*domain.InventoryPart, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PartListParams holds parameters for listing inventory parts
type PartListParams struct {
	Search       string
	Category     string
	Model        string
	LowStockOnly bool
	SortBy       string
	SortOrder    string
	Page         int
	PageSize     int
}
