// internal/core/ports/motorcycle_repository.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ammerola/motofleet-be/internal/core/domain"
)

// MotorcycleRepository is the read side of the fleet catalog.
// FindByID returns (nil, nil) when the motorcycle does not exist.
type MotorcycleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Motorcycle, error)
	Save(ctx context.Context, m *domain.Motorcycle) error
}
