// internal/adapters/memory/motorcycles.go
package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/core/ports"
)

// MotorcycleRepository implements ports.MotorcycleRepository on a Store
type MotorcycleRepository struct {
	store  *Store
	locked bool
}

var _ ports.MotorcycleRepository = (*MotorcycleRepository)(nil)

func (r *MotorcycleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Motorcycle, error) {
	defer lock(r.store, r.locked)()

	m, ok := r.store.motorcycles[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *MotorcycleRepository) Save(ctx context.Context, m *domain.Motorcycle) error {
	defer lock(r.store, r.locked)()

	if _, exists := r.store.motorcycles[m.ID]; exists {
		return fmt.Errorf("motorcycle %s already exists", m.ID)
	}
	r.store.motorcycles[m.ID] = *m
	return nil
}
