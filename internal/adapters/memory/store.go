// internal/adapters/memory/store.go
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/core/ports"
)

// Store keeps motorcycles, parts and maintenances in process memory. It backs local
// demo runs and behavioral tests. WithinTx holds the store lock for the whole unit of
// work and restores a snapshot when it fails.
type Store struct {
	mu           sync.Mutex
	motorcycles  map[uuid.UUID]domain.Motorcycle
	parts        map[uuid.UUID]domain.InventoryPart
	maintenances map[uuid.UUID]domain.Maintenance
}

var _ ports.UnitOfWork = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		motorcycles:  make(map[uuid.UUID]domain.Motorcycle),
		parts:        make(map[uuid.UUID]domain.InventoryPart),
		maintenances: make(map[uuid.UUID]domain.Maintenance),
	}
}

// Motorcycles returns a repository that locks the store per call
func (s *Store) Motorcycles() *MotorcycleRepository {
	return &MotorcycleRepository{store: s, locked: true}
}

// Parts returns a repository that locks the store per call
func (s *Store) Parts() *PartRepository {
	return &PartRepository{store: s, locked: true}
}

// Maintenances returns a repository that locks the store per call
func (s *Store) Maintenances() *MaintenanceRepository {
	return &MaintenanceRepository{store: s, locked: true}
}

// Ping always succeeds; it lets the store stand in for a database in health checks
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Health reports the record counts
func (s *Store) Health(ctx context.Context) map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]interface{}{
		"status":       "healthy",
		"driver":       "memory",
		"motorcycles":  len(s.motorcycles),
		"parts":        len(s.parts),
		"maintenances": len(s.maintenances),
	}
}

// WithinTx runs fn with exclusive access to the store
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos ports.TxRepositories) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	parts := maps.Clone(s.parts)
	maintenances := maps.Clone(s.maintenances)

	defer func() {
		if p := recover(); p != nil {
			s.parts, s.maintenances = parts, maintenances
			err = fmt.Errorf("transaction panic: %v", p)
			return
		}
		if err != nil {
			s.parts, s.maintenances = parts, maintenances
		}
	}()

	return fn(ctx, txRepositories{store: s})
}

type txRepositories struct {
	store *Store
}

func (t txRepositories) Parts() ports.InventoryPartRepository {
	return &PartRepository{store: t.store}
}

func (t txRepositories) Maintenances() ports.MaintenanceRepository {
	return &MaintenanceRepository{store: t.store}
}

// lock takes the store mutex unless the repository runs inside WithinTx
func lock(s *Store, locked bool) func() {
	if !locked {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}
