// internal/core/ports/maintenance_repository.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/motofleet-be/internal/core/domain"
)

// MaintenanceRepository defines the persistence port for maintenance records.
// Find methods return (nil, nil) when the record does not exist.
type MaintenanceRepository interface {
	Save(ctx context.Context, m *domain.Maintenance) error
	// Update overwrites the stored record; it fails with a NotFoundError if it is gone
	Update(ctx context.Context, m *domain.Maintenance) error
	// CompareAndUpdate overwrites the stored record only while its status is one of
	// expected. Otherwise it returns an InvalidStateTransitionError from the stored
	// status to m.Status.
	CompareAndUpdate(ctx context.Context, m *domain.Maintenance, expected []domain.MaintenanceStatus) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Maintenance, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Maintenance, error)
	FindAll(ctx context.Context, params MaintenanceListParams) ([]*domain.Maintenance, int64, error)
	// FindDueMaintenances returns scheduled jobs with a scheduled date on or before date,
	// oldest first. It never writes.
	FindDueMaintenances(ctx context.Context, date time.Time) ([]*domain.Maintenance, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MaintenanceListParams holds parameters for listing maintenance records
type MaintenanceListParams struct {
	MotorcycleID  *uuid.UUID
	Status        string
	Type          string
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time
	SortOrder     string
	Page          int
	PageSize      int
}
