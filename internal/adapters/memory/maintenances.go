// internal/adapters/memory/maintenances.go
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/core/ports"
)

// MaintenanceRepository implements ports.MaintenanceRepository on a Store
type MaintenanceRepository struct {
	store  *Store
	locked bool
}

var _ ports.MaintenanceRepository = (*MaintenanceRepository)(nil)

func (r *MaintenanceRepository) Save(ctx context.Context, m *domain.Maintenance) error {
	defer lock(r.store, r.locked)()

	if _, exists := r.store.maintenances[m.ID]; exists {
		return fmt.Errorf("maintenance %s already exists", m.ID)
	}
	r.store.maintenances[m.ID] = copyMaintenance(*m)
	return nil
}

func (r *MaintenanceRepository) Update(ctx context.Context, m *domain.Maintenance) error {
	defer lock(r.store, r.locked)()

	if _, ok := r.store.maintenances[m.ID]; !ok {
		return domain.NewMaintenanceNotFoundError(m.ID)
	}
	r.store.maintenances[m.ID] = copyMaintenance(*m)
	return nil
}

func (r *MaintenanceRepository) CompareAndUpdate(ctx context.Context, m *domain.Maintenance, expected []domain.MaintenanceStatus) error {
	defer lock(r.store, r.locked)()

	stored, ok := r.store.maintenances[m.ID]
	if !ok {
		return domain.NewMaintenanceNotFoundError(m.ID)
	}
	if !slices.Contains(expected, stored.Status) {
		return domain.NewInvalidStateTransitionError(stored.Status, m.Status)
	}
	r.store.maintenances[m.ID] = copyMaintenance(*m)
	return nil
}

func (r *MaintenanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Maintenance, error) {
	defer lock(r.store, r.locked)()

	m, ok := r.store.maintenances[id]
	if !ok {
		return nil, nil
	}
	c := copyMaintenance(m)
	return &c, nil
}

// FindByIDForUpdate is FindByID; WithinTx already serializes access
func (r *MaintenanceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Maintenance, error) {
	return r.FindByID(ctx, id)
}

func (r *MaintenanceRepository) FindAll(ctx context.Context, params ports.MaintenanceListParams) ([]*domain.Maintenance, int64, error) {
	defer lock(r.store, r.locked)()

	var matched []*domain.Maintenance
	for _, m := range r.store.maintenances {
		if params.MotorcycleID != nil && m.MotorcycleID != *params.MotorcycleID {
			continue
		}
		if params.Status != "" && string(m.Status) != params.Status {
			continue
		}
		if params.Type != "" && string(m.Type) != params.Type {
			continue
		}
		if params.ScheduledFrom != nil && m.ScheduledDate.Before(*params.ScheduledFrom) {
			continue
		}
		if params.ScheduledTo != nil && m.ScheduledDate.After(*params.ScheduledTo) {
			continue
		}
		c := copyMaintenance(m)
		matched = append(matched, &c)
	}

	asc := strings.EqualFold(params.SortOrder, "asc")
	slices.SortFunc(matched, func(a, b *domain.Maintenance) int {
		c := cmp.Or(a.ScheduledDate.Compare(b.ScheduledDate), strings.Compare(a.ID.String(), b.ID.String()))
		if asc {
			return c
		}
		return -c
	})
	return paginate(matched, params.Page, params.PageSize), int64(len(matched)), nil
}

func (r *MaintenanceRepository) FindDueMaintenances(ctx context.Context, date time.Time) ([]*domain.Maintenance, error) {
	defer lock(r.store, r.locked)()

	due := []*domain.Maintenance{}
	for _, m := range r.store.maintenances {
		if m.IsDue(date) {
			c := copyMaintenance(m)
			due = append(due, &c)
		}
	}
	slices.SortFunc(due, func(a, b *domain.Maintenance) int {
		return cmp.Or(a.ScheduledDate.Compare(b.ScheduledDate), strings.Compare(a.ID.String(), b.ID.String()))
	})
	return due, nil
}

func (r *MaintenanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer lock(r.store, r.locked)()

	if _, ok := r.store.maintenances[id]; !ok {
		return domain.NewMaintenanceNotFoundError(id)
	}
	delete(r.store.maintenances, id)
	return nil
}

func copyMaintenance(m domain.Maintenance) domain.Maintenance {
	m.ActualDate = cloneTime(m.ActualDate)
	m.NextMaintenanceRecommendation = cloneTime(m.NextMaintenanceRecommendation)
	m.ReplacedParts = slices.Clone(m.ReplacedParts)
	if m.ReplacedParts == nil {
		m.ReplacedParts = []domain.ReplacedPart{}
	}
	if m.TechnicianNotes != nil {
		notes := *m.TechnicianNotes
		m.TechnicianNotes = &notes
	}
	if m.TotalCost != nil {
		cost := *m.TotalCost
		m.TotalCost = &cost
	}
	return m
}
