// internal/adapters/memory/parts.go
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

// PartRepository implements ports.InventoryPartRepository on a Store
type PartRepository struct {
	store  *Store
	locked bool
}

var _ ports.InventoryPartRepository = (*PartRepository)(nil)

func (r *PartRepository) Save(ctx context.Context, part *domain.InventoryPart) error {
	defer lock(r.store, r.locked)()

	if _, exists := r.store.parts[part.ID]; exists {
		return fmt.Errorf("inventory part %s already exists", part.ID)
	}
	for _, p := range r.store.parts {
		if strings.EqualFold(p.ReferenceNumber, part.ReferenceNumber) {
			return domain.NewValidationError("reference_number",
				fmt.Sprintf("%s is already used by part %s", part.ReferenceNumber, p.ID))
		}
	}
	r.store.parts[part.ID] = copyPart(*part)
	return nil
}

func (r *PartRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.InventoryPart, error) {
	defer lock(r.store, r.locked)()

	p, ok := r.store.parts[id]
	if !ok {
		return nil, nil
	}
	c := copyPart(p)
	return &c, nil
}

// FindByIDForUpdate is FindByID; WithinTx already serializes access
func (r *PartRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.InventoryPart, error) {
	return r.FindByID(ctx, id)
}

func (r *PartRepository) FindAll(ctx context.Context, params ports.PartListParams) ([]*domain.InventoryPart, int64, error) {
	defer lock(r.store, r.locked)()

	search := strings.ToLower(strings.TrimSpace(params.Search))
	var matched []*domain.InventoryPart
	for _, p := range r.store.parts {
		if params.Category != "" && string(p.Category) != params.Category {
			continue
		}
		if params.Model != "" && !p.IsCompatibleWith(params.Model) {
			continue
		}
		if params.LowStockOnly && !p.IsLowStock() {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.ReferenceNumber), search) {
			continue
		}
		c := copyPart(p)
		matched = append(matched, &c)
	}

	slices.SortFunc(matched, partOrder(params.SortBy, params.SortOrder))
	return paginate(matched, params.Page, params.PageSize), int64(len(matched)), nil
}

func (r *PartRepository) FindLowStockParts(ctx context.Context) ([]*domain.InventoryPart, error) {
	defer lock(r.store, r.locked)()

	var low []*domain.InventoryPart
	for _, p := range r.store.parts {
		if p.IsLowStock() {
			c := copyPart(p)
			low = append(low, &c)
		}
	}
	slices.SortFunc(low, func(a, b *domain.InventoryPart) int {
		return cmp.Or(cmp.Compare(a.CurrentStock, b.CurrentStock), cmp.Compare(a.Name, b.Name))
	})
	return low, nil
}

// AdjustStock applies delta through the entity so a negative result is rejected
func (r *PartRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*domain.InventoryPart, error) {
	defer lock(r.store, r.locked)()

	p, ok := r.store.parts[id]
	if !ok {
		return nil, domain.NewPartNotFoundError(id)
	}
	updated, err := p.UpdateStock(delta)
	if err != nil {
		return nil, err
	}
	r.store.parts[id] = copyPart(*updated)
	c := copyPart(*updated)
	return &c, nil
}

func (r *PartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer lock(r.store, r.locked)()

	if _, ok := r.store.parts[id]; !ok {
		return domain.NewPartNotFoundError(id)
	}
	delete(r.store.parts, id)
	return nil
}

func partOrder(sortBy, sortOrder string) func(a, b *domain.InventoryPart) int {
	sign := 1
	if strings.EqualFold(sortOrder, "desc") {
		sign = -1
	}
	return func(a, b *domain.InventoryPart) int {
		var c int
		switch sortBy {
		case "reference_number":
			c = cmp.Compare(a.ReferenceNumber, b.ReferenceNumber)
		case "current_stock":
			c = cmp.Compare(a.CurrentStock, b.CurrentStock)
		case "created_at":
			c = a.CreatedAt.Compare(b.CreatedAt)
		default:
			c = cmp.Compare(a.Name, b.Name)
		}
		return sign * cmp.Or(c, strings.Compare(a.ID.String(), b.ID.String()))
	}
}

func copyPart(p domain.InventoryPart) domain.InventoryPart {
	p.MotorcycleModels = slices.Clone(p.MotorcycleModels)
	return p
}

func paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	return items[start:min(start+pageSize, len(items))]
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
