// internal/core/domain/inventory_part.go
package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartCategory represents inventory part categories
type PartCategory string

// Category constants
const (
	CategoryOilFilter   PartCategory = "OIL_FILTER"
	CategoryBrakePad    PartCategory = "BRAKE_PAD"
	CategoryBrakeSystem PartCategory = "BRAKE_SYSTEM"
	CategoryTire        PartCategory = "TIRE"
	CategoryChain       PartCategory = "CHAIN"
	CategorySparkPlug   PartCategory = "SPARK_PLUG"
	CategoryOther       PartCategory = "OTHER"
)

// PartCategories lists every known category in display order
var PartCategories = []PartCategory{
	CategoryOilFilter,
	CategoryBrakePad,
	CategoryBrakeSystem,
	CategoryTire,
	CategoryChain,
	CategorySparkPlug,
	CategoryOther,
}

// IsValid reports whether c is a known category
func (c PartCategory) IsValid() bool {
	return slices.Contains(PartCategories, c)
}

// InventoryPart is a stock-tracked spare part. Values are never mutated in place;
// every change returns a new instance.
type InventoryPart struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Category          PartCategory    `json:"category"`
	ReferenceNumber   string          `json:"reference_number"`
	CurrentStock      int             `json:"current_stock"`
	MinStockThreshold int             `json:"min_stock_threshold"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	MotorcycleModels  []string        `json:"motorcycle_models"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewInventoryPartParams holds the inputs of NewInventoryPart
type NewInventoryPartParams struct {
	ID                uuid.UUID
	Name              string
	Category          PartCategory
	ReferenceNumber   string
	CurrentStock      int
	MinStockThreshold int
	UnitPrice         decimal.Decimal
	MotorcycleModels  []string
}

// NewInventoryPart validates params and builds a part.
// An empty category defaults to OTHER and a nil ID gets a fresh UUID.
func NewInventoryPart(params NewInventoryPartParams) (*InventoryPart, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, NewValidationError("name", "is required")
	}
	ref := strings.TrimSpace(params.ReferenceNumber)
	if ref == "" {
		return nil, NewValidationError("reference_number", "is required")
	}

	category := params.Category
	if category == "" {
		category = CategoryOther
	}
	if !category.IsValid() {
		return nil, NewValidationError("category", "unknown category "+string(category))
	}
	if params.CurrentStock < 0 {
		return nil, NewValidationError("current_stock", "cannot be negative")
	}
	if params.MinStockThreshold < 0 {
		return nil, NewValidationError("min_stock_threshold", "cannot be negative")
	}
	if params.UnitPrice.IsNegative() {
		return nil, NewValidationError("unit_price", "cannot be negative")
	}

	id := params.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	now := time.Now().UTC()
	return &InventoryPart{
		ID:                id,
		Name:              name,
		Category:          category,
		ReferenceNumber:   ref,
		CurrentStock:      params.CurrentStock,
		MinStockThreshold: params.MinStockThreshold,
		UnitPrice:         params.UnitPrice,
		MotorcycleModels:  normalizeModels(params.MotorcycleModels),
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// UpdateStock returns a copy with CurrentStock moved by delta.
// A result below zero is rejected with an InsufficientStockError; the receiver is untouched.
func (p InventoryPart) UpdateStock(delta int) (*InventoryPart, error) {
	next := p.CurrentStock + delta
	if next < 0 {
		return nil, NewInsufficientStockError(p.ID, -delta, p.CurrentStock)
	}

	updated := p.clone()
	updated.CurrentStock = next
	updated.UpdatedAt = time.Now().UTC()
	return updated, nil
}

// IsLowStock reports whether the part is at or below its reorder threshold
func (p InventoryPart) IsLowStock() bool {
	return p.CurrentStock <= p.MinStockThreshold
}

// CanFulfil reports whether quantity units can be taken from stock
func (p InventoryPart) CanFulfil(quantity int) bool {
	return quantity <= p.CurrentStock
}

// StockValue is the valuation of the units on hand
func (p InventoryPart) StockValue() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.CurrentStock)))
}

// IsCompatibleWith reports whether the part fits the given motorcycle model.
// A part with no listed models fits every model.
func (p InventoryPart) IsCompatibleWith(model string) bool {
	if len(p.MotorcycleModels) == 0 {
		return true
	}
	model = strings.TrimSpace(model)
	for _, m := range p.MotorcycleModels {
		if strings.EqualFold(m, model) {
			return true
		}
	}
	return false
}

func (p InventoryPart) clone() *InventoryPart {
	c := p
	c.MotorcycleModels = slices.Clone(p.MotorcycleModels)
	return &c
}

// normalizeModels trims, drops blanks and removes duplicates while keeping first-seen order
func normalizeModels(models []string) []string {
	out := make([]string, 0, len(models))
	seen := make(map[string]struct{}, len(models))
	for _, m := range models {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		key := strings.ToLower(m)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}
