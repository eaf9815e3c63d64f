package domain_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/motofleet-be/internal/core/domain"
)

func validPartParams() domain.NewInventoryPartParams {
	return domain.NewInventoryPartParams{
		Name:              "Oil filter HF204",
		Category:          domain.CategoryOilFilter,
		ReferenceNumber:   "HF204",
		CurrentStock:      10,
		MinStockThreshold: 3,
		UnitPrice:         decimal.NewFromFloat(12.5),
		MotorcycleModels:  []string{"MT-07", "Tracer 7"},
	}
}

func TestNewInventoryPart(t *testing.T) {
	tests := []struct {
		name          string
		modify        func(*domain.NewInventoryPartParams)
		wantError     bool
		errorContains string
	}{
		{
			name:   "valid_part",
			modify: func(p *domain.NewInventoryPartParams) {},
		},
		{
			name:          "empty_name",
			modify:        func(p *domain.NewInventoryPartParams) { p.Name = "  " },
			wantError:     true,
			errorContains: "name",
		},
		{
			name:          "empty_reference_number",
			modify:        func(p *domain.NewInventoryPartParams) { p.ReferenceNumber = "" },
			wantError:     true,
			errorContains: "reference_number",
		},
		{
			name:          "unknown_category",
			modify:        func(p *domain.NewInventoryPartParams) { p.Category = "EXHAUST" },
			wantError:     true,
			errorContains: "category",
		},
		{
			name:          "negative_stock",
			modify:        func(p *domain.NewInventoryPartParams) { p.CurrentStock = -1 },
			wantError:     true,
			errorContains: "current_stock",
		},
		{
			name:          "negative_threshold",
			modify:        func(p *domain.NewInventoryPartParams) { p.MinStockThreshold = -1 },
			wantError:     true,
			errorContains: "min_stock_threshold",
		},
		{
			name:          "negative_unit_price",
			modify:        func(p *domain.NewInventoryPartParams) { p.UnitPrice = decimal.NewFromInt(-1) },
			wantError:     true,
			errorContains: "unit_price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validPartParams()
			tt.modify(&params)

			part, err := domain.NewInventoryPart(params)

			if tt.wantError {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrValidation)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.Nil(t, part)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, part.ID)
			assert.Equal(t, 10, part.CurrentStock)
			assert.False(t, part.CreatedAt.IsZero())
			assert.Equal(t, part.CreatedAt, part.UpdatedAt)
		})
	}

	t.Run("defaults_category_to_other", func(t *testing.T) {
		params := validPartParams()
		params.Category = ""

		part, err := domain.NewInventoryPart(params)

		require.NoError(t, err)
		assert.Equal(t, domain.CategoryOther, part.Category)
	})

	t.Run("deduplicates_motorcycle_models", func(t *testing.T) {
		params := validPartParams()
		params.MotorcycleModels = []string{"MT-07", " mt-07 ", "", "Tenere 700"}

		part, err := domain.NewInventoryPart(params)

		require.NoError(t, err)
		assert.Equal(t, []string{"MT-07", "Tenere 700"}, part.MotorcycleModels)
	})
}

func TestInventoryPart_UpdateStock(t *testing.T) {
	tests := []struct {
		name          string
		stock         int
		delta         int
		expectedStock int
		wantError     bool
	}{
		{name: "increment", stock: 5, delta: 3, expectedStock: 8},
		{name: "decrement", stock: 5, delta: -3, expectedStock: 2},
		{name: "decrement_to_zero", stock: 5, delta: -5, expectedStock: 0},
		{name: "zero_delta", stock: 5, delta: 0, expectedStock: 5},
		{name: "decrement_below_zero", stock: 1, delta: -2, wantError: true},
		{name: "decrement_from_empty", stock: 0, delta: -1, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validPartParams()
			params.CurrentStock = tt.stock
			part, err := domain.NewInventoryPart(params)
			require.NoError(t, err)

			updated, err := part.UpdateStock(tt.delta)

			assert.Equal(t, tt.stock, part.CurrentStock, "receiver must not change")
			if tt.wantError {
				require.Error(t, err)
				assert.Nil(t, updated)
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)

				var stockErr *domain.InsufficientStockError
				require.True(t, errors.As(err, &stockErr))
				assert.Equal(t, part.ID, stockErr.PartID)
				assert.Equal(t, tt.stock, stockErr.Available)
				assert.Equal(t, -tt.delta, stockErr.Requested)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedStock, updated.CurrentStock)
			assert.Equal(t, part.ID, updated.ID)
			assert.False(t, updated.UpdatedAt.Before(part.UpdatedAt))
		})
	}
}

func TestInventoryPart_UpdateStock_NeverNegative(t *testing.T) {
	for stock := 0; stock <= 5; stock++ {
		for delta := -10; delta <= 10; delta++ {
			part := domain.InventoryPart{ID: uuid.New(), CurrentStock: stock}

			updated, err := part.UpdateStock(delta)

			if err != nil {
				assert.Less(t, stock+delta, 0)
				continue
			}
			assert.GreaterOrEqual(t, updated.CurrentStock, 0)
		}
	}
}

func TestInventoryPart_IsLowStock(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		threshold int
		expected  bool
	}{
		{name: "above_threshold", stock: 6, threshold: 5, expected: false},
		{name: "at_threshold", stock: 5, threshold: 5, expected: true},
		{name: "below_threshold", stock: 4, threshold: 5, expected: true},
		{name: "zero_threshold_zero_stock", stock: 0, threshold: 0, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			part := domain.InventoryPart{CurrentStock: tt.stock, MinStockThreshold: tt.threshold}
			assert.Equal(t, tt.expected, part.IsLowStock())
		})
	}
}

func TestInventoryPart_StockValue(t *testing.T) {
	part := domain.InventoryPart{CurrentStock: 4, UnitPrice: decimal.RequireFromString("12.50")}

	assert.True(t, part.StockValue().Equal(decimal.RequireFromString("50")))
}

func TestInventoryPart_IsCompatibleWith(t *testing.T) {
	part := domain.InventoryPart{MotorcycleModels: []string{"MT-07", "Tracer 7"}}

	assert.True(t, part.IsCompatibleWith("mt-07"))
	assert.False(t, part.IsCompatibleWith("R1"))
	assert.True(t, domain.InventoryPart{}.IsCompatibleWith("R1"))
}

func BenchmarkInventoryPart_UpdateStock(b *testing.B) {
	part := domain.InventoryPart{ID: uuid.New(), CurrentStock: 100, MotorcycleModels: []string{"MT-07"}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = part.UpdateStock(-1)
	}
}
