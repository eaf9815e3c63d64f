package services_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/core/services"
)

func TestNormalizeMileage(t *testing.T) {
	tests := []struct {
		name          string
		input         any
		expected      int
		errorContains string
	}{
		{name: "int", input: 15000, expected: 15000},
		{name: "float_truncated", input: 15000.9, expected: 15000},
		{name: "numeric_string", input: " 42 ", expected: 42},
		{name: "decimal_string", input: "12.75", expected: 12},
		{name: "json_number", input: json.Number("3100"), expected: 3100},
		{name: "clamped_to_int32", input: 1e12, expected: math.MaxInt32},
		{name: "huge_string_clamped", input: "99999999999999999999999", expected: math.MaxInt32},
		{name: "zero", input: 0, expected: 0},
		{name: "missing", input: nil, errorContains: "is required"},
		{name: "empty_string", input: "", errorContains: "is required"},
		{name: "negative", input: -1, errorContains: "cannot be negative"},
		{name: "negative_fraction", input: -0.9, errorContains: "cannot be negative"},
		{name: "negative_fraction_string", input: "-0.5", errorContains: "cannot be negative"},
		{name: "negative_huge_string", input: "-1e400", errorContains: "cannot be negative"},
		{name: "not_a_number", input: "lots", errorContains: "is not a number"},
		{name: "unsupported_type", input: true, errorContains: "unsupported value type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.NormalizeMileage("mileage_at_maintenance", tt.input)

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrValidation))
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeDecimal(t *testing.T) {
	tests := []struct {
		name          string
		input         any
		expected      string
		expectNil     bool
		errorContains string
	}{
		{name: "absent", input: nil, expectNil: true},
		{name: "blank", input: "  ", expectNil: true},
		{name: "string", input: "149.90", expected: "149.9"},
		{name: "float", input: 10.5, expected: "10.5"},
		{name: "json_number", input: json.Number("7"), expected: "7"},
		{name: "decimal", input: decimal.NewFromInt(3), expected: "3"},
		{name: "negative", input: "-1", errorContains: "cannot be negative"},
		{name: "garbage", input: "ten", errorContains: "is not a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.NormalizeDecimal("total_cost", tt.input)

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			if tt.expectNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	day := time.Date(2025, time.May, 17, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		input         any
		expected      *time.Time
		errorContains string
	}{
		{name: "absent", input: nil},
		{name: "zero_time", input: time.Time{}},
		{name: "date_only", input: "2025-05-17", expected: &day},
		{name: "rfc3339", input: "2025-05-17T00:00:00Z", expected: &day},
		{name: "space_separated", input: "2025-05-17 00:00:00", expected: &day},
		{name: "time_value", input: day, expected: &day},
		{name: "invalid", input: "17/05/2025", errorContains: "is not a valid date"},
		{name: "unsupported_type", input: 20250517, errorContains: "unsupported value type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.NormalizeDate("scheduled_date", tt.input)

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.expected.Equal(*got), "got %s", got)
		})
	}
}

func TestMergeReplacedParts(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	b := uuid.MustParse("00000000-0000-0000-0000-00000000000b")

	tests := []struct {
		name          string
		input         []domain.ReplacedPart
		expected      []domain.ReplacedPart
		errorContains string
	}{
		{
			name:     "empty",
			input:    nil,
			expected: []domain.ReplacedPart{},
		},
		{
			name:     "sums_duplicates_in_request_order",
			input:    []domain.ReplacedPart{{PartID: b, Quantity: 1}, {PartID: a, Quantity: 2}, {PartID: b, Quantity: 4}},
			expected: []domain.ReplacedPart{{PartID: b, Quantity: 5}, {PartID: a, Quantity: 2}},
		},
		{
			name:     "total_at_stock_limit",
			input:    []domain.ReplacedPart{{PartID: a, Quantity: math.MaxInt32 - 1}, {PartID: a, Quantity: 1}},
			expected: []domain.ReplacedPart{{PartID: a, Quantity: math.MaxInt32}},
		},
		{
			name:          "total_overflows",
			input:         []domain.ReplacedPart{{PartID: a, Quantity: math.MaxInt}, {PartID: a, Quantity: math.MaxInt}, {PartID: a, Quantity: 3}},
			errorContains: "exceeds",
		},
		{
			name:          "single_quantity_above_stock_limit",
			input:         []domain.ReplacedPart{{PartID: b, Quantity: math.MaxInt32 + 1}},
			errorContains: "exceeds",
		},
		{
			name:          "zero_quantity",
			input:         []domain.ReplacedPart{{PartID: a, Quantity: 0}},
			errorContains: "must be positive",
		},
		{
			name:          "missing_part_id",
			input:         []domain.ReplacedPart{{Quantity: 1}},
			errorContains: "part_id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.MergeReplacedParts(tt.input)

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
