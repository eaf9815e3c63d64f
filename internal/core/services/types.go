// internal/core/services/types.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/motofleet-be/internal/core/domain"
)

// Pagination defaults shared by the list operations
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// dateLayouts are the accepted textual date formats, tried in order
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeMileage turns a decoded mileage value into an odometer reading.
// Numeric strings are accepted, fractions are truncated, and values are clamped to the
// signed 32-bit range the storage column holds. Anything non-numeric or negative is a
// validation error.
func NormalizeMileage(field string, v any) (int, error) {
	var f float64

	switch x := v.(type) {
	case nil:
		return 0, domain.NewValidationError(field, "is required")
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case float64:
		f = x
	case json.Number:
		return NormalizeMileage(field, x.String())
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, domain.NewValidationError(field, "is required")
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			f = float64(n)
			break
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil && !isRangeError(err) || err == nil && math.IsInf(parsed, 0) {
			return 0, domain.NewValidationError(field, fmt.Sprintf("%q is not a number", x))
		}
		f = parsed
	default:
		return 0, domain.NewValidationError(field, fmt.Sprintf("unsupported value type %T", v))
	}

	if math.IsNaN(f) {
		return 0, domain.NewValidationError(field, "is not a number")
	}

	if f < 0 {
		return 0, domain.NewValidationError(field, "cannot be negative")
	}

	f = math.Trunc(f)
	if f > math.MaxInt32 {
		f = math.MaxInt32
	}
	return int(f), nil
}

func isRangeError(err error) bool {
	return errors.Is(err, strconv.ErrRange)
}

// NormalizeDecimal parses an optional monetary amount. nil and "" mean absent.
func NormalizeDecimal(field string, v any) (*decimal.Decimal, error) {
	var d decimal.Decimal

	switch x := v.(type) {
	case nil:
		return nil, nil
	case decimal.Decimal:
		d = x
	case *decimal.Decimal:
		if x == nil {
			return nil, nil
		}
		d = *x
	case int:
		d = decimal.NewFromInt(int64(x))
	case int64:
		d = decimal.NewFromInt(x)
	case float64:
		d = decimal.NewFromFloat(x)
	case json.Number:
		return NormalizeDecimal(field, x.String())
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil, nil
		}
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return nil, domain.NewValidationError(field, fmt.Sprintf("%q is not a number", x))
		}
		d = parsed
	default:
		return nil, domain.NewValidationError(field, fmt.Sprintf("unsupported value type %T", v))
	}

	if d.IsNegative() {
		return nil, domain.NewValidationError(field, "cannot be negative")
	}
	return &d, nil
}

// NormalizeDate parses an optional date. nil and "" mean absent.
func NormalizeDate(field string, v any) (*time.Time, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		if x.IsZero() {
			return nil, nil
		}
		return &x, nil
	case *time.Time:
		if x == nil || x.IsZero() {
			return nil, nil
		}
		t := *x
		return &t, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil, nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t, nil
			}
		}
		return nil, domain.NewValidationError(field, fmt.Sprintf("%q is not a valid date", x))
	default:
		return nil, domain.NewValidationError(field, fmt.Sprintf("unsupported value type %T", v))
	}
}

func parseID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, domain.NewValidationError(field, "is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(field, "must be a valid UUID")
	}
	return id, nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func totalPages(totalCount int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		pages++
	}
	return pages
}
