// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error kinds. Concrete errors unwrap to one of these so callers can use errors.Is.
var (
	ErrValidation             = errors.New("validation failed")
	ErrNotFound               = errors.New("not found")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInvalidStateTransition = errors.New("invalid state transition")
)

// Entity names carried by NotFoundError
const (
	EntityMotorcycle    = "motorcycle"
	EntityMaintenance   = "maintenance"
	EntityInventoryPart = "inventory part"
)

// ValidationError reports a rejected input field
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports a missing motorcycle, maintenance or inventory part
type NotFoundError struct {
	Entity string
	ID     string
}

func NewNotFoundError(entity string, id uuid.UUID) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id.String()}
}

// NewMotorcycleNotFoundError is returned when a maintenance references an unknown motorcycle
func NewMotorcycleNotFoundError(id uuid.UUID) *NotFoundError {
	return NewNotFoundError(EntityMotorcycle, id)
}

// NewMaintenanceNotFoundError is returned when a maintenance id does not resolve
func NewMaintenanceNotFoundError(id uuid.UUID) *NotFoundError {
	return NewNotFoundError(EntityMaintenance, id)
}

// NewPartNotFoundError is returned when an inventory part id does not resolve
func NewPartNotFoundError(id uuid.UUID) *NotFoundError {
	return NewNotFoundError(EntityInventoryPart, id)
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError is returned when a stock change would go below zero.
// PartID is uuid.Nil when the check happens on a detached entity value.
type InsufficientStockError struct {
	PartID    uuid.UUID
	Requested int
	Available int
}

func NewInsufficientStockError(partID uuid.UUID, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{PartID: partID, Requested: requested, Available: available}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for part %s: requested %d, available %d",
		e.PartID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidStateTransitionError is returned when a maintenance cannot move From -> To
type InvalidStateTransitionError struct {
	From MaintenanceStatus
	To   MaintenanceStatus
}

func NewInvalidStateTransitionError(from, to MaintenanceStatus) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{From: from, To: to}
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("cannot transition maintenance from %s to %s", e.From, e.To)
}

func (e *InvalidStateTransitionError) Unwrap() error { return ErrInvalidStateTransition }
