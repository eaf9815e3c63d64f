// internal/core/domain/maintenance.go
package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaintenanceType represents the kind of maintenance job
type MaintenanceType string

const (
	MaintenancePreventive MaintenanceType = "PREVENTIVE"
	MaintenanceCurative   MaintenanceType = "CURATIVE"
)

// IsValid reports whether t is a known maintenance type
func (t MaintenanceType) IsValid() bool {
	return t == MaintenancePreventive || t == MaintenanceCurative
}

// MaintenanceStatus represents the lifecycle state of a maintenance job
type MaintenanceStatus string

const (
	StatusScheduled  MaintenanceStatus = "SCHEDULED"
	StatusInProgress MaintenanceStatus = "IN_PROGRESS"
	StatusCompleted  MaintenanceStatus = "COMPLETED"
	StatusCancelled  MaintenanceStatus = "CANCELLED"
)

// allowedTransitions is the maintenance state machine. Terminal states have no entry.
var allowedTransitions = map[MaintenanceStatus][]MaintenanceStatus{
	StatusScheduled:  {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// OpenStatuses are the states from which a maintenance can still be completed or cancelled
var OpenStatuses = []MaintenanceStatus{StatusScheduled, StatusInProgress}

// IsValid reports whether s is a known status
func (s MaintenanceStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s
func (s MaintenanceStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the state machine allows s -> target
func (s MaintenanceStatus) CanTransitionTo(target MaintenanceStatus) bool {
	return slices.Contains(allowedTransitions[s], target)
}

// ReplacedPart is one part consumed by a maintenance
type ReplacedPart struct {
	PartID   uuid.UUID `json:"part_id"`
	Quantity int       `json:"quantity"`
}

// Maintenance is one maintenance job on a motorcycle. Transition methods return new
// values and leave the receiver unchanged.
type Maintenance struct {
	ID                            uuid.UUID         `json:"id"`
	MotorcycleID                  uuid.UUID         `json:"motorcycle_id"`
	Type                          MaintenanceType   `json:"type"`
	Status                        MaintenanceStatus `json:"status"`
	ScheduledDate                 time.Time         `json:"scheduled_date"`
	ActualDate                    *time.Time        `json:"actual_date,omitempty"`
	MileageAtMaintenance          int               `json:"mileage_at_maintenance"`
	TechnicianNotes               *string           `json:"technician_notes,omitempty"`
	ReplacedParts                 []ReplacedPart    `json:"replaced_parts"`
	TotalCost                     *decimal.Decimal  `json:"total_cost,omitempty"`
	NextMaintenanceRecommendation *time.Time        `json:"next_maintenance_recommendation,omitempty"`
	CreatedAt                     time.Time         `json:"created_at"`
	UpdatedAt                     time.Time         `json:"updated_at"`
}

// NewMaintenanceParams holds the inputs of NewMaintenance
type NewMaintenanceParams struct {
	ID                            uuid.UUID
	MotorcycleID                  uuid.UUID
	Type                          MaintenanceType
	Status                        MaintenanceStatus
	ScheduledDate                 time.Time
	ActualDate                    *time.Time
	MileageAtMaintenance          int
	TechnicianNotes               *string
	ReplacedParts                 []ReplacedPart
	TotalCost                     *decimal.Decimal
	NextMaintenanceRecommendation *time.Time
}

// NewMaintenance validates params and builds a maintenance.
// Status defaults to SCHEDULED. ActualDate is only accepted for a COMPLETED record
// entered after the fact; open jobs get their actual date from Complete.
func NewMaintenance(params NewMaintenanceParams) (*Maintenance, error) {
	if params.MotorcycleID == uuid.Nil {
		return nil, NewValidationError("motorcycle_id", "is required")
	}
	if params.Type == "" {
		return nil, NewValidationError("type", "is required")
	}
	if !params.Type.IsValid() {
		return nil, NewValidationError("type", "unknown maintenance type "+string(params.Type))
	}
	if params.ScheduledDate.IsZero() {
		return nil, NewValidationError("scheduled_date", "is required")
	}

	status := params.Status
	if status == "" {
		status = StatusScheduled
	}
	if !status.IsValid() {
		return nil, NewValidationError("status", "unknown status "+string(status))
	}
	if params.MileageAtMaintenance < 0 {
		return nil, NewValidationError("mileage_at_maintenance", "cannot be negative")
	}
	if params.TotalCost != nil && params.TotalCost.IsNegative() {
		return nil, NewValidationError("total_cost", "cannot be negative")
	}
	if err := validateReplacedParts(params.ReplacedParts); err != nil {
		return nil, err
	}

	var actual *time.Time
	if params.ActualDate != nil {
		if status != StatusCompleted {
			return nil, NewValidationError("actual_date", "is only set on completed maintenance")
		}
		actual = cloneTime(params.ActualDate)
	} else if status == StatusCompleted {
		return nil, NewValidationError("actual_date", "is required for completed maintenance")
	}

	id := params.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	now := time.Now().UTC()
	return &Maintenance{
		ID:                            id,
		MotorcycleID:                  params.MotorcycleID,
		Type:                          params.Type,
		Status:                        status,
		ScheduledDate:                 params.ScheduledDate,
		ActualDate:                    actual,
		MileageAtMaintenance:          params.MileageAtMaintenance,
		TechnicianNotes:               cloneString(params.TechnicianNotes),
		ReplacedParts:                 cloneParts(params.ReplacedParts),
		TotalCost:                     cloneDecimal(params.TotalCost),
		NextMaintenanceRecommendation: cloneTime(params.NextMaintenanceRecommendation),
		CreatedAt:                     now,
		UpdatedAt:                     now,
	}, nil
}

// CompletionDetails carries the data recorded when a job is completed.
// Nil optional fields keep the value the maintenance already had.
type CompletionDetails struct {
	ActualDate                    time.Time
	MileageAtMaintenance          int
	TechnicianNotes               *string
	ReplacedParts                 []ReplacedPart
	TotalCost                     *decimal.Decimal
	NextMaintenanceRecommendation *time.Time
}

// Complete moves an open maintenance to COMPLETED
func (m Maintenance) Complete(details CompletionDetails) (*Maintenance, error) {
	if !m.Status.CanTransitionTo(StatusCompleted) {
		return nil, NewInvalidStateTransitionError(m.Status, StatusCompleted)
	}
	if details.ActualDate.IsZero() {
		return nil, NewValidationError("actual_date", "is required")
	}
	if details.MileageAtMaintenance < 0 {
		return nil, NewValidationError("mileage_at_maintenance", "cannot be negative")
	}
	if details.TotalCost != nil && details.TotalCost.IsNegative() {
		return nil, NewValidationError("total_cost", "cannot be negative")
	}
	if err := validateReplacedParts(details.ReplacedParts); err != nil {
		return nil, err
	}

	next := m.clone()
	next.Status = StatusCompleted
	actual := details.ActualDate
	next.ActualDate = &actual
	next.MileageAtMaintenance = details.MileageAtMaintenance
	if details.TechnicianNotes != nil {
		next.TechnicianNotes = cloneString(details.TechnicianNotes)
	}
	if details.ReplacedParts != nil {
		next.ReplacedParts = cloneParts(details.ReplacedParts)
	}
	if details.TotalCost != nil {
		next.TotalCost = cloneDecimal(details.TotalCost)
	}
	if details.NextMaintenanceRecommendation != nil {
		next.NextMaintenanceRecommendation = cloneTime(details.NextMaintenanceRecommendation)
	}
	next.UpdatedAt = time.Now().UTC()
	return next, nil
}

// Start moves a scheduled maintenance to IN_PROGRESS
func (m Maintenance) Start() (*Maintenance, error) {
	return m.transition(StatusInProgress)
}

// Cancel moves an open maintenance to CANCELLED
func (m Maintenance) Cancel() (*Maintenance, error) {
	return m.transition(StatusCancelled)
}

func (m Maintenance) transition(target MaintenanceStatus) (*Maintenance, error) {
	if !m.Status.CanTransitionTo(target) {
		return nil, NewInvalidStateTransitionError(m.Status, target)
	}
	next := m.clone()
	next.Status = target
	next.UpdatedAt = time.Now().UTC()
	return next, nil
}

// MaintenanceUpdate is a partial update; nil fields are left as they are.
// Status and replaced parts are not editable here.
type MaintenanceUpdate struct {
	Type                          *MaintenanceType
	ScheduledDate                 *time.Time
	MileageAtMaintenance          *int
	TechnicianNotes               *string
	TotalCost                     *decimal.Decimal
	NextMaintenanceRecommendation *time.Time
}

// IsEmpty reports whether the update changes nothing
func (u MaintenanceUpdate) IsEmpty() bool {
	return u.Type == nil && u.ScheduledDate == nil && u.MileageAtMaintenance == nil &&
		u.TechnicianNotes == nil && u.TotalCost == nil && u.NextMaintenanceRecommendation == nil
}

// scheduleField names the first set field that describes the planned job
func (u MaintenanceUpdate) scheduleField() string {
	switch {
	case u.Type != nil:
		return "type"
	case u.ScheduledDate != nil:
		return "scheduled_date"
	case u.MileageAtMaintenance != nil:
		return "mileage_at_maintenance"
	}
	return ""
}

// Update applies u and bumps UpdatedAt, keeping Status and CreatedAt. Once the
// maintenance is completed or cancelled only the technician notes, total cost and next
// recommendation can change.
func (m Maintenance) Update(u MaintenanceUpdate) (*Maintenance, error) {
	if m.Status.IsTerminal() {
		if field := u.scheduleField(); field != "" {
			return nil, NewValidationError(field, "cannot be changed on a "+string(m.Status)+" maintenance")
		}
	}

	next := m.clone()

	if u.Type != nil {
		if !u.Type.IsValid() {
			return nil, NewValidationError("type", "unknown maintenance type "+string(*u.Type))
		}
		next.Type = *u.Type
	}
	if u.ScheduledDate != nil {
		if u.ScheduledDate.IsZero() {
			return nil, NewValidationError("scheduled_date", "cannot be empty")
		}
		next.ScheduledDate = *u.ScheduledDate
	}
	if u.MileageAtMaintenance != nil {
		if *u.MileageAtMaintenance < 0 {
			return nil, NewValidationError("mileage_at_maintenance", "cannot be negative")
		}
		next.MileageAtMaintenance = *u.MileageAtMaintenance
	}
	if u.TechnicianNotes != nil {
		next.TechnicianNotes = cloneString(u.TechnicianNotes)
	}
	if u.TotalCost != nil {
		if u.TotalCost.IsNegative() {
			return nil, NewValidationError("total_cost", "cannot be negative")
		}
		next.TotalCost = cloneDecimal(u.TotalCost)
	}
	if u.NextMaintenanceRecommendation != nil {
		next.NextMaintenanceRecommendation = cloneTime(u.NextMaintenanceRecommendation)
	}

	next.UpdatedAt = time.Now().UTC()
	return next, nil
}

// IsDue reports whether a scheduled job is on or before date
func (m Maintenance) IsDue(date time.Time) bool {
	return m.Status == StatusScheduled && !m.ScheduledDate.After(date)
}

func (m Maintenance) clone() *Maintenance {
	c := m
	c.ActualDate = cloneTime(m.ActualDate)
	c.TechnicianNotes = cloneString(m.TechnicianNotes)
	c.ReplacedParts = cloneParts(m.ReplacedParts)
	c.TotalCost = cloneDecimal(m.TotalCost)
	c.NextMaintenanceRecommendation = cloneTime(m.NextMaintenanceRecommendation)
	return &c
}

func validateReplacedParts(parts []ReplacedPart) error {
	for _, p := range parts {
		if p.PartID == uuid.Nil {
			return NewValidationError("replaced_parts", "part_id is required")
		}
		if p.Quantity <= 0 {
			return NewValidationError("replaced_parts", "quantity must be positive")
		}
	}
	return nil
}

func cloneParts(parts []ReplacedPart) []ReplacedPart {
	if parts == nil {
		return []ReplacedPart{}
	}
	return slices.Clone(parts)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
