// internal/core/ports/maintenance_service.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/motofleet-be/internal/core/domain"
)

// MaintenanceService defines the application service port for maintenance jobs.
// This interface is implemented by the application service.
type MaintenanceService interface {
	Create(ctx context.Context, req CreateMaintenanceRequest) (*MaintenanceResponse, error)
	Complete(ctx context.Context, req CompleteMaintenanceRequest) (*MaintenanceResponse, error)
	Start(ctx context.Context, id uuid.UUID) (*MaintenanceResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*MaintenanceResponse, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateMaintenanceRequest) (*MaintenanceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*MaintenanceResponse, error)
	List(ctx context.Context, params MaintenanceListParams) (*MaintenanceListResult, error)
	ListDue(ctx context.Context, date time.Time) ([]*MaintenanceResponse, error)
}

// CreateMaintenanceRequest is the raw input for scheduling a maintenance.
// Numeric and date fields accept numbers, numeric strings or dates as decoded from
// JSON; the use case normalizes them.
type CreateMaintenanceRequest struct {
	MotorcycleID                  string                `json:"motorcycle_id"`
	Type                          string                `json:"type"`
	Status                        string                `json:"status,omitempty"`
	ScheduledDate                 any                   `json:"scheduled_date"`
	ActualDate                    any                   `json:"actual_date,omitempty"`
	MileageAtMaintenance          any                   `json:"mileage_at_maintenance"`
	TechnicianNotes               *string               `json:"technician_notes,omitempty"`
	ReplacedParts                 []domain.ReplacedPart `json:"replaced_parts,omitempty"`
	TotalCost                     any                   `json:"total_cost,omitempty"`
	NextMaintenanceRecommendation any                   `json:"next_maintenance_recommendation,omitempty"`
}

// CompleteMaintenanceRequest is the raw input for completing a maintenance.
// A missing ActualDate means now.
type CompleteMaintenanceRequest struct {
	MaintenanceID                 uuid.UUID             `json:"-"`
	ActualDate                    any                   `json:"actual_date,omitempty"`
	MileageAtMaintenance          any                   `json:"mileage_at_maintenance"`
	TechnicianNotes               *string               `json:"technician_notes,omitempty"`
	ReplacedParts                 []domain.ReplacedPart `json:"replaced_parts,omitempty"`
	TotalCost                     any                   `json:"total_cost,omitempty"`
	NextMaintenanceRecommendation any                   `json:"next_maintenance_recommendation,omitempty"`
}

// UpdateMaintenanceRequest is a partial update; nil fields are left untouched
type UpdateMaintenanceRequest struct {
	Type                          *string          `json:"type,omitempty"`
	ScheduledDate                 *time.Time       `json:"scheduled_date,omitempty"`
	MileageAtMaintenance          any              `json:"mileage_at_maintenance,omitempty"`
	TechnicianNotes               *string          `json:"technician_notes,omitempty"`
	TotalCost                     *decimal.Decimal `json:"total_cost,omitempty"`
	NextMaintenanceRecommendation *time.Time       `json:"next_maintenance_recommendation,omitempty"`
}

// MaintenanceResponse is the outward representation of a maintenance
type MaintenanceResponse struct {
	ID                            uuid.UUID             `json:"id"`
	MotorcycleID                  uuid.UUID             `json:"motorcycle_id"`
	Type                          string                `json:"type"`
	Status                        string                `json:"status"`
	ScheduledDate                 time.Time             `json:"scheduled_date"`
	ActualDate                    *time.Time            `json:"actual_date,omitempty"`
	MileageAtMaintenance          int                   `json:"mileage_at_maintenance"`
	TechnicianNotes               *string               `json:"technician_notes,omitempty"`
	ReplacedParts                 []domain.ReplacedPart `json:"replaced_parts,omitempty"`
	TotalCost                     *decimal.Decimal      `json:"total_cost,omitempty"`
	NextMaintenanceRecommendation *time.Time            `json:"next_maintenance_recommendation,omitempty"`
	CreatedAt                     time.Time             `json:"created_at"`
	UpdatedAt                     time.Time             `json:"updated_at"`
}

// NewMaintenanceResponse maps a domain maintenance to its response shape
func NewMaintenanceResponse(m *domain.Maintenance) *MaintenanceResponse {
	return &MaintenanceResponse{
		ID:                            m.ID,
		MotorcycleID:                  m.MotorcycleID,
		Type:                          string(m.Type),
		Status:                        string(m.Status),
		ScheduledDate:                 m.ScheduledDate,
		ActualDate:                    m.ActualDate,
		MileageAtMaintenance:          m.MileageAtMaintenance,
		TechnicianNotes:               m.TechnicianNotes,
		ReplacedParts:                 m.ReplacedParts,
		TotalCost:                     m.TotalCost,
		NextMaintenanceRecommendation: m.NextMaintenanceRecommendation,
		CreatedAt:                     m.CreatedAt,
		UpdatedAt:                     m.UpdatedAt,
	}
}

// MaintenanceListResult holds the result of listing maintenance records
type MaintenanceListResult struct {
	Items      []*MaintenanceResponse `json:"items"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalCount int64                  `json:"total_count"`
	TotalPages int                    `json:"total_pages"`
}
