// internal/core/services/create_maintenance.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/core/ports"
)

// CreateMaintenanceUseCase validates and schedules a new maintenance job
type CreateMaintenanceUseCase struct {
	motorcycles  ports.MotorcycleRepository
	maintenances ports.MaintenanceRepository
	logger       *slog.Logger
}

// NewCreateMaintenanceUseCase creates a new create-maintenance use case
func NewCreateMaintenanceUseCase(
	motorcycles ports.MotorcycleRepository,
	maintenances ports.MaintenanceRepository,
	logger *slog.Logger,
) *CreateMaintenanceUseCase {
	return &CreateMaintenanceUseCase{
		motorcycles:  motorcycles,
		maintenances: maintenances,
		logger:       logger.With(slog.String("use_case", "create_maintenance")),
	}
}

// Execute normalizes req, checks the motorcycle exists and persists the new record.
// Input is validated before any repository call.
func (uc *CreateMaintenanceUseCase) Execute(ctx context.Context, req ports.CreateMaintenanceRequest) (*ports.MaintenanceResponse, error) {
	params, err := uc.buildParams(req)
	if err != nil {
		return nil, err
	}

	maintenance, err := domain.NewMaintenance(params)
	if err != nil {
		return nil, err
	}

	motorcycle, err := uc.motorcycles.FindByID(ctx, maintenance.MotorcycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get motorcycle: %w", err)
	}
	if motorcycle == nil {
		return nil, domain.NewMotorcycleNotFoundError(maintenance.MotorcycleID)
	}

	if err := uc.maintenances.Save(ctx, maintenance); err != nil {
		return nil, fmt.Errorf("failed to save maintenance: %w", err)
	}

	uc.logger.InfoContext(ctx, "scheduled maintenance",
		slog.String("maintenance_id", maintenance.ID.String()),
		slog.String("motorcycle_id", maintenance.MotorcycleID.String()),
		slog.String("type", string(maintenance.Type)),
		slog.String("status", string(maintenance.Status)),
		slog.Time("scheduled_date", maintenance.ScheduledDate))

	return ports.NewMaintenanceResponse(maintenance), nil
}

func (uc *CreateMaintenanceUseCase) buildParams(req ports.CreateMaintenanceRequest) (domain.NewMaintenanceParams, error) {
	var params domain.NewMaintenanceParams

	motorcycleID, err := parseID("motorcycle_id", req.MotorcycleID)
	if err != nil {
		return params, err
	}

	scheduled, err := NormalizeDate("scheduled_date", req.ScheduledDate)
	if err != nil {
		return params, err
	}
	if scheduled == nil {
		return params, domain.NewValidationError("scheduled_date", "is required")
	}

	mileage, err := NormalizeMileage("mileage_at_maintenance", req.MileageAtMaintenance)
	if err != nil {
		return params, err
	}

	actual, err := NormalizeDate("actual_date", req.ActualDate)
	if err != nil {
		return params, err
	}

	cost, err := NormalizeDecimal("total_cost", req.TotalCost)
	if err != nil {
		return params, err
	}

	next, err := NormalizeDate("next_maintenance_recommendation", req.NextMaintenanceRecommendation)
	if err != nil {
		return params, err
	}

	return domain.NewMaintenanceParams{
		MotorcycleID:                  motorcycleID,
		Type:                          domain.MaintenanceType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Status:                        domain.MaintenanceStatus(strings.ToUpper(strings.TrimSpace(req.Status))),
		ScheduledDate:                 *scheduled,
		ActualDate:                    actual,
		MileageAtMaintenance:          mileage,
		TechnicianNotes:               req.TechnicianNotes,
		ReplacedParts:                 req.ReplacedParts,
		TotalCost:                     cost,
		NextMaintenanceRecommendation: next,
	}, nil
}
