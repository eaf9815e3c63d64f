// internal/core/services/maintenance.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/core/ports"
)

// MaintenanceService handles maintenance business logic
type MaintenanceService struct {
	repo     ports.MaintenanceRepository
	create   *CreateMaintenanceUseCase
	complete *CompleteMaintenanceUseCase
	logger   *slog.Logger
}

// Statically assert that *MaintenanceService implements the MaintenanceService interface.
var _ ports.MaintenanceService = (*MaintenanceService)(nil)

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	repo ports.MaintenanceRepository,
	create *CreateMaintenanceUseCase,
	complete *CompleteMaintenanceUseCase,
	logger *slog.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		repo:     repo,
		create:   create,
		complete: complete,
		logger:   logger.With(slog.String("service", "maintenance")),
	}
}

// Create schedules a new maintenance
func (s *MaintenanceService) Create(ctx context.Context, req ports.CreateMaintenanceRequest) (*ports.MaintenanceResponse, error) {
	return s.create.Execute(ctx, req)
}

// Complete completes a maintenance and consumes its parts
func (s *MaintenanceService) Complete(ctx context.Context, req ports.CompleteMaintenanceRequest) (*ports.MaintenanceResponse, error) {
	return s.complete.Execute(ctx, req)
}

// Start moves a scheduled maintenance to IN_PROGRESS
func (s *MaintenanceService) Start(ctx context.Context, id uuid.UUID) (*ports.MaintenanceResponse, error) {
	return s.transition(ctx, id, "started", domain.Maintenance.Start)
}

// Cancel cancels an open maintenance
func (s *MaintenanceService) Cancel(ctx context.Context, id uuid.UUID) (*ports.MaintenanceResponse, error) {
	return s.transition(ctx, id, "cancelled", domain.Maintenance.Cancel)
}

// transition applies fn and stores the result only if nobody changed the status meanwhile
func (s *MaintenanceService) transition(
	ctx context.Context,
	id uuid.UUID,
	action string,
	fn func(domain.Maintenance) (*domain.Maintenance, error),
) (*ports.MaintenanceResponse, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := fn(*current)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CompareAndUpdate(ctx, next, []domain.MaintenanceStatus{current.Status}); err != nil {
		return nil, fmt.Errorf("failed to update maintenance: %w", err)
	}

	s.logger.InfoContext(ctx, "maintenance "+action,
		slog.String("maintenance_id", id.String()),
		slog.String("from", string(current.Status)),
		slog.String("to", string(next.Status)))

	return ports.NewMaintenanceResponse(next), nil
}

// Update applies a partial update without touching the status
func (s *MaintenanceService) Update(ctx context.Context, id uuid.UUID, req ports.UpdateMaintenanceRequest) (*ports.MaintenanceResponse, error) {
	update := domain.MaintenanceUpdate{
		ScheduledDate:                 req.ScheduledDate,
		TechnicianNotes:               req.TechnicianNotes,
		TotalCost:                     req.TotalCost,
		NextMaintenanceRecommendation: req.NextMaintenanceRecommendation,
	}
	if req.MileageAtMaintenance != nil {
		mileage, err := NormalizeMileage("mileage_at_maintenance", req.MileageAtMaintenance)
		if err != nil {
			return nil, err
		}
		update.MileageAtMaintenance = &mileage
	}
	if req.Type != nil {
		t := domain.MaintenanceType(strings.ToUpper(strings.TrimSpace(*req.Type)))
		update.Type = &t
	}
	if update.IsEmpty() {
		return nil, domain.NewValidationError("", "no fields to update")
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := current.Update(update)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CompareAndUpdate(ctx, updated, []domain.MaintenanceStatus{current.Status}); err != nil {
		return nil, fmt.Errorf("failed to update maintenance: %w", err)
	}

	s.logger.InfoContext(ctx, "updated maintenance",
		slog.String("maintenance_id", id.String()))

	return ports.NewMaintenanceResponse(updated), nil
}

// Delete removes a maintenance after checking it exists
func (s *MaintenanceService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete maintenance: %w", err)
	}

	s.logger.InfoContext(ctx, "deleted maintenance",
		slog.String("maintenance_id", id.String()))

	return nil
}

// GetByID retrieves a maintenance by ID
func (s *MaintenanceService) GetByID(ctx context.Context, id uuid.UUID) (*ports.MaintenanceResponse, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return ports.NewMaintenanceResponse(m), nil
}

// List retrieves maintenance records with filtering and pagination
func (s *MaintenanceService) List(ctx context.Context, params ports.MaintenanceListParams) (*ports.MaintenanceListResult, error) {
	params.Page, params.PageSize = normalizePage(params.Page, params.PageSize)
	if params.Status != "" {
		params.Status = strings.ToUpper(params.Status)
		if !domain.MaintenanceStatus(params.Status).IsValid() {
			return nil, domain.NewValidationError("status", "unknown status "+params.Status)
		}
	}
	if params.Type != "" {
		params.Type = strings.ToUpper(params.Type)
		if !domain.MaintenanceType(params.Type).IsValid() {
			return nil, domain.NewValidationError("type", "unknown maintenance type "+params.Type)
		}
	}

	items, totalCount, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenances: %w", err)
	}

	responses := make([]*ports.MaintenanceResponse, 0, len(items))
	for _, m := range items {
		responses = append(responses, ports.NewMaintenanceResponse(m))
	}

	return &ports.MaintenanceListResult{
		Items:      responses,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, params.PageSize),
	}, nil
}

// ListDue returns scheduled maintenances due on or before date; a zero date means now
func (s *MaintenanceService) ListDue(ctx context.Context, date time.Time) ([]*ports.MaintenanceResponse, error) {
	if date.IsZero() {
		date = time.Now().UTC()
	}

	items, err := s.repo.FindDueMaintenances(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to find due maintenances: %w", err)
	}

	responses := make([]*ports.MaintenanceResponse, 0, len(items))
	for _, m := range items {
		responses = append(responses, ports.NewMaintenanceResponse(m))
	}
	return responses, nil
}

func (s *MaintenanceService) load(ctx context.Context, id uuid.UUID) (*domain.Maintenance, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get maintenance: %w", err)
	}
	if m == nil {
		return nil, domain.NewMaintenanceNotFoundError(id)
	}
	return m, nil
}
