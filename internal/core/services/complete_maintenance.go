// internal/core/services/complete_maintenance.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/core/ports"
)

// CompleteMaintenanceUseCase completes a maintenance and consumes its replaced parts
// from stock in one unit of work.
type CompleteMaintenanceUseCase struct {
	uow      ports.UnitOfWork
	enqueuer ports.TaskEnqueuer
	logger   *slog.Logger
}

// NewCompleteMaintenanceUseCase creates a new complete-maintenance use case
func NewCompleteMaintenanceUseCase(uow ports.UnitOfWork, enqueuer ports.TaskEnqueuer, logger *slog.Logger) *CompleteMaintenanceUseCase {
	return &CompleteMaintenanceUseCase{
		uow:      uow,
		enqueuer: enqueuer,
		logger:   logger.With(slog.String("use_case", "complete_maintenance")),
	}
}

// Execute runs the completion:
//  1. lock and load the maintenance, rejecting terminal states
//  2. lock every replaced part in ascending id order and check availability
//  3. decrement every part
//  4. store the completed maintenance, guarded on its open status
//
// Any error discards the whole unit of work, so stock and status are left as they were.
func (uc *CompleteMaintenanceUseCase) Execute(ctx context.Context, req ports.CompleteMaintenanceRequest) (*ports.MaintenanceResponse, error) {
	if req.MaintenanceID == uuid.Nil {
		return nil, domain.NewValidationError("maintenance_id", "is required")
	}
	input, err := normalizeCompletion(req)
	if err != nil {
		return nil, err
	}

	var (
		completed *domain.Maintenance
		consumed  []*domain.InventoryPart
	)

	err = uc.uow.WithinTx(ctx, func(ctx context.Context, repos ports.TxRepositories) error {
		maintenance, err := repos.Maintenances().FindByIDForUpdate(ctx, req.MaintenanceID)
		if err != nil {
			return fmt.Errorf("failed to get maintenance: %w", err)
		}
		if maintenance == nil {
			return domain.NewMaintenanceNotFoundError(req.MaintenanceID)
		}
		if maintenance.Status.IsTerminal() {
			return domain.NewInvalidStateTransitionError(maintenance.Status, domain.StatusCompleted)
		}

		replaced := input.replacedParts
		if replaced == nil {
			replaced = maintenance.ReplacedParts
		}
		usages, err := MergeReplacedParts(replaced)
		if err != nil {
			return err
		}

		locked := lockOrder(usages)
		for _, usage := range locked {
			part, err := repos.Parts().FindByIDForUpdate(ctx, usage.PartID)
			if err != nil {
				return fmt.Errorf("failed to get inventory part %s: %w", usage.PartID, err)
			}
			if part == nil {
				return domain.NewPartNotFoundError(usage.PartID)
			}
			if !part.CanFulfil(usage.Quantity) {
				return domain.NewInsufficientStockError(part.ID, usage.Quantity, part.CurrentStock)
			}
		}

		consumed = make([]*domain.InventoryPart, 0, len(locked))
		for _, usage := range locked {
			part, err := repos.Parts().AdjustStock(ctx, usage.PartID, -usage.Quantity)
			if err != nil {
				return fmt.Errorf("failed to consume part %s: %w", usage.PartID, err)
			}
			consumed = append(consumed, part)
		}

		mileage := maintenance.MileageAtMaintenance
		if input.mileage != nil {
			mileage = *input.mileage
		}

		done, err := maintenance.Complete(domain.CompletionDetails{
			ActualDate:                    input.actualDate,
			MileageAtMaintenance:          mileage,
			TechnicianNotes:               req.TechnicianNotes,
			ReplacedParts:                 usages,
			TotalCost:                     input.totalCost,
			NextMaintenanceRecommendation: input.nextRecommendation,
		})
		if err != nil {
			return err
		}

		if err := repos.Maintenances().CompareAndUpdate(ctx, done, domain.OpenStatuses); err != nil {
			return fmt.Errorf("failed to store completed maintenance: %w", err)
		}

		completed = done
		return nil
	})
	if err != nil {
		uc.logger.WarnContext(ctx, "maintenance completion rejected",
			slog.String("maintenance_id", req.MaintenanceID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	uc.logger.InfoContext(ctx, "completed maintenance",
		slog.String("maintenance_id", completed.ID.String()),
		slog.Int("parts_consumed", len(consumed)))

	uc.publishFollowUps(ctx, completed, consumed)

	return ports.NewMaintenanceResponse(completed), nil
}

// publishFollowUps enqueues the archive task and low-stock alerts. The completion is
// already committed, so failures are logged and not returned.
func (uc *CompleteMaintenanceUseCase) publishFollowUps(ctx context.Context, m *domain.Maintenance, consumed []*domain.InventoryPart) {
	event := ports.MaintenanceCompletedEvent{
		MaintenanceID: m.ID,
		MotorcycleID:  m.MotorcycleID,
		CompletedAt:   *m.ActualDate,
		ConsumedParts: m.ReplacedParts,
	}
	if err := uc.enqueuer.EnqueueMaintenanceCompleted(ctx, event); err != nil {
		uc.logger.ErrorContext(ctx, "failed to enqueue completion archive",
			slog.String("maintenance_id", m.ID.String()),
			slog.String("error", err.Error()))
	}

	for _, part := range consumed {
		if !part.IsLowStock() {
			continue
		}
		if err := uc.enqueuer.EnqueueLowStockAlert(ctx, lowStockAlert(part)); err != nil {
			uc.logger.ErrorContext(ctx, "failed to enqueue low stock alert",
				slog.String("part_id", part.ID.String()),
				slog.String("error", err.Error()))
		}
	}
}

// MergeReplacedParts validates the entries and sums quantities of repeated parts. Parts
// keep the order in which they first appear. A part whose total would not fit the
// stock column is rejected.
func MergeReplacedParts(parts []domain.ReplacedPart) ([]domain.ReplacedPart, error) {
	index := make(map[uuid.UUID]int, len(parts))
	merged := make([]domain.ReplacedPart, 0, len(parts))
	for _, p := range parts {
		if p.PartID == uuid.Nil {
			return nil, domain.NewValidationError("replaced_parts", "part_id is required")
		}
		if p.Quantity <= 0 {
			return nil, domain.NewValidationError("replaced_parts",
				fmt.Sprintf("quantity for part %s must be positive", p.PartID))
		}

		i, seen := index[p.PartID]
		if !seen {
			i = len(merged)
			index[p.PartID] = i
			merged = append(merged, domain.ReplacedPart{PartID: p.PartID})
		}
		if p.Quantity > math.MaxInt32-merged[i].Quantity {
			return nil, domain.NewValidationError("replaced_parts",
				fmt.Sprintf("quantity for part %s exceeds %d", p.PartID, math.MaxInt32))
		}
		merged[i].Quantity += p.Quantity
	}
	return merged, nil
}

// lockOrder returns the usages sorted by ascending part id, the order in which part
// rows are locked so concurrent completions cannot deadlock.
func lockOrder(usages []domain.ReplacedPart) []domain.ReplacedPart {
	sorted := slices.Clone(usages)
	slices.SortFunc(sorted, func(a, b domain.ReplacedPart) int {
		return compareIDs(a.PartID, b.PartID)
	})
	return sorted
}

func compareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}

type completionInput struct {
	actualDate         time.Time
	mileage            *int
	replacedParts      []domain.ReplacedPart
	totalCost          *decimal.Decimal
	nextRecommendation *time.Time
}

func normalizeCompletion(req ports.CompleteMaintenanceRequest) (completionInput, error) {
	var input completionInput

	actual, err := NormalizeDate("actual_date", req.ActualDate)
	if err != nil {
		return input, err
	}
	if actual == nil {
		now := time.Now().UTC()
		actual = &now
	}
	input.actualDate = *actual

	if req.MileageAtMaintenance != nil {
		mileage, err := NormalizeMileage("mileage_at_maintenance", req.MileageAtMaintenance)
		if err != nil {
			return input, err
		}
		input.mileage = &mileage
	}

	if input.totalCost, err = NormalizeDecimal("total_cost", req.TotalCost); err != nil {
		return input, err
	}
	if input.nextRecommendation, err = NormalizeDate("next_maintenance_recommendation", req.NextMaintenanceRecommendation); err != nil {
		return input, err
	}

	input.replacedParts = req.ReplacedParts
	return input, nil
}

func lowStockAlert(part *domain.InventoryPart) ports.LowStockAlert {
	return ports.LowStockAlert{
		PartID:            part.ID,
		Name:              part.Name,
		ReferenceNumber:   part.ReferenceNumber,
		CurrentStock:      part.CurrentStock,
		MinStockThreshold: part.MinStockThreshold,
	}
}
