// internal/core/services/inventory.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/core/ports"
)

// InventoryService handles inventory part business logic
type InventoryService struct {
	repo     ports.InventoryPartRepository
	enqueuer ports.TaskEnqueuer
	logger   *slog.Logger
}

// Statically assert that *InventoryService implements the InventoryService interface.
var _ ports.InventoryService = (*InventoryService)(nil)

// NewInventoryService creates a new inventory service
func NewInventoryService(repo ports.InventoryPartRepository, enqueuer ports.TaskEnqueuer, logger *slog.Logger) *InventoryService {
	return &InventoryService{
		repo:     repo,
		enqueuer: enqueuer,
		logger:   logger.With(slog.String("service", "inventory")),
	}
}

// CreatePart validates and stores a new catalog part
func (s *InventoryService) CreatePart(ctx context.Context, req ports.CreatePartRequest) (*domain.InventoryPart, error) {
	part, err := domain.NewInventoryPart(domain.NewInventoryPartParams{
		Name:              req.Name,
		Category:          domain.PartCategory(strings.ToUpper(strings.TrimSpace(req.Category))),
		ReferenceNumber:   req.ReferenceNumber,
		CurrentStock:      req.CurrentStock,
		MinStockThreshold: req.MinStockThreshold,
		UnitPrice:         req.UnitPrice,
		MotorcycleModels:  req.MotorcycleModels,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, part); err != nil {
		return nil, fmt.Errorf("failed to save part: %w", err)
	}

	s.logger.InfoContext(ctx, "created inventory part",
		slog.String("part_id", part.ID.String()),
		slog.String("reference_number", part.ReferenceNumber),
		slog.Int("current_stock", part.CurrentStock))

	return part, nil
}

// GetPart retrieves a part by ID
func (s *InventoryService) GetPart(ctx context.Context, id uuid.UUID) (*domain.InventoryPart, error) {
	part, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory part: %w", err)
	}
	if part == nil {
		return nil, domain.NewPartNotFoundError(id)
	}
	return part, nil
}

// ListParts retrieves parts with filtering and pagination
func (s *InventoryService) ListParts(ctx context.Context, params ports.PartListParams) (*ports.PartListResult, error) {
	params.Page, params.PageSize = normalizePage(params.Page, params.PageSize)
	if params.Category != "" {
		params.Category = strings.ToUpper(params.Category)
		if !domain.PartCategory(params.Category).IsValid() {
			return nil, domain.NewValidationError("category", "unknown category "+params.Category)
		}
	}

	items, totalCount, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory parts: %w", err)
	}

	return &ports.PartListResult{
		Items:      items,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, params.PageSize),
	}, nil
}

// LowStockReport lists parts at or below their threshold with the cost of restocking them
func (s *InventoryService) LowStockReport(ctx context.Context) (*ports.LowStockReport, error) {
	parts, err := s.repo.FindLowStockParts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find low stock parts: %w", err)
	}

	report := &ports.LowStockReport{
		Items:            make([]ports.LowStockItem, 0, len(parts)),
		TotalReorderCost: decimal.Zero,
		TotalStockValue:  decimal.Zero,
		GeneratedAt:      time.Now().UTC(),
	}
	for _, part := range parts {
		// one unit above the threshold clears the low-stock condition
		shortfall := part.MinStockThreshold - part.CurrentStock + 1
		cost := part.UnitPrice.Mul(decimal.NewFromInt(int64(shortfall)))
		report.Items = append(report.Items, ports.LowStockItem{
			Part:        part,
			Shortfall:   shortfall,
			ReorderCost: cost,
		})
		report.TotalReorderCost = report.TotalReorderCost.Add(cost)
		report.TotalStockValue = report.TotalStockValue.Add(part.StockValue())
	}

	return report, nil
}

// AdjustStock restocks (delta > 0) or writes off (delta < 0) units of a part
func (s *InventoryService) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*domain.InventoryPart, error) {
	if delta == 0 {
		return nil, domain.NewValidationError("delta", "must not be zero")
	}

	part, err := s.repo.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	s.logger.InfoContext(ctx, "adjusted stock",
		slog.String("part_id", id.String()),
		slog.Int("delta", delta),
		slog.Int("current_stock", part.CurrentStock))

	if delta < 0 && part.IsLowStock() {
		if err := s.enqueuer.EnqueueLowStockAlert(ctx, lowStockAlert(part)); err != nil {
			s.logger.ErrorContext(ctx, "failed to enqueue low stock alert",
				slog.String("part_id", id.String()),
				slog.String("error", err.Error()))
		}
	}

	return part, nil
}

// DeletePart removes a part after checking it exists
func (s *InventoryService) DeletePart(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetPart(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete part: %w", err)
	}

	s.logger.InfoContext(ctx, "deleted inventory part",
		slog.String("part_id", id.String()))

	return nil
}
