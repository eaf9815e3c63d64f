// internal/workers/archive_processor.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	"github.com/ammerola/motofleet-be/internal/core/ports"
)

// ReceiptLine is one consumed part valued at its current catalog price
type ReceiptLine struct {
	PartID          uuid.UUID       `json:"part_id"`
	Name            string          `json:"name,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// MaintenanceReceipt is the archived document of a completed maintenance
type MaintenanceReceipt struct {
	Maintenance *ports.MaintenanceResponse `json:"maintenance"`
	Lines       []ReceiptLine              `json:"lines"`
	PartsValue  decimal.Decimal            `json:"parts_value"`
	ArchivedAt  time.Time                  `json:"archived_at"`
}

// ArchiveProcessor writes a JSON receipt of each completed maintenance to object storage
type ArchiveProcessor struct {
	maintenances ports.MaintenanceRepository
	parts        ports.InventoryPartRepository
	storage      ports.ObjectStorage
	prefix       string
	logger       *slog.Logger
}

// NewArchiveProcessor creates a new archive processor
func NewArchiveProcessor(
	maintenances ports.MaintenanceRepository,
	parts ports.InventoryPartRepository,
	storage ports.ObjectStorage,
	prefix string,
	logger *slog.Logger,
) *ArchiveProcessor {
	return &ArchiveProcessor{
		maintenances: maintenances,
		parts:        parts,
		storage:      storage,
		prefix:       prefix,
		logger:       logger.With(slog.String("processor", "archive")),
	}
}

// ReceiptKey is prefix/YYYY/MM/<maintenance id>.json, dated by completion
func ReceiptKey(prefix string, id uuid.UUID, completedAt time.Time) string {
	completedAt = completedAt.UTC()
	return path.Join(prefix,
		fmt.Sprintf("%04d", completedAt.Year()),
		fmt.Sprintf("%02d", int(completedAt.Month())),
		id.String()+".json")
}

// ProcessMaintenanceCompleted handles TypeMaintenanceCompleted
func (p *ArchiveProcessor) ProcessMaintenanceCompleted(ctx context.Context, t *asynq.Task) error {
	var event ports.MaintenanceCompletedEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	maintenance, err := p.maintenances.FindByID(ctx, event.MaintenanceID)
	if err != nil {
		return fmt.Errorf("failed to load maintenance: %w", err)
	}
	if maintenance == nil {
		p.logger.WarnContext(ctx, "maintenance deleted before archiving",
			slog.String("maintenance_id", event.MaintenanceID.String()))
		return nil
	}

	receipt := MaintenanceReceipt{
		Maintenance: ports.NewMaintenanceResponse(maintenance),
		Lines:       make([]ReceiptLine, 0, len(event.ConsumedParts)),
		PartsValue:  decimal.Zero,
		ArchivedAt:  time.Now().UTC(),
	}

	for _, consumed := range event.ConsumedParts {
		line := ReceiptLine{
			PartID:    consumed.PartID,
			Quantity:  consumed.Quantity,
			UnitPrice: decimal.Zero,
			LineTotal: decimal.Zero,
		}

		part, err := p.parts.FindByID(ctx, consumed.PartID)
		if err != nil {
			return fmt.Errorf("failed to load part %s: %w", consumed.PartID, err)
		}
		if part != nil {
			line.Name = part.Name
			line.ReferenceNumber = part.ReferenceNumber
			line.UnitPrice = part.UnitPrice
			line.LineTotal = part.UnitPrice.Mul(decimal.NewFromInt(int64(consumed.Quantity)))
		}

		receipt.Lines = append(receipt.Lines, line)
		receipt.PartsValue = receipt.PartsValue.Add(line.LineTotal)
	}

	body, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal receipt: %w", err)
	}

	completedAt := event.CompletedAt
	if maintenance.ActualDate != nil {
		completedAt = *maintenance.ActualDate
	}
	key := ReceiptKey(p.prefix, maintenance.ID, completedAt)

	location, err := p.storage.Upload(ctx, key, bytes.NewReader(body), "application/json")
	if err != nil {
		return fmt.Errorf("failed to upload receipt: %w", err)
	}

	p.logger.InfoContext(ctx, "maintenance receipt archived",
		slog.String("maintenance_id", maintenance.ID.String()),
		slog.String("location", location),
		slog.String("parts_value", receipt.PartsValue.StringFixed(2)))

	return nil
}
