// internal/workers/low_stock_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/ammerola/motofleet-be/internal/core/ports"
)

// LowStockProcessor e-mails the stock managers when a part falls to its threshold
type LowStockProcessor struct {
	mailer     ports.Mailer
	recipients []string
	logger     *slog.Logger
}

// NewLowStockProcessor creates a new low stock processor
func NewLowStockProcessor(mailer ports.Mailer, recipients []string, logger *slog.Logger) *LowStockProcessor {
	return &LowStockProcessor{
		mailer:     mailer,
		recipients: recipients,
		logger:     logger.With(slog.String("processor", "low_stock")),
	}
}

// ProcessLowStockAlert handles TypeLowStockAlert
func (p *LowStockProcessor) ProcessLowStockAlert(ctx context.Context, t *asynq.Task) error {
	var alert ports.LowStockAlert
	if err := json.Unmarshal(t.Payload(), &alert); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log := p.logger.With(
		slog.String("part_id", alert.PartID.String()),
		slog.String("reference_number", alert.ReferenceNumber),
		slog.Int("current_stock", alert.CurrentStock))

	if len(p.recipients) == 0 {
		log.WarnContext(ctx, "low stock alert dropped, no recipients configured")
		return nil
	}

	email := ports.Email{
		To:       p.recipients,
		Subject:  fmt.Sprintf("Low stock: %s (%s)", alert.Name, alert.ReferenceNumber),
		TextBody: lowStockBody(alert),
	}
	if err := p.mailer.Send(ctx, email); err != nil {
		return fmt.Errorf("failed to send low stock alert: %w", err)
	}

	log.InfoContext(ctx, "low stock alert sent", slog.Int("recipients", len(p.recipients)))
	return nil
}

func lowStockBody(alert ports.LowStockAlert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Part %s (%s) is running low.\n\n", alert.Name, alert.ReferenceNumber)
	fmt.Fprintf(&b, "Current stock:   %d\n", alert.CurrentStock)
	fmt.Fprintf(&b, "Alert threshold: %d\n", alert.MinStockThreshold)
	fmt.Fprintf(&b, "Suggested order: %d\n", alert.MinStockThreshold-alert.CurrentStock+1)
	return b.String()
}
