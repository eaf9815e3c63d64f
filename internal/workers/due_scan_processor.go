// internal/workers/due_scan_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/core/ports"
)

const dueScanLockKey = "maintenance:due_scan"

// DueScanProcessor sends a daily reminder listing every scheduled maintenance that is due.
// Only one worker scans at a time; the others back off while the lock is held.
type DueScanProcessor struct {
	maintenances ports.MaintenanceRepository
	motorcycles  ports.MotorcycleRepository
	locker       ports.Locker
	mailer       ports.Mailer
	recipients   []string
	lockTTL      time.Duration
	location     *time.Location
	now          func() time.Time
	logger       *slog.Logger
}

// DueScanConfig holds the scan settings
type DueScanConfig struct {
	Recipients []string
	LockTTL    time.Duration
	Location   *time.Location
	// Now defaults to time.Now
	Now func() time.Time
}

// NewDueScanProcessor creates a new due scan processor
func NewDueScanProcessor(
	maintenances ports.MaintenanceRepository,
	motorcycles ports.MotorcycleRepository,
	locker ports.Locker,
	mailer ports.Mailer,
	cfg DueScanConfig,
	logger *slog.Logger,
) *DueScanProcessor {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 5 * time.Minute
	}
	return &DueScanProcessor{
		maintenances: maintenances,
		motorcycles:  motorcycles,
		locker:       locker,
		mailer:       mailer,
		recipients:   cfg.Recipients,
		lockTTL:      cfg.LockTTL,
		location:     cfg.Location,
		now:          cfg.Now,
		logger:       logger.With(slog.String("processor", "due_scan")),
	}
}

// ProcessDueScan handles TypeDueMaintenanceScan
func (p *DueScanProcessor) ProcessDueScan(ctx context.Context, t *asynq.Task) error {
	var payload DueScanPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	token, ok, err := p.locker.Acquire(ctx, dueScanLockKey, p.lockTTL)
	if err != nil {
		return fmt.Errorf("failed to acquire due scan lock: %w", err)
	}
	if !ok {
		p.logger.InfoContext(ctx, "due scan already running elsewhere, skipping")
		return nil
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := p.locker.Release(releaseCtx, dueScanLockKey, token); err != nil {
			p.logger.WarnContext(ctx, "failed to release due scan lock", slog.String("error", err.Error()))
		}
	}()

	date := payload.Date
	if date.IsZero() {
		date = p.now()
	}
	date = endOfDay(date.In(p.location))

	due, err := p.maintenances.FindDueMaintenances(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to find due maintenances: %w", err)
	}

	log := p.logger.With(slog.String("date", date.Format(time.DateOnly)), slog.Int("due", len(due)))

	if len(due) == 0 {
		log.InfoContext(ctx, "no maintenance due")
		return nil
	}
	if len(p.recipients) == 0 {
		log.WarnContext(ctx, "due maintenance reminder dropped, no recipients configured")
		return nil
	}

	body, err := p.reminderBody(ctx, date, due)
	if err != nil {
		return err
	}

	email := ports.Email{
		To:       p.recipients,
		Subject:  fmt.Sprintf("%d maintenance job(s) due on %s", len(due), date.Format(time.DateOnly)),
		TextBody: body,
	}
	if err := p.mailer.Send(ctx, email); err != nil {
		return fmt.Errorf("failed to send due maintenance reminder: %w", err)
	}

	log.InfoContext(ctx, "due maintenance reminder sent")
	return nil
}

func (p *DueScanProcessor) reminderBody(ctx context.Context, date time.Time, due []*domain.Maintenance) (string, error) {
	names := make(map[uuid.UUID]string)

	var b strings.Builder
	fmt.Fprintf(&b, "Maintenance due on or before %s:\n\n", date.Format(time.DateOnly))
	for _, m := range due {
		name, seen := names[m.MotorcycleID]
		if !seen {
			moto, err := p.motorcycles.FindByID(ctx, m.MotorcycleID)
			if err != nil {
				return "", fmt.Errorf("failed to load motorcycle %s: %w", m.MotorcycleID, err)
			}
			name = m.MotorcycleID.String()
			if moto != nil {
				name = moto.DisplayName()
			}
			names[m.MotorcycleID] = name
		}

		overdue := ""
		if days := int(date.Sub(m.ScheduledDate).Hours() / 24); days > 0 {
			overdue = fmt.Sprintf(" (%d day(s) late)", days)
		}
		fmt.Fprintf(&b, "- %s  %-10s  %s%s\n",
			m.ScheduledDate.In(p.location).Format(time.DateOnly), m.Type, name, overdue)
	}
	return b.String(), nil
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999999999, t.Location())
}
