// internal/adapters/db/maintenance_repository.go
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/core/ports"
)

var maintenanceColumns = []string{
	"id", "motorcycle_id", "type", "status", "scheduled_date", "actual_date",
	"mileage_at_maintenance", "technician_notes", "replaced_parts", "total_cost",
	"next_maintenance_recommendation", "created_at", "updated_at",
}

// maintenanceRepository implements ports.MaintenanceRepository
type maintenanceRepository struct {
	db     querier
	logger *slog.Logger
}

// NewMaintenanceRepository creates a new maintenance repository
func NewMaintenanceRepository(db ports.Database, logger *slog.Logger) ports.MaintenanceRepository {
	return newMaintenanceRepository(db, logger)
}

func newMaintenanceRepository(q querier, logger *slog.Logger) *maintenanceRepository {
	return &maintenanceRepository{
		db:     q,
		logger: logger.With(slog.String("repository", "maintenances")),
	}
}

// Save inserts a new maintenance record
func (r *maintenanceRepository) Save(ctx context.Context, m *domain.Maintenance) error {
	parts, err := encodeReplacedParts(m.ReplacedParts)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO maintenances (
			id, motorcycle_id, type, status, scheduled_date, actual_date,
			mileage_at_maintenance, technician_notes, replaced_parts, total_cost,
			next_maintenance_recommendation, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = r.db.Exec(ctx, query,
		m.ID, m.MotorcycleID, string(m.Type), string(m.Status), m.ScheduledDate, m.ActualDate,
		m.MileageAtMaintenance, m.TechnicianNotes, parts, nullDecimal(m.TotalCost),
		m.NextMaintenanceRecommendation, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save maintenance: %w", err)
	}

	r.logger.DebugContext(ctx, "maintenance saved",
		slog.String("maintenance_id", m.ID.String()),
		slog.String("status", string(m.Status)))

	return nil
}

// Update overwrites every mutable column of the record
func (r *maintenanceRepository) Update(ctx context.Context, m *domain.Maintenance) error {
	tag, err := r.update(ctx, m, nil)
	if err != nil {
		return err
	}
	if tag == 0 {
		return domain.NewMaintenanceNotFoundError(m.ID)
	}
	return nil
}

// CompareAndUpdate writes m only while the stored status is one of expected
func (r *maintenanceRepository) CompareAndUpdate(ctx context.Context, m *domain.Maintenance, expected []domain.MaintenanceStatus) error {
	statuses := make([]string, len(expected))
	for i, s := range expected {
		statuses[i] = string(s)
	}

	affected, err := r.update(ctx, m, statuses)
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var current string
	err = r.db.QueryRow(ctx, `SELECT status FROM maintenances WHERE id = $1`, m.ID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewMaintenanceNotFoundError(m.ID)
		}
		return fmt.Errorf("failed to read maintenance status: %w", err)
	}
	return domain.NewInvalidStateTransitionError(domain.MaintenanceStatus(current), m.Status)
}

func (r *maintenanceRepository) update(ctx context.Context, m *domain.Maintenance, statuses []string) (int64, error) {
	parts, err := encodeReplacedParts(m.ReplacedParts)
	if err != nil {
		return 0, err
	}

	qb := squirrel.Update("maintenances").
		Set("type", string(m.Type)).
		Set("status", string(m.Status)).
		Set("scheduled_date", m.ScheduledDate).
		Set("actual_date", m.ActualDate).
		Set("mileage_at_maintenance", m.MileageAtMaintenance).
		Set("technician_notes", m.TechnicianNotes).
		Set("replaced_parts", parts).
		Set("total_cost", nullDecimal(m.TotalCost)).
		Set("next_maintenance_recommendation", m.NextMaintenanceRecommendation).
		Set("updated_at", m.UpdatedAt).
		Where("id = ?", m.ID).
		PlaceholderFormat(squirrel.Dollar)
	if statuses != nil {
		qb = qb.Where("status = ANY(?)", statuses)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update maintenance: %w", err)
	}
	return tag.RowsAffected(), nil
}

// FindByID returns nil, nil when the maintenance does not exist
func (r *maintenanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Maintenance, error) {
	return r.findOne(ctx, id, "")
}

// FindByIDForUpdate locks the row until the surrounding transaction ends
func (r *maintenanceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Maintenance, error) {
	return r.findOne(ctx, id, " FOR UPDATE")
}

func (r *maintenanceRepository) findOne(ctx context.Context, id uuid.UUID, suffix string) (*domain.Maintenance, error) {
	query := `SELECT ` + strings.Join(maintenanceColumns, ", ") + ` FROM maintenances WHERE id = $1` + suffix

	m, err := ScanOne(r.db.QueryRow(ctx, query, id), scanMaintenance)
	if err != nil {
		return nil, fmt.Errorf("failed to find maintenance: %w", err)
	}
	return m, nil
}

// FindAll retrieves maintenances with filtering and pagination, ordered by scheduled date
func (r *maintenanceRepository) FindAll(ctx context.Context, params ports.MaintenanceListParams) ([]*domain.Maintenance, int64, error) {
	filters := squirrel.And{}
	if params.MotorcycleID != nil {
		filters = append(filters, squirrel.Expr("motorcycle_id = ?", *params.MotorcycleID))
	}
	if params.Status != "" {
		filters = append(filters, squirrel.Eq{"status": params.Status})
	}
	if params.Type != "" {
		filters = append(filters, squirrel.Eq{"type": params.Type})
	}
	if params.ScheduledFrom != nil {
		filters = append(filters, squirrel.GtOrEq{"scheduled_date": *params.ScheduledFrom})
	}
	if params.ScheduledTo != nil {
		filters = append(filters, squirrel.LtOrEq{"scheduled_date": *params.ScheduledTo})
	}

	countSQL, countArgs, err := squirrel.Select("COUNT(*)").
		From("maintenances").
		Where(filters).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count maintenances: %w", err)
	}

	direction := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		direction = "ASC"
	}

	qb := squirrel.Select(maintenanceColumns...).
		From("maintenances").
		Where(filters).
		OrderBy("scheduled_date "+direction, "id "+direction).
		PlaceholderFormat(squirrel.Dollar)

	if params.PageSize > 0 {
		page := max(params.Page, 1)
		qb = qb.Limit(uint64(params.PageSize)).Offset(uint64((page - 1) * params.PageSize))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	items, err := r.queryMaintenances(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindDueMaintenances is read-only; calling it twice for the same date yields the same list
func (r *maintenanceRepository) FindDueMaintenances(ctx context.Context, date time.Time) ([]*domain.Maintenance, error) {
	query := `SELECT ` + strings.Join(maintenanceColumns, ", ") + `
		FROM maintenances
		WHERE status = $1 AND scheduled_date <= $2
		ORDER BY scheduled_date ASC, id ASC`

	return r.queryMaintenances(ctx, query, string(domain.StatusScheduled), date)
}

// Delete performs a hard delete
func (r *maintenanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM maintenances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete maintenance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewMaintenanceNotFoundError(id)
	}

	r.logger.InfoContext(ctx, "maintenance deleted",
		slog.String("maintenance_id", id.String()))

	return nil
}

func (r *maintenanceRepository) queryMaintenances(ctx context.Context, query string, args ...any) ([]*domain.Maintenance, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query maintenances: %w", err)
	}

	items, err := ScanMany(rows, scanMaintenance)
	if err != nil {
		return nil, fmt.Errorf("failed to scan maintenances: %w", err)
	}
	return items, nil
}

func scanMaintenance(row pgx.Row) (*domain.Maintenance, error) {
	m := &domain.Maintenance{}
	var (
		maintenanceType, status string
		parts                   []byte
		cost                    decimal.NullDecimal
	)

	err := row.Scan(
		&m.ID, &m.MotorcycleID, &maintenanceType, &status, &m.ScheduledDate, &m.ActualDate,
		&m.MileageAtMaintenance, &m.TechnicianNotes, &parts, &cost,
		&m.NextMaintenanceRecommendation, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Type = domain.MaintenanceType(maintenanceType)
	m.Status = domain.MaintenanceStatus(status)
	if cost.Valid {
		m.TotalCost = &cost.Decimal
	}

	m.ReplacedParts = []domain.ReplacedPart{}
	if len(parts) > 0 {
		if err := json.Unmarshal(parts, &m.ReplacedParts); err != nil {
			return nil, fmt.Errorf("failed to decode replaced parts: %w", err)
		}
	}
	return m, nil
}

func encodeReplacedParts(parts []domain.ReplacedPart) ([]byte, error) {
	if parts == nil {
		parts = []domain.ReplacedPart{}
	}
	b, err := json.Marshal(parts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode replaced parts: %w", err)
	}
	return b, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
