// internal/adapters/db/inventory_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/core/ports"
)

const uniqueViolation = "23505"

var partColumns = []string{
	"id", "name", "category", "reference_number",
	"current_stock", "min_stock_threshold", "unit_price",
	"motorcycle_models", "created_at", "updated_at",
}

// querier is satisfied by both *Database and pgx.Tx
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// inventoryPartRepository implements ports.InventoryPartRepository
type inventoryPartRepository struct {
	db     querier
	logger *slog.Logger
}

// NewInventoryPartRepository creates a new inventory part repository
func NewInventoryPartRepository(db ports.Database, logger *slog.Logger) ports.InventoryPartRepository {
	return newInventoryPartRepository(db, logger)
}

func newInventoryPartRepository(q querier, logger *slog.Logger) *inventoryPartRepository {
	return &inventoryPartRepository{
		db:     q,
		logger: logger.With(slog.String("repository", "inventory_parts")),
	}
}

// Save inserts a new part. A reference number already in use is a validation error.
func (r *inventoryPartRepository) Save(ctx context.Context, part *domain.InventoryPart) error {
	query := `
		INSERT INTO inventory_parts (
			id, name, category, reference_number,
			current_stock, min_stock_threshold, unit_price,
			motorcycle_models, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	models := part.MotorcycleModels
	if models == nil {
		models = []string{}
	}

	_, err := r.db.Exec(ctx, query,
		part.ID, part.Name, string(part.Category), part.ReferenceNumber,
		part.CurrentStock, part.MinStockThreshold, part.UnitPrice,
		models, part.CreatedAt, part.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.NewValidationError("reference_number",
				fmt.Sprintf("%s is already in use", part.ReferenceNumber))
		}
		return fmt.Errorf("failed to save inventory part: %w", err)
	}

	r.logger.DebugContext(ctx, "inventory part saved",
		slog.String("part_id", part.ID.String()),
		slog.String("reference_number", part.ReferenceNumber))

	return nil
}

// FindByID returns nil, nil when the part does not exist
func (r *inventoryPartRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.InventoryPart, error) {
	return r.findOne(ctx, id, "")
}

// FindByIDForUpdate locks the row until the surrounding transaction ends
func (r *inventoryPartRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.InventoryPart, error) {
	return r.findOne(ctx, id, " FOR UPDATE")
}

func (r *inventoryPartRepository) findOne(ctx context.Context, id uuid.UUID, suffix string) (*domain.InventoryPart, error) {
	query := `SELECT ` + strings.Join(partColumns, ", ") + ` FROM inventory_parts WHERE id = $1` + suffix

	part, err := ScanOne(r.db.QueryRow(ctx, query, id), scanPart)
	if err != nil {
		return nil, fmt.Errorf("failed to find inventory part: %w", err)
	}
	return part, nil
}

// FindAll retrieves parts with filtering, sorting and pagination
func (r *inventoryPartRepository) FindAll(ctx context.Context, params ports.PartListParams) ([]*domain.InventoryPart, int64, error) {
	filters := squirrel.And{}
	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := "%" + search + "%"
		filters = append(filters, squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"reference_number": pattern},
		})
	}
	if params.Category != "" {
		filters = append(filters, squirrel.Eq{"category": params.Category})
	}
	if model := strings.TrimSpace(params.Model); model != "" {
		filters = append(filters, squirrel.Expr(
			"(cardinality(motorcycle_models) = 0 OR EXISTS (SELECT 1 FROM unnest(motorcycle_models) m WHERE LOWER(m) = LOWER(?)))",
			model))
	}
	if params.LowStockOnly {
		filters = append(filters, squirrel.Expr("current_stock <= min_stock_threshold"))
	}

	countSQL, countArgs, err := squirrel.Select("COUNT(*)").
		From("inventory_parts").
		Where(filters).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory parts: %w", err)
	}

	direction := "ASC"
	if strings.EqualFold(params.SortOrder, "desc") {
		direction = "DESC"
	}
	column := "name"
	switch params.SortBy {
	case "reference_number", "current_stock", "created_at":
		column = params.SortBy
	}

	qb := squirrel.Select(partColumns...).
		From("inventory_parts").
		Where(filters).
		OrderBy(fmt.Sprintf("%s %s", column, direction), fmt.Sprintf("id %s", direction)).
		PlaceholderFormat(squirrel.Dollar)

	if params.PageSize > 0 {
		page := max(params.Page, 1)
		qb = qb.Limit(uint64(params.PageSize)).Offset(uint64((page - 1) * params.PageSize))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	parts, err := r.queryParts(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return parts, total, nil
}

// FindLowStockParts returns every part at or below its threshold, emptiest first
func (r *inventoryPartRepository) FindLowStockParts(ctx context.Context) ([]*domain.InventoryPart, error) {
	query := `SELECT ` + strings.Join(partColumns, ", ") + `
		FROM inventory_parts
		WHERE current_stock <= min_stock_threshold
		ORDER BY current_stock ASC, name ASC`

	return r.queryParts(ctx, query)
}

// AdjustStock moves current_stock by delta in a single conditional UPDATE, so
// concurrent callers can never drive it below zero.
func (r *inventoryPartRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*domain.InventoryPart, error) {
	query := `
		UPDATE inventory_parts
		SET current_stock = current_stock + $2, updated_at = $3
		WHERE id = $1 AND current_stock + $2 >= 0
		RETURNING ` + strings.Join(partColumns, ", ")

	part, err := scanPart(r.db.QueryRow(ctx, query, id, delta, time.Now().UTC()))
	if err == nil {
		return part, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	var available int
	err = r.db.QueryRow(ctx, `SELECT current_stock FROM inventory_parts WHERE id = $1`, id).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewPartNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to read stock: %w", err)
	}
	return nil, domain.NewInsufficientStockError(id, -delta, available)
}

// Delete performs a hard delete
func (r *inventoryPartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inventory_parts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory part: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewPartNotFoundError(id)
	}

	r.logger.InfoContext(ctx, "inventory part deleted",
		slog.String("part_id", id.String()))

	return nil
}

func (r *inventoryPartRepository) queryParts(ctx context.Context, query string, args ...any) ([]*domain.InventoryPart, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory parts: %w", err)
	}

	parts, err := ScanMany(rows, scanPart)
	if err != nil {
		return nil, fmt.Errorf("failed to scan inventory parts: %w", err)
	}
	return parts, nil
}

func scanPart(row pgx.Row) (*domain.InventoryPart, error) {
	part := &domain.InventoryPart{}
	var category string

	err := row.Scan(
		&part.ID, &part.Name, &category, &part.ReferenceNumber,
		&part.CurrentStock, &part.MinStockThreshold, &part.UnitPrice,
		&part.MotorcycleModels, &part.CreatedAt, &part.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	part.Category = domain.PartCategory(category)
	return part, nil
}
