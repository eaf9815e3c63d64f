// internal/adapters/db/motorcycle_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/core/ports"
)

type motorcycleRepository struct {
	db     querier
	logger *slog.Logger
}

// NewMotorcycleRepository creates a new motorcycle repository
func NewMotorcycleRepository(db ports.Database, logger *slog.Logger) ports.MotorcycleRepository {
	return &motorcycleRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "motorcycles")),
	}
}

func (r *motorcycleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Motorcycle, error) {
	query := `
		SELECT id, brand, model, year, vin, COALESCE(license_plate, ''), mileage, created_at, updated_at
		FROM motorcycles
		WHERE id = $1`

	m := &domain.Motorcycle{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Brand, &m.Model, &m.Year, &m.VIN, &m.LicensePlate,
		&m.Mileage, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find motorcycle: %w", err)
	}
	return m, nil
}

// Save upserts on VIN so the seeder can be rerun
func (r *motorcycleRepository) Save(ctx context.Context, m *domain.Motorcycle) error {
	query := `
		INSERT INTO motorcycles (id, brand, model, year, vin, license_plate, mileage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)
		ON CONFLICT (vin) DO UPDATE SET
			brand = EXCLUDED.brand,
			model = EXCLUDED.model,
			year = EXCLUDED.year,
			license_plate = EXCLUDED.license_plate,
			mileage = EXCLUDED.mileage,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query,
		m.ID, m.Brand, m.Model, m.Year, m.VIN, m.LicensePlate,
		m.Mileage, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save motorcycle: %w", err)
	}

	r.logger.DebugContext(ctx, "motorcycle saved", slog.String("vin", m.VIN))
	return nil
}
