// internal/adapters/db/unit_of_work.go
package db

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/ammerola/motofleet-be/internal/core/ports"
)

// UnitOfWork implements ports.UnitOfWork on a read-committed pgx transaction
type UnitOfWork struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWork creates a unit of work over db
func NewUnitOfWork(db *Database, logger *slog.Logger) *UnitOfWork {
	return &UnitOfWork{db: db, logger: logger}
}

// WithinTx runs fn with repositories bound to one transaction
func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, repos ports.TxRepositories) error) error {
	return u.db.Transaction(ctx, func(tx pgx.Tx) error {
		return fn(ctx, &txRepositories{
			parts:        newInventoryPartRepository(tx, u.logger),
			maintenances: newMaintenanceRepository(tx, u.logger),
		})
	})
}

type txRepositories struct {
	parts        *inventoryPartRepository
	maintenances *maintenanceRepository
}

func (r *txRepositories) Parts() ports.InventoryPartRepository { return r.parts }

func (r *txRepositories) Maintenances() ports.MaintenanceRepository { return r.maintenances }
