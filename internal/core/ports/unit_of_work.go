// internal/core/ports/unit_of_work.go
package ports

import "context"

// TxRepositories exposes repositories bound to one unit of work
type TxRepositories interface {
	Parts() InventoryPartRepository
	Maintenances() MaintenanceRepository
}

// UnitOfWork runs fn atomically. Every write made through repos is committed when fn
// returns nil and discarded when it returns an error or panics.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
