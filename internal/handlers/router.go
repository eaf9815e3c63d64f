// internal/handlers/router.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ammerola/motofleet-be/internal/handlers/middleware"
	"github.com/ammerola/motofleet-be/internal/pkg/config"
)

const apiV1 = "/api/v1"

// RouterDeps holds the handlers mounted by NewRouter. A nil Health leaves /health and /ready unmounted.
type RouterDeps struct {
	Maintenance *MaintenanceHandler
	Inventory   *InventoryHandler
	Export      *ExportHandler
	Health      *HealthHandler
}

// NewRouter builds the API mux wrapped in the middleware chain. ctx bounds the
// lifetime of the rate limiter's background cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, deps RouterDeps, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	if deps.Health != nil {
		mux.HandleFunc("GET /health", deps.Health.Health)
		mux.HandleFunc("GET /ready", deps.Health.Readiness)
	}

	m := deps.Maintenance
	mux.HandleFunc("POST "+apiV1+"/maintenances", m.CreateMaintenance)
	mux.HandleFunc("GET "+apiV1+"/maintenances", m.ListMaintenances)
	mux.HandleFunc("GET "+apiV1+"/maintenances/due", m.ListDue)
	mux.HandleFunc("GET "+apiV1+"/maintenances/{id}", m.GetMaintenance)
	mux.HandleFunc("PATCH "+apiV1+"/maintenances/{id}", m.UpdateMaintenance)
	mux.HandleFunc("POST "+apiV1+"/maintenances/{id}/start", m.StartMaintenance)
	mux.HandleFunc("POST "+apiV1+"/maintenances/{id}/complete", m.CompleteMaintenance)
	mux.HandleFunc("POST "+apiV1+"/maintenances/{id}/cancel", m.CancelMaintenance)
	mux.HandleFunc("DELETE "+apiV1+"/maintenances/{id}", m.DeleteMaintenance)

	inv := deps.Inventory
	mux.HandleFunc("POST "+apiV1+"/inventory/parts", inv.CreatePart)
	mux.HandleFunc("GET "+apiV1+"/inventory/parts", inv.ListParts)
	mux.HandleFunc("GET "+apiV1+"/inventory/parts/low-stock", inv.LowStockReport)
	mux.HandleFunc("GET "+apiV1+"/inventory/parts/low-stock/export", deps.Export.ExportLowStock)
	mux.HandleFunc("GET "+apiV1+"/inventory/parts/{id}", inv.GetPart)
	mux.HandleFunc("POST "+apiV1+"/inventory/parts/{id}/stock", inv.AdjustStock)
	mux.HandleFunc("DELETE "+apiV1+"/inventory/parts/{id}", inv.DeletePart)

	chain := []middleware.Middleware{
		middleware.RequestID(cfg.Security.RequestIDHeader),
		middleware.Logger(logger, cfg.Security.TrustedProxies),
		middleware.Recovery(logger),
	}
	if cfg.Security.SecureHeaders {
		chain = append(chain, middleware.SecureHeaders)
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		chain = append(chain, middleware.CORS(cfg.Security.AllowedOrigins))
	}
	if cfg.Security.RateLimitRequests > 0 {
		chain = append(chain, middleware.RateLimit(ctx,
			cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration, cfg.Security.TrustedProxies))
	}

	return middleware.Chain(mux, chain...)
}
