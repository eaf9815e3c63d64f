package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/motofleet-be/internal/adapters/memory"
	"github.com/ammerola/motofleet-be/internal/adapters/queue"
	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/core/ports"
	"github.com/ammerola/motofleet-be/internal/core/services"
	"github.com/ammerola/motofleet-be/internal/handlers"
	"github.com/ammerola/motofleet-be/test/helpers"
)

func newMemoryRouter(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()
	logger := helpers.TestLogger()
	cfg := helpers.LoadTestConfig()
	store := memory.NewStore()
	enqueuer := queue.NewLogEnqueuer(logger)

	maintenanceService := services.NewMaintenanceService(
		store.Maintenances(),
		services.NewCreateMaintenanceUseCase(store.Motorcycles(), store.Maintenances(), logger),
		services.NewCompleteMaintenanceUseCase(store, enqueuer, logger),
		logger,
	)
	inventoryService := services.NewInventoryService(store.Parts(), enqueuer, logger)

	router := handlers.NewRouter(t.Context(), cfg, handlers.RouterDeps{
		Maintenance: handlers.NewMaintenanceHandler(maintenanceService, logger),
		Inventory:   handlers.NewInventoryHandler(inventoryService, logger),
		Export:      handlers.NewExportHandler(inventoryService, logger),
		Health:      handlers.NewHealthHandler(store, nil, nil, cfg, logger),
	}, logger)
	return router, store
}

func TestRouter_MaintenanceLifecycle(t *testing.T) {
	router, store := newMemoryRouter(t)
	moto := helpers.CreateTestMotorcycle()
	require.NoError(t, store.Motorcycles().Save(t.Context(), moto))

	w := serve(router, http.MethodPost, "/api/v1/inventory/parts",
		`{"name":"Oil filter","category":"OIL_FILTER","reference_number":"OF-1","current_stock":5,"min_stock_threshold":2,"unit_price":"9.50"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var part domain.InventoryPart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &part))

	w = serve(router, http.MethodPost, "/api/v1/maintenances", fmt.Sprintf(
		`{"motorcycle_id":%q,"type":"PREVENTIVE","scheduled_date":"2025-06-01","mileage_at_maintenance":12000}`, moto.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created ports.MaintenanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, string(domain.StatusScheduled), created.Status)

	w = serve(router, http.MethodGet, "/api/v1/maintenances/due?date=2025-06-01", "")
	require.Equal(t, http.StatusOK, w.Code)
	var due struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &due))
	assert.Equal(t, 1, due.Count)

	completeBody := fmt.Sprintf(`{"mileage_at_maintenance":12100,"replaced_parts":[{"part_id":%q,"quantity":2}]}`, part.ID)
	w = serve(router, http.MethodPost, "/api/v1/maintenances/"+created.ID.String()+"/complete", completeBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var completed ports.MaintenanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &completed))
	assert.Equal(t, string(domain.StatusCompleted), completed.Status)
	assert.NotNil(t, completed.ActualDate)

	w = serve(router, http.MethodGet, "/api/v1/inventory/parts/"+part.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	var after domain.InventoryPart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
	assert.Equal(t, 3, after.CurrentStock)

	// a second completion is rejected and consumes nothing
	w = serve(router, http.MethodPost, "/api/v1/maintenances/"+created.ID.String()+"/complete", completeBody)
	assert.Equal(t, http.StatusConflict, w.Code)

	stored, err := store.Parts().FindByID(t.Context(), part.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.CurrentStock)
}

func TestRouter_CompleteWithShortStockLeavesEverythingUntouched(t *testing.T) {
	router, store := newMemoryRouter(t)
	ctx := t.Context()
	moto := helpers.CreateTestMotorcycle()
	require.NoError(t, store.Motorcycles().Save(ctx, moto))
	plenty := helpers.CreateTestPart(func(p *domain.InventoryPart) { p.CurrentStock = 10 })
	scarce := helpers.CreateTestPart(func(p *domain.InventoryPart) { p.CurrentStock = 1 })
	require.NoError(t, store.Parts().Save(ctx, plenty))
	require.NoError(t, store.Parts().Save(ctx, scarce))
	m := helpers.CreateTestMaintenance(moto.ID)
	require.NoError(t, store.Maintenances().Save(ctx, m))

	w := serve(router, http.MethodPost, "/api/v1/maintenances/"+m.ID.String()+"/complete", fmt.Sprintf(
		`{"mileage_at_maintenance":13000,"replaced_parts":[{"part_id":%q,"quantity":3},{"part_id":%q,"quantity":1000}]}`,
		plenty.ID, scarce.ID))

	assert.Equal(t, http.StatusConflict, w.Code)

	p, err := store.Parts().FindByID(ctx, plenty.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, p.CurrentStock)
	stored, err := store.Maintenances().FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, stored.Status)
}

func TestRouter_Health(t *testing.T) {
	router, _ := newMemoryRouter(t)

	w := serve(router, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	var health handlers.HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Services["database"].Status)
	assert.Equal(t, "disabled", health.Services["redis"].Status)

	w = serve(router, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
