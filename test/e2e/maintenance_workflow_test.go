//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/motofleet-be/internal/adapters/db"
	"github.com/ammerola/motofleet-be/internal/adapters/queue"
	"github.com/ammerola/motofleet-be/internal/adapters/storage"
	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/core/ports"
	"github.com/ammerola/motofleet-be/internal/core/services"
	"github.com/ammerola/motofleet-be/internal/handlers"
	"github.com/ammerola/motofleet-be/internal/workers"
	"github.com/ammerola/motofleet-be/test/helpers"
)

type MaintenanceE2ESuite struct {
	suite.Suite
	server     *httptest.Server
	client     *http.Client
	baseURL    string
	testDB     *helpers.TestDB
	testRedis  *helpers.TestRedis
	inspector  *asynq.Inspector
	archiveDir string
	archiver   *workers.ArchiveProcessor
}

func TestMaintenanceE2E(t *testing.T) {
	suite.Run(t, new(MaintenanceE2ESuite))
}

func (s *MaintenanceE2ESuite) SetupSuite() {
	t := s.T()
	logger := helpers.TestLogger()
	cfg := helpers.LoadTestConfig()

	s.testDB = helpers.SetupTestDB(t)
	s.testRedis = helpers.SetupTestRedis(t)

	redisOpt := asynq.RedisClientOpt{Addr: s.testRedis.Server.Addr()}
	asynqClient := asynq.NewClient(redisOpt)
	s.inspector = asynq.NewInspector(redisOpt)
	t.Cleanup(func() {
		asynqClient.Close()
		s.inspector.Close()
	})

	database := s.testDB.Database
	motorcycles := db.NewMotorcycleRepository(database, logger)
	parts := db.NewInventoryPartRepository(database, logger)
	maintenances := db.NewMaintenanceRepository(database, logger)
	enqueuer := queue.NewAsynqEnqueuer(asynqClient, logger)

	maintenanceService := services.NewMaintenanceService(
		maintenances,
		services.NewCreateMaintenanceUseCase(motorcycles, maintenances, logger),
		services.NewCompleteMaintenanceUseCase(db.NewUnitOfWork(database, logger), enqueuer, logger),
		logger,
	)
	inventoryService := services.NewInventoryService(parts, enqueuer, logger)

	router := handlers.NewRouter(t.Context(), cfg, handlers.RouterDeps{
		Maintenance: handlers.NewMaintenanceHandler(maintenanceService, logger),
		Inventory:   handlers.NewInventoryHandler(inventoryService, logger),
		Export:      handlers.NewExportHandler(inventoryService, logger),
		Health:      handlers.NewHealthHandler(database, s.testRedis.Client, s.inspector, cfg, logger),
	}, logger)

	s.archiveDir = t.TempDir()
	s.archiver = workers.NewArchiveProcessor(maintenances, parts,
		storage.NewLocalStorage(s.archiveDir, logger), "receipts", logger)

	s.server = httptest.NewServer(router)
	s.baseURL = s.server.URL
	s.client = &http.Client{Timeout: 10 * time.Second}
}

func (s *MaintenanceE2ESuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
}

func (s *MaintenanceE2ESuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
	s.testRedis.Server.FlushAll()
}

func (s *MaintenanceE2ESuite) do(method, path string, body any) (*http.Response, []byte) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, data
}

func (s *MaintenanceE2ESuite) createPart(ref string, stock, threshold int, price string) domain.InventoryPart {
	resp, body := s.do(http.MethodPost, "/api/v1/inventory/parts", map[string]any{
		"name":                "Part " + ref,
		"category":            "BRAKE_PAD",
		"reference_number":    ref,
		"current_stock":       stock,
		"min_stock_threshold": threshold,
		"unit_price":          price,
		"motorcycle_models":   []string{"MT-07"},
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	var part domain.InventoryPart
	s.Require().NoError(json.Unmarshal(body, &part))
	return part
}

func (s *MaintenanceE2ESuite) TestCompleteMaintenanceWorkflow() {
	ctx := s.T().Context()
	moto := helpers.CreateTestMotorcycle()
	s.Require().NoError(db.NewMotorcycleRepository(s.testDB.Database, helpers.TestLogger()).Save(ctx, moto))

	pads := s.createPart("FA-252", 5, 4, "42.00")

	// Create
	resp, body := s.do(http.MethodPost, "/api/v1/maintenances", map[string]any{
		"motorcycle_id":          moto.ID,
		"type":                   "PREVENTIVE",
		"scheduled_date":         "2025-06-01",
		"mileage_at_maintenance": 12000,
		"replaced_parts":         []map[string]any{{"part_id": pads.ID, "quantity": 2}},
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))
	s.NotEmpty(resp.Header.Get("Location"))

	var created ports.MaintenanceResponse
	s.Require().NoError(json.Unmarshal(body, &created))

	// Due
	resp, body = s.do(http.MethodGet, "/api/v1/maintenances/due?date=2025-06-01", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var due struct {
		Count int `json:"count"`
	}
	s.Require().NoError(json.Unmarshal(body, &due))
	s.Equal(1, due.Count)

	// Complete with the planned parts
	resp, body = s.do(http.MethodPost, "/api/v1/maintenances/"+created.ID.String()+"/complete", map[string]any{
		"mileage_at_maintenance": 12150,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var completed ports.MaintenanceResponse
	s.Require().NoError(json.Unmarshal(body, &completed))
	s.Equal(string(domain.StatusCompleted), completed.Status)
	s.Require().NotNil(completed.ActualDate)

	// Stock went 5 -> 3, below the threshold of 4
	resp, body = s.do(http.MethodGet, "/api/v1/inventory/parts/"+pads.ID.String(), nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var after domain.InventoryPart
	s.Require().NoError(json.Unmarshal(body, &after))
	s.Equal(3, after.CurrentStock)

	// Background tasks
	alerts, err := s.inspector.ListPendingTasks(workers.QueueCritical)
	s.Require().NoError(err)
	s.Require().Len(alerts, 1)
	s.Equal(workers.TypeLowStockAlert, alerts[0].Type)

	archived, err := s.inspector.ListPendingTasks(workers.QueueDefault)
	s.Require().NoError(err)
	s.Require().Len(archived, 1)
	s.Equal("archive:"+created.ID.String(), archived[0].ID)

	// Run the archive task the way the worker would
	task := asynq.NewTask(archived[0].Type, archived[0].Payload)
	s.Require().NoError(s.archiver.ProcessMaintenanceCompleted(ctx, task))

	key := workers.ReceiptKey("receipts", created.ID, *completed.ActualDate)
	raw, err := os.ReadFile(filepath.Join(s.archiveDir, filepath.FromSlash(key)))
	s.Require().NoError(err)

	var receipt workers.MaintenanceReceipt
	s.Require().NoError(json.Unmarshal(raw, &receipt))
	s.Require().Len(receipt.Lines, 1)
	s.Equal(2, receipt.Lines[0].Quantity)
	s.True(decimal.RequireFromString("84.00").Equal(receipt.PartsValue))

	// Completing twice is rejected
	resp, _ = s.do(http.MethodPost, "/api/v1/maintenances/"+created.ID.String()+"/complete", map[string]any{
		"mileage_at_maintenance": 12150,
	})
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *MaintenanceE2ESuite) TestLowStockExport() {
	s.createPart("LOW-1", 1, 3, "10.00")
	s.createPart("OK-1", 10, 3, "10.00")

	resp, body := s.do(http.MethodGet, "/api/v1/inventory/parts/low-stock/export", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Contains(resp.Header.Get("Content-Disposition"), ".xlsx")

	file, err := xlsx.OpenBinary(body)
	s.Require().NoError(err)
	sheet, ok := file.Sheet[handlers.LowStockSheet]
	s.Require().True(ok)

	cell, err := sheet.Cell(1, 0)
	s.Require().NoError(err)
	s.Equal("LOW-1", cell.Value)
}

func (s *MaintenanceE2ESuite) TestValidationAndNotFound() {
	resp, body := s.do(http.MethodPost, "/api/v1/maintenances", map[string]any{
		"motorcycle_id":          "not-a-uuid",
		"type":                   "PREVENTIVE",
		"scheduled_date":         "2025-06-01",
		"mileage_at_maintenance": 100,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode, string(body))

	resp, _ = s.do(http.MethodGet, fmt.Sprintf("/api/v1/maintenances/%s", helpers.CreateTestMotorcycle().ID), nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp, body = s.do(http.MethodPost, "/api/v1/inventory/parts/"+helpers.CreateTestPart().ID.String()+"/stock", map[string]any{
		"delta": -1,
	})
	s.Equal(http.StatusNotFound, resp.StatusCode, string(body))
}

func (s *MaintenanceE2ESuite) TestHealth() {
	resp, body := s.do(http.MethodGet, "/health", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var health handlers.HealthStatus
	s.Require().NoError(json.Unmarshal(body, &health))
	s.Equal("healthy", health.Services["database"].Status)
	s.Equal("healthy", health.Services["redis"].Status)
	s.Equal("healthy", health.Services["asynq"].Status)
}
