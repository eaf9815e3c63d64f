// internal/workers/archive_processor_test.go
package workers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/core/ports"
	"github.com/ammerola/motofleet-be/internal/workers"
	"github.com/ammerola/motofleet-be/test/helpers"
	"github.com/ammerola/motofleet-be/test/mocks"
)

func TestReceiptKey(t *testing.T) {
	id := uuid.MustParse("6f1c2b9e-3d4a-4b5c-8d7e-9f0a1b2c3d4e")
	completedAt := time.Date(2025, time.March, 7, 23, 30, 0, 0, time.FixedZone("UTC-2", -2*3600))

	assert.Equal(t,
		"maintenances/2025/03/6f1c2b9e-3d4a-4b5c-8d7e-9f0a1b2c3d4e.json",
		workers.ReceiptKey("maintenances", id, completedAt.AddDate(0, 0, -1)))
	assert.Equal(t,
		"archive/2025/03/6f1c2b9e-3d4a-4b5c-8d7e-9f0a1b2c3d4e.json",
		workers.ReceiptKey("archive", id, time.Date(2025, time.March, 31, 12, 0, 0, 0, time.UTC)))
}

func TestArchiveProcessor_ProcessMaintenanceCompleted(t *testing.T) {
	moto := helpers.CreateTestMotorcycle()
	filter := helpers.CreateTestPart(func(p *domain.InventoryPart) {
		p.UnitPrice = decimal.RequireFromString("12.50")
	})
	removedPartID := uuid.New()
	completedAt := time.Date(2025, time.March, 7, 10, 0, 0, 0, time.UTC)

	completed := helpers.CreateTestMaintenance(moto.ID, func(m *domain.Maintenance) {
		m.Status = domain.StatusCompleted
		m.ActualDate = &completedAt
		m.ReplacedParts = []domain.ReplacedPart{
			{PartID: filter.ID, Quantity: 2},
			{PartID: removedPartID, Quantity: 1},
		}
	})

	event := ports.MaintenanceCompletedEvent{
		MaintenanceID: completed.ID,
		MotorcycleID:  moto.ID,
		CompletedAt:   completedAt,
		ConsumedParts: completed.ReplacedParts,
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	tests := []struct {
		name          string
		payload       []byte
		setupMocks    func(*mocks.MockMaintenanceRepository, *mocks.MockInventoryPartRepository, *mocks.MockObjectStorage)
		expectedError bool
		errorContains string
	}{
		{
			name:    "uploads_valued_receipt",
			payload: payload,
			setupMocks: func(maint *mocks.MockMaintenanceRepository, parts *mocks.MockInventoryPartRepository, storage *mocks.MockObjectStorage) {
				maint.EXPECT().FindByID(gomock.Any(), completed.ID).Return(completed, nil)
				parts.EXPECT().FindByID(gomock.Any(), filter.ID).Return(filter, nil)
				parts.EXPECT().FindByID(gomock.Any(), removedPartID).Return(nil, nil)
				storage.EXPECT().
					Upload(gomock.Any(), gomock.Any(), gomock.Any(), "application/json").
					DoAndReturn(func(_ context.Context, key string, body io.Reader, _ string) (string, error) {
						assert.Equal(t, "maintenances/2025/03/"+completed.ID.String()+".json", key)

						var receipt workers.MaintenanceReceipt
						require.NoError(t, json.NewDecoder(body).Decode(&receipt))
						require.Len(t, receipt.Lines, 2)
						assert.Equal(t, filter.ReferenceNumber, receipt.Lines[0].ReferenceNumber)
						assert.True(t, decimal.RequireFromString("25").Equal(receipt.Lines[0].LineTotal))
						assert.True(t, receipt.Lines[1].LineTotal.IsZero())
						assert.True(t, decimal.RequireFromString("25").Equal(receipt.PartsValue))
						assert.Equal(t, completed.ID, receipt.Maintenance.ID)
						return "s3://motofleet-archive/" + key, nil
					})
			},
		},
		{
			name:    "deleted_maintenance_is_skipped",
			payload: payload,
			setupMocks: func(maint *mocks.MockMaintenanceRepository, _ *mocks.MockInventoryPartRepository, _ *mocks.MockObjectStorage) {
				maint.EXPECT().FindByID(gomock.Any(), completed.ID).Return(nil, nil)
			},
		},
		{
			name:    "upload_failure_is_retried",
			payload: payload,
			setupMocks: func(maint *mocks.MockMaintenanceRepository, parts *mocks.MockInventoryPartRepository, storage *mocks.MockObjectStorage) {
				maint.EXPECT().FindByID(gomock.Any(), completed.ID).Return(completed, nil)
				parts.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(filter, nil).Times(2)
				storage.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("access denied"))
			},
			expectedError: true,
			errorContains: "failed to upload receipt",
		},
		{
			name:    "repository_failure_is_retried",
			payload: payload,
			setupMocks: func(maint *mocks.MockMaintenanceRepository, _ *mocks.MockInventoryPartRepository, _ *mocks.MockObjectStorage) {
				maint.EXPECT().FindByID(gomock.Any(), completed.ID).Return(nil, errors.New("connection reset"))
			},
			expectedError: true,
			errorContains: "connection reset",
		},
		{
			name:          "malformed_payload",
			payload:       []byte("not json"),
			setupMocks:    func(*mocks.MockMaintenanceRepository, *mocks.MockInventoryPartRepository, *mocks.MockObjectStorage) {},
			expectedError: true,
			errorContains: "unmarshal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			maint := mocks.NewMockMaintenanceRepository(ctrl)
			parts := mocks.NewMockInventoryPartRepository(ctrl)
			storage := mocks.NewMockObjectStorage(ctrl)
			tt.setupMocks(maint, parts, storage)

			processor := workers.NewArchiveProcessor(maint, parts, storage, "maintenances", helpers.TestLogger())
			err := processor.ProcessMaintenanceCompleted(context.Background(),
				asynq.NewTask(workers.TypeMaintenanceCompleted, tt.payload))

			if !tt.expectedError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}
