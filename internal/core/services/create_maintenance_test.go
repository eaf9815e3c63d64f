package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/core/ports"
	"github.com/ammerola/motofleet-be/internal/core/services"
	"github.com/ammerola/motofleet-be/test/helpers"
	"github.com/ammerola/motofleet-be/test/mocks"
)

func TestCreateMaintenanceUseCase_Execute(t *testing.T) {
	moto := helpers.CreateTestMotorcycle()
	validRequest := func() ports.CreateMaintenanceRequest {
		return ports.CreateMaintenanceRequest{
			MotorcycleID:         moto.ID.String(),
			Type:                 "preventive",
			ScheduledDate:        "2025-07-01",
			MileageAtMaintenance: "18000.6",
			TotalCost:            "120.00",
		}
	}

	tests := []struct {
		name          string
		mutate        func(*ports.CreateMaintenanceRequest)
		setupMocks    func(*mocks.MockMotorcycleRepository, *mocks.MockMaintenanceRepository)
		expectedError error
		errorContains string
		validate      func(*testing.T, *ports.MaintenanceResponse)
	}{
		{
			name:   "schedules_maintenance",
			mutate: func(*ports.CreateMaintenanceRequest) {},
			setupMocks: func(motos *mocks.MockMotorcycleRepository, repo *mocks.MockMaintenanceRepository) {
				motos.EXPECT().FindByID(gomock.Any(), moto.ID).Return(moto, nil)
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, m *domain.Maintenance) error {
						assert.Equal(t, domain.StatusScheduled, m.Status)
						assert.Nil(t, m.ActualDate)
						return nil
					})
			},
			validate: func(t *testing.T, resp *ports.MaintenanceResponse) {
				assert.Equal(t, "PREVENTIVE", resp.Type)
				assert.Equal(t, "SCHEDULED", resp.Status)
				assert.Equal(t, 18000, resp.MileageAtMaintenance)
				assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), resp.ScheduledDate)
				require.NotNil(t, resp.TotalCost)
				assert.Equal(t, "120", resp.TotalCost.String())
			},
		},
		{
			name:          "invalid_motorcycle_id",
			mutate:        func(r *ports.CreateMaintenanceRequest) { r.MotorcycleID = "moto-1" },
			setupMocks:    func(*mocks.MockMotorcycleRepository, *mocks.MockMaintenanceRepository) {},
			expectedError: domain.ErrValidation,
			errorContains: "motorcycle_id",
		},
		{
			name:          "unknown_type_rejected_before_lookup",
			mutate:        func(r *ports.CreateMaintenanceRequest) { r.Type = "ROUTINE" },
			setupMocks:    func(*mocks.MockMotorcycleRepository, *mocks.MockMaintenanceRepository) {},
			expectedError: domain.ErrValidation,
			errorContains: "unknown maintenance type",
		},
		{
			name:          "negative_mileage",
			mutate:        func(r *ports.CreateMaintenanceRequest) { r.MileageAtMaintenance = -5 },
			setupMocks:    func(*mocks.MockMotorcycleRepository, *mocks.MockMaintenanceRepository) {},
			expectedError: domain.ErrValidation,
			errorContains: "cannot be negative",
		},
		{
			name:          "missing_scheduled_date",
			mutate:        func(r *ports.CreateMaintenanceRequest) { r.ScheduledDate = nil },
			setupMocks:    func(*mocks.MockMotorcycleRepository, *mocks.MockMaintenanceRepository) {},
			expectedError: domain.ErrValidation,
			errorContains: "scheduled_date",
		},
		{
			name:          "actual_date_on_open_job",
			mutate:        func(r *ports.CreateMaintenanceRequest) { r.ActualDate = "2025-07-02" },
			setupMocks:    func(*mocks.MockMotorcycleRepository, *mocks.MockMaintenanceRepository) {},
			expectedError: domain.ErrValidation,
			errorContains: "actual_date",
		},
		{
			name:   "unknown_motorcycle",
			mutate: func(*ports.CreateMaintenanceRequest) {},
			setupMocks: func(motos *mocks.MockMotorcycleRepository, _ *mocks.MockMaintenanceRepository) {
				motos.EXPECT().FindByID(gomock.Any(), moto.ID).Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name:   "lookup_failure",
			mutate: func(*ports.CreateMaintenanceRequest) {},
			setupMocks: func(motos *mocks.MockMotorcycleRepository, _ *mocks.MockMaintenanceRepository) {
				motos.EXPECT().FindByID(gomock.Any(), moto.ID).Return(nil, errors.New("timeout"))
			},
			errorContains: "failed to get motorcycle",
		},
		{
			name:   "save_failure",
			mutate: func(*ports.CreateMaintenanceRequest) {},
			setupMocks: func(motos *mocks.MockMotorcycleRepository, repo *mocks.MockMaintenanceRepository) {
				motos.EXPECT().FindByID(gomock.Any(), moto.ID).Return(moto, nil)
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
			},
			errorContains: "failed to save maintenance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			motos := mocks.NewMockMotorcycleRepository(ctrl)
			repo := mocks.NewMockMaintenanceRepository(ctrl)
			tt.setupMocks(motos, repo)

			uc := services.NewCreateMaintenanceUseCase(motos, repo, helpers.TestLogger())
			req := validRequest()
			tt.mutate(&req)

			resp, err := uc.Execute(context.Background(), req)

			if tt.expectedError != nil || tt.errorContains != "" {
				require.Error(t, err)
				assert.Nil(t, resp)
				if tt.expectedError != nil {
					assert.ErrorIs(t, err, tt.expectedError)
				}
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
				return
			}
			require.NoError(t, err)
			tt.validate(t, resp)
		})
	}
}

func TestCreateMaintenanceUseCase_RecordsPastCompletion(t *testing.T) {
	ctrl := gomock.NewController(t)
	moto := helpers.CreateTestMotorcycle()
	motos := mocks.NewMockMotorcycleRepository(ctrl)
	repo := mocks.NewMockMaintenanceRepository(ctrl)
	motos.EXPECT().FindByID(gomock.Any(), moto.ID).Return(moto, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	uc := services.NewCreateMaintenanceUseCase(motos, repo, helpers.TestLogger())
	resp, err := uc.Execute(context.Background(), ports.CreateMaintenanceRequest{
		MotorcycleID:         moto.ID.String(),
		Type:                 "CURATIVE",
		Status:               "completed",
		ScheduledDate:        "2025-01-10",
		ActualDate:           "2025-01-11T16:30:00Z",
		MileageAtMaintenance: 9000,
		ReplacedParts:        []domain.ReplacedPart{{PartID: uuid.New(), Quantity: 1}},
	})

	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", resp.Status)
	require.NotNil(t, resp.ActualDate)
	assert.Equal(t, 11, resp.ActualDate.Day())
}
