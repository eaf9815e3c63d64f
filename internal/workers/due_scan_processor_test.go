// internal/workers/due_scan_processor_test.go
package workers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/core/ports"
	"github.com/ammerola/motofleet-be/internal/workers"
	"github.com/ammerola/motofleet-be/test/helpers"
	"github.com/ammerola/motofleet-be/test/mocks"
)

func TestDueScanProcessor_ProcessDueScan(t *testing.T) {
	now := time.Date(2025, time.June, 10, 6, 0, 0, 0, time.UTC)
	endOfDay := time.Date(2025, time.June, 10, 23, 59, 59, 999999999, time.UTC)

	moto := helpers.CreateTestMotorcycle(func(m *domain.Motorcycle) {
		m.Brand = "Honda"
		m.Model = "CB500F"
		m.LicensePlate = "XY-987-ZZ"
	})
	late := helpers.CreateTestMaintenance(moto.ID, func(m *domain.Maintenance) {
		m.ScheduledDate = now.AddDate(0, 0, -3)
	})
	today := helpers.CreateTestMaintenance(moto.ID, func(m *domain.Maintenance) {
		m.ScheduledDate = now
		m.Type = domain.MaintenanceCurative
	})

	type deps struct {
		maint  *mocks.MockMaintenanceRepository
		motos  *mocks.MockMotorcycleRepository
		locker *mocks.MockLocker
		mailer *mocks.MockMailer
	}

	tests := []struct {
		name          string
		payload       []byte
		setupMocks    func(deps)
		expectedError bool
		errorContains string
	}{
		{
			name: "sends_reminder_for_due_jobs",
			setupMocks: func(d deps) {
				d.locker.EXPECT().Acquire(gomock.Any(), "maintenance:due_scan", time.Minute).Return("tok", true, nil)
				d.maint.EXPECT().FindDueMaintenances(gomock.Any(), endOfDay).
					Return([]*domain.Maintenance{late, today}, nil)
				d.motos.EXPECT().FindByID(gomock.Any(), moto.ID).Return(moto, nil).Times(1)
				d.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, email ports.Email) error {
						assert.Equal(t, "2 maintenance job(s) due on 2025-06-10", email.Subject)
						assert.Contains(t, email.TextBody, "Honda CB500F (XY-987-ZZ)")
						assert.Contains(t, email.TextBody, "3 day(s) late")
						assert.Contains(t, email.TextBody, "CURATIVE")
						return nil
					})
				d.locker.EXPECT().Release(gomock.Any(), "maintenance:due_scan", "tok").Return(nil)
			},
		},
		{
			name:    "payload_date_overrides_clock",
			payload: mustJSON(t, workers.DueScanPayload{Date: time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)}),
			setupMocks: func(d deps) {
				d.locker.EXPECT().Acquire(gomock.Any(), gomock.Any(), gomock.Any()).Return("tok", true, nil)
				d.maint.EXPECT().FindDueMaintenances(gomock.Any(),
					time.Date(2025, time.January, 2, 23, 59, 59, 999999999, time.UTC)).Return(nil, nil)
				d.locker.EXPECT().Release(gomock.Any(), gomock.Any(), "tok").Return(nil)
			},
		},
		{
			name: "lock_held_elsewhere_skips_scan",
			setupMocks: func(d deps) {
				d.locker.EXPECT().Acquire(gomock.Any(), gomock.Any(), gomock.Any()).Return("", false, nil)
			},
		},
		{
			name: "lock_backend_failure",
			setupMocks: func(d deps) {
				d.locker.EXPECT().Acquire(gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", false, errors.New("redis unreachable"))
			},
			expectedError: true,
			errorContains: "redis unreachable",
		},
		{
			name: "repository_failure_still_releases_lock",
			setupMocks: func(d deps) {
				d.locker.EXPECT().Acquire(gomock.Any(), gomock.Any(), gomock.Any()).Return("tok", true, nil)
				d.maint.EXPECT().FindDueMaintenances(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("timeout"))
				d.locker.EXPECT().Release(gomock.Any(), gomock.Any(), "tok").Return(nil)
			},
			expectedError: true,
			errorContains: "failed to find due maintenances",
		},
		{
			name: "mailer_failure",
			setupMocks: func(d deps) {
				d.locker.EXPECT().Acquire(gomock.Any(), gomock.Any(), gomock.Any()).Return("tok", true, nil)
				d.maint.EXPECT().FindDueMaintenances(gomock.Any(), gomock.Any()).
					Return([]*domain.Maintenance{today}, nil)
				d.motos.EXPECT().FindByID(gomock.Any(), moto.ID).Return(nil, nil)
				d.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))
				d.locker.EXPECT().Release(gomock.Any(), gomock.Any(), "tok").Return(nil)
			},
			expectedError: true,
			errorContains: "smtp down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			d := deps{
				maint:  mocks.NewMockMaintenanceRepository(ctrl),
				motos:  mocks.NewMockMotorcycleRepository(ctrl),
				locker: mocks.NewMockLocker(ctrl),
				mailer: mocks.NewMockMailer(ctrl),
			}
			tt.setupMocks(d)

			processor := workers.NewDueScanProcessor(d.maint, d.motos, d.locker, d.mailer, workers.DueScanConfig{
				Recipients: []string{"workshop@fleet.io"},
				LockTTL:    time.Minute,
				Now:        func() time.Time { return now },
			}, helpers.TestLogger())

			err := processor.ProcessDueScan(context.Background(),
				asynq.NewTask(workers.TypeDueMaintenanceScan, tt.payload))

			if !tt.expectedError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
