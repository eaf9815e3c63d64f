package services_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/motofleet-be/internal/adapters/memory"
	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/core/ports"
	"github.com/ammerola/motofleet-be/internal/core/services"
	"github.com/ammerola/motofleet-be/test/helpers"
	"github.com/ammerola/motofleet-be/test/mocks"
)

type completionFixture struct {
	store       *memory.Store
	maintenance *domain.Maintenance
	oil         *domain.InventoryPart
	pads        *domain.InventoryPart
}

func newCompletionFixture(t *testing.T) completionFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	moto := helpers.CreateTestMotorcycle()
	require.NoError(t, store.Motorcycles().Save(ctx, moto))

	oil := helpers.CreateTestPart(func(p *domain.InventoryPart) { p.CurrentStock = 10; p.MinStockThreshold = 2 })
	pads := helpers.CreateTestPart(func(p *domain.InventoryPart) {
		p.Name = "Brake pads"
		p.Category = domain.CategoryBrakePad
		p.CurrentStock = 4
		p.MinStockThreshold = 3
	})
	require.NoError(t, store.Parts().Save(ctx, oil))
	require.NoError(t, store.Parts().Save(ctx, pads))

	m := helpers.CreateTestMaintenance(moto.ID)
	require.NoError(t, store.Maintenances().Save(ctx, m))

	return completionFixture{store: store, maintenance: m, oil: oil, pads: pads}
}

func (f completionFixture) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := f.store.Parts().FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.CurrentStock
}

func (f completionFixture) status(t *testing.T) domain.MaintenanceStatus {
	t.Helper()
	m, err := f.store.Maintenances().FindByID(context.Background(), f.maintenance.ID)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m.Status
}

func TestCompleteMaintenanceUseCase_Execute(t *testing.T) {
	tests := []struct {
		name          string
		prepare       func(m *domain.Maintenance, f completionFixture)
		request       func(f completionFixture) ports.CompleteMaintenanceRequest
		setupMocks    func(f completionFixture, enq *mocks.MockTaskEnqueuer)
		expectedError error
		expectedOil   int
		expectedPads  int
		expectedState domain.MaintenanceStatus
	}{
		{
			name: "consumes_requested_parts",
			request: func(f completionFixture) ports.CompleteMaintenanceRequest {
				return ports.CompleteMaintenanceRequest{
					MaintenanceID:        f.maintenance.ID,
					MileageAtMaintenance: 12500,
					ReplacedParts: []domain.ReplacedPart{
						{PartID: f.oil.ID, Quantity: 1},
						{PartID: f.oil.ID, Quantity: 2},
					},
				}
			},
			setupMocks: func(f completionFixture, enq *mocks.MockTaskEnqueuer) {
				enq.EXPECT().EnqueueMaintenanceCompleted(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, event ports.MaintenanceCompletedEvent) error {
						assert.Equal(t, f.maintenance.ID, event.MaintenanceID)
						assert.Equal(t, []domain.ReplacedPart{{PartID: f.oil.ID, Quantity: 3}}, event.ConsumedParts)
						return nil
					})
			},
			expectedOil:   7,
			expectedPads:  4,
			expectedState: domain.StatusCompleted,
		},
		{
			name: "falls_back_to_planned_parts",
			prepare: func(m *domain.Maintenance, f completionFixture) {
				m.Status = domain.StatusInProgress
				m.ReplacedParts = []domain.ReplacedPart{{PartID: f.pads.ID, Quantity: 2}}
			},
			request: func(f completionFixture) ports.CompleteMaintenanceRequest {
				return ports.CompleteMaintenanceRequest{MaintenanceID: f.maintenance.ID}
			},
			setupMocks: func(f completionFixture, enq *mocks.MockTaskEnqueuer) {
				enq.EXPECT().EnqueueMaintenanceCompleted(gomock.Any(), gomock.Any()).Return(nil)
				enq.EXPECT().EnqueueLowStockAlert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, alert ports.LowStockAlert) error {
						assert.Equal(t, f.pads.ID, alert.PartID)
						assert.Equal(t, 2, alert.CurrentStock)
						return nil
					})
			},
			expectedOil:   10,
			expectedPads:  2,
			expectedState: domain.StatusCompleted,
		},
		{
			name: "insufficient_stock_changes_nothing",
			request: func(f completionFixture) ports.CompleteMaintenanceRequest {
				return ports.CompleteMaintenanceRequest{
					MaintenanceID: f.maintenance.ID,
					ReplacedParts: []domain.ReplacedPart{
						{PartID: f.oil.ID, Quantity: 3},
						{PartID: f.pads.ID, Quantity: 1000},
					},
				}
			},
			setupMocks:    func(completionFixture, *mocks.MockTaskEnqueuer) {},
			expectedError: domain.ErrInsufficientStock,
			expectedOil:   10,
			expectedPads:  4,
			expectedState: domain.StatusScheduled,
		},
		{
			name: "unknown_part_changes_nothing",
			request: func(f completionFixture) ports.CompleteMaintenanceRequest {
				return ports.CompleteMaintenanceRequest{
					MaintenanceID: f.maintenance.ID,
					ReplacedParts: []domain.ReplacedPart{
						{PartID: f.oil.ID, Quantity: 1},
						{PartID: uuid.New(), Quantity: 1},
					},
				}
			},
			setupMocks:    func(completionFixture, *mocks.MockTaskEnqueuer) {},
			expectedError: domain.ErrNotFound,
			expectedOil:   10,
			expectedPads:  4,
			expectedState: domain.StatusScheduled,
		},
		{
			name: "cancelled_cannot_complete",
			prepare: func(m *domain.Maintenance, _ completionFixture) {
				m.Status = domain.StatusCancelled
			},
			request: func(f completionFixture) ports.CompleteMaintenanceRequest {
				return ports.CompleteMaintenanceRequest{
					MaintenanceID: f.maintenance.ID,
					ReplacedParts: []domain.ReplacedPart{{PartID: f.oil.ID, Quantity: 1}},
				}
			},
			setupMocks:    func(completionFixture, *mocks.MockTaskEnqueuer) {},
			expectedError: domain.ErrInvalidStateTransition,
			expectedOil:   10,
			expectedPads:  4,
			expectedState: domain.StatusCancelled,
		},
		{
			name: "invalid_quantity",
			request: func(f completionFixture) ports.CompleteMaintenanceRequest {
				return ports.CompleteMaintenanceRequest{
					MaintenanceID: f.maintenance.ID,
					ReplacedParts: []domain.ReplacedPart{{PartID: f.oil.ID, Quantity: -1}},
				}
			},
			setupMocks:    func(completionFixture, *mocks.MockTaskEnqueuer) {},
			expectedError: domain.ErrValidation,
			expectedOil:   10,
			expectedPads:  4,
			expectedState: domain.StatusScheduled,
		},
		{
			name: "overflowing_quantity_changes_nothing",
			request: func(f completionFixture) ports.CompleteMaintenanceRequest {
				return ports.CompleteMaintenanceRequest{
					MaintenanceID: f.maintenance.ID,
					ReplacedParts: []domain.ReplacedPart{
						{PartID: f.oil.ID, Quantity: math.MaxInt},
						{PartID: f.oil.ID, Quantity: math.MaxInt},
						{PartID: f.oil.ID, Quantity: 3},
					},
				}
			},
			setupMocks:    func(completionFixture, *mocks.MockTaskEnqueuer) {},
			expectedError: domain.ErrValidation,
			expectedOil:   10,
			expectedPads:  4,
			expectedState: domain.StatusScheduled,
		},
		{
			name: "keeps_request_order",
			request: func(f completionFixture) ports.CompleteMaintenanceRequest {
				return ports.CompleteMaintenanceRequest{
					MaintenanceID: f.maintenance.ID,
					ReplacedParts: []domain.ReplacedPart{
						{PartID: f.pads.ID, Quantity: 1},
						{PartID: f.oil.ID, Quantity: 1},
						{PartID: f.pads.ID, Quantity: 1},
					},
				}
			},
			setupMocks: func(f completionFixture, enq *mocks.MockTaskEnqueuer) {
				enq.EXPECT().EnqueueMaintenanceCompleted(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, event ports.MaintenanceCompletedEvent) error {
						assert.Equal(t, []domain.ReplacedPart{
							{PartID: f.pads.ID, Quantity: 2},
							{PartID: f.oil.ID, Quantity: 1},
						}, event.ConsumedParts)
						return nil
					})
				enq.EXPECT().EnqueueLowStockAlert(gomock.Any(), gomock.Any()).Return(nil)
			},
			expectedOil:   9,
			expectedPads:  2,
			expectedState: domain.StatusCompleted,
		},
		{
			name: "enqueue_failure_does_not_undo_completion",
			request: func(f completionFixture) ports.CompleteMaintenanceRequest {
				return ports.CompleteMaintenanceRequest{
					MaintenanceID: f.maintenance.ID,
					ReplacedParts: []domain.ReplacedPart{{PartID: f.oil.ID, Quantity: 1}},
				}
			},
			setupMocks: func(_ completionFixture, enq *mocks.MockTaskEnqueuer) {
				enq.EXPECT().EnqueueMaintenanceCompleted(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
			},
			expectedOil:   9,
			expectedPads:  4,
			expectedState: domain.StatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCompletionFixture(t)
			if tt.prepare != nil {
				stored := *f.maintenance
				tt.prepare(&stored, f)
				require.NoError(t, f.store.Maintenances().Update(context.Background(), &stored))
			}

			ctrl := gomock.NewController(t)
			enq := mocks.NewMockTaskEnqueuer(ctrl)
			tt.setupMocks(f, enq)
			uc := services.NewCompleteMaintenanceUseCase(f.store, enq, helpers.TestLogger())

			resp, err := uc.Execute(context.Background(), tt.request(f))

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, resp)
			} else {
				require.NoError(t, err)
				assert.Equal(t, string(domain.StatusCompleted), resp.Status)
				assert.NotNil(t, resp.ActualDate)
			}
			assert.Equal(t, tt.expectedOil, f.stock(t, f.oil.ID))
			assert.Equal(t, tt.expectedPads, f.stock(t, f.pads.ID))
			assert.Equal(t, tt.expectedState, f.status(t))
		})
	}
}

func TestCompleteMaintenanceUseCase_ConcurrentCompletion(t *testing.T) {
	f := newCompletionFixture(t)
	ctrl := gomock.NewController(t)
	enq := mocks.NewMockTaskEnqueuer(ctrl)
	enq.EXPECT().EnqueueMaintenanceCompleted(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	uc := services.NewCompleteMaintenanceUseCase(f.store, enq, helpers.TestLogger())

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), ports.CompleteMaintenanceRequest{
				MaintenanceID: f.maintenance.ID,
				ReplacedParts: []domain.ReplacedPart{{PartID: f.oil.ID, Quantity: 2}},
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrInvalidStateTransition):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, rejected)
	assert.Equal(t, 8, f.stock(t, f.oil.ID))
}

type failingUnitOfWork struct{ err error }

func (u failingUnitOfWork) WithinTx(context.Context, func(context.Context, ports.TxRepositories) error) error {
	return u.err
}

func TestCompleteMaintenanceUseCase_UnitOfWorkFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	enq := mocks.NewMockTaskEnqueuer(ctrl)
	uc := services.NewCompleteMaintenanceUseCase(failingUnitOfWork{err: errors.New("begin: connection refused")}, enq, helpers.TestLogger())

	resp, err := uc.Execute(context.Background(), ports.CompleteMaintenanceRequest{MaintenanceID: uuid.New()})

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCompleteMaintenanceUseCase_RequiresID(t *testing.T) {
	uc := services.NewCompleteMaintenanceUseCase(memory.NewStore(), nil, helpers.TestLogger())

	_, err := uc.Execute(context.Background(), ports.CompleteMaintenanceRequest{})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func BenchmarkCompleteMaintenance(b *testing.B) {
	ctx := context.Background()
	store := memory.NewStore()
	moto := helpers.CreateTestMotorcycle()
	part := helpers.CreateTestPart(func(p *domain.InventoryPart) { p.CurrentStock = b.N + 1 })
	if err := store.Motorcycles().Save(ctx, moto); err != nil {
		b.Fatal(err)
	}
	if err := store.Parts().Save(ctx, part); err != nil {
		b.Fatal(err)
	}
	ids := make([]uuid.UUID, b.N)
	for i := range ids {
		m := helpers.CreateTestMaintenance(moto.ID)
		if err := store.Maintenances().Save(ctx, m); err != nil {
			b.Fatal(err)
		}
		ids[i] = m.ID
	}

	uc := services.NewCompleteMaintenanceUseCase(store, discardEnqueuer{}, helpers.TestLogger())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := uc.Execute(ctx, ports.CompleteMaintenanceRequest{
			MaintenanceID: ids[i],
			ReplacedParts: []domain.ReplacedPart{{PartID: part.ID, Quantity: 1}},
		})
		if err != nil {
			b.Fatal(err)
		}
	}
}

type discardEnqueuer struct{}

func (discardEnqueuer) EnqueueLowStockAlert(context.Context, ports.LowStockAlert) error { return nil }

func (discardEnqueuer) EnqueueMaintenanceCompleted(context.Context, ports.MaintenanceCompletedEvent) error {
	return nil
}
