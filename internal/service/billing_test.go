package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/events"
	"fleetrental-backend/internal/service"
)

type billingFixture struct {
	contracts *MockContractRepo
	drivers   *MockDriverRepo
	payments  *MockPaymentRepo
	bus       *recordingBus
	svc       service.BillingService
}

func newBillingFixture() *billingFixture {
	f := &billingFixture{
		contracts: new(MockContractRepo),
		drivers:   new(MockDriverRepo),
		payments:  new(MockPaymentRepo),
		bus:       new(recordingBus),
	}
	f.svc = service.NewBillingService(fakeTxManager{}, f.contracts, f.drivers, f.payments, f.bus)
	return f
}

func billableContract(id, driverID int32, rate int64) domain.Contract {
	return domain.Contract{
		ID:        id,
		CompanyID: 7,
		DriverID:  driverID,
		VehicleID: id + 100,
		DailyRate: decimal.NewFromInt(rate),
		Status:    domain.ContractStatusActive,
	}
}

func TestBillingService_RunBillingCycle(t *testing.T) {
	ctx := context.Background()

	t.Run("charges every billable contract", func(t *testing.T) {
		f := newBillingFixture()
		contracts := []domain.Contract{
			billableContract(1, 11, 150),
			billableContract(2, 12, 200),
		}

		f.contracts.On("ListBillable", ctx, mock.AnythingOfType("time.Time")).Return(contracts, nil)
		f.drivers.On("AdjustBalance", ctx, int32(11), decimal.NewFromInt(150).Neg()).Return(nil)
		f.drivers.On("AdjustBalance", ctx, int32(12), decimal.NewFromInt(200).Neg()).Return(nil)
		f.payments.On("Create", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.Type == domain.PaymentTypeDailyRent && p.Outcome == domain.PaymentOutcomeSuccess
		})).Return(nil)

		stats, err := f.svc.RunBillingCycle(ctx)

		require.NoError(t, err)
		assert.Equal(t, int32(2), stats.Total)
		assert.Equal(t, int32(2), stats.Successful)
		assert.Equal(t, int32(0), stats.Failed)
		assert.True(t, stats.TotalAmount.Equal(decimal.NewFromInt(350)))
		assert.NotEmpty(t, stats.RunID)
		f.payments.AssertNumberOfCalls(t, "Create", 2)

		completed := f.bus.byTopic(events.TopicBillingCompleted)
		require.Len(t, completed, 1)
		assert.Equal(t, *stats, completed[0].(events.DailyBillingCompleted).Stats)
	})

	t.Run("one failing charge does not abort the cycle", func(t *testing.T) {
		f := newBillingFixture()
		contracts := []domain.Contract{
			billableContract(1, 11, 150),
			billableContract(2, 12, 200),
			billableContract(3, 13, 100),
		}
		dbErr := errors.New("driver row locked")

		f.contracts.On("ListBillable", ctx, mock.AnythingOfType("time.Time")).Return(contracts, nil)
		f.drivers.On("AdjustBalance", ctx, int32(11), mock.Anything).Return(nil)
		f.drivers.On("AdjustBalance", ctx, int32(12), mock.Anything).Return(dbErr)
		f.drivers.On("AdjustBalance", ctx, int32(13), mock.Anything).Return(nil)
		f.payments.On("Create", ctx, mock.Anything).Return(nil)

		stats, err := f.svc.RunBillingCycle(ctx)

		require.NoError(t, err)
		assert.Equal(t, int32(3), stats.Total)
		assert.Equal(t, int32(2), stats.Successful)
		assert.Equal(t, int32(1), stats.Failed)
		assert.True(t, stats.TotalAmount.Equal(decimal.NewFromInt(250)))

		// Two SUCCESS entries plus one FAILED audit entry.
		f.payments.AssertNumberOfCalls(t, "Create", 3)
		var failed *domain.Payment
		for _, call := range f.payments.Calls {
			p := call.Arguments.Get(1).(*domain.Payment)
			if p.Outcome == domain.PaymentOutcomeFailed {
				failed = p
			}
		}
		require.NotNil(t, failed)
		assert.Equal(t, int32(12), failed.DriverID)
		assert.True(t, strings.HasPrefix(failed.Description, domain.FailedChargePrefix))
		assert.Contains(t, failed.Description, dbErr.Error())

		failures := f.bus.byTopic(events.TopicPaymentFailed)
		require.Len(t, failures, 1)
		evt := failures[0].(events.PaymentFailed)
		assert.Equal(t, stats.RunID, evt.RunID)
		assert.Equal(t, int32(2), evt.ContractID)
		assert.Equal(t, dbErr.Error(), evt.Reason)
	})

	t.Run("running the cycle twice charges twice", func(t *testing.T) {
		f := newBillingFixture()
		contracts := []domain.Contract{billableContract(1, 11, 150)}

		f.contracts.On("ListBillable", ctx, mock.AnythingOfType("time.Time")).Return(contracts, nil)
		f.drivers.On("AdjustBalance", ctx, int32(11), decimal.NewFromInt(150).Neg()).Return(nil)
		f.payments.On("Create", ctx, mock.Anything).Return(nil)

		first, err := f.svc.RunBillingCycle(ctx)
		require.NoError(t, err)
		second, err := f.svc.RunBillingCycle(ctx)
		require.NoError(t, err)

		assert.NotEqual(t, first.RunID, second.RunID)
		f.drivers.AssertNumberOfCalls(t, "AdjustBalance", 2)
		f.payments.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("empty roster publishes an empty completion", func(t *testing.T) {
		f := newBillingFixture()

		f.contracts.On("ListBillable", ctx, mock.AnythingOfType("time.Time")).Return([]domain.Contract{}, nil)

		stats, err := f.svc.RunBillingCycle(ctx)

		require.NoError(t, err)
		assert.Equal(t, int32(0), stats.Total)
		assert.Len(t, f.bus.byTopic(events.TopicBillingCompleted), 1)
	})
}

func TestBillingService_TodayStats(t *testing.T) {
	ctx := context.Background()
	f := newBillingFixture()
	scope := domain.ScopeCompany(7)
	want := &domain.BillingStats{Total: 5, Successful: 4, Failed: 1, TotalAmount: decimal.NewFromInt(600)}

	f.payments.On("DailyRentStats", ctx, mock.MatchedBy(func(from time.Time) bool {
		return from.Hour() == 0 && from.Minute() == 0 && from.Second() == 0
	}), mock.AnythingOfType("time.Time"), scope).Return(want, nil)

	got, err := f.svc.TodayStats(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBillingService_DriversInDebt(t *testing.T) {
	ctx := context.Background()

	t.Run("derives debt amount and days in debt", func(t *testing.T) {
		f := newBillingFixture()
		f.drivers.On("ListInDebt", ctx, domain.ScopeAll()).Return([]domain.DebtorRecord{
			{
				DriverID:          11,
				Balance:           decimal.NewFromInt(-450),
				ActiveContracts:   1,
				CombinedDailyRate: decimal.NewFromInt(150),
			},
			{
				DriverID:          12,
				Balance:           decimal.NewFromInt(-301),
				ActiveContracts:   2,
				CombinedDailyRate: decimal.NewFromInt(150),
			},
		}, nil)

		debtors, err := f.svc.DriversInDebt(ctx, domain.ScopeAll())

		require.NoError(t, err)
		require.Len(t, debtors, 2)
		assert.True(t, debtors[0].DebtAmount.Equal(decimal.NewFromInt(450)))
		assert.Equal(t, int32(3), debtors[0].DaysInDebt)
		// 301 / 150 rounds up to 3 days.
		assert.Equal(t, int32(3), debtors[1].DaysInDebt)
	})

	t.Run("zero combined rate leaves days in debt at zero", func(t *testing.T) {
		f := newBillingFixture()
		f.drivers.On("ListInDebt", ctx, domain.ScopeAll()).Return([]domain.DebtorRecord{
			{
				DriverID:          11,
				Balance:           decimal.NewFromInt(-450),
				CombinedDailyRate: decimal.Zero,
			},
		}, nil)

		debtors, err := f.svc.DriversInDebt(ctx, domain.ScopeAll())

		require.NoError(t, err)
		require.Len(t, debtors, 1)
		assert.Equal(t, int32(0), debtors[0].DaysInDebt)
	})
}
