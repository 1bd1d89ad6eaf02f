package service_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/repository"
)

// fakeTxManager runs the callback directly; the postgres Store is exercised
// separately with sqlmock.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// recordingBus captures published events in order.
type recordingBus struct {
	topics []string
	events []any
}

func (b *recordingBus) Publish(_ context.Context, topic string, event any) {
	b.topics = append(b.topics, topic)
	b.events = append(b.events, event)
}

func (b *recordingBus) byTopic(topic string) []any {
	var out []any
	for i, t := range b.topics {
		if t == topic {
			out = append(out, b.events[i])
		}
	}
	return out
}

// MockDriverRepo
type MockDriverRepo struct {
	mock.Mock
}

func (m *MockDriverRepo) Create(ctx context.Context, driver *domain.Driver) error {
	args := m.Called(ctx, driver)
	return args.Error(0)
}
func (m *MockDriverRepo) GetByID(ctx context.Context, id int32) (*domain.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}
func (m *MockDriverRepo) AdjustBalance(ctx context.Context, driverID int32, delta decimal.Decimal) error {
	args := m.Called(ctx, driverID, delta)
	return args.Error(0)
}
func (m *MockDriverRepo) HoldDeposit(ctx context.Context, driverID int32, amount decimal.Decimal) error {
	args := m.Called(ctx, driverID, amount)
	return args.Error(0)
}
func (m *MockDriverRepo) ReleaseDeposit(ctx context.Context, driverID int32, amount decimal.Decimal) error {
	args := m.Called(ctx, driverID, amount)
	return args.Error(0)
}
func (m *MockDriverRepo) ListInDebt(ctx context.Context, scope domain.Scope) ([]domain.DebtorRecord, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DebtorRecord), args.Error(1)
}

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}
func (m *MockVehicleRepo) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) UpdateStatus(ctx context.Context, vehicleID int32, status domain.VehicleStatus) error {
	args := m.Called(ctx, vehicleID, status)
	return args.Error(0)
}
func (m *MockVehicleRepo) CountNonInactive(ctx context.Context, companyID int32) (int32, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(int32), args.Error(1)
}

// MockContractRepo
type MockContractRepo struct {
	mock.Mock
}

func (m *MockContractRepo) Create(ctx context.Context, contract *domain.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}
func (m *MockContractRepo) GetByID(ctx context.Context, id int32) (*domain.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}
func (m *MockContractRepo) UpdateStatus(ctx context.Context, id int32, status domain.ContractStatus, endDate *time.Time, reason string) error {
	args := m.Called(ctx, id, status, endDate, reason)
	return args.Error(0)
}
func (m *MockContractRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockContractRepo) ListBillable(ctx context.Context, asOf time.Time) ([]domain.Contract, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contract), args.Error(1)
}
func (m *MockContractRepo) CountActiveByDriver(ctx context.Context, driverID int32) (int32, error) {
	args := m.Called(ctx, driverID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockContractRepo) CountActiveByVehicle(ctx context.Context, vehicleID int32) (int32, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockContractRepo) CountActiveByCompany(ctx context.Context, companyID int32) (int32, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(int32), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}
func (m *MockPaymentRepo) CountByContract(ctx context.Context, contractID int32) (int32, error) {
	args := m.Called(ctx, contractID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockPaymentRepo) DailyRentStats(ctx context.Context, from, to time.Time, scope domain.Scope) (*domain.BillingStats, error) {
	args := m.Called(ctx, from, to, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillingStats), args.Error(1)
}
func (m *MockPaymentRepo) SumIncomeByCompany(ctx context.Context, companyID int32, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockPaymentRepo) SumIncomeByDriver(ctx context.Context, companyID int32, from, to time.Time) ([]repository.EntityAmount, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.EntityAmount), args.Error(1)
}
func (m *MockPaymentRepo) SumIncomeByVehicle(ctx context.Context, companyID int32, from, to time.Time) ([]repository.EntityAmount, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.EntityAmount), args.Error(1)
}

// MockCompanyRepo
type MockCompanyRepo struct {
	mock.Mock
}

func (m *MockCompanyRepo) Create(ctx context.Context, company *domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}
func (m *MockCompanyRepo) GetByID(ctx context.Context, id int32) (*domain.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}
func (m *MockCompanyRepo) ListActive(ctx context.Context) ([]domain.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

// MockExpenseRepo
type MockExpenseRepo struct {
	mock.Mock
}

func (m *MockExpenseRepo) Create(ctx context.Context, expense *domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}
func (m *MockExpenseRepo) SumByCompany(ctx context.Context, companyID int32, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// fakeAnalyticsRepo keeps upserted metrics in memory, keyed the way the
// database uniquely constrains them, so idempotency is observable.
type fakeAnalyticsRepo struct {
	metrics map[string]*domain.AnalyticsMetric
	deleted time.Time
}

func newFakeAnalyticsRepo() *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{metrics: make(map[string]*domain.AnalyticsMetric)}
}

func metricKey(companyID int32, metricType domain.MetricType, date time.Time, entityID int32) string {
	return string(metricType) + "|" + date.Format("2006-01-02") + "|" +
		decimal.NewFromInt32(companyID).String() + "|" + decimal.NewFromInt32(entityID).String()
}

func (f *fakeAnalyticsRepo) Upsert(_ context.Context, m *domain.AnalyticsMetric) error {
	cp := *m
	f.metrics[metricKey(m.CompanyID, m.Type, m.Date, m.EntityID)] = &cp
	return nil
}

func (f *fakeAnalyticsRepo) Get(_ context.Context, companyID int32, metricType domain.MetricType, date time.Time, entityID int32) (*domain.AnalyticsMetric, error) {
	m, ok := f.metrics[metricKey(companyID, metricType, date, entityID)]
	if !ok {
		return nil, domain.NotFoundf("metric %s", metricType)
	}
	return m, nil
}

func (f *fakeAnalyticsRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.deleted = cutoff
	var n int64
	for k, m := range f.metrics {
		if m.Date.Before(cutoff) {
			delete(f.metrics, k)
			n++
		}
	}
	return n, nil
}
