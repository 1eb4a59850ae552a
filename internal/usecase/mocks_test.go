package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/uxauditpro/backend/internal/domain/model"
	"github.com/uxauditpro/backend/internal/domain/provider"
)

// MockOrderRepository is a mock implementation of repository.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreatePending(ctx context.Context, order *model.Order) (*model.Order, bool, error) {
	args := m.Called(ctx, order)
	var result *model.Order
	if args.Get(0) != nil {
		result = args.Get(0).(*model.Order)
	}
	return result, args.Bool(1), args.Error(2)
}

func (m *MockOrderRepository) AttachCheckout(ctx context.Context, orderID uuid.UUID, providerRef string, checkout model.JSONB) error {
	args := m.Called(ctx, orderID, providerRef, checkout)
	return args.Error(0)
}

func (m *MockOrderRepository) MarkConfirmed(ctx context.Context, orderID uuid.UUID, confirmedAt time.Time) (*model.Order, bool, error) {
	args := m.Called(ctx, orderID, confirmedAt)
	var result *model.Order
	if args.Get(0) != nil {
		result = args.Get(0).(*model.Order)
	}
	return result, args.Bool(1), args.Error(2)
}

func (m *MockOrderRepository) MarkFailed(ctx context.Context, orderID uuid.UUID, reason string) (*model.Order, error) {
	args := m.Called(ctx, orderID, reason)
	var result *model.Order
	if args.Get(0) != nil {
		result = args.Get(0).(*model.Order)
	}
	return result, args.Error(1)
}

func (m *MockOrderRepository) ExpireStale(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, orderID)
	var result *model.Order
	if args.Get(0) != nil {
		result = args.Get(0).(*model.Order)
	}
	return result, args.Error(1)
}

func (m *MockOrderRepository) GetByProviderReference(ctx context.Context, providerRef string) (*model.Order, error) {
	args := m.Called(ctx, providerRef)
	var result *model.Order
	if args.Get(0) != nil {
		result = args.Get(0).(*model.Order)
	}
	return result, args.Error(1)
}

func (m *MockOrderRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*model.Order, error) {
	args := m.Called(ctx, accountID, limit)
	var result []*model.Order
	if args.Get(0) != nil {
		result = args.Get(0).([]*model.Order)
	}
	return result, args.Error(1)
}

func (m *MockOrderRepository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// MockEntitlementRepository is a mock implementation of repository.EntitlementRepository
type MockEntitlementRepository struct {
	mock.Mock
}

func (m *MockEntitlementRepository) Provision(ctx context.Context, ent *model.Entitlement) error {
	args := m.Called(ctx, ent)
	return args.Error(0)
}

func (m *MockEntitlementRepository) Get(ctx context.Context, accountID uuid.UUID) (*model.Entitlement, error) {
	args := m.Called(ctx, accountID)
	var result *model.Entitlement
	if args.Get(0) != nil {
		result = args.Get(0).(*model.Entitlement)
	}
	return result, args.Error(1)
}

func (m *MockEntitlementRepository) SetPlan(ctx context.Context, accountID uuid.UUID, plan model.Plan, lastOrderID uuid.UUID) (*model.Entitlement, error) {
	args := m.Called(ctx, accountID, plan, lastOrderID)
	var result *model.Entitlement
	if args.Get(0) != nil {
		result = args.Get(0).(*model.Entitlement)
	}
	return result, args.Error(1)
}

func (m *MockEntitlementRepository) List(ctx context.Context, limit, offset int) ([]*model.Entitlement, error) {
	args := m.Called(ctx, limit, offset)
	var result []*model.Entitlement
	if args.Get(0) != nil {
		result = args.Get(0).([]*model.Entitlement)
	}
	return result, args.Error(1)
}

func (m *MockEntitlementRepository) Delete(ctx context.Context, accountID uuid.UUID) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// MockWebhookEventRepository is a mock implementation of repository.WebhookEventRepository
type MockWebhookEventRepository struct {
	mock.Mock
}

func (m *MockWebhookEventRepository) Record(ctx context.Context, event *model.WebhookEvent) (bool, error) {
	args := m.Called(ctx, event)
	return args.Bool(0), args.Error(1)
}

func (m *MockWebhookEventRepository) GetByEventID(ctx context.Context, providerName, eventID string) (*model.WebhookEvent, error) {
	args := m.Called(ctx, providerName, eventID)
	var result *model.WebhookEvent
	if args.Get(0) != nil {
		result = args.Get(0).(*model.WebhookEvent)
	}
	return result, args.Error(1)
}

// MockReportRepository is a mock implementation of repository.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *model.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	args := m.Called(ctx, id)
	var result *model.Report
	if args.Get(0) != nil {
		result = args.Get(0).(*model.Report)
	}
	return result, args.Error(1)
}

func (m *MockReportRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*model.Report, error) {
	args := m.Called(ctx, accountID, limit, offset)
	var result []*model.Report
	if args.Get(0) != nil {
		result = args.Get(0).([]*model.Report)
	}
	return result, args.Error(1)
}

func (m *MockReportRepository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// MockPlanPriceRepository is a mock implementation of repository.PlanPriceRepository
type MockPlanPriceRepository struct {
	mock.Mock
}

func (m *MockPlanPriceRepository) GetPrice(ctx context.Context, plan model.Plan, providerName string) (*model.PlanPrice, error) {
	args := m.Called(ctx, plan, providerName)
	var result *model.PlanPrice
	if args.Get(0) != nil {
		result = args.Get(0).(*model.PlanPrice)
	}
	return result, args.Error(1)
}

func (m *MockPlanPriceRepository) ListActive(ctx context.Context) ([]*model.PlanPrice, error) {
	args := m.Called(ctx)
	var result []*model.PlanPrice
	if args.Get(0) != nil {
		result = args.Get(0).([]*model.PlanPrice)
	}
	return result, args.Error(1)
}

// MockPaymentProvider is a mock implementation of provider.PaymentProvider
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) CreateOrder(ctx context.Context, req *provider.CreateOrderRequest) (*provider.CreateOrderResponse, error) {
	args := m.Called(ctx, req)
	var result *provider.CreateOrderResponse
	if args.Get(0) != nil {
		result = args.Get(0).(*provider.CreateOrderResponse)
	}
	return result, args.Error(1)
}

func (m *MockPaymentProvider) Confirm(ctx context.Context, req *provider.ConfirmRequest) (*provider.Confirmation, error) {
	args := m.Called(ctx, req)
	var result *provider.Confirmation
	if args.Get(0) != nil {
		result = args.Get(0).(*provider.Confirmation)
	}
	return result, args.Error(1)
}

func (m *MockPaymentProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

// staticResolver resolves every known name to the same provider.
type staticResolver struct {
	provider provider.PaymentProvider
	err      error
}

func (r *staticResolver) GetProvider(name string) (provider.PaymentProvider, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.provider, nil
}
