package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/uxauditpro/backend/pkg/errors"

	"github.com/uxauditpro/backend/internal/domain/model"
	"github.com/uxauditpro/backend/internal/domain/provider"
)

func proPrice() *model.PlanPrice {
	return &model.PlanPrice{
		Plan:        model.PlanPro,
		Provider:    "stripe",
		AmountMinor: 2900,
		Currency:    "USD",
		Interval:    "month",
		IsActive:    true,
	}
}

func TestCreateOrder_Success(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	priceRepo := new(MockPlanPriceRepository)
	prov := new(MockPaymentProvider)

	accountID := uuid.New()

	priceRepo.On("GetPrice", mock.Anything, model.PlanPro, "stripe").Return(proPrice(), nil)

	orderRepo.On("CreatePending", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
		// Amount must come from the catalog, not the caller.
		return o.AccountID == accountID && o.AmountMinor == 2900 && o.Currency == "USD"
	})).Return(&model.Order{
		ID:          uuid.New(),
		AccountID:   accountID,
		Plan:        model.PlanPro,
		AmountMinor: 2900,
		Currency:    "USD",
		Provider:    "stripe",
		Status:      model.OrderStatusPending,
	}, false, nil)

	prov.On("CreateOrder", mock.Anything, mock.Anything).Return(&provider.CreateOrderResponse{
		ProviderReference: "cs_test_123",
		CheckoutParams:    map[string]interface{}{"checkout_url": "https://checkout.example/cs_test_123"},
	}, nil)

	orderRepo.On("AttachCheckout", mock.Anything, mock.Anything, "cs_test_123", mock.Anything).Return(nil)

	svc := NewCheckoutService(orderRepo, priceRepo, &staticResolver{provider: prov}, zap.NewNop())

	result, err := svc.CreateOrder(context.Background(), accountID, model.PlanPro, "stripe")
	require.NoError(t, err)
	assert.False(t, result.Reused)
	assert.Equal(t, model.OrderStatusPending, result.Order.Status)
	assert.Equal(t, "cs_test_123", *result.Order.ProviderReference)
	assert.Equal(t, "https://checkout.example/cs_test_123", result.CheckoutParams["checkout_url"])

	orderRepo.AssertExpectations(t)
	priceRepo.AssertExpectations(t)
}

func TestCreateOrder_RejectsInvalidPlans(t *testing.T) {
	svc := NewCheckoutService(new(MockOrderRepository), new(MockPlanPriceRepository),
		&staticResolver{provider: new(MockPaymentProvider)}, zap.NewNop())

	tests := []struct {
		name string
		plan model.Plan
	}{
		{"unknown plan", model.Plan("enterprise")},
		{"free plan needs no payment", model.PlanFree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateOrder(context.Background(), uuid.New(), tt.plan, "stripe")
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidPlan))
		})
	}
}

func TestCreateOrder_RejectsUnknownProvider(t *testing.T) {
	svc := NewCheckoutService(new(MockOrderRepository), new(MockPlanPriceRepository),
		&staticResolver{provider: new(MockPaymentProvider)}, zap.NewNop())

	_, err := svc.CreateOrder(context.Background(), uuid.New(), model.PlanPro, "square")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidArgument))
}

func TestCreateOrder_UnconfiguredProviderUnavailable(t *testing.T) {
	svc := NewCheckoutService(new(MockOrderRepository), new(MockPlanPriceRepository),
		&staticResolver{err: errors.New("Stripe secret key not configured")}, zap.NewNop())

	_, err := svc.CreateOrder(context.Background(), uuid.New(), model.PlanPro, "stripe")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrProviderUnavailable))
}

func TestCreateOrder_ProviderFailureLeavesPendingOrder(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	priceRepo := new(MockPlanPriceRepository)
	prov := new(MockPaymentProvider)

	accountID := uuid.New()

	priceRepo.On("GetPrice", mock.Anything, model.PlanPro, "stripe").Return(proPrice(), nil)
	orderRepo.On("CreatePending", mock.Anything, mock.Anything).Return(&model.Order{
		ID:        uuid.New(),
		AccountID: accountID,
		Plan:      model.PlanPro,
		Status:    model.OrderStatusPending,
	}, false, nil)
	prov.On("CreateOrder", mock.Anything, mock.Anything).
		Return(nil, &provider.ProviderError{Code: "API_ERROR", Message: "upstream down"})

	svc := NewCheckoutService(orderRepo, priceRepo, &staticResolver{provider: prov}, zap.NewNop())

	_, err := svc.CreateOrder(context.Background(), accountID, model.PlanPro, "stripe")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrProviderUnavailable))

	// The ledger row survives for retry; it is never force-failed here.
	orderRepo.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrder_ReusesPendingOrderWithCheckout(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	priceRepo := new(MockPlanPriceRepository)
	prov := new(MockPaymentProvider)

	accountID := uuid.New()
	ref := "cs_existing"
	existing := &model.Order{
		ID:                uuid.New(),
		AccountID:         accountID,
		Plan:              model.PlanPro,
		AmountMinor:       2900,
		Currency:          "USD",
		Provider:          "stripe",
		Status:            model.OrderStatusPending,
		ProviderReference: &ref,
		CheckoutData:      model.JSONB{"checkout_url": "https://checkout.example/cs_existing"},
	}

	priceRepo.On("GetPrice", mock.Anything, model.PlanPro, "stripe").Return(proPrice(), nil)
	orderRepo.On("CreatePending", mock.Anything, mock.Anything).Return(existing, true, nil)

	svc := NewCheckoutService(orderRepo, priceRepo, &staticResolver{provider: prov}, zap.NewNop())

	result, err := svc.CreateOrder(context.Background(), accountID, model.PlanPro, "stripe")
	require.NoError(t, err)
	assert.True(t, result.Reused)
	assert.Equal(t, existing.ID, result.Order.ID)

	// No second provider-side order for the same attempt.
	prov.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestGetOrder_ScopedToAccount(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := NewCheckoutService(orderRepo, new(MockPlanPriceRepository),
		&staticResolver{provider: new(MockPaymentProvider)}, zap.NewNop())

	owner := uuid.New()
	other := uuid.New()
	orderID := uuid.New()

	orderRepo.On("GetByID", mock.Anything, orderID).Return(&model.Order{
		ID:        orderID,
		AccountID: owner,
		Status:    model.OrderStatusPending,
	}, nil)

	// Cross-account reads look like a missing order, not a forbidden one.
	_, err := svc.GetOrder(context.Background(), other, orderID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrOrderNotFound))

	order, err := svc.GetOrder(context.Background(), owner, orderID)
	require.NoError(t, err)
	assert.Equal(t, orderID, order.ID)
}
