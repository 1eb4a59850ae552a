package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/uxauditpro/backend/pkg/errors"

	"github.com/uxauditpro/backend/internal/domain/model"
	"github.com/uxauditpro/backend/internal/domain/provider"
	"github.com/uxauditpro/backend/internal/domain/repository"
)

// ProviderResolver returns the configured payment provider for a name.
type ProviderResolver interface {
	GetProvider(name string) (provider.PaymentProvider, error)
}

// CheckoutService starts payment attempts. Amounts come from the server-side
// plan catalog; whatever the client sent is ignored past the plan name.
type CheckoutService struct {
	orderRepo repository.OrderRepository
	priceRepo repository.PlanPriceRepository
	providers ProviderResolver
	logger    *zap.Logger
}

func NewCheckoutService(
	orderRepo repository.OrderRepository,
	priceRepo repository.PlanPriceRepository,
	providers ProviderResolver,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		orderRepo: orderRepo,
		priceRepo: priceRepo,
		providers: providers,
		logger:    logger,
	}
}

// CheckoutResult is what the client needs to continue the provider flow.
type CheckoutResult struct {
	Order          *model.Order           `json:"order"`
	CheckoutParams map[string]interface{} `json:"checkout_params"`
	Reused         bool                   `json:"reused"`
}

// CreateOrder records a pending ledger order and opens the provider-side
// checkout. A retry for a (account, plan) pair with a pending order reuses
// that order; if the earlier attempt died before the provider call, the
// provider order is created now for the same ledger row.
func (s *CheckoutService) CreateOrder(ctx context.Context, accountID uuid.UUID, plan model.Plan, providerName string) (*CheckoutResult, error) {
	if !plan.Valid() {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidPlan, "unknown plan "+string(plan), nil)
	}
	if !plan.Paid() {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidPlan, "free plan needs no payment", nil)
	}
	if !provider.KnownName(providerName) {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "unknown provider "+providerName, nil)
	}

	payProvider, err := s.providers.GetProvider(providerName)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrProviderUnavailable, "provider not configured", err)
	}

	price, err := s.priceRepo.GetPrice(ctx, plan, providerName)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:          uuid.New(),
		AccountID:   accountID,
		Plan:        plan,
		AmountMinor: price.AmountMinor,
		Currency:    price.Currency,
		Provider:    providerName,
	}

	order, reused, err := s.orderRepo.CreatePending(ctx, order)
	if err != nil {
		return nil, err
	}

	if reused && order.ProviderReference != nil {
		s.logger.Info("Reusing pending order",
			zap.String("order_id", order.ID.String()),
			zap.String("account_id", accountID.String()),
			zap.String("plan", string(plan)))
		return &CheckoutResult{
			Order:          order,
			CheckoutParams: order.CheckoutData,
			Reused:         true,
		}, nil
	}

	created, err := payProvider.CreateOrder(ctx, &provider.CreateOrderRequest{
		OrderID:     order.ID.String(),
		AccountID:   accountID.String(),
		Plan:        string(order.Plan),
		AmountMinor: order.AmountMinor,
		Currency:    order.Currency,
		Description: "UXAuditPro " + string(order.Plan) + " plan",
	})
	if err != nil {
		// The pending ledger row survives; a retry reuses it and repeats
		// only the provider call.
		apperrors.LogError(s.logger, err, "Provider order creation failed",
			zap.String("order_id", order.ID.String()),
			zap.String("provider", providerName))
		return nil, apperrors.NewAppError(apperrors.ErrProviderUnavailable,
			"payment provider unavailable, try again", err)
	}

	checkout := model.JSONB(created.CheckoutParams)
	if err := s.orderRepo.AttachCheckout(ctx, order.ID, created.ProviderReference, checkout); err != nil {
		return nil, err
	}
	order.ProviderReference = &created.ProviderReference
	order.CheckoutData = checkout

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("account_id", accountID.String()),
		zap.String("plan", string(plan)),
		zap.String("provider", providerName),
		zap.Int64("amount_minor", order.AmountMinor),
		zap.String("currency", order.Currency))

	return &CheckoutResult{
		Order:          order,
		CheckoutParams: created.CheckoutParams,
		Reused:         reused,
	}, nil
}

// GetOrder returns one ledger order, scoped to its owning account.
func (s *CheckoutService) GetOrder(ctx context.Context, accountID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.AccountID != accountID {
		return nil, apperrors.NewAppError(apperrors.ErrOrderNotFound, "order not found", nil)
	}
	return order, nil
}

// ListOrders returns recent orders for the account.
func (s *CheckoutService) ListOrders(ctx context.Context, accountID uuid.UUID, limit int) ([]*model.Order, error) {
	return s.orderRepo.ListByAccount(ctx, accountID, limit)
}
