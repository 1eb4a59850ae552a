package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/uxauditpro/backend/pkg/errors"

	"github.com/uxauditpro/backend/internal/domain/model"
	"github.com/uxauditpro/backend/internal/domain/repository"
)

// EntitlementService owns every entitlement mutation. ApplyConfirmedOrder is
// the resolver: the only code path that changes an account's plan, and it only
// accepts orders the ledger has already moved to confirmed.
type EntitlementService struct {
	entitlementRepo repository.EntitlementRepository
	cache           repository.EntitlementCache
	logger          *zap.Logger
}

func NewEntitlementService(
	entitlementRepo repository.EntitlementRepository,
	cache repository.EntitlementCache,
	logger *zap.Logger,
) *EntitlementService {
	return &EntitlementService{
		entitlementRepo: entitlementRepo,
		cache:           cache,
		logger:          logger,
	}
}

// ApplyConfirmedOrder maps a confirmed ledger order onto the account's
// entitlement. The new plan is exactly the order's plan: a confirmed order
// for a lower tier is an explicit downgrade and is applied as such. Callers
// must only pass orders that just transitioned pending→confirmed; the
// status check here is defensive.
func (s *EntitlementService) ApplyConfirmedOrder(ctx context.Context, order *model.Order) (*model.Entitlement, error) {
	if order == nil {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "order is required", nil)
	}
	if order.Status != model.OrderStatusConfirmed {
		return nil, apperrors.NewAppError(apperrors.ErrOrderNotConfirmed,
			"order "+order.ID.String()+" is not confirmed", nil)
	}

	ent, err := s.entitlementRepo.SetPlan(ctx, order.AccountID, order.Plan, order.ID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cerr := s.cache.Invalidate(ctx, order.AccountID); cerr != nil {
			s.logger.Warn("Failed to invalidate entitlement cache",
				zap.String("account_id", order.AccountID.String()),
				zap.Error(cerr))
		}
	}

	s.logger.Info("Entitlement updated from confirmed order",
		zap.String("account_id", order.AccountID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("plan", string(order.Plan)))

	return ent, nil
}

// Get reads the entitlement through the cache. Cache misses and cache errors
// fall through to the store; the cache is never authoritative.
func (s *EntitlementService) Get(ctx context.Context, accountID uuid.UUID) (*model.Entitlement, error) {
	if s.cache != nil {
		if ent, err := s.cache.Get(ctx, accountID); err == nil && ent != nil {
			return ent, nil
		}
	}

	ent, err := s.entitlementRepo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cerr := s.cache.Set(ctx, ent); cerr != nil {
			s.logger.Debug("Failed to populate entitlement cache",
				zap.String("account_id", accountID.String()),
				zap.Error(cerr))
		}
	}

	return ent, nil
}

// GetAuthoritative bypasses the cache and reads the store directly. Every
// privileged authorization decision goes through here, never through a
// client-cached or redis-cached view.
func (s *EntitlementService) GetAuthoritative(ctx context.Context, accountID uuid.UUID) (*model.Entitlement, error) {
	return s.entitlementRepo.Get(ctx, accountID)
}

// RequireRole re-derives the role from the store and checks membership.
func (s *EntitlementService) RequireRole(ctx context.Context, accountID uuid.UUID, roles ...model.Role) (*model.Entitlement, error) {
	ent, err := s.GetAuthoritative(ctx, accountID)
	if err != nil {
		return nil, err
	}

	for _, role := range roles {
		if ent.Role == role {
			return ent, nil
		}
	}

	return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "insufficient role", nil)
}

func (s *EntitlementService) List(ctx context.Context, limit, offset int) ([]*model.Entitlement, error) {
	return s.entitlementRepo.List(ctx, limit, offset)
}
