package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/uxauditpro/backend/pkg/errors"

	"github.com/uxauditpro/backend/internal/domain/model"
	"github.com/uxauditpro/backend/internal/domain/repository"
)

// AccountService handles account provisioning and deletion. Identity itself
// (credentials, sessions) lives with the external identity provider; this
// service only owns the entitlement row and the account's stored data.
type AccountService struct {
	entitlementRepo repository.EntitlementRepository
	orderRepo       repository.OrderRepository
	reportRepo      repository.ReportRepository
	cache           repository.EntitlementCache
	logger          *zap.Logger
}

func NewAccountService(
	entitlementRepo repository.EntitlementRepository,
	orderRepo repository.OrderRepository,
	reportRepo repository.ReportRepository,
	cache repository.EntitlementCache,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		entitlementRepo: entitlementRepo,
		orderRepo:       orderRepo,
		reportRepo:      reportRepo,
		cache:           cache,
		logger:          logger,
	}
}

// Signup provisions the entitlement row with plan=free. Roles an account may
// pick for itself are user and agency; admin is provisioned out of band and
// never through signup or payment.
func (s *AccountService) Signup(ctx context.Context, email, name string, role model.Role) (*model.Entitlement, error) {
	if email == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "email is required", nil)
	}
	if role == "" {
		role = model.RoleUser
	}
	if !role.SelfAssignable() {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument,
			"role "+string(role)+" cannot be self-assigned", nil)
	}

	ent := &model.Entitlement{
		AccountID: uuid.New(),
		Email:     email,
		Name:      name,
		Plan:      model.PlanFree,
		Role:      role,
	}

	if err := s.entitlementRepo.Provision(ctx, ent); err != nil {
		return nil, err
	}

	s.logger.Info("Account provisioned",
		zap.String("account_id", ent.AccountID.String()),
		zap.String("role", string(ent.Role)))

	return ent, nil
}

// Delete removes the account's entitlement, ledger rows, and reports.
func (s *AccountService) Delete(ctx context.Context, accountID uuid.UUID) error {
	if err := s.entitlementRepo.Delete(ctx, accountID); err != nil {
		return err
	}

	if err := s.reportRepo.DeleteByAccount(ctx, accountID); err != nil {
		s.logger.Error("Failed to delete reports for account",
			zap.String("account_id", accountID.String()),
			zap.Error(err))
		return err
	}

	if err := s.orderRepo.DeleteByAccount(ctx, accountID); err != nil {
		s.logger.Error("Failed to delete orders for account",
			zap.String("account_id", accountID.String()),
			zap.Error(err))
		return err
	}

	if s.cache != nil {
		if cerr := s.cache.Invalidate(ctx, accountID); cerr != nil {
			s.logger.Warn("Failed to invalidate entitlement cache",
				zap.String("account_id", accountID.String()),
				zap.Error(cerr))
		}
	}

	s.logger.Info("Account deleted", zap.String("account_id", accountID.String()))
	return nil
}
