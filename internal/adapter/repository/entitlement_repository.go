package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/uxauditpro/backend/pkg/errors"

	"github.com/uxauditpro/backend/internal/domain/model"
	domainRepo "github.com/uxauditpro/backend/internal/domain/repository"
)

type entitlementRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewEntitlementRepository creates the GORM-backed entitlement store.
func NewEntitlementRepository(db *gorm.DB, logger *zap.Logger) domainRepo.EntitlementRepository {
	return &entitlementRepository{db: db, logger: logger}
}

func (r *entitlementRepository) Provision(ctx context.Context, ent *model.Entitlement) error {
	if ent.AccountID == uuid.Nil {
		ent.AccountID = uuid.New()
	}
	if ent.Plan == "" {
		ent.Plan = model.PlanFree
	}
	if ent.Role == "" {
		ent.Role = model.RoleUser
	}

	err := r.db.WithContext(ctx).Create(ent).Error
	if err != nil {
		if apperrors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewAppError(apperrors.ErrConflict, "account already exists", err)
		}
		r.logger.Error("Failed to provision entitlement",
			zap.String("account_id", ent.AccountID.String()),
			zap.Error(err))
		return apperrors.Wrap(err, "failed to provision entitlement")
	}

	return nil
}

func (r *entitlementRepository) Get(ctx context.Context, accountID uuid.UUID) (*model.Entitlement, error) {
	var ent model.Entitlement

	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&ent).Error
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrAccountNotFound, "account not found", nil)
		}
		return nil, apperrors.Wrap(err, "failed to get entitlement")
	}

	return &ent, nil
}

func (r *entitlementRepository) SetPlan(ctx context.Context, accountID uuid.UUID, plan model.Plan, lastOrderID uuid.UUID) (*model.Entitlement, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Entitlement{}).
		Where("account_id = ?", accountID).
		Updates(map[string]interface{}{
			"plan":          plan,
			"last_order_id": lastOrderID,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("Failed to set entitlement plan",
			zap.String("account_id", accountID.String()),
			zap.String("plan", string(plan)),
			zap.Error(result.Error))
		return nil, apperrors.Wrap(result.Error, "failed to set entitlement plan")
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NewAppError(apperrors.ErrAccountNotFound, "account not found", nil)
	}

	return r.Get(ctx, accountID)
}

func (r *entitlementRepository) List(ctx context.Context, limit, offset int) ([]*model.Entitlement, error) {
	if limit < 1 {
		limit = 50
	} else if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	var ents []*model.Entitlement
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&ents).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list entitlements")
	}

	return ents, nil
}

func (r *entitlementRepository) Delete(ctx context.Context, accountID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Delete(&model.Entitlement{})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to delete entitlement")
	}
	if result.RowsAffected == 0 {
		return apperrors.NewAppError(apperrors.ErrAccountNotFound, "account not found", nil)
	}
	return nil
}
