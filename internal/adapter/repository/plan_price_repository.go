package repository

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/uxauditpro/backend/pkg/errors"

	"github.com/uxauditpro/backend/internal/domain/model"
	domainRepo "github.com/uxauditpro/backend/internal/domain/repository"
)

type planPriceRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPlanPriceRepository creates the GORM-backed plan catalog.
func NewPlanPriceRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PlanPriceRepository {
	return &planPriceRepository{db: db, logger: logger}
}

func (r *planPriceRepository) GetPrice(ctx context.Context, plan model.Plan, providerName string) (*model.PlanPrice, error) {
	var price model.PlanPrice

	err := r.db.WithContext(ctx).
		Where("plan = ? AND provider = ? AND is_active = ?", plan, providerName, true).
		First(&price).Error
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrInvalidPlan,
				"no price defined for plan "+string(plan)+" with provider "+providerName, nil)
		}
		return nil, apperrors.Wrap(err, "failed to get plan price")
	}

	return &price, nil
}

func (r *planPriceRepository) ListActive(ctx context.Context) ([]*model.PlanPrice, error) {
	var prices []*model.PlanPrice

	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("plan, provider").
		Find(&prices).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list plan prices")
	}

	return prices, nil
}
