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

type orderRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewOrderRepository creates the GORM-backed order ledger.
func NewOrderRepository(db *gorm.DB, logger *zap.Logger) domainRepo.OrderRepository {
	return &orderRepository{db: db, logger: logger}
}

// CreatePending inserts a pending order unless one already exists for the
// same (account, plan). The partial unique index on pending rows backstops
// the lookup under concurrent creation.
func (r *orderRepository) CreatePending(ctx context.Context, order *model.Order) (*model.Order, bool, error) {
	var result *model.Order
	reused := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Order
		err := tx.Where("account_id = ? AND plan = ? AND status = ?",
			order.AccountID, order.Plan, model.OrderStatusPending).
			First(&existing).Error

		if err == nil {
			result = &existing
			reused = true
			return nil
		}
		if !apperrors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if order.ID == uuid.Nil {
			order.ID = uuid.New()
		}
		order.Status = model.OrderStatusPending

		if err := tx.Create(order).Error; err != nil {
			// A concurrent creator won the unique pending slot; reuse its row.
			if apperrors.Is(err, gorm.ErrDuplicatedKey) {
				if ferr := tx.Where("account_id = ? AND plan = ? AND status = ?",
					order.AccountID, order.Plan, model.OrderStatusPending).
					First(&existing).Error; ferr == nil {
					result = &existing
					reused = true
					return nil
				}
			}
			return err
		}

		result = order
		return nil
	})

	if err != nil {
		r.logger.Error("Failed to create pending order",
			zap.String("account_id", order.AccountID.String()),
			zap.String("plan", string(order.Plan)),
			zap.Error(err))
		return nil, false, apperrors.Wrap(err, "failed to create pending order")
	}

	return result, reused, nil
}

func (r *orderRepository) AttachCheckout(ctx context.Context, orderID uuid.UUID, providerRef string, checkout model.JSONB) error {
	result := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusPending).
		Updates(map[string]interface{}{
			"provider_reference": providerRef,
			"checkout_data":      checkout,
			"updated_at":         time.Now(),
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to attach checkout data")
	}
	if result.RowsAffected == 0 {
		return apperrors.NewAppError(apperrors.ErrOrderNotFound, "pending order not found", nil)
	}
	return nil
}

// MarkConfirmed performs the single concurrency-critical transition of the
// subsystem: pending→confirmed as one conditional update. Exactly one caller
// observes transitioned=true per order.
func (r *orderRepository) MarkConfirmed(ctx context.Context, orderID uuid.UUID, confirmedAt time.Time) (*model.Order, bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":       model.OrderStatusConfirmed,
			"confirmed_at": &confirmedAt,
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("Failed to confirm order",
			zap.String("order_id", orderID.String()),
			zap.Error(result.Error))
		return nil, false, apperrors.Wrap(result.Error, "failed to confirm order")
	}

	transitioned := result.RowsAffected == 1

	order, err := r.GetByID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}

	if !transitioned {
		switch order.Status {
		case model.OrderStatusConfirmed:
			// Idempotent no-op: someone else already confirmed this order.
			return order, false, nil
		case model.OrderStatusFailed, model.OrderStatusExpired:
			return nil, false, apperrors.NewAppError(apperrors.ErrConflictingState,
				"cannot confirm order in state "+string(order.Status), nil)
		default:
			return nil, false, apperrors.NewAppError(apperrors.ErrInternal,
				"order confirmation raced into unexpected state "+string(order.Status), nil)
		}
	}

	return order, true, nil
}

func (r *orderRepository) MarkFailed(ctx context.Context, orderID uuid.UUID, reason string) (*model.Order, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":         model.OrderStatusFailed,
			"failure_reason": reason,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return nil, apperrors.Wrap(result.Error, "failed to mark order failed")
	}

	order, err := r.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if result.RowsAffected == 0 {
		if order.Status == model.OrderStatusFailed {
			return order, nil
		}
		return nil, apperrors.NewAppError(apperrors.ErrConflictingState,
			"cannot fail order in state "+string(order.Status), nil)
	}

	return order, nil
}

func (r *orderRepository) ExpireStale(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("status = ? AND created_at < ?", model.OrderStatusPending, before).
		Updates(map[string]interface{}{
			"status":     model.OrderStatusExpired,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("Failed to expire stale orders", zap.Error(result.Error))
		return 0, apperrors.Wrap(result.Error, "failed to expire stale orders")
	}

	return result.RowsAffected, nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	var order model.Order

	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrOrderNotFound, "order not found", nil)
		}
		return nil, apperrors.Wrap(err, "failed to get order")
	}

	return &order, nil
}

func (r *orderRepository) GetByProviderReference(ctx context.Context, providerRef string) (*model.Order, error) {
	var order model.Order

	err := r.db.WithContext(ctx).Where("provider_reference = ?", providerRef).First(&order).Error
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrOrderNotFound, "order not found for provider reference", nil)
		}
		return nil, apperrors.Wrap(err, "failed to get order by provider reference")
	}

	return &order, nil
}

func (r *orderRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*model.Order, error) {
	if limit < 1 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}

	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

func (r *orderRepository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Delete(&model.Order{}).Error
	if err != nil {
		return apperrors.Wrap(err, "failed to delete orders for account")
	}
	return nil
}
