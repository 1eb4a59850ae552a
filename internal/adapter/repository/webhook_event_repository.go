package repository

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/uxauditpro/backend/pkg/errors"

	"github.com/uxauditpro/backend/internal/domain/model"
	domainRepo "github.com/uxauditpro/backend/internal/domain/repository"
)

type webhookEventRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewWebhookEventRepository creates the GORM-backed webhook event log.
func NewWebhookEventRepository(db *gorm.DB, logger *zap.Logger) domainRepo.WebhookEventRepository {
	return &webhookEventRepository{db: db, logger: logger}
}

// Record inserts the event, ignoring conflicts on (provider, event id).
// RowsAffected distinguishes a fresh insert from a replayed delivery.
func (r *webhookEventRepository) Record(ctx context.Context, event *model.WebhookEvent) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(event)

	if result.Error != nil {
		r.logger.Error("Failed to record webhook event",
			zap.String("provider", event.Provider),
			zap.String("event_id", event.EventID),
			zap.Error(result.Error))
		return false, apperrors.Wrap(result.Error, "failed to record webhook event")
	}

	return result.RowsAffected > 0, nil
}

func (r *webhookEventRepository) GetByEventID(ctx context.Context, providerName, eventID string) (*model.WebhookEvent, error) {
	var event model.WebhookEvent

	err := r.db.WithContext(ctx).
		Where("provider = ? AND event_id = ?", providerName, eventID).
		First(&event).Error
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrNotFound, "webhook event not found", nil)
		}
		return nil, apperrors.Wrap(err, "failed to get webhook event")
	}

	return &event, nil
}
