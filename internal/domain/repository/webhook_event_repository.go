package repository

import (
	"context"

	"github.com/uxauditpro/backend/internal/domain/model"
)

// WebhookEventRepository records every inbound confirmation event. Record is
// insert-or-ignore on (provider, event id) so a replayed delivery surfaces as
// a duplicate instead of being processed twice.
type WebhookEventRepository interface {
	// Record persists the event. inserted=false means the (provider, event id)
	// pair was already recorded.
	Record(ctx context.Context, event *model.WebhookEvent) (inserted bool, err error)

	GetByEventID(ctx context.Context, providerName, eventID string) (*model.WebhookEvent, error)
}
