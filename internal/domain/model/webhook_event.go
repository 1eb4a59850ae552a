package model

import (
	"database/sql/driver"
	"time"
)

// WebhookOutcome is the terminal result of one inbound confirmation event.
type WebhookOutcome string

const (
	WebhookOutcomeApplied   WebhookOutcome = "applied"
	WebhookOutcomeRejected  WebhookOutcome = "rejected"
	WebhookOutcomeDuplicate WebhookOutcome = "duplicate"
)

// Scan implements sql.Scanner interface
func (w *WebhookOutcome) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*w = WebhookOutcome(v)
	case []byte:
		*w = WebhookOutcome(v)
	default:
		*w = WebhookOutcomeRejected
	}
	return nil
}

// Value implements driver.Valuer interface
func (w WebhookOutcome) Value() (driver.Value, error) {
	return string(w), nil
}

// WebhookEvent records every inbound provider confirmation for audit and
// duplicate detection. EventID is the provider's own event identifier; the
// unique index makes replayed deliveries insert-conflict instead of
// reprocessing.
type WebhookEvent struct {
	ID                int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Provider          string         `gorm:"size:20;not null;index:idx_webhook_events_provider_event,unique" json:"provider"`
	EventID           string         `gorm:"size:255;not null;index:idx_webhook_events_provider_event,unique" json:"event_id"`
	ProviderReference *string        `gorm:"size:128;index" json:"provider_reference,omitempty"`
	Outcome           WebhookOutcome `gorm:"type:webhook_outcome;not null" json:"outcome"`
	Reason            *string        `gorm:"size:255" json:"reason,omitempty"`
	Data              JSONB          `gorm:"type:jsonb" json:"data,omitempty"`
	CreatedAt         time.Time      `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (WebhookEvent) TableName() string {
	return "webhook_events"
}
