package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of a payment attempt.
// pending is the only non-terminal state; confirmed, failed and expired are
// final and may never change again.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusExpired   OrderStatus = "expired"
)

// Terminal reports whether the status is final.
func (s OrderStatus) Terminal() bool {
	return s != OrderStatusPending
}

// Scan implements sql.Scanner interface
func (s *OrderStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = OrderStatus(v)
	case []byte:
		*s = OrderStatus(v)
	default:
		*s = OrderStatusPending
	}
	return nil
}

// Value implements driver.Valuer interface
func (s OrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Order is one payment attempt in the ledger. The ledger row, not any client
// signal, decides whether a plan was paid for.
type Order struct {
	ID                uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID         uuid.UUID   `gorm:"type:uuid;not null;index" json:"account_id"`
	Plan              Plan        `gorm:"type:plan_tier;not null" json:"plan"`
	AmountMinor       int64       `gorm:"not null" json:"amount_minor"`
	Currency          string      `gorm:"size:3;not null" json:"currency"`
	Provider          string      `gorm:"size:20;not null" json:"provider"`
	Status            OrderStatus `gorm:"type:order_status;not null;default:'pending';index" json:"status"`
	ProviderReference *string     `gorm:"size:128;uniqueIndex" json:"provider_reference,omitempty"`
	CheckoutData      JSONB       `gorm:"type:jsonb" json:"checkout_data,omitempty"`
	FailureReason     *string     `gorm:"size:255" json:"failure_reason,omitempty"`
	CreatedAt         time.Time   `gorm:"default:now()" json:"created_at"`
	UpdatedAt         time.Time   `gorm:"default:now()" json:"updated_at"`
	ConfirmedAt       *time.Time  `json:"confirmed_at,omitempty"`
}

// TableName specifies the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// JSONB represents a JSONB database type
type JSONB map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONB) Scan(src interface{}) error {
	if src == nil {
		*j = nil
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		*j = make(JSONB)
		return nil
	}
}
