package model

import (
	"database/sql/driver"

	"github.com/shopspring/decimal"
)

// Plan is the subscription tier of an account.
type Plan string

const (
	PlanFree   Plan = "free"
	PlanPro    Plan = "pro"
	PlanAgency Plan = "agency"
)

// Valid reports whether the plan is one of the known tiers.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanAgency:
		return true
	}
	return false
}

// Paid reports whether the plan requires payment.
func (p Plan) Paid() bool {
	return p == PlanPro || p == PlanAgency
}

// Scan implements sql.Scanner interface
func (p *Plan) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*p = Plan(v)
	case []byte:
		*p = Plan(v)
	default:
		*p = PlanFree
	}
	return nil
}

// Value implements driver.Valuer interface
func (p Plan) Value() (driver.Value, error) {
	return string(p), nil
}

// PlanPrice is one catalog entry: what a plan costs with a given provider.
// Amounts are minor units of the provider's settlement currency and are the
// only source of truth at order creation; client-supplied amounts are ignored.
type PlanPrice struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Plan        Plan   `gorm:"type:plan_tier;not null;index:idx_plan_prices_plan_provider,unique" json:"plan"`
	Provider    string `gorm:"size:20;not null;index:idx_plan_prices_plan_provider,unique" json:"provider"`
	AmountMinor int64  `gorm:"not null" json:"amount_minor"`
	Currency    string `gorm:"size:3;not null" json:"currency"`
	Interval    string `gorm:"size:10;default:'month'" json:"interval"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

// DisplayAmount renders the amount in major units for catalog responses.
func (p PlanPrice) DisplayAmount() string {
	return decimal.NewFromInt(p.AmountMinor).Shift(-2).StringFixed(2)
}

// TableName specifies the table name for GORM
func (PlanPrice) TableName() string {
	return "plan_prices"
}
