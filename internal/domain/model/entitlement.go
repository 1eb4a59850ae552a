package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// Role is orthogonal to Plan. Admin is provisioned manually and is never
// granted through a payment.
type Role string

const (
	RoleUser   Role = "user"
	RoleAgency Role = "agency"
	RoleAdmin  Role = "admin"
)

// SelfAssignable reports whether an account may pick this role at signup.
func (r Role) SelfAssignable() bool {
	return r == RoleUser || r == RoleAgency
}

// Scan implements sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		*r = RoleUser
	}
	return nil
}

// Value implements driver.Valuer interface
func (r Role) Value() (driver.Value, error) {
	return string(r), nil
}

// Entitlement is the authoritative plan/role state of an account. Plan changes
// flow exclusively through the resolver reacting to a confirmed ledger order.
type Entitlement struct {
	AccountID   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"account_id"`
	Email       string     `gorm:"size:255;uniqueIndex" json:"email"`
	Name        string     `gorm:"size:120" json:"name"`
	Plan        Plan       `gorm:"type:plan_tier;not null;default:'free'" json:"plan"`
	Role        Role       `gorm:"type:account_role;not null;default:'user'" json:"role"`
	LastOrderID *uuid.UUID `gorm:"type:uuid" json:"last_order_id,omitempty"`
	CreatedAt   time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Entitlement) TableName() string {
	return "entitlements"
}
