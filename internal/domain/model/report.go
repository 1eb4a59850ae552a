package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StringList stores an ordered list of strings as JSONB.
type StringList []string

// Value implements driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		*l = nil
		return nil
	}
}

// Report is one stored audit result for an account.
type Report struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"account_id"`
	URL             string     `gorm:"size:2048;not null" json:"url"`
	UXScore         int        `gorm:"not null" json:"ux_score"`
	Issues          StringList `gorm:"type:jsonb;not null" json:"issues"`
	Recommendations StringList `gorm:"type:jsonb;not null" json:"recommendations"`
	CreatedAt       time.Time  `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Report) TableName() string {
	return "reports"
}
