package models

import (
	"time"

	"pms/src/types"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the immutable billing record posted once per closed
// Access, in the same transaction as the closing update.
type LedgerEntry struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	Reference string          `gorm:"uniqueIndex" json:"reference,omitempty"`
	AccessID  uint            `gorm:"index" json:"access_id,omitempty"`
	Amount    decimal.Decimal `gorm:"type:numeric(10,2)" json:"amount"`
	PostedAt  time.Time       `json:"posted_at,omitempty"`

	Access *Access `gorm:"foreignKey:AccessID" json:"access,omitempty"`

	types.Timestamps
}
