package models

import (
	"pms/src/types"

	"github.com/shopspring/decimal"
)

// Facility rates are set by admin CRUD only; the access engine reads them
// fresh inside its entry/exit transactions and never writes them back.
type Facility struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Name          string          `gorm:"uniqueIndex" json:"name,omitempty"`
	Slug          string          `json:"slug,omitempty"`
	Address       string          `json:"address,omitempty"`
	Capacity      int             `json:"capacity"`
	FirstHourRate decimal.Decimal `gorm:"type:numeric(10,2)" json:"first_hour_rate"`
	ExtraHourRate decimal.Decimal `gorm:"type:numeric(10,2)" json:"extra_hour_rate"`
	DailyRate     decimal.Decimal `gorm:"type:numeric(10,2)" json:"daily_rate"`
	AdminID       uint            `json:"admin_id,omitempty"`

	Admin *User `gorm:"foreignKey:AdminID" json:"-"`

	types.Timestamps
}
