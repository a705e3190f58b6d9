package models

import (
	"time"

	"pms/src/types"

	"github.com/shopspring/decimal"
)

// Event windows are half-open [StartsAt, EndsAt). Overlap for the same
// facility and owning admin is rejected at creation.
type Event struct {
	ID         uint             `gorm:"primarykey" json:"id"`
	Name       string           `json:"name,omitempty"`
	FacilityID uint             `json:"facility_id,omitempty"`
	StartsAt   time.Time        `json:"starts_at,omitempty"`
	EndsAt     time.Time        `json:"ends_at,omitempty"`
	FlatFee    *decimal.Decimal `gorm:"type:numeric(10,2)" json:"flat_fee,omitempty"`
	AdminID    uint             `json:"admin_id,omitempty"`

	Facility *Facility `gorm:"foreignKey:FacilityID" json:"facility,omitempty"`
	Admin    *User     `gorm:"foreignKey:AdminID" json:"-"`

	types.Timestamps
}
