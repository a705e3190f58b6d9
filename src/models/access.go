package models

import (
	"time"

	"pms/src/types"

	"github.com/shopspring/decimal"
)

// Access is one parking session. ExitedAt is null while the vehicle is
// inside; registering the exit sets ExitedAt, Fee and the final AccessType
// in a single transaction and the row is terminal after that.
type Access struct {
	ID         uint             `gorm:"primarykey" json:"id"`
	Plate      string           `gorm:"index" json:"plate,omitempty"`
	FacilityID uint             `gorm:"index" json:"facility_id,omitempty"`
	EnteredAt  time.Time        `json:"entered_at,omitempty"`
	ExitedAt   *time.Time       `json:"exited_at,omitempty"`
	Fee        *decimal.Decimal `gorm:"type:numeric(10,2)" json:"fee,omitempty"`
	AccessType types.AccessType `gorm:"default:'hourly'" json:"access_type,omitempty"`
	EventID    *uint            `json:"event_id,omitempty"`
	AdminID    uint             `gorm:"index" json:"admin_id,omitempty"`

	Facility *Facility `gorm:"foreignKey:FacilityID" json:"facility,omitempty"`
	Event    *Event    `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Admin    *User     `gorm:"foreignKey:AdminID" json:"-"`

	types.Timestamps
}
