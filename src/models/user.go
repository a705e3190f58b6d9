package models

import "pms/src/types"

type User struct {
	ID       uint       `gorm:"primarykey" json:"id"`
	Name     string     `json:"name,omitempty"`
	Username string     `gorm:"uniqueIndex" json:"username,omitempty"`
	Email    string     `json:"email,omitempty"`
	Password string     `json:"-"`
	Role     types.Role `gorm:"default:'employee'" json:"role,omitempty"`
	AdminID  *uint      `json:"admin_id,omitempty"`

	Admin *User `gorm:"foreignKey:AdminID" json:"-"`

	types.Timestamps
}
