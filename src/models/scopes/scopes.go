package scopes

import "gorm.io/gorm"

func WithID(id uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func OwnedBy(adminIDs ...uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("admin_id IN ?", adminIDs)
	}
}

func OpenForFacility(facilityID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("facility_id = ? AND exited_at IS NULL", facilityID)
	}
}

func ByIDAsc(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
