package common

import (
	"pms/src/models"
	"pms/src/models/scopes"

	"gorm.io/gorm"
)

// OpenCount counts the accesses with no registered exit for a facility.
// Callers enforcing capacity must invoke it inside the same transaction
// that inserts the new access, holding the facility row lock.
func OpenCount(tx *gorm.DB, facilityID uint) (int64, error) {
	var count int64
	err := tx.
		Model(&models.Access{}).
		Scopes(scopes.OpenForFacility(facilityID)).
		Count(&count).
		Error
	if err != nil {
		return 0, Internal(err)
	}
	return count, nil
}
