package common

import (
	"pms/src/models"
	"pms/src/types"

	"gorm.io/gorm"
)

// EffectiveAdmin resolves the admin account that owns whatever the user
// touches: admins own their own records, employees act on behalf of their
// manager. The second return is false for an employee with no manager
// assigned and for unknown roles.
func EffectiveAdmin(user *models.User) (uint, bool) {
	switch user.Role {
	case types.ROLE_ADMIN:
		return user.ID, true
	case types.ROLE_EMPLOYEE:
		if user.AdminID == nil {
			return 0, false
		}
		return *user.AdminID, true
	}
	return 0, false
}

// VisibleAdminIDs returns the admin ids whose records the user may list.
// Admins see their own records plus those of the employees they manage;
// employees see their manager's records. An employee with no manager gets
// an empty set, which lists as an empty result rather than an error.
func VisibleAdminIDs(tx *gorm.DB, user *models.User) ([]uint, error) {
	switch user.Role {
	case types.ROLE_ADMIN:
		ids := []uint{user.ID}
		var employeeIDs []uint
		err := tx.
			Model(&models.User{}).
			Where("admin_id = ? AND role = ?", user.ID, types.ROLE_EMPLOYEE).
			Pluck("id", &employeeIDs).
			Error
		if err != nil {
			return nil, Internal(err)
		}
		return append(ids, employeeIDs...), nil
	case types.ROLE_EMPLOYEE:
		if user.AdminID == nil {
			return []uint{}, nil
		}
		return []uint{*user.AdminID}, nil
	}
	return nil, Forbidden("role %q is not allowed to list records", user.Role)
}

// CheckOwnership compares a stored owning-admin id against the caller's
// effective admin.
func CheckOwnership(user *models.User, adminID uint) error {
	effective, ok := EffectiveAdmin(user)
	if !ok || effective != adminID {
		return Forbidden("you do not have permission to access this record")
	}
	return nil
}
