package common

import (
	"errors"
	"time"

	"pms/src/models"
	"pms/src/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FindOverlappingEvent returns the first event for the facility and admin
// whose [starts_at, ends_at) window intersects [start, end), or nil. A
// non-zero excludeID skips that event so reschedules don't collide with
// themselves.
func FindOverlappingEvent(tx *gorm.DB, facilityID, adminID uint, start, end time.Time, excludeID uint) (*models.Event, error) {
	q := tx.
		Model(&models.Event{}).
		Where("facility_id = ? AND admin_id = ? AND starts_at < ? AND ends_at > ?", facilityID, adminID, end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var event models.Event
	err := q.
		Order("id ASC").
		First(&event).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, Internal(err)
	}
	return &event, nil
}

// FindActiveEventAt returns the event whose window contains t for the given
// facility and admin scope. Overlap is rejected at creation so at most one
// event should match; the lowest id wins if the data is inconsistent.
func FindActiveEventAt(tx *gorm.DB, facilityID, adminID uint, t time.Time) (*models.Event, error) {
	var event models.Event
	err := tx.
		Model(&models.Event{}).
		Where("facility_id = ? AND admin_id = ? AND starts_at <= ? AND ends_at > ?", facilityID, adminID, t, t).
		Order("id ASC").
		First(&event).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, Internal(err)
	}
	return &event, nil
}

// CreateEvent registers a scheduled flat-rate window on a facility. Only
// admins may create events. Event names are unique per owning admin, and a
// window colliding with an existing event for the same facility and admin
// fails with a Conflict naming the collision.
func (e *Engine) CreateEvent(name string, facilityID uint, start, end time.Time, flatFee *decimal.Decimal, user *models.User) (*models.Event, error) {
	if user.Role != types.ROLE_ADMIN {
		return nil, Forbidden("only administrators can create events")
	}
	if !end.After(start) {
		return nil, Invalid("event %q must end after it starts", name)
	}
	var event models.Event
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var dup models.Event
		err := tx.
			Model(&models.Event{}).
			Where("admin_id = ? AND name = ?", user.ID, name).
			First(&dup).
			Error
		if err == nil {
			return Conflict("an event named %q already exists", name)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return Internal(err)
		}
		existing, err := FindOverlappingEvent(tx, facilityID, user.ID, start, end, 0)
		if err != nil {
			return err
		}
		if existing != nil {
			return Conflict("time conflict with event %q", existing.Name)
		}
		event = models.Event{
			Name:       name,
			FacilityID: facilityID,
			StartsAt:   start,
			EndsAt:     end,
			FlatFee:    flatFee,
			AdminID:    user.ID,
		}
		if err := tx.Create(&event).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}
