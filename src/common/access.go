package common

import (
	"errors"
	"time"

	"pms/src/models"
	"pms/src/models/scopes"
	"pms/src/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Engine orchestrates the access lifecycle: entry registration with
// capacity and event checks, exit registration with fee settlement and
// ledger posting. Constructed once at startup; the clock is injectable so
// tests can pin time.
type Engine struct {
	db  *gorm.DB
	now func() time.Time
}

func NewEngine(db *gorm.DB, now func() time.Time) *Engine {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Engine{db: db, now: now}
}

// lockForUpdate takes a row lock so the capacity check-then-insert and the
// closed check-then-update serialize across concurrent requests. The sqlite
// test dialect has no FOR UPDATE grammar and a single writer already
// serializes its writes.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// RegisterEntry admits a vehicle into a facility. The facility row is
// locked for the duration of the transaction so two concurrent entries
// cannot both pass the capacity check. An event covering the entry instant
// tags the access as event-priced.
func (e *Engine) RegisterEntry(plate string, facilityID uint, user *models.User) (*models.Access, error) {
	adminID, ok := EffectiveAdmin(user)
	if !ok {
		return nil, Forbidden("you are not allowed to register accesses")
	}
	var access models.Access
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var facility models.Facility
		err := lockForUpdate(tx).
			Model(&models.Facility{}).
			Scopes(scopes.WithID(facilityID)).
			First(&facility).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("facility [%d] not found", facilityID)
			}
			return Internal(err)
		}
		if facility.AdminID != adminID {
			return Forbidden("you are not allowed to register accesses at facility %q", facility.Name)
		}
		occupied, err := OpenCount(tx, facilityID)
		if err != nil {
			return err
		}
		if occupied >= int64(facility.Capacity) {
			return CapacityExceeded("facility %q is full", facility.Name)
		}
		enteredAt := e.now()
		accessType := types.ACCESS_HOURLY
		var eventID *uint
		event, err := FindActiveEventAt(tx, facilityID, adminID, enteredAt)
		if err != nil {
			return err
		}
		if event != nil {
			accessType = types.ACCESS_EVENT
			eventID = &event.ID
		}
		access = models.Access{
			Plate:      plate,
			FacilityID: facilityID,
			EnteredAt:  enteredAt,
			AccessType: accessType,
			EventID:    eventID,
			AdminID:    adminID,
		}
		if err := tx.Create(&access).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &access, nil
}

// RegisterExit closes an open access: computes the fee for the stay, sets
// the exit timestamp and final access type, and posts the ledger entry, all
// in one transaction. A second exit for the same access always fails.
func (e *Engine) RegisterExit(accessID uint, user *models.User) (*models.Access, error) {
	if _, ok := EffectiveAdmin(user); !ok {
		return nil, Forbidden("you are not allowed to register exits")
	}
	var access models.Access
	err := e.db.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).
			Model(&models.Access{}).
			Scopes(scopes.WithID(accessID)).
			First(&access).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("access [%d] not found", accessID)
			}
			return Internal(err)
		}
		if err := CheckOwnership(user, access.AdminID); err != nil {
			return err
		}
		if access.ExitedAt != nil {
			return AlreadyClosed("exit already registered for access [%d]", accessID)
		}
		var facility models.Facility
		err = tx.
			Model(&models.Facility{}).
			Scopes(scopes.WithID(access.FacilityID)).
			First(&facility).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("facility [%d] for access [%d] not found", access.FacilityID, accessID)
			}
			return Internal(err)
		}

		exitedAt := e.now()
		flatFee, err := e.eventFlatFee(tx, &access)
		if err != nil {
			return err
		}
		rates := RateSchedule{
			FirstHour: facility.FirstHourRate,
			ExtraHour: facility.ExtraHourRate,
			Daily:     facility.DailyRate,
		}
		fee, accessType := ComputeFee(exitedAt.Sub(access.EnteredAt), rates, flatFee)

		err = tx.
			Model(&models.Access{}).
			Scopes(scopes.WithID(access.ID)).
			Updates(map[string]any{
				"exited_at":   exitedAt,
				"fee":         fee,
				"access_type": accessType,
			}).
			Error
		if err != nil {
			return Internal(err)
		}
		access.ExitedAt = &exitedAt
		access.Fee = &fee
		access.AccessType = accessType

		entry := models.LedgerEntry{
			Reference: uuid.NewString(),
			AccessID:  access.ID,
			Amount:    fee,
			PostedAt:  exitedAt,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &access, nil
}

// eventFlatFee resolves the flat fee for an event-tagged access. The event
// may have been deleted or had its fee cleared since entry; returning nil
// makes the stay settle on the hourly/daily tiers instead.
func (e *Engine) eventFlatFee(tx *gorm.DB, access *models.Access) (*decimal.Decimal, error) {
	if access.AccessType != types.ACCESS_EVENT || access.EventID == nil {
		return nil, nil
	}
	var event models.Event
	err := tx.
		Model(&models.Event{}).
		Scopes(scopes.WithID(*access.EventID)).
		First(&event).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, Internal(err)
	}
	return event.FlatFee, nil
}

// ListAccesses returns every access visible to the user, ordered by id.
func (e *Engine) ListAccesses(user *models.User) ([]models.Access, error) {
	adminIDs, err := VisibleAdminIDs(e.db, user)
	if err != nil {
		return nil, err
	}
	accesses := []models.Access{}
	if len(adminIDs) == 0 {
		return accesses, nil
	}
	err = e.db.
		Model(&models.Access{}).
		Scopes(scopes.OwnedBy(adminIDs...), scopes.ByIDAsc).
		Find(&accesses).
		Error
	if err != nil {
		return nil, Internal(err)
	}
	return accesses, nil
}

// GetAccess fetches one access, enforcing record-level ownership.
func (e *Engine) GetAccess(accessID uint, user *models.User) (*models.Access, error) {
	var access models.Access
	err := e.db.
		Model(&models.Access{}).
		Scopes(scopes.WithID(accessID)).
		First(&access).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("access [%d] not found", accessID)
		}
		return nil, Internal(err)
	}
	if err := CheckOwnership(user, access.AdminID); err != nil {
		return nil, err
	}
	return &access, nil
}
