package common

import (
	"fmt"
	"testing"
	"time"

	"pms/src/models"
	"pms/src/types"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.Facility{},
		&models.Event{},
		&models.Access{},
		&models.LedgerEntry{},
	))
	return gdb
}

func seedAdmin(t *testing.T, gdb *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Name:     "Admin " + username,
		Username: username,
		Password: "x",
		Role:     types.ROLE_ADMIN,
	}
	require.NoError(t, gdb.Create(&user).Error)
	return &user
}

func seedEmployee(t *testing.T, gdb *gorm.DB, username string, adminID *uint) *models.User {
	t.Helper()
	user := models.User{
		Name:     "Employee " + username,
		Username: username,
		Password: "x",
		Role:     types.ROLE_EMPLOYEE,
		AdminID:  adminID,
	}
	require.NoError(t, gdb.Create(&user).Error)
	return &user
}

func seedFacility(t *testing.T, gdb *gorm.DB, adminID uint, capacity int) *models.Facility {
	t.Helper()
	facility := models.Facility{
		Name:          fmt.Sprintf("Lot %s", uuid.NewString()[:8]),
		Capacity:      capacity,
		FirstHourRate: decimal.NewFromFloat(10.0),
		ExtraHourRate: decimal.NewFromFloat(5.0),
		DailyRate:     decimal.NewFromFloat(50.0),
		AdminID:       adminID,
	}
	require.NoError(t, gdb.Create(&facility).Error)
	return &facility
}

// testClock lets tests move time forward between entry and exit.
type testClock struct {
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{current: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time { return c.current }

func (c *testClock) Advance(d time.Duration) { c.current = c.current.Add(d) }
