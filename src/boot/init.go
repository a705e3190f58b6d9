package boot

import (
	"log"
	"time"

	"pms/src/db"
	"pms/src/lib"
	"pms/src/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Facility{},
		&models.Event{},
		&models.Access{},
		&models.LedgerEntry{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitScheduler starts the daily revenue report. Read-only over the
// ledger; the access engine owns no background work.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Printf("Scheduler unavailable: %s\n", err.Error())
		return
	}
	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 10, 0))),
		gocron.NewTask(reportDailyRevenue),
	)
	if err != nil {
		log.Printf("Error scheduling revenue report: %s\n", err.Error())
		return
	}
	sched.Start()
}

func reportDailyRevenue() {
	gdb := db.GetDb()
	until := time.Now().UTC().Truncate(24 * time.Hour)
	since := until.Add(-24 * time.Hour)

	type row struct {
		FacilityID uint
		Total      decimal.Decimal
	}
	var rows []row
	err := gdb.
		Model(&models.LedgerEntry{}).
		Select("accesses.facility_id AS facility_id, SUM(ledger_entries.amount) AS total").
		Joins("JOIN accesses ON accesses.id = ledger_entries.access_id").
		Where("ledger_entries.posted_at >= ? AND ledger_entries.posted_at < ?", since, until).
		Group("accesses.facility_id").
		Scan(&rows).
		Error
	if err != nil {
		log.Printf("Error computing daily revenue: %s\n", err.Error())
		return
	}
	for _, r := range rows {
		log.Printf("revenue %s: facility [%d] total %s\n", since.Format("2006-01-02"), r.FacilityID, r.Total.StringFixed(2))
	}
}
