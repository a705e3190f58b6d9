package main

import (
	"net/http"
	"time"

	"pms/src/common"
	"pms/src/db"
	"pms/src/middlewares"
	"pms/src/models"
	"pms/src/types"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func dashboardHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.GET("/dashboard/:id", func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user := middlewares.CurrentUser(ctx)
		facility, err := findOwnedFacility(params.ID, user)
		if err != nil {
			ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		gdb := db.GetDb()
		now := time.Now().UTC()
		today := now.Truncate(24 * time.Hour)
		yesterday := today.Add(-24 * time.Hour)

		occupied, err := common.OpenCount(gdb, facility.ID)
		if err != nil {
			ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		// Today's sessions, aggregated in Go so the query stays portable.
		var todays []models.Access
		err = gdb.
			Model(&models.Access{}).
			Where("facility_id = ? AND (entered_at >= ? OR (exited_at IS NOT NULL AND exited_at >= ?))", facility.ID, today, today).
			Find(&todays).
			Error
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var entriesToday, exitsToday int64
		revenueToday := decimal.Zero
		hourly := make([]int64, 24)
		for _, a := range todays {
			if !a.EnteredAt.Before(today) {
				entriesToday++
				hourly[a.EnteredAt.Hour()]++
			}
			if a.ExitedAt != nil && !a.ExitedAt.Before(today) {
				exitsToday++
				if a.Fee != nil {
					revenueToday = revenueToday.Add(*a.Fee)
				}
			}
		}

		var entriesYesterday, exitsYesterday int64
		gdb.Model(&models.Access{}).
			Where("facility_id = ? AND entered_at >= ? AND entered_at < ?", facility.ID, yesterday, today).
			Count(&entriesYesterday)
		gdb.Model(&models.Access{}).
			Where("facility_id = ? AND exited_at >= ? AND exited_at < ?", facility.ID, yesterday, today).
			Count(&exitsYesterday)

		deltaToday := entriesToday - exitsToday
		deltaYesterday := entriesYesterday - exitsYesterday
		occupancyDelta := 0.0
		if deltaYesterday != 0 {
			occupancyDelta = float64(deltaToday-deltaYesterday) / float64(abs64(deltaYesterday)) * 100
		}

		histogram := make([]types.HourlyOccupancy, 24)
		for h := range histogram {
			histogram[h] = types.HourlyOccupancy{Hour: h, Entries: hourly[h]}
		}

		ctx.JSON(http.StatusOK, gin.H{"data": types.DashboardResponse{
			Metrics: types.DashboardMetrics{
				OccupiedSpaces: occupied,
				TotalSpaces:    facility.Capacity,
				EntriesToday:   entriesToday,
				ExitsToday:     exitsToday,
				RevenueToday:   revenueToday.StringFixed(2),
				OccupancyDelta: occupancyDelta,
			},
			HourlyOccupancy: histogram,
		}})
	})
	return g
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
