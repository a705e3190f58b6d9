package common

import (
	"time"

	"pms/src/types"

	"github.com/shopspring/decimal"
)

type RateSchedule struct {
	FirstHour decimal.Decimal
	ExtraHour decimal.Decimal
	Daily     decimal.Decimal
}

// ComputeFee settles a stay of the given duration and returns the amount
// owed plus the access type it settles under.
//
// With a flat event fee the fee is the event fee, duration ignored.
// Otherwise hours are rounded up and stays of up to one hour pay exactly
// the first-hour rate. Up to 24 hours the fee is first-hour plus each
// additional started hour at the extra-hour rate. Beyond 24 hours the stay
// settles as daily: one daily rate per full 24-hour block of rounded-up
// hours, with the remainder billed on the same first/extra hour tiers.
// The result is rounded half-up to 2 decimal places.
func ComputeFee(duration time.Duration, rates RateSchedule, flatFee *decimal.Decimal) (decimal.Decimal, types.AccessType) {
	if flatFee != nil {
		return flatFee.Round(2), types.ACCESS_EVENT
	}
	hours := chargeableHours(duration)
	if duration <= 24*time.Hour {
		fee := rates.FirstHour
		if hours > 1 {
			fee = fee.Add(rates.ExtraHour.Mul(decimal.NewFromInt(hours - 1)))
		}
		return fee.Round(2), types.ACCESS_HOURLY
	}
	fullDays := hours / 24
	remainder := hours % 24
	fee := rates.Daily.Mul(decimal.NewFromInt(fullDays))
	if remainder >= 1 {
		fee = fee.Add(rates.FirstHour)
	}
	if remainder > 1 {
		fee = fee.Add(rates.ExtraHour.Mul(decimal.NewFromInt(remainder - 1)))
	}
	return fee.Round(2), types.ACCESS_DAILY
}

// chargeableHours rounds the stay up to whole hours, charging at least one.
func chargeableHours(duration time.Duration) int64 {
	if duration <= time.Hour {
		return 1
	}
	hours := int64(duration / time.Hour)
	if duration%time.Hour > 0 {
		hours++
	}
	return hours
}
