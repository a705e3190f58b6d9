package common

import (
	"testing"
	"time"

	"pms/src/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var testRates = RateSchedule{
	FirstHour: decimal.NewFromFloat(10.0),
	ExtraHour: decimal.NewFromFloat(5.0),
	Daily:     decimal.NewFromFloat(50.0),
}

func TestComputeFeeHourlyTiers(t *testing.T) {
	cases := []struct {
		name     string
		duration time.Duration
		want     string
		wantType types.AccessType
	}{
		{"ten minutes charges first hour", 10 * time.Minute, "10.00", types.ACCESS_HOURLY},
		{"exactly one hour charges first hour", time.Hour, "10.00", types.ACCESS_HOURLY},
		{"one hour and a second starts second hour", time.Hour + time.Second, "15.00", types.ACCESS_HOURLY},
		{"two and a half hours", 2*time.Hour + 30*time.Minute, "20.00", types.ACCESS_HOURLY},
		{"exactly 24 hours stays hourly", 24 * time.Hour, "125.00", types.ACCESS_HOURLY},
		{"just past 24 hours becomes daily", 24*time.Hour + time.Second, "60.00", types.ACCESS_DAILY},
		{"26 hours bills a day plus two hours", 26 * time.Hour, "65.00", types.ACCESS_DAILY},
		{"49 hours bills two days plus an hour", 49 * time.Hour, "110.00", types.ACCESS_DAILY},
		{"exactly 48 hours bills two days", 48 * time.Hour, "100.00", types.ACCESS_DAILY},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fee, accessType := ComputeFee(c.duration, testRates, nil)
			assert.Equal(t, c.want, fee.StringFixed(2))
			assert.Equal(t, c.wantType, accessType)
		})
	}
}

func TestComputeFeeFlatEventFee(t *testing.T) {
	flat := decimal.NewFromFloat(25.0)
	for _, duration := range []time.Duration{time.Minute, 3 * time.Hour, 30 * time.Hour} {
		fee, accessType := ComputeFee(duration, testRates, &flat)
		assert.Equal(t, "25.00", fee.StringFixed(2))
		assert.Equal(t, types.ACCESS_EVENT, accessType)
	}
}

func TestComputeFeeScenarioRates(t *testing.T) {
	rates := RateSchedule{
		FirstHour: decimal.NewFromFloat(15.0),
		ExtraHour: decimal.NewFromFloat(7.5),
		Daily:     decimal.NewFromFloat(60.0),
	}
	fee, accessType := ComputeFee(2*time.Hour+30*time.Minute, rates, nil)
	assert.Equal(t, "30.00", fee.StringFixed(2))
	assert.Equal(t, types.ACCESS_HOURLY, accessType)
}

func TestComputeFeeRoundsHalfUp(t *testing.T) {
	rates := RateSchedule{
		FirstHour: decimal.NewFromFloat(10.005),
		ExtraHour: decimal.NewFromFloat(5.0),
		Daily:     decimal.NewFromFloat(50.0),
	}
	fee, _ := ComputeFee(30*time.Minute, rates, nil)
	assert.Equal(t, "10.01", fee.StringFixed(2))
}

// Monotonicity holds within an access type; the hourly-to-daily
// reclassification at 24h may settle cheaper.
func TestComputeFeeMonotonicInDuration(t *testing.T) {
	prev := decimal.Zero
	for d := 30 * time.Minute; d <= 24*time.Hour; d += 30 * time.Minute {
		fee, _ := ComputeFee(d, testRates, nil)
		assert.True(t, fee.GreaterThanOrEqual(prev), "hourly fee decreased at %s: %s < %s", d, fee, prev)
		prev = fee
	}
}

func TestChargeableHours(t *testing.T) {
	assert.EqualValues(t, 1, chargeableHours(0))
	assert.EqualValues(t, 1, chargeableHours(59*time.Minute))
	assert.EqualValues(t, 1, chargeableHours(time.Hour))
	assert.EqualValues(t, 2, chargeableHours(time.Hour+time.Nanosecond))
	assert.EqualValues(t, 26, chargeableHours(25*time.Hour+time.Minute))
}
