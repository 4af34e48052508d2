package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHolidayAccrual(t *testing.T) {
	assert.InDelta(t, 13.3333333, MonthlyHolidayAccrual(40, nil), 1e-6)
	assert.Equal(t, 160.0, YearlyHolidayEntitlement(40, nil))
	assert.Equal(t, 96.0, YearlyHolidayEntitlement(24, &CAO{Code: CAOCodeConstruction}))
	assert.Equal(t, 8.0, MonthlyHolidayAccrual(24, nil))
}

func TestADVDays(t *testing.T) {
	assert.Equal(t, 13.0, ADVDays(40, &CAO{Code: "BOUW"}))
	assert.Equal(t, 20.0, ADVDays(40, &CAO{Code: "BOUW", ExtraDays: 20}))
	assert.Equal(t, 0.0, ADVDays(40, &CAO{Code: "HORECA", ExtraDays: 20}))
	assert.Equal(t, 0.0, ADVDays(40, nil))
}

func TestCalculateEntitlement(t *testing.T) {
	got := CalculateEntitlement(36, &CAO{Code: CAOCodeConstruction})
	assert.Equal(t, 36.0, got.HoursPerWeek)
	assert.Equal(t, 12.0, got.MonthlyAccrual)
	assert.Equal(t, 144.0, got.YearlyHours)
	assert.Equal(t, 13.0, got.ADVDays)
}

func TestExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		days   int
		warn   bool
	}{
		{"within window", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 59, true},
		{"window edge", now.AddDate(0, 0, 90), 90, true},
		{"beyond window", now.AddDate(0, 0, 91), 91, false},
		{"partial day rounds up", now.Add(36 * time.Hour), 2, true},
		{"expires now", now, 0, false},
		{"already expired", time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), -2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := expiryStatus(tt.expiry, now)
			assert.Equal(t, tt.days, status.DaysUntilExpiry)
			assert.Equal(t, tt.warn, status.Warn)
		})
	}
}

func TestExpiryAgainstClock(t *testing.T) {
	assert.True(t, ShouldWarnAboutExpiry(time.Now().AddDate(0, 0, 30)))
	assert.False(t, ShouldWarnAboutExpiry(time.Now().AddDate(0, 0, -1)))
	assert.Equal(t, 10, DaysUntilExpiry(time.Now().Add(10*24*time.Hour-time.Minute)))
}

func TestCalculateExpiryDate(t *testing.T) {
	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2029, 1, 15, 0, 0, 0, 0, time.UTC), CalculateExpiryDate(base, DefaultExpiryYears))

	leap := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2029, 3, 1, 0, 0, 0, 0, time.UTC), CalculateExpiryDate(leap, 5))
}
