package leave

import (
	"math"
	"time"
)

// DaysUntilExpiry rounds up to whole days and goes negative once expired.
func DaysUntilExpiry(expiryDate time.Time) int {
	return daysUntil(expiryDate, time.Now())
}

func ShouldWarnAboutExpiry(expiryDate time.Time) bool {
	return warnFor(DaysUntilExpiry(expiryDate))
}

func CalculateExpiryDate(baseDate time.Time, yearsToAdd int) time.Time {
	return baseDate.AddDate(yearsToAdd, 0, 0)
}

func CheckExpiry(expiryDate time.Time) ExpiryStatus {
	return expiryStatus(expiryDate, time.Now())
}

func expiryStatus(expiryDate, now time.Time) ExpiryStatus {
	days := daysUntil(expiryDate, now)
	return ExpiryStatus{ExpiryDate: expiryDate, DaysUntilExpiry: days, Warn: warnFor(days)}
}

func daysUntil(expiryDate, now time.Time) int {
	return int(math.Ceil(expiryDate.Sub(now).Hours() / 24))
}

func warnFor(days int) bool {
	return days > 0 && days <= expiryWarningDays
}
