package leave

import (
	"errors"
	"time"

	"nlpayroll/internal/domain/calendar"
)

var (
	ErrInvalidRange    = errors.New("end date before start date")
	ErrInvalidHalfDays = errors.New("invalid half-day range")
	ErrNoWorkingDays   = errors.New("leave range contains no working days")
)

// CalculateRequestDays returns the working days a leave request consumes, with optional
// half-day start/end boundaries. Weekends and public holidays are not charged.
func CalculateRequestDays(start, end time.Time, startHalf, endHalf bool) (float64, error) {
	if end.Before(start) {
		return 0, ErrInvalidRange
	}

	if calendar.SameDate(start, end) && startHalf && endHalf {
		return 0, ErrInvalidHalfDays
	}

	days := float64(calendar.WorkingDays(start, end))
	if days == 0 {
		return 0, ErrNoWorkingDays
	}
	if startHalf && chargeable(start) {
		days -= 0.5
	}
	if endHalf && chargeable(end) {
		days -= 0.5
	}
	if days <= 0 {
		return 0, ErrInvalidHalfDays
	}
	return days, nil
}

func chargeable(day time.Time) bool {
	return !calendar.IsWeekend(day) && !calendar.IsPublicHoliday(day)
}
