package calendar

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// CalculateWorkingDays counts the days from start to end inclusive that are not public
// holidays and, when excludeWeekends is set, fall on Monday to Friday.
// An inverted range counts zero days.
func CalculateWorkingDays(start, end time.Time, excludeWeekends bool) int {
	count := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if excludeWeekends && IsWeekend(day) {
			continue
		}
		if IsPublicHoliday(day) {
			continue
		}
		count++
	}
	return count
}

// WorkingDays is CalculateWorkingDays with weekends excluded.
func WorkingDays(start, end time.Time) int {
	return CalculateWorkingDays(start, end, true)
}

func IsWeekend(day time.Time) bool {
	weekday := day.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// CalculateWorkingHours returns the hours between two "HH:MM" clock times.
// Shifts past midnight come out negative and malformed input yields NaN.
func CalculateWorkingHours(startTime, endTime string) float64 {
	start := clockMinutes(startTime)
	end := clockMinutes(endTime)
	return (end - start) / 60
}

func clockMinutes(value string) float64 {
	parts := strings.Split(value, ":")
	if len(parts) < 2 {
		return math.NaN()
	}
	return parseNumber(parts[0])*60 + parseNumber(parts[1])
}

func parseNumber(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return parsed
}
