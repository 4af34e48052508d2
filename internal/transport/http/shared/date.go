package shared

import (
	"errors"
	"time"
)

const dateLayout = "2006-01-02"

var ErrEmptyDate = errors.New("date is empty")

// ParseCalendarDate reads YYYY-MM-DD, or an RFC3339 timestamp whose local date is taken as
// written, and returns that date at midnight UTC.
func ParseCalendarDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, ErrEmptyDate
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339, value)
		if tsErr != nil {
			return time.Time{}, err
		}
		parsed = ts
	}
	year, month, day := parsed.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
