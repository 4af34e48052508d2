package calendar

import "time"

type Holiday struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

// EasterDate returns Easter Sunday for the Gregorian calendar (Anonymous Gregorian algorithm).
func EasterDate(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func WhitsunDate(year int) time.Time {
	return EasterDate(year).AddDate(0, 0, 49)
}

// PublicHolidays lists the Dutch public holidays of year in calendar order.
// Liberation Day only counts in lustrum years.
func PublicHolidays(year int) []Holiday {
	easter := EasterDate(year)
	whitsun := WhitsunDate(year)

	holidays := []Holiday{
		{Name: "Nieuwjaarsdag", Date: date(year, time.January, 1)},
		{Name: "Goede Vrijdag", Date: easter.AddDate(0, 0, -2)},
		{Name: "Eerste Paasdag", Date: easter},
		{Name: "Tweede Paasdag", Date: easter.AddDate(0, 0, 1)},
		{Name: "Koningsdag", Date: date(year, time.April, 27)},
	}
	if year%5 == 0 {
		holidays = append(holidays, Holiday{Name: "Bevrijdingsdag", Date: date(year, time.May, 5)})
	}
	holidays = append(holidays,
		Holiday{Name: "Hemelvaartsdag", Date: easter.AddDate(0, 0, 39)},
		Holiday{Name: "Eerste Pinksterdag", Date: whitsun},
		Holiday{Name: "Tweede Pinksterdag", Date: whitsun.AddDate(0, 0, 1)},
		Holiday{Name: "Eerste Kerstdag", Date: date(year, time.December, 25)},
		Holiday{Name: "Tweede Kerstdag", Date: date(year, time.December, 26)},
	)
	return holidays
}

func IsPublicHoliday(day time.Time) bool {
	_, ok := HolidayOn(day)
	return ok
}

// HolidayOn returns the holiday falling on day's calendar date, ignoring time of day.
func HolidayOn(day time.Time) (Holiday, bool) {
	for _, holiday := range PublicHolidays(day.Year()) {
		if SameDate(holiday.Date, day) {
			return holiday, true
		}
	}
	return Holiday{}, false
}

// SameDate compares year, month and day of each value in its own location.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
