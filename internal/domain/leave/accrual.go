package leave

// MonthlyHolidayAccrual returns the holiday hours accrued per month. The CAO is accepted for
// agreements with their own accrual rules; none currently change the statutory formula.
func MonthlyHolidayAccrual(hoursPerWeek float64, cao *CAO) float64 {
	return YearlyHolidayEntitlement(hoursPerWeek, cao) / 12
}

func YearlyHolidayEntitlement(hoursPerWeek float64, cao *CAO) float64 {
	return statutoryWeeksPerYear * hoursPerWeek
}

// ADVDays returns the reduced-working-hours days granted by the construction agreement.
// Every other agreement grants none.
func ADVDays(hoursPerWeek float64, cao *CAO) float64 {
	if cao == nil || cao.Code != CAOCodeConstruction {
		return 0
	}
	if cao.ExtraDays != 0 {
		return cao.ExtraDays
	}
	return defaultADVDays
}

func CalculateEntitlement(hoursPerWeek float64, cao *CAO) Entitlement {
	return Entitlement{
		HoursPerWeek:   hoursPerWeek,
		MonthlyAccrual: MonthlyHolidayAccrual(hoursPerWeek, cao),
		YearlyHours:    YearlyHolidayEntitlement(hoursPerWeek, cao),
		ADVDays:        ADVDays(hoursPerWeek, cao),
	}
}
