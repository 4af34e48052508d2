package leave

import "time"

const (
	CAOCodeConstruction = "BOUW"

	// Statutory minimum: four times the weekly contracted hours per year.
	statutoryWeeksPerYear = 4
	defaultADVDays        = 13

	DefaultExpiryYears = 5
	expiryWarningDays  = 90
)

// CAO identifies the collective labour agreement an employee falls under.
// ExtraDays overrides the agreement's default ADV days; zero keeps the default.
type CAO struct {
	Code      string  `json:"code"`
	ExtraDays float64 `json:"extraDays,omitempty"`
}

type Entitlement struct {
	HoursPerWeek   float64 `json:"hoursPerWeek"`
	MonthlyAccrual float64 `json:"monthlyAccrual"`
	YearlyHours    float64 `json:"yearlyHours"`
	ADVDays        float64 `json:"advDays"`
}

type ExpiryStatus struct {
	ExpiryDate      time.Time `json:"expiryDate"`
	DaysUntilExpiry int       `json:"daysUntilExpiry"`
	Warn            bool      `json:"warn"`
}
