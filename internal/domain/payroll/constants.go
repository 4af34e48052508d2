package payroll

type PeriodType string

const (
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodYearly    PeriodType = "yearly"
)

const (
	TaxTableWhite = "white"
	TaxTableGreen = "green"

	// assumed working days per payroll record when reporting days worked
	workingDaysPerRecord = 21
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"

	CodeNoEmployees   = "NO_EMPLOYEES"
	CodeInvalidBSN    = "INVALID_BSN"
	CodeNoWages       = "NO_WAGES"
	CodeGrossMismatch = "GROSS_MISMATCH"
	CodeNegativeTax   = "NEGATIVE_TAX"
	CodeNoTotalWages  = "NO_TOTAL_WAGES"
)

const (
	ReturnStatusValidated = "validated"
	ReturnStatusBlocked   = "blocked"
)
