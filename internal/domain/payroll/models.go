package payroll

import "time"

type Company struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	KvKNumber string `json:"kvkNumber"`
	TaxNumber string `json:"taxNumber"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type SalaryInfo struct {
	TaxTable     string `json:"taxTable"`
	HasTaxCredit bool   `json:"hasTaxCredit"`
}

type Employee struct {
	ID         string     `json:"id"`
	BSN        string     `json:"bsn"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	SalaryInfo SalaryInfo `json:"salaryInfo"`
}

func (e Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	default:
		return e.FirstName + " " + e.LastName
	}
}

// PayrollRecord is one pay period of an employee as booked by the payroll run.
type PayrollRecord struct {
	PeriodStart       time.Time `json:"periodStart"`
	PeriodEnd         time.Time `json:"periodEnd"`
	GrossSalary       float64   `json:"grossSalary"`
	BaseSalary        float64   `json:"baseSalary"`
	OvertimePay       float64   `json:"overtimePay"`
	IrregularHoursPay float64   `json:"irregularHoursPay"`
	Bonuses           float64   `json:"bonuses"`
	HolidayAllowance  float64   `json:"holidayAllowance"`
	OtherAllowances   float64   `json:"otherAllowances"`
	PensionEmployee   float64   `json:"pensionEmployee"`
	TotalDeductions   float64   `json:"totalDeductions"`
	NetSalary         float64   `json:"netSalary"`
}

type EmployeeInput struct {
	Employee Employee        `json:"employee"`
	Records  []PayrollRecord `json:"records"`
}

type TaxPeriod struct {
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	DaysWorked int       `json:"daysWorked"`
}

type Wages struct {
	BaseSalary       float64 `json:"baseSalary"`
	Overtime         float64 `json:"overtime"`
	Bonuses          float64 `json:"bonuses"`
	HolidayAllowance float64 `json:"holidayAllowance"`
	OtherAllowances  float64 `json:"otherAllowances"`
	Total            float64 `json:"total"`
	// Reported is the gross salary as booked on the records, zero when none was given.
	Reported         float64 `json:"reported,omitempty"`
}

type Deductions struct {
	PensionEmployee float64 `json:"pensionEmployee"`
	Other           float64 `json:"other"`
	Total           float64 `json:"total"`
}

type Tax struct {
	TaxableWage float64 `json:"taxableWage"`
	TaxWithheld float64 `json:"taxWithheld"`
	TaxCredit   bool    `json:"taxCredit"`
	TaxTable    string  `json:"taxTable"`
}

type SocialSecurity struct {
	AOW   float64 `json:"aow"`
	WLZ   float64 `json:"wlz"`
	WW    float64 `json:"ww"`
	Total float64 `json:"total"`
}

// EmployeeTaxData holds one employee's figures for a filing period. It is built once per
// period and never mutated afterwards.
type EmployeeTaxData struct {
	EmployeeID     string         `json:"employeeId"`
	BSN            string         `json:"bsn"`
	FullName       string         `json:"fullName"`
	Period         TaxPeriod      `json:"period"`
	Wages          Wages          `json:"wages"`
	Deductions     Deductions     `json:"deductions"`
	Tax            Tax            `json:"tax"`
	SocialSecurity SocialSecurity `json:"socialSecurity"`
	NetWage        float64        `json:"netWage"`
}

type Totals struct {
	TotalGrossWages          float64 `json:"totalGrossWages"`
	TotalTaxWithheld         float64 `json:"totalTaxWithheld"`
	TotalSocialContributions float64 `json:"totalSocialContributions"`
	TotalNetWages            float64 `json:"totalNetWages"`
	EmployeeCount            int     `json:"employeeCount"`
}

type TaxReturn struct {
	ID           string            `json:"id,omitempty"`
	CompanyID    string            `json:"companyId"`
	Year         int               `json:"year"`
	PeriodType   PeriodType        `json:"periodType"`
	PeriodNumber int               `json:"periodNumber"`
	PeriodStart  time.Time         `json:"periodStart"`
	PeriodEnd    time.Time         `json:"periodEnd"`
	EmployeeData []EmployeeTaxData `json:"employeeData"`
	Totals       Totals            `json:"totals"`
	Status       string            `json:"status,omitempty"`
	CreatedAt    time.Time         `json:"createdAt,omitempty"`
}

type ValidationError struct {
	Field      string `json:"field"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Severity   string `json:"severity"`
	EmployeeID string `json:"employeeId,omitempty"`
}

// ArchivedReturn is a stored filing with the findings it was validated against.
type ArchivedReturn struct {
	Return   TaxReturn         `json:"return"`
	Company  Company           `json:"company"`
	Findings []ValidationError `json:"findings"`
}

type ReturnSummary struct {
	ID           string     `json:"id"`
	CompanyID    string     `json:"companyId"`
	Year         int        `json:"year"`
	PeriodType   PeriodType `json:"periodType"`
	PeriodNumber int        `json:"periodNumber"`
	Status       string     `json:"status"`
	Totals       Totals     `json:"totals"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ReturnRequest carries everything needed to assemble a filing period's return.
type ReturnRequest struct {
	Company      Company         `json:"company"`
	Year         int             `json:"year"`
	PeriodType   PeriodType      `json:"periodType"`
	PeriodNumber int             `json:"periodNumber"`
	Employees    []EmployeeInput `json:"employees"`
}
