package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// GetPeriodDates returns the first and last day of a filing period. periodNumber is a
// 1-based month or quarter and is ignored for yearly periods; out-of-range numbers roll
// over into neighbouring years.
func GetPeriodDates(year int, periodType PeriodType, periodNumber int) (time.Time, time.Time) {
	switch periodType {
	case PeriodMonthly:
		start := time.Date(year, time.Month(periodNumber), 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(year, time.Month(periodNumber+1), 0, 0, 0, 0, 0, time.UTC)
		return start, end
	case PeriodQuarterly:
		startMonth := (periodNumber-1)*3 + 1
		start := time.Date(year, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(year, time.Month(startMonth+3), 0, 0, 0, 0, 0, time.UTC)
		return start, end
	default:
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
}

func ParsePeriodType(value string) (PeriodType, error) {
	switch PeriodType(value) {
	case PeriodMonthly, PeriodQuarterly, PeriodYearly:
		return PeriodType(value), nil
	default:
		return "", ErrUnknownPeriodType
	}
}

// AggregateEmployeeTaxData folds an employee's payroll records for a period into filing
// figures. Only base salary, overtime and irregular-hours pay form the wage that tax and
// social security are levied on; the reported wage total also carries bonuses and
// allowances. Net wage is taken from the records as booked, not recomputed.
func AggregateEmployeeTaxData(rates Rates, employee Employee, records []PayrollRecord, periodStart, periodEnd time.Time) EmployeeTaxData {
	base := sum(records, func(r PayrollRecord) float64 { return r.BaseSalary })
	overtime := sum(records, func(r PayrollRecord) float64 { return r.OvertimePay })
	irregular := sum(records, func(r PayrollRecord) float64 { return r.IrregularHoursPay })
	bonuses := sum(records, func(r PayrollRecord) float64 { return r.Bonuses })
	holidayAllowance := sum(records, func(r PayrollRecord) float64 { return r.HolidayAllowance })
	otherAllowances := irregular.Add(sum(records, func(r PayrollRecord) float64 { return r.OtherAllowances }))
	deductions := sum(records, func(r PayrollRecord) float64 { return r.TotalDeductions })
	pension := sum(records, func(r PayrollRecord) float64 { return r.PensionEmployee })
	net := sum(records, func(r PayrollRecord) float64 { return r.NetSalary })

	taxable := base.Add(overtime).Add(irregular).InexactFloat64()
	taxTable := NormalizeTaxTable(employee.SalaryInfo.TaxTable)

	wages := Wages{
		BaseSalary:       cents(base),
		Overtime:         cents(overtime),
		Bonuses:          cents(bonuses),
		HolidayAllowance: cents(holidayAllowance),
		OtherAllowances:  cents(otherAllowances),
	}
	wages.Total = cents(base.Add(overtime).Add(bonuses).Add(holidayAllowance).Add(otherAllowances))
	wages.Reported = cents(sum(records, func(r PayrollRecord) float64 { return r.GrossSalary }))

	return EmployeeTaxData{
		EmployeeID: employee.ID,
		BSN:        employee.BSN,
		FullName:   employee.FullName(),
		Period: TaxPeriod{
			StartDate:  periodStart,
			EndDate:    periodEnd,
			DaysWorked: len(records) * workingDaysPerRecord,
		},
		Wages: wages,
		Deductions: Deductions{
			PensionEmployee: cents(pension),
			Other:           cents(deductions.Sub(pension)),
			Total:           cents(deductions),
		},
		Tax: Tax{
			TaxableWage: roundCents(taxable),
			TaxWithheld: rates.TaxWithholding(taxable, taxTable, employee.SalaryInfo.HasTaxCredit),
			TaxCredit:   employee.SalaryInfo.HasTaxCredit,
			TaxTable:    taxTable,
		},
		SocialSecurity: rates.Contributions(taxable),
		NetWage:        cents(net),
	}
}

func CalculateTotals(employees []EmployeeTaxData) Totals {
	gross, tax, social, net := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, e := range employees {
		gross = gross.Add(decimal.NewFromFloat(e.Wages.Total))
		tax = tax.Add(decimal.NewFromFloat(e.Tax.TaxWithheld))
		social = social.Add(decimal.NewFromFloat(e.SocialSecurity.Total))
		net = net.Add(decimal.NewFromFloat(e.NetWage))
	}
	return Totals{
		TotalGrossWages:          gross.InexactFloat64(),
		TotalTaxWithheld:         tax.InexactFloat64(),
		TotalSocialContributions: social.InexactFloat64(),
		TotalNetWages:            net.InexactFloat64(),
		EmployeeCount:            len(employees),
	}
}

// BuildTaxReturn assembles the return for a filing period without validating it; invalid
// input flows through for ValidateTaxReturn to report.
func BuildTaxReturn(rates Rates, req ReturnRequest) TaxReturn {
	start, end := GetPeriodDates(req.Year, req.PeriodType, req.PeriodNumber)
	periodNumber := req.PeriodNumber
	if req.PeriodType != PeriodMonthly && req.PeriodType != PeriodQuarterly {
		periodNumber = 0
	}

	employees := make([]EmployeeTaxData, 0, len(req.Employees))
	for _, input := range req.Employees {
		employees = append(employees, AggregateEmployeeTaxData(rates, input.Employee, input.Records, start, end))
	}

	return TaxReturn{
		CompanyID:    req.Company.ID,
		Year:         req.Year,
		PeriodType:   req.PeriodType,
		PeriodNumber: periodNumber,
		PeriodStart:  start,
		PeriodEnd:    end,
		EmployeeData: employees,
		Totals:       CalculateTotals(employees),
	}
}

func sum(records []PayrollRecord, field func(PayrollRecord) float64) decimal.Decimal {
	total := decimal.Zero
	for _, record := range records {
		total = total.Add(decimal.NewFromFloat(field(record)))
	}
	return total
}
