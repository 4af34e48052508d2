package payroll

import "time"

func testCompany() Company {
	return Company{
		ID:        "c1",
		Name:      "Bouwbedrijf De Vries",
		KvKNumber: "12345678",
		TaxNumber: "123456789L01",
		Email:     "salaris@bouwbedrijf.nl",
		Phone:     "020-1234567",
	}
}

func janDeVries() EmployeeInput {
	return EmployeeInput{
		Employee: Employee{
			ID:         "e1",
			BSN:        "123456782",
			FirstName:  "Jan",
			LastName:   "de Vries",
			SalaryInfo: SalaryInfo{TaxTable: TaxTableWhite, HasTaxCredit: true},
		},
		Records: []PayrollRecord{
			{
				BaseSalary: 3000, OvertimePay: 200, IrregularHoursPay: 100,
				HolidayAllowance: 240, OtherAllowances: 50,
				PensionEmployee: 150, TotalDeductions: 1200, NetSalary: 2390,
			},
			{
				BaseSalary: 3000, Bonuses: 500,
				HolidayAllowance: 240, OtherAllowances: 50,
				PensionEmployee: 150, TotalDeductions: 1300, NetSalary: 2730,
			},
		},
	}
}

func anneBakker() EmployeeInput {
	return EmployeeInput{
		Employee: Employee{
			ID:         "e2",
			BSN:        "111222333",
			FirstName:  "Anne",
			LastName:   "Bakker",
			SalaryInfo: SalaryInfo{TaxTable: TaxTableGreen},
		},
		Records: []PayrollRecord{{BaseSalary: 2000, TotalDeductions: 600, NetSalary: 1400}},
	}
}

func march2025() (time.Time, time.Time) {
	return GetPeriodDates(2025, PeriodMonthly, 3)
}
