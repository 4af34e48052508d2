package payroll

import "fmt"

// ValidateTaxReturn collects every finding on a built return; it never stops early.
func ValidateTaxReturn(ret TaxReturn) []ValidationError {
	var findings []ValidationError

	if len(ret.EmployeeData) == 0 {
		findings = append(findings, ValidationError{
			Field:    "employeeData",
			Code:     CodeNoEmployees,
			Message:  "Tax return contains no employees",
			Severity: SeverityError,
		})
	}

	for _, employee := range ret.EmployeeData {
		if !ValidateBSN(employee.BSN) {
			findings = append(findings, ValidationError{
				Field:      "bsn",
				Code:       CodeInvalidBSN,
				Message:    fmt.Sprintf("Invalid BSN for %s", employee.FullName),
				Severity:   SeverityError,
				EmployeeID: employee.EmployeeID,
			})
		}
		if employee.Wages.Total <= 0 {
			findings = append(findings, ValidationError{
				Field:      "wages.total",
				Code:       CodeNoWages,
				Message:    fmt.Sprintf("No wages reported for %s", employee.FullName),
				Severity:   SeverityWarning,
				EmployeeID: employee.EmployeeID,
			})
		}
		if employee.Wages.Reported != 0 && employee.Wages.Reported != employee.Wages.Total {
			findings = append(findings, ValidationError{
				Field: "wages.reported",
				Code:  CodeGrossMismatch,
				Message: fmt.Sprintf("Booked gross %.2f for %s differs from the wage components totalling %.2f",
					employee.Wages.Reported, employee.FullName, employee.Wages.Total),
				Severity:   SeverityWarning,
				EmployeeID: employee.EmployeeID,
			})
		}
		if employee.Tax.TaxWithheld < 0 {
			findings = append(findings, ValidationError{
				Field:      "tax.taxWithheld",
				Code:       CodeNegativeTax,
				Message:    fmt.Sprintf("Negative tax withheld for %s", employee.FullName),
				Severity:   SeverityError,
				EmployeeID: employee.EmployeeID,
			})
		}
	}

	if ret.Totals.TotalGrossWages <= 0 {
		findings = append(findings, ValidationError{
			Field:    "totals.totalGrossWages",
			Code:     CodeNoTotalWages,
			Message:  "Total gross wages must be greater than zero",
			Severity: SeverityError,
		})
	}

	return findings
}

// HasBlockingFindings reports whether any finding must stop a submission.
func HasBlockingFindings(findings []ValidationError) bool {
	for _, finding := range findings {
		if finding.Severity == SeverityError {
			return true
		}
	}
	return false
}

func statusFor(findings []ValidationError) string {
	if HasBlockingFindings(findings) {
		return ReturnStatusBlocked
	}
	return ReturnStatusValidated
}
