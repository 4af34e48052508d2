package payroll

import "testing"

func codes(findings []ValidationError) []string {
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Code+":"+f.Severity)
	}
	return out
}

func TestValidateTaxReturnEmpty(t *testing.T) {
	findings := ValidateTaxReturn(TaxReturn{})
	got := codes(findings)
	if len(got) != 2 || got[0] != "NO_EMPLOYEES:error" || got[1] != "NO_TOTAL_WAGES:error" {
		t.Fatalf("unexpected findings: %v", got)
	}
}

func TestValidateTaxReturnCollectsAllFindings(t *testing.T) {
	ret := TaxReturn{
		EmployeeData: []EmployeeTaxData{{EmployeeID: "e9", BSN: "123456789", FullName: "Piet Jansen"}},
	}
	findings := ValidateTaxReturn(ret)
	got := codes(findings)
	want := []string{"INVALID_BSN:error", "NO_WAGES:warning", "NO_TOTAL_WAGES:error"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if findings[0].EmployeeID != "e9" || findings[1].EmployeeID != "e9" {
		t.Fatalf("expected employee reference on employee findings: %+v", findings)
	}
	if findings[2].EmployeeID != "" {
		t.Fatalf("return-level finding should not reference an employee: %+v", findings[2])
	}
	if !HasBlockingFindings(findings) {
		t.Fatal("expected blocking findings")
	}
}

func TestValidateTaxReturnNegativeTax(t *testing.T) {
	ret := TaxReturn{
		EmployeeData: []EmployeeTaxData{{
			EmployeeID: "e1",
			BSN:        "111222333",
			Wages:      Wages{Total: 1000},
			Tax:        Tax{TaxWithheld: -5},
		}},
		Totals: Totals{TotalGrossWages: 1000},
	}
	got := codes(ValidateTaxReturn(ret))
	if len(got) != 1 || got[0] != "NEGATIVE_TAX:error" {
		t.Fatalf("unexpected findings: %v", got)
	}
}

func TestValidateTaxReturnBookedGrossMismatch(t *testing.T) {
	input := janDeVries()
	input.Records[0].GrossSalary = 3590
	input.Records[1].GrossSalary = 3790
	req := ReturnRequest{Company: testCompany(), Year: 2025, PeriodType: PeriodMonthly, PeriodNumber: 3, Employees: []EmployeeInput{input}}
	if got := codes(ValidateTaxReturn(BuildTaxReturn(Rates2025, req))); len(got) != 0 {
		t.Fatalf("expected matching gross to pass, got %v", got)
	}

	req.Employees[0].Records[1].GrossSalary = 4000
	findings := ValidateTaxReturn(BuildTaxReturn(Rates2025, req))
	got := codes(findings)
	if len(got) != 1 || got[0] != "GROSS_MISMATCH:warning" {
		t.Fatalf("unexpected findings: %v", got)
	}
	if findings[0].EmployeeID != "e1" || findings[0].Field != "wages.reported" {
		t.Fatalf("unexpected finding: %+v", findings[0])
	}
	if HasBlockingFindings(findings) {
		t.Fatal("a gross mismatch must not block the return")
	}
}

func TestValidateTaxReturnDoesNotMutate(t *testing.T) {
	ret := TaxReturn{EmployeeData: []EmployeeTaxData{{BSN: "bad"}}}
	_ = ValidateTaxReturn(ret)
	if ret.EmployeeData[0].BSN != "bad" || ret.Status != "" {
		t.Fatalf("return was modified: %+v", ret)
	}
}

func TestHasBlockingFindingsWarningsOnly(t *testing.T) {
	findings := []ValidationError{{Code: CodeNoWages, Severity: SeverityWarning}}
	if HasBlockingFindings(findings) {
		t.Fatal("warnings alone must not block")
	}
	if statusFor(findings) != ReturnStatusValidated {
		t.Fatalf("unexpected status %s", statusFor(findings))
	}
	if statusFor(append(findings, ValidationError{Severity: SeverityError})) != ReturnStatusBlocked {
		t.Fatal("expected blocked status")
	}
}
