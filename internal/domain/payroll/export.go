package payroll

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	registerSheet = "Loonstaat"
	totalsSheet   = "Totalen"
)

var registerHeaders = []string{
	"Werknemer ID", "BSN", "Naam", "Begindatum", "Einddatum", "Dagen",
	"Basisloon", "Overwerk", "Bonussen", "Vakantiegeld", "Overige toeslagen", "Loon totaal",
	"Loon voor loonbelasting", "Tabel", "Heffingskorting", "Loonheffing",
	"AOW", "WLZ", "WW", "Premies totaal", "Pensioen werknemer", "Inhoudingen totaal", "Nettoloon",
}

// RenderRegisterXLSX writes the wage register of a return: one row per employee and a
// totals sheet.
func RenderRegisterXLSX(ret TaxReturn, company Company) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", registerSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, err
	}

	for i, header := range registerHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(registerSheet, cell, header); err != nil {
			return nil, err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(registerSheet, col, col, 16); err != nil {
			return nil, err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(registerHeaders), 1)
	if err := f.SetCellStyle(registerSheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	for i, e := range ret.EmployeeData {
		row := []any{
			e.EmployeeID, e.BSN, e.FullName,
			e.Period.StartDate.Format("2006-01-02"), e.Period.EndDate.Format("2006-01-02"), e.Period.DaysWorked,
			e.Wages.BaseSalary, e.Wages.Overtime, e.Wages.Bonuses, e.Wages.HolidayAllowance, e.Wages.OtherAllowances, e.Wages.Total,
			e.Tax.TaxableWage, taxTableLabel(e.Tax.TaxTable), yesNo(e.Tax.TaxCredit), e.Tax.TaxWithheld,
			e.SocialSecurity.AOW, e.SocialSecurity.WLZ, e.SocialSecurity.WW, e.SocialSecurity.Total,
			e.Deductions.PensionEmployee, e.Deductions.Total, e.NetWage,
		}
		start, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(registerSheet, start, &row); err != nil {
			return nil, err
		}
		from, _ := excelize.CoordinatesToCellName(7, i+2)
		to, _ := excelize.CoordinatesToCellName(len(registerHeaders), i+2)
		if err := f.SetCellStyle(registerSheet, from, to, amountStyle); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(totalsSheet); err != nil {
		return nil, err
	}
	summary := [][]any{
		{"Werkgever", company.Name},
		{"KvK-nummer", company.KvKNumber},
		{"Loonheffingennummer", company.TaxNumber},
		{"Jaar", ret.Year},
		{"Tijdvak", periodLabel(ret)},
		{"Aantal werknemers", ret.Totals.EmployeeCount},
		{"Totaal loon", ret.Totals.TotalGrossWages},
		{"Totaal loonheffing", ret.Totals.TotalTaxWithheld},
		{"Totaal premies", ret.Totals.TotalSocialContributions},
		{"Totaal netto", ret.Totals.TotalNetWages},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(totalsSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(totalsSheet, "A", "B", 24); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render wage register: %w", err)
	}
	return buf.Bytes(), nil
}
