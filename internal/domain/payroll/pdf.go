package payroll

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// RenderSummaryPDF prints a one-page overview of a return for the employer's records.
// BSNs are masked; the XML is the only document carrying them in full.
func RenderSummaryPDF(ret TaxReturn, company Company) ([]byte, error) {
	return renderSummaryPDF(ret, company, true)
}

func renderSummaryPDF(ret TaxReturn, company Company, compress bool) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	// the core fonts are cp1252; names with diacritics need translating
	text := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Loonaangifte %s %d", periodLabel(ret), ret.Year), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Loonaangifte")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, text(fmt.Sprintf("Werkgever: %s (KvK %s)", company.Name, company.KvKNumber)))
	pdf.Ln(6)
	pdf.Cell(0, 7, text(fmt.Sprintf("Loonheffingennummer: %s", company.TaxNumber)))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Tijdvak: %s %d (%s t/m %s)", periodLabel(ret), ret.Year,
		ret.PeriodStart.Format("2006-01-02"), ret.PeriodEnd.Format("2006-01-02")))
	pdf.Ln(6)
	if ret.Status != "" {
		pdf.Cell(0, 7, fmt.Sprintf("Status: %s", ret.Status))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	widths := []float64{50, 25, 28, 28, 28, 28}
	headers := []string{"Werknemer", "BSN", "Loon", "Loonheffing", "Premies", "Netto"}
	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, e := range ret.EmployeeData {
		row := []string{
			text(e.FullName),
			maskBSN(e.BSN),
			amount(e.Wages.Total),
			amount(e.Tax.TaxWithheld),
			amount(e.SocialSecurity.Total),
			amount(e.NetWage),
		}
		for i, value := range row {
			align := "R"
			if i < 2 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 7, value, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	totals := []string{
		fmt.Sprintf("Totaal (%d)", ret.Totals.EmployeeCount),
		"",
		amount(ret.Totals.TotalGrossWages),
		amount(ret.Totals.TotalTaxWithheld),
		amount(ret.Totals.TotalSocialContributions),
		amount(ret.Totals.TotalNetWages),
	}
	for i, value := range totals {
		pdf.CellFormat(widths[i], 7, value, "1", 0, "R", false, 0, "")
	}
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render summary pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func periodLabel(ret TaxReturn) string {
	switch ret.PeriodType {
	case PeriodMonthly:
		return fmt.Sprintf("maand %d", ret.PeriodNumber)
	case PeriodQuarterly:
		return fmt.Sprintf("kwartaal %d", ret.PeriodNumber)
	default:
		return "jaar"
	}
}

func maskBSN(bsn string) string {
	if len(bsn) <= 3 {
		return "***"
	}
	return "******" + bsn[len(bsn)-3:]
}
