package payroll

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	loonaangifteNamespace = "http://www.nltaxonomie.nl/2023/loonaangifte"
	loonaangifteVersion   = "2023.01"
)

// GenerateLoonaangifteXML renders a return in the tax authority's wage-return schema,
// dated today. Tag names, nesting and order are part of the submission contract.
func GenerateLoonaangifteXML(ret TaxReturn, company Company) string {
	return renderLoonaangifte(ret, company, time.Now())
}

func renderLoonaangifte(ret TaxReturn, company Company, messageDate time.Time) string {
	w := &xmlWriter{}
	w.raw(`<?xml version="1.0" encoding="UTF-8"?>`)
	w.raw(`<Loonaangifte xmlns="` + loonaangifteNamespace + `" version="` + loonaangifteVersion + `">`)

	w.open(1, "Bericht")
	w.tag(2, "BerichtVersie", loonaangifteVersion)
	w.tag(2, "BerichtType", "Loonaangifte")
	w.tag(2, "BerichtDatum", messageDate.Format("2006-01-02"))
	w.close(1, "Bericht")

	w.open(1, "Administratie")
	w.tag(2, "Administratienummer", company.KvKNumber)
	w.tag(2, "LoonheffingsnummerInhoudingsplichtige", company.TaxNumber)
	w.open(2, "Contactpersoon")
	w.tag(3, "Naam", emailLocalPart(company.Email))
	w.tag(3, "Email", company.Email)
	w.tag(3, "Telefoon", company.Phone)
	w.close(2, "Contactpersoon")
	w.close(1, "Administratie")

	w.open(1, "Tijdvak")
	w.tag(2, "Jaar", strconv.Itoa(ret.Year))
	w.tag(2, "Periode", strconv.Itoa(periodNumberFor(ret)))
	w.tag(2, "PeriodeType", periodTypeLabel(ret.PeriodType))
	w.close(1, "Tijdvak")

	w.open(1, "Werknemers")
	for _, employee := range ret.EmployeeData {
		writeEmployee(w, employee)
	}
	w.close(1, "Werknemers")

	w.open(1, "Totalen")
	w.tag(2, "TotaalLoon", amount(ret.Totals.TotalGrossWages))
	w.tag(2, "TotaalIngehouden", amount(ret.Totals.TotalTaxWithheld))
	w.tag(2, "TotaalPremies", amount(ret.Totals.TotalSocialContributions))
	w.close(1, "Totalen")

	w.b.WriteString("</Loonaangifte>")
	return w.b.String()
}

func writeEmployee(w *xmlWriter, e EmployeeTaxData) {
	initials, surname := splitName(e.FullName)

	w.open(2, "Werknemer")
	w.tag(3, "BSN", e.BSN)
	w.tag(3, "Voorletters", initials)
	w.tag(3, "Achternaam", surname)
	w.open(3, "Periode")
	w.tag(4, "Begindatum", e.Period.StartDate.Format("2006-01-02"))
	w.tag(4, "Einddatum", e.Period.EndDate.Format("2006-01-02"))
	w.tag(4, "Dagen", strconv.Itoa(e.Period.DaysWorked))
	w.close(3, "Periode")
	w.open(3, "Loon")
	w.tag(4, "LoonInGeld", amount(e.Wages.Total))
	w.tag(4, "LoonVoorLoonbelasting", amount(e.Tax.TaxableWage))
	w.close(3, "Loon")
	w.open(3, "Loonheffing")
	w.tag(4, "Ingehouden", amount(e.Tax.TaxWithheld))
	w.tag(4, "Loonheffingskorting", yesNo(e.Tax.TaxCredit))
	w.tag(4, "Tabel", taxTableLabel(e.Tax.TaxTable))
	w.close(3, "Loonheffing")
	w.open(3, "Premies")
	w.tag(4, "AOW", amount(e.SocialSecurity.AOW))
	w.tag(4, "WLZ", amount(e.SocialSecurity.WLZ))
	w.tag(4, "WW", amount(e.SocialSecurity.WW))
	w.close(3, "Premies")
	w.tag(3, "Nettoloon", amount(e.NetWage))
	w.close(2, "Werknemer")
}

type xmlWriter struct {
	b strings.Builder
}

func (w *xmlWriter) raw(line string) {
	w.b.WriteString(line)
	w.b.WriteByte('\n')
}

func (w *xmlWriter) open(depth int, name string) {
	w.raw(strings.Repeat("  ", depth) + "<" + name + ">")
}

func (w *xmlWriter) close(depth int, name string) {
	w.raw(strings.Repeat("  ", depth) + "</" + name + ">")
}

func (w *xmlWriter) tag(depth int, name, value string) {
	var escaped strings.Builder
	_ = xml.EscapeText(&escaped, []byte(value))
	w.raw(strings.Repeat("  ", depth) + "<" + name + ">" + escaped.String() + "</" + name + ">")
}

// splitName takes the first letter of the first word as initials and the last word as
// surname. Prefixed surnames such as "van der Berg" keep only their last word.
func splitName(fullName string) (string, string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	first, _ := utf8.DecodeRuneInString(parts[0])
	return strings.ToUpper(string(first)), parts[len(parts)-1]
}

func emailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

func periodNumberFor(ret TaxReturn) int {
	switch ret.PeriodType {
	case PeriodMonthly, PeriodQuarterly:
		return ret.PeriodNumber
	default:
		return 0
	}
}

func periodTypeLabel(periodType PeriodType) string {
	switch periodType {
	case PeriodMonthly:
		return "maand"
	case PeriodQuarterly:
		return "kwartaal"
	default:
		return "jaar"
	}
}

func taxTableLabel(table string) string {
	if NormalizeTaxTable(table) == TaxTableGreen {
		return "groen"
	}
	return "wit"
}

func yesNo(v bool) string {
	if v {
		return "ja"
	}
	return "nee"
}

func amount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
