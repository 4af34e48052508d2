package payroll

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const expectedMarchReturn = `<?xml version="1.0" encoding="UTF-8"?>
<Loonaangifte xmlns="http://www.nltaxonomie.nl/2023/loonaangifte" version="2023.01">
  <Bericht>
    <BerichtVersie>2023.01</BerichtVersie>
    <BerichtType>Loonaangifte</BerichtType>
    <BerichtDatum>2025-04-10</BerichtDatum>
  </Bericht>
  <Administratie>
    <Administratienummer>12345678</Administratienummer>
    <LoonheffingsnummerInhoudingsplichtige>123456789L01</LoonheffingsnummerInhoudingsplichtige>
    <Contactpersoon>
      <Naam>salaris</Naam>
      <Email>salaris@bouwbedrijf.nl</Email>
      <Telefoon>020-1234567</Telefoon>
    </Contactpersoon>
  </Administratie>
  <Tijdvak>
    <Jaar>2025</Jaar>
    <Periode>3</Periode>
    <PeriodeType>maand</PeriodeType>
  </Tijdvak>
  <Werknemers>
    <Werknemer>
      <BSN>123456782</BSN>
      <Voorletters>J</Voorletters>
      <Achternaam>Vries</Achternaam>
      <Periode>
        <Begindatum>2025-03-01</Begindatum>
        <Einddatum>2025-03-31</Einddatum>
        <Dagen>42</Dagen>
      </Periode>
      <Loon>
        <LoonInGeld>7380.00</LoonInGeld>
        <LoonVoorLoonbelasting>6300.00</LoonVoorLoonbelasting>
      </Loon>
      <Loonheffing>
        <Ingehouden>2000.99</Ingehouden>
        <Loonheffingskorting>ja</Loonheffingskorting>
        <Tabel>wit</Tabel>
      </Loonheffing>
      <Premies>
        <AOW>1127.70</AOW>
        <WLZ>607.95</WLZ>
        <WW>166.32</WW>
      </Premies>
      <Nettoloon>5120.00</Nettoloon>
    </Werknemer>
  </Werknemers>
  <Totalen>
    <TotaalLoon>7380.00</TotaalLoon>
    <TotaalIngehouden>2000.99</TotaalIngehouden>
    <TotaalPremies>1901.97</TotaalPremies>
  </Totalen>
</Loonaangifte>`

func marchReturn() TaxReturn {
	return BuildTaxReturn(Rates2025, ReturnRequest{
		Company:      testCompany(),
		Year:         2025,
		PeriodType:   PeriodMonthly,
		PeriodNumber: 3,
		Employees:    []EmployeeInput{janDeVries()},
	})
}

func TestRenderLoonaangifte(t *testing.T) {
	generated := time.Date(2025, 4, 10, 9, 30, 0, 0, time.UTC)
	got := renderLoonaangifte(marchReturn(), testCompany(), generated)
	assert.Equal(t, expectedMarchReturn, got)
}

func TestGenerateLoonaangifteXMLLiterals(t *testing.T) {
	got := GenerateLoonaangifteXML(marchReturn(), testCompany())

	assert.Contains(t, got, "<Administratienummer>12345678</Administratienummer>")
	assert.Contains(t, got, "<LoonheffingsnummerInhoudingsplichtige>123456789L01</LoonheffingsnummerInhoudingsplichtige>")
	assert.Equal(t, 1, strings.Count(got, "<Werknemer>"))
	assert.Contains(t, got, "<BSN>123456782</BSN>")
	assert.Contains(t, got, "<BerichtDatum>"+time.Now().Format("2006-01-02")+"</BerichtDatum>")
}

func TestGenerateLoonaangifteXMLYearlyAndGreen(t *testing.T) {
	ret := BuildTaxReturn(Rates2025, ReturnRequest{
		Company:      testCompany(),
		Year:         2025,
		PeriodType:   PeriodYearly,
		PeriodNumber: 9,
		Employees:    []EmployeeInput{anneBakker()},
	})
	got := GenerateLoonaangifteXML(ret, testCompany())

	assert.Contains(t, got, "    <Periode>0</Periode>\n    <PeriodeType>jaar</PeriodeType>")
	assert.Contains(t, got, "<Tabel>groen</Tabel>")
	assert.Contains(t, got, "<Loonheffingskorting>nee</Loonheffingskorting>")
	assert.Contains(t, got, "<Voorletters>A</Voorletters>\n      <Achternaam>Bakker</Achternaam>")
}

func TestGenerateLoonaangifteXMLEscapesText(t *testing.T) {
	company := testCompany()
	company.Phone = "020 & 030"
	company.Email = ""

	got := GenerateLoonaangifteXML(marchReturn(), company)
	assert.Contains(t, got, "<Telefoon>020 &amp; 030</Telefoon>")
	assert.Contains(t, got, "<Naam></Naam>")
}

func TestSplitName(t *testing.T) {
	tests := map[string][2]string{
		"Jan de Vries":      {"J", "Vries"},
		"émile  Zola":       {"É", "Zola"},
		"Cher":              {"C", "Cher"},
		"":                  {"", ""},
		"anna van der Berg": {"A", "Berg"},
	}
	for name, want := range tests {
		initials, surname := splitName(name)
		assert.Equal(t, want[0], initials, name)
		assert.Equal(t, want[1], surname, name)
	}
}
