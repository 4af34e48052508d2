package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// TaxWithholding applies the progressive brackets to grossWage, scales the result for the
// green table and subtracts a month of general tax credit, never going below zero.
func (r Rates) TaxWithholding(grossWage float64, taxTable string, hasTaxCredit bool) float64 {
	remaining := decimal.NewFromFloat(grossWage)
	lower := decimal.Zero
	tax := decimal.Zero
	for _, bracket := range r.Brackets {
		if !remaining.IsPositive() {
			break
		}
		portion := remaining
		if bracket.UpperLimit != nil {
			upper := decimal.NewFromFloat(*bracket.UpperLimit)
			portion = decimal.Min(remaining, upper.Sub(lower))
			lower = upper
		}
		tax = tax.Add(portion.Mul(decimal.NewFromFloat(bracket.Rate)))
		remaining = remaining.Sub(portion)
	}

	if NormalizeTaxTable(taxTable) == TaxTableGreen {
		tax = tax.Mul(decimal.NewFromFloat(r.GreenTableFactor))
	}
	if hasTaxCredit {
		tax = decimal.Max(decimal.Zero, tax.Sub(r.monthlyTaxCredit()))
	}
	return cents(tax)
}

// NormalizeTaxTable folds a table name to its canonical lower-case form; empty means white.
func NormalizeTaxTable(table string) string {
	table = strings.ToLower(strings.TrimSpace(table))
	if table == "" {
		return TaxTableWhite
	}
	return table
}

func (r Rates) monthlyTaxCredit() decimal.Decimal {
	return decimal.NewFromFloat(r.GeneralTaxCredit).Div(monthsPerYear)
}

// Contributions rounds every social security contribution to cents before summing the total.
func (r Rates) Contributions(grossWage float64) SocialSecurity {
	wage := decimal.NewFromFloat(grossWage)
	aow := wage.Mul(decimal.NewFromFloat(r.SocialSecurity.AOW)).Round(2)
	wlz := wage.Mul(decimal.NewFromFloat(r.SocialSecurity.WLZ)).Round(2)
	ww := wage.Mul(decimal.NewFromFloat(r.SocialSecurity.WW)).Round(2)
	return SocialSecurity{
		AOW:   aow.InexactFloat64(),
		WLZ:   wlz.InexactFloat64(),
		WW:    ww.InexactFloat64(),
		Total: aow.Add(wlz).Add(ww).InexactFloat64(),
	}
}

// CalculateTaxWithholding uses the built-in table for year.
func CalculateTaxWithholding(year int, grossWage float64, taxTable string, hasTaxCredit bool) float64 {
	return builtin.For(year).TaxWithholding(grossWage, taxTable, hasTaxCredit)
}

func CalculateSocialSecurity(year int, grossWage float64) SocialSecurity {
	return builtin.For(year).Contributions(grossWage)
}

func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func roundCents(v float64) float64 {
	return cents(decimal.NewFromFloat(v))
}
