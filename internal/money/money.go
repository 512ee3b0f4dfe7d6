// Package money holds the single rounding policy for every reported amount.
//
// Amounts are carried as decimal.Decimal at full precision through
// normalization and aggregation. Rounding happens once, when a value leaves
// the engine in a report struct.
package money

import "github.com/shopspring/decimal"

// Places is the number of decimal places used in every report.
const Places = 2

// Round rounds to Places decimals, halves away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Sum adds the given amounts without rounding.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Format renders a rounded amount with exactly Places decimals.
func Format(d decimal.Decimal) string {
	return Round(d).StringFixed(Places)
}

// Float returns the rounded amount as float64 for spreadsheet cells.
func Float(d decimal.Decimal) float64 {
	f, _ := Round(d).Float64()
	return f
}
