package models

import "github.com/shopspring/decimal"

// OrderTotal sums quantity × price over lines, rounded to cents.
func OrderTotal(lines []LineInput) float64 {
	return linesSum(lines).Round(2).InexactFloat64()
}

// LinesTotal sums persisted lines, rounded to cents.
func LinesTotal(lines []*OrderLine) float64 {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total.Round(2).InexactFloat64()
}

// MaxOrderTotal is the largest total a NUMERIC(12,2) column holds.
var MaxOrderTotal = decimal.RequireFromString("9999999999.99")

// HasSubCentPrecision reports whether v carries digits past the cent.
func HasSubCentPrecision(v float64) bool {
	return decimal.NewFromFloat(v).Exponent() < -2
}

func linesSum(lines []LineInput) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}
