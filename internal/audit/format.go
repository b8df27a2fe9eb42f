package audit

import (
	"math"

	"github.com/shopspring/decimal"
)

// NotAvailable is printed for NaN and infinite values
const NotAvailable = "n/a"

// Round converts f to a decimal rounded half away from zero to places.
// ok is false for NaN and ±Inf.
func Round(f float64, places int32) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f).Round(places), true
}

// FormatPercent renders a ratio as a percentage with two decimals (0.1234 → "12.34%")
func FormatPercent(ratio float64) string {
	d, ok := Round(ratio*100, 2)
	if !ok {
		return NotAvailable
	}
	return d.StringFixed(2) + "%"
}

// FormatPrice renders a price with two decimals
func FormatPrice(price float64) string {
	d, ok := Round(price, 2)
	if !ok {
		return NotAvailable
	}
	return d.StringFixed(2)
}
