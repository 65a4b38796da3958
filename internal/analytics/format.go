package analytics

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Placeholder is rendered for values that could not be resolved.
const Placeholder = "—"

var hundred = decimal.NewFromInt(100)

// FormatCurrency renders amount as US dollars, e.g. "$12,345.60" or "-$3.00".
func FormatCurrency(amount decimal.Decimal) string {
	r := amount.Round(2)
	f, _ := r.Abs().Float64()
	s := "$" + humanize.FormatFloat("#,###.##", f)
	if r.IsNegative() {
		return "-" + s
	}
	return s
}

// FormatPercent renders a ratio with two decimals, e.g. 0.1 as "10.00%".
func FormatPercent(ratio decimal.Decimal) string {
	return ratio.Mul(hundred).StringFixed(2) + "%"
}
