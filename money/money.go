// Package money formats amounts the way the storefront shows them
// (es-AR: "1.234,5").
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders d with "." as thousands separator and "," before any
// non-zero decimals.
func Format(d decimal.Decimal) string {
	d = d.Round(2)
	neg := d.IsNegative()
	d = d.Abs()

	whole := d.Truncate(0).String()
	frac := d.Sub(d.Truncate(0))

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if !frac.IsZero() {
		b.WriteByte(',')
		b.WriteString(strings.TrimPrefix(frac.String(), "0."))
	}
	return b.String()
}
