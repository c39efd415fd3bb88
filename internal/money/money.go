// Package money rounds and formats currency amounts.
package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents rounds an amount to two decimal places, half away from zero.
func Cents(amount float64) decimal.Decimal {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(amount).Round(2)
}

// Round returns amount rounded to cents as a float.
func Round(amount float64) float64 {
	f, _ := Cents(amount).Float64()
	return f
}

// Encode renders an amount as the shortest decimal string that parses back
// to the same float64.
func Encode(amount float64) string {
	return decimal.NewFromFloat(amount).String()
}

// Decode parses a string written by Encode.
func Decode(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	f, _ := d.Float64()
	return f, nil
}

// Parse accepts user input such as "12000", "$12,000.50" or "1_500".
func Parse(s string) (float64, error) {
	clean := strings.NewReplacer("$", "", ",", "", "_", "", " ", "").Replace(s)
	return Decode(clean)
}

// Format renders an amount as "$1,234.56" (or "-$1,234.56").
func Format(amount float64) string {
	d := Cents(amount)
	neg := d.IsNegative()
	if neg {
		d = d.Neg()
	}

	s := d.StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	b.WriteString(groupThousands(whole))
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatWhole renders an amount rounded to whole dollars, e.g. "$1,235".
func FormatWhole(amount float64) string {
	d := Cents(amount).Round(0)
	neg := d.IsNegative()
	if neg {
		d = d.Neg()
	}
	s := "$" + groupThousands(d.StringFixed(0))
	if neg {
		return "-" + s
	}
	return s
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	remainder := len(digits) % 3
	if remainder > 0 {
		b.WriteString(digits[:remainder])
	}
	for i := remainder; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
