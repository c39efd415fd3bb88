// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/nestegg/internal/money"
)

// FormatMoney formats an amount in dollars with cents, e.g. "$12,345.67".
func FormatMoney(amount float64) string {
	return money.Format(amount)
}

// FormatMoneyWhole drops the cents, e.g. "$12,346".
func FormatMoneyWhole(amount float64) string {
	return money.FormatWhole(amount)
}

// FormatMoneyShort abbreviates large amounts.
// e.g., 1234 -> "$1.2K", 1234567 -> "$1.2M"
func FormatMoneyShort(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	switch {
	case amount >= 1_000_000_000:
		return fmt.Sprintf("%s$%.1fB", sign, amount/1_000_000_000)
	case amount >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, amount/1_000_000)
	case amount >= 1_000:
		return fmt.Sprintf("%s$%.1fK", sign, amount/1_000)
	default:
		return fmt.Sprintf("%s$%.0f", sign, math.Round(amount))
	}
}

// FormatMonths formats a month count as years and months.
// e.g., 40 -> "3y 4m", 12 -> "1y", 5 -> "5m"
func FormatMonths(months int) string {
	if months <= 0 {
		return "0m"
	}

	years := months / 12
	rest := months % 12

	switch {
	case years > 0 && rest > 0:
		return fmt.Sprintf("%dy %dm", years, rest)
	case years > 0:
		return fmt.Sprintf("%dy", years)
	default:
		return fmt.Sprintf("%dm", rest)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 value, e.g. 42.5 -> "42.5%".
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatRate formats an annual rate, e.g. 6 -> "6.00%".
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate)
}

// FormatDelta formats a money delta with an explicit sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatMoney(delta)
	}
	return FormatMoney(delta)
}
