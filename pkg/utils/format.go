// Package utils provides common utility functions for MarketBrief.
package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatUSD formats a number in US Dollar format ($1,234,567.89).
func FormatUSD(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	intPart := int64(amount)
	decPart := amount - float64(intPart)

	formatted := groupThousands(intPart)

	decStr := fmt.Sprintf("%.2f", decPart)
	formatted += decStr[1:] // skip the leading "0"

	if negative {
		return "-$" + formatted
	}
	return "$" + formatted
}

// FormatUSDCompact formats a number in compact US notation.
// e.g., 1927345 → "$1.93M", 192734500000 → "$192.73B"
func FormatUSDCompact(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	prefix := "$"
	if negative {
		prefix = "-$"
	}

	switch {
	case amount >= 1e12:
		return fmt.Sprintf("%s%sT", prefix, trimTrailingZeros(amount/1e12))
	case amount >= 1e9:
		return fmt.Sprintf("%s%sB", prefix, trimTrailingZeros(amount/1e9))
	case amount >= 1e6:
		return fmt.Sprintf("%s%sM", prefix, trimTrailingZeros(amount/1e6))
	case amount >= 1e3:
		return fmt.Sprintf("%s%sK", prefix, trimTrailingZeros(amount/1e3))
	default:
		return fmt.Sprintf("%s%.2f", prefix, amount)
	}
}

// FormatPct formats a percentage value with a sign, e.g., "+12.45%".
func FormatPct(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatRatio formats a unitless ratio with two decimals, e.g., "1.85".
func FormatRatio(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// groupThousands inserts commas into an integer: 1234567 → "1,234,567".
func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	return s + "," + strings.Join(parts, ",")
}

// trimTrailingZeros renders up to two decimals, dropping a trailing ".00".
func trimTrailingZeros(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
