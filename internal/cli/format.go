// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale is the number locale of every figure the tool prints.
var Locale = language.MustParse("es-MX")

var printer = message.NewPrinter(Locale)

// FormatMoney formats an amount with es-MX grouping and one decimal.
// e.g., 1234567.89 -> "1,234,567.9"
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	// Avoid "-0.0" for tiny negatives.
	if math.Abs(v) < 0.05 {
		v = 0
	}
	return printer.Sprintf("%.1f", v)
}

// FormatMoneyPtr formats an optional amount, "-" when absent.
func FormatMoneyPtr(v *float64) string {
	if v == nil {
		return "-"
	}
	return FormatMoney(*v)
}

// FormatNumber formats an integer with es-MX grouping.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatPercent formats a ratio (0.1 = 10%) as a percentage with one decimal.
func FormatPercent(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	return printer.Sprintf("%.1f%%", f*100)
}

// FormatSignedPercent is FormatPercent with a leading + for gains.
func FormatSignedPercent(f float64) string {
	s := FormatPercent(f)
	if f > 0 && !strings.HasPrefix(s, "+") {
		return "+" + s
	}
	return s
}

// FormatDelta formats the change from previous to current with its sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatMoney(delta)
	}
	return "-" + FormatMoney(-delta)
}

// Arrow returns the trend glyph for a change: "▲" for growth, "▼" otherwise.
func Arrow(delta float64) string {
	if delta >= 0 {
		return "▲"
	}
	return "▼"
}

// FormatMillions abbreviates a chart axis value. e.g., 2500000 -> "$2.5M"
func FormatMillions(v float64) string {
	return printer.Sprintf("$%.1fM", v/1_000_000)
}
