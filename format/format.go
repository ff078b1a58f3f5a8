// Package format renders engine values for human-facing output. Core packages
// keep raw fractions; formatting happens only at the presentation edge.
package format

import (
	"strings"

	"github.com/shopspring/decimal"

	"campaign-insights/engine/channel"
)

// Percent renders a fraction as a percentage with two decimals: 0.1234 -> "12.34%".
func Percent(v float64) string {
	return decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// USD renders a dollar amount: 2.5 -> "$2.50".
func USD(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// Ratio renders a multiplier: 3 -> "3.00x".
func Ratio(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "x"
}

// Count renders a whole metric total without a fractional tail.
func Count(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(0)
}

// Rate picks the rendering for a derived rate from its spec: dollars when the
// numerator is money, percent for fraction-style rates, multiplier otherwise
// (roas, frequency, assist_ratio).
func Rate(spec channel.RateSpec, v float64) string {
	if spec.Numerator == "spend" || spec.Numerator == "cost" {
		return USD(v)
	}
	if spec.Name == "ctr" || strings.Contains(string(spec.Name), "rate") {
		return Percent(v)
	}
	return Ratio(v)
}
