// Package score combines normalized rates against a channel's benchmark
// table into a single weighted performance score in [0,100], and classifies
// scores into qualitative tiers.
package score

import (
	"math"

	"campaign-insights/engine/channel"
	"campaign-insights/engine/rates"
)

// Tier is the qualitative performance bucket for a score.
type Tier string

const (
	TierExcellent        Tier = "Excellent"
	TierGood             Tier = "Good"
	TierAverage          Tier = "Average"
	TierNeedsImprovement Tier = "Needs Improvement"
)

// Score blends each weighted rate's component score. Weights are fixed per
// channel and sum to 1.0 (validated at startup), so the weighted sum already
// lands in [0,100]; the final clamp guards the rounding edge.
//
// Higher-is-better: component = min(100, value/benchmark*100).
// Lower-is-better:  component = min(100, benchmark/value*100) when value > 0,
// else 0 — a zero cost rate means no data, not free delivery.
func Score(d *channel.Descriptor, b channel.Benchmarks, rs rates.Set) int {
	var total float64
	for _, spec := range d.Rates {
		w := b.Weights[spec.Name]
		if w <= 0 {
			continue
		}
		total += w * Component(spec.Direction, rs.Get(spec.Name), b.Expected[spec.Name])
	}
	s := int(math.Round(total))
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// Component normalizes one rate against its benchmark into [0,100].
func Component(dir channel.Direction, value, benchmark float64) float64 {
	if benchmark <= 0 || value <= 0 {
		return 0
	}
	var c float64
	if dir == channel.LowerIsBetter {
		c = benchmark / value * 100
	} else {
		c = value / benchmark * 100
	}
	if c > 100 {
		return 100
	}
	return c
}

// Classify maps a score to its tier. Thresholds are fixed and total: every
// score gets a tier.
func Classify(s int) Tier {
	switch {
	case s >= 90:
		return TierExcellent
	case s >= 75:
		return TierGood
	case s >= 50:
		return TierAverage
	default:
		return TierNeedsImprovement
	}
}
