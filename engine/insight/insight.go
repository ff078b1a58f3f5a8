// Package insight turns aggregated rates into ordered, human-readable
// statements: strengths first, then improvements, then recommendations.
// Rule evaluation order follows the channel's declared rate list, so output
// is deterministic for a given input.
package insight

import (
	"fmt"
	"strings"

	"campaign-insights/engine/channel"
	"campaign-insights/engine/rates"
)

// Kind tags an insight statement.
type Kind string

const (
	KindStrength       Kind = "strength"
	KindImprovement    Kind = "improvement"
	KindRecommendation Kind = "recommendation"
)

// Evidence records the numbers behind a fired rule.
type Evidence struct {
	Rate      channel.Rate `json:"metric"`
	Value     float64      `json:"value"`
	Benchmark float64      `json:"benchmark"`
}

// Insight is one generated statement. Generated, never stored: recomputed
// from final aggregates on every run.
type Insight struct {
	Kind     Kind      `json:"kind"`
	Text     string    `json:"text"`
	Evidence *Evidence `json:"evidence,omitempty"`
}

// Margin is the relative deviation from benchmark a rate must exceed before
// a rule fires. Exactly at the margin does not fire.
const Margin = 0.30

const neutralText = "Performance is meeting expectations across tracked benchmarks; maintain the current strategy and keep monitoring."

// Neutral is the single-statement list used when no rule fires, and by
// callers with no records to evaluate at all.
func Neutral() []Insight {
	return []Insight{{Kind: KindRecommendation, Text: neutralText}}
}

// Generate evaluates every benchmarked rate against its reference value.
// Never returns an empty list: when no rule fires it emits a single neutral
// statement. Lower-is-better rates with value 0 carry no data and fire
// neither way.
func Generate(d *channel.Descriptor, b channel.Benchmarks, derived rates.Set) []Insight {
	var strengths, improvements []Insight

	for _, spec := range d.Rates {
		bench, ok := b.Expected[spec.Name]
		if !ok || bench <= 0 {
			continue
		}
		value := derived.Get(spec.Name)
		if spec.Direction == channel.LowerIsBetter && value == 0 {
			continue
		}
		ev := &Evidence{Rate: spec.Name, Value: value, Benchmark: bench}
		switch {
		case isStrength(spec.Direction, value, bench):
			strengths = append(strengths, Insight{
				Kind:     KindStrength,
				Text:     strengthText(spec, value, bench),
				Evidence: ev,
			})
		case isImprovement(spec.Direction, value, bench):
			improvements = append(improvements, Insight{
				Kind:     KindImprovement,
				Text:     improvementText(spec, value, bench),
				Evidence: ev,
			})
		}
	}

	if len(strengths) == 0 && len(improvements) == 0 {
		return Neutral()
	}

	out := make([]Insight, 0, len(strengths)+2*len(improvements))
	out = append(out, strengths...)
	out = append(out, improvements...)
	out = append(out, recommendations(d, strengths, improvements)...)
	return out
}

func isStrength(dir channel.Direction, value, bench float64) bool {
	if dir == channel.LowerIsBetter {
		return value < bench*(1-Margin)
	}
	return value > bench*(1+Margin)
}

func isImprovement(dir channel.Direction, value, bench float64) bool {
	if dir == channel.LowerIsBetter {
		return value > bench*(1+Margin)
	}
	return value < bench*(1-Margin)
}

// recommendations maps each fired improvement to its fixed recommended
// action. With no improvements but at least one strength, it suggests
// scaling the first strength instead.
func recommendations(d *channel.Descriptor, strengths, improvements []Insight) []Insight {
	if len(improvements) == 0 {
		first := strengths[0]
		return []Insight{{
			Kind:     KindRecommendation,
			Text:     fmt.Sprintf("Scale what is working: %s is well ahead of benchmark, so shift more budget and effort behind it.", displayName(first.Evidence.Rate)),
			Evidence: first.Evidence,
		}}
	}
	out := make([]Insight, 0, len(improvements))
	for _, imp := range improvements {
		text, ok := d.Recommendations[imp.Evidence.Rate]
		if !ok {
			text = fmt.Sprintf("Review %s against channel benchmarks and adjust the campaign setup.", displayName(imp.Evidence.Rate))
		}
		out = append(out, Insight{Kind: KindRecommendation, Text: text, Evidence: imp.Evidence})
	}
	return out
}

func strengthText(spec channel.RateSpec, value, bench float64) string {
	name := displayName(spec.Name)
	if spec.Direction == channel.LowerIsBetter {
		return fmt.Sprintf("%s of %s beats the %s benchmark by %.0f%%.", name, formatValue(value), formatValue(bench), deviation(value, bench)*100)
	}
	return fmt.Sprintf("%s of %s is %.0f%% above the %s benchmark.", name, formatValue(value), deviation(value, bench)*100, formatValue(bench))
}

func improvementText(spec channel.RateSpec, value, bench float64) string {
	name := displayName(spec.Name)
	if spec.Direction == channel.LowerIsBetter {
		return fmt.Sprintf("%s of %s runs %.0f%% over the %s benchmark.", name, formatValue(value), deviation(value, bench)*100, formatValue(bench))
	}
	return fmt.Sprintf("%s of %s is %.0f%% below the %s benchmark.", name, formatValue(value), deviation(value, bench)*100, formatValue(bench))
}

func deviation(value, bench float64) float64 {
	d := value/bench - 1
	if d < 0 {
		return -d
	}
	return d
}

func formatValue(v float64) string {
	if v < 1 {
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

var acronyms = map[string]string{
	"ctr":  "CTR",
	"cpc":  "CPC",
	"cpm":  "CPM",
	"roas": "ROAS",
}

func displayName(r channel.Rate) string {
	if a, ok := acronyms[string(r)]; ok {
		return a
	}
	words := strings.Split(string(r), "_")
	words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	return strings.Join(words, " ")
}
