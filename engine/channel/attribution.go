package channel

// Cross-channel attribution rollups. These documents are already aggregated
// per source channel by the attribution job upstream; the engine scores the
// rollup the same way it scores raw channel records.

func init() {
	register(attributionDescriptor, attributionBenchmarks)
}

var attributionDescriptor = &Descriptor{
	Name: "attribution",
	Fields: []FieldSpec{
		{Metric: "touchpoints", SourceKey: "Touchpoints", Aliases: []string{"touchpoints"}},
		{Metric: "conversions", SourceKey: "Attributed conversions", Aliases: []string{"attributed_conversions"}},
		{Metric: "revenue", SourceKey: "Attributed revenue", Aliases: []string{"attributed_revenue"}},
		{Metric: "spend", SourceKey: "Total spend", Aliases: []string{"total_spend"}},
		{Metric: "assists", SourceKey: "Assisted conversions", Aliases: []string{"assisted_conversions"}},
	},
	Labels: []LabelSpec{
		{Label: "source_channel", SourceKey: "Source channel", Aliases: []string{"source_channel"}},
		{Label: "campaign", SourceKey: "Attribution campaign", Aliases: []string{"attribution_campaign"}},
		{Label: "organization", SourceKey: "Organization ID", Aliases: []string{"organization"}},
	},
	TimeField: TimeSpec{SourceKey: "Attribution date", Aliases: []string{"attribution_date"}},
	Rates: []RateSpec{
		{Name: "conversion_rate", Kind: Ratio, Numerator: "conversions", Denominator: "touchpoints", Direction: HigherIsBetter},
		{Name: "roas", Kind: Ratio, Numerator: "revenue", Denominator: "spend", Direction: HigherIsBetter},
		{Name: "cost_per_conversion", Kind: Ratio, Numerator: "spend", Denominator: "conversions", Direction: LowerIsBetter},
		{Name: "assist_ratio", Kind: Ratio, Numerator: "assists", Denominator: "conversions", Direction: HigherIsBetter},
	},
	Breakdowns: []BreakdownSpec{
		{Name: "source_channel", Label: "source_channel"},
		{Name: "campaign", Label: "campaign"},
	},
	Recommendations: map[Rate]string{
		"conversion_rate":     "Trim touchpoints that never appear on converting paths",
		"roas":                "Reallocate spend toward source channels with proven attributed revenue",
		"cost_per_conversion": "Cut spend on channels whose attributed conversions cost the most",
	},
}

var attributionBenchmarks = Benchmarks{
	Expected: map[Rate]float64{
		"conversion_rate":     0.02,
		"roas":                4.0,
		"cost_per_conversion": 90.0,
		"assist_ratio":        1.5,
	},
	Weights: map[Rate]float64{
		"conversion_rate":     0.30,
		"roas":                0.40,
		"cost_per_conversion": 0.30,
	},
}
