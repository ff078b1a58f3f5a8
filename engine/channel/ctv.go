package channel

// Connected TV. Delivery is measured in households rather than unique users.

func init() {
	register(ctvDescriptor, ctvBenchmarks)
}

var ctvDescriptor = &Descriptor{
	Name: "ctv",
	Fields: []FieldSpec{
		{Metric: "impressions", SourceKey: "CTV impressions", Aliases: []string{"ctv_impressions"}},
		{Metric: "completions", SourceKey: "Video completions", Aliases: []string{"completions"}},
		{Metric: "households", SourceKey: "Households", Aliases: []string{"households"}},
		{Metric: "spend", SourceKey: "CTV spend", Aliases: []string{"ctv_spend"}},
	},
	Labels: []LabelSpec{
		{Label: "platform", SourceKey: "Streaming platform", Aliases: []string{"streaming_platform"}},
		{Label: "campaign", SourceKey: "Flight name", Aliases: []string{"flight"}},
		{Label: "organization", SourceKey: "Organization ID", Aliases: []string{"organization"}},
	},
	TimeField: TimeSpec{SourceKey: "Air date", Aliases: []string{"air_date"}},
	Rates: []RateSpec{
		{Name: "completion_rate", Kind: Ratio, Numerator: "completions", Denominator: "impressions", Direction: HigherIsBetter},
		{Name: "cpm", Kind: Ratio, Numerator: "spend", Denominator: "impressions", Scale: 1000, Direction: LowerIsBetter},
		{Name: "frequency", Kind: Ratio, Numerator: "impressions", Denominator: "households", Direction: LowerIsBetter},
		{Name: "cost_per_completed_view", Kind: Ratio, Numerator: "spend", Denominator: "completions", Direction: LowerIsBetter},
	},
	Breakdowns: []BreakdownSpec{
		{Name: "platform", Label: "platform"},
		{Name: "campaign", Label: "campaign"},
	},
	Recommendations: map[Rate]string{
		"completion_rate":         "Shorten spots or move budget to platforms with stronger completion rates",
		"cpm":                     "Negotiate inventory rates or shift flights to cheaper dayparts",
		"frequency":               "Widen household targeting to avoid over-serving the same homes",
		"cost_per_completed_view": "Prioritize placements where viewers finish the spot",
	},
}

var ctvBenchmarks = Benchmarks{
	Expected: map[Rate]float64{
		"completion_rate":         0.92,
		"cpm":                     22.0,
		"frequency":               3.0,
		"cost_per_completed_view": 0.03,
	},
	Weights: map[Rate]float64{
		"completion_rate":         0.40,
		"cpm":                     0.20,
		"frequency":               0.20,
		"cost_per_completed_view": 0.20,
	},
}
