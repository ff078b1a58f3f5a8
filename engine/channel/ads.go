package channel

// Paid advertising (search, display, paid social buys). ROAS arrives
// pre-computed in the source documents, so it is a passthrough rate.

func init() {
	register(adsDescriptor, adsBenchmarks)
}

var adsDescriptor = &Descriptor{
	Name: "ads",
	Fields: []FieldSpec{
		{Metric: "impressions", SourceKey: "Ad impressions", Aliases: []string{"impressions"}},
		{Metric: "clicks", SourceKey: "Clicks", Aliases: []string{"clicks"}},
		{Metric: "spend", SourceKey: "Amount spent", Aliases: []string{"spend"}},
		{Metric: "conversions", SourceKey: "Conversions", Aliases: []string{"conversions"}},
		{Metric: "reach", SourceKey: "Reach", Aliases: []string{"reach"}},
		{Metric: "roas", SourceKey: "ROAS", Aliases: []string{"roas"}},
	},
	Labels: []LabelSpec{
		{Label: "platform", SourceKey: "Platform", Aliases: []string{"platform"}},
		{Label: "campaign", SourceKey: "Campaign name", Aliases: []string{"campaign"}},
		{Label: "organization", SourceKey: "Organization ID", Aliases: []string{"organization"}},
	},
	TimeField: TimeSpec{SourceKey: "Date", Aliases: []string{"date"}},
	Rates: []RateSpec{
		{Name: "ctr", Kind: Ratio, Numerator: "clicks", Denominator: "impressions", Direction: HigherIsBetter},
		{Name: "cpc", Kind: Ratio, Numerator: "spend", Denominator: "clicks", Direction: LowerIsBetter},
		{Name: "roas", Kind: Passthrough, Numerator: "roas", Direction: HigherIsBetter},
		{Name: "conversion_rate", Kind: Ratio, Numerator: "conversions", Denominator: "clicks", Direction: HigherIsBetter},
		{Name: "frequency", Kind: Ratio, Numerator: "impressions", Denominator: "reach", Direction: LowerIsBetter},
		{Name: "cpm", Kind: Ratio, Numerator: "spend", Denominator: "impressions", Scale: 1000, Direction: LowerIsBetter},
		{Name: "cost_per_conversion", Kind: Ratio, Numerator: "spend", Denominator: "conversions", Direction: LowerIsBetter},
	},
	Breakdowns: []BreakdownSpec{
		{Name: "platform", Label: "platform"},
		{Name: "campaign", Label: "campaign"},
		{Name: "organization", Label: "organization"},
	},
	Recommendations: map[Rate]string{
		"ctr":             "Test different ad creatives and tighten audience targeting to lift click-through rate",
		"cpc":             "Rebalance bids toward lower-cost placements and pause the most expensive keywords",
		"roas":            "Shift budget toward the campaigns with the strongest return on ad spend",
		"conversion_rate": "Review landing pages for friction between click and conversion",
		"frequency":       "Broaden audiences or cap frequency to reduce ad fatigue",
		"cpm":             "Experiment with alternative placements to bring impression costs down",
	},
}

var adsBenchmarks = Benchmarks{
	Expected: map[Rate]float64{
		"ctr":                 0.009,
		"cpc":                 2.69,
		"roas":                4.0,
		"conversion_rate":     0.03,
		"frequency":           2.5,
		"cpm":                 18.61,
		"cost_per_conversion": 90.0,
	},
	Weights: map[Rate]float64{
		"ctr":             0.25,
		"cpc":             0.20,
		"roas":            0.25,
		"conversion_rate": 0.20,
		"frequency":       0.10,
	},
}
