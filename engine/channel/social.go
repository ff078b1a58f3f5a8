package channel

// Organic and boosted social posts. Spend may legitimately be zero for
// organic content; spend-based rates then derive to 0 and carry no weight.

func init() {
	register(socialDescriptor, socialBenchmarks)
}

var socialDescriptor = &Descriptor{
	Name: "social",
	Fields: []FieldSpec{
		{Metric: "impressions", SourceKey: "Impressions", Aliases: []string{"social_impressions"}},
		{Metric: "reach", SourceKey: "Post reach", Aliases: []string{"post_reach"}},
		{Metric: "engagements", SourceKey: "Engagements", Aliases: []string{"engagements"}},
		{Metric: "clicks", SourceKey: "Link clicks", Aliases: []string{"link_clicks"}},
		{Metric: "shares", SourceKey: "Shares", Aliases: []string{"shares"}},
		{Metric: "negative_feedback", SourceKey: "Negative feedback", Aliases: []string{"negative_feedback"}},
		{Metric: "spend", SourceKey: "Boost spend", Aliases: []string{"boost_spend"}},
	},
	Labels: []LabelSpec{
		{Label: "platform", SourceKey: "Social platform", Aliases: []string{"social_platform"}},
		{Label: "campaign", SourceKey: "Post campaign", Aliases: []string{"post_campaign"}},
		{Label: "organization", SourceKey: "Organization ID", Aliases: []string{"organization"}},
	},
	TimeField: TimeSpec{SourceKey: "Posted at", Aliases: []string{"posted_at"}},
	Rates: []RateSpec{
		{Name: "engagement_rate", Kind: Ratio, Numerator: "engagements", Denominator: "impressions", Direction: HigherIsBetter},
		{Name: "ctr", Kind: Ratio, Numerator: "clicks", Denominator: "impressions", Direction: HigherIsBetter},
		{Name: "share_rate", Kind: Ratio, Numerator: "shares", Denominator: "impressions", Direction: HigherIsBetter},
		{Name: "negative_feedback_rate", Kind: Ratio, Numerator: "negative_feedback", Denominator: "impressions", Direction: LowerIsBetter},
		{Name: "frequency", Kind: Ratio, Numerator: "impressions", Denominator: "reach", Direction: LowerIsBetter},
	},
	Breakdowns: []BreakdownSpec{
		{Name: "platform", Label: "platform"},
		{Name: "campaign", Label: "campaign"},
	},
	Recommendations: map[Rate]string{
		"engagement_rate":        "Lead with questions or visuals that invite interaction in the first line",
		"ctr":                    "Move the link higher in the post and make the destination explicit",
		"share_rate":             "Publish more shareable formats: checklists, data points, short video",
		"negative_feedback_rate": "Slow posting cadence and review which post types draw hides and reports",
		"frequency":              "Stagger posts across audiences to avoid saturating the same followers",
	},
}

var socialBenchmarks = Benchmarks{
	Expected: map[Rate]float64{
		"engagement_rate":        0.015,
		"ctr":                    0.013,
		"share_rate":             0.0015,
		"negative_feedback_rate": 0.0008,
		"frequency":              3.4,
	},
	Weights: map[Rate]float64{
		"engagement_rate":        0.35,
		"ctr":                    0.25,
		"share_rate":             0.15,
		"negative_feedback_rate": 0.15,
		"frequency":              0.10,
	},
}
