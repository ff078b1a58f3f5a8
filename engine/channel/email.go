package channel

func init() {
	register(emailDescriptor, emailBenchmarks)
}

var emailDescriptor = &Descriptor{
	Name: "email",
	Fields: []FieldSpec{
		{Metric: "sent", SourceKey: "Emails sent", Aliases: []string{"sent"}},
		{Metric: "delivered", SourceKey: "Delivered", Aliases: []string{"delivered"}},
		{Metric: "opens", SourceKey: "Opens", Aliases: []string{"opens"}},
		{Metric: "clicks", SourceKey: "Email clicks", Aliases: []string{"email_clicks"}},
		{Metric: "bounces", SourceKey: "Bounces", Aliases: []string{"bounces"}},
		{Metric: "unsubscribes", SourceKey: "Unsubscribes", Aliases: []string{"unsubscribes"}},
		{Metric: "conversions", SourceKey: "Email conversions", Aliases: []string{"email_conversions"}},
	},
	Labels: []LabelSpec{
		{Label: "campaign", SourceKey: "Email campaign", Aliases: []string{"email_campaign"}},
		{Label: "audience", SourceKey: "Audience segment", Aliases: []string{"audience"}},
		{Label: "organization", SourceKey: "Organization ID", Aliases: []string{"organization"}},
	},
	TimeField: TimeSpec{SourceKey: "Send date", Aliases: []string{"send_date"}},
	Rates: []RateSpec{
		{Name: "open_rate", Kind: Ratio, Numerator: "opens", Denominator: "delivered", Direction: HigherIsBetter},
		{Name: "click_rate", Kind: Ratio, Numerator: "clicks", Denominator: "delivered", Direction: HigherIsBetter},
		{Name: "click_to_open_rate", Kind: Ratio, Numerator: "clicks", Denominator: "opens", Direction: HigherIsBetter},
		{Name: "bounce_rate", Kind: Ratio, Numerator: "bounces", Denominator: "sent", Direction: LowerIsBetter},
		{Name: "unsubscribe_rate", Kind: Ratio, Numerator: "unsubscribes", Denominator: "delivered", Direction: LowerIsBetter},
		{Name: "delivery_rate", Kind: Ratio, Numerator: "delivered", Denominator: "sent", Direction: HigherIsBetter},
		{Name: "conversion_rate", Kind: Ratio, Numerator: "conversions", Denominator: "clicks", Direction: HigherIsBetter},
	},
	Breakdowns: []BreakdownSpec{
		{Name: "campaign", Label: "campaign"},
		{Name: "audience", Label: "audience"},
		{Name: "organization", Label: "organization"},
	},
	Recommendations: map[Rate]string{
		"open_rate":          "Test subject lines and send times to lift open rate",
		"click_rate":         "Tighten the call to action and reduce competing links in the body",
		"click_to_open_rate": "Align body content with the promise made in the subject line",
		"bounce_rate":        "Clean the list: remove hard bounces and verify new addresses at capture",
		"unsubscribe_rate":   "Lower send frequency or segment the list so content matches interest",
	},
}

var emailBenchmarks = Benchmarks{
	Expected: map[Rate]float64{
		"open_rate":          0.2146,
		"click_rate":         0.0263,
		"click_to_open_rate": 0.105,
		"bounce_rate":        0.0098,
		"unsubscribe_rate":   0.0026,
		"delivery_rate":      0.98,
		"conversion_rate":    0.02,
	},
	Weights: map[Rate]float64{
		"open_rate":          0.30,
		"click_rate":         0.25,
		"click_to_open_rate": 0.15,
		"bounce_rate":        0.15,
		"unsubscribe_rate":   0.15,
	},
}
