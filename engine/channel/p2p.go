package channel

// Peer-to-peer outreach (volunteer texting and direct messaging).

func init() {
	register(p2pDescriptor, p2pBenchmarks)
}

var p2pDescriptor = &Descriptor{
	Name: "p2p",
	Fields: []FieldSpec{
		{Metric: "sent", SourceKey: "Messages sent", Aliases: []string{"messages_sent"}},
		{Metric: "delivered", SourceKey: "Messages delivered", Aliases: []string{"messages_delivered"}},
		{Metric: "responses", SourceKey: "Responses", Aliases: []string{"responses"}},
		{Metric: "opt_outs", SourceKey: "Opt-outs", Aliases: []string{"opt_outs"}},
		{Metric: "conversions", SourceKey: "Outreach conversions", Aliases: []string{"outreach_conversions"}},
	},
	Labels: []LabelSpec{
		{Label: "campaign", SourceKey: "Outreach campaign", Aliases: []string{"outreach_campaign"}},
		{Label: "organization", SourceKey: "Organization ID", Aliases: []string{"organization"}},
	},
	TimeField: TimeSpec{SourceKey: "Sent at", Aliases: []string{"sent_at"}},
	Rates: []RateSpec{
		{Name: "delivery_rate", Kind: Ratio, Numerator: "delivered", Denominator: "sent", Direction: HigherIsBetter},
		{Name: "response_rate", Kind: Ratio, Numerator: "responses", Denominator: "delivered", Direction: HigherIsBetter},
		{Name: "opt_out_rate", Kind: Ratio, Numerator: "opt_outs", Denominator: "delivered", Direction: LowerIsBetter},
		{Name: "conversion_rate", Kind: Ratio, Numerator: "conversions", Denominator: "responses", Direction: HigherIsBetter},
	},
	Breakdowns: []BreakdownSpec{
		{Name: "campaign", Label: "campaign"},
		{Name: "organization", Label: "organization"},
	},
	Recommendations: map[Rate]string{
		"delivery_rate":   "Scrub the contact list for dead numbers and re-verify consent records",
		"response_rate":   "Personalize the opening message and send during evening hours",
		"opt_out_rate":    "Reduce message volume per contact and lead with an opt-in reminder",
		"conversion_rate": "Follow up responders within the hour while intent is high",
	},
}

var p2pBenchmarks = Benchmarks{
	Expected: map[Rate]float64{
		"delivery_rate":   0.95,
		"response_rate":   0.12,
		"opt_out_rate":    0.02,
		"conversion_rate": 0.10,
	},
	Weights: map[Rate]float64{
		"delivery_rate":   0.20,
		"response_rate":   0.40,
		"opt_out_rate":    0.20,
		"conversion_rate": 0.20,
	},
}
