package channel

// Live events (fundraisers, town halls, canvass launches). The source only
// records RSVPs and attendees, so no-show rate is the complement of
// attendance.

func init() {
	register(eventsDescriptor, eventsBenchmarks)
}

var eventsDescriptor = &Descriptor{
	Name: "events",
	Fields: []FieldSpec{
		{Metric: "rsvps", SourceKey: "RSVPs", Aliases: []string{"rsvps"}},
		{Metric: "attendees", SourceKey: "Attendees", Aliases: []string{"attendees"}},
		{Metric: "capacity", SourceKey: "Capacity", Aliases: []string{"capacity"}},
		{Metric: "cost", SourceKey: "Event cost", Aliases: []string{"event_cost"}},
		{Metric: "leads", SourceKey: "Leads captured", Aliases: []string{"leads"}},
	},
	Labels: []LabelSpec{
		{Label: "event_type", SourceKey: "Event type", Aliases: []string{"event_type"}},
		{Label: "organization", SourceKey: "Organization ID", Aliases: []string{"organization"}},
	},
	TimeField: TimeSpec{SourceKey: "Event date", Aliases: []string{"event_date"}},
	Rates: []RateSpec{
		{Name: "attendance_rate", Kind: Ratio, Numerator: "attendees", Denominator: "rsvps", Direction: HigherIsBetter},
		{Name: "fill_rate", Kind: Ratio, Numerator: "rsvps", Denominator: "capacity", Direction: HigherIsBetter},
		{Name: "no_show_rate", Kind: Complement, Numerator: "attendees", Denominator: "rsvps", Direction: LowerIsBetter},
		{Name: "lead_rate", Kind: Ratio, Numerator: "leads", Denominator: "attendees", Direction: HigherIsBetter},
		{Name: "cost_per_attendee", Kind: Ratio, Numerator: "cost", Denominator: "attendees", Direction: LowerIsBetter},
	},
	Breakdowns: []BreakdownSpec{
		{Name: "event_type", Label: "event_type"},
		{Name: "organization", Label: "organization"},
	},
	Recommendations: map[Rate]string{
		"attendance_rate":   "Send day-before and day-of reminders to convert RSVPs into attendance",
		"fill_rate":         "Promote the event earlier and through more channels to fill capacity",
		"no_show_rate":      "Collect a small commitment (calendar invite, deposit) at RSVP time",
		"lead_rate":         "Station volunteers at sign-in to capture attendee contact information",
		"cost_per_attendee": "Choose lower-cost venues or consolidate smaller events",
	},
}

var eventsBenchmarks = Benchmarks{
	Expected: map[Rate]float64{
		"attendance_rate":   0.65,
		"fill_rate":         0.75,
		"no_show_rate":      0.35,
		"lead_rate":         0.30,
		"cost_per_attendee": 45.0,
	},
	Weights: map[Rate]float64{
		"attendance_rate": 0.35,
		"fill_rate":       0.25,
		"no_show_rate":    0.20,
		"lead_rate":       0.20,
	},
}
