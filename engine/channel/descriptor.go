// Package channel defines the per-channel descriptors that parameterize the
// generic analytics pipeline. A descriptor carries the field map from raw
// document keys to canonical metrics, the rate formulas, the breakdown
// dimensions and the improvement->recommendation mapping; channel-specific
// behavior is data, not code.
package channel

import "fmt"

// Metric is a canonical numeric field name (impressions, clicks, rsvps...).
type Metric string

// Label is a canonical categorical field name (platform, campaign...).
type Label string

// Rate is a derived ratio name (ctr, cpc, open_rate...).
type Rate string

// Direction says whether a larger rate is better or worse.
type Direction int

const (
	HigherIsBetter Direction = iota
	LowerIsBetter
)

// RateKind selects the formula used to derive a rate from metrics.
type RateKind int

const (
	// Ratio is numerator/denominator, optionally scaled (CPM uses scale 1000).
	Ratio RateKind = iota
	// Passthrough reads a pre-computed value straight from a metric. Legacy
	// sources store some rates (ROAS) instead of their inputs.
	Passthrough
	// Complement is 1 - numerator/denominator, clamped to [0,1]. Used for
	// no-show rate where the source only records RSVPs and attendees.
	Complement
)

// FieldSpec maps one canonical metric to its source document key.
type FieldSpec struct {
	Metric    Metric
	SourceKey string
	Aliases   []string
}

// LabelSpec maps one canonical label to its source document key.
type LabelSpec struct {
	Label     Label
	SourceKey string
	Aliases   []string
}

// TimeSpec names the document key holding the record timestamp used for the
// hour-of-day and day-of-week histograms.
type TimeSpec struct {
	SourceKey string
	Aliases   []string
}

// RateSpec defines one derived rate. Zero denominators always yield exactly 0.
type RateSpec struct {
	Name        Rate
	Kind        RateKind
	Numerator   Metric
	Denominator Metric
	Scale       float64 // 0 means 1
	Direction   Direction
}

// BreakdownSpec names one aggregation dimension keyed by a label.
type BreakdownSpec struct {
	Name  string
	Label Label
}

// Descriptor is the complete static definition of one channel's pipeline.
type Descriptor struct {
	Name            string
	Fields          []FieldSpec
	Labels          []LabelSpec
	TimeField       TimeSpec
	Rates           []RateSpec // fixed order; insight rules fire in this order
	Breakdowns      []BreakdownSpec
	Recommendations map[Rate]string // fired improvement -> recommended action
}

// Spec returns the rate spec for name.
func (d *Descriptor) Spec(name Rate) (RateSpec, bool) {
	for _, rs := range d.Rates {
		if rs.Name == name {
			return rs, true
		}
	}
	return RateSpec{}, false
}

// SourceKeys lists every document key this channel reads: metric fields,
// labels and the time field, with aliases. Dispatch builds its routing index
// from this set.
func (d *Descriptor) SourceKeys() []string {
	var keys []string
	for _, f := range d.Fields {
		keys = append(keys, f.SourceKey)
		keys = append(keys, f.Aliases...)
	}
	for _, l := range d.Labels {
		keys = append(keys, l.SourceKey)
		keys = append(keys, l.Aliases...)
	}
	if d.TimeField.SourceKey != "" {
		keys = append(keys, d.TimeField.SourceKey)
		keys = append(keys, d.TimeField.Aliases...)
	}
	return keys
}

// Validate checks internal consistency: unique metric/rate names and rate
// formulas that only reference declared metrics.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("descriptor has no name")
	}
	metrics := make(map[Metric]bool, len(d.Fields))
	for _, f := range d.Fields {
		if metrics[f.Metric] {
			return fmt.Errorf("channel %s: duplicate metric %q", d.Name, f.Metric)
		}
		metrics[f.Metric] = true
	}
	seen := make(map[Rate]bool, len(d.Rates))
	for _, rs := range d.Rates {
		if seen[rs.Name] {
			return fmt.Errorf("channel %s: duplicate rate %q", d.Name, rs.Name)
		}
		seen[rs.Name] = true
		if !metrics[rs.Numerator] {
			return fmt.Errorf("channel %s: rate %q numerator %q is not a declared metric", d.Name, rs.Name, rs.Numerator)
		}
		if rs.Kind != Passthrough && !metrics[rs.Denominator] {
			return fmt.Errorf("channel %s: rate %q denominator %q is not a declared metric", d.Name, rs.Name, rs.Denominator)
		}
	}
	labels := make(map[Label]bool, len(d.Labels))
	for _, l := range d.Labels {
		labels[l.Label] = true
	}
	for _, b := range d.Breakdowns {
		if !labels[b.Label] {
			return fmt.Errorf("channel %s: breakdown %q references undeclared label %q", d.Name, b.Name, b.Label)
		}
	}
	return nil
}
