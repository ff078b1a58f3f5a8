// Package aggregate folds batches of canonical channel metrics into totals,
// per-dimension buckets and time histograms. Derived rates are always
// computed from the summed totals (ratio of sums), never averaged across
// records, to avoid bias toward small-denominator records.
package aggregate

import (
	"bytes"
	"encoding/json"

	"campaign-insights/engine/channel"
	"campaign-insights/engine/extract"
	"campaign-insights/engine/rates"
)

// UnknownBucket collects records whose breakdown label is missing or empty.
// They are never silently dropped.
const UnknownBucket = "unknown"

// Bucket accumulates one breakdown key's records.
type Bucket struct {
	Count   int                        `json:"count"`
	Totals  map[channel.Metric]float64 `json:"totals"`
	Derived rates.Set                  `json:"derived_totals"`
}

// Breakdown is one aggregation dimension. Bucket iteration order is
// insertion order (first-seen key first) for deterministic top-N selection.
type Breakdown struct {
	Name    string
	order   []string
	buckets map[string]*Bucket
}

// Keys returns bucket keys in insertion order.
func (b *Breakdown) Keys() []string { return b.order }

// Bucket returns the accumulator for key, or nil.
func (b *Breakdown) Bucket(key string) *Bucket { return b.buckets[key] }

// MarshalJSON emits buckets as an object in insertion order.
func (b *Breakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range b.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(b.buckets[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Aggregate is the batch rollup for one channel.
type Aggregate struct {
	Count   int                        `json:"count"`
	Totals  map[channel.Metric]float64 `json:"totals"`
	Derived rates.Set                  `json:"derived_totals"`

	// Breakdowns keyed by dimension name, one per configured dimension.
	Breakdowns map[string]*Breakdown `json:"breakdowns"`

	// Fixed-size time histograms, incremented by record count. Records
	// without a parseable timestamp appear in Count/Totals but not here.
	HourOfDay [24]int `json:"hour_of_day"`
	DayOfWeek [7]int  `json:"day_of_week"`
}

// Fold sums a batch of metrics in caller order. Pure accumulation: scores
// and insights are derived afterwards from the returned totals.
func Fold(d *channel.Descriptor, batch []extract.Metrics) *Aggregate {
	agg := &Aggregate{
		Totals:     zeroTotals(d),
		Breakdowns: make(map[string]*Breakdown, len(d.Breakdowns)),
	}
	for _, spec := range d.Breakdowns {
		agg.Breakdowns[spec.Name] = &Breakdown{
			Name:    spec.Name,
			buckets: make(map[string]*Bucket),
		}
	}

	for _, m := range batch {
		agg.Count++
		for metric, v := range m.Values {
			agg.Totals[metric] += v
		}
		for _, spec := range d.Breakdowns {
			key := m.Labels[spec.Label]
			if key == "" {
				key = UnknownBucket
			}
			bd := agg.Breakdowns[spec.Name]
			bucket, ok := bd.buckets[key]
			if !ok {
				bucket = &Bucket{Totals: zeroTotals(d)}
				bd.buckets[key] = bucket
				bd.order = append(bd.order, key)
			}
			bucket.Count++
			for metric, v := range m.Values {
				bucket.Totals[metric] += v
			}
		}
		if m.HasTime {
			agg.HourOfDay[m.Timestamp.Hour()]++
			agg.DayOfWeek[int(m.Timestamp.Weekday())]++
		}
	}

	agg.Derived = rates.FromTotals(d, agg.Totals)
	for _, bd := range agg.Breakdowns {
		for _, bucket := range bd.buckets {
			bucket.Derived = rates.FromTotals(d, bucket.Totals)
		}
	}
	return agg
}

func zeroTotals(d *channel.Descriptor) map[channel.Metric]float64 {
	totals := make(map[channel.Metric]float64, len(d.Fields))
	for _, f := range d.Fields {
		totals[f.Metric] = 0
	}
	return totals
}
