// Package extract pulls named fields out of raw, schema-less campaign
// records into canonical per-channel metric objects. Extraction never fails:
// absent, null or mistyped fields default to 0 (numeric) or "" (labels).
package extract

import (
	"encoding/json"
	"time"

	"campaign-insights/engine/channel"
	"campaign-insights/pkg/records"
)

// Metrics is the canonical value object for one record on one channel. Every
// metric declared by the descriptor is present in Values (zero-defaulted) and
// every declared label is present in Labels (empty-defaulted). The raw
// untyped map never travels past this boundary.
type Metrics struct {
	Channel string                     `json:"channel"`
	Values  map[channel.Metric]float64 `json:"values"`
	Labels  map[channel.Label]string   `json:"labels"`

	// Timestamp is the parsed record time, used for hour/day histograms.
	Timestamp time.Time `json:"timestamp,omitempty"`
	HasTime   bool      `json:"has_time"`
}

// Timestamp layouts accepted from the source collection, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Extract builds the canonical Metrics for one record. Pure function: no
// side effects, safe to call concurrently on independent records.
func Extract(d *channel.Descriptor, rec records.RawRecord) Metrics {
	m := Metrics{
		Channel: d.Name,
		Values:  make(map[channel.Metric]float64, len(d.Fields)),
		Labels:  make(map[channel.Label]string, len(d.Labels)),
	}
	for _, f := range d.Fields {
		m.Values[f.Metric] = numericField(rec, f.SourceKey, f.Aliases)
	}
	for _, l := range d.Labels {
		m.Labels[l.Label] = stringField(rec, l.SourceKey, l.Aliases)
	}
	if d.TimeField.SourceKey != "" {
		if raw := stringField(rec, d.TimeField.SourceKey, d.TimeField.Aliases); raw != "" {
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, raw); err == nil {
					m.Timestamp = t
					m.HasTime = true
					break
				}
			}
		}
	}
	return m
}

func lookup(rec records.RawRecord, key string, aliases []string) (any, bool) {
	if v, ok := rec[key]; ok && v != nil {
		return v, true
	}
	for _, a := range aliases {
		if v, ok := rec[a]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// numericField coerces the source value to float64. Wrong primitive types
// (strings, booleans, objects) default to 0; negative counts are clamped to
// 0 so derived rates stay in [0, +inf).
func numericField(rec records.RawRecord, key string, aliases []string) float64 {
	v, ok := lookup(rec, key, aliases)
	if !ok {
		return 0
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if f < 0 {
		return 0
	}
	return f
}

func stringField(rec records.RawRecord, key string, aliases []string) string {
	v, ok := lookup(rec, key, aliases)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
