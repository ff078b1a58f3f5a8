// Package rates derives ratio sets from canonical channel metrics. Every
// rate value lies in [0, +inf) and is never NaN: a zero denominator yields
// exactly 0.
package rates

import (
	"bytes"
	"encoding/json"
	"strconv"

	"campaign-insights/engine/channel"
	"campaign-insights/engine/extract"
)

// Set holds the derived rates for one metrics object, in the channel's
// declared rate order. Rates are canonical fractions (0.02, not "2%"); any
// human formatting happens at the presentation layer.
type Set struct {
	Order  []channel.Rate
	Values map[channel.Rate]float64
}

// Compute derives the full rate set from m using the channel's rate specs.
func Compute(d *channel.Descriptor, m extract.Metrics) Set {
	s := Set{
		Order:  make([]channel.Rate, 0, len(d.Rates)),
		Values: make(map[channel.Rate]float64, len(d.Rates)),
	}
	for _, rs := range d.Rates {
		s.Order = append(s.Order, rs.Name)
		s.Values[rs.Name] = derive(rs, m)
	}
	return s
}

// FromTotals derives rates from summed metric totals: ratio of sums, not the
// mean of per-record ratios.
func FromTotals(d *channel.Descriptor, totals map[channel.Metric]float64) Set {
	return Compute(d, extract.Metrics{Channel: d.Name, Values: totals})
}

func derive(rs channel.RateSpec, m extract.Metrics) float64 {
	num := m.Values[rs.Numerator]
	switch rs.Kind {
	case channel.Passthrough:
		return clampNonNegative(num)
	case channel.Complement:
		denom := m.Values[rs.Denominator]
		if denom <= 0 {
			return 0
		}
		v := 1 - num/denom
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	default:
		denom := m.Values[rs.Denominator]
		if denom <= 0 {
			return 0
		}
		scale := rs.Scale
		if scale == 0 {
			scale = 1
		}
		return clampNonNegative(num / denom * scale)
	}
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Get returns the value for r, or 0 when r is not in the set.
func (s Set) Get(r channel.Rate) float64 {
	return s.Values[r]
}

// AllZero reports whether every rate in the set is 0 (the "no data" case).
func (s Set) AllZero() bool {
	for _, v := range s.Values {
		if v != 0 {
			return false
		}
	}
	return true
}

// MarshalJSON emits the rates as an object in declared rate order, so
// serialized results are byte-identical across runs.
func (s Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range s.Order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(r))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(s.Values[r], 'g', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a set from its object form. Order follows the
// object's key order.
func (s *Set) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') {
		return &json.UnmarshalTypeError{Value: "non-object", Type: nil}
	}
	s.Order = nil
	s.Values = make(map[channel.Rate]float64)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		var v float64
		if n, ok := valTok.(json.Number); ok {
			v, _ = n.Float64()
		}
		r := channel.Rate(key)
		s.Order = append(s.Order, r)
		s.Values[r] = v
	}
	_, err = dec.Token() // closing brace
	return err
}
