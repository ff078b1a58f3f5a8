// Package records defines the untyped document types that cross the engine's
// input boundary: raw campaign records pulled from the shared collection and
// the field->value filters used to query them.
package records

import "encoding/json"

// RawRecord is one loosely-typed campaign document. Keys are the
// human-readable field names of the source collection ("Ad impressions",
// "Households", "RSVPs"); any field may be absent or null. The engine never
// mutates a RawRecord.
type RawRecord map[string]any

// Filter is a field->value query over the shared collection. Values are
// scalars (string, number, bool); the filter shape is validated at the
// boundary before it reaches dispatch.
type Filter map[string]any

// Normalize converts an arbitrary decoded document into a plain canonical
// RawRecord. json.Number values become float64, nested maps and arrays are
// normalized recursively. Every record entering the engine passes through
// here exactly once, so the core never has to special-case its input's
// underlying representation.
func Normalize(in map[string]any) RawRecord {
	out := make(RawRecord, len(in))
	for k, v := range in {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return nil
	case map[string]any:
		return map[string]any(Normalize(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}

// ValidFilter reports whether f has the scalar shape dispatch expects.
// Nested objects and arrays are rejected; they have no meaning against the
// flat document fields.
func ValidFilter(f Filter) bool {
	for _, v := range f {
		switch v.(type) {
		case string, bool, float64, int, int64, json.Number, nil:
		default:
			return false
		}
	}
	return true
}
