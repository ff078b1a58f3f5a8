// Package memory provides an in-memory RecordSource for tests, demos and
// file-backed CLI runs.
package memory

import (
	"context"
	"sync"

	"campaign-insights/pkg/records"
)

// Store holds normalized documents in insertion order.
type Store struct {
	mu   sync.RWMutex
	docs []doc
}

type doc struct {
	channel string
	record  records.RawRecord
}

func NewStore() *Store {
	return &Store{}
}

// Add appends a document. channelName may be empty for untagged documents.
func (s *Store) Add(channelName string, rec records.RawRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc{channel: channelName, record: records.Normalize(rec)})
}

// Query returns records matching the filter, in insertion order. A tagged
// document only matches its own channel; untagged documents match any.
func (s *Store) Query(ctx context.Context, channelName string, f records.Filter) ([]records.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []records.RawRecord
	for _, d := range s.docs {
		if d.channel != "" && channelName != "" && d.channel != channelName {
			continue
		}
		if matches(d.record, f) {
			out = append(out, d.record)
		}
	}
	return out, nil
}

func matches(rec records.RawRecord, f records.Filter) bool {
	for k, want := range f {
		if k == "channel" {
			// Channel scoping is handled by Query.
			continue
		}
		got, ok := rec[k]
		if !ok {
			return false
		}
		if !looseEqual(got, want) {
			return false
		}
	}
	return true
}

// looseEqual compares scalars across the numeric types a decoded document
// may carry.
func looseEqual(a, b any) bool {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
		return false
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}
