// Package store defines the record-source seam between the analytics engine
// and the shared campaign-record collection. The engine only ever sees
// already-fetched, normalized RawRecord batches through this interface;
// retry and timeout policy live with the implementations, not the engine.
package store

import (
	"context"

	"campaign-insights/pkg/records"
)

// RecordSource supplies raw campaign records matching a filter. channelName
// scopes the query for stores that tag documents with their channel; records
// without a channel tag match any channel and are left to the extractor's
// field map.
type RecordSource interface {
	Query(ctx context.Context, channelName string, f records.Filter) ([]records.RawRecord, error)
}

// Pinger is implemented by sources backed by a live connection; the HTTP
// readiness probe uses it when available.
type Pinger interface {
	Ping(ctx context.Context) error
}
