// Package dispatch routes an analysis request to the channel pipelines whose
// source fields appear in the filter, queries each channel's records, and
// gathers the per-channel results into a single report.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"campaign-insights/engine/channel"
	"campaign-insights/engine/pipeline"
	"campaign-insights/pkg/apperrors"
	"campaign-insights/pkg/records"
	"campaign-insights/store"
)

// ChannelError is one channel's failure inside a report. The other channels'
// results are unaffected.
type ChannelError struct {
	Channel string `json:"channel"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Report is the combined outcome of one dispatch. Success is true only when
// every selected channel produced a result.
type Report struct {
	ReportID    string                      `json:"report_id"`
	GeneratedAt time.Time                   `json:"generated_at"`
	Success     bool                        `json:"success"`
	Metrics     map[string]*pipeline.Result `json:"metrics"`
	Errors      []ChannelError              `json:"errors,omitempty"`
}

// Dispatcher owns one pipeline per registered channel and a shared record
// source. It is safe for concurrent use; pipelines are stateless.
type Dispatcher struct {
	pipes      map[string]*pipeline.Pipeline
	order      []string
	fieldIndex map[string][]string
	source     store.RecordSource
	log        *slog.Logger
}

// New builds a dispatcher over every built-in channel. Fails if the benchmark
// configuration is invalid for any channel.
func New(source store.RecordSource, cfg channel.Config, log *slog.Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		pipes:      make(map[string]*pipeline.Pipeline),
		fieldIndex: make(map[string][]string),
		source:     source,
		log:        log,
	}
	for _, desc := range channel.BuiltIn() {
		p, err := pipeline.New(desc, cfg)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", desc.Name, err)
		}
		d.pipes[desc.Name] = p
		d.order = append(d.order, desc.Name)
		for _, key := range desc.SourceKeys() {
			d.fieldIndex[key] = append(d.fieldIndex[key], desc.Name)
		}
	}
	return d, nil
}

// Channels returns the registered channel names in registration order.
func (d *Dispatcher) Channels() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Relevant selects the channels a filter addresses. A "channel" key names a
// channel directly; any other key known to a descriptor selects the channels
// that read it. A filter naming no channel-specific field selects everything.
func (d *Dispatcher) Relevant(f records.Filter) []string {
	selected := make(map[string]bool)
	matchedAny := false
	for key, value := range f {
		if key == "channel" {
			if name, ok := value.(string); ok {
				if _, known := d.pipes[name]; known {
					selected[name] = true
					matchedAny = true
				}
			}
			continue
		}
		if owners, ok := d.fieldIndex[key]; ok {
			for _, name := range owners {
				selected[name] = true
			}
			matchedAny = true
		}
	}
	if !matchedAny {
		return d.Channels()
	}
	var out []string
	for _, name := range d.order {
		if selected[name] {
			out = append(out, name)
		}
	}
	return out
}

// Dispatch runs the selected channel pipelines concurrently and gathers
// their results. A failing channel contributes an Errors entry; a panicking
// pipeline is contained the same way.
func (d *Dispatcher) Dispatch(ctx context.Context, f records.Filter) *Report {
	names := d.Relevant(f)
	report := &Report{
		ReportID:    uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Metrics:     make(map[string]*pipeline.Result, len(names)),
	}

	type outcome struct {
		name   string
		result *pipeline.Result
		err    *apperrors.Error
	}

	var wg sync.WaitGroup
	results := make(chan outcome, len(names))
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					d.log.Error("channel pipeline panicked", "channel", name, "panic", r)
					results <- outcome{name: name, err: apperrors.NewPipelineFailure(name, fmt.Sprintf("%v", r))}
				}
			}()
			batch, err := d.source.Query(ctx, name, f)
			if err != nil {
				d.log.Error("channel query failed", "channel", name, "error", err)
				results <- outcome{name: name, err: apperrors.NewQueryFailure(name, err)}
				return
			}
			results <- outcome{name: name, result: d.pipes[name].Run(batch)}
		}(name)
	}
	wg.Wait()
	close(results)

	failed := make(map[string]*apperrors.Error)
	for o := range results {
		if o.err != nil {
			failed[o.name] = o.err
			continue
		}
		report.Metrics[o.name] = o.result
	}
	// Errors in registration order for stable output.
	for _, name := range d.order {
		if e, ok := failed[name]; ok {
			report.Errors = append(report.Errors, ChannelError{
				Channel: name,
				Code:    e.Code,
				Message: e.Message,
			})
		}
	}
	report.Success = len(report.Errors) == 0
	return report
}
