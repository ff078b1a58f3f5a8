// Package pipeline wires one channel's stages together:
// extract -> rates -> score/tier -> aggregate -> insights.
// The pipeline is pure and CPU-bound; it never performs I/O and produces
// byte-identical results for identical input batches.
package pipeline

import (
	"campaign-insights/engine/aggregate"
	"campaign-insights/engine/channel"
	"campaign-insights/engine/extract"
	"campaign-insights/engine/insight"
	"campaign-insights/engine/rates"
	"campaign-insights/engine/score"
	"campaign-insights/pkg/records"
)

// RecordResult is one scored record.
type RecordResult struct {
	Metrics extract.Metrics `json:"metrics"`
	Rates   rates.Set       `json:"rates"`
	Score   int             `json:"score"`
	Tier    score.Tier      `json:"tier"`
}

// Summary scores the aggregate totals.
type Summary struct {
	Score int        `json:"score"`
	Tier  score.Tier `json:"tier"`
}

// Result is the complete per-channel output for one query invocation.
// Created per call, discarded after the caller consumes it; the engine keeps
// no server-side cache.
type Result struct {
	Channel      string               `json:"channel"`
	TotalRecords int                  `json:"total_records"`
	Records      []RecordResult       `json:"records"`
	Aggregate    *aggregate.Aggregate `json:"aggregate"`
	Summary      Summary              `json:"summary"`
	Insights     []insight.Insight    `json:"insights"`
}

// Pipeline binds a channel descriptor to its benchmark tables.
type Pipeline struct {
	desc  *channel.Descriptor
	bench channel.Benchmarks
}

// New validates that the benchmark tables cover the descriptor before any
// record can be scored with them.
func New(d *channel.Descriptor, cfg channel.Config) (*Pipeline, error) {
	if err := cfg.Validate([]*channel.Descriptor{d}); err != nil {
		return nil, err
	}
	b, err := cfg.For(d.Name)
	if err != nil {
		return nil, err
	}
	return &Pipeline{desc: d, bench: b}, nil
}

// Channel returns the channel name this pipeline serves.
func (p *Pipeline) Channel() string { return p.desc.Name }

// Descriptor returns the bound descriptor.
func (p *Pipeline) Descriptor() *channel.Descriptor { return p.desc }

// Run processes an already-fetched record batch. Zero records is not an
// error: the result has zeroed totals, empty buckets and one neutral
// insight.
func (p *Pipeline) Run(batch []records.RawRecord) *Result {
	res := &Result{
		Channel:      p.desc.Name,
		TotalRecords: len(batch),
		Records:      make([]RecordResult, 0, len(batch)),
	}

	ms := make([]extract.Metrics, 0, len(batch))
	for _, raw := range batch {
		m := extract.Extract(p.desc, raw)
		rs := rates.Compute(p.desc, m)
		sc := score.Score(p.desc, p.bench, rs)
		res.Records = append(res.Records, RecordResult{
			Metrics: m,
			Rates:   rs,
			Score:   sc,
			Tier:    score.Classify(sc),
		})
		ms = append(ms, m)
	}

	res.Aggregate = aggregate.Fold(p.desc, ms)
	aggScore := score.Score(p.desc, p.bench, res.Aggregate.Derived)
	res.Summary = Summary{Score: aggScore, Tier: score.Classify(aggScore)}
	if len(batch) == 0 {
		// No records is not underperformance; there is nothing to critique.
		res.Insights = insight.Neutral()
	} else {
		res.Insights = insight.Generate(p.desc, p.bench, res.Aggregate.Derived)
	}
	return res
}
