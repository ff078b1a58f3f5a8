package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-insights/engine/channel"
	"campaign-insights/engine/insight"
	"campaign-insights/engine/score"
	"campaign-insights/pkg/records"
)

func newPipeline(t *testing.T, name string) *Pipeline {
	t.Helper()
	desc := channel.Lookup(name)
	require.NotNil(t, desc)
	p, err := New(desc, channel.DefaultConfig())
	require.NoError(t, err)
	return p
}

func TestRunAdsBatch(t *testing.T) {
	p := newPipeline(t, "ads")
	res := p.Run([]records.RawRecord{{
		"Ad impressions": float64(1000),
		"Clicks":         float64(20),
		"Amount spent":   float64(50),
		"Conversions":    float64(2),
		"Reach":          float64(500),
		"ROAS":           float64(3),
		"Platform":       "facebook",
	}})

	require.Equal(t, 1, res.TotalRecords)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.InDelta(t, 0.02, rec.Rates.Get("ctr"), 1e-9)
	assert.InDelta(t, 2.5, rec.Rates.Get("cpc"), 1e-9)
	assert.InDelta(t, 3.0, rec.Rates.Get("roas"), 1e-9)
	assert.InDelta(t, 0.1, rec.Rates.Get("conversion_rate"), 1e-9)
	assert.InDelta(t, 2.0, rec.Rates.Get("frequency"), 1e-9)
	assert.InDelta(t, 50.0, rec.Rates.Get("cpm"), 1e-9)

	// ctr/cpc/conversion_rate/frequency all cap at 100; roas scores 75.
	assert.Equal(t, 94, rec.Score)
	assert.Equal(t, score.TierExcellent, rec.Tier)
	assert.Equal(t, 94, res.Summary.Score)
}

func TestRunEventsWithZeroAttendance(t *testing.T) {
	p := newPipeline(t, "events")
	res := p.Run([]records.RawRecord{{
		"RSVPs":     float64(10),
		"Attendees": float64(0),
		"Capacity":  float64(20),
	}})

	rec := res.Records[0]
	assert.Equal(t, 0.0, rec.Rates.Get("attendance_rate"))
	assert.Equal(t, 0.5, rec.Rates.Get("fill_rate"))
	assert.Equal(t, 1.0, rec.Rates.Get("no_show_rate"))
	// leads/attendees has a zero denominator.
	assert.Equal(t, 0.0, rec.Rates.Get("lead_rate"))

	// fill_rate contributes 0.25*66.67, no_show 0.20*35; the rest score 0.
	assert.Equal(t, 24, rec.Score)
	assert.Equal(t, score.TierNeedsImprovement, rec.Tier)
}

func TestRunAdsNoDelivery(t *testing.T) {
	p := newPipeline(t, "ads")
	res := p.Run([]records.RawRecord{{
		"Ad impressions": float64(0),
	}})

	rec := res.Records[0]
	assert.True(t, rec.Rates.AllZero())
	assert.Equal(t, 0, rec.Score)
	assert.Equal(t, score.TierNeedsImprovement, rec.Tier)

	// This is the underperformance floor, not the neutral case: the
	// higher-is-better rates fire improvements.
	require.NotEmpty(t, res.Insights)
	assert.Equal(t, insight.KindImprovement, res.Insights[0].Kind)
}

func TestRunEmptyBatch(t *testing.T) {
	p := newPipeline(t, "email")
	res := p.Run(nil)

	assert.Equal(t, 0, res.TotalRecords)
	assert.Empty(t, res.Records)
	assert.Equal(t, 0, res.Summary.Score)
	assert.Equal(t, score.TierNeedsImprovement, res.Summary.Tier)
	require.Len(t, res.Insights, 1)
	assert.Equal(t, insight.KindRecommendation, res.Insights[0].Kind)
}

func TestRunAggregatesAcrossRecords(t *testing.T) {
	p := newPipeline(t, "email")
	res := p.Run([]records.RawRecord{
		{"Emails sent": float64(100), "Delivered": float64(90), "Opens": float64(30), "Email campaign": "spring"},
		{"Emails sent": float64(200), "Delivered": float64(180), "Opens": float64(30), "Email campaign": "summer"},
	})

	agg := res.Aggregate
	require.NotNil(t, agg)
	assert.Equal(t, 300.0, agg.Totals["sent"])
	assert.Equal(t, 270.0, agg.Totals["delivered"])
	// Ratio of sums: 60/270, not the mean of 30/90 and 30/180.
	assert.InDelta(t, 60.0/270.0, agg.Derived.Get("open_rate"), 1e-12)

	bd := agg.Breakdowns["campaign"]
	require.NotNil(t, bd)
	assert.Equal(t, []string{"spring", "summer"}, bd.Keys())
}

func TestRunDeterministicSerialization(t *testing.T) {
	p := newPipeline(t, "ads")
	batch := []records.RawRecord{
		{"Ad impressions": float64(1000), "Clicks": float64(20), "Amount spent": float64(50), "Platform": "facebook", "Date": "2025-06-01"},
		{"Ad impressions": float64(400), "Clicks": float64(2), "Platform": "google"},
	}

	first, err := json.Marshal(p.Run(batch))
	require.NoError(t, err)
	second, err := json.Marshal(p.Run(batch))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNewRejectsBadWeights(t *testing.T) {
	desc := channel.Lookup("ads")
	cfg := channel.DefaultConfig()
	b := cfg["ads"]
	b.Weights["ctr"] = 0.50 // sum now exceeds 1.0
	cfg["ads"] = b

	_, err := New(desc, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights sum")
}

func TestNewRejectsMissingTable(t *testing.T) {
	desc := channel.Lookup("ads")
	_, err := New(desc, channel.Config{})
	require.Error(t, err)
}
