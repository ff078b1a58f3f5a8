package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-insights/engine/channel"
	"campaign-insights/engine/extract"
)

var testDescriptor = &channel.Descriptor{
	Name: "test",
	Fields: []channel.FieldSpec{
		{Metric: "impressions", SourceKey: "impressions"},
		{Metric: "clicks", SourceKey: "clicks"},
	},
	Labels: []channel.LabelSpec{
		{Label: "platform", SourceKey: "platform"},
	},
	Rates: []channel.RateSpec{
		{Name: "ctr", Kind: channel.Ratio, Numerator: "clicks", Denominator: "impressions", Direction: channel.HigherIsBetter},
	},
	Breakdowns: []channel.BreakdownSpec{
		{Name: "platform", Label: "platform"},
	},
}

func metric(impressions, clicks float64, platform string) extract.Metrics {
	return extract.Metrics{
		Channel: "test",
		Values:  map[channel.Metric]float64{"impressions": impressions, "clicks": clicks},
		Labels:  map[channel.Label]string{"platform": platform},
	}
}

func TestFoldTotals(t *testing.T) {
	agg := Fold(testDescriptor, []extract.Metrics{
		metric(1000, 20, "facebook"),
		metric(500, 5, "google"),
	})

	assert.Equal(t, 2, agg.Count)
	assert.Equal(t, 1500.0, agg.Totals["impressions"])
	assert.Equal(t, 25.0, agg.Totals["clicks"])
}

func TestFoldDerivedIsRatioOfSums(t *testing.T) {
	// Per-record CTRs are 0.02 and 0.01; their mean is 0.015 but the
	// ratio of sums is 25/1500.
	agg := Fold(testDescriptor, []extract.Metrics{
		metric(1000, 20, "facebook"),
		metric(500, 5, "google"),
	})

	assert.InDelta(t, 25.0/1500.0, agg.Derived.Get("ctr"), 1e-12)
}

func TestFoldBucketCountsSumToTotal(t *testing.T) {
	agg := Fold(testDescriptor, []extract.Metrics{
		metric(100, 1, "facebook"),
		metric(100, 1, "google"),
		metric(100, 1, "facebook"),
		metric(100, 1, ""),
	})

	bd := agg.Breakdowns["platform"]
	require.NotNil(t, bd)
	sum := 0
	for _, key := range bd.Keys() {
		sum += bd.Bucket(key).Count
	}
	assert.Equal(t, agg.Count, sum)
}

func TestFoldUnknownBucket(t *testing.T) {
	agg := Fold(testDescriptor, []extract.Metrics{
		metric(100, 2, ""),
	})

	bd := agg.Breakdowns["platform"]
	bucket := bd.Bucket(UnknownBucket)
	require.NotNil(t, bucket)
	assert.Equal(t, 1, bucket.Count)
	assert.Equal(t, 100.0, bucket.Totals["impressions"])
}

func TestFoldBucketInsertionOrder(t *testing.T) {
	agg := Fold(testDescriptor, []extract.Metrics{
		metric(1, 0, "zeta"),
		metric(1, 0, "alpha"),
		metric(1, 0, "zeta"),
	})

	assert.Equal(t, []string{"zeta", "alpha"}, agg.Breakdowns["platform"].Keys())
}

func TestFoldTimeHistograms(t *testing.T) {
	withTime := metric(1, 0, "x")
	withTime.Timestamp = time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC) // Monday 14:00
	withTime.HasTime = true
	withoutTime := metric(1, 0, "x")

	agg := Fold(testDescriptor, []extract.Metrics{withTime, withoutTime})

	assert.Equal(t, 1, agg.HourOfDay[14])
	assert.Equal(t, 1, agg.DayOfWeek[int(time.Monday)])

	// The record without a timestamp still counts in the totals.
	assert.Equal(t, 2, agg.Count)
	hourSum := 0
	for _, n := range agg.HourOfDay {
		hourSum += n
	}
	assert.Equal(t, 1, hourSum)
}

func TestFoldEmptyBatch(t *testing.T) {
	agg := Fold(testDescriptor, nil)

	assert.Equal(t, 0, agg.Count)
	// Declared metrics are present, zeroed.
	assert.Equal(t, 0.0, agg.Totals["impressions"])
	assert.True(t, agg.Derived.AllZero())
}
