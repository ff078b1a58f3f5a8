package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-insights/engine/channel"
	"campaign-insights/pkg/apperrors"
	"campaign-insights/pkg/records"
)

// stubSource returns canned batches per channel and errors for channels in
// failing.
type stubSource struct {
	batches map[string][]records.RawRecord
	failing map[string]error

	mu      sync.Mutex
	queried []string
}

func (s *stubSource) Query(ctx context.Context, channelName string, f records.Filter) ([]records.RawRecord, error) {
	s.mu.Lock()
	s.queried = append(s.queried, channelName)
	s.mu.Unlock()
	if err, ok := s.failing[channelName]; ok {
		return nil, err
	}
	return s.batches[channelName], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newDispatcher(t *testing.T, source *stubSource) *Dispatcher {
	t.Helper()
	d, err := New(source, channel.DefaultConfig(), testLogger())
	require.NoError(t, err)
	return d
}

func TestChannelsRegistrationOrder(t *testing.T) {
	d := newDispatcher(t, &stubSource{})
	assert.Equal(t, []string{"ads", "attribution", "ctv", "email", "events", "p2p", "social"}, d.Channels())
}

func TestRelevantChannelKey(t *testing.T) {
	d := newDispatcher(t, &stubSource{})
	assert.Equal(t, []string{"email"}, d.Relevant(records.Filter{"channel": "email"}))
}

func TestRelevantSourceField(t *testing.T) {
	d := newDispatcher(t, &stubSource{})
	assert.Equal(t, []string{"events"}, d.Relevant(records.Filter{"RSVPs": float64(10)}))
}

func TestRelevantSharedFieldSelectsAllOwners(t *testing.T) {
	d := newDispatcher(t, &stubSource{})
	// "Organization ID" is read by several channels; all of them run.
	selected := d.Relevant(records.Filter{"Organization ID": "org-1"})
	assert.Contains(t, selected, "ads")
	assert.Contains(t, selected, "events")
	assert.Greater(t, len(selected), 1)
}

func TestRelevantEmptyFilterSelectsAll(t *testing.T) {
	d := newDispatcher(t, &stubSource{})
	assert.Len(t, d.Relevant(nil), 7)
	assert.Len(t, d.Relevant(records.Filter{}), 7)
}

func TestRelevantUnknownFieldSelectsAll(t *testing.T) {
	d := newDispatcher(t, &stubSource{})
	assert.Len(t, d.Relevant(records.Filter{"Shoe size": float64(42)}), 7)
}

func TestDispatchCollectsResults(t *testing.T) {
	source := &stubSource{batches: map[string][]records.RawRecord{
		"ads": {{"Ad impressions": float64(1000), "Clicks": float64(20)}},
	}}
	d := newDispatcher(t, source)

	report := d.Dispatch(context.Background(), records.Filter{"channel": "ads"})

	assert.True(t, report.Success)
	assert.NotEmpty(t, report.ReportID)
	assert.False(t, report.GeneratedAt.IsZero())
	require.Contains(t, report.Metrics, "ads")
	assert.Equal(t, 1, report.Metrics["ads"].TotalRecords)
	assert.Empty(t, report.Errors)
}

func TestDispatchChannelFailureIsIsolated(t *testing.T) {
	source := &stubSource{
		batches: map[string][]records.RawRecord{
			"ads": {{"Ad impressions": float64(100)}},
		},
		failing: map[string]error{
			"email": errors.New("connection refused"),
		},
	}
	d := newDispatcher(t, source)

	report := d.Dispatch(context.Background(), nil)

	assert.False(t, report.Success)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "email", report.Errors[0].Channel)
	assert.Equal(t, apperrors.ErrCodeQueryFailed, report.Errors[0].Code)

	// The other six channels still produced results.
	assert.Len(t, report.Metrics, 6)
	assert.NotContains(t, report.Metrics, "email")
	assert.Equal(t, 1, report.Metrics["ads"].TotalRecords)
}

func TestDispatchPanicIsContained(t *testing.T) {
	d := newDispatcher(t, &stubSource{})
	d.pipes["ctv"] = nil // nil pipeline panics on Run

	report := d.Dispatch(context.Background(), nil)

	assert.False(t, report.Success)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "ctv", report.Errors[0].Channel)
	assert.Equal(t, apperrors.ErrCodePipelineFailure, report.Errors[0].Code)
	assert.Len(t, report.Metrics, 6)
}

func TestDispatchErrorsInRegistrationOrder(t *testing.T) {
	source := &stubSource{failing: map[string]error{
		"social": errors.New("down"),
		"ads":    errors.New("down"),
		"email":  errors.New("down"),
	}}
	d := newDispatcher(t, source)

	report := d.Dispatch(context.Background(), nil)

	require.Len(t, report.Errors, 3)
	assert.Equal(t, "ads", report.Errors[0].Channel)
	assert.Equal(t, "email", report.Errors[1].Channel)
	assert.Equal(t, "social", report.Errors[2].Channel)
}

func TestDispatchOnlyQueriesSelectedChannels(t *testing.T) {
	source := &stubSource{}
	d := newDispatcher(t, source)

	d.Dispatch(context.Background(), records.Filter{"channel": "p2p"})

	assert.Equal(t, []string{"p2p"}, source.queried)
}

func TestDispatchEmptyStore(t *testing.T) {
	d := newDispatcher(t, &stubSource{})
	report := d.Dispatch(context.Background(), nil)

	assert.True(t, report.Success)
	assert.Len(t, report.Metrics, 7)
	for name, res := range report.Metrics {
		assert.Equal(t, 0, res.TotalRecords, name)
	}
}
