package memory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-insights/pkg/records"
)

func TestQueryChannelScoping(t *testing.T) {
	s := NewStore()
	s.Add("ads", records.RawRecord{"Clicks": float64(5)})
	s.Add("email", records.RawRecord{"Opens": float64(9)})
	s.Add("", records.RawRecord{"Shared": true})

	got, err := s.Query(context.Background(), "ads", nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 5.0, got[0]["Clicks"])
	// Untagged documents match any channel.
	assert.Equal(t, true, got[1]["Shared"])
}

func TestQueryFilterMatching(t *testing.T) {
	s := NewStore()
	s.Add("", records.RawRecord{"Platform": "facebook", "Clicks": float64(5)})
	s.Add("", records.RawRecord{"Platform": "google", "Clicks": float64(7)})

	got, err := s.Query(context.Background(), "ads", records.Filter{"Platform": "google"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 7.0, got[0]["Clicks"])
}

func TestQueryFilterMissingFieldExcludes(t *testing.T) {
	s := NewStore()
	s.Add("", records.RawRecord{"Clicks": float64(5)})

	got, err := s.Query(context.Background(), "ads", records.Filter{"Platform": "facebook"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQueryChannelFilterKeySkipped(t *testing.T) {
	// The "channel" key routes in dispatch; documents are not expected to
	// carry it as a field.
	s := NewStore()
	s.Add("ads", records.RawRecord{"Clicks": float64(5)})

	got, err := s.Query(context.Background(), "ads", records.Filter{"channel": "ads"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestQueryNumericLooseEquality(t *testing.T) {
	s := NewStore()
	s.Add("", records.RawRecord{"Capacity": float64(20)})

	got, err := s.Query(context.Background(), "events", records.Filter{"Capacity": int(20)})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestQueryInsertionOrder(t *testing.T) {
	s := NewStore()
	s.Add("", records.RawRecord{"n": float64(1)})
	s.Add("", records.RawRecord{"n": float64(2)})
	s.Add("", records.RawRecord{"n": float64(3)})

	got, err := s.Query(context.Background(), "", nil)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, rec := range got {
		assert.Equal(t, float64(i+1), rec["n"])
	}
}

func TestQueryCancelledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Query(ctx, "ads", nil)
	assert.Error(t, err)
}

func TestAddNormalizes(t *testing.T) {
	s := NewStore()
	s.Add("", map[string]any{"Clicks": json.Number("12")})

	got, err := s.Query(context.Background(), "", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 12.0, got[0]["Clicks"])
}
