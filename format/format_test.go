package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-insights/engine/channel"
)

func TestPercent(t *testing.T) {
	assert.Equal(t, "12.34%", Percent(0.1234))
	assert.Equal(t, "0.90%", Percent(0.009))
	assert.Equal(t, "100.00%", Percent(1))
	assert.Equal(t, "0.00%", Percent(0))
}

func TestUSD(t *testing.T) {
	assert.Equal(t, "$2.50", USD(2.5))
	assert.Equal(t, "$0.00", USD(0))
	assert.Equal(t, "$18.61", USD(18.61))
}

func TestRatio(t *testing.T) {
	assert.Equal(t, "3.00x", Ratio(3))
	assert.Equal(t, "2.50x", Ratio(2.5))
}

func TestCount(t *testing.T) {
	assert.Equal(t, "1500", Count(1500))
	assert.Equal(t, "0", Count(0))
}

func TestRatePicksUnitFromSpec(t *testing.T) {
	ads := channel.Lookup("ads")
	require.NotNil(t, ads)

	ctr, _ := ads.Spec("ctr")
	cpc, _ := ads.Spec("cpc")
	cpm, _ := ads.Spec("cpm")
	roas, _ := ads.Spec("roas")
	frequency, _ := ads.Spec("frequency")

	assert.Equal(t, "2.00%", Rate(ctr, 0.02))
	assert.Equal(t, "$2.50", Rate(cpc, 2.5))
	assert.Equal(t, "$18.61", Rate(cpm, 18.61))
	assert.Equal(t, "3.00x", Rate(roas, 3))
	assert.Equal(t, "2.50x", Rate(frequency, 2.5))
}

func TestRateComplementIsPercent(t *testing.T) {
	events := channel.Lookup("events")
	require.NotNil(t, events)

	noShow, _ := events.Spec("no_show_rate")
	costPerAttendee, _ := events.Spec("cost_per_attendee")

	assert.Equal(t, "35.00%", Rate(noShow, 0.35))
	assert.Equal(t, "$45.00", Rate(costPerAttendee, 45))
}
