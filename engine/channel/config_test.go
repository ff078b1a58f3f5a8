package channel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltInDescriptorsValidate(t *testing.T) {
	descriptors := BuiltIn()
	require.Len(t, descriptors, 7)
	for _, d := range descriptors {
		assert.NoError(t, d.Validate(), d.Name)
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate(BuiltIn()))
}

func TestDefaultConfigIsACopy(t *testing.T) {
	first := DefaultConfig()
	first["ads"].Expected["ctr"] = 99

	second := DefaultConfig()
	assert.Equal(t, 0.009, second["ads"].Expected["ctr"])
}

func TestLookup(t *testing.T) {
	assert.NotNil(t, Lookup("ads"))
	assert.Nil(t, Lookup("carrier-pigeon"))
}

func TestLoadConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmarks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ads:
  benchmarks:
    ctr: 0.011
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 0.011, cfg["ads"].Expected["ctr"])
	// Untouched values keep their defaults.
	assert.Equal(t, 2.69, cfg["ads"].Expected["cpc"])
	assert.Equal(t, 0.25, cfg["ads"].Weights["ctr"])
	require.NoError(t, cfg.Validate(BuiltIn()))
}

func TestLoadConfigUnknownChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmarks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fax:\n  benchmarks:\n    delivery_rate: 0.5\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidateRejectsBadWeightSum(t *testing.T) {
	cfg := DefaultConfig()
	b := cfg["email"]
	b.Weights["open_rate"] += 0.1
	cfg["email"] = b

	err := cfg.Validate(BuiltIn())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights sum")
}

func TestValidateRejectsScoredRateWithoutBenchmark(t *testing.T) {
	cfg := DefaultConfig()
	b := cfg["email"]
	delete(b.Expected, "open_rate")
	cfg["email"] = b

	err := cfg.Validate(BuiltIn())
	require.Error(t, err)
}

func TestValidateRejectsUndeclaredRate(t *testing.T) {
	cfg := DefaultConfig()
	b := cfg["email"]
	b.Expected["warp_speed"] = 1.0
	cfg["email"] = b

	err := cfg.Validate(BuiltIn())
	require.Error(t, err)
}

func TestValidateMissingChannelTable(t *testing.T) {
	err := Config{}.Validate(BuiltIn())
	require.Error(t, err)
}

func TestSourceKeysIncludeAliases(t *testing.T) {
	keys := Lookup("events").SourceKeys()
	assert.Contains(t, keys, "RSVPs")
	assert.Contains(t, keys, "rsvps")
	assert.Contains(t, keys, "Event date")
}
