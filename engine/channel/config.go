package channel

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"campaign-insights/pkg/apperrors"
)

// Benchmarks holds one channel's industry reference values and scoring
// weights. Loaded once at process start and treated as read-only from then
// on; concurrent channel pipelines share it without synchronization.
type Benchmarks struct {
	Expected map[Rate]float64 `yaml:"benchmarks"`
	Weights  map[Rate]float64 `yaml:"weights"`
}

// Config maps channel name -> benchmark/weight tables. Each channel owns its
// own table; there is no shared global weight set.
type Config map[string]Benchmarks

const weightTolerance = 1e-9

// DefaultConfig returns the built-in benchmark and weight tables for every
// registered channel.
func DefaultConfig() Config {
	cfg := make(Config, len(builtins))
	for _, b := range builtins {
		cfg[b.descriptor.Name] = Benchmarks{
			Expected: copyTable(b.benchmarks.Expected),
			Weights:  copyTable(b.benchmarks.Weights),
		}
	}
	return cfg
}

// LoadConfig reads a YAML override file and overlays it on the defaults.
// The file only needs to name the values it changes:
//
//	ads:
//	  benchmarks:
//	    ctr: 0.011
//	  weights:
//	    ctr: 0.30
//	    roas: 0.20
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read benchmark config: %w", err)
	}
	var overrides Config
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("parse benchmark config: %w", err)
	}
	for name, o := range overrides {
		base, ok := cfg[name]
		if !ok {
			return nil, apperrors.NewUnknownChannel(name)
		}
		for r, v := range o.Expected {
			base.Expected[r] = v
		}
		for r, w := range o.Weights {
			base.Weights[r] = w
		}
		cfg[name] = base
	}
	return cfg, nil
}

// Validate checks the config against the registered descriptors: every
// channel has a table, every weighted rate is declared and has a positive
// benchmark, and weights sum to 1.0. A failure here is a contract violation
// and must abort startup.
func (c Config) Validate(descriptors []*Descriptor) error {
	for _, d := range descriptors {
		b, ok := c[d.Name]
		if !ok {
			return apperrors.NewBenchmarkMissing(d.Name)
		}
		var sum float64
		for r, w := range b.Weights {
			if _, ok := d.Spec(r); !ok {
				return fmt.Errorf("channel %s: weight for undeclared rate %q", d.Name, r)
			}
			if w < 0 {
				return fmt.Errorf("channel %s: negative weight for rate %q", d.Name, r)
			}
			if w > 0 {
				bench, ok := b.Expected[r]
				if !ok || bench <= 0 {
					return fmt.Errorf("channel %s: scored rate %q has no positive benchmark", d.Name, r)
				}
			}
			sum += w
		}
		if math.Abs(sum-1.0) > weightTolerance {
			return fmt.Errorf("channel %s: weights sum to %v, want 1.0", d.Name, sum)
		}
		for r, bench := range b.Expected {
			if _, ok := d.Spec(r); !ok {
				return fmt.Errorf("channel %s: benchmark for undeclared rate %q", d.Name, r)
			}
			if bench < 0 {
				return fmt.Errorf("channel %s: negative benchmark for rate %q", d.Name, r)
			}
		}
	}
	return nil
}

// For returns the table for one channel.
func (c Config) For(channel string) (Benchmarks, error) {
	b, ok := c[channel]
	if !ok {
		return Benchmarks{}, apperrors.NewBenchmarkMissing(channel)
	}
	return b, nil
}

func copyTable(in map[Rate]float64) map[Rate]float64 {
	out := make(map[Rate]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
