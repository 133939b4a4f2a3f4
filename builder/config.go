package builder

import "math/rand"

// builderConfig aggregates all knobs used by constructors.
// It is passed by value to constructors.
type builderConfig struct {
	rng      *rand.Rand // nil means no randomness
	costFn   CostFn
	alphabet []string
	epsProb  float64
	maxRHS   int
}

const (
	defaultEpsProb = 0.0
	defaultMaxRHS  = 3
)

var defaultAlphabet = []string{"a", "b", "c"}

// newBuilderConfig applies options in order over deterministic defaults.
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		costFn:   DefaultCostFn,
		alphabet: defaultAlphabet,
		epsProb:  defaultEpsProb,
		maxRHS:   defaultMaxRHS,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
