package builder

import (
	"fmt"
	"math/rand"
)

// BuilderOption customizes the builder configuration before construction begins.
type BuilderOption func(*builderConfig)

// WithRand provides an explicit RNG for stochastic builders. Panics on nil.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) { c.rng = r }
}

// WithSeed creates a seeded RNG. Use this in tests to lock outcomes.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithCostFn overrides the per-arc cost generator. Panics on nil.
func WithCostFn(fn CostFn) BuilderOption {
	if fn == nil {
		panic("builder: WithCostFn(nil)")
	}
	return func(c *builderConfig) { c.costFn = fn }
}

// WithAlphabet sets the lexical symbols random constructors draw from.
// Panics on an empty alphabet.
func WithAlphabet(words ...string) BuilderOption {
	if len(words) == 0 {
		panic("builder: WithAlphabet()")
	}
	ws := append([]string(nil), words...)
	return func(c *builderConfig) { c.alphabet = ws }
}

// WithEpsilonProb sets the probability that a random FSM arc is an epsilon arc.
// Panics outside [0,1].
func WithEpsilonProb(p float64) BuilderOption {
	if p < MinProbability || p > MaxProbability {
		panic(fmt.Sprintf("builder: WithEpsilonProb(%g)", p))
	}
	return func(c *builderConfig) { c.epsProb = p }
}

// WithMaxRHS bounds the right-hand-side length of RandomCFG rules. Panics below 1.
func WithMaxRHS(n int) BuilderOption {
	if n < 1 {
		panic(fmt.Sprintf("builder: WithMaxRHS(%d)", n))
	}
	return func(c *builderConfig) { c.maxRHS = n }
}
