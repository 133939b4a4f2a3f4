package bestpath

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/hypergraph/core"
)

// Sentinel errors returned by Compute.
var (
	// ErrGraphNil indicates that a nil hypergraph was passed.
	ErrGraphNil = errors.New("bestpath: hypergraph is nil")

	// ErrEmpty indicates that the final state has no derivation.
	ErrEmpty = fmt.Errorf("bestpath: %w: final state is not derivable", core.ErrEmptySet)

	// ErrBadConvergence indicates a negative or NaN convergence epsilon.
	ErrBadConvergence = fmt.Errorf("bestpath: %w: convergence must be >= 0", core.ErrConfig)

	// ErrBadRereach indicates a negative rereach bound.
	ErrBadRereach = fmt.Errorf("bestpath: %w: rereach must be >= 0", core.ErrConfig)
)

// Algorithm selects the relaxation strategy.
type Algorithm uint8

const (
	// Auto uses Acyclic when the back-arc budget allows it, BestFirst otherwise.
	Auto Algorithm = iota
	// Acyclic relaxes states in topological order.
	Acyclic
	// BestFirst relaxes states in order of increasing cost.
	BestFirst
)

// String returns "auto", "acyclic" or "best-first".
func (a Algorithm) String() string {
	switch a {
	case Acyclic:
		return "acyclic"
	case BestFirst:
		return "best-first"
	}
	return "auto"
}

// Option represents a functional option for configuring Compute.
type Option func(*Options)

// Options configures Compute.
//
// Algorithm    – relaxation strategy (default Auto).
// MaxBackArcs  – back arcs the acyclic pass may ignore (default 0).
// Convergence  – improvements of at most this much are ignored (default 0).
// MaxRereach   – extra settlements allowed per state in BestFirst (default 0).
// FailIfEmpty  – return ErrEmpty when the final state is not derivable.
type Options struct {
	Algorithm   Algorithm
	MaxBackArcs int
	Convergence float64
	MaxRereach  int
	FailIfEmpty bool
}

// DefaultOptions returns Auto with no back arcs, exact comparison and no rereach.
func DefaultOptions() Options {
	return Options{Algorithm: Auto}
}

// WithAlgorithm selects the relaxation strategy.
func WithAlgorithm(a Algorithm) Option {
	return func(o *Options) { o.Algorithm = a }
}

// WithMaxBackArcs lets the acyclic pass ignore up to n back arcs. Negative n means
// any number.
func WithMaxBackArcs(n int) Option {
	return func(o *Options) { o.MaxBackArcs = n }
}

// WithConvergence ignores cost improvements of at most eps.
// Panics on a negative or NaN eps.
func WithConvergence(eps float64) Option {
	if eps < 0 || math.IsNaN(eps) {
		panic(ErrBadConvergence.Error())
	}
	return func(o *Options) { o.Convergence = eps }
}

// WithMaxRereach allows each state to be re-settled up to n times after an
// improvement found late. Panics on negative n.
func WithMaxRereach(n int) Option {
	if n < 0 {
		panic(ErrBadRereach.Error())
	}
	return func(o *Options) { o.MaxRereach = n }
}

// WithFailIfEmpty makes Compute fail with ErrEmpty when the final state is not
// derivable.
func WithFailIfEmpty() Option {
	return func(o *Options) { o.FailIfEmpty = true }
}
