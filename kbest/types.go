package kbest

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/hypergraph/bestpath"
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/derivation"
	"github.com/katalvlaran/hypergraph/semiring"
)

var (
	// ErrGraphNil indicates that a nil hypergraph was passed.
	ErrGraphNil = errors.New("kbest: hypergraph is nil")

	// ErrBadK indicates k < 1.
	ErrBadK = fmt.Errorf("kbest: %w: k must be >= 1", core.ErrConfig)

	// ErrEmpty indicates that no derivation was found and WithFailIfEmpty was set.
	ErrEmpty = fmt.Errorf("kbest: %w: no derivation", core.ErrEmptySet)

	// ErrStop may be returned by a visitor to end the enumeration without error.
	ErrStop = errors.New("kbest: stop")
)

// Hypothesis is one enumerated derivation.
type Hypothesis[W semiring.Weight[W]] struct {
	Tree *derivation.Node
	Cost W

	// Rank is the 0-based position among the emitted derivations.
	Rank int

	// Padding marks a repeat of the last real derivation added by WithPadding.
	Padding bool
}

// Option configures an enumeration.
type Option func(*Options)

// Options holds the resolved enumeration settings.
type Options struct {
	// NbestPerString caps derivations per distinct yield; 0 disables filtering.
	NbestPerString int
	// MaxSkipped bounds discarded duplicates; 0 means unbounded.
	MaxSkipped int
	// Padding repeats the last derivation until k are emitted.
	Padding bool
	// YieldSide picks the labels duplicate filtering compares.
	YieldSide core.Side
	// FailIfEmpty turns an empty result into ErrEmpty.
	FailIfEmpty bool
	// BestPath is passed to the seeding single-best computation.
	BestPath []bestpath.Option
}

// DefaultOptions returns no filtering, no padding and output-side yields.
func DefaultOptions() Options {
	return Options{YieldSide: core.OutputSide}
}

// WithNbestPerString keeps at most n derivations per distinct yield.
// Panics on negative n.
func WithNbestPerString(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("kbest: WithNbestPerString(%d)", n))
	}
	return func(o *Options) { o.NbestPerString = n }
}

// WithMaxSkipped gives up after n duplicates were discarded. Panics on negative n.
func WithMaxSkipped(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("kbest: WithMaxSkipped(%d)", n))
	}
	return func(o *Options) { o.MaxSkipped = n }
}

// WithPadding repeats the last derivation until k have been emitted.
func WithPadding() Option {
	return func(o *Options) { o.Padding = true }
}

// WithYieldSide selects input or output labels for duplicate filtering.
func WithYieldSide(side core.Side) Option {
	return func(o *Options) { o.YieldSide = side }
}

// WithFailIfEmpty makes an enumeration without any derivation fail with ErrEmpty.
func WithFailIfEmpty() Option {
	return func(o *Options) { o.FailIfEmpty = true }
}

// WithBestPath forwards options to the single-best seeding pass.
func WithBestPath(opts ...bestpath.Option) Option {
	return func(o *Options) { o.BestPath = append(o.BestPath, opts...) }
}
