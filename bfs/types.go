package bfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/hypergraph/core"
)

// Sentinel errors for BFS execution.
var (
	// ErrGraphNil is returned if a nil hypergraph is passed.
	ErrGraphNil = errors.New("bfs: hypergraph is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = fmt.Errorf("bfs: %w: invalid option supplied", core.ErrConfig)

	// ErrNotFSM is returned by Accepts for hypergraphs that are not FSM-shaped.
	ErrNotFSM = fmt.Errorf("bfs: %w: hypergraph is not an FSM", core.ErrInvalidInput)
)

// Option configures BFS behavior via functional arguments.
type Option func(*Options)

// Options holds parameters and callbacks to customize a run.
type Options struct {
	// Ctx allows cancellation.
	Ctx context.Context

	// OnVisit is called when a state becomes derivable, with its generation.
	// Returning an error aborts the run.
	OnVisit func(s core.StateID, depth int) error

	// MaxDepth, if > 0, stops deriving beyond this generation.
	MaxDepth int

	// FilterArc skips arcs for which it returns false.
	FilterArc func(id core.ArcID) bool

	err error
}

// DefaultOptions returns Background context, no hook, no limit and no filter.
func DefaultOptions() Options {
	return Options{
		Ctx:       context.Background(),
		OnVisit:   func(core.StateID, int) error { return nil },
		FilterArc: func(core.ArcID) bool { return true },
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnVisit registers a callback run when a state becomes derivable.
func WithOnVisit(fn func(s core.StateID, depth int) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// WithMaxDepth stops derivation after generation d.
//
//	d > 0: limit to depth d
//	d == 0: explicit no depth limit
//	d < 0: invalid option → ErrOptionViolation
func WithMaxDepth(d int) Option {
	return func(o *Options) {
		if d < 0 {
			o.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, d)
			return
		}
		o.MaxDepth = d
	}
}

// WithFilterArc skips arcs when fn returns false.
func WithFilterArc(fn func(id core.ArcID) bool) Option {
	return func(o *Options) {
		if fn != nil {
			o.FilterArc = fn
		}
	}
}

// Result holds the outcome of Derive.
//   - Order: states in the sequence they became derivable.
//   - Depth: generation per state, -1 when not derivable.
//   - Via: first arc that derived each state, core.NoArc for axioms.
type Result struct {
	Order []core.StateID
	Depth []int
	Via   []core.ArcID
}

// Derivable reports whether s was derived.
func (r *Result) Derivable(s core.StateID) bool { return r.Depth[s] >= 0 }
