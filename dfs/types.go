package dfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/hypergraph/core"
)

// Visitation states.
const (
	White = iota // White: the state has not been visited yet.
	Gray         // Gray: the state is on the DFS stack.
	Black        // Black: the state and all its descendants are finished.
)

var (
	// ErrGraphNil is returned when a nil hypergraph is passed.
	ErrGraphNil = errors.New("dfs: hypergraph is nil")

	// ErrStartStateNotFound indicates a root id outside the hypergraph.
	ErrStartStateNotFound = fmt.Errorf("dfs: %w: start state not found", core.ErrInvalidInput)

	// ErrCycleDetected indicates a cycle where an acyclic order was required.
	ErrCycleDetected = fmt.Errorf("dfs: %w", core.ErrCycle)
)

// Direction selects which derivation edges DFS follows.
type Direction uint8

const (
	// Forward follows tail → head: from a state to the states derived from it.
	Forward Direction = iota
	// Backward follows head → tails: from a state to what it is derived from.
	Backward
)

// Option configures optional behavior of DFS traversal.
type Option func(*Options)

// Options holds configurable parameters for DFS traversal.
type Options struct {
	// Ctx allows cancellation; defaults to context.Background().
	Ctx context.Context

	// Direction of traversal. Default Forward.
	Direction Direction

	// OnVisit, if non-nil, is invoked when a state is discovered (pre-order).
	// Returning an error aborts traversal with that error.
	OnVisit func(s core.StateID) error

	// OnExit, if non-nil, is invoked after all descendants of a state are finished.
	OnExit func(s core.StateID) error

	// MaxDepth, if non-negative, limits the depth. 0 visits only the roots.
	MaxDepth int

	// FullTraversal restarts DFS from every unvisited state after the roots.
	FullTraversal bool
}

// DefaultOptions returns Background context, Forward direction, no hooks,
// no depth limit and rooted traversal.
func DefaultOptions() Options {
	return Options{
		Ctx:       context.Background(),
		Direction: Forward,
		MaxDepth:  -1,
	}
}

// WithContext sets the cancellation context. A nil context is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithDirection selects Forward or Backward traversal.
func WithDirection(d Direction) Option {
	return func(o *Options) { o.Direction = d }
}

// WithOnVisit installs a pre-order hook.
func WithOnVisit(fn func(s core.StateID) error) Option {
	return func(o *Options) { o.OnVisit = fn }
}

// WithOnExit installs a post-order hook.
func WithOnExit(fn func(s core.StateID) error) Option {
	return func(o *Options) { o.OnExit = fn }
}

// WithMaxDepth limits traversal depth.
func WithMaxDepth(limit int) Option {
	return func(o *Options) { o.MaxDepth = limit }
}

// WithFullTraversal covers states unreachable from the roots as well.
func WithFullTraversal() Option {
	return func(o *Options) { o.FullTraversal = true }
}

// Result captures the outcome of a depth-first traversal.
type Result struct {
	// Order records states in post-order.
	Order []core.StateID

	// Depth is the discovery depth per state, -1 when unvisited.
	Depth []int

	// ParentArc is the arc through which each state was discovered, core.NoArc for
	// roots and unvisited states.
	ParentArc []core.ArcID

	// Visited flags which states were reached.
	Visited []bool
}

// TopoOption configures TopologicalSort.
type TopoOption func(*topoOptions)

type topoOptions struct {
	ctx         context.Context
	maxBackArcs int
}

func defaultTopoOptions() topoOptions {
	return topoOptions{ctx: context.Background()}
}

// WithCancelContext sets the cancellation context for TopologicalSort.
// Passing a nil context has no effect.
func WithCancelContext(ctx context.Context) TopoOption {
	return func(o *topoOptions) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithMaxBackArcs tolerates up to n back arcs: they are left out of the ordering
// constraints and reported in TopoResult.BackArcs. Negative n means unlimited.
func WithMaxBackArcs(n int) TopoOption {
	return func(o *topoOptions) { o.maxBackArcs = n }
}

// TopoResult is a topological order plus the back arcs that were ignored.
type TopoResult struct {
	Order    []core.StateID
	BackArcs []core.ArcID
}
