package bfs

import (
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
)

// Useful returns, per state, whether it is both derivable and coreachable.
func Useful[W semiring.Weight[W]](h *core.Hypergraph[W]) ([]bool, error) {
	derived, err := Derive(h)
	if err != nil {
		return nil, err
	}
	co := Coreachable(h, derived)
	for s := range co {
		co[s] = co[s] && derived.Derivable(core.StateID(s))
	}
	return co, nil
}

// Trim returns a copy of h restricted to its useful states, renumbered densely, and
// the old→new mapping. A hypergraph with an underivable final state trims to an
// empty one (no states, no final). An unused start state is dropped.
func Trim[W semiring.Weight[W]](h *core.Hypergraph[W]) (*core.Hypergraph[W], []core.StateID, error) {
	if h == nil {
		return nil, nil, ErrGraphNil
	}
	useful, err := Useful(h)
	if err != nil {
		return nil, nil, err
	}
	r, mapping := h.Restrict(func(s core.StateID) bool { return useful[s] })
	return r, mapping, nil
}
