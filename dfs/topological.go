package dfs

import (
	"fmt"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
)

// topoSorter encapsulates the state of one topological sort.
type topoSorter[W semiring.Weight[W]] struct {
	opts  topoOptions
	adj   [][]edge
	state []uint8
	order []core.StateID
	back  []core.ArcID
}

// TopologicalSort orders every state of h so that each tail precedes the heads of
// its arcs. The order is deterministic for a given arc arena.
//
// A back arc (one closing a cycle) fails with ErrCycleDetected unless tolerated by
// WithMaxBackArcs; tolerated arcs are listed in TopoResult.BackArcs once each.
//
// Complexity: O(S + A·T).
func TopologicalSort[W semiring.Weight[W]](h *core.Hypergraph[W], options ...TopoOption) (*TopoResult, error) {
	if h == nil {
		return nil, ErrGraphNil
	}
	opts := defaultTopoOptions()
	for _, opt := range options {
		opt(&opts)
	}
	n := h.NumStates()
	t := &topoSorter[W]{
		opts:  opts,
		adj:   adjacency(h, Forward),
		state: make([]uint8, n),
		order: make([]core.StateID, 0, n),
	}
	for s := 0; s < n; s++ {
		if t.state[s] == White {
			if err := t.visit(core.StateID(s)); err != nil {
				return nil, err
			}
		}
	}
	return &TopoResult{Order: Reverse(t.order), BackArcs: t.back}, nil
}

// visit runs an iterative DFS from root, recording post-order and back arcs.
func (t *topoSorter[W]) visit(root core.StateID) error {
	stack := []frame{{s: root}}
	t.state[root] = Gray
	for len(stack) > 0 {
		select {
		case <-t.opts.ctx.Done():
			return t.opts.ctx.Err()
		default:
		}
		top := &stack[len(stack)-1]
		out := t.adj[top.s]
		if top.next == len(out) {
			t.state[top.s] = Black
			t.order = append(t.order, top.s)
			stack = stack[:len(stack)-1]
			continue
		}
		e := out[top.next]
		top.next++
		switch t.state[e.to] {
		case Gray:
			if err := t.backArc(e); err != nil {
				return err
			}
		case White:
			t.state[e.to] = Gray
			stack = append(stack, frame{s: e.to})
		}
	}
	return nil
}

func (t *topoSorter[W]) backArc(e edge) error {
	for _, a := range t.back {
		if a == e.arc {
			return nil
		}
	}
	if t.opts.maxBackArcs >= 0 && len(t.back) >= t.opts.maxBackArcs {
		return fmt.Errorf("%w: arc %d closes a cycle at state %d", ErrCycleDetected, e.arc, e.to)
	}
	t.back = append(t.back, e.arc)
	return nil
}
