package dfs

import (
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
)

// FindCycle returns the states of one cycle s0 → s1 → ... → s0 along derivation
// edges (s0 not repeated at the end), or nil when h is acyclic. Self-loops yield a
// single state.
//
// Complexity: O(S + A·T).
func FindCycle[W semiring.Weight[W]](h *core.Hypergraph[W]) []core.StateID {
	if h == nil {
		return nil
	}
	adj := adjacency(h, Forward)
	n := h.NumStates()
	state := make([]uint8, n)
	parent := make([]core.StateID, n)
	for root := 0; root < n; root++ {
		if state[root] != White {
			continue
		}
		stack := []frame{{s: core.StateID(root)}}
		state[root] = Gray
		parent[root] = core.NoState
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(adj[top.s]) {
				state[top.s] = Black
				stack = stack[:len(stack)-1]
				continue
			}
			v := adj[top.s][top.next].to
			top.next++
			switch state[v] {
			case Gray:
				cycle := []core.StateID{top.s}
				for u := top.s; u != v; {
					u = parent[u]
					cycle = append(cycle, u)
				}
				return Reverse(cycle)
			case White:
				state[v] = Gray
				parent[v] = top.s
				stack = append(stack, frame{s: v})
			}
		}
	}
	return nil
}
