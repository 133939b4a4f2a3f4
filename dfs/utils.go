package dfs

import (
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
)

// edge is one derivation edge; arc records the arc it came from.
type edge struct {
	to  core.StateID
	arc core.ArcID
}

// adjacency lists the derivation edges of every state in the given direction,
// in arc id order. Repeated tails of one arc yield one edge.
// Time Complexity: O(S + A·T).
func adjacency[W semiring.Weight[W]](h *core.Hypergraph[W], dir Direction) [][]edge {
	adj := make([][]edge, h.NumStates())
	for id, a := range h.Arcs() {
		for i, t := range a.Tails {
			if dup(a.Tails[:i], t) {
				continue
			}
			if dir == Forward {
				adj[t] = append(adj[t], edge{to: a.Head, arc: id})
			} else {
				adj[a.Head] = append(adj[a.Head], edge{to: t, arc: id})
			}
		}
	}
	return adj
}

func dup(ss []core.StateID, s core.StateID) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

// Reverse reverses s in place and returns it.
func Reverse(s []core.StateID) []core.StateID {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
	return s
}
