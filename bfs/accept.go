package bfs

import (
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

// Accepts reports whether the FSM h accepts the input string syms. Epsilon arcs are
// followed without consuming input; every other symbol, specials included, must match
// exactly.
//
// Returns ErrNotFSM when h is not FSM-shaped.
func Accepts[W semiring.Weight[W]](h *core.Hypergraph[W], syms []vocab.Sym) (bool, error) {
	if h == nil {
		return false, ErrGraphNil
	}
	if !h.HasProperties(core.FSM) {
		return false, ErrNotFSM
	}
	if h.Start() == core.NoState || h.Final() == core.NoState {
		return false, nil
	}
	out := make([][]core.ArcID, h.NumStates())
	for id, a := range h.Arcs() {
		out[a.Tails[0]] = append(out[a.Tails[0]], id)
	}

	cur := closure(h, out, map[core.StateID]bool{h.Start(): true})
	for _, sym := range syms {
		next := make(map[core.StateID]bool)
		for s := range cur {
			for _, id := range out[s] {
				if h.FSMLabel(id).In == sym {
					next[h.Arc(id).Head] = true
				}
			}
		}
		if len(next) == 0 {
			return false, nil
		}
		cur = closure(h, out, next)
	}
	return cur[h.Final()], nil
}

// closure extends set with every state reachable through epsilon arcs.
func closure[W semiring.Weight[W]](h *core.Hypergraph[W], out [][]core.ArcID, set map[core.StateID]bool) map[core.StateID]bool {
	queue := make([]core.StateID, 0, len(set))
	for s := range set {
		queue = append(queue, s)
	}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for _, id := range out[s] {
			if h.FSMLabel(id).In != vocab.Epsilon {
				continue
			}
			if head := h.Arc(id).Head; !set[head] {
				set[head] = true
				queue = append(queue, head)
			}
		}
	}
	return set
}
