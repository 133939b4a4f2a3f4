// File: methods_clone.go
// Role: deep copies and empty copies sharing the vocabulary.

package core

// Clone returns a deep, mutable copy. Labels, arcs, indices, start/final and the
// known property cache are copied; the vocabulary is shared.
//
// Complexity: O(S + A·T).
func (h *Hypergraph[W]) Clone() *Hypergraph[W] {
	c := h.CloneEmpty()
	c.labels = append([]Label(nil), h.labels...)
	c.arcs = make([]Arc[W], len(h.arcs))
	for i, a := range h.arcs {
		c.arcs[i] = Arc[W]{Head: a.Head, Tails: append([]StateID(nil), a.Tails...), Weight: a.Weight}
	}
	if h.lexStates != nil {
		for l, s := range h.lexStates {
			c.lexStates[l] = s
		}
	}
	c.start, c.final = h.start, h.final
	c.inArcs = cloneLists(h.inArcs)
	c.outArcs = cloneLists(h.outArcs)

	h.propMu.Lock()
	c.known, c.shape = h.known, h.shape
	h.propMu.Unlock()
	return c
}

// CloneEmpty returns a mutable hypergraph with no states that shares the
// vocabulary and stores the same indices.
func (h *Hypergraph[W]) CloneEmpty() *Hypergraph[W] {
	return New[W](h.voc, WithProperties(h.stored))
}

func cloneLists(ls [][]ArcID) [][]ArcID {
	if ls == nil {
		return nil
	}
	out := make([][]ArcID, len(ls))
	for i, l := range ls {
		out[i] = append([]ArcID(nil), l...)
	}
	return out
}
