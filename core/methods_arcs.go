// File: methods_arcs.go
// Role: arc arena mutation and adjacency queries.

package core

import (
	"fmt"
	"iter"

	"github.com/katalvlaran/hypergraph/vocab"
)

// NumArcs returns the number of arcs in the arena.
func (h *Hypergraph[W]) NumArcs() int { return len(h.arcs) }

// AddArc appends the arc head <- tails with weight w and updates every stored index.
// The tails slice is copied.
//
// Errors: ErrFrozen, ErrStateNotFound, ErrEmptyTails, ErrTerminalHead.
// Complexity: O(len(tails)).
func (h *Hypergraph[W]) AddArc(head StateID, tails []StateID, w W) (ArcID, error) {
	if h.frozen {
		return NoArc, fmt.Errorf("AddArc: %w", ErrFrozen)
	}
	if !h.HasState(head) {
		return NoArc, fmt.Errorf("AddArc: head %d: %w", head, ErrStateNotFound)
	}
	if len(tails) == 0 {
		return NoArc, fmt.Errorf("AddArc: head %d: %w", head, ErrEmptyTails)
	}
	if h.labels[head].IsTerminal() {
		return NoArc, fmt.Errorf("AddArc: head %d: %w", head, ErrTerminalHead)
	}
	for _, t := range tails {
		if !h.HasState(t) {
			return NoArc, fmt.Errorf("AddArc: tail %d: %w", t, ErrStateNotFound)
		}
	}

	id := ArcID(len(h.arcs))
	ts := make([]StateID, len(tails))
	copy(ts, tails)
	h.arcs = append(h.arcs, Arc[W]{Head: head, Tails: ts, Weight: w})
	h.index(id)
	h.invalidate()
	return id, nil
}

// AddFSMArc adds the transition src --label/w--> dst as the arc dst <- src label-state.
// The label state is the canonical one when CanonicalLex is on.
func (h *Hypergraph[W]) AddFSMArc(src, dst StateID, l Label, w W) (ArcID, error) {
	if !l.IsTerminal() {
		return NoArc, fmt.Errorf("AddFSMArc: label %v: %w", l, ErrInvalidInput)
	}
	if h.frozen {
		return NoArc, fmt.Errorf("AddFSMArc: %w", ErrFrozen)
	}
	lab := h.AddLabeledState(l)
	return h.AddArc(dst, []StateID{src, lab}, w)
}

// index registers arc id in the enabled adjacency lists.
func (h *Hypergraph[W]) index(id ArcID) {
	a := &h.arcs[id]
	if h.stored&StoreInArcs != 0 {
		h.inArcs[a.Head] = append(h.inArcs[a.Head], id)
	}
	switch {
	case h.stored&StoreFirstTailOutArcs != 0:
		h.outArcs[a.Tails[0]] = append(h.outArcs[a.Tails[0]], id)
	case h.stored&StoreOutArcs != 0:
		for i, t := range a.Tails {
			if !containsState(a.Tails[:i], t) {
				h.outArcs[t] = append(h.outArcs[t], id)
			}
		}
	}
}

func containsState(ss []StateID, s StateID) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

// Arc returns the arc with the given id. The returned value must not be modified.
func (h *Hypergraph[W]) Arc(id ArcID) *Arc[W] { return &h.arcs[id] }

// Arcs iterates over every arc in id order.
func (h *Hypergraph[W]) Arcs() iter.Seq2[ArcID, *Arc[W]] {
	return func(yield func(ArcID, *Arc[W]) bool) {
		for i := range h.arcs {
			if !yield(ArcID(i), &h.arcs[i]) {
				return
			}
		}
	}
}

// InArcs returns the arcs whose head is s. A mutable store without StoreInArcs
// builds the index first; a frozen one cannot.
//
// Errors: ErrStateNotFound, ErrFrozen.
func (h *Hypergraph[W]) InArcs(s StateID) ([]ArcID, error) {
	if !h.HasState(s) {
		return nil, fmt.Errorf("InArcs(%d): %w", s, ErrStateNotFound)
	}
	if h.stored&StoreInArcs == 0 {
		if err := h.ForceProperties(StoreInArcs, true); err != nil {
			return nil, fmt.Errorf("InArcs: %w", err)
		}
	}
	return h.inArcs[s], nil
}

// OutArcs returns the arcs s is a tail of (or the first tail of, under
// StoreFirstTailOutArcs). Without an out-arc index a mutable store builds
// StoreOutArcs first.
//
// Errors: ErrStateNotFound, ErrFrozen.
func (h *Hypergraph[W]) OutArcs(s StateID) ([]ArcID, error) {
	if !h.HasState(s) {
		return nil, fmt.Errorf("OutArcs(%d): %w", s, ErrStateNotFound)
	}
	if h.stored&(StoreOutArcs|StoreFirstTailOutArcs) == 0 {
		if err := h.ForceProperties(StoreOutArcs, true); err != nil {
			return nil, fmt.Errorf("OutArcs: %w", err)
		}
	}
	return h.outArcs[s], nil
}

// FSMLabel returns the label of an FSM arc's second tail.
func (h *Hypergraph[W]) FSMLabel(id ArcID) Label {
	return h.labels[h.arcs[id].Tails[1]]
}

// ArcInput returns the input symbol an arc's sort order is keyed on: the input label
// of its second tail, or NoSymbol for single-tail arcs.
func (h *Hypergraph[W]) ArcInput(id ArcID) vocab.Sym {
	a := &h.arcs[id]
	if len(a.Tails) < 2 {
		return vocab.NoSymbol
	}
	return h.labels[a.Tails[1]].In
}

// SetWeight replaces the weight of an arc.
func (h *Hypergraph[W]) SetWeight(id ArcID, w W) error {
	if h.frozen {
		return fmt.Errorf("SetWeight: %w", ErrFrozen)
	}
	if id < 0 || int(id) >= len(h.arcs) {
		return fmt.Errorf("SetWeight(%d): %w", id, ErrArcNotFound)
	}
	h.arcs[id].Weight = w
	h.invalidate()
	return nil
}

// RemoveArcs deletes every arc for which drop returns true, compacts the arena and
// rebuilds the stored indices. ArcIDs held by callers become invalid.
// Returns the number of arcs removed.
func (h *Hypergraph[W]) RemoveArcs(drop func(ArcID, *Arc[W]) bool) (int, error) {
	if h.frozen {
		return 0, fmt.Errorf("RemoveArcs: %w", ErrFrozen)
	}
	kept := h.arcs[:0]
	removed := 0
	for i := range h.arcs {
		if drop(ArcID(i), &h.arcs[i]) {
			removed++
			continue
		}
		kept = append(kept, h.arcs[i])
	}
	clear(h.arcs[len(kept):])
	h.arcs = kept
	if removed > 0 {
		h.rebuildIndices()
		h.invalidate()
	}
	return removed, nil
}

// rebuildIndices recomputes every stored adjacency list from the arena.
func (h *Hypergraph[W]) rebuildIndices() {
	n := len(h.labels)
	h.inArcs, h.outArcs = nil, nil
	if h.stored&StoreInArcs != 0 {
		h.inArcs = make([][]ArcID, n)
	}
	if h.stored&(StoreOutArcs|StoreFirstTailOutArcs) != 0 {
		h.outArcs = make([][]ArcID, n)
	}
	for i := range h.arcs {
		h.index(ArcID(i))
	}
}

// Stats summarizes the store.
type Stats struct {
	States     int
	Arcs       int
	Terminals  int
	MaxTails   int
	Properties Properties
}

// Stats computes summary counts. Properties includes every computable shape bit.
func (h *Hypergraph[W]) Stats() Stats {
	st := Stats{States: len(h.labels), Arcs: len(h.arcs)}
	for _, l := range h.labels {
		if l.IsTerminal() {
			st.Terminals++
		}
	}
	for i := range h.arcs {
		if n := len(h.arcs[i].Tails); n > st.MaxTails {
			st.MaxTails = n
		}
	}
	st.Properties = h.Properties()
	return st
}
