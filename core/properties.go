// File: properties.go
// Role: lazy shape classification, cache invalidation and ForceProperties.

package core

import (
	"fmt"
	"slices"
)

// invalidate forgets every cached shape bit. Called on arc or label mutation.
func (h *Hypergraph[W]) invalidate() {
	h.propMu.Lock()
	h.known, h.shape = 0, 0
	h.propMu.Unlock()
}

// Properties returns the stored index bits together with every shape bit that holds.
func (h *Hypergraph[W]) Properties() Properties {
	h.propMu.Lock()
	defer h.propMu.Unlock()
	h.computeLocked(shapeMask | SortedOutArcs)
	return h.stored | h.shape
}

// HasProperties reports whether every bit of mask holds, computing unknown shape
// bits lazily. Panics on unknown bits.
func (h *Hypergraph[W]) HasProperties(mask Properties) bool {
	checkMask(mask)
	h.propMu.Lock()
	defer h.propMu.Unlock()
	if mask&storeMask&^h.stored != 0 {
		return false
	}
	shapes := mask &^ storeMask
	h.computeLocked(shapes)
	return h.shape&shapes == shapes
}

func checkMask(mask Properties) {
	if mask&^allMask != 0 {
		panic(fmt.Sprintf("core: unknown property bits 0x%x", uint32(mask&^allMask)))
	}
}

// computeLocked fills the shape cache for the bits of want that are not yet known.
// FSM, Graph, OneLexical and Unweighted come from one linear scan over the arcs.
func (h *Hypergraph[W]) computeLocked(want Properties) {
	want &^= h.known
	if want == 0 {
		return
	}
	if want&(FSM|Graph|OneLexical|Unweighted) != 0 {
		h.classifyLocked()
	}
	if want&Acyclic != 0 {
		if h.acyclic() {
			h.shape |= Acyclic
		}
		h.known |= Acyclic
	}
	if want&SortedOutArcs != 0 {
		if h.outSorted() {
			h.shape |= SortedOutArcs
		}
		h.known |= SortedOutArcs
	}
}

// classifyLocked scans every arc once and records FSM, Graph, OneLexical and Unweighted.
func (h *Hypergraph[W]) classifyLocked() {
	fsm, graph, oneLex, unweighted := true, true, true, true
	for i := range h.arcs {
		a := &h.arcs[i]
		if !a.Weight.IsOne() {
			unweighted = false
		}
		firstNT := !h.labels[a.Tails[0]].IsTerminal()
		restT, lex := true, 0
		for j, t := range a.Tails {
			l := h.labels[t]
			if l.IsLexical() {
				lex++
			}
			if j > 0 && !l.IsTerminal() {
				restT = false
			}
		}
		if !(firstNT && restT) {
			graph, fsm = false, false
		}
		if len(a.Tails) != 2 {
			fsm = false
		}
		if lex > 1 {
			oneLex = false
		}
		if !fsm && !graph && !oneLex && !unweighted {
			break
		}
	}
	var p Properties
	if fsm {
		p |= FSM
	}
	if graph {
		p |= Graph
	}
	if oneLex {
		p |= OneLexical
	}
	if unweighted {
		p |= Unweighted
	}
	h.shape = h.shape&^(FSM|Graph|OneLexical|Unweighted) | p
	h.known |= FSM | Graph | OneLexical | Unweighted
}

// acyclic runs an iterative three-color DFS over tail->head edges.
func (h *Hypergraph[W]) acyclic() bool {
	n := len(h.labels)
	succ := make([][]StateID, n)
	for i := range h.arcs {
		a := &h.arcs[i]
		for _, t := range a.Tails {
			succ[t] = append(succ[t], a.Head)
		}
	}
	const (
		white = iota
		gray
		black
	)
	color := make([]uint8, n)
	type frame struct {
		s    StateID
		next int
	}
	var stack []frame
	for root := 0; root < n; root++ {
		if color[root] != white {
			continue
		}
		stack = append(stack[:0], frame{s: StateID(root)})
		color[root] = gray
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(succ[top.s]) {
				color[top.s] = black
				stack = stack[:len(stack)-1]
				continue
			}
			v := succ[top.s][top.next]
			top.next++
			switch color[v] {
			case gray:
				return false
			case white:
				color[v] = gray
				stack = append(stack, frame{s: v})
			}
		}
	}
	return true
}

// outSorted reports whether every stored out-arc list follows outArcLess.
func (h *Hypergraph[W]) outSorted() bool {
	if h.stored&(StoreOutArcs|StoreFirstTailOutArcs) == 0 {
		return false
	}
	for _, ids := range h.outArcs {
		if !slices.IsSortedFunc(ids, h.compareOut) {
			return false
		}
	}
	return true
}

// compareOut orders arcs by input label of the second tail, then by cost, then by id.
func (h *Hypergraph[W]) compareOut(a, b ArcID) int {
	la, lb := h.ArcInput(a), h.ArcInput(b)
	switch {
	case la < lb:
		return -1
	case la > lb:
		return 1
	}
	wa, wb := h.arcs[a].Weight.Value(), h.arcs[b].Weight.Value()
	switch {
	case wa < wb:
		return -1
	case wa > wb:
		return 1
	}
	return int(a) - int(b)
}

// ForceProperties makes the bits of mask hold (on) or stop holding (!on).
//
// Index bits are built or dropped from the arc arena. SortedOutArcs sorts the out-arc
// index, creating a first-tail index when none is stored. Shape bits are rechecked and
// fail with ErrInvalidInput when absent; a shape that holds cannot be switched off.
// StoreOutArcs and StoreFirstTailOutArcs conflict. A frozen store accepts only
// requests that are already satisfied.
//
// Panics on unknown bits.
func (h *Hypergraph[W]) ForceProperties(mask Properties, on bool) error {
	checkMask(mask)
	if mask&StoreOutArcs != 0 && mask&StoreFirstTailOutArcs != 0 && on {
		return fmt.Errorf("ForceProperties(%v): %w", mask, ErrPropertyConflict)
	}
	if on {
		return h.forceOn(mask)
	}
	return h.forceOff(mask)
}

func (h *Hypergraph[W]) forceOn(mask Properties) error {
	if mask&StoreOutArcs != 0 && h.stored&StoreFirstTailOutArcs != 0 ||
		mask&StoreFirstTailOutArcs != 0 && h.stored&StoreOutArcs != 0 {
		return fmt.Errorf("ForceProperties(%v) with %v: %w", mask, h.stored, ErrPropertyConflict)
	}
	if missing := mask & storeMask &^ h.stored; missing != 0 {
		if h.frozen {
			return fmt.Errorf("ForceProperties(%v): %w", missing, ErrFrozen)
		}
		h.stored |= missing
		if missing&CanonicalLex != 0 {
			h.lexStates = make(map[Label]StateID)
			for i, l := range h.labels {
				if _, ok := h.lexStates[l]; !ok && l.IsTerminal() {
					h.lexStates[l] = StateID(i)
				}
			}
		}
		h.rebuildIndices()
	}
	if mask&SortedOutArcs != 0 && !h.HasProperties(SortedOutArcs) {
		if h.frozen {
			return fmt.Errorf("ForceProperties(SortedOutArcs): %w", ErrFrozen)
		}
		if h.stored&(StoreOutArcs|StoreFirstTailOutArcs) == 0 {
			h.stored |= StoreFirstTailOutArcs
			h.rebuildIndices()
		}
		h.SortOutArcs()
	}
	if shapes := mask & shapeMask; shapes != 0 && !h.HasProperties(shapes) {
		h.propMu.Lock()
		absent := shapes &^ h.shape
		h.propMu.Unlock()
		return fmt.Errorf("ForceProperties: %v does not hold: %w", absent, ErrInvalidInput)
	}
	return nil
}

func (h *Hypergraph[W]) forceOff(mask Properties) error {
	if drop := mask & storeMask & h.stored; drop != 0 {
		if h.frozen {
			return fmt.Errorf("ForceProperties(%v, off): %w", drop, ErrFrozen)
		}
		h.stored &^= drop
		if drop&CanonicalLex != 0 {
			h.lexStates = nil
		}
		h.rebuildIndices()
		h.propMu.Lock()
		h.known &^= SortedOutArcs
		h.shape &^= SortedOutArcs
		h.propMu.Unlock()
	}
	if shapes := mask & shapeMask; shapes != 0 {
		h.propMu.Lock()
		h.computeLocked(shapes)
		held := h.shape & shapes
		h.propMu.Unlock()
		if held != 0 {
			return fmt.Errorf("ForceProperties(%v, off): %w", held, ErrPropertyConflict)
		}
	}
	return nil
}

// SortOutArcs sorts every stored out-arc list by input label, then cost.
// Panics without an out-arc index.
func (h *Hypergraph[W]) SortOutArcs() {
	if h.stored&(StoreOutArcs|StoreFirstTailOutArcs) == 0 {
		panic("core: SortOutArcs without an out-arc index")
	}
	for _, ids := range h.outArcs {
		slices.SortFunc(ids, h.compareOut)
	}
	h.propMu.Lock()
	h.known |= SortedOutArcs
	h.shape |= SortedOutArcs
	h.propMu.Unlock()
}
