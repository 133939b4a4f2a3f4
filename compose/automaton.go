package compose

import (
	"cmp"
	"iter"
	"slices"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

// Transition is one labeled move of an Automaton.
type Transition[W semiring.Weight[W]] struct {
	Label  core.Label
	Next   core.StateID
	Weight W
}

// Automaton is a finite-state transducer whose transitions may be computed on demand.
type Automaton[W semiring.Weight[W]] interface {
	Vocab() *vocab.Vocabulary
	// Start returns core.NoState for an empty automaton.
	Start() core.StateID
	Final(s core.StateID) bool
	// Out returns the transitions leaving s. The slice must not be modified.
	Out(s core.StateID) []Transition[W]
	// BestFirst yields the transitions leaving s by increasing cost.
	BestFirst(s core.StateID) iter.Seq[Transition[W]]
	// Sorted reports whether Out lists transitions by increasing input label.
	Sorted() bool
}

// FSMAutomaton adapts an FSM-shaped hypergraph. Its transitions are sorted by input
// label, then cost.
type FSMAutomaton[W semiring.Weight[W]] struct {
	h    *core.Hypergraph[W]
	out  [][]Transition[W]
	best [][]Transition[W] // computed on first BestFirst call
}

// FromFSM wraps h. Later changes to h are not seen.
//
// Errors: ErrNilInput, ErrNotFSM.
func FromFSM[W semiring.Weight[W]](h *core.Hypergraph[W]) (*FSMAutomaton[W], error) {
	if h == nil {
		return nil, ErrNilInput
	}
	if !h.HasProperties(core.FSM) {
		return nil, ErrNotFSM
	}
	a := &FSMAutomaton[W]{
		h:    h,
		out:  make([][]Transition[W], h.NumStates()),
		best: make([][]Transition[W], h.NumStates()),
	}
	for id, arc := range h.Arcs() {
		src := arc.Source()
		a.out[src] = append(a.out[src], Transition[W]{Label: h.FSMLabel(id), Next: arc.Head, Weight: arc.Weight})
	}
	for _, ts := range a.out {
		slices.SortStableFunc(ts, func(x, y Transition[W]) int {
			if c := cmp.Compare(x.Label.In, y.Label.In); c != 0 {
				return c
			}
			return cmp.Compare(x.Weight.Value(), y.Weight.Value())
		})
	}
	return a, nil
}

// Vocab returns the vocabulary of the wrapped hypergraph.
func (a *FSMAutomaton[W]) Vocab() *vocab.Vocabulary { return a.h.Vocab() }

// Start returns the start state, or core.NoState when the hypergraph is empty.
func (a *FSMAutomaton[W]) Start() core.StateID {
	if a.h.IsEmpty() {
		return core.NoState
	}
	return a.h.Start()
}

// Final reports whether s is the final state.
func (a *FSMAutomaton[W]) Final(s core.StateID) bool { return s == a.h.Final() }

// Out returns the transitions leaving s, sorted by input label, then cost.
func (a *FSMAutomaton[W]) Out(s core.StateID) []Transition[W] { return a.out[s] }

// BestFirst yields the transitions leaving s by increasing cost. The order is
// computed on first use and cached.
func (a *FSMAutomaton[W]) BestFirst(s core.StateID) iter.Seq[Transition[W]] {
	return func(yield func(Transition[W]) bool) {
		if a.best[s] == nil && len(a.out[s]) > 0 {
			a.best[s] = byCost(a.out[s])
		}
		for _, t := range a.best[s] {
			if !yield(t) {
				return
			}
		}
	}
}

// Sorted always reports true.
func (a *FSMAutomaton[W]) Sorted() bool { return true }

// byCost returns a copy of ts stably sorted by cost.
func byCost[W semiring.Weight[W]](ts []Transition[W]) []Transition[W] {
	out := slices.Clone(ts)
	slices.SortStableFunc(out, func(x, y Transition[W]) int {
		return cmp.Compare(x.Weight.Value(), y.Weight.Value())
	})
	return out
}

// inputRange returns the transitions of the sorted list ts whose input label is sym.
func inputRange[W semiring.Weight[W]](ts []Transition[W], sym vocab.Sym) []Transition[W] {
	lo, _ := slices.BinarySearchFunc(ts, sym, func(t Transition[W], s vocab.Sym) int {
		return cmp.Compare(t.Label.In, s)
	})
	hi := lo
	for hi < len(ts) && ts[hi].Label.In == sym {
		hi++
	}
	return ts[lo:hi]
}
