// File: methods_states.go
// Role: state creation, labels, start/final designation and state queries.

package core

import (
	"fmt"

	"github.com/katalvlaran/hypergraph/vocab"
)

// Vocab returns the vocabulary the state labels are drawn from.
func (h *Hypergraph[W]) Vocab() *vocab.Vocabulary { return h.voc }

// NumStates returns the number of states.
func (h *Hypergraph[W]) NumStates() int { return len(h.labels) }

// HasState reports whether s is a valid state id.
func (h *Hypergraph[W]) HasState(s StateID) bool {
	return s >= 0 && int(s) < len(h.labels)
}

// AddState appends an unlabeled state and returns its id.
//
// Complexity: O(1) amortized.
func (h *Hypergraph[W]) AddState() StateID {
	if h.frozen {
		panic("core: AddState on frozen hypergraph")
	}
	return h.appendState(NoLabel)
}

// AddLabeledState appends a state with the given label. With CanonicalLex on,
// a terminal label already seen returns the existing state.
//
// Complexity: O(1) amortized.
func (h *Hypergraph[W]) AddLabeledState(l Label) StateID {
	if h.frozen {
		panic("core: AddLabeledState on frozen hypergraph")
	}
	if h.lexStates != nil && l.IsTerminal() {
		if s, ok := h.lexStates[l]; ok {
			return s
		}
		s := h.appendState(l)
		h.lexStates[l] = s
		return s
	}
	return h.appendState(l)
}

// TerminalState returns the state carrying terminal label l, creating it when needed.
// Without CanonicalLex every call creates a new state.
func (h *Hypergraph[W]) TerminalState(in vocab.Sym) StateID {
	return h.AddLabeledState(InputLabel(in))
}

func (h *Hypergraph[W]) appendState(l Label) StateID {
	s := StateID(len(h.labels))
	h.labels = append(h.labels, l)
	if h.stored&StoreInArcs != 0 {
		h.inArcs = append(h.inArcs, nil)
	}
	if h.stored&(StoreOutArcs|StoreFirstTailOutArcs) != 0 {
		h.outArcs = append(h.outArcs, nil)
	}
	h.invalidate()
	return s
}

// SetLabel replaces the label of s.
func (h *Hypergraph[W]) SetLabel(s StateID, l Label) error {
	if h.frozen {
		return fmt.Errorf("SetLabel: %w", ErrFrozen)
	}
	if !h.HasState(s) {
		return fmt.Errorf("SetLabel(%d): %w", s, ErrStateNotFound)
	}
	if l.IsTerminal() && h.isHead(s) {
		return fmt.Errorf("SetLabel(%d): %w", s, ErrTerminalHead)
	}
	if h.lexStates != nil {
		old := h.labels[s]
		if cur, ok := h.lexStates[old]; ok && cur == s {
			delete(h.lexStates, old)
		}
		if _, ok := h.lexStates[l]; !ok && l.IsTerminal() {
			h.lexStates[l] = s
		}
	}
	h.labels[s] = l
	h.invalidate()
	return nil
}

// isHead reports whether some arc has head s, scanning the arena without StoreInArcs.
func (h *Hypergraph[W]) isHead(s StateID) bool {
	if h.stored&StoreInArcs != 0 {
		return len(h.inArcs[s]) > 0
	}
	for i := range h.arcs {
		if h.arcs[i].Head == s {
			return true
		}
	}
	return false
}

// Label returns the label of s. Panics on an invalid id.
func (h *Hypergraph[W]) Label(s StateID) Label { return h.labels[s] }

// InputLabel returns the input symbol of s.
func (h *Hypergraph[W]) InputLabel(s StateID) vocab.Sym { return h.labels[s].In }

// OutputLabel returns the effective output symbol of s.
func (h *Hypergraph[W]) OutputLabel(s StateID) vocab.Sym { return h.labels[s].Output() }

// IsTerminal reports whether s carries a terminal input label.
func (h *Hypergraph[W]) IsTerminal(s StateID) bool { return h.labels[s].IsTerminal() }

// IsAxiom reports whether s is a valid derivation leaf: terminal-labeled or the start.
func (h *Hypergraph[W]) IsAxiom(s StateID) bool {
	return s == h.start || h.labels[s].IsTerminal()
}

// SetStart designates the start state; NoState clears it.
func (h *Hypergraph[W]) SetStart(s StateID) error {
	if h.frozen {
		return fmt.Errorf("SetStart: %w", ErrFrozen)
	}
	if s != NoState && !h.HasState(s) {
		return fmt.Errorf("SetStart(%d): %w", s, ErrStateNotFound)
	}
	h.start = s
	return nil
}

// Start returns the start state or NoState.
func (h *Hypergraph[W]) Start() StateID { return h.start }

// SetFinal designates the final state; NoState makes the language empty.
func (h *Hypergraph[W]) SetFinal(s StateID) error {
	if h.frozen {
		return fmt.Errorf("SetFinal: %w", ErrFrozen)
	}
	if s != NoState && !h.HasState(s) {
		return fmt.Errorf("SetFinal(%d): %w", s, ErrStateNotFound)
	}
	h.final = s
	return nil
}

// Final returns the final state or NoState.
func (h *Hypergraph[W]) Final() StateID { return h.final }

// IsEmpty reports whether the hypergraph has no final state.
func (h *Hypergraph[W]) IsEmpty() bool { return h.final == NoState }

// Freeze makes the hypergraph immutable. Indices not stored at this point can no
// longer be requested.
func (h *Hypergraph[W]) Freeze() { h.frozen = true }

// Frozen reports whether Freeze was called.
func (h *Hypergraph[W]) Frozen() bool { return h.frozen }
