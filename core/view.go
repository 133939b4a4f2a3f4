// File: view.go
// Role: derived stores: restriction to a state subset and label projection.

package core

// Side selects the input or output half of a label.
type Side uint8

const (
	// InputSide selects Label.In.
	InputSide Side = iota
	// OutputSide selects Label.Output().
	OutputSide
)

// String returns "input" or "output".
func (s Side) String() string {
	if s == OutputSide {
		return "output"
	}
	return "input"
}

// Pick returns the chosen half of l.
func (s Side) Pick(l Label) Label {
	if s == OutputSide {
		return InputLabel(l.Output())
	}
	return InputLabel(l.In)
}

// Restrict returns a new hypergraph holding only the states for which keep is true,
// renumbered densely in id order, and the arcs whose head and tails are all kept.
// mapping[old] is the new id or NoState. Start and final survive when kept.
//
// Complexity: O(S + A·T).
func (h *Hypergraph[W]) Restrict(keep func(StateID) bool) (r *Hypergraph[W], mapping []StateID) {
	r = h.CloneEmpty()
	if r.lexStates != nil {
		clear(r.lexStates)
	}
	mapping = make([]StateID, len(h.labels))
	for i, l := range h.labels {
		if !keep(StateID(i)) {
			mapping[i] = NoState
			continue
		}
		mapping[i] = r.appendState(l)
		if r.lexStates != nil && l.IsTerminal() {
			if _, ok := r.lexStates[l]; !ok {
				r.lexStates[l] = mapping[i]
			}
		}
	}
	tails := make([]StateID, 0, 4)
next:
	for i := range h.arcs {
		a := &h.arcs[i]
		head := mapping[a.Head]
		if head == NoState {
			continue
		}
		tails = tails[:0]
		for _, t := range a.Tails {
			nt := mapping[t]
			if nt == NoState {
				continue next
			}
			tails = append(tails, nt)
		}
		// head and tails are valid by construction
		if _, err := r.AddArc(head, tails, a.Weight); err != nil {
			panic(err)
		}
	}
	if h.start != NoState {
		r.start = mapping[h.start]
	}
	if h.final != NoState {
		r.final = mapping[h.final]
	}
	return r, mapping
}

// Project returns a copy whose labels keep only the chosen side, turning a
// transducer into an acceptor.
func (h *Hypergraph[W]) Project(side Side) *Hypergraph[W] {
	c := h.Clone()
	for i, l := range c.labels {
		c.labels[i] = side.Pick(l)
	}
	if c.lexStates != nil {
		clear(c.lexStates)
		for i, l := range c.labels {
			if _, ok := c.lexStates[l]; !ok && l.IsTerminal() {
				c.lexStates[l] = StateID(i)
			}
		}
	}
	c.invalidate()
	return c
}
