package derivation

import (
	"fmt"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
)

// ToHypergraph copies the derivation n into a new single-derivation hypergraph over
// the same vocabulary. Every node gets a fresh head state labeled like the original
// head; terminal tails are copied (shared when CanonicalLex is stored); a start-state
// tail becomes the new start. The root head becomes the final state.
//
// Shared subtrees yield ErrShared and cycles ErrCycle.
func ToHypergraph[W semiring.Weight[W]](h *core.Hypergraph[W], n *Node, opts ...core.Option) (*core.Hypergraph[W], error) {
	if err := CheckTree(n); err != nil {
		return nil, err
	}
	if err := Validate(h, n); err != nil {
		return nil, err
	}
	out := core.New[W](h.Vocab(), opts...)
	if n.IsAxiom() {
		if h.Start() == core.NoState {
			return out, nil
		}
		s := out.AddLabeledState(h.Label(h.Start()))
		if err := out.SetStart(s); err != nil {
			return nil, err
		}
		return out, out.SetFinal(s)
	}

	var rec func(x *Node) (core.StateID, error)
	rec = func(x *Node) (core.StateID, error) {
		a := h.Arc(x.Arc)
		tails := make([]core.StateID, len(a.Tails))
		for i, t := range a.Tails {
			c := x.Children[i]
			if !c.IsAxiom() {
				s, err := rec(c)
				if err != nil {
					return core.NoState, err
				}
				tails[i] = s
				continue
			}
			if h.IsTerminal(t) {
				tails[i] = out.AddLabeledState(h.Label(t))
				continue
			}
			// start-state axiom
			if out.Start() == core.NoState {
				if err := out.SetStart(out.AddLabeledState(h.Label(t))); err != nil {
					return core.NoState, err
				}
			}
			tails[i] = out.Start()
		}
		head := out.AddLabeledState(h.Label(a.Head))
		if _, err := out.AddArc(head, tails, a.Weight); err != nil {
			return core.NoState, fmt.Errorf("derivation: %w", err)
		}
		return head, nil
	}
	root, err := rec(n)
	if err != nil {
		return nil, err
	}
	if err := out.SetFinal(root); err != nil {
		return nil, err
	}
	return out, nil
}
