package derivation

import (
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

// Yield returns the terminal symbols at the leaves of n, left to right, from the
// chosen side of each terminal label. Epsilon is dropped unless keepEpsilon is set;
// other specials are kept. Non-terminal axioms (the start state) contribute nothing.
func Yield[W semiring.Weight[W]](h *core.Hypergraph[W], n *Node, side core.Side, keepEpsilon bool) ([]vocab.Sym, error) {
	var out []vocab.Sym
	onStack := make(map[*Node]bool)
	var rec func(x *Node) error
	rec = func(x *Node) error {
		if onStack[x] {
			return ErrCycle
		}
		onStack[x] = true
		a := h.Arc(x.Arc)
		for i, t := range a.Tails {
			var c *Node
			if i < len(x.Children) {
				c = x.Children[i]
			}
			if !c.IsAxiom() {
				if err := rec(c); err != nil {
					return err
				}
				continue
			}
			if !h.IsTerminal(t) {
				continue
			}
			sym := side.Pick(h.Label(t)).In
			if sym == vocab.Epsilon && !keepEpsilon {
				continue
			}
			out = append(out, sym)
		}
		delete(onStack, x)
		return nil
	}
	if n.IsAxiom() {
		return nil, nil
	}
	if err := rec(n); err != nil {
		return nil, err
	}
	return out, nil
}

// YieldKey renders a yield as a comparable map key.
func YieldKey(syms []vocab.Sym) string {
	b := make([]byte, 0, 4*len(syms))
	for _, s := range syms {
		b = append(b, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
	}
	return string(b)
}
