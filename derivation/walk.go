package derivation

import (
	"fmt"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
)

// Walk visits every non-axiom node in pre-order. Shared subtrees are visited once
// per occurrence. A node reached again while it is on the current path yields
// ErrCycle. An error from visit stops the walk.
func Walk(n *Node, visit func(*Node) error) error {
	onStack := make(map[*Node]bool)
	var rec func(x *Node) error
	rec = func(x *Node) error {
		if x.IsAxiom() {
			return nil
		}
		if onStack[x] {
			return fmt.Errorf("%w: at arc %d", ErrCycle, x.Arc)
		}
		if err := visit(x); err != nil {
			return err
		}
		onStack[x] = true
		for _, c := range x.Children {
			if err := rec(c); err != nil {
				return err
			}
		}
		delete(onStack, x)
		return nil
	}
	return rec(n)
}

// CheckTree returns ErrShared when a non-axiom node is reachable twice and ErrCycle
// when one is reachable from itself.
func CheckTree(n *Node) error {
	seen := make(map[*Node]bool)
	return Walk(n, func(x *Node) error {
		if seen[x] {
			return fmt.Errorf("%w: arc %d", ErrShared, x.Arc)
		}
		seen[x] = true
		return nil
	})
}

// Arcs lists the arcs of n in pre-order.
func Arcs(n *Node) ([]core.ArcID, error) {
	var out []core.ArcID
	err := Walk(n, func(x *Node) error {
		out = append(out, x.Arc)
		return nil
	})
	return out, err
}

// Size counts the non-axiom nodes, occurrences of shared subtrees included.
func Size(n *Node) (int, error) {
	size := 0
	err := Walk(n, func(*Node) error { size++; return nil })
	return size, err
}

// Depth returns the number of nodes on the longest root-to-leaf path; 0 for Axiom.
func Depth(n *Node) (int, error) {
	if err := Walk(n, func(*Node) error { return nil }); err != nil {
		return 0, err
	}
	var rec func(x *Node) int
	rec = func(x *Node) int {
		if x.IsAxiom() {
			return 0
		}
		d := 0
		for _, c := range x.Children {
			d = max(d, rec(c))
		}
		return d + 1
	}
	return rec(n), nil
}

// Weight multiplies the weights of every arc occurrence in n.
func Weight[W semiring.Weight[W]](h *core.Hypergraph[W], n *Node) (W, error) {
	w := semiring.One[W]()
	err := Walk(n, func(x *Node) error {
		w = w.Times(h.Arc(x.Arc).Weight)
		return nil
	})
	return w, err
}
