package derivation

import (
	"fmt"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
)

var (
	// ErrCycle reports a node reachable from itself.
	ErrCycle = fmt.Errorf("derivation: %w", core.ErrCycle)

	// ErrShared reports a subtree reachable twice where a true tree is required.
	ErrShared = fmt.Errorf("derivation: %w: shared subtree", core.ErrInvalidInput)

	// ErrMismatch reports a derivation that does not fit the hypergraph.
	ErrMismatch = fmt.Errorf("derivation: %w: does not match hypergraph", core.ErrInvalidInput)
)

// Node is one step of a derivation: the arc used and one child per tail.
type Node struct {
	Arc      core.ArcID
	Children []*Node
}

// Axiom is the shared leaf for axiom tails. It must not be modified.
var Axiom = &Node{Arc: core.NoArc}

// New returns a node for arc with the given children.
func New(arc core.ArcID, children ...*Node) *Node {
	return &Node{Arc: arc, Children: children}
}

// IsAxiom reports whether n is an axiom leaf.
func (n *Node) IsAxiom() bool { return n == nil || n.Arc == core.NoArc }

// FromPredecessors rebuilds the derivation of goal from a best-predecessor table:
// pred[s] is the arc chosen for state s, core.NoArc for axioms. The result is a
// true tree: a state used twice is expanded twice. A predecessor cycle yields
// ErrCycle; a non-axiom state without a predecessor yields core.ErrEmptySet.
func FromPredecessors[W semiring.Weight[W]](h *core.Hypergraph[W], pred []core.ArcID, goal core.StateID) (*Node, error) {
	onStack := make(map[core.StateID]bool)
	var build func(s core.StateID) (*Node, error)
	build = func(s core.StateID) (*Node, error) {
		id := pred[s]
		if id == core.NoArc {
			if h.IsAxiom(s) {
				return Axiom, nil
			}
			return nil, fmt.Errorf("derivation: state %d: %w", s, core.ErrEmptySet)
		}
		if onStack[s] {
			return nil, fmt.Errorf("%w: through state %d", ErrCycle, s)
		}
		onStack[s] = true
		a := h.Arc(id)
		n := &Node{Arc: id, Children: make([]*Node, len(a.Tails))}
		for i, t := range a.Tails {
			c, err := build(t)
			if err != nil {
				return nil, err
			}
			n.Children[i] = c
		}
		onStack[s] = false
		return n, nil
	}
	return build(goal)
}

// Validate checks that n fits h: arities match, axiom tails have Axiom children, and
// each non-axiom child derives the corresponding tail.
func Validate[W semiring.Weight[W]](h *core.Hypergraph[W], n *Node) error {
	return Walk(n, func(x *Node) error {
		if x.IsAxiom() {
			return nil
		}
		if int(x.Arc) >= h.NumArcs() {
			return fmt.Errorf("%w: arc %d out of range", ErrMismatch, x.Arc)
		}
		a := h.Arc(x.Arc)
		if len(x.Children) != len(a.Tails) {
			return fmt.Errorf("%w: arc %d has %d tails, node has %d children", ErrMismatch, x.Arc, len(a.Tails), len(x.Children))
		}
		for i, c := range x.Children {
			t := a.Tails[i]
			if c.IsAxiom() {
				if !h.IsAxiom(t) {
					return fmt.Errorf("%w: arc %d tail %d is not an axiom", ErrMismatch, x.Arc, t)
				}
				continue
			}
			if int(c.Arc) >= h.NumArcs() || h.Arc(c.Arc).Head != t {
				return fmt.Errorf("%w: child %d of arc %d does not derive state %d", ErrMismatch, i, x.Arc, t)
			}
		}
		return nil
	})
}
