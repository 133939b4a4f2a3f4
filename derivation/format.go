package derivation

import (
	"strconv"
	"strings"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
)

// Format renders n in bracketed form, e.g. (S (NP "john") (VP "runs")). Nodes show
// the head label, or the head id for unlabeled states; axiom leaves show the
// terminal label, or the state id for the start state.
func Format[W semiring.Weight[W]](h *core.Hypergraph[W], n *Node) (string, error) {
	if err := Walk(n, func(*Node) error { return nil }); err != nil {
		return "", err
	}
	var sb strings.Builder
	var rec func(x *Node)
	rec = func(x *Node) {
		a := h.Arc(x.Arc)
		sb.WriteByte('(')
		sb.WriteString(stateName(h, a.Head))
		for i, t := range a.Tails {
			sb.WriteByte(' ')
			if c := x.Children[i]; !c.IsAxiom() {
				rec(c)
				continue
			}
			sb.WriteString(stateName(h, t))
		}
		sb.WriteByte(')')
	}
	if n.IsAxiom() {
		return "()", nil
	}
	rec(n)
	return sb.String(), nil
}

func stateName[W semiring.Weight[W]](h *core.Hypergraph[W], s core.StateID) string {
	l := h.Label(s)
	if l.In.IsTerminal() || l.In.IsNonterminal() {
		name := h.Vocab().Format(l.In)
		if l.Out != l.In && l.Out.IsTerminal() {
			name += ":" + h.Vocab().Format(l.Out)
		}
		return name
	}
	return strconv.Itoa(int(s))
}
