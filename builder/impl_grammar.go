package builder

import (
	"strconv"
	"strings"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

// Grammar returns a Constructor that adds one arc per rule. A rule reads
//
//	LHS -> tok1 tok2 ... [/ cost]
//
// where tokens follow vocab.Parse: "quoted" lexical terminals, <eps>-style specials
// and bare nonterminals. Each nonterminal maps to one state (reusing an existing
// state with that label); terminals go through TerminalState. The LHS of the first
// rule becomes the final state. Rules without a cost use the configured CostFn.
//
// Complexity: O(total tokens).
func Grammar[W semiring.Weight[W]](rules ...string) Constructor[W] {
	return func(h *core.Hypergraph[W], cfg builderConfig) error {
		voc := h.Vocab()
		nts := nonterminalStates(h)
		state := func(sym vocab.Sym) core.StateID {
			if sym.IsTerminal() {
				return h.TerminalState(sym)
			}
			if s, ok := nts[sym]; ok {
				return s
			}
			s := h.AddLabeledState(core.InputLabel(sym))
			nts[sym] = s
			return s
		}

		for i, rule := range rules {
			lhs, rhs, ok := strings.Cut(rule, "->")
			if !ok {
				return builderErrorf(MethodGrammar, "rule %d %q: missing ->: %w", i, rule, ErrBadRule)
			}
			cost := cfg.cost()
			if body, cs, hasCost := strings.Cut(rhs, "/"); hasCost {
				c, err := strconv.ParseFloat(strings.TrimSpace(cs), 64)
				if err != nil {
					return builderErrorf(MethodGrammar, "rule %d cost %q: %w", i, cs, ErrBadRule)
				}
				rhs, cost = body, c
			}
			head, err := voc.Parse(strings.TrimSpace(lhs))
			if err != nil || !head.IsNonterminal() {
				return builderErrorf(MethodGrammar, "rule %d lhs %q: %w", i, lhs, ErrBadRule)
			}
			toks := strings.Fields(rhs)
			if len(toks) == 0 {
				return builderErrorf(MethodGrammar, "rule %d %q: empty right-hand side: %w", i, rule, ErrBadRule)
			}
			tails := make([]core.StateID, len(toks))
			for j, tok := range toks {
				sym, err := voc.Parse(tok)
				if err != nil {
					return builderErrorf(MethodGrammar, "rule %d token %q: %w: %w", i, tok, ErrBadRule, err)
				}
				tails[j] = state(sym)
			}
			hs := state(head)
			if _, err := h.AddArc(hs, tails, semiring.FromCost[W](cost)); err != nil {
				return builderErrorf(MethodGrammar, "rule %d: %w", i, err)
			}
			if i == 0 {
				if err := h.SetFinal(hs); err != nil {
					return builderErrorf(MethodGrammar, "%w", err)
				}
			}
		}
		return nil
	}
}

// nonterminalStates maps every nonterminal label already in h to its first state.
func nonterminalStates[W semiring.Weight[W]](h *core.Hypergraph[W]) map[vocab.Sym]core.StateID {
	m := make(map[vocab.Sym]core.StateID)
	for s := 0; s < h.NumStates(); s++ {
		in := h.InputLabel(core.StateID(s))
		if !in.IsNonterminal() {
			continue
		}
		if _, ok := m[in]; !ok {
			m[in] = core.StateID(s)
		}
	}
	return m
}
