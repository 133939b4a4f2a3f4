package builder

import (
	"strconv"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

// RandomCFG returns a Constructor for a random acyclic grammar over nonterminals
// S, N1, N2, ... (S is the final state). Nonterminal i always gets one rule of a
// single alphabet terminal, so every nonterminal is derivable; the extra rules are
// spread at random and mix terminals with nonterminals of larger index, which keeps
// the grammar acyclic and its language finite. Rule length is at most the configured
// maximum right-hand side.
//
// Requires an RNG.
//
// Complexity: O(nonterminals + extra·maxRHS).
func RandomCFG[W semiring.Weight[W]](nonterminals, extra int) Constructor[W] {
	return func(h *core.Hypergraph[W], cfg builderConfig) error {
		if nonterminals < MinNonterminals {
			return builderErrorf(MethodRandomCFG, "nonterminals=%d < min=%d: %w", nonterminals, MinNonterminals, ErrTooFewStates)
		}
		if extra < 0 {
			return builderErrorf(MethodRandomCFG, "extra=%d: %w", extra, ErrTooFewStates)
		}
		if cfg.rng == nil {
			return builderErrorf(MethodRandomCFG, "%w", ErrNeedRandSource)
		}
		voc := h.Vocab()
		terms := make([]vocab.Sym, len(cfg.alphabet))
		for i, w := range cfg.alphabet {
			terms[i] = voc.Add(w, vocab.Lexical)
		}
		nts := make([]core.StateID, nonterminals)
		for i := range nts {
			name := StartSymbol
			if i > 0 {
				name = "N" + strconv.Itoa(i)
			}
			nts[i] = h.AddLabeledState(core.InputLabel(voc.Add(name, vocab.Nonterminal)))
		}

		add := func(head core.StateID, tails []core.StateID) error {
			w := semiring.FromCost[W](cfg.cost())
			if _, err := h.AddArc(head, tails, w); err != nil {
				return builderErrorf(MethodRandomCFG, "%w", err)
			}
			return nil
		}
		for _, nt := range nts {
			t := h.TerminalState(terms[cfg.rng.Intn(len(terms))])
			if err := add(nt, []core.StateID{t}); err != nil {
				return err
			}
		}
		for r := 0; r < extra; r++ {
			i := cfg.rng.Intn(nonterminals)
			n := 1 + cfg.rng.Intn(cfg.maxRHS)
			tails := make([]core.StateID, n)
			for j := range tails {
				if i+1 < nonterminals && cfg.rng.Intn(2) == 0 {
					tails[j] = nts[i+1+cfg.rng.Intn(nonterminals-i-1)]
				} else {
					tails[j] = h.TerminalState(terms[cfg.rng.Intn(len(terms))])
				}
			}
			if err := add(nts[i], tails); err != nil {
				return err
			}
		}
		if err := h.SetFinal(nts[0]); err != nil {
			return builderErrorf(MethodRandomCFG, "%w", err)
		}
		return nil
	}
}
