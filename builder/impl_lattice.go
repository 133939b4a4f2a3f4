package builder

import (
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

// Lattice returns a Constructor for an acyclic FSM over positions 0..n with width
// parallel arcs between consecutive positions. Labels are drawn from the alphabet:
// at random with an RNG, round-robin otherwise. Position 0 is the start, n the final.
//
// Complexity: O(n·width).
func Lattice[W semiring.Weight[W]](n, width int) Constructor[W] {
	return func(h *core.Hypergraph[W], cfg builderConfig) error {
		if n < MinLatticeLen {
			return builderErrorf(MethodLattice, "n=%d < min=%d: %w", n, MinLatticeLen, ErrTooFewStates)
		}
		if width < MinLatticeWidth {
			return builderErrorf(MethodLattice, "width=%d < min=%d: %w", width, MinLatticeWidth, ErrTooFewStates)
		}
		voc := h.Vocab()
		syms := make([]vocab.Sym, len(cfg.alphabet))
		for i, w := range cfg.alphabet {
			syms[i] = voc.Add(w, vocab.Lexical)
		}

		pos := make([]core.StateID, n+1)
		for i := range pos {
			pos[i] = h.AddState()
		}
		next := 0
		for i := 0; i < n; i++ {
			for j := 0; j < width; j++ {
				var sym vocab.Sym
				if cfg.rng != nil {
					sym = syms[cfg.rng.Intn(len(syms))]
				} else {
					sym = syms[next%len(syms)]
					next++
				}
				if err := addFSMArc(h, cfg, MethodLattice, pos[i], pos[i+1], sym); err != nil {
					return err
				}
			}
		}
		if err := h.SetStart(pos[0]); err != nil {
			return builderErrorf(MethodLattice, "%w", err)
		}
		if err := h.SetFinal(pos[n]); err != nil {
			return builderErrorf(MethodLattice, "%w", err)
		}
		return nil
	}
}
