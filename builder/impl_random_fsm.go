package builder

import (
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

// RandomFSM returns a Constructor for a random automaton with the given number of
// states and arcs. The first new state is the start and the last the final; an arc
// is an epsilon arc with the configured probability and otherwise carries a random
// alphabet symbol. Cycles and self-loops are allowed.
//
// Requires an RNG. Deterministic for a fixed seed: states are created in order and
// each arc draws source, destination, epsilon trial and symbol in that order.
//
// Complexity: O(states + arcs).
func RandomFSM[W semiring.Weight[W]](states, arcs int) Constructor[W] {
	return func(h *core.Hypergraph[W], cfg builderConfig) error {
		if states < MinRandomStates {
			return builderErrorf(MethodRandomFSM, "states=%d < min=%d: %w", states, MinRandomStates, ErrTooFewStates)
		}
		if arcs < 0 {
			return builderErrorf(MethodRandomFSM, "arcs=%d: %w", arcs, ErrTooFewStates)
		}
		if cfg.rng == nil {
			return builderErrorf(MethodRandomFSM, "%w", ErrNeedRandSource)
		}
		voc := h.Vocab()
		syms := make([]vocab.Sym, len(cfg.alphabet))
		for i, w := range cfg.alphabet {
			syms[i] = voc.Add(w, vocab.Lexical)
		}
		ids := make([]core.StateID, states)
		for i := range ids {
			ids[i] = h.AddState()
		}
		for i := 0; i < arcs; i++ {
			src := ids[cfg.rng.Intn(states)]
			dst := ids[cfg.rng.Intn(states)]
			sym := vocab.Epsilon
			if cfg.rng.Float64() >= cfg.epsProb {
				sym = syms[cfg.rng.Intn(len(syms))]
			}
			if err := addFSMArc(h, cfg, MethodRandomFSM, src, dst, sym); err != nil {
				return err
			}
		}
		if err := h.SetStart(ids[0]); err != nil {
			return builderErrorf(MethodRandomFSM, "%w", err)
		}
		if err := h.SetFinal(ids[states-1]); err != nil {
			return builderErrorf(MethodRandomFSM, "%w", err)
		}
		return nil
	}
}
