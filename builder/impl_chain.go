package builder

import (
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

// Chain returns a Constructor that appends a single-path FSM accepting exactly
// words, and makes its ends the start and final states. An empty word list yields
// one state that is both start and final.
//
// Complexity: O(len(words)).
func Chain[W semiring.Weight[W]](words ...string) Constructor[W] {
	return func(h *core.Hypergraph[W], cfg builderConfig) error {
		voc := h.Vocab()
		prev := h.AddState()
		if err := h.SetStart(prev); err != nil {
			return builderErrorf(MethodChain, "%w", err)
		}
		for _, w := range words {
			next := h.AddState()
			if err := addFSMArc(h, cfg, MethodChain, prev, next, voc.Add(w, vocab.Lexical)); err != nil {
				return err
			}
			prev = next
		}
		if err := h.SetFinal(prev); err != nil {
			return builderErrorf(MethodChain, "%w", err)
		}
		return nil
	}
}
