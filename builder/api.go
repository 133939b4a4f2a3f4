// SPDX-License-Identifier: MIT
// Package: hypergraph/builder
//
// api.go - public entry point for the builder package.
//
// Design contract:
//   - One orchestrator: Build(voc, hopts, bopts, cons...). Creates h, resolves cfg, runs cons in order.
//   - Functional options (BuilderOption) resolve into an immutable builderConfig (no global state).
//   - Determinism: same inputs/options/seed and constructor order ⇒ identical hypergraphs.
//   - Safety: constructors never panic; they return sentinel errors.

package builder

import (
	"fmt"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

// Constructor applies a deterministic mutation to h using the resolved config.
// Constructors validate parameters early, return sentinel errors and preserve
// determinism for the same config and call order.
type Constructor[W semiring.Weight[W]] func(h *core.Hypergraph[W], cfg builderConfig) error

// Build creates a hypergraph over voc with store options hopts, resolves the builder
// configuration from bopts and applies all constructors in order. Constructor errors
// are wrapped with "Build: %w" and returned immediately.
//
// Complexity: O(len(bopts)) plus the cost of each constructor.
func Build[W semiring.Weight[W]](voc *vocab.Vocabulary, hopts []core.Option, bopts []BuilderOption, cons ...Constructor[W]) (*core.Hypergraph[W], error) {
	h := core.New[W](voc, hopts...)
	cfg := newBuilderConfig(bopts...)
	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("Build: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(h, cfg); err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
	}
	return h, nil
}

// cost draws the next arc cost.
func (c builderConfig) cost() float64 { return c.costFn(c.rng) }

// addFSMArc adds src --sym--> dst with a cost from cfg.
func addFSMArc[W semiring.Weight[W]](h *core.Hypergraph[W], cfg builderConfig, method string, src, dst core.StateID, sym vocab.Sym) error {
	w := semiring.FromCost[W](cfg.cost())
	if _, err := h.AddFSMArc(src, dst, core.InputLabel(sym), w); err != nil {
		return builderErrorf(method, "AddFSMArc(%d,%d): %w", src, dst, err)
	}
	return nil
}
