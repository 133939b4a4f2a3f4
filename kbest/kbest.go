package kbest

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/hypergraph/bestpath"
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/derivation"
	"github.com/katalvlaran/hypergraph/semiring"
)

// Enumerate calls visit with up to k derivations of the final state of h, cheapest
// first. It returns the number of hypotheses visited, padding included.
//
// A visitor returning ErrStop ends the enumeration; any other visitor error is
// returned as is. Fewer than k derivations is not an error unless WithFailIfEmpty is
// set and none was found.
func Enumerate[W semiring.Weight[W]](h *core.Hypergraph[W], k int, visit func(Hypothesis[W]) error, opts ...Option) (int, error) {
	if h == nil {
		return 0, ErrGraphNil
	}
	if k < 1 {
		return 0, ErrBadK
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &enumeration[W]{h: h, k: k, cfg: cfg, visit: visit}
	err := e.run()
	if errors.Is(err, ErrStop) {
		err = nil
	}
	if err != nil {
		return e.emitted, err
	}
	if e.emitted == 0 && cfg.FailIfEmpty {
		return 0, ErrEmpty
	}
	return e.emitted, nil
}

// Best collects up to k hypotheses.
func Best[W semiring.Weight[W]](h *core.Hypergraph[W], k int, opts ...Option) ([]Hypothesis[W], error) {
	var out []Hypothesis[W]
	_, err := Enumerate(h, k, func(hyp Hypothesis[W]) error {
		out = append(out, hyp)
		return nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// enumeration is the private state of one Enumerate call.
type enumeration[W semiring.Weight[W]] struct {
	h     *core.Hypergraph[W]
	k     int
	cfg   Options
	visit func(Hypothesis[W]) error

	emitted, skipped int
	perYield         map[string]int
	last             *Hypothesis[W]
}

func (e *enumeration[W]) run() error {
	goal := e.h.Final()
	if goal == core.NoState {
		return e.pad()
	}
	best, err := bestpath.Compute(e.h, e.cfg.BestPath...)
	if err != nil {
		return err
	}
	if !best.Reachable(goal) {
		return e.pad()
	}
	f := newForest(e.h, best.Inside)
	if e.cfg.NbestPerString > 0 {
		e.perYield = make(map[string]int)
	}
	root := int32(goal)

	for r := 0; e.emitted < e.k; r++ {
		if f.kth(root, r) != found {
			break
		}
		tree, err := f.tree(root, r)
		if err != nil {
			return err
		}
		keep, err := e.filter(tree)
		if err != nil {
			return err
		}
		if !keep {
			e.skipped++
			if e.cfg.MaxSkipped > 0 && e.skipped >= e.cfg.MaxSkipped {
				break
			}
			continue
		}
		hyp := Hypothesis[W]{Tree: tree, Cost: f.nodes[root].derivs[r].cost, Rank: e.emitted}
		if err := e.emit(hyp); err != nil {
			return err
		}
	}
	slog.Debug("kbest", "k", e.k, "emitted", e.emitted, "skipped", e.skipped,
		"forest_nodes", len(f.nodes), "repairs", f.repairs)
	return e.pad()
}

// filter reports whether tree's yield is still under its per-string quota.
func (e *enumeration[W]) filter(tree *derivation.Node) (bool, error) {
	if e.perYield == nil {
		return true, nil
	}
	syms, err := derivation.Yield(e.h, tree, e.cfg.YieldSide, false)
	if err != nil {
		return false, err
	}
	key := derivation.YieldKey(syms)
	if e.perYield[key] >= e.cfg.NbestPerString {
		return false, nil
	}
	e.perYield[key]++
	return true, nil
}

func (e *enumeration[W]) emit(hyp Hypothesis[W]) error {
	e.emitted++
	e.last = &hyp
	return e.visit(hyp)
}

// pad repeats the last real hypothesis until k were emitted.
func (e *enumeration[W]) pad() error {
	if !e.cfg.Padding || e.last == nil {
		return nil
	}
	for e.emitted < e.k {
		hyp := *e.last
		hyp.Rank = e.emitted
		hyp.Padding = true
		if err := e.visit(hyp); err != nil {
			return err
		}
		e.emitted++
	}
	return nil
}
