package bestpath

import (
	"container/heap"
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/derivation"
	"github.com/katalvlaran/hypergraph/dfs"
	"github.com/katalvlaran/hypergraph/internal/logutil"
	"github.com/katalvlaran/hypergraph/semiring"
)

// Compute finds the cheapest derivation of every state of h.
//
// Validation order:
//  1. h must be non-nil (ErrGraphNil).
//  2. Acyclic requested on a hypergraph with more back arcs than allowed fails with
//     an error wrapping core.ErrCycle.
//  3. With WithFailIfEmpty, an underivable final state fails with ErrEmpty.
//
// Complexity: see the package documentation.
func Compute[W semiring.Weight[W]](h *core.Hypergraph[W], opts ...Option) (*Result[W], error) {
	if h == nil {
		return nil, ErrGraphNil
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	r := newRunner(h, cfg)
	alg, topo, err := r.choose()
	if err != nil {
		return nil, err
	}
	switch alg {
	case Acyclic:
		r.acyclic(topo)
	default:
		r.bestFirst()
	}

	res := &Result[W]{
		h:         h,
		Inside:    r.inside,
		Pred:      r.pred,
		Algorithm: alg,
	}
	if topo != nil {
		res.BackArcs = topo.BackArcs
	}
	slog.Debug("bestpath", "algorithm", alg, "states", h.NumStates(), "arcs", h.NumArcs(),
		"relaxations", r.relaxed, "improvements", r.improved, "back_arcs", len(res.BackArcs))

	if cfg.FailIfEmpty && !res.Reachable(h.Final()) {
		return nil, ErrEmpty
	}
	return res, nil
}

// runner holds the mutable state for a single Compute execution.
type runner[W semiring.Weight[W]] struct {
	h    *core.Hypergraph[W]
	opts Options

	inside []W
	pred   []core.ArcID

	relaxed, improved int
}

func newRunner[W semiring.Weight[W]](h *core.Hypergraph[W], opts Options) *runner[W] {
	n := h.NumStates()
	r := &runner[W]{
		h:      h,
		opts:   opts,
		inside: make([]W, n),
		pred:   make([]core.ArcID, n),
	}
	zero, one := semiring.Zero[W](), semiring.One[W]()
	for s := range r.inside {
		r.pred[s] = core.NoArc
		if h.IsAxiom(core.StateID(s)) {
			r.inside[s] = one
		} else {
			r.inside[s] = zero
		}
	}
	return r
}

// choose resolves Auto and computes the topological order for the acyclic pass.
func (r *runner[W]) choose() (Algorithm, *dfs.TopoResult, error) {
	alg := r.opts.Algorithm
	if alg == BestFirst {
		return alg, nil, nil
	}
	if alg == Auto && r.opts.MaxBackArcs == 0 && !r.h.HasProperties(core.Acyclic) {
		return BestFirst, nil, nil
	}
	topo, err := dfs.TopologicalSort(r.h, dfs.WithMaxBackArcs(r.opts.MaxBackArcs))
	switch {
	case err == nil:
		return Acyclic, topo, nil
	case alg == Auto && errors.Is(err, core.ErrCycle):
		return BestFirst, nil, nil
	}
	return alg, nil, fmt.Errorf("bestpath: %w", err)
}

// relax recomputes the cost of arc id from its tails and improves its head.
// Reports whether the head improved.
func (r *runner[W]) relax(id core.ArcID) bool {
	a := r.h.Arc(id)
	if r.h.IsAxiom(a.Head) {
		return false
	}
	r.relaxed++
	cand := a.Weight
	for _, t := range a.Tails {
		if r.inside[t].IsZero() {
			return false
		}
		cand = cand.Times(r.inside[t])
	}
	if cand.IsZero() || !(cand.Value() < r.inside[a.Head].Value()-r.opts.Convergence) {
		return false
	}
	r.inside[a.Head] = cand
	r.pred[a.Head] = id
	r.improved++
	logutil.Trace("bestpath: improve", "state", a.Head, "arc", id, "cost", cand.Value())
	return true
}

// acyclic relaxes the in-arcs of every state in topological order.
func (r *runner[W]) acyclic(topo *dfs.TopoResult) {
	skip := make(map[core.ArcID]bool, len(topo.BackArcs))
	for _, id := range topo.BackArcs {
		skip[id] = true
	}
	in := make([][]core.ArcID, r.h.NumStates())
	for id, a := range r.h.Arcs() {
		if !skip[id] {
			in[a.Head] = append(in[a.Head], id)
		}
	}
	for _, s := range topo.Order {
		for _, id := range in[s] {
			r.relax(id)
		}
	}
}

// bestFirst settles states in order of increasing cost. An arc is relaxed when its
// last distinct tail is settled, and again whenever one of its tails is re-settled.
func (r *runner[W]) bestFirst() {
	n := r.h.NumStates()
	byTail := make([][]core.ArcID, n)
	pending := make([]int, r.h.NumArcs())
	for id, a := range r.h.Arcs() {
		for i, t := range a.Tails {
			if firstOccurrence(a.Tails, i) {
				byTail[t] = append(byTail[t], id)
				pending[id]++
			}
		}
	}

	settled := make([]int, n)
	pq := make(statePQ, 0, n)
	heap.Init(&pq)
	for s := range r.inside {
		if !r.inside[s].IsZero() {
			heap.Push(&pq, stateItem{id: core.StateID(s), cost: r.inside[s].Value()})
		}
	}
	for pq.Len() > 0 {
		item := heap.Pop(&pq).(stateItem)
		s := item.id
		if item.cost != r.inside[s].Value() || settled[s] > r.opts.MaxRereach {
			continue
		}
		settled[s]++
		for _, id := range byTail[s] {
			if settled[s] == 1 {
				pending[id]--
			}
			if pending[id] > 0 {
				continue
			}
			if r.relax(id) {
				head := r.h.Arc(id).Head
				heap.Push(&pq, stateItem{id: head, cost: r.inside[head].Value()})
			}
		}
	}
}

// firstOccurrence reports whether ts[i] does not appear in ts[:i].
func firstOccurrence(ts []core.StateID, i int) bool {
	for _, t := range ts[:i] {
		if t == ts[i] {
			return false
		}
	}
	return true
}

// Result holds the cheapest cost and last arc of every state.
type Result[W semiring.Weight[W]] struct {
	h *core.Hypergraph[W]

	// Inside is the cost of the cheapest derivation of each state; Zero when none.
	Inside []W

	// Pred is the last arc of that derivation; core.NoArc for axioms and underivable states.
	Pred []core.ArcID

	// Algorithm is the strategy that ran (never Auto).
	Algorithm Algorithm

	// BackArcs lists the arcs the acyclic pass ignored.
	BackArcs []core.ArcID
}

// Reachable reports whether s has a derivation.
func (r *Result[W]) Reachable(s core.StateID) bool {
	return s != core.NoState && int(s) < len(r.Inside) && !r.Inside[s].IsZero()
}

// Cost returns the cost of the best derivation of the final state, Zero when none.
func (r *Result[W]) Cost() W {
	if !r.Reachable(r.h.Final()) {
		return semiring.Zero[W]()
	}
	return r.Inside[r.h.Final()]
}

// Derivation rebuilds the best derivation of the final state.
// Returns ErrEmpty when there is none and an error wrapping core.ErrCycle when the
// predecessor table loops.
func (r *Result[W]) Derivation() (*derivation.Node, error) {
	return r.DerivationOf(r.h.Final())
}

// DerivationOf rebuilds the best derivation of s.
func (r *Result[W]) DerivationOf(s core.StateID) (*derivation.Node, error) {
	if !r.Reachable(s) {
		return nil, ErrEmpty
	}
	return derivation.FromPredecessors(r.h, r.Pred, s)
}

// Best returns the best derivation of the final state of h and its cost.
// It fails with ErrEmpty when the final state is not derivable.
func Best[W semiring.Weight[W]](h *core.Hypergraph[W], opts ...Option) (*derivation.Node, W, error) {
	res, err := Compute(h, append(opts, WithFailIfEmpty())...)
	if err != nil {
		return nil, semiring.Zero[W](), err
	}
	tree, err := res.Derivation()
	if err != nil {
		return nil, semiring.Zero[W](), err
	}
	return tree, res.Cost(), nil
}
