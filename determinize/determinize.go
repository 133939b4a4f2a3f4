package determinize

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/exp/maps"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/internal/logutil"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

// Determinize returns a deterministic FSM accepting the same language as h.
// The result shares h's vocabulary, carries unit weights and stores first-tail
// out-arcs sorted by input symbol.
//
// Errors: ErrNotFSM, ErrWeighted, ErrUnconfigured, ErrTooManyStates, and
// core.ErrConfig when the else case must be emitted while rho is Ordinary.
//
// Complexity: exponential in |states| in the worst case; each subset is expanded once.
func Determinize[W semiring.Weight[W]](h *core.Hypergraph[W], opts ...Option) (*core.Hypergraph[W], error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Rho == Unspecified {
		o.Rho = Special
	}
	if !h.HasProperties(core.FSM) {
		return nil, ErrNotFSM
	}
	if !h.HasProperties(core.Unweighted) {
		return nil, ErrWeighted
	}
	r := newRun(h, o)
	if err := r.check(); err != nil {
		return nil, err
	}
	if err := r.construct(); err != nil {
		return nil, err
	}
	slog.Debug("determinize", "in_states", h.NumStates(), "in_arcs", h.NumArcs(),
		"subsets", len(r.members), "out_arcs", r.res.NumArcs())
	return r.res, nil
}

// run is the private working state of one Determinize call.
type run[W semiring.Weight[W]] struct {
	h    *core.Hypergraph[W]
	opts Options

	// per source state, arcs grouped by role
	explicit [][]core.ArcID
	eps      [][]core.ArcID
	rho      [][]core.StateID
	sigma    [][]core.StateID
	phi      [][]core.StateID

	closures [][]core.StateID // epsilon closure, computed on first use

	res     *core.Hypergraph[W]
	subsets map[string]core.StateID
	members [][]core.StateID // source subset of each result state
	queue   []core.StateID
	finals  []core.StateID
}

func newRun[W semiring.Weight[W]](h *core.Hypergraph[W], o Options) *run[W] {
	n := h.NumStates()
	r := &run[W]{
		h:        h,
		opts:     o,
		explicit: make([][]core.ArcID, n),
		eps:      make([][]core.ArcID, n),
		rho:      make([][]core.StateID, n),
		sigma:    make([][]core.StateID, n),
		phi:      make([][]core.StateID, n),
		closures: make([][]core.StateID, n),
		subsets:  make(map[string]core.StateID),
	}
	for id, a := range h.Arcs() {
		src, l := a.Source(), h.FSMLabel(id)
		switch {
		case isEpsilon(l):
			r.eps[src] = append(r.eps[src], id)
		case l.In == vocab.Rho && o.Rho == Special:
			r.rho[src] = append(r.rho[src], a.Head)
		case l.In == vocab.Sigma && o.Sigma == Special:
			r.sigma[src] = append(r.sigma[src], a.Head)
		case l.In == vocab.Phi && o.Phi == Special:
			r.phi[src] = append(r.phi[src], a.Head)
		default:
			r.explicit[src] = append(r.explicit[src], id)
		}
	}
	return r
}

func isEpsilon(l core.Label) bool {
	return l.In == vocab.Epsilon && l.Output() == vocab.Epsilon
}

// check rejects special symbols the caller did not configure.
func (r *run[W]) check() error {
	var sawPhi, sawSigma bool
	for id := range r.h.Arcs() {
		switch r.h.FSMLabel(id).In {
		case vocab.Phi:
			sawPhi = true
		case vocab.Sigma:
			sawSigma = true
		}
	}
	if sawPhi && r.opts.Phi == Unspecified {
		return fmt.Errorf("%w: <phi>", ErrUnconfigured)
	}
	if sawSigma && r.opts.Sigma == Unspecified {
		return fmt.Errorf("%w: <sigma>", ErrUnconfigured)
	}
	if sawSigma && r.opts.Sigma == Special && r.opts.Rho == Ordinary {
		return fmt.Errorf("determinize: %w: special <sigma> needs special <rho> for its else arcs", core.ErrConfig)
	}
	return nil
}

// closure returns the sorted epsilon closure of s.
func (r *run[W]) closure(s core.StateID) []core.StateID {
	if c := r.closures[s]; c != nil {
		return c
	}
	seen := map[core.StateID]bool{s: true}
	stack := []core.StateID{s}
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, id := range r.eps[q] {
			if head := r.h.Arc(id).Head; !seen[head] {
				seen[head] = true
				stack = append(stack, head)
			}
		}
	}
	c := maps.Keys(seen)
	slices.Sort(c)
	r.closures[s] = c
	return c
}

// closeSet returns the sorted epsilon closure of a set of states.
func (r *run[W]) closeSet(set map[core.StateID]bool) []core.StateID {
	all := make(map[core.StateID]bool, len(set))
	for s := range set {
		for _, q := range r.closure(s) {
			all[q] = true
		}
	}
	out := maps.Keys(all)
	slices.Sort(out)
	return out
}

func subsetKey(ss []core.StateID) string {
	buf := make([]byte, 0, 4*len(ss))
	for _, s := range ss {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(s))
	}
	return string(buf)
}

// intern returns the result state for a closed subset, queueing new ones.
func (r *run[W]) intern(ss []core.StateID) (core.StateID, error) {
	key := subsetKey(ss)
	if d, ok := r.subsets[key]; ok {
		return d, nil
	}
	if r.opts.MaxStates > 0 && len(r.members) >= r.opts.MaxStates {
		return core.NoState, fmt.Errorf("%w: limit %d", ErrTooManyStates, r.opts.MaxStates)
	}
	d := r.res.AddState()
	r.subsets[key] = d
	r.members = append(r.members, ss)
	r.queue = append(r.queue, d)
	if _, ok := slices.BinarySearch(ss, r.h.Final()); ok && r.h.Final() != core.NoState {
		r.finals = append(r.finals, d)
	}
	logutil.Trace("determinize: new subset", "state", d, "size", len(ss))
	return d, nil
}

func (r *run[W]) construct() error {
	r.res = core.New[W](r.h.Vocab(), core.WithProperties(core.StoreFirstTailOutArcs|core.CanonicalLex))
	if r.h.Start() == core.NoState {
		return nil
	}
	start, err := r.intern(r.closure(r.h.Start()))
	if err != nil {
		return err
	}
	if err := r.res.SetStart(start); err != nil {
		return err
	}
	one := semiring.One[W]()
	for len(r.queue) > 0 {
		d := r.queue[0]
		r.queue = r.queue[1:]
		moves, elseSet := r.partition(r.members[d])

		labels := maps.Keys(moves)
		slices.SortFunc(labels, compareLabels)
		for _, l := range labels {
			dst, err := r.intern(r.closeSet(moves[l]))
			if err != nil {
				return err
			}
			if _, err := r.res.AddFSMArc(d, dst, l, one); err != nil {
				return err
			}
		}
		if len(elseSet) > 0 {
			dst, err := r.intern(r.closeSet(elseSet))
			if err != nil {
				return err
			}
			if _, err := r.res.AddFSMArc(d, dst, core.InputLabel(vocab.Rho), one); err != nil {
				return err
			}
		}
	}
	return r.setFinal()
}

// setFinal joins final subsets into a single final state.
func (r *run[W]) setFinal() error {
	switch len(r.finals) {
	case 0:
		return nil
	case 1:
		return r.res.SetFinal(r.finals[0])
	}
	f := r.res.AddState()
	one := semiring.One[W]()
	for _, d := range r.finals {
		if _, err := r.res.AddFSMArc(d, f, core.InputLabel(vocab.Epsilon), one); err != nil {
			return err
		}
	}
	return r.res.SetFinal(f)
}

// partition computes, for a subset, the target set of every explicitly listed label
// and the target set of the else case.
func (r *run[W]) partition(ss []core.StateID) (map[core.Label]map[core.StateID]bool, map[core.StateID]bool) {
	// The universe includes labels listed by states reachable through failure chains.
	universe := make(map[core.Label]bool)
	for _, q := range r.failureReach(ss) {
		for _, id := range r.explicit[q] {
			universe[r.h.FSMLabel(id)] = true
		}
	}
	moves := make(map[core.Label]map[core.StateID]bool, len(universe))
	for l := range universe {
		set := make(map[core.StateID]bool)
		for _, q := range ss {
			r.resolve(q, l, set, map[core.StateID]bool{})
		}
		if len(set) > 0 {
			moves[l] = set
		}
	}
	elseSet := make(map[core.StateID]bool)
	for _, q := range ss {
		r.resolveElse(q, elseSet, map[core.StateID]bool{})
	}
	return moves, elseSet
}

// failureReach returns ss plus every state reachable from it through phi chains.
func (r *run[W]) failureReach(ss []core.StateID) []core.StateID {
	seen := make(map[core.StateID]bool, len(ss))
	stack := make([]core.StateID, 0, len(ss))
	for _, q := range ss {
		seen[q] = true
		stack = append(stack, q)
	}
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range r.phi[q] {
			for _, c := range r.closure(p) {
				if !seen[c] {
					seen[c] = true
					stack = append(stack, c)
				}
			}
		}
	}
	return maps.Keys(seen)
}

func (r *run[W]) hasExplicit(q core.StateID, l core.Label) bool {
	for _, id := range r.explicit[q] {
		if r.h.FSMLabel(id) == l {
			return true
		}
	}
	return false
}

// resolve adds the targets q reaches on l to set: explicit and sigma arcs, rho arcs
// when q does not list l, and otherwise the failure chain.
func (r *run[W]) resolve(q core.StateID, l core.Label, set, visiting map[core.StateID]bool) {
	if visiting[q] {
		return
	}
	visiting[q] = true
	matched := false
	for _, id := range r.explicit[q] {
		if r.h.FSMLabel(id) == l {
			set[r.h.Arc(id).Head] = true
			matched = true
		}
	}
	for _, t := range r.sigma[q] {
		set[t] = true
		matched = true
	}
	if !r.hasExplicit(q, l) {
		for _, t := range r.rho[q] {
			set[t] = true
			matched = true
		}
	}
	if matched {
		return
	}
	for _, p := range r.phi[q] {
		for _, c := range r.closure(p) {
			r.resolve(c, l, set, visiting)
		}
	}
}

// resolveElse adds the targets q reaches on a symbol nobody lists.
func (r *run[W]) resolveElse(q core.StateID, set, visiting map[core.StateID]bool) {
	if visiting[q] {
		return
	}
	visiting[q] = true
	if len(r.sigma[q])+len(r.rho[q]) > 0 {
		for _, t := range r.sigma[q] {
			set[t] = true
		}
		for _, t := range r.rho[q] {
			set[t] = true
		}
		return
	}
	for _, p := range r.phi[q] {
		for _, c := range r.closure(p) {
			r.resolveElse(c, set, visiting)
		}
	}
}

func compareLabels(a, b core.Label) int {
	if a.In != b.In {
		if a.In < b.In {
			return -1
		}
		return 1
	}
	switch {
	case a.Out < b.Out:
		return -1
	case a.Out > b.Out:
		return 1
	}
	return 0
}
