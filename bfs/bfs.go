package bfs

import (
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
)

// queueItem pairs a state with its generation.
type queueItem struct {
	s     core.StateID
	depth int
}

// walker encapsulates mutable state of one Derive run.
type walker[W semiring.Weight[W]] struct {
	h       *core.Hypergraph[W]
	opts    Options
	queue   []queueItem
	pending []int          // per arc: tails not yet derivable
	byTail  [][]core.ArcID // per state: arcs it is a (distinct) tail of
	res     *Result
}

// Derive computes which states can be derived bottom-up from the axioms (the start
// state and every terminal-labeled state). Multi-tail arcs fire once all their tails
// are derivable.
func Derive[W semiring.Weight[W]](h *core.Hypergraph[W], opts ...Option) (*Result, error) {
	if h == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	n := h.NumStates()
	w := &walker[W]{
		h:       h,
		opts:    o,
		pending: make([]int, h.NumArcs()),
		byTail:  make([][]core.ArcID, n),
		res: &Result{
			Order: make([]core.StateID, 0, n),
			Depth: make([]int, n),
			Via:   make([]core.ArcID, n),
		},
	}
	for i := range w.res.Depth {
		w.res.Depth[i] = -1
		w.res.Via[i] = core.NoArc
	}
	for id, a := range h.Arcs() {
		if !o.FilterArc(id) {
			w.pending[id] = -1
			continue
		}
		for i, t := range a.Tails {
			if !seen(a.Tails[:i], t) {
				w.pending[id]++
				w.byTail[t] = append(w.byTail[t], id)
			}
		}
	}

	for s := 0; s < n; s++ {
		if h.IsAxiom(core.StateID(s)) {
			if err := w.reach(core.StateID(s), 0, core.NoArc); err != nil {
				return nil, err
			}
		}
	}
	return w.res, w.run()
}

func (w *walker[W]) run() error {
	for len(w.queue) > 0 {
		if err := w.opts.Ctx.Err(); err != nil {
			return err
		}
		item := w.queue[0]
		w.queue = w.queue[1:]
		if w.opts.MaxDepth > 0 && item.depth >= w.opts.MaxDepth {
			continue
		}
		for _, id := range w.byTail[item.s] {
			w.pending[id]--
			if w.pending[id] != 0 {
				continue
			}
			head := w.h.Arc(id).Head
			if w.res.Depth[head] >= 0 {
				continue
			}
			if err := w.reach(head, item.depth+1, id); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *walker[W]) reach(s core.StateID, depth int, via core.ArcID) error {
	w.res.Depth[s] = depth
	w.res.Via[s] = via
	w.res.Order = append(w.res.Order, s)
	w.queue = append(w.queue, queueItem{s: s, depth: depth})
	return w.opts.OnVisit(s, depth)
}

func seen(ss []core.StateID, s core.StateID) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

// Coreachable marks the states from which the final state is derivable through arcs
// whose tails are all derivable (per derived). Returns all false for an empty
// hypergraph.
func Coreachable[W semiring.Weight[W]](h *core.Hypergraph[W], derived *Result) []bool {
	n := h.NumStates()
	co := make([]bool, n)
	final := h.Final()
	if final == core.NoState || !derived.Derivable(final) {
		return co
	}
	byHead := make([][]core.ArcID, n)
	for id, a := range h.Arcs() {
		usable := true
		for _, t := range a.Tails {
			if !derived.Derivable(t) {
				usable = false
				break
			}
		}
		if usable {
			byHead[a.Head] = append(byHead[a.Head], id)
		}
	}
	co[final] = true
	queue := []core.StateID{final}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, id := range byHead[s] {
			for _, t := range h.Arc(id).Tails {
				if !co[t] {
					co[t] = true
					queue = append(queue, t)
				}
			}
		}
	}
	return co
}
