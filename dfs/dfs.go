package dfs

import (
	"fmt"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
)

// frame is one level of the explicit DFS stack.
type frame struct {
	s     core.StateID
	next  int
	depth int
}

// walker holds the private state of one DFS run.
type walker[W semiring.Weight[W]] struct {
	h     *core.Hypergraph[W]
	opts  Options
	adj   [][]edge
	state []uint8
	res   *Result
}

// DFS performs a depth-first traversal from roots over derivation edges.
//
// Returns ErrGraphNil for a nil hypergraph and ErrStartStateNotFound for a root
// outside it. Hook errors and context cancellation abort the traversal.
//
// Complexity: O(S + A·T) time, O(S) extra memory beyond the adjacency.
func DFS[W semiring.Weight[W]](h *core.Hypergraph[W], roots []core.StateID, opts ...Option) (*Result, error) {
	if h == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	for _, r := range roots {
		if !h.HasState(r) {
			return nil, fmt.Errorf("%w: %d", ErrStartStateNotFound, r)
		}
	}

	n := h.NumStates()
	w := &walker[W]{
		h:     h,
		opts:  o,
		adj:   adjacency(h, o.Direction),
		state: make([]uint8, n),
		res: &Result{
			Order:     make([]core.StateID, 0, n),
			Depth:     make([]int, n),
			ParentArc: make([]core.ArcID, n),
			Visited:   make([]bool, n),
		},
	}
	for i := range w.res.Depth {
		w.res.Depth[i] = -1
		w.res.ParentArc[i] = core.NoArc
	}

	for _, r := range roots {
		if err := w.visit(r); err != nil {
			return nil, err
		}
	}
	if o.FullTraversal {
		for s := 0; s < n; s++ {
			if err := w.visit(core.StateID(s)); err != nil {
				return nil, err
			}
		}
	}
	return w.res, nil
}

// visit explores the tree rooted at root unless it was already discovered.
func (w *walker[W]) visit(root core.StateID) error {
	if w.state[root] != White {
		return nil
	}
	if err := w.discover(root, 0, core.NoArc); err != nil {
		return err
	}
	stack := []frame{{s: root}}
	for len(stack) > 0 {
		select {
		case <-w.opts.Ctx.Done():
			return w.opts.Ctx.Err()
		default:
		}
		top := &stack[len(stack)-1]
		out := w.adj[top.s]
		limited := w.opts.MaxDepth >= 0 && top.depth >= w.opts.MaxDepth
		if limited || top.next == len(out) {
			if err := w.finish(top.s); err != nil {
				return err
			}
			stack = stack[:len(stack)-1]
			continue
		}
		e := out[top.next]
		top.next++
		if w.state[e.to] != White {
			continue
		}
		d := top.depth + 1
		if err := w.discover(e.to, d, e.arc); err != nil {
			return err
		}
		stack = append(stack, frame{s: e.to, depth: d})
	}
	return nil
}

func (w *walker[W]) discover(s core.StateID, depth int, via core.ArcID) error {
	w.state[s] = Gray
	w.res.Visited[s] = true
	w.res.Depth[s] = depth
	w.res.ParentArc[s] = via
	if w.opts.OnVisit != nil {
		return w.opts.OnVisit(s)
	}
	return nil
}

func (w *walker[W]) finish(s core.StateID) error {
	w.state[s] = Black
	if w.opts.OnExit != nil {
		if err := w.opts.OnExit(s); err != nil {
			return err
		}
	}
	w.res.Order = append(w.res.Order, s)
	return nil
}
