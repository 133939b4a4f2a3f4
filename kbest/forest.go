package kbest

import (
	"cmp"
	"fmt"
	"log/slog"
	"sort"

	heap "github.com/emirpasic/gods/v2/trees/binaryheap"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/derivation"
	"github.com/katalvlaran/hypergraph/semiring"
)

// status is the answer of a rank request.
type status uint8

const (
	found   status = iota
	none           // the node has fewer derivations
	pending        // the node is computing this rank further up the stack
)

// edge is a binarized arc (arc set) or a chain link (arc == core.NoArc).
// right is -1 for single-tail arcs.
type edge[W semiring.Weight[W]] struct {
	arc         core.ArcID
	w           W
	left, right int32
}

// item is a candidate or emitted derivation of a node: an edge and a rank per child.
type item[W semiring.Weight[W]] struct {
	edge  int32
	j     [2]int32
	cost  W
	fresh bool // cost recomputed from emitted child ranks
}

type node[W semiring.Weight[W]] struct {
	edges []edge[W]
	seed  W // rank-0 cost from the single-best pass
	axiom bool

	derivs   []item[W]
	expanded int // derivs whose successors were queued
	cand     *heap.Heap[*item[W]]
	seen     map[[3]int32]bool
	parked   []item[W]
	busy     bool
}

// forest is the binarized lazy forest of one enumeration. Nodes 0..NumStates-1 are
// states; chain nodes follow.
type forest[W semiring.Weight[W]] struct {
	h       *core.Hypergraph[W]
	nodes   []node[W]
	repairs int
}

func byCost[W semiring.Weight[W]](a, b *item[W]) int {
	if c := cmp.Compare(a.cost.Value(), b.cost.Value()); c != 0 {
		return c
	}
	if a.edge != b.edge {
		return cmp.Compare(a.edge, b.edge)
	}
	if a.j[0] != b.j[0] {
		return cmp.Compare(a.j[0], b.j[0])
	}
	return cmp.Compare(a.j[1], b.j[1])
}

// newForest binarizes h. inside holds the single-best cost of every state.
func newForest[W semiring.Weight[W]](h *core.Hypergraph[W], inside []W) *forest[W] {
	n := h.NumStates()
	f := &forest[W]{h: h, nodes: make([]node[W], n)}
	one := semiring.One[W]()
	for s := range f.nodes {
		f.nodes[s].seed = inside[s]
		f.nodes[s].axiom = h.IsAxiom(core.StateID(s))
	}
	for id, a := range h.Arcs() {
		if f.nodes[a.Head].axiom {
			continue
		}
		left := int32(a.Tails[0])
		for k := 1; k < len(a.Tails)-1; k++ {
			t := a.Tails[k]
			f.nodes = append(f.nodes, node[W]{
				edges: []edge[W]{{arc: core.NoArc, w: one, left: left, right: int32(t)}},
				seed:  f.nodes[left].seed.Times(inside[t]),
			})
			left = int32(len(f.nodes) - 1)
		}
		right := int32(-1)
		if len(a.Tails) > 1 {
			right = int32(a.Tails[len(a.Tails)-1])
		}
		hn := &f.nodes[a.Head]
		hn.edges = append(hn.edges, edge[W]{arc: id, w: a.Weight, left: left, right: right})
	}
	return f
}

// costAt returns the cost of rank r of node v, using the seed for an unexpanded rank 0.
func (f *forest[W]) costAt(v int32, r int32) W {
	n := &f.nodes[v]
	if int(r) < len(n.derivs) {
		return n.derivs[r].cost
	}
	return n.seed
}

func (f *forest[W]) itemCost(v int32, it item[W]) W {
	e := &f.nodes[v].edges[it.edge]
	c := e.w.Times(f.costAt(e.left, it.j[0]))
	if e.right >= 0 {
		c = c.Times(f.costAt(e.right, it.j[1]))
	}
	return c
}

// start seeds the candidate heap of v with the rank-0 combination of every edge.
func (f *forest[W]) start(v int32) {
	n := &f.nodes[v]
	n.cand = heap.NewWith(byCost[W])
	n.seen = make(map[[3]int32]bool)
	if n.axiom {
		n.derivs = []item[W]{{edge: -1, cost: semiring.One[W]()}}
		n.expanded = 1
		return
	}
	for i := range n.edges {
		it := item[W]{edge: int32(i)}
		it.cost = f.itemCost(v, it)
		if it.cost.IsZero() {
			continue
		}
		n.seen[[3]int32{it.edge, 0, 0}] = true
		n.cand.Push(&it)
	}
}

// kth makes sure rank r of node v exists.
func (f *forest[W]) kth(v int32, r int) status {
	n := &f.nodes[v]
	if r < len(n.derivs) {
		return found
	}
	if n.cand == nil {
		f.start(v)
		if r < len(n.derivs) {
			return found
		}
	}
	if n.busy {
		return pending
	}
	n.busy = true
	defer func() { n.busy = false }()

	for r >= len(n.derivs) {
		for n.expanded < len(n.derivs) {
			it := n.derivs[n.expanded]
			n.expanded++
			f.successors(v, it)
		}
		f.retryParked(v)
		it, ok := n.cand.Pop()
		if !ok {
			return f.waiting(v)
		}
		if !it.fresh {
			switch f.refresh(v, it) {
			case none:
				continue
			case pending:
				n.parked = append(n.parked, *it)
				continue
			}
			if !it.fresh {
				n.cand.Push(it)
				continue
			}
		}
		f.emit(v, *it)
	}
	return found
}

// refresh recomputes the cost of it from the emitted ranks of its children, which
// may differ from the seeds it was queued with. It answers none when a child has run
// out and pending when a child rank is still being computed; it is left untouched in
// both cases. Otherwise it.fresh is set unless the cost changed.
func (f *forest[W]) refresh(v int32, it *item[W]) status {
	e := f.nodes[v].edges[it.edge]
	for i, c := range [2]int32{e.left, e.right} {
		if c < 0 {
			continue
		}
		if st := f.kth(c, int(it.j[i])); st != found {
			return st
		}
	}
	c := f.itemCost(v, *it)
	it.fresh = semiring.Approx(c, it.cost, 0)
	it.cost = c
	return found
}

// waiting reports pending when a parked candidate of v waits on another node that is
// still busy, and none otherwise. Candidates waiting on v itself can never complete
// once its heap is empty.
func (f *forest[W]) waiting(v int32) status {
	for _, it := range f.nodes[v].parked {
		e := f.nodes[v].edges[it.edge]
		for _, c := range [2]int32{e.left, e.right} {
			if c >= 0 && c != v && f.nodes[c].busy {
				return pending
			}
		}
	}
	return none
}

// emit appends it to the derivations of v, moving it into place when it is cheaper
// than derivations already emitted.
func (f *forest[W]) emit(v int32, it item[W]) {
	n := &f.nodes[v]
	n.derivs = append(n.derivs, it)
	last := len(n.derivs) - 1
	if last == 0 || !semiring.Better(it.cost, n.derivs[last-1].cost) {
		if last == 0 && !semiring.Approx(it.cost, n.seed, 0) {
			n.seed = it.cost
		}
		return
	}
	// Only reachable with negative costs: the earlier ranks were emitted too early.
	pos := sort.Search(last, func(i int) bool { return semiring.Better(it.cost, n.derivs[i].cost) })
	copy(n.derivs[pos+1:], n.derivs[pos:last])
	n.derivs[pos] = it
	if pos == 0 {
		n.seed = it.cost
	}
	f.repairs++
	slog.Debug("kbest: repaired rank order", "node", v, "rank", pos, "cost", it.cost.Value())
}

// successors queues the combinations that advance one child rank of it.
func (f *forest[W]) successors(v int32, it item[W]) {
	e := f.nodes[v].edges[it.edge]
	children := [2]int32{e.left, e.right}
	for i, c := range children {
		if c < 0 {
			continue
		}
		next := it
		next.j[i]++
		f.offer(v, next)
	}
}

// offer queues a candidate once per (edge, ranks) combination.
func (f *forest[W]) offer(v int32, it item[W]) {
	key := [3]int32{it.edge, it.j[0], it.j[1]}
	if f.nodes[v].seen[key] {
		return
	}
	f.nodes[v].seen[key] = true
	f.place(v, it)
}

// place pushes a candidate whose child ranks exist, parks it when a child is pending
// and drops it when a child has run out.
func (f *forest[W]) place(v int32, it item[W]) {
	e := f.nodes[v].edges[it.edge]
	children := [2]int32{e.left, e.right}
	for i, c := range children {
		if c < 0 {
			continue
		}
		switch f.kth(c, int(it.j[i])) {
		case none:
			return
		case pending:
			n := &f.nodes[v]
			n.parked = append(n.parked, it)
			return
		}
	}
	it.cost = f.itemCost(v, it)
	f.nodes[v].cand.Push(&it)
}

func (f *forest[W]) retryParked(v int32) {
	n := &f.nodes[v]
	if len(n.parked) == 0 {
		return
	}
	parked := n.parked
	n.parked = nil
	for _, it := range parked {
		f.place(v, it)
	}
}

// tree rebuilds the derivation of rank r of state node v.
func (f *forest[W]) tree(v int32, r int) (*derivation.Node, error) {
	return f.subtree(v, r, make(map[ref]bool))
}

// ref names rank r of node v.
type ref struct {
	v int32
	r int
}

// subtree fails with core.ErrCycle when a rank refers back to itself through its
// descendants. onPath holds the refs of the current root-to-leaf path.
func (f *forest[W]) subtree(v int32, r int, onPath map[ref]bool) (*derivation.Node, error) {
	n := &f.nodes[v]
	if n.axiom {
		return derivation.Axiom, nil
	}
	self := ref{v, r}
	if onPath[self] {
		return nil, fmt.Errorf("kbest: rank %d of state %d: %w", r, v, core.ErrCycle)
	}
	if f.kth(v, r) != found {
		return nil, fmt.Errorf("kbest: node %d has no rank %d", v, r)
	}
	onPath[self] = true
	defer delete(onPath, self)

	it := f.nodes[v].derivs[r]
	e := f.nodes[v].edges[it.edge]
	var tails []ref
	var flatten func(e edge[W], j [2]int32) error
	flatten = func(e edge[W], j [2]int32) error {
		if int(e.left) >= f.h.NumStates() {
			if f.kth(e.left, int(j[0])) != found {
				return fmt.Errorf("kbest: chain node %d has no rank %d", e.left, j[0])
			}
			d := f.nodes[e.left].derivs[j[0]]
			if err := flatten(f.nodes[e.left].edges[d.edge], d.j); err != nil {
				return err
			}
		} else {
			tails = append(tails, ref{e.left, int(j[0])})
		}
		if e.right >= 0 {
			tails = append(tails, ref{e.right, int(j[1])})
		}
		return nil
	}
	if err := flatten(e, it.j); err != nil {
		return nil, err
	}
	children := make([]*derivation.Node, len(tails))
	for i, t := range tails {
		c, err := f.subtree(t.v, t.r, onPath)
		if err != nil {
			return nil, err
		}
		children[i] = c
	}
	return derivation.New(e.arc, children...), nil
}
