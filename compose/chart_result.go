package compose

import (
	"encoding/binary"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

// result turns the finished chart into a hypergraph with one state per derived span
// and one state per (from, to) pair of fst states joined by input-epsilon runs.
type result[W semiring.Weight[W]] struct {
	c     *chart[W]
	res   *core.Hypergraph[W]
	spans map[span]core.StateID
	queue []span
	start core.StateID
	seen  map[string]bool

	runs    map[[2]core.StateID]core.StateID
	pending [][2]core.StateID
	reach   map[core.StateID][]bool
}

func newResult[W semiring.Weight[W]](c *chart[W], res *core.Hypergraph[W]) *result[W] {
	return &result[W]{
		c:     c,
		res:   res,
		spans: make(map[span]core.StateID),
		start: core.NoState,
		seen:  make(map[string]bool),
		runs:  make(map[[2]core.StateID]core.StateID),
		reach: make(map[core.StateID][]bool),
	}
}

func (r *result[W]) build() error {
	if len(r.c.goals) == 0 {
		return nil
	}
	goal := r.res.AddLabeledState(r.c.cfg.Label(r.c.cfg.Final()))
	// The goal items are expanded below; a child reference to the goal span must
	// reuse the final state instead of queueing it again.
	r.spans[span{state: r.c.cfg.Final(), from: r.c.fst.Start(), to: r.c.fst.Final()}] = goal
	for _, it := range r.c.goals {
		if err := r.expand(it, goal); err != nil {
			return err
		}
	}
	for len(r.queue) > 0 || len(r.pending) > 0 {
		if len(r.pending) > 0 {
			run := r.pending[0]
			r.pending = r.pending[1:]
			if err := r.epsilonArcs(run[0], run[1]); err != nil {
				return err
			}
			continue
		}
		sp := r.queue[0]
		r.queue = r.queue[1:]
		for _, it := range r.c.complete[sp] {
			if err := r.expand(it, r.spans[sp]); err != nil {
				return err
			}
		}
	}
	if r.start != core.NoState {
		if err := r.res.SetStart(r.start); err != nil {
			return err
		}
	}
	return r.res.SetFinal(goal)
}

func (r *result[W]) state(sp span) core.StateID {
	if s, ok := r.spans[sp]; ok {
		return s
	}
	s := r.res.AddLabeledState(r.c.cfg.Label(sp.state))
	r.spans[sp] = s
	r.queue = append(r.queue, sp)
	return s
}

// runState returns the state deriving every nonempty run of fst input-epsilon arcs
// from q to to. Its arcs are added when the pending runs are drained.
func (r *result[W]) runState(q, to core.StateID) core.StateID {
	key := [2]core.StateID{q, to}
	if s, ok := r.runs[key]; ok {
		return s
	}
	s := r.res.AddState()
	r.runs[key] = s
	r.pending = append(r.pending, key)
	return s
}

// epsilonReach marks the fst states reachable from q by at least one input-epsilon arc.
func (r *result[W]) epsilonReach(q core.StateID) []bool {
	if m, ok := r.reach[q]; ok {
		return m
	}
	m := make([]bool, r.c.fst.NumStates())
	stack := []core.StateID{q}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range r.c.arcsWithInput(p, vocab.Epsilon) {
			if h := r.c.fst.Arc(e).Head; !m[h] {
				m[h] = true
				stack = append(stack, h)
			}
		}
	}
	r.reach[q] = m
	return m
}

// epsilonArcs adds the arcs of the run state for q..to: a run is one epsilon arc
// leaving q, or a shorter run from q followed by one epsilon arc. Loops in fst
// become cycles through the run states.
func (r *result[W]) epsilonArcs(q, to core.StateID) error {
	head := r.runs[[2]core.StateID{q, to}]
	reach := r.epsilonReach(q)
	for p := range reach {
		from := core.StateID(p)
		if from != q && !reach[p] {
			continue
		}
		for _, e := range r.c.arcsWithInput(from, vocab.Epsilon) {
			ea := r.c.fst.Arc(e)
			if ea.Head != to {
				continue
			}
			l := r.res.AddLabeledState(core.PairLabel(vocab.Epsilon, r.c.fst.FSMLabel(e).Output()))
			if from == q {
				if _, err := r.res.AddArc(head, []core.StateID{l}, ea.Weight); err != nil {
					return err
				}
			}
			if reach[p] {
				prefix := r.runState(q, from)
				if _, err := r.res.AddArc(head, []core.StateID{prefix, l}, ea.Weight); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// expand adds one arc to head for every back-pointer path of the complete item it.
// A run of epsilon steps becomes a single tail on the matching run state.
func (r *result[W]) expand(it *item[W], head core.StateID) error {
	var steps []back[W]
	var walk func(x *item[W]) error
	walk = func(x *item[W]) error {
		if x.key.nc {
			for _, o := range r.origins(x) {
				run := span{state: core.NoState, from: o.key.to, to: x.key.to}
				steps = append(steps, back[W]{kind: stepEpsilon, child: run})
				if err := walk(o); err != nil {
					return err
				}
				steps = steps[:len(steps)-1]
			}
			return nil
		}
		if len(x.backs) == 0 {
			return r.emit(it.key.arc, head, steps)
		}
		for _, b := range x.backs {
			steps = append(steps, b)
			if err := walk(b.prev); err != nil {
				return err
			}
			steps = steps[:len(steps)-1]
		}
		return nil
	}
	return walk(it)
}

// origins returns the items without a trailing epsilon step from which x was
// reached by epsilon steps alone. They share x's arc, dot and from.
func (r *result[W]) origins(x *item[W]) []*item[W] {
	var out []*item[W]
	seen := map[*item[W]]bool{x: true}
	stack := []*item[W]{x}
	for len(stack) > 0 {
		y := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, b := range y.backs {
			p := b.prev
			if seen[p] {
				continue
			}
			seen[p] = true
			if p.key.nc {
				stack = append(stack, p)
			} else {
				out = append(out, p)
			}
		}
	}
	return out
}

// emit adds the arc described by steps, which run from the last tail back to the first.
func (r *result[W]) emit(arc core.ArcID, head core.StateID, steps []back[W]) error {
	w := r.c.cfg.Arc(arc).Weight
	tails := make([]core.StateID, 0, len(steps))
	key := binary.LittleEndian.AppendUint32(nil, uint32(head))
	key = binary.LittleEndian.AppendUint32(key, uint32(arc))
	for i := len(steps) - 1; i >= 0; i-- {
		b := steps[i]
		key = append(key, byte(b.kind))
		var t core.StateID
		switch b.kind {
		case stepScan:
			w = w.Times(r.c.fst.Arc(b.fst).Weight)
			t = r.res.AddLabeledState(b.label)
			key = binary.LittleEndian.AppendUint32(key, uint32(b.fst))
		case stepEpsilon:
			t = r.runState(b.child.from, b.child.to)
		case stepSkip:
			t = r.res.AddLabeledState(b.label)
		case stepStart:
			if r.start == core.NoState {
				r.start = r.res.AddState()
			}
			t = r.start
		case stepComplete:
			t = r.state(b.child)
		}
		tails = append(tails, t)
		key = binary.LittleEndian.AppendUint32(key, uint32(t))
	}
	if r.seen[string(key)] {
		return nil
	}
	r.seen[string(key)] = true
	_, err := r.res.AddArc(head, tails, w)
	return err
}
