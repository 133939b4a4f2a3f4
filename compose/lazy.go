package compose

import (
	"cmp"
	"fmt"
	"iter"
	"log/slog"

	pq "github.com/emirpasic/gods/v2/queues/priorityqueue"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

// DefaultCacheSize is the number of composite states whose transitions Lazy keeps.
const DefaultCacheSize = 1024

// LazyOption configures Lazy.
type LazyOption func(*lazyOptions)

type lazyOptions struct {
	filter    Filter
	combiner  any
	cacheSize int
}

// WithFilter selects the epsilon filter (FilterSequence by default).
func WithFilter(f Filter) LazyOption {
	return func(o *lazyOptions) { o.filter = f }
}

// WithCombiner replaces ⊗ as the way a left and a right weight are joined.
// Its weight type must match the automata passed to Lazy.
func WithCombiner[W semiring.Weight[W]](fn func(left, right W) W) LazyOption {
	return func(o *lazyOptions) { o.combiner = fn }
}

// FeatureCombiner joins feature weights, scaling the right side by scale.
func FeatureCombiner(scale float64) LazyOption {
	return WithCombiner(func(left, right semiring.Feature) semiring.Feature {
		return left.ScaledTimes(right, scale)
	})
}

// WithCacheSize bounds the transition cache; it panics if n < 1.
func WithCacheSize(n int) LazyOption {
	if n < 1 {
		panic("compose: WithCacheSize(n<1)")
	}
	return func(o *lazyOptions) { o.cacheSize = n }
}

// triple is a composite state.
type triple struct {
	left   core.StateID
	filter filterState
	right  core.StateID
}

// expansion holds the transitions of one composite state, grouped by the left
// transition that produced them; the last group holds right epsilon moves.
type expansion[W semiring.Weight[W]] struct {
	groups [][]Transition[W]
	flat   []Transition[W]
}

// LazyFST is the on-demand composition of two automata. Its state ids are dense and
// assigned in discovery order. It is not safe for concurrent use.
type LazyFST[W semiring.Weight[W]] struct {
	left, right Automaton[W]
	filter      Filter
	combine     func(left, right W) W

	ids     map[triple]core.StateID
	triples []triple
	cache   *lru.Cache[core.StateID, *expansion[W]]

	hits, misses int
}

// Lazy composes left with right. The right automaton must report Sorted.
//
// Errors: ErrNilInput, core.ErrVocabMismatch, ErrUnsorted, ErrCombiner.
func Lazy[W semiring.Weight[W]](left, right Automaton[W], opts ...LazyOption) (*LazyFST[W], error) {
	if left == nil || right == nil {
		return nil, ErrNilInput
	}
	o := lazyOptions{filter: FilterSequence, cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if left.Vocab() != right.Vocab() {
		return nil, fmt.Errorf("compose: %w", core.ErrVocabMismatch)
	}
	if !right.Sorted() {
		return nil, ErrUnsorted
	}
	combine := func(a, b W) W { return a.Times(b) }
	if o.combiner != nil {
		fn, ok := o.combiner.(func(left, right W) W)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrCombiner, o.combiner)
		}
		combine = fn
	}
	cache, err := lru.New[core.StateID, *expansion[W]](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("compose: transition cache: %w", err)
	}
	return &LazyFST[W]{
		left:    left,
		right:   right,
		filter:  o.filter,
		combine: combine,
		ids:     make(map[triple]core.StateID),
		cache:   cache,
	}, nil
}

// Vocab returns the left side's vocabulary.
func (c *LazyFST[W]) Vocab() *vocab.Vocabulary { return c.left.Vocab() }

// Start returns the composite of both start states, or core.NoState when either
// side has none.
func (c *LazyFST[W]) Start() core.StateID {
	l, r := c.left.Start(), c.right.Start()
	if l == core.NoState || r == core.NoState {
		return core.NoState
	}
	return c.id(triple{left: l, right: r})
}

// Final reports whether both halves of s are final.
func (c *LazyFST[W]) Final(s core.StateID) bool {
	t := c.triples[s]
	return c.left.Final(t.left) && c.right.Final(t.right)
}

// Sorted is false: composite transitions follow the left side's order.
func (c *LazyFST[W]) Sorted() bool { return false }

// NumStates returns the number of composite states discovered so far.
func (c *LazyFST[W]) NumStates() int { return len(c.triples) }

// CacheStats returns the transition cache hits and misses so far.
func (c *LazyFST[W]) CacheStats() (hits, misses int) { return c.hits, c.misses }

// Out expands s on first use; later calls are served from the cache.
func (c *LazyFST[W]) Out(s core.StateID) []Transition[W] { return c.expand(s).flat }

// BestFirst merges the per-left-transition groups of s, each sorted by cost.
func (c *LazyFST[W]) BestFirst(s core.StateID) iter.Seq[Transition[W]] {
	type cursor struct {
		ts  []Transition[W]
		pos int
	}
	return func(yield func(Transition[W]) bool) {
		q := pq.NewWith(func(a, b *cursor) int {
			return cmp.Compare(a.ts[a.pos].Weight.Value(), b.ts[b.pos].Weight.Value())
		})
		for _, g := range c.expand(s).groups {
			if len(g) > 0 {
				q.Enqueue(&cursor{ts: byCost(g)})
			}
		}
		for {
			cur, ok := q.Dequeue()
			if !ok {
				return
			}
			if !yield(cur.ts[cur.pos]) {
				return
			}
			if cur.pos++; cur.pos < len(cur.ts) {
				q.Enqueue(cur)
			}
		}
	}
}

func (c *LazyFST[W]) id(t triple) core.StateID {
	if s, ok := c.ids[t]; ok {
		return s
	}
	s := core.StateID(len(c.triples))
	c.ids[t] = s
	c.triples = append(c.triples, t)
	return s
}

func (c *LazyFST[W]) expand(s core.StateID) *expansion[W] {
	if e, ok := c.cache.Get(s); ok {
		c.hits++
		return e
	}
	c.misses++
	t := c.triples[s]
	rOut := c.right.Out(t.right)
	lefts := c.left.Out(t.left)
	e := &expansion[W]{groups: make([][]Transition[W], len(lefts), len(lefts)+1)}
	matched := false
	for i, lt := range lefts {
		var ok bool
		e.groups[i], ok = c.matches(t, lt, rOut)
		matched = matched || ok
	}
	if !matched {
		c.failure(lefts, e.groups, t.right, semiring.One[W](), map[core.StateID]bool{t.right: true})
	}
	var eps []Transition[W]
	if next, ok := c.filter.rightEpsilon(t.filter); ok {
		for _, rt := range inputRange(rOut, vocab.Epsilon) {
			eps = append(eps, Transition[W]{
				Label:  core.PairLabel(vocab.Epsilon, rt.Label.Output()),
				Next:   c.id(triple{left: t.left, filter: next, right: rt.Next}),
				Weight: c.combine(semiring.One[W](), rt.Weight),
			})
		}
	}
	e.groups = append(e.groups, eps)
	for _, g := range e.groups {
		e.flat = append(e.flat, g...)
	}
	c.cache.Add(s, e)
	if len(e.flat) == 0 {
		slog.Debug("compose lazy: dead state", "state", s, "left", t.left, "right", t.right)
	}
	return e
}

// matches returns the composite transitions that start with left transition lt and
// reports whether lt's output symbol found an ordinary right match.
func (c *LazyFST[W]) matches(t triple, lt Transition[W], rOut []Transition[W]) ([]Transition[W], bool) {
	var out []Transition[W]
	y := lt.Label.Output()
	if y == vocab.Epsilon {
		if next, ok := c.filter.leftEpsilon(t.filter); ok {
			out = append(out, Transition[W]{
				Label:  core.PairLabel(lt.Label.In, vocab.Epsilon),
				Next:   c.id(triple{left: lt.Next, filter: next, right: t.right}),
				Weight: c.combine(lt.Weight, semiring.One[W]()),
			})
		}
		if c.filter.combined(t.filter) {
			for _, rt := range inputRange(rOut, vocab.Epsilon) {
				out = append(out, Transition[W]{
					Label:  core.PairLabel(lt.Label.In, rt.Label.Output()),
					Next:   c.id(triple{left: lt.Next, right: rt.Next}),
					Weight: c.combine(lt.Weight, rt.Weight),
				})
			}
		}
		return out, false
	}
	return c.match(out, lt, y, rOut, semiring.One[W]())
}

// failure follows the right phi arcs leaving r once no left transition matched
// there, matching every left transition at the phi target and going on down the
// chain while the target matches nothing either. pw is the weight of the phi arcs
// taken so far; visited stops phi loops.
func (c *LazyFST[W]) failure(lefts []Transition[W], groups [][]Transition[W], r core.StateID, pw W,
	visited map[core.StateID]bool,
) {
	for _, rt := range inputRange(c.right.Out(r), vocab.Phi) {
		if visited[rt.Next] {
			continue
		}
		visited[rt.Next] = true
		w := pw.Times(rt.Weight)
		next := c.right.Out(rt.Next)
		matched := false
		for i, lt := range lefts {
			y := lt.Label.Output()
			if y == vocab.Epsilon || y == vocab.Phi {
				continue
			}
			var ok bool
			groups[i], ok = c.match(groups[i], lt, y, next, w)
			matched = matched || ok
		}
		if !matched {
			c.failure(lefts, groups, rt.Next, w, visited)
		}
	}
}

// match appends the moves reading y among the right transitions rOut. The prefix
// weight pw carries the failure arcs taken to reach them.
func (c *LazyFST[W]) match(out []Transition[W], lt Transition[W], y vocab.Sym, rOut []Transition[W], pw W,
) ([]Transition[W], bool) {
	matched := false
	take := func(ts []Transition[W]) {
		for _, rt := range ts {
			matched = true
			o := rt.Label.Output()
			if rt.Label.Out == vocab.NoSymbol && (rt.Label.In == vocab.Sigma || rt.Label.In == vocab.Rho) {
				o = y
			}
			out = append(out, Transition[W]{
				Label:  core.PairLabel(lt.Label.In, o),
				Next:   c.id(triple{left: lt.Next, right: rt.Next}),
				Weight: c.combine(lt.Weight, pw.Times(rt.Weight)),
			})
		}
	}
	take(inputRange(rOut, y))
	if y != vocab.Sigma {
		take(inputRange(rOut, vocab.Sigma))
	}
	if !matched && y != vocab.Rho {
		take(inputRange(rOut, vocab.Rho))
	}
	return out, matched
}
