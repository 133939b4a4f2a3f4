package compose

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/internal/logutil"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

// ChartOption configures Chart.
type ChartOption func(*chartOptions)

type chartOptions struct {
	maxItems int
	stats    *ChartStats
}

// WithMaxItems bounds the number of distinct chart items; 0 means no bound.
// Panics if n < 0.
func WithMaxItems(n int) ChartOption {
	if n < 0 {
		panic("compose: WithMaxItems(n<0)")
	}
	return func(o *chartOptions) { o.maxItems = n }
}

// Chart composes the context-free hypergraph cfg with the transducer fst.
//
// Terminal tails of cfg are matched on their output side against the input side of
// fst. The result is a hypergraph over the shared vocabulary whose terminal states
// pair the cfg input with the fst output; its final state is labeled like cfg's final
// state. An empty cfg or fst yields an empty result.
//
// Errors: ErrNilInput, core.ErrVocabMismatch, ErrNotFSM, ErrUnsorted (fst must keep
// out-arcs sorted by input label), ErrTooManyItems.
func Chart[W semiring.Weight[W]](cfg, fst *core.Hypergraph[W], opts ...ChartOption) (*core.Hypergraph[W], error) {
	if cfg == nil || fst == nil {
		return nil, ErrNilInput
	}
	o := chartOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg.Vocab() != fst.Vocab() {
		return nil, fmt.Errorf("compose: %w", core.ErrVocabMismatch)
	}
	if fst.NumArcs() > 0 {
		if !fst.HasProperties(core.FSM) {
			return nil, ErrNotFSM
		}
		if !fst.HasProperties(core.SortedOutArcs) {
			return nil, ErrUnsorted
		}
	}
	res := core.New[W](cfg.Vocab(), core.WithProperties(core.CanonicalLex))
	if cfg.IsEmpty() || fst.IsEmpty() || fst.Start() == core.NoState {
		if o.stats != nil {
			*o.stats = ChartStats{}
		}
		return res, nil
	}

	c, err := newChart(cfg, fst, o)
	if err != nil {
		return nil, err
	}
	if err := c.run(); err != nil {
		return nil, err
	}
	b := newResult(c, res)
	if err := b.build(); err != nil {
		return nil, err
	}
	st := c.report(b)
	slog.Debug("compose chart", "items", st.Items, "scans", st.Scans,
		"completions", st.Completions, "goals", st.Goals, "runs", st.Runs,
		"out_states", st.States, "out_arcs", st.Arcs)
	if o.stats != nil {
		*o.stats = st
	}
	return res, nil
}

// itemKey identifies a chart item: arc with dot tails consumed over fst from..to.
// nc marks items whose last step was an fst epsilon move; they never complete a span.
type itemKey struct {
	arc      core.ArcID
	dot      int32
	from, to core.StateID
	nc       bool
}

// span is a nonterminal derived over fst from..to.
type span struct {
	state    core.StateID
	from, to core.StateID
}

type stepKind uint8

const (
	stepScan     stepKind = iota // terminal tail matched by an fst arc
	stepSkip                     // terminal tail whose matched side is <eps>
	stepEpsilon                  // fst input-epsilon arc, no tail consumed
	stepStart                    // cfg start state as tail
	stepComplete                 // nonterminal tail derived over child
)

// back records how an item was reached from prev.
type back[W semiring.Weight[W]] struct {
	prev  *item[W]
	kind  stepKind
	fst   core.ArcID
	label core.Label
	child span
}

type item[W semiring.Weight[W]] struct {
	key      itemKey
	weight   W
	backs    []back[W]
	expanded bool
}

type chart[W semiring.Weight[W]] struct {
	cfg, fst *core.Hypergraph[W]
	opts     chartOptions

	in  [][]core.ArcID // cfg arcs by head
	out [][]core.ArcID // sorted fst out-arcs by state

	items  map[itemKey]*item[W]
	agenda []*item[W]

	predicted map[[2]core.StateID]bool
	waiting   map[[2]core.StateID][]*item[W] // by (nonterminal, fst state)
	complete  map[span][]*item[W]
	ends      map[[2]core.StateID][]core.StateID // by (nonterminal, from)
	goals     []*item[W]

	scans, completions int
}

func newChart[W semiring.Weight[W]](cfg, fst *core.Hypergraph[W], o chartOptions) (*chart[W], error) {
	c := &chart[W]{
		cfg:       cfg,
		fst:       fst,
		opts:      o,
		in:        make([][]core.ArcID, cfg.NumStates()),
		items:     make(map[itemKey]*item[W]),
		predicted: make(map[[2]core.StateID]bool),
		waiting:   make(map[[2]core.StateID][]*item[W]),
		complete:  make(map[span][]*item[W]),
		ends:      make(map[[2]core.StateID][]core.StateID),
	}
	for id, a := range cfg.Arcs() {
		c.in[a.Head] = append(c.in[a.Head], id)
	}
	if fst.NumArcs() == 0 {
		return c, nil
	}
	c.out = make([][]core.ArcID, fst.NumStates())
	for q := range c.out {
		ids, err := fst.OutArcs(core.StateID(q))
		if err != nil {
			return nil, fmt.Errorf("compose: %w", err)
		}
		c.out[q] = ids
	}
	return c, nil
}

func (c *chart[W]) run() error {
	if err := c.predict(c.cfg.Final(), c.fst.Start()); err != nil {
		return err
	}
	for next := 0; next < len(c.agenda); next++ {
		if err := c.process(c.agenda[next]); err != nil {
			return err
		}
	}
	return nil
}

// add accumulates w into the item for k, recording b when it is not nil.
func (c *chart[W]) add(k itemKey, w W, b *back[W]) error {
	it, ok := c.items[k]
	if !ok {
		if c.opts.maxItems > 0 && len(c.items) >= c.opts.maxItems {
			return fmt.Errorf("%w: %d", ErrTooManyItems, c.opts.maxItems)
		}
		it = &item[W]{key: k, weight: semiring.Zero[W]()}
		c.items[k] = it
		logutil.Trace("compose item", "item", itemView[W]{c: c, it: it})
	}
	if b != nil {
		it.backs = append(it.backs, *b)
	}
	it.weight = it.weight.Plus(w)
	if !it.expanded && !it.weight.IsZero() {
		it.expanded = true
		c.agenda = append(c.agenda, it)
	}
	return nil
}

// advance moves the dot of it past one tail, ending at fst state to.
func (c *chart[W]) advance(it *item[W], to core.StateID, w W, b back[W]) error {
	b.prev = it
	k := itemKey{arc: it.key.arc, dot: it.key.dot + 1, from: it.key.from, to: to}
	return c.add(k, it.weight.Times(w), &b)
}

func (c *chart[W]) predict(nt, q core.StateID) error {
	key := [2]core.StateID{nt, q}
	if c.predicted[key] {
		return nil
	}
	c.predicted[key] = true
	for _, id := range c.in[nt] {
		if err := c.add(itemKey{arc: id, from: q, to: q}, semiring.One[W](), nil); err != nil {
			return err
		}
	}
	return nil
}

func (c *chart[W]) process(it *item[W]) error {
	a := c.cfg.Arc(it.key.arc)
	if int(it.key.dot) == len(a.Tails) {
		return c.finish(it)
	}
	t := a.Tails[it.key.dot]
	switch {
	case t == c.cfg.Start() && !c.cfg.IsTerminal(t):
		return c.advance(it, it.key.to, semiring.One[W](), back[W]{kind: stepStart})
	case c.cfg.IsTerminal(t):
		return c.scan(it, t)
	}
	key := [2]core.StateID{t, it.key.to}
	c.waiting[key] = append(c.waiting[key], it)
	if err := c.predict(t, it.key.to); err != nil {
		return err
	}
	for _, end := range c.ends[key] {
		sp := span{state: t, from: it.key.to, to: end}
		child := c.complete[sp][0]
		if err := c.advance(it, end, child.weight, back[W]{kind: stepComplete, child: sp}); err != nil {
			return err
		}
	}
	return nil
}

// scan matches terminal tail t at the item's fst state.
func (c *chart[W]) scan(it *item[W], t core.StateID) error {
	l := c.cfg.Label(t)
	m := l.Output()
	if m == vocab.Epsilon {
		return c.advance(it, it.key.to, semiring.One[W](),
			back[W]{kind: stepSkip, label: core.PairLabel(l.In, vocab.Epsilon)})
	}
	if err := c.epsilonMoves(it); err != nil {
		return err
	}
	c.scans++
	q := it.key.to
	matched := false
	try := func(ids []core.ArcID) error {
		for _, e := range ids {
			matched = true
			ea := c.fst.Arc(e)
			b := back[W]{kind: stepScan, fst: e, label: core.PairLabel(l.In, c.output(e, m))}
			if err := c.advance(it, ea.Head, ea.Weight, b); err != nil {
				return err
			}
		}
		return nil
	}
	if err := try(c.arcsWithInput(q, m)); err != nil {
		return err
	}
	if m != vocab.Sigma {
		if err := try(c.arcsWithInput(q, vocab.Sigma)); err != nil {
			return err
		}
	}
	if !matched && m != vocab.Rho {
		return try(c.arcsWithInput(q, vocab.Rho))
	}
	return nil
}

// epsilonMoves follows fst input-epsilon arcs without moving the dot.
func (c *chart[W]) epsilonMoves(it *item[W]) error {
	for _, e := range c.arcsWithInput(it.key.to, vocab.Epsilon) {
		ea := c.fst.Arc(e)
		k := it.key
		k.to, k.nc = ea.Head, true
		b := back[W]{prev: it, kind: stepEpsilon, fst: e}
		if err := c.add(k, it.weight.Times(ea.Weight), &b); err != nil {
			return err
		}
	}
	return nil
}

// finish handles an item whose dot is past its last tail.
func (c *chart[W]) finish(it *item[W]) error {
	head := c.cfg.Arc(it.key.arc).Head
	if head == c.cfg.Final() && it.key.from == c.fst.Start() {
		if it.key.to == c.fst.Final() {
			c.goals = append(c.goals, it)
		}
		if err := c.epsilonMoves(it); err != nil {
			return err
		}
	}
	if it.key.nc {
		return nil
	}
	sp := span{state: head, from: it.key.from, to: it.key.to}
	known := len(c.complete[sp]) > 0
	c.complete[sp] = append(c.complete[sp], it)
	if known {
		return nil
	}
	c.completions++
	key := [2]core.StateID{head, it.key.from}
	c.ends[key] = append(c.ends[key], it.key.to)
	logutil.Trace("compose span", "state", head, "from", sp.from, "to", sp.to)
	for _, w := range c.waiting[key] {
		if err := c.advance(w, sp.to, it.weight, back[W]{kind: stepComplete, child: sp}); err != nil {
			return err
		}
	}
	return nil
}

// arcsWithInput returns the fst arcs leaving q whose input label is sym.
func (c *chart[W]) arcsWithInput(q core.StateID, sym vocab.Sym) []core.ArcID {
	if c.out == nil {
		return nil
	}
	ids := c.out[q]
	lo := sort.Search(len(ids), func(i int) bool { return c.fst.ArcInput(ids[i]) >= sym })
	hi := lo
	for hi < len(ids) && c.fst.ArcInput(ids[hi]) == sym {
		hi++
	}
	return ids[lo:hi]
}

// output is the symbol fst arc e writes when it reads m; wildcards copy m.
func (c *chart[W]) output(e core.ArcID, m vocab.Sym) vocab.Sym {
	l := c.fst.FSMLabel(e)
	if l.Out == vocab.NoSymbol && (l.In == vocab.Sigma || l.In == vocab.Rho) {
		return m
	}
	return l.Output()
}
