package bestpath_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hypergraph/bestpath"
	"github.com/katalvlaran/hypergraph/builder"
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/derivation"
	"github.com/katalvlaran/hypergraph/semiring"
)

type vit = semiring.Viterbi

const eps = 1e-9

// exhaustive returns the cheapest derivation cost of s by plain recursion.
// Only valid on acyclic hypergraphs.
func exhaustive(h *core.Hypergraph[vit], s core.StateID) float64 {
	if h.IsAxiom(s) {
		return 0
	}
	best := math.Inf(1)
	for _, a := range h.Arcs() {
		if a.Head != s {
			continue
		}
		c := a.Weight.Value()
		for _, t := range a.Tails {
			c += exhaustive(h, t)
		}
		best = math.Min(best, c)
	}
	return best
}

// bellmanFord relaxes every arc until nothing changes. Valid with non-negative costs.
func bellmanFord(h *core.Hypergraph[vit]) []float64 {
	d := make([]float64, h.NumStates())
	for s := range d {
		d[s] = math.Inf(1)
		if h.IsAxiom(core.StateID(s)) {
			d[s] = 0
		}
	}
	for changed := true; changed; {
		changed = false
		for _, a := range h.Arcs() {
			if h.IsAxiom(a.Head) {
				continue
			}
			c := a.Weight.Value()
			for _, t := range a.Tails {
				c += d[t]
			}
			if c < d[a.Head]-eps {
				d[a.Head] = c
				changed = true
			}
		}
	}
	return d
}

func lattice(t *testing.T, seed int64) *core.Hypergraph[vit] {
	t.Helper()
	h, err := builder.Build[vit](nil, nil,
		[]builder.BuilderOption{builder.WithSeed(seed), builder.WithCostFn(builder.IntegerCostFn(0, 9))},
		builder.Lattice[vit](5, 3))
	require.NoError(t, err)
	return h
}

func TestAcyclicOptimality(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		h := lattice(t, seed)
		res, err := bestpath.Compute(h)
		require.NoError(t, err)
		assert.Equal(t, bestpath.Acyclic, res.Algorithm)
		assert.InDelta(t, exhaustive(h, h.Final()), res.Cost().Value(), eps, "seed %d", seed)

		tree, err := res.Derivation()
		require.NoError(t, err)
		w, err := derivation.Weight(h, tree)
		require.NoError(t, err)
		assert.InDelta(t, res.Cost().Value(), w.Value(), eps)
		require.NoError(t, derivation.Validate(h, tree))
	}
}

func TestBestFirstAgreesOnGrammars(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		h, err := builder.Build[vit](nil, []core.Option{core.WithProperties(core.CanonicalLex)},
			[]builder.BuilderOption{builder.WithSeed(seed), builder.WithCostFn(builder.UniformCostFn(0, 4))},
			builder.RandomCFG[vit](5, 8))
		require.NoError(t, err)

		acyc, err := bestpath.Compute(h, bestpath.WithAlgorithm(bestpath.Acyclic))
		require.NoError(t, err)
		bf, err := bestpath.Compute(h, bestpath.WithAlgorithm(bestpath.BestFirst))
		require.NoError(t, err)
		require.True(t, bf.Reachable(h.Final()))
		for s := range acyc.Inside {
			assert.InDelta(t, acyc.Inside[s].Value(), bf.Inside[s].Value(), eps, "seed %d state %d", seed, s)
		}
		assert.InDelta(t, exhaustive(h, h.Final()), bf.Cost().Value(), eps)
	}
}

func TestBestFirstOnCycles(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		h, err := builder.Build[vit](nil, nil,
			[]builder.BuilderOption{builder.WithSeed(seed), builder.WithCostFn(builder.IntegerCostFn(0, 5))},
			builder.RandomFSM[vit](6, 14))
		require.NoError(t, err)

		res, err := bestpath.Compute(h)
		require.NoError(t, err)
		want := bellmanFord(h)
		for s, w := range want {
			assert.Equal(t, math.IsInf(w, 1), !res.Reachable(core.StateID(s)))
			if !math.IsInf(w, 1) {
				assert.InDelta(t, w, res.Inside[s].Value(), eps, "seed %d state %d", seed, s)
			}
		}
		if res.Reachable(h.Final()) {
			tree, err := res.Derivation()
			require.NoError(t, err)
			require.NoError(t, derivation.CheckTree(tree))
		}
	}
}

// fsm adds n states first so ids 0..n-1 are the FSM states.
func fsm(t *testing.T, n, final int, arcs ...struct {
	src, dst int
	word     string
	cost     float64
}) *core.Hypergraph[vit] {
	t.Helper()
	h := core.New[vit](nil, core.WithProperties(core.CanonicalLex))
	for i := 0; i < n; i++ {
		h.AddState()
	}
	for _, a := range arcs {
		sym, err := h.Vocab().Parse(`"` + a.word + `"`)
		require.NoError(t, err)
		_, err = h.AddFSMArc(core.StateID(a.src), core.StateID(a.dst), core.InputLabel(sym), vit(a.cost))
		require.NoError(t, err)
	}
	require.NoError(t, h.SetStart(0))
	require.NoError(t, h.SetFinal(core.StateID(final)))
	return h
}

type arc = struct {
	src, dst int
	word     string
	cost     float64
}

func TestAutoSelection(t *testing.T) {
	loop := fsm(t, 3, 2, arc{0, 1, "a", 1}, arc{1, 1, "b", 1}, arc{1, 2, "c", 1})

	res, err := bestpath.Compute(loop)
	require.NoError(t, err)
	assert.Equal(t, bestpath.BestFirst, res.Algorithm)
	assert.InDelta(t, 2, res.Cost().Value(), eps)

	res, err = bestpath.Compute(loop, bestpath.WithMaxBackArcs(1))
	require.NoError(t, err)
	assert.Equal(t, bestpath.Acyclic, res.Algorithm)
	assert.Len(t, res.BackArcs, 1)
	assert.InDelta(t, 2, res.Cost().Value(), eps)

	_, err = bestpath.Compute(loop, bestpath.WithAlgorithm(bestpath.Acyclic))
	assert.ErrorIs(t, err, core.ErrCycle)
}

func TestNegativeCostsNeedRereach(t *testing.T) {
	// 0 -a/1-> 2, 0 -b/2-> 1, 1 -c/-5-> 2, 2 -d/1-> 3. State 2 is settled at cost 1
	// before the cheaper route through 1 is found.
	h := fsm(t, 4, 3, arc{0, 2, "a", 1}, arc{0, 1, "b", 2}, arc{1, 2, "c", -5}, arc{2, 3, "d", 1})

	res, err := bestpath.Compute(h, bestpath.WithAlgorithm(bestpath.BestFirst))
	require.NoError(t, err)
	assert.InDelta(t, 2, res.Cost().Value(), eps)

	res, err = bestpath.Compute(h, bestpath.WithAlgorithm(bestpath.BestFirst), bestpath.WithMaxRereach(1))
	require.NoError(t, err)
	assert.InDelta(t, -2, res.Cost().Value(), eps)

	res, err = bestpath.Compute(h, bestpath.WithAlgorithm(bestpath.Acyclic))
	require.NoError(t, err)
	assert.InDelta(t, -2, res.Cost().Value(), eps)
}

func TestConvergence(t *testing.T) {
	// The second route to 1 is cheaper by only 0.05.
	h := fsm(t, 2, 1, arc{0, 1, "a", 1}, arc{0, 1, "b", 0.95})

	res, err := bestpath.Compute(h, bestpath.WithConvergence(0.1))
	require.NoError(t, err)
	assert.Equal(t, core.ArcID(0), res.Pred[1])

	res, err = bestpath.Compute(h)
	require.NoError(t, err)
	assert.Equal(t, core.ArcID(1), res.Pred[1])

	assert.Panics(t, func() { bestpath.WithConvergence(-1) })
	assert.Panics(t, func() { bestpath.WithMaxRereach(-1) })
}

func TestEmpty(t *testing.T) {
	h := fsm(t, 3, 2, arc{0, 1, "a", 1})

	res, err := bestpath.Compute(h)
	require.NoError(t, err)
	assert.False(t, res.Reachable(2))
	assert.True(t, res.Cost().IsZero())
	_, err = res.Derivation()
	assert.ErrorIs(t, err, bestpath.ErrEmpty)

	_, err = bestpath.Compute(h, bestpath.WithFailIfEmpty())
	assert.ErrorIs(t, err, core.ErrEmptySet)

	_, _, err = bestpath.Best(h)
	assert.ErrorIs(t, err, bestpath.ErrEmpty)

	_, err = bestpath.Compute[vit](nil)
	assert.ErrorIs(t, err, bestpath.ErrGraphNil)
}

func TestBestOnGrammar(t *testing.T) {
	h, err := builder.Build[vit](nil, []core.Option{core.WithProperties(core.CanonicalLex)}, nil,
		builder.Grammar[vit](
			"S -> NP VP / 1",
			`NP -> "john" / 2`,
			`NP -> "mary" / 0.5`,
			`VP -> "runs" / 1`,
			`VP -> NP "runs" / 1`,
		))
	require.NoError(t, err)

	tree, cost, err := bestpath.Best(h)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, cost.Value(), eps)
	s, err := derivation.Format(h, tree)
	require.NoError(t, err)
	assert.Equal(t, `(S (NP "mary") (VP "runs"))`, s)
}

func TestAlgorithmString(t *testing.T) {
	assert.Equal(t, "auto", bestpath.Auto.String())
	assert.Equal(t, "acyclic", bestpath.Acyclic.String())
	assert.Equal(t, "best-first", bestpath.BestFirst.String())
}
