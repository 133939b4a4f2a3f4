package kbest_test

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hypergraph/bestpath"
	"github.com/katalvlaran/hypergraph/builder"
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/derivation"
	"github.com/katalvlaran/hypergraph/kbest"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

type vit = semiring.Viterbi

const eps = 1e-9

// pathCosts lists the cost of every start-to-final path of an acyclic FSM.
func pathCosts(h *core.Hypergraph[vit]) []float64 {
	out := make(map[core.StateID][]*core.Arc[vit])
	for _, a := range h.Arcs() {
		out[a.Source()] = append(out[a.Source()], a)
	}
	var costs []float64
	var walk func(s core.StateID, c float64)
	walk = func(s core.StateID, c float64) {
		if s == h.Final() {
			costs = append(costs, c)
		}
		for _, a := range out[s] {
			walk(a.Head, c+a.Weight.Value())
		}
	}
	walk(h.Start(), 0)
	sort.Float64s(costs)
	return costs
}

func costsOf(hyps []kbest.Hypothesis[vit]) []float64 {
	out := make([]float64, len(hyps))
	for i, h := range hyps {
		out[i] = h.Cost.Value()
	}
	return out
}

func assertConsistent(t *testing.T, h *core.Hypergraph[vit], hyps []kbest.Hypothesis[vit]) {
	t.Helper()
	seen := map[string]bool{}
	for i, hyp := range hyps {
		assert.Equal(t, i, hyp.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, hyp.Cost.Value()+eps, hyps[i-1].Cost.Value(), "rank %d", i)
		}
		require.NoError(t, derivation.Validate(h, hyp.Tree))
		w, err := derivation.Weight(h, hyp.Tree)
		require.NoError(t, err)
		assert.InDelta(t, hyp.Cost.Value(), w.Value(), eps, "rank %d", i)
		arcs, err := derivation.Arcs(hyp.Tree)
		require.NoError(t, err)
		key := fmt.Sprint(arcs)
		assert.False(t, seen[key], "rank %d repeats %s", i, key)
		seen[key] = true
	}
}

func TestLatticeMatchesExhaustive(t *testing.T) {
	for seed := int64(1); seed <= 15; seed++ {
		h, err := builder.Build[vit](nil, nil,
			[]builder.BuilderOption{builder.WithSeed(seed), builder.WithCostFn(builder.IntegerCostFn(0, 9))},
			builder.Lattice[vit](4, 3))
		require.NoError(t, err)

		hyps, err := kbest.Best(h, 20)
		require.NoError(t, err)
		require.Len(t, hyps, 20)
		want := pathCosts(h)[:20]
		assert.InDeltaSlice(t, want, costsOf(hyps), eps, "seed %d", seed)
		assertConsistent(t, h, hyps)
	}
}

func TestBinarizedArcs(t *testing.T) {
	h, err := builder.Build[vit](nil, []core.Option{core.WithProperties(core.CanonicalLex)}, nil,
		builder.Grammar[vit](
			"S -> A B C D / 0",
			`A -> "a1" / 1`, `A -> "a2" / 2`,
			`B -> "b1" / 1`, `B -> "b2" / 3`,
			`C -> "c1" / 0`, `C -> "c2" / 5`,
			`D -> "d" / 0.5`,
		))
	require.NoError(t, err)

	var want []float64
	for _, a := range []float64{1, 2} {
		for _, b := range []float64{1, 3} {
			for _, c := range []float64{0, 5} {
				want = append(want, a+b+c+0.5)
			}
		}
	}
	sort.Float64s(want)

	hyps, err := kbest.Best(h, 100)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, costsOf(hyps), eps)
	assertConsistent(t, h, hyps)

	s, err := derivation.Format(h, hyps[0].Tree)
	require.NoError(t, err)
	assert.Equal(t, `(S (A "a1") (B "b1") (C "c1") (D "d"))`, s)
}

func TestFirstIsSingleBest(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		h, err := builder.Build[vit](nil, []core.Option{core.WithProperties(core.CanonicalLex)},
			[]builder.BuilderOption{builder.WithSeed(seed), builder.WithCostFn(builder.IntegerCostFn(0, 4))},
			builder.RandomCFG[vit](4, 6))
		require.NoError(t, err)

		_, best, err := bestpath.Best(h)
		require.NoError(t, err)
		hyps, err := kbest.Best(h, 8)
		require.NoError(t, err)
		require.NotEmpty(t, hyps)
		assert.InDelta(t, best.Value(), hyps[0].Cost.Value(), eps, "seed %d", seed)
		assertConsistent(t, h, hyps)
	}
}

type arc = struct {
	src, dst int
	word     string
	cost     float64
}

func fsm(t *testing.T, n, final int, arcs ...arc) *core.Hypergraph[vit] {
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

func TestCycles(t *testing.T) {
	t.Run("self loop", func(t *testing.T) {
		h := fsm(t, 2, 1, arc{0, 1, "a", 1}, arc{1, 1, "b", 1})
		hyps, err := kbest.Best(h, 5)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{1, 2, 3, 4, 5}, costsOf(hyps), eps)
		assertConsistent(t, h, hyps)
	})
	t.Run("two state loop", func(t *testing.T) {
		h := fsm(t, 3, 1, arc{0, 1, "a", 1}, arc{1, 2, "b", 1}, arc{2, 1, "c", 1})
		hyps, err := kbest.Best(h, 5)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{1, 3, 5, 7, 9}, costsOf(hyps), eps)
		assertConsistent(t, h, hyps)
	})
}

func TestNbestPerString(t *testing.T) {
	h := fsm(t, 2, 1, arc{0, 1, "a", 1}, arc{0, 1, "a", 2}, arc{0, 1, "b", 3})

	hyps, err := kbest.Best(h, 3)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2, 3}, costsOf(hyps), eps)

	hyps, err = kbest.Best(h, 3, kbest.WithNbestPerString(1))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 3}, costsOf(hyps), eps)

	hyps, err = kbest.Best(h, 3, kbest.WithNbestPerString(1), kbest.WithPadding())
	require.NoError(t, err)
	require.Len(t, hyps, 3)
	assert.False(t, hyps[1].Padding)
	assert.True(t, hyps[2].Padding)
	assert.Same(t, hyps[1].Tree, hyps[2].Tree)

	hyps, err = kbest.Best(h, 3, kbest.WithNbestPerString(1), kbest.WithMaxSkipped(1))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1}, costsOf(hyps), eps)

	hyps, err = kbest.Best(h, 3, kbest.WithNbestPerString(1), kbest.WithYieldSide(core.InputSide))
	require.NoError(t, err)
	assert.Len(t, hyps, 2)
}

func TestEnumerateStopAndErrors(t *testing.T) {
	h := fsm(t, 2, 1, arc{0, 1, "a", 1}, arc{1, 1, "b", 1})

	var got []float64
	n, err := kbest.Enumerate(h, 10, func(hyp kbest.Hypothesis[vit]) error {
		got = append(got, hyp.Cost.Value())
		if len(got) == 2 {
			return kbest.ErrStop
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.InDeltaSlice(t, []float64{1, 2}, got, eps)

	_, err = kbest.Best(h, 0)
	assert.ErrorIs(t, err, core.ErrConfig)
	_, err = kbest.Best[vit](nil, 1)
	assert.ErrorIs(t, err, kbest.ErrGraphNil)

	empty := fsm(t, 3, 2, arc{0, 1, "a", 1})
	hyps, err := kbest.Best(empty, 3, kbest.WithPadding())
	require.NoError(t, err)
	assert.Empty(t, hyps)
	_, err = kbest.Best(empty, 3, kbest.WithFailIfEmpty())
	assert.ErrorIs(t, err, core.ErrEmptySet)

	assert.Panics(t, func() { kbest.WithNbestPerString(-1) })
	assert.Panics(t, func() { kbest.WithMaxSkipped(-1) })
}

func TestNegativeCostsRepair(t *testing.T) {
	// Seeded without rereach, state 2 starts from the 1-cost route although the
	// route through 1 costs -3.
	h := fsm(t, 4, 3, arc{0, 2, "a", 1}, arc{0, 1, "b", 2}, arc{1, 2, "c", -5}, arc{2, 3, "d", 1})
	hyps, err := kbest.Best(h, 2, kbest.WithBestPath(bestpath.WithAlgorithm(bestpath.BestFirst)))
	require.NoError(t, err)
	require.Len(t, hyps, 2)
	assert.InDeltaSlice(t, []float64{-2, 2}, costsOf(hyps), eps)
	assertConsistent(t, h, hyps)
}

func TestZeroCostEpsilonLoop(t *testing.T) {
	// 1 <- 1 <eps> / 0 comes first and ties the only real derivation of 1.
	h := core.New[vit](nil, core.WithProperties(core.CanonicalLex))
	s0, s1 := h.AddState(), h.AddState()
	loop, err := h.AddFSMArc(s1, s1, core.InputLabel(vocab.Epsilon), 0)
	require.NoError(t, err)
	sym, err := h.Vocab().Parse(`"a"`)
	require.NoError(t, err)
	word, err := h.AddFSMArc(s0, s1, core.InputLabel(sym), 1)
	require.NoError(t, err)
	require.NoError(t, h.SetStart(s0))
	require.NoError(t, h.SetFinal(s1))

	_, best, err := bestpath.Best(h)
	require.NoError(t, err)
	require.InDelta(t, 1, best.Value(), eps)

	hyps, err := kbest.Best(h, 1)
	require.NoError(t, err)
	require.Len(t, hyps, 1)
	assert.InDelta(t, best.Value(), hyps[0].Cost.Value(), eps)
	arcs, err := derivation.Arcs(hyps[0].Tree)
	require.NoError(t, err)
	assert.Equal(t, []core.ArcID{word}, arcs)

	hyps, err = kbest.Best(h, 4)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1, 1, 1}, costsOf(hyps), eps)
	assertConsistent(t, h, hyps)
	for i, hyp := range hyps {
		arcs, err := derivation.Arcs(hyp.Tree)
		require.NoError(t, err)
		require.Len(t, arcs, i+1, "rank %d takes the loop %d times", i, i)
		for _, id := range arcs[:i] {
			assert.Equal(t, loop, id)
		}
		assert.Equal(t, word, arcs[i])
	}
}
