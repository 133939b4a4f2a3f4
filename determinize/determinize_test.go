package determinize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hypergraph/bfs"
	"github.com/katalvlaran/hypergraph/builder"
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/determinize"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

type vit = semiring.Viterbi

type tr struct {
	src, dst int
	tok      string
}

// fsm builds an automaton with n states, start 0 and the given final.
func fsm(t *testing.T, n, final int, arcs ...tr) *core.Hypergraph[vit] {
	t.Helper()
	h := core.New[vit](nil, core.WithProperties(core.CanonicalLex))
	ids := make([]core.StateID, n)
	for i := range ids {
		ids[i] = h.AddState()
	}
	for _, a := range arcs {
		sym, err := h.Vocab().Parse(a.tok)
		require.NoError(t, err)
		_, err = h.AddFSMArc(ids[a.src], ids[a.dst], core.InputLabel(sym), 0)
		require.NoError(t, err)
	}
	require.NoError(t, h.SetStart(ids[0]))
	require.NoError(t, h.SetFinal(ids[final]))
	return h
}

// outArcs returns the out-arcs of s, failing the test on error.
func outArcs(t *testing.T, h *core.Hypergraph[vit], s core.StateID) []core.ArcID {
	t.Helper()
	ids, err := h.OutArcs(s)
	require.NoError(t, err)
	return ids
}

// outLabels returns the input labels leaving s in arc order.
func outLabels(t *testing.T, h *core.Hypergraph[vit], s core.StateID) []string {
	t.Helper()
	var out []string
	for _, id := range outArcs(t, h, s) {
		out = append(out, h.Vocab().Format(h.FSMLabel(id).In))
	}
	return out
}

func syms(t *testing.T, voc *vocab.Vocabulary, words ...string) []vocab.Sym {
	t.Helper()
	out := make([]vocab.Sym, len(words))
	for i, w := range words {
		s, ok := voc.Lookup(w, vocab.Lexical)
		require.True(t, ok, w)
		out[i] = s
	}
	return out
}

// assertDeterministic checks that no state has two arcs with the same label and that
// epsilon arcs only enter the final state.
func assertDeterministic(t *testing.T, h *core.Hypergraph[vit]) {
	t.Helper()
	for s := core.StateID(0); int(s) < h.NumStates(); s++ {
		if h.IsTerminal(s) {
			continue
		}
		seen := map[core.Label]bool{}
		for _, id := range outArcs(t, h, s) {
			l := h.FSMLabel(id)
			if l.In == vocab.Epsilon {
				assert.Equal(t, h.Final(), h.Arc(id).Head, "epsilon arc from %d", s)
				continue
			}
			assert.False(t, seen[l], "state %d has two %v arcs", s, l)
			seen[l] = true
		}
	}
}

// strs enumerates every string over alphabet up to length n.
func strs(alphabet []vocab.Sym, n int) [][]vocab.Sym {
	out := [][]vocab.Sym{{}}
	frontier := [][]vocab.Sym{{}}
	for i := 0; i < n; i++ {
		var next [][]vocab.Sym
		for _, p := range frontier {
			for _, a := range alphabet {
				q := append(append([]vocab.Sym{}, p...), a)
				next = append(next, q)
			}
		}
		out = append(out, next...)
		frontier = next
	}
	return out
}

func sameLanguage(t *testing.T, a, b *core.Hypergraph[vit], alphabet []vocab.Sym, n int) {
	t.Helper()
	for _, s := range strs(alphabet, n) {
		wa, err := bfs.Accepts(a, s)
		require.NoError(t, err)
		wb, err := bfs.Accepts(b, s)
		require.NoError(t, err)
		assert.Equal(t, wa, wb, "string %v", s)
	}
}

func TestEpsilonSelfLoop(t *testing.T) {
	h := fsm(t, 2, 1, tr{0, 0, "<eps>"}, tr{0, 1, `"a"`})
	d, err := determinize.Determinize(h)
	require.NoError(t, err)

	voc := h.Vocab()
	a := syms(t, voc, "a")
	ok, err := bfs.Accepts(d, a)
	require.NoError(t, err)
	assert.True(t, ok)
	for _, s := range [][]vocab.Sym{{}, {a[0], a[0]}} {
		ok, err = bfs.Accepts(d, s)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 1, d.NumArcs())
	assert.True(t, d.HasProperties(core.FSM|core.Unweighted))
}

func TestRandomFSMsPreserveLanguage(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		h, err := builder.Build[vit](nil, []core.Option{core.WithProperties(core.CanonicalLex)},
			[]builder.BuilderOption{builder.WithSeed(seed), builder.WithEpsilonProb(0.25)},
			builder.RandomFSM[vit](5, 12))
		require.NoError(t, err)

		d, err := determinize.Determinize(h)
		require.NoError(t, err, "seed %d", seed)
		assertDeterministic(t, d)
		sameLanguage(t, h, d, syms(t, h.Vocab(), "a", "b", "c"), 4)
	}
}

func TestIdempotent(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		h, err := builder.Build[vit](nil, nil,
			[]builder.BuilderOption{builder.WithSeed(seed)},
			builder.RandomFSM[vit](4, 9))
		require.NoError(t, err)

		d1, err := determinize.Determinize(h)
		require.NoError(t, err)
		d2, err := determinize.Determinize(d1)
		require.NoError(t, err)
		assert.Equal(t, d1.NumArcs(), d2.NumArcs(), "seed %d", seed)
		sameLanguage(t, d1, d2, syms(t, h.Vocab(), "a", "b", "c"), 3)
	}
}

func TestSeveralFinalSubsetsAreJoined(t *testing.T) {
	// 0 -a-> 2(final), 0 -a-> 1, 1 -b-> 2: subsets {1,2} and {2} are both final.
	h := fsm(t, 3, 2, tr{0, 2, `"a"`}, tr{0, 1, `"a"`}, tr{1, 2, `"b"`})
	d, err := determinize.Determinize(h)
	require.NoError(t, err)

	eps := 0
	for id := range d.Arcs() {
		if d.FSMLabel(id).In == vocab.Epsilon {
			eps++
			assert.Equal(t, d.Final(), d.Arc(id).Head)
		}
	}
	assert.Equal(t, 2, eps)
	assertDeterministic(t, d)
	sameLanguage(t, h, d, syms(t, h.Vocab(), "a", "b"), 3)
}

func TestRhoIsElse(t *testing.T) {
	// State 0 lists "a"; its rho arc must not fire on "a".
	h := fsm(t, 3, 2, tr{0, 1, `"a"`}, tr{0, 2, "<rho>"}, tr{1, 2, `"b"`})
	d, err := determinize.Determinize(h)
	require.NoError(t, err)

	assert.Equal(t, []string{`"a"`, "<rho>"}, outLabels(t, d, d.Start()))
	for _, id := range outArcs(t, d, d.Start()) {
		head := d.Arc(id).Head
		if d.FSMLabel(id).In == vocab.Rho {
			assert.Equal(t, d.Final(), head)
		} else {
			assert.NotEqual(t, d.Final(), head)
		}
	}
}

func TestRhoFromOtherSubsetMember(t *testing.T) {
	// Closure of 0 is {0,3}. State 0 does not list "a", so its rho joins 3's "a".
	h := fsm(t, 4, 1, tr{0, 3, "<eps>"}, tr{0, 1, "<rho>"}, tr{3, 2, `"a"`})
	d, err := determinize.Determinize(h)
	require.NoError(t, err)

	require.Equal(t, []string{`"a"`, "<rho>"}, outLabels(t, d, d.Start()))
	a := syms(t, h.Vocab(), "a")
	ok, err := bfs.Accepts(d, a)
	require.NoError(t, err)
	assert.True(t, ok, "rho of state 0 accepts a")
}

func TestRhoOrdinary(t *testing.T) {
	h := fsm(t, 3, 2, tr{0, 1, `"a"`}, tr{0, 2, "<rho>"}, tr{0, 2, "<rho>"})
	d, err := determinize.Determinize(h, determinize.WithRho(determinize.Ordinary))
	require.NoError(t, err)
	assert.Equal(t, []string{`"a"`, "<rho>"}, outLabels(t, d, d.Start()))
}

func TestPhiFailureChain(t *testing.T) {
	// "b" is only reachable through the failure arc of state 0.
	h := fsm(t, 4, 3, tr{0, 1, `"a"`}, tr{0, 2, "<phi>"}, tr{2, 3, `"b"`}, tr{2, 3, `"a"`})
	d, err := determinize.Determinize(h, determinize.WithPhi(determinize.Special))
	require.NoError(t, err)

	assert.Equal(t, []string{`"a"`, `"b"`}, outLabels(t, d, d.Start()))
	voc := h.Vocab()
	ok, err := bfs.Accepts(d, syms(t, voc, "b"))
	require.NoError(t, err)
	assert.True(t, ok)
	// State 0 matches "a" itself, so the failure arc is not taken on "a".
	ok, err = bfs.Accepts(d, syms(t, voc, "a"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSigmaMatchesEverything(t *testing.T) {
	h := fsm(t, 3, 2, tr{0, 1, `"a"`}, tr{0, 2, "<sigma>"})
	d, err := determinize.Determinize(h, determinize.WithSigma(determinize.Special))
	require.NoError(t, err)

	assert.Equal(t, []string{`"a"`, "<rho>"}, outLabels(t, d, d.Start()))
	ok, err := bfs.Accepts(d, syms(t, h.Vocab(), "a"))
	require.NoError(t, err)
	assert.True(t, ok, "sigma target joins the a subset")
}

func TestErrors(t *testing.T) {
	t.Run("weighted", func(t *testing.T) {
		h := fsm(t, 2, 1, tr{0, 1, `"a"`})
		require.NoError(t, h.SetWeight(0, 1.5))
		_, err := determinize.Determinize(h)
		assert.ErrorIs(t, err, determinize.ErrWeighted)
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})
	t.Run("not fsm", func(t *testing.T) {
		h, err := builder.Build[vit](nil, nil, nil, builder.Grammar[vit]("S -> NP VP", `NP -> "john"`, `VP -> "runs"`))
		require.NoError(t, err)
		_, err = determinize.Determinize(h)
		assert.ErrorIs(t, err, determinize.ErrNotFSM)
	})
	t.Run("phi unconfigured", func(t *testing.T) {
		h := fsm(t, 2, 1, tr{0, 1, "<phi>"})
		_, err := determinize.Determinize(h)
		assert.ErrorIs(t, err, determinize.ErrUnconfigured)
		assert.ErrorIs(t, err, core.ErrConfig)
	})
	t.Run("sigma unconfigured", func(t *testing.T) {
		h := fsm(t, 2, 1, tr{0, 1, "<sigma>"})
		_, err := determinize.Determinize(h)
		assert.ErrorIs(t, err, determinize.ErrUnconfigured)
	})
	t.Run("sigma special rho ordinary", func(t *testing.T) {
		h := fsm(t, 2, 1, tr{0, 1, "<sigma>"})
		_, err := determinize.Determinize(h,
			determinize.WithSigma(determinize.Special), determinize.WithRho(determinize.Ordinary))
		assert.ErrorIs(t, err, core.ErrConfig)
	})
	t.Run("max states", func(t *testing.T) {
		h := fsm(t, 3, 2, tr{0, 1, `"a"`}, tr{1, 2, `"b"`})
		_, err := determinize.Determinize(h, determinize.WithMaxStates(2))
		assert.ErrorIs(t, err, determinize.ErrTooManyStates)
		assert.Panics(t, func() { determinize.WithMaxStates(-1) })
	})
}

func TestNoStart(t *testing.T) {
	h := core.New[vit](nil)
	h.AddState()
	d, err := determinize.Determinize(h)
	require.NoError(t, err)
	assert.Equal(t, core.NoState, d.Start())
	assert.True(t, d.IsEmpty())
}

func TestParseTreatment(t *testing.T) {
	for _, tt := range []determinize.Treatment{determinize.Unspecified, determinize.Special, determinize.Ordinary} {
		got, err := determinize.ParseTreatment(tt.String())
		require.NoError(t, err)
		assert.Equal(t, tt, got)
	}
	_, err := determinize.ParseTreatment("sometimes")
	assert.ErrorIs(t, err, core.ErrConfig)
}
