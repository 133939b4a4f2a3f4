package hgtext_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hypergraph/builder"
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/hgtext"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

type vit = semiring.Viterbi

// requireSame asserts structural equality: labels, arcs, weights, start and final.
func requireSame[W semiring.Weight[W]](t *testing.T, want, got *core.Hypergraph[W]) {
	t.Helper()
	require.Equal(t, want.NumStates(), got.NumStates())
	require.Equal(t, want.NumArcs(), got.NumArcs())
	assert.Equal(t, want.Start(), got.Start())
	assert.Equal(t, want.Final(), got.Final())
	for s := 0; s < want.NumStates(); s++ {
		wl, gl := want.Label(core.StateID(s)), got.Label(core.StateID(s))
		assert.Equal(t, want.Vocab().Format(wl.In), got.Vocab().Format(gl.In), "state %d", s)
		assert.Equal(t, want.Vocab().Format(wl.Out), got.Vocab().Format(gl.Out), "state %d", s)
	}
	for id, a := range want.Arcs() {
		b := got.Arc(id)
		assert.Equal(t, a.Head, b.Head)
		assert.Equal(t, a.Tails, b.Tails)
		assert.Equal(t, a.Weight.String(), b.Weight.String())
	}
}

func roundTrip[W semiring.Weight[W]](t *testing.T, h *core.Hypergraph[W]) *core.Hypergraph[W] {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, hgtext.Print(&buf, h))
	got, err := hgtext.Parse[W](&buf, vocab.New())
	require.NoError(t, err, buf.String())
	return got
}

func TestRoundTripRandomFSM(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		h, err := builder.Build(nil, nil,
			[]builder.BuilderOption{
				builder.WithSeed(seed),
				builder.WithEpsilonProb(0.3),
				builder.WithAlphabet("a", "b c", `q"uote`),
				builder.WithCostFn(builder.UniformCostFn(0, 3)),
			},
			builder.RandomFSM[vit](5, 12))
		require.NoError(t, err)
		requireSame(t, h, roundTrip(t, h))
	}
}

func TestRoundTripGrammarAndTransducer(t *testing.T) {
	voc := vocab.New()
	h, err := builder.Build(voc, nil, nil, builder.Grammar[semiring.Log](
		`S -> NP VP / 0.5`, `NP -> "john"`, `VP -> "runs" / inf`))
	require.NoError(t, err)
	a, x := voc.Add("a", vocab.Lexical), voc.Add("x", vocab.Lexical)
	src := h.AddState()
	_, err = h.AddFSMArc(src, src, core.PairLabel(a, x), 2)
	require.NoError(t, err)
	h.AddState() // trailing unlabeled state survives

	requireSame(t, h, roundTrip(t, h))
}

func TestRoundTripFeatureWeights(t *testing.T) {
	h := core.New[semiring.Feature](nil)
	s0, s1 := h.AddState(), h.AddState()
	a := h.Vocab().Add("a", vocab.Lexical)
	w := semiring.Feature{Cost: 1.5, Features: semiring.NewFeatureVector(map[uint32]float64{3: 1, 7: 0.5})}
	_, err := h.AddFSMArc(s0, s1, core.InputLabel(a), w)
	require.NoError(t, err)
	require.NoError(t, h.SetStart(s0))
	require.NoError(t, h.SetFinal(s1))

	got := roundTrip(t, h)
	requireSame(t, h, got)
	assert.Equal(t, 0.5, got.Arc(0).Weight.Features.Get(7))
}

func TestParseInlineTerminals(t *testing.T) {
	src := `
# inline literals share the canonical state
START <- 0
FINAL <- 2
1 <- 0 "a" / 1
2 <- 1 "a"
2 <- 1 <eps> / 3
`
	h, err := hgtext.Parse[vit](strings.NewReader(src), nil, core.WithProperties(core.CanonicalLex))
	require.NoError(t, err)
	assert.Equal(t, 5, h.NumStates(), "0..2 plus \"a\" and <eps>")
	assert.Equal(t, h.Arc(0).Tails[1], h.Arc(1).Tails[1])
	assert.True(t, h.Arc(1).Weight.IsOne())
	assert.Equal(t, vocab.Epsilon, h.FSMLabel(2).In)
	assert.True(t, h.HasProperties(core.FSM))
}

func TestParseErrors(t *testing.T) {
	for name, src := range map[string]string{
		"unterminated":  `1 <- 0 "a`,
		"directive":     `BOGUS <- 1`,
		"directive val": `START <- x`,
		"weight":        `1 <- 0 "a" / zz`,
		"missing w":     `1 <- 0 "a" /`,
		"nt inline":     `1 <- 0 NP`,
		"head":          `NP <- 0`,
		"special":       `0 <nope>`,
		"decl arity":    `0 NP VP`,
	} {
		_, err := hgtext.Parse[vit](strings.NewReader(src), nil)
		assert.ErrorIs(t, err, core.ErrInvalidInput, name)
	}

	_, err := hgtext.Parse[vit](strings.NewReader("0 \"a\"\n0 <- 1\n"), nil)
	assert.ErrorIs(t, err, core.ErrTerminalHead)
}

func TestPrintFormat(t *testing.T) {
	voc := vocab.New()
	h, err := builder.Build(voc, nil, []builder.BuilderOption{builder.WithCostFn(builder.ConstantCostFn(0.5))},
		builder.Chain[vit]("hi"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, hgtext.Print(&buf, h))
	assert.Equal(t, `# 3 states, 1 arcs
STATES <- 3
START <- 0
FINAL <- 1
2 "hi"
1 <- 0 2 / 0.5
`, buf.String())
}
