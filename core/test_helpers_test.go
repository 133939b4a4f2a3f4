package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

type vit = semiring.Viterbi

// newAB builds the two-word FSM 0 -a/1-> 1 -b/2-> 2 with start 0 and final 2.
func newAB(t *testing.T, opts ...core.Option) (*core.Hypergraph[vit], vocab.Sym, vocab.Sym) {
	t.Helper()
	voc := vocab.New()
	a, b := voc.Add("a", vocab.Lexical), voc.Add("b", vocab.Lexical)
	h := core.New[vit](voc, opts...)
	s0, s1, s2 := h.AddState(), h.AddState(), h.AddState()
	_, err := h.AddFSMArc(s0, s1, core.InputLabel(a), 1)
	require.NoError(t, err)
	_, err = h.AddFSMArc(s1, s2, core.InputLabel(b), 2)
	require.NoError(t, err)
	require.NoError(t, h.SetStart(s0))
	require.NoError(t, h.SetFinal(s2))
	return h, a, b
}

// inArcs returns the in-arcs of s, failing the test on error.
func inArcs(t *testing.T, h *core.Hypergraph[vit], s core.StateID) []core.ArcID {
	t.Helper()
	ids, err := h.InArcs(s)
	require.NoError(t, err)
	return ids
}

// outArcs returns the out-arcs of s, failing the test on error.
func outArcs(t *testing.T, h *core.Hypergraph[vit], s core.StateID) []core.ArcID {
	t.Helper()
	ids, err := h.OutArcs(s)
	require.NoError(t, err)
	return ids
}
