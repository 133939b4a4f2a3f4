package dfs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/dfs"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

type vit = semiring.Viterbi

// chain builds 0 -a-> 1 -a-> 2 ... -a-> n and returns it with the label state.
func chain(t *testing.T, n int) (*core.Hypergraph[vit], core.StateID) {
	t.Helper()
	voc := vocab.New()
	h := core.New[vit](voc, core.WithProperties(core.CanonicalLex))
	a := core.InputLabel(voc.Add("a", vocab.Lexical))
	prev := h.AddState()
	require.NoError(t, h.SetStart(prev))
	for i := 0; i < n; i++ {
		next := h.AddState()
		_, err := h.AddFSMArc(prev, next, a, 1)
		require.NoError(t, err)
		prev = next
	}
	require.NoError(t, h.SetFinal(prev))
	return h, h.TerminalState(a.In)
}

func TestDFSForwardAndBackward(t *testing.T) {
	h, _ := chain(t, 3)
	final := h.Final()

	res, err := dfs.DFS(h, []core.StateID{h.Start()})
	require.NoError(t, err)
	assert.True(t, res.Visited[final])
	assert.Equal(t, 3, res.Depth[final])
	assert.Equal(t, final, res.Order[0], "post-order finishes the deepest state first")
	assert.Equal(t, core.ArcID(2), res.ParentArc[final])

	back, err := dfs.DFS(h, []core.StateID{final}, dfs.WithDirection(dfs.Backward))
	require.NoError(t, err)
	assert.True(t, back.Visited[h.Start()])
}

func TestDFSOptions(t *testing.T) {
	h, lab := chain(t, 4)

	var pre []core.StateID
	res, err := dfs.DFS(h, []core.StateID{h.Start()},
		dfs.WithMaxDepth(1),
		dfs.WithOnVisit(func(s core.StateID) error { pre = append(pre, s); return nil }))
	require.NoError(t, err)
	assert.Equal(t, []core.StateID{0, 1}, pre)
	assert.False(t, res.Visited[3])
	assert.False(t, res.Visited[lab])

	full, err := dfs.DFS(h, nil, dfs.WithFullTraversal())
	require.NoError(t, err)
	assert.Len(t, full.Order, h.NumStates())

	stop := errors.New("stop")
	_, err = dfs.DFS(h, []core.StateID{0}, dfs.WithOnExit(func(core.StateID) error { return stop }))
	assert.ErrorIs(t, err, stop)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = dfs.DFS(h, []core.StateID{0}, dfs.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDFSErrors(t *testing.T) {
	_, err := dfs.DFS[vit](nil, nil)
	assert.ErrorIs(t, err, dfs.ErrGraphNil)

	h, _ := chain(t, 1)
	_, err = dfs.DFS(h, []core.StateID{99})
	assert.ErrorIs(t, err, dfs.ErrStartStateNotFound)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}
