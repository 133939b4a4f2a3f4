package compose

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hypergraph/builder"
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/internal/logutil"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

// tracedChart runs the chart for `S -> NP "runs"`, `NP -> "mary"` over the fst
// 0 -mary-> 1 -runs-> 2.
func tracedChart(t *testing.T) *chart[semiring.Viterbi] {
	t.Helper()
	voc := vocab.New()
	cfg, err := builder.Build[semiring.Viterbi](voc, nil, nil,
		builder.Grammar[semiring.Viterbi](`S -> NP "runs" / 1`, `NP -> "mary" / 1`))
	require.NoError(t, err)

	fst := core.New[semiring.Viterbi](voc, core.WithProperties(core.StoreFirstTailOutArcs))
	for i := 0; i < 3; i++ {
		fst.AddState()
	}
	for i, w := range []string{"mary", "runs"} {
		sym, ok := voc.Lookup(w, vocab.Lexical)
		require.True(t, ok)
		_, err := fst.AddFSMArc(core.StateID(i), core.StateID(i+1), core.InputLabel(sym), 0)
		require.NoError(t, err)
	}
	require.NoError(t, fst.SetStart(0))
	require.NoError(t, fst.SetFinal(2))
	fst.SortOutArcs()

	c, err := newChart(cfg, fst, chartOptions{})
	require.NoError(t, err)
	require.NoError(t, c.run())
	return c
}

func TestDescribeItems(t *testing.T) {
	c := tracedChart(t)
	var got []string
	for _, it := range c.agenda {
		got = append(got, c.describe(it))
	}
	assert.ElementsMatch(t, []string{
		`S -> . NP "runs" [0,0]`,
		`NP -> . "mary" [0,0]`,
		`NP -> "mary" . [0,1]`,
		`S -> NP . "runs" [0,1]`,
		`S -> NP "runs" . [0,2]`,
	}, got)
	require.Len(t, c.goals, 1)
	assert.Equal(t, `S -> NP "runs" . [0,2]`, c.describe(c.goals[0]))
}

func TestItemsAreTraced(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logutil.NewLogger(&buf, logutil.LevelTrace))
	defer slog.SetDefault(prev)

	tracedChart(t)
	assert.Contains(t, buf.String(), "msg=\"compose item\"")
	assert.Contains(t, buf.String(), `item="S -> . NP \"runs\" [0,0]"`)

	buf.Reset()
	slog.SetDefault(logutil.NewLogger(&buf, slog.LevelInfo))
	tracedChart(t)
	assert.NotContains(t, buf.String(), "compose item")
}
