package compose

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/katalvlaran/hypergraph/semiring"
)

// ChartStats reports the work done by one Chart call.
type ChartStats struct {
	Items       int // distinct chart items
	Scans       int // terminal tails tried against fst out-arcs
	Completions int // distinct nonterminal spans
	Goals       int // items deriving the final state over the whole fst
	Runs        int // result states standing for fst input-epsilon runs
	States      int // result states
	Arcs        int // result arcs
}

// WithChartStats makes Chart fill st before it returns without error.
func WithChartStats(st *ChartStats) ChartOption {
	return func(o *chartOptions) { o.stats = st }
}

func (c *chart[W]) report(r *result[W]) ChartStats {
	return ChartStats{
		Items:       len(c.items),
		Scans:       c.scans,
		Completions: c.completions,
		Goals:       len(c.goals),
		Runs:        len(r.runs),
		States:      r.res.NumStates(),
		Arcs:        r.res.NumArcs(),
	}
}

// itemView formats a chart item for trace records only when one is emitted.
type itemView[W semiring.Weight[W]] struct {
	c  *chart[W]
	it *item[W]
}

func (v itemView[W]) LogValue() slog.Value { return slog.StringValue(v.c.describe(v.it)) }

// describe renders it as a dotted rule over its fst span, e.g.
// `VP -> "sees" . NP [1,2]`. Items ending on an fst epsilon move carry a trailing ~.
func (c *chart[W]) describe(it *item[W]) string {
	a := c.cfg.Arc(it.key.arc)
	voc := c.cfg.Vocab()
	var sb strings.Builder
	sb.WriteString(voc.Format(c.cfg.InputLabel(a.Head)))
	sb.WriteString(" ->")
	for i, t := range a.Tails {
		if i == int(it.key.dot) {
			sb.WriteString(" .")
		}
		sb.WriteByte(' ')
		if t == c.cfg.Start() && !c.cfg.IsTerminal(t) {
			sb.WriteString("<start>")
			continue
		}
		sb.WriteString(voc.Format(c.cfg.InputLabel(t)))
	}
	if int(it.key.dot) == len(a.Tails) {
		sb.WriteString(" .")
	}
	fmt.Fprintf(&sb, " [%d,%d]", it.key.from, it.key.to)
	if it.key.nc {
		sb.WriteByte('~')
	}
	return sb.String()
}
