package compose_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hypergraph/builder"
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/derivation"
	"github.com/katalvlaran/hypergraph/kbest"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

type vit = semiring.Viterbi

// arc is a transducer transition; an empty out copies in.
type arc struct {
	src, dst int
	in, out  string
	cost     float64
}

// transducer builds a sorted FSM over voc with n states, start 0 and the given final.
func transducer(t *testing.T, voc *vocab.Vocabulary, n, final int, arcs ...arc) *core.Hypergraph[vit] {
	t.Helper()
	h := core.New[vit](voc, core.WithProperties(core.CanonicalLex|core.StoreFirstTailOutArcs))
	for i := 0; i < n; i++ {
		h.AddState()
	}
	for _, a := range arcs {
		in, err := voc.Parse(a.in)
		require.NoError(t, err)
		out := in
		if a.out != "" {
			out, err = voc.Parse(a.out)
			require.NoError(t, err)
		}
		_, err = h.AddFSMArc(core.StateID(a.src), core.StateID(a.dst), core.PairLabel(in, out), vit(a.cost))
		require.NoError(t, err)
	}
	require.NoError(t, h.SetStart(0))
	require.NoError(t, h.SetFinal(core.StateID(final)))
	h.SortOutArcs()
	return h
}

func grammar(t *testing.T, voc *vocab.Vocabulary, rules ...string) *core.Hypergraph[vit] {
	t.Helper()
	h, err := builder.Build[vit](voc, []core.Option{core.WithProperties(core.CanonicalLex)}, nil,
		builder.Grammar[vit](rules...))
	require.NoError(t, err)
	return h
}

// yields counts the derivations of h per yield string on the given side.
func yields(t *testing.T, h *core.Hypergraph[vit], side core.Side) map[string]int {
	t.Helper()
	out := make(map[string]int)
	_, err := kbest.Enumerate(h, 10000, func(hyp kbest.Hypothesis[vit]) error {
		syms, err := derivation.Yield(h, hyp.Tree, side, false)
		if err != nil {
			return err
		}
		out[words(h.Vocab(), syms)]++
		return nil
	})
	require.NoError(t, err)
	return out
}

func words(voc *vocab.Vocabulary, syms []vocab.Sym) string {
	ws := make([]string, len(syms))
	for i, s := range syms {
		ws[i] = voc.Str(s)
	}
	return strings.Join(ws, " ")
}

func keys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// language returns every yield of h with at most maxLen words on the given side,
// epsilon dropped. It iterates arc by arc to a fixpoint, so cyclic results work.
func language(h *core.Hypergraph[vit], side core.Side, maxLen int) []string {
	sets := make([]map[string]int, h.NumStates())
	for s := range sets {
		sets[s] = make(map[string]int)
		st := core.StateID(s)
		switch {
		case h.IsTerminal(st):
			if sym := side.Pick(h.Label(st)).In; sym == vocab.Epsilon {
				sets[s][""] = 0
			} else {
				sets[s][h.Vocab().Str(sym)] = 1
			}
		case h.IsAxiom(st):
			sets[s][""] = 0
		}
	}
	for changed := true; changed; {
		changed = false
		for _, a := range h.Arcs() {
			acc := map[string]int{"": 0}
			for _, t := range a.Tails {
				next := make(map[string]int)
				for p, n := range acc {
					for q, m := range sets[t] {
						if n+m > maxLen {
							continue
						}
						next[strings.TrimSpace(p+" "+q)] = n + m
					}
				}
				acc = next
			}
			for y, n := range acc {
				if _, ok := sets[a.Head][y]; !ok {
					sets[a.Head][y] = n
					changed = true
				}
			}
		}
	}
	out := make([]string, 0, len(sets[h.Final()]))
	for y := range sets[h.Final()] {
		out = append(out, y)
	}
	sort.Strings(out)
	return out
}
