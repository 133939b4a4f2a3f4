package hgtext

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

// Print writes h in the text format. Weights equal to One are omitted.
func Print[W semiring.Weight[W]](w io.Writer, h *core.Hypergraph[W]) error {
	bw := bufio.NewWriter(w)
	voc := h.Vocab()

	fmt.Fprintf(bw, "# %d states, %d arcs\n", h.NumStates(), h.NumArcs())
	fmt.Fprintf(bw, "%s %s %d\n", kwStates, arrow, h.NumStates())
	if s := h.Start(); s != core.NoState {
		fmt.Fprintf(bw, "%s %s %d\n", kwStart, arrow, s)
	}
	if s := h.Final(); s != core.NoState {
		fmt.Fprintf(bw, "%s %s %d\n", kwFinal, arrow, s)
	}
	for s := 0; s < h.NumStates(); s++ {
		l := h.Label(core.StateID(s))
		if l.In == vocab.NoSymbol {
			continue
		}
		fmt.Fprintf(bw, "%d %s\n", s, FormatLabel(voc, l))
	}

	var sb strings.Builder
	for _, a := range h.Arcs() {
		sb.Reset()
		sb.WriteString(strconv.Itoa(int(a.Head)))
		sb.WriteString(" " + arrow)
		for _, t := range a.Tails {
			sb.WriteByte(' ')
			sb.WriteString(strconv.Itoa(int(t)))
		}
		if !a.Weight.IsOne() {
			sb.WriteString(" " + weightSep + " ")
			sb.WriteString(a.Weight.String())
		}
		sb.WriteByte('\n')
		bw.WriteString(sb.String())
	}
	return bw.Flush()
}

// FormatLabel renders a label as IN or IN:OUT.
func FormatLabel(voc *vocab.Vocabulary, l core.Label) string {
	if l.Out == vocab.NoSymbol {
		return voc.Format(l.In)
	}
	return voc.Format(l.In) + ":" + voc.Format(l.Out)
}
