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

// ErrSyntax reports a malformed line.
var ErrSyntax = fmt.Errorf("hgtext: %w: syntax error", core.ErrInvalidInput)

const (
	arrow      = "<-"
	weightSep  = "/"
	kwStates   = "STATES"
	kwStart    = "START"
	kwFinal    = "FINAL"
	commentTok = '#'
)

// line is one parsed arc or declaration, kept until every state id is known.
type line struct {
	no    int
	toks  []string
	isArc bool
}

// Parse reads a hypergraph over voc (a fresh vocabulary when nil). The store is
// created with opts.
//
// Errors wrap ErrSyntax (and so core.ErrInvalidInput) with the line number, or come
// from the store (e.g. an arc whose head is terminal-labeled).
func Parse[W semiring.Weight[W]](r io.Reader, voc *vocab.Vocabulary, opts ...core.Option) (*core.Hypergraph[W], error) {
	h := core.New[W](voc, opts...)
	voc = h.Vocab()

	var (
		lines        []line
		maxID        = -1
		start, final = core.NoState, core.NoState
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for no := 1; sc.Scan(); no++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == commentTok {
			continue
		}
		toks, err := tokenize(text)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, no, err)
		}
		if len(toks) >= 2 && toks[1] == arrow && !isID(toks[0]) {
			if len(toks) != 3 {
				return nil, fmt.Errorf("%w: line %d: directive takes one value", ErrSyntax, no)
			}
			n, err := strconv.Atoi(toks[2])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: line %d: bad value %q", ErrSyntax, no, toks[2])
			}
			switch toks[0] {
			case kwStates:
				maxID = max(maxID, n-1)
			case kwStart:
				start = core.StateID(n)
				maxID = max(maxID, n)
			case kwFinal:
				final = core.StateID(n)
				maxID = max(maxID, n)
			default:
				return nil, fmt.Errorf("%w: line %d: unknown directive %q", ErrSyntax, no, toks[0])
			}
			continue
		}
		if !isID(toks[0]) {
			return nil, fmt.Errorf("%w: line %d: expected state id, got %q", ErrSyntax, no, toks[0])
		}
		l := line{no: no, toks: toks, isArc: len(toks) >= 2 && toks[1] == arrow}
		for _, tok := range toks {
			if tok == weightSep {
				break
			}
			if isID(tok) {
				id, err := strconv.Atoi(tok)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: bad state id %q", ErrSyntax, no, tok)
				}
				maxID = max(maxID, id)
			}
		}
		lines = append(lines, l)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("hgtext: read: %w", err)
	}

	for i := 0; i <= maxID; i++ {
		h.AddState()
	}
	for _, l := range lines {
		if !l.isArc {
			if err := declare(h, voc, l); err != nil {
				return nil, err
			}
		}
	}
	for _, l := range lines {
		if l.isArc {
			if err := addArc(h, voc, l); err != nil {
				return nil, err
			}
		}
	}
	if err := h.SetStart(start); err != nil {
		return nil, fmt.Errorf("hgtext: %w", err)
	}
	if err := h.SetFinal(final); err != nil {
		return nil, fmt.Errorf("hgtext: %w", err)
	}
	return h, nil
}

func isID(tok string) bool {
	return tok != "" && tok[0] >= '0' && tok[0] <= '9'
}

// declare handles "id LABEL[:OUT]".
func declare[W semiring.Weight[W]](h *core.Hypergraph[W], voc *vocab.Vocabulary, l line) error {
	if len(l.toks) != 2 {
		return fmt.Errorf("%w: line %d: declaration is \"id LABEL\"", ErrSyntax, l.no)
	}
	id, _ := strconv.Atoi(l.toks[0])
	lab, err := parseLabel(voc, l.toks[1])
	if err != nil {
		return fmt.Errorf("%w: line %d: %v", ErrSyntax, l.no, err)
	}
	if err := h.SetLabel(core.StateID(id), lab); err != nil {
		return fmt.Errorf("hgtext: line %d: %w", l.no, err)
	}
	return nil
}

func parseLabel(voc *vocab.Vocabulary, tok string) (core.Label, error) {
	inTok, outTok, hasOut := splitLabel(tok)
	in, err := voc.Parse(inTok)
	if err != nil {
		return core.NoLabel, err
	}
	if !hasOut {
		return core.InputLabel(in), nil
	}
	out, err := voc.Parse(outTok)
	if err != nil {
		return core.NoLabel, err
	}
	return core.Label{In: in, Out: out}, nil
}

// addArc handles "head <- tails [/ weight]".
func addArc[W semiring.Weight[W]](h *core.Hypergraph[W], voc *vocab.Vocabulary, l line) error {
	head, _ := strconv.Atoi(l.toks[0])
	rest := l.toks[2:]
	w := semiring.One[W]()
	for i, tok := range rest {
		if tok != weightSep {
			continue
		}
		if i == len(rest)-1 {
			return fmt.Errorf("%w: line %d: missing weight after /", ErrSyntax, l.no)
		}
		var err error
		if w, err = semiring.Parse[W](strings.Join(rest[i+1:], " ")); err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrSyntax, l.no, err)
		}
		rest = rest[:i]
		break
	}
	tails := make([]core.StateID, 0, len(rest))
	for _, tok := range rest {
		if isID(tok) {
			id, _ := strconv.Atoi(tok)
			tails = append(tails, core.StateID(id))
			continue
		}
		lab, err := parseLabel(voc, tok)
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrSyntax, l.no, err)
		}
		if !lab.IsTerminal() {
			return fmt.Errorf("%w: line %d: inline tail %q is not a terminal", ErrSyntax, l.no, tok)
		}
		tails = append(tails, h.AddLabeledState(lab))
	}
	if _, err := h.AddArc(core.StateID(head), tails, w); err != nil {
		return fmt.Errorf("hgtext: line %d: %w", l.no, err)
	}
	return nil
}
