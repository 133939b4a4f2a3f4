// File: types.go
// Role: identifiers, labels, arcs, property bits, error kinds and the Hypergraph type.

package core

import (
	"errors"
	"fmt"
	"sync"

	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

// Error kinds shared by every package of the module.
var (
	// ErrConfig reports malformed or contradictory options, properties or vocabularies.
	ErrConfig = errors.New("core: configuration error")

	// ErrInvalidInput reports a hypergraph whose shape does not suit the operation.
	ErrInvalidInput = errors.New("core: invalid input")

	// ErrEmptySet reports that no derivation exists.
	ErrEmptySet = errors.New("core: empty set")

	// ErrCycle reports a cycle where a tree or acyclic structure was required.
	ErrCycle = errors.New("core: cycle detected")
)

// Specific errors, each wrapping one of the kinds above.
var (
	ErrStateNotFound    = fmt.Errorf("%w: state not found", ErrInvalidInput)
	ErrArcNotFound      = fmt.Errorf("%w: arc not found", ErrInvalidInput)
	ErrEmptyTails       = fmt.Errorf("%w: arc has no tails", ErrInvalidInput)
	ErrTerminalHead     = fmt.Errorf("%w: arc head is terminal-labeled", ErrInvalidInput)
	ErrFrozen           = fmt.Errorf("%w: hypergraph is frozen", ErrConfig)
	ErrPropertyConflict = fmt.Errorf("%w: conflicting properties", ErrConfig)
	ErrVocabMismatch    = fmt.Errorf("%w: hypergraphs use different vocabularies", ErrConfig)
)

// StateID identifies a state. Ids are dense, starting at 0.
type StateID int32

// NoState marks an absent state (no start, no final).
const NoState StateID = -1

// ArcID indexes the arc arena.
type ArcID int32

// NoArc marks an absent arc (e.g. the predecessor of an axiom).
const NoArc ArcID = -1

// Label is a state's input and optional output symbol.
// Out == vocab.NoSymbol means the output equals the input.
type Label struct {
	In  vocab.Sym
	Out vocab.Sym
}

// NoLabel is the label of an unlabeled state.
var NoLabel = Label{In: vocab.NoSymbol, Out: vocab.NoSymbol}

// InputLabel returns an acceptor label for sym.
func InputLabel(sym vocab.Sym) Label { return Label{In: sym, Out: vocab.NoSymbol} }

// PairLabel returns a transducer label; equal sides collapse to an acceptor label.
func PairLabel(in, out vocab.Sym) Label {
	if in == out {
		out = vocab.NoSymbol
	}
	return Label{In: in, Out: out}
}

// Output returns the effective output symbol.
func (l Label) Output() vocab.Sym {
	if l.Out == vocab.NoSymbol {
		return l.In
	}
	return l.Out
}

// IsTerminal reports whether the input side is a terminal.
func (l Label) IsTerminal() bool { return l.In.IsTerminal() }

// IsLexical reports whether the input side is an ordinary terminal.
func (l Label) IsLexical() bool { return l.In.IsLexical() }

// Arc is a hyperarc: Head derives from the ordered Tails with Weight.
type Arc[W semiring.Weight[W]] struct {
	Head   StateID
	Tails  []StateID
	Weight W
}

// IsFSM reports whether the arc has the two-tail FSM arity. Labels are not checked.
func (a *Arc[W]) IsFSM() bool { return len(a.Tails) == 2 }

// Source returns the first tail (the FSM source state).
func (a *Arc[W]) Source() StateID { return a.Tails[0] }

// Properties is a bitmask of stored indices and structural shapes.
type Properties uint32

const (
	// StoreInArcs maintains the arcs entering every head.
	StoreInArcs Properties = 1 << iota
	// StoreOutArcs maintains, for every state, the arcs it is a tail of.
	StoreOutArcs
	// StoreFirstTailOutArcs maintains, for every state, the arcs it is the first tail of.
	StoreFirstTailOutArcs
	// CanonicalLex keeps one state per terminal label; AddLabeledState reuses it.
	CanonicalLex
	// FSM holds when every arc is an FSM arc.
	FSM
	// Graph holds when every arc is a graph arc.
	Graph
	// OneLexical holds when no arc has more than one lexical tail.
	OneLexical
	// SortedOutArcs holds when stored out-arcs are sorted by input label, then cost.
	SortedOutArcs
	// Acyclic holds when no state derives itself.
	Acyclic
	// Unweighted holds when every arc weight is One.
	Unweighted

	propEnd
)

const (
	storeMask = StoreInArcs | StoreOutArcs | StoreFirstTailOutArcs | CanonicalLex
	shapeMask = FSM | Graph | OneLexical | Acyclic | Unweighted
	allMask   = propEnd - 1
)

var propNames = [...]string{
	"StoreInArcs", "StoreOutArcs", "StoreFirstTailOutArcs", "CanonicalLex",
	"FSM", "Graph", "OneLexical", "SortedOutArcs", "Acyclic", "Unweighted",
}

// String lists the set bits, e.g. "StoreInArcs|FSM".
func (p Properties) String() string {
	if p == 0 {
		return "0"
	}
	out := ""
	for i, name := range propNames {
		if p&(1<<i) != 0 {
			if out != "" {
				out += "|"
			}
			out += name
		}
	}
	if rest := p &^ allMask; rest != 0 {
		out += fmt.Sprintf("|0x%x", uint32(rest))
	}
	return out
}

// Option configures a Hypergraph at construction.
type Option func(*options)

type options struct {
	props Properties
}

// WithProperties requests the given index bits (StoreInArcs, StoreOutArcs,
// StoreFirstTailOutArcs, CanonicalLex). Other bits are ignored here.
func WithProperties(p Properties) Option {
	return func(o *options) { o.props |= p & storeMask }
}

// Hypergraph is the state/arc store, generic over the weight type.
type Hypergraph[W semiring.Weight[W]] struct {
	voc    *vocab.Vocabulary
	labels []Label
	arcs   []Arc[W]

	inArcs  [][]ArcID // by head, when StoreInArcs
	outArcs [][]ArcID // by tail, when StoreOutArcs or StoreFirstTailOutArcs

	start, final StateID
	stored       Properties // index bits currently maintained
	frozen       bool

	// propMu guards the lazily computed shape cache and SortedOutArcs.
	propMu sync.Mutex
	known  Properties // shape bits whose value is cached
	shape  Properties // cached values of the known bits

	lexStates map[Label]StateID // when CanonicalLex
}

// New creates an empty hypergraph over voc (a fresh vocabulary when voc is nil).
// StoreOutArcs and StoreFirstTailOutArcs are mutually exclusive; if both are
// requested the first-tail index wins.
//
// Complexity: O(1).
func New[W semiring.Weight[W]](voc *vocab.Vocabulary, opts ...Option) *Hypergraph[W] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.props&StoreFirstTailOutArcs != 0 {
		o.props &^= StoreOutArcs
	}
	if voc == nil {
		voc = vocab.New()
	}
	h := &Hypergraph[W]{
		voc:    voc,
		start:  NoState,
		final:  NoState,
		stored: o.props,
	}
	if o.props&CanonicalLex != 0 {
		h.lexStates = make(map[Label]StateID)
	}
	return h
}
