package vocab

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// Kind classifies a symbol.
type Kind uint8

const (
	// Lexical is an ordinary terminal.
	Lexical Kind = iota
	// Special is a reserved terminal such as <eps>.
	Special
	// Nonterminal is a grammar category.
	Nonterminal
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Special:
		return "special"
	case Nonterminal:
		return "nonterminal"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

const (
	kindShift = 30
	indexMask = 1<<kindShift - 1
)

// Sym is an interned symbol id. The kind lives in the two high bits.
type Sym uint32

// NoSymbol marks an absent label.
const NoSymbol Sym = math.MaxUint32

// Reserved special symbols. Their ids are identical in every Vocabulary.
const (
	Epsilon   Sym = Sym(Special)<<kindShift | iota
	Rho           // matches anything not otherwise listed, consuming
	Sigma         // matches any single symbol
	Phi           // matches anything not otherwise listed, non-consuming
	SentStart     // <s>
	SentEnd       // </s>
	Unknown       // <unk>
)

var specialNames = []string{"<eps>", "<rho>", "<sigma>", "<phi>", "<s>", "</s>", "<unk>"}

// Sentinel errors.
var (
	// ErrBadToken is returned when a text token cannot be read as a symbol.
	ErrBadToken = errors.New("vocab: malformed symbol token")

	// ErrUnknownSpecial is returned for an unregistered <special> token.
	ErrUnknownSpecial = errors.New("vocab: unknown special symbol")
)

func makeSym(k Kind, idx int) Sym { return Sym(k)<<kindShift | Sym(idx&indexMask) }

// Kind returns the symbol class. NoSymbol reports an out-of-range kind.
func (s Sym) Kind() Kind { return Kind(s >> kindShift) }

// Index returns the dense per-class index.
func (s Sym) Index() int { return int(s & indexMask) }

// IsLexical reports whether s is an ordinary terminal.
func (s Sym) IsLexical() bool { return s != NoSymbol && s.Kind() == Lexical }

// IsSpecial reports whether s is a reserved terminal.
func (s Sym) IsSpecial() bool { return s != NoSymbol && s.Kind() == Special }

// IsTerminal reports whether s is lexical or special.
func (s Sym) IsTerminal() bool { return s.IsLexical() || s.IsSpecial() }

// IsNonterminal reports whether s is a grammar category.
func (s Sym) IsNonterminal() bool { return s != NoSymbol && s.Kind() == Nonterminal }

// IsEpsilon reports whether s is <eps>.
func (s Sym) IsEpsilon() bool { return s == Epsilon }

type key struct {
	name string
	kind Kind
}

// Vocabulary interns symbol names per kind.
type Vocabulary struct {
	mu    sync.RWMutex
	ids   map[key]Sym
	names [3][]string
}

// New returns a Vocabulary holding only the reserved specials.
func New() *Vocabulary {
	v := &Vocabulary{ids: make(map[key]Sym, 64)}
	for _, name := range specialNames {
		v.addLocked(name, Special)
	}
	return v
}

// Add interns name under kind and returns its id. Adding an existing name is a no-op.
func (v *Vocabulary) Add(name string, kind Kind) Sym {
	name = norm.NFC.String(name)
	v.mu.RLock()
	s, ok := v.ids[key{name, kind}]
	v.mu.RUnlock()
	if ok {
		return s
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if s, ok = v.ids[key{name, kind}]; ok {
		return s
	}
	return v.addLocked(name, kind)
}

func (v *Vocabulary) addLocked(name string, kind Kind) Sym {
	s := makeSym(kind, len(v.names[kind]))
	v.names[kind] = append(v.names[kind], name)
	v.ids[key{name, kind}] = s
	return s
}

// Lookup returns the id of name under kind.
func (v *Vocabulary) Lookup(name string, kind Kind) (Sym, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	s, ok := v.ids[key{norm.NFC.String(name), kind}]
	return s, ok
}

// Classify returns the kind of s and whether s belongs to this vocabulary.
func (v *Vocabulary) Classify(s Sym) (Kind, bool) {
	if s == NoSymbol {
		return 0, false
	}
	k := s.Kind()
	if k > Nonterminal {
		return 0, false
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	return k, s.Index() < len(v.names[k])
}

// Str returns the bare name of s ("" if unknown).
func (v *Vocabulary) Str(s Sym) string {
	k, ok := v.Classify(s)
	if !ok {
		return ""
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.names[k][s.Index()]
}

// Size returns the number of symbols of the given kind.
func (v *Vocabulary) Size(kind Kind) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.names[kind])
}

// Format renders s in its text form: quoted lexical, <special>, bare nonterminal.
func (v *Vocabulary) Format(s Sym) string {
	if s == NoSymbol {
		return "-"
	}
	name := v.Str(s)
	switch s.Kind() {
	case Lexical:
		return strconv.Quote(name)
	case Special, Nonterminal:
		if name == "" {
			return fmt.Sprintf("?%d", uint32(s))
		}
		return name
	}
	return fmt.Sprintf("?%d", uint32(s))
}

// Parse reads one text token. Lexical and nonterminal names are added when missing;
// special tokens must already be registered.
func (v *Vocabulary) Parse(tok string) (Sym, error) {
	switch {
	case tok == "":
		return NoSymbol, ErrBadToken
	case tok[0] == '"':
		name, err := strconv.Unquote(tok)
		if err != nil {
			return NoSymbol, fmt.Errorf("%w: %s", ErrBadToken, tok)
		}
		return v.Add(name, Lexical), nil
	case strings.HasPrefix(tok, "<") && strings.HasSuffix(tok, ">") && len(tok) > 2:
		s, ok := v.Lookup(tok, Special)
		if !ok {
			return NoSymbol, fmt.Errorf("%w: %s", ErrUnknownSpecial, tok)
		}
		return s, nil
	case strings.ContainsAny(tok, "\" \t"):
		return NoSymbol, fmt.Errorf("%w: %s", ErrBadToken, tok)
	}
	return v.Add(tok, Nonterminal), nil
}
