// Package vocab maps symbols to opaque integer ids and back.
//
// A Sym packs its class into the two high bits of a uint32:
//
//	Lexical     – ordinary terminals ("the", "cat")
//	Special     – reserved terminals (<eps>, <rho>, <sigma>, <phi>, <s>, </s>, <unk>)
//	Nonterminal – grammar categories (S, NP)
//
// The special symbols have fixed ids shared by every Vocabulary, so Epsilon or Rho can
// be compared without a vocabulary at hand. Lexical and nonterminal ids are dense per
// class, in insertion order. Names are NFC-normalized on insertion and lookup so that
// differently composed Unicode spellings of the same word share one id.
//
// Text forms (used by hgtext and derivation printing):
//
//	"word"   lexical (Go-quoted)
//	<eps>    special
//	NP       nonterminal (bare)
//
// A Vocabulary is safe for concurrent use.
package vocab
