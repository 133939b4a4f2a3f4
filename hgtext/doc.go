// Package hgtext reads and writes the line-oriented hypergraph text format.
//
//	# comment
//	STATES <- 6
//	START <- 0
//	FINAL <- 3
//	4 "a"
//	5 "b":"x"
//	2 NP
//	1 <- 0 4 / 1.5
//	3 <- 1 5
//	3 <- 1 "c" / 0.25
//
// Directive lines set the state count, start and final state. A declaration
// "id LABEL[:OUT]" labels a state with a quoted lexical terminal, a <special> or a bare
// nonterminal, optionally with a different output symbol. An arc line "head <- tails
// [/ weight]" lists tail state ids; a tail may also be an inline terminal literal,
// which resolves to the terminal state for that label (canonical when the store keeps
// CanonicalLex). A missing weight means One.
//
// Print emits every state, label, arc and weight explicitly, so Parse(Print(h))
// reproduces h with identical ids.
package hgtext
