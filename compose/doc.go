// Package compose relates hypergraphs along matching labels.
//
// Chart composes a context-free hypergraph with a finite-state transducer using an
// Earley chart. Items are (CFG arc, dot, FST from, FST to, non-consuming) tuples,
// created at most once per run and processed from a FIFO agenda:
//
//	predict        the dot is before a nonterminal: add zero-dot items for its rules
//	scan           the dot is before a terminal: match it against the FST by exact
//	               label, <sigma>, or <rho> when neither matched; a terminal whose
//	               matched side is <eps> advances without consuming FST input
//	scan-epsilon   FST input-epsilon arcs are taken right before a terminal tail and
//	               after the goal item is complete, never anywhere else
//	complete       a finished item closes a nonterminal span and advances every item
//	               waiting for it, whichever of the two was found first
//
// Each item accumulates the ⊕ of the weights it was reached with and is expanded the
// first time that weight is nonzero. The result is built top down from the goal
// (CFG final over FST start..final) along recorded back-pointers, with one state per
// (CFG state, FST from, FST to) triple. Epsilon cycles of the FST are cut.
//
// Lazy composes two automata on demand: a state of the product is a (left, filter,
// right) triple and its transitions are computed when first asked for, then kept in a
// bounded LRU cache. The epsilon filter keeps interleaved epsilon moves from producing
// the same path twice. The right side must list its transitions sorted by input
// label; it may use <sigma>, <rho> and <phi>. Expand materializes the reachable part of
// any Automaton into a hypergraph.
package compose
