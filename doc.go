// Package hypergraph is a weighted hypergraph engine for decoding pipelines:
// finite-state automata, context-free forests and everything in between share one
// store and one set of algorithms.
//
// 🚀 What is hypergraph?
//
//	A generic, property-tracked library that brings together:
//		• Core store: states, an arc arena, adjacency indices & a property bitmask
//		• Semirings: Viterbi, Log, Expectation & sparse Feature weights
//		• Determinization: subset construction aware of <eps>, <rho>, <sigma>, <phi>
//		• Composition: Earley chart (grammar · transducer) & lazy transducer · transducer
//		• Search: single best path (acyclic or best-first) & lazy k-best
//		• Derivations: trees, yields & re-materialization into hypergraphs
//
// ✨ Why choose hypergraph?
//
//   - One type for FSMs and CFG forests – an FSM arc is a hyperarc with two tails
//   - Weights are type parameters – no boxing, no runtime semiring switches
//   - Errors, not surprises – every expected failure is a wrapped core sentinel
//   - Deterministic – same input and options ⇒ identical output
//
// Packages:
//
//	semiring/    — Weight constraint and the four weight types
//	vocab/       — symbol table, symbol kinds and reserved specials
//	core/        — the Hypergraph store and its properties
//	dfs/, bfs/   — topological order, derivability, trimming, FSM acceptance
//	determinize/ — unweighted FSM determinization
//	compose/     — chart and lazy composition
//	bestpath/    — single best derivation
//	kbest/       — k best derivations with duplicate-yield filtering
//	derivation/  — derivation trees
//	hgtext/      — the line-oriented text format
//	builder/     — deterministic chains, lattices, grammars and random automata
//	config/      — YAML options for cmd/hgtool
//
// Quick ASCII example, the FSM "a b" as hyperarcs:
//
//	    1 <- 0 "a"
//	    2 <- 1 "b"
//
//	each arc derives its head from the source state and a terminal-labeled state.
//
//	go install github.com/katalvlaran/hypergraph/cmd/hgtool@latest
package hypergraph
