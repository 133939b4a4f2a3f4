// Package builder provides deterministic generators of hypergraph fixtures: word
// chains, lattices, random automata and context-free grammars. They drive the
// property tests of the algorithm packages and the CLI's demo inputs.
//
// The package offers the following key components:
//
//   - Orchestration:
//     – Build:            creates a hypergraph and applies Constructors in order.
//     – Constructor:      a deterministic mutation of a hypergraph.
//   - Configuration primitives:
//     – BuilderOption:    mutates builderConfig before use.
//     – builderConfig:    RNG, alphabet, cost function, epsilon probability.
//   - Cost distributions (CostFn implementations):
//     – DefaultCostFn:    constant DefaultArcCost.
//     – ConstantCostFn:   fixed user-provided value.
//     – UniformCostFn:    uniform ∼U[min,max).
//     – IntegerCostFn:    uniform integers in [min,max].
//   - Constructors:
//     – Chain:            single-path FSM accepting one sentence.
//     – Lattice:          acyclic FSM with a fixed number of alternatives per position.
//     – RandomFSM:        random automaton (cycles and epsilons allowed).
//     – Grammar:          CFG from "LHS -> rhs ..." rules.
//     – RandomCFG:        random grammar whose every nonterminal is derivable.
//
// Guarantees:
//
//   - Determinism: same inputs, options and seed ⇒ identical hypergraphs.
//   - Fast-fail on meaningless option values via panics in option constructors.
//   - Constructors never panic; they return sentinel errors wrapped with the
//     constructor name.
package builder
