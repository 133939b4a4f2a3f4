// Package core provides the hypergraph store shared by every algorithm in this module.
//
// A Hypergraph H = (S, A) generalizes both finite-state automata and context-free
// grammars:
//
//   - States are dense integer ids 0..N-1. Each carries a Label (input and optional
//     output vocab.Sym). A state labeled with a terminal, or equal to the start state,
//     is an axiom: a valid leaf of a derivation.
//   - Arcs live in an arena addressed by ArcID. Each has a head state, an ordered,
//     non-empty list of tail states and a semiring weight.
//   - An FSM arc has exactly two tails: the source state and a terminal-labeled state
//     carrying the transition label. "dst <- src "a"" reads "from src, on a, go to dst".
//   - A graph arc generalizes the FSM arc to N tails whose non-first tails are terminals.
//   - Start is optional; Final is the goal. A hypergraph without a final state denotes the
//     empty language.
//
// Properties:
//
// A Properties bitmask records both which adjacency indices are maintained
// (StoreInArcs, StoreOutArcs, StoreFirstTailOutArcs, CanonicalLex) and which structural
// shapes hold (FSM, Graph, OneLexical, SortedOutArcs, Acyclic, Unweighted). Shape bits
// are computed lazily by one linear scan, cached, and invalidated by any arc or label
// mutation.
//
//	HasProperties(mask)        – computes unknown bits in mask, reports mask ⊆ props
//	ForceProperties(mask, on)  – builds indices, sorts, or rechecks; conflicts are errors
//
// Errors:
//
//	ErrConfig        – contradictory options/properties, frozen store, vocabulary mismatch
//	ErrInvalidInput  – structurally wrong input for the requested operation
//	ErrEmptySet      – no derivation exists
//	ErrCycle         – a cycle was found where a tree was required
//
// Every package of this module wraps these kinds, so callers branch with errors.Is
// regardless of which algorithm failed. Invariant violations panic.
//
// Concurrency:
//
// Mutation is not synchronized. A built store may be read by concurrent algorithm runs;
// the property cache is guarded by a mutex so lazy recomputation never races.
package core
