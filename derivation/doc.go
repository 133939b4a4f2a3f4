// Package derivation represents one concrete derivation (path or parse tree)
// through a hypergraph.
//
// A Node is tagged with the arc it derives from and holds one child per tail of that
// arc. Tails that are axioms (terminal-labeled states or the start state) get the
// shared Axiom sentinel as their child. Subtrees may be shared between derivations,
// as the k-best enumerator does; operations that need a true tree (ToHypergraph)
// reject sharing with ErrShared. Traversals keep an explicit set of nodes currently
// on the stack, so a cyclic structure yields ErrCycle instead of looping.
package derivation
