// Package bfs provides breadth-first reachability over a core.Hypergraph.
//
// What
//
//   - Derive: AND-reachability from the axioms. A head becomes derivable once every
//     tail of one of its arcs is derivable; the result records the generation (BFS
//     layer) of each state and the first arc that derived it.
//   - Coreachable: states from which the final state can be derived, following only
//     arcs whose tails are all derivable.
//   - Trim: restricts a hypergraph to its useful states (derivable and coreachable).
//   - Accepts: runs a symbol string through an FSM-shaped hypergraph, following
//     epsilon transitions freely.
//
// Determinism
//
//	Arcs are examined in arc id order and states are layered by generation, so
//	results are fully reproducible.
//
// Complexity (S = |States|, A = |Arcs|, T = max tails)
//
//   - Derive, Coreachable, Trim: O(S + A·T)
//   - Accepts: O(|input| · (S + A))
package bfs
