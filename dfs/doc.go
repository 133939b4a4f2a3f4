// Package dfs implements depth-first traversal, topological ordering and cycle
// detection over the derivation edges of a core.Hypergraph.
//
// Every arc head <- t1 ... tn contributes the edges ti → head: a state must be
// derived before any state built from it. Traversal goes Forward along these edges
// or Backward from a head to its tails.
//
// What:
//
//   - DFS: iterative depth-first search from root states with pre-/post-order hooks,
//     depth limit, cancellation and full (forest) traversal.
//   - TopologicalSort: an order in which every tail precedes the heads of its arcs.
//     With WithMaxBackArcs(n) up to n back arcs are tolerated and reported, so nearly
//     acyclic hypergraphs can still be relaxed in one pass.
//   - FindCycle: one cycle of states, for diagnostics.
//
// Key Types & Constants:
//
//   - White, Gray, Black: visitation markers
//   - Direction: Forward (tail→head) or Backward (head→tails)
//   - Option / TopoOption: functional options
//   - Result: post-order, discovery depth, parent arc, visited flags
//
// Complexity:
//
//   - DFS:             Time O(S + A·T), Memory O(S)
//   - TopologicalSort: Time O(S + A·T), Memory O(S + A·T)
//
// Errors:
//
//   - ErrGraphNil             nil hypergraph
//   - ErrStartStateNotFound   root state not in the hypergraph
//   - ErrCycleDetected        cycle found (wraps core.ErrCycle)
//   - context.Canceled        traversal canceled via context
//   - hook errors             propagated from OnVisit or OnExit
package dfs
