// Package bestpath computes, for every state of a hypergraph, the cheapest
// derivation and the arc it ends with.
//
// Two relaxation strategies are provided:
//
//   - Acyclic: one pass over a topological order of tails before heads. A bounded
//     number of back arcs may be tolerated; they are left out of the relaxation.
//     Time O(S + A·T).
//   - BestFirst: a Knuth (1977) generalization of Dijkstra's algorithm. Axioms are
//     seeded with One; an arc is relaxed once all its tails are settled, and states
//     are settled in order of increasing cost. Time O(A·T + S log S) with
//     non-negative costs.
//
// Auto picks Acyclic when the hypergraph is acyclic, or becomes so after removing at
// most WithMaxBackArcs back arcs, and BestFirst otherwise.
//
// Costs are compared through Weight.Value (lower is better) and combined with Times.
// With negative arc costs the best-first order is no longer monotone; WithMaxRereach
// lets a settled state be improved and re-propagated a bounded number of times and
// WithConvergence ignores improvements smaller than eps. Termination on negative
// cycles is only guaranteed by these bounds.
//
// Axioms (terminal-labeled states and the start) have cost One and no predecessor.
// An unreachable final state is not an error unless WithFailIfEmpty is given;
// Result.Derivation reports it as core.ErrEmptySet.
//
// Example:
//
//	res, err := bestpath.Compute(h)
//	if err != nil {
//		log.Fatal(err)
//	}
//	tree, err := res.Derivation()
package bestpath
