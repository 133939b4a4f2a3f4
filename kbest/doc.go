// Package kbest enumerates the k cheapest derivations of a hypergraph's final state.
//
// The enumeration works on a binarized forest built over the hypergraph: every state
// becomes a node whose incoming edges are its arcs, and an arc with n > 2 tails is
// split into a left-deep chain of binary nodes over its tail prefixes. Each node keeps
// the derivations found so far in cost order plus a heap of candidates; the next-best
// derivation of a node is produced on demand by advancing one child rank of the last
// derivation it emitted (Huang and Chiang, 2005, algorithm 3).
//
// Rank 0 of every node is seeded from bestpath.Compute, so the first derivation is the
// single best one. A node that is asked for a rank while it is computing one, which
// only happens through a cycle, answers "pending"; the request is parked and retried
// before the node's next extraction.
//
// With negative costs the seed can be wrong. A candidate queued with seed costs is
// re-evaluated against the child ranks actually emitted before it is accepted, and a
// derivation found cheaper than one already emitted is moved into place.
//
// WithNbestPerString keeps at most n derivations per distinct yield (terminal string
// on the chosen side, epsilons dropped). WithMaxSkipped bounds how many duplicates are
// discarded before giving up. Enumeration ends early when the forest runs out of
// derivations; termination is only guaranteed when the number of derivations (or of
// distinct yields, with filtering) is finite or a skip bound is set.
package kbest
