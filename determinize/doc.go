// Package determinize turns an unweighted FSM-shaped hypergraph into an equivalent
// deterministic one by epsilon closure and subset construction.
//
// Epsilon is always special: it is followed without consuming input. Rho, phi and
// sigma are each treated as Special or Ordinary:
//
//	rho    special: "else", taken from a source state only for symbols it does not list
//	sigma  special: wildcard, matches every symbol (and the else case)
//	phi    special: failure, a non-consuming move tried only when nothing else matches
//
// An Ordinary treatment makes the symbol a plain label. Rho defaults to Special; phi
// and sigma have no default and their presence without an explicit treatment is a
// configuration error. Weighted input is rejected: weighted determinization is not
// provided.
//
// The output has one arc per (state, label) pair. The "else" case of a subset is
// emitted as a <rho> arc. When several subsets contain the source final state, they
// are joined by epsilon arcs into one fresh final state.
package determinize
