// Package semiring defines the weight contract shared by every hypergraph algorithm
// and the four weight types used by the decoding pipeline.
//
// A weight type W satisfies Weight[W]: it provides the semiring constants (Zero, One),
// the two operations (Plus combines alternatives, Times combines a sequence) and a
// scalar Value used as a cost for ordering. Lower Value is better.
//
// Weight types:
//
//	Viterbi     – tropical min-cost: Plus = min, Times = +, Zero = +Inf, One = 0
//	Log         – log semiring on costs: Plus = -log(e^-a + e^-b), Times = +
//	Expectation – (p, r) pairs: Plus component-wise, Times = (p1·p2, p1·r2 + p2·r1)
//	Feature     – Viterbi cost carrying a sparse feature vector merged under Times
//
// Zero and One are called on the zero value of W, so generic code obtains them with
//
//	var w W
//	one := w.One()
//
// Text forms (Parse/String): "2.5", "inf", Expectation "0.25,0.1",
// Feature "2.5[3=1,7=0.5]".
package semiring
