package semiring

import "math"

// Log is a cost in the log semiring: alternatives are summed in probability space.
type Log float64

// Zero returns +inf, the cost of an impossible path.
func (Log) Zero() Log { return Log(math.Inf(1)) }

// One returns the zero cost.
func (Log) One() Log { return 0 }

// Plus returns -log(exp(-a) + exp(-b)), computed stably.
func (a Log) Plus(b Log) Log {
	x, y := float64(a), float64(b)
	if math.IsInf(x, 1) {
		return b
	}
	if math.IsInf(y, 1) {
		return a
	}
	lo, hi := x, y
	if hi < lo {
		lo, hi = hi, lo
	}
	return Log(lo - math.Log1p(math.Exp(lo-hi)))
}

// Times adds costs.
func (a Log) Times(b Log) Log { return a + b }

// Value returns the cost as a float.
func (a Log) Value() float64 { return float64(a) }

// IsZero reports whether a is +inf.
func (a Log) IsZero() bool { return math.IsInf(float64(a), 1) }

// IsOne reports whether a is the zero cost.
func (a Log) IsOne() bool { return a == 0 }

// FromCost converts a plain cost.
func (Log) FromCost(c float64) Log { return Log(c) }

// String formats a like a Viterbi cost; +inf prints as "inf".
func (a Log) String() string { return formatCost(float64(a)) }

// Parse reads a cost written by String.
//
// Errors: ErrBadWeight.
func (Log) Parse(s string) (Log, error) {
	f, err := parseCost(s)
	return Log(f), err
}
