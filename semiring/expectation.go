package semiring

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Expectation is the first-order expectation semiring over (probability, value) pairs.
// Summing over all derivations yields (Z, Σ p·r), from which expectations follow.
type Expectation struct {
	P float64
	R float64
}

// Zero returns {0, 0}.
func (Expectation) Zero() Expectation { return Expectation{} }

// One returns {1, 0}.
func (Expectation) One() Expectation { return Expectation{P: 1} }

// Plus adds both components.
func (a Expectation) Plus(b Expectation) Expectation {
	return Expectation{P: a.P + b.P, R: a.R + b.R}
}

// Times is the product rule: {p1·p2, p1·r2 + p2·r1}.
func (a Expectation) Times(b Expectation) Expectation {
	return Expectation{P: a.P * b.P, R: a.P*b.R + b.P*a.R}
}

// Value is -log P, so more probable pairs sort first.
func (a Expectation) Value() float64 {
	if a.P <= 0 {
		return math.Inf(1)
	}
	return -math.Log(a.P)
}

// IsZero reports whether both components are 0.
func (a Expectation) IsZero() bool { return a.P == 0 && a.R == 0 }

// IsOne reports whether a is {1, 0}.
func (a Expectation) IsOne() bool { return a.P == 1 && a.R == 0 }

// Expect returns R/P, the expected value under the distribution summed so far.
func (a Expectation) Expect() float64 {
	if a.P == 0 {
		return 0
	}
	return a.R / a.P
}

// FromCost returns {e^-c, 0}.
func (Expectation) FromCost(c float64) Expectation { return Expectation{P: math.Exp(-c)} }

// String renders "p,r".
func (a Expectation) String() string {
	return strconv.FormatFloat(a.P, 'g', -1, 64) + "," + strconv.FormatFloat(a.R, 'g', -1, 64)
}

// Parse reads "p,r" or a bare "p".
func (Expectation) Parse(s string) (Expectation, error) {
	ps, rs, hasR := strings.Cut(strings.TrimSpace(s), ",")
	p, err := strconv.ParseFloat(ps, 64)
	if err != nil {
		return Expectation{}, fmt.Errorf("%w: %q", ErrBadWeight, s)
	}
	var r float64
	if hasR {
		if r, err = strconv.ParseFloat(rs, 64); err != nil {
			return Expectation{}, fmt.Errorf("%w: %q", ErrBadWeight, s)
		}
	}
	return Expectation{P: p, R: r}, nil
}
