package semiring

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Viterbi is a tropical (min, +) cost.
type Viterbi float64

// Zero returns +inf, the cost of an impossible path.
func (Viterbi) Zero() Viterbi { return Viterbi(math.Inf(1)) }

// One returns the zero cost.
func (Viterbi) One() Viterbi { return 0 }

// Plus keeps the cheaper cost.
func (a Viterbi) Plus(b Viterbi) Viterbi {
	if b < a {
		return b
	}
	return a
}

// Times adds costs.
func (a Viterbi) Times(b Viterbi) Viterbi { return a + b }

// Value returns the cost as a float.
func (a Viterbi) Value() float64 { return float64(a) }

// IsZero reports whether a is +inf.
func (a Viterbi) IsZero() bool { return math.IsInf(float64(a), 1) }

// IsOne reports whether a is the zero cost.
func (a Viterbi) IsOne() bool { return a == 0 }

// Parse reads a decimal cost; "inf" and "-inf" are accepted in any case.
//
// Errors: ErrBadWeight.
func (Viterbi) Parse(s string) (Viterbi, error) {
	f, err := parseCost(s)
	return Viterbi(f), err
}

// FromCost converts a plain cost.
func (Viterbi) FromCost(c float64) Viterbi { return Viterbi(c) }

// String prints a with the shortest exact decimal; +inf prints as "inf".
func (a Viterbi) String() string { return formatCost(float64(a)) }

func parseCost(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "inf", "+inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadWeight, s)
	}
	return f, nil
}

func formatCost(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
