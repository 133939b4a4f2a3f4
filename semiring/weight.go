package semiring

import (
	"errors"
	"math"
)

// ErrBadWeight is returned when a weight's text form cannot be parsed.
var ErrBadWeight = errors.New("semiring: malformed weight")

// Weight is the contract every weight type satisfies. Methods are value-receiver and
// never mutate the receiver.
type Weight[W any] interface {
	Zero() W
	One() W
	Plus(W) W
	Times(W) W
	// Value is the ordering cost; lower is better, Zero has +Inf.
	Value() float64
	IsZero() bool
	IsOne() bool
	Parse(string) (W, error)
	// FromCost returns the weight whose Value is c.
	FromCost(c float64) W
	String() string
}

// Zero returns the additive identity of W.
func Zero[W Weight[W]]() W {
	var w W
	return w.Zero()
}

// One returns the multiplicative identity of W.
func One[W Weight[W]]() W {
	var w W
	return w.One()
}

// Parse reads the text form of a W.
func Parse[W Weight[W]](s string) (W, error) {
	var w W
	return w.Parse(s)
}

// FromCost returns the W whose Value is c.
func FromCost[W Weight[W]](c float64) W {
	var w W
	return w.FromCost(c)
}

// Product multiplies ws left to right; the empty product is One.
func Product[W Weight[W]](ws ...W) W {
	acc := One[W]()
	for _, w := range ws {
		acc = acc.Times(w)
	}
	return acc
}

// Better reports whether a is strictly cheaper than b.
func Better[W Weight[W]](a, b W) bool {
	return a.Value() < b.Value()
}

// Approx reports whether a and b have costs within eps of each other.
// Two infinite costs of the same sign are equal.
func Approx[W Weight[W]](a, b W, eps float64) bool {
	va, vb := a.Value(), b.Value()
	if math.IsInf(va, 0) || math.IsInf(vb, 0) {
		return va == vb
	}
	return math.Abs(va-vb) <= eps
}

// Idempotent reports whether One ⊕ One == One for W, i.e. whether summing a
// duplicated path leaves the total unchanged.
func Idempotent[W Weight[W]]() bool {
	one := One[W]()
	return Approx(one.Plus(one), one, 1e-12)
}
