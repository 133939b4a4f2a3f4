package builder

import (
	"fmt"
	"math"
	"math/rand"
)

// DefaultArcCost is the cost of every arc when no CostFn is configured.
const DefaultArcCost float64 = 0

// CostFn produces an arc cost from an optional *rand.Rand source.
// It must be deterministic for a given RNG seed.
type CostFn func(rng *rand.Rand) float64

// DefaultCostFn always returns DefaultArcCost.
func DefaultCostFn(_ *rand.Rand) float64 {
	return DefaultArcCost
}

// ConstantCostFn returns a CostFn that always yields value.
// Panics on NaN.
func ConstantCostFn(value float64) CostFn {
	if math.IsNaN(value) {
		panic("ConstantCostFn: NaN cost")
	}
	return func(_ *rand.Rand) float64 { return value }
}

// UniformCostFn samples uniformly in [min, max). Panics if max < min.
// Yields min when rng is nil.
func UniformCostFn(min, max float64) CostFn {
	if max < min {
		panic(fmt.Sprintf("UniformCostFn: require min ≤ max, got min=%g, max=%g", min, max))
	}
	return func(rng *rand.Rand) float64 {
		if rng == nil || max == min {
			return min
		}
		return min + rng.Float64()*(max-min)
	}
}

// IntegerCostFn samples integers uniformly in [min, max]. Integer costs keep sums
// exact, which makes k-best orderings easy to assert on. Panics if max < min.
func IntegerCostFn(min, max int) CostFn {
	if max < min {
		panic(fmt.Sprintf("IntegerCostFn: require min ≤ max, got min=%d, max=%d", min, max))
	}
	return func(rng *rand.Rand) float64 {
		if rng == nil {
			return float64(min)
		}
		return float64(min + rng.Intn(max-min+1))
	}
}
