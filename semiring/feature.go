package semiring

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// FeatureVector is a sparse vector with strictly increasing indices.
// The zero value is the empty vector.
type FeatureVector struct {
	Indices []uint32
	Values  []float64
}

// NewFeatureVector builds a vector from an id→value map, dropping zeros.
func NewFeatureVector(m map[uint32]float64) FeatureVector {
	fv := FeatureVector{
		Indices: make([]uint32, 0, len(m)),
		Values:  make([]float64, 0, len(m)),
	}
	for id, v := range m {
		if v != 0 {
			fv.Indices = append(fv.Indices, id)
		}
	}
	sort.Slice(fv.Indices, func(i, j int) bool { return fv.Indices[i] < fv.Indices[j] })
	for _, id := range fv.Indices {
		fv.Values = append(fv.Values, m[id])
	}
	return fv
}

// Len returns the number of non-zero entries.
func (fv FeatureVector) Len() int { return len(fv.Indices) }

// Get returns the value at id (0 if absent).
func (fv FeatureVector) Get(id uint32) float64 {
	i := sort.Search(len(fv.Indices), func(i int) bool { return fv.Indices[i] >= id })
	if i < len(fv.Indices) && fv.Indices[i] == id {
		return fv.Values[i]
	}
	return 0
}

// Dot returns the dot product with a dense weight vector.
func (fv FeatureVector) Dot(dense []float64) float64 {
	var sum float64
	for i, id := range fv.Indices {
		if int(id) < len(dense) {
			sum += fv.Values[i] * dense[id]
		}
	}
	return sum
}

// AddScaled returns fv + scale·o as a new vector. Entries that cancel are dropped.
func (fv FeatureVector) AddScaled(o FeatureVector, scale float64) FeatureVector {
	if o.Len() == 0 || scale == 0 {
		return fv
	}
	if fv.Len() == 0 && scale == 1 {
		return o
	}
	out := FeatureVector{
		Indices: make([]uint32, 0, fv.Len()+o.Len()),
		Values:  make([]float64, 0, fv.Len()+o.Len()),
	}
	i, j := 0, 0
	for i < fv.Len() || j < o.Len() {
		var id uint32
		var v float64
		switch {
		case j >= o.Len() || (i < fv.Len() && fv.Indices[i] < o.Indices[j]):
			id, v = fv.Indices[i], fv.Values[i]
			i++
		case i >= fv.Len() || o.Indices[j] < fv.Indices[i]:
			id, v = o.Indices[j], scale*o.Values[j]
			j++
		default:
			id, v = fv.Indices[i], fv.Values[i]+scale*o.Values[j]
			i++
			j++
		}
		if v != 0 {
			out.Indices = append(out.Indices, id)
			out.Values = append(out.Values, v)
		}
	}
	return out
}

// Feature is a Viterbi cost annotated with the sparse features that produced it.
// Plus keeps the cheaper alternative together with its features; Times adds costs
// and merges the vectors.
type Feature struct {
	Cost     float64
	Features FeatureVector
}

// Zero has cost +inf and no features.
func (Feature) Zero() Feature { return Feature{Cost: math.Inf(1)} }

// One has cost 0 and no features.
func (Feature) One() Feature { return Feature{} }

// Plus keeps the cheaper operand with its features; ties keep a.
func (a Feature) Plus(b Feature) Feature {
	if b.Cost < a.Cost {
		return b
	}
	return a
}

// Times adds costs and feature vectors.
func (a Feature) Times(b Feature) Feature { return a.ScaledTimes(b, 1) }

// ScaledTimes multiplies a by b whose cost and features are first scaled by scale.
func (a Feature) ScaledTimes(b Feature, scale float64) Feature {
	if a.IsZero() || b.IsZero() {
		return a.Zero()
	}
	return Feature{
		Cost:     a.Cost + scale*b.Cost,
		Features: a.Features.AddScaled(b.Features, scale),
	}
}

// Value returns the cost.
func (a Feature) Value() float64 { return a.Cost }

// IsZero reports an infinite cost.
func (a Feature) IsZero() bool { return math.IsInf(a.Cost, 1) }

// IsOne reports a zero cost with no features.
func (a Feature) IsOne() bool { return a.Cost == 0 && a.Features.Len() == 0 }

// FromCost returns c with no features.
func (Feature) FromCost(c float64) Feature { return Feature{Cost: c} }

// String renders "cost" or "cost[id=v,...]".
func (a Feature) String() string {
	if a.Features.Len() == 0 {
		return formatCost(a.Cost)
	}
	var sb strings.Builder
	sb.WriteString(formatCost(a.Cost))
	sb.WriteByte('[')
	for i, id := range a.Features.Indices {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
		sb.WriteByte('=')
		sb.WriteString(strconv.FormatFloat(a.Features.Values[i], 'g', -1, 64))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Parse reads "cost" or "cost[id=v,...]".
func (Feature) Parse(s string) (Feature, error) {
	s = strings.TrimSpace(s)
	head, rest, hasFeats := strings.Cut(s, "[")
	cost, err := parseCost(head)
	if err != nil {
		return Feature{}, err
	}
	if !hasFeats {
		return Feature{Cost: cost}, nil
	}
	body, ok := strings.CutSuffix(rest, "]")
	if !ok {
		return Feature{}, fmt.Errorf("%w: unterminated features in %q", ErrBadWeight, s)
	}
	m := make(map[uint32]float64)
	if body != "" {
		for _, kv := range strings.Split(body, ",") {
			ks, vs, ok := strings.Cut(kv, "=")
			if !ok {
				return Feature{}, fmt.Errorf("%w: feature %q", ErrBadWeight, kv)
			}
			id, err := strconv.ParseUint(ks, 10, 32)
			if err != nil {
				return Feature{}, fmt.Errorf("%w: feature id %q", ErrBadWeight, ks)
			}
			v, err := strconv.ParseFloat(vs, 64)
			if err != nil {
				return Feature{}, fmt.Errorf("%w: feature value %q", ErrBadWeight, vs)
			}
			m[uint32(id)] += v
		}
	}
	return Feature{Cost: cost, Features: NewFeatureVector(m)}, nil
}
