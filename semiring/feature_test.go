package semiring_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/hypergraph/semiring"
)

// FeatureVectorSuite groups tests for the sparse feature vector.
type FeatureVectorSuite struct {
	suite.Suite
	a, b semiring.FeatureVector
}

func (s *FeatureVectorSuite) SetupTest() {
	s.a = semiring.NewFeatureVector(map[uint32]float64{7: 1, 2: 3, 4: 0})
	s.b = semiring.NewFeatureVector(map[uint32]float64{2: -1, 9: 2})
}

// TestNewDropsZerosAndSorts: indices strictly increase, zero entries vanish.
func (s *FeatureVectorSuite) TestNewDropsZerosAndSorts() {
	require.Equal(s.T(), []uint32{2, 7}, s.a.Indices)
	require.Equal(s.T(), []float64{3, 1}, s.a.Values)
	require.Equal(s.T(), 0.0, s.a.Get(4))
	require.Equal(s.T(), 0, semiring.FeatureVector{}.Len())
}

// TestAddScaled merges both index sets.
func (s *FeatureVectorSuite) TestAddScaled() {
	sum := s.a.AddScaled(s.b, 3)
	require.Equal(s.T(), []uint32{7, 9}, sum.Indices, "cancelled entry at 2 must be dropped")
	require.Equal(s.T(), []float64{1, 6}, sum.Values)
}

// TestAddScaledShortcuts returns an operand unchanged when the other side is neutral.
func (s *FeatureVectorSuite) TestAddScaledShortcuts() {
	require.Equal(s.T(), s.a, s.a.AddScaled(s.b, 0))
	require.Equal(s.T(), s.b, semiring.FeatureVector{}.AddScaled(s.b, 1))
	require.Equal(s.T(), s.a, s.a.AddScaled(semiring.FeatureVector{}, 2))
}

// TestDot ignores indices past the dense vector.
func (s *FeatureVectorSuite) TestDot() {
	dense := []float64{0, 0, 0.5, 0, 0, 0, 0, 2}
	require.InDelta(s.T(), 3.5, s.a.Dot(dense), 1e-12)
	require.InDelta(s.T(), -0.5, s.b.Dot(dense), 1e-12)
}

// TestWeightText: features survive a String/Parse round trip.
func (s *FeatureVectorSuite) TestWeightText() {
	w := semiring.Feature{Cost: 1.5, Features: s.a}
	require.Equal(s.T(), "1.5[2=3,7=1]", w.String())

	back, err := semiring.Feature{}.Parse(w.String())
	require.NoError(s.T(), err)
	require.Equal(s.T(), w, back)

	_, err = semiring.Feature{}.Parse("1[2=3")
	require.ErrorIs(s.T(), err, semiring.ErrBadWeight)
}

// TestZeroAnnihilates even with features attached.
func (s *FeatureVectorSuite) TestZeroAnnihilates() {
	w := semiring.Feature{Cost: 2, Features: s.b}
	z := w.ScaledTimes(w.Zero(), 0.5)
	require.True(s.T(), z.IsZero())
	require.True(s.T(), math.IsInf(z.Value(), 1))
	require.Equal(s.T(), 0, z.Features.Len())
}

func TestFeatureVectorSuite(t *testing.T) {
	suite.Run(t, new(FeatureVectorSuite))
}
