package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBasic(t *testing.T) {
	sum, ok := Compute([]float64{1, 2, 3, 4})
	require.True(t, ok)
	assert.Equal(t, 1.0, sum.Min)
	assert.Equal(t, 4.0, sum.Max)
	assert.Equal(t, 2.5, sum.Mean)
	assert.Equal(t, 2.5, sum.Median)
	// Population stddev: sqrt(1.25).
	assert.InDelta(t, 1.118, sum.StdDev, 0.001)
	assert.Equal(t, 4, sum.Unique)
	assert.Equal(t, 0, sum.NonFinite)
}

func TestComputeEmpty(t *testing.T) {
	_, ok := Compute(nil)
	assert.False(t, ok)

	_, ok = Compute([]float64{})
	assert.False(t, ok)
}

func TestComputeOddMedian(t *testing.T) {
	sum, ok := Compute([]float64{9, 1, 5})
	require.True(t, ok)
	assert.Equal(t, 5.0, sum.Median)
}

func TestComputeUniqueCountsDistinct(t *testing.T) {
	sum, ok := Compute([]float64{2, 2, 2, 7})
	require.True(t, ok)
	assert.Equal(t, 2, sum.Unique)
}

func TestComputeExcludesNonFinite(t *testing.T) {
	sum, ok := Compute([]float64{1, math.NaN(), 3, math.Inf(1)})
	require.True(t, ok)
	assert.Equal(t, 1.0, sum.Min)
	assert.Equal(t, 3.0, sum.Max)
	assert.Equal(t, 2.0, sum.Mean)
	assert.Equal(t, 2, sum.NonFinite)
	assert.Equal(t, 2, sum.Unique)
}

func TestComputeAllNonFinite(t *testing.T) {
	sum, ok := Compute([]float64{math.NaN(), math.Inf(-1)})
	assert.False(t, ok)
	assert.Equal(t, 2, sum.NonFinite)
}

func TestComputeSingleValue(t *testing.T) {
	sum, ok := Compute([]float64{42})
	require.True(t, ok)
	assert.Equal(t, 42.0, sum.Min)
	assert.Equal(t, 42.0, sum.Max)
	assert.Equal(t, 42.0, sum.Median)
	assert.Equal(t, 0.0, sum.StdDev)
	assert.Equal(t, 1, sum.Unique)
}
