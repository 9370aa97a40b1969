package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipalComponentsSingleChannelSkips(t *testing.T) {
	res, err := principalComponents([][]float64{{1, 2, 3, 4}}, 2)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Nil(t, res.Components)
	assert.Nil(t, res.ExplainedVarianceRatio)
}

func TestPrincipalComponentsCorrelatedChannels(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	const n = 2048
	base := make([]float64, n)
	for i := range base {
		base[i] = math.Sin(2 * math.Pi * 10 * float64(i) / 256)
	}
	echo := make([]float64, n)
	for i := range echo {
		echo[i] = 2*base[i] + rng.NormFloat64()*0.01
	}

	res, err := principalComponents([][]float64{base, echo}, 2)
	require.NoError(t, err)
	require.False(t, res.Skipped)
	require.Len(t, res.ExplainedVarianceRatio, 2)
	require.Len(t, res.Components, 2)
	assert.Len(t, res.Components[0], n)

	// Two nearly identical channels collapse onto one direction.
	assert.Greater(t, res.ExplainedVarianceRatio[0], 0.95)
	assert.InDelta(t, 1.0, res.CumulativeVarianceRatio[1], 1e-6)
}

func TestPrincipalComponentsIndependentChannels(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	const n = 8192
	a := make([]float64, n)
	b := make([]float64, n)
	for i := range a {
		a[i] = rng.NormFloat64()
		b[i] = rng.NormFloat64()
	}

	res, err := principalComponents([][]float64{a, b}, 2)
	require.NoError(t, err)

	// Independent unit-variance channels split the variance roughly evenly.
	assert.InDelta(t, 0.5, res.ExplainedVarianceRatio[0], 0.1)
	assert.GreaterOrEqual(t, res.ExplainedVarianceRatio[0], res.ExplainedVarianceRatio[1])
	assert.InDelta(t, 1.0, res.CumulativeVarianceRatio[1], 1e-6)
}

func TestPrincipalComponentsRatiosMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	const n = 4096
	rows := make([][]float64, 4)
	for i := range rows {
		rows[i] = make([]float64, n)
		for k := range rows[i] {
			rows[i][k] = rng.NormFloat64() * float64(i+1)
		}
	}

	res, err := principalComponents(rows, 4)
	require.NoError(t, err)
	require.Len(t, res.ExplainedVarianceRatio, 4)

	for i := 1; i < len(res.ExplainedVarianceRatio); i++ {
		assert.GreaterOrEqual(t, res.ExplainedVarianceRatio[i-1], res.ExplainedVarianceRatio[i])
		assert.GreaterOrEqual(t, res.CumulativeVarianceRatio[i], res.CumulativeVarianceRatio[i-1])
	}
	assert.InDelta(t, 1.0, res.CumulativeVarianceRatio[3], 1e-6)
}

func TestPrincipalComponentsClampsComponentCount(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	rows := make([][]float64, 3)
	for i := range rows {
		rows[i] = make([]float64, 512)
		for k := range rows[i] {
			rows[i][k] = rng.NormFloat64()
		}
	}

	res, err := principalComponents(rows, 10)
	require.NoError(t, err)
	assert.Len(t, res.Components, 3)

	res, err = principalComponents(rows, 0)
	require.NoError(t, err)
	assert.Len(t, res.Components, 3) // default clamped to the channel count
}

func TestPrincipalComponentsConstantChannel(t *testing.T) {
	rng := rand.New(rand.NewSource(9))

	flat := make([]float64, 1024)
	noisy := make([]float64, 1024)
	for i := range noisy {
		noisy[i] = rng.NormFloat64()
	}

	res, err := principalComponents([][]float64{flat, noisy}, 2)
	require.NoError(t, err)
	for _, r := range res.ExplainedVarianceRatio {
		assert.False(t, math.IsNaN(r))
	}
	assert.InDelta(t, 1.0, res.ExplainedVarianceRatio[0], 1e-9)
}

func TestStandardize(t *testing.T) {
	out := standardize([]float64{1, 2, 3, 4, 5})

	var mean, variance float64
	for _, v := range out {
		mean += v
	}
	mean /= float64(len(out))
	for _, v := range out {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(out))

	assert.InDelta(t, 0, mean, 1e-12)
	assert.InDelta(t, 1, variance, 1e-12)

	// A constant signal keeps unit scale instead of dividing by zero.
	flat := standardize([]float64{3, 3, 3})
	assert.Equal(t, []float64{0, 0, 0}, flat)
}
