package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rms(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func TestBandPassResponse(t *testing.T) {
	f, err := NewBandPass(4, 38, 42, 256)
	require.NoError(t, err)

	// Unit gain at the band center, strong rejection well outside.
	assert.InDelta(t, 1.0, f.responseAt(math.Sqrt(38*42), 256), 1e-6)
	assert.Less(t, f.responseAt(10, 256), 1e-3)
	assert.Less(t, f.responseAt(80, 256), 1e-3)
}

func TestBandPassKeepsTargetTone(t *testing.T) {
	f, err := NewBandPass(4, 38, 42, 256)
	require.NoError(t, err)

	in := sine(40, 256, 10*256)
	out := f.Apply(in)

	// Skip the transient at the start before comparing energy.
	assert.InDelta(t, rms(in[512:]), rms(out[512:]), 0.05)
}

func TestBandPassRejectsOutOfBandTone(t *testing.T) {
	f, err := NewBandPass(4, 38, 42, 256)
	require.NoError(t, err)

	out := f.Apply(sine(20, 256, 10*256))
	assert.Less(t, rms(out[512:]), 0.01)
}

func TestBandPassInvalidDesigns(t *testing.T) {
	_, err := NewBandPass(0, 38, 42, 256)
	assert.Error(t, err)

	_, err = NewBandPass(4, -1, 42, 256)
	assert.Error(t, err)

	_, err = NewBandPass(4, 42, 38, 256)
	assert.Error(t, err)

	_, err = NewBandPass(4, 38, 130, 256) // above Nyquist
	assert.Error(t, err)
}

func TestBandPassLeavesInputUntouched(t *testing.T) {
	f, err := NewBandPass(4, 8, 12, 256)
	require.NoError(t, err)

	in := sine(10, 256, 1024)
	orig := make([]float64, len(in))
	copy(orig, in)

	_ = f.Apply(in)
	assert.Equal(t, orig, in)
}
