package spectral

import (
	"fmt"
	"math"
)

// Window identifies a taper applied to each segment before the FFT.
type Window string

const (
	WindowHann     Window = "hann"
	WindowHamming  Window = "hamming"
	WindowBlackman Window = "blackman"
	WindowBoxcar   Window = "boxcar"
)

// Coefficients returns the n window coefficients, using the periodic form
// suited to spectral averaging.
func (w Window) Coefficients(n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid window length %d", n)
	}

	c := make([]float64, n)
	switch w {
	case WindowBoxcar, "":
		for i := range c {
			c[i] = 1
		}
	case WindowHann:
		for i := range c {
			c[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n)))
		}
	case WindowHamming:
		for i := range c {
			c[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n))
		}
	case WindowBlackman:
		for i := range c {
			x := 2 * math.Pi * float64(i) / float64(n)
			c[i] = 0.42 - 0.5*math.Cos(x) + 0.08*math.Cos(2*x)
		}
	default:
		return nil, fmt.Errorf("unknown window %q", w)
	}
	return c, nil
}
