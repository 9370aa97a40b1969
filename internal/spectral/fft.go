// Package spectral provides the DSP primitives behind the analysis engine:
// FFT, window functions, power spectral density estimation and band-pass
// filtering. Everything operates on plain float64 slices and is free of
// internal state, so concurrent use is safe.
package spectral

import (
	"math"
	"math/bits"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of x. Power-of-two lengths
// use an iterative radix-2 transform; other lengths fall back to a direct
// DFT, which is fine for the segment sizes seen here.
func FFT(x []float64) []complex128 {
	n := len(x)
	if n == 0 {
		return nil
	}

	c := make([]complex128, n)
	for i, v := range x {
		c[i] = complex(v, 0)
	}
	if n&(n-1) == 0 {
		radix2(c)
		return c
	}
	return dft(c)
}

func radix2(c []complex128) {
	n := len(c)
	shift := 64 - uint(bits.Len(uint(n-1)))

	for i := 0; i < n; i++ {
		j := int(bits.Reverse64(uint64(i)) >> shift)
		if j > i {
			c[i], c[j] = c[j], c[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		step := -2 * math.Pi / float64(size)
		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				w := cmplx.Exp(complex(0, step*float64(k)))
				e := c[start+k]
				o := c[start+k+half] * w
				c[start+k] = e + o
				c[start+k+half] = e - o
			}
		}
	}
}

func dft(c []complex128) []complex128 {
	n := len(c)
	out := make([]complex128, n)
	for k := 0; k < n; k++ {
		var sum complex128
		for t := 0; t < n; t++ {
			angle := -2 * math.Pi * float64(k) * float64(t) / float64(n)
			sum += c[t] * cmplx.Exp(complex(0, angle))
		}
		out[k] = sum
	}
	return out
}

// RFFTFreq returns the frequency in Hz of each one-sided spectrum bin for
// an n-point transform at the given sample rate, matching the layout of a
// real FFT: n/2+1 bins from DC to Nyquist.
func RFFTFreq(n int, sampleRate float64) []float64 {
	bins := n/2 + 1
	freqs := make([]float64, bins)
	for i := range freqs {
		freqs[i] = float64(i) * sampleRate / float64(n)
	}
	return freqs
}
