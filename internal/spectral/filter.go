package spectral

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Biquad is one second-order filter section in transposed direct form II.
// Coefficients are normalized so A0 == 1.
type Biquad struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// BandPass is a Butterworth band-pass filter realized as a cascade of
// second-order sections, the digital equivalent of an analog prototype of
// the given order transformed to the pass band.
type BandPass struct {
	sections []Biquad
}

// NewBandPass designs a Butterworth band-pass filter of the given prototype
// order for the band [low, high] Hz at sampleRate. Order 4 matches the
// detector's pre-filter around the stimulation frequency.
func NewBandPass(order int, low, high, sampleRate float64) (*BandPass, error) {
	if order < 1 {
		return nil, fmt.Errorf("invalid filter order %d", order)
	}
	nyquist := sampleRate / 2
	if low <= 0 || high <= low || high >= nyquist {
		return nil, fmt.Errorf("invalid band [%g, %g] Hz at %g Hz sample rate", low, high, sampleRate)
	}

	// Pre-warped analog band edges for the bilinear transform.
	fs2 := 2 * sampleRate
	w1 := fs2 * math.Tan(math.Pi*low/sampleRate)
	w2 := fs2 * math.Tan(math.Pi*high/sampleRate)
	bw := w2 - w1
	w0 := math.Sqrt(w1 * w2)

	// Butterworth low-pass prototype poles on the left unit semicircle,
	// transformed low-pass -> band-pass. Each prototype pole yields a
	// conjugate-completed pair, doubling the filter order.
	var poles []complex128
	for k := 0; k < order; k++ {
		theta := math.Pi * (2*float64(k) + float64(order) + 1) / (2 * float64(order))
		p := cmplx.Exp(complex(0, theta)) // prototype pole

		pb := p * complex(bw/2, 0)
		d := cmplx.Sqrt(pb*pb - complex(w0*w0, 0))
		poles = append(poles, pb+d, pb-d)
	}

	// Bilinear transform into the z-plane. The band-pass zeros sit at
	// s = 0 and s = infinity, mapping to z = 1 and z = -1.
	zPoles := make([]complex128, len(poles))
	for i, p := range poles {
		zPoles[i] = (complex(fs2, 0) + p) / (complex(fs2, 0) - p)
	}

	f := &BandPass{sections: pairSections(zPoles)}

	// Normalize to unit gain at the band center.
	center := math.Sqrt(low * high)
	gain := f.responseAt(center, sampleRate)
	if gain <= 0 || math.IsNaN(gain) {
		return nil, fmt.Errorf("degenerate band-pass design for [%g, %g] Hz", low, high)
	}
	scale := math.Pow(1/gain, 1/float64(len(f.sections)))
	for i := range f.sections {
		f.sections[i].B0 *= scale
		f.sections[i].B1 *= scale
		f.sections[i].B2 *= scale
	}

	return f, nil
}

// pairSections groups z-plane poles into conjugate pairs and attaches one
// zero at z=1 and one at z=-1 to every section, giving numerator z^2 - 1.
func pairSections(zPoles []complex128) []Biquad {
	used := make([]bool, len(zPoles))
	var sections []Biquad

	for i, p := range zPoles {
		if used[i] {
			continue
		}
		used[i] = true

		// Find the closest conjugate partner among the remaining poles.
		partner := -1
		best := math.Inf(1)
		for j := i + 1; j < len(zPoles); j++ {
			if used[j] {
				continue
			}
			if d := cmplx.Abs(zPoles[j] - cmplx.Conj(p)); d < best {
				best = d
				partner = j
			}
		}

		a1 := -2 * real(p)
		a2 := real(p)*real(p) + imag(p)*imag(p)
		if partner >= 0 {
			used[partner] = true
			q := zPoles[partner]
			a1 = -real(p + q)
			a2 = real(p * q)
		}

		sections = append(sections, Biquad{B0: 1, B1: 0, B2: -1, A1: a1, A2: a2})
	}

	return sections
}

// responseAt evaluates the cascade magnitude response at freq Hz.
func (f *BandPass) responseAt(freq, sampleRate float64) float64 {
	z := cmplx.Exp(complex(0, 2*math.Pi*freq/sampleRate))
	z1 := 1 / z
	z2 := z1 * z1

	h := complex(1, 0)
	for _, s := range f.sections {
		num := complex(s.B0, 0) + complex(s.B1, 0)*z1 + complex(s.B2, 0)*z2
		den := complex(1, 0) + complex(s.A1, 0)*z1 + complex(s.A2, 0)*z2
		h *= num / den
	}
	return cmplx.Abs(h)
}

// Apply filters the signal through the section cascade and returns a new
// slice; the input is left untouched. State starts at zero, matching a
// one-shot forward filter pass.
func (f *BandPass) Apply(signal []float64) []float64 {
	out := make([]float64, len(signal))
	copy(out, signal)

	for _, s := range f.sections {
		var d1, d2 float64
		for i, x := range out {
			y := s.B0*x + d1
			d1 = s.B1*x - s.A1*y + d2
			d2 = s.B2*x - s.A2*y
			out[i] = y
		}
	}
	return out
}
