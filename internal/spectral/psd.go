package spectral

import (
	"fmt"
	"math"
	"sort"
)

// Method selects the PSD estimator.
type Method string

const (
	MethodWelch       Method = "welch"
	MethodPeriodogram Method = "periodogram"
)

// PSDOptions controls PSD estimation. Zero values select the defaults:
// Welch's method, hann window, 2048-sample segments with 50% overlap, full
// band up to Nyquist, linear power.
type PSDOptions struct {
	Method  Method
	Window  Window
	Segment int     // Segment length in samples (Welch only)
	Overlap float64 // Overlap proportion in [0, 1) (Welch only)
	Fmin    float64 // Lower band edge in Hz, inclusive
	Fmax    float64 // Upper band edge in Hz, inclusive; 0 means Nyquist
	DB      bool    // Express power as 10*log10 instead of linear
}

// DefaultSegment is the segment length used when PSDOptions.Segment is not
// set, matching the estimator runs of the stimulation analyses.
const DefaultSegment = 2048

// PSD estimates the power spectral density of signal sampled at sampleRate,
// restricted to [Fmin, Fmax]. The returned slices are index-aligned.
//
// Edge policy: a segment longer than the signal is clipped to the signal
// length, and Fmax is clipped to Nyquist; neither is an error.
func PSD(signal []float64, sampleRate float64, opts PSDOptions) (freqs, power []float64, err error) {
	if len(signal) == 0 {
		return nil, nil, fmt.Errorf("empty signal")
	}
	if sampleRate <= 0 {
		return nil, nil, fmt.Errorf("invalid sample rate %g", sampleRate)
	}

	switch opts.Method {
	case MethodWelch, "":
		freqs, power, err = welch(signal, sampleRate, opts)
	case MethodPeriodogram:
		freqs, power, err = periodogram(signal, sampleRate, opts.Window)
	default:
		return nil, nil, fmt.Errorf("unknown PSD method %q", opts.Method)
	}
	if err != nil {
		return nil, nil, err
	}

	freqs, power = restrictBand(freqs, power, opts.Fmin, opts.Fmax, sampleRate)
	if opts.DB {
		power = ToDB(power)
	}
	return freqs, power, nil
}

func welch(signal []float64, sampleRate float64, opts PSDOptions) ([]float64, []float64, error) {
	nperseg := opts.Segment
	if nperseg <= 0 {
		nperseg = DefaultSegment
	}
	if nperseg > len(signal) {
		nperseg = len(signal)
	}

	overlap := opts.Overlap
	if overlap < 0 || overlap >= 1 {
		return nil, nil, fmt.Errorf("overlap %g outside [0, 1)", overlap)
	}
	step := nperseg - int(float64(nperseg)*overlap)
	if step < 1 {
		step = 1
	}

	window, err := opts.Window.Coefficients(nperseg)
	if err != nil {
		return nil, nil, err
	}

	bins := nperseg/2 + 1
	sum := make([]float64, bins)
	segments := 0
	for start := 0; start+nperseg <= len(signal); start += step {
		accumulateSegment(sum, signal[start:start+nperseg], window, sampleRate)
		segments++
	}
	if segments == 0 { // signal shorter than one segment cannot happen after clipping
		accumulateSegment(sum, signal[:nperseg], window, sampleRate)
		segments = 1
	}

	for i := range sum {
		sum[i] /= float64(segments)
	}
	return RFFTFreq(nperseg, sampleRate), sum, nil
}

func periodogram(signal []float64, sampleRate float64, win Window) ([]float64, []float64, error) {
	window, err := win.Coefficients(len(signal))
	if err != nil {
		return nil, nil, err
	}

	power := make([]float64, len(signal)/2+1)
	accumulateSegment(power, signal, window, sampleRate)
	return RFFTFreq(len(signal), sampleRate), power, nil
}

// accumulateSegment adds the one-sided density periodogram of one windowed
// segment into sum: |X_k|^2 / (fs * sum(w^2)), with bins between DC and
// Nyquist doubled to conserve total power.
func accumulateSegment(sum, segment, window []float64, sampleRate float64) {
	n := len(segment)

	windowed := make([]float64, n)
	norm := 0.0
	for i := range segment {
		windowed[i] = segment[i] * window[i]
		norm += window[i] * window[i]
	}
	norm *= sampleRate

	spectrum := FFT(windowed)
	for k := range sum {
		re := real(spectrum[k])
		im := imag(spectrum[k])
		p := (re*re + im*im) / norm
		if k != 0 && !(n%2 == 0 && k == n/2) {
			p *= 2
		}
		sum[k] += p
	}
}

func restrictBand(freqs, power []float64, fmin, fmax, sampleRate float64) ([]float64, []float64) {
	nyquist := sampleRate / 2
	if fmax <= 0 || fmax > nyquist {
		fmax = nyquist
	}

	lo := 0
	for lo < len(freqs) && freqs[lo] < fmin {
		lo++
	}
	hi := len(freqs)
	for hi > lo && freqs[hi-1] > fmax {
		hi--
	}
	return freqs[lo:hi], power[lo:hi]
}

// ToDB converts linear power values to decibels. Non-positive values clamp
// to a -160 dB floor instead of producing -Inf.
func ToDB(power []float64) []float64 {
	const floor = -160.0

	out := make([]float64, len(power))
	for i, p := range power {
		if p <= 0 {
			out[i] = floor
			continue
		}
		db := 10 * math.Log10(p)
		if db < floor {
			db = floor
		}
		out[i] = db
	}
	return out
}

// NearestBin returns the index of the frequency bin closest to target.
func NearestBin(freqs []float64, target float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, f := range freqs {
		if d := math.Abs(f - target); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// Trapezoid integrates y over x with the trapezoidal rule.
func Trapezoid(x, y []float64) float64 {
	total := 0.0
	for i := 1; i < len(x) && i < len(y); i++ {
		total += (y[i] + y[i-1]) / 2 * (x[i] - x[i-1])
	}
	return total
}

// Percentile returns the p-th percentile of values (0 <= p <= 100) using
// linear interpolation between order statistics.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
