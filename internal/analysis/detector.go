package analysis

import (
	"math"

	"github.com/pplvieira/Optoceutics-EEG-platform-sub000/internal/spectral"
)

const (
	// Band-pass half width around the stimulation frequency, Hz.
	stimulusHalfWidth = 2.0
	// Filter order of the isolation band-pass.
	stimulusFilterOrder = 4
	// Noise estimation neighbourhood around the target, Hz.
	noiseRadius = 10.0
	// Guard band excluded from the noise estimate, Hz. Bins at exactly
	// the guard distance still count as noise.
	noiseGuard = 3.0
	// Noise fallback as a proportion of peak power when the
	// neighbourhood holds no usable bins.
	noiseFallbackRatio = 0.1

	// SNR thresholds in dB separating the confidence grades.
	confidenceHighDB   = 6.0
	confidenceMediumDB = 3.0

	// Noise floor percentile of the whole-band SNR spectrum.
	noiseFloorPercentile = 10.0
)

// detectChannel quantifies the periodic response of one channel at the
// target frequency. The signal is band-pass filtered around the target
// before the spectral estimate so that broadband energy does not mask a
// narrow peak.
func detectChannel(name string, signal []float64, sampleRate, target float64) (ChannelDetection, error) {
	low := target - stimulusHalfWidth
	high := target + stimulusHalfWidth
	if low <= 0 {
		low = 0.1
	}
	nyquist := sampleRate / 2
	if high >= nyquist {
		high = nyquist * 0.99
	}
	if high <= low {
		return ChannelDetection{}, newParameterError("target %g Hz leaves no pass band below Nyquist %g Hz", target, nyquist)
	}

	filter, err := spectral.NewBandPass(stimulusFilterOrder, low, high, sampleRate)
	if err != nil {
		return ChannelDetection{}, newComputationError("band-pass design at %g Hz: %v", target, err)
	}
	filtered := filter.Apply(signal)

	freqs, psd, err := spectral.PSD(filtered, sampleRate, spectral.PSDOptions{
		Method:  spectral.MethodWelch,
		Window:  spectral.WindowHann,
		Segment: spectral.DefaultSegment,
		Overlap: 0.5,
	})
	if err != nil {
		return ChannelDetection{}, newComputationError("spectral estimate: %v", err)
	}

	peakIdx := spectral.NearestBin(freqs, target)
	peakPower := psd[peakIdx]
	noisePower := noiseEstimate(freqs, psd, target, peakPower)

	snr := snrDB(peakPower, noisePower)
	det := ChannelDetection{
		Channel:       name,
		PeakFrequency: freqs[peakIdx],
		PeakPower:     peakPower,
		NoisePower:    noisePower,
		SNRdB:         snr,
		Confidence:    gradeConfidence(snr),
	}
	return det, nil
}

// noiseEstimate averages the PSD in a neighbourhood of the target while
// excluding the guard band around the peak itself.
func noiseEstimate(freqs, psd []float64, target, peakPower float64) float64 {
	var sum float64
	var n int
	for i, f := range freqs {
		d := math.Abs(f - target)
		if d < noiseGuard || d > noiseRadius {
			continue
		}
		sum += psd[i]
		n++
	}
	if n == 0 || sum <= 0 {
		return peakPower * noiseFallbackRatio
	}
	return sum / float64(n)
}

func snrDB(peak, noise float64) float64 {
	if peak <= 0 || noise <= 0 {
		return 0
	}
	return 10 * math.Log10(peak/noise)
}

func gradeConfidence(snr float64) Confidence {
	switch {
	case snr > confidenceHighDB:
		return ConfidenceHigh
	case snr > confidenceMediumDB:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// snrSpectrum divides the PSD by its percentile noise floor and converts
// to dB, exposing narrowband peaks across the whole band at once. The
// floor is taken over the full spectrum before the [fmin, fmax] cut, so
// it does not shift with the requested band.
func snrSpectrum(signal []float64, sampleRate, fmin, fmax float64) (freqs, snr []float64, floor float64, err error) {
	freqs, psd, err := spectral.PSD(signal, sampleRate, spectral.PSDOptions{
		Method:  spectral.MethodWelch,
		Window:  spectral.WindowHann,
		Segment: spectral.DefaultSegment,
		Overlap: 0.5,
	})
	if err != nil {
		return nil, nil, 0, newComputationError("spectral estimate: %v", err)
	}
	floor = spectral.Percentile(psd, noiseFloorPercentile)
	if floor <= 0 {
		return nil, nil, 0, newComputationError("degenerate noise floor, spectrum is all zeros")
	}

	if fmax <= 0 || fmax > sampleRate/2 {
		fmax = sampleRate / 2
	}
	lo := 0
	for lo < len(freqs) && freqs[lo] < fmin {
		lo++
	}
	hi := len(freqs)
	for hi > lo && freqs[hi-1] > fmax {
		hi--
	}
	freqs, psd = freqs[lo:hi], psd[lo:hi]

	snr = make([]float64, len(psd))
	for i, p := range psd {
		if p <= 0 {
			snr[i] = snrFloorDB
			continue
		}
		snr[i] = 10 * math.Log10(p/floor)
	}
	return freqs, snr, floor, nil
}

// snrFloorDB clamps log-domain values for empty bins.
const snrFloorDB = -160.0
