package analysis

import (
	"github.com/pplvieira/Optoceutics-EEG-platform-sub000/internal/spectral"
)

// Canonical EEG band names, lowest first.
var bandNames = [5]string{"Delta", "Theta", "Alpha", "Beta", "Gamma"}

// Fixed band edges: the Delta floor and the Theta/Alpha split.
const (
	bandFloor      = 0.5
	thetaAlphaEdge = 8.0
)

// bandPowers integrates one channel's PSD over the five canonical bands
// [0.5, b0] [b0, 8] [8, b1] [b1, b2] [b2, b3], where b0..b3 are the four
// caller-supplied boundaries. Absolute powers come from trapezoidal
// integration over each band; relative powers are normalized so they sum
// to 1 within the channel.
func bandPowers(signal []float64, sampleRate float64, bounds [4]float64) ([]BandPower, error) {
	freqs, psd, err := spectral.PSD(signal, sampleRate, spectral.PSDOptions{
		Method:  spectral.MethodWelch,
		Window:  spectral.WindowHann,
		Segment: spectral.DefaultSegment,
		Overlap: 0.5,
		Fmin:    bandFloor,
	})
	if err != nil {
		return nil, newComputationError("spectral estimate: %v", err)
	}

	edges := [6]float64{bandFloor, bounds[0], thetaAlphaEdge, bounds[1], bounds[2], bounds[3]}

	powers := make([]BandPower, 0, len(bandNames))
	var total float64
	for i, name := range bandNames {
		low, high := edges[i], edges[i+1]
		abs := integrateBand(freqs, psd, low, high)
		total += abs
		powers = append(powers, BandPower{Name: name, Low: low, High: high, Absolute: abs})
	}
	if total <= 0 {
		return nil, newComputationError("zero total power, cannot form relative band distribution")
	}
	for i := range powers {
		powers[i].Relative = powers[i].Absolute / total
	}
	return powers, nil
}

// integrateBand applies trapezoidal integration to the PSD bins falling
// inside [low, high].
func integrateBand(freqs, psd []float64, low, high float64) float64 {
	start, end := -1, -1
	for i, f := range freqs {
		if f < low {
			continue
		}
		if f > high {
			break
		}
		if start < 0 {
			start = i
		}
		end = i + 1
	}
	if start < 0 || end-start < 2 {
		return 0
	}
	return spectral.Trapezoid(freqs[start:end], psd[start:end])
}
