// Package report defines the numeric plot data handed to downstream
// renderers. The core emits series and plots only; turning them into
// images or documents is left to Renderer and DocumentBuilder
// implementations outside this module.
package report

import (
	"fmt"
	"sort"

	"github.com/pplvieira/Optoceutics-EEG-platform-sub000/internal/analysis"
)

// Series is one labelled curve. X and Y are index-aligned.
type Series struct {
	Label string    `json:"label"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
}

// Plot is an ordered set of series sharing axes.
type Plot struct {
	Title  string   `json:"title"`
	XLabel string   `json:"xLabel"`
	YLabel string   `json:"yLabel"`
	Series []Series `json:"series"`
}

// Renderer turns a numeric plot into an encoded image.
type Renderer interface {
	// Render encodes the plot. The returned bytes are in the renderer's
	// image format (PNG, SVG).
	Render(plot Plot) ([]byte, error)
}

// DocumentBuilder assembles rendered images and captions into a single
// document, in insertion order.
type DocumentBuilder interface {
	// AddImage appends one rendered image with a caption.
	AddImage(image []byte, caption string) error

	// AddText appends a text block.
	AddText(text string) error

	// Build finalizes and returns the encoded document.
	Build() ([]byte, error)
}

// WaveformPlot builds a time-domain plot from extracted raw data.
// Channels are ordered by label so repeated builds are identical.
func WaveformPlot(data analysis.RawDataResult) Plot {
	plot := Plot{
		Title:  "Raw signal",
		XLabel: "Time (s)",
		YLabel: "Amplitude (uV)",
	}
	for _, name := range sortedKeys(data.Channels) {
		plot.Series = append(plot.Series, Series{Label: name, X: data.Time, Y: data.Channels[name]})
	}
	return plot
}

// SpectrumPlot builds a frequency-domain plot from a PSD estimate.
func SpectrumPlot(data analysis.SpectralResult) Plot {
	plot := Plot{
		Title:  "Power spectral density",
		XLabel: "Frequency (Hz)",
		YLabel: fmt.Sprintf("Power (%s)", data.Unit),
	}
	for _, name := range sortedKeys(data.Power) {
		plot.Series = append(plot.Series, Series{Label: name, X: data.Frequencies, Y: data.Power[name]})
	}
	return plot
}

// SNRSpectrumPlot builds a plot of the SNR spectrum over the noise floor.
func SNRSpectrumPlot(data analysis.SNRSpectrumResult) Plot {
	plot := Plot{
		Title:  "SNR spectrum",
		XLabel: "Frequency (Hz)",
		YLabel: "SNR (dB)",
	}
	for _, name := range sortedKeys(data.SNR) {
		plot.Series = append(plot.Series, Series{Label: name, X: data.Frequencies, Y: data.SNR[name]})
	}
	return plot
}

// BandPowerPlot builds a band distribution plot. Each channel becomes one
// series over the band center frequencies, with relative power on Y.
func BandPowerPlot(data analysis.BandPowerResult) Plot {
	plot := Plot{
		Title:  "Relative band power",
		XLabel: "Band center (Hz)",
		YLabel: "Relative power",
	}
	for _, name := range sortedKeys(data.Channels) {
		bands := data.Channels[name]
		s := Series{Label: name, X: make([]float64, len(bands)), Y: make([]float64, len(bands))}
		for i, b := range bands {
			s.X[i] = (b.Low + b.High) / 2
			s.Y[i] = b.Relative
		}
		plot.Series = append(plot.Series, s)
	}
	return plot
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
