package analysis

import (
	"github.com/pplvieira/Optoceutics-EEG-platform-sub000/internal/spectral"
)

// RequestKind tags an analysis request variant.
type RequestKind string

const (
	KindRawData     RequestKind = "raw_data"
	KindPSD         RequestKind = "psd"
	KindSNRSpectrum RequestKind = "snr_spectrum"
	KindStimulus    RequestKind = "stimulus_detection"
	KindBandPower   RequestKind = "band_power"
	KindPCA         RequestKind = "pca"
	KindFullReport  RequestKind = "full_report"
)

// Request is one typed analysis request variant. Requests are validated
// before dispatch, replacing the silent coercion of untyped parameter
// dictionaries with hard errors.
type Request interface {
	Kind() RequestKind
	validate() error
}

// Selection binds a request to a channel subset and an optional [Start,
// End) time window in seconds. End == 0 means the end of the recording.
type Selection struct {
	Channels []string `json:"channels"`
	Start    float64  `json:"start,omitempty"`
	End      float64  `json:"end,omitempty"`
}

func (s Selection) validate() error {
	if len(s.Channels) == 0 {
		return newParameterError("empty channel selection")
	}
	if s.Start < 0 {
		return newParameterError("window start %g before recording start", s.Start)
	}
	if s.End != 0 && s.End <= s.Start {
		return newParameterError("empty time window [%g, %g)", s.Start, s.End)
	}
	return nil
}

// RawDataRequest extracts physical-unit waveforms for plotting.
type RawDataRequest struct {
	Selection
}

func (RawDataRequest) Kind() RequestKind { return KindRawData }

func (r RawDataRequest) validate() error {
	return r.Selection.validate()
}

// PSDRequest estimates the power spectral density per channel.
type PSDRequest struct {
	Selection
	Method         spectral.Method `json:"method,omitempty"`
	Window         spectral.Window `json:"window,omitempty"`
	SegmentSeconds float64         `json:"segmentSeconds,omitempty"` // Welch segment length; 0 selects the default
	Overlap        *float64        `json:"overlap,omitempty"`        // Welch overlap proportion in [0, 1); nil selects 0.5
	Fmin           float64         `json:"fmin,omitempty"`
	Fmax           float64         `json:"fmax,omitempty"` // 0 means Nyquist
	DB             bool            `json:"db,omitempty"`
}

func (PSDRequest) Kind() RequestKind { return KindPSD }

func (r PSDRequest) validate() error {
	if err := r.Selection.validate(); err != nil {
		return err
	}
	if r.Fmin < 0 {
		return newParameterError("fmin %g is negative", r.Fmin)
	}
	if r.Fmax != 0 && r.Fmax < r.Fmin {
		return newParameterError("fmax %g below fmin %g", r.Fmax, r.Fmin)
	}
	if r.Overlap != nil && (*r.Overlap < 0 || *r.Overlap >= 1) {
		return newParameterError("overlap %g outside [0, 1)", *r.Overlap)
	}
	if r.SegmentSeconds < 0 {
		return newParameterError("segment length %g is negative", r.SegmentSeconds)
	}
	return nil
}

func (r PSDRequest) psdMethod() spectral.Method {
	if r.Method == "" {
		return spectral.MethodWelch
	}
	return r.Method
}

func (r PSDRequest) psdWindow() spectral.Window {
	if r.Window == "" {
		return spectral.WindowHann
	}
	return r.Window
}

func (r PSDRequest) psdOverlap() float64 {
	if r.Overlap == nil {
		return 0.5
	}
	return *r.Overlap
}

// estimate runs the configured spectral estimator over one bound signal,
// filling unset parameters with their defaults. An explicit zero overlap
// stays zero.
func (r PSDRequest) estimate(sig boundSignal) ([]float64, []float64, error) {
	segment := spectral.DefaultSegment
	if r.SegmentSeconds > 0 {
		segment = int(r.SegmentSeconds * sig.sampleRate)
	}
	freqs, power, err := spectral.PSD(sig.samples, sig.sampleRate, spectral.PSDOptions{
		Method:  r.psdMethod(),
		Window:  r.psdWindow(),
		Segment: segment,
		Overlap: r.psdOverlap(),
		Fmin:    r.Fmin,
		Fmax:    r.Fmax,
		DB:      r.DB,
	})
	if err != nil {
		return nil, nil, newComputationError("spectral estimate of %s: %v", sig.name, err)
	}
	return freqs, power, nil
}

// SNRSpectrumRequest computes the whole-band SNR spectrum per channel:
// PSD over a percentile noise floor, in dB.
type SNRSpectrumRequest struct {
	Selection
	Fmin float64 `json:"fmin,omitempty"`
	Fmax float64 `json:"fmax,omitempty"`
}

func (SNRSpectrumRequest) Kind() RequestKind { return KindSNRSpectrum }

func (r SNRSpectrumRequest) validate() error {
	if err := r.Selection.validate(); err != nil {
		return err
	}
	if r.Fmax != 0 && r.Fmax < r.Fmin {
		return newParameterError("fmax %g below fmin %g", r.Fmax, r.Fmin)
	}
	return nil
}

// StimulusRequest quantifies the periodic response at a known stimulation
// frequency per channel.
type StimulusRequest struct {
	Selection
	TargetFrequency float64 `json:"targetFrequency"`
}

func (StimulusRequest) Kind() RequestKind { return KindStimulus }

func (r StimulusRequest) validate() error {
	if err := r.Selection.validate(); err != nil {
		return err
	}
	if r.TargetFrequency <= 0 {
		return newParameterError("target frequency %g must be positive", r.TargetFrequency)
	}
	return nil
}

// BandPowerRequest decomposes each channel's PSD into the five canonical
// bands [0.5, b0] [b0, 8] [8, b1] [b1, b2] [b2, b3]. Bounds supplies
// b0..b3; the Theta/Alpha split is fixed at 8 Hz.
type BandPowerRequest struct {
	Selection
	Bounds [4]float64 `json:"bounds"`
}

func (BandPowerRequest) Kind() RequestKind { return KindBandPower }

func (r BandPowerRequest) validate() error {
	if err := r.Selection.validate(); err != nil {
		return err
	}
	return validateBounds(r.Bounds)
}

func validateBounds(b [4]float64) error {
	// Boundaries interleave with the fixed 0.5 Hz floor and 8 Hz
	// Theta/Alpha split: 0.5 < b0 < 8 < b1 < b2 < b3.
	if !(0.5 < b[0] && b[0] < 8 && 8 < b[1] && b[1] < b[2] && b[2] < b[3]) {
		return newParameterError("band boundaries %v must satisfy 0.5 < b0 < 8 < b1 < b2 < b3", b)
	}
	return nil
}

// PCARequest reduces the selected channels to k principal components.
type PCARequest struct {
	Selection
	Components int `json:"components,omitempty"` // 0 selects the default
}

func (PCARequest) Kind() RequestKind { return KindPCA }

func (r PCARequest) validate() error {
	if err := r.Selection.validate(); err != nil {
		return err
	}
	if r.Components < 0 {
		return newParameterError("component count %d is negative", r.Components)
	}
	return nil
}

// FullReportRequest bundles stimulus detection, PCA and band decomposition
// into a single report.
type FullReportRequest struct {
	Selection
	TargetFrequency float64    `json:"targetFrequency"`
	Bounds          [4]float64 `json:"bounds"`
	Components      int        `json:"components,omitempty"`
}

func (FullReportRequest) Kind() RequestKind { return KindFullReport }

func (r FullReportRequest) validate() error {
	if err := r.Selection.validate(); err != nil {
		return err
	}
	if r.TargetFrequency <= 0 {
		return newParameterError("target frequency %g must be positive", r.TargetFrequency)
	}
	if r.Components < 0 {
		return newParameterError("component count %d is negative", r.Components)
	}
	return validateBounds(r.Bounds)
}
