package analysis

// Result is the envelope every analysis returns. Failures are reported
// through Success and Error rather than by aborting the caller, so one
// bad request never takes down a batch.
type Result struct {
	Kind       RequestKind    `json:"kind"`
	Success    bool           `json:"success"`
	Error      string         `json:"error,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Confidence grades a stimulus detection by its SNR margin.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// RawDataResult carries physical-unit samples per channel plus the shared
// time axis in seconds.
type RawDataResult struct {
	Time     []float64            `json:"time"`
	Channels map[string][]float64 `json:"channels"`
}

// SpectralResult carries one PSD estimate per channel over a shared
// frequency axis.
type SpectralResult struct {
	Frequencies []float64            `json:"frequencies"`
	Power       map[string][]float64 `json:"power"`
	Unit        string               `json:"unit"`
}

// SNRSpectrumResult carries the per-channel SNR spectrum in dB over the
// percentile noise floor.
type SNRSpectrumResult struct {
	Frequencies []float64            `json:"frequencies"`
	SNR         map[string][]float64 `json:"snr"`
	NoiseFloor  map[string]float64   `json:"noiseFloor"`
}

// ChannelDetection is the stimulus response of a single channel.
type ChannelDetection struct {
	Channel       string     `json:"channel"`
	PeakFrequency float64    `json:"peakFrequency"`
	PeakPower     float64    `json:"peakPower"`
	NoisePower    float64    `json:"noisePower"`
	SNRdB         float64    `json:"snrDb"`
	Confidence    Confidence `json:"confidence"`
}

// StimulusDetectionResult aggregates per-channel detections at one target
// frequency.
type StimulusDetectionResult struct {
	TargetFrequency float64            `json:"targetFrequency"`
	Channels        []ChannelDetection `json:"channels"`
	BestChannel     string             `json:"bestChannel"`
	BestSNRdB       float64            `json:"bestSnrDb"`
	Detected        bool               `json:"detected"`
}

// BandPower is the absolute and relative power of one named band.
type BandPower struct {
	Name     string  `json:"name"`
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
	Absolute float64 `json:"absolute"`
	Relative float64 `json:"relative"`
}

// BandPowerResult carries a per-channel band decomposition. Relative
// powers within one channel sum to 1.
type BandPowerResult struct {
	Channels map[string][]BandPower `json:"channels"`
}

// PCAResult carries the principal component projections of the selected
// channels. A nil Components slice means the decomposition was skipped
// because fewer than two channels were selected.
type PCAResult struct {
	Components              [][]float64 `json:"components,omitempty"`
	ExplainedVarianceRatio  []float64   `json:"explainedVarianceRatio,omitempty"`
	CumulativeVarianceRatio []float64   `json:"cumulativeVarianceRatio,omitempty"`
	Skipped                 bool        `json:"skipped,omitempty"`
}

// FullReport bundles the individual analyses produced for one
// recording window.
type FullReport struct {
	Detection StimulusDetectionResult `json:"detection"`
	Bands     BandPowerResult         `json:"bands"`
	PCA       *PCAResult              `json:"pca,omitempty"`
}

func successResult(kind RequestKind, params map[string]any, data any) Result {
	return Result{Kind: kind, Success: true, Parameters: params, Data: data}
}

func failureResult(kind RequestKind, params map[string]any, err error) Result {
	return Result{Kind: kind, Success: false, Parameters: params, Error: err.Error()}
}
