// Package analysis orchestrates spectral analyses over loaded recordings.
// An Engine owns a table of recordings keyed by opaque ids and answers
// typed requests with structured results, so a failing analysis reports
// its error instead of taking the process down.
package analysis

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/pplvieira/Optoceutics-EEG-platform-sub000/internal/edf"
)

// Engine holds loaded recordings and dispatches analysis requests
// against them. All methods are safe for concurrent use.
type Engine struct {
	logger *slog.Logger
	loader *edf.Loader

	mu         sync.RWMutex
	recordings map[string]*loadedRecording
}

type loadedRecording struct {
	rec  *edf.Recording
	meta edf.Metadata
}

// WithLogger sets the logger used for load and analysis events.
func WithLogger(logger *slog.Logger) func(*Engine) {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLoader replaces the default recording loader.
func WithLoader(loader *edf.Loader) func(*Engine) {
	return func(e *Engine) {
		e.loader = loader
	}
}

// NewEngine creates an Engine with an empty recording table.
func NewEngine(options ...func(*Engine)) *Engine {
	e := &Engine{
		recordings: make(map[string]*loadedRecording),
	}
	for _, option := range options {
		option(e)
	}
	if e.loader == nil {
		e.loader = edf.NewLoader(edf.WithLogger(e.logger))
	}
	return e
}

// Load parses raw file bytes and registers the recording under a fresh
// id. The returned metadata names the parser backend that succeeded.
func (e *Engine) Load(data []byte, filename string) (string, edf.Metadata, error) {
	rec, meta, err := e.loader.Load(data, filename)
	if err != nil {
		return "", edf.Metadata{}, err
	}

	id := uuid.NewString()
	e.mu.Lock()
	e.recordings[id] = &loadedRecording{rec: rec, meta: meta}
	e.mu.Unlock()

	if e.logger != nil {
		e.logger.Info("recording registered",
			slog.String("id", id),
			slog.String("file", filename),
			slog.String("backend", meta.Backend))
	}
	return id, meta, nil
}

// Metadata returns the metadata of a loaded recording.
func (e *Engine) Metadata(id string) (edf.Metadata, error) {
	e.mu.RLock()
	lr, ok := e.recordings[id]
	e.mu.RUnlock()
	if !ok {
		return edf.Metadata{}, newParameterError("unknown recording %q", id)
	}
	return lr.meta, nil
}

// List returns the ids of all loaded recordings.
func (e *Engine) List() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.recordings))
	for id := range e.recordings {
		ids = append(ids, id)
	}
	return ids
}

// Unload removes a recording from the table.
func (e *Engine) Unload(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.recordings[id]; !ok {
		return newParameterError("unknown recording %q", id)
	}
	delete(e.recordings, id)
	return nil
}

// Analyze runs one typed request against a loaded recording. The returned
// Result always carries the request kind; failures come back with
// Success false and the error message instead of propagating, and any
// panic inside an analysis is converted to a failed result.
func (e *Engine) Analyze(id string, req Request) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			if e.logger != nil {
				e.logger.Error("analysis panicked",
					slog.String("id", id),
					slog.String("kind", string(req.Kind())),
					slog.Any("panic", r))
			}
			res = failureResult(req.Kind(), nil, newComputationError("internal fault: %v", r))
		}
	}()

	if err := req.validate(); err != nil {
		return failureResult(req.Kind(), nil, err)
	}

	e.mu.RLock()
	lr, ok := e.recordings[id]
	e.mu.RUnlock()
	if !ok {
		return failureResult(req.Kind(), nil, newParameterError("unknown recording %q", id))
	}

	switch r := req.(type) {
	case RawDataRequest:
		return e.rawData(lr, r)
	case PSDRequest:
		return e.psd(lr, r)
	case SNRSpectrumRequest:
		return e.snrSpectrum(lr, r)
	case StimulusRequest:
		return e.stimulus(lr, r)
	case BandPowerRequest:
		return e.bandPower(lr, r)
	case PCARequest:
		return e.pca(lr, r)
	case FullReportRequest:
		return e.fullReport(lr, r)
	default:
		return failureResult(req.Kind(), nil, newParameterError("unsupported request kind %q", req.Kind()))
	}
}

// boundSignal is one channel's samples over the resolved request window.
// start is the index of the first sample within the full channel.
type boundSignal struct {
	name       string
	index      int
	start      int
	sampleRate float64
	samples    []float64
}

// bindSelection resolves channel labels to indices and the time window to
// per-channel sample ranges, then reads the physical-unit samples.
func (e *Engine) bindSelection(lr *loadedRecording, sel Selection) ([]boundSignal, error) {
	end := sel.End
	if end == 0 {
		end = lr.rec.Duration()
	}
	if end <= sel.Start {
		return nil, newParameterError("window [%g, %g) is empty for a %g second recording",
			sel.Start, end, lr.rec.Duration())
	}

	signals := make([]boundSignal, 0, len(sel.Channels))
	for _, name := range sel.Channels {
		idx := lr.rec.ChannelIndex(name)
		if idx < 0 {
			return nil, newParameterError("unknown channel %q", name)
		}
		rate := lr.rec.SampleRate(idx)
		if rate <= 0 {
			return nil, newComputationError("channel %q has no sample rate", name)
		}

		start := int(math.Floor(sel.Start * rate))
		stop := int(math.Ceil(end * rate))
		if total := lr.rec.NumSamples(idx); stop > total {
			stop = total
		}
		if stop <= start {
			return nil, newParameterError("window [%g, %g) holds no samples of channel %q", sel.Start, end, name)
		}

		samples, err := lr.rec.ReadSignal(idx, start, stop-start)
		if err != nil {
			return nil, newComputationError("reading channel %q: %v", name, err)
		}
		signals = append(signals, boundSignal{name: name, index: idx, start: start, sampleRate: rate, samples: samples})
	}
	return signals, nil
}

func (e *Engine) rawData(lr *loadedRecording, req RawDataRequest) Result {
	params := selectionParams(req.Selection)
	signals, err := e.bindSelection(lr, req.Selection)
	if err != nil {
		return failureResult(req.Kind(), params, err)
	}

	out := RawDataResult{Channels: make(map[string][]float64, len(signals))}
	for i, sig := range signals {
		if i == 0 {
			// Align the axis with the first returned sample rather than
			// the requested start, which may fall between samples.
			out.Time = make([]float64, len(sig.samples))
			for k := range out.Time {
				out.Time[k] = float64(sig.start+k) / sig.sampleRate
			}
		}
		out.Channels[sig.name] = sig.samples
	}
	return successResult(req.Kind(), params, out)
}

func (e *Engine) psd(lr *loadedRecording, req PSDRequest) Result {
	params := selectionParams(req.Selection)
	params["method"] = string(req.psdMethod())
	params["window"] = string(req.psdWindow())

	signals, err := e.bindSelection(lr, req.Selection)
	if err != nil {
		return failureResult(req.Kind(), params, err)
	}

	out := SpectralResult{Power: make(map[string][]float64, len(signals)), Unit: "uV^2/Hz"}
	if req.DB {
		out.Unit = "dB"
	}
	for _, sig := range signals {
		freqs, power, err := req.estimate(sig)
		if err != nil {
			return failureResult(req.Kind(), params, err)
		}
		out.Frequencies = freqs
		out.Power[sig.name] = power
	}
	return successResult(req.Kind(), params, out)
}

func (e *Engine) snrSpectrum(lr *loadedRecording, req SNRSpectrumRequest) Result {
	params := selectionParams(req.Selection)
	signals, err := e.bindSelection(lr, req.Selection)
	if err != nil {
		return failureResult(req.Kind(), params, err)
	}

	out := SNRSpectrumResult{
		SNR:        make(map[string][]float64, len(signals)),
		NoiseFloor: make(map[string]float64, len(signals)),
	}
	for _, sig := range signals {
		freqs, snr, floor, err := snrSpectrum(sig.samples, sig.sampleRate, req.Fmin, req.Fmax)
		if err != nil {
			return failureResult(req.Kind(), params, err)
		}
		out.Frequencies = freqs
		out.SNR[sig.name] = snr
		out.NoiseFloor[sig.name] = floor
	}
	return successResult(req.Kind(), params, out)
}

func (e *Engine) stimulus(lr *loadedRecording, req StimulusRequest) Result {
	params := selectionParams(req.Selection)
	params["targetFrequency"] = req.TargetFrequency

	signals, err := e.bindSelection(lr, req.Selection)
	if err != nil {
		return failureResult(req.Kind(), params, err)
	}

	det, err := e.detect(signals, req.TargetFrequency)
	if err != nil {
		return failureResult(req.Kind(), params, err)
	}
	return successResult(req.Kind(), params, det)
}

// detect runs the per-channel stimulus detection and aggregates the best
// responder.
func (e *Engine) detect(signals []boundSignal, target float64) (StimulusDetectionResult, error) {
	out := StimulusDetectionResult{
		TargetFrequency: target,
		Channels:        make([]ChannelDetection, 0, len(signals)),
		BestSNRdB:       math.Inf(-1),
	}
	for _, sig := range signals {
		det, err := detectChannel(sig.name, sig.samples, sig.sampleRate, target)
		if err != nil {
			return StimulusDetectionResult{}, fmt.Errorf("channel %s: %w", sig.name, err)
		}
		out.Channels = append(out.Channels, det)
		if det.SNRdB > out.BestSNRdB {
			out.BestSNRdB = det.SNRdB
			out.BestChannel = det.Channel
		}
	}
	out.Detected = out.BestSNRdB > confidenceMediumDB
	return out, nil
}

func (e *Engine) bandPower(lr *loadedRecording, req BandPowerRequest) Result {
	params := selectionParams(req.Selection)
	params["bounds"] = req.Bounds

	signals, err := e.bindSelection(lr, req.Selection)
	if err != nil {
		return failureResult(req.Kind(), params, err)
	}

	out := BandPowerResult{Channels: make(map[string][]BandPower, len(signals))}
	for _, sig := range signals {
		bands, err := bandPowers(sig.samples, sig.sampleRate, req.Bounds)
		if err != nil {
			return failureResult(req.Kind(), params, fmt.Errorf("channel %s: %w", sig.name, err))
		}
		out.Channels[sig.name] = bands
	}
	return successResult(req.Kind(), params, out)
}

func (e *Engine) pca(lr *loadedRecording, req PCARequest) Result {
	params := selectionParams(req.Selection)
	params["components"] = req.Components

	signals, err := e.bindSelection(lr, req.Selection)
	if err != nil {
		return failureResult(req.Kind(), params, err)
	}

	res, err := e.decompose(signals, req.Components)
	if err != nil {
		return failureResult(req.Kind(), params, err)
	}
	return successResult(req.Kind(), params, *res)
}

// decompose aligns the bound signals to a common length and runs the
// principal component analysis.
func (e *Engine) decompose(signals []boundSignal, k int) (*PCAResult, error) {
	n := 0
	for i, sig := range signals {
		if i == 0 || len(sig.samples) < n {
			n = len(sig.samples)
		}
	}
	rows := make([][]float64, len(signals))
	for i, sig := range signals {
		rows[i] = sig.samples[:n]
	}
	return principalComponents(rows, k)
}

func (e *Engine) fullReport(lr *loadedRecording, req FullReportRequest) Result {
	params := selectionParams(req.Selection)
	params["targetFrequency"] = req.TargetFrequency
	params["bounds"] = req.Bounds

	signals, err := e.bindSelection(lr, req.Selection)
	if err != nil {
		return failureResult(req.Kind(), params, err)
	}

	report := FullReport{Bands: BandPowerResult{Channels: make(map[string][]BandPower, len(signals))}}

	report.Detection, err = e.detect(signals, req.TargetFrequency)
	if err != nil {
		return failureResult(req.Kind(), params, err)
	}

	for _, sig := range signals {
		bands, err := bandPowers(sig.samples, sig.sampleRate, req.Bounds)
		if err != nil {
			return failureResult(req.Kind(), params, fmt.Errorf("channel %s: %w", sig.name, err))
		}
		report.Bands.Channels[sig.name] = bands
	}

	pca, err := e.decompose(signals, req.Components)
	if err != nil {
		return failureResult(req.Kind(), params, err)
	}
	if !pca.Skipped {
		report.PCA = pca
	}
	return successResult(req.Kind(), params, report)
}

func selectionParams(sel Selection) map[string]any {
	params := map[string]any{"channels": sel.Channels}
	if sel.Start != 0 {
		params["start"] = sel.Start
	}
	if sel.End != 0 {
		params["end"] = sel.End
	}
	return params
}
