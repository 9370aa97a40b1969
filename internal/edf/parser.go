package edf

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
)

// Parser is one backend implementation capable of turning raw file bytes
// into a Recording. Backends are tried in priority order by the Loader;
// the name of the backend that succeeded is recorded in the returned
// metadata.
type Parser interface {
	// Name identifies the backend in load metadata.
	Name() string

	// Parse builds a Recording from raw file bytes. A *FormatError means
	// the buffer cannot hold this backend's layout.
	Parse(data []byte) (*Recording, error)
}

// Loader loads recordings by trying an ordered list of parser backends:
// the full container parser first, then the minimal header-only parser,
// and optionally a synthetic fallback generator.
type Loader struct {
	logger   *slog.Logger
	backends []Parser
}

// WithLogger sets the logger used for field warnings during parsing.
func WithLogger(logger *slog.Logger) func(*Loader) {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithSyntheticFallback appends the synthetic data generator to the backend
// chain. With it enabled Load never fails for non-empty input; the returned
// metadata flags the data as simulated.
func WithSyntheticFallback() func(*Loader) {
	return func(l *Loader) {
		l.backends = append(l.backends, &syntheticParser{})
	}
}

// NewLoader creates a Loader with the default backend chain.
func NewLoader(options ...func(*Loader)) *Loader {
	l := &Loader{}
	for _, option := range options {
		option(l)
	}
	l.backends = append([]Parser{
		&fullParser{logger: l.logger},
		&minimalParser{logger: l.logger},
	}, l.backends...)
	return l
}

// Load parses data with the first backend that succeeds and returns the
// recording together with its metadata. When every backend fails, the
// error of the last structural backend is returned; for buffers shorter
// than the main header that is a *FormatError.
func (l *Loader) Load(data []byte, filename string) (*Recording, Metadata, error) {
	var lastErr error
	for _, backend := range l.backends {
		rec, err := backend.Parse(data)
		if err != nil {
			if l.logger != nil {
				l.logger.Warn("parser backend failed",
					slog.String("backend", backend.Name()),
					slog.String("file", filename),
					slog.String("error", err.Error()))
			}
			lastErr = err
			continue
		}

		_, simulated := backend.(*syntheticParser)
		if l.logger != nil {
			l.logger.Info("recording loaded",
				slog.String("backend", backend.Name()),
				slog.String("file", filename),
				slog.Int("channels", len(rec.Channels)))
		}
		return rec, rec.Metadata(filename, backend.Name(), simulated), nil
	}
	return nil, Metadata{}, fmt.Errorf("loading %s: %w", filename, lastErr)
}

// IsFormatError reports whether err is (or wraps) a fatal *FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// fullParser is the primary backend: main header, channel headers and the
// interleaved data records.
type fullParser struct {
	logger *slog.Logger
}

func (p *fullParser) Name() string { return "edf" }

func (p *fullParser) Parse(data []byte) (*Recording, error) {
	hdr, err := ParseHeader(data, p.logger)
	if err != nil {
		return nil, err
	}
	channels, err := ParseChannelHeaders(data, hdr, p.logger)
	if err != nil {
		return nil, err
	}
	return &Recording{Header: hdr, Channels: channels, data: data}, nil
}

// minimalParser is the lightweight secondary backend: it reads only the
// main header and substitutes default channel headers. It recovers files
// whose channel header region is truncated or whose declared header size
// exceeds the buffer.
type minimalParser struct {
	logger *slog.Logger
}

func (p *minimalParser) Name() string { return "edf-minimal" }

func (p *minimalParser) Parse(data []byte) (*Recording, error) {
	hdr, err := ParseHeader(data, p.logger)
	if err != nil {
		return nil, err
	}

	// Data records are assumed to start right after the region the header
	// declares, capped at the buffer so sample reads degrade to zeros
	// instead of misaligning.
	channels := make([]ChannelHeader, hdr.NumSignals)
	for i := range channels {
		channels[i] = ChannelHeader{
			Label:            fmt.Sprintf("Ch%d", i+1),
			PhysicalMin:      defaultPhysicalMin,
			PhysicalMax:      defaultPhysicalMax,
			DigitalMin:       defaultDigitalMin,
			DigitalMax:       defaultDigitalMax,
			SamplesPerRecord: defaultSamplesPerRecord,
		}
	}
	return &Recording{Header: hdr, Channels: channels, data: data}, nil
}

// Synthetic fallback generator parameters, mirroring the shape of real
// stimulation recordings: 8 channels at 256 Hz with alpha-band and
// stimulus-like components over a noise floor.
const (
	synthChannels   = 8
	synthSampleRate = 256
	synthDuration   = 300 // seconds
	synthSeed       = 1   // fixed seed keeps repeated loads bit-identical
)

// syntheticParser is the last-resort backend. It ignores the input bytes
// and produces a deterministic simulated recording so downstream analysis
// can be exercised when no structural parser succeeds.
type syntheticParser struct{}

func (p *syntheticParser) Name() string { return "synthetic" }

func (p *syntheticParser) Parse(data []byte) (*Recording, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	hdr := Header{
		Version:        "0",
		PatientID:      "simulated",
		RecordingID:    "synthetic fallback",
		HeaderBytes:    MainHeaderSize + synthChannels*channelHeaderSize,
		NumRecords:     synthDuration,
		RecordDuration: 1.0,
		NumSignals:     synthChannels,
	}

	channels := make([]ChannelHeader, synthChannels)
	for i := range channels {
		channels[i] = ChannelHeader{
			Label:             fmt.Sprintf("Ch%d", i+1),
			PhysicalDimension: "uV",
			PhysicalMin:       -100,
			PhysicalMax:       100,
			DigitalMin:        defaultDigitalMin,
			DigitalMax:        defaultDigitalMax,
			SamplesPerRecord:  synthSampleRate,
		}
	}

	rec := &Recording{Header: hdr, Channels: channels}
	rec.data = synthesizeRecords(rec)
	return rec, nil
}

// synthesizeRecords renders the simulated signal into the interleaved
// record layout so the synthetic recording goes through the exact same
// read path as a real file.
func synthesizeRecords(r *Recording) []byte {
	rng := rand.New(rand.NewSource(synthSeed))

	recSize := r.RecordSize()
	data := make([]byte, r.Header.HeaderBytes+r.Header.NumRecords*recSize)

	scale := float64(r.Channels[0].DigitalMax-r.Channels[0].DigitalMin) /
		(r.Channels[0].PhysicalMax - r.Channels[0].PhysicalMin)

	pos := r.Header.HeaderBytes
	for rec := 0; rec < r.Header.NumRecords; rec++ {
		for ch := 0; ch < len(r.Channels); ch++ {
			spr := r.Channels[ch].SamplesPerRecord
			for k := 0; k < spr; k++ {
				t := float64(rec) + float64(k)/float64(spr)
				physical := rng.NormFloat64()*0.1 +
					math.Sin(2*math.Pi*10*t)*0.05 + // alpha component
					math.Sin(2*math.Pi*15*t)*0.03 // stimulus-like component

				digital := int16(math.Round((physical-r.Channels[ch].PhysicalMin)*scale + float64(r.Channels[ch].DigitalMin)))
				data[pos] = byte(digital)
				data[pos+1] = byte(digital >> 8)
				pos += 2
			}
		}
	}
	return data
}
