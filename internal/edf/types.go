package edf

// Header represents the fixed 256-byte main header of a recording container.
// All fields are immutable after parsing.
type Header struct {
	Version        string  // Format version field (usually "0")
	PatientID      string  // Identification of the subject
	RecordingID    string  // Identification of the recording session
	StartDate      string  // Recording start date as written in the file (dd.mm.yy)
	StartTime      string  // Recording start time as written in the file (hh.mm.ss)
	HeaderBytes    int     // Total header size in bytes, including channel headers
	NumRecords     int     // Number of data records in the file
	RecordDuration float64 // Duration of a single data record in seconds
	NumSignals     int     // Number of signals in each data record
}

// ChannelHeader describes one signal of the recording. Channel headers are
// index-aligned with the signal order inside each data record.
type ChannelHeader struct {
	Label             string  // Channel label (e.g. "EEG O1")
	TransducerType    string  // Type of transducer used
	PhysicalDimension string  // Physical dimension (e.g. uV)
	PhysicalMin       float64 // Minimum physical value
	PhysicalMax       float64 // Maximum physical value
	DigitalMin        int     // Minimum digital sample code
	DigitalMax        int     // Maximum digital sample code
	Prefiltering      string  // Prefilter description
	SamplesPerRecord  int     // Samples per data record for this channel
	Reserved          string  // Reserved field
}

// Recording is an immutable view over a parsed container. It owns the parsed
// headers and keeps a reference to the raw byte buffer; the buffer is never
// copied wholesale and never mutated.
type Recording struct {
	Header   Header
	Channels []ChannelHeader

	data []byte
}

// Metadata summarises a loaded recording for callers that do not need the
// full header, and records which parser backend produced it.
type Metadata struct {
	Filename     string   `json:"filename"`
	ChannelNames []string `json:"channelNames"`
	SampleRate   float64  `json:"sampleRate"` // Sample rate of the first channel in Hz
	Duration     float64  `json:"duration"`   // Total recording duration in seconds
	SubjectID    string   `json:"subjectId"`
	Backend      string   `json:"backend"`   // Name of the parser backend that succeeded
	Simulated    bool     `json:"simulated"` // True when the data is synthetic fallback data
}

// NumSamples returns the total number of samples stored for the given
// channel across all data records.
func (r *Recording) NumSamples(ch int) int {
	if ch < 0 || ch >= len(r.Channels) {
		return 0
	}
	return r.Channels[ch].SamplesPerRecord * r.Header.NumRecords
}

// SampleRate returns the sampling frequency of the given channel in Hz.
func (r *Recording) SampleRate(ch int) float64 {
	if ch < 0 || ch >= len(r.Channels) || r.Header.RecordDuration <= 0 {
		return 0
	}
	return float64(r.Channels[ch].SamplesPerRecord) / r.Header.RecordDuration
}

// Duration returns the total recording duration in seconds.
func (r *Recording) Duration() float64 {
	return float64(r.Header.NumRecords) * r.Header.RecordDuration
}

// ChannelIndex resolves a channel label to its signal index.
// It returns -1 when no channel carries the label.
func (r *Recording) ChannelIndex(label string) int {
	for i, ch := range r.Channels {
		if ch.Label == label {
			return i
		}
	}
	return -1
}

// Metadata builds the summary record for this recording.
func (r *Recording) Metadata(filename, backend string, simulated bool) Metadata {
	names := make([]string, len(r.Channels))
	for i, ch := range r.Channels {
		names[i] = ch.Label
	}

	var rate float64
	if len(r.Channels) > 0 {
		rate = r.SampleRate(0)
	}

	return Metadata{
		Filename:     filename,
		ChannelNames: names,
		SampleRate:   rate,
		Duration:     r.Duration(),
		SubjectID:    r.Header.PatientID,
		Backend:      backend,
		Simulated:    simulated,
	}
}
