package edf

import "log/slog"

// Channel header block widths in bytes per channel. The region after the
// main header is laid out column-major: one block per field, each block
// spanning all channels before the next field begins.
const (
	lenLabel          = 16
	lenTransducer     = 80
	lenPhysDimension  = 8
	lenPhysMin        = 8
	lenPhysMax        = 8
	lenDigMin         = 8
	lenDigMax         = 8
	lenPrefiltering   = 80
	lenSamplesPerRec  = 8
	lenReserved       = 32
	channelHeaderSize = lenLabel + lenTransducer + lenPhysDimension + lenPhysMin +
		lenPhysMax + lenDigMin + lenDigMax + lenPrefiltering + lenSamplesPerRec + lenReserved
)

// Defaults substituted for malformed per-channel numeric fields.
const (
	defaultPhysicalMin      = -1000.0
	defaultPhysicalMax      = 1000.0
	defaultDigitalMin       = -32768
	defaultDigitalMax       = 32767
	defaultSamplesPerRecord = 256
)

// ParseChannelHeaders parses hdr.NumSignals channel headers from the
// column-major region following the main header.
//
// A buffer shorter than hdr.HeaderBytes is fatal and yields a *FormatError.
// Individual malformed numeric fields fall back to documented defaults and
// are logged through logger (which may be nil). The returned slice always
// has length hdr.NumSignals.
func ParseChannelHeaders(buf []byte, hdr Header, logger *slog.Logger) ([]ChannelHeader, error) {
	if len(buf) < hdr.HeaderBytes {
		return nil, newFormatError("buffer too short for channel headers: %d bytes, header declares %d", len(buf), hdr.HeaderBytes)
	}

	ns := hdr.NumSignals
	channels := make([]ChannelHeader, ns)

	off := MainHeaderSize
	off = parseStringBlock(buf, off, lenLabel, ns, func(i int, s string) { channels[i].Label = s })
	off = parseStringBlock(buf, off, lenTransducer, ns, func(i int, s string) { channels[i].TransducerType = s })
	off = parseStringBlock(buf, off, lenPhysDimension, ns, func(i int, s string) { channels[i].PhysicalDimension = s })
	off = parseFloatBlock(buf, off, lenPhysMin, ns, "physicalMin", defaultPhysicalMin, logger,
		func(i int, v float64) { channels[i].PhysicalMin = v })
	off = parseFloatBlock(buf, off, lenPhysMax, ns, "physicalMax", defaultPhysicalMax, logger,
		func(i int, v float64) { channels[i].PhysicalMax = v })
	off = parseIntBlock(buf, off, lenDigMin, ns, "digitalMin", defaultDigitalMin, logger,
		func(i int, v int) { channels[i].DigitalMin = v })
	off = parseIntBlock(buf, off, lenDigMax, ns, "digitalMax", defaultDigitalMax, logger,
		func(i int, v int) { channels[i].DigitalMax = v })
	off = parseStringBlock(buf, off, lenPrefiltering, ns, func(i int, s string) { channels[i].Prefiltering = s })
	off = parseIntBlock(buf, off, lenSamplesPerRec, ns, "samplesPerRecord", defaultSamplesPerRecord, logger,
		func(i int, v int) { channels[i].SamplesPerRecord = v })
	parseStringBlock(buf, off, lenReserved, ns, func(i int, s string) { channels[i].Reserved = s })

	for i := range channels {
		if channels[i].SamplesPerRecord <= 0 {
			warnField(logger, "samplesPerRecord", channels[i].SamplesPerRecord, defaultSamplesPerRecord)
			channels[i].SamplesPerRecord = defaultSamplesPerRecord
		}
	}

	return channels, nil
}

// field returns the width-sized slice at off, or nil when it does not fit
// inside buf. A nil field parses like a malformed one and falls back to the
// documented default.
func field(buf []byte, off, width int) []byte {
	if off < 0 || off+width > len(buf) {
		return nil
	}
	return buf[off : off+width]
}

func parseStringBlock(buf []byte, off, width, n int, set func(int, string)) int {
	for i := 0; i < n; i++ {
		if b := field(buf, off, width); b != nil {
			set(i, trimField(b))
		}
		off += width
	}
	return off
}

func parseIntBlock(buf []byte, off, width, n int, name string, def int, logger *slog.Logger, set func(int, int)) int {
	for i := 0; i < n; i++ {
		b := field(buf, off, width)
		if b == nil {
			warnParse(logger, name, "", def)
			set(i, def)
		} else {
			set(i, parseIntField(b, name, def, logger))
		}
		off += width
	}
	return off
}

func parseFloatBlock(buf []byte, off, width, n int, name string, def float64, logger *slog.Logger, set func(int, float64)) int {
	for i := 0; i < n; i++ {
		b := field(buf, off, width)
		if b == nil {
			warnParse(logger, name, "", def)
			set(i, def)
		} else {
			set(i, parseFloatField(b, name, def, logger))
		}
		off += width
	}
	return off
}
