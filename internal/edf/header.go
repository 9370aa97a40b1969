package edf

import (
	"log/slog"
	"strconv"
	"strings"
)

// MainHeaderSize is the fixed size of the main header in bytes.
const MainHeaderSize = 256

// Defaults substituted for malformed numeric header fields. Many real-world
// files carry placeholder values in these fields; parsing recovers with the
// documented default and continues instead of aborting.
const (
	defaultNumRecords     = 1
	defaultRecordDuration = 1.0
	defaultNumSignals     = 1
)

// ParseHeader parses the fixed 256-byte main header from buf.
//
// Fields are fixed-width ASCII at fixed byte offsets, whitespace-trimmed.
// Malformed numeric fields are replaced by their documented defaults and
// logged through logger (which may be nil); only a buffer shorter than 256
// bytes is fatal and yields a *FormatError.
func ParseHeader(buf []byte, logger *slog.Logger) (Header, error) {
	if len(buf) < MainHeaderSize {
		return Header{}, newFormatError("buffer too short for main header: %d bytes, need %d", len(buf), MainHeaderSize)
	}

	h := Header{
		Version:     trimField(buf[0:8]),
		PatientID:   trimField(buf[8:88]),
		RecordingID: trimField(buf[88:168]),
		StartDate:   trimField(buf[168:176]),
		StartTime:   trimField(buf[176:184]),
	}

	h.HeaderBytes = parseIntField(buf[184:192], "headerBytes", MainHeaderSize, logger)
	if h.HeaderBytes < MainHeaderSize {
		warnField(logger, "headerBytes", h.HeaderBytes, MainHeaderSize)
		h.HeaderBytes = MainHeaderSize
	}

	h.NumRecords = parseIntField(buf[236:244], "numRecords", defaultNumRecords, logger)
	if h.NumRecords <= 0 {
		warnField(logger, "numRecords", h.NumRecords, defaultNumRecords)
		h.NumRecords = defaultNumRecords
	}

	h.RecordDuration = parseFloatField(buf[244:252], "recordDuration", defaultRecordDuration, logger)
	if h.RecordDuration <= 0 {
		warnField(logger, "recordDuration", h.RecordDuration, defaultRecordDuration)
		h.RecordDuration = defaultRecordDuration
	}

	h.NumSignals = parseIntField(buf[252:256], "numSignals", defaultNumSignals, logger)
	if h.NumSignals <= 0 {
		warnField(logger, "numSignals", h.NumSignals, defaultNumSignals)
		h.NumSignals = defaultNumSignals
	}

	return h, nil
}

func trimField(b []byte) string {
	return strings.TrimSpace(string(b))
}

func parseIntField(b []byte, name string, def int, logger *slog.Logger) int {
	s := trimField(b)
	v, err := strconv.Atoi(s)
	if err != nil {
		warnParse(logger, name, s, def)
		return def
	}
	return v
}

func parseFloatField(b []byte, name string, def float64, logger *slog.Logger) float64 {
	s := trimField(b)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		warnParse(logger, name, s, def)
		return def
	}
	return v
}

func warnParse(logger *slog.Logger, name, raw string, def any) {
	if logger == nil {
		return
	}
	logger.Warn("malformed header field, using default",
		slog.String("field", name),
		slog.String("raw", raw),
		slog.Any("default", def))
}

func warnField(logger *slog.Logger, name string, got, def any) {
	if logger == nil {
		return
	}
	logger.Warn("out-of-range header field, using default",
		slog.String("field", name),
		slog.Any("value", got),
		slog.Any("default", def))
}
