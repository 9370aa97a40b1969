package edf

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// fileSpec describes a synthetic container built for tests.
type fileSpec struct {
	numRecords     int
	recordDuration string // raw ASCII field
	channels       []channelSpec

	// Raw overrides for main header numeric fields; empty means derive a
	// valid value.
	headerBytes string
	numSignals  string
}

type channelSpec struct {
	label            string
	physMin, physMax float64
	digMin, digMax   int
	samplesPerRecord int

	// samples holds the digital values of every record concatenated. When
	// shorter than numRecords*samplesPerRecord the remaining samples are
	// written as zeros.
	samples []int16
}

func putField(buf []byte, off, width int, s string) {
	if len(s) > width {
		s = s[:width]
	}
	copy(buf[off:off+width], s+strings.Repeat(" ", width-len(s)))
}

// buildFile renders spec into the on-disk layout: 256-byte main header,
// column-major channel headers, then interleaved data records.
func buildFile(spec fileSpec) []byte {
	ns := len(spec.channels)
	headerBytes := MainHeaderSize + ns*channelHeaderSize

	recSize := 0
	for _, ch := range spec.channels {
		recSize += ch.samplesPerRecord * 2
	}

	buf := make([]byte, headerBytes+spec.numRecords*recSize)
	for i := range buf[:headerBytes] {
		buf[i] = ' '
	}

	putField(buf, 0, 8, "0")
	putField(buf, 8, 80, "test subject")
	putField(buf, 88, 80, "test recording")
	putField(buf, 168, 8, "01.01.24")
	putField(buf, 176, 8, "12.00.00")
	if spec.headerBytes != "" {
		putField(buf, 184, 8, spec.headerBytes)
	} else {
		putField(buf, 184, 8, fmt.Sprintf("%d", headerBytes))
	}
	putField(buf, 236, 8, fmt.Sprintf("%d", spec.numRecords))
	if spec.recordDuration != "" {
		putField(buf, 244, 8, spec.recordDuration)
	} else {
		putField(buf, 244, 8, "1")
	}
	if spec.numSignals != "" {
		putField(buf, 252, 4, spec.numSignals)
	} else {
		putField(buf, 252, 4, fmt.Sprintf("%d", ns))
	}

	off := MainHeaderSize
	for _, ch := range spec.channels {
		putField(buf, off, lenLabel, ch.label)
		off += lenLabel
	}
	off += ns * lenTransducer
	for range spec.channels {
		putField(buf, off, lenPhysDimension, "uV")
		off += lenPhysDimension
	}
	for _, ch := range spec.channels {
		putField(buf, off, lenPhysMin, fmt.Sprintf("%g", ch.physMin))
		off += lenPhysMin
	}
	for _, ch := range spec.channels {
		putField(buf, off, lenPhysMax, fmt.Sprintf("%g", ch.physMax))
		off += lenPhysMax
	}
	for _, ch := range spec.channels {
		putField(buf, off, lenDigMin, fmt.Sprintf("%d", ch.digMin))
		off += lenDigMin
	}
	for _, ch := range spec.channels {
		putField(buf, off, lenDigMax, fmt.Sprintf("%d", ch.digMax))
		off += lenDigMax
	}
	off += ns * lenPrefiltering
	for _, ch := range spec.channels {
		putField(buf, off, lenSamplesPerRec, fmt.Sprintf("%d", ch.samplesPerRecord))
		off += lenSamplesPerRec
	}

	pos := headerBytes
	for rec := 0; rec < spec.numRecords; rec++ {
		for _, ch := range spec.channels {
			for k := 0; k < ch.samplesPerRecord; k++ {
				idx := rec*ch.samplesPerRecord + k
				var v int16
				if idx < len(ch.samples) {
					v = ch.samples[idx]
				}
				binary.LittleEndian.PutUint16(buf[pos:pos+2], uint16(v))
				pos += 2
			}
		}
	}

	return buf
}
