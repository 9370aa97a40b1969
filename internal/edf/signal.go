package edf

import (
	"encoding/binary"
	"fmt"
)

// RecordSize returns the byte size of one data record: the concatenation of
// per-channel sample blocks, each block samplesPerRecord little-endian
// 16-bit signed integers.
func (r *Recording) RecordSize() int {
	size := 0
	for _, ch := range r.Channels {
		size += ch.SamplesPerRecord * 2
	}
	return size
}

// channelOffset returns the byte offset of the given channel's sample block
// within a data record.
func (r *Recording) channelOffset(ch int) int {
	off := 0
	for i := 0; i < ch; i++ {
		off += r.Channels[i].SamplesPerRecord * 2
	}
	return off
}

// ReadSignal extracts numSamples physical-unit samples of channel ch
// starting at startSample. It computes the minimal record range covering
// the window and touches only those bytes, so memory stays bounded for
// large files.
//
// Samples beyond the last complete record, or beyond the end of a truncated
// buffer, are zero-padded: the returned slice always has length numSamples.
// Only logically invalid requests (unknown channel, negative window) fail.
func (r *Recording) ReadSignal(ch, startSample, numSamples int) ([]float64, error) {
	if ch < 0 || ch >= len(r.Channels) {
		return nil, fmt.Errorf("channel index %d out of range [0, %d)", ch, len(r.Channels))
	}
	if startSample < 0 || numSamples < 0 {
		return nil, fmt.Errorf("invalid sample window [%d, %d+%d)", startSample, startSample, numSamples)
	}

	out := make([]float64, numSamples)
	if numSamples == 0 {
		return out, nil
	}

	spr := r.Channels[ch].SamplesPerRecord
	recSize := r.RecordSize()
	chOff := r.channelOffset(ch)

	// Last byte holding a complete record; anything past it reads as zero.
	limit := r.Header.HeaderBytes + r.Header.NumRecords*recSize
	if len(r.data) < limit {
		limit = len(r.data)
	}

	firstRec := startSample / spr
	lastRec := (startSample + numSamples - 1) / spr

	for rec := firstRec; rec <= lastRec; rec++ {
		base := r.Header.HeaderBytes + rec*recSize + chOff

		lo := 0
		if rec == firstRec {
			lo = startSample - rec*spr
		}
		hi := spr
		if upper := startSample + numSamples - rec*spr; upper < hi {
			hi = upper
		}

		for k := lo; k < hi; k++ {
			pos := base + 2*k
			if pos+2 > limit {
				continue // zero-padded
			}
			digital := int16(binary.LittleEndian.Uint16(r.data[pos : pos+2]))
			out[rec*spr+k-startSample] = r.toPhysical(ch, digital)
		}
	}

	return out, nil
}

// toPhysical converts a digital sample code to calibrated physical units
// using the channel's affine scale. A degenerate calibration with
// digitalMax == digitalMin passes the raw digital value through unchanged.
func (r *Recording) toPhysical(ch int, digital int16) float64 {
	c := r.Channels[ch]
	if c.DigitalMax == c.DigitalMin {
		return float64(digital)
	}
	return (float64(digital)-float64(c.DigitalMin))*(c.PhysicalMax-c.PhysicalMin)/
		(float64(c.DigitalMax)-float64(c.DigitalMin)) + c.PhysicalMin
}

// ReadWindow extracts the same sample window from every listed channel,
// returning one physical-unit sequence per channel in input order.
func (r *Recording) ReadWindow(channels []int, startSample, numSamples int) ([][]float64, error) {
	out := make([][]float64, len(channels))
	for i, ch := range channels {
		samples, err := r.ReadSignal(ch, startSample, numSamples)
		if err != nil {
			return nil, err
		}
		out[i] = samples
	}
	return out, nil
}
