package edf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	buf := buildFile(fileSpec{
		numRecords: 3,
		channels: []channelSpec{
			{label: "EEG O1", physMin: -100, physMax: 100, digMin: -32768, digMax: 32767, samplesPerRecord: 256},
		},
	})

	hdr, err := ParseHeader(buf, nil)
	require.NoError(t, err)

	assert.Equal(t, "0", hdr.Version)
	assert.Equal(t, "test subject", hdr.PatientID)
	assert.Equal(t, "test recording", hdr.RecordingID)
	assert.Equal(t, "01.01.24", hdr.StartDate)
	assert.Equal(t, "12.00.00", hdr.StartTime)
	assert.Equal(t, MainHeaderSize+channelHeaderSize, hdr.HeaderBytes)
	assert.Equal(t, 3, hdr.NumRecords)
	assert.Equal(t, 1.0, hdr.RecordDuration)
	assert.Equal(t, 1, hdr.NumSignals)
}

func TestParseHeaderTooShort(t *testing.T) {
	_, err := ParseHeader(make([]byte, 100), nil)
	require.Error(t, err)

	var fe *FormatError
	assert.True(t, errors.As(err, &fe))
}

func TestParseHeaderFieldDefaults(t *testing.T) {
	tests := []struct {
		name string
		spec fileSpec
		want func(t *testing.T, hdr Header)
	}{
		{
			name: "malformed header bytes",
			spec: fileSpec{numRecords: 1, headerBytes: "xxxx"},
			want: func(t *testing.T, hdr Header) {
				assert.Equal(t, MainHeaderSize, hdr.HeaderBytes)
			},
		},
		{
			name: "header bytes below minimum",
			spec: fileSpec{numRecords: 1, headerBytes: "100"},
			want: func(t *testing.T, hdr Header) {
				assert.Equal(t, MainHeaderSize, hdr.HeaderBytes)
			},
		},
		{
			name: "zero records",
			spec: fileSpec{numRecords: 0},
			want: func(t *testing.T, hdr Header) {
				assert.Equal(t, 1, hdr.NumRecords)
			},
		},
		{
			name: "negative record duration",
			spec: fileSpec{numRecords: 1, recordDuration: "-2"},
			want: func(t *testing.T, hdr Header) {
				assert.Equal(t, 1.0, hdr.RecordDuration)
			},
		},
		{
			name: "placeholder signal count",
			spec: fileSpec{numRecords: 1, numSignals: "??"},
			want: func(t *testing.T, hdr Header) {
				assert.Equal(t, 1, hdr.NumSignals)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := tt.spec
			spec.channels = []channelSpec{
				{label: "Ch1", physMin: -100, physMax: 100, digMin: -32768, digMax: 32767, samplesPerRecord: 4},
			}

			hdr, err := ParseHeader(buildFile(spec), nil)
			require.NoError(t, err)
			tt.want(t, hdr)
		})
	}
}
