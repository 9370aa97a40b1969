package edf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderFullBackend(t *testing.T) {
	buf := buildFile(twoChannelSpec())

	rec, meta, err := NewLoader().Load(buf, "session.edf")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "edf", meta.Backend)
	assert.False(t, meta.Simulated)
	assert.Equal(t, "session.edf", meta.Filename)
	assert.Equal(t, []string{"EEG O1", "EEG O2"}, meta.ChannelNames)
	assert.Equal(t, 100.0, meta.SampleRate)
	assert.Equal(t, 1.0, meta.Duration)
	assert.Equal(t, "test subject", meta.SubjectID)
}

func TestLoaderShortBufferIsFatal(t *testing.T) {
	_, meta, err := NewLoader().Load(make([]byte, 100), "broken.edf")
	require.Error(t, err)
	assert.True(t, IsFormatError(err))
	assert.Empty(t, meta.ChannelNames)
}

func TestLoaderMinimalBackend(t *testing.T) {
	spec := twoChannelSpec()
	spec.headerBytes = "99999" // declared header size exceeds the buffer
	buf := buildFile(spec)

	rec, meta, err := NewLoader().Load(buf, "odd.edf")
	require.NoError(t, err)

	assert.Equal(t, "edf-minimal", meta.Backend)
	assert.False(t, meta.Simulated)
	require.Len(t, rec.Channels, 2)
	assert.Equal(t, "Ch1", rec.Channels[0].Label)
	assert.Equal(t, defaultSamplesPerRecord, rec.Channels[0].SamplesPerRecord)
}

func TestLoaderSyntheticFallback(t *testing.T) {
	loader := NewLoader(WithSyntheticFallback())

	rec, meta, err := loader.Load(make([]byte, 100), "garbage.bin")
	require.NoError(t, err)

	assert.Equal(t, "synthetic", meta.Backend)
	assert.True(t, meta.Simulated)
	assert.Equal(t, synthChannels, len(rec.Channels))
	assert.Equal(t, float64(synthSampleRate), rec.SampleRate(0))
	assert.Equal(t, float64(synthDuration), rec.Duration())
}

func TestLoaderSyntheticFallbackIsDeterministic(t *testing.T) {
	loader := NewLoader(WithSyntheticFallback())

	first, _, err := loader.Load([]byte{1}, "a.bin")
	require.NoError(t, err)
	second, _, err := loader.Load([]byte{2}, "b.bin")
	require.NoError(t, err)

	a, err := first.ReadSignal(0, 0, 1024)
	require.NoError(t, err)
	b, err := second.ReadSignal(0, 0, 1024)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestChannelIndex(t *testing.T) {
	rec := loadRecording(t, twoChannelSpec())

	assert.Equal(t, 0, rec.ChannelIndex("EEG O1"))
	assert.Equal(t, 1, rec.ChannelIndex("EEG O2"))
	assert.Equal(t, -1, rec.ChannelIndex("Cz"))
}

func TestLoaderBackendOrder(t *testing.T) {
	loader := NewLoader(WithSyntheticFallback())

	// A well-formed file must still be parsed by the primary backend even
	// when the synthetic fallback is present.
	_, meta, err := loader.Load(buildFile(twoChannelSpec()), "ok.edf")
	require.NoError(t, err)
	assert.Equal(t, "edf", meta.Backend)
}

func TestMetadataSampleRateFollowsRecordDuration(t *testing.T) {
	spec := twoChannelSpec()
	spec.recordDuration = "0.5"
	rec := loadRecording(t, spec)

	assert.Equal(t, 200.0, rec.SampleRate(0))
	assert.Equal(t, 0.5, rec.Header.RecordDuration)
}
