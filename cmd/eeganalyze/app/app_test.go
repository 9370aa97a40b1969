package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pplvieira/Optoceutics-EEG-platform-sub000/internal/analysis"
	"github.com/pplvieira/Optoceutics-EEG-platform-sub000/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunWithSyntheticFallback(t *testing.T) {
	dir := t.TempDir()

	// An unparseable file degrades to the synthetic backend.
	file := filepath.Join(dir, "broken.edf")
	require.NoError(t, os.WriteFile(file, []byte("not a recording"), 0o600))

	dbPath := filepath.Join(dir, "results.db")
	config := &Config{
		Settings: Settings{SyntheticFallback: true},
		Storage:  StorageConfig{DatabasePath: dbPath},
		Analysis: AnalysisConfig{
			Channels:        []string{"Ch1", "Ch2"},
			End:             30,
			TargetFrequency: 10,
			BandBoundaries:  []float64{4, 13, 30, 100},
			Components:      2,
			SNRSpectrum:     true,
		},
	}

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), config, []string{file}, &out, discardLogger()))

	var report Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Files, 1)

	fr := report.Files[0]
	assert.Equal(t, file, fr.File)
	assert.NotEmpty(t, fr.RecordingID)
	assert.Equal(t, "synthetic", fr.Metadata.Backend)
	assert.True(t, fr.Metadata.Simulated)

	require.Len(t, fr.Results, 2)
	assert.Equal(t, analysis.KindFullReport, fr.Results[0].Kind)
	assert.True(t, fr.Results[0].Success, fr.Results[0].Error)
	assert.Equal(t, analysis.KindSNRSpectrum, fr.Results[1].Kind)
	assert.True(t, fr.Results[1].Success, fr.Results[1].Error)

	// The SNR spectrum result comes with its plot data.
	require.Len(t, fr.Plots, 1)
	assert.Equal(t, "SNR spectrum", fr.Plots[0].Title)
	require.Len(t, fr.Plots[0].Series, 2)

	// Both the recording and its results were persisted.
	store := storage.NewSqliteStore(dbPath)
	defer store.Close()

	recs, err := store.Recordings(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, fr.RecordingID, recs[0].ID)

	rows, err := store.Analyses(context.Background(), fr.RecordingID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRunWithoutPersistence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "broken.edf")
	require.NoError(t, os.WriteFile(file, []byte("junk"), 0o600))

	config := &Config{
		Settings: Settings{SyntheticFallback: true},
		Analysis: AnalysisConfig{
			Channels:        []string{"Ch1"},
			End:             10,
			TargetFrequency: 10,
			BandBoundaries:  []float64{4, 13, 30, 100},
		},
	}

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), config, []string{file}, &out, discardLogger()))

	var report Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Files, 1)
	require.Len(t, report.Files[0].Results, 1)
	assert.True(t, report.Files[0].Results[0].Success)
}

func TestRunRejectsUnreadableFile(t *testing.T) {
	config := &Config{
		Analysis: AnalysisConfig{
			TargetFrequency: 10,
			BandBoundaries:  []float64{4, 13, 30, 100},
		},
	}

	var out bytes.Buffer
	err := Run(context.Background(), config, []string{filepath.Join(t.TempDir(), "missing.edf")}, &out, discardLogger())
	require.Error(t, err)
}

func TestRunRejectsBadBounds(t *testing.T) {
	config := &Config{
		Analysis: AnalysisConfig{BandBoundaries: []float64{4, 8}},
	}

	err := Run(context.Background(), config, nil, io.Discard, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "band boundaries")
}
