package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/pplvieira/Optoceutics-EEG-platform-sub000/internal/analysis"
	"github.com/pplvieira/Optoceutics-EEG-platform-sub000/internal/edf"
	"github.com/pplvieira/Optoceutics-EEG-platform-sub000/internal/report"
	"github.com/pplvieira/Optoceutics-EEG-platform-sub000/internal/storage"
)

// FileReport is the per-file section of the printed report.
type FileReport struct {
	File        string            `json:"file"`
	RecordingID string            `json:"recordingId"`
	Metadata    edf.Metadata      `json:"metadata"`
	Results     []analysis.Result `json:"results"`
	Plots       []report.Plot     `json:"plots,omitempty"`
}

// Report is the JSON document written to the output stream.
type Report struct {
	Files []FileReport `json:"files"`
}

// Run analyzes each input file and writes the collected report as JSON.
// When a database path is configured, recordings and results are persisted
// along the way.
func Run(ctx context.Context, config *Config, files []string, out io.Writer, logger *slog.Logger) error {
	bounds, err := config.Analysis.Bounds()
	if err != nil {
		return fmt.Errorf("invalid analysis configuration: %w", err)
	}

	var loaderOpts []func(*edf.Loader)
	loaderOpts = append(loaderOpts, edf.WithLogger(logger))
	if config.Settings.SyntheticFallback {
		loaderOpts = append(loaderOpts, edf.WithSyntheticFallback())
	}

	engine := analysis.NewEngine(
		analysis.WithLogger(logger),
		analysis.WithLoader(edf.NewLoader(loaderOpts...)),
	)

	var store storage.Store
	if config.Storage.DatabasePath != "" {
		s := storage.NewSqliteStore(config.Storage.DatabasePath)
		defer s.Close()
		store = s
	}

	report := Report{Files: make([]FileReport, 0, len(files))}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		fr, err := analyzeFile(ctx, engine, store, config, bounds, file, logger)
		if err != nil {
			return fmt.Errorf("analyzing %s: %w", file, err)
		}
		report.Files = append(report.Files, *fr)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func analyzeFile(ctx context.Context, engine *analysis.Engine, store storage.Store, config *Config, bounds [4]float64, file string, logger *slog.Logger) (*FileReport, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	logger.Info("file read",
		slog.String("file", file),
		slog.String("size", humanize.Bytes(uint64(len(data)))))

	id, meta, err := engine.Load(data, filepath.Base(file))
	if err != nil {
		return nil, fmt.Errorf("loading recording: %w", err)
	}
	defer func() {
		_ = engine.Unload(id)
	}()

	logger.Info("recording loaded",
		slog.String("id", id),
		slog.String("backend", meta.Backend),
		slog.Int("channels", len(meta.ChannelNames)),
		slog.String("samples", humanize.Comma(int64(meta.Duration*meta.SampleRate))))

	if store != nil {
		if err = store.CreateRecording(ctx, storage.NewRecordingRow(id, meta, data)); err != nil {
			return nil, fmt.Errorf("persisting recording: %w", err)
		}
	}

	selection := analysis.Selection{
		Channels: config.Analysis.Channels,
		Start:    config.Analysis.Start,
		End:      config.Analysis.End,
	}
	if len(selection.Channels) == 0 {
		selection.Channels = meta.ChannelNames
	}

	requests := []analysis.Request{
		analysis.FullReportRequest{
			Selection:       selection,
			TargetFrequency: config.Analysis.TargetFrequency,
			Bounds:          bounds,
			Components:      config.Analysis.Components,
		},
	}
	if config.Analysis.SNRSpectrum {
		requests = append(requests, analysis.SNRSpectrumRequest{Selection: selection})
	}

	fr := &FileReport{
		File:        file,
		RecordingID: id,
		Metadata:    meta,
		Results:     make([]analysis.Result, 0, len(requests)),
	}
	for _, req := range requests {
		res := engine.Analyze(id, req)
		if !res.Success {
			logger.Warn("analysis failed",
				slog.String("id", id),
				slog.String("kind", string(res.Kind)),
				slog.String("error", res.Error))
		}
		fr.Results = append(fr.Results, res)
		if plot, ok := resultPlot(res); ok {
			fr.Plots = append(fr.Plots, plot)
		}

		if store != nil {
			row, err := storage.NewAnalysisRow(id, res)
			if err != nil {
				return nil, fmt.Errorf("encoding analysis: %w", err)
			}
			if _, err = store.SaveAnalysis(ctx, row); err != nil {
				return nil, fmt.Errorf("persisting analysis: %w", err)
			}
		}
	}
	return fr, nil
}

// resultPlot converts a successful analysis result into the numeric plot
// data downstream renderers consume.
func resultPlot(res analysis.Result) (report.Plot, bool) {
	if !res.Success {
		return report.Plot{}, false
	}
	switch data := res.Data.(type) {
	case analysis.RawDataResult:
		return report.WaveformPlot(data), true
	case analysis.SpectralResult:
		return report.SpectrumPlot(data), true
	case analysis.SNRSpectrumResult:
		return report.SNRSpectrumPlot(data), true
	case analysis.BandPowerResult:
		return report.BandPowerPlot(data), true
	default:
		return report.Plot{}, false
	}
}
