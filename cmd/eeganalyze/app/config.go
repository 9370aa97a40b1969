package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding the configuration file. A .env file in
// the working directory is loaded first when present.
const (
	envLogLevel     = "EEGANALYZE_LOG_LEVEL"
	envDatabasePath = "EEGANALYZE_DB_PATH"
)

// Defaults applied when the configuration leaves a value unset.
var defaultBands = []float64{4, 13, 30, 100}

const defaultTargetFrequency = 40.0

// Config represents the main application configuration
type Config struct {
	Settings Settings       `yaml:"settings"`
	Storage  StorageConfig  `yaml:"storage"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`

	// SyntheticFallback enables the simulated-data parser backend, so
	// unreadable files degrade to a deterministic synthetic recording
	// instead of failing.
	SyntheticFallback bool `yaml:"syntheticFallback"`
}

// Level parses the configured log level. An empty value means Info.
func (s Settings) Level() (slog.Level, error) {
	if s.LogLevel == "" {
		return slog.LevelInfo, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}
	return level, nil
}

// StorageConfig represents result persistence settings. An empty database
// path disables persistence.
type StorageConfig struct {
	DatabasePath string `yaml:"databasePath"`
}

// AnalysisConfig selects the analyses to run on each recording.
type AnalysisConfig struct {
	// Channels restricts the analysis to the named channels. Empty means
	// every channel of the recording.
	Channels []string `yaml:"channels"`

	// Start and End bound the analyzed window in seconds. End 0 means the
	// end of the recording.
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`

	// TargetFrequency is the stimulation frequency to detect, in Hz.
	TargetFrequency float64 `yaml:"targetFrequency"`

	// BandBoundaries are the four boundaries b0..b3 of the canonical
	// Delta/Theta/Alpha/Beta/Gamma bands; the Theta/Alpha split is fixed
	// at 8 Hz.
	BandBoundaries []float64 `yaml:"bandBoundaries"`

	// Components is the number of principal components to extract.
	Components int `yaml:"components"`

	// SNRSpectrum additionally computes the whole-band SNR spectrum.
	SNRSpectrum bool `yaml:"snrSpectrum"`
}

// Bounds returns the band boundaries as the fixed-size array the analysis
// engine expects.
func (c AnalysisConfig) Bounds() ([4]float64, error) {
	var bounds [4]float64
	if len(c.BandBoundaries) != len(bounds) {
		return bounds, fmt.Errorf("expected %d band boundaries, got %d", len(bounds), len(c.BandBoundaries))
	}
	copy(bounds[:], c.BandBoundaries)
	return bounds, nil
}

// LoadConfig reads the yaml configuration and applies environment
// overrides. An empty path yields the default configuration.
func LoadConfig(path string) (*Config, error) {
	// Missing .env is fine; explicit variables still apply.
	_ = godotenv.Load()

	var config Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading configuration: %w", err)
		}
		if err = yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parsing configuration: %w", err)
		}
	}

	if v := os.Getenv(envLogLevel); v != "" {
		config.Settings.LogLevel = v
	}
	if v := os.Getenv(envDatabasePath); v != "" {
		config.Storage.DatabasePath = v
	}

	if config.Analysis.TargetFrequency == 0 {
		config.Analysis.TargetFrequency = defaultTargetFrequency
	}
	if len(config.Analysis.BandBoundaries) == 0 {
		config.Analysis.BandBoundaries = append([]float64(nil), defaultBands...)
	}

	return &config, nil
}
