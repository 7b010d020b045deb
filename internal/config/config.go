package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level flowcast.yaml configuration. Rule
// tables like the exclusion keyword list live here rather than as
// source constants so they can evolve without touching core logic.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Forecast ForecastConfig `yaml:"forecast"`
}

// StorageConfig locates the transaction snapshot store.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// AnalyzerConfig controls the recurring-pattern consistency test.
type AnalyzerConfig struct {
	MaxCV     float64 `yaml:"max_cv"`
	MaxStddev float64 `yaml:"max_stddev"`
}

// ForecastConfig controls the forecast engine.
type ForecastConfig struct {
	// ExcludeKeywords mark internal transfers between the user's own
	// accounts; matching transactions are dropped before forecasting.
	ExcludeKeywords []string `yaml:"exclude_keywords"`
	// MinTrendDays is the minimum daily history before the variable
	// trend is extrapolated.
	MinTrendDays int `yaml:"min_trend_days"`
}

// Load reads a flowcast.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with stock thresholds and the standard
// internal-transfer exclusion list.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Path: "flowcast.db",
		},
		Analyzer: AnalyzerConfig{
			MaxCV:     0.2,
			MaxStddev: 1.0,
		},
		Forecast: ForecastConfig{
			ExcludeKeywords: []string{
				"transfer",
				"internal",
				"save the change",
				"credit card payment",
			},
			MinTrendDays: 11,
		},
	}
}
