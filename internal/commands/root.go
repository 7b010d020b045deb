// Package commands wires the CLI surface: config and store on the
// outside, the analysis packages in the middle.
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/flowcast-dev/flowcast/internal/buildinfo"
	"github.com/flowcast-dev/flowcast/internal/config"
	"github.com/flowcast-dev/flowcast/internal/forecast"
	"github.com/flowcast-dev/flowcast/internal/recurring"
)

const defaultConfigPath = "flowcast.yaml"

// NewRootCommand creates the root CLI command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	// A .env alongside the working directory may carry FLOWCAST_CONFIG
	// and FLOWCAST_DB overrides; absence is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "flowcast",
		Short:   "Classify bank transactions and forecast daily balance",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "path to flowcast.yaml (default ./flowcast.yaml)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newClassifyCommand())
	rootCmd.AddCommand(newRecurringCommand())
	rootCmd.AddCommand(newForecastCommand())

	return rootCmd
}

func configPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	if p := os.Getenv("FLOWCAST_CONFIG"); p != "" {
		return p
	}
	return defaultConfigPath
}

// loadConfig reads the configured flowcast.yaml, falling back to
// defaults when no file exists so the tool works without an init.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath(cmd)
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func storePath(cfg *config.Config) string {
	if p := os.Getenv("FLOWCAST_DB"); p != "" {
		return p
	}
	return cfg.Storage.Path
}

func thresholds(cfg *config.Config) recurring.Thresholds {
	return recurring.Thresholds{
		MaxCV:     cfg.Analyzer.MaxCV,
		MaxStddev: cfg.Analyzer.MaxStddev,
	}
}

func engineOptions(cfg *config.Config) forecast.Options {
	return forecast.Options{
		ExcludeKeywords: cfg.Forecast.ExcludeKeywords,
		MinTrendDays:    cfg.Forecast.MinTrendDays,
		Thresholds:      thresholds(cfg),
	}
}
