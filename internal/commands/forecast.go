package commands

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowcast-dev/flowcast/internal/forecast"
	"github.com/flowcast-dev/flowcast/internal/logger"
	"github.com/flowcast-dev/flowcast/internal/store"
)

func newForecastCommand() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project the daily net balance forward",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForecast(cmd, days)
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "forecast horizon in days")

	return cmd
}

// forecastRow is the JSON shape for one projected day.
type forecastRow struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

func runForecast(cmd *cobra.Command, days int) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := store.Open(storePath(cfg))
	if err != nil {
		return err
	}
	defer s.Close()

	txns, err := s.All(cmd.Context())
	if err != nil {
		return err
	}

	opts := engineOptions(cfg)
	opts.Logger = logger.New()
	engine := forecast.New(opts)

	points, err := engine.Forecast(txns, days)
	if err != nil {
		return err
	}

	rows := make([]forecastRow, 0, len(points))
	for _, p := range points {
		rows = append(rows, forecastRow{
			Date:  p.Date.Format("2006-01-02"),
			Value: p.Value.StringFixed(2),
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
