package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowcast-dev/flowcast/internal/recurring"
	"github.com/flowcast-dev/flowcast/internal/store"
)

func newRecurringCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "List detected recurring payment groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecurring(cmd, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit groups as JSON")

	return cmd
}

// recurringRow is the JSON shape for one detected group.
type recurringRow struct {
	Key        string `json:"key"`
	Frequency  string `json:"frequency"`
	Members    int    `json:"members"`
	NextDate   string `json:"next_date"`
	NextAmount string `json:"next_amount"`
}

func runRecurring(cmd *cobra.Command, asJSON bool) error {
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

	res := recurring.Analyze(txns, thresholds(cfg))

	rows := make([]recurringRow, 0, len(res.Groups))
	for _, g := range res.Groups {
		rows = append(rows, recurringRow{
			Key:        g.Key,
			Frequency:  string(g.Frequency),
			Members:    len(g.Members),
			NextDate:   g.NextDate.Format("2006-01-02"),
			NextAmount: g.NextAmount.StringFixed(2),
		})
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	for _, r := range rows {
		fmt.Printf("%-30s  %-8s  %2d members  next %s  %s\n",
			r.Key, r.Frequency, r.Members, r.NextDate, r.NextAmount)
	}
	return nil
}
