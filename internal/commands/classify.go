package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowcast-dev/flowcast/internal/classify"
	"github.com/flowcast-dev/flowcast/internal/store"
)

func newClassifyCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Label every stored transaction as bill, income, or variable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit an id-to-label JSON object")

	return cmd
}

func runClassify(cmd *cobra.Command, asJSON bool) error {
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

	labels := classify.Classify(txns, thresholds(cfg))

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(labels)
	}

	for _, t := range txns {
		fmt.Printf("%s  %-8s  %10s  %s\n",
			t.Day().Format("2006-01-02"), labels[t.ID], t.Amount.StringFixed(2), t.Description)
	}
	return nil
}
