package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowcast-dev/flowcast/internal/importer"
	"github.com/flowcast-dev/flowcast/internal/logger"
	"github.com/flowcast-dev/flowcast/internal/store"
)

func newImportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a bank CSV export into the snapshot store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], format)
		},
	}

	registry := importer.DefaultRegistry()
	cmd.Flags().StringVar(&format, "format", "generic",
		fmt.Sprintf("CSV format (%s)", strings.Join(registry.Formats(), ", ")))

	return cmd
}

func runImport(cmd *cobra.Command, path, format string) error {
	log := logger.New()

	parser := importer.DefaultRegistry().Get(format)
	if parser == nil {
		return fmt.Errorf("unknown format %q", format)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	txns, err := parser.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := store.Open(storePath(cfg))
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if err := s.Put(ctx, txns); err != nil {
		return fmt.Errorf("storing transactions: %w", err)
	}

	total, err := s.Count(ctx)
	if err != nil {
		return err
	}

	log.Info().Int("imported", len(txns)).Int("total", total).Str("format", format).Msg("import complete")
	fmt.Printf("Imported %d transactions (%d total in store)\n", len(txns), total)
	return nil
}
