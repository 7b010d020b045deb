package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowcast-dev/flowcast/internal/config"
	"github.com/flowcast-dev/flowcast/internal/store"
)

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default flowcast.yaml and create the snapshot store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(configPath(cmd), force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")

	return cmd
}

func runInit(cfgPath string, force bool) error {
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	}

	cfg := config.Default()
	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	// Opening once creates the database file and schema.
	s, err := store.Open(storePath(cfg))
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Printf("Initialized %s (store: %s)\n", cfgPath, storePath(cfg))
	return nil
}
