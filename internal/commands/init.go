package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/flatbank/internal/config"
)

func newInitCommand(opts *globalOptions) *cobra.Command {
	var force bool
	var noSync bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default " + config.FileName,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg := config.Default()
			if opts.storePath != "" {
				cfg.Store.Path = opts.storePath
			}
			cfg.Store.Sync = !noSync

			return runInit(cmd, absDir, cfg, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.Flags().BoolVar(&noSync, "no-sync", false, "skip fsync after each write")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, cfg *config.Config, force bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, config.FileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", path, err)
		}
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (store: %s)\n", path, cfg.Store.Path)
	return nil
}
