package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/flatbank/internal/importer"
)

func newImportCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Open accounts in bulk from a CSV file",
		Long:  "Open accounts in bulk from a CSV file with the header\n\n  " + importer.Header,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts, args[0])
		},
	}
}

func runImport(cmd *cobra.Command, opts *globalOptions, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	openings, err := importer.ReadOpenings(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	s, err := opts.openStore(cmd)
	if err != nil {
		return err
	}

	results := importer.Apply(s, openings)
	stderr := cmd.ErrOrStderr()
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "row %d: %v\n", r.Opening.Row, describe(r.Opening.Number, r.Err))
			continue
		}
		warnTruncated(stderr, r.Opening.Holder, r.Account)
	}

	failed := importer.Failed(results)
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d accounts.\n", len(results)-failed, len(results))
	if failed > 0 {
		return fmt.Errorf("%d rows failed", failed)
	}
	return nil
}
