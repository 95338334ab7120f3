package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/flatbank/internal/buildinfo"
	"github.com/cleared-dev/flatbank/internal/config"
	"github.com/cleared-dev/flatbank/internal/store"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	storePath  string
	verbose    bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "flatbank",
		Short:   "Bank accounts kept in a single flat file",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.FileName, "config file")
	flags.StringVar(&opts.storePath, "store", "", "store file (overrides config and $"+config.StoreEnv+")")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log store activity to stderr")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newCreateCommand(opts),
		newDepositCommand(opts),
		newWithdrawCommand(opts),
		newQueryCommand(opts),
		newListCommand(opts),
		newImportCommand(opts),
		newShellCommand(opts),
	)

	return rootCmd
}

// openStore resolves configuration and returns the account store it names.
func (o *globalOptions) openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := config.Resolve(o.configPath, o.storePath)
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	logger.Debug("using store", "path", cfg.Store.Path, "sync", cfg.Store.Sync)

	return store.New(cfg.Store.Path, store.WithSync(cfg.Store.Sync), store.WithLogger(logger)), nil
}
