package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/attrbind/cmd/attrbind/commands"
	"github.com/teranos/attrbind/config"
	"github.com/teranos/attrbind/errors"
	"github.com/teranos/attrbind/logger"
)

var rootCmd = &cobra.Command{
	Use:   "attrbind",
	Short: "attrbind - attribute application binder",
	Long: `attrbind - bind attribute applications to constructors and constants.

attrbind resolves the attribute class of each application, selects the
constructor, checks and folds the arguments into typed constants, and
reports diagnostics for everything that cannot be bound.

Available commands:
  bind    - Bind the attribute applications of a fixture
  config  - Show and validate configuration
  version - Show version information

Examples:
  attrbind bind widget.yaml             # Bind and print records
  attrbind bind widget.yaml -vv         # With per-application debug logs
  attrbind config show                  # Show current configuration`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")

		cfg, err := config.Load()
		if err != nil {
			return errors.Wrap(err, "failed to load config")
		}
		if cfg.Log.Verbosity > verbosity {
			verbosity = cfg.Log.Verbosity
		}
		if err := logger.InitializeWithLevel(cfg.Log.JSON, logger.VerbosityToLevel(verbosity)); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		logger.Logger.Debugw("configuration loaded", "files", config.FilesUsed(), "verbosity", logger.LevelName(verbosity))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")

	rootCmd.AddCommand(commands.BindCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
