// Package commands implements the typomatic command line.
package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/teranos/typomatic/errors"
	"github.com/teranos/typomatic/logger"
)

// NewRootCmd builds the typomatic command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "typomatic",
		Short: "Generate TypeScript types from Go serializers",
		Long: `typomatic - TypeScript definitions from Go serializer structs.

Structs that embed the base Serializer type are collected from the selected
packages and written to one TypeScript file per top-level package, so that
a frontend can import the same shapes the backend serializes.

Available commands:
  generate - Write type definition files
  config   - Show or initialize typomatic.toml
  version  - Show version information

Examples:
  typomatic generate -s billing -s users --trim
  typomatic generate --all --camelize --annotations
  typomatic generate -s billing.serializers.internal --watch
  typomatic config show --format yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			jsonOutput, _ := cmd.Flags().GetBool("json-log")
			verbosity := verbosityOf(cmd)
			if err := logger.InitializeWriter(cmd.ErrOrStderr(), jsonOutput, verbosity); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			logger.Debugw("Logger initialized",
				logger.FieldComponent, cmd.Name(),
				"verbosity", logger.LevelName(verbosity),
				"shows", logger.VerbosityDescription(verbosity))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Cleanup()
		},
	}

	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-log", false, "Write logs as JSON")
	rootCmd.SetGlobalNormalizationFunc(underscoreToDash)

	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())
	return rootCmd
}

// underscoreToDash accepts --enum_choices as well as --enum-choices
func underscoreToDash(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func verbosityOf(cmd *cobra.Command) int {
	v, _ := cmd.Flags().GetCount("verbose")
	return v
}
