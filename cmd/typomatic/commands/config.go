package commands

import (
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/typomatic/config"
)

// NewConfigCmd builds the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize typomatic configuration",
		Long: `Manage typomatic configuration.

Configuration sources (later overrides earlier):
  1. Built-in defaults
  2. typomatic.toml (searched from the working directory upward)
  3. TYPOMATIC_* environment variables (TYPOMATIC_RENDER_TRIM=true)
  4. Command-line flags

TYPOMATIC_SERIALIZERS takes a shell-quoted, space or comma separated
specifier list.

Examples:
  typomatic config show                # Effective configuration as TOML
  typomatic config show --format yaml  # ... as YAML
  typomatic config init                # Write typomatic.toml with defaults`,
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var format, configFile string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, "")
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg, format)
			if err != nil {
				return err
			}
			if cfg.Source != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# source: %s\n", cfg.Source)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "toml", "Output format: toml, yaml")
	cmd.Flags().StringVar(&configFile, "config", "", "Config file (default: typomatic.toml found walking up)")
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var dir string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write " + config.FileName + " with default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(dir, config.FileName)
			if err := config.WriteTemplate(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", pterm.LightGreen("✓"), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory to write the config file to")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}
