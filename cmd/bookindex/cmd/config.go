package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/bookindex/configs"
	"github.com/Aman-CERP/bookindex/internal/config"
	amerrors "github.com/Aman-CERP/bookindex/internal/errors"
	"github.com/Aman-CERP/bookindex/internal/output"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage user configuration",
		Long: `Manage the user configuration file.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/bookindex/config.yaml)
  3. --config FILE
  4. Environment variables (BOOKINDEX_*)
  5. Command-line flags`,
		Example: `  # Create user config from template
  bookindex config init

  # Show effective configuration
  bookindex config show

  # Print user config file path
  bookindex config path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd(root))
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create user configuration file",
		Long: `Create the user configuration file from the built-in template.

The file is created at ~/.config/bookindex/config.yaml
(or $XDG_CONFIG_HOME/bookindex/config.yaml if XDG_CONFIG_HOME is set).
With --force an existing file is backed up and replaced.`,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Back up and overwrite an existing configuration")

	return cmd
}

func newConfigShowCmd(root *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long:  `Show the configuration after merging defaults, config files and environment.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, root.cfg, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print user config file path",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			return err
		},
	}
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	out := output.New(cmd.OutOrStdout())
	configPath := config.GetUserConfigPath()

	if config.UserConfigExists() {
		if !force {
			out.Warning("User configuration already exists")
			out.Statusf("Location:", "%s", configPath)
			out.Status("Hint:", "Use --force to back it up and write a fresh template")
			return nil
		}

		backupPath, err := config.BackupUserConfig()
		if err != nil {
			return amerrors.IOError("failed to back up config", err).WithDetail("path", configPath)
		}
		out.Statusf("Backup:", "%s", backupPath)
	}

	if err := os.MkdirAll(config.GetUserConfigDir(), 0o755); err != nil {
		return amerrors.New(amerrors.ErrCodeWriteFailed, "failed to create config directory", err)
	}
	if err := os.WriteFile(configPath, []byte(configs.UserConfigTemplate), 0o644); err != nil {
		return amerrors.New(amerrors.ErrCodeWriteFailed, "failed to write config file", err).
			WithDetail("path", configPath)
	}

	out.Success("Created user configuration")
	out.Statusf("Location:", "%s", configPath)
	out.Status("Next:", "Edit the file, then run 'bookindex config show' to verify")
	return nil
}

func runConfigShow(cmd *cobra.Command, cfg *config.Config, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	data, err := cfg.YAML()
	if err != nil {
		return amerrors.InternalError("failed to render config", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
