package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/safecompanion/internal/config"
)

// Config command flags.
var (
	configInitFlagForce bool
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg", "settings"},
	Short:   "Show application configuration",
	Long: `Show the effective configuration: built-in defaults, overridden by
the config file, overridden by SAFECOMPANION_* environment variables.

Examples:
  safecompanion config show
  safecompanion config path
  safecompanion config init`,
	Annotations: noStore,
}

// configShowCmd prints the effective configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Print the effective configuration as YAML (or JSON with --format json). Secrets are masked.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// configPathCmd prints the config file path.
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		plainFormatter().Println(configPath())
		return nil
	},
}

// configInitCmd writes the defaults to the config file.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitFlagForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// configPath returns the config file in use.
func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.DefaultPath()
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f := plainFormatter()
	redacted := cfg.Redacted()

	if f.IsJSON() {
		return f.JSON(redacted)
	}
	data, err := redacted.YAML()
	if err != nil {
		return err
	}
	f.Print(string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath()
	if _, err := os.Stat(path); err == nil && !configInitFlagForce {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	data, err := config.DefaultRuntimeConfig().YAML()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	f := plainFormatter()
	if f.IsJSON() {
		return f.JSON(map[string]string{"status": "written", "path": path})
	}
	f.Printf("Wrote default configuration to %s\n", path)
	return nil
}
