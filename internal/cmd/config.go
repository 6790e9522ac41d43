package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/cobalt/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or create cobalt configuration",
	Long: `View or create cobalt configuration.

Without arguments, displays the current configuration.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/cobalt/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configInitForce bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		_, _ = fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		_, _ = fmt.Fprintf(out, "# Config file: (none - using defaults)\n")
	}

	shown := *cfg
	if shown.Notify.Password != "" {
		shown.Notify.Password = "********"
	}
	data, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

const configHeader = `# Cobalt configuration
#
# Every key can be overridden from the environment with the COBALT_ prefix,
# e.g. COBALT_SERVER_ADDR for server.addr.
#
# planner.strategy options: none, minimal, extended-atomic, extended-minimal
# store.driver options: "" (read catalog.path), sqlite, postgres
# logging.level options: debug, info, warn, error

`

func runConfigInit(cmd *cobra.Command, _ []string) error {
	configFile := config.ConfigFile()
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		configFile = cfgFile
	}

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil && !configInitForce {
		return fmt.Errorf("config file already exists at %s\nUse --force to overwrite it", configFile)
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := os.WriteFile(configFile, append([]byte(configHeader), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if viper.ConfigFileUsed() != "" {
		_, _ = fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		_, _ = fmt.Fprintf(out, "Default path: %s (not created)\n", config.ConfigFile())
	}

	_, _ = fmt.Fprintln(out, "\nSearch paths:")
	_, _ = fmt.Fprintf(out, "  1. %s\n", config.ConfigFile())
	_, _ = fmt.Fprintln(out, "  2. ./config.yaml (current directory)")
	_, _ = fmt.Fprintln(out, "\nEnvironment variables: COBALT_* (e.g., COBALT_SERVER_ADDR)")
	return nil
}
