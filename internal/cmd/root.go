package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/cobalt/internal/config"
	"github.com/Iron-Ham/cobalt/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "cobalt",
	Short: "Widget composition planner",
	Long: `Cobalt composes the widgets of a catalogue into plans that realize a
mashup's functionalities and tasks. Each plan is a layered graph of widget
actions, rated by the user interactions it needs.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/cobalt/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: "+strings.Join(logging.ValidLevels(), ", "))
	rootCmd.PersistentFlags().String("catalog", "", "catalogue file (overrides catalog.path)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("catalog.path", rootCmd.PersistentFlags().Lookup("catalog"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix(config.EnvPrefix)
	// e.g., COBALT_SERVER_ADDR for server.addr
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
