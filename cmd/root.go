package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"fredon/pkg/logging"
)

var (
	configPathFlag string
	logLevelFlag   string
)

// rootCmd represents the base command for the fredon launch engine.
var rootCmd = &cobra.Command{
	Use:   "fredon",
	Short: "Launch engine for the Fredon desktop menu",
	Long: `fredon is the launch engine behind the Fredon desktop menu: it loads,
validates and hot-reloads the launcher configuration, executes launchable
commands under a security whitelist, and maintains the two-tier icon cache
consumed by the menu UI.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.ParseLevel(logLevelFlag), os.Stderr)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Path to the configuration file (default ~/.config/fredon/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "Log level (debug, info, warn, error)")
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "fredon version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
