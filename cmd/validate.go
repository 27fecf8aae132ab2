package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fredon/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a configuration file and report every finding",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPathFlag
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			var err error
			path, err = config.DefaultConfigPath()
			if err != nil {
				return err
			}
		}

		cfg, findings, err := config.Load(path)
		if err != nil {
			return err
		}

		for _, finding := range findings {
			marker := "warning"
			if finding.Fatal {
				marker = "error"
			}
			fmt.Printf("%s: %s\n", marker, finding.Error())
		}

		if findings.HasFatal() {
			return fmt.Errorf("%s is not usable", path)
		}

		fmt.Printf("%s: OK (%d launchables, %d categories, %d warnings)\n",
			path, len(cfg.Launchables), len(cfg.Categories), len(findings))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
