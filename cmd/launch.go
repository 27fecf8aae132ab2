package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fredon/internal/engine"
)

var launchCmd = &cobra.Command{
	Use:   "launch <launchable-id>",
	Short: "Activate a single launchable and wait for its result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := engine.New(engine.Options{ConfigPath: configPathFlag})
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := eng.Start(ctx); err != nil {
			return err
		}
		defer eng.Stop()

		id, err := eng.Activate(ctx, args[0])
		if err != nil {
			return err
		}

		for ev := range eng.Events() {
			if ev.Type != engine.EventLaunchResult || ev.LaunchID != id {
				continue
			}
			res := ev.Result
			fmt.Printf("%s: %s (exit %d, %s)\n", args[0], res.State, res.ExitCode, res.Elapsed)
			if res.Output != "" {
				fmt.Println(res.Output)
			}
			if !res.Success() {
				return fmt.Errorf("launch failed: %v", res.Err)
			}
			return nil
		}
		return fmt.Errorf("engine stopped before the launch completed")
	},
}

func init() {
	rootCmd.AddCommand(launchCmd)
}
