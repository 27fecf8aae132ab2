package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fredon/internal/engine"
	"fredon/pkg/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the launch engine until interrupted",
	Long: `Starts the launch engine: loads the configuration, watches it for
changes and logs every outbound notification. This is the mode a UI shell
embeds; standalone it is mainly useful for debugging a configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := engine.New(engine.Options{ConfigPath: configPathFlag})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := eng.Start(ctx); err != nil {
			return err
		}
		defer eng.Stop()

		logging.Info("Serve", "Launch engine running, press Ctrl+C to stop")
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-eng.Events():
				switch ev.Type {
				case engine.EventConfigReloaded:
					fmt.Printf("configuration reloaded: %q (%d launchables, %d warnings)\n",
						ev.Config.Title, len(ev.Config.Launchables), len(ev.Findings))
				case engine.EventConfigReloadFailed:
					fmt.Printf("configuration reload failed: %v %v\n", ev.Err, ev.Findings)
				case engine.EventLaunchStarted:
					fmt.Printf("launch started: %s (%s)\n", ev.LaunchableID, ev.LaunchID)
				case engine.EventLaunchResult:
					fmt.Printf("launch result: %s -> %s (exit %d, %s)\n",
						ev.LaunchableID, ev.Result.State, ev.Result.ExitCode, ev.Result.Elapsed)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
