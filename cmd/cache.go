package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fredon/internal/icons"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the persistent icon cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show persistent icon cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := icons.DefaultDiskCacheDir()
		if err != nil {
			return err
		}
		dc, err := icons.OpenDiskCache(dir)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d cached icons\n", dir, dc.Len())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached icon; the cache rebuilds itself on demand",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := icons.DefaultDiskCacheDir()
		if err != nil {
			return err
		}
		dc, err := icons.OpenDiskCache(dir)
		if err != nil {
			return err
		}
		if err := dc.Clear(); err != nil {
			return err
		}
		fmt.Printf("cleared icon cache at %s\n", dir)
		return nil
	},
}

var cacheSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Drop cached icons whose source file no longer exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := icons.DefaultDiskCacheDir()
		if err != nil {
			return err
		}
		dc, err := icons.OpenDiskCache(dir)
		if err != nil {
			return err
		}
		fmt.Printf("swept %d stale entries\n", dc.Sweep())
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd, cacheSweepCmd)
	rootCmd.AddCommand(cacheCmd)
}
