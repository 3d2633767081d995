// Package cmd implements the carlog CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/carlog/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appConfig

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Printf("  Database:    %s\n", dbPath())
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default timeframe: %s\n", cfg.General.DefaultTimeframe)
	fmt.Printf("    Recent expenses:   %d\n", cfg.General.RecentLimit)
	fmt.Printf("    Rolling window:    %d fill-ups\n", cfg.General.RollingWindow)
	if cfg.General.DBPath != "" {
		fmt.Printf("    Database path:     %s\n", cfg.General.DBPath)
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Reminders]")
	fmt.Printf("    Schedule:      %s\n", cfg.Reminders.Schedule)
	fmt.Printf("    Events buffer: %d\n", cfg.Reminders.EventsBuffer)
	fmt.Println()

	fmt.Println("  Vehicle units and currency are stored with your data; see `carlog settings`.")
	fmt.Println("  Run `carlog setup` to reconfigure.")
	return nil
}
