package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/carlog/internal/pipeline"
	"github.com/theirongolddev/carlog/internal/tui"
	"github.com/theirongolddev/carlog/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(appConfig.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	tf, err := pipeline.ParseTimeframe(appConfig.General.DefaultTimeframe)
	if err != nil {
		appLog.Warn("ignoring configured timeframe", zap.Error(err))
		tf = pipeline.Last6Months
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	app := tui.NewApp(tui.Options{
		Store:         s,
		Now:           now,
		Timeframe:     tf,
		RollingWindow: appConfig.General.RollingWindow,
		RecentLimit:   appConfig.General.RecentLimit,
		Lang:          os.Getenv("LANG"),
		Logger:        appLog.Named("tui"),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
