package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/carlog/internal/config"
	"github.com/theirongolddev/carlog/internal/ledger"
	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/region"
	"github.com/theirongolddev/carlog/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard: region, units and theme",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	vals := tui.SetupValues{
		Region: result.Data.Settings.RegionCode,
		Theme:  appConfig.Appearance.Theme,
	}
	if vals.Region == "" {
		vals.Region = region.Detect(os.Getenv("LANG"))
	}

	if err := tui.NewSetupForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled; nothing was changed.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	var applied model.Settings
	if err := mutate(func(l *ledger.Ledger) error {
		applied, err = tui.ApplySetup(l, vals)
		return err
	}); err != nil {
		return err
	}

	cfg := appConfig
	cfg.Appearance.Theme = vals.Theme
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Region:   %s (%s, %s)\n", applied.RegionCode, applied.Currency, applied.Locale)
	fmt.Printf("  Units:    %s, %s\n", applied.DistanceUnit, applied.VolumeUnit)
	fmt.Printf("  Theme:    %s\n", vals.Theme)
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `carlog setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
