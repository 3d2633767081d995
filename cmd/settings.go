package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/carlog/internal/cli"
	"github.com/theirongolddev/carlog/internal/ledger"
	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/region"
	"github.com/theirongolddev/carlog/internal/units"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change units, currency and region",
	RunE:  runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current vehicle settings",
	RunE:  runSettingsShow,
}

var settingsUnitsCmd = &cobra.Command{
	Use:   "units DISTANCE VOLUME",
	Short: "Set display units, e.g. `units kilometers liters`",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsUnits,
}

var settingsRegionCmd = &cobra.Command{
	Use:   "region CODE",
	Short: "Apply a regional preset (currency, units, date format)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsRegion,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsUnitsCmd, settingsRegionCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	printSettings(result.Data.Settings)

	codes := make([]string, 0, len(region.All()))
	for _, p := range region.All() {
		codes = append(codes, fmt.Sprintf("%s (%s)", p.Code, p.Name))
	}
	fmt.Println()
	fmt.Println(cli.Muted("  Regions: " + strings.Join(codes, ", ")))
	return nil
}

func printSettings(s model.Settings) {
	regionCode := s.RegionCode
	if regionCode == "" {
		regionCode = "not set (run `carlog setup`)"
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Settings",
		Headers: []string{"Setting", "Value"},
		Rows: [][]string{
			{"Region", regionCode},
			{"Distance", string(s.DistanceUnit)},
			{"Volume", string(s.VolumeUnit)},
			{"Efficiency", units.EfficiencyLabel(s.DistanceUnit, s.VolumeUnit)},
			{"Currency", fmt.Sprintf("%s (%s)", s.Currency, s.CurrencySymbol)},
			{"Date Format", s.DateFormat},
			{"Locale", s.Locale},
			{"Example", cli.FormatCurrency(1234.5, s)},
		},
		LeftAlign: []int{1},
	}))
}

func runSettingsUnits(_ *cobra.Command, args []string) error {
	d, err := parseDistance(args[0])
	if err != nil {
		return err
	}
	v, err := parseVolume(args[1])
	if err != nil {
		return err
	}

	var s model.Settings
	if err := mutate(func(l *ledger.Ledger) error {
		if err := l.SetUnits(d, v); err != nil {
			return err
		}
		s = l.Settings()
		return nil
	}); err != nil {
		return err
	}
	printSettings(s)
	return nil
}

func runSettingsRegion(_ *cobra.Command, args []string) error {
	var s model.Settings
	if err := mutate(func(l *ledger.Ledger) error {
		var err error
		s, err = l.ApplyRegion(args[0])
		return err
	}); err != nil {
		return err
	}
	printSettings(s)
	return nil
}

// parseDistance accepts full unit names and their abbreviations.
func parseDistance(s string) (units.Distance, error) {
	switch strings.ToLower(s) {
	case "miles", "mile", "mi":
		return units.Miles, nil
	case "kilometers", "kilometres", "km":
		return units.Kilometers, nil
	}
	return "", fmt.Errorf("%w: distance unit %q (want miles or kilometers)", ledger.ErrInvalid, s)
}

func parseVolume(s string) (units.Volume, error) {
	switch strings.ToLower(s) {
	case "gallons", "gallon", "gal":
		return units.Gallons, nil
	case "liters", "litres", "liter", "l":
		return units.Liters, nil
	}
	return "", fmt.Errorf("%w: volume unit %q (want gallons or liters)", ledger.ErrInvalid, s)
}
