package tui

import (
	"fmt"

	"github.com/theirongolddev/carlog/internal/ledger"
	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/region"
	"github.com/theirongolddev/carlog/internal/tui/theme"
	"github.com/theirongolddev/carlog/internal/units"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers of the setup form. Empty Distance or Volume
// keeps the region's unit.
type SetupValues struct {
	Region   string
	Distance string
	Volume   string
	Theme    string
}

// NewSetupForm builds the region, units and theme form. Field values start
// from v, so callers pre-fill detected defaults.
func NewSetupForm(v *SetupValues) *huh.Form {
	regions := make([]huh.Option[string], 0, len(region.All()))
	for _, p := range region.All() {
		label := fmt.Sprintf("%s  (%s, %s, %s)", p.Name, p.Currency, p.DistanceUnit, p.VolumeUnit)
		regions = append(regions, huh.NewOption(label, p.Code))
	}

	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themes = append(themes, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to carlog").
				Description("Pick a region to set currency, units and date format.\nEverything can be changed later with `carlog settings`."),
			huh.NewSelect[string]().
				Title("Region").
				Options(regions...).
				Value(&v.Region),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Distance unit").
				Options(
					huh.NewOption("Region default", ""),
					huh.NewOption("Miles", string(units.Miles)),
					huh.NewOption("Kilometers", string(units.Kilometers)),
				).
				Value(&v.Distance),
			huh.NewSelect[string]().
				Title("Volume unit").
				Options(
					huh.NewOption("Region default", ""),
					huh.NewOption("Gallons", string(units.Gallons)),
					huh.NewOption("Liters", string(units.Liters)),
				).
				Value(&v.Volume),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
		),
	).WithTheme(huh.ThemeCharm())
}

// ApplySetup applies the chosen region and unit overrides to the ledger.
func ApplySetup(l *ledger.Ledger, v SetupValues) (model.Settings, error) {
	s, err := l.ApplyRegion(v.Region)
	if err != nil {
		return s, err
	}
	if v.Distance == "" && v.Volume == "" {
		return s, nil
	}

	d, vol := s.DistanceUnit, s.VolumeUnit
	if v.Distance != "" {
		d = units.Distance(v.Distance)
	}
	if v.Volume != "" {
		vol = units.Volume(v.Volume)
	}
	if err := l.SetUnits(d, vol); err != nil {
		return l.Settings(), err
	}
	return l.Settings(), nil
}
