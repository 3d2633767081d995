// Package region holds the regional presets that bundle units, currency,
// date format and locale.
package region

import (
	"slices"
	"strings"

	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/units"
)

// Default is the fallback region code.
const Default = "us"

// Preset is one region's display defaults.
type Preset struct {
	Code           string
	Name           string
	Currency       string
	CurrencySymbol string
	DistanceUnit   units.Distance
	VolumeUnit     units.Volume
	DateFormat     string
	Locale         string
}

var presets = map[string]Preset{
	"us": {
		Code:           "us",
		Name:           "United States",
		Currency:       "USD",
		CurrencySymbol: "$",
		DistanceUnit:   units.Miles,
		VolumeUnit:     units.Gallons,
		DateFormat:     "MM/DD/YYYY",
		Locale:         "en-US",
	},
	"tw": {
		Code:           "tw",
		Name:           "Taiwan",
		Currency:       "TWD",
		CurrencySymbol: "NT$",
		DistanceUnit:   units.Kilometers,
		VolumeUnit:     units.Liters,
		DateFormat:     "YYYY/MM/DD",
		Locale:         "zh-TW",
	},
}

// Lookup returns the preset for code.
func Lookup(code string) (Preset, bool) {
	p, ok := presets[strings.ToLower(code)]
	return p, ok
}

// All returns every preset ordered by code.
func All() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Preset) int { return strings.Compare(a.Code, b.Code) })
	return out
}

// Detect picks a region from a language tag such as "zh-TW", "zh_TW.UTF-8"
// or "en_US.UTF-8". Anything not recognised maps to Default.
func Detect(lang string) string {
	lang = strings.ReplaceAll(lang, "_", "-")
	if strings.HasPrefix(lang, "zh-TW") || strings.HasPrefix(lang, "zh-Hant") {
		return "tw"
	}
	return Default
}

// Apply returns s with every preset-controlled field replaced. Unknown codes
// apply the default region; ok reports whether code was known.
func Apply(s model.Settings, code string) (model.Settings, bool) {
	p, ok := Lookup(code)
	if !ok {
		p = presets[Default]
	}
	s.DistanceUnit = p.DistanceUnit
	s.VolumeUnit = p.VolumeUnit
	s.Currency = p.Currency
	s.CurrencySymbol = p.CurrencySymbol
	s.DateFormat = p.DateFormat
	s.Locale = p.Locale
	s.RegionCode = p.Code
	return s, ok
}
