// Package model defines the vehicle records and the derived values computed
// from them.
package model

import "github.com/theirongolddev/carlog/internal/units"

// FuelEntry is one fill-up. Odometer is in miles, Volume in gallons and
// PricePerVolume in price per gallon, whatever the display units are.
type FuelEntry struct {
	ID             int64   `json:"id"`
	Date           Date    `json:"date"`
	Odometer       float64 `json:"odometer"`
	Volume         float64 `json:"gallons"`
	PricePerVolume float64 `json:"pricePerGallon"`
	Total          float64 `json:"total"`
}

// EntryDate implements the date accessor used by time-window filtering.
func (e FuelEntry) EntryDate() Date { return e.Date }

// MaintenanceEntry is one service event. Odometer is in miles.
type MaintenanceEntry struct {
	ID       int64   `json:"id"`
	Date     Date    `json:"date"`
	Odometer float64 `json:"odometer"`
	Service  string  `json:"service"`
	Cost     float64 `json:"cost"`
	Notes    string  `json:"notes,omitempty"`
}

func (e MaintenanceEntry) EntryDate() Date { return e.Date }

// Reminder is a pending service. Either trigger firing makes it due.
type Reminder struct {
	ID          int64    `json:"id"`
	Service     string   `json:"service"`
	DueDate     Date     `json:"dueDate"`
	DueOdometer *float64 `json:"dueMileage"`
	Notes       string   `json:"notes,omitempty"`
	Completed   bool     `json:"completed"`
}

// DueMiles returns the odometer threshold and whether one is set.
// A non-positive threshold counts as unset.
func (r Reminder) DueMiles() (float64, bool) {
	if r.DueOdometer == nil || *r.DueOdometer <= 0 {
		return 0, false
	}
	return *r.DueOdometer, true
}

// Settings control display and input conversion only.
type Settings struct {
	DistanceUnit   units.Distance `json:"distanceUnit"`
	VolumeUnit     units.Volume   `json:"volumeUnit"`
	Currency       string         `json:"currency,omitempty"`
	CurrencySymbol string         `json:"currencySymbol,omitempty"`
	DateFormat     string         `json:"dateFormat,omitempty"`
	Locale         string         `json:"locale,omitempty"`
	RegionCode     string         `json:"regionCode,omitempty"`
}

// DefaultSettings returns the US defaults used when nothing is stored.
func DefaultSettings() Settings {
	return Settings{
		DistanceUnit:   units.Miles,
		VolumeUnit:     units.Gallons,
		Currency:       "USD",
		CurrencySymbol: "$",
		DateFormat:     "MM/DD/YYYY",
		Locale:         "en-US",
	}
}

// WithDefaults fills every missing or unknown field from DefaultSettings.
// RegionCode stays empty so first-run setup can still detect it.
func (s Settings) WithDefaults() Settings {
	def := DefaultSettings()
	if !s.DistanceUnit.Valid() {
		s.DistanceUnit = def.DistanceUnit
	}
	if !s.VolumeUnit.Valid() {
		s.VolumeUnit = def.VolumeUnit
	}
	if s.Currency == "" {
		s.Currency = def.Currency
	}
	if s.CurrencySymbol == "" {
		s.CurrencySymbol = def.CurrencySymbol
	}
	if s.DateFormat == "" {
		s.DateFormat = def.DateFormat
	}
	if s.Locale == "" {
		s.Locale = def.Locale
	}
	return s
}
