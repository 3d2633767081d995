// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/units"
)

// NoData is shown in place of a metric that has no valid reading.
const NoData = "—"

// FormatDistance formats canonical miles in the display unit, e.g. "350.0 mi".
func FormatDistance(miles float64, s model.Settings) string {
	v := units.DistanceToDisplay(miles, s.DistanceUnit)
	return fmt.Sprintf("%.1f %s", v, s.DistanceUnit.Abbrev())
}

// FormatOdometer formats an odometer reading as a grouped whole number,
// e.g. "30,412 km".
func FormatOdometer(miles float64, s model.Settings) string {
	v := units.DistanceToDisplay(miles, s.DistanceUnit)
	return FormatNumber(int64(math.Round(v))) + " " + s.DistanceUnit.Abbrev()
}

// FormatVolume formats canonical gallons in the display unit, e.g. "12.000 gal".
func FormatVolume(gallons float64, s model.Settings) string {
	v := units.VolumeToDisplay(gallons, s.VolumeUnit)
	return fmt.Sprintf("%.3f %s", v, s.VolumeUnit.Abbrev())
}

// FormatPricePerVolume formats a price per gallon in the display unit,
// e.g. "$3.459/gal" or "$0.914/L".
func FormatPricePerVolume(perGallon float64, s model.Settings) string {
	v := units.PriceToDisplay(perGallon, s.VolumeUnit)
	return fmt.Sprintf("%s%.3f/%s", symbol(s), v, s.VolumeUnit.Abbrev())
}

// FormatEfficiency formats MPG in the display economy unit, e.g. "31.8 MPG".
func FormatEfficiency(mpg float64, s model.Settings) string {
	v := units.EfficiencyToDisplay(mpg, s.DistanceUnit, s.VolumeUnit)
	return fmt.Sprintf("%.1f %s", v, units.EfficiencyLabel(s.DistanceUnit, s.VolumeUnit))
}

// FormatRollingEfficiency is FormatEfficiency with the 0 "not enough data"
// reading shown as NoData.
func FormatRollingEfficiency(mpg float64, s model.Settings) string {
	if mpg <= 0 {
		return NoData
	}
	return FormatEfficiency(mpg, s)
}

// FuelDescription summarizes a fill-up, e.g. "12.000 gal @ $3.450/gal".
func FuelDescription(gallons, perGallon float64, s model.Settings) string {
	return FormatVolume(gallons, s) + " @ " + FormatPricePerVolume(perGallon, s)
}

// FormatCurrency formats amount in the settings' currency using the locale's
// digit grouping. Unknown locales or currency codes fall back to the symbol
// followed by two fixed decimals.
func FormatCurrency(amount float64, s model.Settings) string {
	tag, err := language.Parse(s.Locale)
	if err != nil {
		return fallbackCurrency(amount, s)
	}
	unit, err := currency.ParseISO(s.Currency)
	if err != nil {
		return fallbackCurrency(amount, s)
	}

	scale, _ := currency.Standard.Rounding(unit)
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	p := message.NewPrinter(tag)
	return sign + symbol(s) + p.Sprint(number.Decimal(amount, number.Scale(scale)))
}

func fallbackCurrency(amount float64, s model.Settings) string {
	if amount < 0 {
		return fmt.Sprintf("-%s%.2f", symbol(s), -amount)
	}
	return fmt.Sprintf("%s%.2f", symbol(s), amount)
}

func symbol(s model.Settings) string {
	if s.CurrencySymbol != "" {
		return s.CurrencySymbol
	}
	if s.Currency != "" {
		return s.Currency + " "
	}
	return "$"
}

// FormatDate formats a date as "Jan 2, 2006".
func FormatDate(d model.Date) string {
	if d.IsZero() {
		return NoData
	}
	return d.In(time.UTC).Format("Jan 2, 2006")
}

// FormatDateSetting formats a date using the settings' numeric date format.
func FormatDateSetting(d model.Date, s model.Settings) string {
	if d.IsZero() {
		return NoData
	}
	switch strings.ToUpper(s.DateFormat) {
	case "YYYY/MM/DD":
		return fmt.Sprintf("%04d/%02d/%02d", d.Year, int(d.Month), d.Day)
	case "DD/MM/YYYY":
		return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
	case "MM/DD/YYYY":
		return fmt.Sprintf("%02d/%02d/%04d", int(d.Month), d.Day, d.Year)
	}
	return FormatDate(d)
}

// FormatDueIn describes a due date relative to now, e.g. "3 days from now".
func FormatDueIn(d model.Date, now time.Time) string {
	if d.IsZero() {
		return ""
	}
	due := d.In(now.Location())
	if model.DateOf(now) == d {
		return "today"
	}
	return humanize.RelTime(due, now, "ago", "from now")
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDelta formats the change between two amounts with an explicit sign.
func FormatDelta(current, previous float64, s model.Settings) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatCurrency(delta, s)
	}
	return FormatCurrency(delta, s)
}

// FormatMonthDelta formats months[i]'s spend against the calendar month
// before it. A month missing from the slice counts as zero spend, and the
// first month has nothing to compare with.
func FormatMonthDelta(months []model.MonthBucket, i int, s model.Settings) string {
	if i <= 0 || i >= len(months) {
		return NoData
	}
	var previous float64
	if prev := months[i-1]; prev.Key.AddMonths(1) == months[i].Key {
		previous = prev.Total()
	}
	return FormatDelta(months[i].Total(), previous, s)
}

// FormatCostPerDistance formats a cost per mile in the display distance
// unit, e.g. "$0.142/mi".
func FormatCostPerDistance(perMile float64, s model.Settings) string {
	if perMile <= 0 {
		return NoData
	}
	perUnit := perMile * units.DistanceFromDisplay(1, s.DistanceUnit)
	return fmt.Sprintf("%s/%s", FormatCurrency(perUnit, s), s.DistanceUnit.Abbrev())
}
