package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/carlog/internal/model"
)

// Timeframe selects how much history analytics look at.
type Timeframe string

const (
	Last3Months  Timeframe = "3months"
	Last6Months  Timeframe = "6months"
	Last12Months Timeframe = "1year"
	AllTime      Timeframe = "all"
)

// Timeframes lists the selectable windows in display order.
var Timeframes = []Timeframe{Last3Months, Last6Months, Last12Months, AllTime}

// ErrUnknownTimeframe is returned by ParseTimeframe.
var ErrUnknownTimeframe = errors.New("unknown timeframe")

// ParseTimeframe accepts the canonical names plus "12months".
func ParseTimeframe(s string) (Timeframe, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "3months", "3m":
		return Last3Months, nil
	case "6months", "6m":
		return Last6Months, nil
	case "1year", "12months", "12m", "1y":
		return Last12Months, nil
	case "all", "":
		return AllTime, nil
	}
	return "", fmt.Errorf("%w %q (want 3months, 6months, 1year or all)", ErrUnknownTimeframe, s)
}

// Months returns the window length, or 0 for AllTime.
func (tf Timeframe) Months() int {
	switch tf {
	case Last3Months:
		return 3
	case Last6Months:
		return 6
	case Last12Months:
		return 12
	}
	return 0
}

// Label is the human name of the window.
func (tf Timeframe) Label() string {
	switch tf {
	case Last3Months:
		return "Last 3 months"
	case Last6Months:
		return "Last 6 months"
	case Last12Months:
		return "Last 12 months"
	}
	return "All time"
}

// Next cycles to the following timeframe.
func (tf Timeframe) Next() Timeframe {
	for i, t := range Timeframes {
		if t == tf {
			return Timeframes[(i+1)%len(Timeframes)]
		}
	}
	return Timeframes[0]
}

// Cutoff returns the first day of the month Months() before now's month.
// ok is false for AllTime.
func (tf Timeframe) Cutoff(now time.Time) (model.Date, bool) {
	n := tf.Months()
	if n == 0 {
		return model.Date{}, false
	}
	return model.NewDate(now.Year(), now.Month()-time.Month(n), 1), true
}

type dated interface {
	EntryDate() model.Date
}

// filterSince keeps items dated on or after cutoff. The input is not modified.
func filterSince[T dated](items []T, cutoff model.Date) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !it.EntryDate().Before(cutoff) {
			out = append(out, it)
		}
	}
	return out
}

// FilterFuel applies the timeframe to fuel entries.
func FilterFuel(entries []model.FuelEntry, tf Timeframe, now time.Time) []model.FuelEntry {
	cutoff, ok := tf.Cutoff(now)
	if !ok {
		return entries
	}
	return filterSince(entries, cutoff)
}

// FilterMaintenance applies the timeframe to maintenance entries.
func FilterMaintenance(entries []model.MaintenanceEntry, tf Timeframe, now time.Time) []model.MaintenanceEntry {
	cutoff, ok := tf.Cutoff(now)
	if !ok {
		return entries
	}
	return filterSince(entries, cutoff)
}
