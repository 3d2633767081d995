package pipeline

import (
	"iter"
	"slices"

	"github.com/theirongolddev/carlog/internal/model"
)

// DefaultRollingWindow is the number of recent fill-ups averaged on the dashboard.
const DefaultRollingWindow = 3

// minRollingPairs is the number of valid pairs the rolling average needs
// before it reports anything other than the 0 sentinel.
const minRollingPairs = 2

// Efficiencies yields the economy of each fill-up relative to the previous one
// in date order. A fill-up yields nothing unless the odometer advanced and the
// volume is positive. The input is not modified and the sequence can be
// ranged over more than once.
func Efficiencies(entries []model.FuelEntry) iter.Seq[model.EfficiencyPoint] {
	return func(yield func(model.EfficiencyPoint) bool) {
		sorted := sortedByDate(entries)
		for i := 1; i < len(sorted); i++ {
			cur, prev := sorted[i], sorted[i-1]
			mpg, ok := pairEfficiency(cur, prev)
			if !ok {
				continue
			}
			if !yield(model.EfficiencyPoint{Date: cur.Date, EntryID: cur.ID, MPG: mpg}) {
				return
			}
		}
	}
}

// EfficiencyHistory collects Efficiencies into a slice, oldest first.
func EfficiencyHistory(entries []model.FuelEntry) []model.EfficiencyPoint {
	return slices.Collect(Efficiencies(entries))
}

// EfficiencyByEntry maps entry ID to its per-fill economy. Entries without a
// valid reading are absent from the map.
func EfficiencyByEntry(entries []model.FuelEntry) map[int64]float64 {
	out := make(map[int64]float64, len(entries))
	for p := range Efficiencies(entries) {
		out[p.EntryID] = p.MPG
	}
	return out
}

// RollingEfficiency averages the pairwise economy across the window most
// recent fill-ups. It returns 0 when fewer than two valid pairs exist; callers
// display that as "no data".
func RollingEfficiency(entries []model.FuelEntry, window int) float64 {
	if window < 1 {
		window = DefaultRollingWindow
	}
	recent := sortedByDate(entries)
	slices.Reverse(recent)
	if len(recent) > window {
		recent = recent[:window]
	}
	if len(recent) < 2 {
		return 0
	}

	var sum float64
	var valid int
	for i := 0; i < len(recent)-1; i++ {
		mpg, ok := pairEfficiency(recent[i], recent[i+1])
		if !ok {
			continue
		}
		sum += mpg
		valid++
	}
	if valid < minRollingPairs {
		return 0
	}
	return sum / float64(valid)
}

// pairEfficiency computes the economy of cur given the fill-up before it.
func pairEfficiency(cur, prev model.FuelEntry) (float64, bool) {
	delta := cur.Odometer - prev.Odometer
	if delta <= 0 || cur.Volume <= 0 {
		return 0, false
	}
	return delta / cur.Volume, true
}

// sortedByDate returns a copy ordered by ascending date. Entries on the same
// day keep their input order.
func sortedByDate(entries []model.FuelEntry) []model.FuelEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b model.FuelEntry) int {
		return a.Date.Compare(b.Date)
	})
	return out
}
