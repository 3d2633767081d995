// Package pipeline computes derived metrics from vehicle records: fuel
// economy, monthly spend, time windows, maintenance categories and reminder
// status. Nothing here mutates its inputs or reads the clock.
package pipeline

import (
	"slices"
	"time"

	"github.com/theirongolddev/carlog/internal/model"
)

// DefaultTrailingMonths is the length of the dashboard expense series.
const DefaultTrailingMonths = 6

// DefaultRecentLimit is the number of rows in the recent-expenses list.
const DefaultRecentLimit = 10

// CurrentMonthTotals sums the spend in now's calendar month.
func CurrentMonthTotals(fuel []model.FuelEntry, maint []model.MaintenanceEntry, now time.Time) model.MonthTotals {
	key := model.MonthKey{Year: now.Year(), Month: now.Month()}
	var t model.MonthTotals
	for _, e := range fuel {
		if model.MonthOf(e.Date) == key {
			t.Fuel += e.Total
		}
	}
	for _, e := range maint {
		if model.MonthOf(e.Date) == key {
			t.Maintenance += e.Cost
		}
	}
	return t
}

// TrailingMonths returns n monthly buckets ending with now's month, oldest
// first. Months with no activity are present with zero totals.
func TrailingMonths(fuel []model.FuelEntry, maint []model.MaintenanceEntry, now time.Time, n int) []model.MonthBucket {
	if n < 1 {
		n = DefaultTrailingMonths
	}
	current := model.MonthKey{Year: now.Year(), Month: now.Month()}
	buckets := make([]model.MonthBucket, n)
	index := make(map[model.MonthKey]int, n)
	for i := range buckets {
		key := current.AddMonths(i - (n - 1))
		buckets[i].Key = key
		index[key] = i
	}

	for _, e := range fuel {
		if i, ok := index[model.MonthOf(e.Date)]; ok {
			buckets[i].Fuel += e.Total
		}
	}
	for _, e := range maint {
		if i, ok := index[model.MonthOf(e.Date)]; ok {
			buckets[i].Maintenance += e.Cost
		}
	}
	return buckets
}

// MonthlyComparison buckets every entry by month and returns the months that
// have activity in chronological order.
func MonthlyComparison(fuel []model.FuelEntry, maint []model.MaintenanceEntry) []model.MonthBucket {
	byMonth := make(map[model.MonthKey]*model.MonthBucket)
	get := func(k model.MonthKey) *model.MonthBucket {
		b, ok := byMonth[k]
		if !ok {
			b = &model.MonthBucket{Key: k}
			byMonth[k] = b
		}
		return b
	}
	for _, e := range fuel {
		get(model.MonthOf(e.Date)).Fuel += e.Total
	}
	for _, e := range maint {
		get(model.MonthOf(e.Date)).Maintenance += e.Cost
	}

	out := make([]model.MonthBucket, 0, len(byMonth))
	for _, b := range byMonth {
		out = append(out, *b)
	}
	slices.SortFunc(out, func(a, b model.MonthBucket) int {
		if a.Key.Before(b.Key) {
			return -1
		}
		if b.Key.Before(a.Key) {
			return 1
		}
		return 0
	})
	return out
}

// ExpenseTotals splits all spend between fuel and maintenance.
func ExpenseTotals(fuel []model.FuelEntry, maint []model.MaintenanceEntry) model.ExpenseBreakdown {
	var b model.ExpenseBreakdown
	for _, e := range fuel {
		b.Fuel += e.Total
	}
	for _, e := range maint {
		b.Maintenance += e.Cost
	}
	return b
}

// Summarize computes lifetime totals.
func Summarize(fuel []model.FuelEntry, maint []model.MaintenanceEntry) model.Summary {
	var s model.Summary
	var spent float64
	minOdo, maxOdo := 0.0, 0.0
	seen := false
	track := func(odo float64) {
		if !seen {
			minOdo, maxOdo, seen = odo, odo, true
			return
		}
		minOdo = min(minOdo, odo)
		maxOdo = max(maxOdo, odo)
	}

	for _, e := range fuel {
		s.FillUps++
		s.TotalVolume += e.Volume
		s.FuelCost += e.Total
		spent += e.Volume * e.PricePerVolume
		track(e.Odometer)
	}
	for _, e := range maint {
		s.ServiceCount++
		s.MaintenanceCost += e.Cost
		track(e.Odometer)
	}

	s.Distance = maxOdo - minOdo
	if s.Distance > 0 {
		s.CostPerDistance = s.TotalCost() / s.Distance
	}
	if s.TotalVolume > 0 {
		s.AvgPrice = spent / s.TotalVolume
	}
	return s
}

// RecentExpenses merges fuel and maintenance spend, newest first, and keeps
// the first n.
func RecentExpenses(fuel []model.FuelEntry, maint []model.MaintenanceEntry, n int) []model.Expense {
	if n < 1 {
		n = DefaultRecentLimit
	}
	all := make([]model.Expense, 0, len(fuel)+len(maint))
	for _, e := range fuel {
		all = append(all, model.Expense{
			Date:           e.Date,
			Kind:           model.ExpenseFuel,
			Amount:         e.Total,
			Volume:         e.Volume,
			PricePerVolume: e.PricePerVolume,
		})
	}
	for _, e := range maint {
		all = append(all, model.Expense{
			Date:    e.Date,
			Kind:    model.ExpenseMaintenance,
			Amount:  e.Cost,
			Service: e.Service,
		})
	}

	slices.SortStableFunc(all, func(a, b model.Expense) int {
		return b.Date.Compare(a.Date)
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// MaxOdometer returns the highest reading across both histories, or 0.
func MaxOdometer(fuel []model.FuelEntry, maint []model.MaintenanceEntry) float64 {
	var highest float64
	for _, e := range fuel {
		highest = max(highest, e.Odometer)
	}
	for _, e := range maint {
		highest = max(highest, e.Odometer)
	}
	return highest
}
