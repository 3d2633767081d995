package pipeline

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/theirongolddev/carlog/internal/model"
)

func newTestRand() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func service(id int64, date, name string, odo, cost float64) model.MaintenanceEntry {
	d, err := model.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return model.MaintenanceEntry{ID: id, Date: d, Odometer: odo, Service: name, Cost: cost}
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}

func TestCurrentMonthTotals(t *testing.T) {
	now := mustTime(t, "2024-03-20")
	fuel := []model.FuelEntry{
		fill(1, "2024-03-01", 100, 10), // 30
		fill(2, "2024-02-28", 50, 10),  // previous month
		fill(3, "2023-03-05", 10, 10),  // same month, other year
	}
	maint := []model.MaintenanceEntry{
		service(4, "2024-03-19", "Oil", 0, 45),
		service(5, "2024-04-01", "Tires", 0, 400),
	}

	got := CurrentMonthTotals(fuel, maint, now)
	if got.Fuel != 30 || got.Maintenance != 45 {
		t.Errorf("CurrentMonthTotals = %+v, want fuel 30, maintenance 45", got)
	}
}

func TestTrailingMonthsAcrossYearBoundary(t *testing.T) {
	now := mustTime(t, "2025-02-10")
	fuel := []model.FuelEntry{
		fill(1, "2024-11-15", 100, 10), // 30
		fill(2, "2025-01-03", 400, 20), // 60
		fill(3, "2024-01-20", 50, 10),  // January a year earlier, outside the window
		fill(4, "2024-08-31", 70, 10),  // one month before the window
	}
	maint := []model.MaintenanceEntry{
		service(5, "2025-01-28", "Brakes", 0, 150),
	}

	got := TrailingMonths(fuel, maint, now, 6)
	if len(got) != 6 {
		t.Fatalf("buckets = %d, want 6", len(got))
	}
	wantKeys := []model.MonthKey{
		{Year: 2024, Month: time.September},
		{Year: 2024, Month: time.October},
		{Year: 2024, Month: time.November},
		{Year: 2024, Month: time.December},
		{Year: 2025, Month: time.January},
		{Year: 2025, Month: time.February},
	}
	for i, k := range wantKeys {
		if got[i].Key != k {
			t.Errorf("bucket %d key = %+v, want %+v", i, got[i].Key, k)
		}
	}
	if got[2].Fuel != 30 {
		t.Errorf("Nov 2024 fuel = %v, want 30", got[2].Fuel)
	}
	if got[4].Fuel != 60 || got[4].Maintenance != 150 {
		t.Errorf("Jan 2025 = %+v, want fuel 60, maintenance 150", got[4])
	}
	if got[0].Total() != 0 || got[3].Total() != 0 || got[5].Total() != 0 {
		t.Errorf("empty months should be zero-filled: %+v", got)
	}
}

func TestMonthlyComparisonKeepsYearsApart(t *testing.T) {
	fuel := []model.FuelEntry{
		fill(1, "2025-01-10", 0, 10),
		fill(2, "2024-01-10", 0, 10),
		fill(3, "2024-11-10", 0, 10),
	}
	maint := []model.MaintenanceEntry{service(4, "2024-01-20", "Oil", 0, 40)}

	got := MonthlyComparison(fuel, maint)
	if len(got) != 3 {
		t.Fatalf("months = %d, want 3 (Jan 2024, Nov 2024, Jan 2025)", len(got))
	}
	if got[0].Key.LongLabel() != "Jan 2024" || got[1].Key.LongLabel() != "Nov 2024" || got[2].Key.LongLabel() != "Jan 2025" {
		t.Errorf("order = %s, %s, %s", got[0].Key.LongLabel(), got[1].Key.LongLabel(), got[2].Key.LongLabel())
	}
	if got[0].Fuel != 30 || got[0].Maintenance != 40 || got[2].Fuel != 30 {
		t.Errorf("totals = %+v", got)
	}
}

func TestRecentExpenses(t *testing.T) {
	var fuel []model.FuelEntry
	for i := 0; i < 8; i++ {
		fuel = append(fuel, fill(int64(i), model.NewDate(2024, 1, 1+i*2).String(), 0, 10))
	}
	maint := []model.MaintenanceEntry{
		service(100, "2024-02-01", "Oil Change", 0, 45),
		service(101, "2023-12-01", "Battery", 0, 120),
		service(102, "2024-01-08", "Wipers", 0, 20),
	}

	got := RecentExpenses(fuel, maint, 10)
	if len(got) != 10 {
		t.Fatalf("rows = %d, want 10", len(got))
	}
	if got[0].Kind != model.ExpenseMaintenance || got[0].Service != "Oil Change" {
		t.Errorf("newest = %+v, want the February oil change", got[0])
	}
	for i := 1; i < len(got); i++ {
		if got[i].Date.After(got[i-1].Date) {
			t.Fatalf("row %d (%v) newer than row %d (%v)", i, got[i].Date, i-1, got[i-1].Date)
		}
	}
	for _, e := range got {
		if e.Service == "Battery" {
			t.Error("oldest expense should fall off the list")
		}
	}
}

func TestSummarize(t *testing.T) {
	fuel := []model.FuelEntry{
		fill(1, "2024-01-01", 1000, 10),
		fill(2, "2024-01-10", 1300, 10),
	}
	maint := []model.MaintenanceEntry{service(3, "2024-01-05", "Oil", 1100, 40)}

	s := Summarize(fuel, maint)
	if s.FillUps != 2 || s.TotalVolume != 20 || s.FuelCost != 60 || s.MaintenanceCost != 40 {
		t.Errorf("Summarize totals = %+v", s)
	}
	if s.Distance != 300 {
		t.Errorf("Distance = %v, want 300", s.Distance)
	}
	if s.CostPerDistance != 100.0/300 {
		t.Errorf("CostPerDistance = %v", s.CostPerDistance)
	}
	if s.AvgPrice != 3 {
		t.Errorf("AvgPrice = %v, want 3", s.AvgPrice)
	}

	if empty := Summarize(nil, nil); empty != (model.Summary{}) {
		t.Errorf("Summarize(nil) = %+v", empty)
	}
}

func TestMaxOdometerAndTotals(t *testing.T) {
	if got := MaxOdometer(nil, nil); got != 0 {
		t.Errorf("MaxOdometer(empty) = %v", got)
	}
	fuel := []model.FuelEntry{fill(1, "2024-01-01", 500, 10)}
	maint := []model.MaintenanceEntry{service(2, "2024-01-02", "Oil", 700, 50)}
	if got := MaxOdometer(fuel, maint); got != 700 {
		t.Errorf("MaxOdometer = %v, want 700", got)
	}
	b := ExpenseTotals(fuel, maint)
	if b.Fuel != 30 || b.Maintenance != 50 {
		t.Errorf("ExpenseTotals = %+v", b)
	}
}
