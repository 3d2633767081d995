package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/carlog/internal/model"
)

func fill(id int64, date string, odo, gal float64) model.FuelEntry {
	d, err := model.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return model.FuelEntry{ID: id, Date: d, Odometer: odo, Volume: gal, PricePerVolume: 3, Total: gal * 3}
}

func TestEfficienciesSecondFill(t *testing.T) {
	entries := []model.FuelEntry{
		fill(2, "2024-03-10", 30350, 11),
		fill(1, "2024-03-01", 30000, 12),
	}

	points := EfficiencyHistory(entries)
	if len(points) != 1 {
		t.Fatalf("points = %d, want 1", len(points))
	}
	if points[0].EntryID != 2 {
		t.Errorf("EntryID = %d, want 2", points[0].EntryID)
	}
	if want := 350.0 / 11; math.Abs(points[0].MPG-want) > 1e-9 {
		t.Errorf("MPG = %.4f, want %.4f", points[0].MPG, want)
	}
	if entries[0].ID != 2 {
		t.Error("input slice was reordered")
	}
}

func TestEfficienciesSkipsInvalidPairs(t *testing.T) {
	entries := []model.FuelEntry{
		fill(1, "2024-01-01", 1000, 10),
		fill(2, "2024-01-10", 1000, 10), // no distance
		fill(3, "2024-01-20", 990, 10),  // odometer went backwards
		fill(4, "2024-01-30", 1290, 0),  // no volume
		fill(5, "2024-02-10", 1590, 10),
	}

	byID := EfficiencyByEntry(entries)
	if len(byID) != 1 {
		t.Fatalf("valid readings = %v, want only entry 5", byID)
	}
	if got := byID[5]; got != 30 {
		t.Errorf("entry 5 = %v, want 30", got)
	}
}

func TestEfficienciesRestartable(t *testing.T) {
	seq := Efficiencies([]model.FuelEntry{
		fill(1, "2024-01-01", 0, 10),
		fill(2, "2024-01-10", 300, 10),
		fill(3, "2024-01-20", 650, 10),
	})
	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	if a, b := count(), count(); a != 2 || b != 2 {
		t.Errorf("ranged twice: %d then %d, want 2 and 2", a, b)
	}
	for p := range seq {
		if p.EntryID != 2 {
			t.Errorf("first point = %d, want 2", p.EntryID)
		}
		break
	}
}

func TestRollingEfficiency(t *testing.T) {
	history := []model.FuelEntry{
		fill(1, "2024-01-01", 10000, 10),
		fill(2, "2024-01-15", 10300, 10), // 30
		fill(3, "2024-02-01", 10700, 10), // 40
		fill(4, "2024-02-15", 11200, 10), // 50
	}

	tests := []struct {
		name    string
		entries []model.FuelEntry
		window  int
		want    float64
	}{
		{"empty", nil, 3, 0},
		{"window of one", history, 1, 0},
		{"single pair", history[:2], 3, 0},
		{"default window takes latest three", history, 0, 45},
		{"window of four", history, 4, 40},
		{"window larger than history", history, 10, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RollingEfficiency(tt.entries, tt.window)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RollingEfficiency = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRollingEfficiencyIgnoresInvalidPair(t *testing.T) {
	entries := []model.FuelEntry{
		fill(1, "2024-01-01", 10000, 10),
		fill(2, "2024-01-15", 10300, 10), // 30
		fill(3, "2024-02-01", 10300, 10), // invalid
		fill(4, "2024-02-15", 10700, 10), // 40
	}
	if got := RollingEfficiency(entries, 4); math.Abs(got-35) > 1e-9 {
		t.Errorf("RollingEfficiency = %v, want 35", got)
	}
	// The three most recent entries only hold one valid pair.
	if got := RollingEfficiency(entries, 3); got != 0 {
		t.Errorf("RollingEfficiency(window 3) = %v, want 0", got)
	}
}

func TestSeedData(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	fuel, maint := SeedData(now, newTestRand())

	if len(fuel) != 12 || len(maint) != 5 {
		t.Fatalf("seed sizes = %d fuel, %d maintenance", len(fuel), len(maint))
	}
	if fuel[0].Odometer != 30000 || fuel[0].Date != model.DateOf(now) {
		t.Errorf("first fill = %+v", fuel[0])
	}
	for i := 1; i < len(fuel); i++ {
		step := fuel[i-1].Odometer - fuel[i].Odometer
		if step < 300 || step > 400 {
			t.Errorf("odometer step %d = %v, want 300..400", i, step)
		}
		if fuel[i].Volume < 10 || fuel[i].Volume > 15 || fuel[i].PricePerVolume < 3 || fuel[i].PricePerVolume > 4 {
			t.Errorf("fill %d out of range: %+v", i, fuel[i])
		}
	}
	if maint[3].Service != "Brake Pad Replacement" || maint[3].Odometer != 27000 {
		t.Errorf("maint[3] = %+v", maint[3])
	}
	if got := len(EfficiencyHistory(fuel)); got != 11 {
		t.Errorf("seeded efficiency points = %d, want 11", got)
	}
}
