package pipeline

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/theirongolddev/carlog/internal/model"
)

var seedServices = []struct {
	name string
	cost float64
}{
	{"Oil Change", 45},
	{"Tire Rotation", 30},
	{"Air Filter Replacement", 25},
	{"Brake Pad Replacement", 150},
	{"Spark Plug Replacement", 80},
}

// SeedData builds a demo history ending at now: twelve fill-ups every 15 days
// and five services every 45 days. IDs are derived from now so they are
// unique and ordered.
func SeedData(now time.Time, rng *rand.Rand) ([]model.FuelEntry, []model.MaintenanceEntry) {
	today := model.DateOf(now)
	baseID := now.UnixMilli()

	fuel := make([]model.FuelEntry, 0, 12)
	odometer := 30000.0
	for i := 0; i < 12; i++ {
		gallons := round3(10 + rng.Float64()*5)
		price := round3(3 + rng.Float64())
		fuel = append(fuel, model.FuelEntry{
			ID:             baseID - int64(i),
			Date:           today.AddDays(-15 * i),
			Odometer:       odometer,
			Volume:         gallons,
			PricePerVolume: price,
			Total:          gallons * price,
		})
		odometer -= float64(300 + rng.IntN(101))
	}

	maint := make([]model.MaintenanceEntry, 0, len(seedServices))
	for i, svc := range seedServices {
		maint = append(maint, model.MaintenanceEntry{
			ID:       baseID - 100 - int64(i),
			Date:     today.AddDays(-45 * i),
			Odometer: 30000 - float64(i)*1000,
			Service:  svc.name,
			Cost:     svc.cost,
			Notes:    "Sample entry",
		})
	}
	return fuel, maint
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
