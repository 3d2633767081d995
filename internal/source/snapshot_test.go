package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/units"
)

func TestParseBrowserSnapshot(t *testing.T) {
	raw := `{
	  "fuelEntries": [
	    {"id": 1700000000000, "date": "2024-05-01", "odometer": 30000, "gallons": 12, "pricePerGallon": 3.5, "total": 42},
	    {"date": "2024-05-15", "odometer": 30350, "gallons": 11, "pricePerGallon": 3.5},
	    {"id": 5, "date": "2024-05-20", "odometer": 30400, "gallons": 0, "pricePerGallon": 3.5},
	    {"id": 6, "odometer": 30500, "gallons": 10, "pricePerGallon": 3.5}
	  ],
	  "maintenanceEntries": [
	    {"id": 7, "date": "2024-04-10", "odometer": 29800, "service": "Oil Change", "cost": 45},
	    {"id": 8, "date": "2024-04-11", "odometer": 29810, "service": "  ", "cost": 10}
	  ],
	  "reminders": [
	    {"service": "Tire Rotation", "dueDate": "2024-07-01", "dueMileage": 32000, "completed": false}
	  ],
	  "settings": {"distanceUnit": "kilometers", "volumeUnit": "liters", "regionCode": "tw"}
	}`

	res, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Data.FuelEntries) != 2 {
		t.Fatalf("fuel entries = %d, want 2", len(res.Data.FuelEntries))
	}
	if res.Skipped != 3 || len(res.Warnings) != 3 {
		t.Errorf("Skipped = %d, Warnings = %v", res.Skipped, res.Warnings)
	}
	if !strings.Contains(res.Warnings[0], "volume") {
		t.Errorf("first warning = %q", res.Warnings[0])
	}

	added := res.Data.FuelEntries[1]
	if added.ID != 1700000000001 {
		t.Errorf("assigned ID = %d, want 1700000000001", added.ID)
	}
	if added.Total != 38.5 {
		t.Errorf("derived total = %v, want 38.5", added.Total)
	}
	if res.Assigned != 2 {
		t.Errorf("Assigned = %d, want 2", res.Assigned)
	}

	if len(res.Data.Reminders) != 1 || res.Data.Reminders[0].ID != 1700000000002 {
		t.Errorf("reminders = %+v", res.Data.Reminders)
	}
	s := res.Data.Settings
	if s.DistanceUnit != units.Kilometers || s.VolumeUnit != units.Liters || s.RegionCode != "tw" {
		t.Errorf("settings = %+v", s)
	}
	if s.Currency != "USD" {
		t.Errorf("missing currency should default, got %q", s.Currency)
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Fatal("Parse accepted malformed JSON")
	}
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")

	data := model.NewData()
	data.FuelEntries = []model.FuelEntry{{ID: 1, Date: model.NewDate(2024, 1, 2), Odometer: 100, Volume: 10, PricePerVolume: 3, Total: 30}}
	data.MaintenanceEntries = []model.MaintenanceEntry{{ID: 2, Date: model.NewDate(2024, 1, 3), Service: "Oil Change", Cost: 45}}

	if err := WriteFile(path, data); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}

	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), `"pricePerGallon": 3`) {
		t.Errorf("export lacks browser field names:\n%s", raw)
	}

	res, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if res.Skipped != 0 || res.Assigned != 0 {
		t.Errorf("clean export produced Skipped=%d Assigned=%d", res.Skipped, res.Assigned)
	}
	if got := res.Data.MaintenanceEntries[0]; got.Service != "Oil Change" || got.ID != 2 {
		t.Errorf("maintenance = %+v", got)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("ReadFile succeeded on a missing file")
	}
}
