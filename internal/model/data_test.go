package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/carlog/internal/units"
)

func TestDecodeDataBrowserSnapshot(t *testing.T) {
	raw := `{
		"fuelEntries": [{"id": 1700000000000, "date": "2024-03-02", "odometer": 30000, "gallons": 12, "pricePerGallon": 3.5, "total": 42}],
		"maintenanceEntries": [{"id": 1700000000001, "date": "2024-03-05", "odometer": 30100, "service": "Oil Change", "cost": 45, "notes": ""}],
		"reminders": [{"id": 1700000000002, "service": "Tire Rotation", "dueDate": null, "dueMileage": 35000, "notes": "", "completed": false}],
		"settings": {"distanceUnit": "kilometers", "volumeUnit": "liters"}
	}`

	d, err := DecodeData([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeData: %v", err)
	}
	if len(d.FuelEntries) != 1 || d.FuelEntries[0].Volume != 12 || d.FuelEntries[0].PricePerVolume != 3.5 {
		t.Fatalf("fuel entries = %+v", d.FuelEntries)
	}
	if got := d.FuelEntries[0].Date; got != NewDate(2024, time.March, 2) {
		t.Errorf("fuel date = %v", got)
	}
	r := d.Reminders[0]
	if !r.DueDate.IsZero() {
		t.Errorf("reminder due date = %v, want zero", r.DueDate)
	}
	if miles, ok := r.DueMiles(); !ok || miles != 35000 {
		t.Errorf("DueMiles = %v, %v", miles, ok)
	}
	if d.Settings.DistanceUnit != units.Kilometers || d.Settings.VolumeUnit != units.Liters {
		t.Errorf("units = %s/%s", d.Settings.DistanceUnit, d.Settings.VolumeUnit)
	}
	if d.Settings.Currency != "USD" || d.Settings.CurrencySymbol != "$" || d.Settings.Locale != "en-US" {
		t.Errorf("missing settings fields not defaulted: %+v", d.Settings)
	}
}

func TestDecodeDataMissingFields(t *testing.T) {
	d, err := DecodeData([]byte(`{}`))
	if err != nil {
		t.Fatalf("DecodeData: %v", err)
	}
	if d.FuelEntries == nil || d.MaintenanceEntries == nil || d.Reminders == nil {
		t.Fatal("nil lists after decode")
	}
	if d.Settings != DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", d.Settings)
	}
}

func TestDecodeDataCorrupt(t *testing.T) {
	d, err := DecodeData([]byte(`{"fuelEntries": [`))
	if !errors.Is(err, ErrCorruptState) {
		t.Fatalf("err = %v, want ErrCorruptState", err)
	}
	if !d.IsEmpty() || d.Settings != DefaultSettings() {
		t.Errorf("fallback data = %+v", d)
	}
}

func TestEncodeDataUsesBrowserFieldNames(t *testing.T) {
	d := NewData()
	d.FuelEntries = append(d.FuelEntries, FuelEntry{ID: 1, Date: NewDate(2024, 1, 5), Odometer: 10, Volume: 2, PricePerVolume: 3, Total: 6})
	raw, err := EncodeData(d)
	if err != nil {
		t.Fatalf("EncodeData: %v", err)
	}
	var probe struct {
		Fuel []map[string]any `json:"fuelEntries"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if probe.Fuel[0]["gallons"] != 2.0 || probe.Fuel[0]["date"] != "2024-01-05" {
		t.Errorf("encoded fuel entry = %v", probe.Fuel[0])
	}
}

func TestDateParsingAndOrder(t *testing.T) {
	d, err := ParseDate("2024-11-30")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if next := d.AddDays(2); next != NewDate(2024, time.December, 2) {
		t.Errorf("AddDays(2) = %v", next)
	}
	ts, err := ParseDate("2024-01-15T23:10:00Z")
	if err != nil || ts != NewDate(2024, time.January, 15) {
		t.Errorf("ParseDate(RFC3339) = %v, %v", ts, err)
	}
	if _, err := ParseDate("15/01/2024"); err == nil {
		t.Error("ParseDate accepted DD/MM/YYYY")
	}
	if !NewDate(2023, 12, 31).Before(NewDate(2024, 1, 1)) {
		t.Error("year boundary ordering wrong")
	}
}

func TestMonthKey(t *testing.T) {
	k := MonthKey{Year: 2024, Month: time.November}
	if got := k.AddMonths(2); got != (MonthKey{Year: 2025, Month: time.January}) {
		t.Errorf("AddMonths(2) = %+v", got)
	}
	if got := k.AddMonths(-11); got != (MonthKey{Year: 2023, Month: time.December}) {
		t.Errorf("AddMonths(-11) = %+v", got)
	}
	if k.LongLabel() != "Nov 2024" {
		t.Errorf("LongLabel = %q", k.LongLabel())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	due := 30000.0
	d := NewData()
	d.FuelEntries = append(d.FuelEntries, FuelEntry{ID: 1, Volume: 10})
	d.Reminders = append(d.Reminders, Reminder{ID: 2, Service: "Oil Change", DueOdometer: &due})

	c := d.Clone()
	c.FuelEntries[0].Volume = 99
	c.Reminders[0].Completed = true
	*c.Reminders[0].DueOdometer = 1

	if d.FuelEntries[0].Volume != 10 {
		t.Error("fuel entries share storage")
	}
	if d.Reminders[0].Completed || *d.Reminders[0].DueOdometer != 30000 {
		t.Errorf("reminders share storage: %+v", d.Reminders[0])
	}
}
