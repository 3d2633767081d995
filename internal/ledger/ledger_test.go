package ledger

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/units"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func newLedger(t *testing.T) *Ledger {
	t.Helper()
	d := model.NewData()
	return New(&d, fixedClock(1_700_000_000_000))
}

func ptr(v float64) *float64 { return &v }

func TestAddFuelComputesTotal(t *testing.T) {
	l := newLedger(t)
	e, err := l.AddFuel(FuelInput{Date: model.NewDate(2024, 3, 1), Odometer: 30000, Volume: 12, Price: 3.5})
	if err != nil {
		t.Fatalf("AddFuel: %v", err)
	}
	if e.Total != 42 {
		t.Errorf("Total = %v, want 42", e.Total)
	}
	if e.ID != 1_700_000_000_000 {
		t.Errorf("ID = %d, want clock millis", e.ID)
	}
	if len(l.Data().FuelEntries) != 1 {
		t.Errorf("entries = %d", len(l.Data().FuelEntries))
	}
}

func TestAddFuelMetricInputStoredCanonical(t *testing.T) {
	l := newLedger(t)
	if err := l.SetUnits(units.Kilometers, units.Liters); err != nil {
		t.Fatalf("SetUnits: %v", err)
	}
	e, err := l.AddFuel(FuelInput{Date: model.NewDate(2024, 3, 1), Odometer: 160.934, Volume: 37.8541, Price: 1})
	if err != nil {
		t.Fatalf("AddFuel: %v", err)
	}
	if math.Abs(e.Odometer-100) > 1e-9 {
		t.Errorf("Odometer = %v mi, want 100", e.Odometer)
	}
	if math.Abs(e.Volume-10) > 1e-9 {
		t.Errorf("Volume = %v gal, want 10", e.Volume)
	}
	if math.Abs(e.PricePerVolume-3.78541) > 1e-9 {
		t.Errorf("PricePerVolume = %v, want 3.78541", e.PricePerVolume)
	}
	if math.Abs(e.Total-37.8541) > 1e-9 {
		t.Errorf("Total = %v, want the display total 37.8541", e.Total)
	}
}

func TestIDsAreMonotonic(t *testing.T) {
	l := newLedger(t)
	var last int64
	for i := 0; i < 3; i++ {
		e, err := l.AddMaintenance(MaintenanceInput{Date: model.NewDate(2024, 1, 1), Service: "Oil", Cost: 40})
		if err != nil {
			t.Fatalf("AddMaintenance: %v", err)
		}
		if e.ID <= last {
			t.Fatalf("ID %d not greater than %d", e.ID, last)
		}
		last = e.ID
	}
}

func TestNewContinuesAfterExistingIDs(t *testing.T) {
	d := model.NewData()
	d.Reminders = append(d.Reminders, model.Reminder{ID: 5_000_000_000_000, Service: "x", DueOdometer: ptr(1)})
	l := New(&d, fixedClock(1))
	r, err := l.AddReminder(ReminderInput{Service: "y", DueOdometer: ptr(10)})
	if err != nil {
		t.Fatalf("AddReminder: %v", err)
	}
	if r.ID != 5_000_000_000_001 {
		t.Errorf("ID = %d, want 5000000000001", r.ID)
	}
}

func TestUpdateFuelKeepsID(t *testing.T) {
	l := newLedger(t)
	e, _ := l.AddFuel(FuelInput{Date: model.NewDate(2024, 3, 1), Odometer: 100, Volume: 10, Price: 3})
	got, err := l.UpdateFuel(e.ID, FuelInput{Date: model.NewDate(2024, 3, 2), Odometer: 120, Volume: 5, Price: 4})
	if err != nil {
		t.Fatalf("UpdateFuel: %v", err)
	}
	if got.ID != e.ID || got.Total != 20 || got.Odometer != 120 {
		t.Errorf("updated = %+v", got)
	}
	if _, err := l.UpdateFuel(42, FuelInput{Date: model.NewDate(2024, 3, 2), Volume: 1, Price: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateFuel(unknown) err = %v", err)
	}
}

func TestValidation(t *testing.T) {
	l := newLedger(t)

	_, err := l.AddFuel(FuelInput{Odometer: -1, Volume: 0, Price: 3})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	for _, want := range []string{"date is required", "odometer must be at least 0", "volume must be greater than 0"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}

	if _, err := l.AddMaintenance(MaintenanceInput{Date: model.NewDate(2024, 1, 1), Service: "   "}); !errors.Is(err, ErrInvalid) {
		t.Errorf("blank service err = %v", err)
	}
	if _, err := l.AddReminder(ReminderInput{Service: "Oil"}); !errors.Is(err, ErrInvalid) {
		t.Errorf("reminder without triggers err = %v", err)
	}
	if _, err := l.AddReminder(ReminderInput{Service: "Oil", DueOdometer: ptr(-5)}); !errors.Is(err, ErrInvalid) {
		t.Errorf("negative due odometer err = %v", err)
	}
	if n := len(l.Data().FuelEntries) + len(l.Data().MaintenanceEntries) + len(l.Data().Reminders); n != 0 {
		t.Errorf("invalid input stored %d records", n)
	}
}

func TestUpdateReminderPreservesCompleted(t *testing.T) {
	l := newLedger(t)
	r, err := l.AddReminder(ReminderInput{Service: "Oil Change", DueDate: model.NewDate(2024, 7, 1)})
	if err != nil {
		t.Fatalf("AddReminder: %v", err)
	}
	if _, err := l.ToggleReminder(r.ID); err != nil {
		t.Fatalf("ToggleReminder: %v", err)
	}

	got, err := l.UpdateReminder(r.ID, ReminderInput{Service: "Oil Change (synthetic)", DueOdometer: ptr(35000)})
	if err != nil {
		t.Fatalf("UpdateReminder: %v", err)
	}
	if !got.Completed {
		t.Error("edit reset the completed flag")
	}
	if !got.DueDate.IsZero() {
		t.Errorf("DueDate = %v, want cleared", got.DueDate)
	}
	if m, ok := got.DueMiles(); !ok || m != 35000 {
		t.Errorf("DueMiles = %v, %v", m, ok)
	}

	toggled, _ := l.ToggleReminder(r.ID)
	if toggled.Completed {
		t.Error("second toggle should reopen the reminder")
	}
}

func TestReminderDueOdometerConverted(t *testing.T) {
	l := newLedger(t)
	_ = l.SetUnits(units.Kilometers, units.Liters)
	r, err := l.AddReminder(ReminderInput{Service: "Tires", DueOdometer: ptr(1609.34)})
	if err != nil {
		t.Fatalf("AddReminder: %v", err)
	}
	if m, _ := r.DueMiles(); math.Abs(m-1000) > 1e-9 {
		t.Errorf("DueMiles = %v, want 1000", m)
	}
}

func TestDeletes(t *testing.T) {
	l := newLedger(t)
	f, _ := l.AddFuel(FuelInput{Date: model.NewDate(2024, 1, 1), Volume: 1, Price: 1})
	m, _ := l.AddMaintenance(MaintenanceInput{Date: model.NewDate(2024, 1, 1), Service: "Oil"})
	r, _ := l.AddReminder(ReminderInput{Service: "Oil", DueDate: model.NewDate(2024, 2, 1)})

	if err := l.DeleteFuel(f.ID); err != nil {
		t.Errorf("DeleteFuel: %v", err)
	}
	if err := l.DeleteMaintenance(m.ID); err != nil {
		t.Errorf("DeleteMaintenance: %v", err)
	}
	if err := l.DeleteReminder(r.ID); err != nil {
		t.Errorf("DeleteReminder: %v", err)
	}
	if !l.Data().IsEmpty() {
		t.Errorf("data not empty after deletes: %+v", l.Data())
	}
	for name, err := range map[string]error{
		"fuel":        l.DeleteFuel(f.ID),
		"maintenance": l.DeleteMaintenance(m.ID),
		"reminder":    l.DeleteReminder(r.ID),
	} {
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("second delete of %s err = %v", name, err)
		}
	}
}

func TestApplyRegion(t *testing.T) {
	l := newLedger(t)
	s, err := l.ApplyRegion("tw")
	if err != nil {
		t.Fatalf("ApplyRegion: %v", err)
	}
	if s.VolumeUnit != units.Liters || l.Settings().Currency != "TWD" {
		t.Errorf("settings = %+v", l.Settings())
	}
	if _, err := l.ApplyRegion("xx"); !errors.Is(err, ErrInvalid) {
		t.Errorf("unknown region err = %v", err)
	}
	if l.Settings().RegionCode != "us" {
		t.Errorf("fallback region = %q", l.Settings().RegionCode)
	}
	if err := l.SetUnits("furlongs", units.Liters); !errors.Is(err, ErrInvalid) {
		t.Errorf("SetUnits(furlongs) err = %v", err)
	}
}

func TestResetKeepsSettings(t *testing.T) {
	l := newLedger(t)
	_, _ = l.ApplyRegion("tw")
	_, _ = l.AddFuel(FuelInput{Date: model.NewDate(2024, 1, 1), Volume: 1, Price: 1})
	l.Reset()
	if !l.Data().IsEmpty() || l.Settings().RegionCode != "tw" {
		t.Errorf("after Reset: %+v", l.Data())
	}
}
