package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/units"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "carlog.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadEmptyReturnsDefaults(t *testing.T) {
	s := openTemp(t)
	d, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !d.IsEmpty() || d.Settings != model.DefaultSettings() {
		t.Errorf("Load on empty db = %+v", d)
	}
	if ts, _ := s.UpdatedAt(context.Background()); !ts.IsZero() {
		t.Errorf("UpdatedAt = %v, want zero", ts)
	}
}

func TestSaveLoadLastWriteWins(t *testing.T) {
	s := openTemp(t)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	first := model.NewData()
	first.FuelEntries = append(first.FuelEntries, model.FuelEntry{ID: 1, Date: model.NewDate(2024, 4, 1), Odometer: 100, Volume: 10, PricePerVolume: 3, Total: 30})
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := model.NewData()
	second.Settings.DistanceUnit = units.Kilometers
	second.MaintenanceEntries = append(second.MaintenanceEntries, model.MaintenanceEntry{ID: 2, Date: model.NewDate(2024, 4, 2), Service: "Oil Change", Cost: 45})
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.FuelEntries) != 0 {
		t.Errorf("fuel entries = %d, want 0 after overwrite", len(got.FuelEntries))
	}
	if len(got.MaintenanceEntries) != 1 || got.MaintenanceEntries[0].Service != "Oil Change" {
		t.Errorf("maintenance = %+v", got.MaintenanceEntries)
	}
	if got.Settings.DistanceUnit != units.Kilometers {
		t.Errorf("distance unit = %s", got.Settings.DistanceUnit)
	}
	ts, err := s.UpdatedAt(ctx)
	if err != nil || !ts.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("UpdatedAt = %v, %v", ts, err)
	}
}

func TestLoadCorruptFallsBack(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	if err := s.SaveRaw(ctx, []byte("{not json")); err != nil {
		t.Fatalf("SaveRaw: %v", err)
	}

	d, err := s.Load(ctx)
	if !errors.Is(err, model.ErrCorruptState) {
		t.Fatalf("err = %v, want ErrCorruptState", err)
	}
	if !d.IsEmpty() || d.Settings != model.DefaultSettings() {
		t.Errorf("fallback = %+v", d)
	}
}

func TestReopenKeepsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carlog.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	d := model.NewData()
	d.Reminders = append(d.Reminders, model.Reminder{ID: 9, Service: "Inspection", DueDate: model.NewDate(2025, 1, 1)})
	if err := s.Save(ctx, d); err != nil {
		t.Fatalf("Save: %v", err)
	}
	_ = s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Reminders) != 1 || got.Reminders[0].DueDate != model.NewDate(2025, 1, 1) {
		t.Errorf("reminders = %+v", got.Reminders)
	}
}
