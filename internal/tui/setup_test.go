package tui

import (
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/carlog/internal/ledger"
	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/units"
)

func TestApplySetupRegionDefaults(t *testing.T) {
	d := model.NewData()
	l := ledger.New(&d, time.Now)

	s, err := ApplySetup(l, SetupValues{Region: "tw"})
	if err != nil {
		t.Fatalf("ApplySetup: %v", err)
	}
	if s.RegionCode != "tw" || s.Currency != "TWD" {
		t.Errorf("settings = %+v", s)
	}
	if s.DistanceUnit != units.Kilometers || s.VolumeUnit != units.Liters {
		t.Errorf("units = %s/%s, want region units", s.DistanceUnit, s.VolumeUnit)
	}
}

func TestApplySetupUnitOverrides(t *testing.T) {
	d := model.NewData()
	l := ledger.New(&d, time.Now)

	s, err := ApplySetup(l, SetupValues{Region: "tw", Volume: string(units.Gallons)})
	if err != nil {
		t.Fatalf("ApplySetup: %v", err)
	}
	if s.DistanceUnit != units.Kilometers {
		t.Errorf("distance = %s, want region default kilometers", s.DistanceUnit)
	}
	if s.VolumeUnit != units.Gallons {
		t.Errorf("volume = %s, want gallons override", s.VolumeUnit)
	}
	if s.Currency != "TWD" {
		t.Errorf("currency = %s, override must keep region currency", s.Currency)
	}
	if d.Settings != s {
		t.Error("ledger data was not updated")
	}
}

func TestApplySetupUnknownRegion(t *testing.T) {
	d := model.NewData()
	l := ledger.New(&d, time.Now)

	s, err := ApplySetup(l, SetupValues{Region: "zz"})
	if !errors.Is(err, ledger.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	if s.RegionCode != "us" {
		t.Errorf("region = %q, want fallback us", s.RegionCode)
	}
}

func TestNewSetupFormBuilds(t *testing.T) {
	v := SetupValues{Region: "tw", Theme: "tokyo-night"}
	if f := NewSetupForm(&v); f == nil {
		t.Fatal("NewSetupForm returned nil")
	}
}
