// Package source reads and writes JSON snapshot files, both the browser
// app's exported myCarData record and carlog's own exports.
package source

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/carlog/internal/model"
)

// ImportResult holds the output of reading a snapshot file.
type ImportResult struct {
	Data     model.Data
	Warnings []string
	Skipped  int
	Assigned int // records that had no ID
}

// ReadFile parses a snapshot file. Records that can never produce metrics
// are dropped with a warning instead of failing the whole import.
func ReadFile(path string) (ImportResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("reading snapshot: %w", err)
	}
	return Parse(raw)
}

// Parse validates a raw snapshot.
func Parse(raw []byte) (ImportResult, error) {
	var in model.Data
	if err := json.Unmarshal(raw, &in); err != nil {
		return ImportResult{}, fmt.Errorf("parsing snapshot: %w", err)
	}
	in.Normalize()

	res := ImportResult{Data: model.NewData()}
	res.Data.Settings = in.Settings

	ids := newIDAllocator(in)

	for i, e := range in.FuelEntries {
		switch {
		case e.Date.IsZero():
			res.skip("fuel entry %d: missing date", i+1)
			continue
		case e.Volume <= 0:
			res.skip("fuel entry %d: volume must be greater than 0", i+1)
			continue
		}
		if e.Total == 0 {
			e.Total = e.Volume * e.PricePerVolume
		}
		if e.ID == 0 {
			e.ID = ids.next()
			res.Assigned++
		}
		res.Data.FuelEntries = append(res.Data.FuelEntries, e)
	}

	for i, e := range in.MaintenanceEntries {
		e.Service = strings.TrimSpace(e.Service)
		switch {
		case e.Date.IsZero():
			res.skip("maintenance entry %d: missing date", i+1)
			continue
		case e.Service == "":
			res.skip("maintenance entry %d: missing service", i+1)
			continue
		}
		if e.ID == 0 {
			e.ID = ids.next()
			res.Assigned++
		}
		res.Data.MaintenanceEntries = append(res.Data.MaintenanceEntries, e)
	}

	for i, r := range in.Reminders {
		r.Service = strings.TrimSpace(r.Service)
		if r.Service == "" {
			res.skip("reminder %d: missing service", i+1)
			continue
		}
		if r.ID == 0 {
			r.ID = ids.next()
			res.Assigned++
		}
		res.Data.Reminders = append(res.Data.Reminders, r)
	}

	return res, nil
}

func (r *ImportResult) skip(format string, args ...any) {
	r.Skipped++
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// WriteFile exports a snapshot as indented JSON.
func WriteFile(path string, data model.Data) error {
	data.Normalize()
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	raw = append(raw, '\n')
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

type idAllocator struct{ last int64 }

func newIDAllocator(d model.Data) *idAllocator {
	a := &idAllocator{}
	for _, e := range d.FuelEntries {
		a.last = max(a.last, e.ID)
	}
	for _, e := range d.MaintenanceEntries {
		a.last = max(a.last, e.ID)
	}
	for _, r := range d.Reminders {
		a.last = max(a.last, r.ID)
	}
	return a
}

func (a *idAllocator) next() int64 {
	a.last++
	return a.last
}
