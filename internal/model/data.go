package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// StorageKey names the persisted snapshot.
const StorageKey = "myCarData"

// ErrCorruptState is returned when a stored snapshot cannot be decoded.
var ErrCorruptState = errors.New("stored state is corrupt")

// Data is the whole persisted state.
type Data struct {
	FuelEntries        []FuelEntry        `json:"fuelEntries"`
	MaintenanceEntries []MaintenanceEntry `json:"maintenanceEntries"`
	Reminders          []Reminder         `json:"reminders"`
	Settings           Settings           `json:"settings"`
}

// NewData returns empty lists with default settings.
func NewData() Data {
	return Data{
		FuelEntries:        []FuelEntry{},
		MaintenanceEntries: []MaintenanceEntry{},
		Reminders:          []Reminder{},
		Settings:           DefaultSettings(),
	}
}

// Normalize replaces nil lists with empty ones and fills settings defaults.
func (d *Data) Normalize() {
	if d.FuelEntries == nil {
		d.FuelEntries = []FuelEntry{}
	}
	if d.MaintenanceEntries == nil {
		d.MaintenanceEntries = []MaintenanceEntry{}
	}
	if d.Reminders == nil {
		d.Reminders = []Reminder{}
	}
	d.Settings = d.Settings.WithDefaults()
}

// DecodeData parses a stored snapshot. On malformed input it returns
// NewData() together with an error wrapping ErrCorruptState, so callers can
// log and carry on.
func DecodeData(raw []byte) (Data, error) {
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return NewData(), fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	d.Normalize()
	return d, nil
}

// EncodeData serializes a snapshot.
func EncodeData(d Data) ([]byte, error) {
	d.Normalize()
	return json.Marshal(d)
}

// IsEmpty reports whether no entries or reminders are recorded.
func (d Data) IsEmpty() bool {
	return len(d.FuelEntries) == 0 && len(d.MaintenanceEntries) == 0 && len(d.Reminders) == 0
}

// Clone returns a copy that shares no slices with d.
func (d Data) Clone() Data {
	out := d
	out.FuelEntries = slices.Clone(d.FuelEntries)
	out.MaintenanceEntries = slices.Clone(d.MaintenanceEntries)
	out.Reminders = make([]Reminder, len(d.Reminders))
	for i, r := range d.Reminders {
		if r.DueOdometer != nil {
			v := *r.DueOdometer
			r.DueOdometer = &v
		}
		out.Reminders[i] = r
	}
	return out
}
