// Package ledger owns the mutable vehicle state. Every add, edit and delete
// goes through a Ledger, which converts display-unit input into canonical
// units before storing it.
package ledger

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/region"
	"github.com/theirongolddev/carlog/internal/units"
)

var (
	// ErrNotFound is returned when no record has the given ID.
	ErrNotFound = errors.New("record not found")
	// ErrInvalid wraps every input validation failure.
	ErrInvalid = errors.New("invalid input")
)

var validate = validator.New()

// FuelInput is a fill-up as the user typed it, in display units.
type FuelInput struct {
	Date     model.Date
	Odometer float64 `validate:"gte=0"`
	Volume   float64 `validate:"gt=0"`
	Price    float64 `validate:"gt=0"` // per display volume unit
}

// MaintenanceInput is a service event in display units.
type MaintenanceInput struct {
	Date     model.Date
	Odometer float64 `validate:"gte=0"`
	Service  string  `validate:"required,max=200"`
	Cost     float64 `validate:"gte=0"`
	Notes    string  `validate:"max=1000"`
}

// ReminderInput is a reminder in display units. At least one of DueDate and
// DueOdometer must be set.
type ReminderInput struct {
	Service     string     `validate:"required,max=200"`
	DueDate     model.Date
	DueOdometer *float64 `validate:"omitempty,gt=0"`
	Notes       string   `validate:"max=1000"`
}

// Ledger wraps the state container. It is not safe for concurrent use.
type Ledger struct {
	data   *model.Data
	clock  func() time.Time
	lastID int64
}

// New returns a Ledger over data. A nil clock uses time.Now.
func New(data *model.Data, clock func() time.Time) *Ledger {
	if clock == nil {
		clock = time.Now
	}
	data.Normalize()
	l := &Ledger{data: data, clock: clock}
	for _, e := range data.FuelEntries {
		l.lastID = max(l.lastID, e.ID)
	}
	for _, e := range data.MaintenanceEntries {
		l.lastID = max(l.lastID, e.ID)
	}
	for _, r := range data.Reminders {
		l.lastID = max(l.lastID, r.ID)
	}
	return l
}

// Data returns the underlying state.
func (l *Ledger) Data() *model.Data { return l.data }

// Settings returns the current display settings.
func (l *Ledger) Settings() model.Settings { return l.data.Settings }

// nextID derives an ID from the clock, bumped past the last one handed out.
func (l *Ledger) nextID() int64 {
	id := max(l.clock().UnixMilli(), l.lastID+1)
	l.lastID = id
	return id
}

// AddFuel records a fill-up and returns the stored entry.
func (l *Ledger) AddFuel(in FuelInput) (model.FuelEntry, error) {
	e, err := l.fuelFromInput(in)
	if err != nil {
		return model.FuelEntry{}, err
	}
	e.ID = l.nextID()
	l.data.FuelEntries = append(l.data.FuelEntries, e)
	return e, nil
}

// UpdateFuel replaces the fill-up with the given ID, keeping the ID and
// recomputing the total.
func (l *Ledger) UpdateFuel(id int64, in FuelInput) (model.FuelEntry, error) {
	i := slices.IndexFunc(l.data.FuelEntries, func(e model.FuelEntry) bool { return e.ID == id })
	if i < 0 {
		return model.FuelEntry{}, fmt.Errorf("fuel entry %d: %w", id, ErrNotFound)
	}
	e, err := l.fuelFromInput(in)
	if err != nil {
		return model.FuelEntry{}, err
	}
	e.ID = id
	l.data.FuelEntries[i] = e
	return e, nil
}

// DeleteFuel removes the fill-up with the given ID.
func (l *Ledger) DeleteFuel(id int64) error {
	before := len(l.data.FuelEntries)
	l.data.FuelEntries = slices.DeleteFunc(l.data.FuelEntries, func(e model.FuelEntry) bool { return e.ID == id })
	if len(l.data.FuelEntries) == before {
		return fmt.Errorf("fuel entry %d: %w", id, ErrNotFound)
	}
	return nil
}

// Fuel returns the fill-up with the given ID.
func (l *Ledger) Fuel(id int64) (model.FuelEntry, error) {
	for _, e := range l.data.FuelEntries {
		if e.ID == id {
			return e, nil
		}
	}
	return model.FuelEntry{}, fmt.Errorf("fuel entry %d: %w", id, ErrNotFound)
}

func (l *Ledger) fuelFromInput(in FuelInput) (model.FuelEntry, error) {
	if err := check(in, in.Date.IsZero()); err != nil {
		return model.FuelEntry{}, err
	}
	s := l.data.Settings
	gallons := units.VolumeFromDisplay(in.Volume, s.VolumeUnit)
	price := units.PriceFromDisplay(in.Price, s.VolumeUnit)
	return model.FuelEntry{
		Date:           in.Date,
		Odometer:       units.DistanceFromDisplay(in.Odometer, s.DistanceUnit),
		Volume:         gallons,
		PricePerVolume: price,
		Total:          gallons * price,
	}, nil
}

// AddMaintenance records a service event.
func (l *Ledger) AddMaintenance(in MaintenanceInput) (model.MaintenanceEntry, error) {
	e, err := l.maintenanceFromInput(in)
	if err != nil {
		return model.MaintenanceEntry{}, err
	}
	e.ID = l.nextID()
	l.data.MaintenanceEntries = append(l.data.MaintenanceEntries, e)
	return e, nil
}

// UpdateMaintenance replaces the service event with the given ID.
func (l *Ledger) UpdateMaintenance(id int64, in MaintenanceInput) (model.MaintenanceEntry, error) {
	i := slices.IndexFunc(l.data.MaintenanceEntries, func(e model.MaintenanceEntry) bool { return e.ID == id })
	if i < 0 {
		return model.MaintenanceEntry{}, fmt.Errorf("maintenance entry %d: %w", id, ErrNotFound)
	}
	e, err := l.maintenanceFromInput(in)
	if err != nil {
		return model.MaintenanceEntry{}, err
	}
	e.ID = id
	l.data.MaintenanceEntries[i] = e
	return e, nil
}

// DeleteMaintenance removes the service event with the given ID.
func (l *Ledger) DeleteMaintenance(id int64) error {
	before := len(l.data.MaintenanceEntries)
	l.data.MaintenanceEntries = slices.DeleteFunc(l.data.MaintenanceEntries, func(e model.MaintenanceEntry) bool { return e.ID == id })
	if len(l.data.MaintenanceEntries) == before {
		return fmt.Errorf("maintenance entry %d: %w", id, ErrNotFound)
	}
	return nil
}

// Maintenance returns the service event with the given ID.
func (l *Ledger) Maintenance(id int64) (model.MaintenanceEntry, error) {
	for _, e := range l.data.MaintenanceEntries {
		if e.ID == id {
			return e, nil
		}
	}
	return model.MaintenanceEntry{}, fmt.Errorf("maintenance entry %d: %w", id, ErrNotFound)
}

func (l *Ledger) maintenanceFromInput(in MaintenanceInput) (model.MaintenanceEntry, error) {
	in.Service = strings.TrimSpace(in.Service)
	if err := check(in, in.Date.IsZero()); err != nil {
		return model.MaintenanceEntry{}, err
	}
	return model.MaintenanceEntry{
		Date:     in.Date,
		Odometer: units.DistanceFromDisplay(in.Odometer, l.data.Settings.DistanceUnit),
		Service:  in.Service,
		Cost:     in.Cost,
		Notes:    strings.TrimSpace(in.Notes),
	}, nil
}

// AddReminder records a new open reminder.
func (l *Ledger) AddReminder(in ReminderInput) (model.Reminder, error) {
	r, err := l.reminderFromInput(in)
	if err != nil {
		return model.Reminder{}, err
	}
	r.ID = l.nextID()
	l.data.Reminders = append(l.data.Reminders, r)
	return r, nil
}

// UpdateReminder replaces the reminder's fields. The completed flag is kept.
func (l *Ledger) UpdateReminder(id int64, in ReminderInput) (model.Reminder, error) {
	i := l.reminderIndex(id)
	if i < 0 {
		return model.Reminder{}, fmt.Errorf("reminder %d: %w", id, ErrNotFound)
	}
	r, err := l.reminderFromInput(in)
	if err != nil {
		return model.Reminder{}, err
	}
	r.ID = id
	r.Completed = l.data.Reminders[i].Completed
	l.data.Reminders[i] = r
	return r, nil
}

// SetReminderCompleted sets the completed flag.
func (l *Ledger) SetReminderCompleted(id int64, completed bool) (model.Reminder, error) {
	i := l.reminderIndex(id)
	if i < 0 {
		return model.Reminder{}, fmt.Errorf("reminder %d: %w", id, ErrNotFound)
	}
	l.data.Reminders[i].Completed = completed
	return l.data.Reminders[i], nil
}

// ToggleReminder flips the completed flag.
func (l *Ledger) ToggleReminder(id int64) (model.Reminder, error) {
	i := l.reminderIndex(id)
	if i < 0 {
		return model.Reminder{}, fmt.Errorf("reminder %d: %w", id, ErrNotFound)
	}
	return l.SetReminderCompleted(id, !l.data.Reminders[i].Completed)
}

// DeleteReminder removes the reminder with the given ID.
func (l *Ledger) DeleteReminder(id int64) error {
	i := l.reminderIndex(id)
	if i < 0 {
		return fmt.Errorf("reminder %d: %w", id, ErrNotFound)
	}
	l.data.Reminders = slices.Delete(l.data.Reminders, i, i+1)
	return nil
}

// Reminder returns the reminder with the given ID.
func (l *Ledger) Reminder(id int64) (model.Reminder, error) {
	i := l.reminderIndex(id)
	if i < 0 {
		return model.Reminder{}, fmt.Errorf("reminder %d: %w", id, ErrNotFound)
	}
	return l.data.Reminders[i], nil
}

func (l *Ledger) reminderIndex(id int64) int {
	return slices.IndexFunc(l.data.Reminders, func(r model.Reminder) bool { return r.ID == id })
}

func (l *Ledger) reminderFromInput(in ReminderInput) (model.Reminder, error) {
	in.Service = strings.TrimSpace(in.Service)
	if err := check(in, false); err != nil {
		return model.Reminder{}, err
	}
	if in.DueDate.IsZero() && in.DueOdometer == nil {
		return model.Reminder{}, fmt.Errorf("%w: due date or due odometer is required", ErrInvalid)
	}
	r := model.Reminder{
		Service: in.Service,
		DueDate: in.DueDate,
		Notes:   strings.TrimSpace(in.Notes),
	}
	if in.DueOdometer != nil {
		miles := units.DistanceFromDisplay(*in.DueOdometer, l.data.Settings.DistanceUnit)
		r.DueOdometer = &miles
	}
	return r, nil
}

// SetUnits changes the display units. Stored values are untouched.
func (l *Ledger) SetUnits(d units.Distance, v units.Volume) error {
	if !d.Valid() {
		return fmt.Errorf("%w: distance unit %q (want miles or kilometers)", ErrInvalid, d)
	}
	if !v.Valid() {
		return fmt.Errorf("%w: volume unit %q (want gallons or liters)", ErrInvalid, v)
	}
	l.data.Settings.DistanceUnit = d
	l.data.Settings.VolumeUnit = v
	return nil
}

// ApplyRegion bulk-applies a regional preset. Unknown codes fall back to the
// default region and report an error alongside the applied settings.
func (l *Ledger) ApplyRegion(code string) (model.Settings, error) {
	s, ok := region.Apply(l.data.Settings, code)
	l.data.Settings = s
	if !ok {
		return s, fmt.Errorf("%w: region %q, using %q", ErrInvalid, code, region.Default)
	}
	return s, nil
}

// Replace swaps in new fuel and maintenance histories, keeping reminders and
// settings. It is used by demo seeding.
func (l *Ledger) Replace(fuel []model.FuelEntry, maint []model.MaintenanceEntry) {
	l.data.FuelEntries = fuel
	l.data.MaintenanceEntries = maint
	l.data.Normalize()
	for _, e := range fuel {
		l.lastID = max(l.lastID, e.ID)
	}
	for _, e := range maint {
		l.lastID = max(l.lastID, e.ID)
	}
}

// Reset clears every list and keeps the settings.
func (l *Ledger) Reset() {
	l.data.FuelEntries = []model.FuelEntry{}
	l.data.MaintenanceEntries = []model.MaintenanceEntry{}
	l.data.Reminders = []model.Reminder{}
}

// check runs struct validation. missingDate reports a required date that
// the struct tags cannot express.
func check(in any, missingDate bool) error {
	var problems []string
	if missingDate {
		problems = append(problems, "date is required")
	}
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			problems = append(problems, describe(fe))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "gte":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " is too long"
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}
