// Package daemon provides the long-running reminder watcher. It re-derives
// reminder statuses on a cron schedule and publishes an event whenever a
// reminder becomes due or upcoming.
package daemon

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/theirongolddev/carlog/internal/model"
	"github.com/theirongolddev/carlog/internal/pipeline"
)

// DefaultSchedule checks reminders once an hour.
const DefaultSchedule = "@every 1h"

// Event types.
const (
	EventDue      = "reminder_due"
	EventUpcoming = "reminder_upcoming"
)

// Config controls the watcher.
type Config struct {
	Schedule     string
	EventsBuffer int
	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

// Snapshot is the reminder state at one check.
type Snapshot struct {
	At       time.Time
	Odometer float64
	Statuses map[int64]model.ReminderStatus
}

// Event is emitted when a reminder changes into Due or Upcoming.
type Event struct {
	ID         int64
	Type       string
	Timestamp  time.Time
	ReminderID int64
	Service    string
	Status     model.ReminderStatus
	Previous   model.ReminderStatus // empty on the first check
}

// Status describes the watcher for the CLI.
type Status struct {
	StartedAt   time.Time
	LastCheckAt time.Time
	CheckCount  int64
	Schedule    string
	LastError   string
	EventCount  int
	Due         int
	Upcoming    int
}

// LoadFunc returns the current state.
type LoadFunc func(ctx context.Context) (model.Data, error)

// NotifyFunc receives every published event.
type NotifyFunc func(Event)

// Service runs the reminder checks.
type Service struct {
	cfg    Config
	load   LoadFunc
	notify NotifyFunc
	logger *zap.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastCheckAt time.Time
	checkCount  int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event
}

// New returns a watcher. notify and logger may be nil.
func New(cfg Config, load LoadFunc, notify NotifyFunc, logger *zap.Logger) *Service {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:       cfg,
		load:      load,
		notify:    notify,
		logger:    logger,
		startedAt: cfg.Now(),
	}
}

// Run checks once immediately, then on every schedule tick until ctx is
// canceled.
func (s *Service) Run(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(s.cfg.Schedule, func() { s.Check(ctx) }); err != nil {
		return fmt.Errorf("scheduling reminder check %q: %w", s.cfg.Schedule, err)
	}

	s.logger.Info("reminder watcher started", zap.String("schedule", s.cfg.Schedule))
	s.Check(ctx)

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("reminder watcher stopped")
	return nil
}

// Check loads the state, derives statuses and publishes events for reminders
// that changed into Due or Upcoming since the previous check. On the first
// check every Due or Upcoming reminder is reported.
func (s *Service) Check(ctx context.Context) []Event {
	now := s.cfg.Now()
	data, err := s.load(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastCheckAt = now
		s.checkCount++
		s.mu.Unlock()
		s.logger.Warn("reminder check failed", zap.Error(err))
		return nil
	}

	snap := takeSnapshot(data, now)
	services := make(map[int64]string, len(data.Reminders))
	for _, r := range data.Reminders {
		services[r.ID] = r.Service
	}

	s.mu.Lock()
	var prev map[int64]model.ReminderStatus
	if s.hasSnapshot {
		prev = s.snapshot.Statuses
	}
	s.hasSnapshot = true
	s.snapshot = snap
	s.lastCheckAt = now
	s.checkCount++
	s.lastError = ""

	var published []Event
	for _, ch := range diffStatuses(prev, snap.Statuses) {
		s.nextEventID++
		typ := EventUpcoming
		if ch.curr == model.StatusDue {
			typ = EventDue
		}
		published = append(published, Event{
			ID:         s.nextEventID,
			Type:       typ,
			Timestamp:  now,
			ReminderID: ch.id,
			Service:    services[ch.id],
			Status:     ch.curr,
			Previous:   ch.prev,
		})
	}
	s.mu.Unlock()

	for _, ev := range published {
		s.publishEvent(ev)
	}
	s.logger.Debug("reminder check",
		zap.Int("reminders", len(snap.Statuses)),
		zap.Int("events", len(published)),
		zap.Float64("odometer", snap.Odometer),
	)
	return published
}

func takeSnapshot(d model.Data, now time.Time) Snapshot {
	odo := pipeline.MaxOdometer(d.FuelEntries, d.MaintenanceEntries)
	statuses := make(map[int64]model.ReminderStatus, len(d.Reminders))
	for _, r := range d.Reminders {
		statuses[r.ID] = pipeline.ReminderStatusAt(r, now, odo)
	}
	return Snapshot{At: now, Odometer: odo, Statuses: statuses}
}

type statusChange struct {
	id         int64
	prev, curr model.ReminderStatus
}

// diffStatuses lists reminders whose status moved into Due or Upcoming,
// ordered by reminder ID. A nil prev reports every Due or Upcoming reminder.
func diffStatuses(prev, curr map[int64]model.ReminderStatus) []statusChange {
	var out []statusChange
	for id, st := range curr {
		if st != model.StatusDue && st != model.StatusUpcoming {
			continue
		}
		before, seen := prev[id]
		if seen && before == st {
			continue
		}
		out = append(out, statusChange{id: id, prev: before, curr: st})
	}
	slices.SortFunc(out, func(a, b statusChange) int { return cmp.Compare(a.id, b.id) })
	return out
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}
	s.mu.Unlock()

	if s.notify != nil {
		s.notify(ev)
	}
}

// Events returns a copy of the buffered events, oldest first.
func (s *Service) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Status reports the watcher's counters and the latest reminder tallies.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		StartedAt:   s.startedAt,
		LastCheckAt: s.lastCheckAt,
		CheckCount:  s.checkCount,
		Schedule:    s.cfg.Schedule,
		LastError:   s.lastError,
		EventCount:  len(s.events),
	}
	for _, v := range s.snapshot.Statuses {
		switch v {
		case model.StatusDue:
			st.Due++
		case model.StatusUpcoming:
			st.Upcoming++
		}
	}
	return st
}
