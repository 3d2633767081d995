package pipeline

import (
	"cmp"
	"slices"
	"time"

	"github.com/theirongolddev/carlog/internal/model"
)

// Thresholds for the Upcoming status.
const (
	UpcomingWindow = 7 * 24 * time.Hour
	UpcomingMiles  = 300.0
)

// ReminderStatusAt derives a reminder's status from the clock and the highest
// recorded odometer. Due dates are taken as midnight in now's location.
func ReminderStatusAt(r model.Reminder, now time.Time, maxOdometer float64) model.ReminderStatus {
	if r.Completed {
		return model.StatusCompleted
	}

	hasDate := !r.DueDate.IsZero()
	var due time.Time
	if hasDate {
		due = r.DueDate.In(now.Location())
	}
	dueMiles, hasMiles := r.DueMiles()

	if (hasDate && due.Before(now)) || (hasMiles && maxOdometer >= dueMiles) {
		return model.StatusDue
	}
	if (hasDate && due.Before(now.Add(UpcomingWindow))) ||
		(hasMiles && maxOdometer >= dueMiles-UpcomingMiles) {
		return model.StatusUpcoming
	}
	return model.StatusOK
}

// ReminderView pairs a reminder with its derived status.
type ReminderView struct {
	model.Reminder
	Status model.ReminderStatus
}

// SortReminders returns the reminders with their statuses, ordered with Due
// first, then dated reminders by ascending date ahead of undated ones, then
// by ascending due odometer.
func SortReminders(reminders []model.Reminder, now time.Time, maxOdometer float64) []ReminderView {
	out := make([]ReminderView, len(reminders))
	for i, r := range reminders {
		out[i] = ReminderView{Reminder: r, Status: ReminderStatusAt(r, now, maxOdometer)}
	}
	slices.SortStableFunc(out, func(a, b ReminderView) int {
		aDue, bDue := a.Status == model.StatusDue, b.Status == model.StatusDue
		if aDue != bDue {
			if aDue {
				return -1
			}
			return 1
		}

		aDated, bDated := !a.DueDate.IsZero(), !b.DueDate.IsZero()
		switch {
		case aDated && bDated:
			if c := a.DueDate.Compare(b.DueDate); c != 0 {
				return c
			}
		case aDated:
			return -1
		case bDated:
			return 1
		}

		am, aok := a.DueMiles()
		bm, bok := b.DueMiles()
		if aok && bok {
			return cmp.Compare(am, bm)
		}
		return 0
	})
	return out
}

// DueReminders returns the open reminders whose date is today or earlier, or
// whose odometer threshold has been reached.
func DueReminders(reminders []model.Reminder, now time.Time, odometer float64) []model.Reminder {
	today := model.DateOf(now)
	var due []model.Reminder
	for _, r := range reminders {
		if r.Completed {
			continue
		}
		if !r.DueDate.IsZero() && !r.DueDate.After(today) {
			due = append(due, r)
			continue
		}
		if miles, ok := r.DueMiles(); ok && odometer >= miles {
			due = append(due, r)
		}
	}
	return due
}

// CountByStatus tallies statuses for the reminder summary line.
func CountByStatus(views []ReminderView) map[model.ReminderStatus]int {
	counts := make(map[model.ReminderStatus]int, 4)
	for _, v := range views {
		counts[v.Status]++
	}
	return counts
}
