package pipeline

import (
	"testing"
	"time"

	"github.com/theirongolddev/carlog/internal/model"
)

func miles(v float64) *float64 { return &v }

func TestReminderStatusAt(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	day := func(s string) model.Date {
		d, err := model.ParseDate(s)
		if err != nil {
			t.Fatal(err)
		}
		return d
	}

	tests := []struct {
		name string
		r    model.Reminder
		odo  float64
		want model.ReminderStatus
	}{
		{"completed wins over past date", model.Reminder{DueDate: day("2024-01-01"), Completed: true}, 0, model.StatusCompleted},
		{"completed wins over mileage", model.Reminder{DueOdometer: miles(100), Completed: true}, 500, model.StatusCompleted},
		{"past date", model.Reminder{DueDate: day("2024-06-09")}, 0, model.StatusDue},
		{"due today", model.Reminder{DueDate: day("2024-06-10")}, 0, model.StatusDue},
		{"mileage reached", model.Reminder{DueOdometer: miles(30000)}, 30000, model.StatusDue},
		{"past date inside mileage window", model.Reminder{DueDate: day("2024-06-01"), DueOdometer: miles(30000)}, 29800, model.StatusDue},
		{"date within a week", model.Reminder{DueDate: day("2024-06-16")}, 0, model.StatusUpcoming},
		{"mileage within 300", model.Reminder{DueOdometer: miles(30000)}, 29700, model.StatusUpcoming},
		{"far future date", model.Reminder{DueDate: day("2024-06-18")}, 0, model.StatusOK},
		{"mileage far away", model.Reminder{DueOdometer: miles(30000)}, 29699, model.StatusOK},
		{"zero mileage is unset", model.Reminder{DueOdometer: miles(0)}, 10, model.StatusOK},
		{"no triggers", model.Reminder{}, 100000, model.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReminderStatusAt(tt.r, now, tt.odo); got != tt.want {
				t.Errorf("status = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSortReminders(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	reminders := []model.Reminder{
		{ID: 1, Service: "undated far", DueOdometer: miles(50000)},
		{ID: 2, Service: "dated later", DueDate: model.NewDate(2024, 9, 1)},
		{ID: 3, Service: "undated near", DueOdometer: miles(40000)},
		{ID: 4, Service: "due by miles", DueOdometer: miles(20000)},
		{ID: 5, Service: "dated sooner", DueDate: model.NewDate(2024, 7, 1)},
	}

	got := SortReminders(reminders, now, 25000)
	wantOrder := []int64{4, 5, 2, 3, 1}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Fatalf("position %d = %d (%s), want %d", i, got[i].ID, got[i].Service, id)
		}
	}
	if got[0].Status != model.StatusDue {
		t.Errorf("first status = %s", got[0].Status)
	}
	if c := CountByStatus(got); c[model.StatusDue] != 1 || c[model.StatusOK] != 4 {
		t.Errorf("CountByStatus = %v", c)
	}
}

func TestDueReminders(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	reminders := []model.Reminder{
		{ID: 1, DueDate: model.NewDate(2024, 6, 10)},
		{ID: 2, DueDate: model.NewDate(2024, 6, 11)},
		{ID: 3, DueOdometer: miles(1000)},
		{ID: 4, DueDate: model.NewDate(2024, 1, 1), Completed: true},
	}
	got := DueReminders(reminders, now, 1000)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("DueReminders = %+v, want 1 and 3", got)
	}
}
