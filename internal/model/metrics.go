package model

import (
	"fmt"
	"time"
)

// EfficiencyPoint is the economy of one fill-up, in miles per gallon.
type EfficiencyPoint struct {
	Date    Date
	EntryID int64
	MPG     float64
}

// MonthKey identifies a calendar month. Labels are derived, never used as keys.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing d.
func MonthOf(d Date) MonthKey { return MonthKey{Year: d.Year, Month: d.Month} }

// AddMonths returns k shifted by n months.
func (k MonthKey) AddMonths(n int) MonthKey {
	t := time.Date(k.Year, k.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// Before reports whether k is earlier than o.
func (k MonthKey) Before(o MonthKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Month < o.Month
}

// Label returns the short month name, e.g. "Jan".
func (k MonthKey) Label() string { return k.Month.String()[:3] }

// LongLabel returns e.g. "Jan 2024".
func (k MonthKey) LongLabel() string { return fmt.Sprintf("%s %d", k.Label(), k.Year) }

// MonthBucket holds the spend for one month.
type MonthBucket struct {
	Key         MonthKey
	Fuel        float64
	Maintenance float64
}

// Total is fuel plus maintenance.
func (b MonthBucket) Total() float64 { return b.Fuel + b.Maintenance }

// MonthTotals is the dashboard's current-month spend.
type MonthTotals struct {
	Fuel        float64
	Maintenance float64
}

// ExpenseBreakdown splits total spend between fuel and maintenance.
type ExpenseBreakdown struct {
	Fuel        float64
	Maintenance float64
}

// CategoryTotal is the maintenance spend in one category.
type CategoryTotal struct {
	Category string
	Cost     float64
	Count    int
}

// ExpenseKind tells fuel and maintenance expenses apart.
type ExpenseKind string

const (
	ExpenseFuel        ExpenseKind = "Fuel"
	ExpenseMaintenance ExpenseKind = "Maintenance"
)

// Expense is one row of the combined recent-expenses list.
type Expense struct {
	Date   Date
	Kind   ExpenseKind
	Amount float64

	// Set for fuel expenses.
	Volume         float64
	PricePerVolume float64
	// Set for maintenance expenses.
	Service string
}

// Summary holds lifetime totals.
type Summary struct {
	FillUps         int
	TotalVolume     float64
	FuelCost        float64
	MaintenanceCost float64
	ServiceCount    int
	Distance        float64 // max - min odometer across all entries
	CostPerDistance float64 // total cost per mile, 0 without distance
	AvgPrice        float64 // per gallon, weighted by volume
}

// TotalCost is fuel plus maintenance.
func (s Summary) TotalCost() float64 { return s.FuelCost + s.MaintenanceCost }

// ReminderStatus is derived on every read and never stored.
type ReminderStatus string

const (
	StatusCompleted ReminderStatus = "Completed"
	StatusDue       ReminderStatus = "Due"
	StatusUpcoming  ReminderStatus = "Upcoming"
	StatusOK        ReminderStatus = "OK"
)
