// Package agenda implements the calendar view-model: it resolves query
// windows, reduces appointments, overturns and blocked slots into an occupied
// set, filters the doctor's candidate slots against holidays and absences,
// materializes everything into uniform calendar events and routes click
// actions. All of it is pure computation over immutable snapshots.
package agenda

import "time"

// View is the calendar view being displayed.
type View string

const (
	ViewDay      View = "day"
	ViewWeek     View = "week"
	ViewWorkWeek View = "work_week"
	ViewMonth    View = "month"
	ViewAgenda   View = "agenda"
)

// DateRange is an inclusive range of dates; From and To are midnight-anchored.
type DateRange struct {
	From time.Time
	To   time.Time
}

// FromString returns the range start as YYYY-MM-DD.
func (r DateRange) FromString() string { return r.From.Format("2006-01-02") }

// ToString returns the range end as YYYY-MM-DD.
func (r DateRange) ToString() string { return r.To.Format("2006-01-02") }

// Contains reports whether date (YYYY-MM-DD) falls inside the range.
func (r DateRange) Contains(date string) bool {
	return r.FromString() <= date && date <= r.ToString()
}

// Pad widens the range by days on each side.
func (r DateRange) Pad(days int) DateRange {
	return DateRange{From: r.From.AddDate(0, 0, -days), To: r.To.AddDate(0, 0, days)}
}

// Window resolves the query window for a view and anchor date.
// Week-style views run Monday through Sunday; the month window is the exact
// calendar month. Appointment and overturn queries on the month view use
// Window(...).Pad(7) so week-view bleed-over at month boundaries is covered,
// while slot and blocked-slot queries use the unpadded window.
func Window(view View, anchor time.Time) DateRange {
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())

	switch view {
	case ViewDay:
		return DateRange{From: day, To: day}
	case ViewMonth:
		first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		last := first.AddDate(0, 1, -1)
		return DateRange{From: first, To: last}
	default: // week, work_week, agenda
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		monday := day.AddDate(0, 0, -offset)
		return DateRange{From: monday, To: monday.AddDate(0, 0, 6)}
	}
}
