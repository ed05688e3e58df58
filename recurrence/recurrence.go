// Package recurrence decides which stored tasks are active on a given
// calendar day. It is a stateless predicate over (anchor, rule, day),
// O(1) per call, cheap enough to run once per task per visible cell of a
// month grid.
package recurrence

import (
	"time"

	"github.com/chaosmap-io/chaosmap/models"
)

// Anchor returns the calendar date a task's recurrence is evaluated
// against: the target date when set, otherwise the date portion of the
// creation timestamp.
func Anchor(task models.Task) time.Time {
	if task.TargetDate != nil {
		return *task.TargetDate
	}
	return task.CreatedAt
}

// IsDue reports whether task is active on day. The anchor day itself is
// always due regardless of rule; a recurrence never fires before its
// anchor. Times of day are ignored throughout; only calendar dates
// matter. An unrecognized recurrence value is treated as "none".
func IsDue(task models.Task, day time.Time) bool {
	anchor := Anchor(task)

	if SameDay(anchor, day) {
		return true
	}
	if beforeDay(day, anchor) {
		return false
	}

	switch task.Recurrence {
	case models.RecurrenceDaily:
		return true
	case models.RecurrenceWeekdays:
		wd := day.Weekday()
		return wd >= time.Monday && wd <= time.Friday
	case models.RecurrenceWeekly:
		return day.Weekday() == anchor.Weekday()
	case models.RecurrenceMonthly:
		// Exact day-of-month match: an anchor on the 31st never fires in
		// a shorter month.
		return day.Day() == anchor.Day()
	default:
		// Covers "none" and any invalid value: fail open to not recurring.
		return false
	}
}

// DueOn filters tasks down to those active on day, preserving order.
func DueOn(tasks []models.Task, day time.Time) []models.Task {
	var due []models.Task
	for _, t := range tasks {
		if IsDue(t, day) {
			due = append(due, t)
		}
	}
	return due
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// beforeDay reports whether a's calendar date precedes b's.
func beforeDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
