package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/chaosmap-io/chaosmap/models"
)

// cellWidth is the rendered width of one calendar day cell.
const cellWidth = 8

var weekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// RenderMonth renders a Sunday-first month grid. countFor is invoked once
// per day cell and returns how many tasks are due that day.
func RenderMonth(year int, month time.Month, today time.Time, countFor func(day time.Time) int) string {
	var sb strings.Builder

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	sb.WriteString(StyleHeader.Render(first.Format("January 2006")) + "\n")

	var header []string
	for _, wd := range weekdayHeaders {
		header = append(header, padRight(wd, cellWidth))
	}
	sb.WriteString(" " + StyleSubtle.Render(strings.Join(header, "")) + "\n")

	// Leading blanks up to the first weekday.
	col := int(first.Weekday())
	sb.WriteString(" " + strings.Repeat(" ", col*cellWidth))

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
		cell := fmt.Sprintf("%2d", day)
		if n := countFor(date); n > 0 {
			cell += fmt.Sprintf(" •%d", n)
		}
		cell = padRight(cell, cellWidth)
		if sameDate(date, today) {
			cell = StyleToday.Render(cell)
		}
		sb.WriteString(cell)

		col++
		if col == 7 && day != daysInMonth {
			col = 0
			sb.WriteString("\n ")
		}
	}
	sb.WriteString("\n")

	return sb.String()
}

// RenderDayAgenda renders the tasks due on a single day.
func RenderDayAgenda(day time.Time, tasks []models.Task) string {
	var sb strings.Builder
	sb.WriteString(StyleHeader.Render(day.Format("Monday, 2 January 2006")) + "\n")

	if len(tasks) == 0 {
		sb.WriteString(" " + StyleSubtle.Render("Nothing due.") + "\n")
		return sb.String()
	}

	for _, t := range tasks {
		marker := "·"
		if t.Completed {
			marker = StyleSuccess.Render("✓")
		}
		line := fmt.Sprintf(" %s %s", marker, taskTitle(t))
		if t.Recurrence != models.RecurrenceNone {
			line += " " + StyleSubtle.Render("("+string(t.Recurrence)+")")
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
