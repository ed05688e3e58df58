package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/chaosmap-io/chaosmap/models"
)

func TestRenderMonthGrid(t *testing.T) {
	counts := map[int]int{3: 2, 17: 1}
	out := RenderMonth(2025, time.June, time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local), func(day time.Time) int {
		return counts[day.Day()]
	})

	if !strings.Contains(out, "June 2025") {
		t.Error("missing month header")
	}
	if !strings.Contains(out, "Sun") || !strings.Contains(out, "Sat") {
		t.Error("missing weekday header")
	}
	if !strings.Contains(out, "3 •2") {
		t.Error("missing due badge for the 3rd")
	}
	if !strings.Contains(out, "17 •1") {
		t.Error("missing due badge for the 17th")
	}
	if strings.Contains(out, "10 •") {
		t.Error("badge rendered for a day with no due tasks")
	}

	// June 2025 starts on a Sunday and spans five rendered weeks.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if got := len(lines); got != 7 {
		t.Errorf("rendered %d lines, want 7 (header, weekdays, 5 weeks)", got)
	}
}

func TestRenderMonthCallsEveryDay(t *testing.T) {
	var days []int
	RenderMonth(2025, time.February, time.Time{}, func(day time.Time) int {
		days = append(days, day.Day())
		return 0
	})
	if len(days) != 28 {
		t.Fatalf("countFor called %d times, want 28", len(days))
	}
	if days[0] != 1 || days[27] != 28 {
		t.Errorf("days out of order: first=%d last=%d", days[0], days[27])
	}
}

func TestRenderDayAgenda(t *testing.T) {
	day := time.Date(2025, 6, 18, 0, 0, 0, 0, time.Local)
	tasks := []models.Task{
		{Title: "Standup", Recurrence: models.RecurrenceWeekdays, Category: models.CategoryOwn},
		{Title: "Invoice run", Completed: true, Recurrence: models.RecurrenceMonthly, Category: models.CategoryOwn},
	}

	out := RenderDayAgenda(day, tasks)
	for _, want := range []string{"Wednesday, 18 June 2025", "Standup", "(weekdays)", "Invoice run"} {
		if !strings.Contains(out, want) {
			t.Errorf("day agenda missing %q", want)
		}
	}

	empty := RenderDayAgenda(day, nil)
	if !strings.Contains(empty, "Nothing due.") {
		t.Error("empty day agenda missing placeholder")
	}
}
