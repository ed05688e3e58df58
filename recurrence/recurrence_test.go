package recurrence

import (
	"testing"
	"time"

	"github.com/chaosmap-io/chaosmap/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func taskWith(anchor time.Time, rule models.Recurrence) models.Task {
	return models.Task{
		ID:         "11111111-1111-4111-8111-111111111111",
		Title:      "recurring task",
		Category:   models.CategoryOwn,
		Recurrence: rule,
		TargetDate: &anchor,
		CreatedAt:  anchor,
	}
}

func TestIsDue_AnchorDayAlwaysDue(t *testing.T) {
	anchor := day(2025, time.June, 18) // a Wednesday
	rules := []models.Recurrence{
		models.RecurrenceNone,
		models.RecurrenceDaily,
		models.RecurrenceWeekdays,
		models.RecurrenceWeekly,
		models.RecurrenceMonthly,
	}
	for _, rule := range rules {
		if !IsDue(taskWith(anchor, rule), anchor) {
			t.Errorf("rule %q: anchor day must be due", rule)
		}
	}
}

func TestIsDue_NeverBeforeAnchor(t *testing.T) {
	anchor := day(2025, time.June, 18)
	before := day(2025, time.June, 17)
	for _, rule := range []models.Recurrence{models.RecurrenceDaily, models.RecurrenceWeekdays, models.RecurrenceWeekly, models.RecurrenceMonthly} {
		if IsDue(taskWith(anchor, rule), before) {
			t.Errorf("rule %q: must not fire before anchor", rule)
		}
	}
}

func TestIsDue_None(t *testing.T) {
	anchor := day(2025, time.June, 18)
	task := taskWith(anchor, models.RecurrenceNone)
	if IsDue(task, day(2025, time.June, 19)) {
		t.Error("non-recurring task due after anchor day")
	}
	if IsDue(task, day(2025, time.June, 25)) {
		t.Error("non-recurring task due a week later")
	}
}

func TestIsDue_Daily(t *testing.T) {
	anchor := day(2025, time.June, 18)
	task := taskWith(anchor, models.RecurrenceDaily)
	for d := 18; d <= 30; d++ {
		if !IsDue(task, day(2025, time.June, d)) {
			t.Errorf("daily task not due on June %d", d)
		}
	}
	if !IsDue(task, day(2026, time.January, 3)) {
		t.Error("daily task not due months later")
	}
}

func TestIsDue_Weekdays(t *testing.T) {
	anchor := day(2025, time.June, 18) // Wednesday
	task := taskWith(anchor, models.RecurrenceWeekdays)
	tests := []struct {
		d    time.Time
		want bool
	}{
		{day(2025, time.June, 19), true},  // Thursday
		{day(2025, time.June, 20), true},  // Friday
		{day(2025, time.June, 21), false}, // Saturday
		{day(2025, time.June, 22), false}, // Sunday
		{day(2025, time.June, 23), true},  // Monday
	}
	for _, tt := range tests {
		if got := IsDue(task, tt.d); got != tt.want {
			t.Errorf("weekdays on %s (%s): got %v, want %v", tt.d.Format("2006-01-02"), tt.d.Weekday(), got, tt.want)
		}
	}
}

func TestIsDue_Weekly(t *testing.T) {
	anchor := day(2025, time.June, 18) // Wednesday
	task := taskWith(anchor, models.RecurrenceWeekly)
	// Every subsequent Wednesday is due, nothing else.
	for d := 19; d <= 30; d++ {
		q := day(2025, time.June, d)
		want := q.Weekday() == time.Wednesday
		if got := IsDue(task, q); got != want {
			t.Errorf("weekly on June %d (%s): got %v, want %v", d, q.Weekday(), got, want)
		}
	}
	if !IsDue(task, day(2025, time.December, 31)) { // also a Wednesday
		t.Error("weekly task not due on a Wednesday months later")
	}
}

func TestIsDue_Monthly(t *testing.T) {
	anchor := day(2025, time.January, 15)
	task := taskWith(anchor, models.RecurrenceMonthly)
	if !IsDue(task, day(2025, time.February, 15)) {
		t.Error("monthly task not due on the 15th of the next month")
	}
	if IsDue(task, day(2025, time.February, 16)) {
		t.Error("monthly task due on the wrong day of month")
	}
}

func TestIsDue_MonthlyShortMonthNeverFires(t *testing.T) {
	anchor := day(2025, time.January, 31)
	task := taskWith(anchor, models.RecurrenceMonthly)
	// February has no 31st; the rule skips the month entirely.
	for d := 1; d <= 28; d++ {
		if IsDue(task, day(2025, time.February, d)) {
			t.Errorf("monthly anchor on the 31st fired on February %d", d)
		}
	}
	if !IsDue(task, day(2025, time.March, 31)) {
		t.Error("monthly task not due on March 31st")
	}
}

func TestIsDue_UnknownRuleTreatedAsNone(t *testing.T) {
	anchor := day(2025, time.June, 18)
	task := taskWith(anchor, "fortnightly")
	if !IsDue(task, anchor) {
		t.Error("anchor day must be due even with an unknown rule")
	}
	if IsDue(task, day(2025, time.June, 19)) {
		t.Error("unknown rule must fail open to not recurring")
	}
}

func TestIsDue_CreatedAtFallbackAnchor(t *testing.T) {
	created := time.Date(2025, time.June, 18, 15, 42, 7, 0, time.UTC)
	task := models.Task{
		ID:         "22222222-2222-4222-8222-222222222222",
		Title:      "no target date",
		Category:   models.CategoryOwn,
		Recurrence: models.RecurrenceWeekly,
		CreatedAt:  created,
	}
	// Time of day on CreatedAt is irrelevant; its date is the anchor.
	if !IsDue(task, day(2025, time.June, 18)) {
		t.Error("creation day must be due")
	}
	if !IsDue(task, day(2025, time.June, 25)) {
		t.Error("weekly task anchored on CreatedAt not due a week later")
	}
	if IsDue(task, day(2025, time.June, 17)) {
		t.Error("task due before its creation date")
	}
}

func TestDueOn(t *testing.T) {
	anchor := day(2025, time.June, 18)
	tasks := []models.Task{
		taskWith(anchor, models.RecurrenceDaily),
		taskWith(anchor, models.RecurrenceNone),
		taskWith(anchor, models.RecurrenceWeekly),
	}
	due := DueOn(tasks, day(2025, time.June, 19))
	if len(due) != 1 || due[0].Recurrence != models.RecurrenceDaily {
		t.Errorf("DueOn returned %d tasks, want just the daily one", len(due))
	}
}
