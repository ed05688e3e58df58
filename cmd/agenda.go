/*
Copyright © 2025 chaosmap.io
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chaosmap-io/chaosmap/internal/ui"
	"github.com/chaosmap-io/chaosmap/models"
	"github.com/chaosmap-io/chaosmap/recurrence"
)

// agendaCmd represents the agenda command
var agendaCmd = &cobra.Command{
	Use:   "agenda [YYYY-MM]",
	Short: "Show the month calendar of due tasks",
	Long: `Render a month grid with due counts per day. Recurring tasks
appear on every day their rule fires; one-off tasks appear on their
target date.

  chaosmap agenda            # current month
  chaosmap agenda 2025-09    # specific month
  chaosmap agenda --day 2025-09-03`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAgenda,
}

var agendaDay string

func init() {
	rootCmd.AddCommand(agendaCmd)
	agendaCmd.Flags().StringVar(&agendaDay, "day", "", "list tasks due on one day (YYYY-MM-DD)")
}

func runAgenda(cmd *cobra.Command, args []string) error {
	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	// Completed one-offs drop off the agenda; completed recurring tasks
	// keep firing until deleted.
	tasks, err := taskStore.ListTasks(func(t models.Task) bool {
		return t.Recurrence != models.RecurrenceNone || !t.Completed
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if agendaDay != "" {
		day, err := parseDateFlag(agendaDay)
		if err != nil {
			return err
		}
		due := recurrence.DueOn(tasks, day)
		if isJSON() {
			return printJSON(due)
		}
		fmt.Print(ui.RenderDayAgenda(day, due))
		return nil
	}

	now := time.Now()
	year, month := now.Year(), now.Month()
	if len(args) == 1 {
		parsed, err := time.ParseInLocation("2006-01", args[0], time.Local)
		if err != nil {
			return fmt.Errorf("invalid month %q, expected YYYY-MM", args[0])
		}
		year, month = parsed.Year(), parsed.Month()
	}

	if isJSON() {
		return printJSON(monthAgenda(tasks, year, month))
	}

	fmt.Print(ui.RenderMonth(year, month, now, func(day time.Time) int {
		return len(recurrence.DueOn(tasks, day))
	}))
	return nil
}

type agendaDayEntry struct {
	Date  string        `json:"date"`
	Tasks []models.Task `json:"tasks"`
}

// monthAgenda builds the JSON shape: one entry per day with due tasks.
func monthAgenda(tasks []models.Task, year int, month time.Month) []agendaDayEntry {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	var entries []agendaDayEntry
	for d := 1; d <= daysInMonth; d++ {
		day := time.Date(year, month, d, 0, 0, 0, 0, time.Local)
		due := recurrence.DueOn(tasks, day)
		if len(due) == 0 {
			continue
		}
		entries = append(entries, agendaDayEntry{
			Date:  day.Format("2006-01-02"),
			Tasks: due,
		})
	}
	return entries
}
