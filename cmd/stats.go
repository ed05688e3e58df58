/*
Copyright © 2025 chaosmap.io
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chaosmap-io/chaosmap/internal/ui"
	"github.com/chaosmap-io/chaosmap/models"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task statistics",
	Long: `Summarize the task list: completion rate, urgent backlog,
high-impact work and quick wins (impact above 70, effort below 40).`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// TaskStats is the JSON shape of the stats output.
type TaskStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	CompletionRate float64 `json:"completion_rate"`
	Urgent         int     `json:"urgent"`
	HighImpact     int     `json:"high_impact"`
	QuickWins      int     `json:"quick_wins"`
	ClientTasks    int     `json:"client_tasks"`
	OwnTasks       int     `json:"own_tasks"`
}

func runStats(cmd *cobra.Command, args []string) error {
	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	tasks, err := taskStore.ListTasks(nil, nil)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	stats := computeStats(tasks)

	if isJSON() {
		return printJSON(stats)
	}

	fmt.Println(ui.StyleHeader.Render("Task Stats"))
	fmt.Printf("  Total:           %d\n", stats.Total)
	fmt.Printf("  Completed:       %d (%.0f%%)\n", stats.Completed, stats.CompletionRate)
	fmt.Printf("  Pending:         %d\n", stats.Pending)
	if stats.Urgent > 0 {
		fmt.Printf("  Urgent:          %s\n", ui.StyleUrgent.Render(fmt.Sprintf("%d", stats.Urgent)))
	} else {
		fmt.Printf("  Urgent:          0\n")
	}
	fmt.Printf("  High impact:     %d\n", stats.HighImpact)
	fmt.Printf("  Quick wins:      %d\n", stats.QuickWins)
	fmt.Printf("  Own / client:    %d / %d\n", stats.OwnTasks, stats.ClientTasks)
	return nil
}

// computeStats derives the summary counts. High impact means a pending
// score above 70; a quick win additionally needs effort below 40.
func computeStats(tasks []models.Task) TaskStats {
	stats := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			stats.Completed++
		} else {
			stats.Pending++
			if t.Urgency {
				stats.Urgent++
			}
			if t.Impact > 70 {
				stats.HighImpact++
				if t.Effort < 40 {
					stats.QuickWins++
				}
			}
		}
		if t.Category == models.CategoryClient {
			stats.ClientTasks++
		} else {
			stats.OwnTasks++
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total) * 100
	}
	return stats
}
