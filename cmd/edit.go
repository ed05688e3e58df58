/*
Copyright © 2025 chaosmap.io
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chaosmap-io/chaosmap/internal/ui"
	"github.com/chaosmap-io/chaosmap/models"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit fields of a task",
	Long: `Edit a task. Only the fields you pass as flags change.

  chaosmap edit 3f2a --title "Ship v2" --impact 90
  chaosmap edit 3f2a --category client --client acme
  chaosmap edit 3f2a --recur weekly --target-date 2025-09-01
  chaosmap edit 3f2a --clear-duration`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editTitle      string
	editImpact     float64
	editEffort     float64
	editUrgent     bool
	editDuration   int
	editClearDur   bool
	editTags       []string
	editCategory   string
	editClient     string
	editTargetDate string
	editRecur      string
)

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	editCmd.Flags().Float64Var(&editImpact, "impact", 0, "impact score [0,100]")
	editCmd.Flags().Float64Var(&editEffort, "effort", 0, "effort score [0,100]")
	editCmd.Flags().BoolVar(&editUrgent, "urgent", false, "urgency flag")
	editCmd.Flags().IntVar(&editDuration, "duration", 0, "duration in minutes")
	editCmd.Flags().BoolVar(&editClearDur, "clear-duration", false, "remove the duration")
	editCmd.Flags().StringSliceVar(&editTags, "tags", nil, "replace tags (comma separated, empty clears)")
	editCmd.Flags().StringVar(&editCategory, "category", "", "category (own, client)")
	editCmd.Flags().StringVar(&editClient, "client", "", "client name (with --category client)")
	editCmd.Flags().StringVar(&editTargetDate, "target-date", "", "target date YYYY-MM-DD (empty string clears)")
	editCmd.Flags().StringVar(&editRecur, "recur", "", "recurrence (none, daily, weekdays, weekly, monthly)")
}

func runEdit(cmd *cobra.Command, args []string) error {
	updates := map[string]interface{}{}

	if cmd.Flags().Changed("title") {
		if strings.TrimSpace(editTitle) == "" {
			return fmt.Errorf("title cannot be empty")
		}
		updates["title"] = editTitle
	}
	if cmd.Flags().Changed("impact") {
		updates["impact"] = editImpact
	}
	if cmd.Flags().Changed("effort") {
		updates["effort"] = editEffort
	}
	if cmd.Flags().Changed("urgent") {
		updates["urgency"] = editUrgent
	}
	if editClearDur {
		if cmd.Flags().Changed("duration") {
			return fmt.Errorf("--duration and --clear-duration are mutually exclusive")
		}
		updates["duration"] = nil
	} else if cmd.Flags().Changed("duration") {
		if editDuration < 0 {
			return fmt.Errorf("duration cannot be negative")
		}
		updates["duration"] = editDuration
	}
	if cmd.Flags().Changed("tags") {
		updates["tags"] = editTags
	}
	if cmd.Flags().Changed("category") {
		updates["category"] = editCategory
		if editCategory == string(models.CategoryClient) {
			if editClient == "" {
				return fmt.Errorf("--category client requires --client")
			}
			updates["clientName"] = editClient
		} else {
			updates["clientName"] = nil
		}
	} else if cmd.Flags().Changed("client") {
		updates["clientName"] = editClient
	}
	if cmd.Flags().Changed("target-date") {
		if editTargetDate == "" {
			updates["targetDate"] = nil
		} else {
			if _, err := parseDateFlag(editTargetDate); err != nil {
				return err
			}
			updates["targetDate"] = editTargetDate
		}
	}
	if cmd.Flags().Changed("recur") {
		updates["recurrence"] = editRecur
	}

	if len(updates) == 0 {
		return fmt.Errorf("nothing to change, pass at least one field flag")
	}

	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	task, err := resolveTask(taskStore, args[0])
	if err != nil {
		return err
	}

	updated, err := taskStore.UpdateTask(task.ID, updates)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if isJSON() {
		return printJSON(updated)
	}
	fmt.Print(ui.RenderTaskDetail(updated))
	return nil
}
