/*
Copyright © 2025 chaosmap.io
*/
package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chaosmap-io/chaosmap/internal/ui"
	"github.com/chaosmap-io/chaosmap/models"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks with optional filters.

Examples:
  chaosmap list                      # everything, pending first
  chaosmap list --pending --urgent   # what's on fire
  chaosmap list --category client --client acme
  chaosmap list --search deploy`,
	RunE: runList,
}

var (
	listCategory  string
	listClient    string
	listUrgent    bool
	listPending   bool
	listCompleted bool
	listSearch    string
	listTag       string
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listCategory, "category", "", "filter by category (own, client)")
	listCmd.Flags().StringVar(&listClient, "client", "", "filter by client name")
	listCmd.Flags().BoolVar(&listUrgent, "urgent", false, "only urgent tasks")
	listCmd.Flags().BoolVar(&listPending, "pending", false, "only pending tasks")
	listCmd.Flags().BoolVar(&listCompleted, "completed", false, "only completed tasks")
	listCmd.Flags().StringVar(&listSearch, "search", "", "substring match on title")
	listCmd.Flags().StringVar(&listTag, "tag", "", "filter by tag")
}

func runList(cmd *cobra.Command, args []string) error {
	if listPending && listCompleted {
		return fmt.Errorf("--pending and --completed are mutually exclusive")
	}

	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	tasks, err := taskStore.ListTasks(listFilter(), prioritySort)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if isJSON() {
		return printJSON(tasks)
	}

	if len(tasks) == 0 {
		cmd.Println("No tasks found.")
		cmd.Println(`Add some with: chaosmap chaos "your brain dump here"`)
		return nil
	}

	if isVerbose() {
		fmt.Print(ui.RenderTaskListVerbose(tasks))
	} else {
		fmt.Print(ui.RenderTaskList(tasks))
	}
	return nil
}

func listFilter() func(models.Task) bool {
	search := strings.ToLower(listSearch)
	return func(t models.Task) bool {
		if listCategory != "" && string(t.Category) != listCategory {
			return false
		}
		if listClient != "" && (t.ClientName == nil || *t.ClientName != listClient) {
			return false
		}
		if listUrgent && !t.Urgency {
			return false
		}
		if listPending && t.Completed {
			return false
		}
		if listCompleted && !t.Completed {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			return false
		}
		if listTag != "" {
			found := false
			for _, tag := range t.Tags {
				if tag == listTag {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
}

// prioritySort orders pending before done, urgent first, then by impact
// descending so the map's top-left reads top-down.
func prioritySort(tasks []models.Task) []models.Task {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.Urgency != b.Urgency {
			return a.Urgency
		}
		return a.Impact > b.Impact
	})
	return tasks
}
