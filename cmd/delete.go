/*
Copyright © 2025 chaosmap.io
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Long: `Delete a task by ID or unique ID prefix. --all wipes every task
after confirmation.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDelete,
}

var (
	deleteAll   bool
	deleteForce bool
)

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "delete every task")
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	if deleteAll {
		if len(args) > 0 {
			return fmt.Errorf("--all does not take an id argument")
		}
		if !deleteForce && !confirmOrAbort("Delete ALL tasks? This cannot be undone. [y/N] ") {
			return nil
		}
		if err := taskStore.DeleteAllTasks(); err != nil {
			return fmt.Errorf("failed to delete all tasks: %w", err)
		}
		if isJSON() {
			return printJSON(map[string]string{"status": "deleted_all"})
		}
		fmt.Println("All tasks deleted.")
		return nil
	}

	if len(args) != 1 {
		return fmt.Errorf("pass a task id or --all")
	}

	task, err := resolveTask(taskStore, args[0])
	if err != nil {
		return err
	}

	if !deleteForce && !confirmOrAbort(fmt.Sprintf("Delete %q? [y/N] ", task.Title)) {
		return nil
	}

	if err := taskStore.DeleteTask(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if isJSON() {
		return printJSON(map[string]string{"status": "deleted", "id": task.ID})
	}
	fmt.Printf("Deleted: %s\n", task.Title)
	return nil
}
