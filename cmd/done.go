/*
Copyright © 2025 chaosmap.io
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task as completed",
	Long: `Mark a task as completed. Accepts a full task ID or any unique
prefix of one.`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

func init() {
	rootCmd.AddCommand(doneCmd)
}

func runDone(cmd *cobra.Command, args []string) error {
	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	task, err := resolveTask(taskStore, args[0])
	if err != nil {
		return err
	}

	updated, err := taskStore.MarkTaskDone(task.ID)
	if err != nil {
		return fmt.Errorf("failed to mark task done: %w", err)
	}

	if isJSON() {
		return printJSON(updated)
	}
	fmt.Printf("Done: %s\n", updated.Title)
	return nil
}
