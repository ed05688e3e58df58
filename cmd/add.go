/*
Copyright © 2025 chaosmap.io
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chaosmap-io/chaosmap/internal/ui"
	"github.com/chaosmap-io/chaosmap/parser"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a single task",
	Long: `Add one task through the chaos parser.

The same inline markers work as in bulk entry:

  chaosmap add "review PR urgente (30 min) #review !i:70"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var addSeed uint64

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().Uint64Var(&addSeed, "seed", 0, "fix the random source for unscored tasks")
}

func runAdd(cmd *cobra.Command, args []string) error {
	line := strings.TrimSpace(strings.Join(args, " "))
	if line == "" {
		return fmt.Errorf("task text cannot be empty")
	}

	p := parser.New()
	if cmd.Flags().Changed("seed") {
		p = parser.NewSeeded(addSeed)
	}

	drafts := p.Parse(line)
	if len(drafts) != 1 {
		return fmt.Errorf("expected one task line, got %d (use chaos for bulk entry)", len(drafts))
	}

	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	task, err := taskStore.CreateTask(drafts[0])
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	if isJSON() {
		return printJSON(task)
	}
	fmt.Print(ui.RenderTaskDetail(task))
	return nil
}
