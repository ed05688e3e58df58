/*
Copyright © 2025 chaosmap.io
*/
package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chaosmap-io/chaosmap/internal/telemetry"
	"github.com/chaosmap-io/chaosmap/internal/ui"
	"github.com/chaosmap-io/chaosmap/models"
	"github.com/chaosmap-io/chaosmap/viewport"
)

// mapCmd represents the map command
var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Open the interactive impact/effort map",
	Long: `Open a full-screen map of pending tasks. High impact is up, high
effort is right.

Keys: arrows move the cursor, shift+arrows pan, +/- zoom, tab cycles
tasks, enter grabs and drops the selected task, 0 resets the view,
q quits. Dropping a task persists its new impact/effort scores.`,
	RunE: runMap,
}

var mapAll bool

func init() {
	rootCmd.AddCommand(mapCmd)
	mapCmd.Flags().BoolVar(&mapAll, "all", false, "include completed tasks")
}

func runMap(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("map needs an interactive terminal, use 'chaosmap move' in scripts")
	}

	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	var filter func(models.Task) bool
	if !mapAll {
		filter = func(t models.Task) bool { return !t.Completed }
	}
	tasks, err := taskStore.ListTasks(filter, prioritySort)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	move := func(id string, pos viewport.Position) (models.Task, error) {
		updated, err := taskStore.UpdateTask(id, map[string]interface{}{
			"impact": pos.Impact,
			"effort": pos.Effort,
		})
		if err == nil {
			telemetryClient.Track(telemetry.EventTaskMoved, telemetry.Properties{
				"interactive": true,
			})
		}
		return updated, err
	}

	model := ui.NewMatrix(tasks, move)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("map TUI failed: %w", err)
	}
	return nil
}
