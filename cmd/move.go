/*
Copyright © 2025 chaosmap.io
*/
package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chaosmap-io/chaosmap/internal/telemetry"
	"github.com/chaosmap-io/chaosmap/internal/ui"
	"github.com/chaosmap-io/chaosmap/viewport"
)

// moveCmd represents the move command
var moveCmd = &cobra.Command{
	Use:   "move <id> --x <px> --y <px>",
	Short: "Reposition a task from pixel coordinates",
	Long: `Non-interactive drag-end: map a pixel position on a canvas to
impact/effort scores and save them. This is what a GUI front end or a
script calls when the user drops a task card.

  chaosmap move 3f2a --x 250 --y 90 --canvas 1000x600
  chaosmap move 3f2a --x 250 --y 90 --pan 100,-50 --zoom 2`,
	Args: cobra.ExactArgs(1),
	RunE: runMove,
}

var (
	moveX      float64
	moveY      float64
	moveCanvas string
	movePan    string
	moveZoom   float64
)

func init() {
	rootCmd.AddCommand(moveCmd)

	moveCmd.Flags().Float64Var(&moveX, "x", 0, "pointer x in pixels")
	moveCmd.Flags().Float64Var(&moveY, "y", 0, "pointer y in pixels")
	moveCmd.Flags().StringVar(&moveCanvas, "canvas", "1000x600", "canvas size as WxH pixels")
	moveCmd.Flags().StringVar(&movePan, "pan", "0,0", "pan offset as X,Y pixels")
	moveCmd.Flags().Float64Var(&moveZoom, "zoom", 1.0, "zoom factor, clamped to [0.5, 2.0]")
	_ = moveCmd.MarkFlagRequired("x")
	_ = moveCmd.MarkFlagRequired("y")
}

func runMove(cmd *cobra.Command, args []string) error {
	canvas, err := parseCanvasFlag(moveCanvas)
	if err != nil {
		return err
	}
	panX, panY, err := parsePanFlag(movePan)
	if err != nil {
		return err
	}
	transform := viewport.Transform{
		PanX: panX,
		PanY: panY,
		Zoom: viewport.ClampZoom(moveZoom),
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

	pos := viewport.ToPosition(
		viewport.Point{X: moveX, Y: moveY},
		canvas,
		transform,
		viewport.PositionOf(task),
	)

	updated, err := taskStore.UpdateTask(task.ID, map[string]interface{}{
		"impact": pos.Impact,
		"effort": pos.Effort,
	})
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	telemetryClient.Track(telemetry.EventTaskMoved, telemetry.Properties{
		"interactive": false,
	})

	if isJSON() {
		return printJSON(updated)
	}
	fmt.Print(ui.RenderTaskDetail(updated))
	return nil
}

func parseCanvasFlag(value string) (viewport.Rect, error) {
	parts := strings.SplitN(value, "x", 2)
	if len(parts) != 2 {
		return viewport.Rect{}, fmt.Errorf("invalid canvas %q, expected WxH", value)
	}
	w, errW := strconv.ParseFloat(parts[0], 64)
	h, errH := strconv.ParseFloat(parts[1], 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return viewport.Rect{}, fmt.Errorf("invalid canvas %q, expected positive WxH", value)
	}
	return viewport.Rect{Width: w, Height: h}, nil
}

func parsePanFlag(value string) (float64, float64, error) {
	parts := strings.SplitN(value, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid pan %q, expected X,Y", value)
	}
	x, errX := strconv.ParseFloat(parts[0], 64)
	y, errY := strconv.ParseFloat(parts[1], 64)
	if errX != nil || errY != nil {
		return 0, 0, fmt.Errorf("invalid pan %q, expected X,Y", value)
	}
	return x, y, nil
}
