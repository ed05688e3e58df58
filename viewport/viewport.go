// Package viewport converts between canvas pixel coordinates and the
// normalized impact/effort percentage space tasks are positioned in.
//
// The transform is a uniform zoom plus a pan offset anchored at the
// canvas top-left. Percentage space runs 0–100 on both axes with impact
// increasing upward, so the vertical axis flips when crossing between
// the two spaces.
package viewport

import (
	"math"

	"github.com/chaosmap-io/chaosmap/models"
)

// Zoom bounds. Callers clamp before handing a transform in; ClampZoom is
// the helper for that.
const (
	MinZoom = 0.5
	MaxZoom = 2.0
)

// Rect is a canvas bounding rectangle in screen pixels.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Transform is the live viewport state applied when rendering the map.
type Transform struct {
	PanX float64
	PanY float64
	Zoom float64
}

// Identity is the untransformed viewport.
var Identity = Transform{Zoom: 1}

// Point is a screen pixel position.
type Point struct {
	X float64
	Y float64
}

// Position is a task's place in percentage space.
type Position struct {
	Effort float64
	Impact float64
}

// ClampZoom bounds z to the supported zoom range.
func ClampZoom(z float64) float64 {
	return models.Clamp(z, MinZoom, MaxZoom)
}

// ToPosition maps a pointer's raw pixel position to percentage space
// under the given transform. Outputs are clamped to [0,100] and rounded
// to two decimals. A zero-area canvas (not laid out yet) yields last
// unchanged instead of dividing by zero.
func ToPosition(ptr Point, canvas Rect, t Transform, last Position) Position {
	if canvas.Width == 0 || canvas.Height == 0 || t.Zoom == 0 {
		return last
	}

	relX := ptr.X - canvas.Left
	relY := ptr.Y - canvas.Top
	mapX := (relX - t.PanX) / t.Zoom
	mapY := (relY - t.PanY) / t.Zoom

	return Position{
		Effort: round2(models.Clamp(mapX/canvas.Width*100, 0, 100)),
		Impact: round2(models.Clamp(100-mapY/canvas.Height*100, 0, 100)),
	}
}

// ToPixel maps a position to its untransformed layout pixel within the
// canvas, the spot a task card occupies before pan and zoom are applied.
func ToPixel(pos Position, canvas Rect) Point {
	return Point{
		X: pos.Effort / 100 * canvas.Width,
		Y: (100 - pos.Impact) / 100 * canvas.Height,
	}
}

// ToScreen maps a position all the way to screen pixels: layout position
// scaled by zoom and shifted by pan, relative to the canvas origin.
func ToScreen(pos Position, canvas Rect, t Transform) Point {
	px := ToPixel(pos, canvas)
	return Point{
		X: canvas.Left + px.X*t.Zoom + t.PanX,
		Y: canvas.Top + px.Y*t.Zoom + t.PanY,
	}
}

// PositionOf extracts a task's map position.
func PositionOf(task models.Task) Position {
	return Position{Effort: task.Effort, Impact: task.Impact}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
