package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chaosmap-io/chaosmap/models"
	"github.com/chaosmap-io/chaosmap/viewport"
)

// MoveFunc persists a new map position for a task and returns the
// updated task.
type MoveFunc func(id string, pos viewport.Position) (models.Task, error)

type matrixKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PanUp    key.Binding
	PanDown  key.Binding
	PanLeft  key.Binding
	PanRight key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	Reset    key.Binding
	Grab     key.Binding
	Next     key.Binding
	Quit     key.Binding
}

func defaultMatrixKeys() matrixKeyMap {
	return matrixKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "cursor up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "cursor down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "cursor left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "cursor right")),
		PanUp:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("shift+↑", "pan up")),
		PanDown:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("shift+↓", "pan down")),
		PanLeft:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("shift+←", "pan left")),
		PanRight: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("shift+→", "pan right")),
		ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Reset:    key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset view")),
		Grab:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "grab/drop")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next task")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k matrixKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.Next, k.ZoomIn, k.ZoomOut, k.Quit}
}

func (k matrixKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.PanUp, k.PanDown, k.PanLeft, k.PanRight},
		{k.ZoomIn, k.ZoomOut, k.Reset},
		{k.Grab, k.Next, k.Quit},
	}
}

// MatrixModel is the interactive impact/effort map. Tasks are plotted
// on a character canvas through the viewport transform; grabbing a task
// and dropping it runs the inverse mapping and persists the result.
type MatrixModel struct {
	tasks     []models.Task
	selected  int
	carrying  bool
	cursor    viewport.Point
	transform viewport.Transform
	move      MoveFunc

	gridW  int
	gridH  int
	status string
	keys   matrixKeyMap
	help   help.Model
}

const (
	panStep  = 2.0
	zoomStep = 0.25
)

// NewMatrix builds the map TUI over the given tasks.
func NewMatrix(tasks []models.Task, move MoveFunc) MatrixModel {
	return MatrixModel{
		tasks:     tasks,
		transform: viewport.Identity,
		move:      move,
		gridW:     60,
		gridH:     20,
		keys:      defaultMatrixKeys(),
		help:      help.New(),
	}
}

// Init implements tea.Model.
func (m MatrixModel) Init() tea.Cmd {
	return nil
}

func (m MatrixModel) canvas() viewport.Rect {
	return viewport.Rect{Width: float64(m.gridW), Height: float64(m.gridH)}
}

// Update implements tea.Model.
func (m MatrixModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.gridW = msg.Width - 4
		if m.gridW < 20 {
			m.gridW = 20
		}
		m.gridH = msg.Height - 8
		if m.gridH < 8 {
			m.gridH = 8
		}
		m.help.Width = msg.Width
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.cursor.Y--
		case key.Matches(msg, m.keys.Down):
			m.cursor.Y++
		case key.Matches(msg, m.keys.Left):
			m.cursor.X--
		case key.Matches(msg, m.keys.Right):
			m.cursor.X++
		case key.Matches(msg, m.keys.PanUp):
			m.transform.PanY += panStep
		case key.Matches(msg, m.keys.PanDown):
			m.transform.PanY -= panStep
		case key.Matches(msg, m.keys.PanLeft):
			m.transform.PanX += panStep
		case key.Matches(msg, m.keys.PanRight):
			m.transform.PanX -= panStep
		case key.Matches(msg, m.keys.ZoomIn):
			m.transform.Zoom = viewport.ClampZoom(m.transform.Zoom + zoomStep)
		case key.Matches(msg, m.keys.ZoomOut):
			m.transform.Zoom = viewport.ClampZoom(m.transform.Zoom - zoomStep)
		case key.Matches(msg, m.keys.Reset):
			m.transform = viewport.Identity
		case key.Matches(msg, m.keys.Next):
			if len(m.tasks) > 0 && !m.carrying {
				m.selected = (m.selected + 1) % len(m.tasks)
				m.status = ""
			}
		case key.Matches(msg, m.keys.Grab):
			m.toggleGrab()
		}
		m.clampCursor()
		return m, nil
	}
	return m, nil
}

// toggleGrab picks up the selected task or drops the carried one. The
// drop runs the forward pixel-to-percent mapping and persists it.
func (m *MatrixModel) toggleGrab() {
	if len(m.tasks) == 0 {
		return
	}
	task := m.tasks[m.selected]

	if !m.carrying {
		m.cursor = viewport.ToScreen(viewport.PositionOf(task), m.canvas(), m.transform)
		m.carrying = true
		m.status = fmt.Sprintf("carrying %q", task.Title)
		return
	}

	pos := viewport.ToPosition(m.cursor, m.canvas(), m.transform, viewport.PositionOf(task))
	updated, err := m.move(task.ID, pos)
	if err != nil {
		m.status = StyleError.Render("move failed: " + err.Error())
		m.carrying = false
		return
	}
	m.tasks[m.selected] = updated
	m.carrying = false
	m.status = fmt.Sprintf("dropped %q at impact %.0f / effort %.0f", updated.Title, pos.Impact, pos.Effort)
}

func (m *MatrixModel) clampCursor() {
	m.cursor.X = models.Clamp(m.cursor.X, 0, float64(m.gridW-1))
	m.cursor.Y = models.Clamp(m.cursor.Y, 0, float64(m.gridH-1))
}

// View implements tea.Model.
func (m MatrixModel) View() string {
	grid := make([][]string, m.gridH)
	for y := range grid {
		row := make([]string, m.gridW)
		for x := range row {
			row[x] = " "
		}
		grid[y] = row
	}

	// Quadrant split lines at the 50% marks.
	midPos := viewport.Position{Effort: 50, Impact: 50}
	mid := viewport.ToScreen(midPos, m.canvas(), m.transform)
	if x := int(mid.X); x >= 0 && x < m.gridW {
		for y := 0; y < m.gridH; y++ {
			grid[y][x] = StyleSubtle.Render("│")
		}
	}
	if y := int(mid.Y); y >= 0 && y < m.gridH {
		for x := 0; x < m.gridW; x++ {
			grid[y][x] = StyleSubtle.Render("─")
		}
	}

	for i, t := range m.tasks {
		if m.carrying && i == m.selected {
			continue
		}
		pt := viewport.ToScreen(viewport.PositionOf(t), m.canvas(), m.transform)
		x, y := int(pt.X), int(pt.Y)
		if x < 0 || x >= m.gridW || y < 0 || y >= m.gridH {
			continue
		}
		marker := markerFor(i)
		switch {
		case i == m.selected:
			grid[y][x] = StylePrimary.Render(marker)
		case t.Urgency:
			grid[y][x] = StyleUrgent.Render(marker)
		default:
			grid[y][x] = StyleText.Render(marker)
		}
	}

	// Cursor last so it is always visible.
	cx, cy := int(m.cursor.X), int(m.cursor.Y)
	if cx >= 0 && cx < m.gridW && cy >= 0 && cy < m.gridH {
		if m.carrying {
			grid[cy][cx] = StyleCarried.Render(markerFor(m.selected))
		} else {
			grid[cy][cx] = StyleSuccess.Render("+")
		}
	}

	var rows []string
	for _, row := range grid {
		rows = append(rows, strings.Join(row, ""))
	}

	var sb strings.Builder
	sb.WriteString(StyleHeader.Render("Priority Map") + StyleSubtle.Render(fmt.Sprintf("  zoom %.2fx  pan %.0f,%.0f", m.transform.Zoom, m.transform.PanX, m.transform.PanY)) + "\n")
	sb.WriteString(StyleSubtle.Render("impact ↑") + "\n")
	sb.WriteString(StyleCanvas.Render(strings.Join(rows, "\n")) + "\n")
	sb.WriteString(StyleSubtle.Render(strings.Repeat(" ", maxInt(0, m.gridW-8))+"effort →") + "\n")

	sb.WriteString(m.legend())
	if m.status != "" {
		sb.WriteString(" " + m.status + "\n")
	}
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m MatrixModel) legend() string {
	if len(m.tasks) == 0 {
		return " " + StyleSubtle.Render("No pending tasks to place.") + "\n"
	}
	var sb strings.Builder
	for i, t := range m.tasks {
		label := fmt.Sprintf(" %s %s", markerFor(i), t.Title)
		if i == m.selected {
			label = StylePrimary.Render(label)
		}
		sb.WriteString(label)
		if (i+1)%3 == 0 || i == len(m.tasks)-1 {
			sb.WriteString("\n")
		} else {
			sb.WriteString("   ")
		}
	}
	return sb.String()
}

// markerFor assigns a stable single-character marker per task index.
func markerFor(i int) string {
	const markers = "0123456789abcdefghijklmnopqrstuvwxyz"
	return string(markers[i%len(markers)])
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
