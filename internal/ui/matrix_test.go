package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chaosmap-io/chaosmap/models"
	"github.com/chaosmap-io/chaosmap/viewport"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func testTask(title string, impact, effort float64) models.Task {
	return models.Task{
		ID:         "11111111-1111-4111-8111-111111111111",
		Title:      title,
		Impact:     impact,
		Effort:     effort,
		Category:   models.CategoryOwn,
		Recurrence: models.RecurrenceNone,
	}
}

func update(t *testing.T, m MatrixModel, msg tea.Msg) MatrixModel {
	t.Helper()
	next, _ := m.Update(msg)
	mm, ok := next.(MatrixModel)
	if !ok {
		t.Fatalf("Update returned %T, want MatrixModel", next)
	}
	return mm
}

func TestMatrixGrabAndDrop(t *testing.T) {
	var gotID string
	var gotPos viewport.Position
	move := func(id string, pos viewport.Position) (models.Task, error) {
		gotID = id
		gotPos = pos
		task := testTask("Ship release", pos.Impact, pos.Effort)
		return task, nil
	}

	m := NewMatrix([]models.Task{testTask("Ship release", 50, 50)}, move)
	m = update(t, m, tea.WindowSizeMsg{Width: 64, Height: 28})
	if m.gridW != 60 || m.gridH != 20 {
		t.Fatalf("grid = %dx%d, want 60x20", m.gridW, m.gridH)
	}

	// Grab places the cursor on the task's screen position.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.carrying {
		t.Fatal("grab did not pick up the task")
	}
	if m.cursor.X != 30 || m.cursor.Y != 10 {
		t.Fatalf("cursor = (%v,%v), want (30,10)", m.cursor.X, m.cursor.Y)
	}

	// Nudge right twice, down once, then drop.
	m = update(t, m, runeKey('l'))
	m = update(t, m, runeKey('l'))
	m = update(t, m, runeKey('j'))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.carrying {
		t.Fatal("drop did not release the task")
	}
	if gotID != "11111111-1111-4111-8111-111111111111" {
		t.Errorf("moved id = %q", gotID)
	}
	// (32,11) on a 60x20 canvas: effort 53.33, impact 45.
	if gotPos.Effort != 53.33 {
		t.Errorf("effort = %v, want 53.33", gotPos.Effort)
	}
	if gotPos.Impact != 45 {
		t.Errorf("impact = %v, want 45", gotPos.Impact)
	}
}

func TestMatrixZoomBounds(t *testing.T) {
	m := NewMatrix(nil, nil)
	for i := 0; i < 10; i++ {
		m = update(t, m, runeKey('+'))
	}
	if m.transform.Zoom != viewport.MaxZoom {
		t.Errorf("zoom = %v, want capped at %v", m.transform.Zoom, viewport.MaxZoom)
	}
	for i := 0; i < 20; i++ {
		m = update(t, m, runeKey('-'))
	}
	if m.transform.Zoom != viewport.MinZoom {
		t.Errorf("zoom = %v, want floored at %v", m.transform.Zoom, viewport.MinZoom)
	}
	m = update(t, m, runeKey('0'))
	if m.transform != viewport.Identity {
		t.Errorf("reset left transform %+v", m.transform)
	}
}

func TestMatrixViewListsTasks(t *testing.T) {
	tasks := []models.Task{
		testTask("Write proposal", 80, 20),
		testTask("Refactor parser", 30, 70),
	}
	m := NewMatrix(tasks, nil)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})

	view := m.View()
	for _, want := range []string{"Priority Map", "Write proposal", "Refactor parser", "impact"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestMatrixTabCyclesSelection(t *testing.T) {
	tasks := []models.Task{
		testTask("A", 10, 10),
		testTask("B", 20, 20),
	}
	m := NewMatrix(tasks, nil)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.selected != 1 {
		t.Errorf("selected = %d, want 1", m.selected)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.selected != 0 {
		t.Errorf("selected = %d, want 0 after wrap", m.selected)
	}
}
