package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chaosmap-io/chaosmap/models"
)

// RenderTaskList renders tasks as a compact table to a string.
func RenderTaskList(tasks []models.Task) string {
	return renderTaskTable(tasks, false)
}

// RenderTaskListVerbose includes duration, tags and recurrence columns.
func RenderTaskListVerbose(tasks []models.Task) string {
	return renderTaskTable(tasks, true)
}

func renderTaskTable(tasks []models.Task, verbose bool) string {
	var sb strings.Builder

	pending := 0
	urgent := 0
	for _, t := range tasks {
		if !t.Completed {
			pending++
		}
		if t.Urgency && !t.Completed {
			urgent++
		}
	}

	sb.WriteString(fmt.Sprintf(" %d tasks (%d pending", len(tasks), pending))
	if urgent > 0 {
		sb.WriteString(StyleUrgent.Render(fmt.Sprintf(", %d urgent", urgent)))
	}
	sb.WriteString(")\n")
	sb.WriteString(StyleSubtle.Render(strings.Repeat("─", 50)) + "\n")

	headers := []string{"ID", "Title", "Impact", "Effort", "Category", "St"}
	if verbose {
		headers = append(headers, "Dur", "Tags", "Recur", "Due")
	}

	table := &Table{Headers: headers, MaxWidth: 40}
	for _, t := range tasks {
		row := []string{
			TruncateID(t.ID),
			taskTitle(t),
			strconv.FormatFloat(t.Impact, 'f', -1, 64),
			strconv.FormatFloat(t.Effort, 'f', -1, 64),
			categoryLabel(t),
			statusGlyph(t),
		}
		if verbose {
			row = append(row, durationLabel(t), strings.Join(t.Tags, ","), string(t.Recurrence), dueLabel(t))
		}
		table.Rows = append(table.Rows, row)
	}
	sb.WriteString(table.Render())

	return sb.String()
}

// RenderTaskDetail renders a single task with every field.
func RenderTaskDetail(t models.Task) string {
	var sb strings.Builder
	sb.WriteString(StyleHeader.Render(t.Title) + "\n")
	sb.WriteString(fmt.Sprintf("  ID:         %s\n", t.ID))
	sb.WriteString(fmt.Sprintf("  Impact:     %.2f\n", t.Impact))
	sb.WriteString(fmt.Sprintf("  Effort:     %.2f\n", t.Effort))
	sb.WriteString(fmt.Sprintf("  Category:   %s\n", categoryLabel(t)))
	sb.WriteString(fmt.Sprintf("  Status:     %s\n", statusLabel(t)))
	if t.Urgency {
		sb.WriteString("  Urgent:     " + StyleUrgent.Render("yes") + "\n")
	}
	if t.Duration != nil {
		sb.WriteString(fmt.Sprintf("  Duration:   %d min\n", *t.Duration))
	}
	if len(t.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("  Tags:       #%s\n", strings.Join(t.Tags, " #")))
	}
	if t.Recurrence != models.RecurrenceNone {
		sb.WriteString(fmt.Sprintf("  Recurrence: %s\n", t.Recurrence))
	}
	if t.TargetDate != nil {
		sb.WriteString(fmt.Sprintf("  Target:     %s\n", t.TargetDate.Format("2006-01-02")))
	}
	sb.WriteString(fmt.Sprintf("  Created:    %s\n", t.CreatedAt.Format("2006-01-02 15:04")))
	return sb.String()
}

func taskTitle(t models.Task) string {
	title := t.Title
	if t.Urgency {
		title = "! " + title
	}
	if t.Completed {
		return StyleDone.Render(title)
	}
	if t.Urgency {
		return StyleUrgent.Render(title)
	}
	return title
}

func categoryLabel(t models.Task) string {
	if t.Category == models.CategoryClient && t.ClientName != nil {
		return "client:" + *t.ClientName
	}
	return string(t.Category)
}

func statusGlyph(t models.Task) string {
	if t.Completed {
		return StyleSuccess.Render("✓")
	}
	return "·"
}

func statusLabel(t models.Task) string {
	if t.Completed {
		return "done"
	}
	return "pending"
}

func durationLabel(t models.Task) string {
	if t.Duration == nil {
		return ""
	}
	return fmt.Sprintf("%dm", *t.Duration)
}

func dueLabel(t models.Task) string {
	if t.TargetDate == nil {
		return ""
	}
	return t.TargetDate.Format("2006-01-02")
}
