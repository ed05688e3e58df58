package cmd

import (
	"testing"

	"github.com/chaosmap-io/chaosmap/models"
)

func TestComputeStats(t *testing.T) {
	client := "acme"
	tasks := []models.Task{
		{Title: "done deal", Completed: true, Impact: 90, Effort: 10, Category: models.CategoryOwn},
		{Title: "quick win", Impact: 80, Effort: 20, Category: models.CategoryOwn},
		{Title: "big slog", Impact: 75, Effort: 90, Urgency: true, Category: models.CategoryClient, ClientName: &client},
		{Title: "low stakes", Impact: 20, Effort: 10, Category: models.CategoryOwn},
	}

	stats := computeStats(tasks)

	if stats.Total != 4 || stats.Completed != 1 || stats.Pending != 3 {
		t.Errorf("counts = %+v", stats)
	}
	if stats.CompletionRate != 25 {
		t.Errorf("completion rate = %v, want 25", stats.CompletionRate)
	}
	if stats.Urgent != 1 {
		t.Errorf("urgent = %d, want 1", stats.Urgent)
	}
	// High impact counts pending tasks above 70 only; the completed one
	// and the low scorer stay out.
	if stats.HighImpact != 2 {
		t.Errorf("high impact = %d, want 2", stats.HighImpact)
	}
	if stats.QuickWins != 1 {
		t.Errorf("quick wins = %d, want 1", stats.QuickWins)
	}
	if stats.ClientTasks != 1 || stats.OwnTasks != 3 {
		t.Errorf("category split = %d/%d, want 3/1 own/client", stats.OwnTasks, stats.ClientTasks)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := computeStats(nil)
	if stats.Total != 0 || stats.CompletionRate != 0 {
		t.Errorf("empty stats = %+v", stats)
	}
}
