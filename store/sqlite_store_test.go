package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/chaosmap-io/chaosmap/models"
)

func setupSQLiteStore(t *testing.T) *SQLiteTaskStore {
	t.Helper()

	store := NewSQLiteTaskStore()
	if err := store.Initialize(map[string]string{"dataFile": ":memory:"}); err != nil {
		t.Fatalf("Failed to initialize sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteTaskStore_BasicOperations(t *testing.T) {
	store := setupSQLiteStore(t)

	duration := 90
	client := "Globex"
	anchor := time.Date(2025, 5, 20, 0, 0, 0, 0, time.Local)

	draft := models.NewDraft("Quarterly report")
	draft.Impact = 88
	draft.Effort = 42.5
	draft.Urgency = true
	draft.Duration = &duration
	draft.Tags = []string{"finance", "q2"}
	draft.Category = models.CategoryClient
	draft.ClientName = &client
	draft.TargetDate = &anchor
	draft.Recurrence = models.RecurrenceMonthly

	created, err := store.CreateTask(draft)
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Error("store must assign ID and CreatedAt")
	}

	got, err := store.GetTask(created.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Title != "Quarterly report" || got.Impact != 88 || got.Effort != 42.5 {
		t.Errorf("core fields mismatch: %+v", got)
	}
	if !got.Urgency {
		t.Error("urgency lost")
	}
	if got.Duration == nil || *got.Duration != 90 {
		t.Errorf("duration mismatch: %v", got.Duration)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "finance" {
		t.Errorf("tags mismatch: %v", got.Tags)
	}
	if got.ClientName == nil || *got.ClientName != "Globex" {
		t.Errorf("client name mismatch: %v", got.ClientName)
	}
	if got.TargetDate == nil || got.TargetDate.Year() != 2025 || got.TargetDate.Day() != 20 {
		t.Errorf("target date mismatch: %v", got.TargetDate)
	}
	if got.Recurrence != models.RecurrenceMonthly {
		t.Errorf("recurrence mismatch: %v", got.Recurrence)
	}

	updated, err := store.UpdateTask(created.ID, map[string]interface{}{
		"impact": 12.25,
		"effort": 99.0,
	})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if updated.Impact != 12.25 || updated.Effort != 99 {
		t.Errorf("position update mismatch: %v/%v", updated.Impact, updated.Effort)
	}

	done, err := store.MarkTaskDone(created.ID)
	if err != nil {
		t.Fatalf("MarkTaskDone failed: %v", err)
	}
	if !done.Completed {
		t.Error("task not completed")
	}

	if err := store.DeleteTask(created.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if _, err := store.GetTask(created.ID); err == nil {
		t.Error("GetTask should fail for deleted task")
	}
}

func TestSQLiteTaskStore_BulkCreate(t *testing.T) {
	store := setupSQLiteStore(t)

	drafts := []models.TaskDraft{
		models.NewDraft("uno"),
		models.NewDraft("dos"),
		models.NewDraft("tres"),
	}
	created, err := store.CreateTasks(drafts)
	if err != nil {
		t.Fatalf("CreateTasks failed: %v", err)
	}
	for i, want := range []string{"uno", "dos", "tres"} {
		if created[i].Title != want {
			t.Errorf("created[%d].Title = %q, want %q", i, created[i].Title, want)
		}
	}

	tasks, err := store.ListTasks(nil, nil)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Errorf("expected 3 tasks, got %d", len(tasks))
	}
}

func TestSQLiteTaskStore_BulkCreateRollsBack(t *testing.T) {
	store := setupSQLiteStore(t)

	bad := models.NewDraft("no client name")
	bad.Category = models.CategoryClient

	if _, err := store.CreateTasks([]models.TaskDraft{models.NewDraft("good"), bad}); err == nil {
		t.Fatal("expected bulk create to fail")
	}
	tasks, err := store.ListTasks(nil, nil)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("failed batch leaked %d tasks", len(tasks))
	}
}

func TestSQLiteTaskStore_ListFilter(t *testing.T) {
	store := setupSQLiteStore(t)

	client := "Initech"
	own := models.NewDraft("mine")
	billed := models.NewDraft("theirs")
	billed.Category = models.CategoryClient
	billed.ClientName = &client

	if _, err := store.CreateTasks([]models.TaskDraft{own, billed}); err != nil {
		t.Fatalf("CreateTasks failed: %v", err)
	}

	clientTasks, err := store.ListTasks(func(t models.Task) bool {
		return t.Category == models.CategoryClient
	}, nil)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(clientTasks) != 1 || clientTasks[0].Title != "theirs" {
		t.Errorf("category filter failed: %+v", clientTasks)
	}
}

func TestSQLiteTaskStore_DeleteAll(t *testing.T) {
	store := setupSQLiteStore(t)

	if _, err := store.CreateTasks([]models.TaskDraft{models.NewDraft("a"), models.NewDraft("b")}); err != nil {
		t.Fatalf("CreateTasks failed: %v", err)
	}
	if err := store.DeleteAllTasks(); err != nil {
		t.Fatalf("DeleteAllTasks failed: %v", err)
	}
	tasks, err := store.ListTasks(nil, nil)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty store, got %d", len(tasks))
	}
}

func TestSQLiteTaskStore_FileBacked(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "tasks.db")

	store := NewSQLiteTaskStore()
	if err := store.Initialize(map[string]string{"dataFile": dbPath}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	created, err := store.CreateTask(models.NewDraft("durable"))
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopen and verify the task survived.
	reopened := NewSQLiteTaskStore()
	if err := reopened.Initialize(map[string]string{"dataFile": dbPath}); err != nil {
		t.Fatalf("re-Initialize failed: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetTask(created.ID)
	if err != nil {
		t.Fatalf("GetTask after reopen failed: %v", err)
	}
	if got.Title != "durable" {
		t.Errorf("title = %q after reopen", got.Title)
	}
}
