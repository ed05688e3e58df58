package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chaosmap-io/chaosmap/models"
)

const dateOnly = "2006-01-02"

// timestampFormat keeps a fixed-width fraction so created_at strings
// sort lexicographically in creation order.
const timestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteTaskStore implements the TaskStore interface on SQLite. Unlike
// the file store it does not reload the whole data set per operation;
// SQLite's own locking provides the cross-process serialization.
type SQLiteTaskStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteTaskStore creates a new instance of SQLiteTaskStore. It does
// not open the database; Initialize must be called separately.
func NewSQLiteTaskStore() *SQLiteTaskStore {
	return &SQLiteTaskStore{}
}

// Initialize opens (or creates) the database. The 'dataFile' config key
// is the database path; ":memory:" gives an ephemeral store for tests.
func (s *SQLiteTaskStore) Initialize(config map[string]string) error {
	dbPath := config[dataFileKey]
	if dbPath == "" {
		dbPath = "tasks.db"
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each pooled connection would otherwise get its own empty
		// in-memory database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return fmt.Errorf("enable foreign keys: %w", err)
	}

	s.db = db
	s.dbPath = dbPath

	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// initSchema creates the tasks table if it doesn't exist.
func (s *SQLiteTaskStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		impact REAL NOT NULL DEFAULT 50,
		effort REAL NOT NULL DEFAULT 50,
		urgency INTEGER NOT NULL DEFAULT 0,
		duration INTEGER,                       -- minutes, NULL when unset
		tags TEXT,                              -- JSON array
		completed INTEGER NOT NULL DEFAULT 0,
		category TEXT NOT NULL DEFAULT 'own',
		client_name TEXT,
		target_date TEXT,                       -- YYYY-MM-DD, NULL when unset
		recurrence TEXT NOT NULL DEFAULT 'none',
		created_at TEXT NOT NULL                -- fixed-width RFC3339 with nanoseconds
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_category ON tasks(category);
	CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(completed);
	CREATE INDEX IF NOT EXISTS idx_tasks_client ON tasks(client_name);
	`
	_, err := s.db.Exec(schema)
	return err
}

// txExecutor abstracts sql.DB/sql.Tx for task insertion.
type txExecutor interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// nullDateString returns nil for a nil date, YYYY-MM-DD otherwise.
func nullDateString(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(dateOnly)
}

// insertTaskTx inserts a task. Single source of truth for the column
// order, shared by single and bulk create.
func insertTaskTx(tx txExecutor, t models.Task) error {
	tagsJSON, _ := json.Marshal(t.Tags)

	var duration interface{}
	if t.Duration != nil {
		duration = *t.Duration
	}
	var clientName interface{}
	if t.ClientName != nil {
		clientName = *t.ClientName
	}

	_, err := tx.Exec(`
		INSERT INTO tasks (
			id, title, impact, effort, urgency, duration, tags,
			completed, category, client_name, target_date, recurrence, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, t.Impact, t.Effort, boolToInt(t.Urgency), duration, string(tagsJSON),
		boolToInt(t.Completed), string(t.Category), clientName, nullDateString(t.TargetDate),
		string(t.Recurrence), t.CreatedAt.Format(timestampFormat))
	if err != nil {
		return fmt.Errorf("insert task %s: %w", t.Title, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

const taskColumns = `id, title, impact, effort, urgency, duration, tags,
	completed, category, client_name, target_date, recurrence, created_at`

// rowScanner abstracts sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		task       models.Task
		urgency    int
		completed  int
		duration   sql.NullInt64
		tagsJSON   sql.NullString
		clientName sql.NullString
		targetDate sql.NullString
		category   string
		recur      string
		createdAt  string
	)
	err := row.Scan(&task.ID, &task.Title, &task.Impact, &task.Effort, &urgency, &duration,
		&tagsJSON, &completed, &category, &clientName, &targetDate, &recur, &createdAt)
	if err != nil {
		return models.Task{}, err
	}

	task.Urgency = urgency != 0
	task.Completed = completed != 0
	task.Category = models.Category(category)
	task.Recurrence = models.Recurrence(recur)

	if duration.Valid {
		d := int(duration.Int64)
		task.Duration = &d
	}
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &task.Tags); err != nil {
			return models.Task{}, fmt.Errorf("decode tags for task %s: %w", task.ID, err)
		}
	}
	if clientName.Valid {
		cn := clientName.String
		task.ClientName = &cn
	}
	if targetDate.Valid && targetDate.String != "" {
		parsed, err := time.ParseInLocation(dateOnly, targetDate.String, time.Local)
		if err != nil {
			return models.Task{}, fmt.Errorf("decode target date for task %s: %w", task.ID, err)
		}
		task.TargetDate = &parsed
	}
	parsedCreated, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return models.Task{}, fmt.Errorf("decode created_at for task %s: %w", task.ID, err)
	}
	task.CreatedAt = parsedCreated

	return task, nil
}

// CreateTask persists a single draft.
func (s *SQLiteTaskStore) CreateTask(draft models.TaskDraft) (models.Task, error) {
	task, err := materialize(draft, time.Now().UTC())
	if err != nil {
		return models.Task{}, err
	}
	if err := insertTaskTx(s.db, task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// CreateTasks persists a batch of drafts in a single transaction,
// preserving input order. Any validation failure rolls back the batch.
func (s *SQLiteTaskStore) CreateTasks(drafts []models.TaskDraft) ([]models.Task, error) {
	if len(drafts) == 0 {
		return []models.Task{}, nil
	}

	now := time.Now().UTC()
	created := make([]models.Task, 0, len(drafts))
	for i, draft := range drafts {
		// Offset timestamps within the batch so creation order survives
		// the created-at sort on listing.
		task, err := materialize(draft, now.Add(time.Duration(i)))
		if err != nil {
			return nil, fmt.Errorf("draft %d (%q): %w", i, draft.Title, err)
		}
		created = append(created, task)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin bulk create: %w", err)
	}
	for _, task := range created {
		if err := insertTaskTx(tx, task); err != nil {
			_ = tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit bulk create: %w", err)
	}

	return created, nil
}

// GetTask retrieves a task by its unique identifier.
func (s *SQLiteTaskStore) GetTask(id string) (models.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return models.Task{}, fmt.Errorf("task with ID %s not found", id)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task %s: %w", id, err)
	}
	return task, nil
}

// UpdateTask applies a partial update map to a task. Read-modify-write on
// the whole row; last write wins under concurrent updates.
func (s *SQLiteTaskStore) UpdateTask(id string, updates map[string]interface{}) (models.Task, error) {
	task, err := s.GetTask(id)
	if err != nil {
		return models.Task{}, err
	}

	if err := applyTaskUpdates(&task, updates); err != nil {
		return models.Task{}, err
	}
	if err := models.ValidateStruct(task); err != nil {
		return models.Task{}, fmt.Errorf("validation failed for updated task: %w", err)
	}

	tagsJSON, _ := json.Marshal(task.Tags)
	var duration interface{}
	if task.Duration != nil {
		duration = *task.Duration
	}
	var clientName interface{}
	if task.ClientName != nil {
		clientName = *task.ClientName
	}

	_, err = s.db.Exec(`
		UPDATE tasks SET
			title = ?, impact = ?, effort = ?, urgency = ?, duration = ?, tags = ?,
			completed = ?, category = ?, client_name = ?, target_date = ?, recurrence = ?
		WHERE id = ?
	`, task.Title, task.Impact, task.Effort, boolToInt(task.Urgency), duration, string(tagsJSON),
		boolToInt(task.Completed), string(task.Category), clientName, nullDateString(task.TargetDate),
		string(task.Recurrence), id)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}

	return task, nil
}

// DeleteTask removes a task by its unique identifier.
func (s *SQLiteTaskStore) DeleteTask(id string) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("task with ID '%s' not found", id)
	}
	return nil
}

// DeleteAllTasks removes every task. Destructive.
func (s *SQLiteTaskStore) DeleteAllTasks() error {
	if _, err := s.db.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("delete all tasks: %w", err)
	}
	return nil
}

// MarkTaskDone marks a task as completed.
func (s *SQLiteTaskStore) MarkTaskDone(id string) (models.Task, error) {
	res, err := s.db.Exec(`UPDATE tasks SET completed = 1 WHERE id = ?`, id)
	if err != nil {
		return models.Task{}, fmt.Errorf("mark task %s done: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Task{}, fmt.Errorf("mark task %s done: %w", id, err)
	}
	if affected == 0 {
		return models.Task{}, fmt.Errorf("task with ID %s not found to mark as done", id)
	}
	return s.GetTask(id)
}

// ListTasks retrieves tasks ordered by creation time, optionally
// filtered and sorted. Filtering happens in Go so file and sqlite stores
// accept identical filter functions.
func (s *SQLiteTaskStore) ListTasks(filterFn func(models.Task) bool, sortFn func([]models.Task) []models.Task) ([]models.Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	taskList := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if filterFn == nil || filterFn(task) {
			taskList = append(taskList, task)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	if sortFn != nil {
		sortFn(taskList)
	}
	return taskList, nil
}

// Backup writes a compacted copy of the database to destinationPath.
func (s *SQLiteTaskStore) Backup(destinationPath string) error {
	if _, err := s.db.Exec(`VACUUM INTO ?`, destinationPath); err != nil {
		return fmt.Errorf("backup to %s: %w", destinationPath, err)
	}
	return nil
}

// Restore replaces the database with the file at sourcePath. Not
// supported for in-memory stores.
func (s *SQLiteTaskStore) Restore(sourcePath string) error {
	if s.dbPath == ":memory:" {
		return fmt.Errorf("restore is not supported for an in-memory store")
	}

	sourceData, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read source backup file %s: %w", sourcePath, err)
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database before restore: %w", err)
	}

	if err := os.WriteFile(s.dbPath, sourceData, 0o644); err != nil {
		return fmt.Errorf("failed to write restored database %s: %w", s.dbPath, err)
	}

	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("reopen database after restore: %w", err)
	}
	s.db = db
	return nil
}

// Close releases the database connection.
func (s *SQLiteTaskStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
