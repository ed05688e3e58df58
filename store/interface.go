package store

import "github.com/chaosmap-io/chaosmap/models"

// TaskStore defines the interface for task persistence. Drafts go in,
// tasks with store-assigned IDs and creation timestamps come out.
// Concurrent updates to the same task are last-write-wins.
type TaskStore interface {
	// Initialize configures the store with backend-specific settings
	// such as file path or data format. It must be called before any
	// other store operation.
	Initialize(config map[string]string) error

	// CreateTask persists a single draft and returns the created task
	// with its assigned ID and CreatedAt.
	CreateTask(draft models.TaskDraft) (models.Task, error)

	// CreateTasks persists a batch of drafts in one operation,
	// preserving input order in the returned slice. This is the sink for
	// the chaos parser's output.
	CreateTasks(drafts []models.TaskDraft) ([]models.Task, error)

	// GetTask retrieves a task by its unique identifier.
	GetTask(id string) (models.Task, error)

	// UpdateTask applies the given field updates to an existing task.
	// The updates map is keyed by JSON field name and may contain any
	// subset of the mutable fields; ID and CreatedAt are never mutated.
	UpdateTask(id string, updates map[string]interface{}) (models.Task, error)

	// DeleteTask removes a task by its unique identifier.
	DeleteTask(id string) error

	// DeleteAllTasks removes every task. Destructive.
	DeleteAllTasks() error

	// MarkTaskDone marks a task as completed.
	MarkTaskDone(id string) (models.Task, error)

	// ListTasks retrieves tasks, optionally filtered and sorted. A nil
	// filterFn returns everything; a nil sortFn leaves natural order.
	ListTasks(filterFn func(models.Task) bool, sortFn func([]models.Task) []models.Task) ([]models.Task, error)

	// Backup copies the current task data to the destination path.
	Backup(destinationPath string) error

	// Restore replaces current task data with data from the source path.
	Restore(sourcePath string) error

	// Close releases any resources held by the store, such as file locks
	// or database connections.
	Close() error
}
