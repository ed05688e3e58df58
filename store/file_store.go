package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	yaml "gopkg.in/yaml.v3"

	"github.com/chaosmap-io/chaosmap/models"
)

const (
	defaultDataFile   = "tasks.json"
	dataFileKey       = "dataFile"
	dataFileFormatKey = "dataFileFormat"
	defaultDataFormat = "json"
	formatJSON        = "json"
	formatYAML        = "yaml"
	formatTOML        = "toml"
	checksumSuffix    = ".checksum"
)

// FileTaskStore implements the TaskStore interface using a file backend.
// It supports JSON, YAML, and TOML formats and uses file-level locking.
type FileTaskStore struct {
	filePath string
	tasks    map[string]models.Task
	flk      *flock.Flock
	format   string
}

// NewFileTaskStore creates a new instance of FileTaskStore.
// It does not initialize the store; Initialize must be called separately.
func NewFileTaskStore() *FileTaskStore {
	return &FileTaskStore{
		tasks: make(map[string]models.Task),
	}
}

// Initialize configures the FileTaskStore. It expects a 'dataFile' key in
// the config map; without one it defaults to 'tasks.json' in the working
// directory. Existing tasks load from the file and a file lock is set up.
func (s *FileTaskStore) Initialize(config map[string]string) error {
	if val, ok := config[dataFileKey]; ok && val != "" {
		s.filePath = val
	} else {
		s.filePath = defaultDataFile
	}

	if val, ok := config[dataFileFormatKey]; ok && val != "" {
		formatLower := strings.ToLower(val)
		switch formatLower {
		case formatJSON, formatYAML, formatTOML:
			s.format = formatLower
		default:
			return fmt.Errorf("unsupported dataFileFormat: %s. Supported formats are json, yaml, toml", val)
		}
	} else {
		s.format = defaultDataFormat
	}

	// A default file name should carry the chosen format's extension.
	if s.filePath == defaultDataFile && s.format != formatJSON {
		ext := filepath.Ext(s.filePath)
		s.filePath = strings.TrimSuffix(s.filePath, ext) + "." + s.format
	}

	dir := filepath.Dir(s.filePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	s.flk = flock.New(s.filePath)

	locked, err := s.flk.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire initial lock for %s: %w", s.filePath, err)
	}
	if !locked {
		// Another process holds the lock; block until initialization can
		// complete.
		if err := s.flk.Lock(); err != nil {
			return fmt.Errorf("failed to acquire blocking initial lock for %s: %w", s.filePath, err)
		}
	}
	defer func() { _ = s.flk.Unlock() }()

	s.tasks = make(map[string]models.Task)
	return s.loadTasksFromFileInternal()
}

// calculateChecksum computes the SHA256 checksum of the given data.
func calculateChecksum(data []byte) string {
	hasher := sha256.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// loadTasksFromFileInternal reads tasks from the file, verifies checksum,
// and unmarshals. Assumes the lock is held.
func (s *FileTaskStore) loadTasksFromFileInternal() error {
	checksumFilePath := s.filePath + checksumSuffix

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.tasks = make(map[string]models.Task)
			_ = os.Remove(checksumFilePath)
			if f, createErr := os.OpenFile(s.filePath, os.O_CREATE|os.O_RDWR, 0o644); createErr != nil {
				return fmt.Errorf("failed to create data file %s: %w", s.filePath, createErr)
			} else {
				_ = f.Close()
			}
			if err := os.WriteFile(checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644); err != nil {
				// Diagnostics go to stderr so --json output stays parseable.
				fmt.Fprintf(os.Stderr, "Warning: could not write initial checksum file %s: %v\n", checksumFilePath, err)
			}
			return nil
		}
		return fmt.Errorf("failed to read data file %s: %w", s.filePath, err)
	}

	if _, err := os.Stat(checksumFilePath); err == nil {
		expectedChecksumBytes, readErr := os.ReadFile(checksumFilePath)
		if readErr != nil {
			return fmt.Errorf("failed to read checksum file %s: %w - data file might be corrupt or tampered", checksumFilePath, readErr)
		}
		expectedChecksum := strings.TrimSpace(string(expectedChecksumBytes))
		actualChecksum := calculateChecksum(data)

		if actualChecksum != expectedChecksum {
			return fmt.Errorf("checksum mismatch for %s - expected %s, got %s - file is corrupt or tampered", s.filePath, expectedChecksum, actualChecksum)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking checksum file %s: %w", checksumFilePath, err)
	}
	// Data from before checksums loads fine; the next save creates one.

	if len(data) == 0 {
		currentChecksum := calculateChecksum([]byte{})
		_ = os.WriteFile(checksumFilePath, []byte(currentChecksum), 0o644) // best effort
		s.tasks = make(map[string]models.Task)
		return nil
	}

	var taskList models.TaskList
	switch s.format {
	case formatJSON:
		if err := json.Unmarshal(data, &taskList); err != nil {
			return fmt.Errorf("failed to unmarshal JSON from %s: %w", s.filePath, err)
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, &taskList); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from %s: %w", s.filePath, err)
		}
	case formatTOML:
		if err := toml.Unmarshal(data, &taskList); err != nil {
			return fmt.Errorf("failed to unmarshal TOML from %s: %w", s.filePath, err)
		}
	default:
		return fmt.Errorf("unsupported data format for loading: %s", s.format)
	}

	s.tasks = make(map[string]models.Task, len(taskList.Tasks))
	for _, task := range taskList.Tasks {
		s.tasks[task.ID] = task
	}
	return nil
}

// saveTasksToFileInternal writes tasks to file, then writes its checksum.
// Both writes go through temp files with atomic renames.
func (s *FileTaskStore) saveTasksToFileInternal() error {
	taskList := models.TaskList{
		Tasks:      make([]models.Task, 0, len(s.tasks)),
		TotalCount: len(s.tasks),
	}
	for _, task := range s.tasks {
		taskList.Tasks = append(taskList.Tasks, task)
	}

	var marshaledData []byte
	var err error

	switch s.format {
	case formatJSON:
		marshaledData, err = json.MarshalIndent(taskList, "", "  ")
	case formatYAML:
		marshaledData, err = yaml.Marshal(taskList)
	case formatTOML:
		buf := new(bytes.Buffer)
		if encodeErr := toml.NewEncoder(buf).Encode(taskList); encodeErr == nil {
			marshaledData = buf.Bytes()
		} else {
			err = fmt.Errorf("failed to marshal TOML: %w", encodeErr)
		}
	default:
		return fmt.Errorf("unsupported data format for saving: %s", s.format)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal tasks to %s: %w", s.format, err)
	}

	tempFilePath := s.filePath + ".tmp"
	checksumFilePath := s.filePath + checksumSuffix
	tempChecksumFilePath := checksumFilePath + ".tmp"

	defer func() { _ = os.Remove(tempFilePath) }()
	defer func() { _ = os.Remove(tempChecksumFilePath) }()

	if err := os.WriteFile(tempFilePath, marshaledData, 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary data file %s: %w", tempFilePath, err)
	}

	actualChecksum := calculateChecksum(marshaledData)
	if err := os.WriteFile(tempChecksumFilePath, []byte(actualChecksum), 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary checksum file %s: %w", tempChecksumFilePath, err)
	}

	if err := os.Rename(tempFilePath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temporary data file %s to %s: %w", tempFilePath, s.filePath, err)
	}
	if err := os.Rename(tempChecksumFilePath, checksumFilePath); err != nil {
		return fmt.Errorf("CRITICAL: data file %s updated, but failed to update checksum file %s: %w - store may be inconsistent", s.filePath, checksumFilePath, err)
	}

	return nil
}

// generateID creates a new universally unique identifier string.
func generateID() string {
	return uuid.NewString()
}

// materialize fills in the store-owned fields of a draft and clamps its
// position before validation.
func materialize(draft models.TaskDraft, now time.Time) (models.Task, error) {
	task := models.Task{
		ID:         generateID(),
		Title:      draft.Title,
		Impact:     models.Clamp(draft.Impact, 0, 100),
		Effort:     models.Clamp(draft.Effort, 0, 100),
		Urgency:    draft.Urgency,
		Duration:   draft.Duration,
		Tags:       draft.Tags,
		Completed:  draft.Completed,
		Category:   draft.Category,
		ClientName: draft.ClientName,
		TargetDate: draft.TargetDate,
		Recurrence: draft.Recurrence,
		CreatedAt:  now,
	}
	if task.Category == "" {
		task.Category = models.CategoryOwn
	}
	if task.Recurrence == "" {
		task.Recurrence = models.RecurrenceNone
	}
	if err := models.ValidateStruct(task); err != nil {
		return models.Task{}, fmt.Errorf("validation failed for new task: %w", err)
	}
	return task, nil
}

// CreateTask adds a new task to the store, assigning ID and CreatedAt.
func (s *FileTaskStore) CreateTask(draft models.TaskDraft) (models.Task, error) {
	if err := s.flk.Lock(); err != nil {
		return models.Task{}, fmt.Errorf("could not lock file for create: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	// Reload state from disk so we work against the latest version even
	// if another process wrote between our operations.
	if err := s.loadTasksFromFileInternal(); err != nil {
		return models.Task{}, fmt.Errorf("failed to reload tasks before create: %w", err)
	}

	task, err := materialize(draft, time.Now().UTC())
	if err != nil {
		return models.Task{}, err
	}
	s.tasks[task.ID] = task

	if err := s.saveTasksToFileInternal(); err != nil {
		// Best-effort rollback: reload the unchanged file.
		_ = s.loadTasksFromFileInternal()
		return models.Task{}, fmt.Errorf("failed to save new task: %w", err)
	}

	return task, nil
}

// CreateTasks adds a batch of drafts under a single lock and save,
// preserving input order in the returned slice. If any draft fails
// validation the whole batch is rejected.
func (s *FileTaskStore) CreateTasks(drafts []models.TaskDraft) ([]models.Task, error) {
	if len(drafts) == 0 {
		return []models.Task{}, nil
	}

	if err := s.flk.Lock(); err != nil {
		return nil, fmt.Errorf("could not lock file for bulk create: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadTasksFromFileInternal(); err != nil {
		return nil, fmt.Errorf("failed to reload tasks before bulk create: %w", err)
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
	for _, task := range created {
		s.tasks[task.ID] = task
	}

	if err := s.saveTasksToFileInternal(); err != nil {
		_ = s.loadTasksFromFileInternal()
		return nil, fmt.Errorf("failed to save bulk-created tasks: %w", err)
	}

	return created, nil
}

// GetTask retrieves a task by its unique identifier.
func (s *FileTaskStore) GetTask(id string) (models.Task, error) {
	if err := s.flk.Lock(); err != nil {
		return models.Task{}, fmt.Errorf("failed to acquire lock for GetTask: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadTasksFromFileInternal(); err != nil {
		return models.Task{}, fmt.Errorf("failed to load tasks for GetTask: %w", err)
	}

	task, ok := s.tasks[id]
	if !ok {
		return models.Task{}, fmt.Errorf("task with ID %s not found", id)
	}
	return task, nil
}

// UpdateTask modifies an existing task from a map of field updates keyed
// by JSON field name. Only the mutable fields are accepted.
func (s *FileTaskStore) UpdateTask(id string, updates map[string]interface{}) (models.Task, error) {
	if err := s.flk.Lock(); err != nil {
		return models.Task{}, fmt.Errorf("could not lock file for update: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadTasksFromFileInternal(); err != nil {
		return models.Task{}, fmt.Errorf("failed to reload tasks before update: %w", err)
	}

	task, exists := s.tasks[id]
	if !exists {
		return models.Task{}, fmt.Errorf("task with ID '%s' not found", id)
	}
	originalTask := task

	if err := applyTaskUpdates(&task, updates); err != nil {
		return models.Task{}, err
	}

	if err := models.ValidateStruct(task); err != nil {
		return models.Task{}, fmt.Errorf("validation failed for updated task: %w", err)
	}

	s.tasks[id] = task

	if err := s.saveTasksToFileInternal(); err != nil {
		s.tasks[id] = originalTask
		return models.Task{}, fmt.Errorf("failed to save updated task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task from the store by its unique identifier.
func (s *FileTaskStore) DeleteTask(id string) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("could not lock file for delete: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadTasksFromFileInternal(); err != nil {
		return fmt.Errorf("failed to reload tasks before delete: %w", err)
	}

	if _, exists := s.tasks[id]; !exists {
		return fmt.Errorf("task with ID '%s' not found", id)
	}

	delete(s.tasks, id)

	if err := s.saveTasksToFileInternal(); err != nil {
		_ = s.loadTasksFromFileInternal()
		return fmt.Errorf("failed to save after deleting task: %w", err)
	}

	return nil
}

// DeleteAllTasks removes all tasks from the store. Destructive; the
// command layer confirms with the user first.
func (s *FileTaskStore) DeleteAllTasks() error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("failed to acquire write lock for DeleteAllTasks: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	s.tasks = make(map[string]models.Task)

	if err := s.saveTasksToFileInternal(); err != nil {
		return fmt.Errorf("failed to clear data file by saving empty task list: %w", err)
	}
	return nil
}

// MarkTaskDone marks a task as completed.
func (s *FileTaskStore) MarkTaskDone(id string) (models.Task, error) {
	if err := s.flk.Lock(); err != nil {
		return models.Task{}, fmt.Errorf("failed to acquire write lock for MarkTaskDone: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadTasksFromFileInternal(); err != nil {
		return models.Task{}, fmt.Errorf("failed to load tasks before marking done: %w", err)
	}

	task, ok := s.tasks[id]
	if !ok {
		return models.Task{}, fmt.Errorf("task with ID %s not found to mark as done", id)
	}

	originalTask := task
	task.Completed = true
	s.tasks[id] = task

	if err := s.saveTasksToFileInternal(); err != nil {
		s.tasks[id] = originalTask
		return models.Task{}, fmt.Errorf("failed to save task %s after marking done: %w", id, err)
	}

	return task, nil
}

// ListTasks retrieves a list of tasks, optionally filtered and sorted.
func (s *FileTaskStore) ListTasks(filterFn func(models.Task) bool, sortFn func([]models.Task) []models.Task) ([]models.Task, error) {
	if err := s.flk.Lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire lock for ListTasks: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadTasksFromFileInternal(); err != nil {
		return nil, fmt.Errorf("failed to load tasks for ListTasks: %w", err)
	}

	if len(s.tasks) == 0 {
		return []models.Task{}, nil
	}

	taskList := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		taskList = append(taskList, task)
	}

	// The in-memory map has no order; creation time is the natural one.
	sort.Slice(taskList, func(i, j int) bool {
		if taskList[i].CreatedAt.Equal(taskList[j].CreatedAt) {
			return taskList[i].ID < taskList[j].ID
		}
		return taskList[i].CreatedAt.Before(taskList[j].CreatedAt)
	})

	if filterFn != nil {
		filteredTasks := make([]models.Task, 0)
		for _, task := range taskList {
			if filterFn(task) {
				filteredTasks = append(filteredTasks, task)
			}
		}
		taskList = filteredTasks
	}

	if sortFn != nil {
		sortFn(taskList) // sorts in place
	}

	return taskList, nil
}

// Backup creates a backup of the current task data at destinationPath.
func (s *FileTaskStore) Backup(destinationPath string) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock for backup: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	input, err := os.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read source file %s for backup: %w", s.filePath, err)
	}

	if err = os.WriteFile(destinationPath, input, 0o644); err != nil {
		return fmt.Errorf("failed to write backup file to %s: %w", destinationPath, err)
	}
	return nil
}

// Restore replaces the current task data with data from sourcePath. The
// stale checksum file is dropped; the next save regenerates it.
func (s *FileTaskStore) Restore(sourcePath string) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock for restore: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	sourceData, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read source backup file %s: %w", sourcePath, err)
	}

	tempFilePath := s.filePath + ".tmp_restore"
	defer func() { _ = os.Remove(tempFilePath) }()

	if err = os.WriteFile(tempFilePath, sourceData, 0o644); err != nil {
		return fmt.Errorf("failed to write restored data to temporary file %s: %w", tempFilePath, err)
	}

	if err = os.Rename(tempFilePath, s.filePath); err != nil {
		return fmt.Errorf("failed to atomically replace file %s with restored data from %s: %w", s.filePath, sourcePath, err)
	}

	checksumFilePath := s.filePath + checksumSuffix
	_ = os.Remove(checksumFilePath) // best effort

	return s.loadTasksFromFileInternal()
}

// Close releases the file lock. flock.Unlock is idempotent.
func (s *FileTaskStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}
