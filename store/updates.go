package store

import (
	"fmt"
	"time"

	"github.com/chaosmap-io/chaosmap/models"
)

// applyTaskUpdates applies a partial update map (keyed by JSON field
// name) to a task. Shared by the file and sqlite stores so both accept
// the same update vocabulary. ID and CreatedAt are not updatable.
// Numeric values arrive as float64 when the map came through JSON, so
// both int and float64 are accepted where it matters.
func applyTaskUpdates(task *models.Task, updates map[string]interface{}) error {
	for key, value := range updates {
		switch key {
		case "title":
			s, ok := value.(string)
			if !ok || s == "" {
				return fmt.Errorf("invalid value for title: %v", value)
			}
			task.Title = s
		case "impact":
			f, err := toFloat(value)
			if err != nil {
				return fmt.Errorf("invalid value for impact: %w", err)
			}
			task.Impact = models.Clamp(f, 0, 100)
		case "effort":
			f, err := toFloat(value)
			if err != nil {
				return fmt.Errorf("invalid value for effort: %w", err)
			}
			task.Effort = models.Clamp(f, 0, 100)
		case "urgency":
			b, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid value for urgency: %v", value)
			}
			task.Urgency = b
		case "completed":
			b, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid value for completed: %v", value)
			}
			task.Completed = b
		case "duration":
			if value == nil {
				task.Duration = nil
				break
			}
			f, err := toFloat(value)
			if err != nil {
				return fmt.Errorf("invalid value for duration: %w", err)
			}
			if f < 0 {
				f = 0
			}
			mins := int(f)
			task.Duration = &mins
		case "tags":
			tags, err := toStringSlice(value)
			if err != nil {
				return fmt.Errorf("invalid value for tags: %w", err)
			}
			task.Tags = tags
		case "category":
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value for category: %v", value)
			}
			task.Category = models.Category(s)
		case "clientName":
			if value == nil {
				task.ClientName = nil
				break
			}
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value for clientName: %v", value)
			}
			task.ClientName = &s
		case "targetDate":
			if value == nil {
				task.TargetDate = nil
				break
			}
			switch v := value.(type) {
			case time.Time:
				task.TargetDate = &v
			case string:
				parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
				if err != nil {
					return fmt.Errorf("invalid value for targetDate: %w", err)
				}
				task.TargetDate = &parsed
			default:
				return fmt.Errorf("invalid value for targetDate: %v", value)
			}
		case "recurrence":
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value for recurrence: %v", value)
			}
			task.Recurrence = models.Recurrence(s)
		default:
			return fmt.Errorf("field '%s' is not updatable", key)
		}
	}
	return nil
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", value)
	}
}

func toStringSlice(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a string element, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a string slice, got %T", value)
	}
}
