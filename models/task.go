package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Recurrence represents how often a task repeats after its anchor date.
type Recurrence string

const (
	RecurrenceNone     Recurrence = "none"
	RecurrenceDaily    Recurrence = "daily"
	RecurrenceWeekdays Recurrence = "weekdays"
	RecurrenceWeekly   Recurrence = "weekly"
	RecurrenceMonthly  Recurrence = "monthly"
)

// Category separates personal work from client work.
type Category string

const (
	CategoryOwn    Category = "own"
	CategoryClient Category = "client"
)

// Task represents a unit of work placed on the priority map.
//
// Impact and Effort are percentages in [0,100]; Impact is projected
// value/ROI, Effort projected cost, and together they are the task's
// position on the map. ClientName must be set iff Category is "client".
// TargetDate, when present, anchors the recurrence rule; otherwise the
// calendar date of CreatedAt is the anchor.
type Task struct {
	ID         string     `json:"id" validate:"required,uuid4"`
	Title      string     `json:"title" validate:"required,min=1,max=255"`
	Impact     float64    `json:"impact" validate:"gte=0,lte=100"`
	Effort     float64    `json:"effort" validate:"gte=0,lte=100"`
	Urgency    bool       `json:"urgency"`
	Duration   *int       `json:"duration,omitempty" validate:"omitempty,gte=0"` // minutes
	Tags       []string   `json:"tags,omitempty" validate:"unique"`
	Completed  bool       `json:"completed"`
	Category   Category   `json:"category" validate:"required,oneof=own client"`
	ClientName *string    `json:"clientName,omitempty" validate:"required_if=Category client,excluded_unless=Category client"`
	TargetDate *time.Time `json:"targetDate,omitempty"`
	Recurrence Recurrence `json:"recurrence" validate:"required,oneof=none daily weekdays weekly monthly"`
	CreatedAt  time.Time  `json:"createdAt" validate:"required"`
}

// TaskDraft is an unpersisted task as produced by the chaos parser.
// The store assigns ID and CreatedAt on create.
type TaskDraft struct {
	Title      string     `json:"title" validate:"required,min=1,max=255"`
	Impact     float64    `json:"impact" validate:"gte=0,lte=100"`
	Effort     float64    `json:"effort" validate:"gte=0,lte=100"`
	Urgency    bool       `json:"urgency"`
	Duration   *int       `json:"duration,omitempty" validate:"omitempty,gte=0"`
	Tags       []string   `json:"tags,omitempty" validate:"unique"`
	Completed  bool       `json:"completed"`
	Category   Category   `json:"category" validate:"required,oneof=own client"`
	ClientName *string    `json:"clientName,omitempty" validate:"required_if=Category client,excluded_unless=Category client"`
	TargetDate *time.Time `json:"targetDate,omitempty"`
	Recurrence Recurrence `json:"recurrence" validate:"required,oneof=none daily weekdays weekly monthly"`
}

// TaskList represents a collection of tasks as persisted by the file store.
type TaskList struct {
	Tasks      []Task `json:"tasks" validate:"dive"`
	TotalCount int    `json:"totalCount"`
}

// NewDraft returns a draft with neutral defaults. The 50/50 position is
// always overwritten before a draft leaves the parser (explicit override,
// duration heuristic, or randomization).
func NewDraft(title string) TaskDraft {
	return TaskDraft{
		Title:      title,
		Impact:     50,
		Effort:     50,
		Category:   CategoryOwn,
		Recurrence: RecurrenceNone,
		Tags:       []string{},
	}
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		// Safeguard for tests running in isolation.
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}
