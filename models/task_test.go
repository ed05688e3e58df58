package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func TestTask_ValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{
			name: "valid own task",
			task: Task{
				ID:         uuid.New().String(),
				Title:      "Write proposal",
				Impact:     60,
				Effort:     40,
				Category:   CategoryOwn,
				Recurrence: RecurrenceNone,
				CreatedAt:  time.Now(),
			},
			wantErr: false,
		},
		{
			name: "valid client task",
			task: Task{
				ID:         uuid.New().String(),
				Title:      "Send invoice",
				Impact:     80,
				Effort:     10,
				Category:   CategoryClient,
				ClientName: strPtr("Acme"),
				Recurrence: RecurrenceMonthly,
				CreatedAt:  time.Now(),
			},
			wantErr: false,
		},
		{
			name: "empty title",
			task: Task{
				ID:         uuid.New().String(),
				Title:      "",
				Category:   CategoryOwn,
				Recurrence: RecurrenceNone,
				CreatedAt:  time.Now(),
			},
			wantErr: true,
		},
		{
			name: "client task without client name",
			task: Task{
				ID:         uuid.New().String(),
				Title:      "Send invoice",
				Category:   CategoryClient,
				Recurrence: RecurrenceNone,
				CreatedAt:  time.Now(),
			},
			wantErr: true,
		},
		{
			name: "own task with client name",
			task: Task{
				ID:         uuid.New().String(),
				Title:      "Groceries",
				Category:   CategoryOwn,
				ClientName: strPtr("Acme"),
				Recurrence: RecurrenceNone,
				CreatedAt:  time.Now(),
			},
			wantErr: true,
		},
		{
			name: "impact out of range",
			task: Task{
				ID:         uuid.New().String(),
				Title:      "Overdriven",
				Impact:     120,
				Category:   CategoryOwn,
				Recurrence: RecurrenceNone,
				CreatedAt:  time.Now(),
			},
			wantErr: true,
		},
		{
			name: "invalid recurrence",
			task: Task{
				ID:         uuid.New().String(),
				Title:      "Weird repeat",
				Category:   CategoryOwn,
				Recurrence: "fortnightly",
				CreatedAt:  time.Now(),
			},
			wantErr: true,
		},
		{
			name: "invalid uuid",
			task: Task{
				ID:         "not-a-uuid",
				Title:      "Bad id",
				Category:   CategoryOwn,
				Recurrence: RecurrenceNone,
				CreatedAt:  time.Now(),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.task)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTaskDraft_Validate(t *testing.T) {
	draft := NewDraft("Prepare quarterly review")
	if err := ValidateStruct(draft); err != nil {
		t.Errorf("fresh draft should validate: %v", err)
	}

	draft.Tags = []string{"dev", "dev"}
	if err := ValidateStruct(draft); err == nil {
		t.Error("duplicate tags should fail validation")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{-5, 0, 100, 0},
		{150, 0, 100, 100},
		{42.5, 0, 100, 42.5},
		{0, 0, 100, 0},
		{100, 0, 100, 100},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestTask_JSONRoundTrip(t *testing.T) {
	d := 90
	anchor := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	task := Task{
		ID:         uuid.New().String(),
		Title:      "Ship release",
		Impact:     72.25,
		Effort:     33.5,
		Urgency:    true,
		Duration:   &d,
		Tags:       []string{"release", "ops"},
		Category:   CategoryClient,
		ClientName: strPtr("Globex"),
		TargetDate: &anchor,
		Recurrence: RecurrenceWeekly,
		CreatedAt:  time.Now().UTC(),
	}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Task
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Title != task.Title || back.Impact != task.Impact || *back.Duration != d {
		t.Errorf("round trip mismatch: %+v", back)
	}
	if back.ClientName == nil || *back.ClientName != "Globex" {
		t.Errorf("client name lost in round trip")
	}
	if back.TargetDate == nil || !back.TargetDate.Equal(anchor) {
		t.Errorf("target date lost in round trip")
	}
}
