package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority represents the urgency level of a task.
type Priority string

// Possible priority values.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority value in display order. Aggregation
// breakdowns iterate this slice so that every key is always present in
// the output.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is one of the enumerated priority values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Status represents the lifecycle state of a task.
type Status string

// Possible status values.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status value in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the enumerated status values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Active reports whether s counts toward overdue/due-soon computations.
// Completed tasks are excluded everywhere reminders are concerned.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusInProgress
}

// Task-specific validation errors.
var (
	ErrTaskIDEmpty      = errors.New("task ID cannot be empty")
	ErrTaskOwnerIDEmpty = errors.New("task owner ID cannot be empty")
	ErrTaskTitleEmpty   = errors.New("task title cannot be empty")
	ErrInvalidPriority  = errors.New("invalid task priority")
	ErrInvalidStatus    = errors.New("invalid task status")
)

// Task is the sole domain entity: a user-owned to-do item with a due date,
// priority, status and free-text category.
type Task struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueDate     *Date     `json:"due_date,omitempty"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	IsImportant bool      `json:"is_important"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a Task owned by ownerID with sensible defaults: status
// pending, priority medium unless specified by the caller. The title is
// trimmed before validation.
func NewTask(ownerID uuid.UUID, title string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     strings.TrimSpace(title),
		Priority:  PriorityMedium,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks the task invariants: non-empty trimmed title, valid
// enum values, and a non-nil owner.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}
	if t.OwnerID == uuid.Nil {
		return ErrTaskOwnerIDEmpty
	}
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "is required", ErrTaskTitleEmpty)
	}
	if !t.Priority.Valid() {
		return NewValidationError("priority", "must be one of high, medium, low", ErrInvalidPriority)
	}
	if !t.Status.Valid() {
		return NewValidationError("status", "must be one of pending, in_progress, completed", ErrInvalidStatus)
	}
	return nil
}

// Active reports whether the task counts toward reminder computations.
func (t *Task) Active() bool {
	return t.Status.Active()
}

// DueOn reports whether the task has a due date equal to the given date.
func (t *Task) DueOn(date Date) bool {
	return t.DueDate != nil && t.DueDate.Equal(date)
}

// OverdueAt reports whether the task is active with a due date strictly
// before the given date.
func (t *Task) OverdueAt(today Date) bool {
	return t.Active() && t.DueDate != nil && t.DueDate.Before(today)
}

// Touch updates the UpdatedAt timestamp.
func (t *Task) Touch() {
	t.UpdatedAt = time.Now().UTC()
}

// DefaultLess implements the default listing order: important tasks
// first, then grouped by the status text ascending (completed,
// in_progress, pending), then soonest due date (tasks without a due date
// last), ties broken by newest first. The status group order is the raw
// text sorted ascending, matching the database ordering of the column.
func DefaultLess(a, b *Task) bool {
	if a.IsImportant != b.IsImportant {
		return a.IsImportant
	}
	if a.Status != b.Status {
		return a.Status < b.Status
	}
	if c := compareDueDates(a.DueDate, b.DueDate); c != 0 {
		return c < 0
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// compareDueDates orders due dates ascending with nil (no due date) last.
func compareDueDates(a, b *Date) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	}
	return 0
}
