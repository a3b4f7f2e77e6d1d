package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/smarttask/smarttask-api/internal/domain"
	"github.com/smarttask/smarttask-api/internal/domain/schedule"
	"github.com/smarttask/smarttask-api/internal/store"
)

// TaskInput carries the caller-supplied fields for task creation.
// Priority and Status are optional: an empty Priority selects the due-date
// heuristic, an empty Status defaults to pending.
type TaskInput struct {
	Title       string
	Description string
	DueDate     *domain.Date
	Priority    domain.Priority
	Status      domain.Status
	IsImportant bool
	Category    string
}

// TaskPatch carries a partial update. Nil fields are left untouched.
// ClearDueDate removes the due date; it wins over DueDate.
type TaskPatch struct {
	Title        *string
	Description  *string
	DueDate      *domain.Date
	ClearDueDate bool
	Priority     *domain.Priority
	Status       *domain.Status
	IsImportant  *bool
	Category     *string
}

// touchesDueDate reports whether the patch modifies the due date.
func (p TaskPatch) touchesDueDate() bool {
	return p.DueDate != nil || p.ClearDueDate
}

// TaskService implements the task mutations and the notification trigger
// engine fired after successful writes. All date arithmetic goes through
// an injectable clock so trigger behavior can be tested on fixed days.
type TaskService struct {
	tasks    store.TaskStore
	users    store.UserStore
	notifier Notifier
	logger   *slog.Logger
	today    func() domain.Date
}

// NewTaskService creates a TaskService. If logger is nil, the default
// logger is used.
func NewTaskService(tasks store.TaskStore, users store.UserStore, notifier Notifier, log *slog.Logger) *TaskService {
	if log == nil {
		log = slog.Default()
	}
	return &TaskService{
		tasks:    tasks,
		users:    users,
		notifier: notifier,
		logger:   log.With(slog.String("component", "task_service")),
		today:    domain.Today,
	}
}

// Create validates and stores a new task owned by the requester, deriving
// the priority from the due date when the caller did not supply one, then
// evaluates the notification triggers against the new task.
func (s *TaskService) Create(ctx context.Context, requester *domain.User, input TaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(requester.ID, input.Title)
	if err != nil {
		return nil, err
	}

	task.Description = input.Description
	task.DueDate = input.DueDate
	task.IsImportant = input.IsImportant
	task.Category = strings.TrimSpace(input.Category)

	if input.Status != "" {
		task.Status = input.Status
	}
	if input.Priority != "" {
		task.Priority = input.Priority
	} else {
		task.Priority = schedule.SuggestPriority(task.DueDate, s.today())
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	// Create evaluates the due-tomorrow trigger unconditionally.
	s.maybeNotifyDueTomorrow(ctx, task)

	return task, nil
}

// Get returns a task visible to the requester. A task owned by someone
// else reads as not found, so existence never leaks across owners.
func (s *TaskService) Get(ctx context.Context, requester *domain.User, id uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.OwnerID != requester.ID && !requester.IsAdmin {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// List returns the requester's filtered, ordered task view. Privileged
// requesters see all tasks.
func (s *TaskService) List(ctx context.Context, requester *domain.User, params store.TaskListParams) ([]*domain.Task, error) {
	return s.tasks.List(ctx, store.BuildTaskQuery(requester, params))
}

// Update applies a partial update to a task visible to the requester.
// It carries the pre-update snapshot into the trigger evaluation, which is
// what makes the completion trigger edge-triggered.
func (s *TaskService) Update(ctx context.Context, requester *domain.User, id uuid.UUID, patch TaskPatch) (*domain.Task, error) {
	task, err := s.Get(ctx, requester, id)
	if err != nil {
		return nil, err
	}
	prev := *task

	if patch.Title != nil {
		task.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.ClearDueDate {
		task.DueDate = nil
	} else if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.IsImportant != nil {
		task.IsImportant = *patch.IsImportant
	}
	if patch.Category != nil {
		task.Category = strings.TrimSpace(*patch.Category)
	}

	// An explicit priority always wins; otherwise a changed due date
	// re-runs the heuristic.
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	} else if patch.touchesDueDate() {
		task.Priority = schedule.SuggestPriority(task.DueDate, s.today())
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	task.Touch()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.fireUpdateTriggers(ctx, &prev, task)

	return task, nil
}

// Delete removes a task visible to the requester.
func (s *TaskService) Delete(ctx context.Context, requester *domain.User, id uuid.UUID) error {
	task, err := s.Get(ctx, requester, id)
	if err != nil {
		return err
	}
	return s.tasks.Delete(ctx, task.ID)
}

// fireUpdateTriggers inspects the before/after state of an update and
// dispatches the matching notifications. The due-tomorrow trigger is only
// re-evaluated when one of its inputs (due date, priority, status)
// changed, so unrelated field edits never re-notify.
func (s *TaskService) fireUpdateTriggers(ctx context.Context, prev, next *domain.Task) {
	if !datesEqual(prev.DueDate, next.DueDate) || prev.Priority != next.Priority || prev.Status != next.Status {
		s.maybeNotifyDueTomorrow(ctx, next)
	}

	// Completion is edge-triggered: repeated updates while already
	// completed never re-fire.
	if prev.Status != domain.StatusCompleted && next.Status == domain.StatusCompleted {
		s.notifyCompleted(ctx, next)
	}
}

func datesEqual(a, b *domain.Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
