package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttask/smarttask-api/internal/domain"
	"github.com/smarttask/smarttask-api/internal/mocks"
	"github.com/smarttask/smarttask-api/internal/store"
)

var testToday = domain.NewDate(2025, 6, 15)

type taskServiceFixture struct {
	svc      *TaskService
	tasks    *mocks.TaskStore
	users    *mocks.UserStore
	notifier *mocks.Notifier
	owner    *domain.User
}

func newTaskServiceFixture(t *testing.T) *taskServiceFixture {
	t.Helper()

	owner, err := domain.NewUser("owner@example.com", "password123")
	require.NoError(t, err)

	users := mocks.NewUserStore()
	users.Seed(owner)

	tasks := mocks.NewTaskStore()
	notifier := mocks.NewNotifier()

	svc := NewTaskService(tasks, users, notifier, nil)
	svc.today = func() domain.Date { return testToday }

	return &taskServiceFixture{
		svc:      svc,
		tasks:    tasks,
		users:    users,
		notifier: notifier,
		owner:    owner,
	}
}

func TestTaskServiceCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("derives priority from due date when omitted", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		due := testToday.AddDays(5)
		task, err := f.svc.Create(ctx, f.owner, TaskInput{Title: "plan sprint", DueDate: &due})
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityLow, task.Priority)

		due2 := testToday.AddDays(2)
		task2, err := f.svc.Create(ctx, f.owner, TaskInput{Title: "write notes", DueDate: &due2})
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityMedium, task2.Priority)
	})

	t.Run("explicit priority wins over the heuristic", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		due := testToday.AddDays(1)
		task, err := f.svc.Create(ctx, f.owner, TaskInput{
			Title:    "low stakes",
			DueDate:  &due,
			Priority: domain.PriorityLow,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityLow, task.Priority)
	})

	t.Run("high priority task due tomorrow notifies exactly once", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		due := testToday.AddDays(1)
		_, err := f.svc.Create(ctx, f.owner, TaskInput{Title: "ship release", DueDate: &due})
		require.NoError(t, err)

		sent := f.notifier.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "owner@example.com", sent[0].Recipient)
		assert.Equal(t, "[SmartTask] High Priority Task Due Tomorrow", sent[0].Subject)
		assert.Contains(t, sent[0].Body, "ship release")
	})

	t.Run("non-high priority due tomorrow stays silent", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		due := testToday.AddDays(1)
		_, err := f.svc.Create(ctx, f.owner, TaskInput{
			Title:    "water plants",
			DueDate:  &due,
			Priority: domain.PriorityLow,
		})
		require.NoError(t, err)
		assert.Empty(t, f.notifier.Sent())
	})

	t.Run("notifier failure does not fail the write", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		f.notifier.SendErr = errors.New("smtp down")

		due := testToday.AddDays(1)
		task, err := f.svc.Create(ctx, f.owner, TaskInput{Title: "ship release", DueDate: &due})
		require.NoError(t, err)

		stored, err := f.tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "ship release", stored.Title)
	})

	t.Run("rejects blank title", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)
		_, err := f.svc.Create(ctx, f.owner, TaskInput{Title: "  "})
		assert.ErrorIs(t, err, domain.ErrTaskTitleEmpty)
	})
}

func TestTaskServiceGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("foreign tasks read as not found", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		task, err := f.svc.Create(ctx, f.owner, TaskInput{Title: "mine"})
		require.NoError(t, err)

		stranger, err := domain.NewUser("stranger@example.com", "password123")
		require.NoError(t, err)

		_, err = f.svc.Get(ctx, stranger, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("admins can read any task", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		task, err := f.svc.Create(ctx, f.owner, TaskInput{Title: "mine"})
		require.NoError(t, err)

		admin, err := domain.NewUser("admin@example.com", "password123")
		require.NoError(t, err)
		admin.IsAdmin = true

		got, err := f.svc.Get(ctx, admin, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, got.ID)
	})
}

func TestTaskServiceUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	strPtr := func(s string) *string { return &s }

	t.Run("description-only edit never re-notifies", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		due := testToday.AddDays(1)
		task, err := f.svc.Create(ctx, f.owner, TaskInput{Title: "ship release", DueDate: &due})
		require.NoError(t, err)
		require.Len(t, f.notifier.Sent(), 1)

		_, err = f.svc.Update(ctx, f.owner, task.ID, TaskPatch{Description: strPtr("now with notes")})
		require.NoError(t, err)
		assert.Len(t, f.notifier.Sent(), 1)
	})

	t.Run("moving the due date to tomorrow fires the reminder", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		task, err := f.svc.Create(ctx, f.owner, TaskInput{Title: "ship release", Priority: domain.PriorityHigh})
		require.NoError(t, err)
		require.Empty(t, f.notifier.Sent())

		due := testToday.AddDays(1)
		updated, err := f.svc.Update(ctx, f.owner, task.ID, TaskPatch{DueDate: &due, Priority: &task.Priority})
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityHigh, updated.Priority)

		sent := f.notifier.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "[SmartTask] High Priority Task Due Tomorrow", sent[0].Subject)
	})

	t.Run("due date change re-runs the heuristic", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		due := testToday.AddDays(30)
		task, err := f.svc.Create(ctx, f.owner, TaskInput{Title: "someday", DueDate: &due})
		require.NoError(t, err)
		require.Equal(t, domain.PriorityLow, task.Priority)

		soon := testToday.AddDays(1)
		updated, err := f.svc.Update(ctx, f.owner, task.ID, TaskPatch{DueDate: &soon})
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityHigh, updated.Priority)
	})

	t.Run("clearing the due date falls back to medium", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		due := testToday.AddDays(1)
		task, err := f.svc.Create(ctx, f.owner, TaskInput{Title: "ship release", DueDate: &due})
		require.NoError(t, err)
		require.Equal(t, domain.PriorityHigh, task.Priority)

		updated, err := f.svc.Update(ctx, f.owner, task.ID, TaskPatch{ClearDueDate: true})
		require.NoError(t, err)
		assert.Nil(t, updated.DueDate)
		assert.Equal(t, domain.PriorityMedium, updated.Priority)
	})

	t.Run("completion notifies on the edge only", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		task, err := f.svc.Create(ctx, f.owner, TaskInput{Title: "finish draft"})
		require.NoError(t, err)

		completed := domain.StatusCompleted
		_, err = f.svc.Update(ctx, f.owner, task.ID, TaskPatch{Status: &completed})
		require.NoError(t, err)

		sent := f.notifier.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "[SmartTask] Task Completed", sent[0].Subject)

		// Re-saving an already completed task stays silent.
		_, err = f.svc.Update(ctx, f.owner, task.ID, TaskPatch{Status: &completed})
		require.NoError(t, err)
		assert.Len(t, f.notifier.Sent(), 1)
	})

	t.Run("foreign task update reads as not found", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		task, err := f.svc.Create(ctx, f.owner, TaskInput{Title: "mine"})
		require.NoError(t, err)

		stranger, err := domain.NewUser("stranger@example.com", "password123")
		require.NoError(t, err)

		_, err = f.svc.Update(ctx, stranger, task.ID, TaskPatch{Title: strPtr("hijacked")})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		unchanged, err := f.tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "mine", unchanged.Title)
	})
}

func TestTaskServiceDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("owner can delete", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		task, err := f.svc.Create(ctx, f.owner, TaskInput{Title: "throwaway"})
		require.NoError(t, err)

		require.NoError(t, f.svc.Delete(ctx, f.owner, task.ID))

		_, err = f.tasks.GetByID(ctx, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("foreign task delete reads as not found", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		task, err := f.svc.Create(ctx, f.owner, TaskInput{Title: "mine"})
		require.NoError(t, err)

		stranger, err := domain.NewUser("stranger@example.com", "password123")
		require.NoError(t, err)

		assert.ErrorIs(t, f.svc.Delete(ctx, stranger, task.ID), store.ErrTaskNotFound)
	})
}

func TestTaskServiceList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("bogus status filter yields an empty set", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		_, err := f.svc.Create(ctx, f.owner, TaskInput{Title: "a"})
		require.NoError(t, err)
		_, err = f.svc.Create(ctx, f.owner, TaskInput{Title: "b"})
		require.NoError(t, err)

		tasks, err := f.svc.List(ctx, f.owner, store.TaskListParams{Status: "bogus"})
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("lists only the requester's tasks", func(t *testing.T) {
		t.Parallel()
		f := newTaskServiceFixture(t)

		stranger, err := domain.NewUser("stranger@example.com", "password123")
		require.NoError(t, err)
		f.users.Seed(stranger)

		_, err = f.svc.Create(ctx, f.owner, TaskInput{Title: "mine"})
		require.NoError(t, err)
		_, err = f.svc.Create(ctx, stranger, TaskInput{Title: "theirs"})
		require.NoError(t, err)

		tasks, err := f.svc.List(ctx, f.owner, store.TaskListParams{})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "mine", tasks[0].Title)
	})
}
