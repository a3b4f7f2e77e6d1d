package service

import (
	"context"
	"fmt"

	"github.com/smarttask/smarttask-api/internal/domain"
	"github.com/smarttask/smarttask-api/internal/platform/logger"
)

// Notification subjects for the transactional triggers.
const (
	subjectDueTomorrow = "[SmartTask] High Priority Task Due Tomorrow"
	subjectCompleted   = "[SmartTask] Task Completed"
)

// dueTomorrowAlert reports whether a task's current state satisfies the
// high-priority-due-tomorrow trigger: high priority, still active, and due
// exactly one day after today.
func dueTomorrowAlert(t *domain.Task, today domain.Date) bool {
	return t.Priority == domain.PriorityHigh &&
		t.Status.Active() &&
		t.DueOn(today.AddDays(1))
}

// maybeNotifyDueTomorrow evaluates the due-tomorrow trigger against the
// task's current state and dispatches the notification when it fires.
// Delivery is best-effort: an unset owner address is a no-op and transport
// failures are logged, never surfaced to the mutating caller.
func (s *TaskService) maybeNotifyDueTomorrow(ctx context.Context, task *domain.Task) {
	today := s.today()
	if !dueTomorrowAlert(task, today) {
		return
	}

	addr, ok := s.ownerAddress(ctx, task)
	if !ok {
		return
	}

	tomorrow := today.AddDays(1)
	body := fmt.Sprintf(
		"Hello %s,\n\nHigh priority reminder: this task is due tomorrow (%s).\nRecommended: complete it today.\n\n- %s\n\nThanks,\nSmartTask Team",
		addr, tomorrow, task.Title,
	)
	s.send(ctx, addr, subjectDueTomorrow, body, task)
}

// notifyCompleted dispatches the completion notification. Same best-effort
// delivery policy as the due-tomorrow trigger.
func (s *TaskService) notifyCompleted(ctx context.Context, task *domain.Task) {
	addr, ok := s.ownerAddress(ctx, task)
	if !ok {
		return
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nYour task is completed:\n- %s\n\nThanks,\nSmartTask Team",
		addr, task.Title,
	)
	s.send(ctx, addr, subjectCompleted, body, task)
}

// ownerAddress resolves the task owner's contact address. A missing owner
// or a blank address disables notification without error.
func (s *TaskService) ownerAddress(ctx context.Context, task *domain.Task) (string, bool) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	owner, err := s.users.GetByID(ctx, task.OwnerID)
	if err != nil {
		log.Warn("could not resolve task owner for notification",
			"error", err,
			"task_id", task.ID,
			"owner_id", task.OwnerID)
		return "", false
	}

	addr := owner.ContactAddress()
	if addr == "" {
		return "", false
	}
	return addr, true
}

// send dispatches a single notification, swallowing transport failures.
func (s *TaskService) send(ctx context.Context, addr, subject, body string, task *domain.Task) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, addr, subject, body); err != nil {
		log.Warn("notification dispatch failed",
			"error", err,
			"task_id", task.ID,
			"subject", subject)
		return
	}
	log.Debug("notification dispatched",
		"task_id", task.ID,
		"subject", subject)
}
