package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/smarttask/smarttask-api/internal/domain"
	"github.com/smarttask/smarttask-api/internal/store"
)

// subjectDigest is the subject line of the daily digest email.
const subjectDigest = "[SmartTask] Due Date Reminder"

// DigestOptions configure a digest sweep.
type DigestOptions struct {
	// IncludeOverdue adds an overdue section to each digest.
	IncludeOverdue bool

	// DryRun logs the would-be messages without dispatching them.
	DryRun bool
}

// DigestResult summarizes a digest sweep.
type DigestResult struct {
	Sent    int
	Skipped int
}

// DigestService implements the reminder digest batch job: one sweep over
// every active identity, one email per identity with qualifying tasks.
//
// The job assumes at most one instance runs at a time; concurrent runs
// would double-send digests. That is an operational constraint on the
// invoker, not something the service guards against.
type DigestService struct {
	users    store.UserStore
	tasks    store.TaskStore
	notifier Notifier
	logger   *slog.Logger
	today    func() domain.Date
}

// NewDigestService creates a DigestService.
func NewDigestService(users store.UserStore, tasks store.TaskStore, notifier Notifier, log *slog.Logger) *DigestService {
	if log == nil {
		log = slog.Default()
	}
	return &DigestService{
		users:    users,
		tasks:    tasks,
		notifier: notifier,
		logger:   log.With(slog.String("component", "digest_service")),
		today:    domain.Today,
	}
}

// Run executes one digest sweep. Users without a contact address or
// without qualifying tasks are skipped entirely; no empty digests are
// sent. Unlike the transactional triggers, dispatch failures are not
// swallowed: a failure aborts that identity's digest, the sweep continues,
// and the joined errors are returned so the operator sees them.
func (s *DigestService) Run(ctx context.Context, opts DigestOptions) (DigestResult, error) {
	today := s.today()
	tomorrow := today.AddDays(1)

	users, err := s.users.ListActive(ctx)
	if err != nil {
		return DigestResult{}, fmt.Errorf("failed to list active users: %w", err)
	}

	var result DigestResult
	var sendErrs []error

	for _, user := range users {
		addr := user.ContactAddress()
		if addr == "" {
			result.Skipped++
			continue
		}

		tasks, err := s.tasks.List(ctx, store.OwnerQuery(user.ID))
		if err != nil {
			return result, fmt.Errorf("failed to list tasks for user %s: %w", user.ID, err)
		}

		buckets := collectDigestBuckets(tasks, today, opts.IncludeOverdue)
		if buckets.empty() {
			result.Skipped++
			continue
		}

		message := buildDigestMessage(addr, buckets, today, tomorrow, opts.IncludeOverdue)

		if opts.DryRun {
			s.logger.Info("dry run: would send digest",
				"recipient", addr,
				"message", message)
			result.Sent++
			continue
		}

		if err := s.notifier.Send(ctx, addr, subjectDigest, message); err != nil {
			s.logger.Error("digest dispatch failed",
				"error", err,
				"recipient", addr)
			sendErrs = append(sendErrs, fmt.Errorf("digest for %s: %w", user.ID, err))
			continue
		}
		result.Sent++
	}

	s.logger.Info("digest sweep finished",
		"sent", result.Sent,
		"skipped", result.Skipped,
		"failed", len(sendErrs),
		"dry_run", opts.DryRun)

	return result, errors.Join(sendErrs...)
}

// digestBuckets are the per-user task partitions of a digest.
type digestBuckets struct {
	dueToday    []*domain.Task
	dueTomorrow []*domain.Task
	overdue     []*domain.Task
}

func (b digestBuckets) empty() bool {
	return len(b.dueToday) == 0 && len(b.dueTomorrow) == 0 && len(b.overdue) == 0
}

// collectDigestBuckets partitions a user's active tasks into the digest
// sections. Due-today and due-tomorrow are ordered important first then
// newest first; overdue by ascending due date then the same secondary
// order.
func collectDigestBuckets(tasks []*domain.Task, today domain.Date, includeOverdue bool) digestBuckets {
	tomorrow := today.AddDays(1)

	var b digestBuckets
	for _, t := range tasks {
		if !t.Active() {
			continue
		}
		switch {
		case t.DueOn(today):
			b.dueToday = append(b.dueToday, t)
		case t.DueOn(tomorrow):
			b.dueTomorrow = append(b.dueTomorrow, t)
		case includeOverdue && t.OverdueAt(today):
			b.overdue = append(b.overdue, t)
		}
	}

	sort.SliceStable(b.dueToday, func(i, j int) bool { return urgencyLess(b.dueToday[i], b.dueToday[j]) })
	sort.SliceStable(b.dueTomorrow, func(i, j int) bool { return urgencyLess(b.dueTomorrow[i], b.dueTomorrow[j]) })
	sort.SliceStable(b.overdue, func(i, j int) bool {
		a, c := b.overdue[i], b.overdue[j]
		if !a.DueDate.Equal(*c.DueDate) {
			return a.DueDate.Before(*c.DueDate)
		}
		return urgencyLess(a, c)
	})

	return b
}

// buildDigestMessage renders the digest body. HIGH-priority tasks due
// tomorrow get the "complete today" recommendation.
func buildDigestMessage(recipient string, b digestBuckets, today, tomorrow domain.Date, includeOverdue bool) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Hello %s,", recipient), "")

	if len(b.dueToday) > 0 {
		lines = append(lines, fmt.Sprintf("Due today (%s): %d task(s)", today, len(b.dueToday)))
		for _, t := range b.dueToday {
			lines = append(lines, fmt.Sprintf("- %s [priority: %s, status: %s]", t.Title, t.Priority, t.Status))
		}
		lines = append(lines, "")
	}

	if len(b.dueTomorrow) > 0 {
		lines = append(lines, fmt.Sprintf("Reminder: You have %d task(s) due tomorrow (%s).", len(b.dueTomorrow), tomorrow))
		for _, t := range b.dueTomorrow {
			if t.Priority == domain.PriorityHigh {
				lines = append(lines, fmt.Sprintf("- %s [HIGH priority] (Recommended: complete today)", t.Title))
			} else {
				lines = append(lines, fmt.Sprintf("- %s [priority: %s, status: %s]", t.Title, t.Priority, t.Status))
			}
		}
		lines = append(lines, "")
	}

	if includeOverdue && len(b.overdue) > 0 {
		lines = append(lines, fmt.Sprintf("Overdue: You have %d overdue task(s).", len(b.overdue)))
		for _, t := range b.overdue {
			lines = append(lines, fmt.Sprintf("- %s (due: %s) [priority: %s, status: %s]", t.Title, t.DueDate, t.Priority, t.Status))
		}
		lines = append(lines, "")
	}

	lines = append(lines, "Thanks,", "SmartTask Team")
	return strings.Join(lines, "\n")
}
