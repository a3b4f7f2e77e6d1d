package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/smarttask/smarttask-api/internal/domain"
	"github.com/smarttask/smarttask-api/internal/store"
)

// dueSoonWindowDays is the look-ahead window for the "due soon" counts.
const dueSoonWindowDays = 7

// ReminderDates are the reference dates a reminders report was computed
// against.
type ReminderDates struct {
	Today    domain.Date `json:"today"`
	Tomorrow domain.Date `json:"tomorrow"`
}

// ReminderCounts summarizes the reminder buckets.
type ReminderCounts struct {
	Overdue     int `json:"overdue"`
	DueTomorrow int `json:"due_tomorrow"`
}

// RemindersReport partitions the requester's active tasks into overdue and
// due-tomorrow buckets with full task payloads.
type RemindersReport struct {
	Dates       ReminderDates  `json:"reference_dates"`
	Counts      ReminderCounts `json:"counts"`
	Overdue     []*domain.Task `json:"overdue"`
	DueTomorrow []*domain.Task `json:"due_tomorrow"`
}

// StatusCounts totals a task set by status.
type StatusCounts struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
}

// ReminderWindowCounts are the reminder-related counts inside an insights
// report.
type ReminderWindowCounts struct {
	Overdue     int `json:"overdue"`
	DueTomorrow int `json:"due_tomorrow"`
	DueSoon7d   int `json:"due_soon_7_days"`
}

// InsightsReport combines status totals, progress, reminder counts and the
// generated suggestion strings.
type InsightsReport struct {
	Counts      StatusCounts         `json:"counts"`
	ProgressPct int                  `json:"progress_pct"`
	Reminders   ReminderWindowCounts `json:"reminders"`
	Suggestions []string             `json:"suggestions"`
}

// AnalyticsReport breaks a task set down by status and priority. Every
// enum value is present in the breakdowns, with 0 as the default.
type AnalyticsReport struct {
	Total          int                     `json:"total"`
	ByStatus       map[domain.Status]int   `json:"by_status"`
	ByPriority     map[domain.Priority]int `json:"by_priority"`
	OverduePending int                     `json:"overdue_pending"`
	DueSoonPending int                     `json:"due_soon_pending"`
}

// BuildReminders computes the reminders report for a task set relative to
// today. Overdue tasks are ordered by ascending due date, then important
// first, then newest first; due-tomorrow tasks by important first, then
// newest first. Only active tasks qualify.
func BuildReminders(tasks []*domain.Task, today domain.Date) RemindersReport {
	tomorrow := today.AddDays(1)

	var overdue, dueTomorrow []*domain.Task
	for _, t := range tasks {
		switch {
		case t.OverdueAt(today):
			overdue = append(overdue, t)
		case t.Active() && t.DueOn(tomorrow):
			dueTomorrow = append(dueTomorrow, t)
		}
	}

	sort.SliceStable(overdue, func(i, j int) bool {
		a, b := overdue[i], overdue[j]
		if !a.DueDate.Equal(*b.DueDate) {
			return a.DueDate.Before(*b.DueDate)
		}
		return urgencyLess(a, b)
	})
	sort.SliceStable(dueTomorrow, func(i, j int) bool {
		return urgencyLess(dueTomorrow[i], dueTomorrow[j])
	})

	if overdue == nil {
		overdue = []*domain.Task{}
	}
	if dueTomorrow == nil {
		dueTomorrow = []*domain.Task{}
	}

	return RemindersReport{
		Dates:       ReminderDates{Today: today, Tomorrow: tomorrow},
		Counts:      ReminderCounts{Overdue: len(overdue), DueTomorrow: len(dueTomorrow)},
		Overdue:     overdue,
		DueTomorrow: dueTomorrow,
	}
}

// urgencyLess is the secondary reminder order: important first, newest first.
func urgencyLess(a, b *domain.Task) bool {
	if a.IsImportant != b.IsImportant {
		return a.IsImportant
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// BuildInsights computes the insights report for a task set relative to
// today. Suggestions are generated in a fixed priority order; the
// high-priority-focus suggestion is suppressed while anything is overdue,
// and the congratulations only appear when a non-empty set is fully
// completed.
func BuildInsights(tasks []*domain.Task, today domain.Date) InsightsReport {
	tomorrow := today.AddDays(1)
	horizon := today.AddDays(dueSoonWindowDays)

	var counts StatusCounts
	var overdue, dueTomorrow, dueSoon, highPriorityActive int

	for _, t := range tasks {
		counts.Total++
		switch t.Status {
		case domain.StatusCompleted:
			counts.Completed++
		case domain.StatusPending:
			counts.Pending++
		case domain.StatusInProgress:
			counts.InProgress++
		}

		if !t.Active() {
			continue
		}
		if t.Priority == domain.PriorityHigh {
			highPriorityActive++
		}
		if t.DueDate == nil {
			continue
		}
		if t.DueDate.Before(today) {
			overdue++
		}
		if t.DueDate.Equal(tomorrow) {
			dueTomorrow++
		}
		if !t.DueDate.Before(today) && !t.DueDate.After(horizon) {
			dueSoon++
		}
	}

	// Halfway values round to even, so 1 of 8 completed reads as 12%.
	progressPct := 0
	if counts.Total > 0 {
		progressPct = int(math.RoundToEven(float64(counts.Completed) / float64(counts.Total) * 100))
	}

	suggestions := []string{}
	if overdue > 0 {
		suggestions = append(suggestions, fmt.Sprintf("You have %d overdue tasks. Complete them first.", overdue))
	}
	if dueTomorrow > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Reminder: %d tasks are due tomorrow.", dueTomorrow))
	}
	if overdue == 0 && highPriorityActive > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Today's focus: %d high priority tasks.", highPriorityActive))
	}
	if counts.Total > 0 && counts.Completed == counts.Total {
		suggestions = append(suggestions, "Great job! All tasks are completed.")
	}

	return InsightsReport{
		Counts:      counts,
		ProgressPct: progressPct,
		Reminders: ReminderWindowCounts{
			Overdue:     overdue,
			DueTomorrow: dueTomorrow,
			DueSoon7d:   dueSoon,
		},
		Suggestions: suggestions,
	}
}

// BuildAnalytics computes the analytics report for a task set relative to
// today. The by-status and by-priority maps always contain every enum key.
func BuildAnalytics(tasks []*domain.Task, today domain.Date) AnalyticsReport {
	horizon := today.AddDays(dueSoonWindowDays)

	byStatus := make(map[domain.Status]int, len(domain.Statuses))
	for _, s := range domain.Statuses {
		byStatus[s] = 0
	}
	byPriority := make(map[domain.Priority]int, len(domain.Priorities))
	for _, p := range domain.Priorities {
		byPriority[p] = 0
	}

	var overduePending, dueSoonPending int
	for _, t := range tasks {
		byStatus[t.Status]++
		byPriority[t.Priority]++

		if !t.Active() || t.DueDate == nil {
			continue
		}
		if t.DueDate.Before(today) {
			overduePending++
		}
		if !t.DueDate.Before(today) && !t.DueDate.After(horizon) {
			dueSoonPending++
		}
	}

	return AnalyticsReport{
		Total:          len(tasks),
		ByStatus:       byStatus,
		ByPriority:     byPriority,
		OverduePending: overduePending,
		DueSoonPending: dueSoonPending,
	}
}

// InsightService serves the read-only aggregate views. Reports are always
// scoped to the requester's own tasks and computed at request time; there
// is no caching and no persisted rollup.
type InsightService struct {
	tasks  store.TaskStore
	logger *slog.Logger
	today  func() domain.Date
}

// NewInsightService creates an InsightService.
func NewInsightService(tasks store.TaskStore, log *slog.Logger) *InsightService {
	if log == nil {
		log = slog.Default()
	}
	return &InsightService{
		tasks:  tasks,
		logger: log.With(slog.String("component", "insight_service")),
		today:  domain.Today,
	}
}

// Reminders returns the requester's reminders report.
func (s *InsightService) Reminders(ctx context.Context, requester *domain.User) (RemindersReport, error) {
	tasks, err := s.tasks.List(ctx, store.OwnerQuery(requester.ID))
	if err != nil {
		return RemindersReport{}, err
	}
	return BuildReminders(tasks, s.today()), nil
}

// Insights returns the requester's insights report.
func (s *InsightService) Insights(ctx context.Context, requester *domain.User) (InsightsReport, error) {
	tasks, err := s.tasks.List(ctx, store.OwnerQuery(requester.ID))
	if err != nil {
		return InsightsReport{}, err
	}
	return BuildInsights(tasks, s.today()), nil
}

// Analytics returns the requester's analytics report.
func (s *InsightService) Analytics(ctx context.Context, requester *domain.User) (AnalyticsReport, error) {
	tasks, err := s.tasks.List(ctx, store.OwnerQuery(requester.ID))
	if err != nil {
		return AnalyticsReport{}, err
	}
	return BuildAnalytics(tasks, s.today()), nil
}
