// Package schedule contains the pure scheduling heuristics applied to
// tasks. The heuristics have no side effects and take the reference date
// explicitly so they can be tested with fixed calendars.
package schedule

import "github.com/smarttask/smarttask-api/internal/domain"

// Thresholds for the due-date heuristic, in days from today.
const (
	highPriorityWindowDays   = 1
	mediumPriorityWindowDays = 3
)

// SuggestPriority derives a priority from how soon a task is due, relative
// to the given reference date:
//
//	no due date            -> medium
//	due within 1 day       -> high (includes today, tomorrow and overdue)
//	due within 3 days      -> medium
//	due later              -> low
//
// It is applied only when the caller did not explicitly supply a priority;
// an explicit value always wins.
func SuggestPriority(due *domain.Date, today domain.Date) domain.Priority {
	if due == nil {
		return domain.PriorityMedium
	}

	delta := today.DaysUntil(*due)
	switch {
	case delta <= highPriorityWindowDays:
		return domain.PriorityHigh
	case delta <= mediumPriorityWindowDays:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}
