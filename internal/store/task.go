package store

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/smarttask/smarttask-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity wrapping the validation error if the task is
	// invalid, or if the owner does not exist (foreign key violation).
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID regardless of owner.
	// Ownership checks are the caller's responsibility.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns the tasks matching the query in the query's order.
	List(ctx context.Context, query TaskQuery) ([]*domain.Task, error)

	// Update persists a modified task. ID, OwnerID and CreatedAt are never
	// changed. Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task permanently.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// Allow-listed ordering parameter values. Anything else, including absence,
// falls back to the default order. The allow-list exists to prevent sorting
// by arbitrary fields.
const (
	OrderDueDateAsc    = "due_date"
	OrderDueDateDesc   = "-due_date"
	OrderCreatedAtAsc  = "created_at"
	OrderCreatedAtDesc = "-created_at"
)

// TaskListParams carries raw, untrusted filter/sort parameters from a
// listing request. All fields are optional.
type TaskListParams struct {
	Status    string
	Priority  string
	Category  string
	Important string
	Search    string
	Ordering  string
}

// TaskQuery is a composed, filtered, ordered view over the task set.
//
// Status and Priority are kept as raw strings on purpose: they are compared
// exactly, so an unrecognized value narrows the result to nothing rather
// than being silently ignored. Unrecognized Important and Ordering tokens,
// by contrast, drop the parameter. This asymmetry mirrors the observed
// behavior of the listing endpoint and is preserved deliberately.
type TaskQuery struct {
	// OwnerID scopes the query to a single owner. uuid.Nil means all tasks
	// and is only ever set for privileged requesters.
	OwnerID uuid.UUID

	Status    string
	Priority  string
	Category  string
	Important *bool
	Search    string

	// Ordering is either one of the allow-listed values or "" for the
	// default order. BuildTaskQuery guarantees this.
	Ordering string
}

// BuildTaskQuery composes the listing view for a requester. Privileged
// requesters see all tasks; everyone else sees only their own. This is a
// hard authorization boundary and the only place it is decided.
func BuildTaskQuery(requester *domain.User, p TaskListParams) TaskQuery {
	q := TaskQuery{
		Status:    p.Status,
		Priority:  p.Priority,
		Category:  p.Category,
		Important: parseImportant(p.Important),
		Search:    p.Search,
	}
	if !requester.IsAdmin {
		q.OwnerID = requester.ID
	}

	switch p.Ordering {
	case OrderDueDateAsc, OrderDueDateDesc, OrderCreatedAtAsc, OrderCreatedAtDesc:
		q.Ordering = p.Ordering
	}
	return q
}

// OwnerQuery returns a query for every task of a single owner in the
// default order. The aggregation endpoints and the digest job use it.
func OwnerQuery(ownerID uuid.UUID) TaskQuery {
	return TaskQuery{OwnerID: ownerID}
}

// parseImportant interprets the tri-state important filter: truthy tokens
// select important tasks, falsy tokens non-important tasks, and anything
// else drops the filter.
func parseImportant(raw string) *bool {
	v := true
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes":
		return &v
	case "0", "false", "no":
		v = false
		return &v
	}
	return nil
}

// Matches reports whether a task belongs to the query's result set. It is
// the reference semantics for the filters: the in-memory store applies it
// directly and the SQL store compiles the equivalent WHERE clause.
// Filters are commutative set intersections, so the evaluation order here
// carries no meaning.
func (q TaskQuery) Matches(t *domain.Task) bool {
	if q.OwnerID != uuid.Nil && t.OwnerID != q.OwnerID {
		return false
	}
	if q.Status != "" && string(t.Status) != q.Status {
		return false
	}
	if q.Priority != "" && string(t.Priority) != q.Priority {
		return false
	}
	if q.Category != "" && !strings.EqualFold(t.Category, q.Category) {
		return false
	}
	if q.Important != nil && t.IsImportant != *q.Important {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	return true
}

// Sort orders tasks in place according to the query's ordering.
func (q TaskQuery) Sort(tasks []*domain.Task) {
	less := q.less()
	sort.SliceStable(tasks, func(i, j int) bool {
		return less(tasks[i], tasks[j])
	})
}

func (q TaskQuery) less() func(a, b *domain.Task) bool {
	switch q.Ordering {
	case OrderDueDateAsc:
		return func(a, b *domain.Task) bool { return dueDateLess(a, b, false) }
	case OrderDueDateDesc:
		return func(a, b *domain.Task) bool { return dueDateLess(a, b, true) }
	case OrderCreatedAtAsc:
		return func(a, b *domain.Task) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case OrderCreatedAtDesc:
		return func(a, b *domain.Task) bool { return a.CreatedAt.After(b.CreatedAt) }
	default:
		return domain.DefaultLess
	}
}

// dueDateLess orders by due date with NULLs last, matching the SQL
// "NULLS LAST" behavior for both directions.
func dueDateLess(a, b *domain.Task, desc bool) bool {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return false
	case a.DueDate == nil:
		return false
	case b.DueDate == nil:
		return true
	}
	if desc {
		return a.DueDate.After(*b.DueDate)
	}
	return a.DueDate.Before(*b.DueDate)
}
