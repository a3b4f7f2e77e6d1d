package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/smarttask/smarttask-api/internal/domain"
	"github.com/smarttask/smarttask-api/internal/platform/logger"
	"github.com/smarttask/smarttask-api/internal/store"
)

// TaskStore implements the store.TaskStore interface using a PostgreSQL
// database as the storage backend. List compiles the TaskQuery composer's
// semantics into SQL; the reference in-memory semantics live on TaskQuery
// itself.
type TaskStore struct {
	db  store.DBTX
	log *slog.Logger
}

// NewTaskStore creates a new PostgreSQL implementation of the TaskStore
// interface. If log is nil, the default logger is used.
func NewTaskStore(db store.DBTX, log *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &TaskStore{
		db:  db,
		log: log.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

const taskColumns = "id, owner_id, title, description, due_date, priority, status, is_important, category, created_at, updated_at"

// defaultTaskOrder is the default listing order: important tasks first,
// then grouped by the status text ascending (completed, in_progress,
// pending), then soonest due date, ties broken by newest.
const defaultTaskOrder = "is_important DESC, status ASC, due_date ASC NULLS LAST, created_at DESC"

// Create implements store.TaskStore.Create.
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.log)

	if err := task.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO tasks (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, taskColumns)

	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		dueDateValue(task.DueDate),
		task.Priority,
		task.Status,
		task.IsImportant,
		task.Category,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				"task_id", task.ID,
				"owner_id", task.OwnerID)
			return fmt.Errorf("%w: owner with ID %s not found", store.ErrInvalidEntity, task.OwnerID)
		}
		log.Error("failed to create task", "error", err, "task_id", task.ID)
		return err
	}

	log.Debug("task created", "task_id", task.ID, "owner_id", task.OwnerID)
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE id = $1", taskColumns)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// List implements store.TaskStore.List.
func (s *TaskStore) List(ctx context.Context, q store.TaskQuery) ([]*domain.Task, error) {
	query, args := buildTaskListSQL(q)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// buildTaskListSQL compiles a TaskQuery into a SELECT statement. Each
// filter is an independent conjunct, mirroring TaskQuery.Matches: raw
// status/priority values are compared exactly (an unrecognized value
// matches no rows), category case-insensitively, and search as a
// substring over title and description.
func buildTaskListSQL(q store.TaskQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.OwnerID != uuid.Nil {
		conds = append(conds, "owner_id = "+arg(q.OwnerID))
	}
	if q.Status != "" {
		conds = append(conds, "status = "+arg(q.Status))
	}
	if q.Priority != "" {
		conds = append(conds, "priority = "+arg(q.Priority))
	}
	if q.Category != "" {
		conds = append(conds, "LOWER(category) = LOWER("+arg(q.Category)+")")
	}
	if q.Important != nil {
		conds = append(conds, "is_important = "+arg(*q.Important))
	}
	if q.Search != "" {
		p := arg("%" + escapeLike(q.Search) + "%")
		conds = append(conds, "(title ILIKE "+p+" OR description ILIKE "+p+")")
	}

	sb := strings.Builder{}
	sb.WriteString("SELECT ")
	sb.WriteString(taskColumns)
	sb.WriteString(" FROM tasks")
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderClause(q.Ordering))

	return sb.String(), args
}

// likeEscaper escapes the ILIKE metacharacters with the default escape
// character, so search input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// orderClause maps an allow-listed ordering value to its SQL. The query
// composer guarantees Ordering is allow-listed or empty, but unknown
// values still fall back to the default order here.
func orderClause(ordering string) string {
	switch ordering {
	case store.OrderDueDateAsc:
		return "due_date ASC NULLS LAST"
	case store.OrderDueDateDesc:
		return "due_date DESC NULLS LAST"
	case store.OrderCreatedAtAsc:
		return "created_at ASC"
	case store.OrderCreatedAtDesc:
		return "created_at DESC"
	default:
		return defaultTaskOrder
	}
}

// Update implements store.TaskStore.Update. ID, owner and created_at are
// never written.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.log)

	query := `
		UPDATE tasks
		SET title = $2,
			description = $3,
			due_date = $4,
			priority = $5,
			status = $6,
			is_important = $7,
			category = $8,
			updated_at = $9
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		dueDateValue(task.DueDate),
		task.Priority,
		task.Status,
		task.IsImportant,
		task.Category,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update task", "error", err, "task_id", task.ID)
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// Delete implements store.TaskStore.Delete.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// dueDateValue converts an optional due date to its column value.
func dueDateValue(d *domain.Date) any {
	if d == nil {
		return nil
	}
	return d.Time()
}

// scanTask reads one task row from a *sql.Row or *sql.Rows.
func scanTask(row interface{ Scan(dest ...any) error }) (*domain.Task, error) {
	var (
		task domain.Task
		due  sql.NullTime
	)
	if err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&due,
		&task.Priority,
		&task.Status,
		&task.IsImportant,
		&task.Category,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if due.Valid {
		d := domain.DateOf(due.Time)
		task.DueDate = &d
	}
	return &task, nil
}
