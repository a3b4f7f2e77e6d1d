package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttask/smarttask-api/internal/store"
)

func TestBuildTaskListSQL(t *testing.T) {
	t.Parallel()

	t.Run("no filters selects everything in default order", func(t *testing.T) {
		t.Parallel()
		query, args := buildTaskListSQL(store.TaskQuery{})
		assert.Equal(t,
			"SELECT "+taskColumns+" FROM tasks ORDER BY "+defaultTaskOrder,
			query)
		assert.Empty(t, args)
	})

	t.Run("owner scope", func(t *testing.T) {
		t.Parallel()
		ownerID := uuid.New()
		query, args := buildTaskListSQL(store.TaskQuery{OwnerID: ownerID})
		assert.Contains(t, query, "WHERE owner_id = $1")
		require.Len(t, args, 1)
		assert.Equal(t, ownerID, args[0])
	})

	t.Run("filters are conjoined with positional args", func(t *testing.T) {
		t.Parallel()
		important := true
		query, args := buildTaskListSQL(store.TaskQuery{
			OwnerID:   uuid.New(),
			Status:    "pending",
			Priority:  "high",
			Category:  "Work",
			Important: &important,
			Search:    "report",
		})

		assert.Contains(t, query, "owner_id = $1")
		assert.Contains(t, query, "status = $2")
		assert.Contains(t, query, "priority = $3")
		assert.Contains(t, query, "LOWER(category) = LOWER($4)")
		assert.Contains(t, query, "is_important = $5")
		assert.Contains(t, query, "(title ILIKE $6 OR description ILIKE $6)")

		require.Len(t, args, 6)
		assert.Equal(t, "pending", args[1])
		assert.Equal(t, "high", args[2])
		assert.Equal(t, "Work", args[3])
		assert.Equal(t, true, args[4])
		assert.Equal(t, "%report%", args[5])
	})

	t.Run("search matches ILIKE metacharacters literally", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			search string
			want   string
		}{
			{"100%", `%100\%%`},
			{"in_progress", `%in\_progress%`},
			{`C:\temp`, `%C:\\temp%`},
			{"plain", "%plain%"},
		}
		for _, tc := range tests {
			_, args := buildTaskListSQL(store.TaskQuery{Search: tc.search})
			require.Len(t, args, 1, "search %q", tc.search)
			assert.Equal(t, tc.want, args[0], "search %q", tc.search)
		}
	})

	t.Run("bogus status is parameterized, not ignored", func(t *testing.T) {
		t.Parallel()
		query, args := buildTaskListSQL(store.TaskQuery{Status: "bogus"})
		assert.Contains(t, query, "status = $1")
		require.Len(t, args, 1)
		assert.Equal(t, "bogus", args[0])
	})

	t.Run("ordering clauses", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			ordering string
			want     string
		}{
			{store.OrderDueDateAsc, "ORDER BY due_date ASC NULLS LAST"},
			{store.OrderDueDateDesc, "ORDER BY due_date DESC NULLS LAST"},
			{store.OrderCreatedAtAsc, "ORDER BY created_at ASC"},
			{store.OrderCreatedAtDesc, "ORDER BY created_at DESC"},
			{"", "ORDER BY " + defaultTaskOrder},
			{"anything-else", "ORDER BY " + defaultTaskOrder},
		}
		for _, tc := range tests {
			query, _ := buildTaskListSQL(store.TaskQuery{Ordering: tc.ordering})
			assert.Contains(t, query, tc.want, "ordering %q", tc.ordering)
		}
	})
}
