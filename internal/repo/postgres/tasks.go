package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// visibleExpr matches tasks the given user owns or collaborates on. The
// argument position is spliced in because the predicate appears at different
// positions across queries.
const visibleExpr = `(t.owner_id = $%d OR EXISTS (
	SELECT 1 FROM task_collaborators tc WHERE tc.task_id = t.id AND tc.user_id = $%d
))`

const taskSelect = `
SELECT t.id, t.owner_id, t.title, t.description, t.completed, t.priority, t.due_date,
       t.created_at, t.updated_at,
       COALESCE(array_remove(array_agg(c.user_id::text), NULL), '{}')
FROM tasks t
LEFT JOIN task_collaborators c ON c.task_id = t.id
`

type TasksRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTasksRepo(pool *pgxpool.Pool, prom *observability.Prom) *TasksRepo {
	return &TasksRepo{pool: pool, prom: prom}
}

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	var priority *string

	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed, &priority, &t.DueDate,
		&t.CreatedAt, &t.UpdatedAt, &t.Collaborators,
	)
	if err != nil {
		return task.Task{}, err
	}

	if priority != nil {
		t.Priority = task.Priority(*priority)
	}

	return t, nil
}

// Create inserts the task row only. Initial collaborators are appended by the
// caller through AddCollaborator as a separate step; a crash in between leaves
// a committed task with a shorter collaborator list, never a broken one.
func (r *TasksRepo) Create(ctx context.Context, t task.Task) error {
	var priority *string
	if t.Priority != "" {
		p := string(t.Priority)
		priority = &p
	}

	return observe(r.prom, "tasks.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO tasks (id, owner_id, title, description, completed, priority, due_date, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			t.ID, t.OwnerID, t.Title, t.Description, t.Completed, priority, t.DueDate, t.CreatedAt, t.UpdatedAt,
		)
		return err
	})
}

// AddCollaborator appends without de-duplication and without checking the
// target against the owner. Both quirks are inherited behavior.
func (r *TasksRepo) AddCollaborator(ctx context.Context, taskID, userID string) error {
	return observe(r.prom, "tasks.add_collaborator", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO task_collaborators (task_id, user_id, created_at) VALUES ($1,$2,$3)`,
			taskID, userID, time.Now().UTC(),
		)
		return err
	})
}

// GetByID loads a task with no visibility scoping. Used by the status-toggle
// and invite paths, which are deliberately not ownership-checked.
func (r *TasksRepo) GetByID(ctx context.Context, id string) (task.Task, error) {
	var t task.Task
	var err error

	err = observe(r.prom, "tasks.get_by_id", func() error {
		t, err = scanTask(r.pool.QueryRow(ctx,
			taskSelect+`WHERE t.id = $1 GROUP BY t.id`, id))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, err
	}

	return t, nil
}

// GetVisible loads a task only when the user owns or collaborates on it; a
// stranger cannot tell such a task apart from a missing one.
func (r *TasksRepo) GetVisible(ctx context.Context, id, userID string) (task.Task, error) {
	var t task.Task
	var err error

	query := taskSelect + `WHERE t.id = $1 AND ` + fmt.Sprintf(visibleExpr, 2, 2) + ` GROUP BY t.id`

	err = observe(r.prom, "tasks.get_visible", func() error {
		t, err = scanTask(r.pool.QueryRow(ctx, query, id, userID))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, err
	}

	return t, nil
}

func (r *TasksRepo) listQuery(ctx context.Context, query string, args ...interface{}) ([]task.Task, error) {
	var out []task.Task

	err := observe(r.prom, "tasks.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]task.Task, 0, 16)

		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				return err
			}
			out = append(out, t)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// ListMine returns tasks the user owns or collaborates on.
func (r *TasksRepo) ListMine(ctx context.Context, userID string) ([]task.Task, error) {
	query := taskSelect + `WHERE ` + fmt.Sprintf(visibleExpr, 1, 1) +
		` GROUP BY t.id ORDER BY t.created_at ASC, t.id ASC`
	return r.listQuery(ctx, query, userID)
}

// ListOwnedByPriority is owner-scoped only: tasks the user merely collaborates
// on never show up in priority buckets, even when they match.
func (r *TasksRepo) ListOwnedByPriority(ctx context.Context, userID string, p task.Priority) ([]task.Task, error) {
	query := taskSelect + `WHERE t.owner_id = $1 AND t.priority = $2
	GROUP BY t.id ORDER BY t.created_at ASC, t.id ASC`
	return r.listQuery(ctx, query, userID, string(p))
}

// ListOwnedByCompletion is owner-scoped only, like the priority buckets.
func (r *TasksRepo) ListOwnedByCompletion(ctx context.Context, userID string, completed bool) ([]task.Task, error) {
	query := taskSelect + `WHERE t.owner_id = $1 AND t.completed = $2
	GROUP BY t.id ORDER BY t.created_at ASC, t.id ASC`
	return r.listQuery(ctx, query, userID, completed)
}

// UpdateFields applies an allow-listed patch, scoped to owner-or-collaborator.
func (r *TasksRepo) UpdateFields(ctx context.Context, id, userID string, p task.Patch) (task.Task, error) {
	sets := []string{"updated_at = $3"}
	args := []interface{}{id, userID, time.Now().UTC()}
	pos := 4

	if p.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", pos))
		args = append(args, *p.Title)
		pos++
	}
	if p.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", pos))
		args = append(args, *p.Description)
		pos++
	}
	if p.Priority != nil {
		sets = append(sets, fmt.Sprintf("priority = $%d", pos))
		args = append(args, string(*p.Priority))
		pos++
	}
	if p.DueDate != nil {
		sets = append(sets, fmt.Sprintf("due_date = $%d", pos))
		args = append(args, *p.DueDate)
		pos++
	}

	query := `UPDATE tasks t SET ` + strings.Join(sets, ", ") +
		` WHERE t.id = $1 AND ` + fmt.Sprintf(visibleExpr, 2, 2)

	err := observe(r.prom, "tasks.update_fields", func() error {
		tag, err := r.pool.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, err
	}

	return r.GetByID(ctx, id)
}

// UpdateStatus toggles completion with no user scoping at all. Any caller
// holding a task id may flip it; see the authorization notes in internal/authz.
func (r *TasksRepo) UpdateStatus(ctx context.Context, id string, completed bool) (task.Task, error) {
	err := observe(r.prom, "tasks.update_status", func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE tasks SET completed = $2, updated_at = NOW() WHERE id = $1`,
			id, completed,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, err
	}

	return r.GetByID(ctx, id)
}

// DeleteOwned deletes only when the caller is the owner; for anyone else the
// task simply appears not to exist. Collaborator rows cascade.
func (r *TasksRepo) DeleteOwned(ctx context.Context, id, ownerID string) error {
	err := observe(r.prom, "tasks.delete_owned", func() error {
		tag, err := r.pool.Exec(ctx,
			`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`,
			id, ownerID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.ErrNotFound
		}
		return err
	}

	return nil
}
