package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agenda-app/server/internal/domain/tasks"
	"github.com/agenda-app/server/internal/storage"
)

var _ tasks.Repository = (*TaskRepository)(nil)

type TaskRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

const taskColumns = `id, user_id, task_group_id, title, date, status, recurrence, color, created_at, updated_at`

func scanTask(row pgx.Row) (*tasks.Task, error) {
	var (
		t          tasks.Task
		recurrence int16
	)
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.TaskGroupID,
		&t.Title,
		&t.Date,
		&t.Status,
		&recurrence,
		&t.Color,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.Recurrence = tasks.Recurrence(recurrence)
	t.Date = t.Date.UTC()
	t.CreatedAt, t.UpdatedAt = t.CreatedAt.UTC(), t.UpdatedAt.UTC()
	return &t, nil
}

func listTasks(ctx context.Context, q queryer, sql string, args ...any) ([]tasks.Task, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	items := make([]tasks.Task, 0)
	for rows.Next() {
		item, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return items, nil
}

// List applies inclusive date bounds, ordered by date.
func (r *TaskRepository) List(ctx context.Context, userID int64, filters tasks.Filters) ([]tasks.Task, error) {
	return listTasks(ctx, r.queryer(), `
SELECT `+taskColumns+`
  FROM tasks
 WHERE user_id = $1
   AND ($2::timestamptz IS NULL OR date >= $2::timestamptz)
   AND ($3::timestamptz IS NULL OR date <= $3::timestamptz)
 ORDER BY date ASC, id ASC
`, userID, filters.Start, filters.End)
}

func (r *TaskRepository) Get(ctx context.Context, id, userID int64) (*tasks.Task, error) {
	item, err := scanTask(r.queryer().QueryRow(ctx, `
SELECT `+taskColumns+`
  FROM tasks
 WHERE id = $1 AND user_id = $2
`, id, userID))
	if err != nil {
		return nil, fmt.Errorf("get task: %w", mapError(err))
	}
	return item, nil
}

func (r *TaskRepository) GetGroup(ctx context.Context, id, userID int64) (*tasks.Group, error) {
	var g tasks.Group
	err := r.queryer().QueryRow(ctx, `
SELECT id, user_id, title
  FROM task_groups
 WHERE id = $1 AND user_id = $2
`, id, userID).Scan(&g.ID, &g.UserID, &g.Title)
	if err != nil {
		return nil, fmt.Errorf("get task group: %w", mapError(err))
	}
	return &g, nil
}

func (r *TaskRepository) Create(ctx context.Context, params tasks.CreateParams) (*tasks.Task, error) {
	item, err := scanTask(r.queryer().QueryRow(ctx, `
INSERT INTO tasks (user_id, task_group_id, title, date, status, recurrence, color)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+taskColumns,
		params.UserID,
		params.TaskGroupID,
		params.Title,
		params.Date,
		params.Status,
		int16(params.Recurrence),
		params.Color,
	))
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", mapError(err))
	}
	return item, nil
}

func (r *TaskRepository) Update(ctx context.Context, params tasks.UpdateParams) (*tasks.Task, error) {
	item, err := scanTask(r.queryer().QueryRow(ctx, `
UPDATE tasks
   SET task_group_id = $3,
       title = $4,
       date = $5,
       status = $6,
       recurrence = $7,
       color = $8,
       updated_at = now()
 WHERE id = $1 AND user_id = $2
RETURNING `+taskColumns,
		params.ID,
		params.UserID,
		params.TaskGroupID,
		params.Title,
		params.Date,
		params.Status,
		int16(params.Recurrence),
		params.Color,
	))
	if err != nil {
		return nil, fmt.Errorf("update task: %w", mapError(err))
	}
	return item, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", mapError(err))
	}
	return requireAffected(tag)
}

func (r *TaskRepository) BeginTx(ctx context.Context) (tasks.Repository, storage.TxCommitter, error) {
	tx, err := begin(ctx, r.pool, r.tx)
	if err != nil {
		return nil, nil, err
	}
	return &TaskRepository{pool: r.pool, tx: tx}, &txCommitter{tx: tx}, nil
}

func (r *TaskRepository) queryer() queryer {
	return pick(r.pool, r.tx)
}
