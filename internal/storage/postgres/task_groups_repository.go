package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agenda-app/server/internal/domain/taskgroups"
	"github.com/agenda-app/server/internal/domain/tasks"
	"github.com/agenda-app/server/internal/storage"
)

var _ taskgroups.Repository = (*TaskGroupRepository)(nil)

type TaskGroupRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

const taskGroupColumns = `id, user_id, title, color, created_at, updated_at`

func scanTaskGroup(row pgx.Row) (*taskgroups.TaskGroup, error) {
	var g taskgroups.TaskGroup
	if err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Color, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	g.CreatedAt, g.UpdatedAt = g.CreatedAt.UTC(), g.UpdatedAt.UTC()
	g.Tasks = []tasks.Task{}
	return &g, nil
}

func (r *TaskGroupRepository) List(ctx context.Context, userID int64) ([]taskgroups.TaskGroup, error) {
	q := r.queryer()
	rows, err := q.Query(ctx, `
SELECT `+taskGroupColumns+`
  FROM task_groups
 WHERE user_id = $1
 ORDER BY id ASC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list task groups: %w", err)
	}
	defer rows.Close()

	items := make([]taskgroups.TaskGroup, 0)
	for rows.Next() {
		item, err := scanTaskGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task group: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task groups: %w", err)
	}
	rows.Close()

	if len(items) == 0 {
		return items, nil
	}
	ids := make([]int64, len(items))
	index := make(map[int64]int, len(items))
	for i, item := range items {
		ids[i] = item.ID
		index[item.ID] = i
	}

	children, err := listTasks(ctx, q, `
SELECT `+taskColumns+`
  FROM tasks
 WHERE user_id = $1 AND task_group_id = ANY($2)
 ORDER BY date ASC, id ASC
`, userID, ids)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		i := index[child.TaskGroupID]
		items[i].Tasks = append(items[i].Tasks, child)
	}
	return items, nil
}

func (r *TaskGroupRepository) Get(ctx context.Context, id, userID int64) (*taskgroups.TaskGroup, error) {
	q := r.queryer()
	item, err := scanTaskGroup(q.QueryRow(ctx, `
SELECT `+taskGroupColumns+`
  FROM task_groups
 WHERE id = $1 AND user_id = $2
`, id, userID))
	if err != nil {
		return nil, fmt.Errorf("get task group: %w", mapError(err))
	}
	if err := r.attachTasks(ctx, q, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *TaskGroupRepository) Create(ctx context.Context, params taskgroups.CreateParams) (*taskgroups.TaskGroup, error) {
	item, err := scanTaskGroup(r.queryer().QueryRow(ctx, `
INSERT INTO task_groups (user_id, title, color)
VALUES ($1, $2, $3)
RETURNING `+taskGroupColumns,
		params.UserID, params.Title, params.Color))
	if err != nil {
		return nil, fmt.Errorf("insert task group: %w", mapError(err))
	}
	return item, nil
}

func (r *TaskGroupRepository) Update(ctx context.Context, params taskgroups.UpdateParams) (*taskgroups.TaskGroup, error) {
	q := r.queryer()
	item, err := scanTaskGroup(q.QueryRow(ctx, `
UPDATE task_groups
   SET title = $3, color = $4, updated_at = now()
 WHERE id = $1 AND user_id = $2
RETURNING `+taskGroupColumns,
		params.ID, params.UserID, params.Title, params.Color))
	if err != nil {
		return nil, fmt.Errorf("update task group: %w", mapError(err))
	}
	if err := r.attachTasks(ctx, q, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *TaskGroupRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM task_groups WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete task group: %w", mapError(err))
	}
	return requireAffected(tag)
}

func (r *TaskGroupRepository) BeginTx(ctx context.Context) (taskgroups.Repository, storage.TxCommitter, error) {
	tx, err := begin(ctx, r.pool, r.tx)
	if err != nil {
		return nil, nil, err
	}
	return &TaskGroupRepository{pool: r.pool, tx: tx}, &txCommitter{tx: tx}, nil
}

func (r *TaskGroupRepository) attachTasks(ctx context.Context, q queryer, group *taskgroups.TaskGroup) error {
	children, err := listTasks(ctx, q, `
SELECT `+taskColumns+`
  FROM tasks
 WHERE user_id = $1 AND task_group_id = $2
 ORDER BY date ASC, id ASC
`, group.UserID, group.ID)
	if err != nil {
		return err
	}
	group.Tasks = children
	return nil
}

func (r *TaskGroupRepository) queryer() queryer {
	return pick(r.pool, r.tx)
}
