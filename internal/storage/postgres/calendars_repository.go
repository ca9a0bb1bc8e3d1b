package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agenda-app/server/internal/domain/calendars"
	"github.com/agenda-app/server/internal/storage"
)

var _ calendars.Repository = (*CalendarRepository)(nil)

type CalendarRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

const calendarColumns = `id, user_id, title, color, created_at, updated_at`

func scanCalendar(row pgx.Row) (*calendars.Calendar, error) {
	var c calendars.Calendar
	if err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.CreatedAt, c.UpdatedAt = c.CreatedAt.UTC(), c.UpdatedAt.UTC()
	return &c, nil
}

func (r *CalendarRepository) List(ctx context.Context, userID int64) ([]calendars.Calendar, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT `+calendarColumns+`
  FROM calendars
 WHERE user_id = $1
 ORDER BY id ASC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}
	defer rows.Close()

	items := make([]calendars.Calendar, 0)
	for rows.Next() {
		item, err := scanCalendar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calendar: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calendars: %w", err)
	}
	return items, nil
}

func (r *CalendarRepository) Get(ctx context.Context, id, userID int64) (*calendars.Calendar, error) {
	item, err := scanCalendar(r.queryer().QueryRow(ctx, `
SELECT `+calendarColumns+`
  FROM calendars
 WHERE id = $1 AND user_id = $2
`, id, userID))
	if err != nil {
		return nil, fmt.Errorf("get calendar: %w", mapError(err))
	}
	return item, nil
}

func (r *CalendarRepository) Create(ctx context.Context, params calendars.CreateParams) (*calendars.Calendar, error) {
	item, err := scanCalendar(r.queryer().QueryRow(ctx, `
INSERT INTO calendars (user_id, title, color)
VALUES ($1, $2, $3)
RETURNING `+calendarColumns,
		params.UserID, params.Title, params.Color))
	if err != nil {
		return nil, fmt.Errorf("insert calendar: %w", mapError(err))
	}
	return item, nil
}

func (r *CalendarRepository) Update(ctx context.Context, params calendars.UpdateParams) (*calendars.Calendar, error) {
	item, err := scanCalendar(r.queryer().QueryRow(ctx, `
UPDATE calendars
   SET title = $3, color = $4, updated_at = now()
 WHERE id = $1 AND user_id = $2
RETURNING `+calendarColumns,
		params.ID, params.UserID, params.Title, params.Color))
	if err != nil {
		return nil, fmt.Errorf("update calendar: %w", mapError(err))
	}
	return item, nil
}

func (r *CalendarRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM calendars WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete calendar: %w", mapError(err))
	}
	return requireAffected(tag)
}

func (r *CalendarRepository) BeginTx(ctx context.Context) (calendars.Repository, storage.TxCommitter, error) {
	tx, err := begin(ctx, r.pool, r.tx)
	if err != nil {
		return nil, nil, err
	}
	return &CalendarRepository{pool: r.pool, tx: tx}, &txCommitter{tx: tx}, nil
}

func (r *CalendarRepository) queryer() queryer {
	return pick(r.pool, r.tx)
}
