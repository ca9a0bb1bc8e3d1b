package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agenda-app/server/internal/domain/calendars"
	"github.com/agenda-app/server/internal/domain/events"
	"github.com/agenda-app/server/internal/storage"
)

var _ events.Repository = (*EventRepository)(nil)

type EventRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

const eventColumns = `id, user_id, calendar_id, title, start_date, end_date, description, color, created_at, updated_at`

func scanEvent(row pgx.Row) (*events.Event, error) {
	var e events.Event
	if err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.CalendarID,
		&e.Title,
		&e.StartDate,
		&e.EndDate,
		&e.Description,
		&e.Color,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.StartDate, e.EndDate = e.StartDate.UTC(), e.EndDate.UTC()
	e.CreatedAt, e.UpdatedAt = e.CreatedAt.UTC(), e.UpdatedAt.UTC()
	return &e, nil
}

// List keeps events fully inside the optional bounds, ordered by start.
func (r *EventRepository) List(ctx context.Context, userID int64, filters events.Filters) ([]events.Event, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE user_id = $1
   AND ($2::bigint IS NULL OR calendar_id = $2::bigint)
   AND ($3::timestamptz IS NULL OR start_date >= $3::timestamptz)
   AND ($4::timestamptz IS NULL OR end_date <= $4::timestamptz)
 ORDER BY start_date ASC, id ASC
`, userID, filters.CalendarID, filters.Start, filters.End)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	items := make([]events.Event, 0)
	for rows.Next() {
		item, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return items, nil
}

func (r *EventRepository) Get(ctx context.Context, id, userID int64) (*events.Event, error) {
	item, err := scanEvent(r.queryer().QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE id = $1 AND user_id = $2
`, id, userID))
	if err != nil {
		return nil, fmt.Errorf("get event: %w", mapError(err))
	}
	return item, nil
}

func (r *EventRepository) GetCalendar(ctx context.Context, id, userID int64) (*calendars.Calendar, error) {
	return (&CalendarRepository{pool: r.pool, tx: r.tx}).Get(ctx, id, userID)
}

func (r *EventRepository) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	item, err := scanEvent(r.queryer().QueryRow(ctx, `
INSERT INTO events (user_id, calendar_id, title, start_date, end_date, description, color)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+eventColumns,
		params.UserID,
		params.CalendarID,
		params.Title,
		params.StartDate,
		params.EndDate,
		params.Description,
		params.Color,
	))
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", mapError(err))
	}
	return item, nil
}

func (r *EventRepository) Update(ctx context.Context, params events.UpdateParams) (*events.Event, error) {
	item, err := scanEvent(r.queryer().QueryRow(ctx, `
UPDATE events
   SET calendar_id = $3,
       title = $4,
       start_date = $5,
       end_date = $6,
       description = $7,
       color = $8,
       updated_at = now()
 WHERE id = $1 AND user_id = $2
RETURNING `+eventColumns,
		params.ID,
		params.UserID,
		params.CalendarID,
		params.Title,
		params.StartDate,
		params.EndDate,
		params.Description,
		params.Color,
	))
	if err != nil {
		return nil, fmt.Errorf("update event: %w", mapError(err))
	}
	return item, nil
}

func (r *EventRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM events WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete event: %w", mapError(err))
	}
	return requireAffected(tag)
}

func (r *EventRepository) BeginTx(ctx context.Context) (events.Repository, storage.TxCommitter, error) {
	tx, err := begin(ctx, r.pool, r.tx)
	if err != nil {
		return nil, nil, err
	}
	return &EventRepository{pool: r.pool, tx: tx}, &txCommitter{tx: tx}, nil
}

func (r *EventRepository) queryer() queryer {
	return pick(r.pool, r.tx)
}
