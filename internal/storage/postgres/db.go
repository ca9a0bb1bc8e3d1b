package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agenda-app/server/internal/storage"
)

// Repository hands out the per-entity repositories sharing one pool.
type Repository struct {
	pool *pgxpool.Pool

	calendars  *CalendarRepository
	taskGroups *TaskGroupRepository
	events     *EventRepository
	tasks      *TaskRepository
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres repository: pool is nil")
	}
	return &Repository{
		pool:       pool,
		calendars:  &CalendarRepository{pool: pool},
		taskGroups: &TaskGroupRepository{pool: pool},
		events:     &EventRepository{pool: pool},
		tasks:      &TaskRepository{pool: pool},
	}, nil
}

func (r *Repository) Calendars() *CalendarRepository   { return r.calendars }
func (r *Repository) TaskGroups() *TaskGroupRepository { return r.taskGroups }
func (r *Repository) Events() *EventRepository         { return r.events }
func (r *Repository) Tasks() *TaskRepository           { return r.tasks }

// Ping checks that the pool can reach the database.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func pick(pool *pgxpool.Pool, tx pgx.Tx) queryer {
	if tx != nil {
		return tx
	}
	return pool
}

func begin(ctx context.Context, pool *pgxpool.Pool, tx pgx.Tx) (pgx.Tx, error) {
	if tx != nil {
		return nil, fmt.Errorf("repository already in transaction")
	}
	started, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return started, nil
}

// txCommitter implements storage.TxCommitter over a pgx transaction.
type txCommitter struct {
	tx pgx.Tx
}

func (tc *txCommitter) Commit(ctx context.Context) error {
	if err := tc.tx.Commit(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

func (tc *txCommitter) Rollback(ctx context.Context) error {
	err := tc.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// mapError converts pgx errors into storage sentinels. Constraint failures
// (SQLSTATE class 23) keep the constraint name in the message.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 && pgErr.Code[:2] == "23" {
		return fmt.Errorf("%w: %s", storage.ErrIntegrityViolation, pgErr.ConstraintName)
	}
	return err
}

func requireAffected(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
