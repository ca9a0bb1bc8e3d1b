package taskgroups

import (
	"context"
	"time"

	"github.com/agenda-app/server/internal/domain/tasks"
	"github.com/agenda-app/server/internal/storage"
)

// TaskGroup is always loaded together with its tasks, ordered by date.
type TaskGroup struct {
	ID        int64
	UserID    int64
	Title     string
	Color     string
	Tasks     []tasks.Task
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateParams struct {
	UserID int64
	Title  string
	Color  string
}

type UpdateParams struct {
	ID     int64
	UserID int64
	Title  string
	Color  string
}

type Repository interface {
	List(ctx context.Context, userID int64) ([]TaskGroup, error)
	Get(ctx context.Context, id, userID int64) (*TaskGroup, error)
	Create(ctx context.Context, params CreateParams) (*TaskGroup, error)
	Update(ctx context.Context, params UpdateParams) (*TaskGroup, error)
	Delete(ctx context.Context, id, userID int64) error
	BeginTx(ctx context.Context) (Repository, storage.TxCommitter, error)
}
