package tasks

import (
	"context"
	"time"

	"github.com/agenda-app/server/internal/storage"
)

type Task struct {
	ID          int64
	UserID      int64
	TaskGroupID int64
	Title       string
	Date        time.Time
	Status      bool
	Recurrence  Recurrence
	Color       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Group is the parent a task belongs to, as seen by the ownership check.
type Group struct {
	ID     int64
	UserID int64
	Title  string
}

// Filters restrict List to tasks dated within [Start, End]. Nil bounds are open.
type Filters struct {
	Start *time.Time
	End   *time.Time
}

type CreateParams struct {
	UserID      int64
	TaskGroupID int64
	Title       string
	Date        time.Time
	Status      bool
	Recurrence  Recurrence
	Color       string
}

type UpdateParams struct {
	ID          int64
	UserID      int64
	TaskGroupID int64
	Title       string
	Date        time.Time
	Status      bool
	Recurrence  Recurrence
	Color       string
}

type Repository interface {
	List(ctx context.Context, userID int64, filters Filters) ([]Task, error)
	Get(ctx context.Context, id, userID int64) (*Task, error)
	GetGroup(ctx context.Context, id, userID int64) (*Group, error)
	Create(ctx context.Context, params CreateParams) (*Task, error)
	Update(ctx context.Context, params UpdateParams) (*Task, error)
	Delete(ctx context.Context, id, userID int64) error
	BeginTx(ctx context.Context) (Repository, storage.TxCommitter, error)
}
