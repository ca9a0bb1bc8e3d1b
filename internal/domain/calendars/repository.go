package calendars

import (
	"context"
	"time"

	"github.com/agenda-app/server/internal/storage"
)

type Calendar struct {
	ID        int64
	UserID    int64
	Title     string
	Color     string
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

// Repository persists calendars. Every lookup is restricted to the owner.
type Repository interface {
	List(ctx context.Context, userID int64) ([]Calendar, error)
	Get(ctx context.Context, id, userID int64) (*Calendar, error)
	Create(ctx context.Context, params CreateParams) (*Calendar, error)
	Update(ctx context.Context, params UpdateParams) (*Calendar, error)
	Delete(ctx context.Context, id, userID int64) error
	BeginTx(ctx context.Context) (Repository, storage.TxCommitter, error)
}
