package events

import (
	"context"
	"time"

	"github.com/agenda-app/server/internal/domain/calendars"
	"github.com/agenda-app/server/internal/storage"
)

type Event struct {
	ID          int64
	UserID      int64
	CalendarID  int64
	Title       string
	StartDate   time.Time
	EndDate     time.Time
	Description string
	Color       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filters keep events with start_date >= Start and end_date <= End.
// Nil bounds are open.
type Filters struct {
	CalendarID *int64
	Start      *time.Time
	End        *time.Time
}

type CreateParams struct {
	UserID      int64
	CalendarID  int64
	Title       string
	StartDate   time.Time
	EndDate     time.Time
	Description string
	Color       string
}

type UpdateParams struct {
	ID          int64
	UserID      int64
	CalendarID  int64
	Title       string
	StartDate   time.Time
	EndDate     time.Time
	Description string
	Color       string
}

type Repository interface {
	List(ctx context.Context, userID int64, filters Filters) ([]Event, error)
	Get(ctx context.Context, id, userID int64) (*Event, error)
	GetCalendar(ctx context.Context, id, userID int64) (*calendars.Calendar, error)
	Create(ctx context.Context, params CreateParams) (*Event, error)
	Update(ctx context.Context, params UpdateParams) (*Event, error)
	Delete(ctx context.Context, id, userID int64) error
	BeginTx(ctx context.Context) (Repository, storage.TxCommitter, error)
}
