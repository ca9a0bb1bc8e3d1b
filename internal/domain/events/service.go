package events

import (
	"context"
	"fmt"

	"github.com/agenda-app/server/internal/domain/calendars"
	"github.com/agenda-app/server/internal/domain/field"
	"github.com/agenda-app/server/internal/domain/ownership"
	"github.com/agenda-app/server/internal/domain/timerange"
	"github.com/agenda-app/server/internal/sanitize"
	"github.com/agenda-app/server/internal/validation"
)

// Input is the decoded body of a create or update request. The range keys
// come from the embedded timerange.Payload.
type Input struct {
	timerange.Payload
	Title       field.String `json:"title"`
	CalendarID  field.Raw    `json:"calendar_id"`
	Description field.String `json:"description"`
	Color       field.String `json:"color"`
}

type fields struct {
	Title       string `json:"title" validate:"required,max=255"`
	CalendarID  int64  `json:"calendar_id" validate:"gt=0"`
	Description string `json:"description" validate:"max=10000"`
	Color       string `json:"color" validate:"max=32"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the user's events ordered by start. start and end are
// optional bounds in any form Normalize accepts.
func (s *Service) List(ctx context.Context, userID int64, start, end string) ([]Event, error) {
	var filters Filters
	var err error
	if filters.Start, err = timerange.NormalizeOptional(start); err != nil {
		return nil, err
	}
	if filters.End, err = timerange.NormalizeOptional(end); err != nil {
		return nil, err
	}
	return s.list(ctx, userID, filters)
}

// ListByCalendar returns every event of one owned calendar.
func (s *Service) ListByCalendar(ctx context.Context, userID, calendarID int64) (*calendars.Calendar, []Event, error) {
	calendar, err := ownership.Check(ctx, ownership.KindCalendar, calendarID, userID, s.repo.GetCalendar)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.list(ctx, userID, Filters{CalendarID: &calendarID})
	if err != nil {
		return nil, nil, err
	}
	return calendar, items, nil
}

func (s *Service) list(ctx context.Context, userID int64, filters Filters) ([]Event, error) {
	items, err := s.repo.List(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*Event, error) {
	return ownership.Check(ctx, ownership.KindEvent, id, userID, s.repo.Get)
}

func (s *Service) Create(ctx context.Context, userID int64, input Input) (*Event, error) {
	values := fields{
		Title:       sanitize.Text(field.Text(input.Title)),
		Description: sanitize.HTML(field.Text(input.Description)),
		Color:       sanitize.Text(field.Text(input.Color)),
	}
	if values.Title == "" {
		return nil, validation.Error{Field: "title", Message: "is required"}
	}

	span, err := timerange.Resolve(input.Payload)
	if err != nil {
		return nil, err
	}
	if err := timerange.RequireOrdered(span.Start, span.End); err != nil {
		return nil, err
	}

	if values.CalendarID, err = field.Int("calendar_id", input.CalendarID); err != nil {
		return nil, err
	}
	if err := validation.Struct(values); err != nil {
		return nil, err
	}

	var created *Event
	err = s.withTx(ctx, func(repo Repository) error {
		if _, err := ownership.Check(ctx, ownership.KindCalendar, values.CalendarID, userID, repo.GetCalendar); err != nil {
			return err
		}
		var err error
		created, err = repo.Create(ctx, CreateParams{
			UserID:      userID,
			CalendarID:  values.CalendarID,
			Title:       values.Title,
			StartDate:   span.Start,
			EndDate:     span.End,
			Description: values.Description,
			Color:       values.Color,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

// Update changes only the keys present in input. The range follows
// timerange.ResolveUpdate and is always re-checked for order.
func (s *Service) Update(ctx context.Context, userID, id int64, input Input) (*Event, error) {
	var updated *Event
	err := s.withTx(ctx, func(repo Repository) error {
		current, err := ownership.Check(ctx, ownership.KindEvent, id, userID, repo.Get)
		if err != nil {
			return err
		}

		params := UpdateParams{
			ID:          id,
			UserID:      userID,
			CalendarID:  current.CalendarID,
			Title:       current.Title,
			StartDate:   current.StartDate,
			EndDate:     current.EndDate,
			Description: current.Description,
			Color:       current.Color,
		}

		if input.Title.Set {
			if params.Title = sanitize.Text(field.Text(input.Title)); params.Title == "" {
				return validation.Error{Field: "title", Message: "cannot be empty"}
			}
		}

		span, err := timerange.ResolveUpdate(input.Payload, timerange.Range{Start: current.StartDate, End: current.EndDate})
		if err != nil {
			return err
		}
		if err := timerange.RequireOrdered(span.Start, span.End); err != nil {
			return err
		}
		params.StartDate, params.EndDate = span.Start, span.End

		if input.Description.Set {
			params.Description = sanitize.HTML(field.Text(input.Description))
		}
		if input.Color.Set {
			params.Color = sanitize.Text(field.Text(input.Color))
		}
		if input.CalendarID.Set {
			if params.CalendarID, err = field.Int("calendar_id", input.CalendarID); err != nil {
				return err
			}
			if _, err := ownership.Check(ctx, ownership.KindCalendar, params.CalendarID, userID, repo.GetCalendar); err != nil {
				return err
			}
		}
		if err := validation.Struct(fields{
			Title:       params.Title,
			CalendarID:  params.CalendarID,
			Description: params.Description,
			Color:       params.Color,
		}); err != nil {
			return err
		}

		updated, err = repo.Update(ctx, params)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update event %d: %w", id, err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	err := s.withTx(ctx, func(repo Repository) error {
		if _, err := ownership.Check(ctx, ownership.KindEvent, id, userID, repo.Get); err != nil {
			return err
		}
		return repo.Delete(ctx, id, userID)
	})
	if err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	return nil
}

func (s *Service) withTx(ctx context.Context, fn func(Repository) error) error {
	txRepo, txCommitter, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = txCommitter.Rollback(ctx)
	}()

	if err := fn(txRepo); err != nil {
		return err
	}
	if err := txCommitter.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
