package calendars

import (
	"context"
	"fmt"

	"github.com/agenda-app/server/internal/domain/field"
	"github.com/agenda-app/server/internal/domain/ownership"
	"github.com/agenda-app/server/internal/sanitize"
	"github.com/agenda-app/server/internal/validation"
)

// Input is the decoded body of a create or update request.
type Input struct {
	Title field.String `json:"title"`
	Color field.String `json:"color"`
}

type fields struct {
	Title string `json:"title" validate:"required,max=255"`
	Color string `json:"color" validate:"required,max=32"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID int64) ([]Calendar, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*Calendar, error) {
	return ownership.Check(ctx, ownership.KindCalendar, id, userID, s.repo.Get)
}

func (s *Service) Create(ctx context.Context, userID int64, input Input) (*Calendar, error) {
	values := fields{
		Title: sanitize.Text(field.Text(input.Title)),
		Color: sanitize.Text(field.Text(input.Color)),
	}
	if err := validation.Struct(values); err != nil {
		return nil, err
	}

	var created *Calendar
	err := s.withTx(ctx, func(repo Repository) error {
		var err error
		created, err = repo.Create(ctx, CreateParams{UserID: userID, Title: values.Title, Color: values.Color})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create calendar: %w", err)
	}
	return created, nil
}

// Update changes only the keys present in input.
func (s *Service) Update(ctx context.Context, userID, id int64, input Input) (*Calendar, error) {
	var updated *Calendar
	err := s.withTx(ctx, func(repo Repository) error {
		current, err := ownership.Check(ctx, ownership.KindCalendar, id, userID, repo.Get)
		if err != nil {
			return err
		}

		values := fields{Title: current.Title, Color: current.Color}
		if input.Title.Set {
			if values.Title = sanitize.Text(field.Text(input.Title)); values.Title == "" {
				return validation.Error{Field: "title", Message: "cannot be empty"}
			}
		}
		if input.Color.Set {
			if values.Color = sanitize.Text(field.Text(input.Color)); values.Color == "" {
				return validation.Error{Field: "color", Message: "cannot be empty"}
			}
		}
		if err := validation.Struct(values); err != nil {
			return err
		}

		updated, err = repo.Update(ctx, UpdateParams{ID: id, UserID: userID, Title: values.Title, Color: values.Color})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update calendar %d: %w", id, err)
	}
	return updated, nil
}

// Delete removes the calendar together with its events.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	err := s.withTx(ctx, func(repo Repository) error {
		if _, err := ownership.Check(ctx, ownership.KindCalendar, id, userID, repo.Get); err != nil {
			return err
		}
		return repo.Delete(ctx, id, userID)
	})
	if err != nil {
		return fmt.Errorf("delete calendar %d: %w", id, err)
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
