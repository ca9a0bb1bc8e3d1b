package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/agenda-app/server/internal/domain/field"
	"github.com/agenda-app/server/internal/domain/ownership"
	"github.com/agenda-app/server/internal/domain/timerange"
	"github.com/agenda-app/server/internal/sanitize"
	"github.com/agenda-app/server/internal/validation"
)

// Input is the decoded body of a create or update request.
// recurrencia is accepted as an alias of recurrence.
type Input struct {
	Title           field.String         `json:"title"`
	Date            field.String         `json:"date"`
	TaskGroupID     field.Raw            `json:"task_group_id"`
	Status          field.Optional[bool] `json:"status"`
	Recurrence      field.Raw            `json:"recurrence"`
	RecurrenceAlias field.Raw            `json:"recurrencia"`
	Color           field.String         `json:"color"`
}

func (in Input) recurrence() field.Raw {
	if in.Recurrence.Set {
		return in.Recurrence
	}
	return in.RecurrenceAlias
}

type fields struct {
	Title       string `json:"title" validate:"required,max=255"`
	TaskGroupID int64  `json:"task_group_id" validate:"gt=0"`
	Color       string `json:"color" validate:"max=32"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the user's tasks ordered by date. start and end are optional
// inclusive bounds in any form Normalize accepts.
func (s *Service) List(ctx context.Context, userID int64, start, end string) ([]Task, error) {
	var filters Filters
	var err error
	if filters.Start, err = timerange.NormalizeOptional(start); err != nil {
		return nil, err
	}
	if filters.End, err = timerange.NormalizeOptional(end); err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*Task, error) {
	return ownership.Check(ctx, ownership.KindTask, id, userID, s.repo.Get)
}

func (s *Service) Create(ctx context.Context, userID int64, input Input) (*Task, error) {
	values := fields{
		Title: sanitize.Text(field.Text(input.Title)),
		Color: sanitize.Text(field.Text(input.Color)),
	}
	if values.Title == "" {
		return nil, validation.Error{Field: "title", Message: "is required"}
	}
	if !field.Present(input.Date) {
		return nil, validation.Error{Field: "date", Message: "is required (YYYY-MM-DD or YYYY-MM-DDTHH:MM)"}
	}
	date, err := timerange.Normalize(field.Text(input.Date))
	if err != nil {
		return nil, err
	}
	if values.TaskGroupID, err = field.Int("task_group_id", input.TaskGroupID); err != nil {
		return nil, err
	}
	rawRecurrence, err := field.IntOr("recurrence", input.recurrence(), 0)
	if err != nil {
		return nil, err
	}
	recurrence, err := ParseRecurrence(rawRecurrence)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(values); err != nil {
		return nil, err
	}
	status, _ := input.Status.Get()

	var created *Task
	err = s.withTx(ctx, func(repo Repository) error {
		if _, err := ownership.Check(ctx, ownership.KindTaskGroup, values.TaskGroupID, userID, repo.GetGroup); err != nil {
			return err
		}
		var err error
		created, err = repo.Create(ctx, CreateParams{
			UserID:      userID,
			TaskGroupID: values.TaskGroupID,
			Title:       values.Title,
			Date:        date,
			Status:      status,
			Recurrence:  recurrence,
			Color:       values.Color,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return created, nil
}

// Update changes only the keys present in input.
func (s *Service) Update(ctx context.Context, userID, id int64, input Input) (*Task, error) {
	var updated *Task
	err := s.withTx(ctx, func(repo Repository) error {
		current, err := ownership.Check(ctx, ownership.KindTask, id, userID, repo.Get)
		if err != nil {
			return err
		}

		params := UpdateParams{
			ID:          id,
			UserID:      userID,
			TaskGroupID: current.TaskGroupID,
			Title:       current.Title,
			Date:        current.Date,
			Status:      current.Status,
			Recurrence:  current.Recurrence,
			Color:       current.Color,
		}

		if input.Title.Set {
			if params.Title = sanitize.Text(field.Text(input.Title)); params.Title == "" {
				return validation.Error{Field: "title", Message: "cannot be empty"}
			}
		}
		if input.Date.Set {
			if params.Date, err = timerange.Normalize(field.Text(input.Date)); err != nil {
				return err
			}
		}
		if input.Status.Set {
			params.Status, _ = input.Status.Get()
		}
		if input.Color.Set {
			params.Color = sanitize.Text(field.Text(input.Color))
		}
		if input.recurrence().Set {
			raw, err := field.IntOr("recurrence", input.recurrence(), 0)
			if err != nil {
				return err
			}
			if params.Recurrence, err = ParseRecurrence(raw); err != nil {
				return err
			}
		}
		if input.TaskGroupID.Set {
			if params.TaskGroupID, err = field.Int("task_group_id", input.TaskGroupID); err != nil {
				return err
			}
			if _, err := ownership.Check(ctx, ownership.KindTaskGroup, params.TaskGroupID, userID, repo.GetGroup); err != nil {
				return err
			}
		}
		if err := validation.Struct(fields{Title: params.Title, TaskGroupID: params.TaskGroupID, Color: params.Color}); err != nil {
			return err
		}

		updated, err = repo.Update(ctx, params)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	err := s.withTx(ctx, func(repo Repository) error {
		if _, err := ownership.Check(ctx, ownership.KindTask, id, userID, repo.Get); err != nil {
			return err
		}
		return repo.Delete(ctx, id, userID)
	})
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

// Occurrences expands the task's recurrence inside [start, end].
// start defaults to the task date and end to start plus DefaultWindow.
func (s *Service) Occurrences(ctx context.Context, userID, id int64, start, end string) ([]time.Time, error) {
	task, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	from := task.Date
	if parsed, err := timerange.NormalizeOptional(start); err != nil {
		return nil, err
	} else if parsed != nil {
		from = *parsed
	}
	to := from.Add(DefaultWindow)
	if parsed, err := timerange.NormalizeOptional(end); err != nil {
		return nil, err
	} else if parsed != nil {
		to = *parsed
	}
	if err := timerange.RequireOrdered(from, to); err != nil {
		return nil, err
	}

	return Occurrences(*task, from, to)
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
