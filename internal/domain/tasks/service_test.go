package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/agenda-app/server/internal/domain/field"
	"github.com/agenda-app/server/internal/domain/ownership"
	"github.com/agenda-app/server/internal/domain/timerange"
	"github.com/agenda-app/server/internal/storage"
	"github.com/agenda-app/server/internal/validation"
)

type memoryRepo struct {
	groups  map[int64]Group
	rows    map[int64]Task
	nextID  int64
	filters Filters
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		groups: map[int64]Group{
			10: {ID: 10, UserID: 1, Title: "Home"},
			20: {ID: 20, UserID: 2, Title: "Other"},
			30: {ID: 30, UserID: 1, Title: "Work"},
		},
		rows: map[int64]Task{},
	}
}

func (m *memoryRepo) List(_ context.Context, userID int64, filters Filters) ([]Task, error) {
	m.filters = filters
	var out []Task
	for _, row := range m.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memoryRepo) Get(_ context.Context, id, userID int64) (*Task, error) {
	row, ok := m.rows[id]
	if !ok || row.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return &row, nil
}

func (m *memoryRepo) GetGroup(_ context.Context, id, userID int64) (*Group, error) {
	group, ok := m.groups[id]
	if !ok || group.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return &group, nil
}

func (m *memoryRepo) Create(_ context.Context, params CreateParams) (*Task, error) {
	m.nextID++
	row := Task{
		ID: m.nextID, UserID: params.UserID, TaskGroupID: params.TaskGroupID, Title: params.Title,
		Date: params.Date, Status: params.Status, Recurrence: params.Recurrence, Color: params.Color,
	}
	m.rows[row.ID] = row
	return &row, nil
}

func (m *memoryRepo) Update(_ context.Context, params UpdateParams) (*Task, error) {
	row := m.rows[params.ID]
	row.TaskGroupID = params.TaskGroupID
	row.Title = params.Title
	row.Date = params.Date
	row.Status = params.Status
	row.Recurrence = params.Recurrence
	row.Color = params.Color
	m.rows[row.ID] = row
	return &row, nil
}

func (m *memoryRepo) Delete(_ context.Context, id, _ int64) error {
	delete(m.rows, id)
	return nil
}

func (m *memoryRepo) BeginTx(context.Context) (Repository, storage.TxCommitter, error) {
	return m, noopTx{}, nil
}

type noopTx struct{}

func (noopTx) Commit(context.Context) error   { return nil }
func (noopTx) Rollback(context.Context) error { return nil }

func raw(v string) field.Raw {
	return field.Of(json.RawMessage(v))
}

func validInput() Input {
	return Input{
		Title:       field.Of("Water plants"),
		Date:        field.Of("2024-03-01"),
		TaskGroupID: raw(`10`),
	}
}

func TestCreateTask(t *testing.T) {
	svc := NewService(newMemoryRepo())

	input := validInput()
	input.Status = field.Of(true)
	input.RecurrenceAlias = raw(`"2"`)
	input.Color = field.Of(" #0f0 ")

	got, err := svc.Create(context.Background(), 1, input)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got.Date)
	require.True(t, got.Status)
	require.Equal(t, RecurrenceWeekly, got.Recurrence)
	require.Equal(t, "#0f0", got.Color)
	require.Equal(t, int64(10), got.TaskGroupID)
}

func TestCreateTaskValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())

	tests := []struct {
		name   string
		mutate func(*Input)
		field  string
	}{
		{name: "missing title", mutate: func(in *Input) { in.Title = field.String{} }, field: "title"},
		{name: "missing date", mutate: func(in *Input) { in.Date = field.Of(" ") }, field: "date"},
		{name: "missing group", mutate: func(in *Input) { in.TaskGroupID = field.Raw{} }, field: "task_group_id"},
		{name: "non numeric group", mutate: func(in *Input) { in.TaskGroupID = raw(`"abc"`) }, field: "task_group_id"},
		{name: "bad recurrence", mutate: func(in *Input) { in.Recurrence = raw(`9`) }, field: "recurrence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)
			_, err := svc.Create(context.Background(), 1, input)
			var verr validation.Error
			require.True(t, errors.As(err, &verr), "got %v", err)
			require.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCreateTaskBadDate(t *testing.T) {
	svc := NewService(newMemoryRepo())
	input := validInput()
	input.Date = field.Of("next tuesday")

	_, err := svc.Create(context.Background(), 1, input)
	require.True(t, timerange.IsFormatError(err))
}

func TestCreateTaskForeignGroup(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	input := validInput()
	input.TaskGroupID = raw(`20`)

	_, err := svc.Create(context.Background(), 1, input)
	require.ErrorIs(t, err, ownership.ErrNotFound)

	var notFound *ownership.NotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, ownership.KindTaskGroup, notFound.Kind)
	require.Empty(t, repo.rows)
}

func TestUpdateTaskPartial(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	created, err := svc.Create(context.Background(), 1, validInput())
	require.NoError(t, err)

	got, err := svc.Update(context.Background(), 1, created.ID, Input{Status: field.Of(true)})
	require.NoError(t, err)
	require.True(t, got.Status)
	require.Equal(t, "Water plants", got.Title)
	require.Equal(t, created.Date, got.Date)

	got, err = svc.Update(context.Background(), 1, created.ID, Input{Date: field.Of("2024-03-05 18:30"), TaskGroupID: raw(`"30"`)})
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 5, 18, 30, 0, 0, time.UTC), got.Date)
	require.Equal(t, int64(30), got.TaskGroupID)

	_, err = svc.Update(context.Background(), 1, created.ID, Input{TaskGroupID: raw(`20`)})
	require.ErrorIs(t, err, ownership.ErrNotFound)

	_, err = svc.Update(context.Background(), 1, created.ID, Input{Date: field.Of("")})
	require.ErrorIs(t, err, timerange.ErrMissingInput)

	_, err = svc.Update(context.Background(), 2, created.ID, Input{Status: field.Of(false)})
	require.ErrorIs(t, err, ownership.ErrNotFound)
}

func TestListTasksParsesBounds(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	_, err := svc.List(context.Background(), 1, "2024-03-01", "2024-03-31T23:59Z")
	require.NoError(t, err)
	require.NotNil(t, repo.filters.Start)
	require.NotNil(t, repo.filters.End)
	require.Equal(t, 31, repo.filters.End.Day())

	_, err = svc.List(context.Background(), 1, "", "")
	require.NoError(t, err)
	require.Nil(t, repo.filters.Start)

	_, err = svc.List(context.Background(), 1, "bogus", "")
	require.True(t, timerange.IsFormatError(err))
}

func TestTaskOccurrences(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	input := validInput()
	input.Recurrence = raw(`1`)
	created, err := svc.Create(context.Background(), 1, input)
	require.NoError(t, err)

	got, err := svc.Occurrences(context.Background(), 1, created.ID, "2024-03-02", "2024-03-04")
	require.NoError(t, err)
	require.Len(t, got, 3)

	got, err = svc.Occurrences(context.Background(), 1, created.ID, "", "")
	require.NoError(t, err)
	require.Len(t, got, 91)

	_, err = svc.Occurrences(context.Background(), 1, created.ID, "2024-03-04", "2024-03-02")
	require.ErrorIs(t, err, timerange.ErrInvalidRange)

	_, err = svc.Occurrences(context.Background(), 2, created.ID, "", "")
	require.ErrorIs(t, err, ownership.ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	created, err := svc.Create(context.Background(), 1, validInput())
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), 2, created.ID), ownership.ErrNotFound)
	require.NoError(t, svc.Delete(context.Background(), 1, created.ID))
	require.Empty(t, repo.rows)
}
