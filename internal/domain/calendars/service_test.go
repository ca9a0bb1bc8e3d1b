package calendars

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agenda-app/server/internal/domain/field"
	"github.com/agenda-app/server/internal/domain/ownership"
	"github.com/agenda-app/server/internal/storage"
	"github.com/agenda-app/server/internal/validation"
)

type memoryRepo struct {
	rows       map[int64]Calendar
	nextID     int64
	commits    int
	rollbacks  int
	failCreate error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[int64]Calendar{}}
}

func (m *memoryRepo) List(_ context.Context, userID int64) ([]Calendar, error) {
	var out []Calendar
	for _, row := range m.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryRepo) Get(_ context.Context, id, userID int64) (*Calendar, error) {
	row, ok := m.rows[id]
	if !ok || row.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return &row, nil
}

func (m *memoryRepo) Create(_ context.Context, params CreateParams) (*Calendar, error) {
	if m.failCreate != nil {
		return nil, m.failCreate
	}
	m.nextID++
	row := Calendar{ID: m.nextID, UserID: params.UserID, Title: params.Title, Color: params.Color}
	m.rows[row.ID] = row
	return &row, nil
}

func (m *memoryRepo) Update(_ context.Context, params UpdateParams) (*Calendar, error) {
	row := m.rows[params.ID]
	row.Title = params.Title
	row.Color = params.Color
	m.rows[row.ID] = row
	return &row, nil
}

func (m *memoryRepo) Delete(_ context.Context, id, _ int64) error {
	delete(m.rows, id)
	return nil
}

func (m *memoryRepo) BeginTx(context.Context) (Repository, storage.TxCommitter, error) {
	return m, m, nil
}

func (m *memoryRepo) Commit(context.Context) error {
	m.commits++
	return nil
}

func (m *memoryRepo) Rollback(context.Context) error {
	m.rollbacks++
	return nil
}

func TestCreateCalendar(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	got, err := svc.Create(context.Background(), 1, Input{Title: field.Of("  Work <b>stuff</b> "), Color: field.Of("#123456")})
	require.NoError(t, err)
	require.Equal(t, "Work stuff", got.Title)
	require.Equal(t, "#123456", got.Color)
	require.Equal(t, int64(1), got.UserID)
	require.Equal(t, 1, repo.commits)
}

func TestCreateCalendarRequiresTitleAndColor(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), 1, Input{Color: field.Of("#fff")})
	var verr validation.Error
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "title", verr.Field)

	_, err = svc.Create(context.Background(), 1, Input{Title: field.Of("Home"), Color: field.Of("   ")})
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "color", verr.Field)
}

func TestCreateCalendarIntegrityErrorRollsBack(t *testing.T) {
	repo := newMemoryRepo()
	repo.failCreate = storage.ErrIntegrityViolation
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), 1, Input{Title: field.Of("Home"), Color: field.Of("#fff")})
	require.ErrorIs(t, err, storage.ErrIntegrityViolation)
	require.Equal(t, 0, repo.commits)
	require.Equal(t, 1, repo.rollbacks)
}

func TestGetCalendarOwnedByOtherUser(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	created, err := svc.Create(context.Background(), 1, Input{Title: field.Of("Home"), Color: field.Of("#fff")})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 2, created.ID)
	require.ErrorIs(t, err, ownership.ErrNotFound)

	got, err := svc.Get(context.Background(), 1, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Home", got.Title)
}

func TestUpdateCalendarPartial(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	created, err := svc.Create(context.Background(), 1, Input{Title: field.Of("Home"), Color: field.Of("#fff")})
	require.NoError(t, err)

	got, err := svc.Update(context.Background(), 1, created.ID, Input{Color: field.Of("#000")})
	require.NoError(t, err)
	require.Equal(t, "Home", got.Title)
	require.Equal(t, "#000", got.Color)

	_, err = svc.Update(context.Background(), 1, created.ID, Input{Title: field.Of("")})
	var verr validation.Error
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "cannot be empty", verr.Message)

	_, err = svc.Update(context.Background(), 2, created.ID, Input{Title: field.Of("Stolen")})
	require.ErrorIs(t, err, ownership.ErrNotFound)
	require.Equal(t, "Home", repo.rows[created.ID].Title)
}

func TestDeleteCalendar(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	created, err := svc.Create(context.Background(), 1, Input{Title: field.Of("Home"), Color: field.Of("#fff")})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), 2, created.ID), ownership.ErrNotFound)
	require.NoError(t, svc.Delete(context.Background(), 1, created.ID))

	items, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, items)
}
