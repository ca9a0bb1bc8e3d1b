package ownership

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agenda-app/server/internal/storage"
)

type calendar struct {
	ID     int64
	UserID int64
}

func lookupFrom(rows ...calendar) LookupFunc[calendar] {
	return func(_ context.Context, id, userID int64) (*calendar, error) {
		for _, row := range rows {
			if row.ID == id && row.UserID == userID {
				found := row
				return &found, nil
			}
		}
		return nil, storage.ErrNotFound
	}
}

func TestCheckReturnsOwnedResource(t *testing.T) {
	lookup := lookupFrom(calendar{ID: 1, UserID: 7})

	got, err := Check(context.Background(), KindCalendar, 1, 7, lookup)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.ID)
}

func TestCheckOtherOwnerIsNotFound(t *testing.T) {
	lookup := lookupFrom(calendar{ID: 1, UserID: 7})

	got, err := Check(context.Background(), KindCalendar, 1, 8, lookup)
	require.Nil(t, got)
	require.ErrorIs(t, err, ErrNotFound)

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, KindCalendar, notFound.Kind)
	require.Equal(t, int64(1), notFound.ID)
	require.Contains(t, err.Error(), "calendar 1")
}

func TestCheckMissingAndForeignLookAlike(t *testing.T) {
	lookup := lookupFrom(calendar{ID: 1, UserID: 7})

	_, missing := Check(context.Background(), KindTaskGroup, 99, 8, lookup)
	_, foreign := Check(context.Background(), KindTaskGroup, 1, 8, lookup)
	require.ErrorIs(t, missing, ErrNotFound)
	require.ErrorIs(t, foreign, ErrNotFound)
}

func TestCheckNilResultIsNotFound(t *testing.T) {
	lookup := func(context.Context, int64, int64) (*calendar, error) { return nil, nil }

	_, err := Check(context.Background(), KindEvent, 3, 1, lookup)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCheckPropagatesLookupFailure(t *testing.T) {
	boom := errors.New("connection reset")
	lookup := func(context.Context, int64, int64) (*calendar, error) { return nil, boom }

	_, err := Check(context.Background(), KindTask, 3, 1, lookup)
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrNotFound)
}
