package postgres

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agenda-app/server/internal/domain/calendars"
	"github.com/agenda-app/server/internal/domain/events"
	"github.com/agenda-app/server/internal/domain/taskgroups"
	"github.com/agenda-app/server/internal/domain/tasks"
	"github.com/agenda-app/server/internal/storage"
)

func TestCalendarRepositoryOwnerScoping(t *testing.T) {
	pool, _ := setupPostgres(t)
	ctx := context.Background()
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	mine, err := repo.Calendars().Create(ctx, calendars.CreateParams{UserID: 1, Title: "Work", Color: "#f00"})
	require.NoError(t, err)
	_, err = repo.Calendars().Create(ctx, calendars.CreateParams{UserID: 2, Title: "Theirs", Color: "#0f0"})
	require.NoError(t, err)

	items, err := repo.Calendars().List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Work", items[0].Title)

	_, err = repo.Calendars().Get(ctx, mine.ID, 2)
	require.ErrorIs(t, err, storage.ErrNotFound)

	updated, err := repo.Calendars().Update(ctx, calendars.UpdateParams{ID: mine.ID, UserID: 1, Title: "Office", Color: "#f00"})
	require.NoError(t, err)
	require.Equal(t, "Office", updated.Title)
	require.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	require.ErrorIs(t, repo.Calendars().Delete(ctx, mine.ID, 2), storage.ErrNotFound)
	require.NoError(t, repo.Calendars().Delete(ctx, mine.ID, 1))
}

func TestEventRepositoryRangeFilterAndCascade(t *testing.T) {
	pool, _ := setupPostgres(t)
	ctx := context.Background()
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	cal, err := repo.Calendars().Create(ctx, calendars.CreateParams{UserID: 1, Title: "Work", Color: "#f00"})
	require.NoError(t, err)

	create := func(title string, start, end int) {
		_, err := repo.Events().Create(ctx, events.CreateParams{
			UserID:     1,
			CalendarID: cal.ID,
			Title:      title,
			StartDate:  utc(2024, 3, start, 9, 0),
			EndDate:    utc(2024, 3, end, 10, 0),
		})
		require.NoError(t, err)
	}
	create("late", 20, 20)
	create("early", 2, 2)
	create("spanning", 9, 12)

	all, err := repo.Events().List(ctx, 1, events.Filters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "early", all[0].Title)
	require.Equal(t, "late", all[2].Title)
	require.Equal(t, "", all[0].Description)

	start := utc(2024, 3, 1, 0, 0)
	end := utc(2024, 3, 11, 0, 0)
	window, err := repo.Events().List(ctx, 1, events.Filters{Start: &start, End: &end})
	require.NoError(t, err)
	require.Len(t, window, 1)
	require.Equal(t, "early", window[0].Title)

	other, err := repo.Events().List(ctx, 2, events.Filters{})
	require.NoError(t, err)
	require.Empty(t, other)

	require.NoError(t, repo.Calendars().Delete(ctx, cal.ID, 1))
	all, err = repo.Events().List(ctx, 1, events.Filters{})
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestEventRepositoryRangeConstraint(t *testing.T) {
	pool, _ := setupPostgres(t)
	ctx := context.Background()
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	cal, err := repo.Calendars().Create(ctx, calendars.CreateParams{UserID: 1, Title: "Work", Color: "#f00"})
	require.NoError(t, err)

	_, err = repo.Events().Create(ctx, events.CreateParams{
		UserID:     1,
		CalendarID: cal.ID,
		Title:      "backwards",
		StartDate:  utc(2024, 3, 1, 10, 0),
		EndDate:    utc(2024, 3, 1, 10, 0),
	})
	require.ErrorIs(t, err, storage.ErrIntegrityViolation)

	_, err = repo.Events().Create(ctx, events.CreateParams{
		UserID:     1,
		CalendarID: cal.ID + 100,
		Title:      "orphan",
		StartDate:  utc(2024, 3, 1, 10, 0),
		EndDate:    utc(2024, 3, 1, 11, 0),
	})
	require.ErrorIs(t, err, storage.ErrIntegrityViolation)
}

func TestTransactionRollback(t *testing.T) {
	pool, _ := setupPostgres(t)
	ctx := context.Background()
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	txRepo, committer, err := repo.Calendars().BeginTx(ctx)
	require.NoError(t, err)
	_, err = txRepo.Create(ctx, calendars.CreateParams{UserID: 1, Title: "Draft", Color: "#000"})
	require.NoError(t, err)
	require.NoError(t, committer.Rollback(ctx))
	require.NoError(t, committer.Rollback(ctx))

	items, err := repo.Calendars().List(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, items)

	txRepo, committer, err = repo.Calendars().BeginTx(ctx)
	require.NoError(t, err)
	_, _, err = txRepo.BeginTx(ctx)
	require.Error(t, err)
	_, err = txRepo.Create(ctx, calendars.CreateParams{UserID: 1, Title: "Kept", Color: "#000"})
	require.NoError(t, err)
	require.NoError(t, committer.Commit(ctx))

	items, err = repo.Calendars().List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestTaskGroupRepositoryEmbedsTasks(t *testing.T) {
	pool, _ := setupPostgres(t)
	ctx := context.Background()
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	errands, err := repo.TaskGroups().Create(ctx, taskgroups.CreateParams{UserID: 1, Title: "Errands", Color: "#eee"})
	require.NoError(t, err)
	require.Empty(t, errands.Tasks)
	empty, err := repo.TaskGroups().Create(ctx, taskgroups.CreateParams{UserID: 1, Title: "Empty", Color: "#ddd"})
	require.NoError(t, err)

	group, err := repo.Tasks().GetGroup(ctx, errands.ID, 1)
	require.NoError(t, err)
	require.Equal(t, "Errands", group.Title)
	_, err = repo.Tasks().GetGroup(ctx, errands.ID, 2)
	require.ErrorIs(t, err, storage.ErrNotFound)

	for i, title := range []string{"second", "first"} {
		_, err := repo.Tasks().Create(ctx, tasks.CreateParams{
			UserID:      1,
			TaskGroupID: errands.ID,
			Title:       title,
			Date:        utc(2024, 3, 10-i, 8, 0),
			Recurrence:  tasks.RecurrenceWeekly,
		})
		require.NoError(t, err)
	}

	groups, err := repo.TaskGroups().List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, errands.ID, groups[0].ID)
	require.Len(t, groups[0].Tasks, 2)
	require.Equal(t, "first", groups[0].Tasks[0].Title)
	require.Equal(t, tasks.RecurrenceWeekly, groups[0].Tasks[0].Recurrence)
	require.Equal(t, empty.ID, groups[1].ID)
	require.NotNil(t, groups[1].Tasks)
	require.Empty(t, groups[1].Tasks)

	start := utc(2024, 3, 9, 8, 0)
	end := utc(2024, 3, 9, 8, 0)
	window, err := repo.Tasks().List(ctx, 1, tasks.Filters{Start: &start, End: &end})
	require.NoError(t, err)
	require.Len(t, window, 1)
	require.Equal(t, "first", window[0].Title)

	require.NoError(t, repo.TaskGroups().Delete(ctx, errands.ID, 1))
	remaining, err := repo.Tasks().List(ctx, 1, tasks.Filters{})
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestMigrationStatus(t *testing.T) {
	_, dbURL := setupPostgres(t)

	status, err := Status(dbURL, filepath.Join(projectRoot(), DefaultMigrationsPath))
	require.NoError(t, err)
	require.Equal(t, uint(1), status.Version)
	require.False(t, status.Dirty)
}
