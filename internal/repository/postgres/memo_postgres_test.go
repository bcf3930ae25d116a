package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoapi/internal/model"
	"memoapi/internal/repository"
)

var memoCols = []string{"id", "title", "description", "date_to", "completed", "created_at", "updated_at"}

func newTestRepo(t *testing.T) (*MemoPostgres, sqlmock.Sqlmock, *clockwork.FakeClock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC))
	return NewMemoPostgres(db, clock), mock, clock
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestMemoPostgres_Create(t *testing.T) {
	repo, mock, clock := newTestRepo(t)
	ctx := context.Background()

	now := clock.Now()
	due := now.Add(48 * time.Hour)
	id := uuid.New()

	mock.ExpectQuery("INSERT INTO memos").
		WithArgs(sqlmock.AnyArg(), "Buy milk", "two litres", due, now).
		WillReturnRows(sqlmock.NewRows(memoCols).
			AddRow(id.String(), "Buy milk", "two litres", due, false, now, now))

	m, err := repo.Create(ctx, repository.CreateMemo{
		Title:       "Buy milk",
		Description: strPtr("two litres"),
		DateTo:      due,
	})

	require.NoError(t, err)
	assert.Equal(t, id, m.ID)
	assert.False(t, m.Completed)
	assert.Equal(t, m.CreatedAt, m.UpdatedAt)
	require.NotNil(t, m.Description)
	assert.Equal(t, "two litres", *m.Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoPostgres_Create_StoreError(t *testing.T) {
	repo, mock, _ := newTestRepo(t)

	mock.ExpectQuery("INSERT INTO memos").
		WillReturnError(errors.New("connection refused"))

	m, err := repo.Create(context.Background(), repository.CreateMemo{Title: "x", DateTo: time.Now()})

	assert.Nil(t, m)
	assert.ErrorContains(t, err, "insert memo: connection refused")
}

func TestMemoPostgres_FindByID(t *testing.T) {
	repo, mock, clock := newTestRepo(t)
	ctx := context.Background()
	now := clock.Now()

	t.Run("found without description", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta("FROM memos WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(memoCols).
				AddRow(id.String(), "title", nil, now, true, now, now))

		m, err := repo.FindByID(ctx, id)

		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, id, m.ID)
		assert.Nil(t, m.Description)
		assert.True(t, m.Completed)
	})

	t.Run("absent is not an error", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta("FROM memos WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(memoCols))

		m, err := repo.FindByID(ctx, id)

		assert.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("store error", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta("FROM memos WHERE id = $1")).
			WithArgs(id).
			WillReturnError(errors.New("timeout"))

		m, err := repo.FindByID(ctx, id)

		assert.Error(t, err)
		assert.Nil(t, m)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoPostgres_FindAll(t *testing.T) {
	repo, mock, clock := newTestRepo(t)
	ctx := context.Background()
	now := clock.Now()

	t.Run("default ordering without filter", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM memos")).
			WithArgs().
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

		mock.ExpectQuery(regexp.QuoteMeta("FROM memos ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2")).
			WithArgs(2, 0).
			WillReturnRows(sqlmock.NewRows(memoCols).
				AddRow(uuid.NewString(), "b", nil, now, false, now, now).
				AddRow(uuid.NewString(), "a", nil, now, false, now, now))

		res, err := repo.FindAll(ctx, repository.ListQuery{
			Limit:  2,
			Offset: 0,
			SortBy: repository.SortCreatedAt,
			Order:  repository.OrderDesc,
		})

		require.NoError(t, err)
		assert.Equal(t, 5, res.Total)
		assert.Len(t, res.Items, 2)
	})

	t.Run("completed filter with title ascending", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM memos WHERE completed = $1")).
			WithArgs(true).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		mock.ExpectQuery(regexp.QuoteMeta("FROM memos WHERE completed = $1 ORDER BY title ASC, id ASC LIMIT $2 OFFSET $3")).
			WithArgs(true, 10, 0).
			WillReturnRows(sqlmock.NewRows(memoCols).
				AddRow(uuid.NewString(), "done", nil, now, true, now, now))

		res, err := repo.FindAll(ctx, repository.ListQuery{
			Limit:     10,
			Completed: boolPtr(true),
			SortBy:    repository.SortTitle,
			Order:     repository.OrderAsc,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		require.Len(t, res.Items, 1)
		assert.True(t, res.Items[0].Completed)
	})

	t.Run("unknown sort field falls back to created_at", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM memos")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id DESC")).
			WithArgs(10, 50).
			WillReturnRows(sqlmock.NewRows(memoCols))

		res, err := repo.FindAll(ctx, repository.ListQuery{
			Limit:  10,
			Offset: 50,
			SortBy: repository.SortField("1; DROP TABLE memos"),
			Order:  repository.SortOrder("bogus"),
		})

		require.NoError(t, err)
		assert.Equal(t, 3, res.Total)
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
	})

	t.Run("negative limit is handed to the database as is", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM memos")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1 OFFSET $2")).
			WithArgs(-1, 0).
			WillReturnRows(sqlmock.NewRows(memoCols))

		var res *repository.PageResult[model.Memo]
		var err error
		assert.NotPanics(t, func() {
			res, err = repo.FindAll(ctx, repository.ListQuery{Limit: -1})
		})

		require.NoError(t, err)
		assert.Empty(t, res.Items)
	})

	t.Run("count error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM memos")).
			WillReturnError(errors.New("db down"))

		res, err := repo.FindAll(ctx, repository.ListQuery{Limit: 10})

		assert.Nil(t, res)
		assert.ErrorContains(t, err, "count memos")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoPostgres_Update(t *testing.T) {
	repo, mock, clock := newTestRepo(t)
	ctx := context.Background()
	created := clock.Now()
	clock.Advance(time.Minute)
	now := clock.Now()

	t.Run("success", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectQuery("UPDATE memos").
			WithArgs(id, "new title", nil, created, true, now).
			WillReturnRows(sqlmock.NewRows(memoCols).
				AddRow(id.String(), "new title", nil, created, true, created, now))

		m, err := repo.Update(ctx, id, repository.UpdateMemo{
			Title:     "new title",
			DateTo:    created,
			Completed: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "new title", m.Title)
		assert.True(t, m.Completed)
		assert.True(t, m.UpdatedAt.After(m.CreatedAt))
	})

	t.Run("missing row maps to ErrNotFound", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectQuery("UPDATE memos").
			WillReturnRows(sqlmock.NewRows(memoCols))

		m, err := repo.Update(ctx, id, repository.UpdateMemo{Title: "x", DateTo: now})

		assert.Nil(t, m)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("store error is not ErrNotFound", func(t *testing.T) {
		mock.ExpectQuery("UPDATE memos").
			WillReturnError(errors.New("check constraint violated"))

		_, err := repo.Update(ctx, uuid.New(), repository.UpdateMemo{Title: "x", DateTo: now})

		assert.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoPostgres_Delete(t *testing.T) {
	repo, mock, _ := newTestRepo(t)
	ctx := context.Background()

	t.Run("existing row", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM memos WHERE id = $1")).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.Delete(ctx, id)

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing row", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM memos WHERE id = $1")).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Delete(ctx, id)

		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("store error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM memos").
			WillReturnError(sql.ErrConnDone)

		ok, err := repo.Delete(ctx, uuid.New())

		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.False(t, ok)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
