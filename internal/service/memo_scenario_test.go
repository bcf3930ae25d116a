package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoapi/internal/dto"
	"memoapi/internal/model"
	"memoapi/internal/repository"
)

// memStore is a map-backed MemoRepository used to check behaviour across calls.
type memStore struct {
	mu    sync.Mutex
	clock clockwork.Clock
	rows  map[uuid.UUID]model.Memo
}

func newMemStore(clock clockwork.Clock) *memStore {
	return &memStore{clock: clock, rows: make(map[uuid.UUID]model.Memo)}
}

func (s *memStore) Create(_ context.Context, in repository.CreateMemo) (*model.Memo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()
	m := model.Memo{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		DateTo:      in.DateTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.rows[m.ID] = m
	return &m, nil
}

func (s *memStore) FindByID(_ context.Context, id uuid.UUID) (*model.Memo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *memStore) FindAll(_ context.Context, q repository.ListQuery) (*repository.PageResult[model.Memo], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []model.Memo
	for _, m := range s.rows {
		if q.Completed != nil && m.Completed != *q.Completed {
			continue
		}
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool {
		less := strings.Compare(all[i].Title, all[j].Title) < 0
		if q.SortBy != repository.SortTitle {
			less = all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		if q.Order == repository.OrderDesc {
			return !less
		}
		return less
	})

	items := []model.Memo{}
	for i := q.Offset; i < len(all) && len(items) < q.Limit; i++ {
		items = append(items, all[i])
	}
	return &repository.PageResult[model.Memo]{Items: items, Total: len(all)}, nil
}

func (s *memStore) Update(_ context.Context, id uuid.UUID, in repository.UpdateMemo) (*model.Memo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	m.Title = in.Title
	m.Description = in.Description
	m.DateTo = in.DateTo
	m.Completed = in.Completed
	if now := s.clock.Now().UTC(); now.After(m.CreatedAt) {
		m.UpdatedAt = now
	} else {
		m.UpdatedAt = m.CreatedAt
	}
	s.rows[id] = m
	return &m, nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}

func newScenario(t *testing.T) (MemoService, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC))
	return NewMemoService(newMemStore(clock)), clock
}

func TestScenario_CreateDefaults(t *testing.T) {
	svc, _ := newScenario(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, dto.CreateMemoRequest{Title: "A", DateTo: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)})

	require.NoError(t, err)
	assert.False(t, m.Completed)
	assert.Equal(t, m.CreatedAt, m.UpdatedAt)
	assert.Nil(t, m.Description)
}

func TestScenario_EmptyPatchIsNoOp(t *testing.T) {
	svc, clock := newScenario(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateMemoRequest{Title: "A", Description: ptr("keep"), DateTo: clock.Now()})
	require.NoError(t, err)

	clock.Advance(time.Second)
	patched, err := svc.Patch(ctx, created.ID, dto.PatchMemoRequest{})

	require.NoError(t, err)
	assert.Equal(t, created.Title, patched.Title)
	assert.Equal(t, created.Description, patched.Description)
	assert.Equal(t, created.DateTo, patched.DateTo)
	assert.Equal(t, created.Completed, patched.Completed)
	assert.False(t, patched.UpdatedAt.Before(created.UpdatedAt))
}

func TestScenario_DoubleToggleRestoresFlag(t *testing.T) {
	svc, clock := newScenario(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateMemoRequest{Title: "A", DateTo: clock.Now()})
	require.NoError(t, err)

	first, err := svc.ToggleComplete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, first.Completed)

	second, err := svc.ToggleComplete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Completed, second.Completed)
	assert.Equal(t, created.Title, second.Title)
}

func TestScenario_UnknownIDIsNotFound(t *testing.T) {
	svc, clock := newScenario(t)
	ctx := context.Background()
	id := uuid.New()

	_, err := svc.GetByID(ctx, id)
	assert.True(t, IsNotFound(err))

	_, err = svc.Update(ctx, id, dto.UpdateMemoRequest{Title: "x", DateTo: clock.Now(), Completed: ptr(false)})
	assert.True(t, IsNotFound(err))

	_, err = svc.ToggleComplete(ctx, id)
	assert.True(t, IsNotFound(err))

	assert.True(t, IsNotFound(svc.Delete(ctx, id)))
}

func TestScenario_CreatePatchDeleteGet(t *testing.T) {
	svc, clock := newScenario(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateMemoRequest{Title: "A", DateTo: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	clock.Advance(time.Minute)
	patched, err := svc.Patch(ctx, created.ID, dto.PatchMemoRequest{Title: ptr("B")})
	require.NoError(t, err)
	assert.Equal(t, "B", patched.Title)
	assert.Equal(t, created.DateTo, patched.DateTo)
	assert.True(t, patched.UpdatedAt.After(created.UpdatedAt))

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.True(t, IsNotFound(err))
}

func TestScenario_PatchClearsDescription(t *testing.T) {
	svc, clock := newScenario(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateMemoRequest{Title: "A", Description: ptr("text"), DateTo: clock.Now()})
	require.NoError(t, err)

	patched, err := svc.Patch(ctx, created.ID, dto.PatchMemoRequest{Description: ptr("")})

	require.NoError(t, err)
	assert.Nil(t, patched.Description)
}

func TestScenario_ListFilterAndPaging(t *testing.T) {
	svc, clock := newScenario(t)
	ctx := context.Background()

	for _, title := range []string{"c", "a", "b"} {
		_, err := svc.Create(ctx, dto.CreateMemoRequest{Title: title, DateTo: clock.Now()})
		require.NoError(t, err)
		clock.Advance(time.Second)
	}
	page, err := svc.GetAll(ctx, dto.PaginationParams{})
	require.NoError(t, err)
	_, err = svc.ToggleComplete(ctx, page.Data[0].ID)
	require.NoError(t, err)

	done, err := svc.GetAll(ctx, dto.PaginationParams{Completed: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, 1, done.Total)
	assert.Equal(t, "b", done.Data[0].Title)

	byTitle, err := svc.GetAll(ctx, dto.PaginationParams{Limit: ptr(2), SortBy: ptr("title"), Order: ptr("asc")})
	require.NoError(t, err)
	assert.Equal(t, 3, byTitle.Total)
	require.Len(t, byTitle.Data, 2)
	assert.Equal(t, "a", byTitle.Data[0].Title)
	assert.Equal(t, "b", byTitle.Data[1].Title)

	pastEnd, err := svc.GetAll(ctx, dto.PaginationParams{Offset: ptr(10)})
	require.NoError(t, err)
	assert.Equal(t, 3, pastEnd.Total)
	assert.Empty(t, pastEnd.Data)
}

func TestScenario_ValidationLeavesStoreUntouched(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := newMemStore(clock)
	svc := NewMemoService(store)

	_, err := svc.Create(context.Background(), dto.CreateMemoRequest{Title: "", DateTo: clock.Now()})

	assert.True(t, IsValidation(err))
	assert.Empty(t, store.rows)
}
