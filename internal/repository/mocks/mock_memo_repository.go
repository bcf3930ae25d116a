package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"memoapi/internal/model"
	"memoapi/internal/repository"
)

type MockMemoRepository struct {
	mock.Mock
}

func (m *MockMemoRepository) Create(ctx context.Context, in repository.CreateMemo) (*model.Memo, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Memo), args.Error(1)
}

func (m *MockMemoRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Memo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Memo), args.Error(1)
}

func (m *MockMemoRepository) FindAll(ctx context.Context, q repository.ListQuery) (*repository.PageResult[model.Memo], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Memo]), args.Error(1)
}

func (m *MockMemoRepository) Update(ctx context.Context, id uuid.UUID, in repository.UpdateMemo) (*model.Memo, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Memo), args.Error(1)
}

func (m *MockMemoRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
