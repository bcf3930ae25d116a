package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"memoapi/internal/dto"
)

type MockMemoService struct {
	mock.Mock
}

func (m *MockMemoService) GetAll(ctx context.Context, params dto.PaginationParams) (*dto.PaginatedResponse[dto.MemoResponse], error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedResponse[dto.MemoResponse]), args.Error(1)
}

func (m *MockMemoService) GetByID(ctx context.Context, id uuid.UUID) (*dto.MemoResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MemoResponse), args.Error(1)
}

func (m *MockMemoService) Create(ctx context.Context, req dto.CreateMemoRequest) (*dto.MemoResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MemoResponse), args.Error(1)
}

func (m *MockMemoService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateMemoRequest) (*dto.MemoResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MemoResponse), args.Error(1)
}

func (m *MockMemoService) Patch(ctx context.Context, id uuid.UUID, req dto.PatchMemoRequest) (*dto.MemoResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MemoResponse), args.Error(1)
}

func (m *MockMemoService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMemoService) ToggleComplete(ctx context.Context, id uuid.UUID) (*dto.MemoResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MemoResponse), args.Error(1)
}
