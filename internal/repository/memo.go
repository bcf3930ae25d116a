package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"memoapi/internal/model"
)

// ErrNotFound is returned by Update when no row has the given id.
var ErrNotFound = errors.New("record not found")

// MemoRepository defines data access for memos using SQL queries only.
// Persistence only; no business rules.
type MemoRepository interface {
	// Create inserts a new memo. The repository assigns the id and both timestamps
	// and always stores completed = false.
	Create(ctx context.Context, in CreateMemo) (*model.Memo, error)

	// FindByID returns the memo with the given id, or nil and no error when none exists.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Memo, error)

	// FindAll returns one page of memos and the number of rows matching the filter.
	FindAll(ctx context.Context, q ListQuery) (*PageResult[model.Memo], error)

	// Update replaces every mutable field and refreshes updated_at.
	// It returns ErrNotFound when the id does not exist.
	Update(ctx context.Context, id uuid.UUID, in UpdateMemo) (*model.Memo, error)

	// Delete removes a memo and reports whether a row existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// CreateMemo carries the client-supplied fields of a new memo.
type CreateMemo struct {
	Title       string
	Description *string
	DateTo      time.Time
}

// UpdateMemo is the full set of mutable memo fields.
type UpdateMemo struct {
	Title       string
	Description *string
	DateTo      time.Time
	Completed   bool
}

// ListQuery holds the filter, ordering and limit/offset window of a list call.
type ListQuery struct {
	Limit     int
	Offset    int
	Completed *bool
	SortBy    SortField
	Order     SortOrder
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
