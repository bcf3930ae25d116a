// Package dto holds the request and response shapes exchanged with the HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"

	"memoapi/internal/model"
)

const (
	DefaultLimit  = 10
	DefaultOffset = 0
	DefaultSortBy = "created_at"
	DefaultOrder  = "desc"
)

// CreateMemoRequest is the body of POST /api/v1/memos.
type CreateMemoRequest struct {
	Title       string    `json:"title" validate:"min=1,max=200"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=1000"`
	DateTo      time.Time `json:"date_to" validate:"required"`
}

// UpdateMemoRequest is the body of PUT /api/v1/memos/{id}. Every field is replaced.
type UpdateMemoRequest struct {
	Title       string    `json:"title" validate:"min=1,max=200"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=1000"`
	DateTo      time.Time `json:"date_to" validate:"required"`
	Completed   *bool     `json:"completed" validate:"required"`
}

// PatchMemoRequest is the body of PATCH /api/v1/memos/{id}.
// A nil field leaves the stored value unchanged.
type PatchMemoRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	DateTo      *time.Time `json:"date_to,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
}

// MemoForm is the web form as posted. DateTo stays raw until the text fields pass validation.
type MemoForm struct {
	Title       string `json:"title" validate:"min=1,max=200"`
	Description string `json:"description" validate:"max=1000"`
	DateTo      string `json:"date_to"`
	Completed   bool   `json:"completed"`
}

// PaginationParams are the list query parameters. Nil means "use the default".
type PaginationParams struct {
	Limit     *int    `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Offset    *int    `json:"offset,omitempty" validate:"omitempty,min=0"`
	Completed *bool   `json:"completed,omitempty"`
	SortBy    *string `json:"sort_by,omitempty" validate:"omitempty,max=50"`
	Order     *string `json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
}

// DefaultPagination is what the HTML index page lists.
func DefaultPagination() PaginationParams {
	limit, offset := DefaultLimit, DefaultOffset
	sortBy, order := DefaultSortBy, DefaultOrder
	return PaginationParams{
		Limit:  &limit,
		Offset: &offset,
		SortBy: &sortBy,
		Order:  &order,
	}
}

// MemoResponse is the outbound representation of a memo.
type MemoResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	DateTo      time.Time `json:"date_to"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PaginatedResponse wraps one page of results with the window that produced it.
type PaginatedResponse[T any] struct {
	Data   []T `json:"data"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// FromModel converts a stored memo into its response shape.
func FromModel(m *model.Memo) MemoResponse {
	return MemoResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		DateTo:      m.DateTo,
		Completed:   m.Completed,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
