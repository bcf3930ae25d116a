package model

import (
	"time"

	"github.com/google/uuid"
)

// Memo is a single to-do style record with a due date and a completion flag.
// This is a pure domain model with no database-specific dependencies or tags.
// Description is nil when the memo has none.
type Memo struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	DateTo      time.Time `json:"date_to"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
