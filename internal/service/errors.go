package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Kind classifies every error the service returns.
type Kind int

const (
	// KindInternal is the catch-all for failures the service cannot classify.
	KindInternal Kind = iota
	// KindValidation means the input was malformed or out of range; the store was not touched.
	KindValidation
	// KindNotFound means the referenced memo does not exist.
	KindNotFound
	// KindStorage means the underlying store failed.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFound"
	case KindStorage:
		return "DatabaseError"
	default:
		return "InternalError"
	}
}

// Error is the single error type returned by MemoService.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindValidation:
		return "Validation error: " + e.Message
	case KindNotFound:
		return "Not found: " + e.Message
	case KindStorage:
		return "Database error: " + e.Message
	default:
		return "Internal error: " + e.Message
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of err. Errors not produced by this package are KindInternal.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a KindNotFound error.
func IsNotFound(err error) bool { return err != nil && KindOf(err) == KindNotFound }

// IsValidation reports whether err is a KindValidation error.
func IsValidation(err error) bool { return err != nil && KindOf(err) == KindValidation }

// NewValidationError builds a KindValidation error with the given message.
func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func notFound(id uuid.UUID) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("Memo with id %s not found", id)}
}

func storageError(err error) *Error {
	return &Error{Kind: KindStorage, Message: err.Error(), Err: err}
}
