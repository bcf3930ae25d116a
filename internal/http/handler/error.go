package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"memoapi/internal/http/middleware"
	"memoapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// kindStatus maps every service error kind to its HTTP status and error code.
var kindStatus = map[service.Kind]struct {
	status int
	code   string
}{
	service.KindValidation: {fiber.StatusBadRequest, "VALIDATION_ERROR"},
	service.KindNotFound:   {fiber.StatusNotFound, "NOT_FOUND"},
	service.KindStorage:    {fiber.StatusInternalServerError, "DATABASE_ERROR"},
	service.KindInternal:   {fiber.StatusInternalServerError, "INTERNAL_ERROR"},
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// statusForError resolves the status, code and client-safe message for a service error.
// Storage and internal failures never expose their cause.
func statusForError(err error) (int, string, string) {
	kind := service.KindOf(err)
	entry, ok := kindStatus[kind]
	if !ok {
		entry = kindStatus[service.KindInternal]
	}

	msg := "internal server error"
	var se *service.Error
	if entry.status < fiber.StatusInternalServerError && errors.As(err, &se) {
		msg = se.Message
	}
	return entry.status, entry.code, msg
}

// handleServiceError logs err at the level its status warrants and writes the error body.
func handleServiceError(c *fiber.Ctx, log *slog.Logger, err error) error {
	status, code, msg := statusForError(err)

	attrs := []any{
		slog.String("request_id", requestIDFromCtx(c)),
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.Int("status", status),
		slog.String("kind", service.KindOf(err).String()),
		slog.Any("error", err),
	}
	if status >= fiber.StatusInternalServerError {
		log.ErrorContext(c.UserContext(), "request_failed", attrs...)
	} else {
		log.WarnContext(c.UserContext(), "request_rejected", attrs...)
	}
	return writeError(c, status, code, msg)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		case fiber.StatusTooManyRequests:
			return writeError(c, status, "RATE_LIMITED", "too many requests")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
