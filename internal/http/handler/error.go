package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"nexuspro/internal/auth"
	"nexuspro/internal/http/middleware"
	"nexuspro/internal/service"
)

type errorPayload = middleware.ErrorPayload

// errorMapping ties a service error to its HTTP status and machine code.
type errorMapping struct {
	err    error
	status int
	code   string
}

// errorTable is checked in order with errors.Is. The access errors share a
// message but not an identity, so each keeps its own status.
var errorTable = []errorMapping{
	{service.ErrEmailTaken, fiber.StatusConflict, "EMAIL_TAKEN"},
	{service.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{service.ErrAccountUnconfirmed, fiber.StatusUnauthorized, "ACCOUNT_UNCONFIRMED"},
	{service.ErrAlreadyConfirmed, fiber.StatusForbidden, "ALREADY_CONFIRMED"},
	{service.ErrInvalidPassword, fiber.StatusUnauthorized, "INVALID_PASSWORD"},
	{service.ErrInvalidToken, fiber.StatusNotFound, "INVALID_TOKEN"},
	{auth.ErrPasswordTooLong, fiber.StatusBadRequest, "PASSWORD_TOO_LONG"},

	{service.ErrProjectNotFound, fiber.StatusNotFound, "PROJECT_NOT_FOUND"},
	{service.ErrTaskNotFound, fiber.StatusNotFound, "TASK_NOT_FOUND"},
	{service.ErrNoteNotFound, fiber.StatusNotFound, "NOTE_NOT_FOUND"},
	{service.ErrAttachmentNotFound, fiber.StatusNotFound, "ATTACHMENT_NOT_FOUND"},
	{service.ErrInvalidStatus, fiber.StatusBadRequest, "INVALID_STATUS"},

	{service.ErrNoAccess, fiber.StatusNotFound, "INVALID_ACTION"},
	{service.ErrNotManager, fiber.StatusBadRequest, "INVALID_ACTION"},
	{service.ErrTaskProjectMismatch, fiber.StatusBadRequest, "INVALID_ACTION"},
	{service.ErrNotAuthor, fiber.StatusUnauthorized, "INVALID_ACTION"},
	{service.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},

	{service.ErrMemberExists, fiber.StatusConflict, "MEMBER_EXISTS"},
	{service.ErrMemberMissing, fiber.StatusConflict, "MEMBER_MISSING"},
	{service.ErrManagerMember, fiber.StatusConflict, "MANAGER_MEMBER"},

	{service.ErrIDRequired, fiber.StatusBadRequest, "ID_REQUIRED"},
	{service.ErrReaderNil, fiber.StatusBadRequest, "FILE_REQUIRED"},
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return middleware.WriteError(c, status, code, message)
}

// respondError translates err into the error envelope. Unknown errors become
// a 500 and are handed to the access log.
func respondError(c *fiber.Ctx, err error) error {
	var vErr *validationError
	if errors.As(err, &vErr) {
		return middleware.WriteError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "validation failed", vErr.fields...)
	}
	if errors.Is(err, errBadBody) {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
	}
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return writeError(c, m.status, m.code, m.err.Error())
		}
	}
	c.Locals(middleware.ErrorLocalKey, err)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
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
		default:
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
	}
}
