package middleware

import "github.com/gofiber/fiber/v2"

// ErrorLocalKey holds an internal error behind a 500 so the access log can record it.
const ErrorLocalKey = "error"

// ErrorPayload defines the standardized error response body.
type ErrorPayload struct {
	RequestID string        `json:"request_id"`
	Error     ErrorEnvelope `json:"error"`
}

// ErrorEnvelope carries a machine-readable code and a safe message.
// Fields is only set for validation failures.
type ErrorEnvelope struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// FieldError names one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RequestIDFromCtx extracts request_id previously stored by RequestID.
func RequestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WriteError writes a standardized JSON error response without leaking internal errors.
func WriteError(c *fiber.Ctx, status int, code, message string, fields ...FieldError) error {
	res := ErrorPayload{
		RequestID: RequestIDFromCtx(c),
		Error: ErrorEnvelope{
			Code:    code,
			Message: message,
			Fields:  fields,
		},
	}
	return c.Status(status).JSON(res)
}

// statusOf returns the status the client will see. Errors returned up the
// chain have not been rendered by the ErrorHandler yet.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	if fiberErr, ok := err.(*fiber.Error); ok {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}
