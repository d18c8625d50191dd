package apperror

import "net/http"

// AppError is a domain error that carries the HTTP status code it maps to.
type AppError struct {
	Code    int    // HTTP status code (e.g. 400, 404, 409)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to the user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Unavailable wraps an infrastructure fault (store unreachable, pool closed).
// These are the only failures surfaced as 503 rather than a caller mistake.
func Unavailable(err error) *AppError {
	return Wrap(err, http.StatusServiceUnavailable, "service temporarily unavailable")
}
