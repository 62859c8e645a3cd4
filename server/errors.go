package server

import "github.com/teranos/tagweb/errors"

// Sentinel errors for request handling.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrInvalidRequest indicates a malformed HTTP request or client message
	ErrInvalidRequest = errors.New("invalid request")

	// ErrServiceUnavailable indicates the engine has stopped
	ErrServiceUnavailable = errors.New("service unavailable")
)

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && errors.Is(err, ErrInvalidRequest)
}

// IsServiceUnavailableError checks if an error is or wraps ErrServiceUnavailable
func IsServiceUnavailableError(err error) bool {
	return err != nil && errors.Is(err, ErrServiceUnavailable)
}

// WrapInvalidRequest wraps an error as an invalid-request error with context
func WrapInvalidRequest(err error, context string) error {
	return errors.Wrap(errors.Wrap(ErrInvalidRequest, err.Error()), context)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return errors.Wrap(ErrInvalidRequest, errors.Newf(format, args...).Error())
}
