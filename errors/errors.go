// Package errors provides error handling for tagweb.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints for CLI output
//
// Usage:
//
//	// Wrap with context
//	if err := snapshot.Validate(); err != nil {
//	    return errors.Wrap(err, "failed to load snapshot")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "strength must be between 0 and 1")
//
// The layout engine itself never returns errors. Errors only flow out of
// configuration loading, snapshot decoding, frame encoding and the server.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Sentinel errors. Wrap these with errors.Wrap() to add context while
// preserving the type for errors.Is() checks.
var (
	// ErrInvalidSnapshot indicates the host snapshot contains malformed entries
	ErrInvalidSnapshot = New("invalid snapshot")

	// ErrInvalidConfig indicates a configuration value is out of range
	ErrInvalidConfig = New("invalid configuration")

	// ErrUnsupportedFormat indicates an unknown file or output format
	ErrUnsupportedFormat = New("unsupported format")
)

// IsInvalidSnapshot checks if an error is or wraps ErrInvalidSnapshot
func IsInvalidSnapshot(err error) bool {
	return err != nil && Is(err, ErrInvalidSnapshot)
}

// IsInvalidConfig checks if an error is or wraps ErrInvalidConfig
func IsInvalidConfig(err error) bool {
	return err != nil && Is(err, ErrInvalidConfig)
}

// NewInvalidSnapshotError creates an invalid-snapshot error with a formatted message
func NewInvalidSnapshotError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidSnapshot, Newf(format, args...).Error())
}

// NewInvalidConfigError creates an invalid-config error with a formatted message
func NewInvalidConfigError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidConfig, Newf(format, args...).Error())
}

// NewUnsupportedFormatError creates an unsupported-format error naming the
// offending format and the accepted ones as a hint.
func NewUnsupportedFormatError(format string, supported ...string) error {
	err := Wrapf(ErrUnsupportedFormat, "%q", format)
	if len(supported) > 0 {
		err = WithHintf(err, "supported formats: %v", supported)
	}
	return err
}
