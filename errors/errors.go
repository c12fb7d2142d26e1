// Package errors provides error handling for hamops.
//
// This package re-exports github.com/cockroachdb/errors, providing stack
// traces, error wrapping with context and safe formatting, plus the
// sentinel errors shared across the service.
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrNotFound) {
//	    // handle not found
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
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
	WithHint     = crdb.WithHint
	WithDetail   = crdb.WithDetail
)

// Error inspection
var (
	Is     = crdb.Is
	IsAny  = crdb.IsAny
	As     = crdb.As
	Unwrap = crdb.Unwrap
)

// Common sentinel errors for use across hamops.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")

	// ErrInvalidRange indicates a frequency range with start above end
	ErrInvalidRange = New("invalid frequency range")

	// ErrUnavailable indicates a required dataset or upstream service is
	// not available
	ErrUnavailable = New("service unavailable")

	// ErrUnauthorized indicates the request lacks proper authentication
	ErrUnauthorized = New("unauthorized")

	// ErrTimeout indicates an operation timed out
	ErrTimeout = New("operation timed out")
)

// IsNotFound checks if an error is or wraps ErrNotFound
func IsNotFound(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequest checks if an error is or wraps ErrInvalidRequest or
// ErrInvalidRange, both of which map to a bad-request response.
func IsInvalidRequest(err error) bool {
	return err != nil && IsAny(err, ErrInvalidRequest, ErrInvalidRange)
}

// IsUnavailable checks if an error is or wraps ErrUnavailable
func IsUnavailable(err error) bool {
	return err != nil && Is(err, ErrUnavailable)
}

// NewInvalidRequestf creates an invalid-request error with a formatted message
func NewInvalidRequestf(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}

// NewNotFoundf creates a not-found error with a formatted message
func NewNotFoundf(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}
