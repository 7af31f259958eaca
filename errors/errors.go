// Package errors provides error handling for attrbind.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for CLI users
//
// Binding an attribute application never returns an error: problems in user
// source are reported as diagnostics (see package diag). Errors from this
// package are for the surrounding tooling: fixture loading, configuration
// and the command line.
//
// Usage:
//
//	if err := loadFixture(path); err != nil {
//	    return errors.Wrapf(err, "failed to load fixture %s", path)
//	}
//
//	return errors.WithHint(err, "declare the type under 'types:' in the fixture")
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
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors shared across attrbind.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrInvalidFixture indicates a fixture file is malformed
	ErrInvalidFixture = New("invalid fixture")

	// ErrUnknownType indicates a fixture refers to a type it never declares
	ErrUnknownType = New("unknown type")

	// ErrInvalidConfig indicates the configuration failed validation
	ErrInvalidConfig = New("invalid configuration")

	// ErrBindFailed indicates at least one attribute application has errors
	ErrBindFailed = New("attribute binding reported errors")
)

// IsInvalidFixtureError checks if an error is or wraps ErrInvalidFixture
func IsInvalidFixtureError(err error) bool {
	return err != nil && Is(err, ErrInvalidFixture)
}

// IsUnknownTypeError checks if an error is or wraps ErrUnknownType
func IsUnknownTypeError(err error) bool {
	return err != nil && Is(err, ErrUnknownType)
}

// NewInvalidFixtureError creates an invalid-fixture error with a formatted message
func NewInvalidFixtureError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidFixture, Newf(format, args...).Error())
}

// NewUnknownTypeError creates an unknown-type error naming the missing type
func NewUnknownTypeError(name string) error {
	return Wrapf(ErrUnknownType, "%q", name)
}

// NewInvalidConfigError creates an invalid-config error with a formatted message
func NewInvalidConfigError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidConfig, Newf(format, args...).Error())
}
