// Package errors provides error handling for typomatic.
//
// It re-exports github.com/cockroachdb/errors so every package wraps, hints
// and inspects errors the same way:
//
//	if err := em.Flush(path, ctx, opts); err != nil {
//	    return errors.Wrapf(err, "failed to flush context %s", ctx)
//	}
//
//	return errors.WithHint(ErrConflictingSelection, "drop --all or --serializers")
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
	Is            = crdb.Is
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

// Sentinel errors. Wrap them with errors.Wrap to add context while keeping
// errors.Is working.
var (
	// ErrConflictingSelection is returned when both an explicit specifier
	// list and the all-packages mode are requested in one invocation.
	ErrConflictingSelection = New("only --all or --serializers may be specified, not both")

	// ErrInvalidSpecifier marks a specifier that cannot be parsed (empty
	// string or empty dot segment).
	ErrInvalidSpecifier = New("invalid specifier")

	// ErrInvalidConfig marks configuration that fails validation.
	ErrInvalidConfig = New("invalid configuration")

	// ErrNoHostRegistry is returned when all-packages mode is requested but
	// no package registry was wired into the orchestrator.
	ErrNoHostRegistry = New("no package registry configured")
)

// IsConfigurationError reports whether err is one of the fatal, reported
// before resolution, configuration errors.
func IsConfigurationError(err error) bool {
	if err == nil {
		return false
	}
	return Is(err, ErrConflictingSelection) ||
		Is(err, ErrInvalidSpecifier) ||
		Is(err, ErrInvalidConfig) ||
		Is(err, ErrNoHostRegistry)
}

// NewInvalidSpecifierError creates an invalid-specifier error naming the
// offending input.
func NewInvalidSpecifierError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidSpecifier, Newf(format, args...).Error())
}

// NewInvalidConfigError creates an invalid-config error with a formatted message.
func NewInvalidConfigError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidConfig, Newf(format, args...).Error())
}
