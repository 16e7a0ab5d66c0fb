package tserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrUnknownVersion indicates a document declared an unrecognized TagSpec version.
	ErrUnknownVersion = errors.New("unknown tagspec version")

	// ErrResolution indicates an extends reference could not be resolved.
	ErrResolution = errors.New("resolution error")

	// ErrCycle indicates a circular extends chain was detected.
	ErrCycle = errors.New("extends cycle")

	// ErrValidation indicates a composed document violated structural
	// invariants. Violation details live on the validator result; this
	// sentinel exists so callers that need an error value (CLI exit paths,
	// tool handlers) can signal the condition with errors.Is support.
	ErrValidation = errors.New("validation failed")
)

// ValidationFailedError converts a violation count into an error that
// matches ErrValidation.
type ValidationFailedError struct {
	// Count is the number of violations found
	Count int
}

// Error returns a human-readable error message.
func (e *ValidationFailedError) Error() string {
	if e.Count == 1 {
		return "validation failed with 1 violation"
	}
	return fmt.Sprintf("validation failed with %d violations", e.Count)
}

// Is reports whether target matches this error type.
func (e *ValidationFailedError) Is(target error) bool {
	return target == ErrValidation
}

// ParseError represents a failure to parse a TagSpec document.
// This includes TOML/JSON/YAML deserialization errors and values whose shape
// is structurally invalid for their field (wrong value kind).
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Field is the dotted document path of the offending value, when known
	// (e.g., "libraries[0].tags[2].args")
	Field string
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Field != "" {
		msg += " at " + e.Field
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// UnknownVersionError represents a document declaring a TagSpec version
// that this library does not recognize.
type UnknownVersionError struct {
	// Version is the version string the document declared
	Version string
	// Supported lists the versions this library understands
	Supported []string
	// Path is the file path or source identifier, when known
	Path string
}

// Error returns a human-readable error message.
func (e *UnknownVersionError) Error() string {
	msg := fmt.Sprintf("unknown tagspec version %q", e.Version)
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if len(e.Supported) > 0 {
		msg += " (supported: " + strings.Join(e.Supported, ", ") + ")"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *UnknownVersionError) Is(target error) bool {
	return target == ErrUnknownVersion
}

// ResolutionError represents a failure to resolve an extends reference to a
// loadable document. This includes missing files, unreadable files, globs
// with I/O failures, and unsupported locator schemes.
type ResolutionError struct {
	// Ref is the extends reference string that failed to resolve
	Ref string
	// Base is the location of the document containing the reference, when known
	Base string
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ResolutionError) Error() string {
	msg := "resolution error"
	if e.Ref != "" {
		msg += fmt.Sprintf(" for %q", e.Ref)
	}
	if e.Base != "" {
		msg += " (referenced from " + e.Base + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolution
}

// CycleError represents a circular extends chain: a document was reached
// again while its own resolution was still in progress.
type CycleError struct {
	// Location is the resolved location that closed the cycle
	Location string
	// Chain is the ordered list of in-progress locations at the time the
	// cycle was detected, ending with the repeated location
	Chain []string
}

// Error returns a human-readable error message naming the full cycle.
func (e *CycleError) Error() string {
	if len(e.Chain) == 0 {
		return fmt.Sprintf("extends cycle at %s", e.Location)
	}
	return "extends cycle: " + strings.Join(e.Chain, " -> ")
}

// Is reports whether target matches this error type.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}
