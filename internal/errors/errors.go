// Package errors provides centralized error definitions and error handling
// utilities for ctsort. It defines sentinel errors for the failure modes of
// the categorization pipeline, domain error types carrying slice and
// recording context, and classification helpers that decide whether a
// failure skips one slice or stops a recording.
//
// # Error Types
//
// Domain-specific errors:
//   - SliceError: a failure tied to one slice file
//   - RecordingError: a failure tied to a whole recording
//
// Semantic errors:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//
// # Failure Policy
//
// The pipeline applies one policy per failure class:
//
//	ErrAttributeMissing     skip the slice silently, count it as skipped
//	ErrLabelUnrecognized    not an error, geometry is used instead
//	ErrPlaneMismatch        diagnostic only, counted
//	ErrCorruptSlice         skip the slice with a warning, count it as corrupt
//	ErrDirectoryUnavailable fatal for the recording
//	ErrRecordingLocked      fatal for the recording
//
// Use [IsSkippable] and [IsFatal] rather than matching sentinels by hand.
//
// # Usage
//
//	err := errors.NewSliceError("parse failed", errors.ErrCorruptSlice).
//	    WithPath("/data/MD1/recording3/s001.dcm").
//	    WithRecording("MD1/recording3")
//
//	if errors.IsSkippable(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Slice-level sentinel errors
var (
	// ErrAttributeMissing indicates a slice lacks orientation cosines or a
	// series description.
	ErrAttributeMissing = New("slice attribute missing")
	// ErrLabelUnrecognized indicates a series description names no plane.
	ErrLabelUnrecognized = New("series description names no plane")
	// ErrPlaneMismatch indicates geometry and label disagree.
	ErrPlaneMismatch = New("geometric plane disagrees with label")
	// ErrCorruptSlice indicates a file could not be parsed as a slice at all.
	ErrCorruptSlice = New("slice file is corrupt")
)

// Recording-level sentinel errors
var (
	// ErrRecordingNotFound indicates the input directory of a recording does not exist.
	ErrRecordingNotFound = New("recording not found")
	// ErrRecordingLocked indicates another process holds the recording's run lock.
	ErrRecordingLocked = New("recording is locked by another run")
	// ErrDirectoryUnavailable indicates an output directory cannot be created or written.
	ErrDirectoryUnavailable = New("output directory unavailable")
)

// ErrInvalidInput indicates that input validation failed.
var ErrInvalidInput = New("invalid input")

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// CTSortError is the base interface for all ctsort errors.
type CTSortError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message  string
	cause    error
	severity Severity
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// formatWithContext renders "<kind> [k=v, ...]: message: cause".
func formatWithContext(kind string, parts []string, message string, cause error) string {
	prefix := kind
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", kind, strings.Join(parts, ", "))
	}
	if cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, message, cause)
	}
	return fmt.Sprintf("%s: %s", prefix, message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// SliceError represents a failure tied to a single slice file.
//
// Example:
//
//	err := errors.NewSliceError("cannot read header", errors.ErrCorruptSlice).
//	    WithPath("s001.dcm")
//	fmt.Println(err) // "slice error [path=s001.dcm]: cannot read header: slice file is corrupt"
type SliceError struct {
	baseError
	Path      string
	Recording string
}

// NewSliceError creates a new SliceError. Slice errors default to warning
// severity because the pipeline continues with the next slice.
func NewSliceError(message string, cause error) *SliceError {
	return &SliceError{
		baseError: baseError{
			message:  message,
			cause:    cause,
			severity: SeverityWarning,
		},
	}
}

// WithPath adds the slice file path to the error context.
func (e *SliceError) WithPath(path string) *SliceError {
	e.Path = path
	return e
}

// WithRecording adds the recording name to the error context.
func (e *SliceError) WithRecording(name string) *SliceError {
	e.Recording = name
	return e
}

// WithSeverity sets the error severity.
func (e *SliceError) WithSeverity(s Severity) *SliceError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *SliceError) Error() string {
	var parts []string
	if e.Recording != "" {
		parts = append(parts, fmt.Sprintf("recording=%s", e.Recording))
	}
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	return formatWithContext("slice error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *SliceError) Is(target error) bool {
	if _, ok := target.(*SliceError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// RecordingError represents a failure that stops processing of a recording.
//
// Example:
//
//	err := errors.NewRecordingError("cannot create plane directory", errors.ErrDirectoryUnavailable).
//	    WithRecording("MD1", 3).WithDir("/out/MD1/recording3/axial")
type RecordingError struct {
	baseError
	Set    string
	Number int
	Dir    string
}

// NewRecordingError creates a new RecordingError.
func NewRecordingError(message string, cause error) *RecordingError {
	return &RecordingError{
		baseError: baseError{
			message:  message,
			cause:    cause,
			severity: SeverityError,
		},
	}
}

// WithRecording adds the recording set and number to the error context.
func (e *RecordingError) WithRecording(set string, number int) *RecordingError {
	e.Set = set
	e.Number = number
	return e
}

// WithDir adds the directory involved in the failure.
func (e *RecordingError) WithDir(dir string) *RecordingError {
	e.Dir = dir
	return e
}

// Error returns the formatted error message.
func (e *RecordingError) Error() string {
	var parts []string
	if e.Set != "" {
		parts = append(parts, fmt.Sprintf("recording=%s/recording%d", e.Set, e.Number))
	}
	if e.Dir != "" {
		parts = append(parts, fmt.Sprintf("dir=%s", e.Dir))
	}
	return formatWithContext("recording error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *RecordingError) Is(target error) bool {
	if _, ok := target.(*RecordingError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("recording set", "MD3")
//	fmt.Println(err) // "recording set 'MD3' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:  fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity: SeverityWarning,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("recording number out of range").
//	    WithField("recording").WithValue(30)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:  message,
			severity: SeverityWarning,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	return formatWithContext("validation error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsSkippable returns true if the error affects only one slice and the
// pipeline should move on to the next one.
func IsSkippable(err error) bool {
	if err == nil {
		return false
	}
	return Is(err, ErrCorruptSlice) || Is(err, ErrAttributeMissing)
}

// IsFatal returns true if the error must stop processing of the current
// recording.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return Is(err, ErrDirectoryUnavailable) || Is(err, ErrRecordingLocked) ||
		Is(err, ErrRecordingNotFound)
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement CTSortError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var ctErr CTSortError
	if As(err, &ctErr) {
		return ctErr.Severity()
	}
	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
