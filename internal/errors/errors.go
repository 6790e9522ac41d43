// Package errors provides centralized error definitions and error handling utilities
// for the cobalt codebase. It defines domain-specific errors, semantic error types,
// error constructors with context wrapping, and error classification helpers.
//
// # Error Types
//
// The package provides two categories of errors:
//
// Domain-specific errors represent errors from specific subsystems:
//   - PlanningError: expected planning failures (unrealizable goals, dead ends)
//   - InvariantError: violated construction invariants of domain values
//   - CatalogError: errors loading, validating or storing widget catalogues
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//   - TimeoutError: operation timed out
//
// # Usage
//
// Creating errors:
//
//	// Domain-specific error
//	err := errors.NewPlanningError("cannot satisfy any action", errors.ErrNoViableExtension)
//
//	// Semantic error
//	err := errors.NewNotFoundError("widget", "urn:widget:map")
//
//	// With context wrapping
//	err := errors.NewCatalogError("parse failed", baseErr).WithPath("catalog.yaml")
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrGoalUnrealizable) { ... }
//
//	var planningErr *errors.PlanningError
//	if errors.As(err, &planningErr) { ... }
//
// # Error Classification
//
// Errors can be classified by severity and behavior:
//   - Retryable: transient errors that may succeed on retry
//   - UserFacing: errors safe to display to users (vs internal errors)
//   - Severity: Debug, Info, Warning, Error, Critical
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
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
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
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
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Planning-related sentinel errors
var (
	// ErrGoalUnrealizable indicates that no known offers realize every goal.
	ErrGoalUnrealizable = New("goal cannot be realized")
	// ErrNoViableExtension indicates that a graph extension found no action provisions.
	ErrNoViableExtension = New("no viable extension")
	// ErrPlanningDone indicates that a planning process has no work left.
	ErrPlanningDone = New("planning process is done")
	// ErrDepthExceeded indicates that the target depth exceeded the maximum depth.
	ErrDepthExceeded = New("maximal plan depth exceeded")
	// ErrPlanInvalid indicates that a graph is not a concrete plan.
	ErrPlanInvalid = New("plan is invalid")
)

// Model-related sentinel errors
var (
	// ErrOverlappingPropositions indicates a property that is both cleared and filled.
	ErrOverlappingPropositions = New("property both cleared and filled")
	// ErrNotComposable indicates an attempt to compose a non-composable action set.
	ErrNotComposable = New("actions are not composable")
	// ErrForeignWidget indicates two actions that belong to different widgets.
	ErrForeignWidget = New("actions belong to different widgets")
	// ErrInvalidProvision indicates a provision that violates its construction rules.
	ErrInvalidProvision = New("invalid provision")
	// ErrInvalidLevel indicates a level that cannot be built or cannot extend a graph.
	ErrInvalidLevel = New("invalid level")
)

// Catalog-related sentinel errors
var (
	// ErrCatalogNotFound indicates that a catalogue file or store is missing.
	ErrCatalogNotFound = New("catalog not found")
	// ErrCatalogCorrupted indicates that catalogue data cannot be decoded.
	ErrCatalogCorrupted = New("catalog data corrupted")
	// ErrUnknownReference indicates a reference to an undeclared type, task or functionality.
	ErrUnknownReference = New("unknown reference")
	// ErrUnsupportedDriver indicates an unknown SQL driver name.
	ErrUnsupportedDriver = New("unsupported store driver")
)

// General sentinel errors
var (
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// CobaltError is the base interface for all cobalt errors.
// It extends the standard error interface with additional methods for
// error handling and classification.
type CobaltError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	// This is used by errors.Is() for error comparison.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
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

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// Message returns the message without context or cause.
func (e *baseError) Message() string {
	return e.message
}

// formatWithContext renders "prefix [k=v, ...]: message: cause".
func (e *baseError) formatWithContext(prefix string, parts []string) string {
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", prefix, strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// PlanningError represents an expected failure of a planning run: the goal
// cannot be realized or the graph cannot be advanced. It is surfaced to callers
// and does not indicate a bug.
//
// Example:
//
//	err := errors.NewPlanningError("cannot satisfy any action", errors.ErrNoViableExtension)
//	err = err.WithDepth(3)
//	fmt.Println(err) // "planning error [depth=3]: cannot satisfy any action: no viable extension"
type PlanningError struct {
	baseError
	Depth int
	Phase string
}

// NewPlanningError creates a new PlanningError.
func NewPlanningError(message string, cause error) *PlanningError {
	return &PlanningError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		Depth: -1, // -1 indicates not set
	}
}

// WithDepth adds the graph depth at which planning failed.
func (e *PlanningError) WithDepth(depth int) *PlanningError {
	e.Depth = depth
	return e
}

// WithPhase adds a phase name (create, extend, extract) to the error context.
func (e *PlanningError) WithPhase(phase string) *PlanningError {
	e.Phase = phase
	return e
}

// Error returns the formatted error message.
func (e *PlanningError) Error() string {
	var parts []string
	if e.Depth >= 0 {
		parts = append(parts, fmt.Sprintf("depth=%d", e.Depth))
	}
	if e.Phase != "" {
		parts = append(parts, fmt.Sprintf("phase=%s", e.Phase))
	}
	return e.formatWithContext("planning error", parts)
}

// Is checks if this error matches the target.
func (e *PlanningError) Is(target error) bool {
	if _, ok := target.(*PlanningError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// InvariantError represents a violated construction invariant of a domain value,
// such as overlapping cleared and filled properties or composing actions that
// are not composable. It always matches ErrInvalidInput.
//
// Example:
//
//	err := errors.NewInvariantError("expecting disjoint propositions", errors.ErrOverlappingPropositions)
//	err = err.WithSubject("title:string")
type InvariantError struct {
	baseError
	Subject string
}

// NewInvariantError creates a new InvariantError.
func NewInvariantError(message string, cause error) *InvariantError {
	return &InvariantError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: false,
		},
	}
}

// WithSubject names the value that violated the invariant.
func (e *InvariantError) WithSubject(subject string) *InvariantError {
	e.Subject = subject
	return e
}

// Error returns the formatted error message.
func (e *InvariantError) Error() string {
	var parts []string
	if e.Subject != "" {
		parts = append(parts, fmt.Sprintf("subject=%s", e.Subject))
	}
	return e.formatWithContext("invariant error", parts)
}

// Is checks if this error matches the target.
func (e *InvariantError) Is(target error) bool {
	if _, ok := target.(*InvariantError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// CatalogError represents errors loading, validating or storing a widget catalogue.
//
// Example:
//
//	err := errors.NewCatalogError("failed to decode catalog", yamlErr)
//	err = err.WithPath("widgets/map.yaml").WithWidget("urn:widget:map")
type CatalogError struct {
	baseError
	Path   string
	Widget string
}

// NewCatalogError creates a new CatalogError.
func NewCatalogError(message string, cause error) *CatalogError {
	return &CatalogError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithPath adds a file path to the error context.
func (e *CatalogError) WithPath(path string) *CatalogError {
	e.Path = path
	return e
}

// WithWidget adds a widget identifier to the error context.
func (e *CatalogError) WithWidget(widget string) *CatalogError {
	e.Widget = widget
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *CatalogError) WithRetryable(r bool) *CatalogError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *CatalogError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	if e.Widget != "" {
		parts = append(parts, fmt.Sprintf("widget=%s", e.Widget))
	}
	return e.formatWithContext("catalog error", parts)
}

// Is checks if this error matches the target.
func (e *CatalogError) Is(target error) bool {
	if _, ok := target.(*CatalogError); ok {
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
//	err := errors.NewNotFoundError("widget", "urn:widget:map")
//	fmt.Println(err) // "widget 'urn:widget:map' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
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
//	err := errors.NewValidationError("minimum depth must be at least 1")
//	err = err.WithField("minDepth").WithValue(0)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
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

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
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
	return e.formatWithContext("validation error", parts)
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

// TimeoutError represents an operation that timed out.
//
// Example:
//
//	err := errors.NewTimeoutError("connecting to broker", 10*time.Second)
//	fmt.Println(err) // "timeout error: connecting to broker (timeout: 10s)"
type TimeoutError struct {
	baseError
	Operation string
	Duration  time.Duration
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string, duration time.Duration) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{
			message:    operation,
			severity:   SeverityWarning,
			retryable:  true, // Timeouts are generally retryable
			userFacing: true,
		},
		Operation: operation,
		Duration:  duration,
	}
}

// WithCause adds a cause to the error.
func (e *TimeoutError) WithCause(cause error) *TimeoutError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *TimeoutError) Error() string {
	base := fmt.Sprintf("timeout error: %s (timeout: %s)", e.Operation, e.Duration)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *TimeoutError) Is(target error) bool {
	if _, ok := target.(*TimeoutError); ok {
		return true
	}
	if errors.Is(target, ErrTimeout) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry. This checks for:
//   - Errors implementing CobaltError with IsRetryable() returning true
//   - Errors wrapping ErrTimeout
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var cobaltErr CobaltError
	if As(err, &cobaltErr) {
		return cobaltErr.IsRetryable()
	}

	return Is(err, ErrTimeout)
}

// IsUserFacing returns true if the error message is safe to display to end users.
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    writeError(w, err.Error())
//	} else {
//	    writeError(w, "internal error")
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var cobaltErr CobaltError
	if As(err, &cobaltErr) {
		return cobaltErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement CobaltError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var cobaltErr CobaltError
	if As(err, &cobaltErr) {
		return cobaltErr.Severity()
	}

	return SeverityError
}

// IsPlanningFailure returns true if the error is an expected planning failure
// rather than a bug or an infrastructure problem.
func IsPlanningFailure(err error) bool {
	if err == nil {
		return false
	}
	var planningErr *PlanningError
	return As(err, &planningErr)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
// Unlike fmt.Errorf with %w, this preserves the CobaltError interface.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to load catalog")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to query offers for %s", request)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Invalidf returns an error wrapping ErrInvalidInput for programmer precondition
// violations such as extending a satisfied graph.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}
