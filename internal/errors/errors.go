// Package errors provides centralized error definitions and error handling utilities
// for knockout. It defines domain-specific errors, semantic error types,
// error constructors with context wrapping, and error classification helpers.
//
// # Error Types
//
// Domain-specific errors represent errors from specific subsystems:
//   - RosterError: errors reading or validating a team roster
//   - BracketError: errors raised by the bracket engine (claims, resolves, runners)
//   - InputError: errors reading operator input in manual mode
//
// Semantic errors represent common error conditions:
//   - ValidationError: invalid input or parameters
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewRosterError("team count is not a power of two", errors.ErrTeamCount).
//		WithPath("equipe.txt")
//
//	err := errors.NewBracketError("resolve rejected", errors.ErrInvalidTransition).
//		WithMatch(3).WithTeam(5)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrTeamCount) { ... }
//
//	var bracketErr *errors.BracketError
//	if errors.As(err, &bracketErr) { ... }
//
//	if errors.IsUserFacing(err) { ... }
//
// # Error Classification
//
// Errors carry a severity and a user-facing flag. User-facing errors are
// printed verbatim by the CLI; everything else is reported as an internal
// failure and logged in full.
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
	// SeverityCritical is for broken invariants: the run cannot be trusted.
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

// Roster-related sentinel errors
var (
	// ErrRosterUnreadable indicates that the roster source could not be opened or read.
	ErrRosterUnreadable = New("roster unreadable")
	// ErrTeamCount indicates that the number of teams is not a power of two of at least 2.
	ErrTeamCount = New("team count must be a power of two")
	// ErrTooManyTeams indicates that the roster exceeds the configured maximum.
	ErrTooManyTeams = New("too many teams")
)

// Bracket-related sentinel errors
var (
	// ErrInvalidTransition indicates a status change that the bracket forbids,
	// such as resolving a team that is not playing.
	ErrInvalidTransition = New("invalid status transition")
	// ErrTeamNotFound indicates a team index outside the bracket.
	ErrTeamNotFound = New("team not found")
	// ErrDrawnResult indicates that an outcome generator returned a draw.
	ErrDrawnResult = New("match ended in a draw")
	// ErrBracketStalled indicates that no pairing can ever be claimed again
	// although matches remain to be played.
	ErrBracketStalled = New("bracket stalled")
)

// Operator-related sentinel errors
var (
	// ErrInputClosed indicates that operator input ended while a decision was required.
	ErrInputClosed = New("operator input closed")
)

// General sentinel errors
var (
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// KnockoutError is the base interface for all knockout errors.
// It extends the standard error interface with classification methods.
type KnockoutError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

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

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// format renders "<kind> [k=v, ...]: message: cause".
func (e *baseError) format(kind string, parts []string) string {
	prefix := kind
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", kind, strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// RosterError represents errors reading or validating a team roster.
//
// Example:
//
//	err := errors.NewRosterError("cannot open roster", errors.ErrRosterUnreadable)
//	err = err.WithPath("equipe.txt")
//	fmt.Println(err) // "roster error [path=equipe.txt]: cannot open roster: roster unreadable"
type RosterError struct {
	baseError
	Path string
	Line int
}

// NewRosterError creates a new RosterError.
func NewRosterError(message string, cause error) *RosterError {
	return &RosterError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithPath adds the roster path to the error context.
func (e *RosterError) WithPath(path string) *RosterError {
	e.Path = path
	return e
}

// WithLine adds a 1-based line number to the error context.
func (e *RosterError) WithLine(line int) *RosterError {
	e.Line = line
	return e
}

// Error returns the formatted error message.
func (e *RosterError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("line=%d", e.Line))
	}
	return e.format("roster error", parts)
}

// Is checks if this error matches the target.
func (e *RosterError) Is(target error) bool {
	if _, ok := target.(*RosterError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// BracketError represents errors raised by the bracket engine. Invariant
// violations are critical and never user-facing.
//
// Example:
//
//	err := errors.NewBracketError("resolve rejected", errors.ErrInvalidTransition)
//	err = err.WithMatch(3).WithTeam(5).WithRound(2)
type BracketError struct {
	baseError
	MatchID int
	Team    int
	Round   int
}

// NewBracketError creates a new BracketError.
func NewBracketError(message string, cause error) *BracketError {
	return &BracketError{
		baseError: baseError{
			message:  message,
			cause:    cause,
			severity: SeverityCritical,
		},
		Team: -1, // -1 indicates not set
	}
}

// WithMatch adds a match ID to the error context.
func (e *BracketError) WithMatch(id int) *BracketError {
	e.MatchID = id
	return e
}

// WithTeam adds a team index to the error context.
func (e *BracketError) WithTeam(team int) *BracketError {
	e.Team = team
	return e
}

// WithRound adds a round number to the error context.
func (e *BracketError) WithRound(round int) *BracketError {
	e.Round = round
	return e
}

// WithSeverity sets the error severity.
func (e *BracketError) WithSeverity(s Severity) *BracketError {
	e.severity = s
	return e
}

// WithUserFacing sets whether the error is safe to show users.
func (e *BracketError) WithUserFacing(u bool) *BracketError {
	e.userFacing = u
	return e
}

// Error returns the formatted error message.
func (e *BracketError) Error() string {
	var parts []string
	if e.MatchID > 0 {
		parts = append(parts, fmt.Sprintf("match=%d", e.MatchID))
	}
	if e.Team >= 0 {
		parts = append(parts, fmt.Sprintf("team=%d", e.Team))
	}
	if e.Round > 0 {
		parts = append(parts, fmt.Sprintf("round=%d", e.Round))
	}
	return e.format("bracket error", parts)
}

// Is checks if this error matches the target.
func (e *BracketError) Is(target error) bool {
	if _, ok := target.(*BracketError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// InputError represents a failure to obtain a decision from the operator.
//
// Example:
//
//	err := errors.NewInputError("no score entered", errors.ErrInputClosed).WithPrompt("score")
type InputError struct {
	baseError
	Prompt string
}

// NewInputError creates a new InputError.
func NewInputError(message string, cause error) *InputError {
	return &InputError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithPrompt adds the prompt that was waiting for input.
func (e *InputError) WithPrompt(prompt string) *InputError {
	e.Prompt = prompt
	return e
}

// Error returns the formatted error message.
func (e *InputError) Error() string {
	var parts []string
	if e.Prompt != "" {
		parts = append(parts, fmt.Sprintf("prompt=%s", e.Prompt))
	}
	return e.format("input error", parts)
}

// Is checks if this error matches the target.
func (e *InputError) Is(target error) bool {
	if _, ok := target.(*InputError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// ValidationError represents invalid input or parameters.
//
// Example:
//
//	err := errors.NewValidationError("must be between 0 and 1").
//		WithField("home_penalty").WithValue(1.5)
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
	return e.format("validation error", parts)
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
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end users.
// This checks for:
//   - Errors implementing KnockoutError with IsUserFacing() returning true
//   - ValidationError instances
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    fmt.Fprintln(os.Stderr, err)
//	} else {
//	    fmt.Fprintln(os.Stderr, "internal error, see the log for details")
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var knockoutErr KnockoutError
	if As(err, &knockoutErr) {
		return knockoutErr.IsUserFacing()
	}

	var validation *ValidationError
	return As(err, &validation)
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement KnockoutError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var knockoutErr KnockoutError
	if As(err, &knockoutErr) {
		return knockoutErr.Severity()
	}

	return SeverityError
}

// IsDomainError returns true if the error is a domain-specific error
// (RosterError, BracketError, or InputError).
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}

	var rosterErr *RosterError
	var bracketErr *BracketError
	var inputErr *InputError

	return As(err, &rosterErr) || As(err, &bracketErr) || As(err, &inputErr)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
// Unlike fmt.Errorf with %w, this returns nil for a nil error.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to write report")
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
//	err := errors.Wrapf(baseErr, "failed to play match %d", id)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
