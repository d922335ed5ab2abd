// Package errors defines the categorized error types surfaced by the
// reconciliation core. Every externally visible failure carries a
// user-facing message; causes and stack traces are kept for logs.
package errors

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Category groups errors by which part of the pipeline produced them.
type Category string

const (
	CategoryParse       Category = "parse"
	CategoryMapping     Category = "mapping"
	CategoryMatching    Category = "matching"
	CategoryPersistence Category = "persistence"
	CategoryValidation  Category = "validation"
)

// Code identifies the specific failure within a category.
type Code string

const (
	CodeEmptyStatement    Code = "empty_statement"
	CodeUnreadableFile    Code = "unreadable_file"
	CodeMappingIncomplete Code = "mapping_incomplete"
	CodeLedgerUnavailable Code = "ledger_unavailable"
	CodeSaveFailed        Code = "save_failed"
	CodeStatusFailed      Code = "status_failed"
	CodeInvalidInput      Code = "invalid_input"
)

// Error is the base error type for all pipeline failures.
type Error struct {
	Category Category          `json:"category"`
	Code     Code              `json:"code"`
	Message  string            `json:"message"`
	Cause    error             `json:"-"`
	Stack    pkgerrors.StackTrace `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s/%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s/%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// UserMessage returns the message suitable for direct display. Causes are
// deliberately excluded; they belong in logs, not in the UI.
func (e *Error) UserMessage() string {
	return e.Message
}

// New creates an Error with a captured stack.
func New(category Category, code Code, message string) *Error {
	return newError(category, code, message, nil)
}

// Wrap creates an Error around a cause with a captured stack.
func Wrap(category Category, code Code, message string, cause error) *Error {
	return newError(category, code, message, cause)
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

func newError(category Category, code Code, message string, cause error) *Error {
	e := &Error{
		Category: category,
		Code:     code,
		Message:  message,
		Cause:    cause,
	}
	if st, ok := pkgerrors.WithStack(e).(stackTracer); ok {
		e.Stack = st.StackTrace()
	}
	return e
}

// NewParseFailure reports an unreadable or empty statement file. Blocking:
// no partial result is shown.
func NewParseFailure(message string) *Error {
	return New(CategoryParse, CodeEmptyStatement, message)
}

// NewMappingIncomplete reports unmapped required fields by their human
// labels. Blocks the save action.
func NewMappingIncomplete(missing []string) *Error {
	return New(CategoryMapping, CodeMappingIncomplete,
		fmt.Sprintf("required fields are not mapped: %s", strings.Join(missing, ", ")))
}

// NewMatchQueryFailure reports that the invoice ledger could not be
// queried. Matching is aborted; no partial matches are shown.
func NewMatchQueryFailure(cause error) *Error {
	return Wrap(CategoryMatching, CodeLedgerUnavailable,
		"could not fetch open invoices", cause)
}

// NewPersistenceFailure reports a failed save or status update. Retry is a
// manual user action.
func NewPersistenceFailure(operation string, cause error) *Error {
	code := CodeSaveFailed
	if operation == "set reconciliation status" {
		code = CodeStatusFailed
	}
	return Wrap(CategoryPersistence, code,
		fmt.Sprintf("could not %s", operation), cause)
}

// NewValidationError reports invalid caller input.
func NewValidationError(message string) *Error {
	return New(CategoryValidation, CodeInvalidInput, message)
}

// IsCategory reports whether err is an *Error of the given category.
func IsCategory(err error, category Category) bool {
	var e *Error
	if !pkgerrors.As(err, &e) {
		return false
	}
	return e.Category == category
}
