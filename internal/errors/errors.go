// Package errors provides a lightweight structured error type (PipelineError)
// for category-based classification across the mirror/repair/toc stages.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a pipeline error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Source repository errors (missing/unreadable sibling checkout)
	CategorySource ErrorCategory = "source"

	// Stage processing errors
	CategorySync       ErrorCategory = "sync"
	CategoryLinkRepair ErrorCategory = "link_repair"
	CategoryTOC        ErrorCategory = "toc"
	CategoryFileSystem ErrorCategory = "filesystem"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the whole pipeline
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded result
)

// PipelineError is a structured error with category, severity, and context
type PipelineError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for PipelineError
type ContextFields map[string]any

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *PipelineError) WithContext(key string, value any) *PipelineError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new PipelineError
func New(category ErrorCategory, severity ErrorSeverity, message string) *PipelineError {
	return &PipelineError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new PipelineError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *PipelineError {
	return &PipelineError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// MissingSource creates the fatal error for an absent or unreadable source root.
// The path is part of the message so an operator can fix the sibling checkout.
func MissingSource(name, path string, cause error) *PipelineError {
	e := &PipelineError{
		Category: CategorySource,
		Severity: SeverityFatal,
		Message:  fmt.Sprintf("source repository %q not found at %s", name, path),
		Cause:    cause,
	}
	return e.WithContext("source", name).WithContext("path", path)
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if pe, ok := err.(*PipelineError); ok {
		return pe.Category == category
	}
	return false
}

// IsFatal checks if an error should abort the whole pipeline
func IsFatal(err error) bool {
	if pe, ok := err.(*PipelineError); ok {
		return pe.Severity == SeverityFatal
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a PipelineError
func GetCategory(err error) ErrorCategory {
	if pe, ok := err.(*PipelineError); ok {
		return pe.Category
	}
	return CategoryInternal
}
