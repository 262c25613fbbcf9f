package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"
)

// ClassifiedError is a structured error with category, severity, and context.
type ClassifiedError struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// Error implements the standard error interface.
func (e *ClassifiedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.category, e.severity, e.message, e.cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.category, e.severity, e.message)
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *ClassifiedError) Unwrap() error {
	return e.cause
}

// Category returns the error category.
func (e *ClassifiedError) Category() ErrorCategory {
	return e.category
}

// Severity returns the error severity.
func (e *ClassifiedError) Severity() ErrorSeverity {
	return e.severity
}

// Message returns the error message without the cause.
func (e *ClassifiedError) Message() string {
	return e.message
}

// Cause returns the underlying error.
func (e *ClassifiedError) Cause() error {
	return e.cause
}

// Context returns the error context.
func (e *ClassifiedError) Context() ErrorContext {
	return e.context
}

// Is matches another ClassifiedError with the same category and message.
func (e *ClassifiedError) Is(target error) bool {
	if other, ok := target.(*ClassifiedError); ok {
		return e.category == other.category && e.message == other.message
	}
	return false
}

// IsFatal reports whether the error should stop execution.
func (e *ClassifiedError) IsFatal() bool {
	return e.severity == SeverityFatal
}

// LogAttrs renders the category and context as slog attributes, keys sorted.
func (e *ClassifiedError) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{slog.String("category", string(e.category))}
	keys := make([]string, 0, len(e.context))
	for k := range e.context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, e.context[k]))
	}
	if e.cause != nil {
		attrs = append(attrs, slog.String("cause", e.cause.Error()))
	}
	return attrs
}

// AsClassified finds the first ClassifiedError in err's chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// HasCategory checks if any error in the chain belongs to a category.
func HasCategory(err error, category ErrorCategory) bool {
	if classified, ok := AsClassified(err); ok {
		return classified.category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal.
func GetCategory(err error) ErrorCategory {
	if classified, ok := AsClassified(err); ok {
		return classified.Category()
	}
	return CategoryInternal
}

// IsWarning reports whether err is classified with warning or info severity.
func IsWarning(err error) bool {
	if classified, ok := AsClassified(err); ok {
		return classified.severity == SeverityWarning || classified.severity == SeverityInfo
	}
	return false
}
