package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(err)
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithCause sets the wrapped error.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.cause = err
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// WithContextMap adds multiple context values.
func (b *ErrorBuilder) WithContextMap(ctx ErrorContext) *ErrorBuilder {
	b.context = b.context.Merge(ctx)
	return b
}

// Fatal sets the severity to fatal.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	return b.WithSeverity(SeverityFatal)
}

// Warning sets the severity to warning.
func (b *ErrorBuilder) Warning() *ErrorBuilder {
	return b.WithSeverity(SeverityWarning)
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors for the failure modes of a run.

// DiscoveryError: package not found or unparsable. The build aborts.
func DiscoveryError(message string) *ErrorBuilder {
	return NewError(CategoryDiscovery, message).Fatal()
}

// ConfigFormatError: existing configuration is not a well-formed mapping. The build aborts.
func ConfigFormatError(message string) *ErrorBuilder {
	return NewError(CategoryConfigFormat, message).Fatal()
}

// EmptyCatalogWarning: nothing to document. Non-fatal.
func EmptyCatalogWarning(message string) *ErrorBuilder {
	return NewError(CategoryEmptyCatalog, message).Warning()
}

// ConfigError creates a project settings error (pyproject.toml, flags).
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// ValidationError creates an invalid-usage error.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal()
}

// FileSystemError creates a filesystem error.
func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message).Fatal()
}

// RenderError creates an error for a failed quartodoc/quarto invocation.
func RenderError(message string) *ErrorBuilder {
	return NewError(CategoryRender, message).Fatal()
}

// InternalError creates an internal error.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
