package errors

import "maps"

// ErrorCategory represents the broad category of an error for classification and exit codes.
type ErrorCategory string

const (
	// CategoryDiscovery covers package location and source parsing failures.
	CategoryDiscovery ErrorCategory = "discovery"
	// CategoryConfigFormat covers an existing configuration document that cannot be merged into.
	CategoryConfigFormat ErrorCategory = "config_format"
	// CategoryEmptyCatalog marks a discovery run that found nothing to document.
	CategoryEmptyCatalog ErrorCategory = "empty_catalog"

	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryRender     ErrorCategory = "render"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution completely
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded output
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// Merge combines two contexts, with other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	result := make(ErrorContext, len(c)+len(other))
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}
