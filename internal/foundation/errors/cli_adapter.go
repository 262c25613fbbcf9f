package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates a new CLI error adapter writing user messages to stderr.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
	}
}

// WithOutput redirects user-facing messages (tests).
func (a *CLIErrorAdapter) WithOutput(w io.Writer) *CLIErrorAdapter {
	a.out = w
	return a
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	classified, ok := AsClassified(err)
	if !ok {
		return 1
	}
	if classified.Severity() == SeverityWarning || classified.Severity() == SeverityInfo {
		return 0
	}
	switch classified.Category() {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryDiscovery:
		return 3 // Package not found / unparsable
	case CategoryConfigFormat:
		return 4 // Existing configuration unusable
	case CategoryConfig:
		return 7
	case CategoryFileSystem:
		return 11
	case CategoryRender:
		return 12 // quartodoc / quarto failed
	case CategoryInternal:
		return 10
	default:
		return 1
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return classified.Error()
	}
	switch classified.Category() {
	case CategoryInternal:
		return "Internal error occurred (use -v for details)"
	case CategoryEmptyCatalog:
		return "Warning: " + classified.Message()
	}
	return "Error: " + classified.Message()
}

// Report logs err, prints the user-facing message and returns the exit code.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return 0
	}
	a.logError(err)
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}

// HandleError reports err and exits the process when the exit code is non-zero.
func (a *CLIErrorAdapter) HandleError(err error) {
	if code := a.Report(err); code != 0 {
		os.Exit(code)
	}
}

func (a *CLIErrorAdapter) logError(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	a.logger.LogAttrs(context.Background(), a.slogLevelFromSeverity(classified.Severity()),
		classified.Message(), classified.LogAttrs()...)
}

func (a *CLIErrorAdapter) slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
