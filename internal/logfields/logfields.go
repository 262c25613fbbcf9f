package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyPackage    = "package"
	KeyPath       = "path"
	KeyDocsDir    = "docs_dir"
	KeySection    = "section"
	KeyClass      = "class"
	KeyCount      = "count"
	KeyStrategy   = "strategy"
	KeyCommand    = "command"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Package(name string) slog.Attr   { return slog.String(KeyPackage, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func DocsDir(d string) slog.Attr      { return slog.String(KeyDocsDir, d) }
func Section(s string) slog.Attr      { return slog.String(KeySection, s) }
func Class(name string) slog.Attr     { return slog.String(KeyClass, name) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Strategy(s string) slog.Attr     { return slog.String(KeyStrategy, s) }
func Command(c string) slog.Attr      { return slog.String(KeyCommand, c) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
