package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnvFiles loads .env and .env.local from dir when present. Variables already
// set in the process environment win.
func LoadEnvFiles(dir string) error {
	var files []string
	for _, name := range []string{".env.local", ".env"} {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			files = append(files, p)
		}
	}
	if len(files) == 0 {
		return nil
	}
	return godotenv.Load(files...)
}

// ParseLogLevel returns the log level for a run: debug when verbose, else the
// GREAT_DOCS_LOG_LEVEL value, else info.
func ParseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("GREAT_DOCS_LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
