package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// DefaultApplier applies defaults for one configuration domain.
type DefaultApplier interface {
	ApplyDefaults(s *Settings)
	Domain() string
}

// ToolDefaultApplier fills the [tool.great-docs] defaults.
type ToolDefaultApplier struct{}

func (ToolDefaultApplier) Domain() string { return "tool" }

func (ToolDefaultApplier) ApplyDefaults(s *Settings) {
	if m := NormalizeDiscoveryMethod(string(s.Tool.DiscoveryMethod)); m != "" {
		s.Tool.DiscoveryMethod = m
	} else {
		slog.Warn("Unknown discovery_method, using dir", "value", s.Tool.DiscoveryMethod)
		s.Tool.DiscoveryMethod = DiscoveryDir
	}
	if s.Tool.Threshold <= 0 {
		s.Tool.Threshold = DefaultThreshold
	}
	if s.Tool.Source.Placement == "" {
		s.Tool.Source.Placement = "usage"
	}
}

// EnvOverrideApplier applies GREAT_DOCS_* environment overrides. Runs last.
type EnvOverrideApplier struct{}

func (EnvOverrideApplier) Domain() string { return "env" }

func (EnvOverrideApplier) ApplyDefaults(s *Settings) {
	if raw := os.Getenv("GREAT_DOCS_THRESHOLD"); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n <= 0 {
			slog.Warn("Ignoring invalid GREAT_DOCS_THRESHOLD", "value", raw)
		} else {
			s.Tool.Threshold = n
		}
	}
	if raw := os.Getenv("GREAT_DOCS_DISCOVERY_METHOD"); raw != "" {
		if m := NormalizeDiscoveryMethod(raw); m != "" {
			s.Tool.DiscoveryMethod = m
		} else {
			slog.Warn("Ignoring invalid GREAT_DOCS_DISCOVERY_METHOD", "value", raw)
		}
	}
}

func defaultAppliers() []DefaultApplier {
	return []DefaultApplier{ToolDefaultApplier{}, EnvOverrideApplier{}}
}

// ApplyDefaults runs every applier in order.
func ApplyDefaults(s *Settings) {
	for _, a := range defaultAppliers() {
		a.ApplyDefaults(s)
	}
}
