package version

import (
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if Version != "dev" {
		t.Logf("Version is: %s (expected 'dev' or version set via ldflags)", Version)
	}
}

func TestString_IncludesBuildInfo(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "great-docs ") {
		t.Fatalf("unexpected prefix: %q", s)
	}
	if !strings.Contains(s, GitCommit) || !strings.Contains(s, BuildTime) {
		t.Fatalf("build info missing from %q", s)
	}
}
