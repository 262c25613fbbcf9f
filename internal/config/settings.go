// Package config resolves the project settings great-docs works from: the package
// name and metadata in pyproject.toml (or setup.py), the [tool.great-docs] table, and
// environment overrides loaded from .env files.
package config

import (
	"strings"

	"github.com/rich-iannone/great-docs/internal/foundation"
)

// DefaultThreshold is the method count above which a class gets its own methods section.
const DefaultThreshold = 5

// DiscoveryMethod selects the API discovery strategy.
type DiscoveryMethod string

const (
	// DiscoveryDir statically analyses every public name of the package (the default).
	DiscoveryDir DiscoveryMethod = "dir"
	// DiscoveryAll uses the explicit __all__ export list.
	DiscoveryAll DiscoveryMethod = "all"
)

var discoveryMethods = foundation.NewNormalizer(map[string]DiscoveryMethod{
	"":        DiscoveryDir,
	"dir":     DiscoveryDir,
	"all":     DiscoveryAll,
	"__all__": DiscoveryAll,
})

// NormalizeDiscoveryMethod returns the canonical method or "" when unrecognised.
func NormalizeDiscoveryMethod(raw string) DiscoveryMethod {
	return discoveryMethods.Normalize(raw)
}

// Person is an author or maintainer entry. The fields after Email only appear in
// [tool.great-docs] authors.
type Person struct {
	Name        string `toml:"name"`
	Email       string `toml:"email"`
	Role        string `toml:"role"`
	Affiliation string `toml:"affiliation"`
	GitHub      string `toml:"github"`
	Homepage    string `toml:"homepage"`
	ORCID       string `toml:"orcid"`
}

// FamilyConfig customises a %family group in the reference.
type FamilyConfig struct {
	Title string `toml:"title"`
	Desc  string `toml:"desc"`
	Order *int   `toml:"order"`
}

// SourceConfig controls the "SOURCE" links injected into reference pages.
type SourceConfig struct {
	Enabled   *bool  `toml:"enabled"`
	Branch    string `toml:"branch"`
	Path      string `toml:"path"`
	Placement string `toml:"placement"`
}

// IsEnabled reports whether source links are on (default true).
func (s SourceConfig) IsEnabled() bool { return s.Enabled == nil || *s.Enabled }

// ToolConfig mirrors the [tool.great-docs] table.
type ToolConfig struct {
	Exclude         []string                `toml:"exclude"`
	Include         []string                `toml:"include"`
	DiscoveryMethod DiscoveryMethod         `toml:"discovery_method"`
	Threshold       int                     `toml:"threshold"`
	Families        map[string]FamilyConfig `toml:"families"`
	Source          SourceConfig            `toml:"source"`
	Authors         []Person                `toml:"authors"`
}

// Family looks up family configuration by display name ("Graph Builders" finds
// [tool.great-docs.families.graph-builders]).
func (t ToolConfig) Family(name string) (FamilyConfig, bool) {
	fc, ok := t.Families[FamilyKey(name)]
	return fc, ok
}

// FamilyKey normalises a family display name to its configuration key.
func FamilyKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, " ", "-")
	return strings.ReplaceAll(key, "_", "-")
}

// Settings is everything a run needs to know about the target project.
type Settings struct {
	// ProjectRoot is where the command was pointed at; PackageRoot is the nearest
	// ancestor holding pyproject.toml or setup.py (ProjectRoot when none).
	ProjectRoot string
	PackageRoot string

	Name           string
	Description    string
	License        string
	RequiresPython string
	Keywords       []string
	Authors        []Person
	Maintainers    []Person
	URLs           map[string]string
	// Extras are the optional-dependency group names, sorted.
	Extras []string

	Tool ToolConfig
}

// ImportName is the importable form of the package name ("great-docs" -> "great_docs").
func (s *Settings) ImportName() string {
	return NormalizePackageName(s.Name)
}

// NormalizePackageName converts a distribution name to its import name.
func NormalizePackageName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), "-", "_")
}

// RepositoryURL returns the first repository-like URL from [project.urls].
func (s *Settings) RepositoryURL() string {
	for _, key := range []string{"Repository", "repository", "Source", "source", "GitHub", "github"} {
		if u := s.URLs[key]; u != "" {
			return u
		}
	}
	return ""
}

// DisplayAuthors returns [tool.great-docs] authors when set, else [project] authors.
func (s *Settings) DisplayAuthors() []Person {
	if len(s.Tool.Authors) > 0 {
		return s.Tool.Authors
	}
	return s.Authors
}

// FirstAuthor returns the display name of the first author, preferring rich
// [tool.great-docs] authors over [project] authors.
func (s *Settings) FirstAuthor() string {
	for _, list := range [][]Person{s.Tool.Authors, s.Authors} {
		for _, p := range list {
			if p.Name != "" {
				return p.Name
			}
		}
	}
	return ""
}
