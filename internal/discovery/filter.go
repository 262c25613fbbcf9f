package discovery

import (
	"log/slog"
	"strings"

	"github.com/rich-iannone/great-docs/internal/catalog"
	"github.com/rich-iannone/great-docs/internal/directives"
	"github.com/rich-iannone/great-docs/internal/util/sets"
)

// AutoExclude lists names that are almost always internal plumbing rather than API.
var AutoExclude = sets.New(
	"main", "cli", "version", "VERSION", "VERSION_INFO",
	"core", "utils", "helpers", "constants", "config", "settings",
	"PackageNotFoundError",
	"typing", "annotations", "TYPE_CHECKING",
	"logger", "log", "logging",
)

// metadataNames are dunder module attributes that are never documented.
var metadataNames = sets.New("__version__", "__author__", "__email__", "__all__")

// Filter applies the exclusion policy to raw discovery results.
type Filter struct {
	Exclude []string
	Include []string
}

// excluded returns (AutoExclude ∪ Exclude ∪ extra) − Include.
func (f Filter) excluded(extra []string) sets.Set[string] {
	ex := AutoExclude.Union(sets.New(f.Exclude...)).Union(sets.New(extra...))
	return ex.Minus(sets.New(f.Include...))
}

// Apply drops private, metadata, excluded, duplicate and %nodoc entries, and %nodoc
// methods. Order is preserved.
func (f Filter) Apply(objs catalog.Catalog, extraExclude []string) catalog.Catalog {
	excluded := f.excluded(extraExclude)
	include := sets.New(f.Include...)
	seen := sets.New[string]()

	out := make(catalog.Catalog, 0, len(objs))
	for _, obj := range objs {
		name := obj.QualifiedName
		switch {
		case seen.Has(name), metadataNames.Has(name):
			continue
		case strings.HasPrefix(name, "_") && !include.Has(name):
			continue
		case excluded.Has(name):
			slog.Debug("Excluding export", "name", name)
			continue
		case directives.Extract(obj.Docstring).NoDoc:
			slog.Debug("Skipping %nodoc export", "name", name)
			continue
		}
		seen.Add(name)

		if len(obj.Methods) > 0 {
			methods := obj.Methods[:0:0]
			for _, m := range obj.Methods {
				if !directives.Extract(m.Docstring).NoDoc {
					methods = append(methods, m)
				}
			}
			obj.Methods = methods
		}
		out = append(out, obj)
	}
	return out
}
