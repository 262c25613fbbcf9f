// Package discovery builds the catalog of a Python package's public API by static
// analysis of its sources. Nothing is imported or executed.
package discovery

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rich-iannone/great-docs/internal/catalog"
	"github.com/rich-iannone/great-docs/internal/config"
	"github.com/rich-iannone/great-docs/internal/foundation/errors"
	"github.com/rich-iannone/great-docs/internal/logfields"
)

// Package identifies the package to document.
type Package struct {
	// Name is the import name (e.g. "great_docs").
	Name string
	// Dir is the directory holding the package's __init__.py.
	Dir string
}

// Discoverer produces the ordered catalog of a package's exports.
type Discoverer interface {
	Discover(ctx context.Context, pkg Package) (catalog.Catalog, error)
	Name() string
}

// New returns the discoverer for method. The static strategy falls back to the
// export list when it fails.
func New(method config.DiscoveryMethod, filter Filter) Discoverer {
	exportList := &ExportListDiscoverer{Filter: filter}
	if method == config.DiscoveryAll {
		return exportList
	}
	return &FallbackDiscoverer{Primary: &StaticDiscoverer{Filter: filter}, Secondary: exportList}
}

// StaticDiscoverer lists every public top-level name of the package's __init__.py:
// definitions and re-exports from the package's own modules, in source order.
// Submodules and names imported from other distributions are left out.
type StaticDiscoverer struct {
	Filter Filter
}

func (d *StaticDiscoverer) Name() string { return string(config.DiscoveryDir) }

func (d *StaticDiscoverer) Discover(ctx context.Context, pkg Package) (catalog.Catalog, error) {
	r := newResolver(ctx, pkg)
	init, err := loadInit(r, pkg)
	if err != nil {
		return nil, err
	}
	if init.hasErrors {
		return nil, errors.DiscoveryError("package __init__.py has syntax errors").
			WithContext("path", init.path).Build()
	}

	var raw catalog.Catalog
	for _, s := range init.symbols {
		if s.imported && !r.inPackage(s.fromModule) {
			continue
		}
		names := []string{s.name}
		from := pkg.Name
		if s.origName == "*" {
			target, err := r.module(s.fromModule)
			if err != nil {
				continue
			}
			names, from = target.publicNames(r), s.fromModule
		}
		for _, name := range names {
			if obj, ok := r.resolve(from, name); ok {
				obj.QualifiedName = name
				raw = append(raw, obj)
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.Filter.Apply(raw, init.gtExclude), nil
}

// ExportListDiscoverer documents exactly the names in the package's __all__.
type ExportListDiscoverer struct {
	Filter Filter
}

func (d *ExportListDiscoverer) Name() string { return string(config.DiscoveryAll) }

func (d *ExportListDiscoverer) Discover(ctx context.Context, pkg Package) (catalog.Catalog, error) {
	r := newResolver(ctx, pkg)
	init, err := loadInit(r, pkg)
	if err != nil {
		return nil, err
	}
	if !init.hasAll {
		return nil, errors.DiscoveryError("package does not define __all__").
			WithContext("path", init.path).Build()
	}

	var raw catalog.Catalog
	for _, name := range init.all {
		obj, ok := r.resolve(pkg.Name, name)
		if !ok {
			slog.Debug("Skipping submodule listed in __all__", logfields.Package(pkg.Name), "name", name)
			continue
		}
		raw = append(raw, obj)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.Filter.Apply(raw, init.gtExclude), nil
}

// FallbackDiscoverer runs Secondary when Primary fails.
type FallbackDiscoverer struct {
	Primary   Discoverer
	Secondary Discoverer
}

func (d *FallbackDiscoverer) Name() string { return d.Primary.Name() }

func (d *FallbackDiscoverer) Discover(ctx context.Context, pkg Package) (catalog.Catalog, error) {
	objs, err := d.Primary.Discover(ctx, pkg)
	if err == nil {
		return objs, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	slog.Warn("Discovery failed, falling back",
		logfields.Strategy(d.Primary.Name()),
		"fallback", d.Secondary.Name(),
		logfields.Error(err))
	objs, err2 := d.Secondary.Discover(ctx, pkg)
	if err2 != nil {
		return nil, errors.DiscoveryError("all discovery strategies failed").
			WithCause(err2).
			WithContext("package", pkg.Name).
			WithContext("primary_error", err.Error()).
			Build()
	}
	return objs, nil
}

func loadInit(r *resolver, pkg Package) (*pyModule, error) {
	if pkg.Name == "" || pkg.Dir == "" {
		return nil, errors.DiscoveryError("package name and directory are required").Build()
	}
	if strings.ContainsAny(pkg.Name, "-/ ") {
		return nil, errors.DiscoveryError("invalid import name").
			WithContext("package", pkg.Name).Build()
	}
	m, err := r.module(pkg.Name)
	if err != nil {
		return nil, errors.DiscoveryError("cannot parse package __init__.py").
			WithCause(err).
			WithContext("package", pkg.Name).
			WithContext("dir", pkg.Dir).
			Build()
	}
	return m, nil
}
