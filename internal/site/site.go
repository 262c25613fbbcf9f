// Package site installs, refreshes and removes great-docs in a project's Quarto
// documentation directory.
package site

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rich-iannone/great-docs/internal/catalog"
	"github.com/rich-iannone/great-docs/internal/config"
	"github.com/rich-iannone/great-docs/internal/directives"
	"github.com/rich-iannone/great-docs/internal/discovery"
	"github.com/rich-iannone/great-docs/internal/foundation/errors"
	"github.com/rich-iannone/great-docs/internal/locator"
	"github.com/rich-iannone/great-docs/internal/logfields"
	"github.com/rich-iannone/great-docs/internal/metrics"
	"github.com/rich-iannone/great-docs/internal/planner"
	"github.com/rich-iannone/great-docs/internal/quarto"
	"github.com/rich-iannone/great-docs/internal/sourcelinks"
)

// Site is a project's documentation directory together with the settings of the
// package it documents.
type Site struct {
	Settings   *config.Settings
	DocsDir    string
	Discoverer discovery.Discoverer
	Recorder   metrics.Recorder
	Now        func() time.Time
}

// New returns a Site using the discovery strategy and filters from settings.
func New(settings *config.Settings, docsDir string) *Site {
	filter := discovery.Filter{Exclude: settings.Tool.Exclude, Include: settings.Tool.Include}
	return &Site{
		Settings:   settings,
		DocsDir:    docsDir,
		Discoverer: discovery.New(settings.Tool.DiscoveryMethod, filter),
		Recorder:   metrics.NoopRecorder{},
		Now:        time.Now,
	}
}

// ConfigPath is the site's _quarto.yml.
func (s *Site) ConfigPath() string {
	return filepath.Join(s.DocsDir, locator.QuartoConfigFile)
}

// ScanResult is a discovery run and the plan derived from it.
type ScanResult struct {
	PackageDir string
	Catalog    catalog.Catalog
	Plan       planner.SectionPlan
}

// Scan discovers the package API and plans its reference sections. Nothing is
// written. An empty catalog is reported as a warning alongside the result.
func (s *Site) Scan(ctx context.Context) (*ScanResult, error) {
	pkgDir, err := locator.PackageDir(s.Settings.PackageRoot, s.Settings.Name)
	if err != nil {
		return nil, err
	}
	pkg := discovery.Package{Name: s.Settings.ImportName(), Dir: pkgDir}

	var cat catalog.Catalog
	err = metrics.Timed(s.Recorder, metrics.StageDiscover, func() error {
		var derr error
		cat, derr = s.Discoverer.Discover(ctx, pkg)
		return derr
	})
	if err != nil {
		return nil, err
	}
	counts := cat.Counts()
	for _, k := range []catalog.Kind{catalog.KindClass, catalog.KindFunction, catalog.KindOther} {
		s.Recorder.SetDiscovered(k, counts[k])
	}
	slog.Info("Discovered package exports",
		logfields.Package(pkg.Name), logfields.Strategy(s.Discoverer.Name()), logfields.Count(len(cat)))

	res := &ScanResult{PackageDir: pkgDir, Catalog: cat}
	_ = metrics.Timed(s.Recorder, metrics.StagePlan, func() error {
		res.Plan = s.plan(cat)
		return nil
	})
	s.Recorder.SetSections(len(res.Plan.Sections))
	s.Recorder.SetSplitClasses(len(res.Plan.SplitClasses()))

	if len(cat) == 0 {
		return res, errors.EmptyCatalogWarning("no public API found; quartodoc sections left unchanged").
			WithContext("package", pkg.Name).
			WithContext("dir", pkgDir).
			Build()
	}
	return res, nil
}

func (s *Site) plan(cat catalog.Catalog) planner.SectionPlan {
	opts := planner.Options{Threshold: s.Settings.Tool.Threshold}
	dirs := directives.Collect(cat)
	if len(dirs) == 0 {
		return planner.Plan(cat, opts)
	}
	return planner.PlanFamilies(cat, dirs, s.Settings.Tool.Families, opts)
}

// RefreshResult describes a Refresh.
type RefreshResult struct {
	Scan *ScanResult
	// ConfigChanged is false when _quarto.yml already held the current plan.
	ConfigChanged bool
}

// Refresh rediscovers the API and rewrites the quartodoc sections and the
// reference sidebar of an existing _quarto.yml. A warning error is returned with
// the result when the package exports nothing.
func (s *Site) Refresh(ctx context.Context) (*RefreshResult, error) {
	doc, exists, err := quarto.Load(s.ConfigPath())
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.ConfigError("_quarto.yml not found; run `great-docs init` first").
			WithContext("path", s.ConfigPath()).Build()
	}
	scan, warn := s.Scan(ctx)
	if warn != nil && !errors.IsWarning(warn) {
		return nil, warn
	}
	changed, err := s.applyPlan(doc, scan.Plan)
	if err != nil {
		return nil, err
	}
	return &RefreshResult{Scan: scan, ConfigChanged: changed}, warn
}

// applyPlan merges plan and the sidebar into doc and writes the file when its
// content changed.
func (s *Site) applyPlan(doc *quarto.Document, plan planner.SectionPlan) (bool, error) {
	var merged *quarto.Document
	err := metrics.Timed(s.Recorder, metrics.StageMerge, func() error {
		var merr error
		merged, merr = quarto.Merge(doc, plan, quarto.DefaultQuartodoc(s.Settings.ImportName()))
		if merr != nil {
			return merr
		}
		merged, merr = quarto.UpdateSidebar(merged)
		return merr
	})
	if err != nil {
		return false, err
	}
	return s.writeConfig(merged)
}

func (s *Site) writeConfig(doc *quarto.Document) (bool, error) {
	path := s.ConfigPath()
	next, err := doc.Encode()
	if err != nil {
		return false, err
	}
	if prev, err := os.ReadFile(path); err == nil && bytes.Equal(prev, next) { // #nosec G304 -- site config
		slog.Debug("Configuration unchanged", logfields.Path(path))
		return false, nil
	}
	if err := quarto.WriteFile(path, doc); err != nil {
		return false, err
	}
	slog.Info("Updated configuration", logfields.Path(path))
	return true, nil
}

// WriteSourceLinks writes _source_links.json for cat. It is skipped when source
// links are disabled or the repository is not on GitHub.
func (s *Site) WriteSourceLinks(cat catalog.Catalog) (sourcelinks.Links, error) {
	src := s.Settings.Tool.Source
	if !src.IsEnabled() {
		return nil, nil
	}
	ref := src.Branch
	if ref == "" {
		ref = sourcelinks.DetectRef(s.Settings.PackageRoot)
	}
	links := sourcelinks.Build(cat, sourcelinks.Options{
		RepositoryURL: s.Settings.RepositoryURL(),
		Ref:           ref,
		PackageRoot:   s.Settings.PackageRoot,
		SourcePath:    src.Path,
	})
	if links == nil {
		slog.Debug("No GitHub repository configured; skipping source links")
		return nil, nil
	}
	path := filepath.Join(s.DocsDir, sourcelinks.FileName)
	if err := sourcelinks.Write(path, links); err != nil {
		return nil, errors.FileSystemError("cannot write source links").
			WithCause(err).WithContext("path", path).Build()
	}
	slog.Info("Wrote source links", logfields.Path(path), logfields.Count(len(links)))
	return links, nil
}

// PrepareOptions tune Prepare.
type PrepareOptions struct {
	// Refresh rewrites the quartodoc sections from a fresh discovery.
	Refresh bool
	// Force regenerates landing pages even when they were edited.
	Force bool
}

// Prepare runs every step before quartodoc: landing pages, optional config
// refresh, llms.txt and source links.
func (s *Site) Prepare(ctx context.Context, opts PrepareOptions) error {
	if _, err := s.WriteLandingPages(opts.Force); err != nil {
		return err
	}

	var warn error
	var scan *ScanResult
	if opts.Refresh {
		res, err := s.Refresh(ctx)
		if err != nil && !errors.IsWarning(err) {
			return err
		}
		warn = err
		scan = res.Scan
	} else {
		res, err := s.Scan(ctx)
		if err != nil && !errors.IsWarning(err) {
			return err
		}
		warn = err
		scan = res
	}

	doc, exists, err := quarto.Load(s.ConfigPath())
	if err != nil {
		return err
	}
	if exists {
		if _, err := s.WriteLLMsTxt(doc, scan.Catalog); err != nil {
			return err
		}
	}
	if _, err := s.WriteSourceLinks(scan.Catalog); err != nil {
		return err
	}
	return warn
}
