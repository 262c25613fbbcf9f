package site

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rich-iannone/great-docs/internal/foundation/errors"
	"github.com/rich-iannone/great-docs/internal/frontmatter"
	"github.com/rich-iannone/great-docs/internal/logfields"
	"github.com/rich-iannone/great-docs/internal/planner"
	"github.com/rich-iannone/great-docs/internal/quarto"
	"github.com/rich-iannone/great-docs/internal/util/fileutil"
)

// InstallOptions tune Install.
type InstallOptions struct {
	// Force overwrites existing assets and edited landing pages.
	Force bool
	// SkipQuartodoc leaves the quartodoc section and sidebar alone.
	SkipQuartodoc bool
}

// InstallResult lists what Install did.
type InstallResult struct {
	Assets        []string
	Gitignore     bool
	Pages         []string
	Scan          *ScanResult
	ConfigChanged bool
}

// Install sets great-docs up in the docs directory. Discovery runs first so a
// package that cannot be analysed leaves the directory untouched. Running Install
// again is safe: user keys, user sections and edited pages are preserved.
func (s *Site) Install(ctx context.Context, opts InstallOptions) (*InstallResult, error) {
	res := &InstallResult{}
	var warn error
	if !opts.SkipQuartodoc {
		scan, err := s.Scan(ctx)
		if err != nil && !errors.IsWarning(err) {
			return nil, err
		}
		warn = err
		res.Scan = scan
	}

	if err := os.MkdirAll(s.DocsDir, 0o755); err != nil {
		return nil, errors.FileSystemError("cannot create docs directory").
			WithCause(err).WithContext("path", s.DocsDir).Build()
	}
	slog.Info("Installing great-docs", logfields.DocsDir(s.DocsDir))

	var err error
	if res.Assets, err = s.copyAssets(opts.Force); err != nil {
		return nil, err
	}
	if res.Gitignore, err = s.installGitignore(opts.Force); err != nil {
		return nil, err
	}

	doc, _, err := quarto.Load(s.ConfigPath())
	if err != nil {
		return nil, err
	}
	doc, err = quarto.EnsureSiteConfig(doc, quarto.SiteOptions{
		PackageName:   s.Settings.Name,
		RepositoryURL: s.Settings.RepositoryURL(),
		Author:        s.Settings.FirstAuthor(),
		Year:          s.Now().Year(),
	})
	if err != nil {
		return nil, err
	}

	if res.Pages, err = s.WriteLandingPages(opts.Force); err != nil {
		return nil, err
	}

	if opts.SkipQuartodoc {
		res.ConfigChanged, err = s.writeConfig(doc)
	} else {
		res.ConfigChanged, err = s.applyPlan(doc, res.Scan.Plan)
	}
	if err != nil {
		return nil, err
	}

	if !opts.SkipQuartodoc {
		if err := s.EnsureReferenceIndex(); err != nil {
			return nil, err
		}
	}
	return res, warn
}

// EnsureReferenceIndex gives the quartodoc-generated reference index an empty
// front matter block when it has none.
func (s *Site) EnsureReferenceIndex() error {
	doc, exists, err := quarto.Load(s.ConfigPath())
	if err != nil || !exists {
		return err
	}
	dir := doc.String(quarto.QuartodocKey, "dir")
	if dir == "" {
		dir = "reference"
	}
	path := filepath.Join(s.DocsDir, dir, "index.qmd")
	content, err := os.ReadFile(path) // #nosec G304 -- generated reference page
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.FileSystemError("cannot read reference index").
			WithCause(err).WithContext("path", path).Build()
	}
	out, changed := frontmatter.EnsureFrontMatter(content)
	if !changed {
		return nil
	}
	if err := fileutil.WriteAtomic(path, out, 0o644); err != nil {
		return errors.FileSystemError("cannot write reference index").
			WithCause(err).WithContext("path", path).Build()
	}
	return nil
}

// UninstallResult lists what Uninstall did.
type UninstallResult struct {
	Removed []string
	// Kept are files left in place because the user changed them.
	Kept          []string
	ConfigChanged bool
}

// Uninstall removes the installed assets and the post-render and stylesheet
// entries of _quarto.yml. Generated quartodoc sections are user-owned once
// written and stay.
func (s *Site) Uninstall() (*UninstallResult, error) {
	res := &UninstallResult{}
	var err error
	res.Removed, res.Kept, err = s.removeAssets()
	if err != nil {
		return nil, errors.FileSystemError("cannot remove installed files").WithCause(err).Build()
	}
	for _, k := range res.Kept {
		slog.Info("Keeping modified file", logfields.Path(k))
	}

	doc, exists, err := quarto.Load(s.ConfigPath())
	if err != nil {
		return nil, err
	}
	if !exists {
		return res, nil
	}
	cleaned, err := quarto.Clean(doc)
	if err != nil {
		return nil, err
	}
	if res.ConfigChanged, err = s.writeConfig(cleaned); err != nil {
		return nil, err
	}
	return res, nil
}

// Sections reads the quartodoc sections currently in _quarto.yml.
func (s *Site) Sections() ([]planner.Section, error) {
	doc, exists, err := quarto.Load(s.ConfigPath())
	if err != nil || !exists {
		return nil, err
	}
	return quarto.Sections(doc)
}
