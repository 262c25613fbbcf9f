package site

import (
	"log/slog"
	"path/filepath"

	"github.com/rich-iannone/great-docs/internal/foundation/errors"
	"github.com/rich-iannone/great-docs/internal/logfields"
	"github.com/rich-iannone/great-docs/internal/metrics"
	"github.com/rich-iannone/great-docs/internal/postrender"
	"github.com/rich-iannone/great-docs/internal/quarto"
	"github.com/rich-iannone/great-docs/internal/sourcelinks"
)

// SiteOutputDir is where quarto renders the site.
const SiteOutputDir = "_site"

// PostRender cleans the rendered reference pages and adds their source links.
func (s *Site) PostRender() (postrender.Stats, error) {
	links, err := sourcelinks.Read(filepath.Join(s.DocsDir, sourcelinks.FileName))
	if err != nil {
		return postrender.Stats{}, errors.FileSystemError("cannot load source links").WithCause(err).Build()
	}
	refDir := "reference"
	if doc, exists, err := quarto.Load(s.ConfigPath()); err == nil && exists {
		if d := doc.String(quarto.QuartodocKey, "dir"); d != "" {
			refDir = d
		}
	}

	var stats postrender.Stats
	err = metrics.Timed(s.Recorder, metrics.StagePostRender, func() error {
		var perr error
		stats, perr = postrender.Run(postrender.Options{
			SiteDir:      filepath.Join(s.DocsDir, SiteOutputDir),
			ReferenceDir: refDir,
			Links:        links,
			Placement:    s.Settings.Tool.Source.Placement,
		})
		return perr
	})
	if err != nil {
		return stats, errors.FileSystemError("post-render failed").WithCause(err).Build()
	}
	slog.Info("Post-processed reference pages",
		logfields.Count(stats.Pages), "changed", stats.Changed, "links", stats.LinksAdded)
	return stats, nil
}
