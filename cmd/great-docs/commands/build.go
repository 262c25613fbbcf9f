package commands

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/rich-iannone/great-docs/internal/logfields"
	"github.com/rich-iannone/great-docs/internal/metrics"
	"github.com/rich-iannone/great-docs/internal/render"
	"github.com/rich-iannone/great-docs/internal/site"
	"github.com/rich-iannone/great-docs/internal/watch"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Watch     bool `short:"w" help:"Rebuild the API reference when package sources change and serve the site"`
	NoRefresh bool `name:"no-refresh" help:"Keep the quartodoc sections in _quarto.yml as they are"`
	Force     bool `short:"f" help:"Regenerate landing pages even when edited"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	s, err := root.site(g)
	if err != nil {
		return err
	}
	steps := render.Steps{Renderer: g.Renderer}
	ctx := g.context()

	if err := b.reference(ctx, g, s, steps); err != nil {
		return err
	}
	if !b.Watch {
		return metrics.Timed(g.recorder(), metrics.StageRender, func() error {
			return steps.QuartoRender(ctx, s.DocsDir)
		})
	}
	return b.watch(ctx, g, s, steps)
}

// reference prepares the docs directory and regenerates the reference pages.
func (b *BuildCmd) reference(ctx context.Context, g *Global, s *site.Site, steps render.Steps) error {
	err := s.Prepare(ctx, site.PrepareOptions{Refresh: !b.NoRefresh, Force: b.Force})
	if err := warnOrFail(err); err != nil {
		return err
	}
	err = metrics.Timed(g.recorder(), metrics.StageQuartodoc, func() error {
		return steps.QuartodocBuild(ctx, s.DocsDir)
	})
	if err != nil {
		return err
	}
	return s.EnsureReferenceIndex()
}

// watch serves the site and rebuilds the reference whenever package sources
// change, until ctx is cancelled.
func (b *BuildCmd) watch(ctx context.Context, g *Global, s *site.Site, steps render.Steps) error {
	scan, err := s.Scan(ctx)
	if err := warnOrFail(err); err != nil {
		return err
	}
	w, err := watch.New(scan.PackageDir, watch.DefaultDebounce, func(ctx context.Context, changed []string) {
		slog.Info("Package sources changed; rebuilding API reference", logfields.Count(len(changed)))
		if err := b.reference(ctx, g, s, steps); err != nil {
			slog.Error("Rebuild failed", logfields.Error(err))
		}
	})
	if err != nil {
		return err
	}
	slog.Info("Watching package sources", logfields.Path(scan.PackageDir))

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error { return w.Run(gctx) })
	group.Go(func() error { return steps.QuartoPreview(gctx, s.DocsDir, false) })
	err = group.Wait()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
