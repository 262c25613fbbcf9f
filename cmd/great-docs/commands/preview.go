package commands

import (
	"github.com/rich-iannone/great-docs/internal/metrics"
	"github.com/rich-iannone/great-docs/internal/render"
)

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	NoBrowser bool `name:"no-browser" help:"Do not open a browser"`
}

func (p *PreviewCmd) Run(g *Global, root *CLI) error {
	s, err := root.site(g)
	if err != nil {
		return err
	}
	ctx := g.context()
	steps := render.Steps{Renderer: g.Renderer}
	err = metrics.Timed(g.recorder(), metrics.StageQuartodoc, func() error {
		return steps.QuartodocBuild(ctx, s.DocsDir)
	})
	if err != nil {
		return err
	}
	if err := s.EnsureReferenceIndex(); err != nil {
		return err
	}
	err = steps.QuartoPreview(ctx, s.DocsDir, !p.NoBrowser)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
