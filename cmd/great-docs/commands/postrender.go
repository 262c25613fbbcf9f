package commands

import (
	"log/slog"
)

// PostRenderCmd implements the 'post-render' command. Quarto runs it through
// scripts/post-render.py after rendering.
type PostRenderCmd struct{}

func (p *PostRenderCmd) Run(g *Global, root *CLI) error {
	s, err := root.site(g)
	if err != nil {
		return err
	}
	stats, err := s.PostRender()
	if err != nil {
		return err
	}
	slog.Debug("Post-render finished", slog.Any("stats", stats))
	return nil
}
