package commands

import (
	"log/slog"

	"github.com/rich-iannone/great-docs/internal/logfields"
)

// RefreshCmd implements the 'refresh' command.
type RefreshCmd struct{}

func (r *RefreshCmd) Run(g *Global, root *CLI) error {
	s, err := root.site(g)
	if err != nil {
		return err
	}
	res, err := s.Refresh(g.context())
	if err := warnOrFail(err); err != nil {
		return err
	}
	slog.Info("Refreshed API reference",
		logfields.Count(len(res.Scan.Plan.Sections)),
		slog.Bool("config_changed", res.ConfigChanged))
	return nil
}
