package commands

import (
	"fmt"
	"log/slog"

	"github.com/rich-iannone/great-docs/internal/logfields"
)

// UninstallCmd implements the 'uninstall' command.
type UninstallCmd struct{}

func (u *UninstallCmd) Run(g *Global, root *CLI) error {
	s, err := root.site(g)
	if err != nil {
		return err
	}
	res, err := s.Uninstall()
	if err != nil {
		return err
	}
	for _, p := range res.Kept {
		slog.Info("Kept user-modified file", logfields.Path(p))
	}
	_, _ = fmt.Fprintf(g.out(), "Removed %d files from %s\n", len(res.Removed), s.DocsDir)
	return nil
}
