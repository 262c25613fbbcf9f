package commands

import (
	"fmt"
	"log/slog"

	"github.com/rich-iannone/great-docs/internal/logfields"
	"github.com/rich-iannone/great-docs/internal/site"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force         bool `short:"f" help:"Overwrite existing assets and edited landing pages"`
	SkipQuartodoc bool `name:"skip-quartodoc" help:"Do not generate the quartodoc configuration"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	s, err := root.site(g)
	if err != nil {
		return err
	}
	res, err := s.Install(g.context(), site.InstallOptions{Force: i.Force, SkipQuartodoc: i.SkipQuartodoc})
	if err := warnOrFail(err); err != nil {
		return err
	}
	slog.Info("Installed great-docs",
		logfields.DocsDir(s.DocsDir),
		slog.Int("assets", len(res.Assets)),
		slog.Int("pages", len(res.Pages)),
		slog.Bool("config_changed", res.ConfigChanged))
	if res.Scan != nil {
		for _, cls := range res.Scan.Plan.SplitClasses() {
			slog.Info("Class methods documented in their own section", logfields.Class(cls))
		}
	}
	_, _ = fmt.Fprintf(g.out(), "great-docs installed in %s\nNext: great-docs build\n", s.DocsDir)
	return nil
}
