package commands

import (
	"fmt"
	"io"

	"github.com/rich-iannone/great-docs/internal/planner"
)

// ScanCmd implements the 'scan' command.
type ScanCmd struct {
	Docs bool `help:"Also list the sections currently in _quarto.yml"`
}

func (c *ScanCmd) Run(g *Global, root *CLI) error {
	s, err := root.site(g)
	if err != nil {
		return err
	}
	res, err := s.Scan(g.context())
	if err != nil && res == nil {
		return err
	}
	w := g.out()
	_, _ = fmt.Fprintf(w, "Package %s (%s): %d exported objects\n",
		s.Settings.Name, res.PackageDir, len(res.Catalog))
	printSections(w, res.Plan.Sections)

	if c.Docs {
		current, cerr := s.Sections()
		if cerr != nil {
			return cerr
		}
		_, _ = fmt.Fprintln(w, "\nCurrently configured:")
		printSections(w, current)
	}
	return err
}

func printSections(w io.Writer, sections []planner.Section) {
	if len(sections) == 0 {
		_, _ = fmt.Fprintln(w, "  (no sections)")
		return
	}
	for _, sec := range sections {
		_, _ = fmt.Fprintf(w, "  %s (%d)\n", sec.Title, len(sec.Contents))
		for _, ref := range sec.Contents {
			if ref.SuppressMembers {
				_, _ = fmt.Fprintf(w, "    - %s [members: []]\n", ref.Name)
				continue
			}
			_, _ = fmt.Fprintf(w, "    - %s\n", ref.Name)
		}
	}
}
