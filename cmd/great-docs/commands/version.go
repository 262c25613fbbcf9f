package commands

import (
	"fmt"

	"github.com/rich-iannone/great-docs/internal/version"
)

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (v *VersionCmd) Run(g *Global, _ *CLI) error {
	_, err := fmt.Fprintf(g.out(), "great-docs %s\n", version.String())
	return err
}
