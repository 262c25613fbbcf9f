package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/rich-iannone/great-docs/cmd/great-docs/commands"
	"github.com/rich-iannone/great-docs/internal/foundation/errors"
	"github.com/rich-iannone/great-docs/internal/render"
	"github.com/rich-iannone/great-docs/internal/version"
)

func main() {
	var cli commands.CLI
	kctx := kong.Parse(&cli,
		kong.Name("great-docs"),
		kong.Description("Documentation sites for Python packages, built with Quarto and quartodoc."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	global := &commands.Global{
		Ctx:      ctx,
		Logger:   cli.Logger(),
		Renderer: &render.BinaryRenderer{Stdout: os.Stdout, Stderr: os.Stderr},
		Out:      os.Stdout,
	}
	err := cli.Execute(kctx, global)
	cancel()

	adapter := errors.NewCLIErrorAdapter(cli.Verbose, global.Logger)
	if code := adapter.Report(err); code != 0 {
		os.Exit(code)
	}
}
