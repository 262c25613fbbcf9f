// Package commands holds the great-docs subcommands.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/rich-iannone/great-docs/internal/config"
	"github.com/rich-iannone/great-docs/internal/foundation/errors"
	"github.com/rich-iannone/great-docs/internal/locator"
	"github.com/rich-iannone/great-docs/internal/logfields"
	"github.com/rich-iannone/great-docs/internal/metrics"
	"github.com/rich-iannone/great-docs/internal/render"
	"github.com/rich-iannone/great-docs/internal/site"
)

// Global is the state shared by every subcommand.
type Global struct {
	Ctx      context.Context
	Logger   *slog.Logger
	Renderer render.Renderer
	Recorder metrics.Recorder
	// Out receives user-facing output (scan listings, version).
	Out io.Writer
}

func (g *Global) context() context.Context {
	if g.Ctx == nil {
		return context.Background()
	}
	return g.Ctx
}

func (g *Global) recorder() metrics.Recorder {
	if g.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return g.Recorder
}

func (g *Global) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	ProjectPath string           `name:"project-path" type:"path" default:"." help:"Project root (the directory holding pyproject.toml)."`
	DocsDir     string           `name:"docs-dir" help:"Documentation directory, relative to the project root (auto-detected when empty)."`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	MetricsFile string           `name:"metrics-file" type:"path" help:"Write run metrics in Prometheus text format to this file."`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init       InitCmd       `cmd:"" help:"Install great-docs into the documentation directory"`
	Build      BuildCmd      `cmd:"" help:"Refresh the API reference, run quartodoc and render the site"`
	Refresh    RefreshCmd    `cmd:"" help:"Rediscover the package API and update _quarto.yml"`
	Preview    PreviewCmd    `cmd:"" help:"Build the API reference and serve the site locally"`
	Scan       ScanCmd       `cmd:"" help:"Show the API reference sections discovery would produce"`
	Uninstall  UninstallCmd  `cmd:"" help:"Remove great-docs assets and configuration"`
	PostRender PostRenderCmd `cmd:"" name:"post-render" help:"Post-process rendered reference pages (run by Quarto)"`
	VersionCmd VersionCmd    `cmd:"" name:"version" help:"Print version information"`

	runID  string
	logger *slog.Logger
}

// AfterApply runs after flag parsing; loads .env files and sets up logging once.
func (c *CLI) AfterApply() error {
	if err := config.LoadEnvFiles(c.ProjectPath); err != nil {
		return errors.ConfigError("cannot load .env file").WithCause(err).Build()
	}
	c.runID = uuid.NewString()
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.ParseLogLevel(c.Verbose)})
	c.logger = slog.New(handler).With(logfields.RunID(c.runID))
	slog.SetDefault(c.logger)
	return nil
}

// Logger returns the run logger, or the default logger before AfterApply.
func (c *CLI) Logger() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// Execute runs the selected command and, when --metrics-file is set, writes the
// run's metrics afterwards.
func (c *CLI) Execute(kctx *kong.Context, g *Global) error {
	var rec *metrics.PrometheusRecorder
	if c.MetricsFile != "" && g.Recorder == nil {
		rec = metrics.NewPrometheusRecorder(nil)
		g.Recorder = rec
	}
	start := time.Now()
	err := kctx.Run(g, c)

	command := kctx.Selected().Name
	g.recorder().ObserveRunDuration(time.Since(start))
	g.recorder().IncOutcome(command, outcomeOf(g.context(), err))
	slog.Debug("Command finished", logfields.Command(command),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))

	if rec != nil {
		if werr := rec.WriteTextfile(c.MetricsFile); werr != nil {
			slog.Warn("Failed to write metrics file", logfields.Path(c.MetricsFile), logfields.Error(werr))
		}
	}
	return err
}

func outcomeOf(ctx context.Context, err error) metrics.Outcome {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case ctx.Err() != nil:
		return metrics.OutcomeCanceled
	case errors.IsWarning(err):
		return metrics.OutcomeWarning
	default:
		return metrics.OutcomeFailed
	}
}

// site resolves settings and the docs directory for the project.
func (c *CLI) site(g *Global) (*site.Site, error) {
	settings, err := config.Load(c.ProjectPath)
	if err != nil {
		return nil, err
	}
	docsDir := locator.DocsDir(settings.ProjectRoot, c.DocsDir)
	slog.Debug("Resolved project",
		logfields.Package(settings.Name), logfields.Path(settings.PackageRoot), logfields.DocsDir(docsDir))
	s := site.New(settings, docsDir)
	s.Recorder = g.recorder()
	return s, nil
}

// warnOrFail logs a warning error and swallows it; other errors are returned.
func warnOrFail(err error) error {
	if err == nil {
		return nil
	}
	if errors.IsWarning(err) {
		if ce, ok := errors.AsClassified(err); ok {
			slog.LogAttrs(context.Background(), slog.LevelWarn, ce.Message(), ce.LogAttrs()...)
		}
		return nil
	}
	return err
}
