package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"github.com/rich-iannone/great-docs/internal/foundation/errors"
	"github.com/rich-iannone/great-docs/internal/render"
)

const shapesInit = `"""Shapes."""

__version__ = "0.1.0"


class Graph:
    """A graph of nodes."""

    def add_node(self, n):
        pass

    def add_edge(self, a, b):
        pass

    def remove_node(self, n):
        pass

    def neighbors(self, n):
        pass

    def degree(self, n):
        pass

    def clear(self):
        pass


def make_graph():
    """Build a graph."""
`

func writeProject(t *testing.T, init string) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"pyproject.toml":     "[project]\nname = \"shapes\"\ndescription = \"Shapes for tests\"\n",
		"README.md":          "# Shapes\n\nDraw things.\n",
		"shapes/__init__.py": init,
		"shapes/py.typed":    "",
		"docs/.keep":         "",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("great-docs"),
		kong.Vars{"version": "test"},
		kong.Exit(func(code int) { t.Fatalf("unexpected exit %d", code) }),
	)
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, kctx
}

func run(t *testing.T, args ...string) (*Global, *render.NoopRenderer, string, error) {
	t.Helper()
	cli, kctx := parse(t, args...)
	renderer := &render.NoopRenderer{}
	var out bytes.Buffer
	g := &Global{Ctx: context.Background(), Logger: cli.Logger(), Renderer: renderer, Out: &out}
	err := cli.Execute(kctx, g)
	return g, renderer, out.String(), err
}

func TestParseFlags(t *testing.T) {
	cli, kctx := parse(t, "--project-path", "/tmp/proj", "--docs-dir", "site", "-v", "build", "--watch", "--no-refresh")
	require.Equal(t, "build", kctx.Selected().Name)
	require.Equal(t, "/tmp/proj", cli.ProjectPath)
	require.Equal(t, "site", cli.DocsDir)
	require.True(t, cli.Verbose)
	require.True(t, cli.Build.Watch)
	require.True(t, cli.Build.NoRefresh)
}

func TestParsePostRender(t *testing.T) {
	_, kctx := parse(t, "post-render")
	require.Equal(t, "post-render", kctx.Selected().Name)
}

func TestInitThenBuild(t *testing.T) {
	root := writeProject(t, shapesInit)

	_, _, out, err := run(t, "--project-path", root, "init")
	require.NoError(t, err)
	require.Contains(t, out, "great-docs installed in")

	config, err := os.ReadFile(filepath.Join(root, "docs", "_quarto.yml"))
	require.NoError(t, err)
	require.Contains(t, string(config), "Graph Methods")
	require.FileExists(t, filepath.Join(root, "docs", "scripts", "post-render.py"))

	_, renderer, _, err := run(t, "--project-path", root, "build")
	require.NoError(t, err)
	calls := renderer.Invocations()
	require.Len(t, calls, 2)
	require.Equal(t, []string{"-m", "quartodoc", "build"}, calls[0].Args)
	require.Equal(t, "quarto", calls[1].Name)
	require.Equal(t, []string{"render"}, calls[1].Args)
	require.Equal(t, filepath.Join(root, "docs"), calls[1].Dir)
	require.FileExists(t, filepath.Join(root, "docs", "llms.txt"))
}

func TestScanPrintsPlan(t *testing.T) {
	root := writeProject(t, shapesInit)
	_, renderer, out, err := run(t, "--project-path", root, "scan")
	require.NoError(t, err)
	require.Empty(t, renderer.Invocations())
	require.Contains(t, out, "Graph Methods (6)")
	require.Contains(t, out, "- Graph [members: []]")
	require.Contains(t, out, "- make_graph")
	require.NoFileExists(t, filepath.Join(root, "docs", "_quarto.yml"))
}

func TestRefreshWithoutInitFails(t *testing.T) {
	root := writeProject(t, shapesInit)
	_, _, _, err := run(t, "--project-path", root, "refresh")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestInitOnEmptyPackageWarns(t *testing.T) {
	root := writeProject(t, "\"\"\"Nothing here.\"\"\"\n__version__ = \"0.1.0\"\n")
	_, _, _, err := run(t, "--project-path", root, "init")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(root, "docs", "_quarto.yml"))
}

func TestUninstall(t *testing.T) {
	root := writeProject(t, shapesInit)
	_, _, _, err := run(t, "--project-path", root, "init")
	require.NoError(t, err)

	_, _, out, err := run(t, "--project-path", root, "uninstall")
	require.NoError(t, err)
	require.Contains(t, out, "Removed")
	require.NoFileExists(t, filepath.Join(root, "docs", "scripts", "post-render.py"))
}

func TestMetricsFile(t *testing.T) {
	root := writeProject(t, shapesInit)
	metricsPath := filepath.Join(t.TempDir(), "great-docs.prom")
	_, _, _, err := run(t, "--project-path", root, "--metrics-file", metricsPath, "scan")
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	require.Contains(t, string(data), `great_docs_run_outcomes_total{command="scan",outcome="success"} 1`)
	require.Contains(t, string(data), "great_docs_split_classes 1")
}

func TestVersion(t *testing.T) {
	_, _, out, err := run(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "great-docs ")
}
