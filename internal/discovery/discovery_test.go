package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rich-iannone/great-docs/internal/catalog"
	"github.com/rich-iannone/great-docs/internal/config"
	"github.com/rich-iannone/great-docs/internal/foundation/errors"
)

func writePkg(t *testing.T, files map[string]string) Package {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "shapes")
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return Package{Name: "shapes", Dir: dir}
}

func names(c catalog.Catalog) []string {
	out := make([]string, 0, len(c))
	for _, o := range c {
		out = append(out, o.QualifiedName)
	}
	return out
}

const graphModule = `"""Graph module."""

class Graph:
    """A graph.

    %family Builders
    """

    def __init__(self):
        pass

    def add_node(self, n):
        """Add a node."""

    def add_edge(self, a, b):
        pass

    @property
    def size(self):
        return 0

    def _private(self):
        pass

    @staticmethod
    def from_dict(d):
        pass

    def remove_node(self, n):
        pass

    def neighbors(self, n):
        pass

    def degree(self, n):
        pass

    def hidden(self):
        """%nodoc"""


class Point:
    def x(self):
        pass

    def y(self):
        pass


def helper():
    pass
`

func shapesPackage(t *testing.T) Package {
	return writePkg(t, map[string]string{
		"__init__.py": `"""Shapes."""
from __future__ import annotations

from typing import Any
from .graph import Graph, Point
from .graph import helper as make_graph
from . import utils
from .extra import *

__version__ = "1.0.0"
__all__ = ["Graph", "Point", "make_graph", "DEFAULT_SIZE"]

DEFAULT_SIZE = 10
_hidden = 1


def render(g):
    """Render a graph."""


class Config:
    pass
`,
		"graph.py": graphModule,
		"utils.py": "def util():\n    pass\n",
		"extra.py": `__all__ = ["Extra"]

class Extra:
    pass

class NotExported:
    pass
`,
	})
}

func TestStaticDiscovery(t *testing.T) {
	pkg := shapesPackage(t)
	cat, err := (&StaticDiscoverer{}).Discover(context.Background(), pkg)
	require.NoError(t, err)
	require.Equal(t, []string{"Graph", "Point", "make_graph", "Extra", "DEFAULT_SIZE", "render", "Config"}, names(cat))

	graph, ok := cat.Lookup("Graph")
	require.True(t, ok)
	require.Equal(t, catalog.KindClass, graph.Kind)
	require.Equal(t, "shapes.graph", graph.ModulePath)
	require.True(t, graph.Location.Known())
	require.Contains(t, graph.Docstring, "%family Builders")

	var methods []string
	for _, m := range graph.Methods {
		methods = append(methods, m.QualifiedName)
	}
	require.Equal(t, []string{
		"Graph.add_node", "Graph.add_edge", "Graph.from_dict",
		"Graph.remove_node", "Graph.neighbors", "Graph.degree",
	}, methods)

	fn, ok := cat.Lookup("make_graph")
	require.True(t, ok)
	require.Equal(t, catalog.KindFunction, fn.Kind)

	other, ok := cat.Lookup("DEFAULT_SIZE")
	require.True(t, ok)
	require.Equal(t, catalog.KindOther, other.Kind)
}

func TestExportListDiscovery(t *testing.T) {
	pkg := shapesPackage(t)
	cat, err := (&ExportListDiscoverer{}).Discover(context.Background(), pkg)
	require.NoError(t, err)
	require.Equal(t, []string{"Graph", "Point", "make_graph", "DEFAULT_SIZE"}, names(cat))
	point, _ := cat.Lookup("Point")
	require.Equal(t, 2, point.MethodCount())
}

func TestExportListRequiresAll(t *testing.T) {
	pkg := writePkg(t, map[string]string{"__init__.py": "x = 1\n"})
	_, err := (&ExportListDiscoverer{}).Discover(context.Background(), pkg)
	require.True(t, errors.HasCategory(err, errors.CategoryDiscovery))
}

func TestExportListUnresolvableNameIsOther(t *testing.T) {
	pkg := writePkg(t, map[string]string{
		"__init__.py": "from somewhere_else import thing\n__all__ = ['thing', 'missing']\n",
	})
	cat, err := (&ExportListDiscoverer{}).Discover(context.Background(), pkg)
	require.NoError(t, err)
	require.Equal(t, []string{"thing", "missing"}, names(cat))
	for _, o := range cat {
		require.Equal(t, catalog.KindOther, o.Kind)
	}
}

func TestGtExcludeHonoured(t *testing.T) {
	pkg := writePkg(t, map[string]string{
		"__init__.py": "__all__ = ['a', 'b']\n__gt_exclude__ = ['b']\n\ndef a():\n    pass\n\ndef b():\n    pass\n",
	})
	cat, err := (&ExportListDiscoverer{}).Discover(context.Background(), pkg)
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, names(cat))
}

func TestFallbackToExportList(t *testing.T) {
	pkg := writePkg(t, map[string]string{
		"__init__.py": "__all__ = ['ok']\n\ndef ok():\n    pass\n\ndef broken(:\n",
	})
	d := New(config.DiscoveryDir, Filter{})
	cat, err := d.Discover(context.Background(), pkg)
	require.NoError(t, err)
	require.Equal(t, []string{"ok"}, names(cat))
}

func TestMissingPackage(t *testing.T) {
	d := New(config.DiscoveryDir, Filter{})
	_, err := d.Discover(context.Background(), Package{Name: "ghost", Dir: filepath.Join(t.TempDir(), "ghost")})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryDiscovery))
}

func TestCancelledContext(t *testing.T) {
	pkg := shapesPackage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(config.DiscoveryDir, Filter{}).Discover(ctx, pkg)
	require.Error(t, err)
}

func TestFilter(t *testing.T) {
	raw := catalog.Catalog{
		{QualifiedName: "Graph", Kind: catalog.KindClass, Methods: []catalog.Method{
			{Name: "a", QualifiedName: "Graph.a"},
			{Name: "b", QualifiedName: "Graph.b", Docstring: "%nodoc"},
		}},
		{QualifiedName: "utils"},
		{QualifiedName: "config"},
		{QualifiedName: "Secret"},
		{QualifiedName: "__version__"},
		{QualifiedName: "_private"},
		{QualifiedName: "Graph"},
		{QualifiedName: "Skip", Docstring: "Skip me.\n\n%nodoc\n"},
	}
	f := Filter{Exclude: []string{"Secret"}, Include: []string{"utils"}}
	got := f.Apply(raw, nil)
	require.Equal(t, []string{"Graph", "utils"}, names(got))
	require.Len(t, got[0].Methods, 1)
	require.Len(t, raw[0].Methods, 2, "input catalog must not be modified")
}

func TestResolveModule(t *testing.T) {
	require.Equal(t, "pkg.graph", resolveModule(".graph", "pkg"))
	require.Equal(t, "pkg", resolveModule(".", "pkg"))
	require.Equal(t, "pkg.other", resolveModule("..other", "pkg.sub"))
	require.Equal(t, "", resolveModule("...x", "pkg"))
	require.Equal(t, "numpy", resolveModule("numpy", "pkg"))
}

func TestCleanDoc(t *testing.T) {
	require.Equal(t, "Summary.\n\nDetails here.\n  indented", cleanDoc("Summary.\n\n    Details here.\n      indented\n    "))
	require.Equal(t, "x", stringValue(`r"""x"""`))
	require.Equal(t, "y", stringValue(`'y'`))
}
