package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rich-iannone/great-docs/internal/foundation/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadPyproject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pyproject.toml"), `
[project]
name = "my-pkg"
description = "Does things"
license = {text = "MIT"}
requires-python = ">=3.9"
keywords = ["docs"]
authors = [{name = "Ada", email = "ada@example.com"}]

[project.urls]
Repository = "https://github.com/acme/my-pkg"

[tool.great-docs]
exclude = ["Internal"]
include = ["utils"]
discovery_method = "all"

[tool.great-docs.families.graph-builders]
title = "Graph Builders"
order = 1

[tool.great-docs.source]
branch = "dev"
`)

	s, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, "my-pkg", s.Name)
	require.Equal(t, "my_pkg", s.ImportName())
	require.Equal(t, "MIT", s.License)
	require.Equal(t, ">=3.9", s.RequiresPython)
	require.Equal(t, "Ada", s.FirstAuthor())
	require.Equal(t, "https://github.com/acme/my-pkg", s.RepositoryURL())
	require.Equal(t, []string{"Internal"}, s.Tool.Exclude)
	require.Equal(t, []string{"utils"}, s.Tool.Include)
	require.Equal(t, DiscoveryAll, s.Tool.DiscoveryMethod)
	require.Equal(t, DefaultThreshold, s.Tool.Threshold)
	require.True(t, s.Tool.Source.IsEnabled())
	require.Equal(t, "dev", s.Tool.Source.Branch)
	require.Equal(t, "usage", s.Tool.Source.Placement)

	fc, ok := s.Tool.Family("Graph Builders")
	require.True(t, ok)
	require.Equal(t, "Graph Builders", fc.Title)
	require.NotNil(t, fc.Order)
	require.Equal(t, 1, *fc.Order)
}

func TestLoadFallsBackToSetupPy(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "setup.py"), `from setuptools import setup
setup(name="legacy-pkg", version="0.1")
`)
	s, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, "legacy-pkg", s.Name)
	require.Equal(t, DiscoveryDir, s.Tool.DiscoveryMethod)
}

func TestLoadFallsBackToSinglePackageDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "widgets", "__init__.py"), "")
	writeFile(t, filepath.Join(root, "docs", "index.md"), "# hi")
	s, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, "widgets", s.Name)
}

func TestLoadInvalidPyproject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pyproject.toml"), "[project\nname=")
	_, err := Load(root)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestFindPackageRootWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pyproject.toml"), "[project]\nname = \"x\"\n")
	nested := filepath.Join(root, "docs", "sub")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	got := FindPackageRoot(nested)
	want, err := filepath.Abs(root)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GREAT_DOCS_THRESHOLD", "3")
	t.Setenv("GREAT_DOCS_DISCOVERY_METHOD", "all")
	s := &Settings{}
	ApplyDefaults(s)
	require.Equal(t, 3, s.Tool.Threshold)
	require.Equal(t, DiscoveryAll, s.Tool.DiscoveryMethod)
}

func TestEnvOverridesIgnoreInvalid(t *testing.T) {
	t.Setenv("GREAT_DOCS_THRESHOLD", "zero")
	t.Setenv("GREAT_DOCS_DISCOVERY_METHOD", "griffe")
	s := &Settings{}
	ApplyDefaults(s)
	require.Equal(t, DefaultThreshold, s.Tool.Threshold)
	require.Equal(t, DiscoveryDir, s.Tool.DiscoveryMethod)
}

func TestUnknownDiscoveryMethodDefaultsToDir(t *testing.T) {
	s := &Settings{Tool: ToolConfig{DiscoveryMethod: "magic", Threshold: -2}}
	ToolDefaultApplier{}.ApplyDefaults(s)
	require.Equal(t, DiscoveryDir, s.Tool.DiscoveryMethod)
	require.Equal(t, DefaultThreshold, s.Tool.Threshold)
}

func TestFamilyKey(t *testing.T) {
	require.Equal(t, "graph-builders", FamilyKey("Graph Builders"))
	require.Equal(t, "graph-builders", FamilyKey("graph_builders"))
}

func TestParseLogLevel(t *testing.T) {
	t.Setenv("GREAT_DOCS_LOG_LEVEL", "warn")
	require.Equal(t, slog.LevelWarn, ParseLogLevel(false))
	require.Equal(t, slog.LevelDebug, ParseLogLevel(true))
	t.Setenv("GREAT_DOCS_LOG_LEVEL", "")
	require.Equal(t, slog.LevelInfo, ParseLogLevel(false))
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "GREAT_DOCS_TEST_ONLY_VAR=from-file\n")
	t.Setenv("GREAT_DOCS_TEST_ONLY_VAR", "")
	require.NoError(t, os.Unsetenv("GREAT_DOCS_TEST_ONLY_VAR"))

	require.NoError(t, LoadEnvFiles(dir))
	require.Equal(t, "from-file", os.Getenv("GREAT_DOCS_TEST_ONLY_VAR"))
	require.NoError(t, LoadEnvFiles(t.TempDir()))
}
