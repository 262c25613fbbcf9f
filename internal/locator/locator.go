// Package locator finds the on-disk pieces a great-docs run works on: the Quarto
// documentation directory and the Python package directory.
package locator

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/rich-iannone/great-docs/internal/config"
	"github.com/rich-iannone/great-docs/internal/foundation/errors"
)

// QuartoConfigFile is the Quarto project file name.
const QuartoConfigFile = "_quarto.yml"

// DefaultDocsDir is used when no documentation directory exists yet.
const DefaultDocsDir = "docs"

// CommonDocsDirs are checked in order when no docs dir is given.
var CommonDocsDirs = []string{"docs", "documentation", "site", "docsrc", "doc"}

// DocsDir resolves the documentation directory under root. An explicit value wins
// (relative values are taken from root).
func DocsDir(root, explicit string) string {
	if explicit != "" {
		if filepath.IsAbs(explicit) {
			return explicit
		}
		return filepath.Join(root, explicit)
	}
	for _, name := range CommonDocsDirs {
		if isFile(filepath.Join(root, name, QuartoConfigFile)) {
			return filepath.Join(root, name)
		}
	}
	if isFile(filepath.Join(root, QuartoConfigFile)) {
		return root
	}
	for _, name := range CommonDocsDirs {
		if isDir(filepath.Join(root, name)) {
			return filepath.Join(root, name)
		}
	}
	return filepath.Join(root, DefaultDocsDir)
}

// PackageDir locates the importable package directory for name under root.
//
// Candidates are <root>/<name> and <root>/<normalized name>, then the same under
// python/, src/ and lib/. A directory whose __init__.py defines __version__ or
// __all__ is preferred; any __init__.py is accepted otherwise.
func PackageDir(root, name string) (string, error) {
	if name == "" {
		return "", errors.DiscoveryError("package name is unknown").
			WithContext("root", root).Build()
	}
	candidates := candidateDirs(root, name)

	for _, dir := range candidates {
		if initHasMarkers(filepath.Join(dir, "__init__.py")) {
			return dir, nil
		}
	}
	for _, dir := range candidates {
		if isFile(filepath.Join(dir, "__init__.py")) {
			return dir, nil
		}
	}
	return "", errors.DiscoveryError("could not locate package directory").
		WithContext("package", name).
		WithContext("root", root).
		Build()
}

func candidateDirs(root, name string) []string {
	names := []string{name}
	if norm := config.NormalizePackageName(name); norm != name {
		names = append(names, norm)
	}
	var out []string
	for _, base := range []string{"", "python", "src", "lib"} {
		for _, n := range names {
			out = append(out, filepath.Join(root, base, n))
		}
	}
	return out
}

func initHasMarkers(path string) bool {
	raw, err := os.ReadFile(path) // #nosec G304 -- package source under the project root
	if err != nil {
		return false
	}
	return bytes.Contains(raw, []byte("__version__")) || bytes.Contains(raw, []byte("__all__"))
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
