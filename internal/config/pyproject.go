package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/rich-iannone/great-docs/internal/foundation/errors"
)

const (
	pyprojectFile = "pyproject.toml"
	setupPyFile   = "setup.py"

	// maxParentLevels bounds the upward search for the package root.
	maxParentLevels = 5
)

var setupNameRe = regexp.MustCompile(`name\s*=\s*["']([^"']+)["']`)

type pyproject struct {
	Project struct {
		Name           string            `toml:"name"`
		Description    string            `toml:"description"`
		License        any               `toml:"license"`
		RequiresPython string            `toml:"requires-python"`
		Keywords       []string          `toml:"keywords"`
		Authors        []Person          `toml:"authors"`
		Maintainers    []Person          `toml:"maintainers"`
		URLs           map[string]string `toml:"urls"`
		Optional       map[string]any    `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		GreatDocs ToolConfig `toml:"great-docs"`
	} `toml:"tool"`
}

// FindPackageRoot returns the nearest directory at or above start that holds a
// pyproject.toml or setup.py, searching at most five parent levels. It returns
// start itself when nothing is found.
func FindPackageRoot(start string) string {
	abs, err := filepath.Abs(start)
	if err != nil {
		return start
	}
	dir := abs
	for range maxParentLevels + 1 {
		if fileExists(filepath.Join(dir, pyprojectFile)) || fileExists(filepath.Join(dir, setupPyFile)) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return abs
}

// Load resolves the project settings for the project at root and applies defaults
// and environment overrides.
func Load(root string) (*Settings, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.ConfigError("cannot resolve project path").WithCause(err).Build()
	}
	s := &Settings{ProjectRoot: abs, PackageRoot: FindPackageRoot(abs)}

	if err := readPyproject(s); err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = nameFromSetupPy(s.PackageRoot)
	}
	if s.Name == "" {
		s.Name = singlePackageDir(s.PackageRoot)
	}
	ApplyDefaults(s)
	return s, nil
}

func readPyproject(s *Settings) error {
	path := filepath.Join(s.PackageRoot, pyprojectFile)
	raw, err := os.ReadFile(path) // #nosec G304 -- project file under the user's root
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.FileSystemError("cannot read pyproject.toml").
			WithCause(err).WithContext("path", path).Build()
	}
	var pp pyproject
	if _, err := toml.Decode(string(raw), &pp); err != nil {
		return errors.ConfigError("invalid pyproject.toml").
			WithCause(err).WithContext("path", path).Build()
	}

	s.Name = pp.Project.Name
	s.Description = pp.Project.Description
	s.License = licenseString(pp.Project.License)
	s.RequiresPython = pp.Project.RequiresPython
	s.Keywords = pp.Project.Keywords
	s.Authors = pp.Project.Authors
	s.Maintainers = pp.Project.Maintainers
	s.URLs = pp.Project.URLs
	for extra := range pp.Project.Optional {
		s.Extras = append(s.Extras, extra)
	}
	sort.Strings(s.Extras)
	s.Tool = pp.Tool.GreatDocs
	return nil
}

// licenseString accepts both `license = "MIT"` and `license = {text = "MIT"}`.
func licenseString(v any) string {
	switch l := v.(type) {
	case string:
		return l
	case map[string]any:
		if text, ok := l["text"].(string); ok {
			return text
		}
		if file, ok := l["file"].(string); ok {
			return fmt.Sprintf("See %s", file)
		}
	}
	return ""
}

func nameFromSetupPy(root string) string {
	raw, err := os.ReadFile(filepath.Join(root, setupPyFile)) // #nosec G304 -- project file
	if err != nil {
		return ""
	}
	if m := setupNameRe.FindSubmatch(raw); m != nil {
		return string(m[1])
	}
	return ""
}

// singlePackageDir returns the name of the only top-level directory holding an
// __init__.py, or "" when there are none or several.
func singlePackageDir(root string) string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return ""
	}
	var found []string
	for _, e := range entries {
		if !e.IsDir() || e.Name()[0] == '.' || e.Name()[0] == '_' {
			continue
		}
		if fileExists(filepath.Join(root, e.Name(), "__init__.py")) {
			found = append(found, e.Name())
		}
	}
	sort.Strings(found)
	if len(found) == 1 {
		return found[0]
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
