package site

import (
	"bytes"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rich-iannone/great-docs/internal/foundation/errors"
	"github.com/rich-iannone/great-docs/internal/logfields"
	"github.com/rich-iannone/great-docs/internal/quarto"
	"github.com/rich-iannone/great-docs/internal/util/fileutil"
)

var (
	//go:embed assets/post-render.py
	postRenderScript []byte
	//go:embed assets/great-docs.css
	stylesheet []byte
	//go:embed assets/gitignore
	gitignore []byte
)

// GitignoreFile is the ignore file installed into the docs directory.
const GitignoreFile = ".gitignore"

// gitignoreMarker opens the installed .gitignore; uninstall only removes a file
// that still starts with it.
const gitignoreMarker = "# Quarto build output"

type asset struct {
	rel  string
	data []byte
	perm os.FileMode
}

func assets() []asset {
	return []asset{
		{rel: quarto.PostRenderScript, data: postRenderScript, perm: 0o755},
		{rel: quarto.Stylesheet, data: stylesheet, perm: 0o644},
	}
}

// copyAssets writes the bundled files. Existing files are kept unless force.
func (s *Site) copyAssets(force bool) ([]string, error) {
	var written []string
	for _, a := range assets() {
		dst := filepath.Join(s.DocsDir, filepath.FromSlash(a.rel))
		if fileutil.Exists(dst) && !force {
			slog.Info("Keeping existing file", logfields.Path(dst))
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return written, errors.FileSystemError("cannot create directory").
				WithCause(err).WithContext("path", filepath.Dir(dst)).Build()
		}
		if err := fileutil.WriteAtomic(dst, a.data, a.perm); err != nil {
			return written, errors.FileSystemError("cannot write asset").
				WithCause(err).WithContext("path", dst).Build()
		}
		written = append(written, dst)
	}
	return written, nil
}

// installGitignore copies the bundled .gitignore, or appends it to an existing
// file that does not yet ignore _site/.
func (s *Site) installGitignore(force bool) (bool, error) {
	dst := filepath.Join(s.DocsDir, GitignoreFile)
	existing, err := os.ReadFile(dst) // #nosec G304 -- docs directory file
	switch {
	case os.IsNotExist(err) || (err == nil && force):
		existing = nil
	case err != nil:
		return false, errors.FileSystemError("cannot read .gitignore").
			WithCause(err).WithContext("path", dst).Build()
	case bytes.Contains(existing, []byte("_site/")):
		return false, nil
	}

	var out []byte
	if len(existing) > 0 {
		out = append(out, existing...)
		if !bytes.HasSuffix(out, []byte("\n")) {
			out = append(out, '\n')
		}
		out = append(out, '\n')
	}
	out = append(out, gitignore...)
	if err := fileutil.WriteAtomic(dst, out, 0o644); err != nil {
		return false, errors.FileSystemError("cannot write .gitignore").
			WithCause(err).WithContext("path", dst).Build()
	}
	return true, nil
}

// removeAssets deletes the bundled files. The .gitignore is only removed when it
// is still the one great-docs wrote.
func (s *Site) removeAssets() (removed, kept []string, err error) {
	for _, a := range assets() {
		path := filepath.Join(s.DocsDir, filepath.FromSlash(a.rel))
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, kept, fmt.Errorf("remove %s: %w", path, err)
		}
		removed = append(removed, path)
	}
	scripts := filepath.Join(s.DocsDir, filepath.Dir(filepath.FromSlash(quarto.PostRenderScript)))
	if entries, err := os.ReadDir(scripts); err == nil && len(entries) == 0 {
		_ = os.Remove(scripts)
	}

	path := filepath.Join(s.DocsDir, GitignoreFile)
	data, err := os.ReadFile(path) // #nosec G304 -- docs directory file
	if os.IsNotExist(err) {
		return removed, kept, nil
	}
	if err != nil {
		return removed, kept, fmt.Errorf("read %s: %w", path, err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte(gitignoreMarker)) {
		kept = append(kept, path)
		return removed, kept, nil
	}
	if err := os.Remove(path); err != nil {
		return removed, kept, fmt.Errorf("remove %s: %w", path, err)
	}
	return append(removed, path), kept, nil
}
