package site

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rich-iannone/great-docs/internal/catalog"
	"github.com/rich-iannone/great-docs/internal/directives"
	"github.com/rich-iannone/great-docs/internal/foundation/errors"
	"github.com/rich-iannone/great-docs/internal/quarto"
	"github.com/rich-iannone/great-docs/internal/util/fileutil"
)

// LLMsFile is the llms.txt index written into the docs directory.
const LLMsFile = "llms.txt"

// WriteLLMsTxt writes an llms.txt index of the API reference described by the
// quartodoc sections of doc. Item summaries come from the first docstring line
// of the matching catalog entry. Nothing is written without sections.
func (s *Site) WriteLLMsTxt(doc *quarto.Document, cat catalog.Catalog) (bool, error) {
	content, ok, err := s.llmsTxt(doc, cat)
	if err != nil || !ok {
		return false, err
	}
	path := filepath.Join(s.DocsDir, LLMsFile)
	if prev, err := os.ReadFile(path); err == nil && bytes.Equal(prev, content) { // #nosec G304 -- docs file
		return false, nil
	}
	if err := fileutil.WriteAtomic(path, content, 0o644); err != nil {
		return false, errors.FileSystemError("cannot write llms.txt").
			WithCause(err).WithContext("path", path).Build()
	}
	return true, nil
}

func (s *Site) llmsTxt(doc *quarto.Document, cat catalog.Catalog) ([]byte, bool, error) {
	pkg := doc.String(quarto.QuartodocKey, "package")
	sections, err := quarto.Sections(doc)
	if err != nil {
		return nil, false, err
	}
	if pkg == "" || len(sections) == 0 {
		return nil, false, nil
	}
	dir := doc.String(quarto.QuartodocKey, "dir")
	if dir == "" {
		dir = "reference"
	}

	siteURL := s.Settings.URLs["Documentation"]
	if siteURL == "" {
		siteURL = doc.String("website", "site-url")
	}
	if siteURL != "" {
		siteURL, _, _ = strings.Cut(siteURL, "#")
		if !strings.HasSuffix(siteURL, "/") {
			siteURL += "/"
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", pkg)
	if s.Settings.Description != "" {
		fmt.Fprintf(&b, "> %s\n\n", s.Settings.Description)
	}
	b.WriteString("## Docs\n\n### API Reference\n\n")
	for _, sec := range sections {
		if len(sections) > 1 && sec.Title != "" {
			fmt.Fprintf(&b, "#### %s\n", sec.Title)
			if sec.Description != "" {
				fmt.Fprintf(&b, "> %s\n", sec.Description)
			}
			b.WriteString("\n")
		}
		for _, name := range sec.Names() {
			url := fmt.Sprintf("%s%s/%s.html", siteURL, dir, name)
			if summary := summary(cat, name); summary != "" {
				fmt.Fprintf(&b, "- [%s](%s): %s\n", name, url, summary)
			} else {
				fmt.Fprintf(&b, "- [%s](%s)\n", name, url)
			}
		}
		b.WriteString("\n")
	}
	return []byte(b.String()), true, nil
}

// summary returns the first docstring line of an object or "Class.method",
// without directives or a trailing period.
func summary(cat catalog.Catalog, name string) string {
	doc := ""
	if obj, ok := cat.Lookup(name); ok {
		doc = obj.Docstring
	} else if class, method, found := strings.Cut(name, "."); found {
		if obj, ok := cat.Lookup(class); ok {
			for _, m := range obj.Methods {
				if m.Name == method {
					doc = m.Docstring
				}
			}
		}
	}
	doc = strings.TrimSpace(directives.Strip(doc))
	first, _, _ := strings.Cut(doc, "\n")
	return strings.TrimRight(strings.TrimSpace(first), ".")
}
