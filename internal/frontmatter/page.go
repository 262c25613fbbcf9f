// Package frontmatter reads and writes the YAML front matter of Quarto (.qmd) and
// Markdown pages, and stamps generated pages with a content fingerprint so later
// runs can tell whether a user has edited them.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrUnclosed indicates a page opens a front matter block but never closes it.
var ErrUnclosed = errors.New("front matter opening delimiter found but closing delimiter is missing")

// Page is a document split into front matter fields and body.
type Page struct {
	Fields map[string]any
	Body   []byte
	// HasFrontMatter is false when the source had no leading --- block.
	HasFrontMatter bool
	// Newline is "\n" or "\r\n", detected from the source.
	Newline string
}

// NewPage builds a page with front matter.
func NewPage(fields map[string]any, body string) *Page {
	if fields == nil {
		fields = map[string]any{}
	}
	return &Page{Fields: fields, Body: []byte(body), HasFrontMatter: true, Newline: "\n"}
}

// Read splits content. Content without a front matter block yields a page whose
// body is the whole input.
func Read(content []byte) (*Page, error) {
	nl := detectNewline(content)
	p := &Page{Fields: map[string]any{}, Body: content, Newline: nl}

	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return p, nil
	}
	rest := content[len(open):]

	var raw []byte
	switch {
	case bytes.HasPrefix(rest, open):
		p.Body = rest[len(open):]
	default:
		closeSeq := []byte(nl + delimiter + nl)
		idx := bytes.Index(rest, closeSeq)
		if idx < 0 {
			if !bytes.HasSuffix(rest, []byte(nl+delimiter)) {
				return nil, ErrUnclosed
			}
			idx = len(rest) - len(nl+delimiter)
			raw, p.Body = rest[:idx+len(nl)], nil
			break
		}
		raw = rest[:idx+len(nl)]
		p.Body = rest[idx+len(closeSeq):]
	}
	p.HasFrontMatter = true

	if len(bytes.TrimSpace(raw)) > 0 {
		if err := yaml.Unmarshal(raw, &p.Fields); err != nil {
			return nil, err
		}
		if p.Fields == nil {
			p.Fields = map[string]any{}
		}
	}
	return p, nil
}

// Bytes reassembles the page. Pages without front matter return the body as is.
func (p *Page) Bytes() ([]byte, error) {
	if !p.HasFrontMatter {
		return p.Body, nil
	}
	nl := p.newline()
	fm, err := SerializeYAML(p.Fields, nl)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(fm)+len(p.Body)+8)
	out = append(out, delimiter+nl...)
	out = append(out, fm...)
	out = append(out, delimiter+nl...)
	out = append(out, p.Body...)
	return out, nil
}

func (p *Page) newline() string {
	if p.Newline == "" {
		return "\n"
	}
	return p.Newline
}

// EnsureFrontMatter prefixes content with an empty front matter block when it has
// none. Quarto needs one on pages quartodoc generates without it.
func EnsureFrontMatter(content []byte) ([]byte, bool) {
	if bytes.HasPrefix(content, []byte(delimiter)) {
		return content, false
	}
	out := make([]byte, 0, len(content)+9)
	out = append(out, "---\n---\n\n"...)
	out = append(out, content...)
	return out, true
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
