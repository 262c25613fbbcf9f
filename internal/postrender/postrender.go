// Package postrender fixes up the HTML Quarto renders for API reference pages:
// it drops leftover docstring directives and adds SOURCE links.
package postrender

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/rich-iannone/great-docs/internal/directives"
	"github.com/rich-iannone/great-docs/internal/logfields"
	"github.com/rich-iannone/great-docs/internal/sourcelinks"
	"github.com/rich-iannone/great-docs/internal/util/fileutil"
)

// Placement of the SOURCE link.
const (
	// PlacementUsage puts the link in a row above the usage signature block.
	PlacementUsage = "usage"
	// PlacementTitle puts the link right after the page title.
	PlacementTitle = "title"
)

// Options configure a post-render pass.
type Options struct {
	// SiteDir is the rendered site (usually <docs>/_site).
	SiteDir string
	// ReferenceDir is the reference directory inside the site.
	ReferenceDir string
	Links        sourcelinks.Links
	Placement    string
}

// Stats summarises a pass.
type Stats struct {
	Pages             int
	Changed           int
	DirectivesRemoved int
	LinksAdded        int
}

// Run processes every reference page except the index.
func Run(opts Options) (Stats, error) {
	var stats Stats
	refDir := opts.ReferenceDir
	if refDir == "" {
		refDir = "reference"
	}
	pages, err := filepath.Glob(filepath.Join(opts.SiteDir, refDir, "*.html"))
	if err != nil {
		return stats, fmt.Errorf("list reference pages: %w", err)
	}
	for _, path := range pages {
		if filepath.Base(path) == "index.html" {
			continue
		}
		stats.Pages++
		raw, err := os.ReadFile(path) // #nosec G304 -- rendered site file
		if err != nil {
			return stats, fmt.Errorf("read %s: %w", path, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), ".html")
		out, res, err := ProcessPage(raw, name, opts.Links, opts.Placement)
		if err != nil {
			return stats, fmt.Errorf("process %s: %w", path, err)
		}
		stats.DirectivesRemoved += res.DirectivesRemoved
		if res.LinkAdded {
			stats.LinksAdded++
		}
		if !res.Changed() {
			continue
		}
		if err := fileutil.WriteAtomic(path, out, 0o644); err != nil {
			return stats, err
		}
		stats.Changed++
		slog.Debug("Post-processed reference page", logfields.Path(path))
	}
	return stats, nil
}

// PageResult reports what ProcessPage changed.
type PageResult struct {
	DirectivesRemoved int
	LinkAdded         bool
}

// Changed reports whether the page was modified.
func (r PageResult) Changed() bool { return r.DirectivesRemoved > 0 || r.LinkAdded }

// ProcessPage rewrites one rendered page for the item name. Unchanged pages are
// returned as given.
func ProcessPage(raw []byte, name string, links sourcelinks.Links, placement string) ([]byte, PageResult, error) {
	var res PageResult
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, res, err
	}

	for _, p := range findAll(doc, func(n *html.Node) bool { return n.DataAtom == atom.P }) {
		if isDirectiveParagraph(p) {
			p.Parent.RemoveChild(p)
			res.DirectivesRemoved++
		}
	}

	if link, ok := links[name]; ok && link.URL != "" && !hasSourceLink(doc) {
		res.LinkAdded = insertSourceLink(doc, link.URL, placement)
	}

	if !res.Changed() {
		return raw, res, nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, res, err
	}
	return buf.Bytes(), res, nil
}

func isDirectiveParagraph(p *html.Node) bool {
	text := strings.TrimSpace(textContent(p))
	if text == "" {
		return false
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !directives.IsDirectiveLine(line) {
			return false
		}
	}
	return true
}

func hasSourceLink(doc *html.Node) bool {
	return len(findAll(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.A && hasClass(n, "source-link")
	})) > 0
}

func insertSourceLink(doc *html.Node, url, placement string) bool {
	anchor := &html.Node{Type: html.ElementNode, Data: "a", DataAtom: atom.A, Attr: []html.Attribute{
		{Key: "href", Val: url},
		{Key: "class", Val: "source-link"},
		{Key: "target", Val: "_blank"},
		{Key: "rel", Val: "noopener"},
	}}
	anchor.AppendChild(&html.Node{Type: html.TextNode, Data: "SOURCE"})

	if placement != PlacementTitle {
		blocks := findAll(doc, func(n *html.Node) bool { return n.DataAtom == atom.Div && hasClass(n, "sourceCode") })
		if len(blocks) > 0 {
			row := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div,
				Attr: []html.Attribute{{Key: "class", Val: "usage-source-row"}}}
			label := &html.Node{Type: html.ElementNode, Data: "span", DataAtom: atom.Span,
				Attr: []html.Attribute{{Key: "class", Val: "usage-label"}}}
			label.AppendChild(&html.Node{Type: html.TextNode, Data: "USAGE"})
			row.AppendChild(label)
			row.AppendChild(anchor)
			blocks[0].Parent.InsertBefore(row, blocks[0])
			return true
		}
	}

	headings := findAll(doc, func(n *html.Node) bool { return n.DataAtom == atom.H1 })
	if len(headings) == 0 {
		return false
	}
	h := headings[0]
	h.Parent.InsertBefore(anchor, h.NextSibling)
	return true
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}
