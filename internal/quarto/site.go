package quarto

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Files and values the installer references from _quarto.yml.
const (
	PostRenderScript = "scripts/post-render.py"
	Stylesheet       = "great-docs.css"
	DefaultTheme     = "flatly"

	fontAwesomeLink = `<link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.4.0/css/all.min.css">`
)

// SiteOptions carries the project facts used for site defaults.
type SiteOptions struct {
	// PackageName becomes the title-cased website title.
	PackageName   string
	RepositoryURL string
	Author        string
	Year          int
}

// EnsureSiteConfig adds the project, format and website settings a great-docs
// site needs. Values the user already set are kept; the post-render hook and the
// stylesheet are added alongside any existing entries.
func EnsureSiteConfig(doc *Document, opts SiteOptions) (*Document, error) {
	out := doc.Clone()
	root := out.Root()

	_, projectIdx := mapGet(root, "project")
	hadProject := projectIdx >= 0
	project, err := ensureMapping(root, "project")
	if err != nil {
		return nil, err
	}
	if !hadProject {
		mapSet(project, "type", strNode("website"))
	}
	if err := addPostRender(project); err != nil {
		return nil, err
	}

	format, err := ensureMapping(root, "format")
	if err != nil {
		return nil, err
	}
	html, err := ensureMapping(format, "html")
	if err != nil {
		return nil, err
	}
	css, err := ensureSequence(html, "css")
	if err != nil {
		return nil, err
	}
	if !seqHasScalar(css, Stylesheet) {
		css.Content = append(css.Content, strNode(Stylesheet))
	}
	mapSetDefault(html, "theme", strNode(DefaultTheme))
	mapSetDefault(html, "toc", boolNode(true))
	mapSetDefault(html, "toc-depth", intNode(2))
	mapSetDefault(html, "toc-title", strNode("On this page"))
	mapSetDefault(html, "shift-heading-level-by", intNode(-1))

	header, err := ensureSequence(html, "include-in-header")
	if err != nil {
		return nil, err
	}
	if !mentionsFontAwesome(header) {
		header.Content = append(header.Content, mapNode("text", strNode(fontAwesomeLink)))
	}

	website, err := ensureMapping(root, "website")
	if err != nil {
		return nil, err
	}
	mapSetDefault(website, "page-navigation", boolNode(true))
	if opts.PackageName != "" {
		mapSetDefault(website, "title", strNode(TitleCase(opts.PackageName)))
	}
	mapSetDefault(website, "navbar", navbarNode(opts.RepositoryURL))
	mapSetDefault(website, "sidebar", seqNode(mapNode("id", strNode("reference"), "contents", strNode("reference/"))))
	if opts.Author != "" && opts.Year > 0 {
		mapSetDefault(website, "page-footer",
			mapNode("left", strNode(fmt.Sprintf("&copy; %d %s", opts.Year, opts.Author))))
	}
	return out, nil
}

// TitleCase renders a package name as a site title ("my-pkg" -> "My-Pkg").
func TitleCase(name string) string {
	return cases.Title(language.Und).String(name)
}

func navbarNode(repoURL string) *yaml.Node {
	nav := mapNode("left", seqNode(
		mapNode("text", strNode("Home"), "href", strNode("index.qmd")),
		mapNode("text", strNode("API Reference"), "href", strNode("reference/index.qmd")),
	))
	if strings.Contains(repoURL, "github.com") {
		mapSet(nav, "right", seqNode(mapNode("icon", strNode("github"), "href", strNode(repoURL))))
	}
	return nav
}

func mentionsFontAwesome(seq *yaml.Node) bool {
	var found bool
	var walk func(n *yaml.Node)
	walk = func(n *yaml.Node) {
		if n.Kind == yaml.ScalarNode && strings.Contains(strings.ToLower(n.Value), "font-awesome") {
			found = true
		}
		for _, c := range n.Content {
			walk(c)
		}
	}
	walk(seq)
	return found
}

// addPostRender registers the post-render script, keeping any hook already set.
func addPostRender(project *yaml.Node) error {
	v, i := mapGet(project, "post-render")
	switch {
	case v == nil:
		mapSet(project, "post-render", strNode(PostRenderScript))
	case isNull(v):
		project.Content[i+1] = strNode(PostRenderScript)
	case v.Kind == yaml.ScalarNode:
		if v.Value != PostRenderScript {
			project.Content[i+1] = seqNode(v, strNode(PostRenderScript))
		}
	case v.Kind == yaml.SequenceNode:
		if !seqHasScalar(v, PostRenderScript) {
			v.Content = append(v.Content, strNode(PostRenderScript))
		}
	default:
		return errConfigShape("project.post-render", v)
	}
	return nil
}
