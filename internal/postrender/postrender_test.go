package postrender

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rich-iannone/great-docs/internal/sourcelinks"
)

const page = `<!DOCTYPE html>
<html><head><title>Graph</title></head>
<body>
<main>
<h1 class="title">Graph</h1>
<p>A graph.</p>
<p>%family Builders</p>
<p>@order: 2</p>
<div class="sourceCode" id="cb1"><pre><code>Graph(nodes, edges)</code></pre></div>
<p>Family matters in prose.</p>
</main>
</body></html>
`

var links = sourcelinks.Links{"Graph": {URL: "https://github.com/acme/w/blob/main/w/graph.py#L1-L9"}}

func TestProcessPageUsagePlacement(t *testing.T) {
	out, res, err := ProcessPage([]byte(page), "Graph", links, PlacementUsage)
	require.NoError(t, err)
	require.Equal(t, 2, res.DirectivesRemoved)
	require.True(t, res.LinkAdded)

	html := string(out)
	require.NotContains(t, html, "%family")
	require.NotContains(t, html, "@order")
	require.Contains(t, html, "Family matters in prose.")
	require.Contains(t, html, `<a href="https://github.com/acme/w/blob/main/w/graph.py#L1-L9" class="source-link" target="_blank" rel="noopener">SOURCE</a>`)
	require.Less(t, strings.Index(html, "usage-source-row"), strings.Index(html, `class="sourceCode"`))

	again, res, err := ProcessPage(out, "Graph", links, PlacementUsage)
	require.NoError(t, err)
	require.False(t, res.Changed(), "second pass is a no-op")
	require.Equal(t, out, again)
}

func TestProcessPageTitlePlacement(t *testing.T) {
	out, res, err := ProcessPage([]byte(page), "Graph", links, PlacementTitle)
	require.NoError(t, err)
	require.True(t, res.LinkAdded)
	html := string(out)
	require.NotContains(t, html, "usage-source-row")
	require.Less(t, strings.Index(html, "</h1>"), strings.Index(html, "source-link"))
}

func TestProcessPageWithoutLink(t *testing.T) {
	raw := []byte("<html><body><h1>f</h1><p>Plain.</p></body></html>")
	out, res, err := ProcessPage(raw, "f", nil, PlacementUsage)
	require.NoError(t, err)
	require.False(t, res.Changed())
	require.Equal(t, raw, out)
}

func TestRun(t *testing.T) {
	site := t.TempDir()
	ref := filepath.Join(site, "reference")
	require.NoError(t, os.MkdirAll(ref, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(ref, "Graph.html"), []byte(page), 0o600))
	index := []byte("<html><body><p>%family Keep</p></body></html>")
	require.NoError(t, os.WriteFile(filepath.Join(ref, "index.html"), index, 0o600))

	stats, err := Run(Options{SiteDir: site, Links: links, Placement: PlacementUsage})
	require.NoError(t, err)
	require.Equal(t, Stats{Pages: 1, Changed: 1, DirectivesRemoved: 2, LinksAdded: 1}, stats)

	got, err := os.ReadFile(filepath.Join(ref, "index.html"))
	require.NoError(t, err)
	require.Equal(t, index, got, "index page is left alone")
}
