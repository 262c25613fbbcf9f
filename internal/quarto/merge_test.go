package quarto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/rich-iannone/great-docs/internal/foundation/errors"
	"github.com/rich-iannone/great-docs/internal/planner"
)

func parse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

func encode(t *testing.T, doc *Document) string {
	t.Helper()
	b, err := doc.Encode()
	require.NoError(t, err)
	return string(b)
}

func samplePlan() planner.SectionPlan {
	return planner.SectionPlan{Sections: []planner.Section{
		{Title: "Classes", Description: "Core classes and types", Contents: []planner.ContentRef{
			{Name: "Graph", SuppressMembers: true}, {Name: "Point"},
		}},
		{Title: "Graph Methods", Description: "Methods for the Graph class", Contents: []planner.ContentRef{
			{Name: "Graph.add_node"}, {Name: "Graph.add_edge"},
		}},
		{Title: "Functions", Description: "Public functions", Contents: []planner.ContentRef{{Name: "load"}}},
	}}
}

const userConfig = `# site configuration
project:
  type: website
  output-dir: _site

website:
  title: My Site # keep me

quartodoc:
  package: pkg
  style: custom
  sections:
    - title: Tutorials
      contents:
        - getting_started
    - title: Classes
      desc: stale
      contents:
        - OldClass
    - title: Old Methods
      contents:
        - Old.run
`

func TestMergeIntoEmptyDocument(t *testing.T) {
	out, err := Merge(NewDocument(), samplePlan(), DefaultQuartodoc("pkg"))
	require.NoError(t, err)

	require.Equal(t, "pkg", out.String("quartodoc", "package"))
	require.Equal(t, "reference", out.String("quartodoc", "dir"))
	require.Equal(t, "API Reference", out.String("quartodoc", "title"))
	require.Equal(t, "pkgdown", out.String("quartodoc", "style"))
	require.Equal(t, "true", out.String("quartodoc", "dynamic"))
	require.Equal(t, "markdown", out.String("quartodoc", "renderer", "style"))
	require.Equal(t, "description-list", out.String("quartodoc", "renderer", "table_style"))

	sections, err := Sections(out)
	require.NoError(t, err)
	if diff := cmp.Diff(samplePlan().Sections, sections); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	require.Contains(t, encode(t, out), "members: []")
}

func TestMergePreservesUserContent(t *testing.T) {
	doc := parse(t, userConfig)
	out, err := Merge(doc, samplePlan(), DefaultQuartodoc("pkg"))
	require.NoError(t, err)

	require.Equal(t, "custom", out.String("quartodoc", "style"), "existing settings win")
	require.Equal(t, "_site", out.String("project", "output-dir"))

	sections, err := Sections(out)
	require.NoError(t, err)
	var titles []string
	for _, s := range sections {
		titles = append(titles, s.Title)
	}
	require.Equal(t, []string{"Tutorials", "Classes", "Graph Methods", "Functions"}, titles)
	require.Equal(t, []string{"getting_started"}, sections[0].Names())

	text := encode(t, out)
	require.Contains(t, text, "# site configuration")
	require.Contains(t, text, "# keep me")
	require.NotContains(t, text, "OldClass")
	require.NotContains(t, text, "Old Methods")

	require.Contains(t, encode(t, doc), "OldClass", "input document must not be modified")
}

func TestMergeInsertsAheadOfUserSectionsWhenNoneGenerated(t *testing.T) {
	doc := parse(t, "quartodoc:\n  sections:\n    - title: Tutorials\n      contents: [a]\n")
	out, err := Merge(doc, samplePlan(), DefaultQuartodoc("pkg"))
	require.NoError(t, err)
	sections, err := Sections(out)
	require.NoError(t, err)
	require.Equal(t, "Classes", sections[0].Title)
	require.Equal(t, "Tutorials", sections[len(sections)-1].Title)
}

func TestMergeIsIdempotent(t *testing.T) {
	for name, src := range map[string]string{
		"empty": "",
		"user":  userConfig,
		"trailing user section": `quartodoc:
  sections:
    - title: Functions
      contents: [x]
    - title: Guides
      contents: [y]
`,
	} {
		t.Run(name, func(t *testing.T) {
			once, err := Merge(parse(t, src), samplePlan(), DefaultQuartodoc("pkg"))
			require.NoError(t, err)
			twice, err := Merge(once, samplePlan(), DefaultQuartodoc("pkg"))
			require.NoError(t, err)
			require.Equal(t, encode(t, once), encode(t, twice))
		})
	}
}

func TestMergeReplacesFamilySectionsOnRerun(t *testing.T) {
	plan := planner.SectionPlan{Sections: []planner.Section{
		{Title: "Graph Builders", Contents: []planner.ContentRef{{Name: "build"}}},
	}}
	once, err := Merge(NewDocument(), plan, DefaultQuartodoc("pkg"))
	require.NoError(t, err)
	twice, err := Merge(once, plan, DefaultQuartodoc("pkg"))
	require.NoError(t, err)
	sections, err := Sections(twice)
	require.NoError(t, err)
	require.Len(t, sections, 1)
}

func TestMergeEmptyPlanLeavesSections(t *testing.T) {
	doc := parse(t, userConfig)
	out, err := Merge(doc, planner.SectionPlan{}, DefaultQuartodoc("pkg"))
	require.NoError(t, err)
	before, err := Sections(doc)
	require.NoError(t, err)
	after, err := Sections(out)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(before, after))
}

func TestMergeRejectsBadShapes(t *testing.T) {
	for name, src := range map[string]string{
		"quartodoc scalar": "quartodoc: yes\n",
		"sections mapping": "quartodoc:\n  sections:\n    a: b\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Merge(parse(t, src), samplePlan(), DefaultQuartodoc("pkg"))
			require.Error(t, err)
			require.True(t, errors.HasCategory(err, errors.CategoryConfigFormat))
		})
	}
}

func TestParseRejectsNonMappingRoot(t *testing.T) {
	_, err := Parse([]byte("- a\n- b\n"))
	require.True(t, errors.HasCategory(err, errors.CategoryConfigFormat))

	_, err = Parse([]byte("key: [unterminated\n"))
	require.True(t, errors.HasCategory(err, errors.CategoryConfigFormat))

	doc, err := Parse([]byte("~\n"))
	require.NoError(t, err)
	require.Equal(t, 0, len(doc.Root().Content))
}

func TestLoadAndWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "_quarto.yml")

	doc, exists, err := Load(path)
	require.NoError(t, err)
	require.False(t, exists)

	out, err := Merge(doc, samplePlan(), DefaultQuartodoc("pkg"))
	require.NoError(t, err)
	require.NoError(t, WriteFile(path, out))

	reloaded, exists, err := Load(path)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, encode(t, out), encode(t, reloaded))

	require.NoError(t, os.WriteFile(path, []byte("- not a mapping\n"), 0o600))
	_, exists, err = Load(path)
	require.True(t, exists)
	require.True(t, errors.HasCategory(err, errors.CategoryConfigFormat))
}
