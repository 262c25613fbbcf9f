package site

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rich-iannone/great-docs/internal/config"
	"github.com/rich-iannone/great-docs/internal/foundation/errors"
	"github.com/rich-iannone/great-docs/internal/frontmatter"
	"github.com/rich-iannone/great-docs/internal/logfields"
	"github.com/rich-iannone/great-docs/internal/quarto"
	"github.com/rich-iannone/great-docs/internal/sourcelinks"
	"github.com/rich-iannone/great-docs/internal/util/fileutil"
)

// Pages generated into the docs directory.
const (
	IndexPage         = "index.qmd"
	LicensePage       = "license.qmd"
	ContributingPage  = "contributing.qmd"
	CodeOfConductPage = "code-of-conduct.qmd"
	CitationPage      = "citation.qmd"
)

// indexSources are the landing page sources in the package root, by priority.
var indexSources = []string{"index.qmd", "index.md", "README.md", "README.rst"}

const firstHeadingStyle = `<style>
section.level1:first-of-type > h1:first-child,
section.level2:first-of-type > h2:first-child,
.column-body-outset-right > section.level1:first-of-type > h1,
#quarto-document-content > section:first-of-type > h1 {
  margin-top: 4px !important;
}
</style>

`

// WriteLandingPages generates index.qmd from the project README and the license,
// contributing, code of conduct and citation pages from their sources. A page
// that exists without a matching fingerprint was edited by the user and is only
// replaced when force is set. It returns the pages written.
func (s *Site) WriteLandingPages(force bool) ([]string, error) {
	if err := os.MkdirAll(s.DocsDir, 0o755); err != nil {
		return nil, errors.FileSystemError("cannot create docs directory").
			WithCause(err).WithContext("path", s.DocsDir).Build()
	}
	var written []string
	write := func(name string, fields map[string]any, body string) error {
		ok, err := writeGenerated(filepath.Join(s.DocsDir, name), fields, body, force)
		if ok {
			written = append(written, name)
		}
		return err
	}

	var m margin
	root := s.Settings.PackageRoot

	if content, ok := readOptional(filepath.Join(root, "LICENSE")); ok {
		body := "```\n" + strings.TrimRight(content, "\n") + "\n```\n"
		if err := write(LicensePage, map[string]any{"title": "License"}, body); err != nil {
			return written, err
		}
		m.licenseLink = LicensePage
	}
	if content, ok := readCommunityFile(root, "CONTRIBUTING.md"); ok {
		if err := write(ContributingPage, map[string]any{"title": "Contributing"}, stripLeadingH1(content)); err != nil {
			return written, err
		}
		m.community = append(m.community, fmt.Sprintf("[Contributing guide](%s)<br>", ContributingPage))
	}
	if content, ok := readCommunityFile(root, "CODE_OF_CONDUCT.md"); ok {
		if err := write(CodeOfConductPage, map[string]any{"title": "Code of Conduct"}, stripLeadingH1(content)); err != nil {
			return written, err
		}
		m.community = append(m.community, fmt.Sprintf("[Code of conduct](%s)<br>", CodeOfConductPage))
	}
	if content, ok := readOptional(filepath.Join(root, "CITATION.cff")); ok {
		body, err := s.citationBody([]byte(content))
		if err != nil {
			slog.Warn("Ignoring unreadable CITATION.cff", logfields.Error(err))
		} else {
			if err := write(CitationPage, map[string]any{"title": "Authors and Citation"}, body); err != nil {
				return written, err
			}
			m.citationLink = CitationPage
		}
	}

	src, ok := s.indexSource()
	if !ok {
		slog.Info("No index.qmd, index.md or README found; skipping landing page")
		return written, nil
	}
	if sameFile(src, filepath.Join(s.DocsDir, IndexPage)) {
		return written, nil
	}
	raw, err := os.ReadFile(src) // #nosec G304 -- project README
	if err != nil {
		return written, errors.FileSystemError("cannot read landing page source").
			WithCause(err).WithContext("path", src).Build()
	}
	fields, body := s.landingContent(src, raw, m)
	if err := write(IndexPage, fields, body); err != nil {
		return written, err
	}
	return written, nil
}

// indexSource picks the landing page source, warning when several exist.
func (s *Site) indexSource() (string, bool) {
	var found []string
	for _, name := range indexSources {
		path := filepath.Join(s.Settings.PackageRoot, name)
		if fileutil.IsFile(path) {
			found = append(found, path)
		}
	}
	if len(found) == 0 {
		return "", false
	}
	if len(found) > 1 {
		slog.Warn("Multiple landing page sources found; using the first",
			logfields.Path(found[0]), "ignored", found[1:])
	}
	return found[0], true
}

func (s *Site) landingContent(src string, raw []byte, m margin) (map[string]any, string) {
	fields := map[string]any{}
	content := string(raw)
	switch strings.ToLower(filepath.Ext(src)) {
	case ".rst":
		content = string(bumpHeadings([]byte(rstToMarkdown(content))))
	default:
		if page, err := frontmatter.Read(raw); err == nil && page.HasFrontMatter {
			for k, v := range page.Fields {
				if k != frontmatter.FingerprintField {
					fields[k] = v
				}
			}
			content = string(page.Body)
		}
		content = string(bumpHeadings([]byte(content)))
	}
	if _, ok := fields["title"]; !ok {
		fields["title"] = ""
	}
	if _, ok := fields["toc"]; !ok {
		fields["toc"] = false
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(firstHeadingStyle)
	if side := s.marginContent(m); side != "" {
		b.WriteString("::: {.column-margin}\n")
		b.WriteString(side)
		b.WriteString("\n:::\n\n")
	}
	b.WriteString(strings.TrimLeft(content, "\r\n"))
	if !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	return fields, b.String()
}

type margin struct {
	licenseLink  string
	citationLink string
	community    []string
}

var urlLabels = map[string]string{
	"homepage":      "",
	"documentation": "",
	"repository":    "Browse source code",
	"bug_tracker":   "Report a bug",
}

func (s *Site) marginContent(m margin) string {
	st := s.Settings
	var out []string

	out = append(out, "#### Links\n")
	if st.Name != "" {
		out = append(out, fmt.Sprintf("[View on PyPI](https://pypi.org/project/%s/)<br>", st.Name))
	}
	keys := make([]string, 0, len(st.URLs))
	for k := range st.URLs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		norm := strings.ReplaceAll(strings.ToLower(k), " ", "_")
		label, known := urlLabels[norm]
		if !known {
			label = quarto.TitleCase(strings.ReplaceAll(k, "_", " "))
		}
		if label != "" {
			out = append(out, fmt.Sprintf("[%s](%s)<br>", label, st.URLs[k]))
		}
	}
	out = append(out, "[llms.txt](llms.txt)<br>")

	switch {
	case m.licenseLink != "":
		out = append(out, "\n#### License\n", fmt.Sprintf("[Full license](%s)<br>", m.licenseLink))
	case st.License != "":
		out = append(out, "\n#### License\n", st.License)
	}

	if len(m.community) > 0 {
		out = append(out, "\n#### Community\n")
		out = append(out, m.community...)
	}

	if authors := st.DisplayAuthors(); len(authors) > 0 {
		out = append(out, "\n#### Developers\n")
		fallbackGitHub := ""
		if owner, _, ok := sourcelinks.ParseGitHubRepo(st.RepositoryURL()); ok {
			fallbackGitHub = owner
		}
		for i, a := range authors {
			if a.Name == "" {
				continue
			}
			out = append(out, authorEntry(i, a, fallbackGitHub))
		}
	}

	var meta []string
	if st.RequiresPython != "" {
		meta = append(meta, fmt.Sprintf("**Requires:** Python `%s`", st.RequiresPython))
	}
	if len(st.Extras) > 0 {
		quoted := make([]string, len(st.Extras))
		for i, e := range st.Extras {
			quoted[i] = "`" + e + "`"
		}
		meta = append(meta, "**Provides-Extra:** "+strings.Join(quoted, ", "))
	}
	if len(meta) > 0 {
		out = append(out, "\n#### Meta\n", strings.Join(meta, "<br>\n"))
	}

	if m.citationLink != "" {
		name := st.Name
		if name == "" {
			name = "this package"
		}
		out = append(out, "\n#### Citation\n", fmt.Sprintf("[Citing %s](%s)", name, m.citationLink))
	}
	return strings.Join(out, "\n")
}

func authorEntry(i int, a config.Person, fallbackGitHub string) string {
	name := a.Name
	if a.Role != "" {
		name = "**" + name + "**"
	}
	parts := []string{name}
	if a.Role != "" {
		parts = append(parts, "<br><small>"+a.Role+"</small>")
	}
	if a.Affiliation != "" {
		parts = append(parts, `<br><small style="margin-top: -0.15em; display: block;">`+a.Affiliation+"</small>")
	}

	var icons []string
	if a.Email != "" {
		icons = append(icons, fmt.Sprintf(`<a href="mailto:%s" title="Email"><i class="bi bi-envelope-fill"></i></a>`, a.Email))
	}
	gh := a.GitHub
	if gh == "" {
		gh = fallbackGitHub
	}
	if gh != "" {
		icons = append(icons, fmt.Sprintf(`<a href="https://github.com/%s" title="GitHub"><i class="bi bi-github"></i></a>`, gh))
	}
	if a.Homepage != "" {
		icons = append(icons, fmt.Sprintf(`<a href="%s" title="Homepage"><i class="bi bi-house-fill"></i></a>`, a.Homepage))
	}
	if a.ORCID != "" {
		orcid := a.ORCID
		if !strings.HasPrefix(orcid, "http") {
			orcid = "https://orcid.org/" + orcid
		}
		icons = append(icons, fmt.Sprintf(`<a href="%s" title="ORCID"><i class="fa-brands fa-orcid"></i></a>`, orcid))
	}
	if len(icons) > 0 {
		parts = append(parts, `<span style="margin-top: -0.15em; display: block;">`+strings.Join(icons, " ")+"</span>")
	}

	content := strings.Join(parts, " ")
	if i == 0 {
		return "<p>" + content + "</p>"
	}
	return `<p style="padding-top: 10px;">` + content + "</p>"
}

type citationFile struct {
	Title        string `yaml:"title"`
	Version      string `yaml:"version"`
	URL          string `yaml:"url"`
	DateReleased string `yaml:"date-released"`
	Authors      []struct {
		Given  string `yaml:"given-names"`
		Family string `yaml:"family-names"`
		Name   string `yaml:"name"`
	} `yaml:"authors"`
}

// citationBody renders an authors list, a text citation and a BibTeX entry from
// CITATION.cff.
func (s *Site) citationBody(raw []byte) (string, error) {
	var cff citationFile
	if err := yaml.Unmarshal(raw, &cff); err != nil {
		return "", err
	}
	year := fmt.Sprint(s.Now().Year())
	if len(cff.DateReleased) >= 4 {
		year = cff.DateReleased[:4]
	}
	roles := map[string]string{}
	for _, p := range s.Settings.Tool.Authors {
		if p.Role != "" {
			roles[p.Name] = p.Role
		}
	}

	var full, short []string
	for _, a := range cff.Authors {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name == "" {
			name = a.Name
		}
		full = append(full, name)
		switch {
		case a.Family != "" && a.Given != "":
			short = append(short, a.Family+" "+a.Given[:1])
		case a.Family != "":
			short = append(short, a.Family)
		default:
			short = append(short, name)
		}
	}

	var b strings.Builder
	b.WriteString("## Authors\n\n")
	for _, name := range full {
		role := roles[name]
		if role == "" {
			role = "Author"
		}
		fmt.Fprintf(&b, "%s. %s.  \n", name, role)
	}
	b.WriteString("\n## Citation\n\n**Source:** `CITATION.cff`\n\n")
	if len(short) > 0 {
		fmt.Fprintf(&b, "%s (%s). %s Python package version %s, %s.\n\n",
			strings.Join(short, ", "), year, cff.Title, cff.Version, cff.URL)
	}
	b.WriteString("```bibtex\n@Manual{,\n")
	if cff.Title != "" {
		fmt.Fprintf(&b, "  title = {%s},\n", cff.Title)
	}
	if len(full) > 0 {
		fmt.Fprintf(&b, "  author = {%s},\n", strings.Join(full, " and "))
	}
	fmt.Fprintf(&b, "  year = {%s},\n", year)
	if cff.Version != "" {
		fmt.Fprintf(&b, "  note = {Python package version %s},\n", cff.Version)
	}
	if cff.URL != "" {
		fmt.Fprintf(&b, "  url = {%s},\n", cff.URL)
	}
	b.WriteString("}\n```\n")
	return b.String(), nil
}

// writeGenerated writes a fingerprinted page. An existing page is replaced only
// when force is set or its fingerprint shows it was not edited.
func writeGenerated(path string, fields map[string]any, body string, force bool) (bool, error) {
	existing, err := os.ReadFile(path) // #nosec G304 -- generated docs page
	if err == nil && !force {
		page, rerr := frontmatter.Read(existing)
		if rerr != nil || !page.Untouched() {
			slog.Info("Keeping edited page", logfields.Path(path))
			return false, nil
		}
	}

	page := frontmatter.NewPage(fields, body)
	if err := page.Stamp(); err != nil {
		return false, errors.InternalError("cannot fingerprint page").WithCause(err).Build()
	}
	out, err := page.Bytes()
	if err != nil {
		return false, errors.InternalError("cannot encode page").WithCause(err).Build()
	}
	if bytes.Equal(existing, out) {
		return false, nil
	}
	if err := fileutil.WriteAtomic(path, out, 0o644); err != nil {
		return false, errors.FileSystemError("cannot write page").
			WithCause(err).WithContext("path", path).Build()
	}
	slog.Info("Wrote page", logfields.Path(path))
	return true, nil
}

func readOptional(path string) (string, bool) {
	data, err := os.ReadFile(path) // #nosec G304 -- project file
	if err != nil {
		return "", false
	}
	return string(data), true
}

// readCommunityFile looks in the root and then in .github/.
func readCommunityFile(root, name string) (string, bool) {
	if c, ok := readOptional(filepath.Join(root, name)); ok {
		return c, true
	}
	return readOptional(filepath.Join(root, ".github", name))
}

func sameFile(a, b string) bool {
	ia, err := os.Stat(a)
	if err != nil {
		return false
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}
