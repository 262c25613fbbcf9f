// Package sourcelinks maps documented API items to the GitHub lines that define
// them. The mapping is written next to _quarto.yml and read back by the
// post-render step, which adds a SOURCE link to each reference page.
package sourcelinks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rich-iannone/great-docs/internal/catalog"
	"github.com/rich-iannone/great-docs/internal/util/fileutil"
)

// FileName is the mapping file name inside the docs directory.
const FileName = "_source_links.json"

// Link is the source location of one item.
type Link struct {
	URL       string `json:"url"`
	Path      string `json:"path"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// Links maps qualified names ("Graph", "Graph.add_node") to their source.
type Links map[string]Link

var githubRepoRe = regexp.MustCompile(`github\.com[/:]([^/\s]+)/([^/\s#?]+)`)

// ParseGitHubRepo extracts owner and repository from https or ssh GitHub URLs.
func ParseGitHubRepo(url string) (owner, repo string, ok bool) {
	m := githubRepoRe.FindStringSubmatch(url)
	if m == nil {
		return "", "", false
	}
	repo = strings.TrimSuffix(m[2], ".git")
	if m[1] == "" || repo == "" {
		return "", "", false
	}
	return m[1], repo, true
}

// Options configure link generation.
type Options struct {
	RepositoryURL string
	// Ref is the branch or tag to link to.
	Ref string
	// PackageRoot is the repository-relative base for file paths.
	PackageRoot string
	// SourcePath overrides the directory files are reported under (monorepos).
	SourcePath string
}

// Build computes links for every object and method with a known location. It
// returns nil when the repository is not on GitHub.
func Build(cat catalog.Catalog, opts Options) Links {
	owner, repo, ok := ParseGitHubRepo(opts.RepositoryURL)
	if !ok {
		return nil
	}
	base := fmt.Sprintf("https://github.com/%s/%s/blob/%s/", owner, repo, opts.Ref)

	links := Links{}
	add := func(name string, loc catalog.Location) {
		if !loc.Known() {
			return
		}
		rel := relativePath(loc.File, opts)
		end := loc.EndLine
		if end < loc.StartLine {
			end = loc.StartLine
		}
		url := base + rel + fmt.Sprintf("#L%d", loc.StartLine)
		if end != loc.StartLine {
			url += fmt.Sprintf("-L%d", end)
		}
		links[name] = Link{URL: url, Path: rel, StartLine: loc.StartLine, EndLine: end}
	}
	for _, obj := range cat {
		add(obj.QualifiedName, obj.Location)
		for _, m := range obj.Methods {
			add(m.QualifiedName, m.Location)
		}
	}
	return links
}

func relativePath(file string, opts Options) string {
	if opts.SourcePath != "" {
		return strings.Trim(filepath.ToSlash(opts.SourcePath), "/") + "/" + filepath.Base(file)
	}
	if opts.PackageRoot != "" && filepath.IsAbs(file) {
		if rel, err := filepath.Rel(opts.PackageRoot, file); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(file)
}

// Write stores links as indented JSON.
func Write(path string, links Links) error {
	data, err := json.MarshalIndent(links, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal source links: %w", err)
	}
	return fileutil.WriteAtomic(path, append(data, '\n'), 0o644)
}

// Read loads a links file. A missing file yields an empty mapping.
func Read(path string) (Links, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- docs directory file
	if os.IsNotExist(err) {
		return Links{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read source links: %w", err)
	}
	var links Links
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, fmt.Errorf("parse source links %s: %w", path, err)
	}
	return links, nil
}
