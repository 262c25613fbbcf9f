package site

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const maxHeadingLevel = 6

var setextUnderlineRe = regexp.MustCompile(`^[ \t>]*(=+|-+)[ \t]*\r?\n?$`)

// bumpHeadings demotes every Markdown heading by one level so a README's title
// renders as h2 under the page. Setext headings become ATX headings. Lines inside
// code blocks are left alone.
func bumpHeadings(src []byte) []byte {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	lines := strings.SplitAfter(string(src), "\n")
	starts := make([]int, len(lines))
	off := 0
	for i, l := range lines {
		starts[i] = off
		off += len(l)
	}
	lineOf := func(pos int) int {
		return sort.Search(len(starts), func(i int) bool { return starts[i] > pos }) - 1
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		segs := h.Lines()
		if segs.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		first := lineOf(segs.At(0).Start)
		last := lineOf(segs.At(segs.Len() - 1).Start)
		col := segs.At(0).Start - starts[first]
		prefix := lines[first][:col]
		level := min(h.Level+1, maxHeadingLevel)

		if hashes := strings.LastIndex(prefix, "#"); hashes >= 0 {
			run := hashes
			for run > 0 && prefix[run-1] == '#' {
				run--
			}
			if h.Level < maxHeadingLevel {
				lines[first] = lines[first][:run] + "#" + lines[first][run:]
			}
			return ast.WalkSkipChildren, nil
		}

		if last+1 >= len(lines) || !setextUnderlineRe.MatchString(lines[last+1]) {
			return ast.WalkSkipChildren, nil
		}
		parts := make([]string, 0, last-first+1)
		for i := first; i <= last; i++ {
			parts = append(parts, strings.TrimSpace(strings.TrimPrefix(lines[i], prefix)))
			lines[i] = ""
		}
		lines[first] = prefix + strings.Repeat("#", level) + " " + strings.Join(parts, " ") + "\n"
		lines[last+1] = ""
		return ast.WalkSkipChildren, nil
	})
	return []byte(strings.Join(lines, ""))
}

var rstAdornment = regexp.MustCompile(`^([=\-~^"'` + "`" + `#*+:.])\1+\s*$`)

// rstToMarkdown turns reStructuredText section titles into Markdown headings,
// starting at level 2. Levels follow the order adornment styles first appear
// in. Other markup passes through.
func rstToMarkdown(src string) string {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	levels := map[string]int{}
	var out []string
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		title := strings.TrimSpace(line)
		if rstAdornment.MatchString(line) && i+2 < len(lines) && rstAdornment.MatchString(lines[i+2]) &&
			strings.TrimSpace(lines[i+1]) != "" && line[0] == lines[i+2][0] {
			title = strings.TrimSpace(lines[i+1])
			out = append(out, rstHeading(levels, "over"+line[:1], title))
			i += 2
			continue
		}
		if title != "" && !rstAdornment.MatchString(line) && i+1 < len(lines) &&
			rstAdornment.MatchString(lines[i+1]) && len(strings.TrimSpace(lines[i+1])) >= len(title) {
			out = append(out, rstHeading(levels, lines[i+1][:1], title))
			i++
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func rstHeading(levels map[string]int, style, title string) string {
	lvl, ok := levels[style]
	if !ok {
		lvl = min(len(levels)+2, maxHeadingLevel)
		levels[style] = lvl
	}
	return strings.Repeat("#", lvl) + " " + title
}

// stripLeadingH1 drops a first line "# Title" so it does not repeat the page title.
func stripLeadingH1(content string) string {
	first, rest, found := strings.Cut(content, "\n")
	if strings.HasPrefix(first, "# ") {
		if !found {
			return ""
		}
		return strings.TrimLeft(rest, "\r\n \t")
	}
	return content
}
