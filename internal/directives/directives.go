// Package directives parses the %family, %order, %seealso and %nodoc lines that
// package authors put in docstrings to organise the API reference.
package directives

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rich-iannone/great-docs/internal/catalog"
)

// Directives are the values extracted from one docstring.
type Directives struct {
	Family  string
	Order   *int
	SeeAlso []string
	NoDoc   bool
}

// Empty reports whether no directive was found.
func (d Directives) Empty() bool {
	return d.Family == "" && d.Order == nil && len(d.SeeAlso) == 0 && !d.NoDoc
}

// OrderOr returns the %order value or def when unset.
func (d Directives) OrderOr(def int) int {
	if d.Order == nil {
		return def
	}
	return *d.Order
}

var (
	familyRe  = regexp.MustCompile(`(?m)^[ \t]*%family[ \t]+(.+?)[ \t]*$`)
	orderRe   = regexp.MustCompile(`(?m)^[ \t]*%order[ \t]+(\d+)[ \t]*$`)
	seeAlsoRe = regexp.MustCompile(`(?m)^[ \t]*%seealso[ \t]+(.+?)[ \t]*$`)
	noDocRe   = regexp.MustCompile(`(?mi)^[ \t]*%nodoc(?:[ \t]+(?:true|yes|1))?[ \t]*$`)

	anyLineRe   = regexp.MustCompile(`(?mi)^[ \t]*%(?:family|order|seealso|nodoc)(?:[ \t]+.*)?$\n?`)
	blankRunsRe = regexp.MustCompile(`\n{3,}`)

	// Older releases used "@family: X" style lines; rendered pages may still carry them.
	lineRe = regexp.MustCompile(`(?i)^\s*(?:%(?:family|order|seealso|nodoc)(?:\s+.*)?|@(?:family|order|seealso|nodoc):.*)$`)
)

// Extract parses the directives contained in docstring.
func Extract(docstring string) Directives {
	var d Directives
	if docstring == "" {
		return d
	}
	if m := familyRe.FindStringSubmatch(docstring); m != nil {
		d.Family = strings.TrimSpace(m[1])
	}
	if m := orderRe.FindStringSubmatch(docstring); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			d.Order = &n
		}
	}
	if m := seeAlsoRe.FindStringSubmatch(docstring); m != nil {
		for _, item := range strings.Split(m[1], ",") {
			if item = strings.TrimSpace(item); item != "" {
				d.SeeAlso = append(d.SeeAlso, item)
			}
		}
	}
	d.NoDoc = noDocRe.MatchString(docstring)
	return d
}

// Strip removes every directive line from docstring, collapsing the blank runs left behind.
func Strip(docstring string) string {
	if docstring == "" {
		return ""
	}
	cleaned := anyLineRe.ReplaceAllString(docstring, "")
	cleaned = blankRunsRe.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}

// Has reports whether docstring contains any directive line.
func Has(docstring string) bool {
	return docstring != "" && anyLineRe.MatchString(docstring)
}

// IsDirectiveLine reports whether a single line of text (e.g. a rendered paragraph)
// is a directive, in either the current or the legacy "@name:" form.
func IsDirectiveLine(line string) bool {
	return lineRe.MatchString(strings.TrimSpace(line))
}

// Map holds directives keyed by qualified name ("Class" or "Class.method").
type Map map[string]Directives

// Get returns the directives for name, or the zero value.
func (m Map) Get(name string) Directives {
	if m == nil {
		return Directives{}
	}
	return m[name]
}

// Collect extracts the directives of every object and method in cat that has any.
func Collect(cat catalog.Catalog) Map {
	m := Map{}
	for _, obj := range cat {
		if d := Extract(obj.Docstring); !d.Empty() {
			m[obj.QualifiedName] = d
		}
		for _, meth := range obj.Methods {
			if d := Extract(meth.Docstring); !d.Empty() {
				m[meth.QualifiedName] = d
			}
		}
	}
	return m
}
