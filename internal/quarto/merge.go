package quarto

import (
	"gopkg.in/yaml.v3"

	"github.com/rich-iannone/great-docs/internal/foundation/errors"
	"github.com/rich-iannone/great-docs/internal/planner"
	"github.com/rich-iannone/great-docs/internal/util/sets"
)

// QuartodocKey is the top-level key of the quartodoc configuration.
const QuartodocKey = "quartodoc"

// QuartodocDefaults are the quartodoc settings written when absent.
type QuartodocDefaults struct {
	Package       string
	Dir           string
	Title         string
	Style         string
	Dynamic       bool
	RendererStyle string
	TableStyle    string
}

// DefaultQuartodoc returns the standard settings for the package importName.
func DefaultQuartodoc(importName string) QuartodocDefaults {
	return QuartodocDefaults{
		Package:       importName,
		Dir:           "reference",
		Title:         "API Reference",
		Style:         "pkgdown",
		Dynamic:       true,
		RendererStyle: "markdown",
		TableStyle:    "description-list",
	}
}

// Merge splices plan into the quartodoc section of doc and returns the result.
//
// Missing quartodoc settings are filled from defaults; existing values are kept.
// Existing sections whose title is generated (Classes, Functions, Other, "<X>
// Methods") or produced by plan are replaced by the plan's sections, inserted where
// the first of them stood, or ahead of every user section when there were none.
// User sections and all other keys are left untouched. An empty plan leaves
// sections as they are. Merging the same plan twice gives the same document.
func Merge(doc *Document, plan planner.SectionPlan, defaults QuartodocDefaults) (*Document, error) {
	out := doc.Clone()
	q, err := ensureMapping(out.Root(), QuartodocKey)
	if err != nil {
		return nil, err
	}
	applyQuartodocDefaults(q, defaults)

	if plan.Empty() {
		return out, nil
	}

	existing, i := mapGet(q, "sections")
	if existing != nil && !isNull(existing) && existing.Kind != yaml.SequenceNode {
		return nil, errors.ConfigFormatError("quartodoc sections must be a list").
			WithContext("kind", kindName(existing.Kind)).Build()
	}

	reserved := sets.New(plan.Titles()...)
	generated := make([]*yaml.Node, 0, len(plan.Sections))
	for _, s := range plan.Sections {
		generated = append(generated, sectionNode(s))
	}

	merged := seqNode()
	inserted := false
	if existing != nil && existing.Kind == yaml.SequenceNode {
		merged.Style = existing.Style
		for _, item := range existing.Content {
			if title, ok := sectionTitle(item); ok && (planner.IsGeneratedTitle(title) || reserved.Has(title)) {
				if !inserted {
					merged.Content = append(merged.Content, generated...)
					inserted = true
				}
				continue
			}
			merged.Content = append(merged.Content, item)
		}
	}
	if !inserted {
		merged.Content = append(generated, merged.Content...)
	}

	if i >= 0 {
		q.Content[i+1] = merged
	} else {
		q.Content = append(q.Content, strNode("sections"), merged)
	}
	return out, nil
}

func applyQuartodocDefaults(q *yaml.Node, d QuartodocDefaults) {
	if d.Package != "" {
		mapSetDefault(q, "package", strNode(d.Package))
	}
	if d.Dir != "" {
		mapSetDefault(q, "dir", strNode(d.Dir))
	}
	if d.Title != "" {
		mapSetDefault(q, "title", strNode(d.Title))
	}
	if d.Style != "" {
		mapSetDefault(q, "style", strNode(d.Style))
	}
	mapSetDefault(q, "dynamic", boolNode(d.Dynamic))
	if d.RendererStyle != "" || d.TableStyle != "" {
		r := mapNode()
		if d.RendererStyle != "" {
			mapSet(r, "style", strNode(d.RendererStyle))
		}
		if d.TableStyle != "" {
			mapSet(r, "table_style", strNode(d.TableStyle))
		}
		mapSetDefault(q, "renderer", r)
	}
}

// sectionNode renders a planned section in quartodoc form.
func sectionNode(s planner.Section) *yaml.Node {
	contents := seqNode()
	for _, c := range s.Contents {
		if c.SuppressMembers {
			members := seqNode()
			members.Style = yaml.FlowStyle
			contents.Content = append(contents.Content, mapNode("name", strNode(c.Name), "members", members))
			continue
		}
		contents.Content = append(contents.Content, strNode(c.Name))
	}
	n := mapNode("title", strNode(s.Title))
	if s.Description != "" {
		mapSet(n, "desc", strNode(s.Description))
	}
	mapSet(n, "contents", contents)
	return n
}

func sectionTitle(item *yaml.Node) (string, bool) {
	if item.Kind != yaml.MappingNode {
		return "", false
	}
	t, _ := mapGet(item, "title")
	if t == nil || t.Kind != yaml.ScalarNode {
		return "", false
	}
	return t.Value, true
}

// Sections reads quartodoc.sections back into planner form. Entries that are not
// section mappings are skipped.
func Sections(doc *Document) ([]planner.Section, error) {
	n, ok := doc.Lookup(QuartodocKey, "sections")
	if !ok || isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, errors.ConfigFormatError("quartodoc sections must be a list").
			WithContext("kind", kindName(n.Kind)).Build()
	}
	var out []planner.Section
	for _, item := range n.Content {
		title, ok := sectionTitle(item)
		if !ok {
			continue
		}
		s := planner.Section{Title: title}
		if d, _ := mapGet(item, "desc"); d != nil && d.Kind == yaml.ScalarNode {
			s.Description = d.Value
		}
		if c, _ := mapGet(item, "contents"); c != nil && c.Kind == yaml.SequenceNode {
			for _, entry := range c.Content {
				if ref, ok := contentRef(entry); ok {
					s.Contents = append(s.Contents, ref)
				}
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func contentRef(entry *yaml.Node) (planner.ContentRef, bool) {
	switch entry.Kind {
	case yaml.ScalarNode:
		return planner.ContentRef{Name: entry.Value}, entry.Value != ""
	case yaml.MappingNode:
		name, _ := mapGet(entry, "name")
		if name == nil || name.Kind != yaml.ScalarNode {
			return planner.ContentRef{}, false
		}
		members, _ := mapGet(entry, "members")
		suppress := members != nil && members.Kind == yaml.SequenceNode && len(members.Content) == 0
		return planner.ContentRef{Name: name.Value, SuppressMembers: suppress}, true
	}
	return planner.ContentRef{}, false
}
