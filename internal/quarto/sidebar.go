package quarto

import (
	"gopkg.in/yaml.v3"
)

// ReferenceSidebarID identifies the sidebar great-docs manages.
const ReferenceSidebarID = "reference"

// UpdateSidebar rebuilds the reference sidebar from quartodoc.sections. Other
// sidebars in a sidebar list are kept. Without sections the document is unchanged.
func UpdateSidebar(doc *Document) (*Document, error) {
	sections, err := Sections(doc)
	if err != nil {
		return nil, err
	}
	out := doc.Clone()
	if len(sections) == 0 {
		return out, nil
	}
	dir := out.String(QuartodocKey, "dir")
	if dir == "" {
		dir = "reference"
	}

	contents := seqNode()
	for _, s := range sections {
		pages := seqNode()
		for _, c := range s.Contents {
			pages.Content = append(pages.Content, strNode(dir+"/"+c.Name+".qmd"))
		}
		contents.Content = append(contents.Content, mapNode("section", strNode(s.Title), "contents", pages))
	}
	entry := mapNode("id", strNode(ReferenceSidebarID), "contents", contents)

	website, err := ensureMapping(out.Root(), "website")
	if err != nil {
		return nil, err
	}
	existing, i := mapGet(website, "sidebar")
	if existing == nil || existing.Kind != yaml.SequenceNode {
		if i >= 0 {
			website.Content[i+1] = seqNode(entry)
		} else {
			mapSet(website, "sidebar", seqNode(entry))
		}
		return out, nil
	}
	for j, item := range existing.Content {
		if item.Kind != yaml.MappingNode {
			continue
		}
		if id, _ := mapGet(item, "id"); id != nil && id.Value == ReferenceSidebarID {
			existing.Content[j] = entry
			return out, nil
		}
	}
	existing.Content = append(existing.Content, entry)
	return out, nil
}
