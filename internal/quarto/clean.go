package quarto

import (
	"gopkg.in/yaml.v3"

	"github.com/rich-iannone/great-docs/internal/foundation/errors"
)

// Clean removes the post-render hook and stylesheet entry EnsureSiteConfig adds.
// A css list left empty is removed. Everything else stays.
func Clean(doc *Document) (*Document, error) {
	out := doc.Clone()

	if project, ok := out.Lookup("project"); ok && project.Kind == yaml.MappingNode {
		if v, _ := mapGet(project, "post-render"); v != nil {
			switch v.Kind {
			case yaml.ScalarNode:
				if v.Value == PostRenderScript {
					mapDelete(project, "post-render")
				}
			case yaml.SequenceNode:
				seqRemoveScalar(v, PostRenderScript)
				switch len(v.Content) {
				case 0:
					mapDelete(project, "post-render")
				case 1:
					mapSet(project, "post-render", v.Content[0])
				}
			}
		}
	}

	if html, ok := out.Lookup("format", "html"); ok && html.Kind == yaml.MappingNode {
		if css, _ := mapGet(html, "css"); css != nil {
			switch css.Kind {
			case yaml.SequenceNode:
				if seqRemoveScalar(css, Stylesheet) && len(css.Content) == 0 {
					mapDelete(html, "css")
				}
			case yaml.ScalarNode:
				if css.Value == Stylesheet {
					mapDelete(html, "css")
				}
			}
		}
	}
	return out, nil
}

func errConfigShape(key string, v *yaml.Node) error {
	return errors.ConfigFormatError("unexpected configuration value").
		WithContext("key", key).
		WithContext("kind", kindName(v.Kind)).
		Build()
}
