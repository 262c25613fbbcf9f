// Package quarto reads, edits and writes the Quarto project file (_quarto.yml).
//
// Documents are kept as yaml.v3 node trees so key order, comments and keys this
// tool does not manage survive a round trip. Every editing function works on a copy
// and returns the edited document.
package quarto

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rich-iannone/great-docs/internal/foundation/errors"
	"github.com/rich-iannone/great-docs/internal/util/fileutil"
)

// Document is an ordered YAML document whose root is a mapping.
type Document struct {
	node *yaml.Node
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{node: &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
	}}
}

// Parse decodes data. Empty input (or a null document) yields an empty mapping; any
// other non-mapping root is a ConfigFormatError.
func Parse(data []byte) (*Document, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, errors.ConfigFormatError("configuration is not valid YAML").WithCause(err).Build()
	}
	if node.Kind == 0 || len(node.Content) == 0 {
		doc := NewDocument()
		doc.node.HeadComment = node.HeadComment
		return doc, nil
	}
	root := node.Content[0]
	switch {
	case root.Kind == yaml.MappingNode:
	case root.Kind == yaml.ScalarNode && root.Tag == "!!null":
		node.Content[0] = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", HeadComment: root.HeadComment}
	default:
		return nil, errors.ConfigFormatError("configuration root must be a mapping").
			WithContext("kind", kindName(root.Kind)).Build()
	}
	return &Document{node: &node}, nil
}

// Load reads path. A missing file yields an empty document and exists=false.
func Load(path string) (doc *Document, exists bool, err error) {
	data, err := os.ReadFile(path) // #nosec G304 -- project configuration path
	if os.IsNotExist(err) {
		return NewDocument(), false, nil
	}
	if err != nil {
		return nil, false, errors.FileSystemError("cannot read Quarto configuration").
			WithCause(err).WithContext("path", path).Build()
	}
	doc, err = Parse(data)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, true, errors.WrapError(ce.Cause(), ce.Category(), ce.Message()).
				WithContextMap(ce.Context()).WithContext("path", path).Build()
		}
		return nil, true, err
	}
	return doc, true, nil
}

// WriteFile encodes doc to path atomically.
func WriteFile(path string, doc *Document) error {
	data, err := doc.Encode()
	if err != nil {
		return errors.InternalError("cannot encode Quarto configuration").WithCause(err).Build()
	}
	if err := fileutil.WriteAtomic(path, data, 0o644); err != nil {
		return errors.FileSystemError("cannot write Quarto configuration").
			WithCause(err).WithContext("path", path).Build()
	}
	return nil
}

// Encode renders the document as YAML with two-space indentation.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.node); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	return &Document{node: cloneNode(d.node)}
}

// Root returns the top-level mapping node.
func (d *Document) Root() *yaml.Node { return d.node.Content[0] }

// Lookup follows a key path through nested mappings.
func (d *Document) Lookup(path ...string) (*yaml.Node, bool) {
	n := d.Root()
	for _, key := range path {
		if n.Kind != yaml.MappingNode {
			return nil, false
		}
		v, _ := mapGet(n, key)
		if v == nil {
			return nil, false
		}
		n = v
	}
	return n, true
}

// String returns the scalar at path, or "".
func (d *Document) String(path ...string) string {
	n, ok := d.Lookup(path...)
	if !ok || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return "unknown"
	}
}
