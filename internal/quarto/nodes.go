package quarto

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/rich-iannone/great-docs/internal/foundation/errors"
)

func cloneNode(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Content != nil {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = cloneNode(child)
		}
	}
	return &c
}

func strNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func boolNode(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
}

func intNode(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
}

func seqNode(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}

// mapNode builds a mapping from alternating key strings and value nodes.
func mapNode(pairs ...any) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Content = append(m.Content, strNode(pairs[i].(string)), pairs[i+1].(*yaml.Node))
	}
	return m
}

// mapGet returns the value for key and the index of its key node, or (nil, -1).
func mapGet(m *yaml.Node, key string) (*yaml.Node, int) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1], i
		}
	}
	return nil, -1
}

// mapSet replaces the value for key or appends the pair.
func mapSet(m *yaml.Node, key string, val *yaml.Node) {
	if _, i := mapGet(m, key); i >= 0 {
		m.Content[i+1] = val
		return
	}
	m.Content = append(m.Content, strNode(key), val)
}

// mapSetDefault sets key only when it is absent and reports whether it did.
func mapSetDefault(m *yaml.Node, key string, val *yaml.Node) bool {
	if v, _ := mapGet(m, key); v != nil {
		return false
	}
	m.Content = append(m.Content, strNode(key), val)
	return true
}

func mapDelete(m *yaml.Node, key string) bool {
	if _, i := mapGet(m, key); i >= 0 {
		m.Content = append(m.Content[:i], m.Content[i+2:]...)
		return true
	}
	return false
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && (n.Tag == "!!null" || (n.Tag == "" && (n.Value == "" || n.Value == "~" || n.Value == "null")))
}

// ensureMapping returns the mapping under key, creating it when absent or null.
// Any other existing value is a ConfigFormatError.
func ensureMapping(m *yaml.Node, key string) (*yaml.Node, error) {
	v, i := mapGet(m, key)
	switch {
	case v == nil:
		child := mapNode()
		m.Content = append(m.Content, strNode(key), child)
		return child, nil
	case v.Kind == yaml.MappingNode:
		return v, nil
	case isNull(v):
		child := mapNode()
		child.HeadComment, child.LineComment = v.HeadComment, v.LineComment
		m.Content[i+1] = child
		return child, nil
	default:
		return nil, errors.ConfigFormatError("configuration key must be a mapping").
			WithContext("key", key).
			WithContext("kind", kindName(v.Kind)).
			Build()
	}
}

// ensureSequence returns the sequence under key. Absent or null values become an
// empty sequence and a single scalar is wrapped into a one-item sequence.
func ensureSequence(m *yaml.Node, key string) (*yaml.Node, error) {
	v, i := mapGet(m, key)
	switch {
	case v == nil:
		seq := seqNode()
		m.Content = append(m.Content, strNode(key), seq)
		return seq, nil
	case v.Kind == yaml.SequenceNode:
		return v, nil
	case isNull(v):
		seq := seqNode()
		m.Content[i+1] = seq
		return seq, nil
	case v.Kind == yaml.ScalarNode:
		seq := seqNode(v)
		m.Content[i+1] = seq
		return seq, nil
	default:
		return nil, errors.ConfigFormatError("configuration key must be a list").
			WithContext("key", key).
			WithContext("kind", kindName(v.Kind)).
			Build()
	}
}

// seqHasScalar reports whether seq contains a scalar equal to value.
func seqHasScalar(seq *yaml.Node, value string) bool {
	for _, item := range seq.Content {
		if item.Kind == yaml.ScalarNode && item.Value == value {
			return true
		}
	}
	return false
}

// seqRemoveScalar removes every scalar item equal to value.
func seqRemoveScalar(seq *yaml.Node, value string) bool {
	kept := seq.Content[:0]
	removed := false
	for _, item := range seq.Content {
		if item.Kind == yaml.ScalarNode && item.Value == value {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	seq.Content = kept
	return removed
}
