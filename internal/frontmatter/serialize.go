package frontmatter

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// SerializeYAML renders fields as YAML without delimiters. Keys are sorted
// (recursively) so output is stable; an empty map renders as nothing.
func SerializeYAML(fields map[string]any, newline string) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}
	node, err := nodeFromMap(fields)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	out := buf.Bytes()
	if newline != "" && newline != "\n" {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte(newline))
	}
	return out, nil
}

func nodeFromMap(m map[string]any) (*yaml.Node, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		val, err := nodeFromValue(m[k])
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, val)
	}
	return n, nil
}

func nodeFromValue(v any) (*yaml.Node, error) {
	switch vv := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: vv}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(vv)}, nil
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(vv)}, nil
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(vv, 'g', -1, 64)}, nil
	case map[string]any:
		return nodeFromMap(vv)
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			n, err := nodeFromValue(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	case []string:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: item})
		}
		return seq, nil
	default:
		var n yaml.Node
		if err := n.Encode(v); err != nil {
			return nil, fmt.Errorf("encode front matter value %T: %w", v, err)
		}
		return &n, nil
	}
}
