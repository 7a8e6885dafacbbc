package frontmatter

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// YAMLDecoder decodes the metadata block as a YAML mapping. It works on the
// parsed node tree rather than a plain map so scalar resolution stays under
// this package's rules: unquoted dates remain strings, null values drop
// their key, and nested mappings are ignored (the metadata model is flat).
type YAMLDecoder struct{}

// Decode implements Decoder.
func (YAMLDecoder) Decode(block []byte) (Metadata, error) {
	if len(bytes.TrimSpace(block)) == 0 {
		return Metadata{}, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(block, &root); err != nil {
		return nil, fmt.Errorf("frontmatter: yaml: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return Metadata{}, nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("frontmatter: yaml: header is not a mapping")
	}

	meta := make(Metadata, len(doc.Content)/2)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, val := doc.Content[i], doc.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			continue
		}
		switch val.Kind {
		case yaml.ScalarNode:
			if v, ok := scalarValue(val); ok {
				meta[key.Value] = v
			}
		case yaml.SequenceNode:
			items := make([]string, 0, len(val.Content))
			for _, item := range val.Content {
				if item.Kind == yaml.ScalarNode && item.Tag != "!!null" {
					items = append(items, item.Value)
				}
			}
			meta[key.Value] = items
		}
	}
	return meta, nil
}

// scalarValue maps a resolved YAML scalar onto the metadata value model.
// The ok result is false for nulls, whose keys are dropped entirely.
func scalarValue(n *yaml.Node) (any, bool) {
	switch n.Tag {
	case "!!null":
		return nil, false
	case "!!bool":
		return n.Value == "true" || n.Value == "True" || n.Value == "TRUE", true
	case "!!int":
		if v, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return v, true
		}
		return n.Value, true
	case "!!float":
		if v, err := strconv.ParseFloat(n.Value, 64); err == nil {
			return v, true
		}
		return n.Value, true
	default:
		// Strings keep their content; timestamps keep their raw text, so
		// dates travel as strings end to end.
		return n.Value, true
	}
}
