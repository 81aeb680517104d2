package common

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// toYAMLNode builds a mapping node so the YAML output keeps the same key
// order as the JSON wire format.
func toYAMLNode(n *Node, includeSpans bool) (*yaml.Node, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		mapping.Content = append(mapping.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
	}
	add(KeyType, &yaml.Node{Kind: yaml.ScalarNode, Value: n.Kind})
	if includeSpans && n.Span != nil {
		add(KeyLineNo, intNode(n.Span.StartLine))
		add(KeyColOffset, intNode(n.Span.StartColumn))
		add(KeyEndLineNo, intNode(n.Span.EndLine))
		add(KeyEndColOffset, intNode(n.Span.EndColumn))
	}
	for _, f := range n.Fields {
		value, err := toYAMLValue(f.Value, includeSpans)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", n.Kind, f.Name, err)
		}
		add(f.Name, value)
	}
	return mapping, nil
}

func toYAMLValue(value any, includeSpans bool) (*yaml.Node, error) {
	switch v := value.(type) {
	case *Node:
		if v == nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
		}
		return toYAMLNode(v, includeSpans)
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range v {
			child, err := toYAMLValue(item, includeSpans)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, child)
		}
		return seq, nil
	}
	if number, ok := value.(json.Number); ok {
		value = toPlain(number, includeSpans)
	}
	scalar := &yaml.Node{}
	if err := scalar.Encode(value); err != nil {
		return nil, err
	}
	return scalar, nil
}

func intNode(value int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(value)}
}

func PrintTreeYAML(root *Node, indentDelta string, output io.Writer, options *PrintOptions) error {
	doc, err := toYAMLNode(root, options.IncludeSpans)
	if err != nil {
		return err
	}
	encoder := yaml.NewEncoder(output)
	if options.Indent > 0 {
		encoder.SetIndent(options.Indent)
	}
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	return encoder.Close()
}
