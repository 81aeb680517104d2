package common

import (
	"fmt"
	"io"

	asciitree "github.com/thediveo/go-asciitree"
)

type AsciiNode struct {
	Label    string      `asciitree:"label"`
	Props    []string    `asciitree:"properties"`
	Children []AsciiNode `asciitree:"children"`
}

// convertToTree converts a Node to an asciitree node. Each child is labelled
// with the field it hangs from.
func convertToTree(label string, n *Node, options *PrintOptions) AsciiNode {
	if label != "" {
		label = label + ": " + n.Kind
	} else {
		label = n.Kind
	}

	// Scalar fields keep their grammar order.
	var props []string
	for _, f := range n.Fields {
		switch v := f.Value.(type) {
		case *Node:
			continue
		case []any:
			if len(v) == 0 {
				props = append(props, fmt.Sprintf("%s: []", f.Name))
			}
			continue
		}
		props = append(props, fmt.Sprintf("%s: %s", f.Name, TrimValue(ScalarString(f.Value), options.TrimTokenOnOutput)))
	}
	if options.IncludeSpans && n.Span != nil {
		props = append(props, fmt.Sprintf("span: %s", n.Span.SpanString()))
	}

	var children []AsciiNode
	labels, nodes := n.Children()
	for i, child := range nodes {
		children = append(children, convertToTree(labels[i], child, options))
	}
	return AsciiNode{
		Label:    label,
		Props:    props,
		Children: children,
	}
}

func PrintTreeAsciiTree(root *Node, indentDelta string, output io.Writer, options *PrintOptions) error {
	_, err := fmt.Fprintln(output, asciitree.RenderFancy(convertToTree("", root, options)))
	return err
}
