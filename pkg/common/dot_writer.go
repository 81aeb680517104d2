package common

import (
	"fmt"
	"io"
	"strings"
)

func PrintTreeDOT(root *Node, indentDelta string, output io.Writer, options *PrintOptions) error {
	// Initialize the DOT graph
	fmt.Fprintln(output, `digraph G {`)
	fmt.Fprintln(output, `  bgcolor="transparent";`)
	fmt.Fprintln(output, `  node [shape="box", style="filled", fontname="Ubuntu Mono"];`)

	// Recursively print the nodes and edges
	printNodeDOT(root, "", "", output, options)

	// Close the graph
	_, err := fmt.Fprintln(output, `}`)
	return err
}

func printNodeDOT(node *Node, parentID string, edgeLabel string, output io.Writer, options *PrintOptions) {
	// Generate a unique identifier for the current node
	nodeID := fmt.Sprintf("node_%p", node)

	// The label is the kind followed by the scalar fields.
	lines := []string{node.Kind}
	for _, f := range node.Fields {
		switch f.Value.(type) {
		case *Node, []any, nil:
			continue
		}
		value := TrimValue(ScalarString(f.Value), options.TrimTokenOnOutput)
		lines = append(lines, fmt.Sprintf("%s: %s", f.Name, value))
	}
	if options.IncludeSpans && node.Span != nil {
		lines = append(lines, "span: "+node.Span.SpanString())
	}
	label := escapeDOTValue(strings.Join(lines, "\n"))

	fillColor := kindColor(node.Kind)

	// Add the node definition to the DOT graph
	fmt.Fprintf(output, "  \"%s\" [label=\"%s\", shape=\"box\", fillcolor=\"%s\"];\n", nodeID, label, fillColor)

	// If there's a parent node, add an edge
	if parentID != "" {
		fmt.Fprintf(output, "  \"%s\" -> \"%s\" [label=\"%s\"];\n", parentID, nodeID, escapeDOTValue(edgeLabel))
	}

	labels, children := node.Children()
	for i, child := range children {
		printNodeDOT(child, nodeID, labels[i], output, options)
	}
}

func escapeDOTValue(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	return strings.ReplaceAll(value, "\n", `\n`)
}

// kindColor groups productions by their suffix.
func kindColor(kind string) string {
	switch {
	case kind == "File" || kind == "Ident" || kind == "BasicLit":
		return tagColors[kind]
	case strings.HasSuffix(kind, "Decl"):
		return tagColors["Decl"]
	case strings.HasSuffix(kind, "Spec"):
		return tagColors["Spec"]
	case strings.HasSuffix(kind, "Stmt") || strings.HasSuffix(kind, "Clause"):
		return tagColors["Stmt"]
	case strings.HasSuffix(kind, "Expr") || strings.HasSuffix(kind, "Lit"):
		return tagColors["Expr"]
	case strings.HasSuffix(kind, "Type"):
		return tagColors["Type"]
	}
	return "lightgray"
}

var tagColors = map[string]string{
	"File":     "lightpink",
	"Decl":     "#FFD8E1",
	"Spec":     "PaleTurquoise",
	"Stmt":     "lightgreen",
	"Expr":     "#C0FFC0",
	"Type":     "Honeydew",
	"Ident":    "lightgoldenrodyellow",
	"BasicLit": "lightgoldenrodyellow",
}
