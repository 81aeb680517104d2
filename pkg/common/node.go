package common

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Node is one grammar construct: the production it was built from, where it
// sits in the source (when known) and its fields in grammar order.
type Node struct {
	Kind   string  // The production name, written as "_type"
	Span   *Span   // Nil when the oracle supplied no position
	Fields []Field // Named child fields in grammar order
}

// Field is a named child of a Node. Value is nil, a string, a bool, an
// integer, a *Node, or a []any of those.
type Field struct {
	Name  string
	Value any
}

const KeyType = "_type"
const KeyLineNo = "lineno"
const KeyColOffset = "col_offset"
const KeyEndLineNo = "end_lineno"
const KeyEndColOffset = "end_col_offset"

// IsPositionKey reports whether key is one of the four position metadata keys.
func IsPositionKey(key string) bool {
	switch key {
	case KeyLineNo, KeyColOffset, KeyEndLineNo, KeyEndColOffset:
		return true
	}
	return false
}

// Get returns the value of the named field.
func (n *Node) Get(name string) (any, bool) {
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the named field, appending it if absent.
func (n *Node) Set(name string, value any) {
	for i := range n.Fields {
		if n.Fields[i].Name == name {
			n.Fields[i].Value = value
			return
		}
	}
	n.Fields = append(n.Fields, Field{Name: name, Value: value})
}

// Children returns the nodes directly beneath n, in field order, with the
// field label each was found under.
func (n *Node) Children() ([]string, []*Node) {
	var labels []string
	var children []*Node
	for _, f := range n.Fields {
		switch v := f.Value.(type) {
		case *Node:
			if v != nil {
				labels = append(labels, f.Name)
				children = append(children, v)
			}
		case []any:
			for i, item := range v {
				if child, ok := item.(*Node); ok && child != nil {
					labels = append(labels, fmt.Sprintf("%s[%d]", f.Name, i))
					children = append(children, child)
				}
			}
		}
	}
	return labels, children
}

// WithoutSpans returns a deep copy of n with all position metadata removed.
func (n *Node) WithoutSpans() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Kind: n.Kind, Fields: make([]Field, 0, len(n.Fields))}
	for _, f := range n.Fields {
		out.Fields = append(out.Fields, Field{Name: f.Name, Value: stripSpans(f.Value)})
	}
	return out
}

func stripSpans(value any) any {
	switch v := value.(type) {
	case *Node:
		return v.WithoutSpans()
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = stripSpans(item)
		}
		return out
	}
	return value
}

// ToMap converts n into plain maps and slices for encoders that have no
// notion of key order.
func (n *Node) ToMap(includeSpans bool) map[string]any {
	out := map[string]any{KeyType: n.Kind}
	if includeSpans && n.Span != nil {
		out[KeyLineNo] = n.Span.StartLine
		out[KeyColOffset] = n.Span.StartColumn
		out[KeyEndLineNo] = n.Span.EndLine
		out[KeyEndColOffset] = n.Span.EndColumn
	}
	for _, f := range n.Fields {
		out[f.Name] = toPlain(f.Value, includeSpans)
	}
	return out
}

func toPlain(value any, includeSpans bool) any {
	switch v := value.(type) {
	case *Node:
		if v == nil {
			return nil
		}
		return v.ToMap(includeSpans)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = toPlain(item, includeSpans)
		}
		return out
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, _ := v.Float64()
		return f
	}
	return value
}

// AsNode interprets a decoded JSON document as a Tree Node. It accepts a
// *Node directly, or a map carrying a string "_type" discriminator.
func AsNode(doc any) (*Node, bool) {
	switch v := doc.(type) {
	case *Node:
		return v, v != nil
	case map[string]any:
		if _, ok := v[KeyType].(string); !ok {
			return nil, false
		}
		return nodeFromMap(v), true
	}
	return nil, false
}

// nodeFromMap converts a generic JSON object into a Node. Map keys carry no
// order, so fields are sorted by name.
func nodeFromMap(m map[string]any) *Node {
	n := &Node{Kind: m[KeyType].(string)}
	keys := make([]string, 0, len(m))
	for key := range m {
		if key != KeyType {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		n.Fields = append(n.Fields, Field{Name: key, Value: fromGeneric(m[key])})
	}
	n.liftSpan()
	return n
}

func fromGeneric(value any) any {
	switch v := value.(type) {
	case map[string]any:
		if _, ok := v[KeyType].(string); ok {
			return nodeFromMap(v)
		}
		return v
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = fromGeneric(item)
		}
		return out
	}
	return value
}

// liftSpan moves the position keys out of Fields into Span when all four are
// present as integers. Incomplete positions stay as ordinary fields.
func (n *Node) liftSpan() {
	var span [4]int
	found := 0
	for i, key := range []string{KeyLineNo, KeyColOffset, KeyEndLineNo, KeyEndColOffset} {
		value, ok := n.Get(key)
		if !ok {
			return
		}
		number, ok := AsInt(value)
		if !ok {
			return
		}
		span[i] = int(number)
		found++
	}
	if found != 4 {
		return
	}
	n.Span = &Span{StartLine: span[0], StartColumn: span[1], EndLine: span[2], EndColumn: span[3]}
	kept := n.Fields[:0]
	for _, f := range n.Fields {
		if !IsPositionKey(f.Name) {
			kept = append(kept, f)
		}
	}
	n.Fields = kept
}

// TrimValue trims a scalar for display if trimming is enabled.
func TrimValue(value string, trimLength int) string {
	if trimLength > 0 && len(value) > trimLength {
		// Reserve space for Unicode ellipsis (1 character: "…")
		if trimLength >= 2 {
			return value[:trimLength-1] + "…"
		}
		return value[:trimLength]
	}
	return value
}

// ScalarString renders a scalar field value for display.
func ScalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", v)
	}
	return fmt.Sprint(value)
}

type PrintFunc func(root *Node, indentDelta string, output io.Writer, options *PrintOptions) error

func PickPrintFunc(format string) (PrintFunc, error) {
	switch strings.ToUpper(format) {
	case "JSON":
		return PrintTreeJSON, nil
	case "PRETTY":
		return PrintTreePretty, nil
	case "YAML":
		return PrintTreeYAML, nil
	case "ASCIITREE":
		return PrintTreeAsciiTree, nil
	case "DOT":
		return PrintTreeDOT, nil
	case "CBOR":
		return PrintTreeCBOR, nil
	case "MSGPACK":
		return PrintTreeMsgpack, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}
