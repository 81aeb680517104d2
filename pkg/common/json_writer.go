package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MarshalJSON writes the node with "_type" first, then the position keys,
// then the fields in grammar order.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) writeJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	writeKey(buf, KeyType, true)
	if err := writeScalar(buf, n.Kind); err != nil {
		return err
	}
	if n.Span != nil {
		fmt.Fprintf(buf, `,%q:%d,%q:%d,%q:%d,%q:%d`,
			KeyLineNo, n.Span.StartLine,
			KeyColOffset, n.Span.StartColumn,
			KeyEndLineNo, n.Span.EndLine,
			KeyEndColOffset, n.Span.EndColumn)
	}
	for _, f := range n.Fields {
		writeKey(buf, f.Name, false)
		if err := writeValue(buf, f.Value); err != nil {
			return fmt.Errorf("%s.%s: %w", n.Kind, f.Name, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeKey(buf *bytes.Buffer, key string, first bool) {
	if !first {
		buf.WriteByte(',')
	}
	_ = writeScalar(buf, key)
	buf.WriteByte(':')
}

func writeValue(buf *bytes.Buffer, value any) error {
	switch v := value.(type) {
	case *Node:
		if v == nil {
			buf.WriteString("null")
			return nil
		}
		return v.writeJSON(buf)
	case []any:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}
	return writeScalar(buf, value)
}

// writeScalar marshals without HTML escaping so source text stays readable.
func writeScalar(buf *bytes.Buffer, value any) error {
	var tmp bytes.Buffer
	encoder := json.NewEncoder(&tmp)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

func (n *Node) UnmarshalJSON(data []byte) error {
	value, err := ParseValue(data)
	if err != nil {
		return err
	}
	node, ok := value.(*Node)
	if !ok {
		return errors.New("expected an object with a " + KeyType + " field")
	}
	*n = *node
	return nil
}

// WriteEnvelope writes env as exactly one line of JSON.
func WriteEnvelope(output io.Writer, env Envelope) error {
	encoder := json.NewEncoder(output)
	encoder.SetEscapeHTML(false)
	return encoder.Encode(env)
}

// ParseValue decodes a single JSON document, keeping object key order.
// Objects with a string "_type" become *Node, other objects become
// map[string]any, arrays become []any and numbers stay json.Number.
func ParseValue(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	value, err := readValue(decoder)
	if err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return value, nil
}

func readValue(decoder *json.Decoder) (any, error) {
	tok, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		return readObject(decoder)
	case '[':
		return readArray(decoder)
	}
	return nil, fmt.Errorf("unexpected %v", delim)
}

func readArray(decoder *json.Decoder) (any, error) {
	items := []any{}
	for decoder.More() {
		item, err := readValue(decoder)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}
	return items, nil
}

func readObject(decoder *json.Decoder) (any, error) {
	var fields []Field
	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		value, err := readValue(decoder)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: key, Value: value})
	}
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}

	kind, isNode := "", false
	for _, f := range fields {
		if f.Name == KeyType {
			kind, isNode = f.Value.(string)
		}
	}
	if !isNode {
		m := make(map[string]any, len(fields))
		for _, f := range fields {
			m[f.Name] = f.Value
		}
		return m, nil
	}
	node := &Node{Kind: kind}
	for _, f := range fields {
		if f.Name != KeyType {
			node.Set(f.Name, f.Value)
		}
	}
	node.liftSpan()
	return node, nil
}

func PrintTreeJSON(root *Node, indentDelta string, output io.Writer, options *PrintOptions) error {
	if !options.IncludeSpans {
		root = root.WithoutSpans()
	}
	data, err := root.MarshalJSON()
	if err != nil {
		return err
	}
	if indentDelta == "" {
		_, err = fmt.Fprintf(output, "%s\n", data)
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", indentDelta); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(output)
	return err
}
