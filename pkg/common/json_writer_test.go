package common

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ident(name string) *Node {
	return &Node{Kind: "Ident", Fields: []Field{{Name: "Name", Value: name}}}
}

func TestMarshalKeepsKeyOrder(t *testing.T) {
	n := &Node{
		Kind: "BinaryExpr",
		Span: &Span{StartLine: 1, StartColumn: 4, EndLine: 1, EndColumn: 9},
		Fields: []Field{
			{Name: "X", Value: ident("a")},
			{Name: "Op", Value: "<"},
			{Name: "Y", Value: nil},
		},
	}
	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Equal(t,
		`{"_type":"BinaryExpr","lineno":1,"col_offset":4,"end_lineno":1,"end_col_offset":9,"X":{"_type":"Ident","Name":"a"},"Op":"<","Y":null}`,
		string(data))
}

func TestParseValueKeepsOrderAndLiftsSpan(t *testing.T) {
	value, err := ParseValue([]byte(`{"_type":"CallExpr","lineno":2,"col_offset":1,"end_lineno":2,"end_col_offset":5,"Fun":{"_type":"Ident","Name":"f"},"Args":[],"Ellipsis":false}`))
	require.NoError(t, err)
	n, ok := value.(*Node)
	require.True(t, ok)
	assert.Equal(t, "CallExpr", n.Kind)
	assert.Equal(t, &Span{StartLine: 2, StartColumn: 1, EndLine: 2, EndColumn: 5}, n.Span)

	var names []string
	for _, f := range n.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Fun", "Args", "Ellipsis"}, names)
}

func TestParseValueKeepsIncompletePositions(t *testing.T) {
	value, err := ParseValue([]byte(`{"_type":"Ident","lineno":1,"Name":"x"}`))
	require.NoError(t, err)
	n := value.(*Node)
	assert.Nil(t, n.Span)
	lineno, ok := n.Get(KeyLineNo)
	require.True(t, ok)
	assert.Equal(t, json.Number("1"), lineno)
}

func TestParseValueOtherShapes(t *testing.T) {
	value, err := ParseValue([]byte(`{"ok":true,"ast":{"_type":"Ident","Name":"x"}}`))
	require.NoError(t, err)
	m, ok := value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, m["ok"])
	assert.IsType(t, &Node{}, m["ast"])

	value, err = ParseValue([]byte(` [1, "a", null] `))
	require.NoError(t, err)
	assert.Equal(t, []any{json.Number("1"), "a", nil}, value)
}

func TestParseValueRejectsBadInput(t *testing.T) {
	for _, doc := range []string{``, `{`, `{"a":1} {}`, `[1,]`, `nope`} {
		_, err := ParseValue([]byte(doc))
		assert.Error(t, err, doc)
	}
}

func TestUnmarshalNode(t *testing.T) {
	var n Node
	require.NoError(t, json.Unmarshal([]byte(`{"_type":"Ident","Name":"x"}`), &n))
	assert.Equal(t, "Ident", n.Kind)

	assert.Error(t, json.Unmarshal([]byte(`{"Name":"x"}`), &n))
}

func TestMarshalDoesNotEscapeHTML(t *testing.T) {
	n := &Node{Kind: "BasicLit", Fields: []Field{{Name: "Value", Value: `"<a&b>"`}}}
	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<a&b>`)
}

func TestPrintTreeJSON(t *testing.T) {
	n := &Node{Kind: "ExprStmt", Span: &Span{StartLine: 1, EndLine: 1, EndColumn: 1}, Fields: []Field{{Name: "X", Value: ident("x")}}}

	var compact bytes.Buffer
	require.NoError(t, PrintTreeJSON(n, "", &compact, &PrintOptions{IncludeSpans: false}))
	assert.Equal(t, `{"_type":"ExprStmt","X":{"_type":"Ident","Name":"x"}}`+"\n", compact.String())

	var indented bytes.Buffer
	require.NoError(t, PrintTreeJSON(n, "  ", &indented, &PrintOptions{IncludeSpans: true}))
	assert.Contains(t, indented.String(), "\n  \"lineno\": 1,\n")
}
