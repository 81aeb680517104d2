package encoder

import (
	"bytes"
	"encoding/json"
	"errors"
	"go/ast"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicery/astbridge/pkg/common"
	"github.com/spicery/astbridge/pkg/oracle"
)

// stubOracle returns a fixed tree or error from Parse.
type stubOracle struct {
	tree *oracle.Tree
	err  error
}

func (s stubOracle) Parse(src string) (*oracle.Tree, error) {
	return s.tree, s.err
}

func (s stubOracle) Unparse(root ast.Node) (string, error) {
	return "", errors.New("stub cannot unparse")
}

type panickyOracle struct{ stubOracle }

func (panickyOracle) Parse(src string) (*oracle.Tree, error) {
	panic("boom")
}

// unknownNode is a node the registry has never heard of.
type unknownNode struct{}

func (unknownNode) Pos() token.Pos { return token.NoPos }
func (unknownNode) End() token.Pos { return token.NoPos }

func wire(t *testing.T, env common.Envelope) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, common.WriteEnvelope(&buf, env))
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")), "exactly one line")
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestEncodeAssignment(t *testing.T) {
	env := New(oracle.Default()).Encode("x = 1 + 2")
	require.True(t, env.OK)

	root := env.AST
	assert.Equal(t, "BlockStmt", root.Kind)
	assert.Nil(t, root.Span)

	list, ok := root.Get("List")
	require.True(t, ok)
	stmts := list.([]any)
	require.Len(t, stmts, 1)
	assign := stmts[0].(*common.Node)
	assert.Equal(t, "AssignStmt", assign.Kind)
	tok, _ := assign.Get("Tok")
	assert.Equal(t, "=", tok)

	rhs, _ := assign.Get("Rhs")
	binary := rhs.([]any)[0].(*common.Node)
	assert.Equal(t, "BinaryExpr", binary.Kind)
	op, _ := binary.Get("Op")
	assert.Equal(t, "+", op)
}

func TestEncodeWireShape(t *testing.T) {
	out := wire(t, New(oracle.Default()).Encode("package main\n\nvar x = 1\n"))
	assert.Equal(t, true, out["ok"])
	root := out["ast"].(map[string]any)
	assert.Equal(t, "File", root["_type"])
	assert.Equal(t, float64(1), root["lineno"])
	assert.Equal(t, float64(0), root["col_offset"])
	assert.Nil(t, root["Doc"])
	assert.Contains(t, root, "Doc")
	assert.NotContains(t, root, "Package")
	assert.NotContains(t, root, "Scope")

	name := root["Name"].(map[string]any)
	assert.Equal(t, "Ident", name["_type"])
	assert.Equal(t, "main", name["Name"])
}

func TestEncodeKeyOrder(t *testing.T) {
	env := New(oracle.Default()).Encode("y := a")
	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(data),
		`{"_type":"AssignStmt","lineno":1,"col_offset":0,"end_lineno":1,"end_col_offset":6,"Lhs":[`)
}

func TestEncodeMultilinePositions(t *testing.T) {
	src := "package p\n\nfunc f() {\n\treturn\n}\n"
	env := New(oracle.Default()).Encode(src)
	require.True(t, env.OK)

	decls, _ := env.AST.Get("Decls")
	fn := decls.([]any)[0].(*common.Node)
	require.NotNil(t, fn.Span)
	assert.Equal(t, common.Span{StartLine: 3, StartColumn: 0, EndLine: 5, EndColumn: 1}, *fn.Span)

	body, _ := fn.Get("Body")
	ret := body.(*common.Node)
	list, _ := ret.Get("List")
	stmt := list.([]any)[0].(*common.Node)
	assert.Equal(t, "ReturnStmt", stmt.Kind)
	assert.Equal(t, common.Span{StartLine: 4, StartColumn: 1, EndLine: 4, EndColumn: 7}, *stmt.Span)
}

func TestEncodeSyntheticNodeOmitsPositions(t *testing.T) {
	tree := oracle.NewTree(&ast.ExprStmt{X: &ast.CallExpr{Fun: ast.NewIdent("f")}})
	out := wire(t, New(stubOracle{tree: tree}).Encode("ignored"))
	require.Equal(t, true, out["ok"])

	root := out["ast"].(map[string]any)
	for _, key := range []string{"lineno", "col_offset", "end_lineno", "end_col_offset"} {
		assert.NotContains(t, root, key)
	}
	call := root["X"].(map[string]any)
	assert.NotContains(t, call, "lineno")
	assert.Equal(t, false, call["Ellipsis"])
	assert.Contains(t, call, "Args")
	assert.Nil(t, call["Args"])
}

func TestEncodeKeepsNilListsApartFromEmptyOnes(t *testing.T) {
	tree := oracle.NewTree(&ast.CallExpr{Fun: ast.NewIdent("f"), Args: []ast.Expr{}})
	env := New(stubOracle{tree: tree}).Encode("ignored")
	require.True(t, env.OK)
	args, _ := env.AST.Get("Args")
	assert.Equal(t, []any{}, args)
}

func TestEncodeDefaultClause(t *testing.T) {
	env := New(oracle.Default()).Encode("switch x {\ncase 1:\n\tf()\ndefault:\n\tg()\n}")
	require.True(t, env.OK)
	list, _ := env.AST.Get("List")
	sw := list.([]any)[0].(*common.Node)
	body, _ := sw.Get("Body")
	clauses, _ := body.(*common.Node).Get("List")
	require.Len(t, clauses.([]any), 2)

	caseList, _ := clauses.([]any)[0].(*common.Node).Get("List")
	assert.Len(t, caseList, 1)
	defaultList, ok := clauses.([]any)[1].(*common.Node).Get("List")
	require.True(t, ok)
	assert.Nil(t, defaultList)
}

func TestEncodeMarkers(t *testing.T) {
	env := New(oracle.Default()).Encode("f(xs...)")
	require.True(t, env.OK)
	list, _ := env.AST.Get("List")
	expr := list.([]any)[0].(*common.Node)
	x, _ := expr.Get("X")
	ellipsis, _ := x.(*common.Node).Get("Ellipsis")
	assert.Equal(t, true, ellipsis)
}

func TestEncodeSyntaxError(t *testing.T) {
	out := wire(t, New(oracle.Default()).Encode("def f(:"))
	assert.Equal(t, false, out["ok"])
	errInfo := out["error"].(map[string]any)
	assert.Equal(t, "SyntaxError", errInfo["type"])
	assert.NotEmpty(t, errInfo["msg"])
	assert.Equal(t, float64(1), errInfo["lineno"])
	assert.Contains(t, errInfo, "offset")
	assert.Equal(t, "def f(:", errInfo["text"])
}

func TestEncodeSyntaxErrorWithoutPosition(t *testing.T) {
	out := wire(t, New(stubOracle{err: &common.SyntaxError{Msg: "bad"}}).Encode(""))
	errInfo := out["error"].(map[string]any)
	assert.Equal(t, "SyntaxError", errInfo["type"])
	assert.Contains(t, errInfo, "lineno")
	assert.Nil(t, errInfo["lineno"])
	assert.Nil(t, errInfo["offset"])
	assert.Nil(t, errInfo["text"])
}

func TestEncodeGarbage(t *testing.T) {
	for _, src := range []string{"\xff\xfe\x00\x01", "}}}", "package", "func (", "\x00"} {
		env := New(oracle.Default()).Encode(src)
		require.False(t, env.OK, "%q", src)
		assert.Equal(t, common.KindSyntaxError, env.Error.Type, "%q", src)
	}
}

func TestEncodeEmptySource(t *testing.T) {
	env := New(oracle.Default()).Encode("")
	require.True(t, env.OK)
	assert.Equal(t, "File", env.AST.Kind)
	name, _ := env.AST.Get("Name")
	assert.Nil(t, name)
}

func TestEncodeOtherFailure(t *testing.T) {
	env := New(stubOracle{err: common.Errorf(common.KindValueError, "no such thing")}).Encode("x")
	require.False(t, env.OK)
	assert.Equal(t, "ValueError", env.Error.Type)
	assert.Equal(t, "no such thing", env.Error.Msg)
	assert.Nil(t, env.Error.Lineno)

	out := wire(t, env)
	assert.NotContains(t, out["error"], "lineno")
}

func TestEncodeUnregisteredConstruct(t *testing.T) {
	env := New(stubOracle{tree: oracle.NewTree(unknownNode{})}).Encode("x")
	require.False(t, env.OK)
	assert.Equal(t, "RuntimeError", env.Error.Type)
}

func TestEncodeRecoversFromPanics(t *testing.T) {
	env := New(panickyOracle{}).Encode("x")
	require.False(t, env.OK)
	assert.Equal(t, "RuntimeError", env.Error.Type)
	assert.Equal(t, "boom", env.Error.Msg)
}
