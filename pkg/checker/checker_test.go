package checker

import (
	"bytes"
	"go/build"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicery/astbridge/pkg/common"
	"github.com/spicery/astbridge/pkg/oracle"
)

func TestCheckRoundTrips(t *testing.T) {
	c := NewChecker(oracle.Default())
	for _, src := range []string{
		"x = 1 + 2",
		"f(xs...)",
		"type A = B",
		"var (\n\ta = 1\n\tb = 2\n)",
		"package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfor i := range 3 {\n\t\tfmt.Println(i)\n\t}\n}\n",
		"",
		"var x int",
		"var p pkgBuilder\nx := 1\nuse(p, x)",
		"switch x {\ncase 1:\n\tf()\ndefault:\n\tg()\n}",
		"switch v := x.(type) {\ncase int:\n\tuse(v)\ndefault:\n}",
		"select {\ncase v := <-ch:\n\tuse(v)\ndefault:\n}",
		"//go:build go1.4\n\npackage p\n",
		"package p\n\nfunc f[T any](xs ...T) (n int) {\n\treturn len(xs)\n}\n",
	} {
		r := c.Check("case", src)
		assert.True(t, r.OK(), "%q: %v", src, r.Diffs)
	}
	assert.True(t, c.OK())
}

func TestCheckReportsBadSourceAsIssue(t *testing.T) {
	c := NewChecker(oracle.Default())
	r := c.Check("broken.go", "def f(:")
	assert.False(t, r.OK())
	assert.Equal(t, 0, c.Bugs.Len())
	require.Equal(t, 1, c.Issues.Len())
	assert.Equal(t, "broken.go", c.Issues.Items()[0].Name)

	var out bytes.Buffer
	c.ReportErrors(&out)
	assert.Contains(t, out.String(), "Errors found in the source code:")
	assert.Contains(t, out.String(), "[1]. broken.go: source does not parse: SyntaxError")
}

func TestCheckReportsUnparseFailureAsBug(t *testing.T) {
	c := NewChecker(oracle.ParseOnly{Parser: oracle.Default()})
	r := c.Check("x.go", "x = 1")
	assert.False(t, r.OK())
	require.Equal(t, 1, c.Bugs.Len())
	assert.Contains(t, c.Bugs.Items()[0].Message, "NotImplementedError")

	var out bytes.Buffer
	c.ReportErrors(&out)
	assert.Contains(t, out.String(), "Round trip failures:")
}

func ident(name string) *common.Node {
	return &common.Node{Kind: "Ident", Fields: []common.Field{{Name: "Name", Value: name}}}
}

func TestDiffIgnoresSpans(t *testing.T) {
	a := ident("x")
	a.Span = &common.Span{StartLine: 1, EndLine: 1, EndColumn: 1}
	b := ident("x")
	assert.Empty(t, Diff(a, b))
}

func TestDiffNamesThePath(t *testing.T) {
	a := &common.Node{Kind: "ExprStmt", Fields: []common.Field{{Name: "X", Value: ident("x")}}}
	b := &common.Node{Kind: "ExprStmt", Fields: []common.Field{{Name: "X", Value: ident("y")}}}
	assert.Equal(t, []string{`X.Name: "x" != "y"`}, Diff(a, b))
}

func TestDiffLists(t *testing.T) {
	a := &common.Node{Kind: "BlockStmt", Fields: []common.Field{{Name: "List", Value: []any{ident("a"), nil}}}}
	b := &common.Node{Kind: "BlockStmt", Fields: []common.Field{{Name: "List", Value: []any{ident("a")}}}}
	assert.Equal(t, []string{"List: 2 items != 1"}, Diff(a, b))

	c := &common.Node{Kind: "BlockStmt", Fields: []common.Field{{Name: "List", Value: []any{ident("a"), ident("b")}}}}
	assert.Equal(t, []string{"List[1]: null != Ident"}, Diff(a, c))
}

func TestDiffKinds(t *testing.T) {
	assert.Equal(t, []string{"root: Ident != BasicLit"}, Diff(ident("x"), &common.Node{Kind: "BasicLit"}))
	assert.Equal(t, []string{"root: Ident != null"}, Diff(ident("x"), nil))
}

func TestDiffNumbersCompareByValue(t *testing.T) {
	a := &common.Node{Kind: "ChanType", Fields: []common.Field{{Name: "Dir", Value: int64(3)}}}
	b := &common.Node{Kind: "ChanType", Fields: []common.Field{{Name: "Dir", Value: 3}}}
	assert.Empty(t, Diff(a, b))
}

func TestCheckGoAstSources(t *testing.T) {
	files, err := filepath.Glob(filepath.Join(build.Default.GOROOT, "src", "go", "ast", "*.go"))
	require.NoError(t, err)
	if len(files) == 0 {
		t.Skip("no Go sources under GOROOT")
	}

	c := NewChecker(oracle.Default())
	for _, file := range files {
		data, err := os.ReadFile(file)
		require.NoError(t, err)
		c.Check(filepath.Base(file), string(data))
	}
	if !c.OK() {
		var out bytes.Buffer
		c.ReportErrors(&out)
		t.Fatalf("round trip failed:\n%s", out.String())
	}
}
