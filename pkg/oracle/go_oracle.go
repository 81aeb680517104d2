package oracle

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/scanner"
	"go/token"
	"strings"

	"github.com/spicery/astbridge/pkg/common"
)

const (
	declPrefix = "package p;"
	stmtPrefix = "package p; func _() {"
	stmtSuffix = "\n\n}"
)

// Go is the oracle backed by go/parser and go/printer.
type Go struct {
	// Fragments allows sources without a package clause, as gofmt does.
	Fragments bool
	TabWidth  int
	UseTabs   bool
}

func NewGo(config *common.Config) *Go {
	return &Go{
		Fragments: !config.NoFragments,
		TabWidth:  config.TabWidth,
		UseTabs:   config.UseTabs,
	}
}

func Default() *Go {
	return NewGo(common.DefaultConfig())
}

const parserMode = parser.SkipObjectResolution

// Parse tries src as a file, then as a declaration list, then as a
// statement list. Each fallback only happens when the previous attempt
// failed for want of the missing context.
func (o *Go) Parse(src string) (*Tree, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parserMode)
	if err == nil {
		return &Tree{Root: file, Fset: fset, Mode: ModeFile}, nil
	}
	if !o.Fragments || !strings.Contains(err.Error(), "expected 'package'") {
		return nil, syntaxError(err, src, 0)
	}

	// A declaration list: the package clause is separated by ';' so line
	// numbers are unchanged.
	fset = token.NewFileSet()
	file, err = parser.ParseFile(fset, "", declPrefix+src, parserMode)
	if err == nil {
		file.Name = nil
		return &Tree{Root: file, Fset: fset, Mode: ModeDeclarations, shift: len(declPrefix)}, nil
	}
	if !strings.Contains(err.Error(), "expected declaration") {
		return nil, syntaxError(err, src, len(declPrefix))
	}

	// A statement list, which also covers bare expressions.
	fset = token.NewFileSet()
	file, err = parser.ParseFile(fset, "", stmtPrefix+src+stmtSuffix, parserMode)
	if err != nil {
		return nil, syntaxError(err, src, len(stmtPrefix))
	}
	body := file.Decls[0].(*ast.FuncDecl).Body
	return &Tree{Root: body, Fset: fset, Mode: ModeStatements, shift: len(stmtPrefix)}, nil
}

// syntaxError places the first parser error in the caller's text.
func syntaxError(err error, src string, shift int) error {
	var list scanner.ErrorList
	if !errors.As(err, &list) || len(list) == 0 {
		return &common.SyntaxError{Msg: err.Error()}
	}
	first := list[0]
	if !first.Pos.IsValid() {
		return &common.SyntaxError{Msg: first.Msg}
	}
	line, offset := first.Pos.Line, first.Pos.Column
	if line == 1 {
		offset = max(offset-shift, 1)
	}
	lines := strings.Split(src, "\n")
	if line > len(lines) {
		// The error is in injected text after the source: report it at the
		// end of the last line.
		line = len(lines)
		offset = len(lines[line-1]) + 1
	}
	syntaxErr := &common.SyntaxError{Msg: first.Msg, Line: &line, Offset: &offset}
	if line >= 1 {
		text := strings.TrimSuffix(lines[line-1], "\r")
		syntaxErr.Text = &text
	}
	return syntaxErr
}

// Unparse prints root. A File without a Name prints as a declaration list
// and a root BlockStmt prints as a statement list, mirroring Parse.
func (o *Go) Unparse(root ast.Node) (source string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("printer: %v", r)
		}
	}()

	var node any = root
	wholeFile := false
	switch n := root.(type) {
	case *ast.File:
		if n.Name == nil {
			node = n.Decls
		} else {
			wholeFile = true
		}
	case *ast.BlockStmt:
		node = n.List
	}

	mode := printer.TabIndent | printer.UseSpaces
	if o.UseTabs {
		mode = printer.TabIndent
	}
	tabWidth := o.TabWidth
	if tabWidth <= 0 {
		tabWidth = common.DefaultTabWidth
	}
	config := printer.Config{Mode: mode, Tabwidth: tabWidth}

	var buf bytes.Buffer
	if err := config.Fprint(&buf, token.NewFileSet(), node); err != nil {
		return "", err
	}
	// Files end with a newline, as gofmt writes them; anything smaller is
	// returned bare.
	source = strings.TrimRight(buf.String(), "\n")
	if wholeFile {
		source += "\n"
	}
	return source, nil
}

// ParseOnly is an oracle without an unparse facility.
type ParseOnly struct {
	Parser Oracle
}

func (o ParseOnly) Parse(src string) (*Tree, error) {
	return o.Parser.Parse(src)
}

func (o ParseOnly) Unparse(root ast.Node) (string, error) {
	return "", common.Errorf(common.KindNotImplementedError, "unparse is not supported by this oracle")
}
