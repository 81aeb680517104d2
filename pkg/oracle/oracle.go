// Package oracle wraps the grammar engine the bridge delegates to. The codec
// only sees the Oracle interface, so it can be exercised with a stub.
package oracle

import (
	"go/ast"
	"go/token"

	"github.com/spicery/astbridge/pkg/common"
)

// Oracle parses text into a native tree and prints a native tree as text.
type Oracle interface {
	Parse(src string) (*Tree, error)
	Unparse(root ast.Node) (string, error)
}

// Mode records what kind of source a Tree was parsed from.
type Mode int

const (
	ModeFile         Mode = iota // A complete file with a package clause
	ModeDeclarations             // A declaration list; the root File has no Name
	ModeStatements               // A statement list; the root is a BlockStmt
)

func (m Mode) String() string {
	switch m {
	case ModeFile:
		return "file"
	case ModeDeclarations:
		return "declarations"
	case ModeStatements:
		return "statements"
	}
	return "unknown"
}

// Tree is a parsed native tree plus what is needed to place its nodes.
type Tree struct {
	Root ast.Node
	Fset *token.FileSet // Nil for trees built without source
	Mode Mode

	// shift is the length of text injected before the first source line.
	shift int
}

// NewTree wraps a tree that has no source positions.
func NewTree(root ast.Node) *Tree {
	return &Tree{Root: root}
}

// Span returns the caller-visible extent of n, if the oracle knows it.
// Fragment roots are synthetic and have none.
func (t *Tree) Span(n ast.Node) (span *common.Span, ok bool) {
	if t.Fset == nil || n == nil {
		return nil, false
	}
	if t.Mode != ModeFile && n == t.Root {
		return nil, false
	}
	// Pos and End walk into children, which may be missing in hand-built trees.
	defer func() {
		if r := recover(); r != nil {
			span, ok = nil, false
		}
	}()
	pos, end := n.Pos(), n.End()
	if !pos.IsValid() || !end.IsValid() {
		return nil, false
	}
	start, stop := t.Fset.Position(pos), t.Fset.Position(end)
	if !start.IsValid() || !stop.IsValid() {
		return nil, false
	}
	return &common.Span{
		StartLine:   start.Line,
		StartColumn: t.column(start),
		EndLine:     stop.Line,
		EndColumn:   t.column(stop),
	}, true
}

// column converts a 1-based oracle column into a 0-based offset in the
// caller's text.
func (t *Tree) column(p token.Position) int {
	column := p.Column - 1
	if p.Line == 1 {
		column -= t.shift
	}
	return column
}
