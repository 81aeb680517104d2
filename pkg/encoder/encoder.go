// Package encoder turns source text into a Tree Node envelope.
package encoder

import (
	"go/ast"
	"go/token"
	"reflect"

	"github.com/spicery/astbridge/pkg/common"
	"github.com/spicery/astbridge/pkg/grammar"
	"github.com/spicery/astbridge/pkg/oracle"
)

// Encoder converts source text to a Tree Node using an oracle for parsing.
type Encoder struct {
	oracle oracle.Oracle
}

func New(o oracle.Oracle) *Encoder {
	return &Encoder{oracle: o}
}

// Encode parses src and returns the tree, or a failure envelope. It never
// panics.
func (e *Encoder) Encode(src string) (env common.Envelope) {
	defer func() {
		if r := recover(); r != nil {
			env = common.Failure(common.Recovered(r))
		}
	}()
	tree, err := e.oracle.Parse(src)
	if err != nil {
		return common.Failure(err)
	}
	root, err := EncodeTree(tree)
	if err != nil {
		return common.Failure(err)
	}
	return common.TreeResult(root)
}

// EncodeTree walks a native tree through the grammar registry.
func EncodeTree(tree *oracle.Tree) (*common.Node, error) {
	w := &walker{tree: tree}
	return w.node(tree.Root)
}

type walker struct {
	tree *oracle.Tree
}

func (w *walker) node(n ast.Node) (*common.Node, error) {
	prod, ok := grammar.ForNode(n)
	if !ok {
		return nil, common.Errorf(common.KindRuntimeError, "unregistered construct %T", n)
	}
	out := &common.Node{Kind: prod.Name, Fields: make([]common.Field, 0, len(prod.Fields))}
	if span, ok := w.tree.Span(n); ok {
		out.Span = span
	}
	v := reflect.ValueOf(n).Elem()
	for _, spec := range prod.Fields {
		value, err := w.field(spec, v.FieldByIndex(spec.Index))
		if err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, common.Field{Name: spec.Name, Value: value})
	}
	return out, nil
}

func (w *walker) field(spec grammar.FieldSpec, fv reflect.Value) (any, error) {
	switch spec.Kind {
	case grammar.Token:
		return grammar.TokenText(token.Token(fv.Int())), nil
	case grammar.Marker:
		return token.Pos(fv.Int()).IsValid(), nil
	case grammar.Child:
		return w.child(fv)
	case grammar.Children:
		// The printer tells a nil list from an empty one: a CaseClause
		// with no List is "default:".
		if fv.IsNil() {
			return nil, nil
		}
		items := make([]any, fv.Len())
		for i := range items {
			item, err := w.child(fv.Index(i))
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return items, nil
	}
	switch fv.Kind() {
	case reflect.String:
		return fv.String(), nil
	case reflect.Bool:
		return fv.Bool(), nil
	default:
		return fv.Int(), nil
	}
}

// child encodes an interface or pointer holding a node. Absent children,
// including typed nils, become null.
func (w *walker) child(fv reflect.Value) (any, error) {
	if fv.IsNil() {
		return nil, nil
	}
	if fv.Kind() == reflect.Interface && fv.Elem().Kind() == reflect.Pointer && fv.Elem().IsNil() {
		return nil, nil
	}
	node, err := w.node(fv.Interface().(ast.Node))
	if err != nil {
		return nil, err
	}
	return node, nil
}
