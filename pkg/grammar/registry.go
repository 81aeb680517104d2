// Package grammar is the registry of Go grammar productions: for each
// concrete go/ast node it records the production name, how to construct it
// and the ordered list of structural fields with their kinds.
//
// The encoder walks native trees through this registry and the decoder
// dispatches on it, so the set of supported productions is explicit.
package grammar

import (
	"fmt"
	"go/ast"
	"go/token"
	"reflect"
	"sort"
)

// FieldKind classifies a structural field of a production.
type FieldKind int

const (
	Scalar   FieldKind = iota // string, bool or integer
	Token                     // token.Token, written as its text
	Marker                    // token.Pos whose validity alone carries meaning
	Child                     // a single node, possibly nil
	Children                  // an ordered sequence of nodes
)

func (k FieldKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Token:
		return "token"
	case Marker:
		return "marker"
	case Child:
		return "node"
	case Children:
		return "sequence"
	}
	return fmt.Sprintf("FieldKind(%d)", int(k))
}

// FieldSpec describes one structural field.
type FieldSpec struct {
	Name  string
	Kind  FieldKind
	Type  reflect.Type // The Go type of the field
	Index []int        // Index for reflect.Value.FieldByIndex
}

// Production is one grammar construct.
type Production struct {
	Name   string
	Type   reflect.Type // The struct type, e.g. ast.AssignStmt
	Fields []FieldSpec
	byName map[string]int
}

// New returns a pointer to a zero node of this production.
func (p *Production) New() reflect.Value {
	return reflect.New(p.Type)
}

// Field looks up a structural field by name.
func (p *Production) Field(name string) (FieldSpec, bool) {
	i, ok := p.byName[name]
	if !ok {
		return FieldSpec{}, false
	}
	return p.Fields[i], true
}

var (
	byName = map[string]*Production{}
	byType = map[reflect.Type]*Production{}

	nodeType  = reflect.TypeOf((*ast.Node)(nil)).Elem()
	posType   = reflect.TypeOf(token.NoPos)
	tokenType = reflect.TypeOf(token.ILLEGAL)
)

// markers are token.Pos fields that change the meaning of the tree.
var markers = map[string]bool{
	"CallExpr.Ellipsis": true, // f(xs...)
	"TypeSpec.Assign":   true, // type A = B
	"GenDecl.Lparen":    true, // parenthesized group
}

// derived are fields that duplicate other fields, hold resolver state, or
// are read from comments, which are not carried.
var derived = map[string]bool{
	"File.Imports":    true,
	"File.Unresolved": true,
	"File.Comments":   true,
	"File.Scope":      true,
	"File.GoVersion":  true, // from a //go:build line
	"Ident.Obj":       true,
}

func register(sample ast.Node) {
	t := reflect.TypeOf(sample).Elem()
	p := &Production{Name: t.Name(), Type: t, byName: map[string]int{}}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		qualified := p.Name + "." + sf.Name
		if !sf.IsExported() || derived[qualified] {
			continue
		}
		kind, ok := classify(qualified, sf.Type)
		if !ok {
			continue
		}
		p.byName[sf.Name] = len(p.Fields)
		p.Fields = append(p.Fields, FieldSpec{Name: sf.Name, Kind: kind, Type: sf.Type, Index: sf.Index})
	}
	byName[p.Name] = p
	byType[t] = p
}

// classify decides a field's kind. Plain positions are metadata and are
// reported as not structural.
func classify(qualified string, t reflect.Type) (FieldKind, bool) {
	switch {
	case t == posType:
		return Marker, markers[qualified]
	case t == tokenType:
		return Token, true
	case isNodeType(t):
		return Child, true
	case t.Kind() == reflect.Slice && isNodeType(t.Elem()):
		return Children, true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool, reflect.Int:
		return Scalar, true
	}
	panic(fmt.Sprintf("grammar: field %s has unsupported type %s", qualified, t))
}

func isNodeType(t reflect.Type) bool {
	if t.Kind() == reflect.Interface {
		return t.Implements(nodeType)
	}
	return t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct && t.Implements(nodeType)
}

// Lookup finds a production by name.
func Lookup(name string) (*Production, bool) {
	p, ok := byName[name]
	return p, ok
}

// ForNode finds the production of a native node.
func ForNode(n ast.Node) (*Production, bool) {
	t := reflect.TypeOf(n)
	if t == nil || t.Kind() != reflect.Pointer {
		return nil, false
	}
	p, ok := byType[t.Elem()]
	return p, ok
}

// Names returns every production name, sorted.
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
