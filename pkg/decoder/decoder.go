// Package decoder turns a Tree Node document back into source text.
package decoder

import (
	"fmt"
	"go/ast"
	"go/token"
	"reflect"
	"strings"

	"github.com/spicery/astbridge/pkg/common"
	"github.com/spicery/astbridge/pkg/grammar"
	"github.com/spicery/astbridge/pkg/oracle"
)

// markerPos stands in for a marker position. Any valid position will do;
// the printer only asks whether it is valid.
const markerPos = token.Pos(1)

// Decoder rebuilds native trees and prints them with an oracle.
type Decoder struct {
	oracle oracle.Oracle
}

func New(o oracle.Oracle) *Decoder {
	return &Decoder{oracle: o}
}

// DecodeJSON decodes raw JSON. Anything that is not a JSON document is an
// invalid format.
func (d *Decoder) DecodeJSON(data []byte) common.Envelope {
	doc, err := common.ParseValue(data)
	if err != nil {
		return common.Failure(common.ErrInvalidFormat())
	}
	return d.Decode(doc)
}

// Decode rebuilds doc and prints it. It never panics.
func (d *Decoder) Decode(doc any) (env common.Envelope) {
	defer func() {
		if r := recover(); r != nil {
			env = common.Failure(common.Recovered(r))
		}
	}()
	root, ok := common.AsNode(doc)
	if !ok {
		return common.Failure(common.ErrInvalidFormat())
	}
	native, err := Build(root)
	if err != nil {
		return common.Failure(err)
	}
	source, err := d.oracle.Unparse(native)
	if err != nil {
		if common.Classify(err) == common.KindRuntimeError {
			err = common.Errorf(common.KindValueError, "Failed to unparse AST: %v", err)
		}
		return common.Failure(err)
	}
	return common.SourceResult(source)
}

// Build reconstructs the native tree for n.
func Build(n *common.Node) (ast.Node, error) {
	prod, ok := grammar.Lookup(n.Kind)
	if !ok {
		return nil, common.Errorf(common.KindValueError, "Unknown AST node type: %s", n.Kind)
	}
	ptr := prod.New()
	for _, f := range n.Fields {
		if strings.HasPrefix(f.Name, "_") || common.IsPositionKey(f.Name) {
			continue
		}
		spec, ok := prod.Field(f.Name)
		if !ok {
			return nil, common.Errorf(common.KindTypeError, "%s got an unexpected field %q", prod.Name, f.Name)
		}
		if err := assign(prod, spec, ptr.Elem().FieldByIndex(spec.Index), f.Value); err != nil {
			return nil, err
		}
	}
	return ptr.Interface().(ast.Node), nil
}

func assign(prod *grammar.Production, spec grammar.FieldSpec, fv reflect.Value, value any) error {
	if value == nil {
		// Absent: leave the zero value.
		return nil
	}
	mismatch := func() error {
		return common.Errorf(common.KindTypeError, "field %s.%s expects %s, got %s",
			prod.Name, spec.Name, describeExpected(spec), describe(value))
	}

	switch spec.Kind {
	case grammar.Token:
		text, ok := value.(string)
		if !ok {
			return mismatch()
		}
		tok, ok := grammar.ParseToken(text)
		if !ok {
			return common.Errorf(common.KindValueError, "field %s.%s: unknown token %q", prod.Name, spec.Name, text)
		}
		fv.SetInt(int64(tok))
		return nil

	case grammar.Marker:
		set, ok := value.(bool)
		if !ok {
			return mismatch()
		}
		if set {
			fv.SetInt(int64(markerPos))
		}
		return nil

	case grammar.Child:
		child, err := buildChild(prod, spec, spec.Type, value, mismatch)
		if err != nil {
			return err
		}
		if child.IsValid() {
			fv.Set(child)
		}
		return nil

	case grammar.Children:
		// null was handled above and stays a nil slice; [] is an empty one.
		items, ok := value.([]any)
		if !ok {
			return mismatch()
		}
		slice := reflect.MakeSlice(spec.Type, len(items), len(items))
		for i, item := range items {
			if item == nil {
				continue
			}
			child, err := buildChild(prod, spec, spec.Type.Elem(), item, mismatch)
			if err != nil {
				return fmt.Errorf("%w (item %d)", err, i)
			}
			slice.Index(i).Set(child)
		}
		fv.Set(slice)
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		text, ok := value.(string)
		if !ok {
			return mismatch()
		}
		fv.SetString(text)
	case reflect.Bool:
		flag, ok := value.(bool)
		if !ok {
			return mismatch()
		}
		fv.SetBool(flag)
	default:
		number, ok := common.AsInt(value)
		if !ok {
			return mismatch()
		}
		fv.SetInt(number)
	}
	return nil
}

// buildChild rebuilds one nested node and checks it fits the field type.
func buildChild(prod *grammar.Production, spec grammar.FieldSpec, want reflect.Type, value any, mismatch func() error) (reflect.Value, error) {
	node, ok := common.AsNode(value)
	if !ok {
		return reflect.Value{}, mismatch()
	}
	native, err := Build(node)
	if err != nil {
		return reflect.Value{}, err
	}
	got := reflect.ValueOf(native)
	if !got.Type().AssignableTo(want) {
		return reflect.Value{}, common.Errorf(common.KindTypeError, "field %s.%s expects %s, got %s",
			prod.Name, spec.Name, want, node.Kind)
	}
	return got, nil
}

func describeExpected(spec grammar.FieldSpec) string {
	switch spec.Kind {
	case grammar.Token:
		return "a token string"
	case grammar.Marker:
		return "a boolean"
	case grammar.Children:
		return "a list of " + spec.Type.Elem().String()
	}
	return spec.Type.String()
}

// describe names the JSON type of a value for error messages.
func describe(value any) string {
	switch v := value.(type) {
	case *common.Node:
		if v == nil {
			return "null"
		}
		return v.Kind
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	if _, ok := common.AsInt(value); ok {
		return "number"
	}
	return fmt.Sprintf("%T", value)
}
