package checker

import (
	"fmt"

	"github.com/spicery/astbridge/pkg/common"
)

// Diff lists the structural differences between two trees, ignoring
// positions. Each entry names the path where the trees part.
func Diff(a, b *common.Node) []string {
	var diffs []string
	diffNode(nil, a, b, &diffs)
	return diffs
}

func diffNode(path *common.Path, a, b *common.Node, diffs *[]string) {
	if a == nil || b == nil {
		if a != b {
			*diffs = append(*diffs, fmt.Sprintf("%s: %s != %s", path, kindOf(a), kindOf(b)))
		}
		return
	}
	if a.Kind != b.Kind {
		*diffs = append(*diffs, fmt.Sprintf("%s: %s != %s", path, a.Kind, b.Kind))
		return
	}
	if len(a.Fields) != len(b.Fields) {
		*diffs = append(*diffs, fmt.Sprintf("%s: %s has %d fields != %d", path, a.Kind, len(a.Fields), len(b.Fields)))
		return
	}
	for i, fa := range a.Fields {
		fb := b.Fields[i]
		if fa.Name != fb.Name {
			*diffs = append(*diffs, fmt.Sprintf("%s: field %s != %s", path, fa.Name, fb.Name))
			continue
		}
		diffValue(path.Down(fa.Name), fa.Value, fb.Value, diffs)
	}
}

func diffValue(path *common.Path, a, b any, diffs *[]string) {
	switch va := a.(type) {
	case *common.Node:
		vb, ok := b.(*common.Node)
		if !ok && b != nil {
			*diffs = append(*diffs, fmt.Sprintf("%s: %s != %v", path, kindOf(va), b))
			return
		}
		diffNode(path, va, vb, diffs)
		return
	case []any:
		vb, ok := b.([]any)
		if !ok {
			*diffs = append(*diffs, fmt.Sprintf("%s: list != %v", path, b))
			return
		}
		if len(va) != len(vb) {
			*diffs = append(*diffs, fmt.Sprintf("%s: %d items != %d", path, len(va), len(vb)))
			return
		}
		for i := range va {
			diffValue(path.At(i), va[i], vb[i], diffs)
		}
		return
	case nil:
		if vb, ok := b.(*common.Node); ok {
			diffNode(path, nil, vb, diffs)
			return
		}
	}
	if !sameScalar(a, b) {
		*diffs = append(*diffs, fmt.Sprintf("%s: %s != %s", path, common.ScalarString(a), common.ScalarString(b)))
	}
}

func sameScalar(a, b any) bool {
	if x, ok := common.AsInt(a); ok {
		y, ok := common.AsInt(b)
		return ok && x == y
	}
	return a == b
}

func kindOf(n *common.Node) string {
	if n == nil {
		return "null"
	}
	return n.Kind
}
