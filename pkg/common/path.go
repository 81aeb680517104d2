package common

import (
	"fmt"
	"strings"
)

// Path locates a value in a tree as a chain of steps back to the root.
// A nil *Path is the root itself.
type Path struct {
	Field  string // Field name, or empty for a list step
	Index  int    // Position in the list for a list step
	Others *Path
}

// Down extends p by a named field.
func (p *Path) Down(field string) *Path {
	return &Path{Field: field, Others: p}
}

// At extends p by a list position.
func (p *Path) At(index int) *Path {
	return &Path{Index: index, Others: p}
}

func (p *Path) String() string {
	if p == nil {
		return "root"
	}
	var steps []*Path
	for q := p; q != nil; q = q.Others {
		steps = append(steps, q)
	}
	var b strings.Builder
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		switch {
		case step.Field == "":
			fmt.Fprintf(&b, "[%d]", step.Index)
		case b.Len() == 0:
			b.WriteString(step.Field)
		default:
			b.WriteString(".")
			b.WriteString(step.Field)
		}
	}
	return b.String()
}
