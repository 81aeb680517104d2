package common

import (
	"encoding/json"
	"fmt"
	"math"
)

// Span is the source extent of a node. Lines are 1-based, columns are 0-based
// byte offsets within the line.
type Span struct {
	StartLine   int // The starting line number of the node
	StartColumn int // The starting column of the node
	EndLine     int // The ending line number of the node
	EndColumn   int // The column just past the end of the node
}

func (x *Span) SpanString() string {
	return fmt.Sprintf("%d %d %d %d", x.StartLine, x.StartColumn, x.EndLine, x.EndColumn)
}

// Contains reports whether y lies within x.
func (x *Span) Contains(y *Span) bool {
	if y == nil {
		return false
	}
	startsAfter := x.StartLine < y.StartLine || (x.StartLine == y.StartLine && x.StartColumn <= y.StartColumn)
	endsBefore := x.EndLine > y.EndLine || (x.EndLine == y.EndLine && x.EndColumn >= y.EndColumn)
	return startsAfter && endsBefore
}

// AsInt accepts the integer representations a field value can arrive in:
// native integers from the encoder, json.Number from ParseValue, and
// integral float64 from encoding/json's default decoding.
func AsInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int64(v), true
		}
	}
	return 0, false
}
