// Package checker verifies the round-trip property of the bridge: decoding
// an encoded tree and encoding the result again gives the same tree shape,
// positions aside.
package checker

import (
	"fmt"
	"io"

	"github.com/spicery/astbridge/pkg/common"
	"github.com/spicery/astbridge/pkg/decoder"
	"github.com/spicery/astbridge/pkg/encoder"
	"github.com/spicery/astbridge/pkg/oracle"
)

// Bug is a round-trip failure: the bridge lost or changed something.
type Bug struct {
	Name    string
	Message string
}

// Issue is a problem with the input itself.
type Issue struct {
	Name    string
	Message string
}

// Checker runs the round trip over any number of sources.
type Checker struct {
	Bugs   common.List[Bug]
	Issues common.List[Issue]

	encoder *encoder.Encoder
	decoder *decoder.Decoder
}

func NewChecker(o oracle.Oracle) *Checker {
	return &Checker{
		encoder: encoder.New(o),
		decoder: decoder.New(o),
	}
}

// Result is the outcome of checking one source.
type Result struct {
	First    common.Envelope // Encoding of the original source
	Unparsed common.Envelope // Decoding of First
	Second   common.Envelope // Encoding of the unparsed source
	Diffs    []string
}

// OK reports whether the round trip preserved the tree.
func (r *Result) OK() bool {
	return r.First.OK && r.Unparsed.OK && r.Second.OK && len(r.Diffs) == 0
}

// Check runs one round trip, recording any bug or issue under name.
func (c *Checker) Check(name string, src string) *Result {
	r := &Result{First: c.encoder.Encode(src)}
	if !r.First.OK {
		c.Issues.Add(Issue{Name: name, Message: describeFailure("source does not parse", r.First.Error)})
		return r
	}

	r.Unparsed = c.decoder.Decode(r.First.AST)
	if !r.Unparsed.OK {
		c.Bugs.Add(Bug{Name: name, Message: describeFailure("tree does not unparse", r.Unparsed.Error)})
		return r
	}

	r.Second = c.encoder.Encode(*r.Unparsed.Source)
	if !r.Second.OK {
		c.Bugs.Add(Bug{Name: name, Message: describeFailure("unparsed source does not parse", r.Second.Error)})
		return r
	}

	r.Diffs = Diff(r.First.AST, r.Second.AST)
	for _, d := range r.Diffs {
		c.Bugs.Add(Bug{Name: name, Message: d})
	}
	return r
}

// OK reports whether nothing has gone wrong so far.
func (c *Checker) OK() bool {
	return c.Bugs.Len() == 0 && c.Issues.Len() == 0
}

func describeFailure(what string, info *common.ErrorInfo) string {
	if info.Lineno != nil {
		return fmt.Sprintf("%s: %s: %s, at line %d", what, info.Type, info.Msg, *info.Lineno)
	}
	return fmt.Sprintf("%s: %s: %s", what, info.Type, info.Msg)
}

func (c *Checker) ReportErrors(output io.Writer) {
	// First report any bugs and then move onto issues.
	if c.Bugs.Len() > 0 {
		fmt.Fprintln(output, "Round trip failures:")
		for i, bug := range c.Bugs.Items() {
			fmt.Fprintf(output, "  [%d]. %s: %s\n", i+1, bug.Name, bug.Message)
		}
	}
	if c.Issues.Len() > 0 {
		fmt.Fprintln(output, "Errors found in the source code:")
		for i, issue := range c.Issues.Items() {
			fmt.Fprintf(output, "  [%d]. %s: %s\n", i+1, issue.Name, issue.Message)
		}
	}
}
